package assistant

import (
	"strings"
	"unicode"
)

// IntentName 使用者訊息的分類
type IntentName string

const (
	IntentHelp            IntentName = "help"
	IntentProjectProgress IntentName = "project_progress"
	IntentMyTasks         IntentName = "my_tasks"
	IntentReport          IntentName = "report"
	IntentUsageGuide      IntentName = "usage_guide"
	IntentGreeting        IntentName = "greeting"
	IntentUnknown         IntentName = "unknown"
)

// utterance normalized message text plus its word set
type utterance struct {
	text  string
	words map[string]struct{}
}

func newUtterance(raw string) utterance {
	text := strings.ToLower(strings.TrimSpace(raw))
	words := map[string]struct{}{}
	for _, w := range strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) }) {
		words[w] = struct{}{}
	}
	return utterance{text: text, words: words}
}

func (u utterance) contains(keys ...string) bool {
	for _, k := range keys {
		if strings.Contains(u.text, k) {
			return true
		}
	}
	return false
}

func (u utterance) hasWord(keys ...string) bool {
	for _, k := range keys {
		if _, ok := u.words[k]; ok {
			return true
		}
	}
	return false
}

// Intent 一條規則, Match 為 true 時採用
type Intent struct {
	Name  IntentName
	Match func(u utterance) bool
}

// defaultIntents 依序比對, 第一個符合的勝出
var defaultIntents = []Intent{
	{Name: IntentHelp, Match: func(u utterance) bool { return u.contains("help") }},
	{Name: IntentProjectProgress, Match: func(u utterance) bool {
		return u.contains("project") && u.contains("status", "progress", "list")
	}},
	// "my" 只比對完整單字: "myriad task ideas", "mytasks" 不算 my_tasks
	{Name: IntentMyTasks, Match: func(u utterance) bool {
		return u.contains("task") && (u.hasWord("my") || u.contains("list", "how many"))
	}},
	{Name: IntentReport, Match: func(u utterance) bool { return u.contains("report") }},
	{Name: IntentUsageGuide, Match: func(u utterance) bool { return u.contains("how to use") }},
	// greeting 只比對完整單字, 避免 "this" 之類被當成 hi
	{Name: IntentGreeting, Match: func(u utterance) bool { return u.hasWord("hello", "hi") }},
}

// Classifier ordered intent table
type Classifier struct {
	intents []Intent
}

// NewClassifier intents 為空時使用預設規則
func NewClassifier(intents ...Intent) *Classifier {
	if len(intents) == 0 {
		intents = defaultIntents
	}
	return &Classifier{intents: intents}
}

// Classify first matching intent, IntentUnknown otherwise
func (c *Classifier) Classify(text string) IntentName {
	u := newUtterance(text)
	for _, in := range c.intents {
		if in.Match(u) {
			return in.Name
		}
	}
	return IntentUnknown
}
