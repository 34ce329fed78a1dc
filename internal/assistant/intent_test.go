package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier()
	cases := []struct {
		text string
		want IntentName
	}{
		{"Help!", IntentHelp},
		{"help me with my tasks", IntentHelp},
		{"project status please", IntentProjectProgress},
		{"list projects", IntentProjectProgress},
		{"show my tasks", IntentMyTasks},
		{"How many tasks do I have?", IntentMyTasks},
		{"task list", IntentMyTasks},
		{"where is the report", IntentReport},
		{"how to use this app", IntentUsageGuide},
		{"Hi there", IntentGreeting},
		{"hello", IntentGreeting},
		{"this is odd", IntentUnknown},
		{"", IntentUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.text))
		})
	}
}

func TestClassifier_WholeWordKeywords(t *testing.T) {
	c := NewClassifier()
	cases := []struct {
		text string
		want IntentName
	}{
		// "my" and greetings only count as whole words
		{"mytasks", IntentUnknown},
		{"myriad task ideas", IntentUnknown},
		{"shipping update", IntentUnknown},
		{"whistle", IntentUnknown},
		{"my task", IntentMyTasks},
		{"hi, any task list?", IntentMyTasks},
		{"hi!", IntentGreeting},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.text))
		})
	}
}

func TestClassifier_CustomIntents(t *testing.T) {
	c := NewClassifier(Intent{Name: IntentReport, Match: func(u utterance) bool { return u.hasWord("stats") }})

	assert.Equal(t, IntentReport, c.Classify("stats please"))
	assert.Equal(t, IntentUnknown, c.Classify("help"))
}
