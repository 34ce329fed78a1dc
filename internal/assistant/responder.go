package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/internal/chat/repository"
	"team_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// maxListedTasks my tasks 最多列出幾筆
const maxListedTasks = 5

const (
	replyNoProfile = "I'm sorry, I can't find your user profile."
	replyHelp      = "Here's what I can do:\n" +
		"- 'My tasks': List your pending assignments.\n" +
		"- 'Project status': Summary of projects you lead.\n" +
		"- 'How to use': General usage tips.\n" +
		"- 'Report': Where to find analytics."
	replyReport = "To view detailed reports, please visit the 'Dashboard' section of the application."
	replyUsage  = "To use the app:\n" +
		"1. **Projects**: Create and manage projects.\n" +
		"2. **Tasks**: Assign tasks to team members.\n" +
		"3. **Chat**: Collaborate with your team.\n" +
		"Navigate using the sidebar on the left."
	replyUnknown    = "I'm not sure I understand. Try asking about 'my tasks', 'project status', or 'help'."
	replyNoProjects = "You are not managing any projects currently."
	replyNoTasks    = "You have no pending tasks. Great job!"
)

// UserFinder profile lookup for greetings
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

// IntentResponder answers bot DMs from an ordered intent table
type IntentResponder struct {
	users      UserFinder
	workload   WorkloadSource
	classifier *Classifier
}

// NewIntentResponder create IntentResponder with the default intents
func NewIntentResponder(users UserFinder, workload WorkloadSource) *IntentResponder {
	return &IntentResponder{users: users, workload: workload, classifier: NewClassifier()}
}

// Reply reply text for one user message
func (r *IntentResponder) Reply(ctx context.Context, userID uint, text string) (string, error) {
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return replyNoProfile, nil
		}
		return "", err
	}

	intent := r.classifier.Classify(text)
	logger.Log.Debug("assistant intent", zap.Uint("user_id", userID), zap.String("intent", string(intent)))

	switch intent {
	case IntentHelp:
		return replyHelp, nil
	case IntentProjectProgress:
		return r.projectProgress(ctx, user)
	case IntentMyTasks:
		return r.myTasks(ctx, user)
	case IntentReport:
		return replyReport, nil
	case IntentUsageGuide:
		return replyUsage, nil
	case IntentGreeting:
		return fmt.Sprintf("Hello %s! I am your AI Assistant. Ask me about your 'tasks', 'projects', or help on 'how to use' the app.", user.FirstName), nil
	default:
		return replyUnknown, nil
	}
}

func (r *IntentResponder) projectProgress(ctx context.Context, user *domain.User) (string, error) {
	projects, err := r.workload.ManagedProjects(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return replyNoProjects, nil
	}

	var b strings.Builder
	b.WriteString("Here are your projects:\n")
	for _, p := range projects {
		fmt.Fprintf(&b, "- **%s**: %d%% complete (%d/%d tasks)\n", p.Title, p.Percent(), p.Completed, p.Total)
	}
	return b.String(), nil
}

func (r *IntentResponder) myTasks(ctx context.Context, user *domain.User) (string, error) {
	tasks, err := r.workload.PendingTasks(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if len(tasks) == 0 {
		return replyNoTasks, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d pending tasks:\n", len(tasks))
	for i, t := range tasks {
		if i == maxListedTasks {
			break
		}
		due := "No date"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- %s (Due: %s)\n", t.Title, due)
	}
	if len(tasks) > maxListedTasks {
		fmt.Fprintf(&b, "...and %d more.", len(tasks)-maxListedTasks)
	}
	return b.String(), nil
}
