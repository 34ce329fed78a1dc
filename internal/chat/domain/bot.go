package domain

import "time"

// BotReplyJob queue payload for an asynchronous bot reply
type BotReplyJob struct {
	JobID     string    `json:"job_id"`
	BotID     uint      `json:"bot_id"`
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	MessageID uint      `json:"message_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BotMode bot dispatch strategy
type BotMode string

const (
	// BotModeSync reply generated in the request with a timeout
	BotModeSync BotMode = "sync"
	// BotModeQueue reply generated by bot_worker
	BotModeQueue BotMode = "queue"
)
