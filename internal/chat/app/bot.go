package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/internal/chat/repository"
	"team_chat_service/pkg/database"
	"team_chat_service/pkg/logger"
	"team_chat_service/pkg/middlewares"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Responder 產生 bot 回覆文字
type Responder interface {
	Reply(ctx context.Context, userID uint, text string) (string, error)
}

// BotDispatcher 對 bot 收件人觸發回覆, 不回傳錯誤, 失敗只記 log
type BotDispatcher interface {
	Dispatch(ctx context.Context, bot *domain.User, userID uint, trigger *domain.Message)
}

// HumanRecipient no reply for human recipients
type HumanRecipient struct{}

// Dispatch no-op
func (HumanRecipient) Dispatch(context.Context, *domain.User, uint, *domain.Message) {}

// DispatcherFor HumanRecipient unless recipient is a bot
func DispatcherFor(recipient *domain.User, bots BotDispatcher) BotDispatcher {
	if recipient == nil || !recipient.IsBot || bots == nil {
		return HumanRecipient{}
	}
	return bots
}

// BotReplier call the Responder with a deadline and persist the reply
type BotReplier struct {
	uow       repository.UnitOfWork
	responder Responder
	clock     Clock
	timeout   time.Duration
	fallback  string
}

// NewBotReplier timeout <= 0 預設 3 秒
func NewBotReplier(uow repository.UnitOfWork, responder Responder, clock Clock, timeout time.Duration, fallback string) *BotReplier {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &BotReplier{uow: uow, responder: responder, clock: clock, timeout: timeout, fallback: fallback}
}

type replyResult struct {
	text string
	err  error
}

// Generate Responder 超時或失敗時回傳 error
func (r *BotReplier) Generate(ctx context.Context, userID uint, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ch := make(chan replyResult, 1)
	go func() {
		reply, err := r.responder.Reply(ctx, userID, text)
		ch <- replyResult{text: reply, err: err}
	}()

	select {
	case res := <-ch:
		if res.err == nil && res.text == "" {
			return "", errors.New("responder returned empty reply")
		}
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Fallback configured fallback text, empty means no reply
func (r *BotReplier) Fallback() string {
	return r.fallback
}

// Persist reply authored by the bot, addressed to the user, unread, own transaction
func (r *BotReplier) Persist(ctx context.Context, botID, userID uint, content string) (*domain.Message, error) {
	recipient := userID
	msg := &domain.Message{
		SenderID:    botID,
		RecipientID: &recipient,
		Content:     content,
		MessageType: domain.MessageTypeText,
		IsRead:      false,
		CreatedAt:   r.clock.Now(),
	}
	err := r.uow.WithinTx(ctx, func(repos repository.Repos) error {
		return repos.Messages.Create(ctx, msg)
	})
	if err != nil {
		return nil, err
	}
	middlewares.MessagesCreatedTotal.WithLabelValues("bot").Inc()
	return msg, nil
}

// SyncBotDispatcher reply generated inside the request, bounded by the replier timeout
type SyncBotDispatcher struct {
	replier *BotReplier
}

// NewSyncBotDispatcher create SyncBotDispatcher
func NewSyncBotDispatcher(replier *BotReplier) *SyncBotDispatcher {
	return &SyncBotDispatcher{replier: replier}
}

// Dispatch the user's message is already committed when this runs
func (d *SyncBotDispatcher) Dispatch(ctx context.Context, bot *domain.User, userID uint, trigger *domain.Message) {
	outcome := "replied"
	text, err := d.replier.Generate(ctx, userID, trigger.Content)
	if err != nil {
		logger.Log.Warn("bot responder failed, using fallback",
			zap.Uint("bot_id", bot.ID), zap.Uint("user_id", userID), zap.Error(err))
		text = d.replier.Fallback()
		outcome = "fallback"
	}
	if text == "" {
		middlewares.BotRepliesTotal.WithLabelValues("skipped").Inc()
		return
	}

	if _, err := d.replier.Persist(context.WithoutCancel(ctx), bot.ID, userID, text); err != nil {
		logger.Log.Error("persist bot reply failed",
			zap.Uint("bot_id", bot.ID), zap.Uint("user_id", userID), zap.Error(err))
		middlewares.BotRepliesTotal.WithLabelValues("failed").Inc()
		return
	}
	middlewares.BotRepliesTotal.WithLabelValues(outcome).Inc()
}

// AttemptHeader delivery attempt counter on queued jobs
const AttemptHeader = "x-attempt"

// QueueBotDispatcher publish a BotReplyJob for bot_worker
type QueueBotDispatcher struct {
	rabbit database.RabbitRepo
	queue  string
	clock  Clock
}

// NewQueueBotDispatcher create QueueBotDispatcher, queue 需先 declare
func NewQueueBotDispatcher(rabbit database.RabbitRepo, queue string, clock Clock) *QueueBotDispatcher {
	return &QueueBotDispatcher{rabbit: rabbit, queue: queue, clock: clock}
}

// Dispatch publish failure is logged and swallowed
func (d *QueueBotDispatcher) Dispatch(_ context.Context, bot *domain.User, userID uint, trigger *domain.Message) {
	job := domain.BotReplyJob{
		JobID:     uuid.NewString(),
		BotID:     bot.ID,
		UserID:    userID,
		Content:   trigger.Content,
		MessageID: trigger.ID,
		CreatedAt: d.clock.Now(),
	}
	if err := publishJob(d.rabbit, d.queue, job, 1); err != nil {
		logger.Log.Error("publish bot reply job failed",
			zap.String("job_id", job.JobID), zap.Uint("bot_id", bot.ID), zap.Error(err))
		middlewares.BotRepliesTotal.WithLabelValues("failed").Inc()
		return
	}
	middlewares.BotRepliesTotal.WithLabelValues("queued").Inc()
}

func publishJob(rabbit database.RabbitRepo, queue string, job domain.BotReplyJob, attempt int) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rabbit.Publish("", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    job.JobID,
		Timestamp:    job.CreatedAt,
		Headers:      amqp.Table{AttemptHeader: int32(attempt)},
		Body:         body,
	})
}
