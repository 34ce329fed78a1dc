package app

import (
	"context"
	"encoding/json"
	"time"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/pkg/database"
	"team_chat_service/pkg/logger"
	"team_chat_service/pkg/middlewares"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// BotWorker 消費 bot_reply queue, 產生並寫入 bot 回覆
type BotWorker struct {
	rabbit      database.RabbitRepo
	replier     *BotReplier
	queue       string
	maxAttempts int
	retryDelay  time.Duration
}

// NewBotWorker maxAttempts <= 0 預設 3
func NewBotWorker(rabbit database.RabbitRepo, replier *BotReplier, queue string, maxAttempts int) *BotWorker {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &BotWorker{
		rabbit:      rabbit,
		replier:     replier,
		queue:       queue,
		maxAttempts: maxAttempts,
		retryDelay:  time.Second,
	}
}

// Start 持續監聽直到 ctx 結束或 channel 關閉
func (w *BotWorker) Start(ctx context.Context) error {
	msgs, err := w.rabbit.Consume(w.queue, "bot_worker")
	if err != nil {
		return err
	}

	logger.Log.Info("bot worker started", zap.String("queue", w.queue))
	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				logger.Log.Warn("bot reply channel closed")
				return nil
			}
			w.Handle(ctx, d)
		case <-ctx.Done():
			logger.Log.Info("bot worker stopping")
			return nil
		}
	}
}

// Handle process one delivery; every path acks or nacks exactly once
func (w *BotWorker) Handle(ctx context.Context, d amqp.Delivery) {
	var job domain.BotReplyJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logger.Log.Error("bad bot reply job, dropping", zap.Error(err))
		if err := d.Nack(false, false); err != nil {
			logger.Log.Error("nack failed", zap.Error(err))
		}
		return
	}

	attempt := attemptOf(d)
	fields := []zap.Field{zap.String("job_id", job.JobID), zap.Int("attempt", attempt)}

	outcome := "replied"
	text, err := w.replier.Generate(ctx, job.UserID, job.Content)
	if err != nil {
		if attempt < w.maxAttempts {
			logger.Log.Warn("bot responder failed, retrying", append(fields, zap.Error(err))...)
			w.retry(d, job, attempt)
			return
		}
		logger.Log.Warn("bot responder exhausted retries, using fallback", append(fields, zap.Error(err))...)
		text = w.replier.Fallback()
		outcome = "fallback"
	}

	if text == "" {
		middlewares.BotRepliesTotal.WithLabelValues("skipped").Inc()
		w.ack(d)
		return
	}

	if _, err := w.replier.Persist(ctx, job.BotID, job.UserID, text); err != nil {
		logger.Log.Error("persist bot reply failed", append(fields, zap.Error(err))...)
		if attempt < w.maxAttempts {
			w.retry(d, job, attempt)
			return
		}
		middlewares.BotRepliesTotal.WithLabelValues("failed").Inc()
		if err := d.Nack(false, false); err != nil {
			logger.Log.Error("nack failed", zap.Error(err))
		}
		return
	}

	middlewares.BotRepliesTotal.WithLabelValues(outcome).Inc()
	w.ack(d)
}

// retry republish with attempt+1, original is acked only after the copy is queued
func (w *BotWorker) retry(d amqp.Delivery, job domain.BotReplyJob, attempt int) {
	time.Sleep(w.retryDelay)
	if err := publishJob(w.rabbit, w.queue, job, attempt+1); err != nil {
		logger.Log.Error("republish bot reply job failed", zap.String("job_id", job.JobID), zap.Error(err))
		if err := d.Nack(false, true); err != nil {
			logger.Log.Error("nack failed", zap.Error(err))
		}
		return
	}
	w.ack(d)
}

func (w *BotWorker) ack(d amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		logger.Log.Error("ack failed", zap.Error(err))
	}
}

func attemptOf(d amqp.Delivery) int {
	switch v := d.Headers[AttemptHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 1
	}
}
