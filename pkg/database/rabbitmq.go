package database

import (
	"fmt"
	"time"

	"team_chat_service/pkg/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// RabbitRepo definition rabbit repo
type RabbitRepo interface {
	DeclareQueue(name string) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string) (<-chan amqp.Delivery, error)
}

type rabbitRepo struct {
	channel *amqp.Channel
}

// NewRabbitRepository create a RabbitRepository
func NewRabbitRepository(ch *amqp.Channel) RabbitRepo {
	return &rabbitRepo{channel: ch}
}

// ConnectRabbitMQWithRetry 嘗試連線到 RabbitMQ，失敗時固定間隔重試
func ConnectRabbitMQWithRetry(d Connection) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error

	for attempt := 1; attempt <= d.RetryCount; attempt++ {
		conn, err = amqp.Dial(d.ConnectStr)
		if err == nil {
			logger.Log.Info("RabbitMQ connected", zap.Int("attempt", attempt))
			return conn, nil
		}

		logger.Log.Warn("RabbitMQ connect failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max", d.RetryCount),
			zap.Error(err),
		)
		time.Sleep(d.RetryInterval * time.Second)
	}

	return nil, fmt.Errorf("無法連線 RabbitMQ，經過 %d 次嘗試: %v", d.RetryCount, err)
}

// GetRabbitMQChannelWithRetry 使用已有的 RabbitMQ 連線嘗試取得 Channel
func GetRabbitMQChannelWithRetry(conn *amqp.Connection, maxRetries int, baseDelay time.Duration) (*amqp.Channel, error) {
	var ch *amqp.Channel
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ch, err = conn.Channel()
		if err == nil {
			return ch, nil
		}

		logger.Log.Warn("RabbitMQ channel failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(baseDelay * time.Second)
	}

	return nil, fmt.Errorf("無法取得 RabbitMQ Channel，經過 %d 次嘗試: %v", maxRetries, err)
}

// DeclareQueue durable queue, 重複宣告是安全的
func (r *rabbitRepo) DeclareQueue(name string) error {
	_, err := r.channel.QueueDeclare(name, true, false, false, false, nil)
	return err
}

func (r *rabbitRepo) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return r.channel.Publish(exchange, key, mandatory, immediate, msg)
}

// Consume manual ack, one message in flight
func (r *rabbitRepo) Consume(queue, consumer string) (<-chan amqp.Delivery, error) {
	if err := r.channel.Qos(1, 0, false); err != nil {
		return nil, err
	}
	return r.channel.Consume(queue, consumer, false, false, false, false, nil)
}
