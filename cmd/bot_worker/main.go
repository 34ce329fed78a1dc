package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"team_chat_service/internal/assistant"
	"team_chat_service/internal/chat/app"
	"team_chat_service/internal/chat/repository"
	"team_chat_service/pkg/config"
	"team_chat_service/pkg/database"
	"team_chat_service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.BotWorker, config.EnvConfig.BotWorkerLogPath)
	defer logger.Log.Sync()
	cfg := config.LoadConfig[config.BotWorker](config.EnvConfig.BotWorker, config.EnvConfig.BotWorkerYAMLPath)

	pgConn := database.Connection{
		ConnectStr: database.PGConnectString(cfg.PostgreSQL.User, cfg.PostgreSQL.Password,
			cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database),
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	}
	db, err := database.NewPGConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL (gorm) after retries", zap.Error(err))
	}
	pool, err := database.NewDatabaseConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL (pgx) after retries", zap.Error(err))
	}
	defer pool.Close()

	conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr: fmt.Sprintf("amqp://%s:%s@%s:%s/",
			cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port),
		RetryCount:    cfg.RabbitMQ.RetryCount,
		RetryInterval: time.Duration(cfg.RabbitMQ.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("connect rabbitMQ failed", zap.Error(err))
	}
	defer conn.Close()
	ch, err := database.GetRabbitMQChannelWithRetry(conn, cfg.RabbitMQ.RetryCount, time.Duration(cfg.RabbitMQ.RetryInterval))
	if err != nil {
		logger.Log.Fatal("open rabbitMQ channel failed", zap.Error(err))
	}
	defer ch.Close()

	rabbit := database.NewRabbitRepository(ch)
	if err := rabbit.DeclareQueue(cfg.Bot.Queue); err != nil {
		logger.Log.Fatal("declare bot queue failed", zap.String("queue", cfg.Bot.Queue), zap.Error(err))
	}

	responder := assistant.NewIntentResponder(repository.NewUserRepository(pool), assistant.NewPGWorkloadSource(pool))
	replier := app.NewBotReplier(repository.NewUnitOfWork(db), responder, app.SystemClock{}, cfg.Bot.ReplyTimeout, cfg.Bot.FallbackReply)
	worker := app.NewBotWorker(rabbit, replier, cfg.Bot.Queue, cfg.Bot.MaxAttempts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := worker.Start(ctx); err != nil {
		logger.Log.Fatal("bot worker stopped", zap.Error(err))
	}
}
