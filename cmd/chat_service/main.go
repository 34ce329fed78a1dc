package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"team_chat_service/internal/assistant"
	"team_chat_service/internal/chat/api/handlers"
	"team_chat_service/internal/chat/api/router"
	"team_chat_service/internal/chat/app"
	"team_chat_service/internal/chat/domain"
	"team_chat_service/internal/chat/repository"
	"team_chat_service/pkg/config"
	"team_chat_service/pkg/database"
	"team_chat_service/pkg/logger"
	"team_chat_service/pkg/middlewares"
	testtool "team_chat_service/pkg/test_tool"
	"team_chat_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	defer logger.Log.Sync()
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)
	testtool.StartPprof()

	token.SetSecret(cfg.JWT.Secret)

	// 1. PostgreSQL: gorm 管訊息與群組, pgx 讀共用的 users / projects / tasks
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
	if err := repository.AutoMigrate(db); err != nil {
		logger.Log.Fatal("auto migrate failed", zap.Error(err))
	}
	pool, err := database.NewDatabaseConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL (pgx) after retries", zap.Error(err))
	}
	defer pool.Close()

	// 2. Redis: identity cache, 沒設定 sentinel 就不開
	users := repository.NewUserRepository(pool)
	if masterName, sentinels := config.GetRedisSetting(); len(sentinels) > 0 && cfg.Redis.UserCacheTTL > 0 {
		cache, err := database.NewRedisRepository[domain.User](masterName, sentinels, cfg.Redis.RedisDB)
		if err != nil {
			logger.Log.Warn("redis unavailable, user cache disabled", zap.Error(err))
		} else {
			users = repository.NewCachedUserRepository(users, cache, cfg.Redis.UserCacheTTL)
		}
	}

	// 3. MinIO: attachment presign (optional)
	var signer app.AttachmentSigner
	if cfg.MinIO.Host != "" {
		mc, err := database.NewMinIOConnection(database.MinIOConnection{
			Endpoint:      fmt.Sprintf("%s:%d", cfg.MinIO.Host, cfg.MinIO.Port),
			User:          cfg.MinIO.User,
			Password:      cfg.MinIO.Password,
			BucketName:    cfg.MinIO.BucketName,
			UseSSL:        cfg.MinIO.UseSSL,
			RetryCount:    cfg.MinIO.RetryCount,
			RetryInterval: cfg.MinIO.RetryInterval,
		})
		if err != nil {
			logger.Log.Warn("minIO unavailable, attachments are returned as stored", zap.Error(err))
		} else {
			signer = repository.NewMinIOAttachmentSigner(mc, cfg.MinIO.PresignExpiry)
		}
	}

	// 4. UseCases
	clock := app.SystemClock{}
	uow := repository.NewUnitOfWork(db)
	identity := app.NewIdentityDirectory(users)

	var bots app.BotDispatcher
	switch domain.BotMode(cfg.Bot.Mode) {
	case domain.BotModeQueue:
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
		bots = app.NewQueueBotDispatcher(rabbit, cfg.Bot.Queue, clock)
	default:
		responder := assistant.NewIntentResponder(users, assistant.NewPGWorkloadSource(pool))
		replier := app.NewBotReplier(uow, responder, clock, cfg.Bot.ReplyTimeout, cfg.Bot.FallbackReply)
		bots = app.NewSyncBotDispatcher(replier)
	}
	logger.Log.Info("bot reply mode", zap.String("mode", cfg.Bot.Mode))

	conversationUC := app.NewConversationUseCase(uow, identity)
	messageUC := app.NewMessageUseCase(uow, identity, app.NewVisibilityFilter(signer), bots, clock)
	groupUC := app.NewGroupUseCase(uow, identity, clock)

	// 5. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r,
		identity,
		middlewares.NewLimiterPool(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		handlers.NewChatHandler(conversationUC, messageUC),
		handlers.NewGroupHandler(groupUC),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Log.Info("shutting down chat service")
		if err := r.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.Error("fiber shutdown", zap.Error(err))
		}
	}()

	port := ":" + cfg.Port
	logger.Log.Info("Chat Service listening", zap.String("port", port))
	if err := r.Listen(port); err != nil {
		logger.Log.Fatal("Failed to start Fiber", zap.Error(err))
	}
}
