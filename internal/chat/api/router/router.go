package router

import (
	_ "team_chat_service/docs" // swagger docs
	"team_chat_service/internal/chat/api/comm"
	"team_chat_service/internal/chat/api/handlers"
	"team_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes 注册 chat 相關的路由
// @title Team Chat Service API
// @version 1.0
// @description Direct messages, group chat and assistant bot replies for project teams
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func RegisterRoutes(
	app *fiber.App,
	resolver middlewares.TokenResolver,
	limiter *middlewares.LimiterPool,
	chatHandler *handlers.ChatHandler,
	groupHandler *handlers.GroupHandler,
) {
	app.Use(middlewares.PrometheusMiddleware())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/", comm.ConnectCheck)
	app.Post("/debug", comm.DebugLogFlag)

	chatRoutes := app.Group("/chat", middlewares.JWTMiddleware(resolver))
	chatRoutes.Get("/conversations", chatHandler.ListConversations)
	chatRoutes.Post("/conversations/clear", chatHandler.ClearConversation)
	chatRoutes.Get("/messages", chatHandler.GetMessages)
	chatRoutes.Delete("/messages/:id", chatHandler.DeleteMessage)

	// 會寫入訊息的路由才限流
	chatRoutes.Post("/send", middlewares.UserRateLimiter(limiter), chatHandler.Send)
	chatRoutes.Post("/messages/forward", middlewares.UserRateLimiter(limiter), chatHandler.ForwardMessage)

	chatRoutes.Post("/groups", groupHandler.CreateGroup)
	chatRoutes.Put("/groups/:id", groupHandler.RenameGroup)
	chatRoutes.Delete("/groups/:id/members", groupHandler.LeaveGroup)
}
