package handlers

import (
	errprocess "team_chat_service/pkg/err"

	"github.com/gofiber/fiber/v2"
)

// Response 統一回傳格式
type Response struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message" example:"Message sent"`
	Data    interface{} `json:"data,omitempty"`
}

// CountData count of affected conversations / messages
type CountData struct {
	Count int64 `json:"count"`
}

func success(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(Response{Status: "success", Message: message, Data: data})
}

// fail kind 決定 http status, internal error 不回傳細節
func fail(c *fiber.Ctx, err error, fallback string) error {
	return c.Status(errprocess.StatusCode(err)).JSON(Response{
		Status:  "error",
		Message: errprocess.PublicMessage(err, fallback),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: message})
}
