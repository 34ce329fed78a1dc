package handlers

import (
	"context"
	"fmt"
	"strconv"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/pkg/logger"
	"team_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ConversationService conversation directory
type ConversationService interface {
	ListConversations(ctx context.Context, callerID uint) (*domain.Conversations, error)
}

// MessageService message retrieval and delivery
type MessageService interface {
	GetMessages(ctx context.Context, callerID uint, target domain.Target) ([]domain.MessageView, error)
	Send(ctx context.Context, callerID uint, req domain.SendMessageReq) (*domain.MessageView, error)
	Delete(ctx context.Context, callerID, messageID uint, mode string) error
	Clear(ctx context.Context, callerID uint, target domain.Target) (int64, error)
	Forward(ctx context.Context, callerID uint, req domain.ForwardReq) (int, error)
}

// ChatHandler 處理 /chat 相關的 HTTP 請求
type ChatHandler struct {
	conversations ConversationService
	messages      MessageService
}

// NewChatHandler create ChatHandler
func NewChatHandler(conversations ConversationService, messages MessageService) *ChatHandler {
	return &ChatHandler{conversations: conversations, messages: messages}
}

// SendRequest POST /chat/send body
type SendRequest struct {
	Content       string  `json:"content" example:"hello"`
	RecipientID   *uint   `json:"recipient_id" example:"2"`
	GroupID       *uint   `json:"group_id"`
	AttachmentURL *string `json:"attachment_url"`
	MessageType   string  `json:"message_type" example:"text"`
}

// TargetRequest user_id xor group_id, group_id wins when both are set
type TargetRequest struct {
	UserID  *uint `json:"user_id"`
	GroupID *uint `json:"group_id"`
}

// ForwardRequest POST /chat/messages/forward body
type ForwardRequest struct {
	MessageID    uint   `json:"message_id" example:"10"`
	RecipientIDs []uint `json:"recipient_ids"`
	GroupIDs     []uint `json:"group_ids"`
}

// ListConversations 取得群組與同公司使用者
// @Summary List conversations
// @Description Groups the caller belongs to and same-company users, each with unread_count
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=domain.Conversations}
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /chat/conversations [get]
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	callerID, _ := middlewares.UserID(c)
	convs, err := h.conversations.ListConversations(c.UserContext(), callerID)
	if err != nil {
		return fail(c, err, "Failed to get conversations")
	}
	return success(c, fiber.StatusOK, "Conversations retrieved", convs)
}

// GetMessages 取得對話訊息並標記已讀
// @Summary Get messages
// @Description Latest messages of one conversation, oldest first. Marks them read for the caller.
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "DM counterpart"
// @Param group_id query int false "Group id, wins over user_id"
// @Success 200 {object} Response{data=[]domain.MessageView}
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Router /chat/messages [get]
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	callerID, _ := middlewares.UserID(c)
	target, ok := targetFromQuery(c)
	if !ok {
		return badRequest(c, "Invalid user_id or group_id")
	}

	msgs, err := h.messages.GetMessages(c.UserContext(), callerID, target)
	if err != nil {
		return fail(c, err, "Failed to get messages")
	}
	return success(c, fiber.StatusOK, "Messages retrieved", msgs)
}

// Send 發送訊息
// @Summary Send message
// @Description DM (recipient_id) or group (group_id) message. A DM to a bot account triggers an automated reply.
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendRequest true "message"
// @Success 201 {object} Response{data=domain.MessageView}
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Failure 429 {object} Response
// @Router /chat/send [post]
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	callerID, _ := middlewares.UserID(c)
	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	view, err := h.messages.Send(c.UserContext(), callerID, domain.SendMessageReq{
		Content:       req.Content,
		RecipientID:   req.RecipientID,
		GroupID:       req.GroupID,
		AttachmentURL: req.AttachmentURL,
		MessageType:   req.MessageType,
	})
	if err != nil {
		logger.Log.Debug("send failed", zap.Uint("user_id", callerID), zap.Error(err))
		return fail(c, err, "Failed to send message")
	}
	return success(c, fiber.StatusCreated, "Message sent", view)
}

// DeleteMessage 刪除訊息
// @Summary Delete message
// @Description mode=me hides for the caller, mode=everyone redacts for all viewers (sender only)
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message id"
// @Param mode query string false "me (default) or everyone"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /chat/messages/{id} [delete]
func (h *ChatHandler) DeleteMessage(c *fiber.Ctx) error {
	callerID, _ := middlewares.UserID(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "Invalid message id")
	}

	if err := h.messages.Delete(c.UserContext(), callerID, uint(id), c.Query("mode", "me")); err != nil {
		return fail(c, err, "Failed to delete message")
	}
	return success(c, fiber.StatusOK, "Message deleted", nil)
}

// ClearConversation 清除對話 (只對自己)
// @Summary Clear conversation
// @Description Hide every message of a DM or group for the caller only
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TargetRequest true "target"
// @Success 200 {object} Response{data=CountData}
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Router /chat/conversations/clear [post]
func (h *ChatHandler) ClearConversation(c *fiber.Ctx) error {
	callerID, _ := middlewares.UserID(c)
	var req TargetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	count, err := h.messages.Clear(c.UserContext(), callerID, domain.Target{UserID: req.UserID, GroupID: req.GroupID})
	if err != nil {
		return fail(c, err, "Failed to clear chat")
	}
	return success(c, fiber.StatusOK, fmt.Sprintf("Chat cleared (%d messages)", count), CountData{Count: count})
}

// ForwardMessage 轉發訊息
// @Summary Forward message
// @Description Copy a visible message to same-company users and groups the caller belongs to
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ForwardRequest true "forward"
// @Success 200 {object} Response{data=CountData}
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /chat/messages/forward [post]
func (h *ChatHandler) ForwardMessage(c *fiber.Ctx) error {
	callerID, _ := middlewares.UserID(c)
	var req ForwardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	count, err := h.messages.Forward(c.UserContext(), callerID, domain.ForwardReq{
		MessageID:    req.MessageID,
		RecipientIDs: req.RecipientIDs,
		GroupIDs:     req.GroupIDs,
	})
	if err != nil {
		return fail(c, err, "Failed to forward")
	}
	return success(c, fiber.StatusOK, fmt.Sprintf("Forwarded to %d chats", count), CountData{Count: int64(count)})
}

func targetFromQuery(c *fiber.Ctx) (domain.Target, bool) {
	var t domain.Target
	for key, dst := range map[string]**uint{"user_id": &t.UserID, "group_id": &t.GroupID} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || v == 0 {
			return t, false
		}
		id := uint(v)
		*dst = &id
	}
	return t, true
}
