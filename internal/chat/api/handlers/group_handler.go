package handlers

import (
	"context"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// GroupService group lifecycle
type GroupService interface {
	Create(ctx context.Context, callerID uint, req domain.CreateGroupReq) (*domain.GroupSummary, error)
	Rename(ctx context.Context, callerID, groupID uint, name string) (*domain.GroupSummary, error)
	Leave(ctx context.Context, callerID, groupID uint) error
}

// GroupHandler 處理群組相關的 HTTP 請求
type GroupHandler struct {
	groups GroupService
}

// NewGroupHandler create GroupHandler
func NewGroupHandler(groups GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// CreateGroupRequest POST /chat/groups body
type CreateGroupRequest struct {
	Name      string `json:"name" example:"Launch"`
	MemberIDs []uint `json:"member_ids"`
}

// RenameGroupRequest PUT /chat/groups/{id} body
type RenameGroupRequest struct {
	Name string `json:"name" example:"Launch v2"`
}

// CreateGroup 建立群組
// @Summary Create group
// @Description Creator joins automatically; other members must be active users of the same company
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGroupRequest true "group"
// @Success 201 {object} Response{data=domain.GroupSummary}
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Router /chat/groups [post]
func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	callerID, _ := middlewares.UserID(c)
	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	group, err := h.groups.Create(c.UserContext(), callerID, domain.CreateGroupReq{Name: req.Name, MemberIDs: req.MemberIDs})
	if err != nil {
		return fail(c, err, "Failed to create group")
	}
	return success(c, fiber.StatusCreated, "Group created", group)
}

// RenameGroup 重新命名群組
// @Summary Rename group
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group id"
// @Param request body RenameGroupRequest true "new name"
// @Success 200 {object} Response{data=domain.GroupSummary}
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /chat/groups/{id} [put]
func (h *GroupHandler) RenameGroup(c *fiber.Ctx) error {
	callerID, _ := middlewares.UserID(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "Invalid group id")
	}
	var req RenameGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	group, err := h.groups.Rename(c.UserContext(), callerID, uint(id), req.Name)
	if err != nil {
		return fail(c, err, "Failed to rename group")
	}
	return success(c, fiber.StatusOK, "Group renamed", group)
}

// LeaveGroup 離開群組, 最後一人離開時群組會被刪除
// @Summary Leave group
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group id"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /chat/groups/{id}/members [delete]
func (h *GroupHandler) LeaveGroup(c *fiber.Ctx) error {
	callerID, _ := middlewares.UserID(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "Invalid group id")
	}

	if err := h.groups.Leave(c.UserContext(), callerID, uint(id)); err != nil {
		return fail(c, err, "Failed to leave group")
	}
	return success(c, fiber.StatusOK, "Left group successfully", nil)
}
