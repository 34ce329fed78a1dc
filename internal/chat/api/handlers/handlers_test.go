package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"team_chat_service/internal/chat/domain"
	errprocess "team_chat_service/pkg/err"
	"team_chat_service/pkg/logger"
	"team_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app      *fiber.App
	convs    *mockConversationService
	messages *mockMessageService
	groups   *mockGroupService
}

func newTestServer() *testServer {
	logger.SetNewNop()
	s := &testServer{
		app:      fiber.New(),
		convs:    new(mockConversationService),
		messages: new(mockMessageService),
		groups:   new(mockGroupService),
	}
	chat := NewChatHandler(s.convs, s.messages)
	group := NewGroupHandler(s.groups)

	r := s.app.Group("/chat", middlewares.JWTMiddleware(tokenTable{"token-1": 1}))
	r.Get("/conversations", chat.ListConversations)
	r.Post("/conversations/clear", chat.ClearConversation)
	r.Get("/messages", chat.GetMessages)
	r.Delete("/messages/:id", chat.DeleteMessage)
	r.Post("/send", chat.Send)
	r.Post("/messages/forward", chat.ForwardMessage)
	r.Post("/groups", group.CreateGroup)
	r.Put("/groups/:id", group.RenameGroup)
	r.Delete("/groups/:id/members", group.LeaveGroup)
	return s
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, Response) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer token-1")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func uptr(v uint) *uint { return &v }

func TestChatHandler_Auth(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/chat/conversations", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/chat/conversations?auth=bogus", nil)
	resp, err = s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	s.convs.AssertNotCalled(t, "ListConversations", mock.Anything, mock.Anything)
}

func TestChatHandler_ListConversations(t *testing.T) {
	s := newTestServer()
	s.convs.On("ListConversations", mock.Anything, uint(1)).Return(&domain.Conversations{
		Groups: []domain.GroupSummary{{ID: 7, Name: "Ops", UnreadCount: 2}},
		Users:  []domain.UserSummary{},
	}, nil)

	code, body := s.do(t, http.MethodGet, "/chat/conversations", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "Conversations retrieved", body.Message)
	data := body.Data.(map[string]interface{})
	assert.Len(t, data["groups"], 1)
}

func TestChatHandler_GetMessages(t *testing.T) {
	t.Run("group wins and permission maps to 403", func(t *testing.T) {
		s := newTestServer()
		s.messages.On("GetMessages", mock.Anything, uint(1), domain.Target{UserID: uptr(2), GroupID: uptr(7)}).
			Return(nil, errprocess.Permission("Not a member of this group"))

		code, body := s.do(t, http.MethodGet, "/chat/messages?user_id=2&group_id=7", "")

		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "Not a member of this group", body.Message)
	})

	t.Run("bad id", func(t *testing.T) {
		s := newTestServer()
		code, _ := s.do(t, http.MethodGet, "/chat/messages?user_id=abc", "")
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("ok", func(t *testing.T) {
		s := newTestServer()
		s.messages.On("GetMessages", mock.Anything, uint(1), domain.Target{UserID: uptr(2)}).
			Return([]domain.MessageView{{ID: 1, Content: "hi"}}, nil)

		code, body := s.do(t, http.MethodGet, "/chat/messages?user_id=2", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body.Data, 1)
	})
}

func TestChatHandler_Send(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		s := newTestServer()
		s.messages.On("Send", mock.Anything, uint(1), domain.SendMessageReq{Content: "hi", RecipientID: uptr(2)}).
			Return(&domain.MessageView{ID: 1000, Content: "hi"}, nil)

		code, body := s.do(t, http.MethodPost, "/chat/send", `{"content":"hi","recipient_id":2}`)

		assert.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "Message sent", body.Message)
	})

	t.Run("validation maps to 400", func(t *testing.T) {
		s := newTestServer()
		s.messages.On("Send", mock.Anything, uint(1), mock.Anything).Return(nil, errprocess.Validation("Content required"))

		code, body := s.do(t, http.MethodPost, "/chat/send", `{"content":""}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Content required", body.Message)
	})

	t.Run("internal error hides details", func(t *testing.T) {
		s := newTestServer()
		s.messages.On("Send", mock.Anything, uint(1), mock.Anything).
			Return(nil, errprocess.Internal("send message", errors.New("pq: connection refused")))

		code, body := s.do(t, http.MethodPost, "/chat/send", `{"content":"x","group_id":3}`)

		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Failed to send message", body.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		s := newTestServer()
		code, _ := s.do(t, http.MethodPost, "/chat/send", `{"content":`)
		assert.Equal(t, http.StatusBadRequest, code)
		s.messages.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestChatHandler_DeleteMessage(t *testing.T) {
	t.Run("default mode is me", func(t *testing.T) {
		s := newTestServer()
		s.messages.On("Delete", mock.Anything, uint(1), uint(5), "me").Return(nil)

		code, body := s.do(t, http.MethodDelete, "/chat/messages/5", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Message deleted", body.Message)
	})

	t.Run("non sender everyone", func(t *testing.T) {
		s := newTestServer()
		s.messages.On("Delete", mock.Anything, uint(1), uint(5), "everyone").
			Return(errprocess.Permission("Only sender can delete for everyone"))

		code, _ := s.do(t, http.MethodDelete, "/chat/messages/5?mode=everyone", "")
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("not found", func(t *testing.T) {
		s := newTestServer()
		s.messages.On("Delete", mock.Anything, uint(1), uint(9), "me").Return(errprocess.NotFound("Message not found"))

		code, _ := s.do(t, http.MethodDelete, "/chat/messages/9", "")
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestChatHandler_ClearAndForward(t *testing.T) {
	s := newTestServer()
	s.messages.On("Clear", mock.Anything, uint(1), domain.Target{GroupID: uptr(7)}).Return(int64(3), nil)
	s.messages.On("Forward", mock.Anything, uint(1), domain.ForwardReq{MessageID: 5, RecipientIDs: []uint{2}, GroupIDs: []uint{7}}).
		Return(2, nil)

	code, body := s.do(t, http.MethodPost, "/chat/conversations/clear", `{"group_id":7}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Chat cleared (3 messages)", body.Message)
	assert.Equal(t, float64(3), body.Data.(map[string]interface{})["count"])

	code, body = s.do(t, http.MethodPost, "/chat/messages/forward", `{"message_id":5,"recipient_ids":[2],"group_ids":[7]}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Forwarded to 2 chats", body.Message)
}

func TestGroupHandler(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		s := newTestServer()
		s.groups.On("Create", mock.Anything, uint(1), domain.CreateGroupReq{Name: "Ops", MemberIDs: []uint{2, 3}}).
			Return(&domain.GroupSummary{ID: 50, Name: "Ops", MembersCount: 3}, nil)

		code, body := s.do(t, http.MethodPost, "/chat/groups", `{"name":"Ops","member_ids":[2,3]}`)

		assert.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "Group created", body.Message)
	})

	t.Run("rename non member", func(t *testing.T) {
		s := newTestServer()
		s.groups.On("Rename", mock.Anything, uint(1), uint(7), "New").Return(nil, errprocess.Permission("Not a member of this group"))

		code, _ := s.do(t, http.MethodPut, "/chat/groups/7", `{"name":"New"}`)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("leave", func(t *testing.T) {
		s := newTestServer()
		s.groups.On("Leave", mock.Anything, uint(1), uint(7)).Return(nil)

		code, body := s.do(t, http.MethodDelete, "/chat/groups/7/members", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Left group successfully", body.Message)
	})

	t.Run("bad id", func(t *testing.T) {
		s := newTestServer()
		code, _ := s.do(t, http.MethodDelete, "/chat/groups/x/members", "")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
