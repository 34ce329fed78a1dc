package app

import (
	"context"
	"strings"
	"time"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/internal/chat/repository"
	"team_chat_service/pkg"
	errprocess "team_chat_service/pkg/err"
	"team_chat_service/pkg/logger"
	"team_chat_service/pkg/middlewares"

	"go.uber.org/zap"
)

// RetrievalLimit 每次最多回傳的訊息數
const RetrievalLimit = 200

// MessageUseCase retrieval and delivery of messages
type MessageUseCase struct {
	uow        repository.UnitOfWork
	identity   IdentityDirectory
	visibility *VisibilityFilter
	bots       BotDispatcher
	clock      Clock
}

// NewMessageUseCase bots 為 nil 時不會產生 bot 回覆
func NewMessageUseCase(
	uow repository.UnitOfWork,
	identity IdentityDirectory,
	visibility *VisibilityFilter,
	bots BotDispatcher,
	clock Clock,
) *MessageUseCase {
	return &MessageUseCase{
		uow:        uow,
		identity:   identity,
		visibility: visibility,
		bots:       bots,
		clock:      clock,
	}
}

// GetMessages latest messages of one conversation, oldest first, and marks them read
func (uc *MessageUseCase) GetMessages(ctx context.Context, callerID uint, target domain.Target) ([]domain.MessageView, error) {
	if target.IsEmpty() {
		return nil, errprocess.Validation("Target (user_id or group_id) required")
	}
	if _, err := uc.identity.Lookup(ctx, callerID); err != nil {
		return nil, err
	}

	var (
		msgs   []domain.Message
		hidden map[uint]struct{}
	)
	err := uc.uow.WithinTx(ctx, func(r repository.Repos) error {
		var err error
		if target.IsGroup() {
			groupID := *target.GroupID
			ok, err := r.Groups.IsMember(ctx, groupID, callerID)
			if err != nil {
				return err
			}
			if !ok {
				return errprocess.Permission("Not a member of this group")
			}
			if msgs, err = r.Messages.ListGroup(ctx, groupID, RetrievalLimit); err != nil {
				return err
			}
			if hidden, err = r.Messages.HiddenAmong(ctx, callerID, messageIDs(msgs)); err != nil {
				return err
			}
			return r.Groups.AdvanceCursor(ctx, groupID, callerID, uc.clock.Now())
		}

		otherID := *target.UserID
		if msgs, err = r.Messages.ListDirect(ctx, callerID, otherID, RetrievalLimit); err != nil {
			return err
		}
		if hidden, err = r.Messages.HiddenAmong(ctx, callerID, messageIDs(msgs)); err != nil {
			return err
		}
		flipped, err := r.Messages.MarkDirectRead(ctx, otherID, callerID)
		if err != nil {
			return err
		}
		if flipped > 0 {
			for i := range msgs {
				if msgs[i].SenderID == otherID {
					msgs[i].IsRead = true
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrap("get messages", err)
	}

	names, err := uc.identity.DisplayNames(ctx, senderIDs(msgs))
	if err != nil {
		return nil, err
	}
	return uc.visibility.Apply(ctx, msgs, hidden, names), nil
}

// Send persist one message; a DM to a bot also triggers a reply
func (uc *MessageUseCase) Send(ctx context.Context, callerID uint, req domain.SendMessageReq) (*domain.MessageView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errprocess.Validation("Content required")
	}
	target := domain.Target{UserID: req.RecipientID, GroupID: req.GroupID}
	if target.IsEmpty() {
		return nil, errprocess.Validation("Recipient or Group required")
	}

	caller, err := uc.identity.Lookup(ctx, callerID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		SenderID:      callerID,
		Content:       content,
		AttachmentURL: normalizeAttachment(req.AttachmentURL),
		MessageType:   domain.NormalizeMessageType(req.MessageType),
		CreatedAt:     uc.clock.Now(),
	}

	var recipient *domain.User
	if target.IsGroup() {
		// group 優先, recipient 清掉
		groupID := *target.GroupID
		msg.GroupID = &groupID
	} else {
		recipient, err = uc.identity.Lookup(ctx, *target.UserID)
		if err != nil {
			if errprocess.Is(err, errprocess.KindNotFound) {
				return nil, errprocess.NotFound("Recipient not found")
			}
			return nil, err
		}
		if !caller.SameTenant(recipient) {
			return nil, errprocess.Permission("Recipient is not in your company")
		}
		recipientID := recipient.ID
		msg.RecipientID = &recipientID
	}

	err = uc.uow.WithinTx(ctx, func(r repository.Repos) error {
		if msg.GroupID != nil {
			ok, err := r.Groups.IsMember(ctx, *msg.GroupID, callerID)
			if err != nil {
				return err
			}
			if !ok {
				return errprocess.Permission("Not a member of this group")
			}
		}
		return r.Messages.Create(ctx, msg)
	})
	if err != nil {
		return nil, wrap("send message", err)
	}

	if msg.GroupID != nil {
		middlewares.MessagesCreatedTotal.WithLabelValues("group").Inc()
	} else {
		middlewares.MessagesCreatedTotal.WithLabelValues("dm").Inc()
	}

	DispatcherFor(recipient, uc.bots).Dispatch(ctx, recipient, callerID, msg)

	view := uc.visibility.View(ctx, msg, map[uint]string{caller.ID: caller.FullName()})
	return &view, nil
}

// Delete mode me hides for the caller, everyone redacts for all viewers (sender only)
func (uc *MessageUseCase) Delete(ctx context.Context, callerID, messageID uint, mode string) error {
	dm := domain.DeleteMode(strings.ToLower(strings.TrimSpace(mode)))
	if dm == "" {
		dm = domain.DeleteForMe
	}
	if dm != domain.DeleteForMe && dm != domain.DeleteForEveryone {
		return errprocess.Validation("Invalid delete mode")
	}

	err := uc.uow.WithinTx(ctx, func(r repository.Repos) error {
		msg, err := r.Messages.GetByID(ctx, messageID)
		if err != nil {
			return notFoundOr("Message not found", "load message", err)
		}

		if dm == domain.DeleteForEveryone {
			if msg.SenderID != callerID {
				return errprocess.Permission("Only sender can delete for everyone")
			}
			if msg.IsDeletedGlobally {
				return nil
			}
			return r.Messages.MarkDeletedGlobally(ctx, msg.ID)
		}

		visible, err := canSee(ctx, r, msg, callerID)
		if err != nil {
			return err
		}
		if !visible {
			return errprocess.Permission("Message not visible to you")
		}
		return r.Messages.Hide(ctx, msg.ID, callerID)
	})
	if err != nil {
		return wrap("delete message", err)
	}
	return nil
}

// Clear hide every message of a conversation for the caller, returns how many were newly hidden
func (uc *MessageUseCase) Clear(ctx context.Context, callerID uint, target domain.Target) (int64, error) {
	if target.IsEmpty() {
		return 0, errprocess.Validation("Target required")
	}

	var count int64
	err := uc.uow.WithinTx(ctx, func(r repository.Repos) error {
		var err error
		if target.IsGroup() {
			ok, err := r.Groups.IsMember(ctx, *target.GroupID, callerID)
			if err != nil {
				return err
			}
			if !ok {
				return errprocess.Permission("Not a member of this group")
			}
			count, err = r.Messages.HideGroup(ctx, *target.GroupID, callerID)
			return err
		}
		count, err = r.Messages.HideDirect(ctx, callerID, *target.UserID)
		return err
	})
	if err != nil {
		return 0, wrap("clear conversation", err)
	}
	return count, nil
}

// Forward copy a visible message to same-company users and groups the caller belongs to
func (uc *MessageUseCase) Forward(ctx context.Context, callerID uint, req domain.ForwardReq) (int, error) {
	if req.MessageID == 0 {
		return 0, errprocess.Validation("message_id required")
	}
	caller, err := uc.identity.Lookup(ctx, callerID)
	if err != nil {
		return 0, err
	}

	candidates, err := uc.identity.LookupMany(ctx, pkg.Unique(req.RecipientIDs))
	if err != nil {
		return 0, err
	}
	recipients := make([]domain.User, 0, len(candidates))
	for i := range candidates {
		// 跨公司的收件人直接略過
		if caller.SameTenant(&candidates[i]) {
			recipients = append(recipients, candidates[i])
		}
	}

	var created []*domain.Message
	err = uc.uow.WithinTx(ctx, func(r repository.Repos) error {
		src, err := r.Messages.GetByID(ctx, req.MessageID)
		if err != nil {
			return notFoundOr("Message not found", "load message", err)
		}
		visible, err := canSee(ctx, r, src, callerID)
		if err != nil {
			return err
		}
		if !visible {
			return errprocess.Permission("Message not visible to you")
		}
		if src.IsDeletedGlobally {
			return errprocess.Validation("Cannot forward deleted message")
		}

		groupIDs, err := r.Groups.MemberGroupIDs(ctx, callerID, pkg.Unique(req.GroupIDs))
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		for i := range recipients {
			rid := recipients[i].ID
			created = append(created, forwardCopy(src, callerID, &rid, nil, now))
		}
		for _, gid := range groupIDs {
			gid := gid
			created = append(created, forwardCopy(src, callerID, nil, &gid, now))
		}
		return r.Messages.CreateBatch(ctx, created)
	})
	if err != nil {
		return 0, wrap("forward message", err)
	}
	middlewares.MessagesCreatedTotal.WithLabelValues("forward").Add(float64(len(created)))

	for i := range recipients {
		if !recipients[i].IsBot {
			continue
		}
		for _, m := range created {
			if m.RecipientID != nil && *m.RecipientID == recipients[i].ID {
				DispatcherFor(&recipients[i], uc.bots).Dispatch(ctx, &recipients[i], callerID, m)
			}
		}
	}

	logger.Log.Debug("message forwarded",
		zap.Uint("user_id", callerID), zap.Uint("message_id", req.MessageID), zap.Int("count", len(created)))
	return len(created), nil
}

func forwardCopy(src *domain.Message, senderID uint, recipientID, groupID *uint, at time.Time) *domain.Message {
	var attachment *string
	if src.AttachmentURL != nil {
		a := *src.AttachmentURL
		attachment = &a
	}
	return &domain.Message{
		SenderID:      senderID,
		RecipientID:   recipientID,
		GroupID:       groupID,
		Content:       src.Content,
		AttachmentURL: attachment,
		MessageType:   src.MessageType,
		CreatedAt:     at,
	}
}

// canSee sender, DM recipient or current group member
func canSee(ctx context.Context, r repository.Repos, msg *domain.Message, userID uint) (bool, error) {
	if msg.SenderID == userID {
		return true, nil
	}
	if msg.GroupID != nil {
		return r.Groups.IsMember(ctx, *msg.GroupID, userID)
	}
	return msg.RecipientID != nil && *msg.RecipientID == userID, nil
}

func normalizeAttachment(ref *string) *string {
	if ref == nil {
		return nil
	}
	s := strings.TrimSpace(*ref)
	if s == "" {
		return nil
	}
	return &s
}
