package app

import (
	"context"

	"team_chat_service/internal/chat/domain"
)

// AttachmentSigner turn a stored attachment ref into a client usable link
type AttachmentSigner interface {
	Sign(ctx context.Context, ref string) string
}

// VisibilityFilter 排除 viewer 隱藏的訊息, 全域刪除的訊息改為 tombstone
type VisibilityFilter struct {
	signer AttachmentSigner
}

// NewVisibilityFilter signer 可為 nil
func NewVisibilityFilter(signer AttachmentSigner) *VisibilityFilter {
	return &VisibilityFilter{signer: signer}
}

// Apply order is preserved; stored messages are not modified
func (f *VisibilityFilter) Apply(ctx context.Context, msgs []domain.Message, hidden map[uint]struct{}, names map[uint]string) []domain.MessageView {
	views := make([]domain.MessageView, 0, len(msgs))
	for i := range msgs {
		if _, ok := hidden[msgs[i].ID]; ok {
			continue
		}
		v := f.View(ctx, &msgs[i], names)
		if v.IsDeletedGlobally {
			Redact(&v)
		}
		views = append(views, v)
	}
	return views
}

// View un-redacted view with sender name and signed attachment
func (f *VisibilityFilter) View(ctx context.Context, m *domain.Message, names map[uint]string) domain.MessageView {
	name, ok := names[m.SenderID]
	if !ok {
		name = domain.UnknownSender
	}
	v := domain.NewMessageView(m, name)
	if f.signer != nil && v.AttachmentURL != nil {
		signed := f.signer.Sign(ctx, *v.AttachmentURL)
		v.AttachmentURL = &signed
	}
	return v
}

// Redact tombstone content, no attachment, type text
func Redact(v *domain.MessageView) {
	v.Content = domain.Tombstone
	v.AttachmentURL = nil
	v.MessageType = domain.MessageTypeText
}

func senderIDs(msgs []domain.Message) []uint {
	seen := make(map[uint]struct{}, len(msgs))
	ids := make([]uint, 0, len(msgs))
	for i := range msgs {
		if _, ok := seen[msgs[i].SenderID]; ok {
			continue
		}
		seen[msgs[i].SenderID] = struct{}{}
		ids = append(ids, msgs[i].SenderID)
	}
	return ids
}

func messageIDs(msgs []domain.Message) []uint {
	ids := make([]uint, len(msgs))
	for i := range msgs {
		ids[i] = msgs[i].ID
	}
	return ids
}
