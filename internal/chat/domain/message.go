package domain

import (
	"strings"
	"time"
)

// Tombstone 全域刪除後顯示的內容
const Tombstone = "🚫 This message was deleted"

// MessageType definition message content type
type MessageType string

const (
	// MessageTypeText plain text
	MessageTypeText MessageType = "text"
	// MessageTypeImage image attachment
	MessageTypeImage MessageType = "image"
	// MessageTypeFile file attachment
	MessageTypeFile MessageType = "file"
	// MessageTypeVoice voice attachment
	MessageTypeVoice MessageType = "voice"
)

// NormalizeMessageType unknown or empty values become text
func NormalizeMessageType(s string) MessageType {
	switch t := MessageType(strings.ToLower(strings.TrimSpace(s))); t {
	case MessageTypeImage, MessageTypeFile, MessageTypeVoice:
		return t
	default:
		return MessageTypeText
	}
}

// DeleteMode definition delete scope
type DeleteMode string

const (
	// DeleteForMe hide for the caller only
	DeleteForMe DeleteMode = "me"
	// DeleteForEveryone sender only, redacts for all viewers
	DeleteForEveryone DeleteMode = "everyone"
)

// Message 定義訊息模型, RecipientID 與 GroupID 只會有一個
type Message struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	SenderID          uint        `gorm:"not null;index" json:"sender_id"`
	RecipientID       *uint       `gorm:"index:idx_messages_dm,priority:1;check:chk_messages_target,(recipient_id IS NULL) <> (group_id IS NULL)" json:"recipient_id"`
	GroupID           *uint       `gorm:"index" json:"group_id"`
	Content           string      `gorm:"type:text;not null" json:"content"`
	AttachmentURL     *string     `gorm:"size:255" json:"attachment_url"`
	MessageType       MessageType `gorm:"size:20;not null;default:'text'" json:"message_type"`
	IsRead            bool        `gorm:"not null;default:false;index:idx_messages_dm,priority:2" json:"is_read"`
	IsDeletedGlobally bool        `gorm:"not null;default:false" json:"is_deleted_globally"`
	CreatedAt         time.Time   `gorm:"not null;index" json:"created_at"`

	Hides []MessageHide `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName gorm table
func (Message) TableName() string {
	return "messages"
}

// IsGroup message belongs to a group conversation
func (m *Message) IsGroup() bool {
	return m.GroupID != nil
}

// Involves caller is one of the two DM participants
func (m *Message) Involves(userID uint) bool {
	return m.SenderID == userID || (m.RecipientID != nil && *m.RecipientID == userID)
}

// MessageHide per-viewer soft delete, (message_id, user_id) 唯一
type MessageHide struct {
	MessageID uint      `gorm:"primaryKey;autoIncrement:false" json:"message_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName gorm table
func (MessageHide) TableName() string {
	return "message_hides"
}

// MessageView 回傳給 client 的訊息, 已經過可見性過濾
type MessageView struct {
	ID                uint        `json:"id"`
	SenderID          uint        `json:"sender_id"`
	SenderName        string      `json:"sender_name"`
	RecipientID       *uint       `json:"recipient_id"`
	GroupID           *uint       `json:"group_id"`
	Content           string      `json:"content"`
	AttachmentURL     *string     `json:"attachment_url"`
	MessageType       MessageType `json:"message_type"`
	IsRead            bool        `json:"is_read"`
	IsDeletedGlobally bool        `json:"is_deleted_globally"`
	CreatedAt         time.Time   `json:"created_at"`
}

// NewMessageView copy m without redaction
func NewMessageView(m *Message, senderName string) MessageView {
	return MessageView{
		ID:                m.ID,
		SenderID:          m.SenderID,
		SenderName:        senderName,
		RecipientID:       m.RecipientID,
		GroupID:           m.GroupID,
		Content:           m.Content,
		AttachmentURL:     m.AttachmentURL,
		MessageType:       m.MessageType,
		IsRead:            m.IsRead,
		IsDeletedGlobally: m.IsDeletedGlobally,
		CreatedAt:         m.CreatedAt,
	}
}

// SendMessageReq usecase send request
type SendMessageReq struct {
	Content       string
	RecipientID   *uint
	GroupID       *uint
	AttachmentURL *string
	MessageType   string
}

// ForwardReq usecase forward request
type ForwardReq struct {
	MessageID    uint
	RecipientIDs []uint
	GroupIDs     []uint
}

// Target conversation selector, GroupID 優先
type Target struct {
	UserID  *uint
	GroupID *uint
}

// IsEmpty neither user nor group given
func (t Target) IsEmpty() bool {
	return (t.UserID == nil || *t.UserID == 0) && (t.GroupID == nil || *t.GroupID == 0)
}

// IsGroup target resolves to a group
func (t Target) IsGroup() bool {
	return t.GroupID != nil && *t.GroupID != 0
}
