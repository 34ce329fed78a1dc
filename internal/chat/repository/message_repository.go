package repository

import (
	"context"
	"errors"

	"team_chat_service/internal/chat/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound record 不存在
var ErrNotFound = errors.New("record not found")

// MessageRepository definition message store
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	CreateBatch(ctx context.Context, msgs []*domain.Message) error
	GetByID(ctx context.Context, id uint) (*domain.Message, error)
	// ListGroup 最新 limit 筆, 由舊到新
	ListGroup(ctx context.Context, groupID uint, limit int) ([]domain.Message, error)
	// ListDirect 兩人之間的 DM, 最新 limit 筆, 由舊到新
	ListDirect(ctx context.Context, userID, otherID uint, limit int) ([]domain.Message, error)
	MarkDirectRead(ctx context.Context, senderID, recipientID uint) (int64, error)
	MarkDeletedGlobally(ctx context.Context, id uint) error

	Hide(ctx context.Context, messageID, userID uint) error
	HiddenAmong(ctx context.Context, userID uint, messageIDs []uint) (map[uint]struct{}, error)
	HideGroup(ctx context.Context, groupID, userID uint) (int64, error)
	HideDirect(ctx context.Context, userID, otherID uint) (int64, error)

	// CountDirectUnread grouped by sender_id
	CountDirectUnread(ctx context.Context, recipientID uint) ([]domain.UnreadCount, error)
	// CountGroupUnread grouped by group_id, only groups the user belongs to
	CountGroupUnread(ctx context.Context, userID uint) ([]domain.UnreadCount, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository create MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) CreateBatch(ctx context.Context, msgs []*domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(msgs).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*domain.Message, error) {
	var m domain.Message
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *messageRepository) ListGroup(ctx context.Context, groupID uint, limit int) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	reverse(msgs)
	return msgs, nil
}

func (r *messageRepository) ListDirect(ctx context.Context, userID, otherID uint, limit int) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("group_id IS NULL").
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", userID, otherID, otherID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	reverse(msgs)
	return msgs, nil
}

func (r *messageRepository) MarkDirectRead(ctx context.Context, senderID, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND group_id IS NULL AND is_read = ?", senderID, recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// MarkDeletedGlobally 只會設為 true, 不會還原
func (r *messageRepository) MarkDeletedGlobally(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ?", id).
		Update("is_deleted_globally", true).Error
}

func (r *messageRepository) Hide(ctx context.Context, messageID, userID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.MessageHide{MessageID: messageID, UserID: userID}).Error
}

func (r *messageRepository) HiddenAmong(ctx context.Context, userID uint, messageIDs []uint) (map[uint]struct{}, error) {
	hidden := make(map[uint]struct{})
	if len(messageIDs) == 0 {
		return hidden, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&domain.MessageHide{}).
		Where("user_id = ? AND message_id IN ?", userID, messageIDs).
		Pluck("message_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		hidden[id] = struct{}{}
	}
	return hidden, nil
}

// HideGroup 回傳本次新隱藏的筆數
func (r *messageRepository) HideGroup(ctx context.Context, groupID, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO message_hides (message_id, user_id, created_at)
		SELECT m.id, ?, NOW() FROM messages m WHERE m.group_id = ?
		ON CONFLICT DO NOTHING`, userID, groupID)
	return res.RowsAffected, res.Error
}

func (r *messageRepository) HideDirect(ctx context.Context, userID, otherID uint) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO message_hides (message_id, user_id, created_at)
		SELECT m.id, ?, NOW() FROM messages m
		WHERE m.group_id IS NULL
		  AND ((m.sender_id = ? AND m.recipient_id = ?) OR (m.sender_id = ? AND m.recipient_id = ?))
		ON CONFLICT DO NOTHING`, userID, userID, otherID, otherID, userID)
	return res.RowsAffected, res.Error
}

func (r *messageRepository) CountDirectUnread(ctx context.Context, recipientID uint) ([]domain.UnreadCount, error) {
	var rows []domain.UnreadCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT sender_id AS "key", COUNT(*) AS "count"
		FROM messages
		WHERE recipient_id = ? AND group_id IS NULL AND is_read = false
		GROUP BY sender_id`, recipientID).Scan(&rows).Error
	return rows, err
}

// CountGroupUnread last_read_at 為 NULL 時計算全部訊息
func (r *messageRepository) CountGroupUnread(ctx context.Context, userID uint) ([]domain.UnreadCount, error) {
	var rows []domain.UnreadCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT gm.group_id AS "key", COUNT(m.id) AS "count"
		FROM group_members gm
		JOIN messages m ON m.group_id = gm.group_id
		 AND (gm.last_read_at IS NULL OR m.created_at > gm.last_read_at)
		WHERE gm.user_id = ?
		GROUP BY gm.group_id`, userID).Scan(&rows).Error
	return rows, err
}

func reverse(msgs []domain.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
