package repository

import (
	"context"
	"strings"
	"time"

	"team_chat_service/pkg/database"
	"team_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// MinIOAttachmentSigner presign attachment object keys, URLs are returned unchanged
type MinIOAttachmentSigner struct {
	client *database.MinIOClient
	expiry time.Duration
}

// NewMinIOAttachmentSigner expiry <= 0 預設 15 分鐘
func NewMinIOAttachmentSigner(client *database.MinIOClient, expiry time.Duration) *MinIOAttachmentSigner {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &MinIOAttachmentSigner{client: client, expiry: expiry}
}

// Sign 失敗時回傳原本的 ref
func (s *MinIOAttachmentSigner) Sign(ctx context.Context, ref string) string {
	if !IsObjectKey(ref) {
		return ref
	}
	u, err := s.client.PresignGetURL(ctx, ref, s.expiry)
	if err != nil {
		logger.Log.Warn("presign attachment failed", zap.String("object", ref), zap.Error(err))
		return ref
	}
	return u
}

// IsObjectKey ref 不是 URL 也不是 /static 路徑
func IsObjectKey(ref string) bool {
	if ref == "" {
		return false
	}
	lower := strings.ToLower(ref)
	return !strings.HasPrefix(lower, "http://") &&
		!strings.HasPrefix(lower, "https://") &&
		!strings.HasPrefix(ref, "/") &&
		!strings.HasPrefix(lower, "data:")
}
