package storage

import (
	"context"
	"strings"
	"time"

	"dmchat/backend/internal/apperr"
	"dmchat/backend/internal/config"
	"dmchat/backend/internal/models"

	"github.com/golang/glog"
)

const pairClause = "(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)"

// AppendMessage persists one message and returns it with its database ID.
// Text longer than the maximum is a caller bug and is rejected, blank text
// is rejected as well.
func (s *Service) AppendMessage(ctx context.Context, senderID, receiverID uint, text string, at time.Time) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("message text is empty")
	}
	if len([]rune(text)) > config.MaxMessageLength {
		return nil, apperr.Validation("message text is too long")
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  at,
	}
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		glog.Errorf("failed to save message %d -> %d: %v", senderID, receiverID, err)
		return nil, apperr.Storage("append message", err)
	}
	return msg, nil
}

// History returns up to limit messages exchanged between userA and userB,
// oldest first. A non-positive limit means the default page size; callers
// bound anything larger.
func (s *Service) History(ctx context.Context, userA, userB uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}

	var history []models.Message
	err := s.DB.WithContext(ctx).
		Where(pairClause, userA, userB, userB, userA).
		Order("created_at asc").Order("id asc").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		glog.Errorf("failed to get history for %d/%d: %v", userA, userB, err)
		return nil, apperr.Storage("history", err)
	}

	return history, nil
}

// DeleteConversation removes every message of the pair in both directions
// and reports how many rows went away. An empty conversation yields 0.
func (s *Service) DeleteConversation(ctx context.Context, userA, userB uint) (int64, error) {
	result := s.DB.WithContext(ctx).
		Where(pairClause, userA, userB, userB, userA).
		Delete(&models.Message{})
	if result.Error != nil {
		glog.Errorf("failed to delete conversation %d/%d: %v", userA, userB, result.Error)
		return 0, apperr.Storage("delete conversation", result.Error)
	}
	return result.RowsAffected, nil
}
