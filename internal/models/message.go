package models

import (
	"strings"
	"time"

	"dmchat/backend/internal/apperr"

	"gorm.io/gorm"
)

// Message is a single persisted direct message. Rows are immutable once
// written; they only disappear through a conversation delete.
type Message struct {
	// ID is assigned by the database on insert and grows monotonically.
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	// SenderID and ReceiverID together with CreatedAt form the composite
	// index every history lookup runs against.
	SenderID   uint      `gorm:"not null;index:idx_messages_pair_time,priority:1" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index:idx_messages_pair_time,priority:2" json:"receiver_id"`
	Text       string    `gorm:"size:500;not null" json:"text"`
	CreatedAt  time.Time `gorm:"not null;index:idx_messages_pair_time,priority:3" json:"created_at"`
}

// BeforeCreate rejects blank messages so nothing empty reaches the table,
// whichever code path performs the insert.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(m.Text) == "" {
		return apperr.Validation("message text is empty")
	}
	return nil
}
