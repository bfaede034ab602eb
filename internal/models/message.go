package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxMessageLength is the longest text a message column accepts.
const MaxMessageLength = 140

// MessageTextCheck names the schema constraint bounding message text.
const MessageTextCheck = "chk_messages_text_length"

// Message represents a short post owned by a user.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"size:140;not null;check:chk_messages_text_length,length(text) <= 140"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      User      `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate stamps messages created without an explicit timestamp.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}
