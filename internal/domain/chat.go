package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatRecord is one persisted exchange with the Mitra assistant.
type ChatRecord struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Response  string    `json:"response" gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}

func (ChatRecord) TableName() string { return "chat_history" }
