package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedTemple is one ledger entry. The (UserID, TempleID) pair is unique.
type SavedTemple struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:ux_saved_user_temple,priority:1"`
	TempleID uuid.UUID `json:"temple_id" gorm:"type:uuid;not null;uniqueIndex:ux_saved_user_temple,priority:2"`
	SavedAt  time.Time `json:"saved_at" gorm:"not null"`
}
