package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MaxTempleResults caps every catalog listing.
const MaxTempleResults = 1000

type Temple struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	Name        string         `json:"name" gorm:"not null"`
	Location    string         `json:"location"`
	State       string         `json:"state" gorm:"index"`
	Deity       string         `json:"deity"`
	Description string         `json:"description"`
	History     string         `json:"history"`
	Timings     string         `json:"timings"`
	DressCode   string         `json:"dress_code"`
	Festivals   datatypes.JSON `json:"festivals" gorm:"type:jsonb"` // ordered list of festival names
	ImageURL    string         `json:"image_url"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TempleFilter narrows a catalog listing. Empty fields do not constrain.
type TempleFilter struct {
	State string // exact match
	Deity string // case-insensitive substring
}

// FestivalList decodes the stored festival column.
func (t *Temple) FestivalList() ([]string, error) {
	if len(t.Festivals) == 0 {
		return []string{}, nil
	}
	var festivals []string
	if err := json.Unmarshal(t.Festivals, &festivals); err != nil {
		return nil, fmt.Errorf("decode festivals for temple %s: %w", t.ID, err)
	}
	if festivals == nil {
		festivals = []string{}
	}
	return festivals, nil
}

// SetFestivals encodes festivals into the stored column.
func (t *Temple) SetFestivals(festivals []string) error {
	if festivals == nil {
		festivals = []string{}
	}
	raw, err := json.Marshal(festivals)
	if err != nil {
		return err
	}
	t.Festivals = raw
	return nil
}
