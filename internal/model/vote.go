package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote records a single ballot on a poll. UserID is nil for anonymous votes.
// The compound unique index limits authenticated users to one vote per poll;
// MySQL treats NULLs as distinct, so anonymous votes are unrestricted.
type Vote struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	PollID      uuid.UUID  `json:"poll_id" gorm:"type:char(36);not null;uniqueIndex:idx_poll_voter"`
	UserID      *uuid.UUID `json:"user_id,omitempty" gorm:"type:char(36);uniqueIndex:idx_poll_voter"`
	OptionIndex int        `json:"option_index" gorm:"not null"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
