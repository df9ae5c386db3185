package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Poll is a question with an ordered list of answer options, owned by the
// user who created it. Private polls are visible only to their owner and
// admins.
type Poll struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Question  string    `json:"question" gorm:"size:255;not null"`
	Options   []string  `json:"options" gorm:"serializer:json;not null"`
	IsPublic  bool      `json:"is_public" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether the given user owns this poll.
func (p *Poll) OwnedBy(u *User) bool {
	return u != nil && p.UserID == u.ID
}
