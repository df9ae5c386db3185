package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role classifies a user's authority within the app.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "user"
	// RoleAdmin may view and delete any poll.
	RoleAdmin Role = "admin"
)

// ParseRole validates a role value read from storage. Anything that is not a
// known role collapses to RoleUser so a corrupted or tampered value can never
// grant authority.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"size:50;not null;default:'user'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// AfterFind re-validates the role at the storage boundary.
func (u *User) AfterFind(tx *gorm.DB) error {
	u.Role = ParseRole(string(u.Role))
	return nil
}

// IsAdmin reports whether the user holds the admin role. Safe on a nil
// receiver so anonymous callers can be checked uniformly.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
