package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"pollbox/internal/model"
)

func TestPollAccessPredicates(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleUser}
	stranger := &model.User{ID: uuid.New(), Role: model.RoleUser}
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	private := &model.Poll{ID: uuid.New(), UserID: owner.ID, IsPublic: false}
	public := &model.Poll{ID: uuid.New(), UserID: owner.ID, IsPublic: true}

	tests := []struct {
		name      string
		poll      *model.Poll
		caller    *model.User
		canRead   bool
		canModify bool
		canDelete bool
	}{
		{"anonymous on private", private, nil, false, false, false},
		{"anonymous on public", public, nil, true, false, false},
		{"stranger on private", private, stranger, false, false, false},
		{"stranger on public", public, stranger, true, false, false},
		{"owner on private", private, owner, true, true, true},
		{"owner on public", public, owner, true, true, true},
		{"admin on private", private, admin, true, false, true},
		{"admin on public", public, admin, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canRead, CanReadPoll(tt.poll, tt.caller))
			assert.Equal(t, tt.canModify, CanModifyPoll(tt.poll, tt.caller))
			assert.Equal(t, tt.canDelete, CanDeletePoll(tt.poll, tt.caller))
		})
	}

	t.Run("nil poll is never accessible", func(t *testing.T) {
		assert.False(t, CanReadPoll(nil, admin))
		assert.False(t, CanModifyPoll(nil, admin))
		assert.False(t, CanDeletePoll(nil, admin))
	})
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, model.RoleAdmin, model.ParseRole("admin"))
	assert.Equal(t, model.RoleUser, model.ParseRole("user"))
	// Unknown or tampered values can never grant authority.
	assert.Equal(t, model.RoleUser, model.ParseRole(""))
	assert.Equal(t, model.RoleUser, model.ParseRole("superadmin"))
	assert.Equal(t, model.RoleUser, model.ParseRole("Admin"))
}
