package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pollbox/internal/model"
)

// Viewer classifies the caller for visibility scoping. The zero value is an
// anonymous viewer.
type Viewer struct {
	UserID        uuid.UUID
	Authenticated bool
	Admin         bool
}

// ViewerFor derives a Viewer from an optional user.
func ViewerFor(u *model.User) Viewer {
	if u == nil {
		return Viewer{}
	}
	return Viewer{UserID: u.ID, Authenticated: true, Admin: u.IsAdmin()}
}

// PollRepository defines poll persistence operations. Read and mutation
// queries are scoped to the viewer up front, so a poll the caller may not
// touch is indistinguishable from one that does not exist.
type PollRepository interface {
	Create(ctx context.Context, poll *model.Poll) error
	// FindVisibleByID returns the poll only if the viewer may see it:
	// anonymous viewers see public polls, authenticated viewers additionally
	// see their own, admins see everything.
	FindVisibleByID(ctx context.Context, id uuid.UUID, viewer Viewer) (*model.Poll, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Poll, error)
	ListPublic(ctx context.Context) ([]model.Poll, error)
	ListAll(ctx context.Context) ([]model.Poll, error)
	// UpdateOwned updates question and options on the poll only when ownerID
	// owns it, returning the number of rows touched.
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, question string, options []string) (int64, error)
	// DeleteScoped deletes the poll within the viewer's authority, returning
	// the number of rows touched. Zero rows is not an error.
	DeleteScoped(ctx context.Context, id uuid.UUID, viewer Viewer) (int64, error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository builds a GORM-backed repository.
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) Create(ctx context.Context, poll *model.Poll) error {
	return r.db.WithContext(ctx).Create(poll).Error
}

func (r *pollRepository) FindVisibleByID(ctx context.Context, id uuid.UUID, viewer Viewer) (*model.Poll, error) {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	switch {
	case viewer.Admin:
		// unscoped
	case viewer.Authenticated:
		q = q.Where("is_public = ? OR user_id = ?", true, viewer.UserID)
	default:
		q = q.Where("is_public = ?", true)
	}

	var poll model.Poll
	if err := q.First(&poll).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Poll, error) {
	var polls []model.Poll
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&polls).Error
	if err != nil {
		return nil, err
	}
	return polls, nil
}

func (r *pollRepository) ListPublic(ctx context.Context) ([]model.Poll, error) {
	var polls []model.Poll
	err := r.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&polls).Error
	if err != nil {
		return nil, err
	}
	return polls, nil
}

func (r *pollRepository) ListAll(ctx context.Context) ([]model.Poll, error) {
	var polls []model.Poll
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&polls).Error
	if err != nil {
		return nil, err
	}
	return polls, nil
}

func (r *pollRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, question string, options []string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Poll{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Select("question", "options").
		Updates(&model.Poll{Question: question, Options: options})
	return res.RowsAffected, res.Error
}

func (r *pollRepository) DeleteScoped(ctx context.Context, id uuid.UUID, viewer Viewer) (int64, error) {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	if !viewer.Admin {
		q = q.Where("user_id = ?", viewer.UserID)
	}
	res := q.Delete(&model.Poll{})
	return res.RowsAffected, res.Error
}
