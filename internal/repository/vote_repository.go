package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pollbox/internal/model"
)

// VoteRepository defines vote persistence operations.
type VoteRepository interface {
	Create(ctx context.Context, vote *model.Vote) error
	// FindByPollAndUser returns the authenticated user's vote on the poll.
	// gorm.ErrRecordNotFound means no prior vote exists.
	FindByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (*model.Vote, error)
	// CountByOption tallies votes per option index for a poll.
	CountByOption(ctx context.Context, pollID uuid.UUID) (map[int]int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository builds a GORM-backed repository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, vote *model.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *voteRepository) FindByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (*model.Vote, error) {
	var vote model.Vote
	err := r.db.WithContext(ctx).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *voteRepository) CountByOption(ctx context.Context, pollID uuid.UUID) (map[int]int64, error) {
	type row struct {
		OptionIndex int
		Total       int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Vote{}).
		Select("option_index, COUNT(*) AS total").
		Where("poll_id = ?", pollID).
		Group("option_index").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(rows))
	for _, r := range rows {
		counts[r.OptionIndex] = r.Total
	}
	return counts, nil
}
