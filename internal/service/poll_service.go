package service

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pollbox/internal/cache"
	"pollbox/internal/errors"
	"pollbox/internal/model"
	"pollbox/internal/repository"
)

const (
	publicPollsCacheKey = "polls:recent"
	pollListCacheTTL    = 1 * time.Minute
)

// OptionResult is the vote tally for one option.
type OptionResult struct {
	Label string `json:"label"`
	Votes int64  `json:"votes"`
}

// PollResults pairs a poll with its per-option tallies.
type PollResults struct {
	Poll    *model.Poll    `json:"poll"`
	Results []OptionResult `json:"results"`
	Total   int64          `json:"total"`
}

// PollService enforces the poll access and content rules. Every operation
// takes the caller explicitly (nil = anonymous) and re-derives authority
// from it; nothing is cached between calls.
type PollService interface {
	Create(ctx context.Context, caller *model.User, question string, options []string, isPublic bool) (*model.Poll, error)
	// Get returns the poll if the caller may see it. A poll that exists but
	// is out of the caller's scope is reported exactly like a missing one.
	Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Poll, error)
	// ListOwned returns the caller's polls, newest first. Anonymous callers
	// get an empty list rather than an error so the dashboard stays usable.
	ListOwned(ctx context.Context, caller *model.User) ([]model.Poll, error)
	// ListPublic returns public polls, newest first, via the listing cache.
	ListPublic(ctx context.Context) ([]model.Poll, error)
	// ListAll returns every poll, private ones included. Admin only.
	ListAll(ctx context.Context, caller *model.User) ([]model.Poll, error)
	Update(ctx context.Context, caller *model.User, id uuid.UUID, question string, options []string) error
	Delete(ctx context.Context, caller *model.User, id uuid.UUID) error
	SubmitVote(ctx context.Context, caller *model.User, pollID uuid.UUID, optionIndex int) error
	Results(ctx context.Context, caller *model.User, pollID uuid.UUID) (*PollResults, error)
}

type pollService struct {
	pollRepo  repository.PollRepository
	voteRepo  repository.VoteRepository
	cache     cache.Store
	sanitizer *ContentSanitizer
}

// NewPollService creates a new poll service.
func NewPollService(pollRepo repository.PollRepository, voteRepo repository.VoteRepository, cache cache.Store) PollService {
	return &pollService{
		pollRepo:  pollRepo,
		voteRepo:  voteRepo,
		cache:     cache,
		sanitizer: NewContentSanitizer(),
	}
}

func userPollsCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("polls:user:%s", userID)
}

// invalidateListings drops the cached listing views after a mutation.
func (s *pollService) invalidateListings(ctx context.Context, ownerID uuid.UUID) {
	_ = s.cache.Delete(ctx, publicPollsCacheKey)
	_ = s.cache.Delete(ctx, userPollsCacheKey(ownerID))
}

// Create sanitizes and validates the content, then inserts a poll owned by
// the caller.
func (s *pollService) Create(ctx context.Context, caller *model.User, question string, options []string, isPublic bool) (*model.Poll, error) {
	if caller == nil {
		return nil, errors.NewAuthRequired("create a poll")
	}

	content, err := s.sanitizer.SanitizeAndValidate(question, options)
	if err != nil {
		return nil, err
	}

	poll := &model.Poll{
		UserID:   caller.ID,
		Question: content.Question,
		Options:  content.Options,
		IsPublic: isPublic,
	}
	if err := s.pollRepo.Create(ctx, poll); err != nil {
		return nil, fmt.Errorf("create poll: %w", err)
	}

	s.invalidateListings(ctx, caller.ID)
	return poll, nil
}

// Get looks the poll up with a query scoped to the caller's class, so an
// unauthorized read cannot reveal existence through a different error shape.
func (s *pollService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Poll, error) {
	poll, err := s.pollRepo.FindVisibleByID(ctx, id, repository.ViewerFor(caller))
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPollNotFound
		}
		return nil, fmt.Errorf("find poll: %w", err)
	}
	return poll, nil
}

func (s *pollService) ListOwned(ctx context.Context, caller *model.User) ([]model.Poll, error) {
	if caller == nil {
		return []model.Poll{}, nil
	}

	key := userPollsCacheKey(caller.ID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.Poll
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	polls, err := s.pollRepo.ListByOwner(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}

	if payload, err := json.Marshal(polls); err == nil {
		_ = s.cache.Set(ctx, key, payload, pollListCacheTTL)
	}
	return polls, nil
}

func (s *pollService) ListPublic(ctx context.Context) ([]model.Poll, error) {
	if data, _ := s.cache.Get(ctx, publicPollsCacheKey); data != nil {
		var cached []model.Poll
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	polls, err := s.pollRepo.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public polls: %w", err)
	}

	if payload, err := json.Marshal(polls); err == nil {
		_ = s.cache.Set(ctx, publicPollsCacheKey, payload, pollListCacheTTL)
	}
	return polls, nil
}

func (s *pollService) ListAll(ctx context.Context, caller *model.User) ([]model.Poll, error) {
	if !caller.IsAdmin() {
		return nil, errors.ErrUnauthorized
	}
	polls, err := s.pollRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all polls: %w", err)
	}
	return polls, nil
}

// Update applies the same sanitization and validation as Create. The update
// query is scoped to the owner; there is deliberately no admin override
// here, and an update excluded by the scope is a silent no-op.
func (s *pollService) Update(ctx context.Context, caller *model.User, id uuid.UUID, question string, options []string) error {
	if caller == nil {
		return errors.NewAuthRequired("update a poll")
	}

	content, err := s.sanitizer.SanitizeAndValidate(question, options)
	if err != nil {
		return err
	}

	rows, err := s.pollRepo.UpdateOwned(ctx, id, caller.ID, content.Question, content.Options)
	if err != nil {
		return fmt.Errorf("update poll: %w", err)
	}
	if rows > 0 {
		s.invalidateListings(ctx, caller.ID)
	}
	return nil
}

// Delete removes the poll within the caller's authority: owners delete their
// own polls, admins delete any. A delete whose scope matched nothing is a
// silent no-op.
func (s *pollService) Delete(ctx context.Context, caller *model.User, id uuid.UUID) error {
	if caller == nil {
		return errors.NewAuthRequired("delete a poll")
	}

	rows, err := s.pollRepo.DeleteScoped(ctx, id, repository.ViewerFor(caller))
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	if rows > 0 {
		s.invalidateListings(ctx, caller.ID)
	}
	return nil
}

// SubmitVote records a ballot. Anonymous voting is permitted; authenticated
// users are limited to one vote per poll, enforced by an existence check and
// backstopped by the votes table's unique key, which also closes the
// check-then-insert race between concurrent submissions.
func (s *pollService) SubmitVote(ctx context.Context, caller *model.User, pollID uuid.UUID, optionIndex int) error {
	poll, err := s.Get(ctx, caller, pollID)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return errors.ErrInvalidOption
	}

	vote := &model.Vote{PollID: poll.ID, OptionIndex: optionIndex}
	if caller != nil {
		if _, err := s.voteRepo.FindByPollAndUser(ctx, poll.ID, caller.ID); err == nil {
			return errors.ErrAlreadyVoted
		} else if !goerrors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check existing vote: %w", err)
		}
		id := caller.ID
		vote.UserID = &id
	}

	if err := s.voteRepo.Create(ctx, vote); err != nil {
		if goerrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrAlreadyVoted
		}
		return fmt.Errorf("create vote: %w", err)
	}
	return nil
}

// Results tallies votes per option for a poll the caller may see.
func (s *pollService) Results(ctx context.Context, caller *model.User, pollID uuid.UUID) (*PollResults, error) {
	poll, err := s.Get(ctx, caller, pollID)
	if err != nil {
		return nil, err
	}

	counts, err := s.voteRepo.CountByOption(ctx, poll.ID)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}

	results := &PollResults{Poll: poll, Results: make([]OptionResult, len(poll.Options))}
	for i, label := range poll.Options {
		results.Results[i] = OptionResult{Label: label, Votes: counts[i]}
		results.Total += counts[i]
	}
	return results, nil
}
