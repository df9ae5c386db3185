package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pollbox/internal/auth"
	"pollbox/internal/errors"
	"pollbox/internal/model"
	"pollbox/internal/repository"
)

const bcryptCost = 10

// Session describes an established session as seen by the caller.
type Session struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// AuthService handles authentication operations.
//
// Login failures are never attributed: a malformed email, an unknown
// account, and a wrong password all produce errors.ErrInvalidCredentials,
// and credential-format failures return before the store is ever contacted.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	// CurrentUser returns the user behind a session, or nil without error
	// when the account no longer exists.
	CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	// Session returns the session behind a refresh token, or nil when none
	// is established.
	Session(ctx context.Context, refreshToken string) (*Session, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	creds      *CredentialValidator
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		creds:      NewCredentialValidator(),
	}
}

// Register creates a new account with the default user role. Validation
// failures carry specific messages, which is safe here because no account
// exists yet to enumerate; store failures (including an already-registered
// email) collapse to the generic registration error.
func (s *authService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	if !s.creds.ValidEmail(email) {
		return nil, errors.ErrInvalidEmail
	}
	if err := s.creds.ValidatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, errors.ErrRegistrationFailed
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.ErrRegistrationFailed
	}

	return user, nil
}

// Login authenticates a user and returns access and refresh tokens. Format
// checks run first so malformed credentials never reach the store.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error) {
	if !s.creds.ValidEmail(email) || !s.creds.ValidPassword(password) {
		return "", "", nil, errors.ErrInvalidCredentials
	}

	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, errors.ErrInvalidCredentials
	}

	accessToken, err = s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", errors.ErrInvalidCredentials
	}

	// Re-read the user so the fresh token carries the current role.
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	accessToken, err = s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout invalidates a refresh token. Store errors surface verbatim; they
// carry no enumeration risk on this path.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return errors.ErrInvalidCredentials
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

// CurrentUser loads the user record for an established session. The record
// is re-read on every call; no authorization state is cached between
// requests.
func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Session resolves a refresh token to its session, or nil when none exists.
func (s *authService) Session(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, nil
	}
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return nil, nil
	}
	userID, email, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return nil, nil
	}
	return &Session{UserID: userID, Email: email}, nil
}
