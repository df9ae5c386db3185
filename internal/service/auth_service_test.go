package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pollbox/internal/auth"
	"pollbox/internal/errors"
	"pollbox/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		nameField     string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:      "successful registration",
			email:     "test@example.com",
			password:  "Sup3r$ecret",
			nameField: "Test User",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:          "invalid email format",
			email:         "not-an-email",
			password:      "Sup3r$ecret",
			nameField:     "Test User",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.ErrInvalidEmail,
		},
		{
			name:          "email with whitespace",
			email:         "te st@example.com",
			password:      "Sup3r$ecret",
			nameField:     "Test User",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.ErrInvalidEmail,
		},
		{
			name:          "password too short",
			email:         "test@example.com",
			password:      "Ab1!",
			nameField:     "Test User",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.ErrPasswordTooShort,
		},
		{
			name:          "password missing uppercase",
			email:         "test@example.com",
			password:      "sup3r$ecret",
			nameField:     "Test User",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.ErrPasswordNoUpper,
		},
		{
			name:          "password missing lowercase",
			email:         "test@example.com",
			password:      "SUP3R$ECRET",
			nameField:     "Test User",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.ErrPasswordNoLower,
		},
		{
			name:          "password missing digit",
			email:         "test@example.com",
			password:      "Super$ecret",
			nameField:     "Test User",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.ErrPasswordNoDigit,
		},
		{
			name:          "password missing special character",
			email:         "test@example.com",
			password:      "Sup3rSecret",
			nameField:     "Test User",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.ErrPasswordNoSpecial,
		},
		{
			name:      "store failure collapses to generic error",
			email:     "taken@example.com",
			password:  "Sup3r$ecret",
			nameField: "Test User",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: errors.ErrRegistrationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			mockTokenStore := new(MockTokenStore)

			service := NewAuthService(mockRepo, jwtService, mockTokenStore)
			user, err := service.Register(context.Background(), tt.email, tt.password, tt.nameField)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.nameField, user.Name)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.NotEmpty(t, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_ValidationSkipsStore(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))

	_, err := service.Register(context.Background(), "bad email", "Sup3r$ecret", "Test")
	assert.Equal(t, errors.ErrInvalidEmail, err)

	_, err = service.Register(context.Background(), "test@example.com", "weak", "Test")
	assert.Equal(t, errors.ErrPasswordTooShort, err)

	mockRepo.AssertNotCalled(t, "Create")
	mockRepo.AssertNotCalled(t, "FindByEmail")
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "Sup3r$ecret",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Sup3r$ecret"), 10)
				userID := uuid.New()
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           userID,
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
					Role:         model.RoleUser,
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, userID, "test@example.com", mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:          "malformed email never reaches the store",
			email:         "not-an-email",
			password:      "Sup3r$ecret",
			setupMock:     func(mRepo *MockUserRepository, mToken *MockTokenStore) {},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:          "weak password never reaches the store",
			email:         "test@example.com",
			password:      "weak",
			setupMock:     func(mRepo *MockUserRepository, mToken *MockTokenStore) {},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "account not found",
			email:    "notfound@example.com",
			password: "Sup3r$ecret",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "Wr0ng$ecret",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Sup3r$ecret"), 10)
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           uuid.New(),
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore)

			accessToken, refreshToken, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

// Unknown accounts and wrong passwords must be indistinguishable: the error
// payloads are byte-identical.
func TestAuthService_Login_NoEnumeration(t *testing.T) {
	mockRepo := new(MockUserRepository)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Sup3r$ecret"), 10)
	mockRepo.On("FindByEmail", mock.Anything, "known@example.com").Return(&model.User{
		ID:           uuid.New(),
		Email:        "known@example.com",
		PasswordHash: string(hashedPassword),
	}, nil)
	mockRepo.On("FindByEmail", mock.Anything, "unknown@example.com").Return(nil, gorm.ErrRecordNotFound)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))

	_, _, _, wrongPassErr := service.Login(context.Background(), "known@example.com", "Wr0ng$ecret")
	_, _, _, noUserErr := service.Login(context.Background(), "unknown@example.com", "Wr0ng$ecret")

	assert.Error(t, wrongPassErr)
	assert.Error(t, noUserErr)
	assert.Equal(t, []byte(wrongPassErr.Error()), []byte(noUserErr.Error()))
}

func TestAuthService_CurrentUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userID := uuid.New()
	mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:    userID,
		Email: "test@example.com",
		Role:  model.RoleAdmin,
	}, nil)

	missingID := uuid.New()
	mockRepo.On("FindByID", mock.Anything, missingID).Return(nil, gorm.ErrRecordNotFound)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))

	user, err := service.CurrentUser(context.Background(), userID)
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.True(t, user.IsAdmin())

	user, err = service.CurrentUser(context.Background(), missingID)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	userID := uuid.New()
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "test@example.com")
	assert.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
	assert.NoError(t, service.Logout(context.Background(), refreshToken))

	assert.Equal(t, errors.ErrInvalidCredentials, service.Logout(context.Background(), "garbage"))
	mockTokenStore.AssertExpectations(t)
}

func TestAuthService_Session(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	userID := uuid.New()
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "test@example.com")
	assert.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(userID, "test@example.com", nil)

	service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)

	session, err := service.Session(context.Background(), refreshToken)
	assert.NoError(t, err)
	assert.NotNil(t, session)
	assert.Equal(t, userID, session.UserID)

	// No token means no session, not an error.
	session, err = service.Session(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, session)
}
