package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cardvault/internal/auth"
	"cardvault/internal/errors"
	"cardvault/internal/model"
)

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, role string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, role, ttl)
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

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "successful registration",
			setupMocks: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, errors.ErrUserNotFound)
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, errors.ErrUserNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name: "username taken",
			setupMocks: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{Username: "alice"}, nil)
			},
			expectedError: errors.ErrUsernameTaken,
		},
		{
			name: "email taken",
			setupMocks: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, errors.ErrUserNotFound)
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{Email: "alice@example.com"}, nil)
			},
			expectedError: errors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMocks(mockRepo)

			svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
			user, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: string(hashed),
		Role:         model.RoleUser,
	}

	t.Run("successful login", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
		mockStore := new(MockTokenStore)
		mockStore.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), user.ID, model.RoleUser, auth.RefreshTokenExpiry).Return(nil)

		jwtService := auth.NewJWTService("test-secret")
		svc := NewAuthService(mockRepo, jwtService, mockStore)

		access, refresh, got, err := svc.Login(context.Background(), "alice", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, user.ID, got.ID)

		claims, err := jwtService.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, model.RoleUser, claims.Role)

		mockStore.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

		svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
		_, _, _, err := svc.Login(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "bob").Return(nil, errors.ErrUserNotFound)

		svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
		_, _, _, err := svc.Login(context.Background(), "bob", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	user := &model.User{
		ID:       uuid.New(),
		Username: "alice",
		Role:     model.RoleUser,
	}
	jwtService := auth.NewJWTService("test-secret")

	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(user.ID, user.Username, user.Role)
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		mockStore := new(MockTokenStore)
		mockStore.On("GetRefreshToken", mock.Anything, tokenID).Return(user.ID, user.Role, nil)

		svc := NewAuthService(mockRepo, jwtService, mockStore)
		access, err := svc.RefreshToken(context.Background(), refreshToken)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		mockStore := new(MockTokenStore)
		mockStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uuid.Nil, "", assert.AnError)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockStore)
		_, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		// An access token's JTI is never in the refresh-token store, so it
		// cannot refresh a session.
		access, err := jwtService.GenerateAccessToken(user.ID, user.Username, user.Role)
		require.NoError(t, err)

		mockStore := new(MockTokenStore)
		mockStore.On("GetRefreshToken", mock.Anything, mock.AnythingOfType("string")).Return(uuid.Nil, "", assert.AnError)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockStore)
		_, err = svc.RefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	user := &model.User{ID: uuid.New(), Username: "alice", Role: model.RoleUser}
	jwtService := auth.NewJWTService("test-secret")

	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(user.ID, user.Username, user.Role)
	require.NoError(t, err)

	t.Run("revokes refresh token", func(t *testing.T) {
		mockStore := new(MockTokenStore)
		mockStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockStore)
		assert.NoError(t, svc.Logout(context.Background(), refreshToken, ""))
		mockStore.AssertExpectations(t)
	})

	t.Run("blacklists presented access token", func(t *testing.T) {
		accessToken, err := jwtService.GenerateAccessToken(user.ID, user.Username, user.Role)
		require.NoError(t, err)
		claims, err := jwtService.ValidateToken(accessToken)
		require.NoError(t, err)
		require.NotEmpty(t, claims.ID)

		mockStore := new(MockTokenStore)
		mockStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)
		mockStore.On("BlacklistAccessToken", mock.Anything, claims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 0 && ttl <= auth.AccessTokenExpiry
		})).Return(nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockStore)
		assert.NoError(t, svc.Logout(context.Background(), refreshToken, accessToken))
		mockStore.AssertExpectations(t)
	})

	t.Run("garbage access token is ignored", func(t *testing.T) {
		mockStore := new(MockTokenStore)
		mockStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockStore)
		assert.NoError(t, svc.Logout(context.Background(), refreshToken, "not-a-jwt"))
		mockStore.AssertExpectations(t)
	})
}
