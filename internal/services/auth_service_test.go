package services

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/domain"
	"storefront-service/internal/infra/redisx"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, f *fixture) *AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tokens := auth.NewTokenManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	return NewAuthService(f.users, tokens, redisx.NewTokenBlacklist(rdb))
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         UserInput
		setupMocks    func(*fixture)
		expectedError string
		expectedRole  domain.Role
	}{
		{
			name:          "missing name",
			input:         UserInput{Email: "a@example.com", Password: "pw"},
			setupMocks:    func(f *fixture) {},
			expectedError: "name is required",
		},
		{
			name:          "missing email",
			input:         UserInput{Name: "Ana", Password: "pw"},
			setupMocks:    func(f *fixture) {},
			expectedError: "email is required",
		},
		{
			name:          "missing password",
			input:         UserInput{Name: "Ana", Email: "a@example.com"},
			setupMocks:    func(f *fixture) {},
			expectedError: "password is required",
		},
		{
			name:  "email taken",
			input: UserInput{Name: "Ana", Email: "A@Example.com ", Password: "pw"},
			setupMocks: func(f *fixture) {
				f.users.On("FindByEmail", mock.Anything, "a@example.com").Return(&domain.User{ID: 3}, nil)
			},
			expectedError: "email already registered",
		},
		{
			name:  "role defaults to user",
			input: UserInput{Name: "Ana", Email: "a@example.com", Password: "pw"},
			setupMocks: func(f *fixture) {
				f.users.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, nil)
				f.users.On("Save", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
			},
			expectedRole: domain.RoleUser,
		},
		{
			name:  "requested admin role is ignored",
			input: UserInput{Name: "Ana", Email: "a@example.com", Password: "pw", Role: domain.RoleAdmin},
			setupMocks: func(f *fixture) {
				f.users.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, nil)
				f.users.On("Save", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
			},
			expectedRole: domain.RoleUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			u, err := newAuthService(t, f).Register(context.Background(), tt.input)

			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
				assert.ErrorIs(t, err, domain.ErrValidation)
				f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedRole, u.Role)
				assert.NotEqual(t, "pw", u.PasswordHash)
				assert.True(t, auth.CheckPassword(u.PasswordHash, "pw"))
			}
			f.assertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	user := CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "s3cret")

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)

		_, err := newAuthService(t, f).Login(context.Background(), "a@example.com", "nope")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByEmail", mock.Anything, "b@example.com").Return(nil, nil)

		_, err := newAuthService(t, f).Login(context.Background(), "b@example.com", "s3cret")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("issues tokens", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
		svc := newAuthService(t, f)

		sess, err := svc.Login(context.Background(), "a@example.com", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.AccessToken)
		assert.NotEmpty(t, sess.RefreshToken)

		claims, err := svc.Authenticate(context.Background(), sess.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, TestUserID, claims.UserID)
		assert.Equal(t, domain.RoleUser, claims.Role)
	})
}

func TestAuthService_TokenRejectedAfterLogout(t *testing.T) {
	user := CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "s3cret")
	f := newFixture()
	f.users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
	svc := newAuthService(t, f)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "a@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.AccessToken, sess.RefreshToken))

	_, err = svc.Authenticate(ctx, sess.AccessToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, "token has been revoked", err.Error())

	_, err = svc.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_RefreshReloadsRole(t *testing.T) {
	user := CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "s3cret")
	promoted := *user
	promoted.Role = domain.RoleAdmin

	f := newFixture()
	f.users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
	f.users.On("FindByID", mock.Anything, TestUserID).Return(&promoted, nil)
	svc := newAuthService(t, f)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "a@example.com", "s3cret")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.Authenticate(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	f.assertExpectations(t)
}

func TestAuthService_RefreshForDeletedUser(t *testing.T) {
	user := CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "s3cret")
	f := newFixture()
	f.users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
	f.users.On("FindByID", mock.Anything, TestUserID).Return(nil, nil)
	svc := newAuthService(t, f)

	sess, err := svc.Login(context.Background(), "a@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), sess.RefreshToken)
	assert.EqualError(t, err, "user no longer exists")
}

func TestAuthService_AuthenticateRejectsRefreshToken(t *testing.T) {
	user := CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "s3cret")
	f := newFixture()
	f.users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
	svc := newAuthService(t, f)

	sess, err := svc.Login(context.Background(), "a@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), sess.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
