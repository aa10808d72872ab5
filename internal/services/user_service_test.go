package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storefront-service/internal/auth"
	"storefront-service/internal/domain"
	"storefront-service/internal/infra/assets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Delete(t *testing.T) {
	tests := []struct {
		name            string
		image           string
		setupMocks      func(*fixture)
		expectedWarning string
	}{
		{
			name:  "without image",
			image: "",
			setupMocks: func(f *fixture) {
				f.users.On("Delete", mock.Anything, TestUserID).Return(true, nil)
			},
		},
		{
			name:  "with image",
			image: "user-1.png",
			setupMocks: func(f *fixture) {
				f.users.On("Delete", mock.Anything, TestUserID).Return(true, nil)
				f.store.On("Delete", mock.Anything, assets.KindUsers, "user-1.png").Return(nil)
			},
		},
		{
			name:  "image removal fails",
			image: "user-1.png",
			setupMocks: func(f *fixture) {
				f.users.On("Delete", mock.Anything, TestUserID).Return(true, nil)
				f.store.On("Delete", mock.Anything, assets.KindUsers, "user-1.png").Return(errors.New("permission denied"))
			},
			expectedWarning: imageWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			u := CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "pw")
			u.ProfileImage = tt.image
			f.users.On("FindByID", mock.Anything, TestUserID).Return(u, nil)
			tt.setupMocks(f)

			warning, err := NewUserService(f.users, f.store).Delete(context.Background(), TestUserID)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedWarning, warning)
			if tt.image == "" {
				f.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
			}
			f.assertExpectations(t)
		})
	}
}

func TestUserService_Delete_NotFound(t *testing.T) {
	f := newFixture()
	f.users.On("FindByID", mock.Anything, TestUserID).Return(nil, nil)

	_, err := NewUserService(f.users, f.store).DeleteAccount(context.Background(), TestUserID)

	assert.Equal(t, domain.ErrUserNotFound, err)
	f.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserService_ChangePassword(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		next          string
		expectedError string
	}{
		{name: "missing fields", current: "", next: "new", expectedError: "current and new password are required"},
		{name: "wrong current password", current: "guess", next: "new", expectedError: "current password is incorrect"},
		{name: "changed", current: "old", next: "new"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			u := CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "old")
			f.users.On("FindByID", mock.Anything, TestUserID).Return(u, nil).Maybe()
			f.users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil).Maybe()

			err := NewUserService(f.users, f.store).ChangePassword(context.Background(), TestUserID, tt.current, tt.next)

			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
				f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.True(t, auth.CheckPassword(u.PasswordHash, "new"))
			}
		})
	}
}

func TestUserService_ResetPassword(t *testing.T) {
	f := newFixture()
	u := CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "old")
	f.users.On("FindByID", mock.Anything, TestUserID).Return(u, nil)
	f.users.On("Update", mock.Anything, u).Return(nil)

	err := NewUserService(f.users, f.store).ResetPassword(context.Background(), TestUserID, "fresh")

	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "fresh"))
	f.assertExpectations(t)
}

func TestUserService_UpdateProfile(t *testing.T) {
	admin := domain.RoleAdmin

	t.Run("email taken by another user", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByID", mock.Anything, TestUserID).Return(CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "pw"), nil)
		f.users.On("FindByEmail", mock.Anything, "b@example.com").Return(&domain.User{ID: 77}, nil)

		_, err := NewUserService(f.users, f.store).UpdateProfile(context.Background(), TestUserID, UserPatch{Email: strPtr("b@example.com")}, nil)

		assert.Equal(t, domain.ErrEmailTaken, err)
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unchanged email is not re-checked", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByID", mock.Anything, TestUserID).Return(CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "pw"), nil)
		f.users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		u, err := NewUserService(f.users, f.store).UpdateProfile(context.Background(), TestUserID,
			UserPatch{Name: strPtr("Ana"), Email: strPtr("A@example.com"), Role: &admin}, nil)

		require.NoError(t, err)
		assert.Equal(t, "Ana", u.Name)
		assert.Equal(t, domain.RoleUser, u.Role, "profile updates cannot change the role")
		f.users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("new image replaces the old one", func(t *testing.T) {
		f := newFixture()
		u := CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "pw")
		u.ProfileImage = "old.png"
		f.users.On("FindByID", mock.Anything, TestUserID).Return(u, nil)
		f.store.On("Save", mock.Anything, assets.KindUsers, mock.Anything).Return("new.png", nil)
		f.users.On("Update", mock.Anything, u).Return(nil)
		f.store.On("Delete", mock.Anything, assets.KindUsers, "old.png").Return(nil)

		got, err := NewUserService(f.users, f.store).UpdateProfile(context.Background(), TestUserID, UserPatch{},
			&assets.Upload{Filename: "me.png", Reader: strings.NewReader("png")})

		require.NoError(t, err)
		assert.Equal(t, "new.png", got.ProfileImage)
		f.assertExpectations(t)
	})
}

func TestUserService_AdminUpdateRole(t *testing.T) {
	admin := domain.RoleAdmin
	bogus := domain.Role("owner")

	f := newFixture()
	f.users.On("FindByID", mock.Anything, TestUserID).Return(CreateMockUser(TestUserID, "a@example.com", domain.RoleUser, "pw"), nil)
	f.users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	svc := NewUserService(f.users, f.store)

	u, err := svc.Update(context.Background(), TestUserID, UserPatch{Role: &admin}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	_, err = svc.Update(context.Background(), TestUserID, UserPatch{Role: &bogus}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Create(t *testing.T) {
	f := newFixture()
	f.users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, nil)
	f.store.On("Save", mock.Anything, assets.KindUsers, mock.Anything).Return("user-9.png", nil)
	f.users.On("Save", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	u, err := NewUserService(f.users, f.store).Create(context.Background(),
		UserInput{Name: "New", Email: "new@example.com", Password: "pw", Role: domain.RoleAdmin},
		&assets.Upload{Filename: "n.png", Reader: strings.NewReader("png")})

	require.NoError(t, err)
	assert.Equal(t, "user-9.png", u.ProfileImage)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	f.assertExpectations(t)
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	f := newFixture()

	_, err := NewUserService(f.users, f.store).Create(context.Background(),
		UserInput{Name: "New", Email: "new@example.com", Password: "pw", Role: "root"}, nil)

	assert.EqualError(t, err, "role must be user or admin")
	assert.ErrorIs(t, err, domain.ErrValidation)
	f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
