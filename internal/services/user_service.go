package services

import (
	"context"
	"log/slog"
	"strings"

	"storefront-service/internal/auth"
	"storefront-service/internal/domain"
	"storefront-service/internal/infra/assets"
	"storefront-service/internal/repository"
)

const imageWarning = "user deleted but the profile image could not be removed"

type UserService struct {
	repo   repository.UserRepository
	assets assets.StoreInterface
}

func NewUserService(r repository.UserRepository, store assets.StoreInterface) *UserService {
	return &UserService{repo: r, assets: store}
}

func (s *UserService) Profile(ctx context.Context, id uint64) (*domain.User, error) {
	return s.Get(ctx, id)
}

// UpdateProfile changes the caller's own name, email or image. Roles cannot
// be self-assigned.
func (s *UserService) UpdateProfile(ctx context.Context, id uint64, patch UserPatch, image *assets.Upload) (*domain.User, error) {
	patch.Role = nil
	return s.update(ctx, id, patch, image)
}

func (s *UserService) ChangePassword(ctx context.Context, id uint64, current, next string) error {
	if current == "" || next == "" {
		return domain.Validation("current and new password are required")
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, current) {
		return domain.Validation("current password is incorrect")
	}
	return s.setPassword(ctx, u, next)
}

func (s *UserService) DeleteAccount(ctx context.Context, id uint64) (string, error) {
	return s.Delete(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint64) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, in UserInput, image *assets.Upload) (*domain.User, error) {
	u, err := newUser(ctx, s.repo, in)
	if err != nil {
		return nil, err
	}
	if image != nil {
		stored, err := s.assets.Save(ctx, assets.KindUsers, image)
		if err != nil {
			return nil, err
		}
		u.ProfileImage = stored
	}
	if err := s.repo.Save(ctx, u); err != nil {
		s.removeAsset(ctx, u.ProfileImage)
		return nil, err
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uint64, patch UserPatch, image *assets.Upload) (*domain.User, error) {
	return s.update(ctx, id, patch, image)
}

// ResetPassword sets a new password without knowing the old one.
func (s *UserService) ResetPassword(ctx context.Context, id uint64, next string) error {
	if next == "" {
		return domain.Validation("new password is required")
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, u, next)
}

// Delete removes the user record and then the profile image. A failed image
// removal is logged and returned as a warning; the record stays deleted.
func (s *UserService) Delete(ctx context.Context, id uint64) (string, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrUserNotFound
	}

	if u.ProfileImage == "" {
		return "", nil
	}
	if err := s.assets.Delete(ctx, assets.KindUsers, u.ProfileImage); err != nil {
		slog.ErrorContext(ctx, "failed to delete profile image", "user_id", id, "image", u.ProfileImage, "error", err)
		return imageWarning, nil
	}
	return "", nil
}

func (s *UserService) update(ctx context.Context, id uint64, patch UserPatch, image *assets.Upload) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.Validation("name cannot be empty")
		}
		u.Name = name
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return nil, domain.Validation("email cannot be empty")
		}
		if email != u.Email {
			if err := ensureEmailFree(ctx, s.repo, email, u.ID); err != nil {
				return nil, err
			}
			u.Email = email
		}
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, domain.Validation("role must be user or admin")
		}
		u.Role = *patch.Role
	}

	var oldImage string
	if image != nil {
		stored, err := s.assets.Save(ctx, assets.KindUsers, image)
		if err != nil {
			return nil, err
		}
		oldImage = u.ProfileImage
		u.ProfileImage = stored
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if image != nil {
			s.removeAsset(ctx, u.ProfileImage)
		}
		return nil, err
	}
	s.removeAsset(ctx, oldImage)
	return u, nil
}

func (s *UserService) setPassword(ctx context.Context, u *domain.User, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.repo.Update(ctx, u)
}

func (s *UserService) removeAsset(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.assets.Delete(ctx, assets.KindUsers, name); err != nil {
		slog.ErrorContext(ctx, "failed to delete profile image", "image", name, "error", err)
	}
}
