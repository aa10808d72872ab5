package services

import (
	"context"
	"strings"

	"storefront-service/internal/auth"
	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
)

type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UserPatch holds the fields of a partial user update; nil means unchanged.
type UserPatch struct {
	Name  *string
	Email *string
	Role  *domain.Role
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newUser validates in and returns an unsaved user with a hashed password.
func newUser(ctx context.Context, users repository.UserRepository, in UserInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	switch {
	case name == "":
		return nil, domain.Validation("name is required")
	case email == "":
		return nil, domain.Validation("email is required")
	case in.Password == "":
		return nil, domain.Validation("password is required")
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.Validation("role must be user or admin")
	}

	if err := ensureEmailFree(ctx, users, email, 0); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}, nil
}

// ensureEmailFree fails when email belongs to a user other than self.
func ensureEmailFree(ctx context.Context, users repository.UserRepository, email string, self uint64) error {
	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return domain.ErrEmailTaken
	}
	return nil
}
