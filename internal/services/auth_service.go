package services

import (
	"context"
	"log/slog"

	"storefront-service/internal/auth"
	"storefront-service/internal/domain"
	"storefront-service/internal/infra/redisx"
	"storefront-service/internal/repository"
)

var errBadCredentials = domain.Unauthenticated("invalid email or password")

type Session struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *domain.User `json:"user"`
}

type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenManager
	blacklist redisx.BlacklistInterface
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, blacklist redisx.BlacklistInterface) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
	}
}

// Register creates a regular user. Admins are created through UserService.
func (s *AuthService) Register(ctx context.Context, in UserInput) (*domain.User, error) {
	in.Role = domain.RoleUser
	u, err := newUser(ctx, s.users, in)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Validation("email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, errBadCredentials
	}

	access, err := s.tokens.IssueAccess(u)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(u)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: u}, nil
}

// Logout revokes the access token and, when given, the refresh token until
// each would have expired.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return err
	}
	if err := s.blacklist.Add(ctx, auth.Signature(accessToken), s.tokens.Remaining(claims)); err != nil {
		return err
	}

	if refreshToken == "" {
		return nil
	}
	rc, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		// An unusable refresh token needs no revoking.
		return nil
	}
	return s.blacklist.Add(ctx, auth.Signature(refreshToken), s.tokens.Remaining(rc))
}

// Refresh issues a new access token. The role is read from storage so a role
// change takes effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	if err := s.checkRevoked(ctx, refreshToken); err != nil {
		return "", err
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", domain.Unauthenticated("user no longer exists")
	}
	return s.tokens.IssueAccess(u)
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevoked(ctx, token); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, token string) error {
	revoked, err := s.blacklist.Contains(ctx, auth.Signature(token))
	if err != nil {
		return err
	}
	if revoked {
		return domain.Unauthenticated("token has been revoked")
	}
	return nil
}
