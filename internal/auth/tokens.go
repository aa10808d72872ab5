package auth

import (
	"errors"
	"strings"
	"time"

	"storefront-service/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID uint64      `json:"uid"`
	Role   domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (m *TokenManager) IssueAccess(u *domain.User) (string, error) {
	return m.issue(u.ID, u.Role, m.accessSecret, m.accessTTL)
}

// IssueRefresh deliberately omits the role; refresh reloads it from storage.
func (m *TokenManager) IssueRefresh(u *domain.User) (string, error) {
	return m.issue(u.ID, "", m.refreshSecret, m.refreshTTL)
}

func (m *TokenManager) issue(userID uint64, role domain.Role, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *TokenManager) ParseAccess(token string) (*Claims, error) {
	return m.parse(token, m.accessSecret)
}

func (m *TokenManager) ParseRefresh(token string) (*Claims, error) {
	return m.parse(token, m.refreshSecret)
}

func (m *TokenManager) parse(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.Unauthenticated("token expired")
		}
		return nil, domain.Unauthenticated("invalid token")
	}
	if claims.UserID == 0 {
		return nil, domain.Unauthenticated("invalid token")
	}
	return claims, nil
}

// Remaining is how long the token stays valid.
func (m *TokenManager) Remaining(c *Claims) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(m.now())
}

// Signature returns the signature segment of a compact JWT, which is what the
// blacklist is keyed by.
func Signature(token string) string {
	i := strings.LastIndexByte(token, '.')
	if i < 0 {
		return token
	}
	return token[i+1:]
}
