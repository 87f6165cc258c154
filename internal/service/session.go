package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coinctrl/coinctrl/internal/config"
	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidSession = errors.New("invalid or expired session")
)

const sessionKeyPrefix = "session:"

// SessionClaims is the signed payload of a session token
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionToken is returned to clients on login
type SessionToken struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// SessionManager issues and validates signed session tokens. Tokens are
// HS256-signed; the jti of every live session is also held in Redis so
// that logout revokes server-side, not just in the browser.
type SessionManager struct {
	rdb *redis.Client
	cfg config.SessionConfig
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(rdb *redis.Client, cfg config.SessionConfig) *SessionManager {
	return &SessionManager{rdb: rdb, cfg: cfg}
}

// CookieName returns the name of the session cookie
func (m *SessionManager) CookieName() string {
	return m.cfg.CookieName
}

// CookieSecure reports whether the session cookie requires HTTPS
func (m *SessionManager) CookieSecure() bool {
	return m.cfg.Secure
}

// TTL returns the configured session lifetime
func (m *SessionManager) TTL() time.Duration {
	return time.Duration(m.cfg.ExpireHours) * time.Hour
}

// Issue creates a session for the user and registers it in Redis
func (m *SessionManager) Issue(ctx context.Context, user *models.User) (*SessionToken, error) {
	ttl := m.TTL()
	jti := uuid.New().String()

	claims := &SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "coinctrl",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return nil, err
	}

	if err := m.rdb.Set(ctx, sessionKeyPrefix+jti, user.ID, ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &SessionToken{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}

// Validate parses the token and checks that its session is still live
func (m *SessionManager) Validate(ctx context.Context, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidSession
	}

	exists, err := m.rdb.Exists(ctx, sessionKeyPrefix+claims.ID).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// Revoke invalidates the session identified by the token, if any
func (m *SessionManager) Revoke(ctx context.Context, tokenString string) error {
	claims, err := m.Validate(ctx, tokenString)
	if err != nil {
		// Already invalid; nothing to revoke.
		return nil
	}
	return m.rdb.Del(ctx, sessionKeyPrefix+claims.ID).Err()
}
