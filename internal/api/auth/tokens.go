package auth

import (
	"errors"
	"time"

	"craftshare/config"
	"craftshare/internal/app/http/middleware"
	"craftshare/internal/domain/users"

	"github.com/golang-jwt/jwt/v5"
)

var ErrSecretMissing = errors.New("JWT secret not configured")

// Tokens issues the HS256 access/refresh pairs that AuthMiddleware accepts.
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokens(cfg config.JWTConfig) *Tokens {
	return &Tokens{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (t *Tokens) sign(user users.User, typ string, ttl time.Duration) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrSecretMissing
	}
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		middleware.ClaimUserID: user.ID,
		middleware.ClaimRole:   user.Role,
		middleware.ClaimType:   typ,
		"iat":                  now.Unix(),
		"exp":                  now.Add(ttl).Unix(),
	})
	return token.SignedString(t.secret)
}

func (t *Tokens) Issue(user users.User) (TokenPair, error) {
	access, err := t.sign(user, middleware.TokenAccess, t.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.sign(user, middleware.TokenRefresh, t.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Access issues a fresh access token only.
func (t *Tokens) Access(user users.User) (string, error) {
	return t.sign(user, middleware.TokenAccess, t.accessTTL)
}

// RefreshUserID validates a refresh token and returns its user id.
func (t *Tokens) RefreshUserID(raw string) (uint, error) {
	claims, err := middleware.ParseToken(t.secret, raw, middleware.TokenRefresh)
	if err != nil {
		return 0, err
	}
	return middleware.UserIDFromClaims(claims), nil
}
