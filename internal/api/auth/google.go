package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	log "log/slog"

	"craftshare/config"
	"craftshare/internal/domain/users"
	"craftshare/internal/repository"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleIssuer = "https://accounts.google.com"

// Google implements sign-in with Google through OpenID Connect. Accounts it
// creates have no birth date, so restricted posts stay hidden until the user
// sets one with PUT /me.
type Google struct {
	cfg    config.GoogleConfig
	users  repository.UserRepository
	tokens *Tokens
}

func NewGoogle(cfg config.GoogleConfig, users repository.UserRepository, tokens *Tokens) *Google {
	return &Google{cfg: cfg, users: users, tokens: tokens}
}

func (g *Google) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.cfg.ClientID,
		ClientSecret: g.cfg.ClientSecret,
		RedirectURL:  g.cfg.RedirectURL,
		Scopes: []string{
			"openid",
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func (g *Google) Start(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	// 5 minutes, HttpOnly
	c.SetCookie("oauth_state", state, 300, "/", "", c.Request.TLS != nil, true)

	c.Redirect(http.StatusFound, g.oauthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /auth/google/callback
func (g *Google) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie("oauth_state")
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	ctx := c.Request.Context()
	tok, err := g.oauthConfig().Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to exchange code"})
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing id_token"})
		return
	}

	claims, err := g.verifyIDToken(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := g.findOrCreateUser(ctx, claims)
	if err != nil {
		log.Error("google sign-in", "sub", claims.Sub, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	pair, err := g.tokens.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create token"})
		return
	}

	if g.cfg.FrontendRedirect == "" {
		c.JSON(http.StatusOK, pair)
		return
	}
	q := url.Values{}
	q.Set("access", pair.Access)
	q.Set("refresh", pair.Refresh)
	c.Redirect(http.StatusFound, g.cfg.FrontendRedirect+"?"+q.Encode())
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
}

func (g *Google) verifyIDToken(ctx context.Context, rawIDToken string) (*googleIDClaims, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, errors.New("failed to init google oidc provider")
	}

	idToken, err := provider.Verifier(&oidc.Config{ClientID: g.cfg.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("failed to decode token claims")
	}
	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}
	return &claims, nil
}

func (g *Google) findOrCreateUser(ctx context.Context, gc *googleIDClaims) (users.User, error) {
	user, err := g.users.GetByGoogleSub(ctx, gc.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return users.User{}, err
	}

	// link an existing account with the same verified email
	if gc.EmailVerified {
		user, err = g.users.GetByEmail(ctx, gc.Email)
		if err == nil {
			sub := gc.Sub
			user.GoogleSub = &sub
			if err := g.users.Save(ctx, &user); err != nil {
				return users.User{}, err
			}
			return user, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return users.User{}, err
		}
	}

	username, err := g.freeUsername(ctx, firstNonEmpty(emailLocalPart(gc.Email), gc.GivenName, gc.Name, "user"))
	if err != nil {
		return users.User{}, err
	}
	sub, email := gc.Sub, gc.Email
	user = users.User{
		Username:     username,
		Email:        &email,
		AuthProvider: users.ProviderGoogle,
		GoogleSub:    &sub,
		Role:         users.RoleUser,
	}
	if err := g.users.Create(ctx, &user); err != nil {
		return users.User{}, err
	}
	return user, nil
}

var usernameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return usernameUnsafe.ReplaceAllString(local, "")
}

// freeUsername returns base or base with a numeric suffix that is not taken.
func (g *Google) freeUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 2; i < 100; i++ {
		_, err := g.users.GetByUsername(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", fmt.Errorf("no free username for %q", base)
}
