package middleware

import (
	"errors"
	"net/http"

	log "log/slog"

	"craftshare/internal/domain/policy"
	"craftshare/internal/domain/users"
	"craftshare/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	ctxViewer = "viewer"
	ctxUser   = "current_user"
)

// ResolveViewer turns the authenticated user id into a policy viewer with a
// birth date. Anonymous requests get policy.Anonymous().
func ResolveViewer(repo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := UserID(c)
		if id == 0 {
			c.Set(ctxViewer, policy.Anonymous())
			c.Next()
			return
		}

		u, err := repo.GetByID(c.Request.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			log.Error("resolve viewer", "user_id", id, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}

		SetUser(c, u)
		c.Next()
	}
}

// SetUser stores u as the authenticated user of the request.
func SetUser(c *gin.Context, u users.User) {
	c.Set(ctxUserID, u.ID)
	c.Set(ctxRole, u.Role)
	c.Set(ctxUser, u)
	c.Set(ctxViewer, u.Viewer())
}

// Viewer returns the viewer stored by ResolveViewer.
func Viewer(c *gin.Context) policy.Viewer {
	if v, ok := c.Get(ctxViewer); ok {
		if viewer, ok := v.(policy.Viewer); ok {
			return viewer
		}
	}
	return policy.Anonymous()
}

// CurrentUser returns the user loaded by ResolveViewer.
func CurrentUser(c *gin.Context) (users.User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return users.User{}, false
	}
	u, ok := v.(users.User)
	return u, ok
}
