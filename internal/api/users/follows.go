package users

import (
	"errors"
	"net/http"

	"craftshare/internal/api/respond"
	"craftshare/internal/api/uploads"
	"craftshare/internal/app/http/middleware"
	"craftshare/internal/repository"

	"github.com/gin-gonic/gin"
)

func imageError(c *gin.Context, err error) {
	if errors.Is(err, uploads.ErrExtension) || errors.Is(err, uploads.ErrTooLarge) {
		respond.Error(c, http.StatusBadRequest, "Invalid image.", "", map[string][]string{"image": {err.Error()}})
		return
	}
	respond.Internal(c, "save image", err)
}

// followTarget resolves the :user_id parameter against the signed-in user.
func (h *Handler) followTarget(c *gin.Context) (follower, followed uint, ok bool) {
	follower = middleware.UserID(c)
	if follower == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, 0, false
	}
	followed, ok = parseUserID(c, "user_id")
	if !ok {
		return 0, 0, false
	}
	if follower == followed {
		respond.Error(c, http.StatusBadRequest, "You cannot follow yourself.", "", nil)
		return 0, 0, false
	}
	return follower, followed, true
}

// POST /follow/:user_id
func (h *Handler) Follow(c *gin.Context) {
	follower, followed, ok := h.followTarget(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.users.GetByID(ctx, followed); err != nil {
		respond.Repo(c, err, "User not found.", "", "follow lookup")
		return
	}
	if err := h.follows.Follow(ctx, follower, followed); err != nil {
		respond.Repo(c, err, "User not found.", "You are already following this user.", "follow")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "You are now following this user."})
}

// DELETE /follow/:user_id
func (h *Handler) Unfollow(c *gin.Context) {
	follower, followed, ok := h.followTarget(c)
	if !ok {
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), follower, followed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "You are not following this user.", "", nil)
			return
		}
		respond.Internal(c, "unfollow", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "You have unfollowed this user."})
}
