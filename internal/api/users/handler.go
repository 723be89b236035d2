package users

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "log/slog"

	"craftshare/config"
	"craftshare/internal/api/auth"
	"craftshare/internal/api/respond"
	"craftshare/internal/api/uploads"
	"craftshare/internal/app/http/middleware"
	"craftshare/internal/domain/policy"
	"craftshare/internal/repository"

	"github.com/gin-gonic/gin"
)

// Handler serves public profiles, the signed-in user's own profile and
// follow relations.
type Handler struct {
	users   repository.UserRepository
	posts   repository.PostRepository
	follows repository.FollowRepository
	images  *uploads.Images
	rules   config.ContentRules
	now     func() time.Time
}

func NewHandler(
	users repository.UserRepository,
	posts repository.PostRepository,
	follows repository.FollowRepository,
	images *uploads.Images,
	rules config.ContentRules,
) *Handler {
	return &Handler{users: users, posts: posts, follows: follows, images: images, rules: rules, now: time.Now}
}

func parseUserID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		respond.Error(c, http.StatusBadRequest, "Invalid user id.", "", nil)
		return 0, false
	}
	return uint(id), true
}

// GET /profiles
func (h *Handler) ListProfiles(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.users.List(ctx)
	if err != nil {
		respond.Internal(c, "list users", err)
		return
	}
	out := make([]ProfileDTO, 0, len(list))
	for _, u := range list {
		out = append(out, h.BuildProfileDTO(ctx, u))
	}
	c.JSON(http.StatusOK, out)
}

// GET /profile/:id
func (h *Handler) GetProfile(c *gin.Context) {
	id, ok := parseUserID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	u, err := h.users.GetByID(ctx, id)
	if err != nil {
		respond.Repo(c, err, "User not found.", "", "load profile")
		return
	}
	stats, err := h.BuildStatsDTO(ctx, u.ID)
	if err != nil {
		respond.Internal(c, "profile stats", err)
		return
	}

	resp := h.BuildProfileDTO(ctx, u)
	resp.Stats = &stats
	if viewerID := middleware.UserID(c); viewerID != 0 && viewerID != u.ID {
		following, err := h.follows.IsFollowing(ctx, viewerID, u.ID)
		if err != nil {
			respond.Internal(c, "is following", err)
			return
		}
		resp.IsFollowing = &following
	}
	c.JSON(http.StatusOK, resp)
}

// GET /me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	stats, err := h.BuildStatsDTO(ctx, user.ID)
	if err != nil {
		respond.Internal(c, "me stats", err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User:   h.BuildUserDTO(ctx, user),
		Stats:  stats,
		Access: BuildAccessDTO(policy.NewGate(h.rules.Policy(), h.now()), user),
	})
}

// PUT /me updates the profile image. Google accounts start without a birth
// date and set it here once; a stored birth date cannot be changed.
func (h *Handler) UpdateCurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		BirthDate *string `json:"birth_date" form:"birth_date"`
	}
	if err := c.ShouldBind(&input); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, "Invalid profile data.", "", nil)
		return
	}

	now := h.now()
	if input.BirthDate != nil {
		if raw := strings.TrimSpace(*input.BirthDate); raw != "" {
			switch {
			case user.BirthDate == nil:
				birth, details := auth.ParseBirthDate(raw, now, h.rules.AccountMinAge)
				if details != nil {
					respond.Error(c, http.StatusBadRequest, "Invalid profile data.", "", details)
					return
				}
				user.BirthDate = &birth
			case raw != user.BirthDate.Format(dateLayout):
				respond.Error(c, http.StatusBadRequest, "Invalid profile data.", "birth date change refused",
					map[string][]string{"birth_date": {"Birth date cannot be changed once set."}})
				return
			}
		}
	}

	ctx := c.Request.Context()
	oldImage := user.Image
	newImage := false
	if fh, ferr := c.FormFile("image"); ferr == nil {
		img, err := h.images.Save(ctx, fh, "profiles")
		if err != nil {
			imageError(c, err)
			return
		}
		user.ImageID = &img.ID
		user.Image = img
		newImage = true
	}

	if err := h.users.Save(ctx, &user); err != nil {
		if newImage {
			h.images.Remove(ctx, user.Image)
		}
		respond.Repo(c, err, "User not found.", "", "update profile")
		return
	}
	if newImage {
		h.images.Remove(ctx, oldImage)
	}
	middleware.SetUser(c, user)

	log.Info("profile updated", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"user":   h.BuildUserDTO(ctx, user),
		"access": BuildAccessDTO(policy.NewGate(h.rules.Policy(), now), user),
	})
}
