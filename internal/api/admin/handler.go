package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "log/slog"

	"craftshare/config"
	"craftshare/internal/api/respond"
	"craftshare/internal/app/http/middleware"
	"craftshare/internal/domain/policy"
	"craftshare/internal/domain/posts"
	"craftshare/internal/repository"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID           uint       `json:"id"`
	Username     string     `json:"username"`
	Email        *string    `json:"email,omitempty"`
	Role         string     `json:"role"`
	AuthProvider string     `json:"auth_provider"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Mature       bool       `json:"mature"`
	CreatedAt    time.Time  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers  int `json:"total_users"`
	MatureUsers int `json:"mature_users"`
	// accounts without a birth date, usually Google sign-ins
	MissingBirthDate   int `json:"missing_birth_date"`
	ToolCategories     int `json:"tool_categories"`
	MaterialCategories int `json:"material_categories"`
}

type Handler struct {
	users      repository.UserRepository
	posts      repository.PostRepository
	categories repository.CategoryRepository
	rules      policy.Rules
	now        func() time.Time
}

func NewHandler(
	users repository.UserRepository,
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	rules config.ContentRules,
) *Handler {
	return &Handler{users: users, posts: posts, categories: categories, rules: rules.Policy(), now: time.Now}
}

func AdminDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the admin dashboard",
	})
}

// GET /admin/users
func (h *Handler) ListAllUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		respond.Internal(c, "admin list users", err)
		return
	}

	g := policy.NewGate(h.rules, h.now())
	adminUsers := make([]AdminUser, 0, len(list))
	for _, u := range list {
		adminUsers = append(adminUsers, AdminUser{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			Role:         u.Role,
			AuthProvider: u.AuthProvider,
			BirthDate:    u.BirthDate,
			Mature:       g.IsMature(u.Viewer()),
			CreatedAt:    u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

// GET /admin/users/:id
func (h *Handler) GetUserDetails(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid user id.", "", nil)
		return
	}

	ctx := c.Request.Context()
	u, err := h.users.GetByID(ctx, uint(id))
	if err != nil {
		respond.Repo(c, err, "User not found", "", "admin user details")
		return
	}
	count, err := h.posts.CountByUser(ctx, u.ID)
	if err != nil {
		respond.Internal(c, "admin count posts", err)
		return
	}

	g := policy.NewGate(h.rules, h.now())
	c.JSON(http.StatusOK, gin.H{
		"user": AdminUser{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			Role:         u.Role,
			AuthProvider: u.AuthProvider,
			BirthDate:    u.BirthDate,
			Mature:       g.IsMature(u.Viewer()),
			CreatedAt:    u.CreatedAt,
		},
		"posts": count,
	})
}

// GET /admin/stats
func (h *Handler) GetAdminStats(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.users.List(ctx)
	if err != nil {
		respond.Internal(c, "admin stats users", err)
		return
	}
	catalog, err := h.categories.Catalog(ctx)
	if err != nil {
		respond.Internal(c, "admin stats categories", err)
		return
	}

	g := policy.NewGate(h.rules, h.now())
	stats := AdminStats{
		TotalUsers:         len(list),
		ToolCategories:     len(catalog.Tools),
		MaterialCategories: len(catalog.Materials),
	}
	for _, u := range list {
		if u.BirthDate == nil {
			stats.MissingBirthDate++
		}
		if g.IsMature(u.Viewer()) {
			stats.MatureUsers++
		}
	}

	c.JSON(http.StatusOK, stats)
}

func categoryKind(c *gin.Context) (posts.CategoryKind, bool) {
	kind, err := posts.ParseCategoryKind(c.Param("kind"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Category kind must be tool or material.", "", nil)
		return "", false
	}
	return kind, true
}

// POST /admin/categories/:kind
func (h *Handler) AddCategory(c *gin.Context) {
	kind, ok := categoryKind(c)
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "Category name is required.", "", nil)
		return
	}
	name := strings.ToLower(strings.TrimSpace(middleware.Sanitize(body.Name)))
	if name == "" || len(name) > 50 {
		respond.Error(c, http.StatusBadRequest, "Category name must be between 1 and 50 characters.", "", nil)
		return
	}

	if err := h.categories.Add(c.Request.Context(), kind, name); err != nil {
		respond.Repo(c, err, "", "Category already exists.", "add category")
		return
	}
	log.Info("category added", "kind", kind, "name", name, "by", middleware.UserID(c))
	c.JSON(http.StatusCreated, gin.H{"kind": kind, "name": name})
}

// DELETE /admin/categories/:kind/:name
func (h *Handler) RemoveCategory(c *gin.Context) {
	kind, ok := categoryKind(c)
	if !ok {
		return
	}
	name := strings.TrimSpace(c.Param("name"))

	if err := h.categories.Remove(c.Request.Context(), kind, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Category not found.", "", nil)
			return
		}
		respond.Internal(c, "remove category", err)
		return
	}
	log.Info("category removed", "kind", kind, "name", name, "by", middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"message": "Category removed."})
}
