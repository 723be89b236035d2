package posts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	log "log/slog"

	"craftshare/config"
	"craftshare/internal/api/respond"
	"craftshare/internal/api/uploads"
	"craftshare/internal/app/http/middleware"
	"craftshare/internal/domain/policy"
	"craftshare/internal/domain/posts"
	"craftshare/internal/repository"

	"github.com/gin-gonic/gin"
)

// Handler serves posts, categories, likes, ratings and comments. Every read
// goes through the visibility policy; every write through the submission gate.
type Handler struct {
	posts      repository.PostRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	engagement repository.EngagementRepository
	images     *uploads.Images
	rules      policy.Rules
	metrics    *middleware.Metrics
	now        func() time.Time
}

type Deps struct {
	Posts      repository.PostRepository
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Engagement repository.EngagementRepository
	Images     *uploads.Images
	Content    config.ContentRules
	Metrics    *middleware.Metrics
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		posts:      d.Posts,
		users:      d.Users,
		categories: d.Categories,
		engagement: d.Engagement,
		images:     d.Images,
		rules:      d.Content.Policy(),
		metrics:    d.Metrics,
		now:        time.Now,
	}
}

// gate is built once per request so every check in it uses the same instant.
func (h *Handler) gate() policy.Gate {
	return policy.NewGate(h.rules, h.now())
}

func (h *Handler) deny(c *gin.Context, g policy.Gate) {
	h.metrics.AccessDenied()
	respond.Denied(c, g.Deny())
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		respond.Error(c, http.StatusBadRequest, "Invalid id.", "", nil)
		return 0, false
	}
	return uint(id), true
}

func mustUserID(c *gin.Context) (uint, bool) {
	userID := middleware.UserID(c)
	if userID == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided."})
		return 0, false
	}
	return userID, true
}

// visiblePost loads a post and applies the visibility policy to it. It writes
// the error response itself and reports whether the caller may continue.
func (h *Handler) visiblePost(c *gin.Context, id uint) (posts.Post, bool) {
	g := h.gate()
	p, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		respond.Repo(c, err, "Post not found.", "", "load post")
		return posts.Post{}, false
	}
	p, err = policy.VisibleOrDeny(g, middleware.Viewer(c), p)
	if err != nil {
		h.deny(c, g)
		return posts.Post{}, false
	}
	return p, true
}

// paginate applies optional limit/offset query parameters after filtering.
func paginate[T any](c *gin.Context, items []T) []T {
	offset, _ := strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// GET /posts
func (h *Handler) List(c *gin.Context) {
	list, err := h.posts.List(c.Request.Context(), repository.PostFilter{})
	if err != nil {
		respond.Internal(c, "list posts", err)
		return
	}
	visible := policy.FilterVisible(h.gate(), middleware.Viewer(c), list)
	c.JSON(http.StatusOK, h.toPostDTOs(c.Request.Context(), paginate(c, visible)))
}

// GET /posts/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, ok := h.visiblePost(c, id)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	dto := h.toDetailDTO(ctx, p)
	likes, err := h.engagement.LikeCount(ctx, p.ID)
	if err != nil {
		respond.Internal(c, "count likes", err)
		return
	}
	dto.Likes = &likes
	summary, err := h.engagement.RatingSummary(ctx, p.ID)
	if err != nil {
		respond.Internal(c, "rating summary", err)
		return
	}
	dto.Ratings = &summary
	if uid := middleware.UserID(c); uid != 0 {
		liked, err := h.engagement.HasLiked(ctx, p.ID, uid)
		if err != nil {
			respond.Internal(c, "has liked", err)
			return
		}
		dto.Liked = &liked
	}
	c.JSON(http.StatusOK, dto)
}

// POST /posts creates a post, or filters posts when action is "filter".
func (h *Handler) Create(c *gin.Context) {
	sub, err := parseSubmission(c)
	if sub.Action == ActionFilter {
		if err != nil && !errors.As(err, new(posts.FieldErrors)) {
			formError(c, err)
			return
		}
		h.filter(c, sub.Filters)
		return
	}
	if sub.Action != ActionCreate {
		respond.Error(c, http.StatusBadRequest, "Unknown action.", "", nil)
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err != nil {
		formError(c, err)
		return
	}
	if err := sub.Input.Validate(true); err != nil {
		formError(c, err)
		return
	}
	if !h.validCategories(c, sub.Input) {
		return
	}

	if sub.Image != nil {
		if err := h.images.Validate(sub.Image); err != nil {
			imageError(c, err)
			return
		}
	}

	g := h.gate()
	if !g.CanSubmit(middleware.Viewer(c), sub.Input.Content()) {
		log.Debug("post creation denied", "user_id", userID)
		h.deny(c, g)
		return
	}

	ctx := c.Request.Context()
	p := sub.Input.NewPost(userID)
	if sub.Image != nil {
		img, err := h.images.Save(ctx, sub.Image, "posts")
		if err != nil {
			imageError(c, err)
			return
		}
		p.ImageID = &img.ID
		p.Image = img
	}

	if err := h.posts.Create(ctx, &p, relations(sub.Input)); err != nil {
		h.images.Remove(ctx, p.Image)
		respond.Repo(c, err, "Unknown category.", "", "create post")
		return
	}

	created, err := h.posts.Get(ctx, p.ID)
	if err != nil {
		respond.Internal(c, "reload post", err)
		return
	}
	log.Info("post created", "post_id", p.ID, "user_id", userID, "restricted", created.Content().Restricted())
	c.JSON(http.StatusCreated, h.toDetailDTO(ctx, created))
}

func (h *Handler) filter(c *gin.Context, f Filters) {
	ctx := c.Request.Context()
	pf := repository.PostFilter{SearchTerms: f.SearchQuery}
	if f.UserID != "" {
		if n, err := strconv.ParseUint(f.UserID, 10, 64); err == nil {
			id := uint(n)
			pf.UserID = &id
		} else {
			u, err := h.users.GetByUsername(ctx, f.UserID)
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusOK, []PostDTO{})
				return
			}
			if err != nil {
				respond.Internal(c, "filter user lookup", err)
				return
			}
			pf.UserID = &u.ID
		}
	}

	list, err := h.posts.List(ctx, pf)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Unable to filter posts.", "filter posts: "+err.Error(), nil)
		return
	}
	visible := policy.FilterVisible(h.gate(), middleware.Viewer(c), list)
	c.JSON(http.StatusOK, h.toPostDTOs(ctx, paginate(c, visible)))
}

// validCategories checks that every submitted category exists.
func (h *Handler) validCategories(c *gin.Context, in posts.PostInput) bool {
	if in.ToolCategories == nil && in.MaterialCategories == nil {
		return true
	}
	catalog, err := h.categories.Catalog(c.Request.Context())
	if err != nil {
		respond.Internal(c, "load categories", err)
		return false
	}
	fe := posts.FieldErrors{}
	if in.ToolCategories != nil && len(catalog.Unknown(posts.KindTool, *in.ToolCategories)) > 0 {
		fe["harmful_tool_categories"] = []string{"You entered a tool category that is not allowed."}
	}
	if in.MaterialCategories != nil && len(catalog.Unknown(posts.KindMaterial, *in.MaterialCategories)) > 0 {
		fe["harmful_material_categories"] = []string{"You entered a material category that is not allowed."}
	}
	if len(fe) > 0 {
		formError(c, fe)
		return false
	}
	return true
}

func relations(in posts.PostInput) repository.PostRelations {
	var rel repository.PostRelations
	if in.Tools != nil {
		tools := posts.ToTools(*in.Tools)
		rel.Tools = &tools
	}
	if in.Materials != nil {
		materials := posts.ToMaterials(*in.Materials)
		rel.Materials = &materials
	}
	rel.ToolCategories = in.ToolCategories
	rel.MaterialCategories = in.MaterialCategories
	return rel
}

func imageError(c *gin.Context, err error) {
	if errors.Is(err, uploads.ErrExtension) || errors.Is(err, uploads.ErrTooLarge) {
		formError(c, posts.FieldErrors{"image": {err.Error()}})
		return
	}
	respond.Internal(c, "save image", err)
}

// PUT /posts/:id
func (h *Handler) Update(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.posts.Get(ctx, id)
	if err != nil {
		respond.Repo(c, err, "Post not found.", "", "load post")
		return
	}
	if !existing.OwnedBy(userID) {
		respond.Error(c, http.StatusForbidden, "You are not allowed to edit this post.", "edit by non-owner", nil)
		return
	}

	sub, err := parseSubmission(c)
	if err != nil {
		formError(c, err)
		return
	}
	if err := sub.Input.Validate(false); err != nil {
		formError(c, err)
		return
	}
	if !h.validCategories(c, sub.Input) {
		return
	}

	if sub.Image != nil {
		if err := h.images.Validate(sub.Image); err != nil {
			imageError(c, err)
			return
		}
	}

	g := h.gate()
	if !g.CanSubmit(middleware.Viewer(c), sub.Input.MergedContent(existing)) {
		log.Debug("post update denied", "user_id", userID, "post_id", id)
		h.deny(c, g)
		return
	}

	p := existing
	sub.Input.ApplyTo(&p)
	oldImage := existing.Image
	if sub.Image != nil {
		img, err := h.images.Save(ctx, sub.Image, "posts")
		if err != nil {
			imageError(c, err)
			return
		}
		p.ImageID = &img.ID
		p.Image = img
	}

	if err := h.posts.Update(ctx, &p, relations(sub.Input)); err != nil {
		if sub.Image != nil {
			h.images.Remove(ctx, p.Image)
		}
		respond.Repo(c, err, "Unknown category.", "", "update post")
		return
	}
	if sub.Image != nil {
		h.images.Remove(ctx, oldImage)
	}

	updated, err := h.posts.Get(ctx, id)
	if err != nil {
		respond.Internal(c, "reload post", err)
		return
	}
	c.JSON(http.StatusOK, h.toDetailDTO(ctx, updated))
}

// DELETE /post/delete-post/:id
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	p, err := h.posts.Get(ctx, id)
	if err != nil {
		respond.Repo(c, err, "Post not found.", "", "load post")
		return
	}
	if !p.OwnedBy(userID) {
		respond.Error(c, http.StatusForbidden, "You are not allowed to delete this post.", "delete by non-owner", nil)
		return
	}
	if err := h.posts.Delete(ctx, id); err != nil {
		respond.Repo(c, err, "Post not found.", "", "delete post")
		return
	}
	h.images.Remove(ctx, p.Image)

	c.JSON(http.StatusOK, gin.H{"message": "Deleted post successfully."})
}

// GET /categories
func (h *Handler) Categories(c *gin.Context) {
	catalog, err := h.categories.Catalog(c.Request.Context())
	if err != nil {
		respond.Internal(c, "load categories", err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}
