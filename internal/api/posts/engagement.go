package posts

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	log "log/slog"

	"craftshare/internal/api/respond"
	"craftshare/internal/app/http/middleware"
	"craftshare/internal/domain/posts"

	"github.com/gin-gonic/gin"
)

// POST /like/:post_id
func (h *Handler) Like(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID, ok := parseID(c, "post_id")
	if !ok {
		return
	}
	if _, ok := h.visiblePost(c, postID); !ok {
		return
	}

	if err := h.engagement.AddLike(c.Request.Context(), postID, userID); err != nil {
		respond.Repo(c, err, "Post not found.", "You have already liked this post", "add like")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Post liked successfully!"})
}

// DELETE /like/:post_id
func (h *Handler) Unlike(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID, ok := parseID(c, "post_id")
	if !ok {
		return
	}
	if _, ok := h.visiblePost(c, postID); !ok {
		return
	}

	if err := h.engagement.RemoveLike(c.Request.Context(), postID, userID); err != nil {
		respond.Repo(c, err, "You have not liked this post.", "", "remove like")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Like removed successfully!"})
}

func checkScore(fe posts.FieldErrors, field string, v *int) int {
	if v == nil {
		fe[field] = append(fe[field], "This field is required.")
		return 0
	}
	if *v < 0 || *v > posts.MaxRatingScore {
		fe[field] = append(fe[field], fmt.Sprintf("Ensure this value is between 0 and %d.", posts.MaxRatingScore))
	}
	return *v
}

// POST /ratings/:post_id
func (h *Handler) Rate(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID, ok := parseID(c, "post_id")
	if !ok {
		return
	}
	if _, ok := h.visiblePost(c, postID); !ok {
		return
	}

	var in RatingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "Malformed request body.", "", nil)
		return
	}
	fe := posts.FieldErrors{}
	r := posts.Rating{
		PostID:     postID,
		UserID:     userID,
		SavesMoney: checkScore(fe, "saves_money", in.SavesMoney),
		SavesTime:  checkScore(fe, "saves_time", in.SavesTime),
		IsUseful:   checkScore(fe, "is_useful", in.IsUseful),
	}
	if len(fe) > 0 {
		formError(c, fe)
		return
	}

	ctx := c.Request.Context()
	created, err := h.engagement.UpsertRating(ctx, &r)
	if err != nil {
		respond.Internal(c, "upsert rating", err)
		return
	}
	summary, err := h.engagement.RatingSummary(ctx, postID)
	if err != nil {
		respond.Internal(c, "rating summary", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"saves_money": r.SavesMoney,
		"saves_time":  r.SavesTime,
		"is_useful":   r.IsUseful,
		"summary":     summary,
	})
}

// GET /comments/:post_id
func (h *Handler) ListComments(c *gin.Context) {
	postID, ok := parseID(c, "post_id")
	if !ok {
		return
	}
	if _, ok := h.visiblePost(c, postID); !ok {
		return
	}

	ctx := c.Request.Context()
	list, err := h.engagement.ListComments(ctx, postID)
	if err != nil {
		respond.Internal(c, "list comments", err)
		return
	}
	out := make([]CommentDTO, 0, len(list))
	for _, cm := range list {
		out = append(out, h.toCommentDTO(ctx, cm))
	}
	c.JSON(http.StatusOK, out)
}

// POST /comments/:post_id
func (h *Handler) AddComment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID, ok := parseID(c, "post_id")
	if !ok {
		return
	}
	if _, ok := h.visiblePost(c, postID); !ok {
		return
	}

	var in CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "Malformed request body.", "", nil)
		return
	}
	text := strings.TrimSpace(in.Text)
	switch {
	case text == "":
		formError(c, posts.FieldErrors{"text": {"This field may not be blank."}})
		return
	case utf8.RuneCountInString(text) > posts.MaxCommentLength:
		formError(c, posts.FieldErrors{"text": {fmt.Sprintf("Ensure this field has no more than %d characters.", posts.MaxCommentLength)}})
		return
	}

	ctx := c.Request.Context()
	cm := posts.Comment{PostID: postID, UserID: userID, Text: text}
	if err := h.engagement.AddComment(ctx, &cm); err != nil {
		respond.Repo(c, err, "Post not found.", "", "add comment")
		return
	}
	if u, ok := middleware.CurrentUser(c); ok {
		cm.User = u
	}
	c.JSON(http.StatusCreated, h.toCommentDTO(ctx, cm))
}

// DELETE /comments/:post_id/:comment_id
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID, ok := parseID(c, "post_id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}
	if _, ok := h.visiblePost(c, postID); !ok {
		return
	}

	ctx := c.Request.Context()
	cm, err := h.engagement.GetComment(ctx, postID, commentID)
	if err != nil {
		respond.Repo(c, err, "Comment not found.", "", "load comment")
		return
	}
	if cm.UserID != userID {
		respond.Error(c, http.StatusForbidden, "You are not allowed to delete this comment.", "comment delete by non-author", nil)
		return
	}
	if err := h.engagement.DeleteComment(ctx, cm.ID); err != nil {
		respond.Repo(c, err, "Comment not found.", "", "delete comment")
		return
	}
	log.Info("comment deleted", "comment_id", cm.ID, "post_id", postID)
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully."})
}
