package posts

import (
	"net/http"
	"strings"
	"testing"

	"craftshare/internal/domain/posts"
	"craftshare/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLike(t *testing.T) {
	t.Run("liked", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Get", mock.Anything, uint(1)).Return(safePost(1), nil)
		f.engagement.On("AddLike", mock.Anything, uint(1), minor.ID).Return(nil)

		w := do(f.router(&minor), http.MethodPost, "/like/1", nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Post liked successfully!", decode[map[string]string](t, w)["message"])
	})

	t.Run("twice", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Get", mock.Anything, uint(1)).Return(safePost(1), nil)
		f.engagement.On("AddLike", mock.Anything, uint(1), minor.ID).Return(repository.ErrConflict)

		w := do(f.router(&minor), http.MethodPost, "/like/1", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "You have already liked this post", decode[map[string]string](t, w)["error"])
	})

	t.Run("restricted post", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Get", mock.Anything, uint(2)).Return(harmfulPost(2), nil)

		w := do(f.router(&minor), http.MethodPost, "/like/2", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		f.engagement.AssertNotCalled(t, "AddLike", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture()
		w := do(f.router(nil), http.MethodPost, "/like/1", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUnlike_NotLiked(t *testing.T) {
	f := newFixture()
	f.posts.On("Get", mock.Anything, uint(1)).Return(safePost(1), nil)
	f.engagement.On("RemoveLike", mock.Anything, uint(1), adult.ID).Return(repository.ErrNotFound)

	w := do(f.router(&adult), http.MethodDelete, "/like/1", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRate(t *testing.T) {
	t.Run("out of range", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Get", mock.Anything, uint(1)).Return(safePost(1), nil)

		w := do(f.router(&adult), http.MethodPost, "/ratings/1", map[string]int{"saves_money": 6, "saves_time": 1, "is_useful": 1})

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode[map[string]any](t, w)["details"], "saves_money")
		f.engagement.AssertNotCalled(t, "UpsertRating", mock.Anything, mock.Anything)
	})

	t.Run("missing score", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Get", mock.Anything, uint(1)).Return(safePost(1), nil)

		w := do(f.router(&adult), http.MethodPost, "/ratings/1", map[string]int{"saves_money": 2, "saves_time": 1})

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode[map[string]any](t, w)["details"], "is_useful")
	})

	for name, tc := range map[string]struct {
		created bool
		status  int
	}{
		"first rating": {true, http.StatusCreated},
		"re-rating":    {false, http.StatusOK},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.posts.On("Get", mock.Anything, uint(1)).Return(safePost(1), nil)
			f.engagement.On("UpsertRating", mock.Anything, mock.MatchedBy(func(r *posts.Rating) bool {
				return r.PostID == 1 && r.UserID == adult.ID && r.SavesMoney == 5 && r.IsUseful == 0
			})).Return(tc.created, nil)
			f.engagement.On("RatingSummary", mock.Anything, uint(1)).Return(posts.RatingSummary{Count: 1, SavesMoney: 5}, nil)

			w := do(f.router(&adult), http.MethodPost, "/ratings/1", map[string]int{"saves_money": 5, "saves_time": 3, "is_useful": 0})

			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestComments(t *testing.T) {
	t.Run("list hidden behind restricted post", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Get", mock.Anything, uint(2)).Return(harmfulPost(2), nil)

		w := do(f.router(nil), http.MethodGet, "/comments/2", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Get", mock.Anything, uint(1)).Return(safePost(1), nil)
		f.engagement.On("ListComments", mock.Anything, uint(1)).
			Return([]posts.Comment{{ID: 4, PostID: 1, UserID: minor.ID, User: minor, Text: "nice"}}, nil)

		w := do(f.router(nil), http.MethodGet, "/comments/1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		got := decode[[]CommentDTO](t, w)
		require.Len(t, got, 1)
		assert.Equal(t, "kiddo", got[0].Author.Username)
	})

	t.Run("too long", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Get", mock.Anything, uint(1)).Return(safePost(1), nil)

		w := do(f.router(&adult), http.MethodPost, "/comments/1", CommentInput{Text: strings.Repeat("a", 201)})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.engagement.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything)
	})

	t.Run("add", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Get", mock.Anything, uint(1)).Return(safePost(1), nil)
		f.engagement.On("AddComment", mock.Anything, mock.MatchedBy(func(c *posts.Comment) bool {
			return c.UserID == adult.ID && c.Text == "great"
		})).Run(func(args mock.Arguments) { args.Get(1).(*posts.Comment).ID = 9 }).Return(nil)

		w := do(f.router(&adult), http.MethodPost, "/comments/1", CommentInput{Text: "  great "})

		require.Equal(t, http.StatusCreated, w.Code)
		got := decode[CommentDTO](t, w)
		assert.EqualValues(t, 9, got.ID)
		assert.Equal(t, "grownup", got.Author.Username)
	})

	t.Run("delete by someone else", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Get", mock.Anything, uint(1)).Return(safePost(1), nil)
		f.engagement.On("GetComment", mock.Anything, uint(1), uint(9)).
			Return(posts.Comment{ID: 9, PostID: 1, UserID: minor.ID}, nil)

		w := do(f.router(&adult), http.MethodDelete, "/comments/1/9", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		f.engagement.AssertNotCalled(t, "DeleteComment", mock.Anything, mock.Anything)
	})

	t.Run("delete own", func(t *testing.T) {
		f := newFixture()
		f.posts.On("Get", mock.Anything, uint(1)).Return(safePost(1), nil)
		f.engagement.On("GetComment", mock.Anything, uint(1), uint(9)).
			Return(posts.Comment{ID: 9, PostID: 1, UserID: minor.ID}, nil)
		f.engagement.On("DeleteComment", mock.Anything, uint(9)).Return(nil)

		w := do(f.router(&minor), http.MethodDelete, "/comments/1/9", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
