package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"craftshare/config"
	"craftshare/internal/app/http/middleware"
	"craftshare/internal/domain/users"
	"craftshare/internal/repository"
	"craftshare/internal/repository/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

var (
	today   = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	adultBD = time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	rules   = config.ContentRules{AgeRestrictedContentAge: 16, AccountMinAge: 13}

	alice = users.User{ID: 1, Username: "alice", Role: users.RoleUser, AuthProvider: users.ProviderLocal, BirthDate: &adultBD}
	bob   = users.User{ID: 2, Username: "bob", Role: users.RoleUser, AuthProvider: users.ProviderGoogle}
)

type fixture struct {
	users   *mocks.MockUserRepository
	posts   *mocks.MockPostRepository
	follows *mocks.MockFollowRepository
	h       *Handler
}

func newFixture() *fixture {
	f := &fixture{
		users:   new(mocks.MockUserRepository),
		posts:   new(mocks.MockPostRepository),
		follows: new(mocks.MockFollowRepository),
	}
	f.h = NewHandler(f.users, f.posts, f.follows, nil, rules)
	f.h.now = func() time.Time { return today }
	return f
}

func (f *fixture) router(as *users.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if as != nil {
			middleware.SetUser(c, *as)
		}
	})
	r.GET("/profiles", f.h.ListProfiles)
	r.GET("/profile/:id", f.h.GetProfile)
	r.GET("/me", f.h.GetCurrentUser)
	r.PUT("/me", f.h.UpdateCurrentUser)
	r.POST("/follow/:user_id", f.h.Follow)
	r.DELETE("/follow/:user_id", f.h.Unfollow)
	return r
}

func (f *fixture) stats(userID uint, followers, following, posts int64) {
	f.follows.On("CountFollowers", mock.Anything, userID).Return(followers, nil)
	f.follows.On("CountFollowing", mock.Anything, userID).Return(following, nil)
	f.posts.On("CountByUser", mock.Anything, userID).Return(posts, nil)
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListProfiles(t *testing.T) {
	f := newFixture()
	f.users.On("List", mock.Anything).Return([]users.User{alice, bob}, nil)

	w := do(f.router(nil), http.MethodGet, "/profiles", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0]["username"])
	assert.NotContains(t, got[0], "birth_date")
}

func TestGetProfile(t *testing.T) {
	t.Run("with stats and follow state", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, uint(1)).Return(alice, nil)
		f.stats(1, 3, 2, 7)
		f.follows.On("IsFollowing", mock.Anything, bob.ID, alice.ID).Return(true, nil)

		w := do(f.router(&bob), http.MethodGet, "/profile/1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got ProfileDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, StatsDTO{Followers: 3, Following: 2, Posts: 7}, *got.Stats)
		require.NotNil(t, got.IsFollowing)
		assert.True(t, *got.IsFollowing)
		assert.NotContains(t, w.Body.String(), "birth_date")
	})

	t.Run("own profile has no follow state", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, uint(1)).Return(alice, nil)
		f.stats(1, 0, 0, 0)

		w := do(f.router(&alice), http.MethodGet, "/profile/1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "is_following")
		f.follows.AssertNotCalled(t, "IsFollowing", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stats failure", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, uint(1)).Return(alice, nil)
		f.follows.On("CountFollowers", mock.Anything, uint(1)).Return(int64(0), errors.New("db down"))
		f.follows.On("CountFollowing", mock.Anything, uint(1)).Return(int64(0), nil).Maybe()
		f.posts.On("CountByUser", mock.Anything, uint(1)).Return(int64(0), nil).Maybe()

		w := do(f.router(nil), http.MethodGet, "/profile/1", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, uint(9)).Return(users.User{}, repository.ErrNotFound)

		w := do(f.router(nil), http.MethodGet, "/profile/9", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetCurrentUser(t *testing.T) {
	t.Run("adult", func(t *testing.T) {
		f := newFixture()
		f.stats(1, 1, 1, 1)

		w := do(f.router(&alice), http.MethodGet, "/me", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got MeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.NotNil(t, got.User.BirthDate)
		assert.Equal(t, "1990-05-01", *got.User.BirthDate)
		assert.True(t, got.Access.Mature)
		assert.Equal(t, 16, got.Access.MinAge)
	})

	t.Run("google account without birth date is not mature", func(t *testing.T) {
		f := newFixture()
		f.stats(2, 0, 0, 0)

		w := do(f.router(&bob), http.MethodGet, "/me", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got MeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Nil(t, got.User.BirthDate)
		assert.False(t, got.Access.Mature)
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture()
		w := do(f.router(nil), http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateCurrentUser(t *testing.T) {
	t.Run("sets birth date", func(t *testing.T) {
		f := newFixture()
		f.users.On("Save", mock.Anything, mock.MatchedBy(func(u *users.User) bool {
			return u.ID == bob.ID && u.BirthDate != nil && u.BirthDate.Year() == 2000
		})).Return(nil)

		w := do(f.router(&bob), http.MethodPut, "/me", map[string]string{"birth_date": "2000-02-29"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"mature":true`)
		f.users.AssertExpectations(t)
	})

	t.Run("stored birth date cannot be replaced", func(t *testing.T) {
		teenBD := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
		teen := users.User{ID: 3, Username: "teen", Role: users.RoleUser, BirthDate: &teenBD}
		f := newFixture()

		w := do(f.router(&teen), http.MethodPut, "/me", map[string]string{"birth_date": "1990-01-01"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "cannot be changed")
		assert.NotContains(t, w.Body.String(), `"mature":true`)
		f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("resending the stored birth date is accepted", func(t *testing.T) {
		f := newFixture()
		f.users.On("Save", mock.Anything, mock.MatchedBy(func(u *users.User) bool {
			return u.ID == alice.ID && u.BirthDate.Equal(adultBD)
		})).Return(nil)

		w := do(f.router(&alice), http.MethodPut, "/me", map[string]string{"birth_date": "1990-05-01"})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	for name, bd := range map[string]string{
		"future":    "2030-01-01",
		"too young": "2020-01-01",
		"garbage":   "01/01/2000",
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()

			w := do(f.router(&bob), http.MethodPut, "/me", map[string]string{"birth_date": bd})

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "birth_date")
			f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestFollow(t *testing.T) {
	t.Run("follow", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, uint(2)).Return(bob, nil)
		f.follows.On("Follow", mock.Anything, uint(1), uint(2)).Return(nil)

		w := do(f.router(&alice), http.MethodPost, "/follow/2", nil)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("already following", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, uint(2)).Return(bob, nil)
		f.follows.On("Follow", mock.Anything, uint(1), uint(2)).Return(repository.ErrConflict)

		w := do(f.router(&alice), http.MethodPost, "/follow/2", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already following")
	})

	t.Run("self", func(t *testing.T) {
		f := newFixture()
		w := do(f.router(&alice), http.MethodPost, "/follow/1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.follows.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, uint(5)).Return(users.User{}, repository.ErrNotFound)
		w := do(f.router(&alice), http.MethodPost, "/follow/5", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unfollow when not following", func(t *testing.T) {
		f := newFixture()
		f.follows.On("Unfollow", mock.Anything, uint(1), uint(2)).Return(repository.ErrNotFound)
		w := do(f.router(&alice), http.MethodDelete, "/follow/2", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
