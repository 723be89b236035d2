package respond

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"craftshare/internal/domain/policy"
	"craftshare/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() { gin.SetMode(gin.TestMode) }

func run(h gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)
	return w
}

func TestError_WithDetails(t *testing.T) {
	w := run(func(c *gin.Context) {
		Error(c, http.StatusBadRequest, "Invalid data.", "bad post", map[string][]string{"title": {"required"}})
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid data.","details":{"title":["required"]}}`, w.Body.String())
}

func TestDenied(t *testing.T) {
	gate := policy.NewGate(policy.DefaultRules(), time.Now())
	w := run(func(c *gin.Context) { Denied(c, gate.Deny()) })
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "older than 16 years")
}

func TestRepo(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{repository.ErrConflict, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := run(func(c *gin.Context) { Repo(c, tc.err, "Post not found.", "Already liked.", "like") })
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
	}
}
