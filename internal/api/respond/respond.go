// Package respond writes the JSON error bodies shared by every handler.
package respond

import (
	"errors"
	"net/http"

	log "log/slog"

	"craftshare/internal/domain/policy"
	"craftshare/internal/repository"

	"github.com/gin-gonic/gin"
)

// Error aborts with {"error": msg} and, when given, "details". A non-empty
// logMsg is logged with the request id; 5xx responses log at error level.
func Error(c *gin.Context, status int, msg, logMsg string, details any) {
	if logMsg != "" {
		attrs := []any{
			"status", status,
			"error", msg,
			"request_id", c.GetString("request_id"),
			"path", c.FullPath(),
		}
		if status >= http.StatusInternalServerError {
			log.Error(logMsg, attrs...)
		} else {
			log.Warn(logMsg, attrs...)
		}
	}
	body := gin.H{"error": msg}
	if details != nil {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, body)
}

// Internal logs err and hides it behind a generic message.
func Internal(c *gin.Context, logMsg string, err error) {
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, "Something went wrong.", logMsg+": "+err.Error(), nil)
}

// Denied answers a policy refusal with 403 and its user-facing message.
func Denied(c *gin.Context, err error) {
	var denied *policy.AccessDeniedError
	msg := "Access denied"
	if errors.As(err, &denied) {
		msg = denied.Error()
	}
	log.Debug("content access denied", "path", c.FullPath(), "request_id", c.GetString("request_id"))
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msg})
}

// Repo maps repository errors: ErrNotFound to 404 with notFoundMsg,
// ErrConflict to 400 with conflictMsg, anything else to 500.
func Repo(c *gin.Context, err error, notFoundMsg, conflictMsg, logMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		Error(c, http.StatusNotFound, notFoundMsg, "", nil)
	case errors.Is(err, repository.ErrConflict) && conflictMsg != "":
		Error(c, http.StatusBadRequest, conflictMsg, "", nil)
	default:
		Internal(c, logMsg, err)
	}
}
