package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// credentialFields are compared against stored hashes and must reach the
// handlers byte for byte.
var credentialFields = map[string]bool{
	"password":     true,
	"password1":    true,
	"password2":    true,
	"old_password": true,
	"new_password": true,
}

// maxSanitizePasses bounds the strip/unescape loop for nested entities.
const maxSanitizePasses = 8

// Sanitize strips markup from a user supplied string. Values are stored as
// plain text, so entities escaped by the policy are decoded again; the loop
// runs until stripping no longer changes the text so decoded entities can
// not smuggle markup back in.
func Sanitize(s string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		out := html.UnescapeString(strictPolicy.Sanitize(s))
		if out == s {
			return out
		}
		s = out
	}
	return strictPolicy.Sanitize(s)
}

// SanitizeAndCleanInputMiddleware cleans all string values of a JSON body
// using bluemonday, leaving credential fields untouched. Multipart bodies are
// sanitized by their parsers.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}
		if !strings.HasPrefix(c.ContentType(), gin.MIMEJSON) || c.Request.Body == nil {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		var body any
		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}

		newBody, err := json.Marshal(sanitizeValue(body))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return Sanitize(t)
	case map[string]any:
		for k, inner := range t {
			if credentialFields[k] {
				continue
			}
			t[k] = sanitizeValue(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = sanitizeValue(inner)
		}
		return t
	}
	return v
}
