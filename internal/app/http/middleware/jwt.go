package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimUserID = "user_id"
	ClaimRole   = "role"
	ClaimType   = "typ"

	TokenAccess  = "access"
	TokenRefresh = "refresh"

	ctxUserID = "user_id"
	ctxRole   = "role"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// ParseToken verifies an HMAC-signed token and checks its type claim.
func ParseToken(secret []byte, raw, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if typ, _ := claims[ClaimType].(string); typ != wantType {
		return nil, ErrInvalidToken
	}
	if _, ok := claims[ClaimUserID].(float64); !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserIDFromClaims reads the numeric user id; JSON numbers decode as float64.
func UserIDFromClaims(claims jwt.MapClaims) uint {
	id, _ := claims[ClaimUserID].(float64)
	return uint(id)
}

// bearer extracts the token; ok is false when the header is not a Bearer one.
func bearer(c *gin.Context) (token string, present, ok bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false, false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
		return "", true, false
	}
	return strings.TrimSpace(tokenString), true, true
}

func authenticate(c *gin.Context, secret []byte, required bool) {
	if len(secret) == 0 {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
		return
	}
	tokenString, present, ok := bearer(c)
	if !present {
		if required {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}
		c.Next()
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
		return
	}

	claims, err := ParseToken(secret, tokenString, TokenAccess)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	c.Set(ctxUserID, UserIDFromClaims(claims))
	if role, ok := claims[ClaimRole].(string); ok {
		c.Set(ctxRole, role)
	}
	c.Next()
}

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) { authenticate(c, key, true) }
}

// OptionalAuth lets anonymous requests through but still rejects a bad token.
func OptionalAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) { authenticate(c, key, false) }
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ctxRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			c.Abort()
			return
		}

		if value != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// UserID returns the authenticated user id, or 0 for anonymous requests.
func UserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}
