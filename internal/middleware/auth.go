package middleware

import (
	"errors"
	"strings"

	"github.com/chitragar/portfolio-core/internal/pkg/jwt"
	"github.com/chitragar/portfolio-core/internal/pkg/response"
	sessionpkg "github.com/chitragar/portfolio-core/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	ContextKeyAdminEmail = "admin_email"
	ContextKeySID        = "session_id"
)

// Auth returns a middleware that enforces admin JWT authentication. The
// token must be bound to an active server-side session.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ValidateTokenClaims(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c, "")
			return
		}
		c.Set(ContextKeyAdminEmail, claims.Email)
		c.Set(ContextKeySID, claims.SessionID)
		sessionpkg.Touch(db, claims.Email, claims.SessionID)
		c.Next()
	}
}

// ValidateTokenClaims validates a JWT and checks its session is still active.
func ValidateTokenClaims(db *gorm.DB, rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	active, err := sessionpkg.IsActive(db, claims.Email, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, errors.New("session expired or revoked")
	}
	return claims, nil
}

// CurrentAdminEmail extracts the authenticated admin email from context.
func CurrentAdminEmail(c *gin.Context) string {
	v, _ := c.Get(ContextKeyAdminEmail)
	email, _ := v.(string)
	return email
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentAdminEmail(c) != ""
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
