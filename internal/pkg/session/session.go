package session

import (
	"strings"
	"time"

	"github.com/chitragar/portfolio-core/internal/models"
	jwtpkg "github.com/chitragar/portfolio-core/internal/pkg/jwt"
	"gorm.io/gorm"
)

const DefaultTTL = 12 * time.Hour

// Issue creates a DB session and signs a JWT bound to that session.
func Issue(db *gorm.DB, email, ip, ua string, ttl time.Duration) (string, *models.UserSession, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	s := &models.UserSession{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		IP:        strings.TrimSpace(ip),
		UA:        strings.TrimSpace(ua),
		ExpiresAt: now.Add(ttl),
	}
	if err := db.Create(s).Error; err != nil {
		return "", nil, err
	}

	token, err := jwtpkg.Sign(s.Email, s.ID, ttl)
	if err != nil {
		_ = db.Delete(s).Error
		return "", nil, err
	}
	return token, s, nil
}

// IsActive reports whether the session is unexpired and unrevoked.
func IsActive(db *gorm.DB, email, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}

	var count int64
	err := db.Model(&models.UserSession{}).
		Where("id = ? AND email = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, email, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Touch bumps the session's updated_at so activity is visible.
func Touch(db *gorm.DB, email, sessionID string) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return
	}
	_ = db.Model(&models.UserSession{}).
		Where("id = ? AND email = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, email, time.Now()).
		Update("updated_at", time.Now()).Error
}

// Revoke marks the session revoked. Tokens bound to it stop working
// immediately.
func Revoke(db *gorm.DB, email, sessionID string) error {
	now := time.Now()
	return db.Model(&models.UserSession{}).
		Where("id = ? AND email = ? AND revoked_at IS NULL", sessionID, email).
		Update("revoked_at", now).Error
}
