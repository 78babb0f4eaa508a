package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSession tracks admin JWT sessions so tokens can be revoked
// server-side. IDs are UUIDs because they are embedded in token claims.
type UserSession struct {
	ID        string     `json:"id"         gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Email     string     `json:"email"      gorm:"index;not null"`
	IP        string     `json:"ip"`
	UA        string     `json:"ua"         gorm:"type:text"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revoked_at" gorm:"index"`
}

func (UserSession) TableName() string { return "admin_sessions" }

func (s *UserSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// AdminOTP stores a pending one-time login code. The code itself is
// bcrypt-hashed; rows are single-use and purged after an hour.
type AdminOTP struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"      gorm:"index;not null"`
	CodeHash  string    `json:"-"          gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
}

func (AdminOTP) TableName() string { return "admin_otp" }
