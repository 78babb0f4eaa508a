package auth

import (
	"errors"
	"time"
)

const (
	otpTTL        = 10 * time.Minute
	otpCleanupAge = time.Hour
	sessionTTL    = 12 * time.Hour
)

var (
	errNotAdminEmail = errors.New("email is not authorized for admin access")
	errOTPInvalid    = errors.New("code is invalid or expired")
)

type RequestOTPDTO struct {
	Email string `json:"email" binding:"required"`
}

type VerifyOTPDTO struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code"  binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
