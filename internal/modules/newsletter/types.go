package newsletter

import (
	"errors"
	"regexp"
)

var (
	errAlreadySubscribed  = errors.New("this email is already subscribed")
	errInvalidEmail       = errors.New("a valid email address is required")
	errTokenNotFound      = errors.New("unsubscribe token not found")
	errSubscriberNotFound = errors.New("subscriber not found")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type SubscribeDTO struct {
	Email    string `json:"email" binding:"required"`
	Referrer string `json:"referrer"`
}

type UpdateSubscriberDTO struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// Stats summarizes the subscriber base for the admin dashboard.
type Stats struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Unsubscribed int64 `json:"unsubscribed"`
	NewThisMonth int64 `json:"new_this_month"`
}

// PublicStats is the subset exposed without authentication.
type PublicStats struct {
	TotalSubscribers int64 `json:"total_subscribers"`
	NewThisMonth     int64 `json:"new_this_month"`
}
