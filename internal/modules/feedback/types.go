package feedback

import (
	"errors"
	"time"

	"github.com/chitragar/portfolio-core/internal/models"
)

const (
	messageMinLen = 10
	messageMaxLen = 1000
)

var (
	errFeedbackNotFound  = errors.New("feedback not found")
	errFeedbackNotPublic = errors.New("feedback is not publicly visible")
	errInvalidStatus     = errors.New("invalid feedback status")
	errInvalidReaction   = errors.New("invalid reaction type")
	errMessageLength     = errors.New("message must be between 10 and 1000 characters")
	errInvalidRating     = errors.New("rating must be between 1 and 5")
)

type CreateFeedbackDTO struct {
	Message      string `json:"message"       binding:"required"`
	FeedbackType string `json:"feedback_type"`
	MoodEmoji    string `json:"mood_emoji"`
	Rating       *int   `json:"rating"`
}

type ModerateFeedbackDTO struct {
	Status          string  `json:"status" binding:"required"`
	AdminNotes      *string `json:"admin_notes"`
	DisplayPublicly *bool   `json:"display_publicly"`
	IsFeatured      *bool   `json:"is_featured"`
	DisplayOrder    *int    `json:"display_order"`
}

type ToggleReactionDTO struct {
	FeedbackID   uint   `json:"feedback_id"   binding:"required"`
	ReactionType string `json:"reaction_type" binding:"required"`
}

// publicFeedbackResponse is the projection served to anonymous readers.
// Moderation fields and origin data never leave the admin surface.
type publicFeedbackResponse struct {
	ID           uint                `json:"id"`
	Message      string              `json:"message"`
	FeedbackType models.FeedbackType `json:"feedback_type"`
	MoodEmoji    string              `json:"mood_emoji,omitempty"`
	Rating       *int                `json:"rating,omitempty"`
	IsFeatured   bool                `json:"is_featured"`
	CreatedAt    time.Time           `json:"created_at"`
}

func toPublicResponse(f *models.FeedbackModel) publicFeedbackResponse {
	return publicFeedbackResponse{
		ID:           f.ID,
		Message:      f.Message,
		FeedbackType: f.FeedbackType,
		MoodEmoji:    f.MoodEmoji,
		Rating:       f.Rating,
		IsFeatured:   f.IsFeatured,
		CreatedAt:    f.CreatedAt,
	}
}

// StatusCounts maps each moderation state to its submission count.
type StatusCounts map[models.FeedbackStatus]int64
