package models

import "time"

// FeedbackStatus is the moderation state of a feedback submission.
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackApproved FeedbackStatus = "approved"
	FeedbackRejected FeedbackStatus = "rejected"
	FeedbackArchived FeedbackStatus = "archived"
)

// FeedbackType categorizes a submission. Unknown values fall back to general.
type FeedbackType string

const (
	FeedbackTypeGeneral       FeedbackType = "general"
	FeedbackTypePortfolio     FeedbackType = "portfolio"
	FeedbackTypeWebsite       FeedbackType = "website"
	FeedbackTypeCollaboration FeedbackType = "collaboration"
	FeedbackTypeSuggestion    FeedbackType = "suggestion"
	FeedbackTypeCompliment    FeedbackType = "compliment"
	FeedbackTypeCritique      FeedbackType = "critique"
)

// FeedbackModel is an anonymous visitor submission awaiting moderation.
// Only a salted hash of the visitor's address is ever stored.
type FeedbackModel struct {
	Base
	Message      string       `json:"message"       gorm:"type:text;not null"`
	FeedbackType FeedbackType `json:"feedback_type" gorm:"default:general;index"`
	MoodEmoji    string       `json:"mood_emoji"`
	Rating       *int         `json:"rating"`

	IPHash    string `json:"-"          gorm:"index"`
	UserAgent string `json:"-"          gorm:"type:varchar(512)"`
	SessionID string `json:"-"          gorm:"type:char(36)"`

	Status          FeedbackStatus `json:"status"           gorm:"default:pending;index"`
	AdminNotes      string         `json:"admin_notes"      gorm:"type:text"`
	ReviewedBy      string         `json:"reviewed_by"`
	ReviewedAt      *time.Time     `json:"reviewed_at"`
	DisplayPublicly bool           `json:"display_publicly" gorm:"default:false;index"`
	IsFeatured      bool           `json:"is_featured"      gorm:"default:false"`
	DisplayOrder    *int           `json:"display_order"`
	SpamScore       int            `json:"spam_score"       gorm:"default:0"`
}

func (FeedbackModel) TableName() string { return "feedback_submissions" }

// ReactionType is one of the fixed reactions a visitor can leave on
// published feedback.
type ReactionType string

const (
	ReactionLike       ReactionType = "like"
	ReactionLove       ReactionType = "love"
	ReactionInsightful ReactionType = "insightful"
	ReactionHelpful    ReactionType = "helpful"
	ReactionFunny      ReactionType = "funny"
)

// ValidReactionTypes lists every accepted reaction.
var ValidReactionTypes = []ReactionType{
	ReactionLike, ReactionLove, ReactionInsightful, ReactionHelpful, ReactionFunny,
}

// FeedbackReactionModel records one reaction per (feedback, origin, type)
// triple. The composite unique index makes the toggle race-safe: a losing
// concurrent insert conflicts instead of duplicating.
type FeedbackReactionModel struct {
	ID           uint         `json:"id"            gorm:"primaryKey"`
	CreatedAt    time.Time    `json:"created_at"`
	FeedbackID   uint         `json:"feedback_id"   gorm:"not null;uniqueIndex:idx_reaction_triple"`
	IPHash       string       `json:"-"             gorm:"not null;uniqueIndex:idx_reaction_triple;size:64"`
	ReactionType ReactionType `json:"reaction_type" gorm:"not null;uniqueIndex:idx_reaction_triple;size:16"`
}

func (FeedbackReactionModel) TableName() string { return "feedback_reactions" }

// FeedbackAdminLogModel is the append-only audit trail of moderation
// actions. Rows are created alongside every mutation and never touched
// again.
type FeedbackAdminLogModel struct {
	ID             uint           `json:"id"              gorm:"primaryKey"`
	CreatedAt      time.Time      `json:"created_at"`
	FeedbackID     uint           `json:"feedback_id"     gorm:"index;not null"`
	AdminUsername  string         `json:"admin_username"`
	Action         string         `json:"action"`
	PreviousStatus FeedbackStatus `json:"previous_status"`
	NewStatus      FeedbackStatus `json:"new_status"`
	Notes          string         `json:"notes"           gorm:"type:text"`
}

func (FeedbackAdminLogModel) TableName() string { return "feedback_admin_log" }

// NormalizeFeedbackType maps free-form input onto the fixed enumeration.
func NormalizeFeedbackType(raw string) FeedbackType {
	switch FeedbackType(raw) {
	case FeedbackTypePortfolio, FeedbackTypeWebsite, FeedbackTypeCollaboration,
		FeedbackTypeSuggestion, FeedbackTypeCompliment, FeedbackTypeCritique:
		return FeedbackType(raw)
	default:
		return FeedbackTypeGeneral
	}
}

// IsValidFeedbackStatus reports whether s is one of the moderation states.
func IsValidFeedbackStatus(s FeedbackStatus) bool {
	switch s {
	case FeedbackPending, FeedbackApproved, FeedbackRejected, FeedbackArchived:
		return true
	}
	return false
}

// IsValidReactionType reports whether r is one of the accepted reactions.
func IsValidReactionType(r ReactionType) bool {
	for _, v := range ValidReactionTypes {
		if v == r {
			return true
		}
	}
	return false
}
