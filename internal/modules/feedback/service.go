package feedback

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chitragar/portfolio-core/internal/models"
	"github.com/chitragar/portfolio-core/internal/pkg/pagination"
	"github.com/chitragar/portfolio-core/internal/pkg/response"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db         *gorm.DB
	classifier Classifier
	log        *zap.Logger
}

func NewService(db *gorm.DB, classifier Classifier, log *zap.Logger) *Service {
	if classifier == nil {
		classifier = KeywordClassifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, classifier: classifier, log: log}
}

// ValidateCreate checks a submission payload without persisting it.
func (s *Service) ValidateCreate(dto *CreateFeedbackDTO) error {
	message := strings.TrimSpace(dto.Message)
	if n := utf8.RuneCountInString(message); n < messageMinLen || n > messageMaxLen {
		return errMessageLength
	}
	if dto.Rating != nil && (*dto.Rating < 1 || *dto.Rating > 5) {
		return errInvalidRating
	}
	return nil
}

// Create validates and stores a new submission in pending state.
func (s *Service) Create(dto *CreateFeedbackDTO, ipHash, agent string) (*models.FeedbackModel, error) {
	if err := s.ValidateCreate(dto); err != nil {
		return nil, err
	}
	message := strings.TrimSpace(dto.Message)

	f := models.FeedbackModel{
		Message:      message,
		FeedbackType: models.NormalizeFeedbackType(dto.FeedbackType),
		MoodEmoji:    strings.TrimSpace(dto.MoodEmoji),
		Rating:       dto.Rating,
		IPHash:       ipHash,
		UserAgent:    agent,
		SessionID:    uuid.New().String(),
		Status:       models.FeedbackPending,
		SpamScore:    s.classifier.Score(message),
	}
	if err := s.db.Create(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// PublicQuery narrows the public projection.
type PublicQuery struct {
	Limit        int
	Offset       int
	Type         string
	FeaturedOnly bool
}

// ListPublic returns approved, publicly visible feedback, newest first.
func (s *Service) ListPublic(q PublicQuery) ([]publicFeedbackResponse, bool, error) {
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	tx := s.db.Model(&models.FeedbackModel{}).
		Where("status = ? AND display_publicly = ?", models.FeedbackApproved, true)
	if q.Type != "" {
		// The raw value is matched so unknown types select nothing
		// instead of aliasing onto general.
		tx = tx.Where("feedback_type = ?", q.Type)
	}
	if q.FeaturedOnly {
		tx = tx.Where("is_featured = ?", true)
	}

	var rows []models.FeedbackModel
	err := tx.Order("created_at DESC").
		Offset(offset).
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, false, err
	}

	// One extra row is fetched purely to compute hasMore.
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	out := make([]publicFeedbackResponse, len(rows))
	for i := range rows {
		out[i] = toPublicResponse(&rows[i])
	}
	return out, hasMore, nil
}

// ListAdmin returns full rows for moderation, oldest first so the
// review queue is worked in arrival order.
func (s *Service) ListAdmin(q pagination.Query, status *models.FeedbackStatus) ([]models.FeedbackModel, response.Pagination, error) {
	tx := s.db.Model(&models.FeedbackModel{}).Order("created_at ASC")
	if status != nil {
		if !models.IsValidFeedbackStatus(*status) {
			return nil, response.Pagination{}, errInvalidStatus
		}
		tx = tx.Where("status = ?", *status)
	}

	var rows []models.FeedbackModel
	pag, err := pagination.Paginate(tx, q, &rows)
	return rows, pag, err
}

// CountByStatus tallies all non-deleted submissions per moderation state.
func (s *Service) CountByStatus() (StatusCounts, error) {
	var rows []struct {
		Status models.FeedbackStatus
		N      int64
	}
	err := s.db.Model(&models.FeedbackModel{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := StatusCounts{
		models.FeedbackPending:  0,
		models.FeedbackApproved: 0,
		models.FeedbackRejected: 0,
		models.FeedbackArchived: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}

// Moderate transitions a submission to a new state and appends an audit
// entry. Approval also applies the display fields.
func (s *Service) Moderate(id uint, dto *ModerateFeedbackDTO, adminEmail string) (*models.FeedbackModel, error) {
	newStatus := models.FeedbackStatus(dto.Status)
	if !models.IsValidFeedbackStatus(newStatus) {
		return nil, errInvalidStatus
	}

	var f models.FeedbackModel
	if err := s.db.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errFeedbackNotFound
		}
		return nil, err
	}

	prevStatus := f.Status
	now := time.Now()

	updates := map[string]interface{}{
		"status":      newStatus,
		"reviewed_by": adminEmail,
		"reviewed_at": now,
	}
	if dto.AdminNotes != nil {
		updates["admin_notes"] = *dto.AdminNotes
	}
	if newStatus == models.FeedbackApproved {
		visible := true
		if dto.DisplayPublicly != nil {
			visible = *dto.DisplayPublicly
		}
		updates["display_publicly"] = visible
		if dto.IsFeatured != nil {
			updates["is_featured"] = *dto.IsFeatured
		}
		if dto.DisplayOrder != nil {
			updates["display_order"] = *dto.DisplayOrder
		}
	}

	if err := s.db.Model(&f).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.appendAuditLog(&models.FeedbackAdminLogModel{
		FeedbackID:     f.ID,
		AdminUsername:  adminEmail,
		Action:         string(newStatus),
		PreviousStatus: prevStatus,
		NewStatus:      newStatus,
		Notes:          derefString(dto.AdminNotes),
	})

	if err := s.db.First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// Delete soft-deletes a submission and records the action.
func (s *Service) Delete(id uint, adminEmail string) error {
	var f models.FeedbackModel
	if err := s.db.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errFeedbackNotFound
		}
		return err
	}

	if err := s.db.Delete(&f).Error; err != nil {
		return err
	}

	s.appendAuditLog(&models.FeedbackAdminLogModel{
		FeedbackID:     f.ID,
		AdminUsername:  adminEmail,
		Action:         "deleted",
		PreviousStatus: f.Status,
		NewStatus:      f.Status,
	})
	return nil
}

// AuditLog returns the moderation history for one submission.
func (s *Service) AuditLog(feedbackID uint) ([]models.FeedbackAdminLogModel, error) {
	var rows []models.FeedbackAdminLogModel
	err := s.db.Where("feedback_id = ?", feedbackID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// The audit trail must not block or roll back the moderation write
// itself; a failed append is logged and the action stands.
func (s *Service) appendAuditLog(entry *models.FeedbackAdminLogModel) {
	if err := s.db.Create(entry).Error; err != nil {
		s.log.Error("audit log append failed",
			zap.Uint("feedback_id", entry.FeedbackID),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

// ToggleReaction adds the reaction if absent and removes it if present.
// The delete-then-insert order plus the unique index keeps concurrent
// toggles from double-counting.
func (s *Service) ToggleReaction(feedbackID uint, reaction models.ReactionType, ipHash string) (string, error) {
	if !models.IsValidReactionType(reaction) {
		return "", errInvalidReaction
	}

	var f models.FeedbackModel
	if err := s.db.First(&f, feedbackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errFeedbackNotFound
		}
		return "", err
	}
	if f.Status != models.FeedbackApproved || !f.DisplayPublicly {
		return "", errFeedbackNotPublic
	}

	res := s.db.Where("feedback_id = ? AND ip_hash = ? AND reaction_type = ?",
		feedbackID, ipHash, reaction).
		Delete(&models.FeedbackReactionModel{})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected > 0 {
		return "removed", nil
	}

	row := models.FeedbackReactionModel{
		FeedbackID:   feedbackID,
		IPHash:       ipHash,
		ReactionType: reaction,
	}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return "", err
	}
	return "added", nil
}

// ReactionCounts aggregates reactions for one submission. Types with no
// reactions are omitted rather than zero-filled.
func (s *Service) ReactionCounts(feedbackID uint) (map[models.ReactionType]int64, error) {
	var rows []struct {
		ReactionType models.ReactionType
		N            int64
	}
	err := s.db.Model(&models.FeedbackReactionModel{}).
		Select("reaction_type, COUNT(*) AS n").
		Where("feedback_id = ?", feedbackID).
		Group("reaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ReactionType]int64, len(rows))
	for _, r := range rows {
		counts[r.ReactionType] = r.N
	}
	return counts, nil
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
