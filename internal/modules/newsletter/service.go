package newsletter

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/chitragar/portfolio-core/internal/models"
	"github.com/chitragar/portfolio-core/internal/pkg/mail"
	"github.com/chitragar/portfolio-core/internal/pkg/pagination"
	"github.com/chitragar/portfolio-core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mailer is satisfied by mail.Sender; tests substitute a stub.
type Mailer interface {
	Send(msg mail.Message) (string, error)
}

type Service struct {
	db      *gorm.DB
	mailer  Mailer
	siteURL string
	log     *zap.Logger
}

func NewService(db *gorm.DB, mailer Mailer, siteURL string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, mailer: mailer, siteURL: siteURL, log: log}
}

// Subscribe registers a new subscriber or reactivates a lapsed one.
// An already-active email is a conflict.
func (s *Service) Subscribe(dto *SubscribeDTO, ipHash, agent string) (*models.SubscriberModel, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if !emailPattern.MatchString(email) {
		return nil, errInvalidEmail
	}

	var existing models.SubscriberModel
	err := s.db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsActive {
			return nil, errAlreadySubscribed
		}
		return s.reactivate(&existing, ipHash, agent, dto.Referrer)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return nil, err
	}

	sub := models.SubscriberModel{
		Email:            email,
		IsActive:         true,
		SubscribedAt:     time.Now(),
		IPHash:           ipHash,
		UserAgent:        agent,
		Referrer:         strings.TrimSpace(dto.Referrer),
		UnsubscribeToken: newToken(),
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, err
	}

	s.sendWelcome(&sub)
	return &sub, nil
}

func (s *Service) reactivate(sub *models.SubscriberModel, ipHash, agent, referrer string) (*models.SubscriberModel, error) {
	updates := map[string]interface{}{
		"is_active":         true,
		"subscribed_at":     time.Now(),
		"unsubscribed_at":   nil,
		"ip_hash":           ipHash,
		"user_agent":        agent,
		"referrer":          strings.TrimSpace(referrer),
		"unsubscribe_token": newToken(),
	}
	if err := s.db.Model(sub).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := s.db.First(sub, sub.ID).Error; err != nil {
		return nil, err
	}

	s.sendWelcome(sub)
	return sub, nil
}

// Unsubscribe deactivates the subscription matching the token.
func (s *Service) Unsubscribe(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errTokenNotFound
	}

	now := time.Now()
	res := s.db.Model(&models.SubscriberModel{}).
		Where("unsubscribe_token = ? AND is_active = ?", token, true).
		Updates(map[string]interface{}{
			"is_active":       false,
			"unsubscribed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errTokenNotFound
	}
	return nil
}

// List returns subscribers for the admin dashboard, newest first.
func (s *Service) List(q pagination.Query, activeOnly bool) ([]models.SubscriberModel, response.Pagination, error) {
	tx := s.db.Model(&models.SubscriberModel{}).Order("created_at DESC")
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}

	var rows []models.SubscriberModel
	pag, err := pagination.Paginate(tx, q, &rows)
	return rows, pag, err
}

// Stats tallies the subscriber base.
func (s *Service) Stats() (*Stats, error) {
	var st Stats
	if err := s.db.Model(&models.SubscriberModel{}).Count(&st.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.SubscriberModel{}).Where("is_active = ?", true).Count(&st.Active).Error; err != nil {
		return nil, err
	}
	st.Unsubscribed = st.Total - st.Active

	n, err := s.countNewThisMonth()
	if err != nil {
		return nil, err
	}
	st.NewThisMonth = n
	return &st, nil
}

// PublicStats exposes only the headline numbers.
func (s *Service) PublicStats() (*PublicStats, error) {
	var st PublicStats
	if err := s.db.Model(&models.SubscriberModel{}).Where("is_active = ?", true).Count(&st.TotalSubscribers).Error; err != nil {
		return nil, err
	}
	n, err := s.countNewThisMonth()
	if err != nil {
		return nil, err
	}
	st.NewThisMonth = n
	return &st, nil
}

func (s *Service) countNewThisMonth() (int64, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var n int64
	err := s.db.Model(&models.SubscriberModel{}).
		Where("is_active = ? AND subscribed_at >= ?", true, monthStart).
		Count(&n).Error
	return n, err
}

// SetActive flips a subscription on or off from the admin side.
// Deactivation stamps unsubscribed_at like a token unsubscribe would.
func (s *Service) SetActive(id uint, active bool) (*models.SubscriberModel, error) {
	updates := map[string]interface{}{"is_active": active}
	if active {
		updates["unsubscribed_at"] = nil
	} else {
		updates["unsubscribed_at"] = time.Now()
	}

	res := s.db.Model(&models.SubscriberModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errSubscriberNotFound
	}

	var sub models.SubscriberModel
	if err := s.db.First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Remove hard-deletes a subscriber and its email log rows.
func (s *Service) Remove(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("subscriber_id = ?", id).Delete(&models.EmailLogModel{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&models.SubscriberModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errSubscriberNotFound
		}
		return nil
	})
}

// Welcome delivery is best effort: a mail failure is recorded in the
// email log but never fails the subscription itself.
func (s *Service) sendWelcome(sub *models.SubscriberModel) {
	if s.mailer == nil {
		return
	}

	unsubURL := s.siteURL + "/api/v1/newsletter/unsubscribe?token=" + sub.UnsubscribeToken
	html, err := mail.RenderWelcome(unsubURL)
	if err != nil {
		s.log.Error("welcome template render failed", zap.Error(err))
		return
	}

	const subject = "Welcome to the newsletter"
	extID, err := s.mailer.Send(mail.Message{
		To:      []string{sub.Email},
		Subject: subject,
		HTML:    html,
	})

	logRow := models.EmailLogModel{
		SubscriberID: sub.ID,
		EmailType:    "welcome",
		Subject:      subject,
		Status:       "sent",
		ExternalID:   extID,
	}
	if err != nil {
		logRow.Status = "failed"
		logRow.Error = err.Error()
		s.log.Error("welcome email failed", zap.String("email", sub.Email), zap.Error(err))
	} else {
		now := time.Now()
		if uerr := s.db.Model(sub).Updates(map[string]interface{}{
			"welcome_email_sent":    true,
			"welcome_email_sent_at": now,
		}).Error; uerr != nil {
			s.log.Error("welcome email bookkeeping failed", zap.Error(uerr))
		}
	}
	if err := s.db.Create(&logRow).Error; err != nil {
		s.log.Error("email log append failed", zap.Error(err))
	}
}

// newToken returns a 32-byte random hex token for unsubscribe links.
func newToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
