package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/chitragar/portfolio-core/internal/models"
	"github.com/chitragar/portfolio-core/internal/pkg/mail"
	sessionpkg "github.com/chitragar/portfolio-core/internal/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mailer is satisfied by mail.Sender; tests substitute a stub.
type Mailer interface {
	Send(msg mail.Message) (string, error)
}

type Service struct {
	db      *gorm.DB
	mailer  Mailer
	isAdmin func(email string) bool
	log     *zap.Logger
}

func NewService(db *gorm.DB, mailer Mailer, isAdmin func(string) bool, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, mailer: mailer, isAdmin: isAdmin, log: log}
}

// RequestOTP issues a one-time code to an allow-listed admin email.
// Stale rows are purged on every issue so the table stays small.
func (s *Service) RequestOTP(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if s.isAdmin == nil || !s.isAdmin(email) {
		return errNotAdminEmail
	}

	if err := s.db.Where("created_at < ?", time.Now().Add(-otpCleanupAge)).
		Delete(&models.AdminOTP{}).Error; err != nil {
		s.log.Error("otp cleanup failed", zap.Error(err))
	}

	code, err := newCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	row := models.AdminOTP{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return err
	}

	if s.mailer != nil {
		html, rerr := mail.RenderOTP(code, int(otpTTL.Minutes()))
		if rerr != nil {
			return rerr
		}
		if _, serr := s.mailer.Send(mail.Message{
			To:      []string{email},
			Subject: "Your sign-in code",
			HTML:    html,
		}); serr != nil {
			return fmt.Errorf("send otp: %w", serr)
		}
	}
	return nil
}

// VerifyOTP checks the newest unexpired code for the email, consumes it
// on success and issues a session-bound token.
func (s *Service) VerifyOTP(email, code, ip, ua string) (*loginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)

	var row models.AdminOTP
	err := s.db.Where("email = ? AND expires_at > ?", email, time.Now()).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOTPInvalid
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(row.CodeHash), []byte(code)) != nil {
		return nil, errOTPInvalid
	}

	// Single use: consume before issuing the session.
	if err := s.db.Delete(&row).Error; err != nil {
		return nil, err
	}

	token, sess, err := sessionpkg.Issue(s.db, email, ip, ua, sessionTTL)
	if err != nil {
		return nil, err
	}
	return &loginResponse{
		Token:     token,
		Email:     sess.Email,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// Logout revokes the current session.
func (s *Service) Logout(email, sessionID string) error {
	return sessionpkg.Revoke(s.db, email, sessionID)
}

// newCode returns a random 6-digit code with leading zeros preserved.
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
