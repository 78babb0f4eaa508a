package newsletter

import (
	"errors"
	"testing"

	"github.com/chitragar/portfolio-core/internal/models"
	"github.com/chitragar/portfolio-core/internal/pkg/mail"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubMailer struct {
	sent []mail.Message
	fail error
}

func (m *stubMailer) Send(msg mail.Message) (string, error) {
	if m.fail != nil {
		return "", m.fail
	}
	m.sent = append(m.sent, msg)
	return "msg-id", nil
}

func newTestService(t *testing.T, mailer Mailer) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// A single pooled connection keeps every query on the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.SubscriberModel{}, &models.EmailLogModel{}); err != nil {
		t.Fatal(err)
	}
	return NewService(db, mailer, "https://photos.example.com", nil)
}

func TestSubscribeCreatesActiveSubscriber(t *testing.T) {
	mailer := &stubMailer{}
	svc := newTestService(t, mailer)

	sub, err := svc.Subscribe(&SubscribeDTO{Email: "Reader@Example.COM"}, "hash", "ua")
	if err != nil {
		t.Fatal(err)
	}

	if sub.Email != "reader@example.com" {
		t.Fatalf("email = %q, want lowercased", sub.Email)
	}
	if !sub.IsActive {
		t.Fatal("new subscriber should be active")
	}
	if len(sub.UnsubscribeToken) != 64 {
		t.Fatalf("token length = %d, want 64", len(sub.UnsubscribeToken))
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("welcome emails = %d, want 1", len(mailer.sent))
	}

	var refreshed models.SubscriberModel
	if err := svc.db.First(&refreshed, sub.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !refreshed.WelcomeEmailSent {
		t.Fatal("welcome_email_sent should be set")
	}

	var logs []models.EmailLogModel
	if err := svc.db.Find(&logs).Error; err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].Status != "sent" || logs[0].ExternalID != "msg-id" {
		t.Fatalf("email log = %+v", logs)
	}
}

func TestSubscribeRejectsInvalidAndDuplicate(t *testing.T) {
	svc := newTestService(t, &stubMailer{})

	if _, err := svc.Subscribe(&SubscribeDTO{Email: "not-an-email"}, "h", "ua"); !errors.Is(err, errInvalidEmail) {
		t.Fatalf("got %v, want errInvalidEmail", err)
	}

	if _, err := svc.Subscribe(&SubscribeDTO{Email: "reader@example.com"}, "h", "ua"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Subscribe(&SubscribeDTO{Email: "reader@example.com"}, "h", "ua"); !errors.Is(err, errAlreadySubscribed) {
		t.Fatalf("got %v, want errAlreadySubscribed", err)
	}
}

func TestUnsubscribeAndReactivate(t *testing.T) {
	mailer := &stubMailer{}
	svc := newTestService(t, mailer)

	sub, err := svc.Subscribe(&SubscribeDTO{Email: "reader@example.com"}, "h", "ua")
	if err != nil {
		t.Fatal(err)
	}
	oldToken := sub.UnsubscribeToken

	if err := svc.Unsubscribe(oldToken); err != nil {
		t.Fatal(err)
	}
	if err := svc.Unsubscribe(oldToken); !errors.Is(err, errTokenNotFound) {
		t.Fatalf("second unsubscribe: got %v, want errTokenNotFound", err)
	}

	re, err := svc.Subscribe(&SubscribeDTO{Email: "reader@example.com"}, "h2", "ua2")
	if err != nil {
		t.Fatal(err)
	}
	if !re.IsActive {
		t.Fatal("reactivated subscriber should be active")
	}
	if re.UnsubscribeToken == oldToken {
		t.Fatal("reactivation should rotate the unsubscribe token")
	}
	if re.UnsubscribedAt != nil {
		t.Fatal("unsubscribed_at should be cleared")
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("welcome emails = %d, want 2", len(mailer.sent))
	}
}

func TestMailFailureDoesNotFailSubscription(t *testing.T) {
	svc := newTestService(t, &stubMailer{fail: errors.New("smtp down")})

	sub, err := svc.Subscribe(&SubscribeDTO{Email: "reader@example.com"}, "h", "ua")
	if err != nil {
		t.Fatal(err)
	}
	if sub.WelcomeEmailSent {
		t.Fatal("welcome_email_sent should stay false on failure")
	}

	var logs []models.EmailLogModel
	if err := svc.db.Find(&logs).Error; err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].Status != "failed" || logs[0].Error == "" {
		t.Fatalf("email log = %+v", logs)
	}
}

func TestStats(t *testing.T) {
	svc := newTestService(t, &stubMailer{})

	a, err := svc.Subscribe(&SubscribeDTO{Email: "a@example.com"}, "h", "ua")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Subscribe(&SubscribeDTO{Email: "b@example.com"}, "h", "ua"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Unsubscribe(a.UnsubscribeToken); err != nil {
		t.Fatal(err)
	}

	st, err := svc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Total != 2 || st.Active != 1 || st.Unsubscribed != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if st.NewThisMonth != 1 {
		t.Fatalf("new this month = %d, want 1", st.NewThisMonth)
	}

	pub, err := svc.PublicStats()
	if err != nil {
		t.Fatal(err)
	}
	if pub.TotalSubscribers != 1 || pub.NewThisMonth != 1 {
		t.Fatalf("public stats = %+v", pub)
	}
}

func TestSetActive(t *testing.T) {
	svc := newTestService(t, &stubMailer{})

	sub, err := svc.Subscribe(&SubscribeDTO{Email: "reader@example.com"}, "h", "ua")
	if err != nil {
		t.Fatal(err)
	}

	off, err := svc.SetActive(sub.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if off.IsActive || off.UnsubscribedAt == nil {
		t.Fatalf("deactivated = %+v", off)
	}

	on, err := svc.SetActive(sub.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if !on.IsActive || on.UnsubscribedAt != nil {
		t.Fatalf("reactivated = %+v", on)
	}

	if _, err := svc.SetActive(999, false); !errors.Is(err, errSubscriberNotFound) {
		t.Fatalf("got %v, want errSubscriberNotFound", err)
	}
}

func TestRemoveDeletesSubscriberAndLog(t *testing.T) {
	svc := newTestService(t, &stubMailer{})

	sub, err := svc.Subscribe(&SubscribeDTO{Email: "reader@example.com"}, "h", "ua")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Remove(sub.ID); err != nil {
		t.Fatal(err)
	}

	var subs, logs int64
	if err := svc.db.Unscoped().Model(&models.SubscriberModel{}).Count(&subs).Error; err != nil {
		t.Fatal(err)
	}
	if err := svc.db.Unscoped().Model(&models.EmailLogModel{}).Count(&logs).Error; err != nil {
		t.Fatal(err)
	}
	if subs != 0 || logs != 0 {
		t.Fatalf("rows after remove: subscribers=%d logs=%d", subs, logs)
	}

	if err := svc.Remove(sub.ID); !errors.Is(err, errSubscriberNotFound) {
		t.Fatalf("got %v, want errSubscriberNotFound", err)
	}
}
