package feedback

import (
	"errors"
	"fmt"
	"testing"

	"github.com/chitragar/portfolio-core/internal/models"
	"github.com/chitragar/portfolio-core/internal/pkg/pagination"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
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
	if err := db.AutoMigrate(
		&models.FeedbackModel{},
		&models.FeedbackReactionModel{},
		&models.FeedbackAdminLogModel{},
	); err != nil {
		t.Fatal(err)
	}
	return NewService(db, nil, nil)
}

func intPtr(v int) *int { return &v }

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(&CreateFeedbackDTO{Message: "too short"}, "hash", "ua")
	if !errors.Is(err, errMessageLength) {
		t.Fatalf("short message: got %v, want errMessageLength", err)
	}

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Create(&CreateFeedbackDTO{Message: string(long)}, "hash", "ua")
	if !errors.Is(err, errMessageLength) {
		t.Fatalf("long message: got %v, want errMessageLength", err)
	}

	_, err = svc.Create(&CreateFeedbackDTO{
		Message: "the gallery layout is wonderful",
		Rating:  intPtr(6),
	}, "hash", "ua")
	if !errors.Is(err, errInvalidRating) {
		t.Fatalf("rating 6: got %v, want errInvalidRating", err)
	}
}

func TestCreateStoresPendingWithNormalizedType(t *testing.T) {
	svc := newTestService(t)

	f, err := svc.Create(&CreateFeedbackDTO{
		Message:      "the new album really captures the light beautifully",
		FeedbackType: "no-such-type",
		Rating:       intPtr(5),
	}, "hash-1", "test-agent")
	if err != nil {
		t.Fatal(err)
	}

	if f.Status != models.FeedbackPending {
		t.Fatalf("status = %q, want pending", f.Status)
	}
	if f.FeedbackType != models.FeedbackTypeGeneral {
		t.Fatalf("type = %q, want general fallback", f.FeedbackType)
	}
	if f.IPHash != "hash-1" {
		t.Fatalf("ip hash = %q", f.IPHash)
	}
	if _, err := uuid.Parse(f.SessionID); err != nil {
		t.Fatalf("session id = %q, want a server-generated UUID", f.SessionID)
	}
}

func TestCreateScoresSpam(t *testing.T) {
	svc := newTestService(t)

	f, err := svc.Create(&CreateFeedbackDTO{
		Message: "cheap followers here http://a.example http://b.example http://c.example",
	}, "hash", "ua")
	if err != nil {
		t.Fatal(err)
	}
	if f.SpamScore == 0 {
		t.Fatal("spammy message should receive a nonzero score")
	}

	clean, err := svc.Create(&CreateFeedbackDTO{
		Message: "lovely work on the mountain series, the tones are great",
	}, "hash", "ua")
	if err != nil {
		t.Fatal(err)
	}
	if clean.SpamScore != 0 {
		t.Fatalf("clean message score = %d, want 0", clean.SpamScore)
	}
}

func seedFeedback(t *testing.T, svc *Service, n int) []models.FeedbackModel {
	t.Helper()
	out := make([]models.FeedbackModel, 0, n)
	for i := 0; i < n; i++ {
		f, err := svc.Create(&CreateFeedbackDTO{
			Message: fmt.Sprintf("submission number %d with enough length", i),
		}, fmt.Sprintf("hash-%d", i), "ua")
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, *f)
	}
	return out
}

func approve(t *testing.T, svc *Service, id uint) *models.FeedbackModel {
	t.Helper()
	f, err := svc.Moderate(id, &ModerateFeedbackDTO{Status: "approved"}, "admin@example.com")
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestListPublicShowsOnlyApprovedVisible(t *testing.T) {
	svc := newTestService(t)
	rows := seedFeedback(t, svc, 3)

	approve(t, svc, rows[0].ID)

	hidden := false
	if _, err := svc.Moderate(rows[1].ID, &ModerateFeedbackDTO{
		Status:          "approved",
		DisplayPublicly: &hidden,
	}, "admin@example.com"); err != nil {
		t.Fatal(err)
	}

	items, hasMore, err := svc.ListPublic(PublicQuery{Limit: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("public items = %d, want 1", len(items))
	}
	if items[0].ID != rows[0].ID {
		t.Fatalf("public item id = %d, want %d", items[0].ID, rows[0].ID)
	}
	if hasMore {
		t.Fatal("hasMore should be false")
	}
}

func TestListPublicFilters(t *testing.T) {
	svc := newTestService(t)

	compliment, err := svc.Create(&CreateFeedbackDTO{
		Message:      "the wildlife shots are fantastic, truly",
		FeedbackType: "compliment",
	}, "hash-a", "ua")
	if err != nil {
		t.Fatal(err)
	}
	other, err := svc.Create(&CreateFeedbackDTO{
		Message: "the site menu could be easier to find",
	}, "hash-b", "ua")
	if err != nil {
		t.Fatal(err)
	}

	approve(t, svc, compliment.ID)
	featured := true
	if _, err := svc.Moderate(other.ID, &ModerateFeedbackDTO{
		Status:     "approved",
		IsFeatured: &featured,
	}, "admin@example.com"); err != nil {
		t.Fatal(err)
	}

	items, _, err := svc.ListPublic(PublicQuery{Limit: 20, Type: "compliment"})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != compliment.ID {
		t.Fatalf("type filter items = %+v", items)
	}

	items, _, err = svc.ListPublic(PublicQuery{Limit: 20, FeaturedOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != other.ID {
		t.Fatalf("featured filter items = %+v", items)
	}

	items, _, err = svc.ListPublic(PublicQuery{Limit: 20, Type: "bogus"})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("unknown type filter should match nothing, got %+v", items)
	}
}

func TestListPublicHasMore(t *testing.T) {
	svc := newTestService(t)
	rows := seedFeedback(t, svc, 5)
	for _, r := range rows {
		approve(t, svc, r.ID)
	}

	items, hasMore, err := svc.ListPublic(PublicQuery{Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 || !hasMore {
		t.Fatalf("page 1: len=%d hasMore=%v, want 3/true", len(items), hasMore)
	}

	items, hasMore, err = svc.ListPublic(PublicQuery{Limit: 3, Offset: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || hasMore {
		t.Fatalf("page 2: len=%d hasMore=%v, want 2/false", len(items), hasMore)
	}
}

func TestModerateRecordsAudit(t *testing.T) {
	svc := newTestService(t)
	rows := seedFeedback(t, svc, 1)

	notes := "great submission"
	f, err := svc.Moderate(rows[0].ID, &ModerateFeedbackDTO{
		Status:     "approved",
		AdminNotes: &notes,
	}, "admin@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if f.Status != models.FeedbackApproved {
		t.Fatalf("status = %q, want approved", f.Status)
	}
	if !f.DisplayPublicly {
		t.Fatal("approval should default to publicly visible")
	}
	if f.ReviewedBy != "admin@example.com" || f.ReviewedAt == nil {
		t.Fatal("review metadata should be set")
	}

	log, err := svc.AuditLog(rows[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(log) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(log))
	}
	entry := log[0]
	if entry.PreviousStatus != models.FeedbackPending || entry.NewStatus != models.FeedbackApproved {
		t.Fatalf("audit transition = %s -> %s", entry.PreviousStatus, entry.NewStatus)
	}
	if entry.Notes != notes {
		t.Fatalf("audit notes = %q", entry.Notes)
	}
	if entry.Action != "approved" {
		t.Fatalf("audit action = %q, want the new status", entry.Action)
	}
}

func TestRejectionHidesEntryWithoutTouchingDisplayFlag(t *testing.T) {
	svc := newTestService(t)
	rows := seedFeedback(t, svc, 1)
	approve(t, svc, rows[0].ID)

	f, err := svc.Moderate(rows[0].ID, &ModerateFeedbackDTO{Status: "rejected"}, "admin@example.com")
	if err != nil {
		t.Fatal(err)
	}
	// Display flags are only written on approval; the projection's
	// status filter is what hides the entry.
	if !f.DisplayPublicly {
		t.Fatal("rejection must not rewrite the display flag")
	}

	items, _, err := svc.ListPublic(PublicQuery{Limit: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("rejected entry leaked into the public projection: %+v", items)
	}
}

func TestModerateRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t)
	rows := seedFeedback(t, svc, 1)

	_, err := svc.Moderate(rows[0].ID, &ModerateFeedbackDTO{Status: "published"}, "admin@example.com")
	if !errors.Is(err, errInvalidStatus) {
		t.Fatalf("got %v, want errInvalidStatus", err)
	}

	_, err = svc.Moderate(999, &ModerateFeedbackDTO{Status: "approved"}, "admin@example.com")
	if !errors.Is(err, errFeedbackNotFound) {
		t.Fatalf("got %v, want errFeedbackNotFound", err)
	}
}

func TestCountByStatusCoversAllStates(t *testing.T) {
	svc := newTestService(t)
	rows := seedFeedback(t, svc, 4)
	approve(t, svc, rows[0].ID)
	approve(t, svc, rows[1].ID)
	if _, err := svc.Moderate(rows[2].ID, &ModerateFeedbackDTO{Status: "archived"}, "admin@example.com"); err != nil {
		t.Fatal(err)
	}

	counts, err := svc.CountByStatus()
	if err != nil {
		t.Fatal(err)
	}
	if counts[models.FeedbackPending] != 1 || counts[models.FeedbackApproved] != 2 ||
		counts[models.FeedbackArchived] != 1 || counts[models.FeedbackRejected] != 0 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestDeleteIsSoftAndAudited(t *testing.T) {
	svc := newTestService(t)
	rows := seedFeedback(t, svc, 1)

	if err := svc.Delete(rows[0].ID, "admin@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(rows[0].ID, "admin@example.com"); !errors.Is(err, errFeedbackNotFound) {
		t.Fatalf("second delete: got %v, want errFeedbackNotFound", err)
	}

	// The row survives under soft delete.
	var n int64
	if err := svc.db.Unscoped().Model(&models.FeedbackModel{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("unscoped rows = %d, want 1", n)
	}

	log, err := svc.AuditLog(rows[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(log) != 1 || log[0].Action != "deleted" {
		t.Fatalf("audit log = %+v", log)
	}
}

func TestToggleReaction(t *testing.T) {
	svc := newTestService(t)
	rows := seedFeedback(t, svc, 1)
	approve(t, svc, rows[0].ID)

	action, err := svc.ToggleReaction(rows[0].ID, models.ReactionLove, "visitor-a")
	if err != nil {
		t.Fatal(err)
	}
	if action != "added" {
		t.Fatalf("first toggle = %q, want added", action)
	}

	action, err = svc.ToggleReaction(rows[0].ID, models.ReactionLove, "visitor-a")
	if err != nil {
		t.Fatal(err)
	}
	if action != "removed" {
		t.Fatalf("second toggle = %q, want removed", action)
	}

	if _, err := svc.ToggleReaction(rows[0].ID, models.ReactionLove, "visitor-b"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ToggleReaction(rows[0].ID, models.ReactionLike, "visitor-b"); err != nil {
		t.Fatal(err)
	}

	counts, err := svc.ReactionCounts(rows[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if counts[models.ReactionLove] != 1 || counts[models.ReactionLike] != 1 {
		t.Fatalf("counts = %v", counts)
	}
	if _, present := counts[models.ReactionFunny]; present {
		t.Fatal("untouched reaction types should be omitted")
	}
}

func TestToggleReactionGuards(t *testing.T) {
	svc := newTestService(t)
	rows := seedFeedback(t, svc, 1)

	if _, err := svc.ToggleReaction(rows[0].ID, "wave", "visitor"); !errors.Is(err, errInvalidReaction) {
		t.Fatalf("got %v, want errInvalidReaction", err)
	}
	if _, err := svc.ToggleReaction(999, models.ReactionLike, "visitor"); !errors.Is(err, errFeedbackNotFound) {
		t.Fatalf("got %v, want errFeedbackNotFound", err)
	}
	if _, err := svc.ToggleReaction(rows[0].ID, models.ReactionLike, "visitor"); !errors.Is(err, errFeedbackNotPublic) {
		t.Fatalf("pending feedback: got %v, want errFeedbackNotPublic", err)
	}
}

func TestListAdminFiltersByStatus(t *testing.T) {
	svc := newTestService(t)
	rows := seedFeedback(t, svc, 3)
	approve(t, svc, rows[1].ID)

	pending := models.FeedbackPending
	list, pag, err := svc.ListAdmin(pagination.Query{Page: 1, Size: 10}, &pending)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || pag.Total != 2 {
		t.Fatalf("pending list = %d total = %d, want 2/2", len(list), pag.Total)
	}

	bogus := models.FeedbackStatus("bogus")
	if _, _, err := svc.ListAdmin(pagination.Query{Page: 1, Size: 10}, &bogus); !errors.Is(err, errInvalidStatus) {
		t.Fatalf("got %v, want errInvalidStatus", err)
	}
}
