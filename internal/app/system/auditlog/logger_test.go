package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/MusaCap/faithlink360/internal/app/store/audit"
	"github.com/MusaCap/faithlink360/internal/app/system/auditlog"
	"github.com/MusaCap/faithlink360/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/api/members", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.MemberCreated(ctx, req, primitive.NewObjectID(), "nobody@example.com")
	logger.GroupDeleted(ctx, req, primitive.NewObjectID(), "Choir")
}

func TestLogger_Log_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Data: "off", Communication: "off"})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/api/members", nil)

	logger.MemberCreated(ctx, req, primitive.NewObjectID(), "off@example.com")

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events with 'off' mode, got %d", len(events))
	}
}

func TestLogger_Log_ConfigLogOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Data: "log", Communication: "log"})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/api/members", nil)

	logger.MemberCreated(ctx, req, primitive.NewObjectID(), "logonly@example.com")

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no stored events with 'log' mode, got %d", len(events))
	}
}

func TestLogger_MemberCreated_StoresEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Data: "db", Communication: "db"})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/api/members", nil)
	req.Header.Set("X-Forwarded-For", "10.1.2.3")
	memberID := primitive.NewObjectID()

	logger.MemberCreated(ctx, req, memberID, "stored@example.com")

	events, err := store.GetByEntity(ctx, memberID, 10)
	if err != nil {
		t.Fatalf("GetByEntity failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.EventType != audit.EventMemberCreated {
		t.Errorf("expected %q, got %q", audit.EventMemberCreated, e.EventType)
	}
	if e.Category != audit.CategoryData {
		t.Errorf("expected category %q, got %q", audit.CategoryData, e.Category)
	}
	if e.IP != "10.1.2.3" {
		t.Errorf("expected forwarded IP, got %q", e.IP)
	}
	if e.Details["email"] != "stored@example.com" {
		t.Errorf("expected email detail, got %v", e.Details)
	}
	if !e.Success {
		t.Error("expected success=true")
	}
}

func TestLogger_AnnouncementSent_UsesCommunicationMode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	// Data off, communication on: only the send should land
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Data: "off", Communication: "db"})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/api/announcements", nil)

	annID := primitive.NewObjectID()
	logger.MemberCreated(ctx, req, primitive.NewObjectID(), "ignored@example.com")
	logger.AnnouncementSent(ctx, req, annID, "msg-123", 5, 1)

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EventType != audit.EventAnnouncementSent {
		t.Errorf("expected announcement_sent, got %q", events[0].EventType)
	}
	if events[0].Details["message_id"] != "msg-123" {
		t.Errorf("expected message_id detail, got %v", events[0].Details)
	}
}
