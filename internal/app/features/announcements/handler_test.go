package announcements_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MusaCap/faithlink360/internal/app/features/announcements"
	announcementstore "github.com/MusaCap/faithlink360/internal/app/store/announcements"
	"github.com/MusaCap/faithlink360/internal/app/system/mailer"
	"github.com/MusaCap/faithlink360/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (*chi.Mux, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	m := mailer.New(mailer.Config{Enabled: false}, zap.NewNop())
	h := announcements.NewHandler(announcementstore.New(db), m, "FaithLink360", nil, zap.NewNop())
	r := chi.NewRouter()
	announcements.MountRoutes(r, h)
	return r, db
}

func TestCreateAnnouncement(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, "/api/announcements", map[string]any{
		"subject":  "Sunday Service Moved",
		"body":     `<p>We meet at 11am.</p><script>alert("x")</script>`,
		"audience": "all",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		ID        string `json:"id"`
		MessageID string `json:"message_id"`
		Body      string `json:"body"`
		Status    string `json:"status"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.MessageID == "" || got.Status != "draft" {
		t.Errorf("unexpected response: %+v", got)
	}
	if got.Body != "<p>We meet at 11am.</p>" {
		t.Errorf("expected script stripped from body, got %q", got.Body)
	}

	// group audience without a group id
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, "/api/announcements", map[string]any{
		"subject":  "Group News",
		"audience": "group",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a group id, got %d", rec.Code)
	}
}

func TestSendAnnouncement_Once(t *testing.T) {
	r, db := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	fx.CreateMember(ctx, "Mia", "Orr", "mia@example.com")
	fx.CreateMember(ctx, "Noa", "Pell", "noa@example.com")
	a := fx.CreateAnnouncement(ctx, "Picnic", "all")

	// preview the audience first
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/announcements/"+a.ID.Hex()+"/recipients", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var preview struct {
		Recipients []struct {
			Email string `json:"email"`
		} `json:"recipients"`
		Total int `json:"total"`
	}
	testutil.DecodeJSON(t, rec, &preview)
	if preview.Total != 2 {
		t.Fatalf("expected 2 recipients, got %+v", preview)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/announcements/"+a.ID.Hex()+"/send", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var sent struct {
		MessageID  string `json:"messageId"`
		Recipients int    `json:"recipients"`
		Delivered  int    `json:"delivered"`
		Failed     int    `json:"failed"`
	}
	testutil.DecodeJSON(t, rec, &sent)
	if sent.Recipients != 2 || sent.Delivered != 2 || sent.Failed != 0 {
		t.Errorf("unexpected send result: %+v", sent)
	}
	if sent.MessageID != a.MessageID {
		t.Errorf("expected the announcement's message id, got %q", sent.MessageID)
	}

	// second send is refused
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/announcements/"+a.ID.Hex()+"/send", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 on second send, got %d", rec.Code)
	}

	// and so is editing
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPut, "/api/announcements/"+a.ID.Hex(), map[string]any{
		"subject":  "Too late",
		"audience": "all",
	}))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 editing a sent announcement, got %d", rec.Code)
	}
}

func TestListAnnouncements_StatusFilter(t *testing.T) {
	r, db := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	fx.CreateAnnouncement(ctx, "Draft One", "all")
	fx.CreateAnnouncement(ctx, "Draft Two", "all")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/announcements?status=draft", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got struct {
		Total int `json:"total"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Total != 2 {
		t.Errorf("expected 2 drafts, got %d", got.Total)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/announcements?status=archived", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status filter, got %d", rec.Code)
	}
}
