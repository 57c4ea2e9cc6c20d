package carelogs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MusaCap/faithlink360/internal/app/features/carelogs"
	carelogstore "github.com/MusaCap/faithlink360/internal/app/store/carelogs"
	"github.com/MusaCap/faithlink360/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (*chi.Mux, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	h := carelogs.NewHandler(carelogstore.New(db), nil, zap.NewNop())
	r := chi.NewRouter()
	carelogs.MountRoutes(r, h)
	// the member history endpoint hangs off the members router in the app
	r.Get("/api/members/{id}/care-logs", h.MemberHistory)
	return r, db
}

func TestCreateCareLog(t *testing.T) {
	r, db := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	m := fx.CreateMember(ctx, "Ona", "Pruitt", "ona@example.com")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, "/api/care-logs", map[string]any{
		"memberId":     m.ID.Hex(),
		"type":         "visit",
		"note":         `<p>Visited at home.</p><script>alert("x")</script>`,
		"confidential": false,
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		ID   string `json:"id"`
		Note string `json:"note"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Note != "<p>Visited at home.</p>" {
		t.Errorf("expected script stripped from note, got %q", got.Note)
	}

	// unknown member
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, "/api/care-logs", map[string]any{
		"memberId": "64b5fc0000000000000000aa",
		"type":     "visit",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown member, got %d", rec.Code)
	}

	// unknown care type
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, "/api/care-logs", map[string]any{
		"memberId": m.ID.Hex(),
		"type":     "lunch",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown care type, got %d", rec.Code)
	}
}

func TestMemberHistory_ConfidentialFilter(t *testing.T) {
	r, db := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	m := fx.CreateMember(ctx, "Pia", "Quinn", "pia@example.com")
	fx.CreateCareLog(ctx, m.ID, "visit", false)
	fx.CreateCareLog(ctx, m.ID, "counseling", true)

	base := "/api/members/" + m.ID.Hex() + "/care-logs"

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		CareLogs []struct {
			Type string `json:"type"`
		} `json:"careLogs"`
		Total int `json:"total"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Total != 1 || len(got.CareLogs) != 1 || got.CareLogs[0].Type != "visit" {
		t.Fatalf("expected confidential entry hidden by default, got %+v", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base+"?includeConfidential=true", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Total != 2 {
		t.Errorf("expected both entries with includeConfidential, got %+v", got)
	}
}

func TestDeleteCareLog(t *testing.T) {
	r, db := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	m := fx.CreateMember(ctx, "Rex", "Sato", "rex@example.com")
	cl := fx.CreateCareLog(ctx, m.ID, "call", false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/care-logs/"+cl.ID.Hex(), nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/care-logs/"+cl.ID.Hex(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting twice, got %d", rec.Code)
	}
}
