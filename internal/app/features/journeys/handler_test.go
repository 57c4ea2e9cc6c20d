package journeys_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MusaCap/faithlink360/internal/app/features/journeys"
	journeystore "github.com/MusaCap/faithlink360/internal/app/store/journeys"
	"github.com/MusaCap/faithlink360/internal/app/system/indexes"
	"github.com/MusaCap/faithlink360/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (*chi.Mux, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	h := journeys.NewHandler(journeystore.New(db), nil, zap.NewNop())
	r := chi.NewRouter()
	journeys.MountRoutes(r, h)
	return r, db
}

func TestCreateTemplate(t *testing.T) {
	r, _ := newRouter(t)

	body := map[string]any{
		"name":        "Growth Track",
		"description": "From first visit to serving",
		"stages": []map[string]any{
			{"name": "Connect", "sequence": 1},
			{"name": "Grow", "sequence": 2},
			{"name": "Serve", "sequence": 3},
		},
	}
	req := testutil.JSONRequest(t, http.MethodPost, "/api/journey-templates", body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Stages []struct {
			Name     string `json:"name"`
			Sequence int    `json:"sequence"`
		} `json:"stages"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.ID == "" || got.Name != "Growth Track" || len(got.Stages) != 3 {
		t.Errorf("unexpected response: %+v", got)
	}

	// duplicate name
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, "/api/journey-templates", body))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate name, got %d", rec.Code)
	}
}

func TestCreateTemplate_BadStages(t *testing.T) {
	r, _ := newRouter(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"no stages", map[string]any{"name": "Empty"}},
		{"gap in sequence", map[string]any{
			"name": "Gappy",
			"stages": []map[string]any{
				{"name": "One", "sequence": 1},
				{"name": "Three", "sequence": 3},
			},
		}},
		{"unnamed stage", map[string]any{
			"name": "Blank",
			"stages": []map[string]any{
				{"name": "", "sequence": 1},
			},
		}},
		{"missing name", map[string]any{
			"stages": []map[string]any{
				{"name": "Only", "sequence": 1},
			},
		}},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, "/api/journey-templates", tc.body))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %s", tc.name, rec.Code, rec.Body.String())
		}
	}
}

func TestGetTemplate_NotFound(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/journey-templates/64b5fc0000000000000000aa", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/journey-templates/not-an-id", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestDeleteTemplate_InUse(t *testing.T) {
	r, db := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	jt := fx.CreateJourneyTemplate(ctx, "Newcomer", "Welcome")
	m := fx.CreateMember(ctx, "Hank", "Ives", "hank@example.com")
	if _, err := db.Collection("members").UpdateOne(ctx,
		bson.M{"_id": m.ID},
		bson.M{"$set": bson.M{"journey.template_id": jt.ID, "journey.stage": "Welcome"}},
	); err != nil {
		t.Fatalf("failed to put member on journey: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/journey-templates/"+jt.ID.Hex(), nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while members are on the template, got %d", rec.Code)
	}

	if _, err := db.Collection("members").UpdateOne(ctx,
		bson.M{"_id": m.ID},
		bson.M{"$unset": bson.M{"journey": ""}},
	); err != nil {
		t.Fatalf("failed to clear journey: %v", err)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/journey-templates/"+jt.ID.Hex(), nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestListTemplates(t *testing.T) {
	r, db := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	fx.CreateJourneyTemplate(ctx, "Baptism", "Prepare")
	fx.CreateJourneyTemplate(ctx, "Alpha", "Invite")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/journey-templates?sortBy=name&sortOrder=asc", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Templates []struct {
			Name string `json:"name"`
		} `json:"templates"`
		Total int `json:"total"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Total != 2 || len(got.Templates) != 2 {
		t.Fatalf("expected 2 templates, got %+v", got)
	}
	if got.Templates[0].Name != "Alpha" {
		t.Errorf("expected name sort, got %q first", got.Templates[0].Name)
	}
}
