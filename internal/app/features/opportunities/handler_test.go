package opportunities_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MusaCap/faithlink360/internal/app/features/opportunities"
	memberstore "github.com/MusaCap/faithlink360/internal/app/store/members"
	oppstore "github.com/MusaCap/faithlink360/internal/app/store/opportunities"
	tagstore "github.com/MusaCap/faithlink360/internal/app/store/tags"
	volunteerstore "github.com/MusaCap/faithlink360/internal/app/store/volunteers"
	"github.com/MusaCap/faithlink360/internal/app/system/indexes"
	"github.com/MusaCap/faithlink360/internal/testutil"
	"github.com/go-chi/chi/v5"
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

	members := memberstore.New(db, db.Client(), tagstore.New(db))
	h := opportunities.NewHandler(oppstore.New(db, db.Client()), volunteerstore.New(db), members, nil, zap.NewNop())
	r := chi.NewRouter()
	opportunities.MountRoutes(r, h)
	return r, db
}

func TestCreateOpportunity(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, "/api/volunteer-opportunities", map[string]any{
		"title":         "Sound Desk",
		"ministry":      "worship",
		"maxVolunteers": 3,
		"urgency":       "high",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Urgency string `json:"urgency"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.ID == "" || got.Status != "open" || got.Urgency != "high" {
		t.Errorf("unexpected response: %+v", got)
	}

	// title is required
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, "/api/volunteer-opportunities", map[string]any{
		"ministry": "worship",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a title, got %d", rec.Code)
	}
}

func TestSignUpFlow(t *testing.T) {
	r, db := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	opp := fx.CreateOpportunity(ctx, "Greeter", "hospitality", 1)
	a := fx.CreateMember(ctx, "Ivy", "Kerr", "ivy@example.com")
	b := fx.CreateMember(ctx, "Jay", "Lowe", "jay@example.com")

	base := "/api/volunteer-opportunities/" + opp.ID.Hex() + "/signups"

	// unknown member
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, base, map[string]any{
		"memberId": "64b5fc0000000000000000aa",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown member, got %d", rec.Code)
	}

	// first signup takes the only seat
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, base, map[string]any{
		"memberId": a.ID.Hex(),
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// duplicate signup
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, base, map[string]any{
		"memberId": a.ID.Hex(),
	}))
	if rec.Code != http.StatusConflict && rec.Code != http.StatusBadRequest {
		t.Errorf("expected 409 (or 400 once filled) for duplicate signup, got %d", rec.Code)
	}

	// the opportunity is filled, so a second member is turned away
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, base, map[string]any{
		"memberId": b.ID.Hex(),
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a filled opportunity, got %d", rec.Code)
	}

	// roster shows the one signup
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var roster struct {
		Signups []struct {
			MemberID string `json:"member_id"`
		} `json:"signups"`
	}
	testutil.DecodeJSON(t, rec, &roster)
	if len(roster.Signups) != 1 || roster.Signups[0].MemberID != a.ID.Hex() {
		t.Errorf("unexpected roster: %+v", roster)
	}

	// cancelling frees the seat
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, base+"/"+a.ID.Hex(), nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, base+"/"+a.ID.Hex(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 cancelling twice, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, base, map[string]any{
		"memberId": b.ID.Hex(),
	}))
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 after a seat frees up, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMatches(t *testing.T) {
	r, db := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	opp := fx.CreateOpportunity(ctx, "Sound Desk", "worship", 0)
	if _, err := db.Collection("opportunities").UpdateByID(ctx, opp.ID, map[string]any{
		"$set": map[string]any{"skills_required": []string{"sound mixing"}},
	}); err != nil {
		t.Fatalf("failed to set required skills: %v", err)
	}

	strong := fx.CreateMember(ctx, "Kai", "Moss", "kai@example.com")
	weak := fx.CreateMember(ctx, "Lia", "Nye", "lia@example.com")
	fx.CreateVolunteer(ctx, strong.ID, []string{"sound mixing"}, []string{"worship"})
	fx.CreateVolunteer(ctx, weak.ID, []string{"cooking"}, []string{"hospitality"})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/volunteer-opportunities/"+opp.ID.Hex()+"/matches", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Matches []struct {
			Volunteer struct {
				MemberID string `json:"member_id"`
			} `json:"volunteer"`
			MatchScore int `json:"matchScore"`
		} `json:"matches"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if len(got.Matches) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", got)
	}
	if got.Matches[0].Volunteer.MemberID != strong.ID.Hex() {
		t.Errorf("expected the skilled volunteer ranked first, got %+v", got.Matches)
	}
	if got.Matches[0].MatchScore <= got.Matches[1].MatchScore {
		t.Errorf("expected descending scores, got %+v", got.Matches)
	}
}
