package volunteers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MusaCap/faithlink360/internal/app/features/volunteers"
	memberstore "github.com/MusaCap/faithlink360/internal/app/store/members"
	oppstore "github.com/MusaCap/faithlink360/internal/app/store/opportunities"
	tagstore "github.com/MusaCap/faithlink360/internal/app/store/tags"
	volunteerstore "github.com/MusaCap/faithlink360/internal/app/store/volunteers"
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

	members := memberstore.New(db, db.Client(), tagstore.New(db))
	h := volunteers.NewHandler(volunteerstore.New(db), members, oppstore.New(db, db.Client()), nil, zap.NewNop())
	r := chi.NewRouter()
	volunteers.MountRoutes(r, h)
	return r, db
}

func TestCreateVolunteer(t *testing.T) {
	r, db := newRouter(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fx.CreateMember(ctx, "Sarah", "Johnson", "sarah@example.com")

	body := map[string]any{
		"memberId":            m.ID.Hex(),
		"skills":              []string{"Sound Engineering", "Guitar"},
		"preferredMinistries": []string{"Worship"},
		"maxHoursPerWeek":     6,
	}
	req := testutil.JSONRequest(t, http.MethodPost, "/api/volunteers", body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		ID              string   `json:"id"`
		MemberID        string   `json:"member_id"`
		Skills          []string `json:"skills"`
		BackgroundCheck string   `json:"background_check"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.MemberID != m.ID.Hex() {
		t.Errorf("member_id = %q, want %q", got.MemberID, m.ID.Hex())
	}
	if got.BackgroundCheck != "not-required" {
		t.Errorf("background_check = %q, want not-required", got.BackgroundCheck)
	}

	// One profile per member.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, "/api/volunteers", body))
	if rec.Code != http.StatusConflict {
		t.Fatalf("second profile: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateVolunteer_Validation(t *testing.T) {
	r, db := newRouter(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fx.CreateMember(ctx, "Sarah", "Johnson", "sarah@example.com")

	cases := []struct {
		name string
		body map[string]any
	}{
		{"bad member id", map[string]any{"memberId": "nope"}},
		{"unknown member", map[string]any{"memberId": "64b0c0ffee0ddba11ca7e001"}},
		{"bad background check", map[string]any{"memberId": m.ID.Hex(), "backgroundCheck": "vetted"}},
		{"negative hours", map[string]any{"memberId": m.ID.Hex(), "maxHoursPerWeek": -2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.JSONRequest(t, http.MethodPost, "/api/volunteers", tc.body)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListVolunteers_SkillFilter(t *testing.T) {
	r, db := newRouter(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateMember(ctx, "Sarah", "Johnson", "sarah@example.com")
	b := fx.CreateMember(ctx, "Marcus", "Webb", "marcus@example.com")
	fx.CreateVolunteer(ctx, a.ID, []string{"Sound Engineering"}, []string{"Worship"})
	fx.CreateVolunteer(ctx, b.ID, []string{"Cooking"}, []string{"Hospitality"})

	req := httptest.NewRequest(http.MethodGet, "/api/volunteers?skill=sound", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Volunteers []struct {
			MemberID string `json:"member_id"`
		} `json:"volunteers"`
		Total int64 `json:"total"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Total != 1 || len(got.Volunteers) != 1 || got.Volunteers[0].MemberID != a.ID.Hex() {
		t.Fatalf("filter result = %+v, want only the sound engineer", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/volunteers?backgroundCheck=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad check filter: expected 400, got %d", rec.Code)
	}
}

func TestVolunteerMatches(t *testing.T) {
	r, db := newRouter(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fx.CreateMember(ctx, "Sarah", "Johnson", "sarah@example.com")
	v := fx.CreateVolunteer(ctx, m.ID, []string{"Sound Engineering"}, []string{"Worship"})

	strong := fx.CreateOpportunity(ctx, "Sound Board Operator", "Worship", 3)
	weak := fx.CreateOpportunity(ctx, "Parking Team", "Hospitality", 5)
	_, err := db.Collection("opportunities").UpdateOne(ctx,
		bson.M{"_id": strong.ID},
		bson.M{"$set": bson.M{"skills_required": []string{"sound engineering"}}})
	if err != nil {
		t.Fatalf("seed skills: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/volunteers/"+v.ID.Hex()+"/matches", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Matches []struct {
			Opportunity struct {
				ID string `json:"id"`
			} `json:"opportunity"`
			MatchScore int `json:"matchScore"`
		} `json:"matches"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if len(got.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(got.Matches))
	}
	if got.Matches[0].Opportunity.ID != strong.ID.Hex() {
		t.Errorf("best match = %s, want the sound board role", got.Matches[0].Opportunity.ID)
	}
	if got.Matches[1].Opportunity.ID != weak.ID.Hex() {
		t.Errorf("second match = %s, want the parking role", got.Matches[1].Opportunity.ID)
	}
	if got.Matches[0].MatchScore <= got.Matches[1].MatchScore {
		t.Errorf("scores not descending: %d then %d", got.Matches[0].MatchScore, got.Matches[1].MatchScore)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/volunteers/64b0c0ffee0ddba11ca7e001/matches", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown volunteer: expected 404, got %d", rec.Code)
	}
}
