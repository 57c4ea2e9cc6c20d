package groups_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MusaCap/faithlink360/internal/app/features/groups"
	groupstore "github.com/MusaCap/faithlink360/internal/app/store/groups"
	membershipstore "github.com/MusaCap/faithlink360/internal/app/store/memberships"
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

	h := groups.NewHandler(db, groupstore.New(db), membershipstore.New(db), nil, zap.NewNop())
	r := chi.NewRouter()
	groups.MountRoutes(r, h)
	return r, db
}

func TestCreateGroup(t *testing.T) {
	r, _ := newRouter(t)

	body := map[string]any{
		"name":     "Worship Team",
		"type":     "ministry",
		"schedule": "Sundays 8am",
	}
	req := testutil.JSONRequest(t, http.MethodPost, "/api/groups", body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Status   string `json:"status"`
		Schedule string `json:"schedule"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Status != "active" {
		t.Errorf("status = %q, want active", got.Status)
	}
	if got.Schedule != "Sundays 8am" {
		t.Errorf("schedule = %q", got.Schedule)
	}

	// Folded name collision.
	dup := testutil.JSONRequest(t, http.MethodPost, "/api/groups", map[string]any{
		"name": "WORSHIP team",
		"type": "ministry",
	})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, dup)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate name: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	bad := testutil.JSONRequest(t, http.MethodPost, "/api/groups", map[string]any{
		"name": "Book Club",
		"type": "club",
	})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, bad)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad type: expected 400, got %d", rec.Code)
	}
}

func TestListGroups_WithMemberCounts(t *testing.T) {
	r, db := newRouter(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	choir := fx.CreateGroup(ctx, "Choir", "ministry")
	fx.CreateGroup(ctx, "Finance Committee", "committee")
	a := fx.CreateMember(ctx, "Sarah", "Johnson", "sarah@example.com")
	b := fx.CreateMember(ctx, "Marcus", "Webb", "marcus@example.com")
	fx.AddToGroup(ctx, choir.ID, a.ID, "leader")
	fx.AddToGroup(ctx, choir.ID, b.ID, "member")

	req := httptest.NewRequest(http.MethodGet, "/api/groups?type=ministry", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Groups []struct {
			Name        string `json:"name"`
			MemberCount int64  `json:"member_count"`
		} `json:"groups"`
		Total int64 `json:"total"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Total != 1 || len(got.Groups) != 1 {
		t.Fatalf("total = %d, groups = %d, want 1/1", got.Total, len(got.Groups))
	}
	if got.Groups[0].Name != "Choir" || got.Groups[0].MemberCount != 2 {
		t.Errorf("row = %+v, want Choir with 2 members", got.Groups[0])
	}
}

func TestGroupRoster(t *testing.T) {
	r, db := newRouter(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fx.CreateGroup(ctx, "Choir", "ministry")
	leader := fx.CreateMember(ctx, "Sarah", "Johnson", "sarah@example.com")
	member := fx.CreateMember(ctx, "Marcus", "Webb", "marcus@example.com")
	fx.AddToGroup(ctx, g.ID, member.ID, "member")
	fx.AddToGroup(ctx, g.ID, leader.ID, "leader")

	req := httptest.NewRequest(http.MethodGet, "/api/groups/"+g.ID.Hex()+"/members", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Members []struct {
			Member struct {
				Email string `json:"email"`
			} `json:"member"`
			Role string `json:"role"`
		} `json:"members"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if len(got.Members) != 2 {
		t.Fatalf("roster = %d rows, want 2", len(got.Members))
	}
	if got.Members[0].Role != "leader" || got.Members[0].Member.Email != "sarah@example.com" {
		t.Errorf("leaders should sort first, got %+v", got.Members[0])
	}
}

func TestAddRemoveMember(t *testing.T) {
	r, db := newRouter(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fx.CreateGroup(ctx, "Choir", "ministry")
	m := fx.CreateMember(ctx, "Sarah", "Johnson", "sarah@example.com")
	path := "/api/groups/" + g.ID.Hex() + "/members/" + m.ID.Hex()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, path, map[string]any{"role": "leader"}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("join: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, path, nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("rejoin: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, path, map[string]any{"role": "owner"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad role: expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("leave: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second leave: expected 404, got %d", rec.Code)
	}
}

func TestDeleteGroup_ClearsRoster(t *testing.T) {
	r, db := newRouter(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fx.CreateGroup(ctx, "Choir", "ministry")
	m := fx.CreateMember(ctx, "Sarah", "Johnson", "sarah@example.com")
	fx.AddToGroup(ctx, g.ID, m.ID, "member")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/groups/"+g.ID.Hex(), nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	ms := membershipstore.New(db)
	if n, err := ms.CountByGroup(ctx, g.ID, ""); err != nil || n != 0 {
		t.Errorf("memberships after delete = %d (err %v), want 0", n, err)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/groups/"+g.ID.Hex(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
}
