package oppstore_test

import (
	"errors"
	"testing"

	oppstore "github.com/MusaCap/faithlink360/internal/app/store/opportunities"
	"github.com/MusaCap/faithlink360/internal/app/system/indexes"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/MusaCap/faithlink360/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_Validates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oppstore.New(db, db.Client())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Opportunity{
		Title:    "Bad",
		Ministry: "worship",
		Status:   "paused",
		Urgency:  models.UrgencyNormal,
	})
	if err == nil {
		t.Error("expected error for unknown status")
	}

	o, err := store.Create(ctx, models.Opportunity{
		Title:         "Sound Desk",
		Ministry:      "worship",
		MaxVolunteers: 2,
		Status:        models.OpportunityOpen,
		Urgency:       models.UrgencyHigh,
		SkillsRequired: []string{
			"Audio", "   ", " mixing  boards ",
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if o.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if len(o.SkillsRequired) != 2 || o.SkillsRequired[1] != "mixing boards" {
		t.Errorf("expected blank skills dropped and whitespace collapsed, got %v", o.SkillsRequired)
	}
}

func TestStore_SignUp_Capacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := oppstore.New(db, db.Client())
	fx := testutil.NewFixtures(t, db)
	opp := fx.CreateOpportunity(ctx, "Greeter", "hospitality", 2)

	first := fx.CreateMember(ctx, "Ann", "Abbott", "ann@example.com")
	second := fx.CreateMember(ctx, "Ben", "Baker", "ben@example.com")
	third := fx.CreateMember(ctx, "Cal", "Cole", "cal@example.com")

	if _, err := store.SignUp(ctx, opp.ID, first.ID); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := store.SignUp(ctx, opp.ID, second.ID); err != nil {
		t.Fatalf("second signup failed: %v", err)
	}

	// At capacity the opportunity flips to filled, so the third signup
	// is rejected before it can take a seat.
	_, err := store.SignUp(ctx, opp.ID, third.ID)
	if !errors.Is(err, oppstore.ErrNotOpen) && !errors.Is(err, oppstore.ErrFull) {
		t.Fatalf("expected full/not-open, got %v", err)
	}

	got, err := store.GetByID(ctx, opp.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.OpportunityFilled {
		t.Errorf("expected status filled, got %q", got.Status)
	}
	if got.CurrentVolunteers != 2 {
		t.Errorf("expected 2 current volunteers, got %d", got.CurrentVolunteers)
	}
}

func TestStore_SignUp_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := oppstore.New(db, db.Client())
	fx := testutil.NewFixtures(t, db)
	opp := fx.CreateOpportunity(ctx, "Usher", "hospitality", 0)
	m := fx.CreateMember(ctx, "Dee", "Dunn", "dee@example.com")

	if _, err := store.SignUp(ctx, opp.ID, m.ID); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := store.SignUp(ctx, opp.ID, m.ID); !errors.Is(err, oppstore.ErrAlreadySignedUp) {
		t.Errorf("expected ErrAlreadySignedUp, got %v", err)
	}
}

func TestStore_CancelSignup_Reopens(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := oppstore.New(db, db.Client())
	fx := testutil.NewFixtures(t, db)
	opp := fx.CreateOpportunity(ctx, "Nursery", "children", 1)
	m := fx.CreateMember(ctx, "Eve", "Ames", "eve@example.com")

	if _, err := store.SignUp(ctx, opp.ID, m.ID); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	got, err := store.GetByID(ctx, opp.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.OpportunityFilled {
		t.Fatalf("expected filled after last seat taken, got %q", got.Status)
	}

	if err := store.CancelSignup(ctx, opp.ID, m.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	got, err = store.GetByID(ctx, opp.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.OpportunityOpen {
		t.Errorf("expected reopened, got %q", got.Status)
	}
	if got.CurrentVolunteers != 0 {
		t.Errorf("expected seat returned, got %d", got.CurrentVolunteers)
	}

	if err := store.CancelSignup(ctx, opp.ID, m.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments for missing signup, got %v", err)
	}
}

func TestStore_SignUp_ClosedOpportunity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oppstore.New(db, db.Client())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	o, err := store.Create(ctx, models.Opportunity{
		Title:    "Archive",
		Ministry: "admin",
		Status:   models.OpportunityCancelled,
		Urgency:  models.UrgencyLow,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	fx := testutil.NewFixtures(t, db)
	m := fx.CreateMember(ctx, "Fay", "Ford", "fay@example.com")

	if _, err := store.SignUp(ctx, o.ID, m.ID); !errors.Is(err, oppstore.ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
}

func TestStore_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oppstore.New(db, db.Client())
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	fx.CreateOpportunity(ctx, "Sound Desk", "worship", 0)
	fx.CreateOpportunity(ctx, "Greeter", "hospitality", 0)
	fx.CreateOpportunity(ctx, "Coffee", "hospitality", 0)

	page := paging.Page{SortBy: "title_ci", SortOrder: "asc", Limit: 10}
	got, total, err := store.List(ctx, "", "hospitality", "", page)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("expected 2 hospitality opportunities, got %d (total %d)", len(got), total)
	}
	if got[0].Title != "Coffee" {
		t.Errorf("expected title sort, got %q first", got[0].Title)
	}
}

func TestStore_Delete_RemovesSignups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := oppstore.New(db, db.Client())
	fx := testutil.NewFixtures(t, db)
	opp := fx.CreateOpportunity(ctx, "Parking", "hospitality", 0)
	m := fx.CreateMember(ctx, "Gil", "Gray", "gil@example.com")

	if _, err := store.SignUp(ctx, opp.ID, m.ID); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	n, err := store.Delete(ctx, opp.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deleted, got %d", n)
	}

	sus, err := store.Signups(ctx, opp.ID)
	if err != nil {
		t.Fatalf("Signups failed: %v", err)
	}
	if len(sus) != 0 {
		t.Errorf("expected signups removed with opportunity, got %d", len(sus))
	}
}
