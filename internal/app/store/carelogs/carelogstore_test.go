package carelogstore_test

import (
	"errors"
	"testing"
	"time"

	carelogstore "github.com/MusaCap/faithlink360/internal/app/store/carelogs"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/MusaCap/faithlink360/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := carelogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	m := fx.CreateMember(ctx, "Ida", "Irons", "ida@example.com")

	// unknown care type
	if _, err := store.Create(ctx, models.CareLog{MemberID: m.ID, Type: "lunch"}); err == nil {
		t.Error("expected error for unknown care type")
	}

	// unknown member
	_, err := store.Create(ctx, models.CareLog{MemberID: primitive.NewObjectID(), Type: "visit"})
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments for unknown member, got %v", err)
	}

	cl, err := store.Create(ctx, models.CareLog{
		MemberID: m.ID,
		Type:     "visit",
		Note:     "<p>Home visit after surgery.</p>",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if cl.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if cl.CareDate.IsZero() {
		t.Error("expected care date to default to now")
	}
}

func TestStore_Update_KeepsCareDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := carelogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	m := fx.CreateMember(ctx, "Jon", "Judd", "jon@example.com")
	cl := fx.CreateCareLog(ctx, m.ID, "call", false)

	// zero careDate keeps the stored one
	if err := store.Update(ctx, cl.ID, "prayer", "updated note", true, time.Time{}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := store.GetByID(ctx, cl.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Type != "prayer" || !got.Confidential {
		t.Errorf("unexpected entry after update: %+v", got)
	}
	if got.CareDate.Unix() != cl.CareDate.Unix() {
		t.Errorf("expected care date preserved, got %v want %v", got.CareDate, cl.CareDate)
	}

	newDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if err := store.Update(ctx, cl.ID, "prayer", "updated note", true, newDate); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err = store.GetByID(ctx, cl.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.CareDate.Equal(newDate) {
		t.Errorf("expected care date replaced, got %v", got.CareDate)
	}

	if err := store.Update(ctx, primitive.NewObjectID(), "call", "", false, time.Time{}); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_ListByMember_ConfidentialFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := carelogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	m := fx.CreateMember(ctx, "Kay", "Kent", "kay@example.com")
	other := fx.CreateMember(ctx, "Lee", "Lund", "lee@example.com")

	fx.CreateCareLog(ctx, m.ID, "visit", false)
	fx.CreateCareLog(ctx, m.ID, "counseling", true)
	fx.CreateCareLog(ctx, other.ID, "call", false)

	page := paging.Page{SortBy: "care_date", SortOrder: "desc", Limit: 10}

	logs, total, err := store.ListByMember(ctx, m.ID, false, page)
	if err != nil {
		t.Fatalf("ListByMember failed: %v", err)
	}
	if total != 1 || len(logs) != 1 {
		t.Fatalf("expected confidential entry hidden, got %d (total %d)", len(logs), total)
	}
	if logs[0].Confidential {
		t.Error("confidential entry leaked")
	}

	logs, total, err = store.ListByMember(ctx, m.ID, true, page)
	if err != nil {
		t.Fatalf("ListByMember failed: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("expected both entries with includeConfidential, got %d (total %d)", len(logs), total)
	}
}
