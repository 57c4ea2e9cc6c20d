package journeystore_test

import (
	"errors"
	"testing"

	journeystore "github.com/MusaCap/faithlink360/internal/app/store/journeys"
	"github.com/MusaCap/faithlink360/internal/app/system/indexes"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/MusaCap/faithlink360/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_StageValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := journeystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// no stages
	if _, err := store.Create(ctx, models.JourneyTemplate{Name: "Empty"}); err == nil {
		t.Error("expected error for template without stages")
	}

	// gap in the sequence
	_, err := store.Create(ctx, models.JourneyTemplate{
		Name: "Gappy",
		Stages: []models.JourneyStage{
			{Name: "Explore", Sequence: 1},
			{Name: "Serve", Sequence: 3},
		},
	})
	if err == nil {
		t.Error("expected error for non-contiguous stage sequence")
	}

	// stages arriving out of order are rejected, not silently reordered
	_, err = store.Create(ctx, models.JourneyTemplate{
		Name: "Shuffled",
		Stages: []models.JourneyStage{
			{Name: "Grow", Sequence: 2},
			{Name: "Explore", Sequence: 1},
		},
	})
	if err == nil {
		t.Error("expected error for out-of-order stages")
	}

	jt, err := store.Create(ctx, models.JourneyTemplate{
		Name: "New Believer",
		Stages: []models.JourneyStage{
			{Name: "Explore", Sequence: 1},
			{Name: "Grow", Sequence: 2},
			{Name: "Serve", Sequence: 3},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(jt.Stages) != 3 || jt.Stages[2].Name != "Serve" {
		t.Errorf("unexpected stages: %v", jt.Stages)
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := journeystore.New(db)
	stages := []models.JourneyStage{{Name: "Explore", Sequence: 1}}

	if _, err := store.Create(ctx, models.JourneyTemplate{Name: "Membership Path", Stages: stages}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Case only differs; the name_ci index still catches it.
	_, err := store.Create(ctx, models.JourneyTemplate{Name: "MEMBERSHIP PATH", Stages: stages})
	if !errors.Is(err, journeystore.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := journeystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	jt := fx.CreateJourneyTemplate(ctx, "Discipleship", "Explore", "Grow")

	newStages := []models.JourneyStage{
		{Name: "Connect", Sequence: 1},
		{Name: "Grow", Sequence: 2},
		{Name: "Lead", Sequence: 3},
	}
	if err := store.Update(ctx, jt.ID, "Discipleship Track", "revised", newStages); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, jt.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Discipleship Track" || len(got.Stages) != 3 {
		t.Errorf("unexpected template after update: %+v", got)
	}

	if err := store.Update(ctx, jt.ID, "Bad", "", nil); err == nil {
		t.Error("expected error for update without stages")
	}
}

func TestStore_Delete_InUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := journeystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	jt := fx.CreateJourneyTemplate(ctx, "Newcomer", "Welcome")
	m := fx.CreateMember(ctx, "Hal", "Hart", "hal@example.com")

	_, err := db.Collection("members").UpdateOne(ctx,
		bson.M{"_id": m.ID},
		bson.M{"$set": bson.M{"journey.template_id": jt.ID, "journey.stage": "Welcome"}},
	)
	if err != nil {
		t.Fatalf("failed to put member on journey: %v", err)
	}

	if _, err := store.Delete(ctx, jt.ID); !errors.Is(err, journeystore.ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}

	// Take the member off the journey; the delete then goes through.
	if _, err := db.Collection("members").UpdateOne(ctx,
		bson.M{"_id": m.ID},
		bson.M{"$unset": bson.M{"journey": ""}},
	); err != nil {
		t.Fatalf("failed to clear journey: %v", err)
	}

	n, err := store.Delete(ctx, jt.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}

	if _, err := store.GetByID(ctx, jt.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments after delete, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := journeystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	fx.CreateJourneyTemplate(ctx, "Baptism", "Prepare")
	fx.CreateJourneyTemplate(ctx, "Alpha", "Invite")

	got, total, err := store.List(ctx, paging.Page{SortBy: "name_ci", SortOrder: "asc", Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("expected 2 templates, got %d (total %d)", len(got), total)
	}
	if got[0].Name != "Alpha" {
		t.Errorf("expected name sort, got %q first", got[0].Name)
	}
}
