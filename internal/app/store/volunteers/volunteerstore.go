package volunteerstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/normalize"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateProfile is returned when a member already has a
	// volunteer profile (one profile per member).
	ErrDuplicateProfile = errors.New("this member already has a volunteer profile")
	errBadCheck         = errors.New("unknown background check state")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("volunteers")}
}

// Create inserts a volunteer profile for a member. Skills, interests, and
// ministries are label-normalized so matching compares clean values.
func (s *Store) Create(ctx context.Context, v models.Volunteer) (models.Volunteer, error) {
	v.ID = primitive.NewObjectID()
	v.Skills = normalizeLabels(v.Skills)
	v.Interests = normalizeLabels(v.Interests)
	v.PreferredMinistries = normalizeLabels(v.PreferredMinistries)
	if v.BackgroundCheck == "" {
		v.BackgroundCheck = models.BackgroundCheckNotRequired
	}
	if !models.ValidBackgroundCheck(v.BackgroundCheck) {
		return models.Volunteer{}, errBadCheck
	}

	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Volunteer{}, ErrDuplicateProfile
		}
		return models.Volunteer{}, err
	}
	return v, nil
}

// GetByID loads a volunteer profile by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Volunteer, error) {
	var v models.Volunteer
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByMemberID loads the volunteer profile belonging to a member.
// Returns mongo.ErrNoDocuments if the member has none.
func (s *Store) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) (*models.Volunteer, error) {
	var v models.Volunteer
	if err := s.c.FindOne(ctx, bson.M{"member_id": memberID}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Update holds the fields a volunteer profile update can change. The
// member link is immutable.
type Update struct {
	Skills              []string
	Interests           []string
	PreferredMinistries []string
	MaxHoursPerWeek     int
	BackgroundCheck     string
}

// Update replaces the profile's editable fields. Returns
// mongo.ErrNoDocuments if the profile does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	if upd.BackgroundCheck == "" {
		upd.BackgroundCheck = models.BackgroundCheckNotRequired
	}
	if !models.ValidBackgroundCheck(upd.BackgroundCheck) {
		return errBadCheck
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"skills":               normalizeLabels(upd.Skills),
		"interests":            normalizeLabels(upd.Interests),
		"preferred_ministries": normalizeLabels(upd.PreferredMinistries),
		"max_hours_per_week":   upd.MaxHoursPerWeek,
		"background_check":     upd.BackgroundCheck,
		"updated_at":           time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetBackgroundCheck moves the profile's background check to a new state.
func (s *Store) SetBackgroundCheck(ctx context.Context, id primitive.ObjectID, state string) error {
	if !models.ValidBackgroundCheck(state) {
		return errBadCheck
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"background_check": state,
		"updated_at":       time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a volunteer profile. Returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns one page of volunteer profiles plus the total count.
// ministry, skill, and check narrow the page when non-empty.
func (s *Store) List(ctx context.Context, ministry, skill, check string, page paging.Page) ([]models.Volunteer, int64, error) {
	match := bson.M{}
	if ministry = normalize.Label(ministry); ministry != "" {
		match["preferred_ministries"] = ministry
	}
	if skill = normalize.Label(skill); skill != "" {
		match["skills"] = primitive.Regex{Pattern: regexp.QuoteMeta(skill), Options: "i"}
	}
	if check != "" {
		if !models.ValidBackgroundCheck(check) {
			return nil, 0, errBadCheck
		}
		match["background_check"] = check
	}

	total, err := s.c.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Find(ctx, match, page.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var vs []models.Volunteer
	if err := cur.All(ctx, &vs); err != nil {
		return nil, 0, err
	}
	return vs, total, nil
}

// All returns every volunteer profile. Used by the opportunity matcher,
// which scores the whole roster against one posting.
func (s *Store) All(ctx context.Context) ([]models.Volunteer, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var vs []models.Volunteer
	if err := cur.All(ctx, &vs); err != nil {
		return nil, err
	}
	return vs, nil
}

func normalizeLabels(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = normalize.Label(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
