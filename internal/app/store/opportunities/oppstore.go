package oppstore

import (
	"context"
	"errors"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/normalize"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/app/system/txn"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotOpen is returned when signing up for an opportunity that is
	// not accepting volunteers.
	ErrNotOpen = errors.New("this opportunity is not open for signups")
	// ErrFull is returned when an opportunity has no seats left.
	ErrFull = errors.New("this opportunity has no volunteer slots left")
	// ErrAlreadySignedUp is returned when the member is already signed up.
	ErrAlreadySignedUp = errors.New("this member is already signed up")

	errBadStatus  = errors.New("unknown opportunity status")
	errBadUrgency = errors.New("unknown urgency level")
)

type Store struct {
	client  *mongo.Client
	c       *mongo.Collection
	signups *mongo.Collection
}

func New(db *mongo.Database, client *mongo.Client) *Store {
	return &Store{
		client:  client,
		c:       db.Collection("opportunities"),
		signups: db.Collection("signups"),
	}
}

// Create inserts an opportunity after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, o models.Opportunity) (models.Opportunity, error) {
	o.ID = primitive.NewObjectID()
	o.Title = normalize.Name(o.Title)
	o.TitleCI = text.Fold(o.Title)
	o.Ministry = normalize.Label(o.Ministry)
	o.SkillsRequired = normalizeLabels(o.SkillsRequired)
	o.CurrentVolunteers = 0

	if o.Status == "" {
		o.Status = models.OpportunityOpen
	}
	if !models.ValidOpportunityStatus(o.Status) {
		return models.Opportunity{}, errBadStatus
	}
	if o.Urgency == "" {
		o.Urgency = models.UrgencyNormal
	}
	if !models.ValidUrgency(o.Urgency) {
		return models.Opportunity{}, errBadUrgency
	}

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return models.Opportunity{}, err
	}
	return o, nil
}

// GetByID loads an opportunity by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Opportunity, error) {
	var o models.Opportunity
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Update holds the fields an opportunity update can change. The signup
// count is owned by SignUp/CancelSignup and never set directly.
type Update struct {
	Title                   string
	Description             string
	Ministry                string
	SkillsRequired          []string
	MaxVolunteers           int
	Urgency                 string
	Status                  string
	BackgroundCheckRequired bool
}

// Update replaces an opportunity's editable fields. Returns
// mongo.ErrNoDocuments if it does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	if !models.ValidOpportunityStatus(upd.Status) {
		return errBadStatus
	}
	if !models.ValidUrgency(upd.Urgency) {
		return errBadUrgency
	}
	title := normalize.Name(upd.Title)
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":                     title,
		"title_ci":                  text.Fold(title),
		"description":               upd.Description,
		"ministry":                  normalize.Label(upd.Ministry),
		"skills_required":           normalizeLabels(upd.SkillsRequired),
		"max_volunteers":            upd.MaxVolunteers,
		"urgency":                   upd.Urgency,
		"status":                    upd.Status,
		"background_check_required": upd.BackgroundCheckRequired,
		"updated_at":                time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an opportunity and its signups.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	var deleted int64
	err := txn.Run(ctx, s.client, func(tc context.Context) error {
		if _, err := s.signups.DeleteMany(tc, bson.M{"opportunity_id": id}); err != nil {
			return err
		}
		res, err := s.c.DeleteOne(tc, bson.M{"_id": id})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})
	return deleted, err
}

// List returns one page of opportunities plus the total count. status,
// ministry, and urgency narrow the page when non-empty.
func (s *Store) List(ctx context.Context, status, ministry, urgency string, page paging.Page) ([]models.Opportunity, int64, error) {
	match := bson.M{}
	if status != "" {
		if !models.ValidOpportunityStatus(status) {
			return nil, 0, errBadStatus
		}
		match["status"] = status
	}
	if ministry = normalize.Label(ministry); ministry != "" {
		match["ministry"] = ministry
	}
	if urgency != "" {
		if !models.ValidUrgency(urgency) {
			return nil, 0, errBadUrgency
		}
		match["urgency"] = urgency
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

	var os []models.Opportunity
	if err := cur.All(ctx, &os); err != nil {
		return nil, 0, err
	}
	return os, total, nil
}

// Open returns every opportunity currently accepting volunteers. Used by
// the volunteer matcher.
func (s *Store) Open(ctx context.Context) ([]models.Opportunity, error) {
	cur, err := s.c.Find(ctx, bson.M{"status": models.OpportunityOpen})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var os []models.Opportunity
	if err := cur.All(ctx, &os); err != nil {
		return nil, err
	}
	return os, nil
}

// SignUp adds a member to an opportunity, taking one seat. The status
// check, the duplicate check, the count increment, and the open-to-filled
// transition all happen in one transaction so the seat count never drifts
// past MaxVolunteers.
func (s *Store) SignUp(ctx context.Context, oppID, memberID primitive.ObjectID) (models.Signup, error) {
	su := models.Signup{
		ID:            primitive.NewObjectID(),
		OpportunityID: oppID,
		MemberID:      memberID,
		SignedUpAt:    time.Now().UTC(),
	}

	err := txn.Run(ctx, s.client, func(tc context.Context) error {
		var o models.Opportunity
		if err := s.c.FindOne(tc, bson.M{"_id": oppID}).Decode(&o); err != nil {
			return err
		}
		if o.Status != models.OpportunityOpen {
			return ErrNotOpen
		}
		if o.MaxVolunteers > 0 && o.CurrentVolunteers >= o.MaxVolunteers {
			return ErrFull
		}

		if _, err := s.signups.InsertOne(tc, su); err != nil {
			if wafflemongo.IsDup(err) {
				return ErrAlreadySignedUp
			}
			return err
		}

		// Guarded increment: without transaction support a concurrent
		// signup could race past the read above, so the filter recheck
		// keeps the count at the cap.
		filter := bson.M{"_id": oppID, "status": models.OpportunityOpen}
		if o.MaxVolunteers > 0 {
			filter["current_volunteers"] = bson.M{"$lt": o.MaxVolunteers}
		}
		res, err := s.c.UpdateOne(tc, filter, bson.M{"$inc": bson.M{"current_volunteers": 1}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			// Lost the race; give the signup back.
			if _, derr := s.signups.DeleteOne(tc, bson.M{"_id": su.ID}); derr != nil {
				return derr
			}
			return ErrFull
		}

		if o.MaxVolunteers > 0 && o.CurrentVolunteers+1 >= o.MaxVolunteers {
			_, err = s.c.UpdateOne(tc,
				bson.M{"_id": oppID, "current_volunteers": bson.M{"$gte": o.MaxVolunteers}},
				bson.M{"$set": bson.M{"status": models.OpportunityFilled}},
			)
		}
		return err
	})
	if err != nil {
		return models.Signup{}, err
	}
	return su, nil
}

// CancelSignup removes a member's signup and gives the seat back,
// reopening the opportunity if it was filled. Returns
// mongo.ErrNoDocuments if the signup does not exist.
func (s *Store) CancelSignup(ctx context.Context, oppID, memberID primitive.ObjectID) error {
	return txn.Run(ctx, s.client, func(tc context.Context) error {
		res, err := s.signups.DeleteOne(tc, bson.M{"opportunity_id": oppID, "member_id": memberID})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return mongo.ErrNoDocuments
		}
		if _, err := s.c.UpdateOne(tc,
			bson.M{"_id": oppID, "current_volunteers": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"current_volunteers": -1}},
		); err != nil {
			return err
		}
		_, err = s.c.UpdateOne(tc,
			bson.M{
				"_id":    oppID,
				"status": models.OpportunityFilled,
				"$expr":  bson.M{"$lt": bson.A{"$current_volunteers", "$max_volunteers"}},
			},
			bson.M{"$set": bson.M{"status": models.OpportunityOpen}},
		)
		return err
	})
}

// Signups returns the signups for an opportunity, newest first.
func (s *Store) Signups(ctx context.Context, oppID primitive.ObjectID) ([]models.Signup, error) {
	cur, err := s.signups.Find(ctx, bson.M{"opportunity_id": oppID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sus []models.Signup
	if err := cur.All(ctx, &sus); err != nil {
		return nil, err
	}
	return sus, nil
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
