package carelogstore

import (
	"context"
	"errors"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var errBadType = errors.New(`type must be "visit"|"call"|"prayer"|"counseling"`)

type Store struct {
	c       *mongo.Collection
	members *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("care_logs"),
		members: db.Collection("members"),
	}
}

// Create inserts a care log entry. The note is expected to be sanitized
// by the caller before it reaches the store.
func (s *Store) Create(ctx context.Context, cl models.CareLog) (models.CareLog, error) {
	if !models.ValidCareType(cl.Type) {
		return models.CareLog{}, errBadType
	}
	if err := s.members.FindOne(ctx, bson.M{"_id": cl.MemberID}).Err(); err != nil {
		return models.CareLog{}, err
	}

	cl.ID = primitive.NewObjectID()
	if cl.CareDate.IsZero() {
		cl.CareDate = time.Now().UTC()
	}
	now := time.Now().UTC()
	cl.CreatedAt = now
	cl.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, cl); err != nil {
		return models.CareLog{}, err
	}
	return cl, nil
}

// GetByID loads a care log entry by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.CareLog, error) {
	var cl models.CareLog
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

// Update replaces the entry's type, note, confidentiality, and care date.
// Returns mongo.ErrNoDocuments if the entry does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, typ, note string, confidential bool, careDate time.Time) error {
	if !models.ValidCareType(typ) {
		return errBadType
	}
	set := bson.M{
		"type":         typ,
		"note":         note,
		"confidential": confidential,
		"updated_at":   time.Now().UTC(),
	}
	if !careDate.IsZero() {
		set["care_date"] = careDate
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a care log entry. Returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByMember returns one page of a member's care history, newest care
// date first, plus the total count. When includeConfidential is false,
// confidential entries are excluded entirely.
func (s *Store) ListByMember(ctx context.Context, memberID primitive.ObjectID, includeConfidential bool, page paging.Page) ([]models.CareLog, int64, error) {
	match := bson.M{"member_id": memberID}
	if !includeConfidential {
		match["confidential"] = false
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

	var logs []models.CareLog
	if err := cur.All(ctx, &logs); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
