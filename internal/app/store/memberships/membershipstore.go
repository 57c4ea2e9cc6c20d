// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/MusaCap/faithlink360/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c       *mongo.Collection
	members *mongo.Collection
	groups  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("group_memberships"),
		members: db.Collection("members"),
		groups:  db.Collection("groups"),
	}
}

var (
	errBadRole = errors.New(`role must be "leader" or "member"`)
)

var ErrDuplicateMembership = errors.New("this member already belongs to the group")

// Add creates a membership after checking role validity and that both
// sides exist.
func (s *Store) Add(ctx context.Context, groupID, memberID primitive.ObjectID, role string) error {
	if role != "leader" && role != "member" {
		return errBadRole
	}

	if err := s.groups.FindOne(ctx, bson.M{"_id": groupID}).Err(); err != nil {
		return err
	}
	if err := s.members.FindOne(ctx, bson.M{"_id": memberID}).Err(); err != nil {
		return err
	}

	doc := models.GroupMembership{
		ID:       primitive.NewObjectID(),
		GroupID:  groupID,
		MemberID: memberID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, doc)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// Remove deletes the membership document for (groupID, memberID).
// Returns mongo.ErrNoDocuments if no such membership exists.
func (s *Store) Remove(ctx context.Context, groupID, memberID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "member_id": memberID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MembershipEntry represents a member to add to a group.
type MembershipEntry struct {
	MemberID primitive.ObjectID
	Role     string // "leader" or "member"
}

// AddBatchResult contains counts from a batch membership add operation.
type AddBatchResult struct {
	Added      int
	Duplicates int
}

// AddBatch adds multiple memberships in a single batch operation.
// Duplicates are silently counted (not treated as errors).
func (s *Store) AddBatch(ctx context.Context, groupID primitive.ObjectID, entries []MembershipEntry) (AddBatchResult, error) {
	if len(entries) == 0 {
		return AddBatchResult{}, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		if e.Role != "leader" && e.Role != "member" {
			return AddBatchResult{}, errBadRole
		}
		docs = append(docs, bson.M{
			"group_id":  groupID,
			"member_id": e.MemberID,
			"role":      e.Role,
			"joined_at": now,
		})
	}

	// ordered:false attempts every insert even when some hit the unique
	// index.
	opts := options.InsertMany().SetOrdered(false)
	result, err := s.c.InsertMany(ctx, docs, opts)

	added := 0
	if result != nil {
		added = len(result.InsertedIDs)
	}
	duplicates := len(entries) - added

	// InsertMany with ordered:false returns a BulkWriteException for
	// duplicate key errors. Duplicates are expected; anything else
	// propagates.
	if err != nil {
		if bulkErr, ok := err.(mongo.BulkWriteException); ok {
			for _, we := range bulkErr.WriteErrors {
				if we.Code != 11000 {
					return AddBatchResult{Added: added, Duplicates: duplicates}, err
				}
			}
			return AddBatchResult{Added: added, Duplicates: duplicates}, nil
		}
		return AddBatchResult{Added: added, Duplicates: duplicates}, err
	}

	return AddBatchResult{Added: added, Duplicates: duplicates}, nil
}

// DeleteByGroup removes all memberships for a group.
// Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByGroup returns the count of memberships for a group, optionally
// filtered by role. If role is empty, counts all memberships.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID, role string) (int64, error) {
	filter := bson.M{"group_id": groupID}
	if role != "" {
		filter["role"] = role
	}
	return s.c.CountDocuments(ctx, filter)
}

// Exists checks if a membership exists for the given group and member.
func (s *Store) Exists(ctx context.Context, groupID, memberID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "member_id": memberID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByGroup returns all memberships for a group, optionally filtered by
// role. If role is empty, returns all memberships.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, role string) ([]models.GroupMembership, error) {
	filter := bson.M{"group_id": groupID}
	if role != "" {
		filter["role"] = role
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.GroupMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountByGroups returns member counts for a batch of groups in one query.
func (s *Store) CountByGroups(ctx context.Context, groupIDs []primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	result := make(map[primitive.ObjectID]int)
	if len(groupIDs) == 0 {
		return result, nil
	}

	cur, err := s.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"group_id": bson.M{"$in": groupIDs}}},
		{"$group": bson.M{"_id": "$group_id", "n": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int                `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		result[row.ID] = row.N
	}

	return result, nil
}
