// internal/app/store/queries/groupmembers/groupmembers.go
package groupmembers

import (
	"context"
	"time"

	"github.com/MusaCap/faithlink360/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GroupMember is one group membership joined with its member record.
type GroupMember struct {
	Member   models.Member `bson:"member" json:"member"`
	Role     string        `bson:"role" json:"role"`
	JoinedAt time.Time     `bson:"joined_at" json:"joined_at"`
}

// MemberFilter controls filtering for members in the membership list.
// Leave Status empty to include all statuses.
type MemberFilter struct {
	Status string // pending | active | inactive | ""
}

// ListGroupMembersWithStatus returns a group's roster with an optional
// member-status filter, leaders first.
func ListGroupMembersWithStatus(ctx context.Context, db *mongo.Database, groupID primitive.ObjectID, f MemberFilter) ([]GroupMember, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"group_id": groupID}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "members",
			"localField":   "member_id",
			"foreignField": "_id",
			"as":           "member",
		}}},
		bson.D{{Key: "$unwind", Value: "$member"}},
	}

	if models.ValidMemberStatus(f.Status) {
		pipe = append(pipe, bson.D{{Key: "$match", Value: bson.M{"member.status": f.Status}}})
	}

	// Stable order: leaders first, then members; then by last name, then _id.
	pipe = append(pipe,
		bson.D{{Key: "$addFields", Value: bson.M{
			"role_rank": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$role", "leader"}}, 0, 1,
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "role_rank", Value: 1},
			{Key: "member.last_name_ci", Value: 1},
			{Key: "member._id", Value: 1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{"member": "$member", "role": 1, "joined_at": 1}}},
	)

	cur, err := db.Collection("group_memberships").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []GroupMember
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListGroupMembers returns the full roster with no status filter.
func ListGroupMembers(ctx context.Context, db *mongo.Database, groupID primitive.ObjectID) ([]GroupMember, error) {
	return ListGroupMembersWithStatus(ctx, db, groupID, MemberFilter{})
}
