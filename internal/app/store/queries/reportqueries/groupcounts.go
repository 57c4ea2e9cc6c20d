// Package reportqueries provides complex read-only queries shared by
// list and report endpoints.
package reportqueries

import (
	"context"

	"github.com/MusaCap/faithlink360/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CountGroupMembersPerGroup returns roster sizes for each group, filtered
// by member status. The aggregation joins group_memberships with members
// so disabled members fall out of the count.
func CountGroupMembersPerGroup(
	ctx context.Context,
	db *mongo.Database,
	groupIDs []primitive.ObjectID,
	memberStatus string, // "active", "inactive", "visitor", or "" for all
) (map[primitive.ObjectID]int64, error) {
	result := make(map[primitive.ObjectID]int64)

	if len(groupIDs) == 0 {
		return result, nil
	}

	gmMatch := bson.M{"group_id": bson.M{"$in": groupIDs}}

	memberMatch := bson.M{}
	if models.ValidMemberStatus(memberStatus) {
		memberMatch["member.status"] = memberStatus
	}

	pipeline := []bson.M{
		{"$match": gmMatch},
		{"$lookup": bson.M{
			"from":         "members",
			"localField":   "member_id",
			"foreignField": "_id",
			"as":           "member",
		}},
		{"$unwind": "$member"},
	}
	if len(memberMatch) > 0 {
		pipeline = append(pipeline, bson.M{"$match": memberMatch})
	}
	pipeline = append(pipeline, bson.M{"$group": bson.M{"_id": "$group_id", "count": bson.M{"$sum": 1}}})

	cur, err := db.Collection("group_memberships").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		result[row.ID] = row.Count
	}

	return result, nil
}
