package tagstore

import (
	"context"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/normalize"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the shared tags lookup table and the member_tags links.
// Tag names are unique case-insensitively (through name_ci); links are
// unique per (member_id, tag_id).
type Store struct {
	tags  *mongo.Collection
	links *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		tags:  db.Collection("tags"),
		links: db.Collection("member_tags"),
	}
}

// FindOrCreate returns the tag with the given name, creating it if absent.
// Lookup is case-insensitive; the stored name keeps the caller's casing
// from first creation.
func (s *Store) FindOrCreate(ctx context.Context, name string) (models.Tag, error) {
	name = normalize.Label(name)
	ci := text.Fold(name)

	var t models.Tag
	err := s.tags.FindOne(ctx, bson.M{"name_ci": ci}).Decode(&t)
	if err == nil {
		return t, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Tag{}, err
	}

	t = models.Tag{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    ci,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.tags.InsertOne(ctx, t); err != nil {
		// Concurrent create of the same tag: fetch the winner.
		if wafflemongo.IsDup(err) {
			if ferr := s.tags.FindOne(ctx, bson.M{"name_ci": ci}).Decode(&t); ferr == nil {
				return t, nil
			}
		}
		return models.Tag{}, err
	}
	return t, nil
}

// Link connects a member to a tag if not already linked.
func (s *Store) Link(ctx context.Context, memberID, tagID primitive.ObjectID) error {
	_, err := s.links.UpdateOne(ctx,
		bson.M{"member_id": memberID, "tag_id": tagID},
		bson.M{"$setOnInsert": bson.M{
			"member_id": memberID,
			"tag_id":    tagID,
			"linked_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// SetMemberTags makes the member's tag set exactly names: missing tags are
// find-or-created and linked, links to tags outside names are removed.
func (s *Store) SetMemberTags(ctx context.Context, memberID primitive.ObjectID, names []string) error {
	keep := make([]primitive.ObjectID, 0, len(names))
	for _, name := range names {
		t, err := s.FindOrCreate(ctx, name)
		if err != nil {
			return err
		}
		if err := s.Link(ctx, memberID, t.ID); err != nil {
			return err
		}
		keep = append(keep, t.ID)
	}

	_, err := s.links.DeleteMany(ctx, bson.M{
		"member_id": memberID,
		"tag_id":    bson.M{"$nin": keep},
	})
	return err
}

// NamesForMember returns the member's tag names sorted case-insensitively.
func (s *Store) NamesForMember(ctx context.Context, memberID primitive.ObjectID) ([]string, error) {
	byMember, err := s.NamesForMembers(ctx, []primitive.ObjectID{memberID})
	if err != nil {
		return nil, err
	}
	names := byMember[memberID]
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// NamesForMembers batch-loads tag names for a page of members, keyed by
// member id. Members with no tags are absent from the map.
func (s *Store) NamesForMembers(ctx context.Context, memberIDs []primitive.ObjectID) (map[primitive.ObjectID][]string, error) {
	out := make(map[primitive.ObjectID][]string)
	if len(memberIDs) == 0 {
		return out, nil
	}

	cur, err := s.links.Find(ctx, bson.M{"member_id": bson.M{"$in": memberIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var links []models.MemberTag
	if err := cur.All(ctx, &links); err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return out, nil
	}

	tagIDs := make([]primitive.ObjectID, 0, len(links))
	for _, l := range links {
		tagIDs = append(tagIDs, l.TagID)
	}
	tcur, err := s.tags.Find(ctx,
		bson.M{"_id": bson.M{"$in": tagIDs}},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer tcur.Close(ctx)

	var tags []models.Tag
	if err := tcur.All(ctx, &tags); err != nil {
		return nil, err
	}
	nameByID := make(map[primitive.ObjectID]string, len(tags))
	for _, t := range tags {
		nameByID[t.ID] = t.Name
	}

	for _, t := range tags {
		for _, l := range links {
			if l.TagID == t.ID {
				out[l.MemberID] = append(out[l.MemberID], nameByID[t.ID])
			}
		}
	}
	return out, nil
}

// MemberIDsWithAnyTag returns the ids of members linked to at least one of
// the named tags (OR semantics). Unknown tag names simply match nothing.
func (s *Store) MemberIDsWithAnyTag(ctx context.Context, names []string) ([]primitive.ObjectID, error) {
	if len(names) == 0 {
		return nil, nil
	}
	cis := make([]string, 0, len(names))
	for _, n := range names {
		cis = append(cis, text.Fold(normalize.Label(n)))
	}

	tcur, err := s.tags.Find(ctx, bson.M{"name_ci": bson.M{"$in": cis}})
	if err != nil {
		return nil, err
	}
	defer tcur.Close(ctx)

	var tags []models.Tag
	if err := tcur.All(ctx, &tags); err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return []primitive.ObjectID{}, nil
	}
	tagIDs := make([]primitive.ObjectID, 0, len(tags))
	for _, t := range tags {
		tagIDs = append(tagIDs, t.ID)
	}

	raw, err := s.links.Distinct(ctx, "member_id", bson.M{"tag_id": bson.M{"$in": tagIDs}})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// UnlinkMember removes every tag link for the member. Used by the member
// cascade delete; the tags themselves stay (they are shared).
func (s *Store) UnlinkMember(ctx context.Context, memberID primitive.ObjectID) error {
	_, err := s.links.DeleteMany(ctx, bson.M{"member_id": memberID})
	return err
}
