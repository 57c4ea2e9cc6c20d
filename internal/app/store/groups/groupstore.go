// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateGroupName = errors.New("a group with this name already exists")
	errBadType            = errors.New(`type must be "ministry"|"small-group"|"committee"|"team"`)
	errBadStatus          = errors.New(`status must be "active" or "inactive"`)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	if !models.ValidGroupType(g.Type) {
		return models.Group{}, errBadType
	}
	if g.Status == "" {
		g.Status = "active"
	}
	if g.Status != "active" && g.Status != "inactive" {
		return models.Group{}, errBadStatus
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, g)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateGroupName
		}
		return models.Group{}, err
	}
	return g, nil
}

// UpdateInfo replaces the group's editable fields. An empty name keeps the
// existing one; the description can be cleared.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc, typ, schedule, stat string) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	set["description"] = desc
	set["schedule"] = schedule
	if typ != "" {
		if !models.ValidGroupType(typ) {
			return errBadType
		}
		set["type"] = typ
	}
	if stat != "" {
		if stat != "active" && stat != "inactive" {
			return errBadStatus
		}
		set["status"] = stat
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateGroupName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
// Memberships are removed by the caller alongside this.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns one page of groups plus the total count. typ and stat
// narrow the page when non-empty.
func (s *Store) List(ctx context.Context, typ, stat string, page paging.Page) ([]models.Group, int64, error) {
	match := bson.M{}
	if typ != "" {
		if !models.ValidGroupType(typ) {
			return nil, 0, errBadType
		}
		match["type"] = typ
	}
	if stat != "" {
		match["status"] = stat
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

	var gs []models.Group
	if err := cur.All(ctx, &gs); err != nil {
		return nil, 0, err
	}
	return gs, total, nil
}
