package journeystore

import (
	"context"
	"errors"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/normalize"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateName is returned when a template with the same name
	// (case-insensitive) already exists.
	ErrDuplicateName = errors.New("a journey template with this name already exists")
	// ErrInUse is returned when deleting a template some member is still on.
	ErrInUse = errors.New("members are still on this journey template")

	errNoStages  = errors.New("a journey template needs at least one stage")
	errBadStages = errors.New("stage sequences must run 1..n without gaps")
)

type Store struct {
	c       *mongo.Collection
	members *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("journey_templates"),
		members: db.Collection("members"),
	}
}

// normalizeStages cleans stage names and checks the sequence is dense,
// starting at 1, in order.
func normalizeStages(stages []models.JourneyStage) ([]models.JourneyStage, error) {
	if len(stages) == 0 {
		return nil, errNoStages
	}
	out := make([]models.JourneyStage, len(stages))
	for i, st := range stages {
		st.Name = normalize.Label(st.Name)
		if st.Name == "" || st.Sequence != i+1 {
			return nil, errBadStages
		}
		out[i] = st
	}
	return out, nil
}

// Create inserts a journey template.
func (s *Store) Create(ctx context.Context, t models.JourneyTemplate) (models.JourneyTemplate, error) {
	stages, err := normalizeStages(t.Stages)
	if err != nil {
		return models.JourneyTemplate{}, err
	}
	t.Stages = stages
	t.ID = primitive.NewObjectID()
	t.Name = normalize.Name(t.Name)
	t.NameCI = text.Fold(t.Name)

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.JourneyTemplate{}, ErrDuplicateName
		}
		return models.JourneyTemplate{}, err
	}
	return t, nil
}

// GetByID loads a journey template by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.JourneyTemplate, error) {
	var t models.JourneyTemplate
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update replaces a template's name, description, and stages. Returns
// mongo.ErrNoDocuments if the template does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name, desc string, stages []models.JourneyStage) error {
	clean, err := normalizeStages(stages)
	if err != nil {
		return err
	}
	name = normalize.Name(name)
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":        name,
		"name_ci":     text.Fold(name),
		"description": desc,
		"stages":      clean,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a template unless some member is still journeying on it.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	n, err := s.members.CountDocuments(ctx, bson.M{"journey.template_id": id})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, ErrInUse
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns one page of templates plus the total count.
func (s *Store) List(ctx context.Context, page paging.Page) ([]models.JourneyTemplate, int64, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Find(ctx, bson.M{}, page.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var ts []models.JourneyTemplate
	if err := cur.All(ctx, &ts); err != nil {
		return nil, 0, err
	}
	return ts, total, nil
}
