package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/normalize"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	errBadStatus     = errors.New(`status must be "scheduled"|"cancelled"|"completed"`)
	errBadAttendance = errors.New(`attendance status must be "present"|"absent"|"excused"`)
	errNoStart       = errors.New("an event needs a start time")
)

type Store struct {
	c          *mongo.Collection
	attendance *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:          db.Collection("events"),
		attendance: db.Collection("attendance"),
	}
}

// Create inserts an event after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.ID = primitive.NewObjectID()
	e.Title = normalize.Name(e.Title)
	e.TitleCI = text.Fold(e.Title)
	if e.StartsAt.IsZero() {
		return models.Event{}, errNoStart
	}
	if e.Status == "" {
		e.Status = models.EventScheduled
	}
	if !models.ValidEventStatus(e.Status) {
		return models.Event{}, errBadStatus
	}

	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// GetByID loads an event by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Update holds the fields an event update can change.
type Update struct {
	Title       string
	Description string
	Location    string
	GroupID     *primitive.ObjectID
	StartsAt    time.Time
	EndsAt      *time.Time
	Capacity    int
	Status      string
}

// Update replaces an event's editable fields. Returns
// mongo.ErrNoDocuments if the event does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	if upd.StartsAt.IsZero() {
		return errNoStart
	}
	if !models.ValidEventStatus(upd.Status) {
		return errBadStatus
	}
	title := normalize.Name(upd.Title)
	set := bson.M{
		"title":       title,
		"title_ci":    text.Fold(title),
		"description": upd.Description,
		"location":    upd.Location,
		"starts_at":   upd.StartsAt,
		"capacity":    upd.Capacity,
		"status":      upd.Status,
		"updated_at":  time.Now().UTC(),
	}
	unset := bson.M{}
	if upd.GroupID != nil {
		set["group_id"] = *upd.GroupID
	} else {
		unset["group_id"] = ""
	}
	if upd.EndsAt != nil {
		set["ends_at"] = *upd.EndsAt
	} else {
		unset["ends_at"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an event and its attendance records.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, err := s.attendance.DeleteMany(ctx, bson.M{"event_id": id}); err != nil {
		return 0, err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFilter narrows an event list query. From/To bound the start time;
// GroupID restricts to one group's events.
type ListFilter struct {
	Status  string
	GroupID *primitive.ObjectID
	From    *time.Time
	To      *time.Time
}

// List returns one page of events plus the total count.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.Event, int64, error) {
	match := bson.M{}
	if f.Status != "" {
		if !models.ValidEventStatus(f.Status) {
			return nil, 0, errBadStatus
		}
		match["status"] = f.Status
	}
	if f.GroupID != nil {
		match["group_id"] = *f.GroupID
	}
	starts := bson.M{}
	if f.From != nil {
		starts["$gte"] = *f.From
	}
	if f.To != nil {
		starts["$lte"] = *f.To
	}
	if len(starts) > 0 {
		match["starts_at"] = starts
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

	var es []models.Event
	if err := cur.All(ctx, &es); err != nil {
		return nil, 0, err
	}
	return es, total, nil
}

// RecordAttendance upserts one member's attendance for an event.
// Re-recording replaces the previous status.
func (s *Store) RecordAttendance(ctx context.Context, eventID, memberID primitive.ObjectID, status string) error {
	if !models.ValidAttendanceStatus(status) {
		return errBadAttendance
	}
	if err := s.c.FindOne(ctx, bson.M{"_id": eventID}).Err(); err != nil {
		return err
	}
	_, err := s.attendance.UpdateOne(ctx,
		bson.M{"event_id": eventID, "member_id": memberID},
		bson.M{"$set": bson.M{
			"status":      status,
			"recorded_at": time.Now().UTC(),
		}, "$setOnInsert": bson.M{
			"event_id":  eventID,
			"member_id": memberID,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Attendance returns every attendance record for an event.
func (s *Store) Attendance(ctx context.Context, eventID primitive.ObjectID) ([]models.Attendance, error) {
	cur, err := s.attendance.Find(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Attendance
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// AttendanceSummary is the per-status head count for one event.
type AttendanceSummary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Excused int `json:"excused"`
	Total   int `json:"total"`
}

// SummarizeAttendance aggregates the attendance counts for an event.
func (s *Store) SummarizeAttendance(ctx context.Context, eventID primitive.ObjectID) (AttendanceSummary, error) {
	cur, err := s.attendance.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"event_id": eventID}},
		{"$group": bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return AttendanceSummary{}, err
	}
	defer cur.Close(ctx)

	var sum AttendanceSummary
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
			N  int    `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return AttendanceSummary{}, err
		}
		switch row.ID {
		case "present":
			sum.Present = row.N
		case "absent":
			sum.Absent = row.N
		case "excused":
			sum.Excused = row.N
		}
		sum.Total += row.N
	}
	return sum, nil
}
