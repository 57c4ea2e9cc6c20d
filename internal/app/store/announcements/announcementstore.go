package announcementstore

import (
	"context"
	"errors"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/normalize"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrAlreadySent is returned when editing or re-sending an
	// announcement that has already gone out.
	ErrAlreadySent = errors.New("this announcement has already been sent")

	errBadAudience  = errors.New(`audience must be "all"|"group"|"tag"`)
	errMissingGroup = errors.New("a group audience needs a group id")
	errMissingTag   = errors.New("a tag audience needs a tag name")
)

type Store struct {
	c           *mongo.Collection
	members     *mongo.Collection
	prefs       *mongo.Collection
	memberships *mongo.Collection
	tags        *mongo.Collection
	links       *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:           db.Collection("announcements"),
		members:     db.Collection("members"),
		prefs:       db.Collection("member_preferences"),
		memberships: db.Collection("group_memberships"),
		tags:        db.Collection("tags"),
		links:       db.Collection("member_tags"),
	}
}

func validateAudience(a *models.Announcement) error {
	if !models.ValidAudience(a.Audience) {
		return errBadAudience
	}
	if a.Audience == models.AudienceGroup && a.GroupID == nil {
		return errMissingGroup
	}
	if a.Audience == models.AudienceTag && normalize.Label(a.Tag) == "" {
		return errMissingTag
	}
	return nil
}

// Create inserts a draft announcement and assigns its message id. The
// body is expected to be sanitized by the caller.
func (s *Store) Create(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	if err := validateAudience(&a); err != nil {
		return models.Announcement{}, err
	}
	a.ID = primitive.NewObjectID()
	a.MessageID = uuid.NewString()
	a.Tag = normalize.Label(a.Tag)
	a.Status = "draft"
	a.SentAt = nil

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// GetByID loads an announcement by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Update replaces a draft's subject, body, and audience. Sent
// announcements are immutable.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, a models.Announcement) error {
	if err := validateAudience(&a); err != nil {
		return err
	}
	set := bson.M{
		"subject":    a.Subject,
		"body":       a.Body,
		"audience":   a.Audience,
		"tag":        normalize.Label(a.Tag),
		"updated_at": time.Now().UTC(),
	}
	unset := bson.M{}
	if a.GroupID != nil {
		set["group_id"] = *a.GroupID
	} else {
		unset["group_id"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "status": "draft"}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			return err
		}
		return ErrAlreadySent
	}
	return nil
}

// MarkSent flips a draft to sent exactly once: a second send sees the
// status already changed and gets ErrAlreadySent.
func (s *Store) MarkSent(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": "draft"},
		bson.M{"$set": bson.M{"status": "sent", "sent_at": now, "updated_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			return err
		}
		return ErrAlreadySent
	}
	return nil
}

// Delete removes an announcement. Returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns one page of announcements plus the total count. status
// narrows the page when non-empty.
func (s *Store) List(ctx context.Context, status string, page paging.Page) ([]models.Announcement, int64, error) {
	match := bson.M{}
	if status != "" {
		match["status"] = status
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

	var as []models.Announcement
	if err := cur.All(ctx, &as); err != nil {
		return nil, 0, err
	}
	return as, total, nil
}

// Recipient is one member an announcement will be delivered to.
type Recipient struct {
	MemberID primitive.ObjectID
	Name     string
	Email    string
}

// Recipients resolves an announcement's audience to deliverable members:
// active members in the audience who have an email and have not opted out
// of email. A missing preferences record counts as opted in.
func (s *Store) Recipients(ctx context.Context, a *models.Announcement) ([]Recipient, error) {
	match := bson.M{
		"status": models.MemberStatusActive,
		"email":  bson.M{"$ne": ""},
	}

	switch a.Audience {
	case models.AudienceAll:
		// no extra narrowing
	case models.AudienceGroup:
		if a.GroupID == nil {
			return nil, errMissingGroup
		}
		ids, err := s.memberIDs(ctx, s.memberships, bson.M{"group_id": *a.GroupID})
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []Recipient{}, nil
		}
		match["_id"] = bson.M{"$in": ids}
	case models.AudienceTag:
		var tag models.Tag
		err := s.tags.FindOne(ctx, bson.M{"name_ci": text.Fold(normalize.Label(a.Tag))}).Decode(&tag)
		if err == mongo.ErrNoDocuments {
			return []Recipient{}, nil
		}
		if err != nil {
			return nil, err
		}
		ids, err := s.memberIDs(ctx, s.links, bson.M{"tag_id": tag.ID})
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []Recipient{}, nil
		}
		match["_id"] = bson.M{"$in": ids}
	default:
		return nil, errBadAudience
	}

	cur, err := s.members.Find(ctx, match)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ms []models.Member
	if err := cur.All(ctx, &ms); err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return []Recipient{}, nil
	}

	optedOut, err := s.optedOut(ctx, ms)
	if err != nil {
		return nil, err
	}

	out := make([]Recipient, 0, len(ms))
	for _, m := range ms {
		if optedOut[m.ID] {
			continue
		}
		out = append(out, Recipient{
			MemberID: m.ID,
			Name:     m.FirstName + " " + m.LastName,
			Email:    m.Email,
		})
	}
	return out, nil
}

func (s *Store) memberIDs(ctx context.Context, c *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	raw, err := c.Distinct(ctx, "member_id", filter)
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

func (s *Store) optedOut(ctx context.Context, ms []models.Member) (map[primitive.ObjectID]bool, error) {
	ids := make([]primitive.ObjectID, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	cur, err := s.prefs.Find(ctx, bson.M{
		"member_id":    bson.M{"$in": ids},
		"email_opt_in": false,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.MemberPreferences
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]bool, len(rows))
	for _, r := range rows {
		out[r.MemberID] = true
	}
	return out, nil
}
