// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryData          = "data"
	CategoryCommunication = "communication"
	CategoryImport        = "import"
)

// Data event types
const (
	EventMemberCreated = "member_created"
	EventMemberUpdated = "member_updated"
	EventMemberDeleted = "member_deleted"

	EventGroupCreated           = "group_created"
	EventGroupUpdated           = "group_updated"
	EventGroupDeleted           = "group_deleted"
	EventMemberAddedToGroup     = "member_added_to_group"
	EventMemberRemovedFromGroup = "member_removed_from_group"

	EventEventCreated       = "event_created"
	EventEventUpdated       = "event_updated"
	EventEventDeleted       = "event_deleted"
	EventAttendanceRecorded = "attendance_recorded"

	EventVolunteerCreated = "volunteer_created"
	EventVolunteerUpdated = "volunteer_updated"
	EventVolunteerDeleted = "volunteer_deleted"

	EventOpportunityCreated = "opportunity_created"
	EventOpportunityUpdated = "opportunity_updated"
	EventOpportunityDeleted = "opportunity_deleted"
	EventSignupCreated      = "signup_created"
	EventSignupCancelled    = "signup_cancelled"

	EventCareLogCreated = "care_log_created"
	EventCareLogUpdated = "care_log_updated"
	EventCareLogDeleted = "care_log_deleted"

	EventJourneyTemplateCreated = "journey_template_created"
	EventJourneyTemplateUpdated = "journey_template_updated"
	EventJourneyTemplateDeleted = "journey_template_deleted"
	EventJourneyUpdated         = "journey_updated"
)

// Communication event types
const (
	EventAnnouncementCreated = "announcement_created"
	EventAnnouncementSent    = "announcement_sent"
)

// Import event types
const (
	EventMembersImported = "members_imported"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// What was touched
	EntityType string              `bson:"entity_type,omitempty"` // member | group | event | ...
	EntityID   *primitive.ObjectID `bson:"entity_id,omitempty"`

	// The member the entity belongs to, if any (care logs, signups, ...)
	MemberID *primitive.ObjectID `bson:"member_id,omitempty"`

	// Context
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	EntityID  *primitive.ObjectID
	MemberID  *primitive.ObjectID
	Category  string
	EventType string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Offset    int64
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

func (f QueryFilter) query() bson.M {
	query := bson.M{}

	if f.EntityID != nil {
		query["entity_id"] = f.EntityID
	}
	if f.MemberID != nil {
		query["member_id"] = f.MemberID
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.EventType != "" {
		query["event_type"] = f.EventType
	}

	// Time range
	if f.StartTime != nil || f.EndTime != nil {
		timeQuery := bson.M{}
		if f.StartTime != nil {
			timeQuery["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			timeQuery["$lte"] = *f.EndTime
		}
		query["created_at"] = timeQuery
	}

	return query
}

// Query retrieves audit events matching the given filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByFilter returns the count of events matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}

// GetByEntity retrieves recent audit events for a specific entity.
func (s *Store) GetByEntity(ctx context.Context, entityID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{
		EntityID: &entityID,
		Limit:    limit,
	})
}

// GetRecent retrieves the most recent audit events.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{
		Limit: limit,
	})
}

// DeleteOlderThan removes audit events created before the cutoff.
// Returns the number of documents deleted.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
