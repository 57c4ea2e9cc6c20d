// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data directly in the
// collections, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMember inserts an active member with the given identity.
func (f *Fixtures) CreateMember(ctx context.Context, firstName, lastName, email string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	joined := now.AddDate(-1, 0, 0)
	m := models.Member{
		ID:         primitive.NewObjectID(),
		FirstName:  firstName,
		LastName:   lastName,
		LastNameCI: text.Fold(lastName),
		Email:      email,
		Status:     models.MemberStatusActive,
		JoinedAt:   &joined,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// CreateMemberWithStatus inserts a member with an explicit status and
// birth date.
func (f *Fixtures) CreateMemberWithStatus(ctx context.Context, firstName, lastName, email, status string, dob *time.Time) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:          primitive.NewObjectID(),
		FirstName:   firstName,
		LastName:    lastName,
		LastNameCI:  text.Fold(lastName),
		Email:       email,
		DateOfBirth: dob,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// TagMember creates (or reuses) a tag with the given name and links the
// member to it.
func (f *Fixtures) TagMember(ctx context.Context, memberID primitive.ObjectID, name string) models.Tag {
	f.t.Helper()

	tags := f.db.Collection("tags")
	var tag models.Tag
	err := tags.FindOne(ctx, map[string]any{"name_ci": text.Fold(name)}).Decode(&tag)
	if err == mongo.ErrNoDocuments {
		tag = models.Tag{
			ID:        primitive.NewObjectID(),
			Name:      name,
			NameCI:    text.Fold(name),
			CreatedAt: time.Now().UTC(),
		}
		if _, err := tags.InsertOne(ctx, tag); err != nil {
			f.t.Fatalf("failed to create test tag: %v", err)
		}
	} else if err != nil {
		f.t.Fatalf("failed to look up test tag: %v", err)
	}

	link := models.MemberTag{
		ID:       primitive.NewObjectID(),
		MemberID: memberID,
		TagID:    tag.ID,
		LinkedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("member_tags").InsertOne(ctx, link); err != nil {
		f.t.Fatalf("failed to link test tag: %v", err)
	}
	return tag
}

// SetPreferences inserts a communication preferences sub-record for the
// member.
func (f *Fixtures) SetPreferences(ctx context.Context, memberID primitive.ObjectID, emailOptIn, smsOptIn bool) {
	f.t.Helper()

	p := models.MemberPreferences{
		ID:         primitive.NewObjectID(),
		MemberID:   memberID,
		EmailOptIn: emailOptIn,
		SMSOptIn:   smsOptIn,
		UpdatedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("member_preferences").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test preferences: %v", err)
	}
}

// CreateGroup inserts an active group of the given type.
func (f *Fixtures) CreateGroup(ctx context.Context, name, typ string) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Type:      typ,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// AddToGroup links a member into a group with the given role.
func (f *Fixtures) AddToGroup(ctx context.Context, groupID, memberID primitive.ObjectID, role string) models.GroupMembership {
	f.t.Helper()

	gm := models.GroupMembership{
		ID:       primitive.NewObjectID(),
		GroupID:  groupID,
		MemberID: memberID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("group_memberships").InsertOne(ctx, gm); err != nil {
		f.t.Fatalf("failed to create test group membership: %v", err)
	}
	return gm
}

// CreateEvent inserts a scheduled event starting at the given time.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, startsAt time.Time) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Event{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		StartsAt:  startsAt,
		Status:    models.EventScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return e
}

// CreateVolunteer inserts a volunteer profile for the member.
func (f *Fixtures) CreateVolunteer(ctx context.Context, memberID primitive.ObjectID, skills, ministries []string) models.Volunteer {
	f.t.Helper()

	now := time.Now().UTC()
	v := models.Volunteer{
		ID:                  primitive.NewObjectID(),
		MemberID:            memberID,
		Skills:              skills,
		PreferredMinistries: ministries,
		BackgroundCheck:     models.BackgroundCheckNotRequired,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if _, err := f.db.Collection("volunteers").InsertOne(ctx, v); err != nil {
		f.t.Fatalf("failed to create test volunteer: %v", err)
	}
	return v
}

// CreateOpportunity inserts an open opportunity in the given ministry.
func (f *Fixtures) CreateOpportunity(ctx context.Context, title, ministry string, maxVolunteers int) models.Opportunity {
	f.t.Helper()

	now := time.Now().UTC()
	o := models.Opportunity{
		ID:            primitive.NewObjectID(),
		Title:         title,
		TitleCI:       text.Fold(title),
		Ministry:      ministry,
		MaxVolunteers: maxVolunteers,
		Urgency:       models.UrgencyNormal,
		Status:        models.OpportunityOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("opportunities").InsertOne(ctx, o); err != nil {
		f.t.Fatalf("failed to create test opportunity: %v", err)
	}
	return o
}

// CreateJourneyTemplate inserts a template with the given ordered stage
// names.
func (f *Fixtures) CreateJourneyTemplate(ctx context.Context, name string, stageNames ...string) models.JourneyTemplate {
	f.t.Helper()

	stages := make([]models.JourneyStage, 0, len(stageNames))
	for i, s := range stageNames {
		stages = append(stages, models.JourneyStage{Name: s, Sequence: i + 1})
	}

	now := time.Now().UTC()
	jt := models.JourneyTemplate{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Stages:    stages,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("journey_templates").InsertOne(ctx, jt); err != nil {
		f.t.Fatalf("failed to create test journey template: %v", err)
	}
	return jt
}

// CreateCareLog inserts a care log entry for the member.
func (f *Fixtures) CreateCareLog(ctx context.Context, memberID primitive.ObjectID, typ string, confidential bool) models.CareLog {
	f.t.Helper()

	now := time.Now().UTC()
	cl := models.CareLog{
		ID:           primitive.NewObjectID(),
		MemberID:     memberID,
		Type:         typ,
		Note:         "<p>test note</p>",
		Confidential: confidential,
		CareDate:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("care_logs").InsertOne(ctx, cl); err != nil {
		f.t.Fatalf("failed to create test care log: %v", err)
	}
	return cl
}

// CreateAnnouncement inserts a draft announcement for the given audience.
func (f *Fixtures) CreateAnnouncement(ctx context.Context, subject, audience string) models.Announcement {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Announcement{
		ID:        primitive.NewObjectID(),
		MessageID: uuid.NewString(),
		Subject:   subject,
		Body:      "<p>test body</p>",
		Audience:  audience,
		Status:    "draft",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("announcements").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test announcement: %v", err)
	}
	return a
}
