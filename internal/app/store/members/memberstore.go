package memberstore

import (
	"context"
	"errors"
	"time"

	tagstore "github.com/MusaCap/faithlink360/internal/app/store/tags"
	"github.com/MusaCap/faithlink360/internal/app/system/address"
	"github.com/MusaCap/faithlink360/internal/app/system/filters"
	"github.com/MusaCap/faithlink360/internal/app/system/normalize"
	"github.com/MusaCap/faithlink360/internal/app/system/txn"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when attempting to create or update a
	// member with an email that already belongs to another member.
	ErrDuplicateEmail = errors.New("a member with this email already exists")
	// ErrBadStatus is returned for a status outside pending|active|inactive.
	ErrBadStatus = errors.New(`status must be "pending"|"active"|"inactive"`)
)

// Store manages the member record and everything that hangs off it: the
// emergency contact and preferences sub-records, tag links, and the
// downstream records removed by the cascade delete. Writes that touch more
// than one collection run through txn.Run so the member and its
// sub-records land (or vanish) together.
type Store struct {
	client *mongo.Client

	members       *mongo.Collection
	contacts      *mongo.Collection
	prefs         *mongo.Collection
	memberships   *mongo.Collection
	groups        *mongo.Collection
	attendance    *mongo.Collection
	carelogs      *mongo.Collection
	signups       *mongo.Collection
	opportunities *mongo.Collection
	volunteers    *mongo.Collection

	tags *tagstore.Store
}

func New(db *mongo.Database, client *mongo.Client, tags *tagstore.Store) *Store {
	return &Store{
		client:        client,
		members:       db.Collection("members"),
		contacts:      db.Collection("emergency_contacts"),
		prefs:         db.Collection("member_preferences"),
		memberships:   db.Collection("group_memberships"),
		groups:        db.Collection("groups"),
		attendance:    db.Collection("attendance"),
		carelogs:      db.Collection("care_logs"),
		signups:       db.Collection("signups"),
		opportunities: db.Collection("opportunities"),
		volunteers:    db.Collection("volunteers"),
		tags:          tags,
	}
}

// Flat is the API shape of a member: the stored record plus its
// sub-records flattened into one object. Tags and Groups are always
// present (possibly empty), Address is the decoded structured form.
type Flat struct {
	ID          string          `json:"id"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone,omitempty"`
	DateOfBirth *time.Time      `json:"dateOfBirth,omitempty"`
	Address     *models.Address `json:"address,omitempty"`
	Status      string          `json:"status"`
	JoinedAt    *time.Time      `json:"joinedAt,omitempty"`

	Tags             []string     `json:"tags"`
	EmergencyContact *ContactInfo `json:"emergencyContact"`
	Preferences      *Preferences `json:"preferences"`
	Journey          *Journey     `json:"journey,omitempty"`
	Groups           []GroupRef   `json:"groups"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactInfo is the flattened emergency contact.
type ContactInfo struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

// Preferences is the flattened communication preferences sub-record.
type Preferences struct {
	EmailOptIn       bool   `json:"emailOptIn"`
	SMSOptIn         bool   `json:"smsOptIn"`
	PreferredContact string `json:"preferredContact,omitempty"`
}

// Journey is the flattened spiritual journey progress.
type Journey struct {
	TemplateID     string     `json:"templateId"`
	CurrentStage   string     `json:"currentStage"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	StageEnteredAt *time.Time `json:"stageEnteredAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// GroupRef is one group the member belongs to, with the membership role.
type GroupRef struct {
	GroupID  string    `json:"groupId"`
	Name     string    `json:"groupName"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// WriteParams is everything a create or full update can set. Tags replace
// the member's tag set; a nil EmergencyContact or Preferences removes the
// sub-record.
type WriteParams struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth *time.Time
	Address     *models.Address
	Status      string
	JoinedAt    *time.Time

	Tags             []string
	EmergencyContact *ContactInfo
	Preferences      *Preferences
}

// Create inserts a member together with its sub-records and tag links.
// Either everything lands or nothing does: on error after the member
// insert, the partial write is rolled back (by the transaction where
// supported, otherwise by a compensating cascade delete).
func (s *Store) Create(ctx context.Context, p WriteParams) (Flat, error) {
	m, err := s.buildRecord(p)
	if err != nil {
		return Flat{}, err
	}
	m.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	err = txn.Run(ctx, s.client, func(tc context.Context) error {
		if _, err := s.members.InsertOne(tc, m); err != nil {
			return err
		}
		return s.writeSubRecords(tc, m.ID, p)
	})
	if err != nil {
		// Without transaction support the member may have landed before a
		// later write failed; clean up so a reported failure leaves nothing.
		s.deleteCascade(ctx, m.ID)
		if wafflemongo.IsDup(err) {
			return Flat{}, ErrDuplicateEmail
		}
		return Flat{}, err
	}
	return s.GetFlat(ctx, m.ID)
}

// Update replaces the member's editable fields, sub-records, and tag set.
// The journey and audit creation fields are untouched. Returns
// mongo.ErrNoDocuments if the member does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p WriteParams) (Flat, error) {
	m, err := s.buildRecord(p)
	if err != nil {
		return Flat{}, err
	}

	dup, err := s.emailExistsForOther(ctx, m.Email, id)
	if err != nil {
		return Flat{}, err
	}
	if dup {
		return Flat{}, ErrDuplicateEmail
	}

	set := bson.M{
		"first_name":   m.FirstName,
		"last_name":    m.LastName,
		"last_name_ci": m.LastNameCI,
		"email":        m.Email,
		"phone":        m.Phone,
		"status":       m.Status,
		"address":      m.Address,
		"updated_at":   time.Now().UTC(),
	}
	unset := bson.M{}
	if m.DateOfBirth != nil {
		set["date_of_birth"] = *m.DateOfBirth
	} else {
		unset["date_of_birth"] = ""
	}
	if m.JoinedAt != nil {
		set["joined_at"] = *m.JoinedAt
	} else {
		unset["joined_at"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	err = txn.Run(ctx, s.client, func(tc context.Context) error {
		res, err := s.members.UpdateOne(tc, bson.M{"_id": id}, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return s.writeSubRecords(tc, id, p)
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return Flat{}, ErrDuplicateEmail
		}
		return Flat{}, err
	}
	return s.GetFlat(ctx, id)
}

// buildRecord normalizes and validates WriteParams into a member document.
func (s *Store) buildRecord(p WriteParams) (models.Member, error) {
	m := models.Member{
		FirstName:   normalize.Name(p.FirstName),
		LastName:    normalize.Name(p.LastName),
		Email:       normalize.Email(p.Email),
		Phone:       normalize.Phone(p.Phone),
		DateOfBirth: p.DateOfBirth,
		Status:      p.Status,
		JoinedAt:    p.JoinedAt,
	}
	m.LastNameCI = text.Fold(m.LastName)
	if m.Status == "" {
		m.Status = models.MemberStatusActive
	}
	if !models.ValidMemberStatus(m.Status) {
		return models.Member{}, ErrBadStatus
	}
	enc, err := address.Encode(p.Address)
	if err != nil {
		return models.Member{}, err
	}
	m.Address = enc
	return m, nil
}

// writeSubRecords upserts or removes the emergency contact and preferences
// and replaces the tag set. Runs inside the write transaction.
func (s *Store) writeSubRecords(ctx context.Context, id primitive.ObjectID, p WriteParams) error {
	now := time.Now().UTC()

	if p.EmergencyContact != nil {
		_, err := s.contacts.UpdateOne(ctx,
			bson.M{"member_id": id},
			bson.M{"$set": bson.M{
				"name":         normalize.Name(p.EmergencyContact.Name),
				"relationship": normalize.Label(p.EmergencyContact.Relationship),
				"phone":        normalize.Phone(p.EmergencyContact.Phone),
				"email":        normalize.Email(p.EmergencyContact.Email),
				"updated_at":   now,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	} else if _, err := s.contacts.DeleteOne(ctx, bson.M{"member_id": id}); err != nil {
		return err
	}

	if p.Preferences != nil {
		_, err := s.prefs.UpdateOne(ctx,
			bson.M{"member_id": id},
			bson.M{"$set": bson.M{
				"email_opt_in":      p.Preferences.EmailOptIn,
				"sms_opt_in":        p.Preferences.SMSOptIn,
				"preferred_contact": p.Preferences.PreferredContact,
				"updated_at":        now,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	} else if _, err := s.prefs.DeleteOne(ctx, bson.M{"member_id": id}); err != nil {
		return err
	}

	return s.tags.SetMemberTags(ctx, id, p.Tags)
}

// UpdateJourney sets (or clears, when j is nil) the member's spiritual
// journey progress. Returns mongo.ErrNoDocuments if the member does not
// exist.
func (s *Store) UpdateJourney(ctx context.Context, id primitive.ObjectID, j *models.MemberJourney) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if j != nil {
		update["$set"].(bson.M)["journey"] = j
	} else {
		update["$unset"] = bson.M{"journey": ""}
	}
	res, err := s.members.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Get loads the raw member document.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var m models.Member
	if err := s.members.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByEmail looks up a member by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	var m models.Member
	if err := s.members.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetFlat loads a member and flattens it with its sub-records.
func (s *Store) GetFlat(ctx context.Context, id primitive.ObjectID) (Flat, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return Flat{}, err
	}
	flats, err := s.flatten(ctx, []models.Member{*m})
	if err != nil {
		return Flat{}, err
	}
	return flats[0], nil
}

// List runs the filtered, paged member search and returns the page plus
// the total match count. now anchors age filtering.
func (s *Store) List(ctx context.Context, f filters.MemberFilter, now time.Time) ([]Flat, int64, error) {
	pred := f.Predicate(now)

	if len(pred.TagNames) > 0 {
		ids, err := s.tags.MemberIDsWithAnyTag(ctx, pred.TagNames)
		if err != nil {
			return nil, 0, err
		}
		if len(ids) == 0 {
			return []Flat{}, 0, nil
		}
		pred.Match["_id"] = bson.M{"$in": ids}
	}

	total, err := s.members.CountDocuments(ctx, pred.Match)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.members.Find(ctx, pred.Match, f.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var ms []models.Member
	if err := cur.All(ctx, &ms); err != nil {
		return nil, 0, err
	}

	flats, err := s.flatten(ctx, ms)
	if err != nil {
		return nil, 0, err
	}
	return flats, total, nil
}

// Count returns the number of members matching an arbitrary filter.
func (s *Store) Count(ctx context.Context, match bson.M) (int64, error) {
	return s.members.CountDocuments(ctx, match)
}

// Delete removes the member and everything keyed to it: tag links,
// emergency contact, preferences, group memberships, attendance, care
// logs, volunteer signups, and the volunteer profile. Returns
// mongo.ErrNoDocuments if the member does not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.members.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		return err
	}
	return txn.Run(ctx, s.client, func(tc context.Context) error {
		return s.deleteCascade(tc, id)
	})
}

// deleteCascade removes the member's dependent records first and the
// member document last, so an interrupted cascade never strands
// sub-records behind a missing member being the only leftover state.
func (s *Store) deleteCascade(ctx context.Context, id primitive.ObjectID) error {
	if err := s.tags.UnlinkMember(ctx, id); err != nil {
		return err
	}
	for _, c := range []*mongo.Collection{s.contacts, s.prefs, s.memberships, s.attendance, s.carelogs} {
		if _, err := c.DeleteMany(ctx, bson.M{"member_id": id}); err != nil {
			return err
		}
	}
	if err := s.releaseSignups(ctx, id); err != nil {
		return err
	}
	if _, err := s.volunteers.DeleteMany(ctx, bson.M{"member_id": id}); err != nil {
		return err
	}
	_, err := s.members.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// releaseSignups deletes the member's volunteer signups and gives the
// seats back to their opportunities, reopening any that were filled.
func (s *Store) releaseSignups(ctx context.Context, memberID primitive.ObjectID) error {
	cur, err := s.signups.Find(ctx, bson.M{"member_id": memberID})
	if err != nil {
		return err
	}
	var signups []models.Signup
	if err := cur.All(ctx, &signups); err != nil {
		return err
	}

	oppIDs := make([]primitive.ObjectID, 0, len(signups))
	for _, su := range signups {
		if _, err := s.opportunities.UpdateOne(ctx,
			bson.M{"_id": su.OpportunityID, "current_volunteers": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"current_volunteers": -1}},
		); err != nil {
			return err
		}
		oppIDs = append(oppIDs, su.OpportunityID)
	}
	if len(oppIDs) > 0 {
		if _, err := s.opportunities.UpdateMany(ctx,
			bson.M{
				"_id":    bson.M{"$in": oppIDs},
				"status": models.OpportunityFilled,
				"$expr":  bson.M{"$lt": bson.A{"$current_volunteers", "$max_volunteers"}},
			},
			bson.M{"$set": bson.M{"status": models.OpportunityOpen}},
		); err != nil {
			return err
		}
	}

	_, err = s.signups.DeleteMany(ctx, bson.M{"member_id": memberID})
	return err
}

func (s *Store) emailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	err := s.members.FindOne(ctx, bson.M{
		"email": email,
		"_id":   bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// flatten batch-loads the sub-records for a page of members and produces
// the flattened API shape in the same order.
func (s *Store) flatten(ctx context.Context, ms []models.Member) ([]Flat, error) {
	flats := make([]Flat, 0, len(ms))
	if len(ms) == 0 {
		return flats, nil
	}

	ids := make([]primitive.ObjectID, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}

	tagNames, err := s.tags.NamesForMembers(ctx, ids)
	if err != nil {
		return nil, err
	}

	contacts := make(map[primitive.ObjectID]models.EmergencyContact)
	{
		cur, err := s.contacts.Find(ctx, bson.M{"member_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		var rows []models.EmergencyContact
		if err := cur.All(ctx, &rows); err != nil {
			return nil, err
		}
		for _, r := range rows {
			contacts[r.MemberID] = r
		}
	}

	prefs := make(map[primitive.ObjectID]models.MemberPreferences)
	{
		cur, err := s.prefs.Find(ctx, bson.M{"member_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		var rows []models.MemberPreferences
		if err := cur.All(ctx, &rows); err != nil {
			return nil, err
		}
		for _, r := range rows {
			prefs[r.MemberID] = r
		}
	}

	groupRefs, err := s.groupRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, m := range ms {
		f := Flat{
			ID:          m.ID.Hex(),
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			Email:       m.Email,
			Phone:       m.Phone,
			DateOfBirth: m.DateOfBirth,
			Address:     address.Decode(m.Address),
			Status:      m.Status,
			JoinedAt:    m.JoinedAt,
			Tags:        tagNames[m.ID],
			Groups:      groupRefs[m.ID],
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		}
		if f.Tags == nil {
			f.Tags = []string{}
		}
		if f.Groups == nil {
			f.Groups = []GroupRef{}
		}
		if c, ok := contacts[m.ID]; ok {
			f.EmergencyContact = &ContactInfo{
				Name:         c.Name,
				Relationship: c.Relationship,
				Phone:        c.Phone,
				Email:        c.Email,
			}
		}
		if p, ok := prefs[m.ID]; ok {
			f.Preferences = &Preferences{
				EmailOptIn:       p.EmailOptIn,
				SMSOptIn:         p.SMSOptIn,
				PreferredContact: p.PreferredContact,
			}
		}
		if m.Journey != nil {
			f.Journey = &Journey{
				TemplateID:     m.Journey.TemplateID.Hex(),
				CurrentStage:   m.Journey.CurrentStage,
				StartedAt:      m.Journey.StartedAt,
				StageEnteredAt: m.Journey.StageEnteredAt,
				CompletedAt:    m.Journey.CompletedAt,
			}
		}
		flats = append(flats, f)
	}
	return flats, nil
}

// groupRefs loads the group memberships for a batch of members and
// resolves the group names.
func (s *Store) groupRefs(ctx context.Context, memberIDs []primitive.ObjectID) (map[primitive.ObjectID][]GroupRef, error) {
	out := make(map[primitive.ObjectID][]GroupRef)

	cur, err := s.memberships.Find(ctx, bson.M{"member_id": bson.M{"$in": memberIDs}})
	if err != nil {
		return nil, err
	}
	var rows []models.GroupMembership
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return out, nil
	}

	groupIDs := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		groupIDs = append(groupIDs, r.GroupID)
	}
	gcur, err := s.groups.Find(ctx, bson.M{"_id": bson.M{"$in": groupIDs}})
	if err != nil {
		return nil, err
	}
	var groups []models.Group
	if err := gcur.All(ctx, &groups); err != nil {
		return nil, err
	}
	nameByID := make(map[primitive.ObjectID]string, len(groups))
	for _, g := range groups {
		nameByID[g.ID] = g.Name
	}

	for _, r := range rows {
		out[r.MemberID] = append(out[r.MemberID], GroupRef{
			GroupID:  r.GroupID.Hex(),
			Name:     nameByID[r.GroupID],
			Role:     r.Role,
			JoinedAt: r.JoinedAt,
		})
	}
	return out, nil
}
