// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureMembers(ctx, db); err != nil {
		problems = append(problems, "members: "+err.Error())
	}
	if err := ensureTags(ctx, db); err != nil {
		problems = append(problems, "tags: "+err.Error())
	}
	if err := ensureMemberTags(ctx, db); err != nil {
		problems = append(problems, "member_tags: "+err.Error())
	}
	if err := ensureMemberSubRecords(ctx, db); err != nil {
		problems = append(problems, "member sub-records: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureGroupMemberships(ctx, db); err != nil {
		problems = append(problems, "group_memberships: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureAttendance(ctx, db); err != nil {
		problems = append(problems, "attendance: "+err.Error())
	}
	if err := ensureVolunteers(ctx, db); err != nil {
		problems = append(problems, "volunteers: "+err.Error())
	}
	if err := ensureOpportunities(ctx, db); err != nil {
		problems = append(problems, "opportunities: "+err.Error())
	}
	if err := ensureSignups(ctx, db); err != nil {
		problems = append(problems, "signups: "+err.Error())
	}
	if err := ensureCareLogs(ctx, db); err != nil {
		problems = append(problems, "care_logs: "+err.Error())
	}
	if err := ensureJourneyTemplates(ctx, db); err != nil {
		problems = append(problems, "journey_templates: "+err.Error())
	}
	if err := ensureAnnouncements(ctx, db); err != nil {
		problems = append(problems, "announcements: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// 1) Load existing indexes
		existing := map[string]existingIndex{} // sig -> index
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			defer cur.Close(ctx)
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
		}

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// --- Name alignment: if the name differs, drop & recreate with the desired name.
				if desiredName != "" && ex.Name != desiredName {
					zap.L().Info("renaming index to align with desired name",
						zap.String("collection", coll.Name()),
						zap.String("from", ex.Name),
						zap.String("to", desiredName),
						zap.String("keys", desiredSig))

					if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
						zap.L().Warn("drop existing index (rename) failed",
							zap.String("collection", coll.Name()),
							zap.String("name", ex.Name),
							zap.Error(err))
						errs = append(errs, fmt.Sprintf("%s(%s): rename drop failed: %v", coll.Name(), desiredName, err))
						continue
					}
					if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
						zap.L().Warn("create index (rename) failed",
							zap.String("collection", coll.Name()),
							zap.String("name", desiredName),
							zap.Error(err))
						errs = append(errs, fmt.Sprintf("%s(%s): rename create failed: %v", coll.Name(), desiredName, err))
						continue
					}
					zap.L().Info("index renamed",
						zap.String("collection", coll.Name()),
						zap.String("name", desiredName),
						zap.String("keys", desiredSig),
						zap.String("took", time.Since(start).String()))
					continue
				}

				// Names aligned (or we don't care) → reuse
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Bool("unique", ex.Unique != nil && *ex.Unique),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					helper := ""
					if coll.Name() == "members" && strings.Contains(desiredSig, "email:1") {
						helper = " — duplicates exist on members.email. Example finder:\n" +
							`db.members.aggregate([{ $group: { _id: "$email", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
					}
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s", coll.Name(), desiredName, helper))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// 2) No existing index with the same keys: create it.
		if created, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				cur2, e2 := coll.Indexes().List(ctx)
				if e2 == nil {
					var match *existingIndex
					for cur2.Next(ctx) {
						var idx existingIndex
						if err := cur2.Decode(&idx); err != nil {
							zap.L().Warn("failed to decode existing index (post-conflict)",
								zap.String("collection", coll.Name()),
								zap.Error(err))
							continue
						}
						if keySig(idx.Key) == desiredSig {
							match = &idx
							break
						}
					}
					cur2.Close(ctx)
					if match != nil {
						if sameBoolPtr(desiredUnique, match.Unique) {
							zap.L().Info("reusing existing index (post-conflict)",
								zap.String("collection", coll.Name()),
								zap.String("name", match.Name),
								zap.String("keys", desiredSig),
								zap.Bool("unique", match.Unique != nil && *match.Unique),
								zap.String("took", time.Since(start).String()))
							continue
						}
						if _, dropErr := coll.Indexes().DropOne(ctx, match.Name); dropErr != nil {
							zap.L().Warn("failed to drop conflicting index",
								zap.String("collection", coll.Name()),
								zap.String("name", match.Name),
								zap.Error(dropErr))
						}
						if _, e3 := coll.Indexes().CreateOne(ctx, m); e3 != nil {
							if isDuplicateKeyErr(e3) && desiredUnique != nil && *desiredUnique {
								helper := ""
								if coll.Name() == "members" && strings.Contains(desiredSig, "email:1") {
									helper = " — duplicates exist on members.email. Example finder:\n" +
										`db.members.aggregate([{ $group: { _id: "$email", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
								}
								errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s", coll.Name(), desiredName, helper))
							} else {
								errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, e3))
							}
							continue
						}
						zap.L().Info("index dropped and recreated (post-conflict)",
							zap.String("collection", coll.Name()),
							zap.String("name", desiredName),
							zap.String("keys", desiredSig),
							zap.Bool("unique", desiredUnique != nil && *desiredUnique),
							zap.String("took", time.Since(start).String()))
						continue
					}
				}

				zap.L().Warn("index ensure failed",
					zap.String("collection", coll.Name()),
					zap.String("name", desiredName),
					zap.String("keys", desiredSig),
					zap.Bool("unique", desiredUnique != nil && *desiredUnique),
					zap.String("took", time.Since(start).String()),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				continue
			}

			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		} else {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("created_name", created),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureMembers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("members")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// 1) Email must be unique across all members
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_members_email"),
		},

		// 2) Directory pages: filter by status + last-name sort + stable tiebreak
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "last_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_members_status_lastnameci__id"),
		},

		// 3) Default sort path (no status filter)
		{
			Keys:    bson.D{{Key: "last_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_members_lastnameci__id"),
		},

		// 4) Age filtering inverts into birth-date range scans
		{
			Keys:    bson.D{{Key: "date_of_birth", Value: 1}},
			Options: options.Index().SetName("idx_members_dob"),
		},

		// 5) Join-window filtering and joinedAt sort
		{
			Keys:    bson.D{{Key: "joined_at", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_members_joined__id"),
		},

		// 6) Journey reporting: members currently on a template
		{
			Keys:    bson.D{{Key: "journey.template_id", Value: 1}},
			Options: options.Index().SetName("idx_members_journey_template"),
		},
	})
}

func ensureTags(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("tags")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Tag names are unique case/diacritics-folded via name_ci
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_tags_nameci"),
		},
	})
}

func ensureMemberTags(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("member_tags")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one link per (member, tag)
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "tag_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_mt_member_tag"),
		},
		// Fast: members carrying a tag (tag-audience sends, tag filters)
		{
			Keys:    bson.D{{Key: "tag_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: options.Index().SetName("idx_mt_tag_member"),
		},
	})
}

func ensureMemberSubRecords(ctx context.Context, db *mongo.Database) error {
	var problems []string
	// One sub-record per member for both collections
	if err := ensureIndexSet(ctx, db.Collection("emergency_contacts"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_ec_member"),
		},
	}); err != nil {
		problems = append(problems, "emergency_contacts: "+err.Error())
	}
	if err := ensureIndexSet(ctx, db.Collection("member_preferences"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_prefs_member"),
		},
	}); err != nil {
		problems = append(problems, "member_preferences: "+err.Error())
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// --- groups ---
func ensureGroups(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("groups")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// 1) Uniqueness: no duplicate group names (case/diacritics-folded via name_ci)
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_groups_nameci"),
		},

		// 2) List pages: filter by type/status + name sort + stable tiebreak
		{
			Keys: bson.D{
				{Key: "type", Value: 1},
				{Key: "status", Value: 1},
				{Key: "name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_groups_type_status_nameci__id"),
		},
	})
}

func ensureGroupMemberships(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("group_memberships")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Uniqueness: exactly one membership per (member, group) — role is scalar; update the doc to change role
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "group_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_gm_member_group"),
		},

		// Fast: list group members (+role segmentation, stable tiebreak by member_id)
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "role", Value: 1}, {Key: "member_id", Value: 1}},
			Options: options.Index().SetName("idx_gm_group_role_member"),
		},
	})
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Calendar pages: status filter + start-time sort
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "starts_at", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_events_status_starts__id"),
		},
		// Per-group event lists
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "starts_at", Value: 1}},
			Options: options.Index().SetName("idx_events_group_starts"),
		},
	})
}

func ensureAttendance(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("attendance")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one record per (event, member); re-recording upserts
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_att_event_member"),
		},
		// A member's attendance history
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "recorded_at", Value: -1}},
			Options: options.Index().SetName("idx_att_member_recorded"),
		},
	})
}

func ensureVolunteers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("volunteers")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One volunteer profile per member
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_vol_member"),
		},
		// Ministry narrowing on volunteer lists
		{
			Keys:    bson.D{{Key: "preferred_ministries", Value: 1}},
			Options: options.Index().SetName("idx_vol_ministries"),
		},
	})
}

func ensureOpportunities(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("opportunities")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// List pages: status + urgency filters, title sort, stable tiebreak
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "urgency", Value: 1},
				{Key: "title_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_opp_status_urgency_titleci__id"),
		},
		// Ministry narrowing
		{
			Keys:    bson.D{{Key: "ministry", Value: 1}},
			Options: options.Index().SetName("idx_opp_ministry"),
		},
	})
}

func ensureSignups(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("signups")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one signup per (opportunity, member)
		{
			Keys:    bson.D{{Key: "opportunity_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_su_opp_member"),
		},
		// A member's signups (cascade delete path)
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}},
			Options: options.Index().SetName("idx_su_member"),
		},
	})
}

func ensureCareLogs(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("care_logs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// A member's care history, newest care date first
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "care_date", Value: -1}},
			Options: options.Index().SetName("idx_care_member_date"),
		},
		// Confidentiality split on the same path
		{
			Keys: bson.D{
				{Key: "member_id", Value: 1},
				{Key: "confidential", Value: 1},
				{Key: "care_date", Value: -1},
			},
			Options: options.Index().SetName("idx_care_member_conf_date"),
		},
	})
}

func ensureJourneyTemplates(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("journey_templates")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Template names are unique case/diacritics-folded via name_ci
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_jt_nameci"),
		},
	})
}

func ensureAnnouncements(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("announcements")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Stable message id carried into delivered email headers
		{
			Keys:    bson.D{{Key: "message_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_ann_message"),
		},
		// List pages: status filter, newest first
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_ann_status_created"),
		},
	})
}

// Audit trails are read latest-first, per entity or site-wide.
func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Per-entity recent activity (latest-first)
		{
			Keys:    bson.D{{Key: "entity_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_entity_created"),
		},
		// Site-wide recent activity (latest-first)
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_created"),
		},
	})
}
