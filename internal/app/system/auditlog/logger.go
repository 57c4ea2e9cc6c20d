// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/MusaCap/faithlink360/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Data controls logging for record changes (member/group/event CRUD,
	// attendance, care logs, journeys).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Data string
	// Communication controls logging for outbound sends (announcements).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Communication string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for reverse proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	// Fall back to RemoteAddr
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.EntityID != nil {
		fields = append(fields, zap.String("entity_id", event.EntityID.Hex()))
	}
	if event.EntityType != "" {
		fields = append(fields, zap.String("entity_type", event.EntityType))
	}
	if event.MemberID != nil {
		fields = append(fields, zap.String("member_id", event.MemberID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	// Determine which config setting applies based on event category
	var setting string
	switch event.Category {
	case audit.CategoryData, audit.CategoryImport:
		setting = l.config.Data
	case audit.CategoryCommunication:
		setting = l.config.Communication
	default:
		setting = "all" // Default to logging everything for unknown categories
	}

	// Check if logging is disabled for this category
	if setting == "off" {
		return
	}

	// Log to zap if configured
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	// Log to MongoDB if configured
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// record is the common shape of the data-change helpers.
func (l *Logger) record(ctx context.Context, r *http.Request, category, eventType, entityType string, entityID primitive.ObjectID, memberID *primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:   category,
		EventType:  eventType,
		EntityType: entityType,
		EntityID:   &entityID,
		MemberID:   memberID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details:    details,
	})
}

// --- Member Events ---

// MemberCreated logs when a member record is created.
func (l *Logger) MemberCreated(ctx context.Context, r *http.Request, memberID primitive.ObjectID, email string) {
	l.record(ctx, r, audit.CategoryData, audit.EventMemberCreated, "member", memberID, &memberID, map[string]string{
		"email": email,
	})
}

// MemberUpdated logs when a member record is updated.
func (l *Logger) MemberUpdated(ctx context.Context, r *http.Request, memberID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventMemberUpdated, "member", memberID, &memberID, nil)
}

// MemberDeleted logs when a member record (and its cascade) is deleted.
func (l *Logger) MemberDeleted(ctx context.Context, r *http.Request, memberID primitive.ObjectID, email string) {
	l.record(ctx, r, audit.CategoryData, audit.EventMemberDeleted, "member", memberID, &memberID, map[string]string{
		"email": email,
	})
}

// MembersImported logs a CSV member import batch.
func (l *Logger) MembersImported(ctx context.Context, r *http.Request, batchID string, created, skipped int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryImport,
		EventType: audit.EventMembersImported,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"batch_id": batchID,
			"created":  intToString(created),
			"skipped":  intToString(skipped),
		},
	})
}

// --- Group Events ---

// GroupCreated logs when a group is created.
func (l *Logger) GroupCreated(ctx context.Context, r *http.Request, groupID primitive.ObjectID, groupName string) {
	l.record(ctx, r, audit.CategoryData, audit.EventGroupCreated, "group", groupID, nil, map[string]string{
		"group_name": groupName,
	})
}

// GroupUpdated logs when a group is updated.
func (l *Logger) GroupUpdated(ctx context.Context, r *http.Request, groupID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventGroupUpdated, "group", groupID, nil, nil)
}

// GroupDeleted logs when a group is deleted.
func (l *Logger) GroupDeleted(ctx context.Context, r *http.Request, groupID primitive.ObjectID, groupName string) {
	l.record(ctx, r, audit.CategoryData, audit.EventGroupDeleted, "group", groupID, nil, map[string]string{
		"group_name": groupName,
	})
}

// MemberAddedToGroup logs when a member joins a group.
func (l *Logger) MemberAddedToGroup(ctx context.Context, r *http.Request, groupID, memberID primitive.ObjectID, role string) {
	l.record(ctx, r, audit.CategoryData, audit.EventMemberAddedToGroup, "group", groupID, &memberID, map[string]string{
		"role": role,
	})
}

// MemberRemovedFromGroup logs when a member leaves a group.
func (l *Logger) MemberRemovedFromGroup(ctx context.Context, r *http.Request, groupID, memberID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventMemberRemovedFromGroup, "group", groupID, &memberID, nil)
}

// --- Event Events ---

// EventCreated logs when an event is created.
func (l *Logger) EventCreated(ctx context.Context, r *http.Request, eventID primitive.ObjectID, title string) {
	l.record(ctx, r, audit.CategoryData, audit.EventEventCreated, "event", eventID, nil, map[string]string{
		"title": title,
	})
}

// EventUpdated logs when an event is updated.
func (l *Logger) EventUpdated(ctx context.Context, r *http.Request, eventID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventEventUpdated, "event", eventID, nil, nil)
}

// EventDeleted logs when an event is deleted.
func (l *Logger) EventDeleted(ctx context.Context, r *http.Request, eventID primitive.ObjectID, title string) {
	l.record(ctx, r, audit.CategoryData, audit.EventEventDeleted, "event", eventID, nil, map[string]string{
		"title": title,
	})
}

// AttendanceRecorded logs when attendance is recorded for a member.
func (l *Logger) AttendanceRecorded(ctx context.Context, r *http.Request, eventID, memberID primitive.ObjectID, status string) {
	l.record(ctx, r, audit.CategoryData, audit.EventAttendanceRecorded, "event", eventID, &memberID, map[string]string{
		"status": status,
	})
}

// --- Volunteer Events ---

// VolunteerCreated logs when a volunteer profile is created.
func (l *Logger) VolunteerCreated(ctx context.Context, r *http.Request, volunteerID, memberID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventVolunteerCreated, "volunteer", volunteerID, &memberID, nil)
}

// VolunteerUpdated logs when a volunteer profile is updated.
func (l *Logger) VolunteerUpdated(ctx context.Context, r *http.Request, volunteerID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventVolunteerUpdated, "volunteer", volunteerID, nil, nil)
}

// VolunteerDeleted logs when a volunteer profile is deleted.
func (l *Logger) VolunteerDeleted(ctx context.Context, r *http.Request, volunteerID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventVolunteerDeleted, "volunteer", volunteerID, nil, nil)
}

// --- Opportunity Events ---

// OpportunityCreated logs when an opportunity is created.
func (l *Logger) OpportunityCreated(ctx context.Context, r *http.Request, oppID primitive.ObjectID, title string) {
	l.record(ctx, r, audit.CategoryData, audit.EventOpportunityCreated, "opportunity", oppID, nil, map[string]string{
		"title": title,
	})
}

// OpportunityUpdated logs when an opportunity is updated.
func (l *Logger) OpportunityUpdated(ctx context.Context, r *http.Request, oppID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventOpportunityUpdated, "opportunity", oppID, nil, nil)
}

// OpportunityDeleted logs when an opportunity is deleted.
func (l *Logger) OpportunityDeleted(ctx context.Context, r *http.Request, oppID primitive.ObjectID, title string) {
	l.record(ctx, r, audit.CategoryData, audit.EventOpportunityDeleted, "opportunity", oppID, nil, map[string]string{
		"title": title,
	})
}

// SignupCreated logs when a member signs up for an opportunity.
func (l *Logger) SignupCreated(ctx context.Context, r *http.Request, oppID, memberID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventSignupCreated, "opportunity", oppID, &memberID, nil)
}

// SignupCancelled logs when a signup is cancelled.
func (l *Logger) SignupCancelled(ctx context.Context, r *http.Request, oppID, memberID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventSignupCancelled, "opportunity", oppID, &memberID, nil)
}

// --- Care Events ---

// CareLogCreated logs when a care log entry is created. The note body
// never goes into the audit trail.
func (l *Logger) CareLogCreated(ctx context.Context, r *http.Request, logID, memberID primitive.ObjectID, careType string, confidential bool) {
	l.record(ctx, r, audit.CategoryData, audit.EventCareLogCreated, "care_log", logID, &memberID, map[string]string{
		"care_type":    careType,
		"confidential": boolToString(confidential),
	})
}

// CareLogUpdated logs when a care log entry is updated.
func (l *Logger) CareLogUpdated(ctx context.Context, r *http.Request, logID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventCareLogUpdated, "care_log", logID, nil, nil)
}

// CareLogDeleted logs when a care log entry is deleted.
func (l *Logger) CareLogDeleted(ctx context.Context, r *http.Request, logID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventCareLogDeleted, "care_log", logID, nil, nil)
}

// --- Journey Events ---

// JourneyTemplateCreated logs when a journey template is created.
func (l *Logger) JourneyTemplateCreated(ctx context.Context, r *http.Request, templateID primitive.ObjectID, name string) {
	l.record(ctx, r, audit.CategoryData, audit.EventJourneyTemplateCreated, "journey_template", templateID, nil, map[string]string{
		"name": name,
	})
}

// JourneyTemplateUpdated logs when a journey template is updated.
func (l *Logger) JourneyTemplateUpdated(ctx context.Context, r *http.Request, templateID primitive.ObjectID) {
	l.record(ctx, r, audit.CategoryData, audit.EventJourneyTemplateUpdated, "journey_template", templateID, nil, nil)
}

// JourneyTemplateDeleted logs when a journey template is deleted.
func (l *Logger) JourneyTemplateDeleted(ctx context.Context, r *http.Request, templateID primitive.ObjectID, name string) {
	l.record(ctx, r, audit.CategoryData, audit.EventJourneyTemplateDeleted, "journey_template", templateID, nil, map[string]string{
		"name": name,
	})
}

// JourneyUpdated logs when a member's journey progress changes.
func (l *Logger) JourneyUpdated(ctx context.Context, r *http.Request, memberID primitive.ObjectID, stage string) {
	l.record(ctx, r, audit.CategoryData, audit.EventJourneyUpdated, "member", memberID, &memberID, map[string]string{
		"stage": stage,
	})
}

// --- Communication Events ---

// AnnouncementCreated logs when an announcement draft is created.
func (l *Logger) AnnouncementCreated(ctx context.Context, r *http.Request, annID primitive.ObjectID, audience string) {
	l.record(ctx, r, audit.CategoryCommunication, audit.EventAnnouncementCreated, "announcement", annID, nil, map[string]string{
		"audience": audience,
	})
}

// AnnouncementSent logs when an announcement goes out, with delivery counts.
func (l *Logger) AnnouncementSent(ctx context.Context, r *http.Request, annID primitive.ObjectID, messageID string, delivered, failed int) {
	l.record(ctx, r, audit.CategoryCommunication, audit.EventAnnouncementSent, "announcement", annID, nil, map[string]string{
		"message_id": messageID,
		"delivered":  intToString(delivered),
		"failed":     intToString(failed),
	})
}

// --- Helper functions ---

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func intToString(i int) string {
	return strconv.Itoa(i)
}
