// internal/app/features/events/attendance.go
package events

import (
	"errors"
	"net/http"

	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// attendancePayload is the request body for recording attendance.
type attendancePayload struct {
	MemberID string `json:"memberId"`
	Status   string `json:"status"`
}

// RecordAttendance handles POST /api/events/{id}/attendance. Recording a
// member twice replaces the earlier status rather than erroring.
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid event id")
		return
	}

	var p attendancePayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	memberID, err := primitive.ObjectIDFromHex(p.MemberID)
	if err != nil {
		httpjson.BadRequest(w, "invalid memberId")
		return
	}
	if !models.ValidAttendanceStatus(p.Status) {
		httpjson.BadRequest(w, `status must be "present"|"absent"|"excused"`)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "attendance record")
	defer cancel()

	err = h.Events.RecordAttendance(ctx, eventID, memberID, p.Status)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "event not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "attendance record failed", err)
		return
	}

	h.Audit.AttendanceRecorded(ctx, r, eventID, memberID, p.Status)
	w.WriteHeader(http.StatusNoContent)
}

// ListAttendance handles GET /api/events/{id}/attendance: the raw records
// plus a per-status summary.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid event id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "attendance list")
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "event not found")
			return
		}
		httpjson.Internal(w, h.Log, "attendance list failed", err)
		return
	}

	records, err := h.Events.Attendance(ctx, eventID)
	if err != nil {
		httpjson.Internal(w, h.Log, "attendance list failed", err)
		return
	}
	summary, err := h.Events.SummarizeAttendance(ctx, eventID)
	if err != nil {
		httpjson.Internal(w, h.Log, "attendance list failed", err)
		return
	}
	if records == nil {
		records = []models.Attendance{}
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"attendance": records,
		"summary":    summary,
	})
}
