// internal/app/features/announcements/send.go
package announcements

import (
	"errors"
	"html/template"
	"net/http"

	announcementstore "github.com/MusaCap/faithlink360/internal/app/store/announcements"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/mailer"
	"github.com/MusaCap/faithlink360/internal/app/system/metrics"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type sendResponse struct {
	MessageID  string `json:"messageId"`
	Recipients int    `json:"recipients"`
	Delivered  int    `json:"delivered"`
	Failed     int    `json:"failed"`
}

// Send handles POST /api/announcements/{id}/send. The draft is marked
// sent first so a concurrent second send loses with 409 instead of
// doubling the delivery.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid announcement id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "announcement send")
	defer cancel()

	a, err := h.Announcements.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "announcement not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "announcement send failed", err)
		return
	}

	recips, err := h.Announcements.Recipients(ctx, a)
	if err != nil {
		httpjson.Internal(w, h.Log, "announcement send failed", err)
		return
	}

	err = h.Announcements.MarkSent(ctx, id)
	if errors.Is(err, announcementstore.ErrAlreadySent) {
		httpjson.Conflict(w, err.Error())
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "announcement send failed", err)
		return
	}

	base := mailer.BuildAnnouncementEmail(mailer.AnnouncementEmailData{
		SiteName:  h.SiteName,
		Subject:   a.Subject,
		BodyHTML:  template.HTML(a.Body),
		BodyText:  a.Body,
		MessageID: a.MessageID,
	})
	emails := make([]mailer.Email, 0, len(recips))
	for _, rc := range recips {
		e := base
		e.To = rc.Email
		e.ToName = rc.Name
		emails = append(emails, e)
	}

	delivered, failed := h.Mailer.SendBatch(emails)

	h.Log.Info("announcement sent",
		zap.String("message_id", a.MessageID),
		zap.String("audience", a.Audience),
		zap.Int("recipients", len(recips)),
		zap.Int("delivered", delivered),
		zap.Int("failed", failed))
	h.Audit.AnnouncementSent(ctx, r, a.ID, a.MessageID, delivered, failed)
	metrics.EmailsSent(delivered, failed)

	httpjson.Respond(w, http.StatusOK, sendResponse{
		MessageID:  a.MessageID,
		Recipients: len(recips),
		Delivered:  delivered,
		Failed:     failed,
	})
}
