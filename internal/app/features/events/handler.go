// internal/app/features/events/handler.go
package events

import (
	eventstore "github.com/MusaCap/faithlink360/internal/app/store/events"
	"github.com/MusaCap/faithlink360/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler owns all event API handlers.
type Handler struct {
	Events *eventstore.Store
	Log    *zap.Logger
	Audit  *auditlog.Logger
}

// NewHandler constructs an events Handler.
func NewHandler(events *eventstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Log:    logger,
		Audit:  audit,
	}
}
