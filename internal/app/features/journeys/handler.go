// internal/app/features/journeys/handler.go
package journeys

import (
	journeystore "github.com/MusaCap/faithlink360/internal/app/store/journeys"
	"github.com/MusaCap/faithlink360/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler carries the dependencies for the journey template endpoints.
type Handler struct {
	Templates *journeystore.Store
	Log       *zap.Logger
	Audit     *auditlog.Logger
}

func NewHandler(templates *journeystore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Templates: templates, Log: logger, Audit: audit}
}
