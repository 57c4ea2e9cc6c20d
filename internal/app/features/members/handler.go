// internal/app/features/members/handler.go
package members

import (
	journeystore "github.com/MusaCap/faithlink360/internal/app/store/journeys"
	memberstore "github.com/MusaCap/faithlink360/internal/app/store/members"
	"github.com/MusaCap/faithlink360/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler owns all member API handlers.
type Handler struct {
	Members   *memberstore.Store
	Templates *journeystore.Store
	Log       *zap.Logger
	Audit     *auditlog.Logger
}

// NewHandler constructs a members Handler.
func NewHandler(members *memberstore.Store, templates *journeystore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Members:   members,
		Templates: templates,
		Log:       logger,
		Audit:     audit,
	}
}
