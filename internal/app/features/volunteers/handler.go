// internal/app/features/volunteers/handler.go
package volunteers

import (
	memberstore "github.com/MusaCap/faithlink360/internal/app/store/members"
	oppstore "github.com/MusaCap/faithlink360/internal/app/store/opportunities"
	volunteerstore "github.com/MusaCap/faithlink360/internal/app/store/volunteers"
	"github.com/MusaCap/faithlink360/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler owns all volunteer API handlers.
type Handler struct {
	Volunteers    *volunteerstore.Store
	Members       *memberstore.Store
	Opportunities *oppstore.Store
	Log           *zap.Logger
	Audit         *auditlog.Logger
}

// NewHandler constructs a volunteers Handler. The opportunity store backs
// the matches endpoint.
func NewHandler(volunteers *volunteerstore.Store, members *memberstore.Store, opportunities *oppstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Volunteers:    volunteers,
		Members:       members,
		Opportunities: opportunities,
		Log:           logger,
		Audit:         audit,
	}
}
