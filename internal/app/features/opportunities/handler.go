// internal/app/features/opportunities/handler.go
package opportunities

import (
	memberstore "github.com/MusaCap/faithlink360/internal/app/store/members"
	oppstore "github.com/MusaCap/faithlink360/internal/app/store/opportunities"
	volunteerstore "github.com/MusaCap/faithlink360/internal/app/store/volunteers"
	"github.com/MusaCap/faithlink360/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler owns all volunteer-opportunity API handlers.
type Handler struct {
	Opportunities *oppstore.Store
	Volunteers    *volunteerstore.Store
	Members       *memberstore.Store
	Log           *zap.Logger
	Audit         *auditlog.Logger
}

// NewHandler constructs an opportunities Handler. The volunteer store
// backs the matches endpoint; the member store validates signups.
func NewHandler(opportunities *oppstore.Store, volunteers *volunteerstore.Store, members *memberstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Opportunities: opportunities,
		Volunteers:    volunteers,
		Members:       members,
		Log:           logger,
		Audit:         audit,
	}
}
