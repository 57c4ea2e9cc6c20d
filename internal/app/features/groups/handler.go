// internal/app/features/groups/handler.go
package groups

import (
	groupstore "github.com/MusaCap/faithlink360/internal/app/store/groups"
	membershipstore "github.com/MusaCap/faithlink360/internal/app/store/memberships"
	"github.com/MusaCap/faithlink360/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all group API handlers.
type Handler struct {
	DB          *mongo.Database
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Log         *zap.Logger
	Audit       *auditlog.Logger
}

// NewHandler constructs a groups Handler. The database handle is kept for
// the roster query, which joins memberships with members.
func NewHandler(db *mongo.Database, groups *groupstore.Store, memberships *membershipstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Groups:      groups,
		Memberships: memberships,
		Log:         logger,
		Audit:       audit,
	}
}
