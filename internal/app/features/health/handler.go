// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler answers liveness probes. A health check pings the database so
// a wedged connection pool turns the probe red.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

type status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Check handles GET /health.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.DB.Client().Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health check ping failed", zap.Error(err))
		httpjson.Respond(w, http.StatusServiceUnavailable, status{Status: "degraded", Database: "unreachable"})
		return
	}
	httpjson.Respond(w, http.StatusOK, status{Status: "ok", Database: "ok"})
}

// MountRoutes attaches the health endpoint.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Check)
}
