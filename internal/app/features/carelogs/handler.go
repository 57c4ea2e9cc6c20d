// internal/app/features/carelogs/handler.go
package carelogs

import (
	carelogstore "github.com/MusaCap/faithlink360/internal/app/store/carelogs"
	"github.com/MusaCap/faithlink360/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler carries the dependencies for the pastoral care endpoints.
type Handler struct {
	CareLogs *carelogstore.Store
	Log      *zap.Logger
	Audit    *auditlog.Logger
}

func NewHandler(careLogs *carelogstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{CareLogs: careLogs, Log: logger, Audit: audit}
}
