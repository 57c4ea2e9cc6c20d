// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/MusaCap/faithlink360/internal/app/store/audit"
	"go.uber.org/zap"
)

// Handler serves the audit trail read API.
type Handler struct {
	Audit *audit.Store
	Log   *zap.Logger
}

func NewHandler(auditStore *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{Audit: auditStore, Log: logger}
}
