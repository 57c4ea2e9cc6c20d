// internal/app/features/announcements/handler.go
package announcements

import (
	announcementstore "github.com/MusaCap/faithlink360/internal/app/store/announcements"
	"github.com/MusaCap/faithlink360/internal/app/system/auditlog"
	"github.com/MusaCap/faithlink360/internal/app/system/mailer"
	"go.uber.org/zap"
)

// Handler carries the dependencies for the announcement endpoints.
type Handler struct {
	Announcements *announcementstore.Store
	Mailer        *mailer.Mailer
	SiteName      string
	Log           *zap.Logger
	Audit         *auditlog.Logger
}

func NewHandler(announcements *announcementstore.Store, m *mailer.Mailer, siteName string, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Announcements: announcements,
		Mailer:        m,
		SiteName:      siteName,
		Log:           logger,
		Audit:         audit,
	}
}
