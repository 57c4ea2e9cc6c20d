// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	announcementsfeature "github.com/MusaCap/faithlink360/internal/app/features/announcements"
	auditlogfeature "github.com/MusaCap/faithlink360/internal/app/features/auditlog"
	carelogsfeature "github.com/MusaCap/faithlink360/internal/app/features/carelogs"
	eventsfeature "github.com/MusaCap/faithlink360/internal/app/features/events"
	groupsfeature "github.com/MusaCap/faithlink360/internal/app/features/groups"
	healthfeature "github.com/MusaCap/faithlink360/internal/app/features/health"
	journeysfeature "github.com/MusaCap/faithlink360/internal/app/features/journeys"
	membersfeature "github.com/MusaCap/faithlink360/internal/app/features/members"
	opportunitiesfeature "github.com/MusaCap/faithlink360/internal/app/features/opportunities"
	volunteersfeature "github.com/MusaCap/faithlink360/internal/app/features/volunteers"
	"github.com/MusaCap/faithlink360/internal/app/system/metrics"
	"github.com/MusaCap/faithlink360/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. FaithLink360 mounts the JSON API
// feature routers plus the health and metrics endpoints.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(ratelimit.Middleware(ratelimit.New(600, time.Minute), time.Minute))

	healthHandler := healthfeature.NewHandler(deps.MongoDatabase, logger)
	healthfeature.MountRoutes(r, healthHandler)
	r.Handle("/metrics", metrics.Handler())

	careHandler := carelogsfeature.NewHandler(deps.CareLogs, deps.Audit, logger)
	carelogsfeature.MountRoutes(r, careHandler)

	membersHandler := membersfeature.NewHandler(deps.Members, deps.Journeys, deps.Audit, logger)
	membersfeature.MountRoutes(r, membersHandler, careHandler.MemberHistory)

	groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, deps.Groups, deps.Memberships, deps.Audit, logger)
	groupsfeature.MountRoutes(r, groupsHandler)

	eventsHandler := eventsfeature.NewHandler(deps.Events, deps.Audit, logger)
	eventsfeature.MountRoutes(r, eventsHandler)

	volunteersHandler := volunteersfeature.NewHandler(deps.Volunteers, deps.Members, deps.Opportunities, deps.Audit, logger)
	volunteersfeature.MountRoutes(r, volunteersHandler)

	opportunitiesHandler := opportunitiesfeature.NewHandler(deps.Opportunities, deps.Volunteers, deps.Members, deps.Audit, logger)
	opportunitiesfeature.MountRoutes(r, opportunitiesHandler)

	journeysHandler := journeysfeature.NewHandler(deps.Journeys, deps.Audit, logger)
	journeysfeature.MountRoutes(r, journeysHandler)

	announcementsHandler := announcementsfeature.NewHandler(deps.Announcements, deps.Mailer, appCfg.SiteName, deps.Audit, logger)
	announcementsfeature.MountRoutes(r, announcementsHandler)

	auditHandler := auditlogfeature.NewHandler(deps.AuditStore, logger)
	auditlogfeature.MountRoutes(r, auditHandler)

	return r, nil
}
