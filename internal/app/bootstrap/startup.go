// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// retentionWorker is started in Startup and stopped in Shutdown.
var retentionWorker *workers.AuditRetention

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to configure shared knobs and launch background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{})

	if appCfg.AuditRetentionDays > 0 {
		retentionWorker = workers.NewAuditRetention(
			deps.AuditStore,
			logger,
			24*time.Hour,
			time.Duration(appCfg.AuditRetentionDays)*24*time.Hour,
		)
		retentionWorker.Start()
	}
	return nil
}
