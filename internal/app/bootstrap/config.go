// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for FaithLink360.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, mail_smtp_host, etc.
//   - Environment variables: FAITHLINK_MONGO_URI, FAITHLINK_MAIL_SMTP_HOST, etc.
//   - Command-line flags: --mongo_uri, --mail_smtp_host, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "faithlink360", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "site_name", Default: "FaithLink360", Desc: "Site display name used in outbound email"},

	// Email/SMTP configuration
	{Name: "mail_enabled", Default: false, Desc: "Deliver email over SMTP (false logs sends instead)"},
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@faithlink360.org", Desc: "From email address"},
	{Name: "mail_from_name", Default: "FaithLink360", Desc: "From display name"},

	// Audit logging settings
	{Name: "audit_log_data", Default: "all", Desc: "Record-change audit logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_communication", Default: "all", Desc: "Outbound-send audit logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_retention_days", Default: 365, Desc: "Days to keep audit events (0 disables cleanup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, FAITHLINK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FAITHLINK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SiteName: appValues.String("site_name"),

		MailEnabled:  appValues.Bool("mail_enabled"),
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		AuditLogData:          appValues.String("audit_log_data"),
		AuditLogCommunication: appValues.String("audit_log_communication"),
		AuditRetentionDays:    appValues.Int("audit_retention_days"),
	}

	return coreCfg, appCfg, nil
}

func validAuditMode(m string) bool {
	switch m {
	case "all", "db", "log", "off":
		return true
	}
	return false
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// FaithLink360 validates the MongoDB URI format and audit modes to
// catch configuration errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if !validAuditMode(appCfg.AuditLogData) {
		return fmt.Errorf("audit_log_data must be 'all', 'db', 'log', or 'off' (got %q)", appCfg.AuditLogData)
	}
	if !validAuditMode(appCfg.AuditLogCommunication) {
		return fmt.Errorf("audit_log_communication must be 'all', 'db', 'log', or 'off' (got %q)", appCfg.AuditLogCommunication)
	}
	if appCfg.MailEnabled && appCfg.MailSMTPHost == "" {
		return fmt.Errorf("mail_enabled requires mail_smtp_host")
	}
	if appCfg.AuditRetentionDays < 0 {
		return fmt.Errorf("audit_retention_days must not be negative")
	}
	return nil
}
