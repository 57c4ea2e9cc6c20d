// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, request limits). AppConfig is everything specific to
// FaithLink360: database connection details, SMTP delivery settings, and
// audit logging modes.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Site identity, used in outbound email
	SiteName string // Display name (e.g., "FaithLink360")

	// Email/SMTP configuration
	MailEnabled  bool   // When false, sends are logged instead of delivered
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name

	// Audit logging modes: "all" (db+log), "db", "log", or "off"
	AuditLogData          string // Record changes: member/group/event CRUD, attendance, care, journeys
	AuditLogCommunication string // Outbound sends: announcements

	// Audit retention. Zero disables the cleanup worker.
	AuditRetentionDays int
}
