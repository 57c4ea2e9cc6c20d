// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	announcementstore "github.com/MusaCap/faithlink360/internal/app/store/announcements"
	"github.com/MusaCap/faithlink360/internal/app/store/audit"
	carelogstore "github.com/MusaCap/faithlink360/internal/app/store/carelogs"
	eventstore "github.com/MusaCap/faithlink360/internal/app/store/events"
	groupstore "github.com/MusaCap/faithlink360/internal/app/store/groups"
	journeystore "github.com/MusaCap/faithlink360/internal/app/store/journeys"
	memberstore "github.com/MusaCap/faithlink360/internal/app/store/members"
	membershipstore "github.com/MusaCap/faithlink360/internal/app/store/memberships"
	oppstore "github.com/MusaCap/faithlink360/internal/app/store/opportunities"
	tagstore "github.com/MusaCap/faithlink360/internal/app/store/tags"
	volunteerstore "github.com/MusaCap/faithlink360/internal/app/store/volunteers"
	"github.com/MusaCap/faithlink360/internal/app/system/auditlog"
	"github.com/MusaCap/faithlink360/internal/app/system/indexes"
	"github.com/MusaCap/faithlink360/internal/app/system/mailer"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and builds the store layer.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	db := client.Database(appCfg.MongoDatabase)

	tags := tagstore.New(db)
	auditStore := audit.New(db)

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: db,

		Members:       memberstore.New(db, client, tags),
		Tags:          tags,
		Groups:        groupstore.New(db),
		Memberships:   membershipstore.New(db),
		Events:        eventstore.New(db),
		Volunteers:    volunteerstore.New(db),
		Opportunities: oppstore.New(db, client),
		CareLogs:      carelogstore.New(db),
		Journeys:      journeystore.New(db),
		Announcements: announcementstore.New(db),
		AuditStore:    auditStore,

		Audit: auditlog.New(auditStore, logger, auditlog.Config{
			Data:          appCfg.AuditLogData,
			Communication: appCfg.AuditLogCommunication,
		}),
		Mailer: mailer.New(mailer.Config{
			Enabled:  appCfg.MailEnabled,
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			Username: appCfg.MailSMTPUser,
			Password: appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		}, logger),
	}
	return deps, nil
}

// EnsureSchema creates the indexes the store layer relies on. Each index
// ensure is idempotent, so restarts are cheap.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	return nil
}
