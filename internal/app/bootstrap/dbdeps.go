// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
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
	"github.com/MusaCap/faithlink360/internal/app/system/mailer"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and back-end dependencies for the app. ConnectDB
// builds the whole set once; everything downstream receives it by value.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Members       *memberstore.Store
	Tags          *tagstore.Store
	Groups        *groupstore.Store
	Memberships   *membershipstore.Store
	Events        *eventstore.Store
	Volunteers    *volunteerstore.Store
	Opportunities *oppstore.Store
	CareLogs      *carelogstore.Store
	Journeys      *journeystore.Store
	Announcements *announcementstore.Store
	AuditStore    *audit.Store

	Audit  *auditlog.Logger
	Mailer *mailer.Mailer
}
