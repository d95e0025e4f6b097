package expiry

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/inbound"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/outbound/chat"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/outbound/db"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/outbound/email"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/outbound/ledger"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/outbound/mq"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/outbound/report"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/usecase"
	pkgchat "github.com/shandysiswandi/assetexpiry/internal/pkg/chat"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/clock"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/config"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goroutine"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/idempotency"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/mail"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/messaging"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/router"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/storage"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/uid"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/validator"
)

var ErrNoDatabase = errors.New("expiry: a postgres or sqlite connection is required")

// Dependency carries the shared infrastructure. Exactly one of DBConn and
// SQLiteConn is expected; every other client may be nil, which turns the
// matching step off.
type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool
	SQLiteConn *sqlx.DB
	Cache      redis.UniversalClient
	Mail       mail.Mail
	Chat       pkgchat.Chat
	Storage    storage.Storage
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Router     *router.Router
}

func New(dep Dependency) error {
	ctx := dep.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	ucDep := usecase.Dependency{
		Config:     dep.Config,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	}

	switch {
	case dep.DBConn != nil:
		ucDep.RepoDB = db.NewDB(dep.DBConn, dep.Instrument)
	case dep.SQLiteConn != nil:
		repo, err := db.NewSQLite(ctx, dep.SQLiteConn, dep.Instrument)
		if err != nil {
			return err
		}
		ucDep.RepoDB = repo
	default:
		return ErrNoDatabase
	}

	if dep.Mail != nil {
		ucDep.RepoMail = email.New(dep.Mail, dep.Config.GetString("mail.from"), dep.Instrument)
	}
	if dep.Chat != nil {
		ucDep.RepoChat = chat.New(dep.Chat, dep.Instrument)
	}
	if dep.Cache != nil && dep.Config.GetBool("modules.expiry.dedup.enabled") {
		tracker := idempotency.New(dep.Cache, ledger.KeyPrefix)
		ucDep.RepoLedger = ledger.New(tracker, dep.Config.GetHour("modules.expiry.dedup.ttl_hours"), dep.Instrument)
	}
	if dep.Storage != nil {
		ucDep.RepoReport = report.New(dep.Storage, dep.Config.GetString("storage.bucket"), dep.Instrument)
	}
	if dep.Messaging != nil {
		ucDep.RepoEvent = mq.NewMessaging(dep.Messaging, dep.Config.GetString("modules.expiry.topics.check_completed"), dep.Instrument)
	}

	uc := usecase.NewExpiry(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
		if err := inbound.RegisterScheduler(dep.Ctx, dep.Config, dep.Goroutine, dep.Clock, dep.UUID, uc); err != nil {
			return err
		}
	}

	return nil
}
