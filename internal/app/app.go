package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/chat"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/clock"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/config"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goroutine"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/mail"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/messaging"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/router"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/storage"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/uid"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uid       uid.NumberID
	uuid      uid.StringID

	// resources
	dbConn     *pgxpool.Pool
	sqliteConn *sqlx.DB
	cacheConn  *redis.Client
	mail       mail.Mail
	chat       chat.Chat
	messaging  messaging.Messaging
	storage    storage.Storage

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initChat()
	app.initStorage()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
