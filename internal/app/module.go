package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/assetexpiry/internal/expiry"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.expiry.enabled") {
		if err := expiry.New(expiry.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			SQLiteConn: a.sqliteConn,
			Cache:      a.cacheOrNil(),
			Mail:       a.mail,
			Chat:       a.chat,
			Storage:    a.storage,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module expiry", "error", err)
			os.Exit(1)
		}
	}
}
