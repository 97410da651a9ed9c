package cli

import (
	"context"
	"fmt"
	"log/slog"

	"viewgen/internal/ddl"
	"viewgen/internal/engine"
	"viewgen/internal/view"
)

// openEngine opens the configured database and returns a view engine bound
// to it. The caller must call the returned close function.
func (a *app) openEngine(ctx context.Context) (*view.Engine, func(), error) {
	d, err := ddl.DialectFor(a.cfg.Driver)
	if err != nil {
		return nil, nil, err
	}
	db, err := engine.Open(ctx, a.cfg.Driver, a.cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	a.logger.Info("database opened",
		slog.String("driver", a.cfg.Driver),
		slog.String("dsn", a.cfg.DSN))

	closeFn := func() {
		if err := db.Close(); err != nil {
			a.logger.Warn("close database", "error", err)
		}
	}
	return view.NewEngine(engine.NewSQLSession(db, a.logger), d), closeFn, nil
}

// dialect returns the dialect for the configured driver without opening a
// connection.
func (a *app) dialect() (ddl.Dialect, error) {
	return ddl.DialectFor(a.cfg.Driver)
}
