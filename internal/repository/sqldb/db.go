package sqldb

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"invparser/internal/config"
)

// Supported storage backend families.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// NewDB resolves the configured storage backend and returns a connection
// pool bound to it. An unrecognized backend name is a startup error; there
// is no silent fallback.
//
// The sqlite backend bootstraps its schema on open so the service runs with
// zero external setup. The postgres backend expects migrations to have been
// applied (see cmd/migrate).
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	switch cfg.Backend {
	case BackendPostgres:
		db, err := sqlx.Connect("pgx", cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.MaxOpen)
		db.SetMaxIdleConns(cfg.MaxIdle)
		return db, nil

	case BackendSQLite:
		db, err := sqlx.Connect("sqlite", sqliteDSN(cfg.Path))
		if err != nil {
			return nil, fmt.Errorf("opening sqlite database %s: %w", cfg.Path, err)
		}
		// sqlite allows a single writer; a pool of one serializes writes
		// and avoids SQLITE_BUSY under concurrent upserts.
		db.SetMaxOpenConns(1)
		if err := EnsureSchema(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrapping sqlite schema: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unknown database backend %q (supported: sqlite, postgres)", cfg.Backend)
	}
}

func sqliteDSN(path string) string {
	// Foreign keys are off by default in sqlite; the cascade rules on
	// confidences and items depend on them.
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}
