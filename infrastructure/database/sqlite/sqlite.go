package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/vfg2006/tire-sales-api/internal/config"
	_ "modernc.org/sqlite"
)

type Connection struct {
	*sql.DB
}

func NewConnection(ctx context.Context, cfg config.SQLite) (*Connection, error) {
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}

	// SQLite aceita um escritor por vez; em memória cada conexão seria um banco diferente
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &Connection{DB: db}, nil
}
