package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/nutrigate/internal/client/migrations"
	"github.com/dmitrijs2005/nutrigate/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/nutrigate/internal/client/repositories/tokens"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type Repositories struct {
	Tokens      tokens.Repository
	Preferences preferences.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Tokens:      tokens.NewSQLiteRepository(db),
		Preferences: preferences.NewSQLiteRepository(db),
	}
}

// RunMigrations applies the embedded schema. Already applied versions are
// skipped, so calling it on every start is fine.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply client migrations: %w", err)
	}
	return nil
}

// InitDatabase opens (or creates) the SQLite file at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// a single writer avoids SQLITE_BUSY between the REPL and the watcher
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
