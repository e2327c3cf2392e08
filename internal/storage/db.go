// Package storage wires the local SQLite database: it opens the file,
// applies embedded goose migrations, and vends the per-collection
// repositories the vault is built on.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/storage/migrations"
	"github.com/dmitrijs2005/daybook/internal/storage/records"
	"github.com/dmitrijs2005/daybook/internal/storage/settings"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories bundles the four collections backed by one database handle.
type Repositories struct {
	Journals records.Repository
	Tasks    records.Repository
	Events   records.Repository
	Settings settings.Repository
	DB       *sql.DB
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if necessary) the SQLite database at dsn,
// migrates the schema, and returns the repository set.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := &Repositories{
		Journals: records.NewSQLiteRepository(db, records.CollectionJournals),
		Tasks:    records.NewSQLiteRepository(db, records.CollectionTasks),
		Events:   records.NewSQLiteRepository(db, records.CollectionEvents),
		Settings: settings.NewSQLiteRepository(db),
		DB:       db,
	}
	return repos, nil
}
