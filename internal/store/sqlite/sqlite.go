// Package sqlite stores tables in SQLite database files using the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/omrozmen/libseed/internal/store"
	"github.com/omrozmen/libseed/internal/table"
	"github.com/omrozmen/libseed/internal/typemap"
)

func init() {
	store.Register(&Store{})
}

// Store implements store.Store for SQLite. The database file comes from
// loc.DSN, or loc.Path when DSN is empty.
type Store struct{}

// Name returns the primary format name.
func (s *Store) Name() string { return "sqlite" }

// Aliases returns alternative names for the format.
func (s *Store) Aliases() []string { return []string{"sqlite3", "db"} }

// Open opens the database for loc.
func Open(loc store.Location) (*sql.DB, error) {
	dsn := loc.DSN
	if dsn == "" {
		dsn = loc.Path
	}
	if dsn == "" {
		return nil, errors.New("sqlite: dsn or path is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Load reads every row of loc.Table.
func (s *Store) Load(ctx context.Context, loc store.Location) (table.Table, error) {
	if loc.Table == "" {
		return table.Table{}, errors.New("sqlite: table is required")
	}
	if loc.DSN == "" {
		if _, err := os.Stat(loc.Path); err != nil {
			return table.Table{}, err
		}
	}
	db, err := Open(loc)
	if err != nil {
		return table.Table{}, err
	}
	defer db.Close()
	return store.QueryTable(ctx, db, store.SelectAllSQL(typemap.SQLite, loc.Table))
}

// Save replaces loc.Table with t.
func (s *Store) Save(ctx context.Context, loc store.Location, t table.Table) error {
	if loc.Table == "" {
		return errors.New("sqlite: table is required")
	}
	if loc.DSN == "" && loc.Path != "" {
		if dir := filepath.Dir(loc.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating directory: %w", err)
			}
		}
	}
	db, err := Open(loc)
	if err != nil {
		return err
	}
	defer db.Close()
	return store.ReplaceTable(ctx, db, typemap.SQLite, loc.Table, t)
}
