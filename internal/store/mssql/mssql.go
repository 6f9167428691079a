// Package mssql stores tables in SQL Server. Saving drops and recreates the
// table and bulk-loads rows through TDS bulk copy.
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	mssqldb "github.com/microsoft/go-mssqldb"

	"github.com/omrozmen/libseed/internal/store"
	"github.com/omrozmen/libseed/internal/table"
	"github.com/omrozmen/libseed/internal/typemap"
)

// RowsPerBatch is the bulk copy batch size.
const RowsPerBatch = 1000

func init() {
	store.Register(&Store{})
}

// Store implements store.Store for Microsoft SQL Server.
type Store struct{}

// Name returns the primary format name.
func (s *Store) Name() string { return "mssql" }

// Aliases returns alternative names for the format.
func (s *Store) Aliases() []string { return []string{"sqlserver", "sql-server"} }

func open(ctx context.Context, loc store.Location) (*sql.DB, error) {
	if loc.DSN == "" {
		return nil, errors.New("mssql: dsn is required")
	}
	if loc.Table == "" {
		return nil, errors.New("mssql: table is required")
	}
	db, err := sql.Open("sqlserver", loc.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

// Load reads every row of loc.Table.
func (s *Store) Load(ctx context.Context, loc store.Location) (table.Table, error) {
	db, err := open(ctx, loc)
	if err != nil {
		return table.Table{}, err
	}
	defer db.Close()
	return store.QueryTable(ctx, db, store.SelectAllSQL(typemap.MSSQL, loc.Table))
}

// Save replaces loc.Table with t in a single transaction.
func (s *Store) Save(ctx context.Context, loc store.Location, t table.Table) error {
	db, err := open(ctx, loc)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, store.DropTableSQL(typemap.MSSQL, loc.Table)); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}
	ddl := store.CreateTableSQL(typemap.MSSQL, loc.Table, t.Columns, typemap.ColumnTypes(typemap.MSSQL, t))
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, mssqldb.CopyIn(store.QualifyTable(typemap.MSSQL, loc.Table), mssqldb.BulkOptions{
		RowsPerBatch: RowsPerBatch,
		Tablock:      true,
	}, t.Columns...))
	if err != nil {
		return fmt.Errorf("preparing bulk copy: %w", err)
	}
	defer stmt.Close()

	kinds := typemap.ColumnKinds(t)
	for i := range t.Rows {
		if _, err := stmt.ExecContext(ctx, store.BindRow(typemap.MSSQL, t, i, kinds)...); err != nil {
			return fmt.Errorf("adding row %d: %w", i+1, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("finalizing bulk copy: %w", err)
	}
	return tx.Commit()
}
