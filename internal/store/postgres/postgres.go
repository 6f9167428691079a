// Package postgres stores tables in PostgreSQL. Saving drops and recreates
// the table and bulk-loads rows with COPY.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/omrozmen/libseed/internal/logging"
	"github.com/omrozmen/libseed/internal/store"
	"github.com/omrozmen/libseed/internal/table"
	"github.com/omrozmen/libseed/internal/typemap"
)

func init() {
	store.Register(&Store{})
}

// Store implements store.Store for PostgreSQL.
type Store struct{}

// Name returns the primary format name.
func (s *Store) Name() string { return "postgres" }

// Aliases returns alternative names for the format.
func (s *Store) Aliases() []string { return []string{"postgresql", "pg"} }

func connect(ctx context.Context, loc store.Location) (*pgx.Conn, error) {
	if loc.DSN == "" {
		return nil, errors.New("postgres: dsn is required")
	}
	if loc.Table == "" {
		return nil, errors.New("postgres: table is required")
	}
	cfg, err := pgx.ParseConfig(loc.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	logging.Debug("Connected to PostgreSQL: %s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	return conn, nil
}

// Identifier returns the pgx identifier for a possibly schema-qualified name.
func Identifier(name string) pgx.Identifier {
	schema, tbl := store.SplitQualified(name)
	if schema == "" {
		return pgx.Identifier{tbl}
	}
	return pgx.Identifier{schema, tbl}
}

// Load reads every row of loc.Table.
func (s *Store) Load(ctx context.Context, loc store.Location) (table.Table, error) {
	conn, err := connect(ctx, loc)
	if err != nil {
		return table.Table{}, err
	}
	defer conn.Close(context.Background())

	rows, err := conn.Query(ctx, "SELECT * FROM "+Identifier(loc.Table).Sanitize())
	if err != nil {
		return table.Table{}, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	out, err := table.New(cols...)
	if err != nil {
		return table.Table{}, err
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return table.Table{}, fmt.Errorf("reading row: %w", err)
		}
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[c] = table.FromAny(vals[i])
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return table.Table{}, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// Save replaces loc.Table with t in a single transaction.
func (s *Store) Save(ctx context.Context, loc store.Location, t table.Table) error {
	conn, err := connect(ctx, loc)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, store.DropTableSQL(typemap.Postgres, loc.Table)); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}
	ddl := store.CreateTableSQL(typemap.Postgres, loc.Table, t.Columns, typemap.ColumnTypes(typemap.Postgres, t))
	if _, err := tx.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	kinds := typemap.ColumnKinds(t)
	rows := make([][]any, len(t.Rows))
	for i := range t.Rows {
		rows[i] = store.BindRow(typemap.Postgres, t, i, kinds)
	}
	n, err := tx.CopyFrom(ctx, Identifier(loc.Table), t.Columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copying rows: %w", err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("copy: expected %d rows, got %d", len(rows), n)
	}
	return tx.Commit(ctx)
}
