package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/omrozmen/libseed/internal/table"
	"github.com/omrozmen/libseed/internal/typemap"
)

// ScanValue converts a scanned database value into a Value, using the
// declared column kind to recover dates stored as text.
func ScanValue(x any, kind table.ValueKind) table.Value {
	v := table.FromAny(x)
	if kind == table.KindDate && v.Kind() == table.KindString {
		s, _ := v.Str()
		if len(s) > len(table.DateLayout) {
			s = s[:len(table.DateLayout)]
		}
		if d := table.ParseCell(s); d.Kind() == table.KindDate {
			return d
		}
	}
	return v
}

// QueryTable runs query and collects the result set into a table.
func QueryTable(ctx context.Context, db *sql.DB, query string) (table.Table, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return table.Table{}, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return table.Table{}, fmt.Errorf("reading columns: %w", err)
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return table.Table{}, fmt.Errorf("reading column types: %w", err)
	}
	kinds := make([]table.ValueKind, len(colTypes))
	for i, ct := range colTypes {
		kinds[i] = typemap.KindOf(ct.DatabaseTypeName())
	}

	out, err := table.New(cols...)
	if err != nil {
		return table.Table{}, err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return table.Table{}, fmt.Errorf("scanning row: %w", err)
		}
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[c] = ScanValue(vals[i], kinds[i])
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return table.Table{}, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// ReplaceTable drops and recreates name in d and inserts every row of t in
// one transaction. The driver must accept "?" placeholders.
func ReplaceTable(ctx context.Context, db *sql.DB, d typemap.Dialect, name string, t table.Table) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	kinds := typemap.ColumnKinds(t)
	if _, err := tx.ExecContext(ctx, DropTableSQL(d, name)); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, CreateTableSQL(d, name, t.Columns, typemap.ColumnTypes(d, t))); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, InsertSQL(d, name, t.Columns))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range t.Rows {
		if _, err := stmt.ExecContext(ctx, BindRow(d, t, i, kinds)...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

// BindRow returns row i of t as driver arguments in column order.
func BindRow(d typemap.Dialect, t table.Table, i int, kinds []table.ValueKind) []any {
	vals := t.Values(i)
	args := make([]any, len(vals))
	for j, v := range vals {
		args[j] = typemap.Convert(d, v, kinds[j])
	}
	return args
}
