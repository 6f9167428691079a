// Package csvfile stores tables as comma-separated text with a header row.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/omrozmen/libseed/internal/store"
	"github.com/omrozmen/libseed/internal/table"
)

func init() {
	store.Register(&Store{})
}

// Store implements store.Store for CSV files.
type Store struct{}

// Name returns the primary format name.
func (s *Store) Name() string { return "csv" }

// Aliases returns alternative names for the format.
func (s *Store) Aliases() []string { return []string{"text"} }

// Load reads the file at loc.Path.
func (s *Store) Load(ctx context.Context, loc store.Location) (table.Table, error) {
	if loc.Path == "" {
		return table.Table{}, errors.New("csv: path is required")
	}
	f, err := os.Open(loc.Path)
	if err != nil {
		return table.Table{}, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return table.Table{}, nil
	}
	if err != nil {
		return table.Table{}, fmt.Errorf("reading header: %w", err)
	}

	var records [][]string
	for {
		if err := ctx.Err(); err != nil {
			return table.Table{}, err
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table.Table{}, fmt.Errorf("reading record: %w", err)
		}
		records = append(records, rec)
	}
	return store.FromRecords(header, records)
}

// Save writes t to loc.Path, replacing any existing file.
func (s *Store) Save(ctx context.Context, loc store.Location, t table.Table) error {
	if loc.Path == "" {
		return errors.New("csv: path is required")
	}
	if dir := filepath.Dir(loc.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	f, err := os.Create(loc.Path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		f.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range store.Records(t) {
		if err := ctx.Err(); err != nil {
			f.Close()
			return err
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing: %w", err)
	}
	return f.Close()
}
