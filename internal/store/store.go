// Package store reads and writes tables in spreadsheet, text and database
// formats. Each format lives in its own package and registers itself on
// import:
//
//	import _ "github.com/omrozmen/libseed/internal/store/xlsx"
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/omrozmen/libseed/internal/table"
)

// ErrUnknownFormat is returned when no store is registered for a format.
var ErrUnknownFormat = errors.New("unknown format")

// Location says where a table lives. File formats use Path (and Sheet for
// workbooks); database formats use DSN and Table.
type Location struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
	Sheet  string `yaml:"sheet"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

// ResolvedFormat returns Format, or the format implied by the file
// extension of Path when Format is empty.
func (l Location) ResolvedFormat() string {
	if l.Format != "" {
		return strings.ToLower(l.Format)
	}
	switch strings.ToLower(filepath.Ext(l.Path)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".csv":
		return "csv"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	}
	return ""
}

// IsZero reports whether l names no location at all.
func (l Location) IsZero() bool {
	return l == Location{}
}

// String renders l for log messages without exposing DSN credentials.
func (l Location) String() string {
	switch {
	case l.Path != "" && l.Table != "":
		return fmt.Sprintf("%s:%s#%s", l.ResolvedFormat(), l.Path, l.Table)
	case l.Path != "" && l.Sheet != "":
		return fmt.Sprintf("%s:%s[%s]", l.ResolvedFormat(), l.Path, l.Sheet)
	case l.Path != "":
		return fmt.Sprintf("%s:%s", l.ResolvedFormat(), l.Path)
	default:
		return fmt.Sprintf("%s:%s", l.ResolvedFormat(), l.Table)
	}
}

// Store loads and saves whole tables.
//
// To add a format:
// 1. Create a package under internal/store/<format>/
// 2. Implement the Store interface
// 3. Register via init(): store.Register(&Store{})
type Store interface {
	// Name returns the primary format name (e.g. "xlsx", "postgres").
	Name() string

	// Aliases returns alternative names for the format.
	Aliases() []string

	// Load reads the table at loc. The first row or the column list
	// provides the header.
	Load(ctx context.Context, loc Location) (table.Table, error)

	// Save replaces whatever is at loc with t.
	Save(ctx context.Context, loc Location, t table.Table) error
}

var (
	mu      sync.RWMutex
	stores  = make(map[string]Store)
	primary = make(map[string]Store)
)

// Register makes a store available by its name and aliases.
// It panics if a name is already taken.
func Register(s Store) {
	mu.Lock()
	defer mu.Unlock()

	names := append([]string{s.Name()}, s.Aliases()...)
	for _, n := range names {
		n = strings.ToLower(n)
		if _, dup := stores[n]; dup {
			panic("store: Register called twice for " + n)
		}
	}
	for _, n := range names {
		stores[strings.ToLower(n)] = s
	}
	primary[s.Name()] = s
}

// Get returns the store registered under name or one of its aliases.
func Get(name string) (Store, error) {
	mu.RLock()
	defer mu.RUnlock()

	s, ok := stores[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownFormat, name, strings.Join(available(), ", "))
	}
	return s, nil
}

// Available returns the sorted primary names of registered stores.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()
	return available()
}

func available() []string {
	out := make([]string, 0, len(primary))
	for n := range primary {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Load reads the table at loc with the store for its format.
func Load(ctx context.Context, loc Location) (table.Table, error) {
	s, err := Get(loc.ResolvedFormat())
	if err != nil {
		return table.Table{}, err
	}
	t, err := s.Load(ctx, loc)
	if err != nil {
		return table.Table{}, fmt.Errorf("loading %s: %w", loc, err)
	}
	return t, nil
}

// Save writes t to loc with the store for its format.
func Save(ctx context.Context, loc Location, t table.Table) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("saving %s: table has no columns", loc)
	}
	s, err := Get(loc.ResolvedFormat())
	if err != nil {
		return err
	}
	if err := s.Save(ctx, loc, t); err != nil {
		return fmt.Errorf("saving %s: %w", loc, err)
	}
	return nil
}
