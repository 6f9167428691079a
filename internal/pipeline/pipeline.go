// Package pipeline loads the books, students and loans tables, grows them to
// their targets and writes them back.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/omrozmen/libseed/internal/config"
	"github.com/omrozmen/libseed/internal/dataset"
	"github.com/omrozmen/libseed/internal/history"
	"github.com/omrozmen/libseed/internal/logging"
	"github.com/omrozmen/libseed/internal/progress"
	"github.com/omrozmen/libseed/internal/roles"
	"github.com/omrozmen/libseed/internal/stitch"
	"github.com/omrozmen/libseed/internal/store"
	"github.com/omrozmen/libseed/internal/table"
)

// Options are the collaborators of a run. All fields are optional.
type Options struct {
	// Progress receives the number of synthesized rows.
	Progress *progress.Tracker

	// History records the run when set.
	History *history.Store

	// Now is the clock used for the seed and for generated dates.
	Now func() time.Time

	// DryRun skips writing the output tables.
	DryRun bool
}

// Result is the outcome of a run.
type Result struct {
	RunID string
	Seed  uint64

	Books    table.Table
	Students table.Table
	Loans    table.Table

	Stats Stats
}

// Counts returns the final row count of each table.
func (r *Result) Counts() history.Counts {
	return history.Counts{Books: r.Books.Len(), Students: r.Students.Len(), Loans: r.Loans.Len()}
}

// Run executes load, normalize, extend, stitch and save for cfg.
func Run(ctx context.Context, cfg *config.Config, opts Options) (res *Result, err error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	prog := opts.Progress
	if prog == nil {
		prog = progress.New(nil, false)
	}

	res = &Result{Seed: seedFor(cfg, now)}
	logging.Info("Starting run with seed %d", res.Seed)

	if opts.History != nil {
		// Runs are recorded even when ctx is already cancelled.
		hctx := context.WithoutCancel(ctx)
		res.RunID, err = opts.History.CreateRun(hctx, history.Run{
			Seed:       res.Seed,
			Targets:    history.Counts(cfg.Targets),
			ConfigPath: cfg.Path,
			Config:     cfg.Redacted(),
		})
		if err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
		defer func() {
			status, msg := history.StatusSuccess, ""
			if err != nil {
				status, msg = history.StatusFailed, err.Error()
			}
			if herr := opts.History.CompleteRun(hctx, res.RunID, status, res.Counts(), msg); herr != nil {
				logging.Warn("Failed to record run %s: %v", res.RunID, herr)
			}
		}()
	}

	start := time.Now()
	books := load(ctx, "books", cfg.Books)
	students := load(ctx, "students", cfg.Students)
	loans := load(ctx, "loans", cfg.Loans)
	res.Stats.LoadTime = time.Since(start)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	books = normalize(books, cfg.Books.IDColumn)
	students = normalize(students, cfg.Students.IDColumn)

	prog.SetTotal(int64(grow(books, cfg.Targets.Books) + grow(students, cfg.Targets.Students) + cfg.Targets.Loans))
	gen := roles.NewSeeded(res.Seed, now)

	start = time.Now()
	prog.Describe("books")
	if res.Books, err = extend(books, cfg.Targets.Books, roles.KindBook, gen, prog); err != nil {
		return res, err
	}
	prog.Describe("students")
	if res.Students, err = extend(students, cfg.Targets.Students, roles.KindStudent, gen, prog); err != nil {
		return res, err
	}
	prog.Describe("loans")
	res.Loans, err = stitch.Stitch(res.Books, res.Students, loans, cfg.Targets.Loans, stitch.Options{
		Generator: gen,
		Statuses:  cfg.Statuses,
	})
	if err != nil {
		return res, fmt.Errorf("generating loans: %w", err)
	}
	prog.Add(int64(res.Loans.Len()))
	res.Stats.GenerateTime = time.Since(start)
	res.Stats.Rows = prog.Current()
	prog.Finish()

	if opts.DryRun {
		logging.Info("Dry run, nothing written")
		return res, nil
	}

	start = time.Now()
	outputs := []struct {
		name string
		src  config.Source
		over store.Location
		t    table.Table
	}{
		{"books", cfg.Books, cfg.Output.Books, res.Books},
		{"students", cfg.Students, cfg.Output.Students, res.Students},
		{"loans", cfg.Loans, cfg.Output.Loans, res.Loans},
	}
	for _, o := range outputs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		loc := config.OutputLocation(o.src, o.over)
		if len(o.t.Columns) == 0 {
			logging.Warn("Nothing to write for %s, skipping %s", o.name, loc)
			continue
		}
		if err := store.Save(ctx, loc, o.t); err != nil {
			return res, fmt.Errorf("writing %s: %w", o.name, err)
		}
		logging.Info("Wrote %d %s to %s", o.t.Len(), o.name, loc)
	}
	res.Stats.SaveTime = time.Since(start)
	logging.Debug("Run stats: %s", res.Stats.String())
	return res, nil
}

func seedFor(cfg *config.Config, now func() time.Time) uint64 {
	if cfg.Seed != nil {
		return *cfg.Seed
	}
	return uint64(now().UnixNano())
}

// load reads one input table. A table that cannot be read is treated as
// empty so a run can start from nothing.
func load(ctx context.Context, name string, src config.Source) table.Table {
	loc := src.ResolvedLocation()
	t, err := store.Load(ctx, loc)
	if err != nil {
		logging.Warn("Could not read %s from %s, starting empty: %v", name, loc, err)
		return table.Table{}
	}
	logging.Info("Read %d %s (%d columns)", t.Len(), name, len(t.Columns))
	return t
}

// normalize makes sure the identifier column is fully populated. A table
// without any identifier-like column gets idColumn inserted first.
func normalize(t table.Table, idColumn string) table.Table {
	if len(t.Columns) == 0 {
		return t
	}
	col, ok := dataset.FindIdentifier(t.Columns)
	if !ok {
		col = idColumn
		logging.Debug("No identifier column among %v, adding %s", t.Columns, col)
	}
	return dataset.EnsureIdentifier(t, col, 1)
}

func extend(t table.Table, target int, kind roles.Kind, gen *roles.Generator, prog *progress.Tracker) (table.Table, error) {
	out, err := dataset.Extend(t, target, kind, gen)
	if err != nil {
		return table.Table{}, fmt.Errorf("extending %s table: %w", kind, err)
	}
	if added := out.Len() - t.Len(); added > 0 {
		logging.Debug("Added %d %s rows", added, kind)
		prog.Add(int64(added))
	}
	return out, nil
}

func grow(t table.Table, target int) int {
	return max(0, target-t.Len())
}
