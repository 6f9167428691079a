package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/omrozmen/libseed/internal/config"
	"github.com/omrozmen/libseed/internal/history"
	"github.com/omrozmen/libseed/internal/logging"
	"github.com/omrozmen/libseed/internal/pipeline"
	"github.com/omrozmen/libseed/internal/progress"
	"github.com/omrozmen/libseed/internal/report"
	"github.com/omrozmen/libseed/internal/roles"
	"github.com/omrozmen/libseed/internal/store"
	_ "github.com/omrozmen/libseed/internal/store/all"
	"github.com/omrozmen/libseed/internal/util"
	"github.com/omrozmen/libseed/internal/version"
)

// Defaults of the dates command.
const (
	defaultDatesStart = "11/10/2025"
	defaultDatesEnd   = "12/01/2026"
	defaultDatesCount = 120
	defaultDatesOut   = "rastgele_tarihler.xlsx"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(w io.Writer) *cli.App {
	return &cli.App{
		Name:    version.Name,
		Usage:   version.Description,
		Version: version.Version,
		Writer:  w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "libseed.yaml",
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Grow the books, students and loans tables to their targets",
				Action: generate,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "books",
						Usage: "Target number of books",
					},
					&cli.IntFlag{
						Name:  "students",
						Usage: "Target number of students",
					},
					&cli.IntFlag{
						Name:  "loans",
						Usage: "Number of loans to generate",
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "Random seed (default: time based)",
					},
					&cli.StringFlag{
						Name:  "statuses",
						Usage: "Comma-separated loan statuses used when the loans table has none",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Do not draw a progress bar",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Generate without writing any table",
					},
				},
			},
			{
				Name:      "inspect",
				Usage:     "Summarize a table: size, first rows, missing titles or authors, duplicates",
				ArgsUsage: "FILE",
				Action:    inspect,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Table format (default: from the file extension)",
					},
					&cli.StringFlag{
						Name:  "sheet",
						Usage: "Worksheet name for xlsx files",
					},
					&cli.StringFlag{
						Name:  "table",
						Usage: "Table name for database files",
					},
					&cli.IntFlag{
						Name:  "rows",
						Value: 5,
						Usage: "Number of leading rows to show",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 10,
						Usage: "Maximum number of incomplete rows and duplicates to list",
					},
				},
			},
			{
				Name:   "dates",
				Usage:  "Write a list of random dates",
				Action: dates,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "start",
						Value: defaultDatesStart,
						Usage: "First possible date, in --format",
					},
					&cli.StringFlag{
						Name:  "end",
						Value: defaultDatesEnd,
						Usage: "Last possible date, in --format",
					},
					&cli.IntFlag{
						Name:  "count",
						Value: defaultDatesCount,
						Usage: "Number of dates",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: report.DefaultDateFormat,
						Usage: "strftime layout for input and output dates",
					},
					&cli.StringFlag{
						Name:  "out",
						Value: defaultDatesOut,
						Usage: "Output file",
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "Random seed (default: time based)",
					},
				},
			},
			{
				Name:  "history",
				Usage: "List all generation runs, or view details of a specific run",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "run",
						Usage: "Show details for a specific run ID",
					},
				},
				Action: showHistory,
			},
		},
	}
}

// loadConfig reads the global config file and applies the logging flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Logging.Format = c.String("log-format")
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logging.SetLevel(level)
	logging.SetFormat(cfg.Logging.Format)
	return cfg, nil
}

func generate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Override from flags
	if c.IsSet("books") {
		cfg.Targets.Books = c.Int("books")
	}
	if c.IsSet("students") {
		cfg.Targets.Students = c.Int("students")
	}
	if c.IsSet("loans") {
		cfg.Targets.Loans = c.Int("loans")
	}
	if c.IsSet("seed") {
		seed := c.Uint64("seed")
		cfg.Seed = &seed
	}
	if c.IsSet("statuses") {
		cfg.Statuses = util.SplitList(c.String("statuses"))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := pipeline.Options{
		Progress: progress.New(c.App.ErrWriter, !c.Bool("no-progress")),
		DryRun:   c.Bool("dry-run"),
	}
	if cfg.History.IsEnabled() {
		hist, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer hist.Close()
		opts.History = hist
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(c.App.ErrWriter, "\nInterrupted. Stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	res, err := pipeline.Run(ctx, cfg, opts)
	if err != nil {
		return err
	}
	counts := res.Counts()
	fmt.Fprintf(c.App.Writer, "Books: %d, students: %d, loans: %d (seed %d)\n",
		counts.Books, counts.Students, counts.Loans, res.Seed)
	if res.RunID != "" {
		fmt.Fprintf(c.App.Writer, "Run ID: %s\n", res.RunID)
	}
	return nil
}

func inspect(c *cli.Context) error {
	if _, err := loadConfig(c); err != nil {
		return err
	}
	if c.NArg() != 1 {
		return errors.New("inspect takes exactly one FILE argument")
	}
	loc := store.Location{
		Format: c.String("format"),
		Path:   c.Args().First(),
		Sheet:  c.String("sheet"),
		Table:  c.String("table"),
	}
	t, err := store.Load(c.Context, loc)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "File: %s\n", loc)
	report.Summarize(t, c.Int("rows")).Print(c.App.Writer, c.Int("limit"))
	return nil
}

// dateSampleSize is how many generated dates are echoed after saving.
const dateSampleSize = 10

func dates(c *cli.Context) error {
	if _, err := loadConfig(c); err != nil {
		return err
	}
	format := c.String("format")
	start, err := report.ParseDate(format, c.String("start"))
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := report.ParseDate(format, c.String("end"))
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	seed := uint64(time.Now().UnixNano())
	if c.IsSet("seed") {
		seed = c.Uint64("seed")
	}
	list, err := report.RandomDates(roles.NewRand(seed), start, end, c.Int("count"))
	if err != nil {
		return err
	}

	loc := store.Location{Path: c.String("out")}
	tbl := report.DatesTable(list, format)
	if err := store.Save(c.Context, loc, tbl); err != nil {
		return err
	}
	w := c.App.Writer
	fmt.Fprintf(w, "Wrote %d dates to %s\n", len(list), loc.Path)
	fmt.Fprintf(w, "\nSample:\n%s\n", report.DateColumn)
	for _, r := range tbl.Rows[:min(dateSampleSize, tbl.Len())] {
		fmt.Fprintln(w, r.Get(report.DateColumn).String())
	}
	return nil
}

func showHistory(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer hist.Close()

	// If --run flag is provided, show details for that specific run
	if runID := c.String("run"); runID != "" {
		run, err := hist.GetRunByID(c.Context, runID)
		if err != nil {
			return err
		}
		return history.PrintRun(c.App.Writer, *run)
	}

	runs, err := hist.GetAllRuns(c.Context)
	if err != nil {
		return err
	}
	return history.PrintRuns(c.App.Writer, runs)
}
