package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/omrozmen/libseed/internal/report"
	"github.com/omrozmen/libseed/internal/roles"
	"github.com/omrozmen/libseed/internal/store"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(&out)
	app.ErrWriter = &out
	err := app.Run(append([]string{"libseed"}, args...))
	return out.String(), err
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	books := filepath.Join(dir, "kitaplar.csv")
	if err := os.WriteFile(books, []byte("KitapID,Başlık,Yazar\n1,Sefiller,Victor Hugo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := fmt.Sprintf(`
targets:
  books: 6
  students: 4
  loans: 5
books:
  path: %q
students:
  path: %q
loans:
  path: %q
history:
  path: %q
`, books, filepath.Join(dir, "ogrenciler.csv"), filepath.Join(dir, "odunc.csv"), filepath.Join(dir, "history.db"))
	path := filepath.Join(dir, "libseed.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCLIFlagParsing(t *testing.T) {
	app := newApp(&bytes.Buffer{})

	commands := make(map[string]*cli.Command)
	for _, cmd := range app.Commands {
		commands[cmd.Name] = cmd
	}

	tests := []struct {
		command string
		flags   []string
	}{
		{"generate", []string{"books", "students", "loans", "seed", "statuses", "no-progress", "dry-run"}},
		{"inspect", []string{"format", "sheet", "table", "rows", "limit"}},
		{"dates", []string{"start", "end", "count", "format", "out", "seed"}},
		{"history", []string{"run"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			cmd, ok := commands[tt.command]
			if !ok {
				t.Fatalf("command %q not found", tt.command)
			}
			names := make(map[string]bool)
			for _, f := range cmd.Flags {
				for _, n := range f.Names() {
					names[n] = true
				}
			}
			for _, want := range tt.flags {
				if !names[want] {
					t.Errorf("command %q missing flag --%s", tt.command, want)
				}
			}
		})
	}

	global := make(map[string]bool)
	for _, f := range app.Flags {
		for _, n := range f.Names() {
			global[n] = true
		}
	}
	for _, want := range []string{"config", "c", "log-level", "log-format"} {
		if !global[want] {
			t.Errorf("missing global flag %q", want)
		}
	}
}

func TestGenerateAndHistory(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	out, err := runApp(t, "--config", cfgPath, "--log-level", "error",
		"generate", "--seed", "3", "--no-progress", "--loans", "7", "--statuses", "Verildi, Kayıp")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "Books: 6, students: 4, loans: 7 (seed 3)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	loans, err := store.Load(context.Background(), store.Location{Path: filepath.Join(dir, "odunc.csv")})
	if err != nil {
		t.Fatal(err)
	}
	if loans.Len() != 7 {
		t.Errorf("loans = %d, want 7", loans.Len())
	}
	for _, r := range loans.Rows {
		if s := r.Get("Durum").String(); s != "Verildi" && s != "Kayıp" {
			t.Errorf("unexpected status %q", s)
		}
	}

	out, err = runApp(t, "--config", cfgPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "success") {
		t.Errorf("history does not list the run:\n%s", out)
	}

	fields := strings.Fields(strings.Split(out, "\n")[1])
	out, err = runApp(t, "--config", cfgPath, "history", "--run", fields[0])
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	if !strings.Contains(out, "Seed:") || !strings.Contains(out, "loans=7") {
		t.Errorf("unexpected run details:\n%s", out)
	}

	if _, err := runApp(t, "--config", cfgPath, "history", "--run", "nope"); err == nil {
		t.Error("history --run with unknown id should fail")
	}
}

func TestGenerateRejectsNegativeTarget(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	_, err := runApp(t, "--config", cfgPath, "generate", "--no-progress", "--books", "-1")
	if err == nil || !strings.Contains(err.Error(), "targets must not be negative") {
		t.Errorf("err = %v", err)
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kitaplar.csv")
	data := "Başlık,Yazar\nSefiller,Victor Hugo\nNutuk,\nSefiller,Victor Hugo\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runApp(t, "--config", filepath.Join(dir, "none.yaml"), "inspect", "--rows", "2", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Rows: 3", "row 3: Nutuk | EMPTY", "Sefiller | Victor Hugo -> 2 times"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := runApp(t, "--config", filepath.Join(dir, "none.yaml"), "inspect"); err == nil {
		t.Error("inspect without a file should fail")
	}
}

func TestDates(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tarihler.csv")

	stdout, err := runApp(t, "--config", filepath.Join(dir, "none.yaml"),
		"dates", "--start", "01/02/2026", "--end", "10/02/2026", "--count", "12", "--seed", "5", "--out", out)
	if err != nil {
		t.Fatalf("dates: %v", err)
	}
	if !strings.Contains(stdout, "Wrote 12 dates") {
		t.Errorf("unexpected output %q", stdout)
	}

	tbl, err := store.Load(context.Background(), store.Location{Path: out})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 12 || tbl.Columns[0] != report.DateColumn {
		t.Fatalf("unexpected table %v with %d rows", tbl.Columns, tbl.Len())
	}
	lo := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	// The seed draws from the same source as generate.
	want, err := report.RandomDates(roles.NewRand(5), lo, hi, 12)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range tbl.Rows {
		if got, exp := r.Get(report.DateColumn).String(), want[i].Format("02/01/2006"); got != exp {
			t.Errorf("row %d = %s, want %s", i, got, exp)
		}
	}

	// The first ten dates are echoed after the file is written.
	_, sample, ok := strings.Cut(stdout, "Sample:\n")
	if !ok {
		t.Fatalf("no sample in output %q", stdout)
	}
	lines := strings.Split(strings.TrimSpace(sample), "\n")
	if len(lines) != 11 || lines[0] != report.DateColumn {
		t.Fatalf("sample = %q, want the column name and 10 dates", lines)
	}
	for i, line := range lines[1:] {
		if line != tbl.Rows[i].Get(report.DateColumn).String() {
			t.Errorf("sample line %d = %q, want %q", i, line, tbl.Rows[i].Get(report.DateColumn))
		}
	}

	for _, r := range tbl.Rows {
		d, err := report.ParseDate(report.DefaultDateFormat, r.Get(report.DateColumn).String())
		if err != nil {
			t.Fatal(err)
		}
		if d.Before(lo) || d.After(hi) {
			t.Errorf("date %s outside range", d.Format(time.DateOnly))
		}
	}
}

func TestDatesErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "none.yaml")
	out := filepath.Join(dir, "tarihler.csv")

	tests := []struct {
		name string
		args []string
	}{
		{"end before start", []string{"--start", "10/02/2026", "--end", "01/02/2026"}},
		{"zero count", []string{"--count", "0"}},
		{"bad start", []string{"--start", "2026-02-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg, "dates", "--out", out}, tt.args...)
			if _, err := runApp(t, args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no file should be written on error")
	}
}
