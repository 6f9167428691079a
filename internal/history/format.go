package history

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// PrintRuns writes a one-line-per-run summary table.
func PrintRuns(w io.Writer, runs []Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSTARTED\tSTATUS\tBOOKS\tSTUDENTS\tLOANS\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status,
			r.Rows.Books, r.Rows.Students, r.Rows.Loans, formatDuration(r))
	}
	return tw.Flush()
}

// PrintRun writes the details of a single run.
func PrintRun(w io.Writer, r Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run ID:\t%s\n", r.ID)
	fmt.Fprintf(tw, "Status:\t%s\n", r.Status)
	fmt.Fprintf(tw, "Started:\t%s\n", r.StartedAt.Local().Format(time.RFC3339))
	if r.CompletedAt != nil {
		fmt.Fprintf(tw, "Completed:\t%s\n", r.CompletedAt.Local().Format(time.RFC3339))
		fmt.Fprintf(tw, "Duration:\t%s\n", formatDuration(r))
	}
	fmt.Fprintf(tw, "Seed:\t%d\n", r.Seed)
	fmt.Fprintf(tw, "Targets:\tbooks=%d students=%d loans=%d\n", r.Targets.Books, r.Targets.Students, r.Targets.Loans)
	fmt.Fprintf(tw, "Rows written:\tbooks=%d students=%d loans=%d\n", r.Rows.Books, r.Rows.Students, r.Rows.Loans)
	if r.ConfigPath != "" {
		fmt.Fprintf(tw, "Config file:\t%s\n", r.ConfigPath)
	}
	if r.Error != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", r.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if r.Config != "" {
		_, err := fmt.Fprintf(w, "\nConfiguration:\n%s", r.Config)
		return err
	}
	return nil
}

func formatDuration(r Run) string {
	if r.CompletedAt == nil {
		return "-"
	}
	return r.Duration().Round(time.Millisecond).String()
}
