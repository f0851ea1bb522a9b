package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/tracing"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var (
		runID  string
		events int
	)

	showCmd := &cobra.Command{
		Use:   "show <db>",
		Short: "Show the runs recorded in a database.",
		Long: "`show results.sqlite3` lists the tables of a recording and " +
			"its runs. With --run, the first events of that run are listed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := datarecording.NewReader(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			reader.MapTable(tracing.RunTable, tracing.RunEntry{})
			reader.MapTable(tracing.EventTable, tracing.EventEntry{})

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			if err := showTables(ctx, w, reader); err != nil {
				return err
			}

			if err := showRuns(ctx, w, reader); err != nil {
				return err
			}

			if runID != "" {
				if err := showEvents(ctx, w, reader, runID, events); err != nil {
					return err
				}
			}

			return w.Flush()
		},
	}

	showCmd.Flags().StringVar(&runID, "run", "", "list the events of this run")
	showCmd.Flags().IntVar(&events, "events", 20, "number of events to list")

	return showCmd
}

func showTables(
	ctx context.Context,
	w *tabwriter.Writer,
	reader datarecording.DataReader,
) error {
	tables, err := reader.StoredTables(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "TABLE\tROWS")
	for _, t := range tables {
		n, err := reader.Count(ctx, t)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\t%d\n", t, n)
	}

	fmt.Fprintln(w)

	return nil
}

func hasTable(
	ctx context.Context,
	reader datarecording.DataReader,
	name string,
) (bool, error) {
	tables, err := reader.StoredTables(ctx)
	if err != nil {
		return false, err
	}

	for _, t := range tables {
		if t == name {
			return true, nil
		}
	}

	return false, nil
}

func showRuns(
	ctx context.Context,
	w *tabwriter.Writer,
	reader datarecording.DataReader,
) error {
	ok, err := hasTable(ctx, reader, tracing.RunTable)
	if err != nil || !ok {
		return err
	}

	rows, _, err := reader.Query(ctx, tracing.RunTable, datarecording.QueryParams{})
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "RUN\tPOLICY\tFRAMES\tREFERENCES\tFAULTS\tRATE\tDISK WRITES")
	for _, row := range rows {
		r := row.(*tracing.RunEntry)

		writes := "-"
		if r.TracksWrites {
			writes = fmt.Sprint(r.DiskWrites)
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.2f%%\t%s\n",
			r.ID, r.Policy, r.Capacity, r.References, r.Faults,
			r.FaultRate, writes)
	}

	return nil
}

func showEvents(
	ctx context.Context,
	w *tabwriter.Writer,
	reader datarecording.DataReader,
	runID string,
	limit int,
) error {
	ok, err := hasTable(ctx, reader, tracing.EventTable)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("events were not recorded")
	}

	rows, total, err := reader.Query(ctx, tracing.EventTable,
		datarecording.QueryParams{
			Where:   "RunID = ?",
			Args:    []any{runID},
			OrderBy: "rowid",
			Limit:   limit,
		})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d events in run %s\n", total, runID)
	fmt.Fprintln(w, "STEP\tEVENT\tPAGE\tACCESS\tFRAME\tEVICTED\tDETAIL")
	for _, row := range rows {
		e := row.(*tracing.EventEntry)

		access := "-"
		switch {
		case e.Page < 0:
		case e.Write:
			access = "w"
		default:
			access = "r"
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Step, e.Kind, pageOrDash(e.Page), access,
			pageOrDash(e.Frame), pageOrDash(e.EvictedPage), e.Detail)
	}

	return nil
}

func pageOrDash(n int) string {
	if n < 0 {
		return "-"
	}

	return fmt.Sprint(n)
}
