package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evenlangas/paper-filtering/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent filter runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd, ctx)
			if err != nil || store == nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				views := make([]historyView, 0, len(runs))
				for _, run := range runs {
					views = append(views, newHistoryView(run))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					string(run.Status),
					formatNumber(run.Threshold),
					fmt.Sprintf("%d/%d", run.FilesSeen-run.FilesSkipped, run.FilesSeen),
					strconv.Itoa(run.RowsKept),
					truncate(run.OutputFile, 40),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Status", "Threshold", "Files", "Kept", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print runs as JSON")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show per-file outcomes for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd, ctx)
			if err != nil || store == nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:       %s\n", run.ID)
			fmt.Fprintf(out, "Status:    %s\n", run.Status)
			fmt.Fprintf(out, "Started:   %s (%s)\n", run.StartedAt.Local().Format(time.RFC3339), run.Duration().Round(time.Millisecond))
			fmt.Fprintf(out, "Input:     %s\n", run.InputDir)
			fmt.Fprintf(out, "Reference: %s\n", run.ReferenceFile)
			fmt.Fprintf(out, "Output:    %s\n", run.OutputFile)
			fmt.Fprintf(out, "Threshold: %s\n", formatNumber(run.Threshold))
			if run.Error != "" {
				fmt.Fprintf(out, "Error:     %s\n", run.Error)
			}
			if len(run.Files) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(run.Files))
			for _, f := range run.Files {
				rows = append(rows, []string{
					strconv.Itoa(f.Position + 1),
					f.File,
					string(f.Status),
					strconv.Itoa(f.RowsRead),
					strconv.Itoa(f.RowsKept),
					truncate(f.Reason, 60),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "File", "Status", "Read", "Kept", "Reason"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

// openHistory opens the configured ledger. It returns a nil store (and
// prints a notice) when no ledger exists yet.
func openHistory(cmd *cobra.Command, ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.History.Path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(cmd.OutOrStdout(), "No history ledger at %s\n", cfg.History.Path)
		return nil, nil
	}
	return history.Open(cmd.Context(), cfg.History.Path)
}

type historyView struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Status        string    `json:"status"`
	InputDir      string    `json:"input_dir"`
	OutputFile    string    `json:"output_file"`
	ReferenceFile string    `json:"reference_file"`
	Threshold     float64   `json:"threshold"`
	FilesSeen     int       `json:"files_seen"`
	FilesSkipped  int       `json:"files_skipped"`
	RowsRead      int       `json:"rows_read"`
	RowsKept      int       `json:"rows_kept"`
	Error         string    `json:"error,omitempty"`
}

func newHistoryView(run history.Run) historyView {
	return historyView{
		ID:            run.ID,
		StartedAt:     run.StartedAt,
		FinishedAt:    run.FinishedAt,
		Status:        string(run.Status),
		InputDir:      run.InputDir,
		OutputFile:    run.OutputFile,
		ReferenceFile: run.ReferenceFile,
		Threshold:     run.Threshold,
		FilesSeen:     run.FilesSeen,
		FilesSkipped:  run.FilesSkipped,
		RowsRead:      run.RowsRead,
		RowsKept:      run.RowsKept,
		Error:         run.Error,
	}
}
