package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evenlangas/paper-filtering/internal/config"
	"github.com/evenlangas/paper-filtering/internal/pipeline"
)

type runFlags struct {
	input     string
	output    string
	reference string
	format    string
	threshold float64
	jsonOut   bool
	noHistory bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Filter export files and write the combined result",
		Long: `Reads every export file in the input directory, keeps records whose
citation count exceeds the threshold and whose journal is ranked in an
accepted quartile, and writes the combined records to the output file.

No output file is written when nothing matches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyRunFlags(cmd, *base, flags)
			if err != nil {
				return err
			}

			logOut := cmd.OutOrStdout()
			if flags.jsonOut {
				logOut = cmd.ErrOrStderr()
			}
			logger, err := ctx.newLogger(cfg, logOut)
			if err != nil {
				return err
			}

			summary, err := pipeline.Run(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			if flags.jsonOut {
				return writeJSON(cmd, newRunView(summary))
			}
			printRunSummary(cmd, summary)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.input, "input", "i", "", "Directory containing tab-delimited export files")
	f.StringVarP(&flags.output, "output", "o", "", "Output file path")
	f.StringVarP(&flags.reference, "reference", "r", "", "Journal ranking file (semicolon-delimited)")
	f.Float64VarP(&flags.threshold, "threshold", "t", config.DefaultCitationThreshold, "Keep records with more citations than this")
	f.StringVar(&flags.format, "format", "", "Output format (csv, xlsx)")
	f.BoolVar(&flags.jsonOut, "json", false, "Print the run summary as JSON")
	f.BoolVar(&flags.noHistory, "no-history", false, "Do not record this run in the history ledger")
	return cmd
}

// applyRunFlags overlays explicitly set flags on a copy of the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg config.Config, flags runFlags) (*config.Config, error) {
	set := cmd.Flags().Changed
	if set("input") {
		cfg.Paths.InputDir = flags.input
	}
	if set("output") {
		cfg.Paths.OutputFile = flags.output
	}
	if set("reference") {
		cfg.Paths.ReferenceFile = flags.reference
	}
	if set("threshold") {
		cfg.Filter.CitationThreshold = flags.threshold
	}
	if set("format") {
		cfg.Output.Format = flags.format
	}
	if flags.noHistory {
		cfg.History.Enabled = false
	}
	cfg.Filter.AcceptedQuartiles = append([]string(nil), cfg.Filter.AcceptedQuartiles...)

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func printRunSummary(cmd *cobra.Command, summary pipeline.Summary) {
	out := cmd.OutOrStdout()
	if len(summary.Files) > 0 {
		rows := make([][]string, 0, len(summary.Files))
		for _, f := range summary.Files {
			status := "processed"
			if f.Skipped {
				status = "skipped: " + truncate(f.Reason, 60)
			}
			rows = append(rows, []string{f.Name(), strconv.Itoa(f.RowsRead), strconv.Itoa(f.RowsKept), status})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"File", "Read", "Kept", "Status"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
		))
	}

	if summary.Written {
		fmt.Fprintf(out, "Wrote %d row(s) to %s\n", summary.RowsKept, summary.OutputFile)
	} else {
		fmt.Fprintln(out, "Nothing matched; no output written")
	}
	fmt.Fprintf(out, "Files: %d processed, %d skipped; threshold %s; run %s (%s)\n",
		len(summary.Files)-summary.FilesSkipped(),
		summary.FilesSkipped(),
		formatNumber(summary.Threshold),
		summary.RunID,
		summary.Duration().Round(time.Millisecond),
	)
}

type runFileView struct {
	File     string `json:"file"`
	Skipped  bool   `json:"skipped"`
	Reason   string `json:"reason,omitempty"`
	RowsRead int    `json:"rows_read"`
	RowsKept int    `json:"rows_kept"`
}

type runView struct {
	RunID         string        `json:"run_id"`
	Status        string        `json:"status"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
	InputDir      string        `json:"input_dir"`
	OutputFile    string        `json:"output_file"`
	ReferenceFile string        `json:"reference_file"`
	Threshold     float64       `json:"threshold"`
	Journals      int           `json:"journals"`
	Written       bool          `json:"written"`
	RowsRead      int           `json:"rows_read"`
	RowsKept      int           `json:"rows_kept"`
	Files         []runFileView `json:"files"`
}

func newRunView(s pipeline.Summary) runView {
	view := runView{
		RunID:         s.RunID,
		Status:        string(s.Status),
		StartedAt:     s.StartedAt.UTC(),
		FinishedAt:    s.FinishedAt.UTC(),
		InputDir:      s.InputDir,
		OutputFile:    s.OutputFile,
		ReferenceFile: s.ReferenceFile,
		Threshold:     s.Threshold,
		Journals:      s.Journals,
		Written:       s.Written,
		RowsRead:      s.RowsRead,
		RowsKept:      s.RowsKept,
		Files:         make([]runFileView, 0, len(s.Files)),
	}
	for _, f := range s.Files {
		view.Files = append(view.Files, runFileView{
			File:     f.Name(),
			Skipped:  f.Skipped,
			Reason:   f.Reason,
			RowsRead: f.RowsRead,
			RowsKept: f.RowsKept,
		})
	}
	return view
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
