package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/evenlangas/paper-filtering/internal/config"
	"github.com/evenlangas/paper-filtering/internal/export"
	"github.com/evenlangas/paper-filtering/internal/extract"
	"github.com/evenlangas/paper-filtering/internal/history"
	"github.com/evenlangas/paper-filtering/internal/logging"
	"github.com/evenlangas/paper-filtering/internal/reference"
	"github.com/evenlangas/paper-filtering/internal/tabular"
)

const (
	stageReference = "reference"
	stageExtract   = "extract"
	stageWrite     = "write"
)

// Run executes one filter pass with cfg.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (summary Summary, err error) {
	summary = Summary{
		RunID:         history.NewRunID(),
		StartedAt:     time.Now(),
		InputDir:      cfg.Paths.InputDir,
		OutputFile:    cfg.Paths.OutputFile,
		ReferenceFile: cfg.Paths.ReferenceFile,
		Threshold:     cfg.Filter.CitationThreshold,
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	base := logging.NewComponentLogger(logger, "pipeline")
	runLogger := logging.WithContext(ctx, base)

	defer func() {
		summary.FinishedAt = time.Now()
		if err != nil {
			summary.Status = history.StatusFailed
			summary.Error = err.Error()
			runLogger.Error("run failed", logging.Error(err))
		}
		if cfg.History.Enabled {
			recordHistory(ctx, cfg.History.Path, summary, runLogger)
		}
	}()

	if err := cfg.ValidateRun(); err != nil {
		return summary, err
	}

	refCtx := logging.WithStage(ctx, stageReference)
	journals, err := reference.Load(cfg.Paths.ReferenceFile, reference.OptionsFromConfig(cfg))
	if err != nil {
		return summary, err
	}
	summary.Journals = journals.Len()
	logging.WithContext(refCtx, base).Info("reference loaded", logging.Args(
		logging.String("path", cfg.Paths.ReferenceFile),
		logging.Int("rows", journals.Rows),
		logging.Int("journals", journals.Len()),
	)...)

	extractCtx := logging.WithStage(ctx, stageExtract)
	files, err := extract.Discover(cfg.Paths.InputDir, cfg.Filter.InputExtension)
	if err != nil {
		return summary, err
	}
	extractor := extract.New(journals, extract.OptionsFromConfig(cfg), logger)
	results, err := extractor.All(extractCtx, files)
	summary.Files = results
	for _, r := range results {
		summary.RowsRead += r.RowsRead
		summary.RowsKept += r.RowsKept
	}
	if err != nil {
		return summary, err
	}

	writeLogger := logging.WithContext(logging.WithStage(ctx, stageWrite), base)
	combined := tabular.Concat(extract.Kept(results)...)
	if combined.Len() == 0 {
		summary.Status = history.StatusNoMatches
		writeLogger.Info("nothing matched", logging.Args(
			logging.Int("files", len(results)),
			logging.Int("skipped", summary.FilesSkipped()),
			logging.String("detail", "no output written"),
		)...)
		return summary, nil
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return summary, err
	}
	if err := export.Write(cfg.Paths.OutputFile, combined, export.OptionsFromConfig(cfg)); err != nil {
		return summary, fmt.Errorf("write %s: %w", cfg.Paths.OutputFile, err)
	}
	summary.Written = true
	summary.Status = history.StatusWritten
	writeLogger.Info("wrote output", logging.Args(
		logging.String("path", cfg.Paths.OutputFile),
		logging.Int("rows", combined.Len()),
		logging.Int("columns", len(combined.Columns)),
	)...)
	return summary, nil
}

func recordHistory(ctx context.Context, path string, summary Summary, logger *slog.Logger) {
	// A cancelled run is still recorded.
	ctx = context.WithoutCancel(ctx)
	store, err := history.Open(ctx, path)
	if err != nil {
		logger.Warn("history unavailable", logging.Args(logging.String("path", path), logging.Error(err))...)
		return
	}
	defer store.Close()
	if err := store.Record(ctx, summary.HistoryRun()); err != nil {
		logger.Warn("history record failed", logging.Error(err))
	}
}
