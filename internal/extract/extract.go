package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/evenlangas/paper-filtering/internal/config"
	"github.com/evenlangas/paper-filtering/internal/logging"
	"github.com/evenlangas/paper-filtering/internal/tabular"
)

// ErrMissingColumn reports an export file lacking a required field.
var ErrMissingColumn = errors.New("missing required columns")

// Journals answers case-insensitive journal membership.
type Journals interface {
	Contains(journal string) bool
}

// Options controls parsing and the record predicate.
type Options struct {
	Threshold     float64
	CitationField string
	JournalField  string
	Extension     string
	Delimiter     rune
	Escape        rune
}

// DefaultOptions matches Web of Science tab-delimited exports.
func DefaultOptions() Options {
	cfg := config.Default()
	return OptionsFromConfig(&cfg)
}

// OptionsFromConfig derives extraction options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	return Options{
		Threshold:     cfg.Filter.CitationThreshold,
		CitationField: cfg.Filter.CitationField,
		JournalField:  cfg.Filter.JournalField,
		Extension:     cfg.Filter.InputExtension,
		Delimiter:     cfg.InputDelimiter(),
		Escape:        cfg.InputEscape(),
	}
}

// FileResult is the outcome of extracting one export file.
type FileResult struct {
	Path    string
	Skipped bool
	Reason  string
	// Columns holds the header of the file as read, for diagnostics.
	Columns  []string
	RowsRead int
	RowsKept int
	// Table holds the kept records. It is empty (not nil) for a processed
	// file with no matches and nil for a skipped file.
	Table *tabular.Table
}

// Name returns the base name of the file.
func (r FileResult) Name() string {
	return filepath.Base(r.Path)
}

// Extractor applies the record predicate to export files.
type Extractor struct {
	journals Journals
	opts     Options
	logger   *slog.Logger
}

// New constructs an Extractor. A nil logger discards diagnostics.
func New(journals Journals, opts Options, logger *slog.Logger) *Extractor {
	return &Extractor{
		journals: journals,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "extract"),
	}
}

// All extracts every path in order. It stops early only when ctx is done.
func (e *Extractor) All(ctx context.Context, paths []string) ([]FileResult, error) {
	logger := logging.WithContext(ctx, e.logger)
	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		logger.Info("processing file", logging.String(logging.FieldFile, filepath.Base(path)))
		result := e.File(path)
		if result.Skipped {
			logger.Warn("skipping file", logging.Args(
				logging.String(logging.FieldFile, result.Name()),
				logging.String(logging.FieldReason, result.Reason),
				logging.Strings("columns", result.Columns),
			)...)
		} else {
			logger.Debug("file filtered", logging.Args(
				logging.String(logging.FieldFile, result.Name()),
				logging.Int("rows_read", result.RowsRead),
				logging.Int("rows_kept", result.RowsKept),
			)...)
		}
		results = append(results, result)
	}
	return results, nil
}

// File reads one export file and filters its records. Failures are recorded
// on the result rather than returned.
func (e *Extractor) File(path string) FileResult {
	result := FileResult{Path: path}

	table, err := e.read(path)
	if err != nil {
		result.Skipped = true
		result.Reason = err.Error()
		return result
	}
	result.Columns = table.Columns
	result.RowsRead = table.Len()

	kept, err := Filter(table, e.journals, e.opts)
	if err != nil {
		result.Skipped = true
		result.Reason = err.Error()
		return result
	}
	result.Table = kept
	result.RowsKept = kept.Len()
	return result
}

func (e *Extractor) read(path string) (*tabular.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	table, err := tabular.ReadDelimited(file, tabular.DelimitedOptions{
		Delimiter: e.opts.Delimiter,
		Escape:    e.opts.Escape,
	})
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return table, nil
}

// Filter keeps rows whose citation count exceeds the threshold and whose
// journal is accepted. Kept rows carry the citation value in canonical
// numeric form. The input table is not modified.
func Filter(table *tabular.Table, journals Journals, opts Options) (*tabular.Table, error) {
	var missing []string
	for _, name := range []string{opts.CitationField, opts.JournalField} {
		if !table.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	citationIdx := table.Index(opts.CitationField)
	journalIdx := table.Index(opts.JournalField)

	out := tabular.New(table.Columns)
	for _, row := range table.Rows {
		citations, ok := ParseCitations(row[citationIdx])
		if !ok || !(citations > opts.Threshold) {
			continue
		}
		if journals == nil || !journals.Contains(row[journalIdx]) {
			continue
		}
		kept := append([]string(nil), row...)
		kept[citationIdx] = FormatCitations(citations)
		out.Rows = append(out.Rows, kept)
	}
	return out, nil
}

// ParseCitations coerces a citation field to a number. Empty, non-numeric,
// and NaN values report ok=false.
func ParseCitations(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// FormatCitations renders a coerced citation count without trailing zeros.
func FormatCitations(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Kept returns the non-nil tables of processed files in order.
func Kept(results []FileResult) []*tabular.Table {
	tables := make([]*tabular.Table, 0, len(results))
	for _, r := range results {
		if r.Table != nil {
			tables = append(tables, r.Table)
		}
	}
	return tables
}
