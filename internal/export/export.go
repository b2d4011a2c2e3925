// Package export serializes the combined result table to disk.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/evenlangas/paper-filtering/internal/config"
	"github.com/evenlangas/paper-filtering/internal/tabular"
	"github.com/evenlangas/paper-filtering/internal/textutil"
)

var (
	// ErrEmpty reports an attempt to write a table without rows.
	ErrEmpty = errors.New("no rows to write")
	// ErrLocked reports that another process is writing the same output path.
	ErrLocked = errors.New("output file is locked by another process")
)

// Options selects the output encoding.
type Options struct {
	Format    string
	SheetName string
}

// OptionsFromConfig derives writer options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{Format: config.FormatCSV}
	}
	return Options{Format: cfg.Output.Format, SheetName: cfg.Output.SheetName}
}

// Write stores table at path. The file is written to a temporary sibling and
// renamed into place while holding an exclusive lock on path + ".lock", so a
// failed write never leaves a truncated result behind.
func Write(path string, table *tabular.Table, opts Options) error {
	if table.Len() == 0 {
		return ErrEmpty
	}

	encode, err := encoderFor(opts)
	if err != nil {
		return err
	}

	lockPath := path + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := encode(tmp, table); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	committed = true
	return nil
}

func encoderFor(opts Options) (func(io.Writer, *tabular.Table) error, error) {
	switch opts.Format {
	case "", config.FormatCSV:
		return WriteCSV, nil
	case config.FormatXLSX:
		sheet := textutil.SanitizeSheetName(opts.SheetName, "Sheet1")
		return func(w io.Writer, t *tabular.Table) error {
			return WriteXLSX(w, t, sheet)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

// WriteCSV writes a header row followed by every table row as comma-separated
// UTF-8 text prefixed with a byte order mark.
func WriteCSV(w io.Writer, table *tabular.Table) error {
	encoded := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	writer := csv.NewWriter(encoded)
	if err := writer.Write(table.Columns); err != nil {
		return err
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return err
	}
	return encoded.Close()
}

// WriteXLSX writes the table as a single-sheet workbook with a header row.
// All cells are stored as text.
func WriteXLSX(w io.Writer, table *tabular.Table, sheet string) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName(book.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := setRow(book, sheet, 1, table.Columns); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := setRow(book, sheet, i+2, row); err != nil {
			return err
		}
	}
	return book.Write(w)
}

func setRow(book *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := book.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	return nil
}
