// Package reference loads journal ranking tables and exposes the accepted
// journals as a case-insensitive membership set.
package reference

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/evenlangas/paper-filtering/internal/config"
	"github.com/evenlangas/paper-filtering/internal/tabular"
	"github.com/evenlangas/paper-filtering/internal/textutil"
)

var (
	// ErrMissingPath reports a load attempted without a reference file path.
	ErrMissingPath = errors.New("reference file is required for filtering")
	// ErrMissingColumn reports a ranking table lacking the title or quartile column.
	ErrMissingColumn = errors.New("reference column missing")
)

// Options describes the ranking table layout and which quartiles qualify.
type Options struct {
	Delimiter         rune
	TitleColumn       string
	QuartileColumn    string
	AcceptedQuartiles []string
}

// DefaultOptions matches the semicolon-delimited SJR export.
func DefaultOptions() Options {
	cfg := config.Default()
	return OptionsFromConfig(&cfg)
}

// OptionsFromConfig derives loader options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	return Options{
		Delimiter:         cfg.ReferenceDelimiter(),
		TitleColumn:       cfg.Reference.TitleColumn,
		QuartileColumn:    cfg.Reference.QuartileColumn,
		AcceptedQuartiles: append([]string(nil), cfg.Filter.AcceptedQuartiles...),
	}
}

// Set holds lowercase journal titles accepted by the ranking filter.
type Set struct {
	keys map[string]struct{}
	// Rows is the number of data rows read from the ranking table.
	Rows int
	// Qualified is the number of rows whose quartile was accepted.
	Qualified int
}

// NewSet builds a set directly from titles.
func NewSet(titles ...string) *Set {
	s := &Set{keys: make(map[string]struct{}, len(titles))}
	for _, title := range titles {
		s.add(title)
	}
	return s
}

func (s *Set) add(title string) {
	if title == "" {
		return
	}
	s.keys[textutil.JournalKey(title)] = struct{}{}
}

// Contains reports whether journal names an accepted title, ignoring case.
func (s *Set) Contains(journal string) bool {
	if s == nil || journal == "" {
		return false
	}
	_, ok := s.keys[textutil.JournalKey(journal)]
	return ok
}

// Len returns the number of distinct accepted titles.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the accepted titles in sorted order.
func (s *Set) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.keys))
	for key := range s.keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Load reads the ranking table at path. Any failure is fatal to a run.
func Load(path string, opts Options) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrMissingPath
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer file.Close()

	set, err := Parse(file, opts)
	if err != nil {
		return nil, fmt.Errorf("load reference file %s: %w", path, err)
	}
	return set, nil
}

// Parse builds a Set from a ranking table. Only rows whose quartile value
// exactly matches an accepted quartile contribute their title.
func Parse(r io.Reader, opts Options) (*Set, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}
	table, err := tabular.ReadQuoted(r, opts.Delimiter)
	if err != nil {
		return nil, err
	}

	titleIdx := table.Index(opts.TitleColumn)
	quartileIdx := table.Index(opts.QuartileColumn)
	var missing []string
	if titleIdx < 0 {
		missing = append(missing, opts.TitleColumn)
	}
	if quartileIdx < 0 {
		missing = append(missing, opts.QuartileColumn)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s (columns found: %s)", ErrMissingColumn,
			strings.Join(missing, ", "), strings.Join(table.Columns, ", "))
	}

	accepted := make(map[string]struct{}, len(opts.AcceptedQuartiles))
	for _, q := range opts.AcceptedQuartiles {
		accepted[q] = struct{}{}
	}

	set := NewSet()
	set.Rows = table.Len()
	for _, row := range table.Rows {
		if _, ok := accepted[row[quartileIdx]]; !ok {
			continue
		}
		set.Qualified++
		set.add(row[titleIdx])
	}
	return set, nil
}
