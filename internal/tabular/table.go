package tabular

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrFieldCount reports a row with more fields than the header declares.
var ErrFieldCount = errors.New("row has more fields than header")

// Table is an ordered set of text rows sharing one header. Every row has
// exactly len(Columns) values; an empty string is a missing value.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New returns an empty table with the given header.
func New(columns []string) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, name := range t.Columns {
		if _, exists := t.index[name]; !exists {
			t.index[name] = i
		}
	}
}

// Index returns the position of column name, or -1 when absent.
func (t *Table) Index(name string) int {
	if t == nil {
		return -1
	}
	if t.index == nil {
		t.reindex()
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Has reports whether every named column is present.
func (t *Table) Has(names ...string) bool {
	for _, name := range names {
		if t.Index(name) < 0 {
			return false
		}
	}
	return true
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Append adds a row, padding short rows with missing values. Rows longer
// than the header are rejected with ErrFieldCount.
func (t *Table) Append(row []string) error {
	if len(row) > len(t.Columns) {
		return fmt.Errorf("%w: expected %d, saw %d", ErrFieldCount, len(t.Columns), len(row))
	}
	aligned := make([]string, len(t.Columns))
	copy(aligned, row)
	t.Rows = append(t.Rows, aligned)
	return nil
}

// Filter returns a new table holding the rows for which keep returns true,
// in their original order.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := New(t.Columns)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Concat appends tables in order. The result header is the union of all
// headers in first-seen order; rows from tables lacking a column get a
// missing value there. Nil tables are ignored.
func Concat(tables ...*Table) *Table {
	var columns []string
	seen := map[string]struct{}{}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, name := range t.Columns {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			columns = append(columns, name)
		}
	}

	out := New(columns)
	for _, t := range tables {
		if t == nil {
			continue
		}
		positions := make([]int, len(t.Columns))
		for i, name := range t.Columns {
			positions[i] = out.Index(name)
		}
		for _, row := range t.Rows {
			aligned := make([]string, len(columns))
			for i, value := range row {
				aligned[positions[i]] = value
			}
			out.Rows = append(out.Rows, aligned)
		}
	}
	return out
}

// dedupeHeader renames repeated column names to name.1, name.2, ... so that
// every column stays addressable.
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]struct{}, len(header))
	counts := make(map[string]int, len(header))
	for i, name := range header {
		candidate := name
		for {
			if _, taken := used[candidate]; !taken {
				break
			}
			counts[name]++
			candidate = name + "." + strconv.Itoa(counts[name])
		}
		used[candidate] = struct{}{}
		out[i] = candidate
	}
	return out
}
