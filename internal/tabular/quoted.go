package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ReadQuoted parses separator-delimited text with standard double-quote
// handling. Stray quotes inside unquoted fields are kept literally. The first
// record is the header; blank lines are skipped, short rows padded, and
// overlong rows rejected with ErrFieldCount.
func ReadQuoted(r io.Reader, separator rune) (*Table, error) {
	reader := csv.NewReader(NewDecodingReader(r))
	reader.Comma = separator
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	table := New(dedupeHeader(header))

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := table.Append(record); err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return table, nil
}
