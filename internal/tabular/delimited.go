package tabular

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DelimitedOptions controls ReadDelimited tokenization.
type DelimitedOptions struct {
	// Delimiter separates fields. Defaults to tab.
	Delimiter rune
	// Escape, when non-zero, makes the following character literal, including
	// delimiters and line breaks. The escape character itself is dropped.
	Escape rune
}

// ReadDelimited parses delimiter-separated text where quote characters carry
// no meaning. The first non-blank line is the header; repeated header names
// are suffixed (.1, .2, ...). Blank lines are skipped, short rows are padded
// with missing values, a single empty trailing field is dropped, and a row
// with too many fields fails the whole read with ErrFieldCount.
func ReadDelimited(r io.Reader, opts DelimitedOptions) (*Table, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = '\t'
	}
	if opts.Escape == opts.Delimiter {
		return nil, errors.New("escape character must differ from delimiter")
	}

	sc := &lineScanner{
		r:         bufio.NewReader(NewDecodingReader(r)),
		delimiter: opts.Delimiter,
		escape:    opts.Escape,
	}

	var table *Table
	for {
		fields, err := sc.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", sc.line, err)
		}
		if fields == nil {
			continue
		}
		if table == nil {
			table = New(dedupeHeader(fields))
			continue
		}
		// Exports commonly terminate records with a trailing delimiter.
		if n := len(table.Columns); len(fields) == n+1 && fields[n] == "" {
			fields = fields[:n]
		}
		if err := table.Append(fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", sc.line, err)
		}
	}

	if table == nil {
		return nil, errors.New("no header row")
	}
	return table, nil
}

type lineScanner struct {
	r         *bufio.Reader
	delimiter rune
	escape    rune
	line      int
}

// next returns the fields of the next record, nil for a blank line, or
// io.EOF once input is exhausted.
func (s *lineScanner) next() ([]string, error) {
	var (
		fields  []string
		field   strings.Builder
		started bool
	)
	// A carriage return is held back until we know it is not part of a CRLF.
	pendingCR := false

	flush := func() {
		if pendingCR {
			field.WriteRune('\r')
			pendingCR = false
		}
	}

	s.line++
scan:
	for {
		ch, _, err := s.r.ReadRune()
		if errors.Is(err, io.EOF) {
			if !started {
				return nil, io.EOF
			}
			break
		}
		if err != nil {
			return nil, err
		}
		started = true

		switch {
		case s.escape != 0 && ch == s.escape:
			flush()
			escaped, _, err := s.r.ReadRune()
			if errors.Is(err, io.EOF) {
				field.WriteRune(ch)
				continue
			}
			if err != nil {
				return nil, err
			}
			if escaped == '\n' {
				s.line++
			}
			field.WriteRune(escaped)
		case ch == '\r':
			flush()
			pendingCR = true
		case ch == '\n':
			pendingCR = false
			break scan
		case ch == s.delimiter:
			flush()
			fields = append(fields, field.String())
			field.Reset()
		default:
			flush()
			field.WriteRune(ch)
		}
	}

	if len(fields) == 0 && field.Len() == 0 {
		return nil, nil
	}
	fields = append(fields, field.String())
	return fields, nil
}
