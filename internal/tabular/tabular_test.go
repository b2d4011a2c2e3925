package tabular

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func TestReadDelimitedBasics(t *testing.T) {
	input := "PT\tTI\tSO\tZ9\r\n" +
		"J\t\"Quoted\" title\tNature\t25\r\n" +
		"\r\n" +
		"J\tShort row\tCell\n"

	table, err := ReadDelimited(strings.NewReader(input), DelimitedOptions{Delimiter: '\t', Escape: '\\'})
	if err != nil {
		t.Fatalf("ReadDelimited returned error: %v", err)
	}
	if got := strings.Join(table.Columns, ","); got != "PT,TI,SO,Z9" {
		t.Fatalf("unexpected header %q", got)
	}
	want := [][]string{
		{"J", `"Quoted" title`, "Nature", "25"},
		{"J", "Short row", "Cell", ""},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Fatalf("unexpected rows:\n got %q\nwant %q", table.Rows, want)
	}
}

func TestReadDelimitedEscapes(t *testing.T) {
	input := "A\tB\n" +
		"tab\\\there\tback\\\\slash\n" +
		"line\\\nbreak\tx\n"

	table, err := ReadDelimited(strings.NewReader(input), DelimitedOptions{Delimiter: '\t', Escape: '\\'})
	if err != nil {
		t.Fatalf("ReadDelimited returned error: %v", err)
	}
	want := [][]string{
		{"tab\there", `back\slash`},
		{"line\nbreak", "x"},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Fatalf("unexpected rows:\n got %q\nwant %q", table.Rows, want)
	}
}

func TestReadDelimitedTrailingDelimiterAndDuplicates(t *testing.T) {
	input := "A\tA\tB\n1\t2\t3\t\n"
	table, err := ReadDelimited(strings.NewReader(input), DelimitedOptions{})
	if err != nil {
		t.Fatalf("ReadDelimited returned error: %v", err)
	}
	if got := strings.Join(table.Columns, ","); got != "A,A.1,B" {
		t.Fatalf("unexpected header %q", got)
	}
	if !reflect.DeepEqual(table.Rows, [][]string{{"1", "2", "3"}}) {
		t.Fatalf("unexpected rows %q", table.Rows)
	}
}

func TestReadDelimitedRejectsOverlongRow(t *testing.T) {
	input := "A\tB\n1\t2\n1\t2\t3\n"
	_, err := ReadDelimited(strings.NewReader(input), DelimitedOptions{})
	if !errors.Is(err, ErrFieldCount) {
		t.Fatalf("expected ErrFieldCount, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}

func TestReadDelimitedEmptyInput(t *testing.T) {
	if _, err := ReadDelimited(strings.NewReader("\n\n"), DelimitedOptions{}); err == nil {
		t.Fatal("expected error for input without header")
	}
}

func TestReadDelimitedDecodesByteOrderMarks(t *testing.T) {
	utf8BOM := "\ufeffZ9\tSO\n5\tNature\n"
	table, err := ReadDelimited(strings.NewReader(utf8BOM), DelimitedOptions{})
	if err != nil {
		t.Fatalf("ReadDelimited returned error: %v", err)
	}
	if table.Columns[0] != "Z9" {
		t.Fatalf("expected BOM stripped from first column, got %q", table.Columns[0])
	}

	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	utf16, err := encoder.String("Z9\tSO\n7\tCell\n")
	if err != nil {
		t.Fatalf("encode utf16: %v", err)
	}
	table, err = ReadDelimited(bytes.NewReader([]byte(utf16)), DelimitedOptions{})
	if err != nil {
		t.Fatalf("ReadDelimited utf16 returned error: %v", err)
	}
	if !reflect.DeepEqual(table.Rows, [][]string{{"7", "Cell"}}) {
		t.Fatalf("unexpected utf16 rows %q", table.Rows)
	}
}

func TestReadQuoted(t *testing.T) {
	input := "Rank;Title;SJR Best Quartile\n" +
		"1;\"Nature; International\";Q1\n" +
		"2;Cell \"Press\";Q1\n" +
		"\n" +
		"3;Short\n"
	table, err := ReadQuoted(strings.NewReader(input), ';')
	if err != nil {
		t.Fatalf("ReadQuoted returned error: %v", err)
	}
	want := [][]string{
		{"1", "Nature; International", "Q1"},
		{"2", `Cell "Press"`, "Q1"},
		{"3", "Short", ""},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Fatalf("unexpected rows:\n got %q\nwant %q", table.Rows, want)
	}

	_, err = ReadQuoted(strings.NewReader("A;B\n1;2;3\n"), ';')
	if !errors.Is(err, ErrFieldCount) {
		t.Fatalf("expected ErrFieldCount, got %v", err)
	}
}

func TestConcatUnionsColumnsInOrder(t *testing.T) {
	a := New([]string{"Z9", "SO"})
	_ = a.Append([]string{"25", "Nature"})
	b := New([]string{"SO", "Z9", "TI"})
	_ = b.Append([]string{"Cell", "30", "Title"})
	empty := New([]string{"Z9", "SO"})

	out := Concat(a, nil, empty, b)
	if got := strings.Join(out.Columns, ","); got != "Z9,SO,TI" {
		t.Fatalf("unexpected columns %q", got)
	}
	want := [][]string{
		{"25", "Nature", ""},
		{"30", "Cell", "Title"},
	}
	if !reflect.DeepEqual(out.Rows, want) {
		t.Fatalf("unexpected rows:\n got %q\nwant %q", out.Rows, want)
	}
}

func TestTableFilterAndIndex(t *testing.T) {
	table := New([]string{"A", "B"})
	for _, row := range [][]string{{"1", "x"}, {"2", "y"}, {"3", "x"}} {
		if err := table.Append(row); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if table.Index("B") != 1 || table.Index("C") != -1 {
		t.Fatalf("unexpected index results")
	}
	if !table.Has("A", "B") || table.Has("A", "C") {
		t.Fatalf("unexpected Has results")
	}
	kept := table.Filter(func(row []string) bool { return row[1] == "x" })
	if kept.Len() != 2 || kept.Rows[1][0] != "3" {
		t.Fatalf("unexpected filter result %q", kept.Rows)
	}
	if table.Len() != 3 {
		t.Fatalf("filter must not modify source")
	}
}
