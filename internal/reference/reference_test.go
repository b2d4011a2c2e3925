package reference

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/evenlangas/paper-filtering/internal/config"
)

const sjrSample = `Rank;Sourceid;Title;Type;SJR;SJR Best Quartile
1;1;"Nature";journal;"18,5";Q1
2;2;"CELL";journal;"20,1";Q1
3;3;"Journal of Middling Results";journal;"1,2";Q2
4;4;"Journal of Low Results";journal;"0,3";Q3
5;5;"Obscure Letters";journal;"0,1";Q4
6;6;"Unranked Review";journal;;-
7;7;"Lowercase Quartile";journal;"1,0";q1
`

func TestParseKeepsAcceptedQuartilesOnly(t *testing.T) {
	set, err := Parse(strings.NewReader(sjrSample), DefaultOptions())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := []string{"cell", "journal of middling results", "nature"}
	if !reflect.DeepEqual(set.Keys(), want) {
		t.Fatalf("unexpected keys: got %v want %v", set.Keys(), want)
	}
	if set.Rows != 7 || set.Qualified != 3 {
		t.Fatalf("unexpected counters rows=%d qualified=%d", set.Rows, set.Qualified)
	}
	for _, journal := range []string{"Journal of Low Results", "Obscure Letters", "Unranked Review", "Lowercase Quartile"} {
		if set.Contains(journal) {
			t.Fatalf("journal %q outside accepted quartiles must not be a member", journal)
		}
	}
}

func TestContainsIsCaseInsensitive(t *testing.T) {
	set := NewSet("Nature", "cell")
	for _, journal := range []string{"nature", "NATURE", "Nature", "Cell", "CELL"} {
		if !set.Contains(journal) {
			t.Fatalf("expected %q to match", journal)
		}
	}
	for _, journal := range []string{"", "Nature ", "Unknown Journal"} {
		if set.Contains(journal) {
			t.Fatalf("expected %q not to match", journal)
		}
	}
	var empty *Set
	if empty.Contains("nature") || empty.Len() != 0 {
		t.Fatal("nil set should be empty")
	}
}

func TestParseMissingColumns(t *testing.T) {
	_, err := Parse(strings.NewReader("Rank;Title\n1;Nature\n"), DefaultOptions())
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "SJR Best Quartile") {
		t.Fatalf("expected missing column name in error, got %v", err)
	}
}

func TestParseCustomQuartiles(t *testing.T) {
	opts := DefaultOptions()
	opts.AcceptedQuartiles = []string{"Q3"}
	set, err := Parse(strings.NewReader(sjrSample), opts)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !reflect.DeepEqual(set.Keys(), []string{"journal of low results"}) {
		t.Fatalf("unexpected keys %v", set.Keys())
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("", DefaultOptions()); !errors.Is(err, ErrMissingPath) {
		t.Fatalf("expected ErrMissingPath, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv"), DefaultOptions()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadFromFileWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sjr.csv")
	if err := os.WriteFile(path, []byte("\ufeff"+sjrSample), 0o644); err != nil {
		t.Fatalf("write reference: %v", err)
	}
	set, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("expected 3 journals, got %d", set.Len())
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Reference.Delimiter = ","
	cfg.Filter.AcceptedQuartiles = []string{"Q1"}
	opts := OptionsFromConfig(&cfg)
	if opts.Delimiter != ',' {
		t.Fatalf("unexpected delimiter %q", opts.Delimiter)
	}
	if !reflect.DeepEqual(opts.AcceptedQuartiles, []string{"Q1"}) {
		t.Fatalf("unexpected quartiles %v", opts.AcceptedQuartiles)
	}
	if OptionsFromConfig(nil).TitleColumn != "Title" {
		t.Fatal("nil config should yield defaults")
	}
}
