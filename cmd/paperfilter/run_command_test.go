package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evenlangas/paper-filtering/internal/config"
	"github.com/evenlangas/paper-filtering/internal/testsupport"
)

var header = []string{"PT", "TI", "SO", "Z9"}

func TestRunCommandWritesOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteExport(t, env.cfg, "a.txt", header,
		[]string{"J", "Hit", "Nature", "25"},
		[]string{"J", "Miss", "Nature", "15"},
	)
	testsupport.WriteExport(t, env.cfg, "b.txt", []string{"PT", "Z9"}, []string{"J", "99"})

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "processing file")
	requireContains(t, out, "skipping file")
	requireContains(t, out, "Wrote 1 row(s) to "+env.cfg.Paths.OutputFile)
	requireContains(t, out, "1 processed, 1 skipped")

	data, err := os.ReadFile(env.cfg.Paths.OutputFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if want := "\ufeffPT,TI,SO,Z9\nJ,Hit,Nature,25\n"; string(data) != want {
		t.Fatalf("unexpected output %q", data)
	}
}

func TestRunCommandFlagsOverrideConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "other-input")
	output := filepath.Join(env.baseDir, "custom", "result.csv")
	testsupport.WriteFile(t, filepath.Join(input, "a.txt"), "SO\tZ9\nCell\t6\nCell\t5\n")

	out, _, err := runCLI(t, []string{"run", "-i", input, "-o", output, "-t", "5", "--no-history"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "threshold 5")

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if want := "\ufeffSO,Z9\nCell,6\n"; string(data) != want {
		t.Fatalf("unexpected output %q", data)
	}
	if _, err := os.Stat(env.cfg.History.Path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no history with --no-history, stat err=%v", err)
	}
}

func TestRunCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteExport(t, env.cfg, "a.txt", header, []string{"J", "Low", "Nature", "1"})

	out, stderr, err := runCLI(t, []string{"run", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var view runView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if view.Written || view.Status != "no_matches" || len(view.Files) != 1 || view.Files[0].RowsRead != 1 {
		t.Fatalf("unexpected view %+v", view)
	}
	requireContains(t, stderr, "nothing matched")
}

func TestRunCommandRequiresReference(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutReference())
	_, _, err := runCLI(t, []string{"run"}, env.configPath)
	if !errors.Is(err, config.ErrReferenceRequired) {
		t.Fatalf("expected reference error, got %v", err)
	}
	if !strings.Contains(err.Error(), "reference file is required for filtering") {
		t.Fatalf("expected explicit message, got %v", err)
	}
}

func TestRunCommandReferenceFlag(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutReference())
	ref := filepath.Join(env.baseDir, "alt.csv")
	testsupport.WriteFile(t, ref, "Title;SJR Best Quartile\nRegional Letters;Q2\n")
	testsupport.WriteExport(t, env.cfg, "a.txt", header, []string{"J", "Hit", "regional letters", "30"})

	out, _, err := runCLI(t, []string{"run", "--reference", ref, "--format", "XLSX"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Wrote 1 row(s)")
}

func TestRunCommandRejectsBadFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"run", "--format", "parquet"}, env.configPath); err == nil {
		t.Fatal("expected validation error for unknown format")
	}
}
