package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evenlangas/paper-filtering/internal/config"
)

func TestCheckDirectoryReadable_OK(t *testing.T) {
	result := CheckDirectoryReadable("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryReadable_NotExist(t *testing.T) {
	result := CheckDirectoryReadable("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryReadable_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryReadable("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "sjr.csv")
	if err := os.WriteFile(f, []byte("Title;SJR Best Quartile\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckReadableFile("ref", f); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckReadableFile("ref", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	result := CheckReadableFile("ref", "")
	if result.Passed || !strings.Contains(result.Detail, "reference file is required") {
		t.Fatalf("expected required message, got %+v", result)
	}
}

func TestCheckWritableTarget(t *testing.T) {
	dir := t.TempDir()
	if result := CheckWritableTarget("out", filepath.Join(dir, "a", "b", "out.csv")); !result.Passed {
		t.Fatalf("expected pass for creatable path, got %s", result.Detail)
	}
	if result := CheckWritableTarget("out", dir); result.Passed {
		t.Fatal("expected failure when target is a directory")
	}
	if result := CheckWritableTarget("out", ""); result.Passed {
		t.Fatal("expected failure for empty path")
	}
}

func TestCheckInputFiles(t *testing.T) {
	dir := t.TempDir()
	if result := CheckInputFiles("exports", dir, ".txt"); result.Passed {
		t.Fatal("expected failure for empty directory")
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("Z9\tSO\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckInputFiles("exports", dir, ".txt")
	if !result.Passed || !strings.HasPrefix(result.Detail, "1 ") {
		t.Fatalf("expected one file, got %+v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReadyConfig(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "exports")
	if err := os.Mkdir(input, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(input, "a.txt"), []byte("Z9\tSO\n25\tNature\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ref := filepath.Join(dir, "sjr.csv")
	if err := os.WriteFile(ref, []byte("Title;SJR Best Quartile\nNature;Q1\nMinor;Q4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Paths.InputDir = input
	cfg.Paths.ReferenceFile = ref
	cfg.Paths.OutputFile = filepath.Join(dir, "out", "filtered.csv")
	cfg.History.Path = filepath.Join(dir, "state", "history.db")

	results := RunAll(context.Background(), &cfg)
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d: %+v", len(results), results)
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if Failed(results) {
		t.Fatal("expected no failures")
	}
	if results[3].Detail != "1 journal(s) ranked Q1/Q2" {
		t.Fatalf("unexpected reference detail %q", results[3].Detail)
	}
}

func TestRunAll_MissingReferenceSkipsParse(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.InputDir = t.TempDir()
	cfg.Paths.ReferenceFile = ""
	cfg.History.Enabled = false

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %+v", len(results), results)
	}
	if !Failed(results) {
		t.Fatal("expected failures")
	}
}
