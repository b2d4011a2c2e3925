package preflight

import (
	"context"
	"path/filepath"

	"github.com/evenlangas/paper-filtering/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The history location is only checked when the ledger is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryReadable("Input directory", cfg.Paths.InputDir),
		CheckInputFiles("Export files", cfg.Paths.InputDir, cfg.Filter.InputExtension),
		CheckReadableFile("Reference file", cfg.Paths.ReferenceFile),
	}
	if results[2].Passed {
		results = append(results, CheckReference(ctx, "Accepted journals", cfg))
	}
	results = append(results, CheckWritableTarget("Output file", cfg.Paths.OutputFile))

	if cfg.History.Enabled {
		results = append(results, CheckWritableTarget("History ledger", cfg.History.Path))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}

// nearestExisting walks up from path to the first ancestor that exists.
func nearestExisting(path string) string {
	dir := path
	for {
		if exists(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
