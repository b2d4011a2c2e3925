package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evenlangas/paper-filtering/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowPrintsEffectiveValues(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"config", "show", "--log-level", "debug"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[paths]")
	requireContains(t, out, env.cfg.Paths.InputDir)
	requireContains(t, out, "[logging]")
	requireContains(t, out, "debug")
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteExport(t, env.cfg, "a.txt", header, []string{"J", "Hit", "Nature", "25"})

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "[OK] 2 journal(s) ranked Q1/Q2")
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("unexpected failure in %s", out)
	}
}

func TestCheckCommandFailsWithoutExports(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected failure for empty input directory")
	}
	requireContains(t, out, "[ERROR] no .txt files")
}

func TestReferenceShow(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"reference", "show", "--limit", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("reference show: %v", err)
	}
	requireContains(t, out, "Accepted journals: 2 of 4 ranked rows (Q1, Q2)")
	requireContains(t, out, "cell")
	if strings.Contains(out, "nature") {
		t.Fatalf("expected limit to hide second journal:\n%s", out)
	}
}

func TestHistoryCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No history ledger")

	testsupport.WriteExport(t, env.cfg, "a.txt", header, []string{"J", "Hit", "Nature", "25"})
	if _, _, err := runCLI(t, []string{"run"}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var runs []historyView
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0].Status != "written" || runs[0].RowsKept != 1 {
		t.Fatalf("unexpected history %+v", runs)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, runs[0].ID)

	out, _, err = runCLI(t, []string{"history", "show", runs[0].ID}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Status:    written")
	requireContains(t, out, "a.txt")
}
