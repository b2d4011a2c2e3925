package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evenlangas/paper-filtering/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory. The input
// directory exists and is empty, the reference file holds DefaultReference,
// and output and history paths point at directories that do not exist yet.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "exports")
	cfgVal.Paths.OutputFile = filepath.Join(base, "out", "filtered.csv")
	cfgVal.Paths.ReferenceFile = filepath.Join(base, "sjr.csv")
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")

	if err := os.MkdirAll(cfgVal.Paths.InputDir, 0o755); err != nil {
		t.Fatalf("mkdir input dir: %v", err)
	}
	WriteFile(t, cfgVal.Paths.ReferenceFile, DefaultReference)

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithThreshold overrides the citation threshold.
func WithThreshold(n float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Filter.CitationThreshold = n
	}
}

// WithFormat selects the output format and adjusts the output extension.
func WithFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Format = format
		b.cfg.Paths.OutputFile = filepath.Join(b.baseDir, "out", "filtered."+format)
	}
}

// WithReference replaces the reference file content.
func WithReference(content string) ConfigOption {
	return func(b *configBuilder) {
		WriteFile(b.t, b.cfg.Paths.ReferenceFile, content)
	}
}

// WithoutReference clears the reference path.
func WithoutReference() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.ReferenceFile = ""
	}
}

// WithoutHistory disables the run ledger.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InputDir)
}
