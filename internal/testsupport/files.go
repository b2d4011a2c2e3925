package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evenlangas/paper-filtering/internal/config"
)

// DefaultReference ranks Nature and Cell in accepted quartiles and two other
// journals outside them.
const DefaultReference = `Rank;Sourceid;Title;Type;SJR Best Quartile
1;21206;"Nature";journal;Q1
2;12345;"Cell";journal;Q1
3;54321;"Applied Widgets";journal;Q3
4;99999;"Regional Letters";journal;Q4
`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteExport writes a tab-delimited export named name into the configured
// input directory and returns its path.
func WriteExport(t testing.TB, cfg *config.Config, name string, header []string, rows ...[]string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(strings.Join(header, "\t"))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	path := filepath.Join(cfg.Paths.InputDir, name)
	WriteFile(t, path, b.String())
	return path
}
