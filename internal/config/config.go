package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the input, output, and reference locations for a run.
type Paths struct {
	InputDir      string `toml:"input_dir"`
	OutputFile    string `toml:"output_file"`
	ReferenceFile string `toml:"reference_file"`
}

// Filter contains the record selection rules.
type Filter struct {
	CitationThreshold float64  `toml:"citation_threshold"`
	CitationField     string   `toml:"citation_field"`
	JournalField      string   `toml:"journal_field"`
	InputExtension    string   `toml:"input_extension"`
	AcceptedQuartiles []string `toml:"accepted_quartiles"`
}

// Input describes how bibliographic export files are tokenized.
type Input struct {
	Delimiter  string `toml:"delimiter"`
	EscapeChar string `toml:"escape_char"`
}

// Reference describes the journal ranking table layout.
type Reference struct {
	Delimiter      string `toml:"delimiter"`
	TitleColumn    string `toml:"title_column"`
	QuartileColumn string `toml:"quartile_column"`
}

// Output contains configuration for the combined result file.
type Output struct {
	Format    string `toml:"format"`
	SheetName string `toml:"sheet_name"`
}

// History contains configuration for the run ledger.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for paperfilter.
//
// Configuration sections by subsystem:
//   - Paths: input directory, output file, and ranking reference file
//   - Filter: citation threshold, field names, extension, accepted quartiles
//   - Input: export file delimiter and escape character
//   - Reference: ranking table delimiter and column names
//   - Output: result format (csv or xlsx)
//   - History: SQLite run ledger
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Filter    Filter    `toml:"filter"`
	Input     Input     `toml:"input"`
	Reference Reference `toml:"reference"`
	Output    Output    `toml:"output"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/paperfilter/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("paperfilter.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates directories the run writes into: the output
// file's parent and, when enabled, the history database's parent.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Paths.OutputFile)}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) != "" {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// InputDelimiter returns the export file field separator as a rune.
func (c *Config) InputDelimiter() rune {
	return firstRune(c.Input.Delimiter)
}

// InputEscape returns the export file escape character, or zero when escaping is disabled.
func (c *Config) InputEscape() rune {
	return firstRune(c.Input.EscapeChar)
}

// ReferenceDelimiter returns the ranking table field separator as a rune.
func (c *Config) ReferenceDelimiter() rune {
	return firstRune(c.Reference.Delimiter)
}

func firstRune(value string) rune {
	for _, r := range value {
		return r
	}
	return 0
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultHistoryPath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "paperfilter", "history.db")
	}
	return defaultHistoryFile
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
