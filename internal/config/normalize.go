package config

import (
	"fmt"
	"os"
	"strings"
)

// Normalize trims, expands, and canonicalizes every field. Load calls it;
// commands call it again after applying flag overrides.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFilter()
	c.normalizeInput()
	c.normalizeReference()
	c.normalizeOutput()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		c.Paths.InputDir = defaultInputDir
	}
	if c.Paths.InputDir, err = expandPath(strings.TrimSpace(c.Paths.InputDir)); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputFile) == "" {
		c.Paths.OutputFile = defaultOutputFile
	}
	if c.Paths.OutputFile, err = expandPath(strings.TrimSpace(c.Paths.OutputFile)); err != nil {
		return fmt.Errorf("paths.output_file: %w", err)
	}
	c.Paths.ReferenceFile = strings.TrimSpace(c.Paths.ReferenceFile)
	if c.Paths.ReferenceFile == "" {
		if value, ok := os.LookupEnv(ReferenceEnvVar); ok {
			c.Paths.ReferenceFile = strings.TrimSpace(value)
		}
	}
	if c.Paths.ReferenceFile, err = expandPath(c.Paths.ReferenceFile); err != nil {
		return fmt.Errorf("paths.reference_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeFilter() {
	c.Filter.CitationField = strings.TrimSpace(c.Filter.CitationField)
	if c.Filter.CitationField == "" {
		c.Filter.CitationField = defaultCitationField
	}
	c.Filter.JournalField = strings.TrimSpace(c.Filter.JournalField)
	if c.Filter.JournalField == "" {
		c.Filter.JournalField = defaultJournalField
	}

	ext := strings.TrimSpace(c.Filter.InputExtension)
	if ext == "" {
		ext = defaultInputExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Filter.InputExtension = ext

	quartiles := make([]string, 0, len(c.Filter.AcceptedQuartiles))
	seen := make(map[string]struct{}, len(c.Filter.AcceptedQuartiles))
	for _, q := range c.Filter.AcceptedQuartiles {
		normalized := strings.ToUpper(strings.TrimSpace(q))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		quartiles = append(quartiles, normalized)
	}
	if len(quartiles) == 0 {
		quartiles = defaultQuartiles()
	}
	c.Filter.AcceptedQuartiles = quartiles
}

func (c *Config) normalizeInput() {
	if c.Input.Delimiter == "" {
		c.Input.Delimiter = defaultInputDelimiter
	}
}

func (c *Config) normalizeReference() {
	if c.Reference.Delimiter == "" {
		c.Reference.Delimiter = defaultRefDelimiter
	}
	c.Reference.TitleColumn = strings.TrimSpace(c.Reference.TitleColumn)
	if c.Reference.TitleColumn == "" {
		c.Reference.TitleColumn = defaultRefTitleColumn
	}
	c.Reference.QuartileColumn = strings.TrimSpace(c.Reference.QuartileColumn)
	if c.Reference.QuartileColumn == "" {
		c.Reference.QuartileColumn = defaultRefQuartileColumn
	}
}

func (c *Config) normalizeOutput() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaultOutputFormat
	}
	c.Output.SheetName = strings.TrimSpace(c.Output.SheetName)
	if c.Output.SheetName == "" {
		c.Output.SheetName = defaultSheetName
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath()
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
