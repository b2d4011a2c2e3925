package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// ErrReferenceRequired reports a run attempted without a ranking reference file.
var ErrReferenceRequired = errors.New("reference file is required for filtering")

// Validate ensures the configuration is usable. The reference file is checked
// separately by ValidateRun so that maintenance commands work without one.
func (c *Config) Validate() error {
	if err := c.validateFilter(); err != nil {
		return err
	}
	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateReference(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

// ValidateRun extends Validate with the requirements of a filtering run.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Paths.ReferenceFile) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/paperfilter/config.toml"
		}
		return fmt.Errorf("%w: pass --reference, set %s, or edit %s (create with 'paperfilter config init')",
			ErrReferenceRequired, ReferenceEnvVar, defaultPath)
	}
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputFile) == "" {
		return errors.New("paths.output_file must be set")
	}
	return nil
}

func (c *Config) validateFilter() error {
	if math.IsNaN(c.Filter.CitationThreshold) || math.IsInf(c.Filter.CitationThreshold, 0) {
		return errors.New("filter.citation_threshold must be a finite number")
	}
	if c.Filter.CitationField == "" {
		return errors.New("filter.citation_field must be set")
	}
	if c.Filter.JournalField == "" {
		return errors.New("filter.journal_field must be set")
	}
	if len(c.Filter.AcceptedQuartiles) == 0 {
		return errors.New("filter.accepted_quartiles must include at least one quartile")
	}
	return nil
}

func (c *Config) validateInput() error {
	if err := ensureSingleRune("input.delimiter", c.Input.Delimiter); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.Input.EscapeChar) > 1 {
		return errors.New("input.escape_char must be a single character or empty")
	}
	if c.Input.EscapeChar != "" && c.Input.EscapeChar == c.Input.Delimiter {
		return errors.New("input.escape_char must differ from input.delimiter")
	}
	return nil
}

func (c *Config) validateReference() error {
	if err := ensureSingleRune("reference.delimiter", c.Reference.Delimiter); err != nil {
		return err
	}
	if c.Reference.Delimiter == "\"" || c.Reference.Delimiter == "\n" || c.Reference.Delimiter == "\r" {
		return errors.New("reference.delimiter cannot be a quote or line break")
	}
	if c.Reference.TitleColumn == "" {
		return errors.New("reference.title_column must be set")
	}
	if c.Reference.QuartileColumn == "" {
		return errors.New("reference.quartile_column must be set")
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Format {
	case FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", FormatCSV, FormatXLSX, c.Output.Format)
	}
	if c.Output.Format == FormatXLSX && utf8.RuneCountInString(c.Output.SheetName) > 31 {
		return errors.New("output.sheet_name must be at most 31 characters")
	}
	return nil
}

func ensureSingleRune(key, value string) error {
	if utf8.RuneCountInString(value) != 1 {
		return fmt.Errorf("%s must be exactly one character", key)
	}
	return nil
}
