package config

const (
	defaultInputDir          = "./wos_exports"
	defaultOutputFile        = "filtered_articles.csv"
	defaultCitationThreshold = 20
	defaultCitationField     = "Z9"
	defaultJournalField      = "SO"
	defaultInputExtension    = ".txt"
	defaultInputDelimiter    = "\t"
	defaultInputEscape       = "\\"
	defaultRefDelimiter      = ";"
	defaultRefTitleColumn    = "Title"
	defaultRefQuartileColumn = "SJR Best Quartile"
	defaultOutputFormat      = FormatCSV
	defaultSheetName         = "Filtered"
	defaultHistoryFile       = "~/.local/share/paperfilter/history.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Output formats understood by the export stage.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// DefaultCitationThreshold is the citation count a record must exceed when
// no threshold is configured.
const DefaultCitationThreshold = defaultCitationThreshold

// ReferenceEnvVar names the environment fallback for paths.reference_file.
const ReferenceEnvVar = "PAPERFILTER_REFERENCE_FILE"

func defaultQuartiles() []string {
	return []string{"Q1", "Q2"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:   defaultInputDir,
			OutputFile: defaultOutputFile,
		},
		Filter: Filter{
			CitationThreshold: defaultCitationThreshold,
			CitationField:     defaultCitationField,
			JournalField:      defaultJournalField,
			InputExtension:    defaultInputExtension,
			AcceptedQuartiles: defaultQuartiles(),
		},
		Input: Input{
			Delimiter:  defaultInputDelimiter,
			EscapeChar: defaultInputEscape,
		},
		Reference: Reference{
			Delimiter:      defaultRefDelimiter,
			TitleColumn:    defaultRefTitleColumn,
			QuartileColumn: defaultRefQuartileColumn,
		},
		Output: Output{
			Format:    defaultOutputFormat,
			SheetName: defaultSheetName,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
