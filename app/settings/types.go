package settings

// Settings holds application settings that can be overridden by the user.
type Settings struct {
	// Directory holding saved filter presets. Relative paths resolve against
	// the settings file's directory.
	PresetsDir string `yaml:"presets_dir" json:"presets_dir"`
	// Combination mode for new filter sets: "AND" or "OR".
	DefaultFilterMode string `yaml:"default_filter_mode" json:"default_filter_mode"`
	// Crosstab defaults
	MonthlyConversion bool `yaml:"monthly_conversion" json:"monthly_conversion"`
	IncludeAllMonths  bool `yaml:"include_all_months" json:"include_all_months"`
	// Log level: trace, debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level"`
	// Field delimiter used when reading CSV files (a single character)
	CSVDelimiter string `yaml:"csv_delimiter" json:"csv_delimiter"`
	// Maximum number of files when loading a directory or glob as one table
	MaxDirectoryFiles int `yaml:"max_directory_files" json:"max_directory_files"`
	// Sheet name used for XLSX exports
	ExportSheetName string `yaml:"export_sheet_name" json:"export_sheet_name"`
	// InstanceID is a unique identifier for this installation (not user editable)
	InstanceID string `yaml:"instance_id,omitempty" json:"instance_id,omitempty"`
}

// defaultSettings defines the built-in defaults.
var defaultSettings = Settings{
	PresetsDir:        "presets",
	DefaultFilterMode: "AND",
	MonthlyConversion: true,
	IncludeAllMonths:  false,
	LogLevel:          "info",
	CSVDelimiter:      ",",
	MaxDirectoryFiles: 500,
	ExportSheetName:   "Sheet1",
}

// Defaults returns a copy of the built-in defaults.
func Defaults() Settings {
	return defaultSettings
}
