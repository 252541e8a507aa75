package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// EnvSettingsPath overrides the location of the settings file.
const EnvSettingsPath = "PIVOTLINE_SETTINGS"

const settingsFileName = "pivotline.yml"

// Service reads and writes one settings file.
type Service struct {
	path string
}

// NewService uses the file named by PIVOTLINE_SETTINGS, or pivotline.yml next
// to the executable.
func NewService() (*Service, error) {
	path, err := settingsFilePath()
	if err != nil {
		return nil, err
	}
	return &Service{path: path}, nil
}

// NewServiceAt uses the settings file at path.
func NewServiceAt(path string) *Service {
	return &Service{path: path}
}

// Path returns the settings file location.
func (s *Service) Path() string {
	return s.path
}

// GetSettings returns the defaults overlaid with any values present in the
// settings file. A missing file is not an error.
func (s *Service) GetSettings() (Settings, error) {
	settings := defaultSettings
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, err
	}
	// Unmarshal into a generic map to detect key presence
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return settings, fmt.Errorf("parse %s: %w", s.path, err)
	}
	overlay(&settings, m)
	return settings, nil
}

// GetEffectiveSettings returns the settings, falling back to defaults if
// anything goes wrong.
func (s *Service) GetEffectiveSettings() Settings {
	settings, err := s.GetSettings()
	if err != nil {
		return defaultSettings
	}
	return settings
}

func overlay(settings *Settings, m map[string]any) {
	if v, ok := m["presets_dir"].(string); ok && strings.TrimSpace(v) != "" {
		settings.PresetsDir = v
	}
	if v, ok := m["default_filter_mode"].(string); ok {
		switch strings.ToUpper(strings.TrimSpace(v)) {
		case "AND", "OR":
			settings.DefaultFilterMode = strings.ToUpper(strings.TrimSpace(v))
		}
	}
	if v, ok := m["monthly_conversion"].(bool); ok {
		settings.MonthlyConversion = v
	}
	if v, ok := m["include_all_months"].(bool); ok {
		settings.IncludeAllMonths = v
	}
	if v, ok := m["log_level"].(string); ok && strings.TrimSpace(v) != "" {
		settings.LogLevel = v
	}
	if v, ok := m["csv_delimiter"].(string); ok && len([]rune(v)) == 1 {
		settings.CSVDelimiter = v
	}
	if v, ok := m["max_directory_files"].(int); ok && v >= 1 {
		settings.MaxDirectoryFiles = v
	}
	if v, ok := m["export_sheet_name"].(string); ok && strings.TrimSpace(v) != "" {
		settings.ExportSheetName = v
	}
	if v, ok := m["instance_id"].(string); ok {
		settings.InstanceID = v
	}
}

// SaveSettings writes only the values that differ from the defaults. When
// nothing differs the file is removed.
func (s *Service) SaveSettings(in Settings) error {
	data := map[string]any{}
	if in.PresetsDir != defaultSettings.PresetsDir && strings.TrimSpace(in.PresetsDir) != "" {
		data["presets_dir"] = in.PresetsDir
	}
	if mode := strings.ToUpper(in.DefaultFilterMode); mode != defaultSettings.DefaultFilterMode && mode == "OR" {
		data["default_filter_mode"] = mode
	}
	if in.MonthlyConversion != defaultSettings.MonthlyConversion {
		data["monthly_conversion"] = in.MonthlyConversion
	}
	if in.IncludeAllMonths != defaultSettings.IncludeAllMonths {
		data["include_all_months"] = in.IncludeAllMonths
	}
	if in.LogLevel != defaultSettings.LogLevel && strings.TrimSpace(in.LogLevel) != "" {
		data["log_level"] = in.LogLevel
	}
	if in.CSVDelimiter != defaultSettings.CSVDelimiter && len([]rune(in.CSVDelimiter)) == 1 {
		data["csv_delimiter"] = in.CSVDelimiter
	}
	if in.MaxDirectoryFiles != defaultSettings.MaxDirectoryFiles && in.MaxDirectoryFiles >= 1 {
		data["max_directory_files"] = in.MaxDirectoryFiles
	}
	if in.ExportSheetName != defaultSettings.ExportSheetName && strings.TrimSpace(in.ExportSheetName) != "" {
		data["export_sheet_name"] = in.ExportSheetName
	}
	if id := strings.TrimSpace(in.InstanceID); id != "" {
		data["instance_id"] = id
	}

	if len(data) == 0 {
		// If there is an existing file, remove it to reflect defaults-only state
		if _, statErr := os.Stat(s.path); statErr == nil {
			return os.Remove(s.path)
		}
		return nil
	}

	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

// Set updates one setting by its YAML key and saves the result.
func (s *Service) Set(key, value string) (Settings, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return settings, err
	}
	value = strings.TrimSpace(value)
	switch key {
	case "presets_dir":
		if value == "" {
			return settings, fmt.Errorf("%s must not be empty", key)
		}
		settings.PresetsDir = value
	case "default_filter_mode":
		mode := strings.ToUpper(value)
		if mode != "AND" && mode != "OR" {
			return settings, fmt.Errorf("%s must be AND or OR, got %q", key, value)
		}
		settings.DefaultFilterMode = mode
	case "monthly_conversion", "include_all_months":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return settings, fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		if key == "monthly_conversion" {
			settings.MonthlyConversion = b
		} else {
			settings.IncludeAllMonths = b
		}
	case "log_level":
		if _, err := zerolog.ParseLevel(strings.ToLower(value)); err != nil || value == "" {
			return settings, fmt.Errorf("%s: unknown level %q", key, value)
		}
		settings.LogLevel = strings.ToLower(value)
	case "csv_delimiter":
		if value == `\t` || value == "tab" {
			value = "\t"
		}
		if len([]rune(value)) != 1 {
			return settings, fmt.Errorf("%s must be a single character, got %q", key, value)
		}
		settings.CSVDelimiter = value
	case "max_directory_files":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return settings, fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
		settings.MaxDirectoryFiles = n
	case "export_sheet_name":
		if value == "" {
			return settings, fmt.Errorf("%s must not be empty", key)
		}
		settings.ExportSheetName = value
	case "instance_id":
		return settings, fmt.Errorf("setting %q is not user editable", key)
	default:
		return settings, fmt.Errorf("unknown setting %q", key)
	}
	return settings, s.SaveSettings(settings)
}

// EnsureInstanceID generates and saves a unique instance ID if one doesn't exist.
func (s *Service) EnsureInstanceID() (string, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return "", err
	}
	if id := strings.TrimSpace(settings.InstanceID); id != "" {
		return id, nil
	}
	settings.InstanceID = uuid.New().String()
	return settings.InstanceID, s.SaveSettings(settings)
}

// ResolvePath resolves p relative to the settings file's directory.
func (s *Service) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(s.path), p)
}

func settingsFilePath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvSettingsPath)); p != "" {
		return p, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(exe)
	return filepath.Join(dir, settingsFileName), nil
}
