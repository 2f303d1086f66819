package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Dynamic token patterns that must not appear in configuration values.
// They indicate template variables the shell never expanded.
var dynamicTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[^}]+\}`),        // ${VAR}
	regexp.MustCompile(`\{\{[^}]+\}\}`),      // {{VAR}}
	regexp.MustCompile(`\$[A-Z_][A-Z0-9_]*`), // $VAR
}

// Validate checks the configuration for correctness and returns all
// problems at once as *ValidationErrors.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateUI(&cfg.UI)...)
	errs = append(errs, validateSystem(&cfg.System)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func validateStorage(s *StorageConfig) []ValidationError {
	var errs []ValidationError

	if s.Driver != DriverJSON && s.Driver != DriverSQLite {
		errs = append(errs, ValidationError{
			Field:   "storage.driver",
			Message: "must be one of: json, sqlite",
			Value:   s.Driver,
			Wrapped: ErrInvalidDriver,
		})
	}

	errs = append(errs, checkStringField("storage.data_file", s.DataFile)...)
	return errs
}

func validateUI(u *UIConfig) []ValidationError {
	if u.HistoryDays < 1 || u.HistoryDays > MaxHistoryDays {
		return []ValidationError{{
			Field:   "ui.history_days",
			Message: fmt.Sprintf("must be between 1 and %d", MaxHistoryDays),
			Value:   u.HistoryDays,
			Wrapped: ErrHistoryDays,
		}}
	}
	return nil
}

func validateSystem(s *SystemConfig) []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidLogLevels, s.LogLevel) {
		errs = append(errs, ValidationError{
			Field:   "system.log_level",
			Message: "must be one of: " + strings.Join(ValidLogLevels, ", "),
			Value:   s.LogLevel,
			Wrapped: ErrInvalidConfig,
		})
	}
	if !slices.Contains(ValidLogFormats, s.LogFormat) {
		errs = append(errs, ValidationError{
			Field:   "system.log_format",
			Message: "must be one of: " + strings.Join(ValidLogFormats, ", "),
			Value:   s.LogFormat,
			Wrapped: ErrInvalidConfig,
		})
	}
	return errs
}

// checkStringField checks a single string value for dynamic tokens.
func checkStringField(field, value string) []ValidationError {
	if value == "" {
		return nil
	}

	for _, pattern := range dynamicTokenPatterns {
		if match := pattern.FindString(value); match != "" {
			return []ValidationError{{
				Field:   field,
				Message: fmt.Sprintf("contains unexpanded dynamic token %q", match),
				Value:   value,
				Wrapped: ErrDynamicToken,
			}}
		}
	}
	return nil
}
