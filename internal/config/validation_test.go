package config

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
		wantErr   error
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "csv" }, "storage.driver", ErrInvalidDriver},
		{"empty driver", func(c *Config) { c.Storage.Driver = "" }, "storage.driver", ErrInvalidDriver},
		{"history zero", func(c *Config) { c.UI.HistoryDays = 0 }, "ui.history_days", ErrHistoryDays},
		{"history too long", func(c *Config) { c.UI.HistoryDays = 32 }, "ui.history_days", ErrHistoryDays},
		{"log level", func(c *Config) { c.System.LogLevel = "trace" }, "system.log_level", ErrInvalidConfig},
		{"log format", func(c *Config) { c.System.LogFormat = "xml" }, "system.log_format", ErrInvalidConfig},
		{"dynamic token", func(c *Config) { c.Storage.DataFile = "${HOME}/habits.json" }, "storage.data_file", ErrDynamicToken},
		{"template token", func(c *Config) { c.Storage.DataFile = "{{dir}}/habits.json" }, "storage.data_file", ErrDynamicToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			var ve *ValidationErrors
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationErrors, got %T", err)
			}
			if len(ve.Errors) != 1 || ve.Errors[0].Field != tt.wantField {
				t.Errorf("errors = %+v, want one for %s", ve.Errors, tt.wantField)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("errors.Is(%v) = false", tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Error("ValidationErrors should match ErrInvalidConfig")
			}
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := NewDefaultConfig()
	cfg.Storage.Driver = "csv"
	cfg.UI.HistoryDays = 100
	cfg.System.LogFormat = "xml"

	var ve *ValidationErrors
	if !errors.As(Validate(cfg), &ve) {
		t.Fatal("expected *ValidationErrors")
	}
	if len(ve.Errors) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(ve.Errors), ve)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	withValue := &ValidationError{Field: "ui.history_days", Message: "must be between 1 and 31", Value: 0}
	if got, want := withValue.Error(), `validation error: field "ui.history_days": must be between 1 and 31 (got: 0)`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	bare := &ValidationError{Field: "storage.driver", Message: "required"}
	if got, want := bare.Error(), `validation error: field "storage.driver": required`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if (&ValidationErrors{}).Error() != "validation: no errors" {
		t.Error("empty ValidationErrors message mismatch")
	}
}
