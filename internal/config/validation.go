package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if err := c.validateMatching(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateReports(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateExtensions("scan.extensions", c.Scan.Extensions); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateExtensions("workflows.extensions", c.Workflows.Extensions); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateHeartbeat(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateLogging(); err != nil {
		errors = append(errors, err...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateMatching() ValidationErrors {
	var errors ValidationErrors

	if c.Matching.MaxSuggestions < 0 {
		errors = append(errors, ValidationError{
			Field:   "matching.max_suggestions",
			Message: "max_suggestions cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateReports() ValidationErrors {
	var errors ValidationErrors

	if c.Reports.OutputDir == "" {
		errors = append(errors, ValidationError{
			Field:   "reports.output_dir",
			Message: "output_dir is required",
		})
	}

	if c.Reports.TopDuplicates <= 0 {
		errors = append(errors, ValidationError{
			Field:   "reports.top_duplicates",
			Message: "top_duplicates must be positive",
		})
	}

	return errors
}

func (c *Config) validateExtensions(field string, extensions []string) ValidationErrors {
	var errors ValidationErrors

	if len(extensions) == 0 {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: "at least one extension must be defined",
		})
	}

	for i, ext := range extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: fmt.Sprintf("extension %q must start with a dot", ext),
			})
		}
	}

	return errors
}

func (c *Config) validateHeartbeat() ValidationErrors {
	var errors ValidationErrors

	if c.Heartbeat.File == "" {
		errors = append(errors, ValidationError{
			Field:   "heartbeat.file",
			Message: "file is required",
		})
	}

	if c.Heartbeat.ThresholdMinutes <= 0 {
		errors = append(errors, ValidationError{
			Field:   "heartbeat.threshold_minutes",
			Message: "threshold_minutes must be positive",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
