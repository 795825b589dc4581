package config

import (
	"errors"
	"fmt"
	"regexp"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDecoder(); err != nil {
		return err
	}
	if err := c.validateMatcher(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDecoder() error {
	if c.Decoder.ContainerExtension == "." {
		return errors.New("decoder.container_extension must name an extension")
	}
	if c.Decoder.TimeoutSeconds <= 0 {
		return errors.New("decoder.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateMatcher() error {
	if c.Matcher.Tolerance <= 0 || c.Matcher.Tolerance >= 1 {
		return errors.New("matcher.tolerance must be between 0 and 1 exclusive")
	}
	if c.Matcher.MinBlobBytes < 0 {
		return errors.New("matcher.min_blob_bytes must not be negative")
	}
	if c.Matcher.ExcludePattern != "" {
		if _, err := regexp.Compile(c.Matcher.ExcludePattern); err != nil {
			return fmt.Errorf("matcher.exclude_pattern: %w", err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
