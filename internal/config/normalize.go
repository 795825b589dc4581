package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDecoder()
	c.normalizeOCR()
	c.normalizeMatcher()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.QuarantineDir != "" {
		if c.Paths.QuarantineDir, err = expandPath(c.Paths.QuarantineDir); err != nil {
			return fmt.Errorf("paths.quarantine_dir: %w", err)
		}
	}
	if c.Paths.OutputDir != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	if c.Paths.EvidenceText != "" {
		if c.Paths.EvidenceText, err = expandPath(c.Paths.EvidenceText); err != nil {
			return fmt.Errorf("paths.evidence_text: %w", err)
		}
	}
	if c.Paths.ScreenshotsDir != "" {
		if c.Paths.ScreenshotsDir, err = expandPath(c.Paths.ScreenshotsDir); err != nil {
			return fmt.Errorf("paths.screenshots_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDecoder() {
	c.Decoder.Binary = strings.TrimSpace(c.Decoder.Binary)
	ext := strings.TrimSpace(c.Decoder.ContainerExtension)
	if ext == "" {
		ext = defaultContainerExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Decoder.ContainerExtension = ext
	if strings.TrimSpace(c.Decoder.OutputSuffix) == "" {
		c.Decoder.OutputSuffix = defaultOutputSuffix
	}
	if c.Decoder.TimeoutSeconds <= 0 {
		c.Decoder.TimeoutSeconds = defaultDecoderTimeout
	}
}

func (c *Config) normalizeOCR() {
	if strings.TrimSpace(c.OCR.Binary) == "" {
		c.OCR.Binary = defaultOCRBinary
	}
	if strings.TrimSpace(c.OCR.Language) == "" {
		c.OCR.Language = defaultOCRLanguage
	}
	if c.OCR.TimeoutSeconds <= 0 {
		c.OCR.TimeoutSeconds = defaultOCRTimeout
	}
}

func (c *Config) normalizeMatcher() {
	if c.Matcher.Tolerance == 0 {
		c.Matcher.Tolerance = defaultMatchTolerance
	}
	if c.Matcher.LookaheadLines <= 0 {
		c.Matcher.LookaheadLines = defaultLookaheadLines
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
