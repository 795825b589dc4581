package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	QuarantineDir  string `toml:"quarantine_dir"`
	OutputDir      string `toml:"output_dir"`
	EvidenceText   string `toml:"evidence_text"`
	ScreenshotsDir string `toml:"screenshots_dir"`
	LogDir         string `toml:"log_dir"`
}

// Decoder contains configuration for the container decoder.
type Decoder struct {
	// Binary is the external decoder command. When empty, the built-in
	// quarantine transform is used.
	Binary string `toml:"binary"`
	// Args are extra arguments passed before the container path.
	Args []string `toml:"args"`
	// TimeoutSeconds bounds a single decoder invocation.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// ContainerExtension selects quarantine container files (matched
	// case-insensitively).
	ContainerExtension string `toml:"container_extension"`
	// OutputSuffix marks decoded artifacts inside a work directory; its
	// presence makes a re-run skip the decoder for that item.
	OutputSuffix string `toml:"output_suffix"`
}

// OCR contains configuration for the screenshot text extractor.
type OCR struct {
	Binary         string `toml:"binary"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Matcher contains thresholds for evidence matching.
type Matcher struct {
	// Tolerance is the maximum relative size error accepted for a name
	// suggestion.
	Tolerance float64 `toml:"tolerance"`
	// LookaheadLines bounds how far below an anchor line size tokens are
	// collected.
	LookaheadLines int `toml:"lookahead_lines"`
	// ExcludePattern discards evidence names matching this regular
	// expression (known non-user artifacts such as cache files).
	ExcludePattern string `toml:"exclude_pattern"`
	// MinBlobBytes skips suggestion for blobs smaller than this size.
	MinBlobBytes int64 `toml:"min_blob_bytes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reclaim.
//
// Sections by subsystem:
//   - Paths: quarantine source, output root, evidence sources, log directory
//   - Decoder: external decoder binary and idempotence markers
//   - OCR: tesseract invocation settings
//   - Matcher: evidence parsing and size-match thresholds
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Decoder Decoder `toml:"decoder"`
	OCR     OCR     `toml:"ocr"`
	Matcher Matcher `toml:"matcher"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reclaim/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was actually read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reclaim.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
