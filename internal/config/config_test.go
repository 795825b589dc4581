package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize default config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Matcher.Tolerance != 0.12 {
		t.Fatalf("expected default tolerance 0.12, got %v", cfg.Matcher.Tolerance)
	}
	if cfg.Decoder.ContainerExtension != ".nqf" {
		t.Fatalf("expected default container extension .nqf, got %q", cfg.Decoder.ContainerExtension)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := Load(missing)
	if err != nil {
		t.Fatalf("load with missing file: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != missing {
		t.Fatalf("expected resolved path %q, got %q", missing, resolved)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected default logging format, got %q", cfg.Logging.Format)
	}
}

func TestLoadParsesAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
quarantine_dir = "~/quarantine"
output_dir = "` + dir + `/out"

[decoder]
container_extension = "NQF"
timeout_seconds = 60

[matcher]
tolerance = 0.2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be read")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "quarantine"); cfg.Paths.QuarantineDir != want {
		t.Fatalf("expected quarantine dir %q, got %q", want, cfg.Paths.QuarantineDir)
	}
	if cfg.Decoder.ContainerExtension != ".NQF" {
		t.Fatalf("expected extension normalized with dot, got %q", cfg.Decoder.ContainerExtension)
	}
	if cfg.Matcher.Tolerance != 0.2 {
		t.Fatalf("expected tolerance override 0.2, got %v", cfg.Matcher.Tolerance)
	}
	if cfg.Matcher.LookaheadLines != 2 {
		t.Fatalf("expected lookahead default preserved, got %d", cfg.Matcher.LookaheadLines)
	}
}

func TestLoadRejectsBadTolerance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[matcher]\ntolerance = 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for tolerance above 1")
	}
	if !strings.Contains(err.Error(), "tolerance") {
		t.Fatalf("expected tolerance error, got %v", err)
	}
}

func TestLoadRejectsBadExcludePattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[matcher]\nexclude_pattern = \"(\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid exclude pattern")
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to be read")
	}
	if cfg.Decoder.OutputSuffix != "_ESET.out" {
		t.Fatalf("unexpected output suffix %q", cfg.Decoder.OutputSuffix)
	}
}
