// Package testsupport provides shared helpers for command tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reclaim/internal/config"
)

// NewConfig returns a validated config wired to fresh temp directories.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.QuarantineDir = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WriteStub installs an executable shell script named name on PATH.
func WriteStub(t *testing.T, name, script string) {
	t.Helper()
	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// EncodeContainer applies the inverse quarantine transform, producing a
// container whose decoded payload is exactly payload.
func EncodeContainer(payload []byte) []byte {
	encoded := make([]byte, len(payload))
	for i, b := range payload {
		encoded[i] = (b ^ 0xA5) + 84
	}
	return encoded
}

// WriteContainer drops an encoded container into dir under name.
func WriteContainer(t *testing.T, dir, name string, payload []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, EncodeContainer(payload), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
