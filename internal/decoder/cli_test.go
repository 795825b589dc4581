package decoder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reclaim/internal/services"
)

// writeStub installs an executable shell script on PATH for the test.
func writeStub(t *testing.T, name, script string) {
	t.Helper()
	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(binDir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestCLIDecodeCollectsArtifact(t *testing.T) {
	writeStub(t, "fakedecoder", `container="$1"
base=$(basename "$container")
printf 'decoded payload' > "${base}.00000000_ESET.out"
echo "processed $base"
`)

	work := t.TempDir()
	container := filepath.Join(t.TempDir(), "AB12CD.NQF")
	if err := os.WriteFile(container, []byte("opaque"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewCLI("fakedecoder").Decode(context.Background(), container, work)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if filepath.Base(result.ArtifactPath) != "AB12CD.NQF.00000000_ESET.out" {
		t.Fatalf("unexpected artifact %q", result.ArtifactPath)
	}
	if result.Size != int64(len("decoded payload")) {
		t.Fatalf("unexpected size %d", result.Size)
	}
	if len(result.Output) == 0 {
		t.Fatal("expected captured decoder output")
	}
}

func TestCLIDecodeFailureWrapsExternalTool(t *testing.T) {
	writeStub(t, "faildecoder", `echo "cannot parse container" >&2
exit 2
`)

	work := t.TempDir()
	result, err := NewCLI("faildecoder").Decode(context.Background(), "/tmp/whatever.NQF", work)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if result == nil || len(result.Output) == 0 {
		t.Fatal("expected captured output alongside the failure")
	}
}

func TestCLIDecodeNoArtifactFails(t *testing.T) {
	writeStub(t, "silentdecoder", `exit 0
`)

	work := t.TempDir()
	_, err := NewCLI("silentdecoder").Decode(context.Background(), "/tmp/whatever.NQF", work)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error for missing artifact, got %v", err)
	}
}

func TestCLIDecodeMissingBinary(t *testing.T) {
	_, err := NewCLI("definitely-not-installed-decoder").Decode(context.Background(), "/tmp/x.NQF", t.TempDir())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCLIDecodeTimeout(t *testing.T) {
	writeStub(t, "slowdecoder", `sleep 5
`)

	work := t.TempDir()
	cli := NewCLI("slowdecoder", WithTimeout(100*time.Millisecond))
	_, err := cli.Decode(context.Background(), "/tmp/x.NQF", work)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error on timeout, got %v", err)
	}
}
