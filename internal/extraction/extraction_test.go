package extraction

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reclaim/internal/decoder"
	"reclaim/internal/queue"
	"reclaim/internal/services"
)

func encode(payload []byte) []byte {
	encoded := make([]byte, len(payload))
	for i, b := range payload {
		encoded[i] = (b ^ 0xA5) + 84
	}
	return encoded
}

func writeContainer(t *testing.T, dir, name string, payload []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), encode(payload), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanFiltersAndSorts(t *testing.T) {
	quarantine := t.TempDir()
	writeContainer(t, quarantine, "B2.NQF", []byte("b"))
	writeContainer(t, quarantine, "A1.nqf", []byte("a"))
	if err := os.WriteFile(filepath.Join(quarantine, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(quarantine, t.TempDir(), ".nqf", decoder.NewBuiltin())
	containers, err := manager.Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(containers) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(containers))
	}
	if containers[0].Hash != "A1" || containers[1].Hash != "B2" {
		t.Fatalf("expected sorted hashes, got %s %s", containers[0].Hash, containers[1].Hash)
	}
}

func TestScanEmptyQuarantineIsUsageError(t *testing.T) {
	manager := NewManager(t.TempDir(), t.TempDir(), ".nqf", decoder.NewBuiltin())
	_, err := manager.Scan()
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRunDecodesAndIsNonDestructive(t *testing.T) {
	quarantine := t.TempDir()
	output := t.TempDir()
	payload := []byte("original payload bytes")
	writeContainer(t, quarantine, "C7A1.NQF", payload)

	manager := NewManager(quarantine, output, ".nqf", decoder.NewBuiltin())
	results, err := manager.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	result := results[0]
	if result.Err != nil {
		t.Fatalf("item failed: %v", result.Err)
	}
	if result.Skipped {
		t.Fatal("first run must not skip")
	}

	decoded, err := os.ReadFile(result.BlobPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != string(payload) {
		t.Fatalf("unexpected decoded payload %q", decoded)
	}

	// The quarantine container stays in place and a working copy exists.
	if _, err := os.Stat(filepath.Join(quarantine, "C7A1.NQF")); err != nil {
		t.Fatalf("quarantine container must remain: %v", err)
	}
	if _, err := os.Stat(filepath.Join(output, "C7A1", "C7A1.NQF")); err != nil {
		t.Fatalf("working copy missing: %v", err)
	}
}

func TestRunSecondPassSkips(t *testing.T) {
	quarantine := t.TempDir()
	output := t.TempDir()
	writeContainer(t, quarantine, "AA11.NQF", []byte("payload"))

	manager := NewManager(quarantine, output, ".nqf", decoder.NewBuiltin())
	if _, err := manager.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	results, err := manager.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Skipped {
		t.Fatal("second run must skip decoded item")
	}
	if results[0].BlobSize != int64(len("payload")) {
		t.Fatalf("skipped result must carry blob size, got %d", results[0].BlobSize)
	}
}

// failingDecoder fails for hashes listed in bad, delegating otherwise.
type failingDecoder struct {
	inner decoder.Decoder
	bad   map[string]bool
}

func (f failingDecoder) Name() string { return "failing" }

func (f failingDecoder) Decode(ctx context.Context, containerPath, workDir string) (*decoder.Result, error) {
	base := filepath.Base(containerPath)
	for hash := range f.bad {
		if strings.HasPrefix(base, hash) {
			return nil, services.Wrap(services.ErrExternalTool, "decoder", "run", "synthetic failure", nil)
		}
	}
	return f.inner.Decode(ctx, containerPath, workDir)
}

func TestRunContinuesPastItemFailure(t *testing.T) {
	quarantine := t.TempDir()
	output := t.TempDir()
	writeContainer(t, quarantine, "BAD1.NQF", []byte("x"))
	writeContainer(t, quarantine, "GOOD.NQF", []byte("y"))

	dec := failingDecoder{inner: decoder.NewBuiltin(), bad: map[string]bool{"BAD1": true}}
	manager := NewManager(quarantine, output, ".nqf", dec)
	results, err := manager.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err == nil {
		t.Fatal("expected first item to fail")
	}
	if results[1].Err != nil {
		t.Fatalf("second item must succeed, got %v", results[1].Err)
	}
}

// noisyFailingDecoder always fails but reports tool output.
type noisyFailingDecoder struct{}

func (noisyFailingDecoder) Name() string { return "noisy" }

func (noisyFailingDecoder) Decode(context.Context, string, string) (*decoder.Result, error) {
	return &decoder.Result{Output: []byte("parse error at offset 12\n")},
		services.Wrap(services.ErrExternalTool, "decoder", "run", "synthetic failure", nil)
}

func TestRunWritesDecodeLogOnFailure(t *testing.T) {
	quarantine := t.TempDir()
	output := t.TempDir()
	writeContainer(t, quarantine, "FF.NQF", []byte("x"))

	manager := NewManager(quarantine, output, ".nqf", noisyFailingDecoder{})
	results, err := manager.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if results[0].Err == nil {
		t.Fatal("expected item failure")
	}
	data, err := os.ReadFile(filepath.Join(output, "FF", "decode.log"))
	if err != nil {
		t.Fatalf("expected decode log despite failure: %v", err)
	}
	if !strings.Contains(string(data), "parse error") {
		t.Fatalf("unexpected log content %q", data)
	}
}

func TestRunRecordsLedgerOutcomes(t *testing.T) {
	quarantine := t.TempDir()
	output := t.TempDir()
	writeContainer(t, quarantine, "BAD1.NQF", []byte("x"))
	writeContainer(t, quarantine, "GOOD.NQF", []byte("y"))

	ctx := context.Background()
	store, err := queue.Open(ctx, filepath.Join(output, "reclaim.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	dec := failingDecoder{inner: decoder.NewBuiltin(), bad: map[string]bool{"BAD1": true}}
	manager := NewManager(quarantine, output, ".nqf", dec,
		WithStore(store), WithSessionID("session-7"))
	if _, err := manager.Run(ctx); err != nil {
		t.Fatal(err)
	}

	failed, err := store.GetByHash(ctx, "BAD1")
	if err != nil {
		t.Fatal(err)
	}
	if failed.Status != queue.StatusFailed {
		t.Fatalf("expected failed status, got %s", failed.Status)
	}

	good, err := store.GetByHash(ctx, "GOOD")
	if err != nil {
		t.Fatal(err)
	}
	if good.Status != queue.StatusDecoded {
		t.Fatalf("expected decoded status, got %s", good.Status)
	}
	if good.SessionID != "session-7" {
		t.Fatalf("expected session id recorded, got %q", good.SessionID)
	}
	if good.BlobSize != 1 {
		t.Fatalf("expected blob size 1, got %d", good.BlobSize)
	}
}
