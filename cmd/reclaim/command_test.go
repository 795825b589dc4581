package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reclaim/internal/queue"
	"reclaim/internal/services"
	"reclaim/internal/testsupport"
)

func TestExecuteExtractDecodesAndReports(t *testing.T) {
	application := testApp(t)
	testsupport.WriteContainer(t, application.cfg.Paths.QuarantineDir, "A1.NQF", []byte("first"))
	testsupport.WriteContainer(t, application.cfg.Paths.QuarantineDir, "B2.NQF", []byte("second"))

	var out strings.Builder
	err := executeExtract(context.Background(), application, &extractOptions{}, &out)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	rendered := out.String()
	if !strings.Contains(rendered, "A1") || !strings.Contains(rendered, "B2") {
		t.Fatalf("expected both hashes in output:\n%s", rendered)
	}
	if !strings.Contains(rendered, "decoded") {
		t.Fatalf("expected decoded status in output:\n%s", rendered)
	}

	artifact := filepath.Join(application.cfg.Paths.OutputDir, "A1", "A1.NQF.00000000_ESET.out")
	data, err := os.ReadFile(artifact)
	if err != nil {
		t.Fatalf("expected decoded artifact: %v", err)
	}
	if string(data) != "first" {
		t.Fatalf("unexpected artifact content %q", data)
	}
}

func TestExecuteExtractSecondPassShowsSkipped(t *testing.T) {
	application := testApp(t)
	testsupport.WriteContainer(t, application.cfg.Paths.QuarantineDir, "A1.NQF", []byte("x"))

	if err := executeExtract(context.Background(), application, &extractOptions{}, &strings.Builder{}); err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if err := executeExtract(context.Background(), application, &extractOptions{}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "skipped") {
		t.Fatalf("expected skipped status on second pass:\n%s", out.String())
	}
}

func TestExecuteEvidencePrintsCandidates(t *testing.T) {
	application := testApp(t)
	path := writeEvidence(t, "archive.zip 2 MB\nsetup.exe\n1.5M\n")

	var out strings.Builder
	err := executeEvidence(context.Background(), application, &evidenceOptions{evidenceText: path}, &out)
	if err != nil {
		t.Fatalf("evidence: %v", err)
	}
	rendered := out.String()
	if !strings.Contains(rendered, "archive.zip") || !strings.Contains(rendered, "setup.exe") {
		t.Fatalf("expected candidates in output:\n%s", rendered)
	}
}

func TestExecuteEvidenceWithoutSourcesIsUsageError(t *testing.T) {
	application := testApp(t)
	err := executeEvidence(context.Background(), application, &evidenceOptions{}, &strings.Builder{})
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestExecuteStatusWithoutLedger(t *testing.T) {
	application := testApp(t)
	var out strings.Builder
	if err := executeStatus(context.Background(), application, &statusOptions{}, &out); err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out.String(), "nothing has been processed") {
		t.Fatalf("expected missing-ledger notice, got %q", out.String())
	}
}

func TestExecuteStatusListsItems(t *testing.T) {
	application := testApp(t)
	ctx := context.Background()

	store, err := queue.Open(ctx, filepath.Join(application.cfg.Paths.OutputDir, ledgerFileName))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Upsert(ctx, queue.Item{Hash: "AB", ContainerPath: "/q/AB.NQF"}); err != nil {
		t.Fatal(err)
	}
	if err := store.MarkCommitted(ctx, "AB", "won.zip"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	var out strings.Builder
	if err := executeStatus(ctx, application, &statusOptions{}, &out); err != nil {
		t.Fatalf("status: %v", err)
	}
	rendered := out.String()
	if !strings.Contains(rendered, "won.zip") {
		t.Fatalf("expected final name in output:\n%s", rendered)
	}
	if !strings.Contains(rendered, "committed: 1") {
		t.Fatalf("expected status counts in output:\n%s", rendered)
	}
}

func TestRootCommandRejectsUnknownSubcommand(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"definitely-not-a-command"})
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for unknown subcommand")
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")
	root := newRootCommand()
	var out strings.Builder
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"config", "init", "--path", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected sample written: %v", err)
	}
	if !strings.Contains(string(data), "[matcher]") {
		t.Fatal("sample config missing matcher section")
	}
}
