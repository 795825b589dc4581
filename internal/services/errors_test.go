package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrExternalTool, "extract", "run decoder", "Decoder invocation failed", cause)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "extract", "copy container", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient fallback, got %v", err)
	}
}

func TestWrapDetailOmitsEmptyParts(t *testing.T) {
	err := Wrap(ErrValidation, "", "", "", nil)
	want := "validation error: service failure"
	if err.Error() != want {
		t.Fatalf("unexpected message: got %q, want %q", err.Error(), want)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"usage", Wrap(ErrUsage, "extract", "scan", "no containers", nil), 2},
		{"configuration", ErrConfiguration, 2},
		{"interactive", Wrap(ErrInteractive, "review", "prompt", "stdin is not a terminal", nil), 3},
		{"external", Wrap(ErrExternalTool, "extract", "decode", "", errors.New("boom")), 1},
		{"plain", errors.New("boom"), 1},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Errorf("%s: ExitCode = %d, want %d", tc.name, got, tc.want)
		}
	}
}
