package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUsage marks fatal configuration problems: missing required paths or
	// an empty quarantine directory. Nothing has been written when it surfaces.
	ErrUsage = errors.New("usage error")
	// ErrExternalTool marks failures invoking a black-box collaborator
	// (decoder binary, tesseract).
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks rejected user input or inconsistent pipeline state.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration discovered after startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrInteractive marks a reconciliation attempt without an interactive
	// input channel. No commit has happened when it surfaces.
	ErrInteractive = errors.New("interactive environment error")
	// ErrTransient marks failures that a re-run may clear.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a pipeline error to the process exit status. Usage errors and
// a missing interactive channel exit with dedicated codes so wrappers can tell
// "nothing to do" apart from "refused to commit".
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage), errors.Is(err, ErrConfiguration):
		return 2
	case errors.Is(err, ErrInteractive):
		return 3
	default:
		return 1
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
