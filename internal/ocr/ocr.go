// Package ocr gathers raw evidence text describing the files that were
// quarantined.
//
// Evidence can come from a prepared text file (a saved directory listing, a
// prior OCR dump) or be extracted on the fly from screenshots with tesseract.
// Sources only deliver text; parsing it into name/size candidates happens in
// the evidence package.
package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"reclaim/internal/services"
)

// Source yields raw evidence text.
type Source interface {
	// Collect returns the evidence text. An empty string with a nil error
	// means the source had nothing to offer.
	Collect(ctx context.Context) (string, error)
	// Describe identifies the source for logs.
	Describe() string
}

// TextFile reads evidence from a plain text file.
type TextFile struct {
	Path string
}

// Describe implements Source.
func (t TextFile) Describe() string { return "text file " + t.Path }

// Collect implements Source.
func (t TextFile) Collect(_ context.Context) (string, error) {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "ocr", "read",
			fmt.Sprintf("read evidence file %s", t.Path), err)
	}
	return string(data), nil
}

// Combine concatenates the text of every source, separated by newlines.
// Sources that fail contribute nothing but do not abort collection unless all
// sources fail.
func Combine(ctx context.Context, sources ...Source) (string, error) {
	var parts []string
	var firstErr error
	for _, src := range sources {
		text, err := src.Collect(ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 && firstErr != nil {
		return "", firstErr
	}
	return strings.Join(parts, "\n"), nil
}
