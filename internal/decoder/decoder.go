// Package decoder turns quarantine containers back into raw payload blobs.
//
// Two implementations exist: CLI shells out to an external decoder binary and
// treats it as a black box, and Builtin applies the quarantine byte transform
// directly. Both write the decoded blob next to a copy of the container inside
// the item's work directory and name it with the artifact suffix that marks an
// item as already decoded.
package decoder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultArtifactSuffix marks decoded blobs produced for a container.
const DefaultArtifactSuffix = "_ESET.out"

// ArtifactName returns the canonical decoded-blob filename for a container.
func ArtifactName(containerBase string) string {
	return containerBase + ".00000000" + DefaultArtifactSuffix
}

// Result describes a successful decode.
type Result struct {
	// ArtifactPath is the decoded blob inside the work directory.
	ArtifactPath string
	// Size is the decoded blob's size in bytes.
	Size int64
	// Output is the decoder's combined stdout and stderr, empty for the
	// built-in decoder.
	Output []byte
}

// Decoder produces a payload blob from a quarantine container.
type Decoder interface {
	// Decode processes the container found at containerPath, writing its
	// artifact into workDir. On failure a non-nil Result may still be
	// returned carrying whatever output the tool produced.
	Decode(ctx context.Context, containerPath, workDir string) (*Result, error)
	// Name identifies the decoder for logs.
	Name() string
}

// FindArtifact locates a decoded blob in workDir by suffix match. It returns
// the empty string when no artifact exists. With multiple matches the
// lexicographically first is returned so re-runs are stable.
func FindArtifact(workDir, suffix string) (string, error) {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("scan work directory %s: %w", workDir, err)
	}
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), suffix) {
			matches = append(matches, entry.Name())
		}
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	return filepath.Join(workDir, matches[0]), nil
}
