// Package commit materializes confirmed assignments as renamed copies of
// recovered blobs.
//
// A recovered file is written into the blob's own work directory, so every
// artifact belonging to one quarantine item stays together. Existing files are
// never overwritten; colliding names receive a numbered suffix before the
// extension.
package commit

import (
	"fmt"
	"os"
	"path/filepath"

	"reclaim/internal/fileutil"
	"reclaim/internal/services"
	"reclaim/internal/textutil"
)

// maxCollisionAttempts bounds the suffix search for an unoccupied name.
const maxCollisionAttempts = 1000

// Copy describes one committed blob.
type Copy struct {
	// Source is the blob that was copied.
	Source string
	// Name is the filename actually written, after collision handling.
	Name string
	// Path is the absolute destination.
	Path string
	// Size is the number of bytes written.
	Size int64
	// Renamed is true when the requested name was taken and a suffixed
	// variant was used instead.
	Renamed bool
}

// Result aggregates a commit phase.
type Result struct {
	Copies []Copy
}

// Count returns how many files were created.
func (r Result) Count() int { return len(r.Copies) }

// Commit copies the blob into its own directory under name, preserving the
// blob's modification time. When name is already taken the file lands as
// "name (recovered N).ext" with the smallest free N; nothing is ever
// overwritten.
func Commit(blobPath, name string) (Copy, error) {
	if err := textutil.ValidateFilename(name); err != nil {
		return Copy{}, services.Wrap(services.ErrValidation, "commit", "validate", "recovered name", err)
	}

	dir := filepath.Dir(blobPath)
	finalName, renamed, err := allocateName(dir, name)
	if err != nil {
		return Copy{}, err
	}

	destination := filepath.Join(dir, finalName)
	size, err := fileutil.CopyFilePreserve(blobPath, destination)
	if err != nil {
		return Copy{}, services.Wrap(nil, "commit", "write", fmt.Sprintf("write %s", finalName), err)
	}

	return Copy{Source: blobPath, Name: finalName, Path: destination, Size: size, Renamed: renamed}, nil
}

func allocateName(dir, name string) (string, bool, error) {
	if !exists(dir, name) {
		return name, false, nil
	}
	stem, ext := textutil.SplitExt(name)
	for n := 1; n <= maxCollisionAttempts; n++ {
		candidate := fmt.Sprintf("%s (recovered %d)%s", stem, n, ext)
		if !exists(dir, candidate) {
			return candidate, true, nil
		}
	}
	return "", false, services.Wrap(nil, "commit", "allocate",
		fmt.Sprintf("no free name for %s after %d attempts", name, maxCollisionAttempts), nil)
}

func exists(dir, name string) bool {
	_, err := os.Lstat(filepath.Join(dir, name))
	return err == nil
}
