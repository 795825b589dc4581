// Package textutil provides small text helpers for display and filename
// hygiene.
package textutil

import (
	"fmt"
	"strings"
)

// HumanSize renders a byte count in a compact human form.
func HumanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

// ValidateFilename rejects names that cannot safely become a single path
// component: empty names, path separators, traversal segments, and NUL bytes.
func ValidateFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("filename is empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("filename %q contains a path separator", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("filename %q is a path traversal segment", name)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("filename contains a NUL byte")
	}
	return nil
}

// SplitExt splits a filename into stem and extension. Unlike filepath.Ext it
// treats a leading dot (hidden file with no other dot) as part of the stem.
func SplitExt(name string) (stem, ext string) {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}
