package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"reclaim/internal/logging"
	"reclaim/internal/services"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".tif":  {},
	".tiff": {},
	".bmp":  {},
	".webp": {},
}

// Tesseract extracts text from every screenshot in a directory.
type Tesseract struct {
	Dir      string
	Binary   string
	Language string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Describe implements Source.
func (t Tesseract) Describe() string { return "screenshots " + t.Dir }

// Collect implements Source. Images are processed in name order so repeated
// runs see identical evidence. A failure on one image is logged and skipped;
// Collect only fails when the binary is absent or the directory is unreadable.
func (t Tesseract) Collect(ctx context.Context) (string, error) {
	logger := t.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	binary := t.Binary
	if binary == "" {
		binary = "tesseract"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "ocr", "lookup",
			fmt.Sprintf("ocr binary %q not found in PATH", binary), err)
	}

	images, err := t.listImages()
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		logger.Warn("no screenshots found", logging.String("dir", t.Dir))
		return "", nil
	}

	var builder strings.Builder
	for _, image := range images {
		text, err := t.runOne(ctx, binary, image)
		if err != nil {
			logger.Warn("skipping unreadable screenshot",
				logging.String("image", filepath.Base(image)),
				logging.Error(err))
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func (t Tesseract) listImages() ([]string, error) {
	entries, err := os.ReadDir(t.Dir)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "ocr", "scan",
			fmt.Sprintf("read screenshots directory %s", t.Dir), err)
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; ok {
			images = append(images, filepath.Join(t.Dir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

func (t Tesseract) runOne(ctx context.Context, binary, image string) (string, error) {
	runCtx := ctx
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	args := []string{image, "stdout"}
	if t.Language != "" {
		args = append(args, "-l", t.Language)
	}
	cmd := exec.CommandContext(runCtx, binary, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}
