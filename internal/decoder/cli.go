package decoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"reclaim/internal/services"
)

// CLI drives an external decoder binary. The binary is invoked with the
// container path as its final argument and the item work directory as its
// working directory; whatever artifact it drops there with the configured
// suffix is picked up as the decoded blob.
type CLI struct {
	binary  string
	args    []string
	suffix  string
	timeout time.Duration
}

// Option adjusts CLI construction.
type Option func(*CLI)

// WithArgs sets extra arguments passed before the container path.
func WithArgs(args ...string) Option {
	return func(c *CLI) { c.args = append([]string(nil), args...) }
}

// WithTimeout bounds a single decoder invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithArtifactSuffix overrides the suffix used to locate decoder output.
func WithArtifactSuffix(suffix string) Option {
	return func(c *CLI) {
		if suffix != "" {
			c.suffix = suffix
		}
	}
}

// NewCLI returns a Decoder backed by the named binary.
func NewCLI(binary string, opts ...Option) *CLI {
	cli := &CLI{
		binary:  binary,
		suffix:  DefaultArtifactSuffix,
		timeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Name implements Decoder.
func (c *CLI) Name() string { return c.binary }

// Decode implements Decoder.
func (c *CLI) Decode(ctx context.Context, containerPath, workDir string) (*Result, error) {
	if _, err := exec.LookPath(c.binary); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "decoder", "lookup",
			fmt.Sprintf("decoder binary %q not found in PATH", c.binary), err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), c.args...), containerPath)
	cmd := exec.CommandContext(runCtx, c.binary, args...)
	cmd.Dir = workDir

	// Output travels back even on failure so callers can persist it to the
	// per-item decode log.
	output, err := cmd.CombinedOutput()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return &Result{Output: output}, services.Wrap(services.ErrExternalTool, "decoder", "run",
				fmt.Sprintf("decoder timed out after %s", c.timeout), err)
		}
		return &Result{Output: output}, services.Wrap(services.ErrExternalTool, "decoder", "run",
			fmt.Sprintf("decoder failed: %s", firstLine(output)), err)
	}

	artifact, err := FindArtifact(workDir, c.suffix)
	if err != nil {
		return &Result{Output: output}, services.Wrap(services.ErrExternalTool, "decoder", "collect", "locate decoder output", err)
	}
	if artifact == "" {
		return &Result{Output: output}, services.Wrap(services.ErrExternalTool, "decoder", "collect",
			fmt.Sprintf("decoder produced no %s artifact in %s", c.suffix, workDir), nil)
	}

	info, err := os.Stat(artifact)
	if err != nil {
		return &Result{Output: output}, services.Wrap(services.ErrExternalTool, "decoder", "collect", "stat decoder output", err)
	}

	return &Result{
		ArtifactPath: filepath.Clean(artifact),
		Size:         info.Size(),
		Output:       output,
	}, nil
}

func firstLine(output []byte) string {
	for i, b := range output {
		if b == '\n' {
			return string(output[:i])
		}
	}
	return string(output)
}
