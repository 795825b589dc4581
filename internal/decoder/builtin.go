package decoder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"reclaim/internal/services"
)

// Builtin decodes quarantine containers without an external tool. Container
// payloads are stored with each byte shifted and XOR-masked; reversing the
// transform yields the original file bytes.
type Builtin struct{}

// NewBuiltin returns the built-in quarantine decoder.
func NewBuiltin() *Builtin { return &Builtin{} }

// Name implements Decoder.
func (*Builtin) Name() string { return "builtin" }

// Decode implements Decoder.
func (*Builtin) Decode(ctx context.Context, containerPath, workDir string) (*Result, error) {
	in, err := os.Open(containerPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "decoder", "open",
			fmt.Sprintf("open container %s", containerPath), err)
	}
	defer in.Close()

	artifact := filepath.Join(workDir, ArtifactName(filepath.Base(containerPath)))
	out, err := os.CreateTemp(workDir, ".decode-*")
	if err != nil {
		return nil, services.Wrap(nil, "decoder", "write", "create decode output", err)
	}
	tmpName := out.Name()
	defer os.Remove(tmpName)

	size, err := transform(ctx, in, out)
	if err != nil {
		out.Close()
		return nil, services.Wrap(nil, "decoder", "write", "decode container payload", err)
	}
	if err := out.Close(); err != nil {
		return nil, services.Wrap(nil, "decoder", "write", "close decode output", err)
	}
	if err := os.Rename(tmpName, artifact); err != nil {
		return nil, services.Wrap(nil, "decoder", "write", "finalize decode output", err)
	}

	return &Result{ArtifactPath: artifact, Size: size}, nil
}

func transform(ctx context.Context, in io.Reader, out io.Writer) (int64, error) {
	reader := bufio.NewReader(in)
	writer := bufio.NewWriter(out)
	buf := make([]byte, 64*1024)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := reader.Read(buf)
		for i := 0; i < n; i++ {
			buf[i] = (buf[i] - 84) ^ 0xA5
		}
		if n > 0 {
			if _, werr := writer.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, err
		}
	}
	return total, writer.Flush()
}
