// Package extraction walks the quarantine directory and turns every container
// into a decoded blob inside its own work directory.
//
// The pipeline is idempotent and non-destructive: containers are copied, never
// moved, and an existing decoded artifact makes a re-run skip that item
// entirely. Failures on one item never stop the batch.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"reclaim/internal/decoder"
	"reclaim/internal/fileutil"
	"reclaim/internal/logging"
	"reclaim/internal/queue"
	"reclaim/internal/services"
)

// decodeLogName is the per-item file capturing decoder output.
const decodeLogName = "decode.log"

// Container is one quarantine file selected for processing. Hash is the
// filename stem and identifies the item everywhere downstream.
type Container struct {
	Hash string
	Path string
}

// ItemResult reports the outcome for one container.
type ItemResult struct {
	Hash          string
	ContainerPath string
	WorkDir       string
	BlobPath      string
	BlobSize      int64
	// Skipped is true when a previous run already decoded this item.
	Skipped bool
	// Err is the per-item failure; the batch continues past it.
	Err error
}

// Manager drives the decode phase of a run.
type Manager struct {
	quarantineDir  string
	outputDir      string
	containerExt   string
	artifactSuffix string
	sessionID      string
	decoder        decoder.Decoder
	store          *queue.Store
	logger         *slog.Logger
}

// Option adjusts Manager construction.
type Option func(*Manager)

// WithStore attaches the run ledger; outcomes are recorded per item.
func WithStore(store *queue.Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithSessionID tags ledger rows with the run session.
func WithSessionID(id string) Option {
	return func(m *Manager) { m.sessionID = id }
}

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithArtifactSuffix overrides the decoded-artifact marker suffix.
func WithArtifactSuffix(suffix string) Option {
	return func(m *Manager) {
		if suffix != "" {
			m.artifactSuffix = suffix
		}
	}
}

// NewManager builds a Manager over the given directories and decoder.
func NewManager(quarantineDir, outputDir, containerExt string, dec decoder.Decoder, opts ...Option) *Manager {
	manager := &Manager{
		quarantineDir:  quarantineDir,
		outputDir:      outputDir,
		containerExt:   containerExt,
		artifactSuffix: decoder.DefaultArtifactSuffix,
		decoder:        dec,
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(manager)
	}
	return manager
}

// Scan lists containers in the quarantine directory, matched by extension
// case-insensitively and sorted by name. An empty quarantine is a usage
// error; nothing is created on disk before this check passes.
func (m *Manager) Scan() ([]Container, error) {
	entries, err := os.ReadDir(m.quarantineDir)
	if err != nil {
		return nil, services.Wrap(services.ErrUsage, "extraction", "scan",
			fmt.Sprintf("read quarantine directory %s", m.quarantineDir), err)
	}

	var containers []Container
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), m.containerExt) {
			continue
		}
		containers = append(containers, Container{
			Hash: strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(m.quarantineDir, name),
		})
	}
	if len(containers) == 0 {
		return nil, services.Wrap(services.ErrUsage, "extraction", "scan",
			fmt.Sprintf("no %s containers in %s", m.containerExt, m.quarantineDir), nil)
	}

	sort.Slice(containers, func(i, j int) bool { return containers[i].Path < containers[j].Path })
	return containers, nil
}

// Run decodes every container. One result is returned per container, in scan
// order; items that fail carry their error and the batch moves on.
func (m *Manager) Run(ctx context.Context) ([]ItemResult, error) {
	containers, err := m.Scan()
	if err != nil {
		return nil, err
	}

	results := make([]ItemResult, 0, len(containers))
	for _, container := range containers {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		itemCtx := services.WithItemHash(ctx, container.Hash)
		results = append(results, m.processOne(itemCtx, container))
	}
	return results, nil
}

func (m *Manager) processOne(ctx context.Context, container Container) ItemResult {
	logger := logging.WithContext(ctx, m.logger)
	result := ItemResult{
		Hash:          container.Hash,
		ContainerPath: container.Path,
		WorkDir:       filepath.Join(m.outputDir, container.Hash),
	}

	m.recordPending(ctx, &result)

	// A decoded artifact from a previous run makes this item a no-op.
	existing, err := decoder.FindArtifact(result.WorkDir, m.artifactSuffix)
	if err == nil && existing != "" {
		info, statErr := os.Stat(existing)
		if statErr == nil {
			result.BlobPath = existing
			result.BlobSize = info.Size()
			result.Skipped = true
			logger.Info("already decoded, skipping",
				logging.String("artifact", filepath.Base(existing)))
			m.recordDecoded(ctx, result)
			return result
		}
	}

	if err := fileutil.EnsureDir(result.WorkDir); err != nil {
		return m.fail(ctx, logger, result, err)
	}

	// The container is copied so the quarantine directory stays untouched
	// whatever the decoder does.
	workingCopy := filepath.Join(result.WorkDir, filepath.Base(container.Path))
	if !fileutil.FileExists(workingCopy) {
		if _, err := fileutil.CopyFilePreserve(container.Path, workingCopy); err != nil {
			return m.fail(ctx, logger, result, err)
		}
	}

	m.recordDecoding(ctx, result)
	logger.Info("decoding container", logging.String("decoder", m.decoder.Name()))

	decodeResult, err := m.decoder.Decode(ctx, workingCopy, result.WorkDir)
	if decodeResult != nil && len(decodeResult.Output) > 0 {
		logPath := filepath.Join(result.WorkDir, decodeLogName)
		if writeErr := os.WriteFile(logPath, decodeResult.Output, 0o644); writeErr != nil {
			logger.Warn("could not write decode log", logging.Error(writeErr))
		}
	}
	if err != nil {
		return m.fail(ctx, logger, result, err)
	}

	result.BlobPath = decodeResult.ArtifactPath
	result.BlobSize = decodeResult.Size
	logger.Info("decoded container",
		logging.String("artifact", filepath.Base(result.BlobPath)),
		logging.Int64("bytes", result.BlobSize))
	m.recordDecoded(ctx, result)
	return result
}

func (m *Manager) fail(ctx context.Context, logger *slog.Logger, result ItemResult, err error) ItemResult {
	result.Err = err
	logger.Error("item failed", logging.Error(err))
	if m.store != nil {
		if storeErr := m.store.MarkFailed(ctx, result.Hash, err.Error()); storeErr != nil {
			logger.Warn("could not record failure", logging.Error(storeErr))
		}
	}
	return result
}

func (m *Manager) recordPending(ctx context.Context, result *ItemResult) {
	if m.store == nil {
		return
	}
	_, err := m.store.Upsert(ctx, queue.Item{
		Hash:          result.Hash,
		ContainerPath: result.ContainerPath,
		WorkDir:       result.WorkDir,
		SessionID:     m.sessionID,
	})
	if err != nil {
		m.logger.Warn("could not record item", logging.String("item_hash", result.Hash), logging.Error(err))
	}
}

func (m *Manager) recordDecoding(ctx context.Context, result ItemResult) {
	if m.store == nil {
		return
	}
	if err := m.store.SetStatus(ctx, result.Hash, queue.StatusDecoding); err != nil {
		m.logger.Warn("could not record decoding status", logging.String("item_hash", result.Hash), logging.Error(err))
	}
}

func (m *Manager) recordDecoded(ctx context.Context, result ItemResult) {
	if m.store == nil {
		return
	}
	if err := m.store.SetDecoded(ctx, result.Hash, result.BlobPath, result.BlobSize); err != nil {
		m.logger.Warn("could not record decoded status", logging.String("item_hash", result.Hash), logging.Error(err))
	}
}
