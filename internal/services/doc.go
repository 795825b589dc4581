// Package services defines shared utilities consumed by the pipeline stages
// and external tool adapters.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     (usage, external tool, interactive environment, transient) so commands
//     can pick exit codes and the ledger can record outcomes consistently.
//   - Context helpers that stamp item hashes and run session identifiers for
//     logging.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
