// Package services defines shared utilities consumed by the export pipeline
// components.
//
// Key responsibilities:
//   - Context helpers that stamp study and interview identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into skip-and-continue, batch-abort, and process-fatal outcomes.
//
// Use these helpers when wiring new export logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
