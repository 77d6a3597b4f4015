// Package ledger persists the durable record of completed exports in SQLite.
//
// The exported_assets table is append-only: one row per artifact, written in
// a single transaction per interview after every artifact has been copied.
// The existence of any row for an interview name is the exactly-once gate;
// discovery never re-selects a recorded interview. The export_claims table
// holds short-lived processing markers so concurrent exporter instances do
// not race on the same interview; claims are advisory and expire, the ledger
// rows are the commit.
//
// Treat this package as the single source of truth for export-state
// semantics. Schema changes bump schemaVersion in schema.go.
package ledger
