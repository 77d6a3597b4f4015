// Package discovery selects exportable interviews and enumerates their
// artifacts from the pipeline state tables.
//
// Selection joins the per-family completion signals (report generation and
// OpenFace load) and excludes anything already in the export ledger or
// currently claimed, picking uniformly at random so a fixed iteration order
// cannot starve interviews with large artifact sets and so concurrent
// instances spread across the backlog. Enumeration resolves each artifact
// family independently; a family that is absent or incomplete contributes
// nothing, which is normal rather than an error.
//
// Discovery only reads pipeline state. It never mutates upstream tables.
package discovery
