// Package transfer moves a resolved interview batch into the export tree.
//
// The ordering contract is copy, then record, then reclaim: every artifact
// is copied before any ledger row is written, and no source is deleted until
// the whole batch is durable in the ledger. A copy failure aborts the batch
// with the tree possibly holding partial copies but the ledger untouched, so
// the interview stays eligible for a clean retry.
package transfer
