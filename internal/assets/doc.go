// Package assets defines the export vocabulary shared by discovery, path
// resolution, and transfer: the Artifact tuple, its file/directory kind, the
// GENERAL/PROTECTED access tier, and the closed set of artifact tags.
//
// Tags drive two policies. Layout decides whether an artifact lands flattened
// under the interview folder or keeps its relative structure below the
// processing-root marker, and RetainSource decides whether the source is
// reclaimed after a successful export. Adding a new artifact family means
// adding a tag constant here and extending both dispatch tables, which keeps
// the decision deliberate rather than an open-ended string match.
package assets
