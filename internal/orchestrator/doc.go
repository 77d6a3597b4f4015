// Package orchestrator runs the continuous export loop.
//
// Studies are scheduled round-robin from a fixed cursor: the loop stays on a
// study while it has ready interviews and advances once its backlog drains.
// A full pass that visits every study triggers at most one progress report
// and exactly one idle snooze, never one per study. Interviews are claimed
// before artifact collection so independent instances sharing the database
// do not race on the same batch.
package orchestrator
