// Package daemon supervises the export loop as a long-running process. It
// enforces single-instance execution per host with a lock file so two
// daemons never share one configuration's lock directory, and translates
// context cancellation into a clean loop shutdown between interviews.
package daemon
