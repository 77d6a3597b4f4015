// Package config loads, normalizes, and validates the exporter's TOML
// configuration.
//
// Load resolves the config path (explicit flag, then the user config dir,
// then a project-local file), decodes over compiled defaults, expands ~ in
// every path field, and validates the result. A config that fails validation
// is a startup error; the daemon refuses to run on it.
//
// Sections map to subsystems: [paths] for the export tree root, log
// directory, and database; [export] for the scheduled study list and
// dry-run; [workflow] for loop timing; [logging] for output shape.
package config
