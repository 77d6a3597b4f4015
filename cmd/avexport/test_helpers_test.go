package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// writeCLIConfig materializes a minimal valid config file in a temp dir and
// returns its path alongside the base dir.
func writeCLIConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[paths]
data_root = "` + dir + `/phoenix"
db_path = "` + dir + `/pipeline.db"
log_dir = "` + dir + `/logs"

[export]
studies = ["ChicagoA"]
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, dir
}

// runCommand executes the CLI with args and captures stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
