package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"avexport/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[paths]
data_root = "`+dir+`/phoenix"
db_path = "`+dir+`/pipeline.db"
log_dir = "`+dir+`/logs"

[export]
studies = ["ChicagoA", "ChicagoB"]
`)
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Errorf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Workflow.IdleSnoozeSeconds != 300 {
		t.Errorf("IdleSnoozeSeconds = %d, want default 300", cfg.Workflow.IdleSnoozeSeconds)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Format = %q, want console", cfg.Logging.Format)
	}
	if !filepath.IsAbs(cfg.Paths.DataRoot) {
		t.Errorf("DataRoot %q not absolute", cfg.Paths.DataRoot)
	}
}

func TestLoadRejectsEmptyStudies(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[paths]
data_root = "`+dir+`"
db_path = "`+dir+`/pipeline.db"
`)
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "export.studies") {
		t.Errorf("Load err = %v, want studies validation error", err)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[paths]
data_root = "`+dir+`"
db_path = "`+dir+`/pipeline.db"

[export]
studies = ["ChicagoA"]

[logging]
format = "xml"
`)
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Errorf("Load err = %v, want format validation error", err)
	}
}

func TestNormalizeDeduplicatesStudies(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[paths]
data_root = "`+dir+`"
db_path = "`+dir+`/pipeline.db"

[export]
studies = ["ChicagoA", " ", "ChicagoA", "ChicagoB"]
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Export.Studies) != 2 || cfg.Export.Studies[0] != "ChicagoA" || cfg.Export.Studies[1] != "ChicagoB" {
		t.Errorf("Studies = %v", cfg.Export.Studies)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[export]") {
		t.Errorf("sample missing export section")
	}
}
