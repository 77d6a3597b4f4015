package testsupport

import (
	"path/filepath"
	"testing"

	"avexport/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataRoot = filepath.Join(base, "phoenix")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DBPath = filepath.Join(base, "pipeline.db")
	cfgVal.Export.Studies = []string{"ChicagoA"}
	cfgVal.Workflow.IdleSnoozeSeconds = 1
	cfgVal.Workflow.ErrorRetrySeconds = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStudies overrides the scheduled study list on the test config.
func WithStudies(studies ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.Studies = studies
	}
}

// WithDryRun enables dry-run mode on the test config.
func WithDryRun() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.DryRun = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataRoot)
}
