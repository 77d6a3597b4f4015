package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExport()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataRoot, err = expandPath(c.Paths.DataRoot); err != nil {
		return fmt.Errorf("paths.data_root: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DBPath, err = expandPath(c.Paths.DBPath); err != nil {
		return fmt.Errorf("paths.db_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() {
	studies := make([]string, 0, len(c.Export.Studies))
	seen := make(map[string]struct{}, len(c.Export.Studies))
	for _, study := range c.Export.Studies {
		study = strings.TrimSpace(study)
		if study == "" {
			continue
		}
		if _, dup := seen[study]; dup {
			continue
		}
		seen[study] = struct{}{}
		studies = append(studies, study)
	}
	c.Export.Studies = studies
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.IdleSnoozeSeconds <= 0 {
		c.Workflow.IdleSnoozeSeconds = defaultIdleSnoozeSeconds
	}
	if c.Workflow.ErrorRetrySeconds <= 0 {
		c.Workflow.ErrorRetrySeconds = defaultErrorRetrySeconds
	}
	if c.Workflow.ClaimTimeoutMinutes <= 0 {
		c.Workflow.ClaimTimeoutMinutes = defaultClaimTimeoutMinutes
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
}
