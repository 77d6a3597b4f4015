package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataRoot) == "" {
		return errors.New("paths.data_root must be set")
	}
	if strings.TrimSpace(c.Paths.DBPath) == "" {
		return errors.New("paths.db_path must be set")
	}
	return nil
}

func (c *Config) validateExport() error {
	if len(c.Export.Studies) == 0 {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/avexport/config.toml"
		}
		return fmt.Errorf("export.studies must list at least one study; edit %s (create with 'avexport config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
