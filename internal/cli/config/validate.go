package config

import (
	"fmt"
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// validOutputs lists accepted values of the output key.
var validOutputs = map[string]bool{
	"auto":     true,
	"text":     true,
	"markdown": true,
	"json":     true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Metadata == "" {
		return fmt.Errorf("metadata is required")
	}
	if c.OutputFormat != "" && !validOutputs[c.OutputFormat] {
		return fmt.Errorf("invalid output format %q (want auto, text, markdown or json)", c.OutputFormat)
	}
	if c.UI != nil {
		if err := c.UI.Validate(); err != nil {
			return err
		}
	}
	// File existence is checked by the commands that need it, so help and
	// version work without a project.
	return nil
}

// ValidateFiles checks that the metadata file exists.
func (c *Config) ValidateFiles() error {
	if _, err := os.Stat(c.Metadata); os.IsNotExist(err) {
		return fmt.Errorf("metadata file does not exist: %s\nHint: Create the file or use --metadata to specify a different path", c.Metadata)
	}
	return nil
}
