package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// resolveExternalPath returns path as-is if absolute, otherwise joins it with projectRoot.
func resolveExternalPath(projectRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectRoot, path)
}

// loadToolFiles reads each file in ToolFiles as a YAML list of tools and
// appends them to c.Tools, rejecting names defined twice.
func (c *Config) loadToolFiles(projectRoot string) error {
	if len(c.ToolFiles) == 0 {
		return nil
	}

	sources := make(map[string]string, len(c.Tools))
	for _, t := range c.Tools {
		sources[t.Name] = "inline config"
	}

	for _, relPath := range c.ToolFiles {
		absPath := resolveExternalPath(projectRoot, relPath)
		data, err := os.ReadFile(absPath)
		if err != nil {
			return fmt.Errorf("load tool file %q: %w", relPath, err)
		}

		var tools []ToolConfig
		if err := yaml.Unmarshal(data, &tools); err != nil {
			return fmt.Errorf("parse tool file %q: %w", relPath, err)
		}

		for _, tool := range tools {
			if existing, ok := sources[tool.Name]; ok {
				return fmt.Errorf("tool %q defined in both %s and %q", tool.Name, existing, relPath)
			}
			sources[tool.Name] = relPath
			c.Tools = append(c.Tools, tool)
		}
	}

	return nil
}
