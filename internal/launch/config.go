// Package launch starts the coursework companion apps as subprocesses.
// Apps come from a strict allow-list registry so the launcher never
// executes arbitrary commands, and every launch passes the access gate
// first on student builds.
package launch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig describes one launchable app.
type AppConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Title       string            `yaml:"title" json:"title"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Dir         string            `yaml:"dir" json:"dir"`
	Description string            `yaml:"description" json:"description"`
}

// RegistryFile is the on-disk structure of apps.yaml.
type RegistryFile struct {
	Apps []AppConfig `yaml:"apps" json:"apps"`
}

// LoadRegistry reads an apps registry (YAML, or JSON by extension) and
// returns a map of app names to configs. A missing file means no apps
// configured, not an error.
func LoadRegistry(path string) (map[string]AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]AppConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read apps registry: %w", err)
	}

	var file RegistryFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse apps registry: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse apps registry: %w", err)
		}
	}

	apps := make(map[string]AppConfig)
	for _, app := range file.Apps {
		if app.Name == "" {
			continue
		}
		apps[app.Name] = app
	}
	return apps, nil
}
