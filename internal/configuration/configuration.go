package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/pkg/errors"

	"sonnik/internal/file"
)

var defaultConfig = Config{
	APIBaseURL:     "http://localhost:3000/api",
	RequestTimeout: 60,
	StatePath:      "~/.sonnik/state.db",
	AdminPageSize:  10,
}

// Config holds configuration for the sonnik tool.
type Config struct {
	// Base URL of the backend API.
	APIBaseURL string `json:"api_base_url"`
	// Request timeout in seconds.
	RequestTimeout int `json:"request_timeout"`
	// Path of the local state database.
	StatePath string `json:"state_path"`
	// Page size of the admin users table.
	AdminPageSize int `json:"admin_page_size"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	// Fill any field the file omits with its default.
	if err := mergo.Merge(config, defaultConfig); err != nil {
		return nil, errors.Wrap(err, "merging defaults")
	}

	expandedStatePath, err := file.ExpandPath(config.StatePath)
	if err != nil {
		return nil, errors.Wrap(err, "expanding state path")
	}
	config.StatePath = expandedStatePath
	if err := os.MkdirAll(filepath.Dir(config.StatePath), 0755); err != nil {
		return nil, errors.Wrap(err, "creating state directory")
	}
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
