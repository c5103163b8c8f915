package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bekirdag/vdcdash/internal/session"
)

// appConfig is the optional config.yaml. Zero values mean "use the
// default"; the file is never written by the dashboard.
type appConfig struct {
	StartProject string `yaml:"start_project,omitempty"`
	StartStep    string `yaml:"start_step,omitempty"`
	ClockSeed    *int   `yaml:"clock_seed,omitempty"`
	PageSize     int    `yaml:"page_size,omitempty"`
	TestPageSize int    `yaml:"test_page_size,omitempty"`
	Theme        string `yaml:"theme,omitempty"`
	EventsPath   string `yaml:"events_path,omitempty"`
	Catalog      string `yaml:"catalog,omitempty"`
	CatalogDB    string `yaml:"catalog_db,omitempty"`
	TestLines    int    `yaml:"test_lines,omitempty"`
}

// loadAppConfig reads path, or the default location when path is empty.
// A missing default file is not an error; a missing explicit one is.
func loadAppConfig(path string) (*appConfig, string, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = filepath.Join(resolveConfigDir(), "config.yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &appConfig{}, path, nil
		}
		return nil, path, fmt.Errorf("read config: %w", err)
	}
	var cfg appConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.PageSize < 0 || cfg.TestPageSize < 0 {
		return nil, path, fmt.Errorf("parse config %s: page sizes must not be negative", path)
	}
	return &cfg, path, nil
}

// sessionOptions folds the file values over the defaults.
func (c *appConfig) sessionOptions() session.Options {
	opts := session.DefaultOptions()
	if c == nil {
		return opts
	}
	if c.StartProject != "" {
		opts.StartProject = c.StartProject
	}
	opts.StartStep = c.StartStep
	if c.ClockSeed != nil {
		opts.ClockSeed = *c.ClockSeed
	}
	if c.PageSize > 0 {
		opts.PageSize = c.PageSize
	}
	if c.TestPageSize > 0 {
		opts.TestPageSize = c.TestPageSize
	}
	return opts
}

func resolveConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "vdcdash")
}
