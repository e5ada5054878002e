/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config holds the user-editable application configuration: a YAML
// file in the user scope, with environment variables as read-only overrides
// at runtime.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// config_version: bump when the structure changes in a backward-incompatible
// way. Unknown fields are ignored on unmarshal.

type GeneralConfig struct {
	Theme string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
}

// EditorConfig controls canvas layout defaults.
type EditorConfig struct {
	LayoutColumns int     `yaml:"layout_columns"` // 0 means square-ish grid
	CardWidth     float64 `yaml:"card_width"`
	CardHeight    float64 `yaml:"card_height"`
	GapX          float64 `yaml:"gap_x"`
	GapY          float64 `yaml:"gap_y"`
}

// HistoryConfig caps the in-memory undo stacks.
type HistoryConfig struct {
	MaxBytes      int `yaml:"max_bytes"`
	MaxPerFile    int `yaml:"max_per_file"`
	MinIntervalMs int `yaml:"min_interval_ms"`
}

type CacheConfig struct {
	// WatchFiles invalidates cache entries when open scripts change on disk.
	WatchFiles bool `yaml:"watch_files"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Editor        EditorConfig  `yaml:"editor"`
	History       HistoryConfig `yaml:"history"`
	Cache         CacheConfig   `yaml:"cache"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system"},
		Editor:        EditorConfig{LayoutColumns: 0, CardWidth: 220, CardHeight: 120, GapX: 60, GapY: 60},
		History:       HistoryConfig{MaxBytes: 16 * 1024 * 1024, MaxPerFile: 200, MinIntervalMs: 250},
		Cache:         CacheConfig{WatchFiles: true},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvTheme         = "SFL_THEME"
	EnvLayoutColumns = "SFL_LAYOUT_COLUMNS"
	EnvWatchFiles    = "SFL_WATCH_FILES"
	EnvLogLevel      = "SFL_LOG_LEVEL"
	EnvLogFormat     = "SFL_LOG_FORMAT"
	EnvLogSource     = "SFL_LOG_SOURCE"
	EnvLogFile       = "SFL_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Storyflow")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Storyflow")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "storyflow")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	if src.Editor.LayoutColumns != 0 {
		dst.Editor.LayoutColumns = src.Editor.LayoutColumns
	}
	if src.Editor.CardWidth != 0 {
		dst.Editor.CardWidth = src.Editor.CardWidth
	}
	if src.Editor.CardHeight != 0 {
		dst.Editor.CardHeight = src.Editor.CardHeight
	}
	if src.Editor.GapX != 0 {
		dst.Editor.GapX = src.Editor.GapX
	}
	if src.Editor.GapY != 0 {
		dst.Editor.GapY = src.Editor.GapY
	}
	if src.History.MaxBytes != 0 {
		dst.History.MaxBytes = src.History.MaxBytes
	}
	if src.History.MaxPerFile != 0 {
		dst.History.MaxPerFile = src.History.MaxPerFile
	}
	if src.History.MinIntervalMs != 0 {
		dst.History.MinIntervalMs = src.History.MinIntervalMs
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Cache.WatchFiles = src.Cache.WatchFiles
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLayoutColumns)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Editor.LayoutColumns = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvWatchFiles)); v != "" {
		cfg.Cache.WatchFiles = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}
