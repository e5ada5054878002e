/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"testing"
)

func TestDefaultsAreSane(t *testing.T) {
	cfg := Defaults()
	if cfg.ConfigVersion != 1 {
		t.Fatalf("ConfigVersion = %d", cfg.ConfigVersion)
	}
	if cfg.Editor.CardWidth <= 0 || cfg.Editor.CardHeight <= 0 {
		t.Fatalf("editor card defaults missing: %#v", cfg.Editor)
	}
	if cfg.History.MaxBytes <= 0 || cfg.History.MinIntervalMs <= 0 {
		t.Fatalf("history defaults missing: %#v", cfg.History)
	}
}

func TestMergeIncludesEditor(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Editor.LayoutColumns = 6
	src.Editor.CardWidth = 300
	mergeInto(&dst, &src)
	if dst.Editor.LayoutColumns != 6 || dst.Editor.CardWidth != 300 {
		t.Fatalf("editor fields not merged: %#v", dst.Editor)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/storyflow.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/storyflow.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestMergeCarriesWatchFiles(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Cache.WatchFiles = false
	mergeInto(&dst, &src)
	if dst.Cache.WatchFiles {
		t.Fatalf("WatchFiles was not merged from file config")
	}
}

func TestEnvOverridesLayoutColumns(t *testing.T) {
	old := os.Getenv(EnvLayoutColumns)
	_ = os.Setenv(EnvLayoutColumns, "4")
	t.Cleanup(func() { _ = os.Setenv(EnvLayoutColumns, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.LayoutColumns != 4 {
		t.Fatalf("Editor.LayoutColumns = %d, want 4", cfg.Editor.LayoutColumns)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "/tmp/sfl.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/sfl.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}
