/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain defines the project-level data model: the manifest that ties
// a set of script files into one story project. It serializes to a
// human-readable JSON manifest at the project root.
package domain

// Project represents a story project and its metadata.
type Project struct {
	Name     string      `json:"name"`
	Metadata Metadata    `json:"metadata,omitempty"`
	Scripts  []ScriptRef `json:"scripts"`
}

// Metadata contains optional descriptive metadata for a project.
type Metadata struct {
	Series  string `json:"series,omitempty"`
	Authors string `json:"authors,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// ScriptRef points at one script file of the project.
type ScriptRef struct {
	// Path is relative to the project root.
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
	// EntryLabel is the label the story starts from when this script runs.
	EntryLabel string `json:"entryLabel,omitempty"`
}

// Script returns the ScriptRef with the given path, or nil.
func (p *Project) Script(path string) *ScriptRef {
	for i := range p.Scripts {
		if p.Scripts[i].Path == path {
			return &p.Scripts[i]
		}
	}
	return nil
}
