/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// manifestSchema is the JSON Schema the story.json manifest must satisfy.
// Kept inline so validation needs no file lookups at runtime.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "storyflow project manifest",
  "type": "object",
  "required": ["name", "scripts"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "metadata": {
      "type": "object",
      "properties": {
        "series": {"type": "string"},
        "authors": {"type": "string"},
        "notes": {"type": "string"}
      },
      "additionalProperties": false
    },
    "scripts": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["path"],
        "properties": {
          "path": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "entryLabel": {"type": "string"}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// ValidateManifest checks manifest bytes against the schema and returns a
// single error listing every violation.
func ValidateManifest(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(manifestSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var b strings.Builder
	for i, e := range result.Errors() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.String())
	}
	return fmt.Errorf("manifest invalid: %s", b.String())
}
