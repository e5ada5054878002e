/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import "errors"

// The mutation error taxonomy. Every mutating operation recovers locally:
// it returns a Result carrying one of these and leaves AST and graph
// untouched (no partial splices).
var (
	// ErrUnresolvableLabel: a node's owning scene cannot be determined.
	ErrUnresolvableLabel = errors.New("no owning label resolvable")
	// ErrInvalidConnection: a port/type/duplicate rule was violated.
	ErrInvalidConnection = errors.New("invalid connection")
	// ErrAmbiguousStatement: an edge cannot be traced to exactly one AST
	// statement for removal.
	ErrAmbiguousStatement = errors.New("edge does not map to exactly one statement")
	// ErrMalformedHandle: a handle references a non-existent port index.
	ErrMalformedHandle = errors.New("malformed handle")
)

// Result is the outcome of a mutating operation, shaped so the UI can show
// pass/fail feedback without inspecting internals.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func succeeded() Result { return Result{Success: true} }

func failed(err error) Result { return Result{Success: false, Error: err.Error()} }
