/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script defines the abstract syntax tree of a branching-narrative
// script file. The tree is produced by an external parser and exchanged as a
// JSON document; this package owns the in-memory model, identity, traversal
// and hashing. Statement ids are stable across edits and are the join key
// between the AST and the derived flow graph.
package script

import "github.com/google/uuid"

// Kind discriminates statement variants.
type Kind string

const (
	KindLabel    Kind = "label"
	KindDialogue Kind = "dialogue"
	KindScene    Kind = "scene"
	KindShow     Kind = "show"
	KindHide     Kind = "hide"
	KindWith     Kind = "with"
	KindJump     Kind = "jump"
	KindCall     Kind = "call"
	KindReturn   Kind = "return"
	KindMenu     Kind = "menu"
	KindIf       Kind = "if"
	KindSet      Kind = "set"
	KindPython   Kind = "python"
	KindRaw      Kind = "raw"
)

// Script is one parsed script file: an ordered sequence of top-level
// statements. Labels among them are the scene entry points.
type Script struct {
	Statements []*Node `json:"statements"`
}

// Node is a single statement. Only the fields relevant to its Kind are set;
// the rest stay at their zero value and are omitted from JSON.
//
// Bodies (Body, Choice.Body, Branch.Body) are ordered sequences. Mutators
// must splice them in place and never rewrite statement ids.
type Node struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	// Label
	Name string  `json:"name,omitempty"`
	Body []*Node `json:"body,omitempty"`

	// Dialogue
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text,omitempty"`

	// Scene / Show / Hide / With
	Image      string `json:"image,omitempty"`
	Transition string `json:"transition,omitempty"`

	// Jump / Call; Target is a label name.
	Target string   `json:"target,omitempty"`
	Args   []string `json:"args,omitempty"`

	// Return
	Value string `json:"value,omitempty"`

	// Menu
	Prompt  string    `json:"prompt,omitempty"`
	Choices []*Choice `json:"choices,omitempty"`

	// If
	Branches []*Branch `json:"branches,omitempty"`

	// Set
	Var  string `json:"var,omitempty"`
	Expr string `json:"expr,omitempty"`

	// Python / Raw
	Code    string `json:"code,omitempty"`
	Content string `json:"content,omitempty"`
}

// Choice is one selectable option of a Menu statement.
type Choice struct {
	Text      string  `json:"text"`
	Condition string  `json:"condition,omitempty"`
	Body      []*Node `json:"body,omitempty"`
}

// Branch is one arm of an If statement. An empty Condition means else.
type Branch struct {
	Condition string  `json:"condition,omitempty"`
	Body      []*Node `json:"body,omitempty"`
}

// NewID allocates a fresh statement id.
func NewID() string { return uuid.NewString() }

// NewNode returns a statement of the given kind with a fresh id.
func NewNode(kind Kind) *Node { return &Node{ID: NewID(), Kind: kind} }
