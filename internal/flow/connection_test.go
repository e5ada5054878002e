/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import (
	"errors"
	"testing"
)

func TestValidateConnectionPortModel(t *testing.T) {
	g := Build(storyScript())

	cases := []struct {
		name string
		conn Connection
		ok   bool
	}{
		{"plain nodes", Connection{Source: "d4", Target: "d1"}, true},
		{"menu choice port", Connection{Source: "m1", SourceHandle: "choice-0", Target: "d4"}, true},
		{"self loop", Connection{Source: "d4", Target: "d4"}, false},
		{"unknown source", Connection{Source: "ghost", Target: "d1"}, false},
		{"jump as source", Connection{Source: "j2", Target: "d1"}, false},
		{"menu default port", Connection{Source: "m1", Target: "d4"}, false},
		{"menu port out of range", Connection{Source: "m1", SourceHandle: "choice-7", Target: "d4"}, false},
		{"scene as target", Connection{Source: "d4", Target: "start"}, false},
		{"duplicate tuple", Connection{Source: "d1", Target: "m1"}, false},
	}
	for _, tc := range cases {
		err := ValidateConnection(tc.conn, g)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("%s: expected rejection", tc.name)
			}
			if !errors.Is(err, ErrInvalidConnection) {
				t.Fatalf("%s: error %v is not ErrInvalidConnection", tc.name, err)
			}
		}
		if got := IsValidConnection(tc.conn, g); got != tc.ok {
			t.Fatalf("%s: IsValidConnection = %v, want %v", tc.name, got, tc.ok)
		}
	}
}

func TestParseHandle(t *testing.T) {
	cases := []struct {
		in     string
		prefix string
		index  int
		ok     bool
	}{
		{"choice-0", "choice", 0, true},
		{"choice-12", "choice", 12, true},
		{"branch-3", "branch", 3, true},
		{"choice", "", 0, false},
		{"-3", "", 0, false},
		{"choice-x", "", 0, false},
		{"", "", 0, false},
	}
	for _, tc := range cases {
		prefix, index, ok := parseHandle(tc.in)
		if ok != tc.ok || (ok && (prefix != tc.prefix || index != tc.index)) {
			t.Fatalf("parseHandle(%q) = (%q, %d, %v), want (%q, %d, %v)",
				tc.in, prefix, index, ok, tc.prefix, tc.index, tc.ok)
		}
	}
}

func TestDetectCyclesCleanGraph(t *testing.T) {
	g := Build(storyScript())
	if cycles := DetectCycles(g); len(cycles) != 0 {
		t.Fatalf("acyclic story reported cycles: %v", cycles)
	}
}

func TestFindDisconnectedNodes(t *testing.T) {
	g := Build(storyScript())
	g.AddNode(&Node{ID: "float", Type: NodeDialogue, Data: Data{Text: "adrift"}})

	disc := FindDisconnectedNodes(g)
	if !disc["float"] {
		t.Fatal("floating node not reported as disconnected")
	}
	for _, id := range []string{"start", "d1", "m1", "j1", "d2", "left", "d3", "finale", "d4"} {
		if disc[id] {
			t.Fatalf("node %s wrongly reported as disconnected", id)
		}
	}
}

func TestFindDisconnectedNodesWithoutScenes(t *testing.T) {
	g := NewGraph()
	g.AddNode(&Node{ID: "x", Type: NodeDialogue})
	g.AddNode(&Node{ID: "y", Type: NodeDialogue})
	g.AddEdge(&Edge{Source: "x", Target: "y", Type: EdgeNormal})

	disc := FindDisconnectedNodes(g)
	if !disc["x"] || !disc["y"] {
		t.Fatalf("with no scenes every node is disconnected, got %v", disc)
	}
}
