/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import (
	"reflect"
	"testing"

	"storyflow/internal/script"
)

func TestAnalyzeCleanStory(t *testing.T) {
	g := Build(storyScript())
	r := Analyze(g, nil)
	if !r.Clean() {
		t.Fatalf("clean story flagged: %+v", r)
	}
}

func TestAnalyzeFlagsProblems(t *testing.T) {
	s := storyScript()
	// Break the left label away and add a dangling jump.
	s.Statements[0].Body[1].Choices[0].Body[0].Target = "nowhere"
	g := Build(s)
	g.AddNode(&Node{ID: "float", Type: NodeDialogue})

	r := Analyze(g, nil)
	if !reflect.DeepEqual(r.InvalidTargets, []string{"j1"}) {
		t.Fatalf("InvalidTargets = %v, want [j1]", r.InvalidTargets)
	}
	if !reflect.DeepEqual(r.Disconnected, []string{"float"}) {
		t.Fatalf("Disconnected = %v, want [float]", r.Disconnected)
	}
	if !reflect.DeepEqual(r.Orphans, []string{"float"}) {
		t.Fatalf("Orphans = %v, want [float]", r.Orphans)
	}
}

func TestAnalyzeIgnoresPendingSceneTargets(t *testing.T) {
	s := &script.Script{Statements: []*script.Node{
		{ID: "a", Kind: script.KindLabel, Name: "a", Body: []*script.Node{
			{ID: "j", Kind: script.KindJump, Target: "planned"},
		}},
	}}
	g := Build(s)

	pool := NewPendingPool()
	pool.Add(&Node{ID: "p", Type: NodeScene, Data: Data{Label: "planned"}})

	if r := Analyze(g, pool); len(r.InvalidTargets) != 0 {
		t.Fatalf("pending scene should satisfy the jump, got %v", r.InvalidTargets)
	}
	if r := Analyze(g, nil); !reflect.DeepEqual(r.InvalidTargets, []string{"j"}) {
		t.Fatalf("without the pool the jump is dangling, got %v", r.InvalidTargets)
	}
}

func TestAnalyzeReportsCycles(t *testing.T) {
	s := &script.Script{Statements: []*script.Node{
		{ID: "a", Kind: script.KindLabel, Name: "a", Body: []*script.Node{
			{ID: "ja", Kind: script.KindJump, Target: "b"},
		}},
		{ID: "b", Kind: script.KindLabel, Name: "b", Body: []*script.Node{
			{ID: "jb", Kind: script.KindJump, Target: "a"},
		}},
	}}
	r := Analyze(Build(s), nil)
	if len(r.Cycles) == 0 {
		t.Fatal("mutual jumps not reported")
	}
	if r.Clean() {
		t.Fatal("report with cycles claims to be clean")
	}
}
