/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import "testing"

func TestPendingPoolLifecycle(t *testing.T) {
	p := NewPendingPool()
	if p.Len() != 0 {
		t.Fatal("new pool not empty")
	}

	p.Add(&Node{ID: "n1", Type: NodeDialogue})
	p.Add(&Node{ID: "n2", Type: NodeScene, Data: Data{Label: "side"}})

	if !p.IsPending("n1") || !p.IsPending("n2") {
		t.Fatal("added nodes not pending")
	}
	if n, ok := p.Get("n1"); !ok || n.Type != NodeDialogue {
		t.Fatalf("Get(n1) = %+v, %v", n, ok)
	}
	if _, ok := p.Get("missing"); ok {
		t.Fatal("Get on unknown id succeeded")
	}

	all := p.All()
	if len(all) != 2 || all[0].ID != "n1" || all[1].ID != "n2" {
		t.Fatalf("All() lost insertion order: %v", all)
	}

	p.Remove("n1")
	if p.IsPending("n1") || p.Len() != 1 {
		t.Fatal("Remove did not evict the node")
	}

	p.Reset()
	if p.Len() != 0 {
		t.Fatal("Reset did not clear the pool")
	}
}

func TestPendingLabels(t *testing.T) {
	p := NewPendingPool()
	p.Add(&Node{ID: "s1", Type: NodeScene, Data: Data{Label: "side"}})
	p.Add(&Node{ID: "d1", Type: NodeDialogue})

	labels := p.PendingLabels()
	if len(labels) != 1 || !labels["side"] {
		t.Fatalf("PendingLabels = %v, want {side}", labels)
	}
}

func TestDefaultDataPerType(t *testing.T) {
	if d := defaultData(NodeScene); d.Label != "new_label" {
		t.Fatalf("scene default = %+v", d)
	}
	if d := defaultData(NodeDialogue); len(d.Lines) != 1 || d.Lines[0].Text != "New dialogue" {
		t.Fatalf("dialogue default = %+v", d)
	}
	if d := defaultData(NodeMenu); len(d.Choices) != 2 || d.Choices[1].ID != "choice-1" {
		t.Fatalf("menu default = %+v", d)
	}
	if d := defaultData(NodeCondition); len(d.Branches) != 1 || d.Branches[0].Label != "True" {
		t.Fatalf("condition default = %+v", d)
	}
	if d := defaultData(NodeJump); d.Target != "" || d.Lines != nil {
		t.Fatalf("jump default = %+v", d)
	}
}
