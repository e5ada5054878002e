/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import "testing"

func fourScenes() *Graph {
	g := NewGraph()
	for _, name := range []string{"a", "b", "c", "d"} {
		g.AddNode(&Node{ID: name, Type: NodeScene, Data: Data{Label: name}})
	}
	return g
}

func TestAutoLayoutFourNodesTwoByTwo(t *testing.T) {
	g := fourScenes()
	opts := DefaultLayoutOptions()
	AutoLayout(g, opts)

	w, h := opts.CellWidth(), opts.CellHeight()
	want := map[string]XY{
		"a": {0, 0},
		"b": {w, 0},
		"c": {0, h},
		"d": {w, h},
	}
	for id, pos := range want {
		n := g.Node(id)
		if !n.Positioned {
			t.Fatalf("node %s left unpositioned", id)
		}
		if n.Position != pos {
			t.Fatalf("node %s at %+v, want %+v", id, n.Position, pos)
		}
	}
}

func TestAutoLayoutIsDeterministic(t *testing.T) {
	first := fourScenes()
	second := fourScenes()
	AutoLayout(first, DefaultLayoutOptions())
	AutoLayout(second, DefaultLayoutOptions())
	for _, n := range first.Nodes {
		if other := second.Node(n.ID); other.Position != n.Position {
			t.Fatalf("node %s placed at %+v then %+v", n.ID, n.Position, other.Position)
		}
	}
}

func TestAutoLayoutKeepsExplicitPositions(t *testing.T) {
	g := fourScenes()
	g.Node("c").Position = XY{X: 999, Y: 999}
	g.Node("c").Positioned = true
	AutoLayout(g, DefaultLayoutOptions())

	if pos := g.Node("c").Position; pos != (XY{X: 999, Y: 999}) {
		t.Fatalf("explicit position moved to %+v", pos)
	}
	for _, id := range []string{"a", "b", "d"} {
		if !g.Node(id).Positioned {
			t.Fatalf("node %s left unpositioned", id)
		}
	}
}

func TestApplyPositionsKeysScenesByLabel(t *testing.T) {
	g := Build(storyScript())
	ApplyPositions(g, map[string]XY{
		"start": {X: 10, Y: 20}, // scene, keyed by label name
		"d3":    {X: 30, Y: 40}, // statement, keyed by node id
	})

	if n := g.Node("start"); !n.Positioned || n.Position != (XY{X: 10, Y: 20}) {
		t.Fatalf("scene position not applied: %+v", n)
	}
	if n := g.Node("d3"); !n.Positioned || n.Position != (XY{X: 30, Y: 40}) {
		t.Fatalf("statement position not applied: %+v", n)
	}
	if g.Node("d1").Positioned {
		t.Fatal("unsaved node must stay unpositioned")
	}
}
