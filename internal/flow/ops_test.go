/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import (
	"strings"
	"testing"

	"storyflow/internal/script"
)

type fakeCache struct {
	paths []string
}

func (f *fakeCache) Invalidate(path string) { f.paths = append(f.paths, path) }

type fakeHistory struct {
	snaps [][]byte
}

func (f *fakeHistory) RecordSnapshot(path string, blob []byte) {
	f.snaps = append(f.snaps, blob)
}

func newTestHandler() (*Handler, *fakeCache, *fakeHistory) {
	cache := &fakeCache{}
	history := &fakeHistory{}
	h := NewHandler("story/script.json", NewPendingPool(), cache, history)
	return h, cache, history
}

func requireResult(t *testing.T, res Result, wantErr error) {
	t.Helper()
	if wantErr == nil {
		if !res.Success {
			t.Fatalf("operation failed: %s", res.Error)
		}
		return
	}
	if res.Success {
		t.Fatalf("operation succeeded, want error %v", wantErr)
	}
	if !strings.Contains(res.Error, wantErr.Error()) {
		t.Fatalf("error %q does not mention %q", res.Error, wantErr.Error())
	}
}

func TestCreateNodeStaysPending(t *testing.T) {
	h, cache, _ := newTestHandler()
	s := storyScript()
	before := script.Hash(s)

	id := h.CreateNode(NodeDialogue, XY{X: 5, Y: 5}, Data{Speaker: "mira"})
	if id == "" {
		t.Fatal("CreateNode returned empty id")
	}
	n, ok := h.Pool().Get(id)
	if !ok {
		t.Fatal("created node not in pool")
	}
	if n.Data.Speaker != "mira" {
		t.Fatalf("override lost: %+v", n.Data)
	}
	if len(n.Data.Lines) != 1 || n.Data.Lines[0].Text != "New dialogue" {
		t.Fatalf("type defaults lost: %+v", n.Data)
	}
	if !n.Positioned || n.Position != (XY{X: 5, Y: 5}) {
		t.Fatalf("position not recorded: %+v", n)
	}

	if script.Hash(s) != before {
		t.Fatal("CreateNode must not touch the tree")
	}
	if len(cache.paths) != 0 {
		t.Fatal("CreateNode must not invalidate the cache")
	}
}

func TestConnectCommitsPendingJump(t *testing.T) {
	h, cache, history := newTestHandler()
	s := storyScript()
	g := Build(s)

	id := h.CreateNode(NodeJump, XY{}, Data{Target: "left"})
	res := h.ConnectNodes("d4", id, "", g, s)
	requireResult(t, res, nil)

	finale := s.FindLabel("finale")
	if len(finale.Body) != 2 {
		t.Fatalf("finale body has %d statements, want 2", len(finale.Body))
	}
	jump := finale.Body[1]
	if jump.Kind != script.KindJump || jump.Target != "left" {
		t.Fatalf("unexpected statement: %+v", jump)
	}
	if jump.ID != id {
		t.Fatalf("committed statement id %s, want pool id %s", jump.ID, id)
	}

	if h.Pool().IsPending(id) {
		t.Fatal("committed node still pending")
	}
	if len(cache.paths) != 1 || cache.paths[0] != "story/script.json" {
		t.Fatalf("cache invalidations = %v", cache.paths)
	}
	if len(history.snaps) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(history.snaps))
	}
	// The snapshot is the pre-mutation tree.
	snap, err := script.Decode(history.snaps[0])
	if err != nil {
		t.Fatalf("snapshot does not decode: %v", err)
	}
	if len(snap.FindLabel("finale").Body) != 1 {
		t.Fatal("snapshot taken after the mutation")
	}

	// The rebuilt graph carries the new node under the same id.
	g2 := Build(s)
	if n := g2.Node(id); n == nil || n.Type != NodeJump {
		t.Fatalf("rebuilt graph lost the committed node: %+v", n)
	}
	requireEdge(t, g2, "d4", "", id, EdgeNormal)
	requireEdge(t, g2, id, "", "left", EdgeJump)
}

func TestConnectCommitsPendingIntoMenuPort(t *testing.T) {
	h, _, _ := newTestHandler()
	s := storyScript()
	g := Build(s)

	id := h.CreateNode(NodeDialogue, XY{}, Data{Lines: []DialogueLine{{Speaker: "mira", Text: "Staying, then."}}})
	res := h.ConnectNodes("m1", id, "choice-1", g, s)
	requireResult(t, res, nil)

	body := s.Find("m1").Choices[1].Body
	if len(body) != 1 || body[0].Kind != script.KindDialogue || body[0].ID != id {
		t.Fatalf("choice body = %+v", body)
	}
	if body[0].Speaker != "mira" || body[0].Text != "Staying, then." {
		t.Fatalf("dialogue content lost: %+v", body[0])
	}
}

func TestConnectCommitsPendingScene(t *testing.T) {
	h, _, _ := newTestHandler()
	s := storyScript()
	g := Build(s)

	id := h.CreateNode(NodeScene, XY{}, Data{Label: "epilogue"})
	res := h.ConnectNodes("d4", id, "", g, s)
	requireResult(t, res, nil)

	label := s.FindLabel("epilogue")
	if label == nil {
		t.Fatal("pending scene did not create a label")
	}
	if label.ID != id {
		t.Fatalf("label id %s, want pool id %s", label.ID, id)
	}
	finale := s.FindLabel("finale")
	last := finale.Body[len(finale.Body)-1]
	if last.Kind != script.KindJump || last.Target != "epilogue" {
		t.Fatalf("no jump into the new label: %+v", last)
	}
}

func TestConnectRetargetsJump(t *testing.T) {
	h, cache, _ := newTestHandler()
	s := storyScript()
	g := Build(s)

	res := h.ConnectNodes("j2", "left", "", g, s)
	requireResult(t, res, nil)

	if got := s.Find("j2").Target; got != "left" {
		t.Fatalf("jump target = %q, want left", got)
	}
	if len(cache.paths) != 1 {
		t.Fatalf("cache invalidations = %v", cache.paths)
	}
}

func TestConnectPortToSceneAppendsJump(t *testing.T) {
	h, _, _ := newTestHandler()
	s := storyScript()
	g := Build(s)

	res := h.ConnectNodes("m1", "finale", "choice-1", g, s)
	requireResult(t, res, nil)

	body := s.Find("m1").Choices[1].Body
	if len(body) != 1 || body[0].Kind != script.KindJump || body[0].Target != "finale" {
		t.Fatalf("choice body = %+v", body)
	}
}

func TestConnectPlainSourceToSceneInsertsJump(t *testing.T) {
	h, _, _ := newTestHandler()
	s := storyScript()
	g := Build(s)

	res := h.ConnectNodes("d3", "finale", "", g, s)
	requireResult(t, res, nil)

	left := s.FindLabel("left")
	if len(left.Body) != 3 {
		t.Fatalf("left body has %d statements, want 3", len(left.Body))
	}
	if left.Body[1].Kind != script.KindJump || left.Body[1].Target != "finale" {
		t.Fatalf("statement after d3 = %+v", left.Body[1])
	}
	if left.Body[2].ID != "r1" {
		t.Fatal("return displaced from the end of the body")
	}
}

func TestConnectFailuresLeaveTreeUntouched(t *testing.T) {
	h, cache, _ := newTestHandler()
	s := storyScript()
	g := Build(s)
	g.AddNode(&Node{ID: "float", Type: NodeDialogue})
	before := script.Hash(s)

	cases := []struct {
		name    string
		source  string
		target  string
		handle  string
		wantErr error
	}{
		{"self loop", "d4", "d4", "", ErrInvalidConnection},
		{"unknown source", "ghost", "d4", "", ErrInvalidConnection},
		{"floating source", "float", "d4", "", ErrUnresolvableLabel},
		{"bad handle", "m1", "d4", "choice-9", ErrMalformedHandle},
		{"handle on dialogue", "d1", "d4", "choice-0", ErrMalformedHandle},
		{"duplicate edge", "d1", "m1", "", ErrInvalidConnection},
		{"no statement mapping", "d4", "d1", "", ErrInvalidConnection},
	}
	for _, tc := range cases {
		res := h.ConnectNodes(tc.source, tc.target, tc.handle, g, s)
		requireResult(t, res, tc.wantErr)
	}

	if script.Hash(s) != before {
		t.Fatal("failed operations mutated the tree")
	}
	if len(cache.paths) != 0 {
		t.Fatalf("failed operations invalidated the cache: %v", cache.paths)
	}
}

func TestConnectThenRemoveRestoresTree(t *testing.T) {
	h, _, _ := newTestHandler()
	s := storyScript()
	before := script.Hash(s)

	id := h.CreateNode(NodeJump, XY{}, Data{Target: "left"})
	requireResult(t, h.ConnectNodes("d4", id, "", Build(s), s), nil)
	if script.Hash(s) == before {
		t.Fatal("connect did not mutate the tree")
	}

	requireResult(t, h.RemoveConnection(id, "left", "", Build(s), s), nil)
	if script.Hash(s) != before {
		t.Fatal("disconnect did not undo the connect")
	}
}

func TestRemoveConnectionDeletesOnlyTheJump(t *testing.T) {
	h, _, _ := newTestHandler()
	s := &script.Script{Statements: []*script.Node{
		{ID: "a", Kind: script.KindLabel, Name: "a", Body: []*script.Node{
			{ID: "da", Kind: script.KindDialogue, Text: "one"},
			{ID: "db", Kind: script.KindDialogue, Text: "two"},
			{ID: "jb", Kind: script.KindJump, Target: "b"},
		}},
		{ID: "b", Kind: script.KindLabel, Name: "b"},
	}}
	g := Build(s)

	// The incoming flow of the jump maps to the jump's own statement.
	requireResult(t, h.RemoveConnection("db", "jb", "", g, s), nil)

	body := s.FindLabel("a").Body
	if len(body) != 2 || body[0].ID != "da" || body[1].ID != "db" {
		t.Fatalf("body after removal = %+v", body)
	}
}

func TestRemoveConnectionRejectsAmbiguousEdges(t *testing.T) {
	h, cache, _ := newTestHandler()
	s := storyScript()
	g := Build(s)
	before := script.Hash(s)

	// d1 -> m1 is pure sequential flow; no single statement owns it.
	requireResult(t, h.RemoveConnection("d1", "m1", "", g, s), ErrAmbiguousStatement)

	if script.Hash(s) != before {
		t.Fatal("ambiguous removal mutated the tree")
	}
	if len(cache.paths) != 0 {
		t.Fatal("ambiguous removal invalidated the cache")
	}
}

func TestRemoveConnectionFromMenuPort(t *testing.T) {
	h, _, _ := newTestHandler()
	s := storyScript()
	g := Build(s)

	// choice-0 leads to j1; removing the port edge deletes that statement.
	requireResult(t, h.RemoveConnection("m1", "j1", "choice-0", g, s), nil)

	if len(s.Find("m1").Choices[0].Body) != 0 {
		t.Fatalf("choice body not emptied: %+v", s.Find("m1").Choices[0].Body)
	}
	if s.Find("d1") == nil || s.Find("d2") == nil {
		t.Fatal("surrounding statements lost")
	}
}

func TestDeleteNodePending(t *testing.T) {
	h, cache, _ := newTestHandler()
	s := storyScript()
	g := Build(s)

	id := h.CreateNode(NodeMenu, XY{}, Data{})
	requireResult(t, h.DeleteNode(id, g, s), nil)

	if h.Pool().IsPending(id) {
		t.Fatal("pending node survived deletion")
	}
	if len(cache.paths) != 0 {
		t.Fatal("deleting a pending node must not invalidate the cache")
	}
}

func TestDeleteNodeCommittedStatement(t *testing.T) {
	h, cache, history := newTestHandler()
	s := storyScript()
	g := Build(s)

	requireResult(t, h.DeleteNode("d2", g, s), nil)

	if s.Find("d2") != nil {
		t.Fatal("statement still in tree")
	}
	if g.Node("d2") != nil {
		t.Fatal("node still in graph")
	}
	for _, e := range g.Edges {
		if e.Source == "d2" || e.Target == "d2" {
			t.Fatalf("stale edge %+v", e)
		}
	}
	if len(cache.paths) != 1 || len(history.snaps) != 1 {
		t.Fatalf("cache=%v snapshots=%d", cache.paths, len(history.snaps))
	}
}

func TestDeleteNodeSceneRemovesWholeLabel(t *testing.T) {
	h, _, _ := newTestHandler()
	s := storyScript()
	g := Build(s)

	requireResult(t, h.DeleteNode("left", g, s), nil)

	if s.FindLabel("left") != nil {
		t.Fatal("label still in tree")
	}
	if s.Find("d3") != nil || s.Find("r1") != nil {
		t.Fatal("label body statements survived")
	}
	// j1 now points at a missing label and shows up as an invalid target.
	g2 := Build(s)
	bad := InvalidTargets(g2, nil)
	if len(bad) != 1 || bad[0] != "j1" {
		t.Fatalf("InvalidTargets = %v, want [j1]", bad)
	}
}
