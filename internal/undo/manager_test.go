/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"
)

func TestUndoRedoBasic(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxPerFile: 10, MinInterval: 10 * time.Millisecond})
	p := "story/a.json"
	m.PushSnapshot(Snapshot{Path: p, Blob: []byte("a"), TS: time.Now()})
	m.PushSnapshot(Snapshot{Path: p, Blob: []byte("b"), TS: time.Now().Add(20 * time.Millisecond)})
	if _, files, total := m.Stats(); files != 1 || total != 2 {
		t.Fatalf("expected 1 file and 2 snapshots, got files=%d total=%d", files, total)
	}
	s, ok := m.Undo(p)
	if !ok || string(s.Blob) != "b" {
		t.Fatalf("undo expected 'b', got ok=%v blob=%q", ok, string(s.Blob))
	}
	s, ok = m.Redo(p)
	if !ok || string(s.Blob) != "b" {
		t.Fatalf("redo expected 'b', got ok=%v blob=%q", ok, string(s.Blob))
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	p := "story/a.json"
	t0 := time.Now()
	m.PushSnapshot(Snapshot{Path: p, Blob: []byte("1"), TS: t0})
	m.PushSnapshot(Snapshot{Path: p, Blob: []byte("2"), TS: t0.Add(10 * time.Millisecond)})
	if _, ok := m.Undo(p); !ok {
		t.Fatal("undo failed")
	}
	m.PushSnapshot(Snapshot{Path: p, Blob: []byte("3"), TS: t0.Add(20 * time.Millisecond)})
	if _, ok := m.Redo(p); ok {
		t.Fatal("redo must be cleared by a new push")
	}
}

func TestCoalesce(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxPerFile: 10, MinInterval: 50 * time.Millisecond})
	p := "story/b.json"
	t0 := time.Now()
	m.PushSnapshot(Snapshot{Path: p, Blob: []byte("1"), TS: t0})
	m.PushSnapshot(Snapshot{Path: p, Blob: []byte("2"), TS: t0.Add(10 * time.Millisecond)}) // coalesce
	_, _, total := m.Stats()
	if total != 1 {
		t.Fatalf("expected coalesced to 1 snapshot, got %d", total)
	}
	s, ok := m.Undo(p)
	if !ok || string(s.Blob) != "2" {
		t.Fatalf("expected coalesced snapshot '2', got ok=%v blob=%q", ok, string(s.Blob))
	}
}

func TestCaps(t *testing.T) {
	m := NewManager(Config{MaxBytes: 20, MaxPerFile: 2, MinInterval: 1 * time.Millisecond})
	p := "story/c.json"
	for i := 0; i < 10; i++ {
		m.PushSnapshot(Snapshot{Path: p, Blob: []byte("xxxxx"), TS: time.Now().Add(time.Duration(i) * time.Millisecond)})
	}
	_, _, total := m.Stats()
	if total > 2 {
		t.Fatalf("expected MaxPerFile cap to limit to 2, got %d", total)
	}
}

func TestClearFile(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	m.RecordSnapshot("story/a.json", []byte("aaaa"))
	m.RecordSnapshot("story/b.json", []byte("bbbb"))
	m.ClearFile("story/a.json")
	bytes, files, _ := m.Stats()
	if files != 1 || bytes != 4 {
		t.Fatalf("expected one 4-byte file left, got files=%d bytes=%d", files, bytes)
	}
	if _, ok := m.Undo("story/a.json"); ok {
		t.Fatal("cleared file still has undo entries")
	}
}
