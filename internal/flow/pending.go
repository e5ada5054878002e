/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import "sync"

// PendingPool holds nodes a user created that are not yet wired into any
// scene. A pool entry owns no AST state; it survives graph rebuilds until it
// is committed by a connection or deleted. The pool is scoped to one open
// file context and must be Reset when switching files.
type PendingPool struct {
	mu    sync.Mutex
	nodes map[string]*Node
	order []string
}

// NewPendingPool allocates an empty pool.
func NewPendingPool() *PendingPool {
	return &PendingPool{nodes: make(map[string]*Node)}
}

// Add registers a pending node, replacing any entry with the same id.
func (p *PendingPool) Add(n *Node) {
	if n == nil || n.ID == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.nodes[n.ID]; !ok {
		p.order = append(p.order, n.ID)
	}
	p.nodes[n.ID] = n
}

// Get returns the pending node with the given id.
func (p *PendingPool) Get(id string) (*Node, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.nodes[id]
	return n, ok
}

// Remove evicts a node from the pool.
func (p *PendingPool) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.nodes[id]; !ok {
		return
	}
	delete(p.nodes, id)
	for i, v := range p.order {
		if v == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// All returns the pending nodes in insertion order.
func (p *PendingPool) All() []*Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Node, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.nodes[id])
	}
	return out
}

// IsPending reports whether the id is held in the pool.
func (p *PendingPool) IsPending(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.nodes[id]
	return ok
}

// Len returns the number of pending nodes.
func (p *PendingPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.nodes)
}

// Reset drops all entries. Called when a file or project is closed so
// pending nodes never leak across files.
func (p *PendingPool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes = make(map[string]*Node)
	p.order = nil
}

// PendingLabels returns the label names of pending scene nodes, used by the
// invalid-target check so a jump at a not-yet-committed label is not flagged.
func (p *PendingPool) PendingLabels() map[string]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]bool)
	for _, n := range p.nodes {
		if n.Type == NodeScene && n.Data.Label != "" {
			out[n.Data.Label] = true
		}
	}
	return out
}

// defaultData returns the type-specific defaults merged under user overrides
// when a node is created.
func defaultData(typ NodeType) Data {
	switch typ {
	case NodeScene:
		return Data{Label: "new_label"}
	case NodeDialogue:
		return Data{Lines: []DialogueLine{{Text: "New dialogue"}}}
	case NodeMenu:
		return Data{Choices: []Port{
			{ID: "choice-0", Index: 0, Label: "Choice 1"},
			{ID: "choice-1", Index: 1, Label: "Choice 2"},
		}}
	case NodeCondition:
		return Data{Branches: []Port{{ID: "branch-0", Index: 0, Label: "True"}}}
	default:
		return Data{}
	}
}
