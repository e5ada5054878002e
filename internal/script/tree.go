/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

// Walk visits every statement in the script in document order (preorder,
// bodies of choices and branches included). Returning false stops the walk.
func (s *Script) Walk(fn func(n *Node) bool) {
	walkBody(s.Statements, fn)
}

func walkBody(body []*Node, fn func(n *Node) bool) bool {
	for _, n := range body {
		if !walkNode(n, fn) {
			return false
		}
	}
	return true
}

func walkNode(n *Node, fn func(n *Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	if !walkBody(n.Body, fn) {
		return false
	}
	for _, c := range n.Choices {
		if !walkBody(c.Body, fn) {
			return false
		}
	}
	for _, b := range n.Branches {
		if !walkBody(b.Body, fn) {
			return false
		}
	}
	return true
}

// Labels returns the top-level Label statements in document order.
func (s *Script) Labels() []*Node {
	var out []*Node
	for _, n := range s.Statements {
		if n != nil && n.Kind == KindLabel {
			out = append(out, n)
		}
	}
	return out
}

// FindLabel returns the top-level label with the given name, or nil.
func (s *Script) FindLabel(name string) *Node {
	for _, n := range s.Statements {
		if n != nil && n.Kind == KindLabel && n.Name == name {
			return n
		}
	}
	return nil
}

// Find returns the statement with the given id anywhere in the tree, or nil.
func (s *Script) Find(id string) *Node {
	var found *Node
	s.Walk(func(n *Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Container locates the body slice that directly holds the statement with
// the given id, returning a pointer to that slice and the statement's index
// within it. It returns (nil, -1) when the id is not present.
//
// The returned pointer addresses the actual field (a label body, a choice
// body or a branch body), so splicing through it mutates the tree in place.
func (s *Script) Container(id string) (*[]*Node, int) {
	return findContainer(&s.Statements, id)
}

func findContainer(body *[]*Node, id string) (*[]*Node, int) {
	for i, n := range *body {
		if n == nil {
			continue
		}
		if n.ID == id {
			return body, i
		}
		if owner, idx := findContainer(&n.Body, id); owner != nil {
			return owner, idx
		}
		for _, c := range n.Choices {
			if owner, idx := findContainer(&c.Body, id); owner != nil {
				return owner, idx
			}
		}
		for _, b := range n.Branches {
			if owner, idx := findContainer(&b.Body, id); owner != nil {
				return owner, idx
			}
		}
	}
	return nil, -1
}

// Insert splices stmts into body at index i (clamped to the body's bounds).
func Insert(body *[]*Node, i int, stmts ...*Node) {
	if i < 0 {
		i = 0
	}
	if i > len(*body) {
		i = len(*body)
	}
	out := make([]*Node, 0, len(*body)+len(stmts))
	out = append(out, (*body)[:i]...)
	out = append(out, stmts...)
	out = append(out, (*body)[i:]...)
	*body = out
}

// Remove splices the statement at index i out of body, preserving sibling
// order. Out-of-range indices are ignored.
func Remove(body *[]*Node, i int) {
	if i < 0 || i >= len(*body) {
		return
	}
	*body = append((*body)[:i], (*body)[i+1:]...)
}

// Clone returns a deep copy of the script. Statement ids are preserved.
func (s *Script) Clone() *Script {
	if s == nil {
		return nil
	}
	return &Script{Statements: cloneBody(s.Statements)}
}

func cloneBody(body []*Node) []*Node {
	if body == nil {
		return nil
	}
	out := make([]*Node, len(body))
	for i, n := range body {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Body = cloneBody(n.Body)
	c.Args = append([]string(nil), n.Args...)
	if n.Choices != nil {
		c.Choices = make([]*Choice, len(n.Choices))
		for i, ch := range n.Choices {
			cc := *ch
			cc.Body = cloneBody(ch.Body)
			c.Choices[i] = &cc
		}
	}
	if n.Branches != nil {
		c.Branches = make([]*Branch, len(n.Branches))
		for i, br := range n.Branches {
			cb := *br
			cb.Body = cloneBody(br.Body)
			c.Branches[i] = &cb
		}
	}
	return &c
}

// EnsureIDs assigns fresh ids to statements that arrived without one.
// Existing ids are never rewritten.
func (s *Script) EnsureIDs() {
	s.Walk(func(n *Node) bool {
		if n.ID == "" {
			n.ID = NewID()
		}
		return true
	})
}
