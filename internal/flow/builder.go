/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import (
	"fmt"
	"strings"

	"storyflow/internal/script"
)

// Build derives the flow graph of a script.
//
// Every top-level Label becomes a scene node; its body statements (recursively
// through menu choices and if branches) become nodes chained by normal edges.
// Jump/Call nodes get one outgoing edge only when the target label exists;
// a dangling target simply yields no edge and is reported by InvalidTargets.
// An empty choice/branch body falls through to whatever follows the menu/if
// in the parent body. Malformed statements (a menu without choices) produce a
// node with zero outgoing ports rather than an error.
func Build(s *script.Script) *Graph {
	b := &builder{g: NewGraph(), scenes: make(map[string]string)}

	// Scene nodes first, so forward jumps resolve regardless of label order.
	for _, l := range s.Labels() {
		n := &Node{ID: l.ID, Type: NodeScene, Data: Data{Label: l.Name, AstNodes: []string{l.ID}}}
		b.g.AddNode(n)
		if _, dup := b.scenes[l.Name]; !dup {
			b.scenes[l.Name] = l.ID
		}
	}

	for _, st := range s.Statements {
		if st == nil {
			continue
		}
		if st.Kind == script.KindLabel {
			entry := []link{{source: st.ID, typ: EdgeNormal}}
			b.buildBody(st.Name, nil, st.Body, entry)
			continue
		}
		// Top-level declarations sit outside any flow.
		b.g.AddNode(&Node{ID: st.ID, Type: NodeDefine, Data: Data{
			Statement: statementText(st),
			AstNodes:  []string{st.ID},
		}})
	}
	return b.g
}

type builder struct {
	g      *Graph
	scenes map[string]string // label name → scene node id
}

// link is a dangling outgoing connection waiting for its target node.
type link struct {
	source string
	handle string
	typ    EdgeType
}

// buildBody emits nodes and edges for one statement sequence. incoming is the
// set of links that must attach to the first statement; the return value is
// the set of links falling through past the end of the sequence.
func (b *builder) buildBody(label string, path []PathStep, body []*script.Node, incoming []link) []link {
	cur := incoming
	for _, st := range body {
		if st == nil {
			continue
		}
		n := b.nodeFor(label, path, st)
		b.g.AddNode(n)
		for _, l := range cur {
			b.g.AddEdge(&Edge{Source: l.source, SourceHandle: l.handle, Target: st.ID, Type: l.typ})
		}
		cur = b.emit(label, path, st)
	}
	return cur
}

// emit returns the links leaving a statement after its node has been added.
func (b *builder) emit(label string, path []PathStep, st *script.Node) []link {
	switch st.Kind {
	case script.KindJump, script.KindCall:
		typ := EdgeJump
		if st.Kind == script.KindCall {
			typ = EdgeCall
		}
		if sceneID, ok := b.scenes[st.Target]; ok {
			b.g.AddEdge(&Edge{Source: st.ID, Target: sceneID, Type: typ})
		}
		return nil
	case script.KindReturn:
		return nil
	case script.KindMenu:
		var out []link
		for i, c := range st.Choices {
			handle := fmt.Sprintf("choice-%d", i)
			port := link{source: st.ID, handle: handle, typ: EdgeNormal}
			if len(c.Body) == 0 {
				out = append(out, port)
				continue
			}
			sub := append(append([]PathStep(nil), path...), PathStep{OwnerID: st.ID, Index: i})
			out = append(out, b.buildBody(label, sub, c.Body, []link{port})...)
		}
		return out
	case script.KindIf:
		var out []link
		for i, br := range st.Branches {
			handle := fmt.Sprintf("branch-%d", i)
			port := link{source: st.ID, handle: handle, typ: EdgeNormal}
			if len(br.Body) == 0 {
				out = append(out, port)
				continue
			}
			sub := append(append([]PathStep(nil), path...), PathStep{OwnerID: st.ID, Index: i})
			out = append(out, b.buildBody(label, sub, br.Body, []link{port})...)
		}
		return out
	default:
		return []link{{source: st.ID, typ: EdgeNormal}}
	}
}

// nodeFor maps one statement to its flow node.
func (b *builder) nodeFor(label string, path []PathStep, st *script.Node) *Node {
	n := &Node{ID: st.ID, Data: Data{
		OwnerLabel:    label,
		ContainerPath: append([]PathStep(nil), path...),
		AstNodes:      []string{st.ID},
	}}
	switch st.Kind {
	case script.KindDialogue:
		n.Type = NodeDialogue
		n.Data.Speaker = st.Speaker
		n.Data.Text = st.Text
	case script.KindMenu:
		n.Type = NodeMenu
		n.Data.Text = st.Prompt
		for i, c := range st.Choices {
			n.Data.Choices = append(n.Data.Choices, Port{
				ID:    fmt.Sprintf("choice-%d", i),
				Index: i,
				Label: c.Text,
			})
		}
	case script.KindIf:
		n.Type = NodeCondition
		for i, br := range st.Branches {
			lbl := br.Condition
			if lbl == "" {
				lbl = "else"
			}
			n.Data.Branches = append(n.Data.Branches, Port{
				ID:    fmt.Sprintf("branch-%d", i),
				Index: i,
				Label: lbl,
			})
		}
	case script.KindJump:
		n.Type = NodeJump
		n.Data.Target = st.Target
	case script.KindCall:
		n.Type = NodeCall
		n.Data.Target = st.Target
	case script.KindReturn:
		n.Type = NodeReturn
		n.Data.Statement = "return"
		if st.Value != "" {
			n.Data.Statement = "return " + st.Value
		}
	case script.KindScene, script.KindShow, script.KindHide, script.KindWith:
		n.Type = NodeDirective
		n.Data.Statement = statementText(st)
	default:
		n.Type = NodeStatement
		n.Data.Statement = statementText(st)
	}
	return n
}

// statementText renders a short display form of an opaque statement.
func statementText(st *script.Node) string {
	switch st.Kind {
	case script.KindScene, script.KindShow, script.KindHide:
		parts := []string{string(st.Kind), st.Image}
		if st.Transition != "" {
			parts = append(parts, "with", st.Transition)
		}
		return strings.TrimSpace(strings.Join(parts, " "))
	case script.KindWith:
		return strings.TrimSpace("with " + st.Transition)
	case script.KindSet:
		return strings.TrimSpace(st.Var + " = " + st.Expr)
	case script.KindPython:
		return firstLine(st.Code)
	case script.KindRaw:
		return firstLine(st.Content)
	default:
		return string(st.Kind)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
