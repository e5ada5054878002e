/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package flow derives a directed node/edge graph from a script AST, keeps
// the two structures synchronized, and hosts the graph algorithms the editor
// views build on. The graph is regenerated wholesale from the AST after each
// successful mutation; only pending nodes (user-created, not yet backed by
// statements) live outside that cycle.
package flow

import "fmt"

// NodeType classifies flow nodes for rendering and for the port model.
type NodeType string

const (
	NodeScene     NodeType = "scene"          // a Label entry point
	NodeDialogue  NodeType = "dialogue-block" // spoken/narrated text
	NodeMenu      NodeType = "menu"           // player choice
	NodeCondition NodeType = "condition"      // if/elif/else
	NodeJump      NodeType = "jump"
	NodeCall      NodeType = "call"
	NodeReturn    NodeType = "return"
	NodeDirective NodeType = "directive" // scene/show/hide/with
	NodeStatement NodeType = "statement" // set/python/raw inside a body
	NodeDefine    NodeType = "define"    // top-level declaration, outside flow
)

// EdgeType classifies edges by the control transfer they represent.
type EdgeType string

const (
	EdgeNormal EdgeType = "normal"
	EdgeJump   EdgeType = "jump"
	EdgeCall   EdgeType = "call"
	EdgeReturn EdgeType = "return"
)

// XY is a canvas position.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PathStep is one step of a container path: the owning menu/if statement id
// and the choice/branch index entered. A node's full container path locates
// its statement inside nested bodies without an id scan.
type PathStep struct {
	OwnerID string `json:"ownerId"`
	Index   int    `json:"index"`
}

// Port is one outgoing connection point of a menu/condition node. The ID
// doubles as the edge sourceHandle ("choice-2", "branch-0").
type Port struct {
	ID    string `json:"portId"`
	Index int    `json:"index"`
	Label string `json:"label,omitempty"`
}

// DialogueLine is one buffered line of a pending dialogue-block node.
type DialogueLine struct {
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
}

// Data carries the per-type payload of a node. Only the fields matching the
// node type are populated.
type Data struct {
	Label         string         `json:"label,omitempty"`      // scene: label name
	OwnerLabel    string         `json:"ownerLabel,omitempty"` // non-scene: owning label
	ContainerPath []PathStep     `json:"containerPath,omitempty"`
	Speaker       string         `json:"speaker,omitempty"`
	Text          string         `json:"text,omitempty"`
	Target        string         `json:"target,omitempty"` // jump/call
	Statement     string         `json:"statement,omitempty"`
	Choices       []Port         `json:"choices,omitempty"`
	Branches      []Port         `json:"branches,omitempty"`
	Lines         []DialogueLine `json:"lines,omitempty"` // pending dialogue-block buffer
	AstNodes      []string       `json:"astNodes,omitempty"`
}

// Node is one flow-graph node. For committed nodes the id equals the id of
// the backing AST statement, which keeps identity stable across rebuilds.
type Node struct {
	ID         string   `json:"id"`
	Type       NodeType `json:"type"`
	Position   XY       `json:"position"`
	Positioned bool     `json:"positioned,omitempty"` // explicit position; auto-layout must not move it
	Data       Data     `json:"data"`
}

// Edge is a directed connection. SourceHandle selects a specific output port
// of a multi-port node; empty means the single default port.
type Edge struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	SourceHandle string   `json:"sourceHandle,omitempty"`
	TargetHandle string   `json:"targetHandle,omitempty"`
	Type         EdgeType `json:"type"`
}

// Graph is the sole contract exposed to the rendering layer.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`

	index map[string]*Node
}

// NewGraph allocates an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]*Node)}
}

// AddNode registers a node. A node with a duplicate id is ignored.
func (g *Graph) AddNode(n *Node) {
	if n == nil || n.ID == "" {
		return
	}
	if g.index == nil {
		g.reindex()
	}
	if _, ok := g.index[n.ID]; ok {
		return
	}
	g.Nodes = append(g.Nodes, n)
	g.index[n.ID] = n
}

// AddEdge appends a directed edge, assigning a deterministic id.
func (g *Graph) AddEdge(e *Edge) {
	if e == nil {
		return
	}
	if e.ID == "" {
		e.ID = EdgeID(e.Source, e.SourceHandle, e.Target)
	}
	g.Edges = append(g.Edges, e)
}

// EdgeID derives the canonical id for an edge.
func EdgeID(source, sourceHandle, target string) string {
	if sourceHandle == "" {
		return fmt.Sprintf("e:%s>%s", source, target)
	}
	return fmt.Sprintf("e:%s:%s>%s", source, sourceHandle, target)
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	if g.index == nil || len(g.index) != len(g.Nodes) {
		g.reindex()
	}
	return g.index[id]
}

func (g *Graph) reindex() {
	g.index = make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		g.index[n.ID] = n
	}
}

// Outgoing returns the edges leaving a node, in insertion order.
func (g *Graph) Outgoing(id string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Incoming returns the edges entering a node, in insertion order.
func (g *Graph) Incoming(id string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// HasEdge reports whether the exact (source, target, handles) tuple exists.
func (g *Graph) HasEdge(source, target, sourceHandle, targetHandle string) bool {
	for _, e := range g.Edges {
		if e.Source == source && e.Target == target &&
			e.SourceHandle == sourceHandle && e.TargetHandle == targetHandle {
			return true
		}
	}
	return false
}

// RemoveNode drops a node and every edge referencing it.
func (g *Graph) RemoveNode(id string) {
	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	g.Nodes = nodes
	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if e.Source != id && e.Target != id {
			edges = append(edges, e)
		}
	}
	g.Edges = edges
	delete(g.index, id)
}

// Scenes returns all scene nodes in insertion order.
func (g *Graph) Scenes() []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Type == NodeScene {
			out = append(out, n)
		}
	}
	return out
}

// SceneByLabel returns the scene node for a label name, or nil.
func (g *Graph) SceneByLabel(name string) *Node {
	for _, n := range g.Nodes {
		if n.Type == NodeScene && n.Data.Label == name {
			return n
		}
	}
	return nil
}
