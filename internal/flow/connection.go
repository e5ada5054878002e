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
	"strconv"
	"strings"
)

// Connection is a candidate edge under validation.
type Connection struct {
	Source       string
	Target       string
	SourceHandle string
	TargetHandle string
}

// SourcePorts returns the outgoing port ids a node type allows. Scene nodes
// and plain statements expose the single default port; menus and conditions
// expose one port per choice/branch; jump, call and return end their flow
// (their control edges are data-derived, not user-drawn); defines have none.
func SourcePorts(n *Node) []string {
	switch n.Type {
	case NodeScene:
		return []string{""}
	case NodeMenu:
		out := make([]string, len(n.Data.Choices))
		for i, p := range n.Data.Choices {
			out[i] = p.ID
		}
		return out
	case NodeCondition:
		out := make([]string, len(n.Data.Branches))
		for i, p := range n.Data.Branches {
			out[i] = p.ID
		}
		return out
	case NodeJump, NodeCall, NodeReturn, NodeDefine:
		return nil
	default:
		return []string{""}
	}
}

// TargetPorts returns the incoming port ids a node type allows.
func TargetPorts(n *Node) []string {
	switch n.Type {
	case NodeScene, NodeDefine:
		return nil
	default:
		return []string{""}
	}
}

// ValidateConnection checks a candidate edge against the port model. It
// rejects self-loops, endpoints whose type disallows the given port, and
// exact duplicate tuples. Cycles are allowed: narrative jumps may loop.
func ValidateConnection(c Connection, g *Graph) error {
	if c.Source == c.Target {
		return fmt.Errorf("%w: self loop on %s", ErrInvalidConnection, c.Source)
	}
	src := g.Node(c.Source)
	if src == nil {
		return fmt.Errorf("%w: unknown source %s", ErrInvalidConnection, c.Source)
	}
	tgt := g.Node(c.Target)
	if tgt == nil {
		return fmt.Errorf("%w: unknown target %s", ErrInvalidConnection, c.Target)
	}
	if !contains(SourcePorts(src), c.SourceHandle) {
		return fmt.Errorf("%w: %s has no source port %q", ErrInvalidConnection, src.Type, c.SourceHandle)
	}
	if !contains(TargetPorts(tgt), c.TargetHandle) {
		return fmt.Errorf("%w: %s has no target port %q", ErrInvalidConnection, tgt.Type, c.TargetHandle)
	}
	if g.HasEdge(c.Source, c.Target, c.SourceHandle, c.TargetHandle) {
		return fmt.Errorf("%w: duplicate edge %s>%s", ErrInvalidConnection, c.Source, c.Target)
	}
	return nil
}

// IsValidConnection is the boolean form of ValidateConnection.
func IsValidConnection(c Connection, g *Graph) bool {
	return ValidateConnection(c, g) == nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// parseHandle splits a port handle into its prefix and index
// ("choice-2" → "choice", 2). ok is false for anything else.
func parseHandle(handle string) (prefix string, index int, ok bool) {
	i := strings.LastIndexByte(handle, '-')
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(handle[i+1:])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return handle[:i], n, true
}

// DetectCycles finds directed cycles via DFS with a recursion stack. Each
// discovered back-edge yields one cycle as the node-id path from the cycle's
// entry back to itself. Traversal order follows node/edge insertion order,
// so output is deterministic for a given graph.
func DetectCycles(g *Graph) [][]string {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int, len(g.Nodes))
	var stack []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		color[id] = grey
		stack = append(stack, id)
		for _, e := range g.Outgoing(id) {
			switch color[e.Target] {
			case white:
				visit(e.Target)
			case grey:
				// Back edge: slice the cycle out of the current path.
				for i, v := range stack {
					if v == e.Target {
						cycles = append(cycles, append([]string(nil), stack[i:]...))
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, n := range g.Nodes {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	return cycles
}

// FindDisconnectedNodes returns the ids of nodes with no undirected path to
// any scene node. With zero scene nodes, every node is disconnected.
func FindDisconnectedNodes(g *Graph) map[string]bool {
	reached := make(map[string]bool)
	var queue []string
	for _, n := range g.Nodes {
		if n.Type == NodeScene {
			reached[n.ID] = true
			queue = append(queue, n.ID)
		}
	}

	// Undirected adjacency over the directed edge set.
	adj := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}

	out := make(map[string]bool)
	for _, n := range g.Nodes {
		if !reached[n.ID] {
			out[n.ID] = true
		}
	}
	return out
}

// InvalidTargets returns the ids of jump/call nodes whose target label
// matches no current scene node and no name in extraLabels (pending scenes).
func InvalidTargets(g *Graph, extraLabels map[string]bool) []string {
	known := make(map[string]bool)
	for _, n := range g.Nodes {
		if n.Type == NodeScene {
			known[n.Data.Label] = true
		}
	}
	var out []string
	for _, n := range g.Nodes {
		if n.Type != NodeJump && n.Type != NodeCall {
			continue
		}
		if known[n.Data.Target] || extraLabels[n.Data.Target] {
			continue
		}
		out = append(out, n.ID)
	}
	return out
}

// FlowOrder reduces the graph back to execution order: for every scene label
// it returns the backing AST statement ids in the order a direct traversal of
// that label's body would visit them. Only normal edges are followed; a node
// is emitted once all its intra-label predecessors have been, and branch
// bodies are explored in port order.
func FlowOrder(g *Graph) map[string][]string {
	out := make(map[string][]string)
	for _, scene := range g.Scenes() {
		out[scene.Data.Label] = flowOrderFrom(g, scene)
	}
	return out
}

func flowOrderFrom(g *Graph, scene *Node) []string {
	// Restrict to the subgraph reachable from the scene via normal edges.
	member := map[string]bool{scene.ID: true}
	queue := []string{scene.ID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.Outgoing(cur) {
			if e.Type != EdgeNormal || member[e.Target] {
				continue
			}
			member[e.Target] = true
			queue = append(queue, e.Target)
		}
	}

	indeg := make(map[string]int, len(member))
	for _, e := range g.Edges {
		if e.Type == EdgeNormal && member[e.Source] && member[e.Target] {
			indeg[e.Target]++
		}
	}

	// DFS with indegree gating: a join node (e.g. the statement after a
	// menu) is deferred until every branch reaching it has been emitted,
	// which reproduces document order.
	var order []string
	stack := []string{scene.ID}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur != scene.ID {
			if n := g.Node(cur); n != nil {
				order = append(order, n.Data.AstNodes...)
			}
		}
		var ready []string
		for _, e := range g.Outgoing(cur) {
			if e.Type != EdgeNormal || !member[e.Target] {
				continue
			}
			indeg[e.Target]--
			if indeg[e.Target] == 0 {
				ready = append(ready, e.Target)
			}
		}
		for i := len(ready) - 1; i >= 0; i-- {
			stack = append(stack, ready[i])
		}
	}
	return order
}
