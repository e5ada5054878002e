/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

// ResolveNodeLabel walks incoming edges breadth-first (starting at the node
// itself) until a scene node is reached and returns its label name. It
// returns "" when no scene is reachable upward from the node.
func ResolveNodeLabel(nodeID string, g *Graph) string {
	visited := map[string]bool{nodeID: true}
	queue := []string{nodeID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		n := g.Node(cur)
		if n == nil {
			continue
		}
		if n.Type == NodeScene {
			return n.Data.Label
		}
		for _, e := range g.Incoming(cur) {
			if !visited[e.Source] {
				visited[e.Source] = true
				queue = append(queue, e.Source)
			}
		}
	}
	return ""
}

// Predecessor returns the source of the first incoming edge, or "".
func Predecessor(nodeID string, g *Graph) string {
	for _, e := range g.Edges {
		if e.Target == nodeID {
			return e.Source
		}
	}
	return ""
}

// Successor returns the target of the first outgoing edge, or "".
func Successor(nodeID string, g *Graph) string {
	for _, e := range g.Edges {
		if e.Source == nodeID {
			return e.Target
		}
	}
	return ""
}

// AllPredecessors returns the sources of every incoming edge, in edge order.
func AllPredecessors(nodeID string, g *Graph) []string {
	var out []string
	for _, e := range g.Edges {
		if e.Target == nodeID {
			out = append(out, e.Source)
		}
	}
	return out
}

// AllSuccessors returns the targets of every outgoing edge, in edge order.
func AllSuccessors(nodeID string, g *Graph) []string {
	var out []string
	for _, e := range g.Edges {
		if e.Source == nodeID {
			out = append(out, e.Target)
		}
	}
	return out
}

// IsConnectedToScene reports whether some scene is reachable upward.
func IsConnectedToScene(nodeID string, g *Graph) bool {
	return ResolveNodeLabel(nodeID, g) != ""
}

// OrphanNodes returns the ids of non-scene nodes with no resolvable owning
// scene. Scene nodes are never orphans.
func OrphanNodes(g *Graph) []string {
	var out []string
	for _, n := range g.Nodes {
		if n.Type == NodeScene {
			continue
		}
		if ResolveNodeLabel(n.ID, g) == "" {
			out = append(out, n.ID)
		}
	}
	return out
}

// InsertPosition identifies where a new statement enters a label body:
// after AfterNodeID (or at the start of the label body if it is empty) and
// before BeforeNodeID when one exists.
type InsertPosition struct {
	LabelName    string
	AfterNodeID  string
	BeforeNodeID string
}

// DetermineInsertPosition computes the insertion point for a statement being
// attached after sourceNodeID. A scene source means the start of its label
// body; any other source inserts immediately after that node within the
// label resolved for it. Returns nil when no owning label can be resolved.
func DetermineInsertPosition(sourceNodeID string, g *Graph) *InsertPosition {
	src := g.Node(sourceNodeID)
	if src == nil {
		return nil
	}
	if src.Type == NodeScene {
		return &InsertPosition{
			LabelName:    src.Data.Label,
			BeforeNodeID: Successor(sourceNodeID, g),
		}
	}
	label := ResolveNodeLabel(sourceNodeID, g)
	if label == "" {
		return nil
	}
	return &InsertPosition{
		LabelName:    label,
		AfterNodeID:  sourceNodeID,
		BeforeNodeID: Successor(sourceNodeID, g),
	}
}

// HasPath reports whether target is reachable from source along directed
// edges. Used to surface (not forbid) cycles when a connection is drawn.
func HasPath(source, target string, g *Graph) bool {
	if source == target {
		return true
	}
	visited := map[string]bool{source: true}
	queue := []string{source}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.Outgoing(cur) {
			if e.Target == target {
				return true
			}
			if !visited[e.Target] {
				visited[e.Target] = true
				queue = append(queue, e.Target)
			}
		}
	}
	return false
}

// PathFromScene reconstructs one concrete node-id path from a reachable
// scene down to nodeID: breadth-first up the incoming edges to locate a
// scene, then depth-first forward in edge insertion order. When the graph
// branches, the first DFS path is returned; unreachable nodes yield nil.
func PathFromScene(nodeID string, g *Graph) []string {
	if n := g.Node(nodeID); n == nil {
		return nil
	} else if n.Type == NodeScene {
		return []string{nodeID}
	}

	// Upward BFS for a scene.
	var sceneID string
	visited := map[string]bool{nodeID: true}
	queue := []string{nodeID}
	for len(queue) > 0 && sceneID == "" {
		cur := queue[0]
		queue = queue[1:]
		if n := g.Node(cur); n != nil && n.Type == NodeScene {
			sceneID = cur
			break
		}
		for _, e := range g.Incoming(cur) {
			if !visited[e.Source] {
				visited[e.Source] = true
				queue = append(queue, e.Source)
			}
		}
	}
	if sceneID == "" {
		return nil
	}

	// Forward DFS from the scene to the node.
	seen := map[string]bool{sceneID: true}
	var path []string
	var dfs func(id string) bool
	dfs = func(id string) bool {
		path = append(path, id)
		if id == nodeID {
			return true
		}
		for _, e := range g.Outgoing(id) {
			if seen[e.Target] {
				continue
			}
			seen[e.Target] = true
			if dfs(e.Target) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if dfs(sceneID) {
		return path
	}
	return nil
}
