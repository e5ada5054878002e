/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import "math"

// LayoutOptions controls the deterministic grid placement.
type LayoutOptions struct {
	// Columns caps the grid width; 0 means ceil(sqrt(unplaced node count)).
	Columns    int
	CardWidth  float64
	CardHeight float64
	GapX       float64
	GapY       float64
}

// DefaultLayoutOptions returns the standard card dimensions and gaps.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{CardWidth: 220, CardHeight: 120, GapX: 60, GapY: 60}
}

// CellWidth is the horizontal grid pitch.
func (o LayoutOptions) CellWidth() float64 { return o.CardWidth + o.GapX }

// CellHeight is the vertical grid pitch.
func (o LayoutOptions) CellHeight() float64 { return o.CardHeight + o.GapY }

// ApplyPositions copies saved positions onto the graph. Scene nodes are keyed
// by label name (the externally persisted key); all other nodes by node id.
func ApplyPositions(g *Graph, saved map[string]XY) {
	for _, n := range g.Nodes {
		key := n.ID
		if n.Type == NodeScene {
			key = n.Data.Label
		}
		if pos, ok := saved[key]; ok {
			n.Position = pos
			n.Positioned = true
		}
	}
}

// AutoLayout assigns grid coordinates to every node lacking an explicit
// position: row-major fill, cell pitch = card dimensions + gap, starting at
// the origin. Nodes that already carry a position are never moved. The same
// node set and options always produce identical coordinates.
func AutoLayout(g *Graph, opts LayoutOptions) *Graph {
	if opts.CardWidth <= 0 || opts.CardHeight <= 0 {
		def := DefaultLayoutOptions()
		def.Columns = opts.Columns
		opts = def
	}

	var unplaced []*Node
	for _, n := range g.Nodes {
		if !n.Positioned {
			unplaced = append(unplaced, n)
		}
	}
	if len(unplaced) == 0 {
		return g
	}

	cols := opts.Columns
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(len(unplaced)))))
	}
	if cols < 1 {
		cols = 1
	}

	for i, n := range unplaced {
		n.Position = XY{
			X: float64(i%cols) * opts.CellWidth(),
			Y: float64(i/cols) * opts.CellHeight(),
		}
		n.Positioned = true
	}
	return g
}
