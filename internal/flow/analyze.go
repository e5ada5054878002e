/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import "sort"

// Report aggregates the structural diagnostics for one graph. Slices are
// sorted so the report is stable across runs.
type Report struct {
	Disconnected   []string   `json:"disconnected,omitempty"`
	Orphans        []string   `json:"orphans,omitempty"`
	InvalidTargets []string   `json:"invalidTargets,omitempty"`
	Cycles         [][]string `json:"cycles,omitempty"`
}

// Clean reports whether the analysis found nothing to flag.
func (r *Report) Clean() bool {
	return len(r.Disconnected) == 0 && len(r.Orphans) == 0 &&
		len(r.InvalidTargets) == 0 && len(r.Cycles) == 0
}

// Analyze runs the full diagnostic pass over a graph. Pending scene labels
// count as known targets: a jump at a label the user has created but not yet
// committed is a work-in-progress, not an error.
func Analyze(g *Graph, pool *PendingPool) *Report {
	r := &Report{}

	disc := FindDisconnectedNodes(g)
	for id := range disc {
		// Top-level declarations live outside the flow on purpose.
		if n := g.Node(id); n != nil && n.Type == NodeDefine {
			continue
		}
		r.Disconnected = append(r.Disconnected, id)
	}
	sort.Strings(r.Disconnected)

	for _, id := range OrphanNodes(g) {
		if n := g.Node(id); n != nil && n.Type == NodeDefine {
			continue
		}
		r.Orphans = append(r.Orphans, id)
	}
	sort.Strings(r.Orphans)

	var pendingLabels map[string]bool
	if pool != nil {
		pendingLabels = pool.PendingLabels()
	}
	r.InvalidTargets = InvalidTargets(g, pendingLabels)
	sort.Strings(r.InvalidTargets)

	r.Cycles = DetectCycles(g)
	return r
}
