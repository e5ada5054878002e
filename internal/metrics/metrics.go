/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package metrics holds the process-wide Prometheus instruments. Collectors
// register themselves with the default registry at init, so importing the
// package is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storyflow_cache_hits_total",
		Help: "Content-cache lookups served without recomputation.",
	}, []string{"kind"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storyflow_cache_misses_total",
		Help: "Content-cache lookups that had to recompute.",
	}, []string{"kind"})

	GraphRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storyflow_graph_rebuilds_total",
		Help: "Flow graphs regenerated from an AST.",
	})

	NodeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storyflow_node_operations_total",
		Help: "Graph edit operations by kind and outcome.",
	}, []string{"op", "status"})
)
