/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cache keeps parsed ASTs and derived flow graphs keyed by content
// hash, so unchanged files are never reparsed and unchanged trees never
// rebuilt. Invalidation is synchronous: once Invalidate returns, the next
// lookup recomputes.
package cache

import (
	"sync"

	"storyflow/internal/flow"
	"storyflow/internal/metrics"
	"storyflow/internal/script"
)

// ParseFunc turns raw file content into an AST.
type ParseFunc func(content []byte) (*script.Script, error)

type fileEntry struct {
	contentHash string
	ast         *script.Script
	astHash     string
}

// Cache is safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	files  map[string]*fileEntry  // path → parsed entry
	graphs map[string]*flow.Graph // AST hash → derived graph
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		files:  make(map[string]*fileEntry),
		graphs: make(map[string]*flow.Graph),
	}
}

// AST returns the parsed tree for a file, reusing the cached one while the
// content hash is unchanged. parse runs only on a miss; its error is returned
// verbatim and nothing is cached.
func (c *Cache) AST(path string, content []byte, parse ParseFunc) (*script.Script, error) {
	hash := script.HashBytes(content)

	c.mu.Lock()
	if e, ok := c.files[path]; ok && e.contentHash == hash {
		c.mu.Unlock()
		metrics.CacheHits.WithLabelValues("ast").Inc()
		return e.ast, nil
	}
	c.mu.Unlock()

	metrics.CacheMisses.WithLabelValues("ast").Inc()
	ast, err := parse(content)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.files[path] = &fileEntry{contentHash: hash, ast: ast, astHash: script.Hash(ast)}
	c.mu.Unlock()
	return ast, nil
}

// FlowGraph returns the graph derived from an AST, rebuilding only when the
// AST hash is unseen.
func (c *Cache) FlowGraph(ast *script.Script, build func(*script.Script) *flow.Graph) *flow.Graph {
	hash := script.Hash(ast)

	c.mu.Lock()
	if g, ok := c.graphs[hash]; ok {
		c.mu.Unlock()
		metrics.CacheHits.WithLabelValues("graph").Inc()
		return g
	}
	c.mu.Unlock()

	metrics.CacheMisses.WithLabelValues("graph").Inc()
	metrics.GraphRebuilds.Inc()
	g := build(ast)

	c.mu.Lock()
	c.graphs[hash] = g
	c.mu.Unlock()
	return g
}

// FileHash returns the cached content hash of a file, if any.
func (c *Cache) FileHash(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.files[path]
	if !ok {
		return "", false
	}
	return e.contentHash, true
}

// Invalidate drops a file's entry together with the graph derived from its
// AST. Safe to call for unknown paths.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.files[path]; ok {
		delete(c.graphs, e.astHash)
		delete(c.files, path)
	}
}

// Reset empties the cache.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = make(map[string]*fileEntry)
	c.graphs = make(map[string]*flow.Graph)
}
