/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"storyflow/internal/flow"
	"storyflow/internal/script"
)

func graphCmd() *cobra.Command {
	var format string
	var columns int

	cmd := &cobra.Command{
		Use:   "graph <script.json>",
		Short: "Print the flow graph derived from a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := loadScript(args[0])
			if err != nil {
				return err
			}
			g := flow.Build(s)
			opts := flow.DefaultLayoutOptions()
			opts.Columns = columns
			flow.AutoLayout(g, opts)

			switch strings.ToLower(format) {
			case "dot":
				fmt.Print(renderDOT(g, filepath.Base(args[0])))
			case "text", "":
				fmt.Print(renderText(g, filepath.Base(args[0])))
			default:
				return fmt.Errorf("unknown format %q: use text or dot", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or dot")
	cmd.Flags().IntVar(&columns, "columns", 0, "grid columns for auto layout (0 = square-ish)")
	return cmd
}

func orderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order <script.json>",
		Short: "Print per-scene statement order recovered from the graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := loadScript(args[0])
			if err != nil {
				return err
			}
			g := flow.Build(s)
			order := flow.FlowOrder(g)

			labels := make([]string, 0, len(order))
			for l := range order {
				labels = append(labels, l)
			}
			sort.Strings(labels)
			for _, l := range labels {
				fmt.Printf("%s:\n", l)
				for _, id := range order[l] {
					n := g.Node(id)
					if n == nil {
						continue
					}
					fmt.Printf("  %-12s  %s\n", string(n.Type), nodeSummary(n))
				}
			}
			return nil
		},
	}
}

func loadScript(path string) (*script.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := script.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return s, nil
}

// nodeSummary is the one-line display form of a node.
func nodeSummary(n *flow.Node) string {
	switch n.Type {
	case flow.NodeScene:
		return n.Data.Label
	case flow.NodeDialogue:
		if n.Data.Speaker != "" {
			return n.Data.Speaker + ": " + truncate(n.Data.Text, 60)
		}
		return truncate(n.Data.Text, 60)
	case flow.NodeMenu:
		labels := make([]string, len(n.Data.Choices))
		for i, c := range n.Data.Choices {
			labels[i] = c.Label
		}
		return "menu: " + strings.Join(labels, " | ")
	case flow.NodeCondition:
		labels := make([]string, len(n.Data.Branches))
		for i, b := range n.Data.Branches {
			labels[i] = b.Label
		}
		return "if: " + strings.Join(labels, " | ")
	case flow.NodeJump, flow.NodeCall:
		return string(n.Type) + " " + n.Data.Target
	default:
		return truncate(n.Data.Statement, 60)
	}
}

// truncate shortens s to maxLen chars, appending "…" if needed.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "…"
}

// renderText produces the human-readable text summary.
func renderText(g *flow.Graph, name string) string {
	var sb strings.Builder

	scenes := g.Scenes()
	fmt.Fprintf(&sb, "Script: %s  (%d scenes, %d nodes, %d edges)\n", name, len(scenes), len(g.Nodes), len(g.Edges))

	maxIDLen := 4
	for _, n := range g.Nodes {
		if len(n.ID) > maxIDLen {
			maxIDLen = len(n.ID)
		}
	}

	fmt.Fprintf(&sb, "\nNodes:\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&sb, "  %-*s  %-14s  %s\n", maxIDLen, n.ID, string(n.Type), nodeSummary(n))
	}

	fmt.Fprintf(&sb, "\nEdges:\n")
	maxFromLen := 4
	for _, e := range g.Edges {
		if len(e.Source) > maxFromLen {
			maxFromLen = len(e.Source)
		}
	}
	for _, e := range g.Edges {
		if e.SourceHandle != "" {
			fmt.Fprintf(&sb, "  %-*s  ->  %s  [%s]\n", maxFromLen, e.Source, e.Target, e.SourceHandle)
		} else if e.Type != flow.EdgeNormal {
			fmt.Fprintf(&sb, "  %-*s  ->  %s  (%s)\n", maxFromLen, e.Source, e.Target, string(e.Type))
		} else {
			fmt.Fprintf(&sb, "  %-*s  ->  %s\n", maxFromLen, e.Source, e.Target)
		}
	}

	return sb.String()
}

// dotQuote returns the value as a DOT-safe string, quoting if necessary.
func dotQuote(s string) string {
	needsQuote := s == "" ||
		strings.ContainsAny(s, " \t\n\\\"{}[]<>=;,:|")
	if needsQuote {
		escaped := strings.ReplaceAll(s, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		return `"` + escaped + `"`
	}
	return s
}

// renderDOT produces a canonical DOT digraph string.
func renderDOT(g *flow.Graph, name string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "digraph %s {\n", dotQuote(strings.TrimSuffix(name, filepath.Ext(name))))
	fmt.Fprintf(&sb, "    rankdir=TB\n")

	for _, n := range g.Nodes {
		attrs := []string{
			"type=" + dotQuote(string(n.Type)),
			"label=" + dotQuote(nodeSummary(n)),
		}
		if n.Type == flow.NodeScene {
			attrs = append(attrs, "shape=box")
		}
		fmt.Fprintf(&sb, "    %s [%s]\n", dotQuote(n.ID), strings.Join(attrs, " "))
	}

	for _, e := range g.Edges {
		var attrs []string
		if e.SourceHandle != "" {
			attrs = append(attrs, "label="+dotQuote(e.SourceHandle))
		}
		if e.Type != flow.EdgeNormal {
			attrs = append(attrs, "style=dashed")
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&sb, "    %s -> %s [%s]\n", dotQuote(e.Source), dotQuote(e.Target), strings.Join(attrs, " "))
		} else {
			fmt.Fprintf(&sb, "    %s -> %s\n", dotQuote(e.Source), dotQuote(e.Target))
		}
	}

	fmt.Fprintf(&sb, "}\n")
	return sb.String()
}
