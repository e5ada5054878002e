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
	"strings"

	"github.com/spf13/cobra"

	"storyflow/internal/flow"
)

func validateCmd() *cobra.Command {
	var failOnCycles bool

	cmd := &cobra.Command{
		Use:   "validate <script.json>",
		Short: "Report structural problems of a script's flow graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := loadScript(args[0])
			if err != nil {
				return err
			}
			g := flow.Build(s)
			report := flow.Analyze(g, nil)

			printed := false
			if len(report.InvalidTargets) > 0 {
				printed = true
				fmt.Println("Invalid jump/call targets:")
				for _, id := range report.InvalidTargets {
					n := g.Node(id)
					fmt.Printf("  %s -> %s\n", id, n.Data.Target)
				}
			}
			if len(report.Disconnected) > 0 {
				printed = true
				fmt.Println("Disconnected nodes:")
				for _, id := range report.Disconnected {
					fmt.Printf("  %s\n", id)
				}
			}
			if len(report.Orphans) > 0 {
				printed = true
				fmt.Println("Orphan nodes (no owning scene):")
				for _, id := range report.Orphans {
					fmt.Printf("  %s\n", id)
				}
			}
			if len(report.Cycles) > 0 {
				printed = true
				fmt.Println("Cycles:")
				for _, c := range report.Cycles {
					fmt.Printf("  %s\n", strings.Join(c, " -> "))
				}
			}

			failed := len(report.InvalidTargets) > 0 || len(report.Disconnected) > 0 || len(report.Orphans) > 0
			if failOnCycles && len(report.Cycles) > 0 {
				failed = true
			}
			if failed {
				return fmt.Errorf("script has structural problems")
			}
			if !printed {
				fmt.Println("ok")
			} else {
				// Cycles alone are informational; loops are legal narrative.
				fmt.Println("ok (cycles reported, none fatal)")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failOnCycles, "fail-on-cycles", false, "treat cycles as an error")
	return cmd
}
