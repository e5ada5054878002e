/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Command storyflow is the command-line companion of the flow editor: it
// inspects script files, renders their flow graphs and validates story
// structure without opening the UI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	applog "storyflow/internal/log"
	"storyflow/internal/version"
)

func main() {
	applog.Init(applog.FromEnv())
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storyflow",
		Short: "storyflow - branching-narrative flow tools",
		Long: `Storyflow keeps a branching-narrative script and its visual flow graph
in sync. This CLI works on the serialized AST of a script: it renders the
derived graph as text or DOT and reports structural problems.`,
		SilenceUsage: true,
	}
	root.AddCommand(graphCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(orderCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(*cobra.Command, []string) {
			fmt.Println(version.String())
		},
	}
}
