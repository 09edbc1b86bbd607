// Copyright 2025 The steamnetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd implements the steamnetd CLI: one-shot A2S queries
// (info/players/rules/ping), a sequential batch runner, Master Server
// enumeration, and an optional long-running status server.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steamnetd/steamnetd/common"
	"github.com/steamnetd/steamnetd/logger"
)

var (
	version   = common.Version
	gitHash   string
	buildTime string
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   common.App,
	Short: "A Source/GoldSrc A2S query client and Steam Master Server enumerator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLoggerLevel("debug")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
