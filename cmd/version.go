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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steamnetd/steamnetd/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		bi := common.GetBuildInfo()
		if bi.Version == "" {
			bi.Version = version
		}
		fmt.Printf("version: %s\ngit hash: %s\nbuild time: %s\n", bi.Version, bi.GitHash, bi.Time)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
