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
	"context"

	"github.com/spf13/cobra"

	"github.com/steamnetd/steamnetd/a2s"
)

var rulesCmd = &cobra.Command{
	Use:   "rules <ip:port>",
	Short: "Query A2S_RULES from a game server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withSession(args[0], func(ctx context.Context, s *a2s.Session) error {
			if _, err := s.RefreshInfo(ctx); err != nil {
				return err
			}
			rules, err := s.Rules(ctx)
			if err != nil {
				return err
			}
			return printJSON(rules)
		})
		if err != nil {
			die(err)
		}
	},
	Example: "# steamnetd rules 127.0.0.1:27015",
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
