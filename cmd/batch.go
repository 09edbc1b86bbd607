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
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/steamnetd/steamnetd/a2s"
)

// batchCmd queries each endpoint one at a time — a convenience loop,
// not fan-out (spec.md's Non-goals explicitly exclude concurrent
// querying of multiple endpoints). A failure on one endpoint is
// collected and the loop continues, mirroring the
// controller/portpools.go pattern of accumulating errors with
// multierror.Append instead of aborting on the first one.
var batchCmd = &cobra.Command{
	Use:   "batch <ip:port>...",
	Short: "Query A2S_INFO from multiple servers sequentially",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		results := make(map[string]*a2s.ServerInfo, len(args))
		var errs error

		for _, endpoint := range args {
			err := withSession(endpoint, func(ctx context.Context, s *a2s.Session) error {
				info, err := s.RefreshInfo(ctx)
				if err != nil {
					return err
				}
				results[endpoint] = info
				return nil
			})
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", endpoint, err))
			}
		}

		if err := printJSON(results); err != nil {
			die(err)
		}
		if errs != nil {
			fmt.Fprintln(os.Stderr, errs)
			os.Exit(1)
		}
	},
	Example: "# steamnetd batch 127.0.0.1:27015 127.0.0.1:27016",
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
