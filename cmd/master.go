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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/steamnetd/steamnetd/a2s"
	"github.com/steamnetd/steamnetd/common"
)

var masterRegions = map[string]a2s.Region{
	"us-east":       a2s.RegionUSEast,
	"us-west":       a2s.RegionUSWest,
	"south-america": a2s.RegionSouthAmerica,
	"europe":        a2s.RegionEurope,
	"asia":          a2s.RegionAsia,
	"australia":     a2s.RegionAustralia,
	"middle-east":   a2s.RegionMiddleEast,
	"africa":        a2s.RegionAfrica,
	"all":           a2s.RegionAll,
}

var (
	masterRegion  string
	masterFilters []string
)

// masterEnumerateTimeout is generous: the first request may sleep the
// full master rate-limit window (spec §4.5) before even starting to
// enumerate pages.
const masterEnumerateTimeout = 10 * time.Minute

var masterCmd = &cobra.Command{
	Use:   "master",
	Short: "Enumerate game servers from the Steam Master Server",
	Run: func(cmd *cobra.Command, args []string) {
		region, ok := masterRegions[masterRegion]
		if !ok {
			die(fmt.Errorf("unknown region %q", masterRegion))
		}

		filter, err := a2s.FromMap(parseFilterFlags(masterFilters))
		if err != nil {
			die(err)
		}

		client, err := a2s.DialMaster()
		if err != nil {
			die(err)
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), masterEnumerateTimeout)
		defer cancel()

		endpoints, err := client.Enumerate(ctx, region, filter)
		if err != nil {
			die(err)
		}
		if err := printJSON(endpoints); err != nil {
			die(err)
		}
	},
	Example: "# steamnetd master --region europe --filter appid=240,dedicated=true",
}

// parseFilterFlags converts "key=value,key=value" CLI flags (using
// common.Options as the same generic map/cast bag the teacher builds
// with in common/option.go) into the shape a2s.FromMap expects.
func parseFilterFlags(flags []string) map[string]any {
	opts := common.NewOptions()
	for _, f := range flags {
		for _, pair := range strings.Split(f, ",") {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) != 2 {
				continue
			}
			opts.Merge(kv[0], kv[1])
		}
	}
	return opts
}

func init() {
	masterCmd.Flags().StringVar(&masterRegion, "region", "all", "Region to query: us-east, us-west, south-america, europe, asia, australia, middle-east, africa, all")
	masterCmd.Flags().StringArrayVar(&masterFilters, "filter", nil, "Filter clauses in 'key=value[,key=value...]' format, repeatable")
	rootCmd.AddCommand(masterCmd)
}
