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

package a2s

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/steamnetd/steamnetd/internal/fasttime"
)

const namespace = "a2s"

var (
	queriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "queries issued, partitioned by operation and result",
		},
		[]string{"op", "result"},
	)

	lastQueryUnix = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_query_unix_seconds",
			Help:      "unix timestamp of the most recently completed query, any operation",
		},
	)

	retriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "recv retries taken under the adaptive retry schedule",
		},
	)

	timeoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timeouts_total",
			Help:      "recv attempts that exhausted the retry schedule",
		},
	)

	masterRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "master_requests_total",
			Help:      "Steam master server requests answered with a decoded page during enumeration",
		},
	)
)

func observeQuery(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	queriesTotal.WithLabelValues(op, result).Inc()
	lastQueryUnix.Set(float64(fasttime.UnixTimestamp()))
}
