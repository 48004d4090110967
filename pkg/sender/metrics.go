// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sender

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	senderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_sender_attempts_total",
			Help: "Total number of delivery attempts by outcome",
		},
		[]string{"outcome"},
	)

	senderRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inventory_sender_request_duration_seconds",
			Help:    "Duration of delivery attempts",
			Buckets: prometheus.DefBuckets,
		},
	)

	senderPayloadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inventory_sender_payload_bytes",
			Help:    "Size of encoded delivery payloads",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
)
