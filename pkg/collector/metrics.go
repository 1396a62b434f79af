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

package collector

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	samples      prometheus.Counter
	degenerate   prometheus.Counter
	exportErrors prometheus.Counter
	containers   prometheus.Gauge
}

// newMetrics creates the collector metrics and registers them on reg when
// it is not nil.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docker_activity_samples_total",
			Help: "Total number of container samples turned into snapshots",
		}),
		degenerate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docker_activity_degenerate_samples_total",
			Help: "Total number of container samples skipped because no CPU ratio could be computed",
		}),
		exportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docker_activity_export_errors_total",
			Help: "Total number of snapshots the exporter rejected",
		}),
		containers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docker_activity_containers",
			Help: "Number of containers currently being watched",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.samples, m.degenerate, m.exportErrors, m.containers)
	}
	return m
}
