/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// IngestSubsystem - subsystem name used by the event log pipeline
	IngestSubsystem = "sparkview_ingest"
)

var once sync.Once

var (
	linesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: IngestSubsystem,
			Name:      "lines_total",
			Help:      "Number of event log lines read, by decode result.",
		}, []string{"result"})
	// LinesProcessed counts every non-empty line taken from the source.
	LinesProcessed = linesTotal.With(prometheus.Labels{"result": "processed"})
	// LinesMalformed counts lines that were not valid event records.
	LinesMalformed = linesTotal.With(prometheus.Labels{"result": "malformed"})
	// LinesUnrecognized counts structurally valid lines of unknown kind.
	LinesUnrecognized = linesTotal.With(prometheus.Labels{"result": "unrecognized"})

	// SourceAnomalies counts content-level anomalies absorbed during
	// correlation, duplicate application starts included.
	SourceAnomalies = prometheus.NewCounter(
		prometheus.CounterOpts{
			Subsystem: IngestSubsystem,
			Name:      "source_anomalies_total",
			Help:      "Number of content-level anomalies absorbed while correlating events.",
		})

	entities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Subsystem: IngestSubsystem,
			Name:      "reconstructed_entities",
			Help:      "Entities reconstructed from the event log, by kind.",
		}, []string{"kind"})
)

// Register installs the collectors on the default registry exactly once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(linesTotal)
		prometheus.MustRegister(SourceAnomalies)
		prometheus.MustRegister(entities)
	})
}

func init() {
	Register()
}

// SetEntityCounts publishes the totals after a load run.
func SetEntityCounts(jobs, stages, tasks, executors int) {
	entities.With(prometheus.Labels{"kind": "job"}).Set(float64(jobs))
	entities.With(prometheus.Labels{"kind": "stage"}).Set(float64(stages))
	entities.With(prometheus.Labels{"kind": "task"}).Set(float64(tasks))
	entities.With(prometheus.Labels{"kind": "executor"}).Set(float64(executors))
}
