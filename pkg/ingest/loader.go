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

package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"

	"github.com/sparkview/sparkview-core/pkg/cache"
	"github.com/sparkview/sparkview-core/pkg/events"
	"github.com/sparkview/sparkview-core/pkg/log"
	"github.com/sparkview/sparkview-core/pkg/metrics"
)

// event log lines hold full stage/RDD descriptions and can grow large
const maxLineSize = 16 * 1024 * 1024

// Diagnostics tallies one load run. Content-level problems never abort a
// load, they end up here for display.
type Diagnostics struct {
	SessionID    string
	LinesRead    int64
	Decoded      int64
	Malformed    int64
	Unrecognized int64
	Anomalies    int64
	Completed    bool
}

// Skipped is the number of lines that produced no event.
func (d *Diagnostics) Skipped() int64 {
	return d.Malformed + d.Unrecognized
}

// Loader drives the decode/correlate pipeline over a line stream. The
// loader is the single writer of its store; one event is fully applied
// before the next line is read.
type Loader struct {
	store      *cache.Store
	correlator *Correlator
	diags      *Diagnostics
}

func NewLoader(store *cache.Store, classifier *ReasonClassifier) *Loader {
	diags := &Diagnostics{SessionID: uuid.NewString()}
	return &Loader{
		store:      store,
		correlator: NewCorrelator(store, classifier, diags),
		diags:      diags,
	}
}

// Diagnostics returns the tally of the current or finished run.
func (l *Loader) Diagnostics() *Diagnostics {
	return l.diags
}

// LoadFile loads one event log file. A source that cannot be opened is
// the only fatal error class and fails before any reconstruction.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Diagnostics, error) {
	f, err := os.Open(path)
	if err != nil {
		return l.diags, fmt.Errorf("failed to open event log: %w", err)
	}
	defer f.Close()
	return l.Load(ctx, f)
}

// Load consumes the stream line by line until EOF or cancellation.
// Cancellation is honored between lines only, leaving the store valid and
// partially filled, a supported outcome.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*Diagnostics, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "eventlog.load")
	span.SetTag("session", l.diags.SessionID)
	defer func() {
		span.SetTag("lines", l.diags.LinesRead)
		span.SetTag("skipped", l.diags.Skipped())
		span.Finish()
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			log.Logger().Info("event log load canceled",
				zap.String("session", l.diags.SessionID),
				zap.Int64("linesRead", l.diags.LinesRead))
			return l.diags, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		l.diags.LinesRead++
		metrics.LinesProcessed.Inc()

		ev, result, err := events.Decode(line)
		switch result {
		case events.Decoded:
			l.diags.Decoded++
			l.correlator.Apply(ev)
		case events.Unrecognized:
			// newer producers emit kinds this version does not know
			l.diags.Unrecognized++
			metrics.LinesUnrecognized.Inc()
		case events.Malformed:
			l.diags.Malformed++
			metrics.LinesMalformed.Inc()
			log.Logger().Debug("skipping malformed event log line",
				zap.Int64("line", l.diags.LinesRead),
				zap.Error(err))
		}
	}
	if err := scanner.Err(); err != nil {
		return l.diags, fmt.Errorf("failed to read event log: %w", err)
	}

	l.diags.Completed = true
	jobs, stages, tasks, executors := l.store.Counts()
	metrics.SetEntityCounts(jobs, stages, tasks, executors)
	log.Logger().Info("event log load complete",
		zap.String("session", l.diags.SessionID),
		zap.Int64("linesRead", l.diags.LinesRead),
		zap.Int64("decoded", l.diags.Decoded),
		zap.Int64("skipped", l.diags.Skipped()),
		zap.Int64("anomalies", l.diags.Anomalies),
		zap.Int("jobs", jobs),
		zap.Int("stages", stages),
		zap.Int("tasks", tasks),
		zap.Int("executors", executors))
	return l.diags, nil
}
