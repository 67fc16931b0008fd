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

package trace

import (
	"fmt"
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
)

// NewConstTracer creates a tracer reporting every span, used when load
// runs should always be traced.
func NewConstTracer(service string) (opentracing.Tracer, io.Closer, error) {
	return NewTracer(service, &jaegercfg.SamplerConfig{
		Type:  jaeger.SamplerTypeConst,
		Param: 1,
	})
}

// NewRateLimitingTracer creates a tracer reporting at most maxPerSecond
// load spans per second.
func NewRateLimitingTracer(service string, maxPerSecond float64) (opentracing.Tracer, io.Closer, error) {
	return NewTracer(service, &jaegercfg.SamplerConfig{
		Type:  jaeger.SamplerTypeRateLimiting,
		Param: maxPerSecond,
	})
}

// NewTracer creates a jaeger tracer with the given sampler. The caller
// owns the closer and should install the tracer as the opentracing
// global, spans are started via opentracing.StartSpanFromContext.
func NewTracer(service string, sampler *jaegercfg.SamplerConfig) (opentracing.Tracer, io.Closer, error) {
	if service == "" {
		return nil, nil, fmt.Errorf("tracer service name must not be empty")
	}
	cfg := jaegercfg.Configuration{
		ServiceName: service,
		Sampler:     sampler,
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans: false,
		},
	}
	tracer, closer, err := cfg.NewTracer(
		jaegercfg.Metrics(metrics.NullFactory),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	return tracer, closer, nil
}

// InitGlobalTracer installs a const-sampling tracer process-wide. The
// returned closer flushes pending spans on shutdown.
func InitGlobalTracer(service string) (io.Closer, error) {
	tracer, closer, err := NewConstTracer(service)
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}
