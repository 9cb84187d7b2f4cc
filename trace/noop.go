// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"github.com/ava-labs/avalanchego/trace"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var _ trace.Tracer = (*noOpTracer)(nil)

// noOpTracer is an implementation of trace.Tracer that does nothing.
type noOpTracer struct {
	oteltrace.Tracer
}

// Noop returns a tracer that records nothing.
func Noop() trace.Tracer {
	return &noOpTracer{
		Tracer: oteltrace.NewNoopTracerProvider().Tracer(""),
	}
}

func (noOpTracer) Close() error {
	return nil
}
