package docstore

import (
	"context"
	"errors"

	"evaluation_backend/pkg/monitoring"
	"evaluation_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Instrumented 为每次存储调用记录指标与追踪
type Instrumented struct {
	next Store
}

func Instrument(next Store) *Instrumented {
	return &Instrumented{next: next}
}

func (s *Instrumented) Get(ctx context.Context, collection string, out any) error {
	ctx, span := tracing.Tracer.Start(ctx, "docstore.Get", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("docstore.collection", collection))

	err := s.next.Get(ctx, collection, out)
	s.observe(collection, "get", err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *Instrumented) Put(ctx context.Context, collection string, in any) error {
	ctx, span := tracing.Tracer.Start(ctx, "docstore.Put", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("docstore.collection", collection))

	err := s.next.Put(ctx, collection, in)
	s.observe(collection, "put", err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *Instrumented) observe(collection, op string, err error) {
	monitoring.DocStoreRequests.WithLabelValues(collection, op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	case errors.Is(err, ErrStatus):
		return "status_error"
	case errors.Is(err, ErrDecode):
		return "decode_error"
	}
	return "error"
}
