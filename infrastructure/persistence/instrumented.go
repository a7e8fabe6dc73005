package persistence

import (
	"context"
	"strconv"
	"time"

	"docstore-backend/application/ports"
	"docstore-backend/domain/document"
	"docstore-backend/pkg/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// InstrumentedOpener decorates a ClientOpener so every store call is timed,
// counted and traced.
type InstrumentedOpener struct {
	next      ports.ClientOpener
	namespace *NamespaceRef
	metrics   *observability.Collector
	tracer    trace.Tracer
	logger    *zap.Logger
}

// NewInstrumentedOpener wraps next. metrics may be nil.
func NewInstrumentedOpener(next ports.ClientOpener, namespace *NamespaceRef, metrics *observability.Collector, logger *zap.Logger) *InstrumentedOpener {
	return &InstrumentedOpener{
		next:      next,
		namespace: namespace,
		metrics:   metrics,
		tracer:    otel.Tracer(observability.TracerName),
		logger:    logger,
	}
}

// Open implements ports.ClientOpener.
func (o *InstrumentedOpener) Open(ctx context.Context) (ports.DocumentClient, error) {
	client, err := o.next.Open(ctx)
	if err != nil {
		return nil, err
	}
	if o.metrics != nil {
		o.metrics.RecordClientOpened()
	}
	return &instrumentedClient{
		next:   client,
		table:  o.namespace.Load().Table(),
		opener: o,
	}, nil
}

type instrumentedClient struct {
	next   ports.DocumentClient
	table  string
	opener *InstrumentedOpener
}

func (c *instrumentedClient) observe(ctx context.Context, operation string, call func(context.Context) (int, error)) error {
	ctx, span := c.opener.tracer.Start(ctx, "docstore."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "dynamodb"),
			attribute.String("db.operation", operation),
			attribute.String("db.collection", c.table),
		),
	)
	defer span.End()

	start := time.Now()
	status, err := call(ctx)
	duration := time.Since(start)

	label := strconv.Itoa(status)
	if err != nil {
		label = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("db.response.status_code", status))
	}

	if c.opener.metrics != nil {
		c.opener.metrics.RecordStoreOperation(operation, c.table, label, duration)
	}
	c.opener.logger.Debug("Document store call",
		zap.String("operation", operation),
		zap.String("table", c.table),
		zap.String("status", label),
		zap.Duration("duration", duration),
	)
	return err
}

func (c *instrumentedClient) Read(ctx context.Context, id, partitionKey string) (ports.ItemResponse, error) {
	var resp ports.ItemResponse
	err := c.observe(ctx, "read", func(ctx context.Context) (int, error) {
		var err error
		resp, err = c.next.Read(ctx, id, partitionKey)
		return resp.StatusCode, err
	})
	return resp, err
}

func (c *instrumentedClient) Delete(ctx context.Context, id, partitionKey string) (ports.ItemResponse, error) {
	var resp ports.ItemResponse
	err := c.observe(ctx, "delete", func(ctx context.Context) (int, error) {
		var err error
		resp, err = c.next.Delete(ctx, id, partitionKey)
		return resp.StatusCode, err
	})
	return resp, err
}

func (c *instrumentedClient) Upsert(ctx context.Context, record document.Record) (ports.ItemResponse, error) {
	var resp ports.ItemResponse
	err := c.observe(ctx, "upsert", func(ctx context.Context) (int, error) {
		var err error
		resp, err = c.next.Upsert(ctx, record)
		return resp.StatusCode, err
	})
	return resp, err
}

func (c *instrumentedClient) Query(ctx context.Context, filter ports.MessageFilter) ([]document.Record, error) {
	var records []document.Record
	err := c.observe(ctx, "query", func(ctx context.Context) (int, error) {
		var err error
		records, err = c.next.Query(ctx, filter)
		// Queries have no item status; report 200 with the match count on the span.
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("db.response.returned_rows", len(records)))
		return 200, err
	})
	return records, err
}

func (c *instrumentedClient) Close() error {
	return c.next.Close()
}
