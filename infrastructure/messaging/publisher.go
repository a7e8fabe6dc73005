// Package messaging publishes document change events.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"docstore-backend/domain/document"
	"docstore-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// DefaultSource is the EventBridge source of every change event.
const DefaultSource = "docstore.functions"

// EventBridgeAPI is the subset of the EventBridge client the publisher calls.
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// EventBridgePublisher implements ports.ChangePublisher on Amazon EventBridge.
type EventBridgePublisher struct {
	client   EventBridgeAPI
	eventBus string
	source   string
	metrics  *observability.Collector
	logger   *zap.Logger
}

// NewEventBridgePublisher creates a publisher for eventBus. metrics may be nil.
func NewEventBridgePublisher(client EventBridgeAPI, eventBus string, metrics *observability.Collector, logger *zap.Logger) *EventBridgePublisher {
	if eventBus == "" {
		eventBus = "default"
	}
	return &EventBridgePublisher{
		client:   client,
		eventBus: eventBus,
		source:   DefaultSource,
		metrics:  metrics,
		logger:   logger,
	}
}

// Publish sends a single change event.
func (p *EventBridgePublisher) Publish(ctx context.Context, event document.ChangeEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	output, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			EventBusName: aws.String(p.eventBus),
			Source:       aws.String(p.source),
			DetailType:   aws.String(event.Type),
			Detail:       aws.String(string(detail)),
			Resources:    []string{event.DocumentID},
			Time:         aws.Time(event.OccurredAt),
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to put events: %w", err)
	}

	if output.FailedEntryCount > 0 {
		for i, entry := range output.Entries {
			if entry.ErrorCode != nil {
				p.logger.Error("EventBridge rejected event",
					zap.Int("index", i),
					zap.String("error_code", aws.ToString(entry.ErrorCode)),
					zap.String("error_message", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d events failed to publish", output.FailedEntryCount)
	}

	if p.metrics != nil {
		p.metrics.RecordDocumentChange(event.Type)
	}
	p.logger.Debug("Published change event",
		zap.String("event_type", event.Type),
		zap.String("document_id", event.DocumentID),
		zap.String("event_bus", p.eventBus),
	)
	return nil
}

// NoopPublisher drops every event. It is used when no event bus is configured.
type NoopPublisher struct{}

// Publish implements ports.ChangePublisher.
func (NoopPublisher) Publish(context.Context, document.ChangeEvent) error { return nil }
