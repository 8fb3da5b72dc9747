package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"price-intel-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishObservationRecorded publishes ObservationRecorded event
func (ep *EventPublisher) PublishObservationRecorded(ctx context.Context, event *models.ObservationRecordedEvent) error {
	key := fmt.Sprintf("sku-%d", event.SKUID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishObservationDuplicate publishes ObservationDuplicate event
func (ep *EventPublisher) PublishObservationDuplicate(ctx context.Context, event *models.ObservationDuplicateEvent) error {
	key := fmt.Sprintf("sku-%d", event.SKUID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishObservationArchived publishes ObservationArchived event
func (ep *EventPublisher) PublishObservationArchived(ctx context.Context, event *models.ObservationArchivedEvent) error {
	key := fmt.Sprintf("observation-%d", event.ObservationID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishCostUpdated publishes CostUpdated event
func (ep *EventPublisher) PublishCostUpdated(ctx context.Context, event *models.CostUpdatedEvent) error {
	key := fmt.Sprintf("sku-%d", event.SKUID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming events to registered handlers
type EventHandler struct {
	onObservationRecorded func(context.Context, *models.ObservationRecordedEvent) error
	onObservationArchived func(context.Context, *models.ObservationArchivedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnObservationRecorded registers a handler for ObservationRecorded events
func (eh *EventHandler) OnObservationRecorded(handler func(context.Context, *models.ObservationRecordedEvent) error) {
	eh.onObservationRecorded = handler
}

// OnObservationArchived registers a handler for ObservationArchived events
func (eh *EventHandler) OnObservationArchived(handler func(context.Context, *models.ObservationArchivedEvent) error) {
	eh.onObservationArchived = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeObservationRecorded:
		if eh.onObservationRecorded != nil {
			var event models.ObservationRecordedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ObservationRecorded event: %w", err)
			}
			return eh.onObservationRecorded(ctx, &event)
		}

	case models.EventTypeObservationArchived:
		if eh.onObservationArchived != nil {
			var event models.ObservationArchivedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ObservationArchived event: %w", err)
			}
			return eh.onObservationArchived(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
