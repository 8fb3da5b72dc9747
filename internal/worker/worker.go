package worker

import (
	"context"
	"log"
	"time"

	"price-intel-service/internal/broker"
	"price-intel-service/internal/models"
	"price-intel-service/internal/redisclient"
)

// HashCacheWorker keeps the Redis duplicate-check cache in step with the
// observation event stream, so instances that did not serve the original
// write still pre-check against warm hashes.
type HashCacheWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	redis        *redisclient.Client
	hashTTL      time.Duration
}

// NewHashCacheWorker creates a new hash cache worker
func NewHashCacheWorker(consumer *broker.Consumer, redis *redisclient.Client, hashTTL time.Duration) *HashCacheWorker {
	w := &HashCacheWorker{
		consumer: consumer,
		redis:    redis,
		hashTTL:  hashTTL,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnObservationRecorded(w.handleRecorded)
	eventHandler.OnObservationArchived(w.handleArchived)
	w.eventHandler = eventHandler

	return w
}

func (w *HashCacheWorker) handleRecorded(ctx context.Context, event *models.ObservationRecordedEvent) error {
	return w.redis.MarkHash(ctx, event.HashKey, event.ObservationID, w.hashTTL)
}

func (w *HashCacheWorker) handleArchived(ctx context.Context, event *models.ObservationArchivedEvent) error {
	return w.redis.ForgetHash(ctx, event.HashKey)
}

// Start starts the worker
func (w *HashCacheWorker) Start(ctx context.Context) error {
	log.Println("Starting hash cache worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *HashCacheWorker) Stop() error {
	log.Println("Stopping hash cache worker...")
	return w.consumer.Close()
}
