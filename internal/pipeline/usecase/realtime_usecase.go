package usecase

import (
	"context"
	"sync"

	"dataprep/internal/pipeline/domain/model"
	"dataprep/internal/shared/eventbus"
	"dataprep/internal/shared/logger"

	"go.uber.org/zap"
)

// RealtimeUsecase manages per-job subscriptions used by the WebSocket
// handler to stream job progress to clients.
type RealtimeUsecase interface {
	// Subscribe registers a channel to receive events for a job.
	// subscriberID must be unique per client connection.
	Subscribe(ctx context.Context, subscriberID, jobID string, events chan<- model.JobEvent) error

	// Unsubscribe removes a client's subscription.
	Unsubscribe(ctx context.Context, subscriberID, jobID string) error

	// PublishEvent fans a job event out to that job's subscribers.
	PublishEvent(ctx context.Context, event model.JobEvent) error
}

type realtimeUsecase struct {
	// subscriptions maps a job ID to subscriber IDs to their event channels.
	subscriptions map[string]map[string]chan<- model.JobEvent
	mu            sync.RWMutex
	log           logger.Logger
}

// NewRealtimeUsecase creates a realtime usecase.
func NewRealtimeUsecase(log logger.Logger) RealtimeUsecase {
	if log == nil {
		log = logger.NewLogger()
	}
	return &realtimeUsecase{
		subscriptions: make(map[string]map[string]chan<- model.JobEvent),
		log:           log.WithComponent("realtime"),
	}
}

// BindEventBus subscribes the realtime usecase to job lifecycle events so
// bus publications reach WebSocket clients.
func BindEventBus(bus *eventbus.EventBus, rt RealtimeUsecase) {
	handler := func(ctx context.Context, event eventbus.Event) error {
		if jobEvent, ok := event.Data().(model.JobEvent); ok {
			return rt.PublishEvent(ctx, jobEvent)
		}
		return nil
	}
	for _, eventType := range []string{
		model.EventJobStarted, model.EventJobStep, model.EventJobCompleted, model.EventJobFailed,
	} {
		bus.Subscribe(eventType, handler)
	}
}

func (uc *realtimeUsecase) Subscribe(ctx context.Context, subscriberID, jobID string, events chan<- model.JobEvent) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.subscriptions[jobID]; !ok {
		uc.subscriptions[jobID] = make(map[string]chan<- model.JobEvent)
	}
	if _, ok := uc.subscriptions[jobID][subscriberID]; ok {
		uc.log.Warn("Subscriber already subscribed to job, overwriting subscription",
			zap.String("subscriberID", subscriberID), zap.String("jobID", jobID))
	}

	uc.subscriptions[jobID][subscriberID] = events
	uc.log.Info("Client subscribed", zap.String("subscriberID", subscriberID), zap.String("jobID", jobID))
	return nil
}

func (uc *realtimeUsecase) Unsubscribe(ctx context.Context, subscriberID, jobID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	subscribers, ok := uc.subscriptions[jobID]
	if !ok {
		uc.log.Warn("Job not found during unsubscribe",
			zap.String("subscriberID", subscriberID), zap.String("jobID", jobID))
		return nil
	}
	if _, ok := subscribers[subscriberID]; !ok {
		uc.log.Warn("Subscriber not found for job during unsubscribe",
			zap.String("subscriberID", subscriberID), zap.String("jobID", jobID))
		return nil
	}

	// Closing the channel is the subscriber's responsibility; it owns it.
	delete(subscribers, subscriberID)
	if len(subscribers) == 0 {
		delete(uc.subscriptions, jobID)
	}
	uc.log.Info("Client unsubscribed", zap.String("subscriberID", subscriberID), zap.String("jobID", jobID))
	return nil
}

func (uc *realtimeUsecase) PublishEvent(ctx context.Context, event model.JobEvent) error {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	subscribers, ok := uc.subscriptions[event.JobID]
	if !ok {
		return nil
	}

	for subscriberID, ch := range subscribers {
		// Non-blocking send so a slow client cannot stall event delivery;
		// a full channel drops the event for that subscriber.
		select {
		case ch <- event:
		default:
			uc.log.Warn("Dropped event for slow subscriber",
				zap.String("subscriberID", subscriberID),
				zap.String("jobID", event.JobID),
				zap.String("eventType", event.Type))
		}
	}
	return nil
}
