package spider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// EventKind classifies game events pushed to clients.
type EventKind string

const (
	EventCreatureUpdate EventKind = "creature_update"
	EventPlayerUpdate   EventKind = "player_update"
	EventCreatureDeath  EventKind = "creature_death"
	EventTransaction    EventKind = "transaction"
)

// GameEvent is the payload fanned out to notifiers whenever a creature or
// player record changes. Exactly one of the optional payloads is set,
// matching the kind.
type GameEvent struct {
	Kind        EventKind    `json:"kind"`
	Wallet      string       `json:"wallet"`
	Timestamp   time.Time    `json:"timestamp"`
	Creature    *Creature    `json:"creature,omitempty"`
	Player      *Player      `json:"player,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

// JSON returns the event encoded as JSON bytes.
func (e GameEvent) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Notifier is the interface all notification channels implement.
type Notifier interface {
	// ID returns a unique identifier for this notifier.
	ID() string

	// Type returns the channel type (e.g. "websocket", "webhook").
	Type() string

	// Notify delivers one event. The context carries cancellation and
	// timeout.
	Notify(ctx context.Context, event GameEvent) error

	// Close releases any resources held by the notifier.
	Close() error
}

// notificationJob pairs an event with its target notifiers.
type notificationJob struct {
	event       GameEvent
	notifierIDs []string
}

// NotificationManager owns the registered notifiers and routes events to
// them through an async worker queue. Delivery is best-effort: a full
// queue drops events rather than blocking game operations.
type NotificationManager struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
	jobs      chan notificationJob
	closed    bool
	wg        sync.WaitGroup
	logger    Logger
}

// NewNotificationManager creates a manager with a single delivery worker.
func NewNotificationManager() *NotificationManager {
	return NewNotificationManagerWithLogger(NewNoOpLogger())
}

// NewNotificationManagerWithLogger creates a manager with the given logger.
func NewNotificationManagerWithLogger(logger Logger) *NotificationManager {
	nm := &NotificationManager{
		notifiers: make(map[string]Notifier),
		jobs:      make(chan notificationJob, 1024),
		logger:    logger,
	}
	nm.startWorkers(1)
	return nm
}

// Register adds a notifier. Fails on nil notifiers, empty IDs, or ID
// collisions.
func (nm *NotificationManager) Register(notifier Notifier) error {
	if notifier == nil {
		return fmt.Errorf("notifier cannot be nil")
	}
	id := notifier.ID()
	if id == "" {
		return fmt.Errorf("notifier ID cannot be empty")
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()
	if _, exists := nm.notifiers[id]; exists {
		return fmt.Errorf("notifier with ID %s already exists", id)
	}
	nm.notifiers[id] = notifier
	return nil
}

// Unregister closes and removes a notifier by ID.
func (nm *NotificationManager) Unregister(id string) error {
	nm.mu.Lock()
	notifier, exists := nm.notifiers[id]
	delete(nm.notifiers, id)
	nm.mu.Unlock()

	if !exists {
		return fmt.Errorf("notifier with ID %s not found", id)
	}
	if err := notifier.Close(); err != nil {
		return fmt.Errorf("closing notifier %s: %w", id, err)
	}
	return nil
}

// NotifierIDs returns the IDs of all registered notifiers.
func (nm *NotificationManager) NotifierIDs() []string {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	return ids
}

// Broadcast enqueues an event for every registered notifier.
func (nm *NotificationManager) Broadcast(event GameEvent) {
	nm.Enqueue(event, nm.NotifierIDs())
}

// Enqueue queues an event for async delivery to the given notifiers.
// Non-blocking; events are dropped with a log line when the queue is full.
func (nm *NotificationManager) Enqueue(event GameEvent, notifierIDs []string) {
	if len(notifierIDs) == 0 {
		return
	}

	nm.mu.RLock()
	closed := nm.closed
	nm.mu.RUnlock()
	if closed {
		return
	}

	select {
	case nm.jobs <- notificationJob{event: event, notifierIDs: notifierIDs}:
	default:
		nm.logger.Warnf("notification queue full, dropping event: kind=%s wallet=%s", event.Kind, event.Wallet)
	}
}

func (nm *NotificationManager) startWorkers(n int) {
	for i := 0; i < n; i++ {
		nm.wg.Add(1)
		go nm.worker()
	}
}

func (nm *NotificationManager) worker() {
	defer nm.wg.Done()
	for job := range nm.jobs {
		nm.dispatch(job)
	}
}

func (nm *NotificationManager) dispatch(job notificationJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, id := range job.notifierIDs {
		nm.notifyWithRetry(ctx, id, job.event)
	}
}

// notifyWithRetry delivers with a small exponential backoff before giving
// up on a misbehaving channel.
func (nm *NotificationManager) notifyWithRetry(ctx context.Context, notifierID string, event GameEvent) {
	nm.mu.RLock()
	notifier, ok := nm.notifiers[notifierID]
	nm.mu.RUnlock()
	if !ok {
		nm.logger.Warnf("notification failed: notifier=%s error=not found", notifierID)
		return
	}

	const maxRetries = 3
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := notifier.Notify(ctx, event)
		if err == nil {
			return
		}
		nm.logger.Warnf("notification failed: notifier=%s attempt=%d error=%v", notifierID, attempt+1, err)
		if attempt == maxRetries {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// Close drains the queue, stops the workers and closes every notifier.
func (nm *NotificationManager) Close() error {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return nil
	}
	nm.closed = true
	close(nm.jobs)
	nm.mu.Unlock()

	nm.wg.Wait()

	nm.mu.Lock()
	defer nm.mu.Unlock()
	var errs []error
	for id, notifier := range nm.notifiers {
		if err := notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing notifier %s: %w", id, err))
		}
	}
	nm.notifiers = make(map[string]Notifier)
	if len(errs) > 0 {
		return fmt.Errorf("errors closing notifiers: %v", errs)
	}
	return nil
}
