package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nkiryanov/clubhouse/internal/logger"
)

// Topics of committed domain changes
const (
	TopicLedgerEntryAppended = "ledger.entry_appended"
	TopicMatchUpdated        = "ticker.match_updated"
)

const (
	defaultCountWorkers = 2
	defaultQueueSize    = 256
)

type Message struct {
	Topic   string
	Payload any
	At      time.Time
}

// Notifier is what services use to announce committed changes
// Notify must never block the caller
type Notifier interface {
	Notify(topic string, payload any)
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

type discard struct{}

func (discard) Notify(string, any) {}

// Discard drops every notification
var Discard Notifier = discard{}

// Dispatcher queues notifications and publishes them with a pool of workers
type Dispatcher struct {
	countWorkers int
	queue        chan Message
	publisher    Publisher
	logger       logger.Logger

	mu      sync.RWMutex
	stopped bool
}

func NewDispatcher(publisher Publisher, countWorkers int, l logger.Logger) *Dispatcher {
	if countWorkers <= 0 {
		countWorkers = defaultCountWorkers
	}

	return &Dispatcher{
		countWorkers: countWorkers,
		queue:        make(chan Message, defaultQueueSize),
		publisher:    publisher,
		logger:       l,
	}
}

// Notify enqueues message; if the queue is full or dispatcher stopped the message is dropped
func (d *Dispatcher) Notify(topic string, payload any) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.logger.Warn("Notification dropped, dispatcher stopped", "topic", topic)
		return
	}

	select {
	case d.queue <- Message{Topic: topic, Payload: payload, At: time.Now()}:
	default:
		d.logger.Warn("Notification dropped, queue is full", "topic", topic)
	}
}

// Run starts workers; they publish until ctx is done and the queue is drained
// Returned channel is closed when every worker stopped
func (d *Dispatcher) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})

	var wg sync.WaitGroup
	for range d.countWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.worker(ctx)
		}()
	}

	go func() {
		<-ctx.Done()

		d.mu.Lock()
		d.stopped = true
		close(d.queue)
		d.mu.Unlock()
	}()

	go func() {
		defer close(idleStopped)
		wg.Wait()

		if err := d.publisher.Close(); err != nil {
			d.logger.Error("Failed to close publisher", "error", err)
		}
		d.logger.Debug("Dispatcher stopped")
	}()

	return idleStopped
}

func (d *Dispatcher) worker(ctx context.Context) {
	for msg := range d.queue {
		// Queue is drained after ctx is done, so publish with a context that outlives it
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		err := d.publisher.Publish(pubCtx, msg)
		cancel()

		if err != nil {
			d.logger.Error("Failed to publish notification", "error", err, "topic", msg.Topic)
		}
	}
}

// LogPublisher writes notifications to the log, used when no broker is configured
type LogPublisher struct {
	L logger.Logger
}

func (p *LogPublisher) Publish(_ context.Context, msg Message) error {
	body, err := json.Marshal(msg.Payload)
	if err != nil {
		return err
	}

	p.L.Info("Notification", "topic", msg.Topic, "payload", string(body))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
