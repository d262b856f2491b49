// Package events fans game changes out to in-process subscribers.
package events

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultBufferSize is the default per-subscriber channel capacity.
	DefaultBufferSize = 64

	// TypeGameCreated is published once when a session starts.
	TypeGameCreated = "GameCreated"
	// TypeCellsRevealed is published after a reveal that changed at least one cell.
	TypeCellsRevealed = "CellsRevealed"
	// TypeCellFlagged is published after a flag toggle.
	TypeCellFlagged = "CellFlagged"
	// TypeGameOver is published when a session reaches Won or Lost.
	TypeGameOver = "GameOver"
)

// Event is one game change delivered through the bus.
type Event struct {
	Type      string
	Timestamp time.Time
	SessionID string
	Payload   any
}

// Handler consumes a published event.
type Handler func(Event)

// Logger receives warnings about dropped events.
type Logger interface {
	Warn(msg interface{}, keyvals ...interface{})
}

// Bus defines event subscription and publish behavior.
type Bus interface {
	Subscribe(eventType string, handler Handler)
	SubscribeAll(handler Handler)
	Publish(event Event)
}

// Option customizes bus construction.
type Option func(*InMemoryBus)

// WithBufferSize configures per-subscriber channel capacity.
func WithBufferSize(size int) Option {
	return func(bus *InMemoryBus) {
		if size > 0 {
			bus.bufferSize = size
		}
	}
}

// WithLogger configures the sink for dropped-event warnings.
func WithLogger(logger Logger) Option {
	return func(bus *InMemoryBus) {
		if logger != nil {
			bus.logger = logger
		}
	}
}

// InMemoryBus is a thread-safe pub/sub bus backed by buffered channels. A
// subscriber that falls behind loses events instead of blocking publishers.
type InMemoryBus struct {
	mu             sync.RWMutex
	bufferSize     int
	logger         Logger
	typedSubs      map[string][]*subscriber
	wildcardSubs   []*subscriber
	nextSubscriber uint64
	closed         bool
	consumers      sync.WaitGroup
}

type subscriber struct {
	id uint64
	ch chan Event
}

// New creates an in-memory event bus.
func New(options ...Option) *InMemoryBus {
	bus := &InMemoryBus{
		bufferSize: DefaultBufferSize,
		logger:     log.Default(),
		typedSubs:  make(map[string][]*subscriber),
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		option(bus)
	}
	return bus
}

// Subscribe registers a handler for one event type.
func (b *InMemoryBus) Subscribe(eventType string, handler Handler) {
	eventType = strings.TrimSpace(eventType)
	if eventType == "" || handler == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	sub := b.newSubscriberLocked()
	b.typedSubs[eventType] = append(b.typedSubs[eventType], sub)
	b.startLocked(sub, handler)
}

// SubscribeAll registers a handler that receives every published event.
func (b *InMemoryBus) SubscribeAll(handler Handler) {
	if handler == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	sub := b.newSubscriberLocked()
	b.wildcardSubs = append(b.wildcardSubs, sub)
	b.startLocked(sub, handler)
}

// Publish delivers an event to typed and wildcard subscribers.
func (b *InMemoryBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, sub := range b.typedSubs[strings.TrimSpace(event.Type)] {
		b.deliver(sub, event)
	}
	for _, sub := range b.wildcardSubs {
		b.deliver(sub, event)
	}
}

// Close stops accepting events and waits for subscribers to drain what they
// already received.
func (b *InMemoryBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, subs := range b.typedSubs {
		for _, sub := range subs {
			close(sub.ch)
		}
	}
	for _, sub := range b.wildcardSubs {
		close(sub.ch)
	}
	b.mu.Unlock()

	b.consumers.Wait()
}

func (b *InMemoryBus) deliver(sub *subscriber, event Event) {
	select {
	case sub.ch <- event:
	default:
		b.logger.Warn("events: dropping event",
			"subscriber", sub.id,
			"type", event.Type,
			"session_id", event.SessionID,
		)
	}
}

func (b *InMemoryBus) newSubscriberLocked() *subscriber {
	b.nextSubscriber++
	return &subscriber{
		id: b.nextSubscriber,
		ch: make(chan Event, b.bufferSize),
	}
}

func (b *InMemoryBus) startLocked(sub *subscriber, handler Handler) {
	b.consumers.Add(1)
	go func() {
		defer b.consumers.Done()
		for event := range sub.ch {
			handler(event)
		}
	}()
}
