// Package events fans domain events out to in-process subscribers and, when
// configured, to the other API nodes through Redis pub/sub and NATS.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/observability"
)

// Event topics.
const (
	TopicPaymentRecorded = "payment.recorded"
	TopicLoanRenewed     = "loan.renewed"
	TopicNoticePublished = "notice.published"
	// TopicRecordsChanged carries any other write that moves a student's
	// attendance, fee, library or result figures.
	TopicRecordsChanged = "records.changed"
)

const (
	subscriberBufferSize = 16
	seenCapacity         = 512
)

// Event is the envelope exchanged between nodes.
type Event struct {
	ID      string          `json:"id"`
	Source  string          `json:"source"`
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
	SentAt  time.Time       `json:"sent_at"`
}

// Decode unmarshals the payload into target.
func (e Event) Decode(target interface{}) error {
	return json.Unmarshal(e.Payload, target)
}

// Publisher is implemented by anything that can emit domain events.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// Bus delivers events locally and relays them over the configured brokers.
type Bus struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	nodeID       string

	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}

	seenMu    sync.Mutex
	seen      map[string]struct{}
	seenOrder []string
}

// NewBus constructs an event bus. Either broker may be nil.
func NewBus(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) *Bus {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":events"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &Bus{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "event_bus").Logger(),
		nodeID:       uuid.NewString(),
		subscribers:  make(map[string]map[chan Event]struct{}),
		seen:         make(map[string]struct{}),
	}
}

// NodeID identifies this process in relayed events.
func (b *Bus) NodeID() string {
	return b.nodeID
}

// Start consumes remote events until ctx is cancelled.
func (b *Bus) Start(ctx context.Context) {
	if b.redis != nil && b.redisChannel != "" {
		go b.consumeRedis(ctx)
	}
	if b.nats != nil && b.natsSubject != "" {
		go b.consumeNATS(ctx)
	}
}

// Publish delivers the event to local subscribers and relays it to remote nodes.
// Relay failures are returned after local delivery has happened.
func (b *Bus) Publish(ctx context.Context, topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := Event{
		ID:      uuid.NewString(),
		Source:  b.nodeID,
		Topic:   topic,
		Payload: body,
		SentAt:  time.Now().UTC(),
	}

	b.markSeen(event.ID)
	b.broadcast(event)

	return b.relay(ctx, event)
}

// Subscribe registers a buffered channel for topic. Slow subscribers miss events
// instead of blocking publishers.
func (b *Bus) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBufferSize)

	b.mu.Lock()
	if _, ok := b.subscribers[topic]; !ok {
		b.subscribers[topic] = make(map[chan Event]struct{})
	}
	b.subscribers[topic][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subscribers, ok := b.subscribers[topic]; ok {
				delete(subscribers, ch)
				close(ch)
				if len(subscribers) == 0 {
					delete(b.subscribers, topic)
				}
			}
		})
	}

	return ch, cancel
}

func (b *Bus) relay(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var errs []error
	if b.redis != nil && b.redisChannel != "" {
		if err := b.redis.Publish(ctx, b.redisChannel, payload).Err(); err != nil {
			errs = append(errs, err)
		}
	}

	if b.nats != nil && b.natsSubject != "" {
		if err := b.nats.Publish(b.natsSubject, payload); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (b *Bus) broadcast(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := false
	for ch := range b.subscribers[event.Topic] {
		select {
		case ch <- event:
			delivered = true
		default:
		}
	}
	if delivered {
		observability.EventsPublished().WithLabelValues(event.Topic).Inc()
	}
}

func (b *Bus) consumeRedis(ctx context.Context) {
	pubsub := b.redis.Subscribe(ctx, b.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			b.logger.Error().Err(err).Msg("event redis subscription closed")
			return
		}
		b.handle([]byte(msg.Payload))
	}
}

func (b *Bus) consumeNATS(ctx context.Context) {
	// Plain subscription: every node must see every event to serve its own websocket clients.
	sub, err := b.nats.Subscribe(b.natsSubject, func(msg *nats.Msg) {
		b.handle(msg.Data)
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to subscribe to nats events subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			b.logger.Warn().Err(err).Msg("failed to drain events nats subscription")
		}
	}()
}

func (b *Bus) handle(payload []byte) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		b.logger.Warn().Err(err).Msg("invalid event payload")
		return
	}

	if event.Source == b.nodeID || event.Topic == "" {
		return
	}

	// Events may arrive over both brokers.
	if !b.markSeen(event.ID) {
		return
	}

	b.broadcast(event)
}

// markSeen records id and reports whether it was new.
func (b *Bus) markSeen(id string) bool {
	if id == "" {
		return true
	}

	b.seenMu.Lock()
	defer b.seenMu.Unlock()

	if _, ok := b.seen[id]; ok {
		return false
	}
	b.seen[id] = struct{}{}
	b.seenOrder = append(b.seenOrder, id)
	if len(b.seenOrder) > seenCapacity {
		oldest := b.seenOrder[0]
		b.seenOrder = b.seenOrder[1:]
		delete(b.seen, oldest)
	}
	return true
}

// Nop returns a publisher that discards events.
func Nop() Publisher {
	return nopPublisher{}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, interface{}) error { return nil }
