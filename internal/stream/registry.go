package stream

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fieldlogger/internal/inspection"
	"fieldlogger/internal/logger"
)

const (
	MessageInitial = "initial"
	MessageUpdate  = "update"

	DefaultHeartbeatInterval = 30 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultBuffer            = 16
)

var (
	ErrClosed  = errors.New("stream registry closed")
	ErrNilSink = errors.New("stream sink is nil")
)

// Snapshotter supplies the full record set sent with every message.
type Snapshotter interface {
	FindAll(ctx context.Context) ([]inspection.Inspection, error)
}

// Sink is one open client connection. Calls are never concurrent for a
// given sink.
type Sink interface {
	WriteMessage(ctx context.Context, payload []byte) error
	WriteHeartbeat(ctx context.Context) error
}

// Message is the payload pushed to subscribers.
type Message struct {
	Type        string            `json:"type"`
	Count       int               `json:"count"`
	Inspections []inspection.View `json:"inspections"`
	Timestamp   time.Time         `json:"timestamp"`
}

type Options struct {
	HeartbeatInterval time.Duration
	WriteTimeout      time.Duration
	// Buffer is the per-subscription queue length. A full queue drops the
	// message for that subscriber only.
	Buffer int
}

func (o Options) withDefaults() Options {
	if o.HeartbeatInterval <= 0 {
		o.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	if o.Buffer <= 0 {
		o.Buffer = DefaultBuffer
	}
	return o
}

type Stats struct {
	Open      int    `json:"open"`
	Delivered uint64 `json:"delivered"`
	Dropped   uint64 `json:"dropped"`
	Failed    uint64 `json:"failed"`
}

// Registry tracks open subscriptions and fans snapshots out to them.
type Registry struct {
	source Snapshotter
	logger *zap.Logger
	opts   Options
	now    func() time.Time

	mu     sync.RWMutex
	subs   map[string]*Subscription
	closed bool

	delivered uint64
	dropped   uint64
	failed    uint64
}

func NewRegistry(source Snapshotter, log *zap.Logger, opts Options) *Registry {
	return &Registry{
		source: source,
		logger: logger.OrNop(log),
		opts:   opts.withDefaults(),
		now:    time.Now,
		subs:   map[string]*Subscription{},
	}
}

// Subscription is the handle for one registered sink. It is Open until
// Done is closed; it never reopens.
type Subscription struct {
	id       string
	sink     Sink
	outbox   chan []byte
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once
	openedAt time.Time
}

func (s *Subscription) ID() string { return s.id }

// Done is closed once the subscription leaves the registry.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Wait blocks until the subscription's writer has stopped touching the sink.
func (s *Subscription) Wait() { <-s.stopped }

func (s *Subscription) close() {
	if s.done == nil {
		return
	}
	s.once.Do(func() { close(s.done) })
}

// Subscribe registers sink and then reads the initial snapshot, so a save
// that lands while the snapshot is taken still reaches the new subscriber
// as an update. The initial message is always written first.
func (r *Registry) Subscribe(ctx context.Context, sink Sink) (*Subscription, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	sub := &Subscription{
		id:       uuid.NewString(),
		sink:     sink,
		outbox:   make(chan []byte, r.opts.Buffer),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		openedAt: r.now().UTC(),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	r.subs[sub.id] = sub
	total := len(r.subs)
	r.mu.Unlock()

	payload, err := r.snapshot(ctx, MessageInitial)
	if err != nil {
		r.Unsubscribe(sub)
		close(sub.stopped)
		return nil, err
	}

	go r.run(sub, payload)

	r.logger.Info("stream client connected",
		zap.String("subscription", sub.id),
		zap.Int("total", total),
	)
	return sub, nil
}

// Unsubscribe is safe to call repeatedly and with unknown handles.
func (r *Registry) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	r.mu.Lock()
	cur, ok := r.subs[sub.id]
	removed := ok && cur == sub
	if removed {
		delete(r.subs, sub.id)
	}
	total := len(r.subs)
	r.mu.Unlock()

	sub.close()
	if removed {
		r.logger.Info("stream client disconnected",
			zap.String("subscription", sub.id),
			zap.Duration("open_for", r.now().Sub(sub.openedAt)),
			zap.Int("total", total),
		)
	}
}

// Broadcast reads one snapshot and queues it as an update for every open
// subscription. It never blocks on a subscriber; delivery failures are
// handled per subscription and not returned.
func (r *Registry) Broadcast(ctx context.Context) error {
	payload, err := r.snapshot(ctx, MessageUpdate)
	if err != nil {
		r.logger.Warn("stream broadcast snapshot failed", zap.Error(err))
		return err
	}

	r.mu.RLock()
	targets := make([]*Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		targets = append(targets, sub)
	}
	r.mu.RUnlock()

	for _, sub := range targets {
		select {
		case <-sub.done:
		case sub.outbox <- payload:
		default:
			atomic.AddUint64(&r.dropped, 1)
			r.logger.Warn("stream client queue full, update dropped", zap.String("subscription", sub.id))
		}
	}
	r.logger.Debug("stream broadcast queued", zap.Int("clients", len(targets)))
	return nil
}

// Notify lets the registry act as the submission service's notifier.
func (r *Registry) Notify(ctx context.Context) error {
	return r.Broadcast(ctx)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

func (r *Registry) Stats() Stats {
	return Stats{
		Open:      r.Count(),
		Delivered: atomic.LoadUint64(&r.delivered),
		Dropped:   atomic.LoadUint64(&r.dropped),
		Failed:    atomic.LoadUint64(&r.failed),
	}
}

// Close drops every subscription and rejects new ones.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	subs := r.subs
	r.subs = map[string]*Subscription{}
	r.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
	for _, sub := range subs {
		sub.Wait()
	}
}

func (r *Registry) run(sub *Subscription, initial []byte) {
	defer close(sub.stopped)

	ticker := time.NewTicker(r.opts.HeartbeatInterval)
	defer ticker.Stop()

	if !r.deliver(sub, initial) {
		return
	}
	for {
		select {
		case <-sub.done:
			return
		default:
		}

		select {
		case <-sub.done:
			return
		case payload := <-sub.outbox:
			if !r.deliver(sub, payload) {
				return
			}
		case <-ticker.C:
			if err := r.write(sub.sink.WriteHeartbeat); err != nil {
				r.fail(sub, "heartbeat", err)
				return
			}
		}
	}
}

func (r *Registry) deliver(sub *Subscription, payload []byte) bool {
	select {
	case <-sub.done:
		return false
	default:
	}
	if err := r.write(func(ctx context.Context) error { return sub.sink.WriteMessage(ctx, payload) }); err != nil {
		r.fail(sub, "message", err)
		return false
	}
	atomic.AddUint64(&r.delivered, 1)
	return true
}

func (r *Registry) write(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.WriteTimeout)
	defer cancel()
	return fn(ctx)
}

func (r *Registry) fail(sub *Subscription, kind string, err error) {
	atomic.AddUint64(&r.failed, 1)
	r.logger.Warn("stream client send failed",
		zap.String("subscription", sub.id),
		zap.String("kind", kind),
		zap.Error(err),
	)
	r.Unsubscribe(sub)
}

func (r *Registry) snapshot(ctx context.Context, kind string) ([]byte, error) {
	items, err := r.source.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{
		Type:        kind,
		Count:       len(items),
		Inspections: inspection.Views(items),
		Timestamp:   r.now().UTC(),
	})
}
