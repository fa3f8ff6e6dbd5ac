package overlay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sourcegraph/conc/pool"
)

// Sink is one overlay destination.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev Event) error
}

type DispatcherConfig struct {
	QueueSize      int
	MaxRetries     int
	AttemptTimeout time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func (c DispatcherConfig) withDefaults() DispatcherConfig {
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 2 * time.Second
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 2 * time.Second
	}
	return c
}

// Dispatcher is the asynchronous Notifier. Events are queued and handled by
// a single worker in the order they were accepted; each event goes to all
// sinks concurrently, each sink with its own bounded retry.
type Dispatcher struct {
	cfg    DispatcherConfig
	sinks  []Sink
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

func NewDispatcher(cfg DispatcherConfig, logger *slog.Logger, sinks ...Sink) *Dispatcher {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		cfg:    cfg,
		sinks:  sinks,
		logger: logger.With(slog.String("component", "overlay_dispatcher")),
		queue:  make(chan Event, cfg.QueueSize),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	go d.run()
	return d
}

// Notify enqueues ev and returns immediately. A full queue drops the event.
func (d *Dispatcher) Notify(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("overlay event dropped: dispatcher closed", slog.String("type", string(ev.Type)))
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("overlay event dropped: queue full",
			slog.String("type", string(ev.Type)),
			slog.Int64("match_id", ev.Match.MatchID),
		)
	}
}

// Close stops accepting events and waits for queued ones until ctx expires,
// then abandons whatever is still in flight.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-d.done
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.queue {
		d.dispatch(ev)
	}
}

func (d *Dispatcher) dispatch(ev Event) {
	p := pool.New().WithMaxGoroutines(max(len(d.sinks), 1))
	for _, sink := range d.sinks {
		sink := sink
		p.Go(func() {
			d.deliver(sink, ev)
		})
	}
	p.Wait()
}

func (d *Dispatcher) newBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.cfg.InitialBackoff
	b.MaxInterval = d.cfg.MaxBackoff
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(d.cfg.MaxRetries)), d.ctx)
}

// deliver never returns an error: failures are logged and dropped.
func (d *Dispatcher) deliver(sink Sink, ev Event) {
	attempts := 0
	op := func() error {
		attempts++
		ctx, cancel := context.WithTimeout(d.ctx, d.cfg.AttemptTimeout)
		defer cancel()
		return sink.Deliver(ctx, ev)
	}
	notify := func(err error, wait time.Duration) {
		d.logger.Debug("overlay delivery retry",
			slog.String("sink", sink.Name()),
			slog.String("type", string(ev.Type)),
			slog.Duration("wait", wait),
			slog.Any("error", err),
		)
	}

	if err := backoff.RetryNotify(op, d.newBackoff(), notify); err != nil {
		d.logger.Warn("overlay delivery failed",
			slog.String("sink", sink.Name()),
			slog.String("type", string(ev.Type)),
			slog.Int64("match_id", ev.Match.MatchID),
			slog.Int("attempts", attempts),
			slog.Any("error", err),
		)
		return
	}
	d.logger.Debug("overlay event delivered",
		slog.String("sink", sink.Name()),
		slog.String("type", string(ev.Type)),
		slog.Int("attempts", attempts),
	)
}
