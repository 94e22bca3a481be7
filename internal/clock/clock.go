// Package clock drives the simulation from a single loop goroutine.
package clock

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event reports clock state changes to the owner.
type Event int

const (
	Started Event = iota
	Stopped
)

func (e Event) String() string {
	if e == Started {
		return "started"
	}
	return "stopped"
}

// Ticker is the subset of *time.Ticker the clock uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// RealTicker wraps time.NewTicker.
func RealTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// Clock owns the loop goroutine. Start, Stop and Defer must be called from
// that goroutine, or before Run. Post is safe from any goroutine.
type Clock struct {
	interval  time.Duration
	newTicker func(time.Duration) Ticker
	onTick    func(dt time.Duration)
	onEvent   func(Event)
	log       *zap.Logger

	ticker   Ticker
	deferred []func()
	posts    chan func()
	done     chan struct{}
}

type Option func(*Clock)

// WithTicker replaces the wall-clock ticker, for tests.
func WithTicker(fn func(time.Duration) Ticker) Option {
	return func(c *Clock) { c.newTicker = fn }
}

// WithEvents registers the start/stop listener.
func WithEvents(fn func(Event)) Option {
	return func(c *Clock) { c.onEvent = fn }
}

// New creates a stopped clock that calls onTick every interval once started.
func New(interval time.Duration, onTick func(dt time.Duration), log *zap.Logger, opts ...Option) *Clock {
	c := &Clock{
		interval:  interval,
		newTicker: RealTicker,
		onTick:    onTick,
		onEvent:   func(Event) {},
		log:       log,
		posts:     make(chan func(), 64),
		done:      make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Clock) Running() bool {
	return c.ticker != nil
}

// Start begins ticking. No-op when already running.
func (c *Clock) Start() {
	if c.ticker != nil {
		return
	}
	c.ticker = c.newTicker(c.interval)
	c.log.Debug("clock started", zap.Duration("interval", c.interval))
	c.onEvent(Started)
}

// Stop halts ticking. No-op when already stopped.
func (c *Clock) Stop() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
	c.log.Debug("clock stopped")
	c.onEvent(Stopped)
}

// Defer queues fn to run at the start of the next loop pass, after the
// current tick or task returns and before any further tick is handled.
func (c *Clock) Defer(fn func()) {
	c.deferred = append(c.deferred, fn)
}

// Post hands fn to the loop goroutine. Returns false once Run has exited.
func (c *Clock) Post(fn func()) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.posts <- fn:
		return true
	case <-c.done:
		return false
	}
}

// Run processes ticks, deferred tasks and posted closures until ctx is done.
func (c *Clock) Run(ctx context.Context) error {
	defer close(c.done)
	defer func() {
		if c.ticker != nil {
			c.ticker.Stop()
			c.ticker = nil
		}
	}()

	for {
		c.runDeferred()

		var tick <-chan time.Time
		if c.ticker != nil {
			tick = c.ticker.C()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-c.posts:
			fn()
		case <-tick:
			c.onTick(c.interval)
		}
	}
}

// runDeferred drains the queue, including tasks queued by deferred tasks.
func (c *Clock) runDeferred() {
	for len(c.deferred) > 0 {
		fn := c.deferred[0]
		c.deferred = c.deferred[1:]
		fn()
	}
}
