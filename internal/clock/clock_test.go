package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

// manualTicker only fires when the test pushes into ch.
type manualTicker struct {
	ch      chan time.Time
	stopped bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped = true }

func newManual() (*manualTicker, func(time.Duration) Ticker) {
	m := &manualTicker{ch: make(chan time.Time, 8)}
	return m, func(time.Duration) Ticker { return m }
}

func TestDeferredRunsBeforeNextTick(t *testing.T) {
	m, factory := newManual()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var c *Clock
	ticks := 0
	c = New(16*time.Millisecond, func(dt time.Duration) {
		ticks++
		if dt != 16*time.Millisecond {
			t.Errorf("dt = %s", dt)
		}
		c.Defer(c.Stop)
		c.Defer(cancel)
		if !c.Running() {
			t.Error("stopped inline")
		}
	}, zap.NewNop(), WithTicker(factory))

	c.Start()
	m.ch <- time.Now()
	m.ch <- time.Now() // must never be handled

	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("run = %v", err)
	}
	if ticks != 1 {
		t.Errorf("ticks = %d, want 1", ticks)
	}
	if !m.stopped || c.Running() {
		t.Error("ticker still running")
	}
}

func TestEventsFollowStartStop(t *testing.T) {
	_, factory := newManual()
	var events []Event
	c := New(time.Millisecond, func(time.Duration) {}, zap.NewNop(),
		WithTicker(factory), WithEvents(func(e Event) { events = append(events, e) }))

	c.Start()
	c.Start()
	c.Stop()
	c.Stop()
	c.Start()

	want := []Event{Started, Stopped, Started}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events = %v, want %v", events, want)
		}
	}
}

func TestPostRunsOnLoop(t *testing.T) {
	_, factory := newManual()
	ctx, cancel := context.WithCancel(context.Background())
	c := New(time.Millisecond, func(time.Duration) {}, zap.NewNop(), WithTicker(factory))

	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx) }()

	got := make(chan bool, 1)
	if !c.Post(func() {
		c.Start()
		got <- c.Running()
	}) {
		t.Fatal("post rejected")
	}
	if !<-got {
		t.Error("start from a posted closure did not take")
	}

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("run = %v", err)
	}
	if c.Post(func() {}) {
		t.Error("post accepted after run exited")
	}
}

func TestDeferredChain(t *testing.T) {
	_, factory := newManual()
	ctx, cancel := context.WithCancel(context.Background())
	c := New(time.Millisecond, func(time.Duration) {}, zap.NewNop(), WithTicker(factory))

	var order []int
	c.Defer(func() {
		order = append(order, 1)
		c.Defer(func() {
			order = append(order, 3)
			cancel()
		})
	})
	c.Defer(func() { order = append(order, 2) })

	_ = c.Run(ctx)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v", order)
	}
}
