package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/flappyball/core/internal/body"
	"github.com/flappyball/core/internal/clock"
	"github.com/flappyball/core/internal/config"
	"github.com/flappyball/core/internal/core/event"
	"github.com/flappyball/core/internal/world"
	"go.uber.org/zap/zaptest"
)

type lowOnly struct{}

func (lowOnly) Sides(int, int) []body.Side { return []body.Side{body.Down} }

// handTicker delivers a tick only when the loop is ready to take it.
type handTicker struct{ ch chan time.Time }

func (h *handTicker) C() <-chan time.Time { return h.ch }
func (h *handTicker) Stop()               {}

type recorder struct {
	mu     sync.Mutex
	scores map[string][]int
	err    error
}

func (r *recorder) RecordScore(_ context.Context, name string, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scores == nil {
		r.scores = make(map[string][]int)
	}
	r.scores[name] = append(r.scores[name], score)
	return r.err
}

type countingRenderer struct{ frames int }

func (c *countingRenderer) Render(*world.Snapshot) { c.frames++ }

var landscape = body.Viewport{Width: 800, Height: 600}

func newSession(t *testing.T, vp body.Viewport, rec ScoreRecorder) (*Session, *handTicker) {
	t.Helper()
	cfg := config.Defaults()
	h := &handTicker{ch: make(chan time.Time)}
	s := New(cfg, vp, Options{
		CodeName: "ace",
		Patterns: lowOnly{},
		Recorder: rec,
		Clock:    []clock.Option{clock.WithTicker(func(time.Duration) clock.Ticker { return h })},
	}, zaptest.NewLogger(t))
	return s, h
}

// loop runs the session in the background for the rest of the test.
func loop(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errc; !errors.Is(err, context.Canceled) {
			t.Errorf("run = %v", err)
		}
	})
}

// on runs fn on the loop goroutine and waits for it.
func on(t *testing.T, s *Session, fn func()) {
	t.Helper()
	done := make(chan struct{})
	if !s.Post(func() { fn(); close(done) }) {
		t.Fatal("loop not running")
	}
	<-done
}

// tick reports whether the loop accepted a tick.
func tick(h *handTicker) bool {
	select {
	case h.ch <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func TestNewSessionStartsPaused(t *testing.T) {
	s, _ := newSession(t, landscape, nil)
	snap := s.Snapshot()
	if !snap.Paused || snap.GameOver {
		t.Errorf("paused=%v over=%v", snap.Paused, snap.GameOver)
	}
	if snap.Gravity != 0.1 {
		t.Errorf("gravity = %v", snap.Gravity)
	}
	if s.Clock().Running() {
		t.Error("clock running before first input")
	}
	if s.CodeName() != "ace" {
		t.Errorf("code name = %q", s.CodeName())
	}
}

func TestFlyResumesAndSetsGravity(t *testing.T) {
	tests := []struct {
		name      string
		vp        body.Viewport
		fly, fall float64
	}{
		{"landscape", landscape, -0.2, 0.2},
		{"portrait", body.Viewport{Width: 400, Height: 800}, -0.3, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSession(t, tt.vp, nil)
			s.Fly()
			if s.Snapshot().Paused || !s.Clock().Running() {
				t.Fatal("fly did not resume")
			}
			if g := s.Snapshot().Gravity; g != tt.fly {
				t.Errorf("fly gravity = %v", g)
			}
			s.Fall()
			if g := s.Snapshot().Gravity; g != tt.fall {
				t.Errorf("fall gravity = %v", g)
			}
		})
	}
}

func TestPauseOrResume(t *testing.T) {
	s, _ := newSession(t, landscape, nil)
	s.PauseOrResume()
	if s.Snapshot().Paused {
		t.Fatal("resume failed")
	}
	s.PauseOrResume()
	if !s.Snapshot().Paused || s.Clock().Running() {
		t.Fatal("pause failed")
	}
}

func TestPauseDeliversPendingEventsWithoutStepping(t *testing.T) {
	s, _ := newSession(t, landscape, nil)
	r := &countingRenderer{}
	s.AddRenderer(r)
	var scored []event.Scored
	event.Subscribe(s.Bus(), func(e event.Scored) { scored = append(scored, e) })

	s.PauseOrResume()
	before := s.Snapshot().Player.Position()
	event.Emit(s.Bus(), event.Scored{Score: 1, Gap: 0})
	s.PauseOrResume()

	if len(scored) != 1 {
		t.Errorf("scored events delivered = %d, want 1", len(scored))
	}
	if r.frames != 1 {
		t.Errorf("frames = %d, want 1", r.frames)
	}
	if s.Snapshot().Player.Position() != before || s.Snapshot().Obstacles.Len() != 0 {
		t.Error("pause stepped the world")
	}
}

func TestPausedTickDoesNothing(t *testing.T) {
	s, _ := newSession(t, landscape, nil)
	before := s.Snapshot().Player.Position()
	s.onTick(16 * time.Millisecond)
	if s.Snapshot().Obstacles.Len() != 0 {
		t.Error("paused tick spawned obstacles")
	}
	if s.Snapshot().Player.Position() != before {
		t.Error("paused tick moved the player")
	}
}

func TestTicksAdvanceWorld(t *testing.T) {
	s, h := newSession(t, landscape, nil)
	r := &countingRenderer{}
	s.AddRenderer(r)
	loop(t, s)

	on(t, s, s.PauseOrResume)
	for i := 0; i < 5; i++ {
		if !tick(h) {
			t.Fatalf("tick %d not taken", i)
		}
	}
	on(t, s, func() {
		snap := s.Snapshot()
		if snap.Obstacles.Len() != 1 {
			t.Errorf("obstacles = %d", snap.Obstacles.Len())
		}
		if y := snap.Player.Position().Y; y <= 100 {
			t.Errorf("player did not fall: y = %v", y)
		}
		// initial render plus one per tick
		if r.frames < 5 {
			t.Errorf("frames = %d", r.frames)
		}
	})
}

func TestCollisionStopsClockAndRecordsScore(t *testing.T) {
	rec := &recorder{}
	s, h := newSession(t, landscape, rec)
	loop(t, s)

	var y float64
	on(t, s, func() {
		snap := s.Snapshot()
		snap.Score = 7
		p := snap.Player.Position()
		snap.SpawnObstacle(body.At(p.X, p.Y), body.Down, 0)
		s.PauseOrResume()
	})

	if !tick(h) {
		t.Fatal("first tick not taken")
	}
	on(t, s, func() {
		snap := s.Snapshot()
		if !snap.GameOver || !snap.Paused {
			t.Fatalf("over=%v paused=%v", snap.GameOver, snap.Paused)
		}
		if s.Clock().Running() {
			t.Error("clock still running after the deferred stop")
		}
		y = snap.Player.Position().Y
	})
	if tick(h) {
		t.Fatal("tick delivered after game over")
	}

	// a tick arriving anyway must not advance physics
	on(t, s, func() {
		s.onTick(16 * time.Millisecond)
		if got := s.Snapshot().Player.Position().Y; got != y {
			t.Errorf("player moved after game over: %v → %v", y, got)
		}
		s.Fly()
		s.PauseOrResume()
		if s.Clock().Running() || !s.Snapshot().GameOver {
			t.Error("input revived a finished game")
		}
	})

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if got := rec.scores["ace"]; len(got) != 1 || got[0] != 7 {
		t.Errorf("recorded = %v", rec.scores)
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	s, _ := newSession(t, landscape, nil)
	s.Restart()
	first := s.Snapshot()
	if first.GameOver {
		t.Fatal("restart on a live game should be a no-op")
	}

	first.GameOver = true
	first.Score = 3
	s.Restart()
	next := s.Snapshot()
	if next == first || next.GameOver || next.Score != 0 || !next.Paused {
		t.Errorf("restart state: over=%v score=%d paused=%v", next.GameOver, next.Score, next.Paused)
	}
	if next.Space == first.Space {
		t.Error("restart reused the old space")
	}
}

func TestResizeRecreatesWorld(t *testing.T) {
	s, _ := newSession(t, landscape, nil)
	s.Fly()
	snap := s.Snapshot()
	snap.Score = 2
	snap.SpawnObstacle(body.Coords{}, body.Up, 0)
	old := snap.Obstacles
	_, o, _ := old.Front()

	portrait := body.Viewport{Width: 300, Height: 500}
	s.Resize(portrait)

	next := s.Snapshot()
	if s.Clock().Running() || !next.Paused {
		t.Error("resize left the clock running")
	}
	if next.Viewport != portrait || next.Score != 2 {
		t.Errorf("viewport=%+v score=%d", next.Viewport, next.Score)
	}
	if next.Obstacles.Len() != 0 {
		t.Errorf("obstacles carried over: %d", next.Obstacles.Len())
	}
	if next.Space.ContainsBody(o.Body) {
		t.Error("old obstacle body left in the space")
	}
	if got, want := next.Player.Size[0], 500*0.06; got-want > 1e-9 || want-got > 1e-9 {
		t.Errorf("player size = %v, want %v", got, want)
	}
	if g := next.Gravity; g != 0.1 {
		t.Errorf("landscape fly gravity carried over: %v", g)
	}
	s.Fly()
	if g := next.Gravity; g != -0.3 {
		t.Errorf("portrait fly gravity = %v", g)
	}
}
