// Package game owns one play session and the clock that drives it.
package game

import (
	"context"
	"time"

	"github.com/flappyball/core/internal/body"
	"github.com/flappyball/core/internal/clock"
	"github.com/flappyball/core/internal/config"
	"github.com/flappyball/core/internal/core/event"
	coresys "github.com/flappyball/core/internal/core/system"
	"github.com/flappyball/core/internal/system"
	"github.com/flappyball/core/internal/world"
	"go.uber.org/zap"
)

// Renderer draws a snapshot. Called on the loop goroutine.
type Renderer = system.Renderer

// ScoreRecorder persists a finished session's score.
type ScoreRecorder interface {
	RecordScore(ctx context.Context, codeName string, score int) error
}

type Options struct {
	CodeName  string
	Patterns  system.PatternSource
	Recorder  ScoreRecorder // optional
	Renderers []Renderer
	Clock     []clock.Option
}

// Session is confined to the clock's loop goroutine. Other goroutines reach
// it through Post.
type Session struct {
	cfg      config.GameConfig
	tuning   config.WorldConfig
	codeName string
	recorder ScoreRecorder
	log      *zap.Logger

	snap    *world.Snapshot
	bus     *event.Bus
	clock   *clock.Clock
	runner  *coresys.Runner
	sim     *system.Simulation
	render  *system.RenderSystem
	monitor *system.CollisionMonitor
}

// New builds a paused session for viewport vp. Nothing ticks until the
// first Fly or PauseOrResume.
func New(cfg *config.Config, vp body.Viewport, opts Options, log *zap.Logger) *Session {
	s := &Session{
		cfg:      cfg.Game,
		tuning:   cfg.World,
		codeName: opts.CodeName,
		recorder: opts.Recorder,
		log:      log,
		bus:      event.NewBus(),
		runner:   coresys.NewRunner(),
	}
	if s.codeName == "" {
		s.codeName = cfg.Game.CodeName
	}

	clockOpts := append([]clock.Option{clock.WithEvents(s.onClockEvent)}, opts.Clock...)
	s.clock = clock.New(cfg.Game.TickRate, s.onTick, log.Named("clock"), clockOpts...)

	current := s.Snapshot
	s.sim = &system.Simulation{
		Obstacles: system.NewObstacleManager(opts.Patterns, s.bus, log.Named("obstacles")),
	}
	s.render = system.NewRenderSystem(current, opts.Renderers...)
	s.runner.Register(system.NewEventDispatchSystem(s.bus))
	s.runner.Register(system.NewStepSystem(s.sim, current))
	s.runner.Register(s.render)

	event.Subscribe(s.bus, s.onScored)
	event.Subscribe(s.bus, s.onGameOver)

	s.newWorld(s.withNavbar(vp))
	return s
}

// withNavbar applies the configured navbar when the caller reserved none.
func (s *Session) withNavbar(vp body.Viewport) body.Viewport {
	if vp.Navbar == 0 {
		vp.Navbar = s.tuning.NavbarHeight
	}
	return vp
}

// newWorld starts over on a fresh space with a fresh collision monitor.
func (s *Session) newWorld(vp body.Viewport) {
	space := world.NewSpace(s.tuning)
	s.snap = world.Initialize(space, vp, s.tuning, body.Coords{})
	s.monitor = system.NewCollisionMonitor(s.Snapshot, s.clock, s.bus, s.log.Named("collision"))
	s.monitor.Register(space)
	s.log.Info("world initialized",
		zap.Float64("width", vp.Width),
		zap.Float64("height", vp.Height),
		zap.String("orientation", vp.Orientation()))
}

func (s *Session) Snapshot() *world.Snapshot { return s.snap }
func (s *Session) Bus() *event.Bus           { return s.bus }
func (s *Session) Clock() *clock.Clock       { return s.clock }
func (s *Session) CodeName() string          { return s.codeName }

// AddRenderer attaches a renderer after construction.
func (s *Session) AddRenderer(r Renderer) {
	s.render.Add(r)
}

// Run drives the session until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	s.runner.TickPhase(coresys.PhaseOutput, 0)
	return s.clock.Run(ctx)
}

// Post runs fn on the loop goroutine.
func (s *Session) Post(fn func()) bool {
	return s.clock.Post(fn)
}

// onTick is the clock callback. A collision in the previous tick leaves the
// snapshot paused before the deferred stop lands; nothing advances then.
func (s *Session) onTick(dt time.Duration) {
	if s.snap.Paused || s.snap.GameOver {
		return
	}
	s.runner.Tick(dt)
}

// present runs the dispatch and output phases without stepping the world.
func (s *Session) present() {
	s.runner.TickPhase(coresys.PhaseDispatch, 0)
	s.runner.TickPhase(coresys.PhaseOutput, 0)
}

func (s *Session) onClockEvent(e clock.Event) {
	switch e {
	case clock.Started:
		s.snap.Paused = false
	case clock.Stopped:
		s.snap.Paused = true
		// nothing will tick for a while: deliver what this tick emitted
		s.present()
	}
	s.log.Debug("clock event", zap.Stringer("event", e), zap.Bool("paused", s.snap.Paused))
}

func (s *Session) onScored(e event.Scored) {
	s.log.Debug("scored", zap.Int("score", e.Score), zap.Int("gap", e.Gap))
}

func (s *Session) onGameOver(e event.GameOver) {
	s.log.Info("game over", zap.String("code_name", s.codeName), zap.Int("score", e.Score))
	if s.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.recorder.RecordScore(ctx, s.codeName, e.Score); err != nil {
		s.log.Error("record score failed", zap.Error(err))
	}
}
