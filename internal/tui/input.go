package tui

import (
	"context"
	"time"

	"github.com/flappyball/core/internal/body"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Controller is the session surface the keyboard drives. Every call except
// Post must happen on the loop goroutine.
type Controller interface {
	Post(fn func()) bool
	Fly()
	Fall()
	PauseOrResume()
	Restart()
	Resize(vp body.Viewport)
}

type Action int

const (
	ActionNone Action = iota
	ActionFly
	ActionPause
	ActionRestart
	ActionQuit
)

// ActionFor maps a key press to an action.
func ActionFor(key tcell.Key, r rune) Action {
	switch key {
	case tcell.KeyUp:
		return ActionFly
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		switch r {
		case ' ', 'k', 'w':
			return ActionFly
		case 'p':
			return ActionPause
		case 'r':
			return ActionRestart
		case 'q':
			return ActionQuit
		}
	}
	return ActionNone
}

// Input polls the terminal. Terminals report key presses but not releases,
// so a fly lasts flyHold after the last press and then turns into a fall.
type Input struct {
	screen  tcell.Screen
	ctl     Controller
	flyHold time.Duration
	quit    context.CancelFunc
	log     *zap.Logger

	fall *time.Timer
}

func NewInput(screen tcell.Screen, ctl Controller, flyHold time.Duration, quit context.CancelFunc, log *zap.Logger) *Input {
	return &Input{screen: screen, ctl: ctl, flyHold: flyHold, quit: quit, log: log}
}

// Run blocks until ctx is done or the user quits.
func (in *Input) Run(ctx context.Context) {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := in.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	defer func() {
		if in.fall != nil {
			in.fall.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			in.handle(ev)
		}
	}
}

func (in *Input) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		in.apply(ActionFor(ev.Key(), ev.Rune()))
	case *tcell.EventResize:
		cols, rows := ev.Size()
		vp := ViewportFor(cols, rows)
		in.log.Debug("terminal resized", zap.Int("cols", cols), zap.Int("rows", rows))
		in.screen.Sync()
		in.ctl.Post(func() { in.ctl.Resize(vp) })
	}
}

func (in *Input) apply(a Action) {
	switch a {
	case ActionFly:
		in.ctl.Post(in.ctl.Fly)
		in.holdFly()
	case ActionPause:
		in.ctl.Post(in.ctl.PauseOrResume)
	case ActionRestart:
		in.ctl.Post(in.ctl.Restart)
	case ActionQuit:
		in.quit()
	}
}

func (in *Input) holdFly() {
	if in.fall != nil {
		in.fall.Stop()
	}
	in.fall = time.AfterFunc(in.flyHold, func() {
		in.ctl.Post(in.ctl.Fall)
	})
}
