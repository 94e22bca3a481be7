// Package audio plays short synthesized cues for score and game over.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/flappyball/core/internal/core/event"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(44100)

type Cue int

const (
	CueScore Cue = iota
	CueGameOver
)

type tone struct {
	freq     float64
	duration time.Duration
	volume   float64 // linear, 1 = unchanged
}

var tones = map[Cue][]tone{
	CueScore:    {{freq: 880, duration: 60 * time.Millisecond, volume: 0.5}},
	CueGameOver: {{freq: 330, duration: 150 * time.Millisecond, volume: 0.6}, {freq: 220, duration: 350 * time.Millisecond, volume: 0.6}},
}

// Streamer builds the cue's sample stream. Multi-note cues play in sequence.
func Streamer(c Cue) (beep.Streamer, error) {
	var parts []beep.Streamer
	for _, t := range tones[c] {
		sine, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, &effects.Volume{
			Streamer: beep.Take(sampleRate.N(t.duration), sine),
			Base:     2,
			Volume:   math.Log2(t.volume),
		})
	}
	return beep.Seq(parts...), nil
}

// Duration is the total length of a cue.
func Duration(c Cue) time.Duration {
	var d time.Duration
	for _, t := range tones[c] {
		d += t.duration
	}
	return d
}

// Player mixes cues into the speaker. Until Init succeeds Play is a no-op.
type Player struct {
	mu    sync.Mutex
	mixer *beep.Mixer
	sink  func(beep.Streamer)
	log   *zap.Logger
}

func NewPlayer(log *zap.Logger) *Player {
	return &Player{mixer: &beep.Mixer{}, log: log}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sink != nil {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.sink = func(s beep.Streamer) {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	}
	return nil
}

func (p *Player) Play(c Cue) {
	p.mu.Lock()
	sink := p.sink
	p.mu.Unlock()
	if sink == nil {
		return
	}
	s, err := Streamer(c)
	if err != nil {
		p.log.Warn("build cue", zap.Int("cue", int(c)), zap.Error(err))
		return
	}
	sink(s)
}

// Attach plays cues for bus events.
func (p *Player) Attach(bus *event.Bus) {
	event.Subscribe(bus, func(event.Scored) { p.Play(CueScore) })
	event.Subscribe(bus, func(event.GameOver) { p.Play(CueGameOver) })
}

// Close silences everything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sink == nil {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.sink = nil
}
