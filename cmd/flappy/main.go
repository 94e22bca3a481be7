package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/flappyball/core/internal/audio"
	"github.com/flappyball/core/internal/config"
	"github.com/flappyball/core/internal/data"
	"github.com/flappyball/core/internal/game"
	"github.com/flappyball/core/internal/persist"
	"github.com/flappyball/core/internal/scripting"
	"github.com/flappyball/core/internal/spectate"
	"github.com/flappyball/core/internal/system"
	"github.com/flappyball/core/internal/tui"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(codeName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              flappy  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mplayer:\033[0m %s\n\n", codeName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printSkip(msg string) {
	fmt.Printf("  \033[90m- %s\033[0m\n", msg)
}

// ── Main game logic ───────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/flappy.toml"
	explicit := false
	if p := os.Getenv("FLAPPY_CONFIG"); p != "" {
		cfgPath = p
		explicit = true
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		cfg, err = config.Defaults(), nil
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger; the terminal belongs to the game, logs go to a file
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Game.CodeName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Spawn patterns
	printSection("data")
	patternTable, err := data.LoadPatternTable(cfg.Data.Patterns)
	if err != nil {
		return fmt.Errorf("load patterns: %w", err)
	}
	printStat("obstacle patterns", patternTable.Count())

	var patterns system.PatternSource = patternTable
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, patternTable, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		patterns = engine
		printOK("lua pattern picker loaded")
	} else {
		printSkip("lua scripting disabled")
	}
	fmt.Println()

	// 4. Score store
	printSection("records")
	var recorder game.ScoreRecorder
	best := 0
	if cfg.Database.Enabled {
		db, err := persist.Open(ctx, cfg.Database, log.Named("db"))
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		players := persist.NewPlayerRepo(db)
		row, err := players.Claim(ctx, cfg.Game.CodeName, cfg.Game.Passphrase)
		if err != nil {
			return fmt.Errorf("claim %s: %w", cfg.Game.CodeName, err)
		}
		best = row.Record
		recorder = players
		printOK("PostgreSQL connected, migrations applied")
		printStat("best score", best)
	} else {
		printSkip("database disabled, scores are not kept")
	}
	fmt.Println()

	// 5. Terminal
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	fini := sync.OnceFunc(screen.Fini)
	defer fini()
	screen.HideCursor()

	cols, rows := screen.Size()
	view := tui.NewScreen(screen, cfg.Game.CodeName)
	view.SetBest(best)

	session := game.New(cfg, tui.ViewportFor(cols, rows), game.Options{
		CodeName:  cfg.Game.CodeName,
		Patterns:  patterns,
		Recorder:  recorder,
		Renderers: []game.Renderer{view},
	}, log)

	// 6. Optional outputs
	if cfg.Audio.Enabled {
		player := audio.NewPlayer(log.Named("audio"))
		if err := player.Init(); err != nil {
			log.Warn("audio unavailable", zap.Error(err))
		} else {
			defer player.Close()
			player.Attach(session.Bus())
		}
	}
	if cfg.Spectate.Enabled {
		hub := spectate.NewHub(log.Named("spectate"))
		session.AddRenderer(hub)
		go func() {
			if err := hub.Serve(ctx, cfg.Spectate.BindAddress); err != nil {
				log.Error("spectator feed stopped", zap.Error(err))
			}
		}()
	}

	// 7. Play
	ctx, quit := context.WithCancel(ctx)
	defer quit()
	input := tui.NewInput(screen, session, cfg.Game.FlyHold, quit, log.Named("input"))
	go input.Run(ctx)

	log.Info("session started", zap.String("code_name", cfg.Game.CodeName))
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fini()
	final := session.Snapshot()
	fmt.Printf("  score %d\n", final.Score)
	log.Info("session ended", zap.Int("score", final.Score), zap.Bool("game_over", final.GameOver))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}
