package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flappyball/core/internal/body"
	"github.com/flappyball/core/internal/data"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM that picks obstacle spawn patterns.
// Single-goroutine access only (clock loop).
type Engine struct {
	vm       *lua.LState
	patterns *data.PatternTable
	log      *zap.Logger
}

// NewEngine creates a Lua engine and loads every script under
// scriptsDir/spawn. A missing directory is not an error: the pattern table's
// rotation is used instead.
func NewEngine(scriptsDir string, patterns *data.PatternTable, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, patterns: patterns, log: log}
	if err := e.loadDir(filepath.Join(scriptsDir, "spawn")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load spawn scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Sides asks the Lua pick_pattern function which pattern spawn event n uses.
// Any failure (no function, runtime error, unknown name) falls back to the
// table rotation.
func (e *Engine) Sides(n, score int) []body.Side {
	name, ok := e.pickPattern(n, score)
	if !ok {
		return e.patterns.Sides(n, score)
	}
	p := e.patterns.Get(name)
	if p == nil {
		e.log.Warn("lua picked unknown pattern", zap.String("pattern", name))
		return e.patterns.Sides(n, score)
	}
	return p.Sides
}

func (e *Engine) pickPattern(n, score int) (string, bool) {
	fn := e.vm.GetGlobal("pick_pattern")
	if fn == lua.LNil {
		return "", false
	}

	ctx := e.vm.NewTable()
	ctx.RawSetString("spawn", lua.LNumber(n))
	ctx.RawSetString("score", lua.LNumber(score))
	names := e.vm.NewTable()
	for _, name := range e.patterns.Names() {
		names.Append(lua.LString(name))
	}
	ctx.RawSetString("patterns", names)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, ctx); err != nil {
		e.log.Error("lua pick_pattern error", zap.Error(err))
		return "", false
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	s, ok := ret.(lua.LString)
	if !ok {
		return "", false
	}
	return string(s), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
