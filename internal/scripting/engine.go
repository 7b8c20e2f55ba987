package scripting

import (
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/diceroller/internal/dice"
)

// Engine evaluates Lua scripts that build dice distributions. Each evaluation
// runs in a fresh sandboxed VM, so Engine is safe for concurrent use.
type Engine struct {
	instLimit int
	src       dice.Source
	logger    *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: instLimit >= 0 (0 uses DefaultInstructionLimit); src and logger must be non-nil.
func NewEngine(instLimit int, src dice.Source, logger *zap.Logger) *Engine {
	return &Engine{instLimit: instLimit, src: src, logger: logger}
}

// Eval runs chunk and returns the distribution it returns. A script may return
// a distribution value or a dice expression string.
//
// Postcondition: Returns a non-nil Distribution, or an error that has been
// logged at warn level.
func (e *Engine) Eval(name, chunk string) (*dice.Distribution, error) {
	d, err := e.eval(name, func(L *lua.LState) (*lua.LFunction, error) {
		return L.Load(strings.NewReader(chunk), name)
	})
	if err != nil {
		e.logger.Warn("scripting: evaluation failed",
			zap.String("script", name),
			zap.Error(err),
		)
		return nil, err
	}
	return d, nil
}

// EvalFile reads the script at path and evaluates it like Eval.
//
// Precondition: path must be a readable file.
func (e *Engine) EvalFile(path string) (*dice.Distribution, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading %q: %w", path, err)
	}
	return e.Eval(path, string(src))
}

func (e *Engine) eval(name string, load func(*lua.LState) (*lua.LFunction, error)) (*dice.Distribution, error) {
	L, cancel := NewSandboxedState(e.instLimit)
	defer cancel()
	defer L.Close()
	RegisterModules(L, e.src, e.logger)

	fn, err := load(L)
	if err != nil {
		return nil, fmt.Errorf("scripting: loading %q: %w", name, err)
	}
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		return nil, fmt.Errorf("scripting: running %q: %w", name, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	switch v := ret.(type) {
	case *lua.LUserData:
		if d, ok := v.Value.(*dice.Distribution); ok {
			return d, nil
		}
	case lua.LString:
		return dice.Parse(string(v))
	}
	return nil, fmt.Errorf("scripting: %q must return a distribution, got %s", name, ret.Type())
}
