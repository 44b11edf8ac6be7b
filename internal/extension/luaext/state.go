package luaext

import (
	"context"
	"errors"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds each script call.
const DefaultTimeout = 500 * time.Millisecond

// Errors for script execution.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrTimeout is returned when a script call runs too long.
	ErrTimeout = errors.New("lua execution timeout")

	// ErrNoFunction is returned when calling an undefined global function.
	ErrNoFunction = errors.New("lua function not defined")
)

// State is a sandboxed Lua state. Only the base, table, string and math
// libraries are opened, and functions that load code from files or strings
// are removed. It is not safe for concurrent use; nested calls from Go
// functions invoked by the script are allowed.
type State struct {
	L       *lua.LState
	timeout time.Duration
	depth   int
	closed  bool
}

func newState(timeout time.Duration) *State {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	return &State{L: L, timeout: timeout}
}

// DoString runs a chunk of Lua code.
func (s *State) DoString(code string) error {
	return s.run(func() error { return s.L.DoString(code) })
}

// DoFile runs a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func() error { return s.L.DoFile(path) })
}

// HasFunction reports whether a global function is defined.
func (s *State) HasFunction(name string) bool {
	if s.closed {
		return false
	}
	return s.L.GetGlobal(name).Type() == lua.LTFunction
}

// Call calls a global function and returns its first result, or LNil.
func (s *State) Call(name string, args ...lua.LValue) (lua.LValue, error) {
	if s.closed {
		return lua.LNil, ErrStateClosed
	}
	fn := s.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, fmt.Errorf("%w: %s", ErrNoFunction, name)
	}

	ret := lua.LValue(lua.LNil)
	err := s.run(func() error {
		if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return ret, err
}

// run executes fn with the call timeout armed on the outermost call.
func (s *State) run(fn func() error) (err error) {
	if s.closed {
		return ErrStateClosed
	}
	if s.depth == 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		s.L.SetContext(ctx)
		defer func() {
			s.L.RemoveContext()
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %v", ErrTimeout, err)
			}
			cancel()
		}()
	}
	s.depth++
	defer func() { s.depth-- }()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the state.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}
