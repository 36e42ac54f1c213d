package spawn

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/framestep/framestep/internal/core/observability/log"
)

// ScriptCondition evaluates a Lua chunk to decide the spawn budget, letting
// designers tune wave logic without recompiling. The chunk must define
//
//	function evaluate(delta, elapsed, frame)
//	    return <budget>
//	end
//
// Single-goroutine access only, like the scheduler that owns it.
type ScriptCondition struct {
	vm     *lua.LState
	fn     lua.LValue
	logger log.Log
}

// NewScriptCondition compiles src and resolves its evaluate function. Script
// errors here are configuration errors and fail loudly.
func NewScriptCondition(src string, logger log.Log) (*ScriptCondition, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	if err := vm.DoString(src); err != nil {
		vm.Close()
		return nil, fmt.Errorf("spawn: load condition script: %w", err)
	}
	fn := vm.GetGlobal("evaluate")
	if fn.Type() != lua.LTFunction {
		vm.Close()
		return nil, fmt.Errorf("spawn: condition script defines no evaluate function")
	}
	return &ScriptCondition{vm: vm, fn: fn, logger: logger.Scope("spawn.script")}, nil
}

// Evaluate calls the script. A runtime script error grants no budget and is
// logged; a broken script should throttle spawning, not crash the frame.
func (c *ScriptCondition) Evaluate(t *Tick) int {
	err := c.vm.CallByParam(lua.P{Fn: c.fn, NRet: 1, Protect: true},
		lua.LNumber(t.Delta), lua.LNumber(t.Elapsed), lua.LNumber(t.Frame))
	if err != nil {
		c.logger.Warn("condition script failed", log.Error(err))
		return 0
	}
	ret := c.vm.Get(-1)
	c.vm.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		c.logger.Warn("condition script returned non-number",
			log.String("type", ret.Type().String()))
		return 0
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

// Close releases the Lua VM.
func (c *ScriptCondition) Close() {
	c.vm.Close()
}
