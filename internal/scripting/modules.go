package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/diceroller/internal/dice"
)

// distributionType names the metatable shared by all distribution userdata.
const distributionType = "dice.distribution"

// RegisterModules registers the dice and log Lua tables into L.
//
// Precondition: L must be from NewSandboxedState; src and logger must be non-nil.
// Postcondition: the dice and log globals are defined in L.
func RegisterModules(L *lua.LState, src dice.Source, logger *zap.Logger) {
	registerDice(L, src)
	registerLog(L, logger)
}

func registerDice(L *lua.LState, src dice.Source) {
	mt := L.NewTypeMetatable(distributionType)
	methods := map[string]lua.LGFunction{
		"add":            binary(dice.Add),
		"sub":            binary(dice.Subtract),
		"lt":             binary(dice.LessThan),
		"le":             binary(dice.LessOrEqual),
		"gt":             binary(dice.GreaterThan),
		"ge":             binary(dice.GreaterOrEqual),
		"space_size":     distSpaceSize,
		"expected_value": distExpectedValue,
		"normalized":     distNormalized,
		"weight":         distWeight,
		"events":         distEvents,
		"equals":         distEqual,
		"sample": func(L *lua.LState) int {
			d := checkDist(L, 1)
			charge(L, int64(d.Len()))
			v, err := d.Sample(src)
			if err != nil {
				L.RaiseError("%s", err.Error())
			}
			L.Push(lua.LNumber(v))
			return 1
		},
	}
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), methods))
	L.SetField(mt, "__add", L.NewFunction(binary(dice.Add)))
	L.SetField(mt, "__sub", L.NewFunction(binary(dice.Subtract)))
	L.SetField(mt, "__eq", L.NewFunction(distEqual))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		d := checkDist(L, 1)
		charge(L, int64(d.Len()))
		L.Push(lua.LString(d.String()))
		return 1
	}))

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"parse": func(L *lua.LState) int {
			pushDist(L, parseArg(L, 1, L.CheckString(1)))
			return 1
		},
		"fixed": func(L *lua.LState) int {
			pushDist(L, dice.Fixed(float64(L.CheckNumber(1))))
			return 1
		},
		"die": func(L *lua.LState) int {
			sides := L.CheckInt(1)
			if sides < 1 || sides > dice.MaxSides {
				L.ArgError(1, fmt.Sprintf("die sides must be in [1, %d]", dice.MaxSides))
			}
			charge(L, int64(sides))
			pushDist(L, dice.Die(sides))
			return 1
		},
		"table": diceTable,
	})
	L.SetGlobal("dice", mod)
}

func registerLog(L *lua.LState, logger *zap.Logger) {
	level := func(fn func(string, ...zap.Field)) lua.LGFunction {
		return func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}
	}
	L.SetGlobal("log", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"debug": level(logger.Debug),
		"info":  level(logger.Info),
		"warn":  level(logger.Warn),
		"error": level(logger.Error),
	}))
}

// charge spends n units of the script budget before Go-side work of that size,
// raising ErrInstructionLimit when the budget cannot cover it. States without
// a budget are not charged.
func charge(L *lua.LState, n int64) {
	cc, ok := L.Context().(*countingContext)
	if !ok {
		return
	}
	if !cc.charge(n) {
		L.RaiseError("%s", ErrInstructionLimit.Error())
	}
}

func pushDist(L *lua.LState, d *dice.Distribution) {
	ud := L.NewUserData()
	ud.Value = d
	L.SetMetatable(ud, L.GetTypeMetatable(distributionType))
	L.Push(ud)
}

func checkDist(L *lua.LState, n int) *dice.Distribution {
	ud := L.CheckUserData(n)
	d, ok := ud.Value.(*dice.Distribution)
	if !ok {
		L.ArgError(n, "distribution expected")
	}
	return d
}

// toDist coerces argument n into a distribution: numbers become fixed values
// and strings are parsed as dice expressions.
func toDist(L *lua.LState, n int) *dice.Distribution {
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		return dice.Fixed(float64(v))
	case lua.LString:
		return parseArg(L, n, string(v))
	default:
		return checkDist(L, n)
	}
}

func parseArg(L *lua.LState, n int, expr string) *dice.Distribution {
	terms, err := dice.ParseTerms(expr)
	if err != nil {
		L.ArgError(n, err.Error())
	}
	charge(L, dice.Work(terms))
	d, err := dice.Parse(expr)
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return d
}

func binary(op func(a, b *dice.Distribution) *dice.Distribution) lua.LGFunction {
	return func(L *lua.LState) int {
		a, b := toDist(L, 1), toDist(L, 2)
		charge(L, int64(a.Len())*int64(b.Len()))
		pushDist(L, op(a, b))
		return 1
	}
}

func distEqual(L *lua.LState) int {
	a, b := checkDist(L, 1), checkDist(L, 2)
	charge(L, int64(a.Len()))
	L.Push(lua.LBool(a.Equal(b)))
	return 1
}

func distSpaceSize(L *lua.LState) int {
	L.Push(lua.LNumber(checkDist(L, 1).SpaceSize()))
	return 1
}

func distExpectedValue(L *lua.LState) int {
	v, err := checkDist(L, 1).ExpectedValue()
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	L.Push(lua.LNumber(v))
	return 1
}

func distNormalized(L *lua.LState) int {
	d := checkDist(L, 1)
	target := L.OptNumber(2, 1)
	charge(L, int64(d.Len()))
	n, err := d.Normalized(float64(target))
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	pushDist(L, n)
	return 1
}

func distWeight(L *lua.LState) int {
	w, _ := checkDist(L, 1).Weight(float64(L.CheckNumber(2)))
	L.Push(lua.LNumber(w))
	return 1
}

// distEvents returns an array of {outcome=, weight=} tables in insertion order.
func distEvents(L *lua.LState) int {
	d := checkDist(L, 1)
	charge(L, int64(d.Len()))
	out := L.NewTable()
	for _, e := range d.Events() {
		row := L.NewTable()
		row.RawSetString("outcome", lua.LNumber(e.Outcome))
		row.RawSetString("weight", lua.LNumber(e.Weight))
		out.Append(row)
	}
	L.Push(out)
	return 1
}

// diceTable builds a distribution from an array of {outcome, weight} pairs.
func diceTable(L *lua.LState) int {
	tbl := L.CheckTable(1)
	charge(L, int64(tbl.Len()))
	d := dice.New()
	for i := 1; i <= tbl.Len(); i++ {
		row, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.ArgError(1, "each entry must be an {outcome, weight} pair")
		}
		o, ok1 := row.RawGetInt(1).(lua.LNumber)
		w, ok2 := row.RawGetInt(2).(lua.LNumber)
		if !ok1 || !ok2 {
			L.ArgError(1, "each entry must be an {outcome, weight} pair")
		}
		d.AddEvent(float64(o), float64(w))
	}
	pushDist(L, d)
	return 1
}
