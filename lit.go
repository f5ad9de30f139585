package main

type LitBool int

const (
	LitBoolTrue  LitBool = 0
	LitBoolFalse LitBool = 1
	LitBoolUndef LitBool = 2
)

//litVar returns the variable of a signed DIMACS literal (e.g not x3 -> -3 -> 3)
func litVar(lit int) int {
	if lit < 0 {
		return -lit
	}
	return lit
}

//litSign a boolean indicating whether lit is negated
func litSign(lit int) bool {
	return lit < 0
}

//litBool returns the binding lit asserts for its variable
func litBool(lit int) LitBool {
	if litSign(lit) {
		return LitBoolFalse
	}
	return LitBoolTrue
}

func (c *Checker) ValueVar(v int) LitBool {
	return c.Assigns[v-1]
}

func (c *Checker) ValueLit(lit int) LitBool {
	v := litVar(lit)
	if c.Assigns[v-1] == LitBoolUndef {
		return LitBoolUndef
	} else if c.Assigns[v-1] == LitBoolTrue {
		if !litSign(lit) {
			return LitBoolTrue
		}
	} else if c.Assigns[v-1] == LitBoolFalse {
		if litSign(lit) {
			return LitBoolTrue
		}
	}
	return LitBoolFalse
}
