// Package exec defines the budget that bounds a CPU run and the result it
// produces. Shared by the Z80, W65C02 and W65C816 steppers so a caller
// drives all three the same way.
package exec

// Plan bounds a run by a cycle count and/or an instruction count. A nil
// field means that dimension is unbounded. The check happens between
// instructions, never mid-instruction.
type Plan struct {
	MaxCycles       *uint64
	MaxInstructions *uint64
}

// Complete reports whether cycles/instructions executed so far satisfy
// either bound.
func (p Plan) Complete(cycles, instructions uint64) bool {
	if p.MaxCycles != nil && cycles >= *p.MaxCycles {
		return true
	}
	if p.MaxInstructions != nil && instructions >= *p.MaxInstructions {
		return true
	}
	return false
}

// Result is what Execute returns once a Plan completes.
type Result struct {
	TotalCycles       uint64
	TotalInstructions uint64
}
