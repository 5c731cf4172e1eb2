// Package trace defines the post-execution observability sink shared by all
// three CPU cores. The default sink is a null reporter; a retaining
// reporter (used by tests) keeps the last event. Reporters receive the
// event through a zero-argument closure so building the formatted strings
// is elided whenever nothing is retaining them.
package trace

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// Event is emitted once per completed instruction.
type Event struct {
	PBR         byte // program bank register; 0 on CPUs without banking
	PC          uint16
	Instruction string
	Operands    string
}

// Reporter receives Exec events. Implementations must not mutate CPU state.
type Reporter interface {
	Report(event func() Event)
}

// NullReporter discards every event without calling the closure, so no
// Event is ever built for it; that is the point of passing a closure rather
// than a value.
type NullReporter struct{}

// Report discards the event; the closure is never invoked.
func (NullReporter) Report(event func() Event) {}

// Retain keeps the most recently reported event. Used by tests to assert on
// the mnemonic and operand text a handler produced.
type Retain struct {
	Last *Event
}

// Report stores event() as the last seen event.
func (r *Retain) Report(event func() Event) {
	e := event()
	r.Last = &e
}

// Dump writes every event to w as a field-by-field spew dump rather than the
// terse Instruction/Operands text, useful when chasing a decode bug where
// the formatted mnemonic hides which struct field actually went wrong.
type Dump struct {
	W io.Writer
}

// Report spews the event to d.W.
func (d Dump) Report(event func() Event) {
	e := event()
	fmt.Fprintf(d.W, "pc=%04x pbr=%02x\n%s", e.PC, e.PBR, spew.Sdump(e))
}
