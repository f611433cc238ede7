package interrupts

/**
 * Separate package exists mainly in order to avoid cyclic imports
 * between the cpu dispatch loop and the console.
 */

import (
	"errors"
	"fmt"

	"mmusim/mmu"
)

// Trap is raised (as a panic value) by a CPU when the instruction it
// executes cannot complete. The dispatch loop recovers it and terminates
// the offending process.
type Trap struct {
	Vector uint16
	Msg    string
	Err    error
}

func (t Trap) Error() string {
	return fmt.Sprintf("trap %03o (%s): %s", t.Vector, VectorName(t.Vector), t.Msg)
}

func (t Trap) Unwrap() error { return t.Err }

/********************************
 * trap vectors:
 ********************************/

// IntSegFault - access to an unmapped or foreign virtual address
const IntSegFault = 004

// IntIllegal - malformed request, e.g. zero byte alloc or free in the
// middle of a region
const IntIllegal = 010

// IntNoMemory - allocation failed for lack of physical or virtual space
const IntNoMemory = 0250

var vectorNames = map[uint16]string{
	IntSegFault: "segmentation fault",
	IntIllegal:  "illegal request",
	IntNoMemory: "out of memory",
}

// VectorName returns a human-readable name of the vector.
func VectorName(v uint16) string {
	if s, ok := vectorNames[v]; ok {
		return s
	}
	return "unknown"
}

// FromError builds the trap matching a memory manager error.
func FromError(msg string, err error) Trap {
	t := Trap{Msg: fmt.Sprintf("%s: %v", msg, err), Err: err}
	switch {
	case errors.Is(err, mmu.ErrInsufficientMemory),
		errors.Is(err, mmu.ErrVirtualSpaceExhausted),
		errors.Is(err, mmu.ErrSegmentTableFull):
		t.Vector = IntNoMemory
	case errors.Is(err, mmu.ErrInvalidRequest):
		t.Vector = IntIllegal
	default:
		t.Vector = IntSegFault
	}
	return t
}
