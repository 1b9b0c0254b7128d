package object

import (
	"fmt"
	"math"

	"github.com/s0cks/gel/internal/heap"
)

// Long is gel's fixnum, a 64-bit signed integer. Grounded on gel::Long
// (original_source/Sources/gel/pointer.h).
type Long struct {
	Value int64
}

var _ heap.Object = (*Long)(nil)

func (l *Long) ClassName() string                            { return "Long" }
func (l *Long) PayloadSize() uint32                           { return 8 }
func (l *Long) String() string                                { return fmt.Sprintf("%d", l.Value) }
func (l *Long) VisitPointers(func(*heap.Address) bool) bool { return true }

// Double is gel's inexact number. Grounded on gel::Double
// (original_source/Sources/gel/pointer.h).
type Double struct {
	Value float64
}

var _ heap.Object = (*Double)(nil)

func (d *Double) ClassName() string  { return "Double" }
func (d *Double) PayloadSize() uint32 { return 8 }
func (d *Double) String() string {
	if math.Trunc(d.Value) == d.Value && !math.IsInf(d.Value, 0) {
		return fmt.Sprintf("%.1f", d.Value)
	}
	return fmt.Sprintf("%g", d.Value)
}
func (d *Double) VisitPointers(func(*heap.Address) bool) bool { return true }

// AsFloat64 promotes either a Long or a Double to a float64, the numeric
// tower gel uses for mixed-type arithmetic (see instruction_vm.cc's add/sub
// instructions, which promote to Double whenever either operand is one).
func AsFloat64(obj heap.Object) (float64, bool) {
	switch v := obj.(type) {
	case *Long:
		return float64(v.Value), true
	case *Double:
		return v.Value, true
	default:
		return 0, false
	}
}

// IsNumber reports whether obj is a Long or a Double.
func IsNumber(obj heap.Object) bool {
	switch obj.(type) {
	case *Long, *Double:
		return true
	default:
		return false
	}
}
