// Package types implements the scalar value, column and schema model:
// the tagged union of runtime values, the fixed-width column descriptors,
// and the byte-level row encoding that pkg/catalog stores rows in.
package types

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind tags a Value's active variant.
type Kind int

const (
	Int Kind = iota
	Float
	Text
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Text:
		return "VARCHAR"
	default:
		return "UNKNOWN"
	}
}

// Value is the tagged union over the three scalar variants the engine
// understands. Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	I    int64
	F    float64
	S    string
}

func NewInt(i int64) Value   { return Value{Kind: Int, I: i} }
func NewFloat(f float64) Value { return Value{Kind: Float, F: f} }
func NewText(s string) Value { return Value{Kind: Text, S: s} }

// String renders a value the way SELECT prints a cell.
func (v Value) String() string {
	switch v.Kind {
	case Int:
		return fmt.Sprintf("%d", v.I)
	case Float:
		return fmt.Sprintf("%g", v.F)
	case Text:
		return v.S
	default:
		return ""
	}
}

// Equal reports value equality for same-kind values; mixed-kind comparisons
// are always false (the executor never lets that happen — comparisons are
// type-checked against the column before Equal/Less are reached).
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case Int:
		return v.I == other.I
	case Float:
		return v.F == other.F
	case Text:
		return v.S == other.S
	default:
		return false
	}
}

// Less reports v < other for ordered comparisons (<, <=, >, >=).
func (v Value) Less(other Value) bool {
	switch v.Kind {
	case Int:
		return v.I < other.I
	case Float:
		return v.F < other.F
	case Text:
		return v.S < other.S
	default:
		return false
	}
}

// encodeInto writes v into slot according to typ, zero-padding the rest of
// a Varchar slot. slot must be exactly typ.Width bytes.
func encodeInto(slot []byte, v Value, typ ColumnType) error {
	switch typ.Kind {
	case Int:
		if v.Kind != Int {
			return fmt.Errorf("cannot encode %s into INT column", v.Kind)
		}
		binary.LittleEndian.PutUint64(slot, uint64(v.I))
		return nil
	case Float:
		if v.Kind != Float {
			return fmt.Errorf("cannot encode %s into FLOAT column", v.Kind)
		}
		binary.LittleEndian.PutUint64(slot, uint64FromFloat(v.F))
		return nil
	case Text:
		if v.Kind != Text {
			return fmt.Errorf("cannot encode %s into VARCHAR column", v.Kind)
		}
		n := typ.Width
		for i := range slot {
			slot[i] = 0
		}
		b := []byte(v.S)
		if len(b) > n-1 {
			return fmt.Errorf("string %q too long for varchar(%d)", v.S, n)
		}
		copy(slot, b)
		return nil
	default:
		return fmt.Errorf("unknown column kind %v", typ.Kind)
	}
}

// decodeFrom reads a Value out of slot according to typ.
func decodeFrom(slot []byte, typ ColumnType) Value {
	switch typ.Kind {
	case Int:
		return NewInt(int64(binary.LittleEndian.Uint64(slot)))
	case Float:
		return NewFloat(floatFromUint64(binary.LittleEndian.Uint64(slot)))
	case Text:
		i := 0
		for i < len(slot) && slot[i] != 0 {
			i++
		}
		return NewText(string(slot[:i]))
	default:
		return Value{}
	}
}

func uint64FromFloat(f float64) uint64 { return math.Float64bits(f) }

func floatFromUint64(u uint64) float64 { return math.Float64frombits(u) }
