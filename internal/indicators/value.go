package indicators

import "math"

// Value is one optional cell of an indicator series. Positions before an
// indicator's lookback window is filled are undefined; undefined values
// propagate through derived indicators and are never silently zeroed.
type Value struct {
	F     float64
	Valid bool
}

// Def wraps a defined value. Non-finite inputs collapse to undefined so that
// float edge cases cannot leak into a feature row.
func Def(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{F: f, Valid: true}
}

// Undef returns the undefined value.
func Undef() Value { return Value{} }

// Defined reports whether all given values are defined.
func Defined(vs ...Value) bool {
	for _, v := range vs {
		if !v.Valid {
			return false
		}
	}
	return true
}

// ratio divides a by b, undefined when b is zero.
func ratio(a, b float64) Value {
	if b == 0 {
		return Undef()
	}
	return Def(a / b)
}

// sign returns -1, 0 or 1 for the sign of d.
func sign(d float64) float64 {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}
