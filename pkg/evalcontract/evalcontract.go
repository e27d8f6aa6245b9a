// Package evalcontract specifies, but does not implement, the boundary
// between a resolved binding tree and a live input sampler (spec.md §4.6).
// Turning a compiled InputSampler's per-frame values into a single signal
// is the one piece of arithmetic the core does own; everything upstream
// of it (enumerating devices, reading raw hardware state) is out of
// scope, per spec.md §1's "evaluation of binding expressions against
// live input samples ... is specified only at contract level".
package evalcontract

import "github.com/lazynput/lazynputdb/internal/devicesdb"

// InputSampler is the capability set a host joystick library must expose
// for Evaluate to read one frame of physical input state. Modeled as an
// interface rather than a concrete wrapper type, matching spec.md §9's
// "model it as an interface (capability set), not a class hierarchy".
type InputSampler interface {
	ButtonPressed(index int) float64
	AbsAxis(index int) float64
	Hat(index int) (x, y int)
	RelAxis(index int) float64
}

// Evaluate computes half(positive) - half(negative) for a resolved
// binding, per spec.md §4.6. Hat atoms address their x or y half by
// parity of Index (even = x, odd = y), matching the encoding
// internal/parser/bindexpr.go uses when compiling "h<n>x"/"h<n>y" atoms.
func Evaluate(b devicesdb.FullBinding, s InputSampler) float64 {
	return half(b.Positive, s) - half(b.Negative, s)
}

// half implements "max over OR clauses of (min over AND atoms of
// atom_value)"; an empty half evaluates to 0.
func half(h devicesdb.HalfBinding, s InputSampler) float64 {
	if len(h) == 0 {
		return 0
	}
	max := clauseValue(h[0], s)
	for _, clause := range h[1:] {
		if v := clauseValue(clause, s); v > max {
			max = v
		}
	}
	if max < 0 {
		return 0
	}
	return max
}

// clauseValue computes "min over AND atoms of atom_value" for one clause.
func clauseValue(clause []devicesdb.SingleBinding, s InputSampler) float64 {
	min := atomValue(clause[0], s)
	for _, atom := range clause[1:] {
		if v := atomValue(atom, s); v < min {
			min = v
		}
	}
	return min
}

// atomValue reads one atom's raw signal, remaps it into [0,1] when the
// atom is half-mode, and applies invert, clamping the result to [0, +inf).
func atomValue(a devicesdb.SingleBinding, s InputSampler) float64 {
	var raw float64
	switch a.Type {
	case devicesdb.DeviceInputButton:
		raw = s.ButtonPressed(int(a.Index))
	case devicesdb.DeviceInputHat:
		x, y := s.Hat(int(a.Index) / 2)
		if a.Index%2 == 0 {
			raw = float64(x)
		} else {
			raw = float64(y)
		}
	case devicesdb.DeviceInputAbsoluteAxis:
		raw = s.AbsAxis(int(a.Index))
	case devicesdb.DeviceInputRelativeAxis:
		raw = s.RelAxis(int(a.Index))
	default:
		return 0
	}

	if a.Half {
		v := (raw + 1) / 2
		if a.Invert {
			v = 1 - v
		}
		if v < 0 {
			return 0
		}
		return v
	}

	if a.Invert {
		raw = -raw
	}
	if raw < 0 {
		return 0
	}
	return raw
}
