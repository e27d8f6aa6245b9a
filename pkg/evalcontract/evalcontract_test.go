package evalcontract

import (
	"testing"

	"github.com/lazynput/lazynputdb/internal/devicesdb"
)

type fakeSampler struct {
	buttons []float64
	abs     []float64
	rel     []float64
	hats    [][2]int
}

func (f fakeSampler) ButtonPressed(i int) float64 { return f.buttons[i] }
func (f fakeSampler) AbsAxis(i int) float64       { return f.abs[i] }
func (f fakeSampler) RelAxis(i int) float64       { return f.rel[i] }
func (f fakeSampler) Hat(i int) (int, int)        { return f.hats[i][0], f.hats[i][1] }

func TestEvaluateButton(t *testing.T) {
	b := devicesdb.FullBinding{
		Positive: devicesdb.HalfBinding{{{Type: devicesdb.DeviceInputButton, Index: 0}}},
	}
	s := fakeSampler{buttons: []float64{1}}
	if got := Evaluate(b, s); got != 1 {
		t.Fatalf("Evaluate(button pressed) = %v, want 1", got)
	}
}

func TestEvaluateSignedAxisFull(t *testing.T) {
	b := devicesdb.FullBinding{
		Positive: devicesdb.HalfBinding{{{Type: devicesdb.DeviceInputAbsoluteAxis, Index: 0, Half: true}}},
		Negative: devicesdb.HalfBinding{{{Type: devicesdb.DeviceInputAbsoluteAxis, Index: 0, Invert: true, Half: true}}},
	}
	s := fakeSampler{abs: []float64{1}} // axis fully pushed positive
	if got := Evaluate(b, s); got != 1 {
		t.Fatalf("Evaluate(axis=+1) = %v, want 1 (positive half only)", got)
	}
	s = fakeSampler{abs: []float64{-1}}
	if got := Evaluate(b, s); got != -1 {
		t.Fatalf("Evaluate(axis=-1) = %v, want -1 (negative half only)", got)
	}
}

func TestEvaluateOrOfAnd(t *testing.T) {
	b := devicesdb.FullBinding{
		Positive: devicesdb.HalfBinding{
			{{Type: devicesdb.DeviceInputButton, Index: 0}, {Type: devicesdb.DeviceInputButton, Index: 1}},
			{{Type: devicesdb.DeviceInputButton, Index: 2}},
		},
	}
	// AND clause needs both 0 and 1; OR clause (button 2 alone) is satisfied.
	s := fakeSampler{buttons: []float64{1, 0, 1}}
	if got := Evaluate(b, s); got != 1 {
		t.Fatalf("Evaluate(OR-of-AND) = %v, want 1 via the satisfied OR branch", got)
	}
}

func TestEvaluateEmptyHalfIsZero(t *testing.T) {
	if got := Evaluate(devicesdb.FullBinding{}, fakeSampler{}); got != 0 {
		t.Fatalf("Evaluate(empty) = %v, want 0", got)
	}
}

func TestEvaluateHatAxis(t *testing.T) {
	b := devicesdb.FullBinding{
		Positive: devicesdb.HalfBinding{{{Type: devicesdb.DeviceInputHat, Index: 1}}}, // odd = y
	}
	s := fakeSampler{hats: [][2]int{{0, -1}}}
	if got := Evaluate(b, s); got != 0 {
		t.Fatalf("Evaluate(hat y=-1, no invert, not half) = %v, want 0 (clamped)", got)
	}
}
