package parser

import (
	"strings"
	"testing"

	"github.com/lazynput/lazynputdb/internal/devicesdb"
	"github.com/lazynput/lazynputdb/internal/strhash"
)

// recordingSink collects every diagnostic line a parse reports, so tests
// can assert on failure without caring about the exact wording.
type recordingSink struct {
	lines []string
}

func (s *recordingSink) IllegalCharacter(line int, b byte) {
	s.lines = append(s.lines, "illegal character")
}
func (s *recordingSink) UnexpectedToken(line int, literal string) {
	s.lines = append(s.lines, "unexpected token "+literal)
}
func (s *recordingSink) Errorf(line int, format string, args ...any) {
	s.lines = append(s.lines, format)
}

func parseOK(t *testing.T, db *devicesdb.DB, src string) {
	t.Helper()
	sink := &recordingSink{}
	p := New(strings.NewReader(src), db, sink)
	if !p.Parse() {
		t.Fatalf("parse failed: %v\nsource:\n%s", sink.lines, src)
	}
}

func parseFails(t *testing.T, src string) *recordingSink {
	t.Helper()
	sink := &recordingSink{}
	p := New(strings.NewReader(src), devicesdb.New(), sink)
	if p.Parse() {
		t.Fatalf("expected parse failure for:\n%s", src)
	}
	return sink
}

func TestParseSimpleDevice(t *testing.T) {
	db := devicesdb.New()
	parseOK(t, db, `
interfaces { gp { btn: a
} }
devices { 044f.0001 { interfaces = gp
default: gp.a = b0
} }
`)
	ids := devicesdb.HidIds{VID: 0x044f, PID: 0x0001}
	if !db.HasDevice(ids) {
		t.Fatal("device not installed")
	}
	fb := db.Devices[ids].Bindings.Bindings[strhash.Qualify("gp", "a")]
	if fb.Positive[0][0].Type != devicesdb.DeviceInputButton {
		t.Fatalf("unexpected binding %+v", fb)
	}
}

func TestParseInheritedInterfaceBindingAllowed(t *testing.T) {
	// Regression test: a child device with no interfaces= of its own must
	// still be able to bind an inherited interface's input dot-qualified.
	db := devicesdb.New()
	parseOK(t, db, `
interfaces { gp { btn: a
} }
devices {
  044f.0010 { interfaces = gp
default: gp.a = b0
}
  044f.0011:044f.0010 { default: gp.a = b1
} }
`)
	child := devicesdb.HidIds{VID: 0x044f, PID: 0x0011}
	fb := db.Devices[child].Bindings.Bindings[strhash.Qualify("gp", "a")]
	if fb.Positive[0][0].Index != 1 {
		t.Fatalf("child override via dot-qualified inherited interface failed: %+v", fb)
	}
}

func TestParseConfigTagNesting(t *testing.T) {
	db := devicesdb.New()
	parseOK(t, db, `
interfaces { gp { btn: a b
} }
devices { 044f.0020 { interfaces = gp
default: gp.a = b0
xinput: {
gp.a = b1
sdl: {
gp.b = b2
}
}
} }
`)
	ids := devicesdb.HidIds{VID: 0x044f, PID: 0x0020}
	root := db.Devices[ids].Bindings
	xinputHash := strhash.Sum("xinput")
	edge, ok := root.Nested[xinputHash]
	if !ok || edge.Present == nil {
		t.Fatal("xinput present edge not installed")
	}
	if _, ok := edge.Present.Bindings[strhash.Qualify("gp", "a")]; !ok {
		t.Fatal("gp.a not bound under xinput")
	}
	sdlHash := strhash.Sum("sdl")
	sdlEdge, ok := edge.Present.Nested[sdlHash]
	if !ok || sdlEdge.Present == nil {
		t.Fatal("nested sdl present edge not installed under xinput")
	}
	if _, ok := sdlEdge.Present.Bindings[strhash.Qualify("gp", "b")]; !ok {
		t.Fatal("gp.b not bound under xinput { sdl }")
	}
}

func TestParseConfigTagAbsent(t *testing.T) {
	db := devicesdb.New()
	parseOK(t, db, `
interfaces { gp { btn: a
} }
devices { 044f.0021 { interfaces = gp
!sdl: {
gp.a = b3
}
} }
`)
	ids := devicesdb.HidIds{VID: 0x044f, PID: 0x0021}
	root := db.Devices[ids].Bindings
	edge, ok := root.Nested[strhash.Sum("sdl")]
	if !ok || edge.Absent == nil || edge.Present != nil {
		t.Fatalf("expected only an absent edge for sdl, got %+v", edge)
	}
}

func TestParseAxisFullMirrorsHalves(t *testing.T) {
	db := devicesdb.New()
	parseOK(t, db, `
interfaces { gp { abs: lsx
} }
devices { 044f.0030 { interfaces = gp
default: gp.lsx = a0
} }
`)
	ids := devicesdb.HidIds{VID: 0x044f, PID: 0x0030}
	fb := db.Devices[ids].Bindings.Bindings[strhash.Qualify("gp", "lsx")]
	pos, neg := fb.Positive[0][0], fb.Negative[0][0]
	if pos.Invert || !pos.Half {
		t.Fatalf("positive half = %+v", pos)
	}
	if !neg.Invert || !neg.Half {
		t.Fatalf("negative half = %+v", neg)
	}
}

func TestParseAxisIndependentHalves(t *testing.T) {
	db := devicesdb.New()
	parseOK(t, db, `
interfaces { gp { abs: lsx
} }
devices { 044f.0031 { interfaces = gp
default: gp.lsx+ = b0
gp.lsx- = b1
} }
`)
	ids := devicesdb.HidIds{VID: 0x044f, PID: 0x0031}
	fb := db.Devices[ids].Bindings.Bindings[strhash.Qualify("gp", "lsx")]
	if fb.Positive[0][0].Type != devicesdb.DeviceInputButton || fb.Positive[0][0].Index != 0 {
		t.Fatalf("positive half = %+v", fb.Positive)
	}
	if fb.Negative[0][0].Type != devicesdb.DeviceInputButton || fb.Negative[0][0].Index != 1 {
		t.Fatalf("negative half = %+v", fb.Negative)
	}
}

func TestParseHatAtom(t *testing.T) {
	db := devicesdb.New()
	parseOK(t, db, `
interfaces { gp { btn: up
} }
devices { 044f.0032 { interfaces = gp
default: gp.up = h0y
} }
`)
	ids := devicesdb.HidIds{VID: 0x044f, PID: 0x0032}
	fb := db.Devices[ids].Bindings.Bindings[strhash.Qualify("gp", "up")]
	atom := fb.Positive[0][0]
	if atom.Type != devicesdb.DeviceInputHat || atom.Index != 1 {
		t.Fatalf("h0y should decode to hat index 1 (y), got %+v", atom)
	}
}

func TestParseNilBinding(t *testing.T) {
	db := devicesdb.New()
	parseOK(t, db, `
interfaces { gp { btn: a
} }
devices { 044f.0033 { interfaces = gp
default: gp.a = nil
} }
`)
	ids := devicesdb.HidIds{VID: 0x044f, PID: 0x0033}
	fb := db.Devices[ids].Bindings.Bindings[strhash.Qualify("gp", "a")]
	if !fb.IsNil() {
		t.Fatalf("expected a nil binding, got %+v", fb)
	}
}

func TestParseDuplicateDeviceIsError(t *testing.T) {
	sink := parseFails(t, `
interfaces { gp { btn: a
} }
devices {
  044f.0040 { interfaces = gp
default: gp.a = b0
}
  044f.0040 { interfaces = gp
default: gp.a = b1
} }
`)
	if len(sink.lines) == 0 {
		t.Fatal("expected a diagnostic for the duplicate device")
	}
}

func TestParseAmbiguousUnqualifiedInputIsError(t *testing.T) {
	parseFails(t, `
interfaces { gp1 { btn: a
} }
interfaces { gp2 { btn: a
} }
devices { 044f.0041 { interfaces = gp1 +
gp2
default: a = b0
} }
`)
}

func TestParseOrphanUnqualifiedInputIsError(t *testing.T) {
	parseFails(t, `
interfaces { gp { btn: a
} }
devices { 044f.0042 { interfaces = gp
default: b = b0
} }
`)
}

func TestParseUnknownInterfaceReferenceIsError(t *testing.T) {
	parseFails(t, `
devices { 044f.0043 { interfaces = nosuchiface
} }
`)
}

func TestParseFailureLeavesLiveDBUntouched(t *testing.T) {
	db := devicesdb.New()
	sink := &recordingSink{}
	p := New(strings.NewReader(`devices { 044f.0044 { interfaces = nosuchiface
} }
`), db, sink)
	if p.Parse() {
		t.Fatal("expected parse to fail")
	}
	if db.HasDevice(devicesdb.HidIds{VID: 0x044f, PID: 0x0044}) {
		t.Fatal("a failed parse must leave the live DB untouched")
	}
}
