package resolver

import (
	"strconv"
	"strings"
	"testing"

	"github.com/lazynput/lazynputdb/internal/devicesdb"
	"github.com/lazynput/lazynputdb/internal/fixtures"
	"github.com/lazynput/lazynputdb/internal/parser"
	"github.com/lazynput/lazynputdb/internal/strhash"
)

// TestFixtureScenarios runs every testdata/*.yaml scenario against the
// resolver, so real device definitions can be regression-tested without
// hand-writing a Go literal per case.
func TestFixtureScenarios(t *testing.T) {
	scenarios, err := fixtures.ParseDir("../../testdata")
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatal("no fixture scenarios found under testdata/")
	}

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			db := devicesdb.New()
			p := parser.New(strings.NewReader(scenario.Source), db, nil)
			if !p.Parse() {
				t.Fatalf("parsing scenario source failed:\n%s", scenario.Source)
			}

			for _, c := range scenario.Cases {
				vid, err := strconv.ParseUint(c.VID, 16, 16)
				if err != nil {
					t.Fatalf("case %s: bad vid %q: %v", c.Name, c.VID, err)
				}
				pid, err := strconv.ParseUint(c.PID, 16, 16)
				if err != nil {
					t.Fatalf("case %s: bad pid %q: %v", c.Name, c.PID, err)
				}
				ids := devicesdb.HidIds{VID: uint16(vid), PID: uint16(pid)}

				view := Resolve(db, ids, c.Tags)
				if c.DeviceName != "" && view.Name != c.DeviceName {
					t.Errorf("case %s: Name = %q, want %q", c.Name, view.Name, c.DeviceName)
				}
				for dotted, wantLabel := range c.Inputs {
					iface, input, _ := strings.Cut(dotted, ".")
					info, ok := view.Inputs[strhash.Qualify(iface, input)]
					if !ok {
						t.Errorf("case %s: %s did not resolve", c.Name, dotted)
						continue
					}
					if info.Label.Ascii != wantLabel {
						t.Errorf("case %s: %s label = %q, want %q", c.Name, dotted, info.Label.Ascii, wantLabel)
					}
				}
				for _, dotted := range c.Absent {
					iface, input, _ := strings.Cut(dotted, ".")
					if _, ok := view.Inputs[strhash.Qualify(iface, input)]; ok {
						t.Errorf("case %s: %s should not have resolved", c.Name, dotted)
					}
				}
			}
		})
	}
}
