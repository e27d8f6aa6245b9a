// Package resolver implements spec.md §4.5: given a device id and a set of
// active config tags, walk the device's parent chain root-to-leaf,
// overlay label presets and own labels, select config-tag-gated bindings,
// and materialize a final per-input mapping plus display labels.
//
// Grounded on the teacher's Loader.ResolveProfile in pkg/spec/loader.go:
// the same "resolve in a fixed order, derived fields last" shape, with
// override precedence profile > region > default there and
// child > parent, own-labels > presets here. The config-tag nested-edge
// walk has no teacher analogue; it follows original_source's
// Lazynput/Device.cpp tag-gating semantics instead.
package resolver

import (
	"fmt"
	"strings"

	"github.com/lazynput/lazynputdb/internal/devicesdb"
	"github.com/lazynput/lazynputdb/internal/logging"
	"github.com/lazynput/lazynputdb/internal/strhash"
)

// LabelInfos is the materialized display label for one resolved input
// (spec.md §4.5 step 3).
type LabelInfos struct {
	HasColor     bool
	Color        devicesdb.Color
	VariableName string
	Ascii        string
	UTF8         string
	HasLabel     bool
}

// InputInfos is one resolved interface input: its physical binding plus
// its materialized label.
type InputInfos struct {
	Bindings devicesdb.FullBinding
	Label    LabelInfos
}

// Device is the resolver's output view: a device name plus every
// non-pruned input, keyed by fully-qualified interface.input hash.
type Device struct {
	Name   string
	Inputs map[devicesdb.Hash]InputInfos
}

// Empty reports whether the view has no resolved inputs at all, the
// "falsy Device" spec.md §6 describes for a missing device id.
func (d *Device) Empty() bool {
	return len(d.Inputs) == 0
}

// Resolve implements spec.md §4.5 in full. A missing device id yields an
// empty, non-nil Device rather than an error, matching the query
// facade's "falsy sentinel, never an error" contract (§7).
func Resolve(db *devicesdb.DB, ids devicesdb.HidIds, tags []string) *Device {
	view := &Device{Inputs: make(map[devicesdb.Hash]InputInfos)}
	if !db.HasDevice(ids) {
		return view
	}

	activeTags := make(map[devicesdb.Hash]bool, len(tags))
	for _, t := range tags {
		activeTags[strhash.Sum(t)] = true
	}

	labels := make(map[devicesdb.Hash]devicesdb.DbLabel)
	bindings := make(map[devicesdb.Hash]devicesdb.FullBinding)

	for _, data := range parentChain(db, ids) {
		if data.Name != "" {
			view.Name = data.Name
		}
		for _, presetHash := range data.PresetLabels {
			applyPreset(db, presetHash, labels)
		}
		applyBindings(data.Bindings, activeTags, bindings)
		for h, lbl := range data.OwnLabels {
			labels[h] = lbl
		}
	}

	for h, fb := range bindings {
		if fb.IsNil() {
			continue
		}
		view.Inputs[h] = InputInfos{
			Bindings: fb,
			Label:    materializeLabel(labels[h], fb, db.Icons),
		}
	}
	return view
}

// parentChain returns ids' device plus every ancestor, root first. Parent
// links are only ever formed against an already-defined device (enforced
// by the parser), so this walk cannot cycle.
func parentChain(db *devicesdb.DB, ids devicesdb.HidIds) []*devicesdb.DeviceData {
	var chain []*devicesdb.DeviceData
	for cur := ids; cur.IsValid(); {
		data, ok := db.Devices[cur]
		if !ok {
			break
		}
		chain = append(chain, data)
		cur = data.Parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// applyPreset overlays a labels preset's parent (if any) then its own
// entries onto labels, later presets/entries overriding earlier ones.
func applyPreset(db *devicesdb.DB, hash devicesdb.Hash, labels map[devicesdb.Hash]devicesdb.DbLabel) {
	preset, ok := db.Labels[hash]
	if !ok {
		return
	}
	if preset.Parent != 0 {
		applyPreset(db, preset.Parent, labels)
	}
	for h, lbl := range preset.Entries {
		labels[h] = lbl
	}
}

// applyBindings installs a ConfigTagBindings node's immediate bindings,
// then recurses into every nested tag edge whose gate is satisfied by
// activeTags (spec.md §4.4.4/§4.5: TAG present, or !TAG absent).
func applyBindings(node *devicesdb.ConfigTagBindings, activeTags map[devicesdb.Hash]bool, out map[devicesdb.Hash]devicesdb.FullBinding) {
	if node == nil {
		return
	}
	for h, fb := range node.Bindings {
		out[h] = fb
	}
	for tagHash, edge := range node.Nested {
		if activeTags[tagHash] && edge.Present != nil {
			applyBindings(edge.Present, activeTags, out)
		}
		if !activeTags[tagHash] && edge.Absent != nil {
			applyBindings(edge.Absent, activeTags, out)
		}
	}
}

// materializeLabel implements spec.md §4.5 step 3: parse the dollar-name
// form if present, resolve its icon (following fallback chains), or
// else synthesize a generic label from the binding's first atom.
func materializeLabel(raw devicesdb.DbLabel, fb devicesdb.FullBinding, icons devicesdb.IconsDb) LabelInfos {
	li := LabelInfos{HasColor: raw.HasColor, Color: raw.Color}
	if raw.Label == "" {
		atom, isPositive, ok := firstAtom(fb)
		if ok {
			generic := genericLabel(atom, isPositive, fb)
			li.Ascii = generic
			li.UTF8 = generic
		}
		return li
	}

	li.HasLabel = true
	if !strings.HasPrefix(raw.Label, "$") {
		li.Ascii = raw.Label
		li.UTF8 = raw.Label
		return li
	}

	rest := raw.Label[1:]
	name, fallback := rest, ""
	if sp := strings.IndexByte(rest, ' '); sp >= 0 {
		name, fallback = rest[:sp], rest[sp+1:]
	}
	li.VariableName = name
	if fallback != "" {
		li.Ascii = fallback
	} else {
		li.Ascii = humanize(name)
	}
	if icon := resolveIcon(icons, name, make(map[devicesdb.Hash]bool)); icon != "" {
		li.UTF8 = icon
	} else {
		li.UTF8 = li.Ascii
	}
	return li
}

// humanize replaces underscores with spaces and lowercases every
// character but the first, per spec.md §9 Open Question 2's resolution
// against the original corpus's dollar-name label strings.
func humanize(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}

// resolveIcon follows an icon's "$othername" fallback chain to its glyph,
// returning "" (caller falls back to ascii) on a miss or a cycle.
func resolveIcon(icons devicesdb.IconsDb, name string, seen map[devicesdb.Hash]bool) string {
	h := strhash.Sum(name)
	if seen[h] {
		logging.Logger.WithField("icon", name).Warn("icon fallback cycle detected")
		return ""
	}
	seen[h] = true
	val, ok := icons[h]
	if !ok {
		return ""
	}
	if strings.HasPrefix(val, "$") {
		return resolveIcon(icons, val[1:], seen)
	}
	return val
}

func firstAtom(fb devicesdb.FullBinding) (devicesdb.SingleBinding, bool, bool) {
	if !fb.Positive.Empty() {
		return fb.Positive[0][0], true, true
	}
	if !fb.Negative.Empty() {
		return fb.Negative[0][0], false, true
	}
	return devicesdb.SingleBinding{}, false, false
}

// genericLabel synthesizes a fallback label ("B1", "~A2+", "H3", ...)
// from an input's first bound atom when no explicit label was given.
func genericLabel(atom devicesdb.SingleBinding, isPositive bool, fb devicesdb.FullBinding) string {
	var letter byte
	var idx int
	switch atom.Type {
	case devicesdb.DeviceInputButton:
		letter, idx = 'B', int(atom.Index)+1
	case devicesdb.DeviceInputHat:
		letter, idx = 'H', int(atom.Index)/2+1
	case devicesdb.DeviceInputAbsoluteAxis:
		letter, idx = 'A', int(atom.Index)+1
	case devicesdb.DeviceInputRelativeAxis:
		letter, idx = 'R', int(atom.Index)+1
	}
	s := fmt.Sprintf("%c%d", letter, idx)
	if atom.Invert {
		s = "~" + s
	}
	if atom.Half && !halvesMirror(fb) {
		if isPositive {
			s += "+"
		} else {
			s += "-"
		}
	}
	return s
}

// halvesMirror reports whether negative is exactly positive with every
// atom's invert flipped, i.e. the input was bound symmetrically in FULL
// mode rather than via independent "+"/"-" assignments.
func halvesMirror(fb devicesdb.FullBinding) bool {
	if len(fb.Positive) != len(fb.Negative) {
		return false
	}
	for i, clause := range fb.Positive {
		if len(clause) != len(fb.Negative[i]) {
			return false
		}
		for j, a := range clause {
			b := fb.Negative[i][j]
			if a.Type != b.Type || a.Index != b.Index || a.Invert == b.Invert {
				return false
			}
		}
	}
	return true
}
