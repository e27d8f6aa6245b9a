package lazynputdb

import (
	"iter"

	"github.com/lazynput/lazynputdb/internal/devicesdb"
	"github.com/lazynput/lazynputdb/internal/resolver"
	"github.com/lazynput/lazynputdb/internal/strhash"
)

// InputInfos is one resolved interface input: its physical binding plus
// its materialized display label. Re-exported from internal/resolver so
// callers never need to import an internal package.
type InputInfos = resolver.InputInfos

// LabelInfos is a materialized display label, per spec.md §4.5 step 3.
type LabelInfos = resolver.LabelInfos

// Device is the query facade's per-device view: a name plus every
// resolved, non-pruned interface input. The zero value behaves as the
// spec's "falsy Device": no name, no inputs.
type Device struct {
	name   string
	inputs map[devicesdb.Hash]InputInfos
}

func newDevice(r *resolver.Device) *Device {
	return &Device{name: r.Name, inputs: r.Inputs}
}

// ref is either a devicesdb.Hash or a "interface.input" string; other
// types resolve to ok == false. The hash of a dotted name string equals
// strhash.Qualify(iface, input), since the rolling hash folds the same
// bytes in the same order either way.
func hashOf(ref any) (devicesdb.Hash, bool) {
	switch v := ref.(type) {
	case devicesdb.Hash:
		return v, true
	case string:
		return strhash.Sum(v), true
	default:
		return 0, false
	}
}

// Name returns the device's display name, possibly empty.
func (d *Device) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// SetName overrides the device's display name; used by wrapper
// implementations injecting a fallback mapping (spec.md §6).
func (d *Device) SetName(name string) {
	d.name = name
}

// HasInput reports whether ref (a Hash or an "iface.input" string)
// resolved to a non-pruned binding.
func (d *Device) HasInput(ref any) bool {
	if d == nil {
		return false
	}
	h, ok := hashOf(ref)
	if !ok {
		return false
	}
	_, has := d.inputs[h]
	return has
}

// InputInfos returns the resolved binding for ref, if any.
func (d *Device) InputInfos(ref any) (InputInfos, bool) {
	if d == nil {
		return InputInfos{}, false
	}
	h, ok := hashOf(ref)
	if !ok {
		return InputInfos{}, false
	}
	info, has := d.inputs[h]
	return info, has
}

// Label returns the materialized label for ref, if its input resolved.
func (d *Device) Label(ref any) (LabelInfos, bool) {
	info, ok := d.InputInfos(ref)
	if !ok {
		return LabelInfos{}, false
	}
	return info.Label, true
}

// SetInputInfos installs or overrides info for the fully-qualified input
// hash h; used by wrapper implementations to inject a fallback mapping
// when the database has nothing for a connected device (spec.md §6).
func (d *Device) SetInputInfos(h devicesdb.Hash, info InputInfos) {
	if d.inputs == nil {
		d.inputs = make(map[devicesdb.Hash]InputInfos)
	}
	d.inputs[h] = info
}

// All iterates every resolved (hash, InputInfos) pair. Iteration order is
// not meaningful to callers, per spec.md §4.5's determinism note.
func (d *Device) All() iter.Seq2[devicesdb.Hash, InputInfos] {
	return func(yield func(devicesdb.Hash, InputInfos) bool) {
		if d == nil {
			return
		}
		for h, info := range d.inputs {
			if !yield(h, info) {
				return
			}
		}
	}
}
