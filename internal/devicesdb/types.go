// Package devicesdb defines the in-memory data model of spec.md §3: the
// root DB aggregate plus every value type the parser populates and the
// resolver reads. It has no behavior beyond small derived accessors,
// mirroring the teacher's pkg/newtron/spec/types.go plain-struct style.
package devicesdb

import "github.com/lazynput/lazynputdb/internal/strhash"

// Hash re-exports strhash.Hash so callers outside internal/strhash don't
// need a second import for the same identity type.
type Hash = strhash.Hash

// HidIds identifies a device by its USB HID vendor/product id pair.
type HidIds struct {
	VID uint16
	PID uint16
}

// Invalid is the sentinel HidIds meaning "no parent device".
var Invalid = HidIds{}

// IsValid reports whether ids is not the Invalid sentinel.
func (ids HidIds) IsValid() bool {
	return ids != Invalid
}

// InterfaceInputType classifies a logical interface input.
type InterfaceInputType int

const (
	InputNil InterfaceInputType = iota
	InputButton
	InputAbsoluteAxis
	InputRelativeAxis
)

func (t InterfaceInputType) String() string {
	switch t {
	case InputButton:
		return "btn"
	case InputAbsoluteAxis:
		return "abs"
	case InputRelativeAxis:
		return "rel"
	default:
		return "nil"
	}
}

// IsSigned reports whether t has a positive and negative half.
func (t InterfaceInputType) IsSigned() bool {
	return t == InputAbsoluteAxis || t == InputRelativeAxis
}

// DeviceInputType classifies a physical device input.
type DeviceInputType int

const (
	DeviceInputNil DeviceInputType = iota
	DeviceInputButton
	DeviceInputHat
	DeviceInputAbsoluteAxis
	DeviceInputRelativeAxis
)

// Interface maps an input's short-name hash to its type.
type Interface map[Hash]InterfaceInputType

// InterfacesDb maps an interface's short-name hash to its Interface.
type InterfacesDb map[Hash]Interface

// IconsDb maps an icon variable name hash to its UTF-8 glyph string.
type IconsDb map[Hash]string

// Color is an sRGB triple.
type Color struct {
	R, G, B uint8
}

// DbLabel is a raw, unresolved label entry as stored in the database.
// Label may be empty, a literal string, or "$name[ fallback]" which
// triggers icon substitution at resolution time.
type DbLabel struct {
	HasColor bool
	Color    Color
	Label    string
}

// LabelsPreset is a named, inheritable set of label overrides.
type LabelsPreset struct {
	Parent  Hash // zero value means "no parent"
	Entries map[Hash]DbLabel
}

// LabelsDb maps a preset name hash to its LabelsPreset.
type LabelsDb map[Hash]*LabelsPreset

// SingleBinding is one atom of a binding expression, fully resolved.
type SingleBinding struct {
	Type   DeviceInputType
	Index  uint8
	Invert bool
	Half   bool
}

// HalfBinding is an OR-of-ANDs expression tree: the outer slice is OR'd,
// each inner slice is AND'd.
type HalfBinding [][]SingleBinding

// Empty reports whether h has no clauses at all.
func (h HalfBinding) Empty() bool {
	return len(h) == 0
}

// FullBinding holds both halves of an interface input's binding. For
// button-typed inputs only Positive is populated.
type FullBinding struct {
	Positive HalfBinding
	Negative HalfBinding
}

// IsNil reports whether both halves are empty (spec.md invariant 6: these
// entries are pruned by the resolver before being handed to a client).
func (b FullBinding) IsNil() bool {
	return b.Positive.Empty() && b.Negative.Empty()
}

// ConfigTagEdge gates a nested ConfigTagBindings subtree on a single tag's
// presence or absence in the caller's active tag set. Both may be set
// (spec.md §4.4.4 allows TAG: and !TAG: to coexist at one level).
type ConfigTagEdge struct {
	Present *ConfigTagBindings
	Absent  *ConfigTagBindings
}

// ConfigTagBindings is the recursive binding tree described in spec.md §3:
// immediate bindings at this node plus nested subtrees gated on tags.
type ConfigTagBindings struct {
	Bindings map[Hash]FullBinding
	Nested   map[Hash]*ConfigTagEdge
}

// NewConfigTagBindings returns an empty, initialized node.
func NewConfigTagBindings() *ConfigTagBindings {
	return &ConfigTagBindings{
		Bindings: make(map[Hash]FullBinding),
		Nested:   make(map[Hash]*ConfigTagEdge),
	}
}

// DeviceData is one device's own-declared data (spec.md §3). Interfaces
// holds only this device's own declared implements list (not inherited
// ones — inheritance is resolved at query time by walking Parent).
type DeviceData struct {
	Parent       HidIds
	Name         string
	Interfaces   []Hash // sorted, own-declared only
	PresetLabels []Hash // later entries override earlier
	OwnLabels    map[Hash]DbLabel
	Bindings     *ConfigTagBindings // root node; its own Bindings are the device's defaults
}

// NewDeviceData returns a DeviceData with all containers initialized.
func NewDeviceData() *DeviceData {
	return &DeviceData{
		OwnLabels: make(map[Hash]DbLabel),
		Bindings:  NewConfigTagBindings(),
	}
}

// DB is the root aggregate: everything known about interfaces, icons,
// labels, and devices, whether freshly parsed (scratch) or live.
type DB struct {
	Interfaces InterfacesDb
	Icons      IconsDb
	NameOfHash map[Hash]string
	Labels     LabelsDb
	Devices    map[HidIds]*DeviceData
}

// New returns an empty, ready-to-use DB.
func New() *DB {
	return &DB{
		Interfaces: make(InterfacesDb),
		Icons:      make(IconsDb),
		NameOfHash: make(map[Hash]string),
		Labels:     make(LabelsDb),
		Devices:    make(map[HidIds]*DeviceData),
	}
}

// HasDevice reports whether ids is known, in this DB alone (no scratch
// overlay — callers merging scratch+live should check both explicitly).
func (db *DB) HasDevice(ids HidIds) bool {
	_, ok := db.Devices[ids]
	return ok
}

// HasInterface reports whether an interface with this name hash exists.
func (db *DB) HasInterface(h Hash) bool {
	_, ok := db.Interfaces[h]
	return ok
}
