package parser

import (
	"strconv"

	"github.com/lazynput/lazynputdb/internal/devicesdb"
	"github.com/lazynput/lazynputdb/internal/lexer"
	"github.com/lazynput/lazynputdb/internal/strhash"
)

// parseDevicesBlock implements spec.md §4.4.4's outer form:
//
//	devices { (VID "." PID [":" PVID "." PPID] "{" device_body "}")* }
//
// VID/PID/PVID/PPID are four-hex-digit device ids. A parent reference
// pulls in that device's full interface set (transitively) so the body can
// resolve unqualified input names against inherited interfaces too, even
// though DeviceData.Interfaces only ever records this device's own list.
func (p *Parser) parseDevicesBlock() bool {
	p.advance() // consume "devices"
	if !p.expectPunct('{', true) {
		return false
	}
	for {
		p.skipBlankNewlines()
		if p.failed {
			return false
		}
		if p.cur.Kind == lexer.KindPunct && p.cur.Literal == "}" {
			p.advance()
			return true
		}
		vid, ok := p.expectHexWord()
		if !ok {
			return false
		}
		if !p.expectPunct('.', false) {
			return false
		}
		pid, ok := p.expectHexWord()
		if !ok {
			return false
		}
		ids := devicesdb.HidIds{VID: vid, PID: pid}
		if _, dup := p.scratch.Devices[ids]; dup {
			return p.errorf("multiple definition of the device %04x.%04x in the same stream", vid, pid)
		}

		device := devicesdb.NewDeviceData()
		device.Parent = devicesdb.Invalid
		var deviceInterfaces []strhash.Hash

		if p.cur.Kind == lexer.KindPunct && p.cur.Literal == ":" {
			p.advance()
			pvid, ok := p.expectHexWord()
			if !ok {
				return false
			}
			if !p.expectPunct('.', false) {
				return false
			}
			ppid, ok := p.expectHexWord()
			if !ok {
				return false
			}
			parentIds := devicesdb.HidIds{VID: pvid, PID: ppid}
			if _, ok := p.lookupDevice(parentIds); !ok {
				return p.errorf("unknown parent device %04x.%04x", pvid, ppid)
			}
			device.Parent = parentIds
			for cur := parentIds; cur.IsValid(); {
				pd, _ := p.lookupDevice(cur)
				for _, h := range pd.Interfaces {
					unionSorted(&deviceInterfaces, h)
				}
				cur = pd.Parent
			}
		}

		if !p.expectPunct('{', true) {
			return false
		}
		if !p.parseDeviceBody(device, &deviceInterfaces) {
			return false
		}
		p.scratch.Devices[ids] = device
	}
}

// expectHexWord consumes a Name token and parses it as a four-hex-digit
// (or fewer) word in [0, 0xFFFF].
func (p *Parser) expectHexWord() (uint16, bool) {
	if p.cur.Kind != lexer.KindName {
		return 0, p.unexpected()
	}
	lit := p.cur.Literal
	val, err := strconv.ParseUint(lit, 16, 16)
	if err != nil {
		p.errorf("invalid device id %q", lit)
		return 0, false
	}
	p.advance()
	return uint16(val), true
}

// parseDeviceBody reads the lines inside a device's "{ ... }", dispatching
// on the leading token. name=/interfaces=/labels= may appear in any order
// before the bindings section, each at most once; "default:", "TAG:", and
// "!TAG:" all open the bindings section, which — once entered — runs to
// the device's closing "}" (spec.md §4.4.4 and §4.4.5 are one continuous
// region from that point on; there is no returning to field declarations).
func (p *Parser) parseDeviceBody(device *devicesdb.DeviceData, deviceInterfaces *[]strhash.Hash) bool {
	var nameDefined, interfacesDefined, labelsDefined bool
	for {
		p.skipBlankNewlines()
		if p.failed {
			return false
		}
		switch {
		case p.cur.Kind == lexer.KindPunct && p.cur.Literal == "}":
			p.advance()
			return true
		case p.cur.Kind == lexer.KindPunct && p.cur.Literal == "!":
			p.advance()
			return p.enterBindingsNamed(device, *deviceInterfaces, false)
		case p.cur.Kind == lexer.KindName && p.cur.Hash == kwName:
			if nameDefined {
				return p.errorf("multiple name definition")
			}
			nameDefined = true
			p.advance()
			if !p.expectPunct('=', false) {
				return false
			}
			text, ok := p.expectString(false)
			if !ok {
				return false
			}
			device.Name = text
			if !p.expectNewline() {
				return false
			}
		case p.cur.Kind == lexer.KindName && p.cur.Hash == kwInterfaces:
			if interfacesDefined {
				return p.errorf("multiple interfaces definition")
			}
			interfacesDefined = true
			p.advance()
			if !p.expectPunct('=', false) {
				return false
			}
			if !p.parseDeviceInterfaces(device, deviceInterfaces) {
				return false
			}
		case p.cur.Kind == lexer.KindName && p.cur.Hash == kwLabels:
			if labelsDefined {
				return p.errorf("multiple labels definition")
			}
			labelsDefined = true
			p.advance()
			if !p.expectPunct('=', false) {
				return false
			}
			if !p.parseDeviceLabels(device) {
				return false
			}
		case p.cur.Kind == lexer.KindName && p.cur.Hash == kwDefault:
			p.advance()
			if !p.expectPunct(':', false) {
				return false
			}
			return p.enterBindingsDefault(device, *deviceInterfaces)
		case p.cur.Kind == lexer.KindName:
			return p.enterBindingsNamed(device, *deviceInterfaces, true)
		default:
			return p.unexpected()
		}
	}
}

// parseDeviceInterfaces reads "NAME ('+' '\n' NAME)*", validating each
// name against known interfaces, rejecting same-stream duplicates in the
// device's own list, and folding every name into deviceInterfaces (the
// working inherited+own set used to resolve unqualified input names).
func (p *Parser) parseDeviceInterfaces(device *devicesdb.DeviceData, deviceInterfaces *[]strhash.Hash) bool {
	for {
		name, ok := p.expectName(false)
		if !ok {
			return false
		}
		h := strhash.Sum(name)
		if _, ok := p.lookupInterface(h); !ok {
			return p.errorf("unknown interface %q", name)
		}
		if !insertSortedUnique(&device.Interfaces, h) {
			return p.errorf("multiple definition of the interface %q in the same stream", name)
		}
		unionSorted(deviceInterfaces, h)
		if p.cur.Kind == lexer.KindPunct && p.cur.Literal == "+" {
			p.advance()
			if !p.expectNewline() {
				return false
			}
			continue
		}
		break
	}
	return p.expectNewline()
}

// parseDeviceLabels reads "PRESET* ('+' '\n')? ('{' label_entries '}')?".
// Inline entries use the same qualified "iface.input" grammar as a labels
// preset (spec.md §4.4.3/§4.4.4 share label_entries). An empty "labels ="
// followed immediately by an inline block on the next line is accepted (a
// deliberately relaxed reading of an otherwise ambiguous case; see
// DESIGN.md).
func (p *Parser) parseDeviceLabels(device *devicesdb.DeviceData) bool {
	var any bool
	for p.cur.Kind == lexer.KindName {
		presetName := p.cur.Literal
		h := strhash.Sum(presetName)
		if containsHash(device.PresetLabels, h) {
			return p.errorf("labels preset %q used multiple times", presetName)
		}
		if _, ok := p.lookupPreset(h); !ok {
			return p.errorf("unknown labels preset %q", presetName)
		}
		device.PresetLabels = append(device.PresetLabels, h)
		any = true
		p.advance()
		if p.cur.Kind == lexer.KindPunct && p.cur.Literal == "+" {
			p.advance()
			if !p.expectNewline() {
				return false
			}
			continue
		}
		break
	}

	if p.cur.Kind == lexer.KindPunct && p.cur.Literal == "{" {
		p.advance()
		entries, err := p.parseLabelEntries()
		if err != nil {
			return false
		}
		if !p.expectPunct('}', true) {
			return false
		}
		device.OwnLabels = entries
		return p.expectNewline()
	}

	if !any {
		if p.cur.Kind != lexer.KindNewline && p.cur.Kind != lexer.KindEOF {
			return p.unexpected()
		}
		p.advance()
		if !(p.cur.Kind == lexer.KindPunct && p.cur.Literal == "{") {
			return p.errorf("no labels at the end of line")
		}
		p.advance()
		entries, err := p.parseLabelEntries()
		if err != nil {
			return false
		}
		if !p.expectPunct('}', true) {
			return false
		}
		device.OwnLabels = entries
		return p.expectNewline()
	}
	return p.expectNewline()
}

// enterBindingsDefault and enterBindingsNamed start the config-tag-gated
// bindings section (spec.md §4.4.4's "default:"/"TAG:"/"!TAG:" forms) and
// run it to completion; from here on the device's closing "}" is consumed
// inside the returned bindingsParser, not by the caller.
func (p *Parser) enterBindingsDefault(device *devicesdb.DeviceData, deviceInterfaces []strhash.Hash) bool {
	bp := &bindingsParser{
		p:                p,
		device:           device,
		deviceInterfaces: deviceInterfaces,
		tagsStack:        []*devicesdb.ConfigTagBindings{device.Bindings},
	}
	return bp.run()
}

func (p *Parser) enterBindingsNamed(device *devicesdb.DeviceData, deviceInterfaces []strhash.Hash, present bool) bool {
	name, ok := p.expectName(false)
	if !ok {
		return false
	}
	if !p.expectPunct(':', false) {
		return false
	}
	bp := &bindingsParser{
		p:                p,
		device:           device,
		deviceInterfaces: deviceInterfaces,
		tagsStack:        []*devicesdb.ConfigTagBindings{device.Bindings},
	}
	if !bp.newTag(strhash.Sum(name), present) {
		return false
	}
	return bp.run()
}

// bindingsParser drives the nested config-tag/binding grammar inside one
// device's bindings section. tagsStack holds the chain from the device's
// root down to the scope currently receiving bindings; stackPos tracks how
// many levels of "{"-nesting are currently open (distinct from the stack's
// length, since a freshly declared tag is pushed before any "{" that may
// follow it).
type bindingsParser struct {
	p                *Parser
	device           *devicesdb.DeviceData
	deviceInterfaces []strhash.Hash
	tagsStack        []*devicesdb.ConfigTagBindings
	stackPos         int
}

// newTag declares a nested tag edge (present or absent) under the scope at
// stackPos, truncating any sibling left over from a previous nested tag at
// this position, and pushes the new scope onto the stack.
func (bp *bindingsParser) newTag(h strhash.Hash, present bool) bool {
	bp.tagsStack = bp.tagsStack[:bp.stackPos+1]
	node := bp.tagsStack[bp.stackPos]
	edge, ok := node.Nested[h]
	if !ok {
		edge = &devicesdb.ConfigTagEdge{}
		node.Nested[h] = edge
	}
	if (edge.Present != nil && present) || (edge.Absent != nil && !present) {
		return bp.p.errorf("config tag already defined")
	}
	child := devicesdb.NewConfigTagBindings()
	if present {
		edge.Present = child
	} else {
		edge.Absent = child
	}
	bp.tagsStack = append(bp.tagsStack, child)
	return true
}

// run is the TAG_OR_INPUT loop: newlines are ignored, "{" descends into
// the most recently declared nested tag, "}" ascends (or, at the
// outermost scope, closes the device itself), "!"/bare names open further
// nested tags, and any other name is an input reference.
func (bp *bindingsParser) run() bool {
	p := bp.p
	for {
		if p.failed {
			return false
		}
		switch {
		case p.cur.Kind == lexer.KindNewline:
			p.advance()
		case p.cur.Kind == lexer.KindPunct && p.cur.Literal == "{":
			p.advance()
			if bp.stackPos >= len(bp.tagsStack)-1 {
				return p.errorf("no config tag to nest")
			}
			bp.stackPos++
		case p.cur.Kind == lexer.KindPunct && p.cur.Literal == "}":
			p.advance()
			if bp.stackPos > 0 {
				bp.stackPos--
			} else {
				return true
			}
		case p.cur.Kind == lexer.KindPunct && p.cur.Literal == "!":
			p.advance()
			name, ok := p.expectName(false)
			if !ok {
				return false
			}
			if !p.expectPunct(':', false) {
				return false
			}
			if !bp.newTag(strhash.Sum(name), false) {
				return false
			}
		case p.cur.Kind == lexer.KindName:
			if !bp.parseNameOrBinding() {
				return false
			}
		default:
			return p.unexpected()
		}
	}
}

// parseNameOrBinding handles a bare Name token inside a bindings scope:
// it is either the start of a further nested "TAG:", a
// dot-qualified "iface.input", or an unqualified input name, each
// possibly followed by a "+"/"-" half selector before the "=".
func (bp *bindingsParser) parseNameOrBinding() bool {
	p := bp.p
	name := p.cur.Literal
	hash := p.cur.Hash
	p.advance()
	switch {
	case p.cur.Kind == lexer.KindPunct && p.cur.Literal == ":":
		p.advance()
		return bp.newTag(hash, true)
	case p.cur.Kind == lexer.KindPunct && p.cur.Literal == ".":
		p.advance()
		if !containsHash(bp.deviceInterfaces, hash) {
			return p.errorf("device does not implement or inherit interface %q", name)
		}
		iface, ok := p.lookupInterface(hash)
		if !ok {
			return p.errorf("unknown interface %q", name)
		}
		inputName, ok := p.expectName(false)
		if !ok {
			return false
		}
		typ, has := iface[strhash.Sum(inputName)]
		if !has {
			return p.errorf("interface %q has no input %q", name, inputName)
		}
		return bp.parseSignAndAssign(strhash.Qualify(name, inputName), typ)
	case p.cur.Kind == lexer.KindPunct && (p.cur.Literal == "=" || p.cur.Literal == "+" || p.cur.Literal == "-"):
		fq, typ, ok := bp.resolveUnqualified(hash, name)
		if !ok {
			return false
		}
		return bp.parseSignAndAssign(fq, typ)
	default:
		return p.unexpected()
	}
}

// parseSignAndAssign reads an optional "+"/"-" half selector followed by
// "=" and the binding expression itself, per spec.md §4.4.4: a plain "="
// targets both halves (FULL), while "+ =" / "- =" target one half of a
// signed interface input explicitly.
func (bp *bindingsParser) parseSignAndAssign(fq strhash.Hash, typ devicesdb.InterfaceInputType) bool {
	p := bp.p
	sel := axisFull
	if p.cur.Kind == lexer.KindPunct && (p.cur.Literal == "+" || p.cur.Literal == "-") {
		if p.cur.Literal == "-" {
			sel = axisNegativeOnly
		} else {
			sel = axisPositiveOnly
		}
		p.advance()
	}
	if !p.expectPunct('=', false) {
		return false
	}
	return bp.parseAssignment(fq, typ, sel)
}

// resolveUnqualified finds the single interface (among deviceInterfaces,
// own and inherited) that declares an input named hash, per spec.md
// §4.4.4/§4.4.5's unqualified-reference rule.
func (bp *bindingsParser) resolveUnqualified(hash strhash.Hash, name string) (strhash.Hash, devicesdb.InterfaceInputType, bool) {
	p := bp.p
	var found bool
	var fq strhash.Hash
	var typ devicesdb.InterfaceInputType
	for _, ifaceHash := range bp.deviceInterfaces {
		iface, ok := p.lookupInterface(ifaceHash)
		if !ok {
			continue
		}
		t, has := iface[hash]
		if !has {
			continue
		}
		if found {
			return 0, 0, p.errorf("input %q belongs to several interfaces", name)
		}
		found = true
		typ = t
		fq = strhash.Compose(ifaceHash, '.', name)
	}
	if !found {
		return 0, 0, p.errorf("input %q does not belong to any implemented interface", name)
	}
	return fq, typ, true
}

// axisSelector is which half(s) of a signed input a binding line targets.
type axisSelector int

const (
	axisFull axisSelector = iota
	axisPositiveOnly
	axisNegativeOnly
)

// parseAssignment reads the binding expression following "=" (already
// consumed by the caller) and installs the result into the active scope's
// FullBinding for fq, per spec.md §4.4.5's per-interface-type
// decomposition rules.
func (bp *bindingsParser) parseAssignment(fq strhash.Hash, typ devicesdb.InterfaceInputType, sel axisSelector) bool {
	p := bp.p
	target := bp.tagsStack[len(bp.tagsStack)-1]
	existing := target.Bindings[fq]

	wantsPositive := sel == axisFull || sel == axisPositiveOnly
	wantsNegative := sel == axisFull || sel == axisNegativeOnly
	if (wantsPositive && !existing.Positive.Empty()) || (wantsNegative && !existing.Negative.Empty()) {
		return p.errorf("input defined multiple times for the same config tag")
	}

	switch typ {
	case devicesdb.InputButton:
		if sel != axisFull {
			return p.errorf("cannot bind to half a button")
		}
		half, isNil, ok := p.parseHalfExpr()
		if !ok {
			return false
		}
		if hasHalfAtom(half) {
			return p.errorf("cannot bind a button to half an axis")
		}
		if isNil {
			existing.Positive = nil
		} else {
			existing.Positive = half
		}
	case devicesdb.InputAbsoluteAxis, devicesdb.InputRelativeAxis:
		half, isNil, ok := p.parseHalfExpr()
		if !ok {
			return false
		}
		switch sel {
		case axisPositiveOnly:
			if !isNil {
				existing.Positive = half
			}
		case axisNegativeOnly:
			if !isNil {
				existing.Negative = half
			}
		case axisFull:
			if isNil {
				existing.Positive = nil
				existing.Negative = nil
			} else {
				for _, clause := range half {
					for j := range clause {
						clause[j].Half = true
					}
				}
				existing.Positive = half
				existing.Negative = mirrorHalf(half)
			}
		}
	default:
		return p.errorf("input has no bindable type")
	}

	target.Bindings[fq] = existing
	if !p.expectNewline() {
		return false
	}
	return true
}

func hasHalfAtom(h devicesdb.HalfBinding) bool {
	for _, clause := range h {
		for _, a := range clause {
			if a.Half {
				return true
			}
		}
	}
	return false
}

func containsHash(s []strhash.Hash, h strhash.Hash) bool {
	for _, v := range s {
		if v == h {
			return true
		}
	}
	return false
}

// insertSortedUnique inserts h into the sorted slice *s, returning false
// without modifying *s if h is already present.
func insertSortedUnique(s *[]strhash.Hash, h strhash.Hash) bool {
	i := 0
	for i < len(*s) && (*s)[i] < h {
		i++
	}
	if i < len(*s) && (*s)[i] == h {
		return false
	}
	*s = append(*s, 0)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = h
	return true
}

// unionSorted inserts h into the sorted slice *s if absent; unlike
// insertSortedUnique it is not an error for h to already be present
// (deviceInterfaces is a union across the whole parent chain).
func unionSorted(s *[]strhash.Hash, h strhash.Hash) {
	insertSortedUnique(s, h)
}
