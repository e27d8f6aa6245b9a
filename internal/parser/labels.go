package parser

import (
	"github.com/lazynput/lazynputdb/internal/devicesdb"
	"github.com/lazynput/lazynputdb/internal/lexer"
	"github.com/lazynput/lazynputdb/internal/strhash"
)

// parseLabelsBlock implements spec.md §4.4.3:
//
//	labels { (NAME [":" NAME] "{" label_entries "}")* }
func (p *Parser) parseLabelsBlock() bool {
	p.advance() // consume "labels"
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
		presetName, ok := p.expectName(false)
		if !ok {
			return false
		}
		presetHash := strhash.Sum(presetName)

		var parent strhash.Hash
		if p.cur.Kind == lexer.KindPunct && p.cur.Literal == ":" {
			p.advance()
			parentName, ok := p.expectName(false)
			if !ok {
				return false
			}
			parentHash := strhash.Sum(parentName)
			if _, ok := p.lookupPreset(parentHash); !ok {
				return p.errorf("labels preset %q extends unknown preset %q", presetName, parentName)
			}
			parent = parentHash
		}

		if !p.expectPunct('{', true) {
			return false
		}
		entries, err := p.parseLabelEntries()
		if err != nil {
			return false
		}
		if !p.expectPunct('}', true) {
			return false
		}

		if _, already := p.scratch.Labels[presetHash]; already {
			return p.errorf("labels preset %q redeclared in this parse stream", presetName)
		}
		p.scratch.Labels[presetHash] = &devicesdb.LabelsPreset{Parent: parent, Entries: entries}
	}
}

// parseLabelEntries reads the body of a labels preset or a device's
// inline "labels = ... { ... }" block (spec.md §4.4.3/§4.4.4, which share
// these rules): lines of the form
//
//	iface.input "literal" RRGGBB
//	iface.input "$varname fallback" RRGGBB
//	iface.input nil
//
// with color optional and at most one entry per fully-qualified input.
func (p *Parser) parseLabelEntries() (map[strhash.Hash]devicesdb.DbLabel, error) {
	entries := make(map[strhash.Hash]devicesdb.DbLabel)
	for {
		p.skipBlankNewlines()
		if p.failed {
			return nil, errFailed
		}
		if p.cur.Kind == lexer.KindPunct && p.cur.Literal == "}" {
			return entries, nil
		}
		fq, ifaceName, inputName, ok := p.parseQualifiedInputRef()
		if !ok {
			return nil, errFailed
		}
		if !p.validateInterfaceInputRef(ifaceName, inputName) {
			return nil, errFailed
		}
		if _, dup := entries[fq]; dup {
			p.errorf("duplicate label entry for %q.%q", ifaceName, inputName)
			return nil, errFailed
		}

		var label devicesdb.DbLabel
		if p.cur.Kind == lexer.KindName && p.cur.Hash == kwNil {
			p.advance()
			label = devicesdb.DbLabel{} // empty label: drop any inherited label
		} else {
			text, ok := p.expectString(false)
			if !ok {
				return nil, errFailed
			}
			label.Label = text
			if p.cur.Kind == lexer.KindName {
				hex := p.cur.Literal
				color, ok := parseHexColor(hex)
				if !ok {
					p.errorf("color %q is not six hex digits", hex)
					return nil, errFailed
				}
				label.HasColor = true
				label.Color = color
				p.advance()
			}
		}
		if !p.expectNewline() {
			return nil, errFailed
		}
		entries[fq] = label
	}
}

// parseQualifiedInputRef parses "iface.input" and returns its
// fully-qualified hash plus the two component names.
func (p *Parser) parseQualifiedInputRef() (fq strhash.Hash, ifaceName, inputName string, ok bool) {
	ifaceName, ok = p.expectName(false)
	if !ok {
		return
	}
	if !p.expectPunct('.', false) {
		ok = false
		return
	}
	inputName, ok = p.expectName(false)
	if !ok {
		return
	}
	fq = strhash.Qualify(ifaceName, inputName)
	return fq, ifaceName, inputName, true
}

// validateInterfaceInputRef checks that ifaceName exists (scratch or
// live) and that inputName belongs to it, per spec.md §4.4.3's reference
// rules (shared with device-local inline label entries).
func (p *Parser) validateInterfaceInputRef(ifaceName, inputName string) bool {
	iface, ok := p.lookupInterface(strhash.Sum(ifaceName))
	if !ok {
		return p.errorf("unknown interface %q", ifaceName)
	}
	if _, ok := iface[strhash.Sum(inputName)]; !ok {
		return p.errorf("interface %q has no input %q", ifaceName, inputName)
	}
	return true
}

// parseHexColor parses a 6-hex-digit string into a Color.
func parseHexColor(s string) (devicesdb.Color, bool) {
	if len(s) != 6 {
		return devicesdb.Color{}, false
	}
	var vals [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(s[i*2])
		lo, ok2 := hexDigit(s[i*2+1])
		if !ok1 || !ok2 {
			return devicesdb.Color{}, false
		}
		vals[i] = hi<<4 | lo
	}
	return devicesdb.Color{R: vals[0], G: vals[1], B: vals[2]}, true
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
