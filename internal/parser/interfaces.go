package parser

import (
	"errors"

	"github.com/lazynput/lazynputdb/internal/devicesdb"
	"github.com/lazynput/lazynputdb/internal/lexer"
	"github.com/lazynput/lazynputdb/internal/strhash"
)

// errFailed is a sentinel returned by sub-parsers that have already
// reported their diagnostic to the sink; callers only need to know that
// parsing must stop, not the message itself.
var errFailed = errors.New("parse failed")

// parseInterfacesBlock implements spec.md §4.4.1:
//
//	interfaces { (NAME { (("btn"|"abs"|"rel") ":" NAME+ "\n")* } )* }
func (p *Parser) parseInterfacesBlock() bool {
	p.advance() // consume "interfaces"
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
		ifaceName, ok := p.expectName(false)
		if !ok {
			return false
		}
		ifaceHash := strhash.Sum(ifaceName)
		if !p.expectPunct('{', true) {
			return false
		}
		iface, err := p.parseInterfaceEntries(ifaceName)
		if err != nil {
			return false
		}
		if !p.expectPunct('}', true) {
			return false
		}
		if !p.installInterface(ifaceHash, ifaceName, iface) {
			return false
		}
	}
}

// parseInterfaceEntries reads the "btn"/"abs"/"rel" lines until the
// closing '}', recording each input's fully-qualified name in
// NameOfHash as it goes.
func (p *Parser) parseInterfaceEntries(ifaceName string) (devicesdb.Interface, error) {
	iface := make(devicesdb.Interface)
	for {
		p.skipBlankNewlines()
		if p.failed {
			return nil, errFailed
		}
		if p.cur.Kind == lexer.KindPunct && p.cur.Literal == "}" {
			return iface, nil
		}
		if p.cur.Kind != lexer.KindName {
			p.unexpected()
			return nil, errFailed
		}
		var typ devicesdb.InterfaceInputType
		switch p.cur.Hash {
		case kwBtn:
			typ = devicesdb.InputButton
		case kwAbs:
			typ = devicesdb.InputAbsoluteAxis
		case kwRel:
			typ = devicesdb.InputRelativeAxis
		default:
			p.unexpected()
			return nil, errFailed
		}
		p.advance()
		if !p.expectPunct(':', false) {
			return nil, errFailed
		}
		any := false
		for p.cur.Kind == lexer.KindName {
			inputName := p.cur.Literal
			inputHash := strhash.Sum(inputName)
			if _, dup := iface[inputHash]; dup {
				p.errorf("duplicate input %q in interface %q", inputName, ifaceName)
				return nil, errFailed
			}
			iface[inputHash] = typ
			p.scratch.NameOfHash[strhash.Qualify(ifaceName, inputName)] = ifaceName + "." + inputName
			any = true
			p.advance()
		}
		if !any {
			p.unexpected()
			return nil, errFailed
		}
		if !p.expectNewline() {
			return nil, errFailed
		}
	}
}

// installInterface adds iface under ifaceHash, enforcing spec.md §4.4.1's
// redeclaration rule: a redeclaration in the live DB must list the exact
// same entries with the exact same types, and redeclaring within the
// same parse stream (already in scratch) is always an error.
func (p *Parser) installInterface(ifaceHash strhash.Hash, ifaceName string, iface devicesdb.Interface) bool {
	if _, already := p.scratch.Interfaces[ifaceHash]; already {
		return p.errorf("interface %q redeclared in this parse stream", ifaceName)
	}
	if existing, ok := p.live.Interfaces[ifaceHash]; ok {
		if !sameInterface(existing, iface) {
			return p.errorf("interface %q redeclared with different entries", ifaceName)
		}
	}
	p.scratch.Interfaces[ifaceHash] = iface
	return true
}

func sameInterface(a, b devicesdb.Interface) bool {
	if len(a) != len(b) {
		return false
	}
	for h, t := range a {
		bt, ok := b[h]
		if !ok || bt != t {
			return false
		}
	}
	return true
}

