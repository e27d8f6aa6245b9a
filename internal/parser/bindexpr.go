package parser

import (
	"strconv"

	"github.com/lazynput/lazynputdb/internal/devicesdb"
	"github.com/lazynput/lazynputdb/internal/lexer"
)

// parseHalfExpr implements spec.md §4.4.5: a binding expression is atoms
// combined with "|" (OR, outer) and "&" (AND, inner), tokenized with
// IsNextStuck semantics so that no whitespace is required around "|"/"&"
// but none is tolerated within a single atom. isNil reports that the
// expression was the bare "nil" atom, meaning the caller should empty
// rather than install the corresponding half(s); ok is false on any
// syntax or reference error (already reported).
func (p *Parser) parseHalfExpr() (half devicesdb.HalfBinding, isNil bool, ok bool) {
	var clauses [][]devicesdb.SingleBinding
	for {
		clause, ok := p.parseAtomClause()
		if !ok {
			return nil, false, false
		}
		clauses = append(clauses, clause)
		if p.cur.Kind == lexer.KindPunct && p.cur.Literal == "|" {
			stuck := p.lex.IsNextStuck()
			p.advance()
			if !stuck {
				return nil, false, p.errorf("binding expected after \"|\"")
			}
			continue
		}
		break
	}

	var nilCount, total int
	for _, c := range clauses {
		total += len(c)
		for _, a := range c {
			if a.Type == devicesdb.DeviceInputNil {
				nilCount++
			}
		}
	}
	if nilCount > 0 {
		if total > 1 {
			return nil, false, p.errorf("nil atom in complex binding expression")
		}
		return nil, true, true
	}
	return devicesdb.HalfBinding(clauses), false, true
}

// parseAtomClause reads one AND-clause: an atom, then as many "&"-joined
// atoms as follow. Whitespace is tolerated around "&"/"|" themselves, but
// the atom immediately following one must be stuck to it (spec.md §4.2's
// is_next_stuck contract, applied the same way the device-input "+"/"-"
// half suffix is).
func (p *Parser) parseAtomClause() ([]devicesdb.SingleBinding, bool) {
	var clause []devicesdb.SingleBinding
	for {
		atom, ok := p.parseBindingAtom()
		if !ok {
			return nil, false
		}
		clause = append(clause, atom)
		if p.cur.Kind == lexer.KindPunct && p.cur.Literal == "&" {
			stuck := p.lex.IsNextStuck()
			p.advance()
			if !stuck {
				return nil, p.errorf("binding expected after \"&\"")
			}
			continue
		}
		return clause, true
	}
}

// parseBindingAtom reads one atom: ["~"] ("b"INT | "h"INT("x"|"y") |
// "a"INT["+"|"-"] | "r"INT["+"|"-"] | "nil").
func (p *Parser) parseBindingAtom() (devicesdb.SingleBinding, bool) {
	invert := false
	if p.cur.Kind == lexer.KindPunct && p.cur.Literal == "~" {
		invert = true
		stuck := p.lex.IsNextStuck()
		p.advance()
		if !stuck {
			return devicesdb.SingleBinding{}, p.errorf("binding expected after \"~\"")
		}
	}
	if p.cur.Kind != lexer.KindName {
		return devicesdb.SingleBinding{}, p.unexpected()
	}
	lit := p.cur.Literal
	if lit == "nil" {
		p.advance()
		return devicesdb.SingleBinding{Type: devicesdb.DeviceInputNil}, true
	}
	if len(lit) < 2 {
		return devicesdb.SingleBinding{}, p.errorf("malformed binding atom %q", lit)
	}

	var typ devicesdb.DeviceInputType
	rest := lit[1:]
	switch lit[0] {
	case 'b':
		typ = devicesdb.DeviceInputButton
	case 'a':
		typ = devicesdb.DeviceInputAbsoluteAxis
	case 'r':
		typ = devicesdb.DeviceInputRelativeAxis
	case 'h':
		typ = devicesdb.DeviceInputHat
	default:
		return devicesdb.SingleBinding{}, p.errorf("unknown binding atom %q", lit)
	}

	var axis byte
	if typ == devicesdb.DeviceInputHat {
		if len(rest) < 2 {
			return devicesdb.SingleBinding{}, p.errorf("malformed hat atom %q", lit)
		}
		axis = rest[len(rest)-1]
		if axis != 'x' && axis != 'y' {
			return devicesdb.SingleBinding{}, p.errorf("hat atom %q must end in x or y", lit)
		}
		rest = rest[:len(rest)-1]
	}

	idx, err := strconv.ParseUint(rest, 10, 16)
	if err != nil || idx > 255 {
		return devicesdb.SingleBinding{}, p.errorf("index of %q outside range [0-255] or missing", lit)
	}
	if typ == devicesdb.DeviceInputHat {
		idx = idx*2 + boolToUint(axis == 'y')
	}

	stuckAfterName := p.lex.IsNextStuck()
	p.advance()

	half := false
	if (typ == devicesdb.DeviceInputAbsoluteAxis || typ == devicesdb.DeviceInputRelativeAxis) &&
		stuckAfterName && p.cur.Kind == lexer.KindPunct && (p.cur.Literal == "+" || p.cur.Literal == "-") {
		half = true
		if p.cur.Literal == "-" {
			invert = true
		}
		p.advance()
	}

	return devicesdb.SingleBinding{Type: typ, Index: uint8(idx), Invert: invert, Half: half}, true
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// mirrorHalf produces the negative half implied by a FULL-mode signed
// binding: every atom copied with Invert flipped and Half forced true
// (spec.md invariant: "for a signed interface input bound in FULL mode,
// the positive half, when each atom has invert flipped and half set as
// specified, equals the negative half byte-for-byte").
func mirrorHalf(h devicesdb.HalfBinding) devicesdb.HalfBinding {
	out := make(devicesdb.HalfBinding, len(h))
	for i, clause := range h {
		nc := make([]devicesdb.SingleBinding, len(clause))
		for j, a := range clause {
			nc[j] = devicesdb.SingleBinding{Type: a.Type, Index: a.Index, Invert: !a.Invert, Half: true}
		}
		out[i] = nc
	}
	return out
}
