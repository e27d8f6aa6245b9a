package parser

import (
	"github.com/lazynput/lazynputdb/internal/lexer"
	"github.com/lazynput/lazynputdb/internal/strhash"
)

// parseIconsBlock implements spec.md §4.4.2:
//
//	icons { (NAME STRING "\n")* }
//
// An icon's value may itself be "$othername", a fallback-chain reference
// to another icon's glyph; that reference is resolved lazily by the
// resolver (internal/resolver), not here — the parser only stores the
// literal string content.
func (p *Parser) parseIconsBlock() bool {
	p.advance() // consume "icons"
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
		name, ok := p.expectName(false)
		if !ok {
			return false
		}
		value, ok := p.expectString(false)
		if !ok {
			return false
		}
		if !p.expectNewline() {
			return false
		}
		h := strhash.Sum(name)
		if _, dup := p.scratch.Icons[h]; dup {
			return p.errorf("icon %q redeclared in this parse stream", name)
		}
		p.scratch.Icons[h] = value
	}
}
