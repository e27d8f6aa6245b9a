// Package lexer implements the tokenizer specified in spec.md §4.2: a
// three-state (START, NAME, STRING) finite-state machine over a byte
// stream, emitting names, quoted strings, single-character punctuation,
// significant newlines, and EOF, while discarding comments.
package lexer

import (
	"bufio"
	"io"

	"github.com/lazynput/lazynputdb/internal/dberr"
	"github.com/lazynput/lazynputdb/internal/strhash"
)

// Kind identifies what a Token represents.
type Kind int

const (
	KindName Kind = iota
	KindString
	KindPunct
	KindNewline
	KindEOF
)

// punctuation is the full set of single-character punctuation tokens
// recognized by the grammar (spec.md §4.2).
const punctuation = "{}:.=+-~,!|&"

// Token is one lexical unit: a hash of its literal (where applicable), the
// literal itself, and the source line it started on. Adjacency to the
// previous token (for the binding-expression micro-parser) is queried
// separately via IsNextStuck before a token is consumed, since it must be
// known before the token exists.
type Token struct {
	Kind    Kind
	Hash    strhash.Hash
	Literal string
	Line    int
}

// Lexer tokenizes a byte stream per spec.md §4.2.
type Lexer struct {
	r    *bufio.Reader
	sink dberr.Sink
	line int
}

// New creates a Lexer reading from r, reporting lexical errors to sink (a
// dberr.NopSink{} is a valid silent sink).
func New(r io.Reader, sink dberr.Sink) *Lexer {
	if sink == nil {
		sink = dberr.NopSink{}
	}
	return &Lexer{r: bufio.NewReader(r), sink: sink, line: 1}
}

// Line returns the current line number (1-based).
func (l *Lexer) Line() int {
	return l.line
}

func isNameByte(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '_'
}

func isPrintableASCII(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}

// IsNextStuck reports whether the next unconsumed byte is neither
// whitespace (space, tab), newline, nor EOF — per spec.md §4.2, used by
// the binding-expression micro-parser to scan atoms with no intervening
// separators (e.g. "~a2+").
func (l *Lexer) IsNextStuck() bool {
	b, err := l.r.Peek(1)
	if err != nil {
		return false // EOF
	}
	c := b[0]
	return c != ' ' && c != '\t' && c != '\n' && c != '\r'
}

// Next consumes and returns the next token. ok is false on a lexical error,
// an illegal character or an unterminated string (already reported to the
// sink); callers should treat that as
// a fatal lexical error and abort the parse. EOF is reported as a token of
// KindEOF with ok == true, not as a failure.
func (l *Lexer) Next() (tok Token, ok bool) {
	if err := l.skipInsignificant(); err != nil {
		return Token{}, false
	}

	b, err := l.r.ReadByte()
	if err == io.EOF {
		return Token{Kind: KindEOF, Line: l.line}, true
	}
	if err != nil {
		return Token{Kind: KindEOF, Line: l.line}, true
	}

	startLine := l.line

	switch {
	case b == '\n':
		l.line++
		return Token{Kind: KindNewline, Hash: strhash.Sum("\n"), Literal: "\n", Line: startLine}, true
	case b == '\r':
		// Fold "\r\n" and lone "\r" into a single newline token.
		if nb, perr := l.r.Peek(1); perr == nil && nb[0] == '\n' {
			l.r.ReadByte()
		}
		l.line++
		return Token{Kind: KindNewline, Hash: strhash.Sum("\n"), Literal: "\n", Line: startLine}, true
	case isNameByte(b):
		l.r.UnreadByte()
		lit, err := l.readName()
		if err != nil {
			return Token{}, false
		}
		return Token{Kind: KindName, Hash: strhash.Sum(lit), Literal: lit, Line: startLine}, true
	case b == '"':
		lit, err := l.readString()
		if err != nil {
			return Token{}, false
		}
		return Token{Kind: KindString, Literal: lit, Line: startLine}, true
	case containsByte(punctuation, b):
		return Token{Kind: KindPunct, Hash: strhash.Append(strhash.Seed, b), Literal: string(b), Line: startLine}, true
	default:
		l.sink.IllegalCharacter(startLine, b)
		return Token{}, false
	}
}

// skipInsignificant discards spaces, tabs, and "#..." comments up to (not
// including) the end of the line; the trailing newline is left for Next to
// tokenize as a real newline token, per spec.md §4.2's "a newline token is
// emitted". It does not skip newlines, since those are significant.
func (l *Lexer) skipInsignificant() error {
	for {
		b, err := l.r.Peek(1)
		if err != nil {
			return nil // EOF handled by caller
		}
		c := b[0]
		switch {
		case c == ' ' || c == '\t':
			l.r.ReadByte()
		case c == '#':
			l.r.ReadByte()
			for {
				nb, err := l.r.Peek(1)
				if err != nil || nb[0] == '\n' || nb[0] == '\r' {
					break
				}
				l.r.ReadByte()
			}
		default:
			return nil
		}
	}
}

func (l *Lexer) readName() (string, error) {
	var buf []byte
	for {
		b, err := l.r.Peek(1)
		if err != nil || !isNameByte(b[0]) {
			break
		}
		c, _ := l.r.ReadByte()
		buf = append(buf, c)
	}
	return string(buf), nil
}

// readString reads the body of a "..." token, the opening quote already
// consumed. The returned literal includes both surrounding quotes per
// spec.md §4.2. Bytes 0x80 and above pass through unchanged, so icon
// values can hold UTF-8 glyphs; other bytes outside printable ASCII are
// illegal.
func (l *Lexer) readString() (string, error) {
	buf := []byte{'"'}
	for {
		b, err := l.r.ReadByte()
		if err == io.EOF {
			l.sink.UnexpectedToken(l.line, "")
			return "", io.ErrUnexpectedEOF
		}
		if b == '"' {
			buf = append(buf, '"')
			return string(buf), nil
		}
		if !isPrintableASCII(b) && b < 0x80 {
			l.sink.IllegalCharacter(l.line, b)
			return "", io.ErrUnexpectedEOF
		}
		buf = append(buf, b)
	}
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}
