package lexer

import (
	"strings"
	"testing"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := New(strings.NewReader(src), nil)
	var toks []Token
	for {
		tok, ok := l.Next()
		if !ok {
			t.Fatalf("unexpected lexical error")
		}
		toks = append(toks, tok)
		if tok.Kind == KindEOF {
			return toks
		}
	}
}

func TestNamesAndPunct(t *testing.T) {
	toks := lexAll(t, "gp.a")
	kinds := []Kind{KindName, KindPunct, KindName, KindEOF}
	if len(toks) != len(kinds) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(kinds))
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d: kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
	if toks[0].Literal != "gp" || toks[2].Literal != "a" {
		t.Fatalf("unexpected literals: %q %q", toks[0].Literal, toks[2].Literal)
	}
}

func TestStringLiteralKeepsQuotes(t *testing.T) {
	toks := lexAll(t, `"hello world"`)
	if toks[0].Kind != KindString {
		t.Fatalf("kind = %v, want KindString", toks[0].Kind)
	}
	if toks[0].Literal != `"hello world"` {
		t.Fatalf("literal = %q", toks[0].Literal)
	}
}

func TestCommentDiscardedNewlineEmitted(t *testing.T) {
	toks := lexAll(t, "a # comment\nb")
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []Kind{KindName, KindNewline, KindName, KindEOF}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
}

func TestCRLFFoldedToSingleNewline(t *testing.T) {
	toks := lexAll(t, "a\r\nb\rc")
	var names []string
	for _, tok := range toks {
		if tok.Kind == KindName {
			names = append(names, tok.Literal)
		}
	}
	if len(names) != 3 {
		t.Fatalf("names = %v", names)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New(strings.NewReader("a\x01b"), nil)
	l.Next() // "a"
	_, ok := l.Next()
	if ok {
		t.Fatal("expected illegal-character failure")
	}
}

func TestIsNextStuck(t *testing.T) {
	l := New(strings.NewReader("~a2+ b"), nil)
	if !l.IsNextStuck() {
		t.Fatal("'~' should be stuck to nothing before it, but next byte after current position check applies to upcoming token")
	}
	l.Next() // consumes '~'
	if !l.IsNextStuck() {
		t.Fatal("'a' should be stuck (no space before it)")
	}
	// drain "a2+"
	l.Next()
	l.Next()
	l.Next()
	if l.IsNextStuck() {
		t.Fatal("space should make the next token not stuck")
	}
}

func TestHashDeterministic(t *testing.T) {
	toks := lexAll(t, "foo foo")
	if toks[0].Hash != toks[1].Hash {
		t.Fatalf("identical literals should hash identically")
	}
}
