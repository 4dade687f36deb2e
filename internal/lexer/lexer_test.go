package lexer

import "testing"

func tokens(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var out []Token
	for {
		tok, err := l.Next(false)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, tok)
		if tok.Type == EOF {
			return out
		}
	}
}

func TestScansIdentifiersNumbersAndPunctuators(t *testing.T) {
	toks := tokens(t, "var x = 42;")
	want := []struct {
		typ TokenType
		val string
	}{
		{IDENT, "var"},
		{IDENT, "x"},
		{PUNCT, "="},
		{NUMBER, ""},
		{PUNCT, ";"},
		{EOF, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %#v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w.typ {
			t.Fatalf("token %d: type = %v, want %v", i, toks[i].Type, w.typ)
		}
	}
	if toks[3].Num != 42 {
		t.Fatalf("number token = %v, want 42", toks[3].Num)
	}
}

func TestScansStringEscapes(t *testing.T) {
	toks := tokens(t, `"a\nb"`)
	if toks[0].Type != STRING || toks[0].Str != "a\nb" {
		t.Fatalf("got %q, want cooked \"a\\nb\"", toks[0].Str)
	}
}

func TestRegexpVsDivisionDisambiguation(t *testing.T) {
	toks := tokens(t, "x = /ab/g;")
	if toks[2].Type != REGEXP || toks[2].Regexp.Pattern != "ab" || toks[2].Regexp.Flags != "g" {
		t.Fatalf("expected regexp literal /ab/g, got %#v", toks[2])
	}

	toks2 := tokens(t, "a / b;")
	foundPunctSlash := false
	for _, tok := range toks2 {
		if tok.Type == PUNCT && tok.Value == "/" {
			foundPunctSlash = true
		}
	}
	if !foundPunctSlash {
		t.Fatalf("expected '/' after identifier to lex as division, got %#v", toks2)
	}
}

func TestNewlineBeforeFlagsASICandidates(t *testing.T) {
	toks := tokens(t, "a\nb")
	if !toks[1].NewlineBefore {
		t.Fatalf("expected NewlineBefore on second identifier")
	}
}
