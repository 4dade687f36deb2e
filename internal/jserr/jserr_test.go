package jserr

import "testing"

func TestFormatPointsAtOffset(t *testing.T) {
	src := "var x = ;\nvar y = 1;"
	e := New(8, "unexpected token ';'", src, "main.js")
	out := e.Format(false)
	if !contains(out, "main.js:1:9") {
		t.Fatalf("expected header to locate line 1 col 9, got:\n%s", out)
	}
	if !contains(out, "var x = ;") {
		t.Fatalf("expected offending line in output, got:\n%s", out)
	}
}

func TestLocateSecondLine(t *testing.T) {
	src := "a;\nb c;"
	line, col, text := locate(src, 5)
	if line != 2 || col != 3 || text != "b c;" {
		t.Fatalf("locate(5) = (%d,%d,%q), want (2,3,\"b c;\")", line, col, text)
	}
}

func TestFormatAllNumbersMultiple(t *testing.T) {
	errs := []*SourceError{
		New(0, "first", "a", ""),
		New(0, "second", "a", ""),
	}
	out := FormatAll(errs, false)
	if !contains(out, "2 error(s)") || !contains(out, "[Error 1 of 2]") || !contains(out, "[Error 2 of 2]") {
		t.Fatalf("expected numbered multi-error output, got:\n%s", out)
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && indexOf(s, sub) >= 0
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
