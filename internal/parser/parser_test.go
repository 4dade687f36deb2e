package parser

import (
	"testing"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := New(src, Options{}).ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram(%q): %v", src, err)
	}
	return prog
}

func TestParsesVariableDeclarationWithInitializer(t *testing.T) {
	prog := mustParse(t, "var x = 1;")
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected VariableDeclaration, got %T", prog.Body[0])
	}
	if len(decl.Declarations) != 1 || decl.Declarations[0].Id.Name != "x" {
		t.Fatalf("expected declarator for x, got %#v", decl.Declarations)
	}
	lit, ok := decl.Declarations[0].Init.(*ast.Literal)
	if !ok || lit.Kind != ast.LitNumber || lit.Num != 1 {
		t.Fatalf("expected numeric literal 1, got %#v", decl.Declarations[0].Init)
	}
}

func TestParseErrorCarriesPosition(t *testing.T) {
	_, err := New("var ;", Options{}).ParseProgram()
	if err == nil {
		t.Fatalf("expected a syntax error")
	}
	synErr, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if synErr.Pos.Offset == 0 {
		t.Fatalf("expected a non-zero offset for the offending token")
	}
}

func TestAppendCodeExtendsExistingProgram(t *testing.T) {
	prog := mustParse(t, "var x = 1;")
	more, err := New("var y = 2;", Options{Program: prog}).ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if len(more.Body) != 2 {
		t.Fatalf("expected the appended program to carry both statements, got %d", len(more.Body))
	}
}

func TestEmptySourceParsesCleanly(t *testing.T) {
	prog := mustParse(t, "")
	if len(prog.Body) != 0 {
		t.Fatalf("expected an empty body, got %d statements", len(prog.Body))
	}
}
