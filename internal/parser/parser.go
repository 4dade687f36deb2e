// Package parser implements a recursive-descent, operator-precedence parser
// for the ES5 subset emitting ast.Node trees.
package parser

import (
	"fmt"
	"strings"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/lexer"
)

// Options enumerates the supported parser options.
type Options struct {
	EcmaVersion       int // 3 or 5; default 5. Recorded only: the reserved-word check is the same for both
	StrictSemicolons  bool
	AllowTrailingCommas bool
	ForbidReserved    bool
	Locations         bool
	Ranges            bool
	OnComment         func(block bool, text string, start, end lexer.Position) // not called: the lexer skips comments without reporting them
	Program           *ast.Program // extend an existing Program (append_code)
	SourceFile        string
	DirectSourceFile  string
}

// SyntaxError is the parser's diagnostic type; distinct from lexer.SyntaxError
// only in that it always carries a position derived from the offending
// token.
type SyntaxError struct {
	Message string
	Pos     lexer.Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

type labelInfo struct {
	name string
	isLoop bool
}

// Parser holds one token of lookahead plus the state needed for ASI, strict
// mode propagation, and break/continue/return legality checks.
type Parser struct {
	lex     *lexer.Lexer
	opts    Options
	source  string

	cur  lexer.Token
	prev lexer.Token

	strict bool

	inFunction  int
	loopDepth   int
	switchDepth int
	labelStack  []labelInfo
}

func New(source string, opts Options) *Parser {
	if opts.EcmaVersion == 0 {
		opts.EcmaVersion = 5
	}
	p := &Parser{lex: lexer.New(source), opts: opts, source: source}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.prev = p.cur
	tok, err := p.lex.Next(p.strict)
	if err != nil {
		panic(wrapLexErr(err))
	}
	p.cur = tok
}

func wrapLexErr(err error) *SyntaxError {
	if le, ok := err.(*lexer.SyntaxError); ok {
		return &SyntaxError{Message: le.Message, Pos: le.Pos}
	}
	return &SyntaxError{Message: err.Error()}
}

func (p *Parser) fail(format string, args ...any) {
	panic(&SyntaxError{Message: fmt.Sprintf(format, args...), Pos: p.cur.Start})
}

// ParseProgram parses a full program, or (if opts.Program was supplied)
// returns the extended program after appending new top-level statements --
// the host-facing append_code operation.
func (p *Parser) ParseProgram() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*SyntaxError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()

	startOffset := p.cur.Start.Offset
	var body []ast.Node
	strict := p.opts.Program != nil && p.programIsStrict()
	p.strict = strict || p.strict

	body, directiveStrict := p.parseStatementList(func() bool { return p.cur.Type == lexer.EOF })
	if directiveStrict {
		p.strict = true
	}

	if p.opts.Program != nil {
		p.opts.Program.Body = append(p.opts.Program.Body, body...)
		p.opts.Program.EndOffset = p.prev.End.Offset
		return p.opts.Program, nil
	}

	prog = &ast.Program{Body: body}
	prog.StartOffset = startOffset
	prog.EndOffset = p.prev.End.Offset
	return prog, nil
}

func (p *Parser) programIsStrict() bool {
	for _, s := range p.opts.Program.Body {
		if es, ok := s.(*ast.ExpressionStatement); ok && es.Directive == "use strict" {
			return true
		}
	}
	return false
}

// parseStatementList parses statements until stop() is true, honoring the
// directive prologue rule: leading string-literal expression statements
// (verbatim, no escapes) before the first non-directive statement. Returns
// whether a "use strict" directive activated strict mode for this list.
func (p *Parser) parseStatementList(stop func() bool) ([]ast.Node, bool) {
	var body []ast.Node
	inPrologue := true
	sawUseStrict := false
	for !stop() {
		stmt := p.parseStatement()
		if inPrologue {
			if es, ok := stmt.(*ast.ExpressionStatement); ok && es.Directive != "" {
				if es.Directive == "use strict" {
					sawUseStrict = true
					p.strict = true
				}
			} else {
				inPrologue = false
			}
		}
		body = append(body, stmt)
	}
	return body, sawUseStrict
}

func (p *Parser) at(punct string) bool {
	return p.cur.Type == lexer.PUNCT && p.cur.Value == punct
}

func (p *Parser) atKeyword(word string) bool {
	return p.cur.Type == lexer.IDENT && p.cur.Value == word
}

func (p *Parser) expectPunct(punct string) lexer.Token {
	if !p.at(punct) {
		p.fail("expected %q, got %q", punct, p.tokenText())
	}
	t := p.cur
	p.advance()
	return t
}

func (p *Parser) tokenText() string {
	switch p.cur.Type {
	case lexer.EOF:
		return "<eof>"
	case lexer.IDENT:
		return p.cur.Value
	case lexer.PUNCT:
		return p.cur.Value
	case lexer.STRING:
		return p.cur.Str
	default:
		return fmt.Sprintf("%v", p.cur.Num)
	}
}

// consumeSemicolon implements automatic semicolon insertion. strictSemicolons disables
// the automatic-insertion rules entirely.
func (p *Parser) consumeSemicolon() {
	if p.at(";") {
		p.advance()
		return
	}
	if p.opts.StrictSemicolons {
		p.fail("missing semicolon")
	}
	if p.cur.Type == lexer.EOF || p.at("}") || p.cur.NewlineBefore {
		return
	}
	p.fail("unexpected token %q (expected semicolon)", p.tokenText())
}

func (p *Parser) setPos(n *ast.Pos, start lexer.Position, end lexer.Position) {
	n.StartOffset = start.Offset
	n.EndOffset = end.Offset
	if p.opts.Locations {
		n.Loc = &ast.SourceLocation{
			Source:    p.opts.SourceFile,
			StartLine: start.Line, StartCol: start.Column,
			EndLine: end.Line, EndCol: end.Column,
		}
	}
	if p.opts.Ranges {
		r := [2]int{start.Offset, end.Offset}
		n.Range = &r
	}
}

// --- identifiers & reserved words ---

func (p *Parser) isReservedNow(word string) bool {
	if lexer.IsKeyword(word, false) {
		return true
	}
	if p.strict && lexer.IsStrictReserved(word) {
		return true
	}
	if p.opts.ForbidReserved && lexer.IsStrictReserved(word) {
		return true
	}
	return false
}

func (p *Parser) parseIdentifierName() *ast.Identifier {
	if p.cur.Type != lexer.IDENT {
		p.fail("expected identifier, got %q", p.tokenText())
	}
	name := p.cur.Value
	start, end := p.cur.Start, p.cur.End
	p.advance()
	id := &ast.Identifier{Name: name}
	p.setPos(&id.Pos, start, end)
	return id
}

// parseBindingIdentifier parses an identifier used as a binding (var name,
// function name, parameter, catch param) and rejects reserved words plus,
// in strict mode, `eval`/`arguments`.
func (p *Parser) parseBindingIdentifier() *ast.Identifier {
	if p.cur.Type != lexer.IDENT {
		p.fail("expected identifier, got %q", p.tokenText())
	}
	name := p.cur.Value
	if p.isReservedNow(name) {
		p.fail("unexpected reserved word %q", name)
	}
	if p.strict && (name == "eval" || name == "arguments") {
		p.fail("cannot bind %q in strict mode", name)
	}
	return p.parseIdentifierName()
}

// --- statements ---

func (p *Parser) parseStatement() ast.Node {
	start := p.cur.Start
	switch {
	case p.at("{"):
		return p.parseBlock()
	case p.at(";"):
		p.advance()
		n := &ast.EmptyStatement{}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	case p.atKeyword("var"):
		d := p.parseVariableDeclaration()
		p.consumeSemicolon()
		return d
	case p.atKeyword("function"):
		return p.parseFunctionDeclaration()
	case p.atKeyword("if"):
		return p.parseIf()
	case p.atKeyword("for"):
		return p.parseFor()
	case p.atKeyword("while"):
		return p.parseWhile()
	case p.atKeyword("do"):
		return p.parseDoWhile()
	case p.atKeyword("break"):
		return p.parseBreakContinue(true)
	case p.atKeyword("continue"):
		return p.parseBreakContinue(false)
	case p.atKeyword("return"):
		return p.parseReturn()
	case p.atKeyword("with"):
		return p.parseWith()
	case p.atKeyword("switch"):
		return p.parseSwitch()
	case p.atKeyword("throw"):
		return p.parseThrow()
	case p.atKeyword("try"):
		return p.parseTry()
	case p.atKeyword("debugger"):
		p.advance()
		p.consumeSemicolon()
		n := &ast.DebuggerStatement{}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	default:
		return p.parseExpressionOrLabeledStatement()
	}
}

func (p *Parser) parseBlock() *ast.BlockStatement {
	start := p.expectPunct("{").Start
	body, _ := p.parseStatementList(func() bool { return p.at("}") || p.cur.Type == lexer.EOF })
	end := p.expectPunct("}").End
	b := &ast.BlockStatement{Body: body}
	p.setPos(&b.Pos, start, end)
	return b
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	start := p.cur.Start
	p.advance() // "var"
	var decls []*ast.VariableDeclarator
	for {
		declStart := p.cur.Start
		id := p.parseBindingIdentifier()
		var init ast.Node
		if p.at("=") {
			p.advance()
			init = p.parseAssignmentExpression(false)
		}
		d := &ast.VariableDeclarator{Id: id, Init: init}
		p.setPos(&d.Pos, declStart, p.prev.End)
		decls = append(decls, d)
		if p.at(",") {
			p.advance()
			continue
		}
		break
	}
	v := &ast.VariableDeclaration{Kind: "var", Declarations: decls}
	p.setPos(&v.Pos, start, p.prev.End)
	return v
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	start := p.cur.Start
	p.advance() // "function"
	name := p.parseBindingIdentifier()
	params, body, strict := p.parseFunctionRest()
	f := &ast.FunctionDeclaration{Id: name, Params: params, Body: body, Strict: strict}
	p.setPos(&f.Pos, start, p.prev.End)
	return f
}

func (p *Parser) parseFunctionRest() ([]*ast.Identifier, *ast.BlockStatement, bool) {
	p.expectPunct("(")
	var params []*ast.Identifier
	outerStrict := p.strict
	if !p.at(")") {
		for {
			params = append(params, p.parseBindingIdentifier())
			if p.at(",") {
				p.advance()
				continue
			}
			break
		}
	}
	p.expectPunct(")")

	savedStrict := p.strict
	p.inFunction++
	savedLoop, savedSwitch, savedLabels := p.loopDepth, p.switchDepth, p.labelStack
	p.loopDepth, p.switchDepth, p.labelStack = 0, 0, nil

	bodyStart := p.cur.Start
	p.expectPunct("{")
	body, bodyStrict := p.parseStatementList(func() bool { return p.at("}") || p.cur.Type == lexer.EOF })
	bodyEnd := p.cur.End
	p.expectPunct("}")

	strict := outerStrict || bodyStrict
	if strict && !outerStrict {
		// Re-validate strict-only constraints that depended on strict mode
		// (duplicate params, eval/arguments binding) now that we know.
		p.checkStrictParams(params)
	}

	block := &ast.BlockStatement{Body: body}
	p.setPos(&block.Pos, bodyStart, bodyEnd)

	p.strict = savedStrict
	p.inFunction--
	p.loopDepth, p.switchDepth, p.labelStack = savedLoop, savedSwitch, savedLabels

	return params, block, strict
}

func (p *Parser) checkStrictParams(params []*ast.Identifier) {
	seen := map[string]bool{}
	for _, prm := range params {
		if prm.Name == "eval" || prm.Name == "arguments" {
			p.fail("cannot bind %q in strict mode", prm.Name)
		}
		if seen[prm.Name] {
			p.fail("duplicate parameter name %q not allowed in strict mode", prm.Name)
		}
		seen[prm.Name] = true
	}
}

// parseFunctionExpression is used by the primary-expression parser; unlike
// a declaration its name is optional.
func (p *Parser) parseFunctionExpression() *ast.FunctionExpression {
	start := p.cur.Start
	p.advance() // "function"
	var name *ast.Identifier
	if p.cur.Type == lexer.IDENT && !p.at("(") {
		name = p.parseBindingIdentifier()
	}
	params, body, strict := p.parseFunctionRest()
	f := &ast.FunctionExpression{Id: name, Params: params, Body: body, Strict: strict}
	p.setPos(&f.Pos, start, p.prev.End)
	return f
}

func (p *Parser) parseIf() ast.Node {
	start := p.cur.Start
	p.advance()
	p.expectPunct("(")
	test := p.parseExpression()
	p.expectPunct(")")
	cons := p.parseStatement()
	var alt ast.Node
	if p.atKeyword("else") {
		p.advance()
		alt = p.parseStatement()
	}
	n := &ast.IfStatement{Test: test, Consequent: cons, Alternate: alt}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

func (p *Parser) parseWhile() ast.Node {
	start := p.cur.Start
	p.advance()
	p.expectPunct("(")
	test := p.parseExpression()
	p.expectPunct(")")
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	n := &ast.WhileStatement{Test: test, Body: body}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

func (p *Parser) parseDoWhile() ast.Node {
	start := p.cur.Start
	p.advance()
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	if !p.atKeyword("while") {
		p.fail("expected 'while' after do-block")
	}
	p.advance()
	p.expectPunct("(")
	test := p.parseExpression()
	p.expectPunct(")")
	if p.at(";") {
		p.advance()
	}
	n := &ast.DoWhileStatement{Body: body, Test: test}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

// parseFor distinguishes the two for-loop forms by first parsing the
// initialiser with `in` forbidden, then re-dispatch to for-in if the next
// token is `in`.
func (p *Parser) parseFor() ast.Node {
	start := p.cur.Start
	p.advance()
	p.expectPunct("(")

	var init ast.Node
	if p.at(";") {
		// no init
	} else if p.atKeyword("var") {
		declStart := p.cur.Start
		p.advance()
		firstID := p.parseBindingIdentifier()
		var firstInit ast.Node
		if p.at("=") {
			p.advance()
			firstInit = p.parseAssignmentExpression(true)
		}
		if p.atKeyword("in") {
			d := &ast.VariableDeclarator{Id: firstID, Init: firstInit}
			p.setPos(&d.Pos, declStart, p.prev.End)
			decl := &ast.VariableDeclaration{Kind: "var", Declarations: []*ast.VariableDeclarator{d}}
			p.setPos(&decl.Pos, declStart, p.prev.End)
			return p.finishForIn(start, decl)
		}
		decls := []*ast.VariableDeclarator{}
		d := &ast.VariableDeclarator{Id: firstID, Init: firstInit}
		p.setPos(&d.Pos, declStart, p.prev.End)
		decls = append(decls, d)
		for p.at(",") {
			p.advance()
			dStart := p.cur.Start
			id := p.parseBindingIdentifier()
			var dInit ast.Node
			if p.at("=") {
				p.advance()
				dInit = p.parseAssignmentExpression(true)
			}
			dd := &ast.VariableDeclarator{Id: id, Init: dInit}
			p.setPos(&dd.Pos, dStart, p.prev.End)
			decls = append(decls, dd)
		}
		decl := &ast.VariableDeclaration{Kind: "var", Declarations: decls}
		p.setPos(&decl.Pos, declStart, p.prev.End)
		init = decl
	} else {
		expr := p.parseExpressionNoIn()
		if p.atKeyword("in") {
			return p.finishForIn(start, p.toLValue(expr))
		}
		init = expr
	}

	p.expectPunct(";")
	var test ast.Node
	if !p.at(";") {
		test = p.parseExpression()
	}
	p.expectPunct(";")
	var update ast.Node
	if !p.at(")") {
		update = p.parseExpression()
	}
	p.expectPunct(")")
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	n := &ast.ForStatement{Init: init, Test: test, Update: update, Body: body}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

func (p *Parser) finishForIn(start lexer.Position, left ast.Node) ast.Node {
	p.advance() // "in"
	right := p.parseExpression()
	p.expectPunct(")")
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	n := &ast.ForInStatement{Left: left, Right: right, Body: body}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

// toLValue validates that expr is usable as a for-in left-hand side.
func (p *Parser) toLValue(expr ast.Node) ast.Node {
	switch expr.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		return expr
	default:
		p.fail("invalid left-hand side in for-in")
		return nil
	}
}

func (p *Parser) parseBreakContinue(isBreak bool) ast.Node {
	start := p.cur.Start
	p.advance()
	var label string
	if p.cur.Type == lexer.IDENT && !p.cur.NewlineBefore && !lexer.IsKeyword(p.cur.Value, false) {
		label = p.cur.Value
		p.advance()
	}
	p.consumeSemicolon()

	if label != "" {
		found := false
		for _, l := range p.labelStack {
			if l.name == label {
				found = true
				if isBreak {
					break
				}
				if !l.isLoop {
					p.fail("illegal continue target %q", label)
				}
				break
			}
		}
		if !found {
			p.fail("undefined label %q", label)
		}
	} else {
		if isBreak && p.loopDepth == 0 && p.switchDepth == 0 {
			p.fail("illegal break statement")
		}
		if !isBreak && p.loopDepth == 0 {
			p.fail("illegal continue statement")
		}
	}

	if isBreak {
		n := &ast.BreakStatement{Label: label}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	}
	n := &ast.ContinueStatement{Label: label}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

func (p *Parser) parseReturn() ast.Node {
	if p.inFunction == 0 {
		p.fail("'return' outside of function")
	}
	start := p.cur.Start
	p.advance()
	var arg ast.Node
	if !p.at(";") && !p.at("}") && p.cur.Type != lexer.EOF && !p.cur.NewlineBefore {
		arg = p.parseExpression()
	}
	p.consumeSemicolon()
	n := &ast.ReturnStatement{Argument: arg}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

func (p *Parser) parseWith() ast.Node {
	start := p.cur.Start
	if p.strict {
		p.fail("'with' statements are not allowed in strict mode")
	}
	p.advance()
	p.expectPunct("(")
	obj := p.parseExpression()
	p.expectPunct(")")
	body := p.parseStatement()
	n := &ast.WithStatement{Object: obj, Body: body}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

func (p *Parser) parseSwitch() ast.Node {
	start := p.cur.Start
	p.advance()
	p.expectPunct("(")
	disc := p.parseExpression()
	p.expectPunct(")")
	p.expectPunct("{")
	p.switchDepth++
	var cases []*ast.SwitchCase
	sawDefault := false
	for !p.at("}") && p.cur.Type != lexer.EOF {
		caseStart := p.cur.Start
		var test ast.Node
		if p.atKeyword("case") {
			p.advance()
			test = p.parseExpression()
		} else if p.atKeyword("default") {
			if sawDefault {
				p.fail("multiple default clauses in switch")
			}
			sawDefault = true
			p.advance()
		} else {
			p.fail("expected 'case' or 'default'")
		}
		p.expectPunct(":")
		var body []ast.Node
		for !p.atKeyword("case") && !p.atKeyword("default") && !p.at("}") && p.cur.Type != lexer.EOF {
			body = append(body, p.parseStatement())
		}
		c := &ast.SwitchCase{Test: test, Consequent: body}
		p.setPos(&c.Pos, caseStart, p.prev.End)
		cases = append(cases, c)
	}
	end := p.expectPunct("}").End
	p.switchDepth--
	n := &ast.SwitchStatement{Discriminant: disc, Cases: cases}
	p.setPos(&n.Pos, start, end)
	return n
}

func (p *Parser) parseThrow() ast.Node {
	start := p.cur.Start
	p.advance()
	if p.cur.NewlineBefore {
		p.fail("illegal newline after 'throw'")
	}
	arg := p.parseExpression()
	p.consumeSemicolon()
	n := &ast.ThrowStatement{Argument: arg}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

func (p *Parser) parseTry() ast.Node {
	start := p.cur.Start
	p.advance()
	block := p.parseBlock()
	var handler *ast.CatchClause
	var finalizer *ast.BlockStatement
	if p.atKeyword("catch") {
		cStart := p.cur.Start
		p.advance()
		p.expectPunct("(")
		param := p.parseBindingIdentifier()
		p.expectPunct(")")
		body := p.parseBlock()
		handler = &ast.CatchClause{Param: param, Body: body}
		p.setPos(&handler.Pos, cStart, p.prev.End)
	}
	if p.atKeyword("finally") {
		p.advance()
		finalizer = p.parseBlock()
	}
	if handler == nil && finalizer == nil {
		p.fail("missing catch or finally after try")
	}
	n := &ast.TryStatement{Block: block, Handler: handler, Finalizer: finalizer}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

// parseExpressionOrLabeledStatement handles the identifier-colon ambiguity:
// `foo: stmt` is a LabeledStatement, anything else is an ExpressionStatement
// (possibly a directive prologue entry).
func (p *Parser) parseExpressionOrLabeledStatement() ast.Node {
	start := p.cur.Start
	if p.cur.Type == lexer.IDENT && !lexer.IsKeyword(p.cur.Value, false) {
		save := *p.lex
		saveCur, savePrev := p.cur, p.prev
		name := p.cur.Value
		p.advance()
		if p.at(":") {
			p.advance()
			isLoop := p.atKeyword("for") || p.atKeyword("while") || p.atKeyword("do")
			p.labelStack = append(p.labelStack, labelInfo{name: name, isLoop: isLoop})
			body := p.parseStatement()
			p.labelStack = p.labelStack[:len(p.labelStack)-1]
			n := &ast.LabeledStatement{Label: name, Body: body}
			p.setPos(&n.Pos, start, p.prev.End)
			return n
		}
		// not a label: rewind and fall through to normal expression parsing
		*p.lex = save
		p.cur, p.prev = saveCur, savePrev
	}

	// Detect a directive-prologue string literal: a raw string-literal
	// ExpressionStatement whose source text carries no escapes.
	var directive string
	if p.cur.Type == lexer.STRING {
		raw := p.lex.Slice(p.cur.Start.Offset, p.cur.End.Offset)
		if (strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) || strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'")) && !strings.ContainsRune(raw, '\\') {
			directive = p.cur.Str
		}
	}

	expr := p.parseExpression()
	if _, ok := expr.(*ast.Literal); !ok {
		directive = ""
	}
	p.consumeSemicolon()
	n := &ast.ExpressionStatement{Expression: expr, Directive: directive}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

// --- expressions (operator precedence) ---

func (p *Parser) parseExpression() ast.Node {
	return p.parseExpressionImpl(true)
}

func (p *Parser) parseExpressionNoIn() ast.Node {
	return p.parseExpressionImpl(false)
}

func (p *Parser) parseExpressionImpl(allowIn bool) ast.Node {
	start := p.cur.Start
	first := p.parseAssignmentExpressionImpl(allowIn)
	if !p.at(",") {
		return first
	}
	exprs := []ast.Node{first}
	for p.at(",") {
		p.advance()
		exprs = append(exprs, p.parseAssignmentExpressionImpl(allowIn))
	}
	n := &ast.SequenceExpression{Expressions: exprs}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

func (p *Parser) parseAssignmentExpression(allowIn bool) ast.Node {
	return p.parseAssignmentExpressionImpl(allowIn)
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true, "^=": true,
}

func (p *Parser) parseAssignmentExpressionImpl(allowIn bool) ast.Node {
	start := p.cur.Start
	left := p.parseConditional(allowIn)
	if p.cur.Type == lexer.PUNCT && assignOps[p.cur.Value] {
		op := p.cur.Value
		p.checkAssignTarget(left)
		p.advance()
		right := p.parseAssignmentExpressionImpl(allowIn)
		n := &ast.AssignmentExpression{Operator: op, Left: left, Right: right}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	}
	return left
}

func (p *Parser) checkAssignTarget(n ast.Node) {
	switch v := n.(type) {
	case *ast.Identifier:
		if p.strict && (v.Name == "eval" || v.Name == "arguments") {
			p.fail("cannot assign to %q in strict mode", v.Name)
		}
	case *ast.MemberExpression:
		// always valid
	default:
		p.fail("invalid assignment target")
	}
}

func (p *Parser) parseConditional(allowIn bool) ast.Node {
	start := p.cur.Start
	test := p.parseBinary(0, allowIn)
	if !p.at("?") {
		return test
	}
	p.advance()
	cons := p.parseAssignmentExpressionImpl(true)
	if !p.at(":") {
		p.fail("expected ':' in conditional expression")
	}
	p.advance()
	alt := p.parseAssignmentExpressionImpl(allowIn)
	n := &ast.ConditionalExpression{Test: test, Consequent: cons, Alternate: alt}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

// binary operator precedence table, lowest to highest.
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6, "===": 6, "!==": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7, "in": 7, "instanceof": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

func (p *Parser) curBinaryOp(allowIn bool) (string, bool) {
	if p.cur.Type == lexer.PUNCT {
		if _, ok := precedence[p.cur.Value]; ok {
			return p.cur.Value, true
		}
		return "", false
	}
	if p.cur.Type == lexer.IDENT {
		if p.cur.Value == "instanceof" {
			return "instanceof", true
		}
		if p.cur.Value == "in" && allowIn {
			return "in", true
		}
	}
	return "", false
}

func (p *Parser) parseBinary(minPrec int, allowIn bool) ast.Node {
	start := p.cur.Start
	left := p.parseUnary()
	for {
		op, ok := p.curBinaryOp(allowIn)
		if !ok {
			break
		}
		prec := precedence[op]
		if prec < minPrec {
			break
		}
		p.advance()
		right := p.parseBinary(prec+1, allowIn)
		if op == "&&" || op == "||" {
			n := &ast.LogicalExpression{Operator: op, Left: left, Right: right}
			p.setPos(&n.Pos, start, p.prev.End)
			left = n
		} else {
			n := &ast.BinaryExpression{Operator: op, Left: left, Right: right}
			p.setPos(&n.Pos, start, p.prev.End)
			left = n
		}
	}
	return left
}

var unaryOps = map[string]bool{
	"+": true, "-": true, "~": true, "!": true,
}
var unaryKeywordOps = map[string]bool{
	"typeof": true, "void": true, "delete": true,
}

func (p *Parser) parseUnary() ast.Node {
	start := p.cur.Start
	if p.cur.Type == lexer.PUNCT && (unaryOps[p.cur.Value] || p.cur.Value == "++" || p.cur.Value == "--") {
		op := p.cur.Value
		p.advance()
		if op == "++" || op == "--" {
			arg := p.parseUnary()
			p.checkAssignTarget(arg)
			n := &ast.UpdateExpression{Operator: op, Prefix: true, Argument: arg}
			p.setPos(&n.Pos, start, p.prev.End)
			return n
		}
		arg := p.parseUnary()
		n := &ast.UnaryExpression{Operator: op, Prefix: true, Argument: arg}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	}
	if p.cur.Type == lexer.IDENT && unaryKeywordOps[p.cur.Value] {
		op := p.cur.Value
		p.advance()
		arg := p.parseUnary()
		if op == "delete" {
			if id, ok := arg.(*ast.Identifier); ok && p.strict {
				_ = id
				p.fail("'delete' of an unqualified identifier is not allowed in strict mode")
			}
		}
		n := &ast.UnaryExpression{Operator: op, Prefix: true, Argument: arg}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Node {
	start := p.cur.Start
	expr := p.parseLeftHandSide()
	if (p.at("++") || p.at("--")) && !p.cur.NewlineBefore {
		op := p.cur.Value
		p.checkAssignTarget(expr)
		p.advance()
		n := &ast.UpdateExpression{Operator: op, Prefix: false, Argument: expr}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	}
	return expr
}

// parseLeftHandSide handles member/call/new chains at the same precedence
// level, the "member/call/new" precedence tier.
func (p *Parser) parseLeftHandSide() ast.Node {
	start := p.cur.Start
	var expr ast.Node
	if p.atKeyword("new") {
		expr = p.parseNew()
	} else {
		expr = p.parsePrimary()
	}
	for {
		switch {
		case p.at("."):
			p.advance()
			prop := p.parseIdentifierName()
			m := &ast.MemberExpression{Object: expr, Property: prop, Computed: false}
			p.setPos(&m.Pos, start, p.prev.End)
			expr = m
		case p.at("["):
			p.advance()
			prop := p.parseExpression()
			p.expectPunct("]")
			m := &ast.MemberExpression{Object: expr, Property: prop, Computed: true}
			p.setPos(&m.Pos, start, p.prev.End)
			expr = m
		case p.at("("):
			args := p.parseArguments()
			c := &ast.CallExpression{Callee: expr, Arguments: args}
			p.setPos(&c.Pos, start, p.prev.End)
			expr = c
		default:
			return expr
		}
	}
}

func (p *Parser) parseNew() ast.Node {
	start := p.cur.Start
	p.advance() // "new"
	var callee ast.Node
	if p.atKeyword("new") {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	for {
		if p.at(".") {
			p.advance()
			prop := p.parseIdentifierName()
			m := &ast.MemberExpression{Object: callee, Property: prop, Computed: false}
			p.setPos(&m.Pos, start, p.prev.End)
			callee = m
			continue
		}
		if p.at("[") {
			p.advance()
			prop := p.parseExpression()
			p.expectPunct("]")
			m := &ast.MemberExpression{Object: callee, Property: prop, Computed: true}
			p.setPos(&m.Pos, start, p.prev.End)
			callee = m
			continue
		}
		break
	}
	var args []ast.Node
	if p.at("(") {
		args = p.parseArguments()
	}
	n := &ast.NewExpression{Callee: callee, Arguments: args}
	p.setPos(&n.Pos, start, p.prev.End)
	return n
}

func (p *Parser) parseArguments() []ast.Node {
	p.expectPunct("(")
	var args []ast.Node
	for !p.at(")") {
		args = append(args, p.parseAssignmentExpression(true))
		if p.at(",") {
			p.advance()
			if p.opts.AllowTrailingCommas && p.at(")") {
				break
			}
			continue
		}
		break
	}
	p.expectPunct(")")
	return args
}

func (p *Parser) parsePrimary() ast.Node {
	start := p.cur.Start
	switch {
	case p.atKeyword("this"):
		p.advance()
		n := &ast.ThisExpression{}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	case p.atKeyword("function"):
		return p.parseFunctionExpression()
	case p.cur.Type == lexer.IDENT && p.cur.Value == "null":
		p.advance()
		n := &ast.Literal{Kind: ast.LitNull, Raw: "null"}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	case p.cur.Type == lexer.IDENT && (p.cur.Value == "true" || p.cur.Value == "false"):
		v := p.cur.Value == "true"
		p.advance()
		n := &ast.Literal{Kind: ast.LitBool, Bool: v, Raw: p.prev.Value}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	case p.cur.Type == lexer.IDENT:
		if p.isReservedNow(p.cur.Value) {
			p.fail("unexpected reserved word %q", p.cur.Value)
		}
		return p.parseIdentifierName()
	case p.cur.Type == lexer.NUMBER:
		v := p.cur.Num
		raw := p.lex.Slice(p.cur.Start.Offset, p.cur.End.Offset)
		p.advance()
		n := &ast.Literal{Kind: ast.LitNumber, Num: v, Raw: raw}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	case p.cur.Type == lexer.STRING:
		v := p.cur.Str
		raw := p.lex.Slice(p.cur.Start.Offset, p.cur.End.Offset)
		p.advance()
		n := &ast.Literal{Kind: ast.LitString, Str: v, Raw: raw}
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	case p.cur.Type == lexer.REGEXP:
		pattern, flags := p.cur.Regexp.Pattern, p.cur.Regexp.Flags
		raw := p.lex.Slice(p.cur.Start.Offset, p.cur.End.Offset)
		p.advance()
		n := &ast.Literal{Kind: ast.LitRegExp, Raw: raw}
		n.RegExp.Pattern, n.RegExp.Flags = pattern, flags
		p.setPos(&n.Pos, start, p.prev.End)
		return n
	case p.at("("):
		p.advance()
		expr := p.parseExpression()
		p.expectPunct(")")
		return expr
	case p.at("["):
		return p.parseArrayLiteral()
	case p.at("{"):
		return p.parseObjectLiteral()
	default:
		p.fail("unexpected token %q", p.tokenText())
		return nil
	}
}

func (p *Parser) parseArrayLiteral() ast.Node {
	start := p.cur.Start
	p.advance() // "["
	var elements []ast.Node
	for !p.at("]") {
		if p.at(",") {
			elements = append(elements, nil) // elision
			p.advance()
			continue
		}
		elements = append(elements, p.parseAssignmentExpression(true))
		if p.at(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.expectPunct("]").End
	n := &ast.ArrayExpression{Elements: elements}
	p.setPos(&n.Pos, start, end)
	return n
}

func (p *Parser) parseObjectLiteral() ast.Node {
	start := p.cur.Start
	p.advance() // "{"
	var props []*ast.Property
	seenData := map[string]bool{}
	seenGetter := map[string]bool{}
	seenSetter := map[string]bool{}
	for !p.at("}") {
		propStart := p.cur.Start
		var key ast.Node
		var computed bool
		kind := "init"
		keyName := ""

		if (p.atKeyword("get") || p.atKeyword("set")) && !p.peekIsPropertyEnd() {
			kind = p.cur.Value
			p.advance()
			key, keyName = p.parsePropertyKey()
		} else {
			key, keyName = p.parsePropertyKey()
		}

		var value ast.Node
		if kind == "get" || kind == "set" {
			_, body, strict := p.parseFunctionRest()
			fn := &ast.FunctionExpression{Body: body, Strict: strict}
			value = fn
		} else {
			p.expectPunct(":")
			value = p.parseAssignmentExpression(true)
		}

		prop := &ast.Property{Key: key, Value: value, Kind: kind, Computed: computed}
		p.setPos(&prop.Pos, propStart, p.prev.End)
		props = append(props, prop)

		switch kind {
		case "get":
			if seenGetter[keyName] || seenData[keyName] {
				p.fail("duplicate getter for property %q", keyName)
			}
			seenGetter[keyName] = true
		case "set":
			if seenSetter[keyName] || seenData[keyName] {
				p.fail("duplicate setter for property %q", keyName)
			}
			seenSetter[keyName] = true
		default:
			if p.strict && seenData[keyName] {
				p.fail("duplicate property %q not allowed in strict mode", keyName)
			}
			if seenGetter[keyName] || seenSetter[keyName] {
				p.fail("property %q conflicts with previous getter/setter", keyName)
			}
			seenData[keyName] = true
		}

		if p.at(",") {
			p.advance()
			if p.opts.AllowTrailingCommas && p.at("}") {
				break
			}
			continue
		}
		break
	}
	end := p.expectPunct("}").End
	n := &ast.ObjectExpression{Properties: props}
	p.setPos(&n.Pos, start, end)
	return n
}

// peekIsPropertyEnd reports whether the token after a potential get/set
// keyword is `:`, `,`, or `}` — meaning "get"/"set" is itself the property
// name (shorthand `{ get: 1 }`), not a getter/setter introducer.
func (p *Parser) peekIsPropertyEnd() bool {
	save := *p.lex
	saveCur, savePrev := p.cur, p.prev
	p.advance()
	isEnd := p.at(":") || p.at(",") || p.at("}")
	*p.lex = save
	p.cur, p.prev = saveCur, savePrev
	return isEnd
}

func (p *Parser) parsePropertyKey() (ast.Node, string) {
	start := p.cur.Start
	switch {
	case p.cur.Type == lexer.IDENT:
		name := p.cur.Value
		p.advance()
		id := &ast.Identifier{Name: name}
		p.setPos(&id.Pos, start, p.prev.End)
		return id, name
	case p.cur.Type == lexer.STRING:
		v := p.cur.Str
		raw := p.lex.Slice(p.cur.Start.Offset, p.cur.End.Offset)
		p.advance()
		lit := &ast.Literal{Kind: ast.LitString, Str: v, Raw: raw}
		p.setPos(&lit.Pos, start, p.prev.End)
		return lit, v
	case p.cur.Type == lexer.NUMBER:
		v := p.cur.Num
		raw := p.lex.Slice(p.cur.Start.Offset, p.cur.End.Offset)
		p.advance()
		lit := &ast.Literal{Kind: ast.LitNumber, Num: v, Raw: raw}
		p.setPos(&lit.Pos, start, p.prev.End)
		return lit, numberKeyName(v)
	default:
		p.fail("expected property name, got %q", p.tokenText())
		return nil, ""
	}
}

func numberKeyName(v float64) string {
	return fmt.Sprintf("%v", v)
}
