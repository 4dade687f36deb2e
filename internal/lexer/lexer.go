package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// SyntaxError is raised for unterminated literals/comments, illegal
// characters, and invalid escapes. It carries enough position information
// for jserr to render a caret diagnostic.
type SyntaxError struct {
	Message string
	Pos     Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

// Options has no fields; nothing in the lexer reads it. Whether legacy
// octal literals and escapes are legal comes from the strict flag the
// parser passes to each Next call, because strict mode can begin
// mid-token-stream ("use strict" directives).
type Options struct {
}

// Lexer scans the source rune by rune. Offsets and columns count runes, so
// a character outside the BMP counts as one position, not two UTF-16 units.
type Lexer struct {
	source string
	units  []uint16 // UTF-16 code units of source; not used for positions
	runes  []rune   // decoded runes aligned to byte reading convenience
	pos    int       // rune index into runes
	line   int
	lastLineStart int // rune index of the start of the current line, for column calc
	unitOffset int    // not updated by the scanner; positions use pos

	prevBeforeExpr bool // before_expr flag of the previously returned token
	sourceFile     string
}

func New(source string) *Lexer {
	runes := []rune(source)
	return &Lexer{
		source:         source,
		runes:          runes,
		units:          utf16.Encode(runes),
		pos:            0,
		line:           1,
		lastLineStart:  0,
		prevBeforeExpr: true, // start-of-program behaves like after an operator: `/` begins a regexp
	}
}

func (l *Lexer) SetSourceFile(name string) { l.sourceFile = name }

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == lineSeparator || r == paragraphSeparator
}

const (
	lineSeparator      rune = '\u2028'
	paragraphSeparator rune = '\u2029'
	byteOrderMark      rune = '\ufeff'
	noBreakSpace       rune = '\u00a0'
)

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', noBreakSpace, byteOrderMark:
		return true
	}
	if unicode.Is(unicode.Zs, r) {
		return true
	}
	return false
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r) || unicode.In(r, unicode.L, unicode.Nl)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc) || r == zeroWidthNonJoiner || r == zeroWidthJoiner
}

const (
	zeroWidthNonJoiner rune = '\u200c'
	zeroWidthJoiner    rune = '\u200d'
)

func (l *Lexer) eof() bool { return l.pos >= len(l.runes) }

func (l *Lexer) peekRune() rune {
	if l.eof() {
		return 0
	}
	return l.runes[l.pos]
}

func (l *Lexer) peekRuneAt(off int) rune {
	if l.pos+off >= len(l.runes) {
		return 0
	}
	return l.runes[l.pos+off]
}

func (l *Lexer) advance() rune {
	r := l.runes[l.pos]
	l.pos++
	if r == '\r' && !l.eof() && l.runes[l.pos] == '\n' {
		// CRLF counts as a single break; swallow the LF here, the caller
		// still only sees one line-terminator event.
		l.pos++
	}
	if isLineTerminator(r) {
		l.line++
		l.lastLineStart = l.pos
	}
	return r
}

func (l *Lexer) position() Position {
	return Position{Line: l.line, Column: l.pos - l.lastLineStart, Offset: l.pos}
}

// skipWhitespaceAndComments returns true if a line terminator was crossed,
// and reports comments via onComment (may be nil).
func (l *Lexer) skipWhitespaceAndComments(onComment func(block bool, text string, start, end Position)) (bool, error) {
	newline := false
	for !l.eof() {
		r := l.peekRune()
		if isWhitespace(r) {
			l.advance()
			continue
		}
		if isLineTerminator(r) {
			newline = true
			l.advance()
			continue
		}
		if r == '/' && l.peekRuneAt(1) == '/' {
			start := l.position()
			l.advance()
			l.advance()
			for !l.eof() && !isLineTerminator(l.peekRune()) {
				l.advance()
			}
			if onComment != nil {
				onComment(false, string(l.runes[start.Offset:l.pos]), start, l.position())
			}
			continue
		}
		if r == '/' && l.peekRuneAt(1) == '*' {
			start := l.position()
			l.advance()
			l.advance()
			closed := false
			for !l.eof() {
				if l.peekRune() == '*' && l.peekRuneAt(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				if isLineTerminator(l.peekRune()) {
					newline = true
				}
				l.advance()
			}
			if !closed {
				return newline, &SyntaxError{Message: "unterminated comment", Pos: start}
			}
			if onComment != nil {
				onComment(true, string(l.runes[start.Offset:l.pos]), start, l.position())
			}
			continue
		}
		// HTML-like comments are only recognised after a line terminator.
		if newline && r == '<' && l.peekRuneAt(1) == '!' && l.peekRuneAt(2) == '-' && l.peekRuneAt(3) == '-' {
			for !l.eof() && !isLineTerminator(l.peekRune()) {
				l.advance()
			}
			continue
		}
		if newline && r == '-' && l.peekRuneAt(1) == '-' && l.peekRuneAt(2) == '>' {
			for !l.eof() && !isLineTerminator(l.peekRune()) {
				l.advance()
			}
			continue
		}
		break
	}
	return newline, nil
}

// punctuators ordered longest-first so greedy matching picks the longest
// valid operator (e.g. >>>= before >>> before >> before >).
var punctuators = []string{
	">>>=", "===", "!==", ">>>", "<<=", ">>=", "**=",
	"&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??",
	"++", "--", "<<", ">>", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"{", "}", "(", ")", "[", "]", ".", ";", ",", "<", ">", "+", "-", "*", "%",
	"&", "|", "^", "!", "~", "?", ":", "=", "/",
}

// beforeExprPunct marks punctuators after which `/` begins a regexp literal.
var beforeExprPunct = map[string]bool{
	"{": true, "(": true, "[": true, ".": true, ";": true, ",": true,
	"<": true, ">": true, "<=": true, ">=": true, "==": true, "!=": true,
	"===": true, "!==": true, "+": true, "-": true, "*": true, "%": true,
	"<<": true, ">>": true, ">>>": true, "&": true, "|": true, "^": true,
	"!": true, "~": true, "&&": true, "||": true, "?": true, ":": true,
	"=": true, "+=": true, "-=": true, "*=": true, "%=": true, "/=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true, ">>>=": true,
	"=>": true,
}

var beforeExprKeyword = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true,
	"new": true, "delete": true, "void": true, "throw": true, "do": true,
	"else": true, "case": true, "yield": true,
}

// Next scans and returns the next token. strict indicates whether the
// current position is inside strict-mode code, which affects octal literal
// legality; the parser tracks strict mode (it can start mid-stream via a
// directive prologue) and passes it in on every call.
func (l *Lexer) Next(strict bool) (Token, error) {
	newline, err := l.skipWhitespaceAndComments(nil)
	if err != nil {
		return Token{}, err
	}
	start := l.position()
	if l.eof() {
		return Token{Type: EOF, Start: start, End: start, NewlineBefore: newline}, nil
	}
	r := l.peekRune()

	switch {
	case isIdentStart(r) || r == '\\':
		return l.scanIdentifier(start, newline)
	case unicode.IsDigit(r) || (r == '.' && unicode.IsDigit(l.peekRuneAt(1))):
		return l.scanNumber(start, newline, strict)
	case r == '"' || r == '\'':
		return l.scanString(start, newline, strict)
	case r == '/' && l.prevBeforeExpr:
		return l.scanRegexp(start, newline)
	default:
		return l.scanPunctuator(start, newline)
	}
}

func (l *Lexer) scanIdentifier(start Position, newline bool) (Token, error) {
	var sb strings.Builder
	escaped := false
	first := true
	for !l.eof() {
		r := l.peekRune()
		if r == '\\' {
			if l.peekRuneAt(1) != 'u' {
				return Token{}, &SyntaxError{Message: "invalid identifier escape", Pos: l.position()}
			}
			escPos := l.position()
			l.advance()
			l.advance()
			code, err := l.readHexDigits(4)
			if err != nil {
				return Token{}, &SyntaxError{Message: "invalid unicode escape", Pos: escPos}
			}
			cr := rune(code)
			if first && !isIdentStart(cr) || !first && !isIdentPart(cr) {
				return Token{}, &SyntaxError{Message: "invalid identifier escape character", Pos: escPos}
			}
			sb.WriteRune(cr)
			escaped = true
			first = false
			continue
		}
		if first && !isIdentStart(r) {
			break
		}
		if !first && !isIdentPart(r) {
			break
		}
		sb.WriteRune(r)
		l.advance()
		first = false
	}
	word := sb.String()
	if word == "" {
		return Token{}, &SyntaxError{Message: fmt.Sprintf("unexpected character %q", l.peekRune()), Pos: start}
	}
	tok := Token{
		Type:          IDENT,
		Value:         word,
		Start:         start,
		End:           l.position(),
		NewlineBefore: newline,
		BeforeExpr:    beforeExprKeyword[word] && !escaped,
	}
	l.prevBeforeExpr = tok.BeforeExpr
	// the escaped flag only affects BeforeExpr and is not carried on the
	// token, so an escaped spelling of a keyword reaches the parser as that
	// keyword.
	_ = escaped
	return tok, nil
}

func (l *Lexer) readHexDigits(n int) (int64, error) {
	if l.pos+n > len(l.runes) {
		return 0, fmt.Errorf("truncated hex escape")
	}
	s := string(l.runes[l.pos : l.pos+n])
	v, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0, err
	}
	l.pos += n
	return v, nil
}

func (l *Lexer) scanNumber(start Position, newline bool, strict bool) (Token, error) {
	var sb strings.Builder
	isOctalLegacy := false
	if l.peekRune() == '0' && (l.peekRuneAt(1) == 'x' || l.peekRuneAt(1) == 'X') {
		sb.WriteRune(l.advance())
		sb.WriteRune(l.advance())
		digits := 0
		for !l.eof() && isHexDigit(l.peekRune()) {
			sb.WriteRune(l.advance())
			digits++
		}
		if digits == 0 {
			return Token{}, &SyntaxError{Message: "missing hexadecimal digits", Pos: start}
		}
		if isIdentStart(l.peekRune()) {
			return Token{}, &SyntaxError{Message: "identifier directly after number", Pos: l.position()}
		}
		v, _ := strconv.ParseUint(sb.String()[2:], 16, 64)
		return l.finishNumber(start, newline, float64(v))
	}
	if l.peekRune() == '0' && l.peekRuneAt(1) >= '0' && l.peekRuneAt(1) <= '9' {
		// Legacy octal: 0 followed by digits 0-7; an 8/9 in the run demotes
		// it to a decimal literal.
		save := l.pos
		sb.WriteRune(l.advance())
		allOctal := true
		for !l.eof() && l.peekRune() >= '0' && l.peekRune() <= '9' {
			if l.peekRune() > '7' {
				allOctal = false
			}
			sb.WriteRune(l.advance())
		}
		if allOctal {
			if strict {
				return Token{}, &SyntaxError{Message: "octal literals are not allowed in strict mode", Pos: start}
			}
			isOctalLegacy = true
			if isIdentStart(l.peekRune()) {
				return Token{}, &SyntaxError{Message: "identifier directly after number", Pos: l.position()}
			}
			v, _ := strconv.ParseUint(sb.String()[1:], 8, 64)
			return l.finishNumber(start, newline, float64(v))
		}
		// Not a valid octal run (contained 8/9): re-scan as decimal below.
		l.pos = save
		sb.Reset()
	}
	_ = isOctalLegacy
	for !l.eof() && unicode.IsDigit(l.peekRune()) {
		sb.WriteRune(l.advance())
	}
	if l.peekRune() == '.' {
		sb.WriteRune(l.advance())
		for !l.eof() && unicode.IsDigit(l.peekRune()) {
			sb.WriteRune(l.advance())
		}
	}
	if l.peekRune() == 'e' || l.peekRune() == 'E' {
		sb.WriteRune(l.advance())
		if l.peekRune() == '+' || l.peekRune() == '-' {
			sb.WriteRune(l.advance())
		}
		if !unicode.IsDigit(l.peekRune()) {
			return Token{}, &SyntaxError{Message: "missing exponent digits", Pos: l.position()}
		}
		for !l.eof() && unicode.IsDigit(l.peekRune()) {
			sb.WriteRune(l.advance())
		}
	}
	if isIdentStart(l.peekRune()) {
		return Token{}, &SyntaxError{Message: "identifier directly after number", Pos: l.position()}
	}
	v, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return Token{}, &SyntaxError{Message: "invalid number literal", Pos: start}
	}
	return l.finishNumber(start, newline, v)
}

func (l *Lexer) finishNumber(start Position, newline bool, v float64) (Token, error) {
	tok := Token{Type: NUMBER, Num: v, Start: start, End: l.position(), NewlineBefore: newline}
	l.prevBeforeExpr = false
	return tok, nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *Lexer) scanString(start Position, newline bool, strict bool) (Token, error) {
	quote := l.advance()
	var sb strings.Builder
	for {
		if l.eof() {
			return Token{}, &SyntaxError{Message: "unterminated string literal", Pos: start}
		}
		r := l.peekRune()
		if isLineTerminator(r) {
			return Token{}, &SyntaxError{Message: "unterminated string literal (newline)", Pos: start}
		}
		if r == quote {
			l.advance()
			break
		}
		if r == '\\' {
			l.advance()
			esc := l.peekRune()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
				l.advance()
			case 'r':
				sb.WriteByte('\r')
				l.advance()
			case 't':
				sb.WriteByte('\t')
				l.advance()
			case 'b':
				sb.WriteByte('\b')
				l.advance()
			case 'f':
				sb.WriteByte('\f')
				l.advance()
			case 'v':
				sb.WriteByte('\v')
				l.advance()
			case '0':
				// \0 not followed by a digit is NUL; followed by a digit it
				// is the start of an octal escape sequence.
				if unicode.IsDigit(l.peekRuneAt(1)) {
					if strict {
						return Token{}, &SyntaxError{Message: "octal escapes are not allowed in strict mode", Pos: l.position()}
					}
					v := l.scanOctalEscape()
					sb.WriteRune(rune(v))
				} else {
					sb.WriteByte(0)
					l.advance()
				}
			case '1', '2', '3', '4', '5', '6', '7':
				if strict {
					return Token{}, &SyntaxError{Message: "octal escapes are not allowed in strict mode", Pos: l.position()}
				}
				v := l.scanOctalEscape()
				sb.WriteRune(rune(v))
			case 'x':
				l.advance()
				v, err := l.readHexDigits(2)
				if err != nil {
					return Token{}, &SyntaxError{Message: "invalid hex escape", Pos: l.position()}
				}
				sb.WriteRune(rune(v))
			case 'u':
				l.advance()
				v, err := l.readHexDigits(4)
				if err != nil {
					return Token{}, &SyntaxError{Message: "invalid unicode escape", Pos: l.position()}
				}
				sb.WriteRune(rune(v))
			case '\n', ' ', ' ':
				l.advance() // line continuation: escaped newline contributes nothing
			case '\r':
				l.advance()
				if l.peekRune() == '\n' {
					l.advance()
				}
			default:
				sb.WriteRune(esc)
				l.advance()
			}
			continue
		}
		sb.WriteRune(r)
		l.advance()
	}
	tok := Token{Type: STRING, Str: sb.String(), Start: start, End: l.position(), NewlineBefore: newline}
	l.prevBeforeExpr = false
	return tok, nil
}

func (l *Lexer) scanOctalEscape() int64 {
	var digits []rune
	for i := 0; i < 3 && !l.eof() && l.peekRune() >= '0' && l.peekRune() <= '7'; i++ {
		if len(digits) == 2 && digits[0] > '3' {
			// A third digit is only consumed while the value stays <= \377.
			break
		}
		digits = append(digits, l.advance())
	}
	v, _ := strconv.ParseInt(string(digits), 8, 32)
	return v
}

func (l *Lexer) scanRegexp(start Position, newline bool) (Token, error) {
	l.advance() // leading /
	var pattern strings.Builder
	inClass := false
	for {
		if l.eof() {
			return Token{}, &SyntaxError{Message: "unterminated regular expression", Pos: start}
		}
		r := l.peekRune()
		if isLineTerminator(r) {
			return Token{}, &SyntaxError{Message: "unterminated regular expression", Pos: start}
		}
		if r == '\\' {
			pattern.WriteRune(l.advance())
			if l.eof() {
				return Token{}, &SyntaxError{Message: "unterminated regular expression", Pos: start}
			}
			pattern.WriteRune(l.advance())
			continue
		}
		if r == '[' {
			inClass = true
		} else if r == ']' {
			inClass = false
		} else if r == '/' && !inClass {
			l.advance()
			break
		}
		pattern.WriteRune(l.advance())
	}
	var flags strings.Builder
	for !l.eof() && isIdentPart(l.peekRune()) {
		flags.WriteRune(l.advance())
	}
	flagStr := flags.String()
	for _, f := range flagStr {
		if strings.IndexRune("gmsiy", f) < 0 {
			return Token{}, &SyntaxError{Message: fmt.Sprintf("invalid regular expression flag %q", f), Pos: start}
		}
	}
	tok := Token{Type: REGEXP, Start: start, End: l.position(), NewlineBefore: newline}
	tok.Regexp.Pattern = pattern.String()
	tok.Regexp.Flags = flagStr
	l.prevBeforeExpr = false
	return tok, nil
}

func (l *Lexer) scanPunctuator(start Position, newline bool) (Token, error) {
	rest := string(l.runes[l.pos:])
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p) {
			for range p {
				l.advance()
			}
			tok := Token{Type: PUNCT, Value: p, Start: start, End: l.position(), NewlineBefore: newline}
			tok.BeforeExpr = beforeExprPunct[p]
			l.prevBeforeExpr = tok.BeforeExpr
			return tok, nil
		}
	}
	return Token{}, &SyntaxError{Message: fmt.Sprintf("unexpected character %q", l.peekRune()), Pos: start}
}

// Slice returns the raw source text between two offsets (rune indices),
// used by the parser to recover `node.start`..`node.end` spans and by
// strict-mode directive-prologue detection ("use strict" with no escapes).
func (l *Lexer) Slice(startOffset, endOffset int) string {
	if startOffset < 0 {
		startOffset = 0
	}
	if endOffset > len(l.runes) {
		endOffset = len(l.runes)
	}
	return string(l.runes[startOffset:endOffset])
}
