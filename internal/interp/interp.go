// Package interp is the step-driven ES5 evaluator: an
// explicit stack of Frames replaces host recursion, so a caller can drive
// execution one step at a time, pause inside an async native call, and
// resume later without unwinding the Go call stack.
package interp

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/scope"
)

// Interpreter owns the frame stack, the global scope, and the shared
// visit-guards used by Array/Error toString.
type Interpreter struct {
	stack []*Frame

	Global *scope.Scope
	Roots  *scope.GlobalRoots

	program *ast.Program
	// progIdx is how far into program.Body the top-level Program frame has
	// consumed; AppendCode lets a caller push more statements mid-run
	// and resumes from here.
	progIdx int

	lastValue object.Value
	uncaught  *Completion
	paused    bool
	done      bool

	ArrayGuard *object.VisitGuard
	ErrorGuard *object.VisitGuard

	nextFnID uint64

	// resumeVal/resumeErr/hasResume hold the value or error delivered by
	// Resume for a paused native async call; the owning Frame consumes them
	// on the next Step.
	resumeVal Value2
	resumeErr error
	hasResume bool
}

// New creates an interpreter over a parsed Program and an already-populated
// global scope (package builtins constructs Roots and the global scope
// before handing control here).
func New(program *ast.Program, global *scope.Scope) *Interpreter {
	ip := &Interpreter{
		program:    program,
		Global:     global,
		Roots:      global.Global,
		ArrayGuard: object.NewVisitGuard(),
		ErrorGuard: object.NewVisitGuard(),
	}
	scope.Hoist(global, program.Body, ip.makeFunctionDeclaration)
	for _, stmt := range program.Body {
		es, ok := stmt.(*ast.ExpressionStatement)
		if !ok || es.Directive == "" {
			break
		}
		if es.Directive == "use strict" {
			global.Strict = true
		}
	}
	ip.pushProgramFrame()
	return ip
}

func (ip *Interpreter) pushProgramFrame() {
	ip.push(&Frame{Node: ip.program, Scope: ip.Global, Phase: ip.progIdx})
}

// AppendCode extends the running program with additional parsed statements
// (append_code) and, if the interpreter had already run to
// completion, reopens the top-level frame so Step resumes at the new code.
func (ip *Interpreter) AppendCode(stmts []ast.Node) {
	resumeAt := len(ip.program.Body)
	ip.program.Body = append(ip.program.Body, stmts...)
	scope.Hoist(ip.Global, stmts, ip.makeFunctionDeclaration)
	if ip.done {
		ip.done = false
		ip.progIdx = resumeAt
		ip.pushProgramFrame()
		ip.top().Value = ip.lastValue
	}
}

func (ip *Interpreter) push(f *Frame) { ip.stack = append(ip.stack, f) }

func (ip *Interpreter) pop() *Frame {
	n := len(ip.stack)
	f := ip.stack[n-1]
	ip.stack = ip.stack[:n-1]
	return f
}

func (ip *Interpreter) top() *Frame {
	if len(ip.stack) == 0 {
		return nil
	}
	return ip.stack[len(ip.stack)-1]
}

func (ip *Interpreter) parent() *Frame {
	if len(ip.stack) < 2 {
		return nil
	}
	return ip.stack[len(ip.stack)-2]
}

// Done reports whether the program has run to completion (or stopped on an
// uncaught exception).
func (ip *Interpreter) Done() bool { return ip.done }

// Paused reports whether evaluation is blocked on an outstanding async
// native call.
func (ip *Interpreter) Paused() bool { return ip.paused }

// Value returns the completion value of the last top-level statement
// executed, mirroring a REPL's "last expression result".
func (ip *Interpreter) Value() object.Value { return ip.lastValue }

// Uncaught returns the exception value that stopped the program, if any.
func (ip *Interpreter) Uncaught() (object.Value, bool) {
	if ip.uncaught == nil {
		return object.Undefined(), false
	}
	return ip.uncaught.Value, true
}

// Pause marks the interpreter paused; called by a native function's Host
// argument (the Interpreter implements object.Host) before it hands off to
// an async operation. Resume un-pauses and delivers the callback's result.
func (ip *Interpreter) Pause() { ip.paused = true }

// Resume delivers a value/error to the most recently paused native call and
// un-pauses the interpreter so Step can continue.
func (ip *Interpreter) Resume(v object.Value, err error) {
	ip.resumeVal, ip.resumeErr, ip.hasResume = v, err, true
	ip.paused = false
}

// NewError builds a guest Error instance of the named subclass (TypeError,
// RangeError, ...), implementing object.Host for native functions.
func (ip *Interpreter) NewError(class, format string, args ...any) object.Value {
	ctor := ip.Roots.ErrorCtors[class]
	proto := ip.Roots.ErrorProto
	if ctor != nil {
		if p, ok := ctor.GetOwn("prototype"); ok && p.IsObject() {
			proto = p.Object()
		}
	}
	e := object.NewWithClass(proto, "Error")
	e.PutOwnData("message", object.String(fmt.Sprintf(format, args...)))
	e.SetEnumerable("message", false)
	e.PutOwnData("name", object.String(class))
	e.SetEnumerable("name", false)
	return object.FromObject(e)
}

// Step executes exactly one frame transition: either the top frame pushes a
// child, or it finishes and deposits its result into its parent (popping
// itself), or it raises a completion that unwinds zero or more frames until
// absorbed. Returns false once the program is Done.
func (ip *Interpreter) Step() bool {
	if ip.done || ip.paused {
		return !ip.done
	}
	f := ip.top()
	if f == nil {
		ip.finishTopLevel()
		return !ip.done
	}
	ip.dispatch(f)
	return !ip.done
}

// Run steps until the program is done or paused.
func (ip *Interpreter) Run() error {
	for !ip.done && !ip.paused {
		ip.Step()
	}
	if v, ok := ip.Uncaught(); ok {
		return fmt.Errorf("uncaught exception: %s", ip.safeToString(v))
	}
	return nil
}

func (ip *Interpreter) finishTopLevel() {
	ip.done = true
}

func (ip *Interpreter) safeToString(v object.Value) string {
	s, err := ip.ToStringValue(v)
	if err != nil {
		return v.GoString()
	}
	return s
}

// --- raise / unwind ---

// raise pops frames from the stack until the completion c is absorbed by a
// loop (break/continue), a try's handler/finalizer, a call boundary
// (return), or the stack bottom (throw escapes as Uncaught; a return/break/
// continue that reaches the bottom ends the run without an uncaught value).
func (ip *Interpreter) raise(c *Completion) {
	for {
		f := ip.top()
		if f == nil {
			if c.Kind == Throw {
				ip.uncaught = c
			}
			ip.done = true
			return
		}
		// A TryStatement gets first refusal on every abrupt completion kind,
		// not just Throw: `finally` must run whether the try block exits by
		// break, continue, return, or throw (ES5 12.14).
		if tv, ok := f.Node.(*ast.TryStatement); ok {
			if c.Kind == Throw && f.Phase == tryRunning && tv.Handler != nil {
				catchScope := scope.NewSpecial(f.Scope)
				catchScope.Declare(tv.Handler.Param.Name)
				catchScope.Table.PutOwnData(tv.Handler.Param.Name, c.Value)
				f.Phase = tryCatchRun
				ip.push(&Frame{Node: tv.Handler.Body, Scope: catchScope, This: f.This})
				return
			}
			if tv.Finalizer != nil && f.CV == nil && (f.Phase == tryRunning || f.Phase == tryCatchRun) {
				f.CV = c
				f.Phase = tryFinallyRun
				ip.push(&Frame{Node: tv.Finalizer, Scope: f.Scope, This: f.This})
				return
			}
		}
		switch c.Kind {
		case Break:
			if f.IsLoop || f.IsSwitch {
				if c.Label == "" || labelMatches(f.Labels, c.Label) {
					ip.pop()
					ip.deliverToParent(object.Undefined())
					return
				}
			}
		case Continue:
			if f.IsLoop {
				if c.Label == "" || labelMatches(f.Labels, c.Label) {
					f.Phase = phaseLoopContinue
					return
				}
			}
		case Return:
			if _, ok := f.Extra.(*callMarker); ok {
				ip.pop()
				ip.deliverToParent(c.Value)
				return
			}
		}
		ip.pop()
		// LabeledStatement passes break/continue-with-matching-label through
		// to here only if it wasn't consumed above (i.e. the label belongs to
		// a statement that isn't itself a loop or switch).
		if lf, ok := f.Node.(*ast.LabeledStatement); ok && (c.Kind == Break || c.Kind == Continue) && c.Label == lf.Label {
			ip.deliverToParent(object.Undefined())
			return
		}
	}
}

func labelMatches(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// callMarker tags a Frame as a function-call boundary for Return to target.
type callMarker struct{}

// deliverToParent stores v in the new top frame's Value scratch; used once
// unwind has popped to the frame that should observe the result next.
func (ip *Interpreter) deliverToParent(v object.Value) {
	if p := ip.top(); p != nil {
		p.Value = v
	} else {
		ip.lastValue = v
	}
}

// throwErr is a convenience for native/builtin code paths that need to
// raise a guest exception without going through a ThrowStatement node.
func (ip *Interpreter) throwErr(v object.Value) {
	ip.raise(&Completion{Kind: Throw, Value: v})
}

func (ip *Interpreter) typeError(format string, args ...any) object.Value {
	return ip.NewError("TypeError", format, args...)
}
func (ip *Interpreter) refError(format string, args ...any) object.Value {
	return ip.NewError("ReferenceError", format, args...)
}
func (ip *Interpreter) rangeError(format string, args ...any) object.Value {
	return ip.NewError("RangeError", format, args...)
}

// phaseLoopContinue is the Phase value every loop kind (while/do-while/for/
// for-in) treats as "resume the per-iteration step" — set directly by
// raise() when a continue is absorbed, and reused by the loop's own normal
// flow once its body finishes, so both paths converge on one state. Try-
// statement phase numbering lives next to stepTry in dispatch.go since
// raise() and stepTry must agree on it but no other node kind touches it.
const phaseLoopContinue = 4

// --- Type conversions: ToNumber/ToString/ToPrimitive/ToBoolean and
// abstract/strict equality, implementing ES5's full abstract-operator
// set. ---

func (ip *Interpreter) ToBoolean(v object.Value) bool {
	switch v.Kind() {
	case object.KindUndefined, object.KindNull:
		return false
	case object.KindBoolean:
		return v.Bool()
	case object.KindNumber:
		n := v.Number()
		return n != 0 && !math.IsNaN(n)
	case object.KindString:
		return v.String() != ""
	default:
		return true
	}
}

func (ip *Interpreter) ToNumber(v object.Value) (float64, error) {
	switch v.Kind() {
	case object.KindUndefined:
		return math.NaN(), nil
	case object.KindNull:
		return 0, nil
	case object.KindBoolean:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case object.KindNumber:
		return v.Number(), nil
	case object.KindString:
		return stringToNumber(v.String()), nil
	default:
		prim, err := ip.ToPrimitive(v, "number")
		if err != nil {
			return 0, err
		}
		if prim.IsObject() {
			return math.NaN(), nil
		}
		return ip.ToNumber(prim)
	}
}

func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	if t == "Infinity" || t == "+Infinity" {
		return math.Inf(1)
	}
	if t == "-Infinity" {
		return math.Inf(-1)
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		n, err := strconv.ParseUint(t[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	n, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

func (ip *Interpreter) ToStringValue(v object.Value) (string, error) {
	switch v.Kind() {
	case object.KindUndefined:
		return "undefined", nil
	case object.KindNull:
		return "null", nil
	case object.KindBoolean:
		if v.Bool() {
			return "true", nil
		}
		return "false", nil
	case object.KindNumber:
		return formatNumber(v.Number()), nil
	case object.KindString:
		return v.String(), nil
	default:
		prim, err := ip.ToPrimitive(v, "string")
		if err != nil {
			return "", err
		}
		if prim.IsObject() {
			return "[object " + prim.Object().Class + "]", nil
		}
		return ip.ToStringValue(prim)
	}
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if n == 0 {
		if math.Signbit(n) {
			return "0"
		}
		return "0"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// ToPrimitive implements the ES5 [[DefaultValue]] algorithm: for hint
// "string" try toString then valueOf; otherwise (including "default") try
// valueOf then toString. Call-through is direct Go invocation of the
// resolved method rather than a pushed Frame, since ToPrimitive is only
// ever invoked from already-synchronous helper code (binary operators,
// conversions) and the methods involved are guest or native functions
// callable via ip.callSync.
func (ip *Interpreter) ToPrimitive(v object.Value, hint string) (object.Value, error) {
	if !v.IsObject() {
		return v, nil
	}
	methods := []string{"valueOf", "toString"}
	if hint == "string" {
		methods = []string{"toString", "valueOf"}
	}
	for _, name := range methods {
		fnv, ok := ip.getProperty(v.Object(), name)
		if !ok || !fnv.IsCallable() {
			continue
		}
		res, err := ip.callSync(fnv.Object(), v, nil)
		if err != nil {
			return object.Undefined(), err
		}
		if !res.IsObject() {
			return res, nil
		}
	}
	return object.Undefined(), fmt.Errorf("cannot convert object to primitive")
}

// ToObject boxes a primitive per ES5 9.9, or returns the object unchanged.
func (ip *Interpreter) ToObject(v object.Value) (*object.Object, error) {
	switch v.Kind() {
	case object.KindUndefined, object.KindNull:
		return nil, fmt.Errorf("cannot convert %s to object", v.GoString())
	case object.KindObject:
		return v.Object(), nil
	case object.KindBoolean:
		o := object.NewWithClass(ip.Roots.BooleanProto, "Boolean")
		o.Data = v.Bool()
		return o, nil
	case object.KindNumber:
		o := object.NewWithClass(ip.Roots.NumberProto, "Number")
		o.Data = v.Number()
		return o, nil
	default:
		o := object.NewWithClass(ip.Roots.StringProto, "String")
		o.Data = v.String()
		return o, nil
	}
}

// ToInt32 / ToUint32 implement ES5 9.5/9.6 for the bitwise operators.
func (ip *Interpreter) ToInt32(v object.Value) (int32, error) {
	n, err := ip.ToNumber(v)
	if err != nil {
		return 0, err
	}
	return toInt32(n), nil
}

func toInt32(n float64) int32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	n = math.Trunc(n)
	m := math.Mod(n, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	if m >= 2147483648 {
		m -= 4294967296
	}
	return int32(m)
}

func toUint32(n float64) uint32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	n = math.Trunc(n)
	m := math.Mod(n, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

// StrictEquals implements ES5 11.9.6.
func (ip *Interpreter) StrictEquals(a, b object.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case object.KindUndefined, object.KindNull:
		return true
	case object.KindBoolean:
		return a.Bool() == b.Bool()
	case object.KindNumber:
		return a.Number() == b.Number()
	case object.KindString:
		return a.String() == b.String()
	default:
		return a.Object() == b.Object()
	}
}

// AbstractEquals implements ES5 11.9.3, recursing through ToPrimitive/
// ToNumber per the coercion table.
func (ip *Interpreter) AbstractEquals(a, b object.Value) (bool, error) {
	if a.Kind() == b.Kind() {
		return ip.StrictEquals(a, b), nil
	}
	if a.IsNullOrUndefined() && b.IsNullOrUndefined() {
		return true, nil
	}
	if a.IsNullOrUndefined() || b.IsNullOrUndefined() {
		return false, nil
	}
	if a.IsNumber() && b.IsString() {
		bn, err := ip.ToNumber(b)
		if err != nil {
			return false, err
		}
		return a.Number() == bn, nil
	}
	if a.IsString() && b.IsNumber() {
		an, err := ip.ToNumber(a)
		if err != nil {
			return false, err
		}
		return an == b.Number(), nil
	}
	if a.IsBoolean() {
		an, _ := ip.ToNumber(a)
		return ip.AbstractEquals(object.Number(an), b)
	}
	if b.IsBoolean() {
		bn, _ := ip.ToNumber(b)
		return ip.AbstractEquals(a, object.Number(bn))
	}
	if (a.IsNumber() || a.IsString()) && b.IsObject() {
		bp, err := ip.ToPrimitive(b, "default")
		if err != nil {
			return false, err
		}
		return ip.AbstractEquals(a, bp)
	}
	if a.IsObject() && (b.IsNumber() || b.IsString()) {
		ap, err := ip.ToPrimitive(a, "default")
		if err != nil {
			return false, err
		}
		return ip.AbstractEquals(ap, b)
	}
	return false, nil
}

// TypeOf implements the `typeof` unary operator (ES5 11.4.3).
func (ip *Interpreter) TypeOf(v object.Value) string {
	switch v.Kind() {
	case object.KindUndefined:
		return "undefined"
	case object.KindNull:
		return "object"
	case object.KindBoolean:
		return "boolean"
	case object.KindNumber:
		return "number"
	case object.KindString:
		return "string"
	default:
		if v.Object().IsCallable() {
			return "function"
		}
		return "object"
	}
}
