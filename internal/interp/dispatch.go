package interp

import (
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/scope"
)

// Try-statement phase numbering (shared between dispatch here and raise() in
// interp.go, since raise() drives the abrupt-completion transitions while
// stepTry drives the normal-completion ones; both must agree on what each
// number means for this node kind specifically).
const (
	tryInit       = 0
	tryRunning    = 1
	tryCatchRun   = 2
	tryFinallyRun = 3
)

// pushChild pushes a fresh Frame for node, to be evaluated with scope sc and
// `this` binding this_. The caller's frame remains just below it on the
// stack; when the child finishes it deposits its result into the caller's
// Value field via finish.
func (ip *Interpreter) pushChild(node ast.Node, sc *scope.Scope, this object.Value) {
	ip.push(&Frame{Node: node, Scope: sc, This: this})
}

// finish pops the current top frame and deposits v into the next frame's
// Value field (or, at the bottom of the stack, records it as the
// interpreter's last completion value).
func (ip *Interpreter) finish(v object.Value) {
	ip.pop()
	ip.deliverToParent(v)
}

// dispatch advances f by exactly one node-kind-specific transition.
func (ip *Interpreter) dispatch(f *Frame) {
	switch f.Node.(type) {
	case *ast.Program:
		ip.stepProgram(f)
	case *ast.BlockStatement:
		ip.stepBlock(f)
	case *ast.ExpressionStatement:
		ip.stepExprStmt(f)
	case *ast.EmptyStatement, *ast.DebuggerStatement, *ast.FunctionDeclaration:
		ip.finish(object.Undefined())
	case *ast.IfStatement:
		ip.stepIf(f)
	case *ast.SwitchStatement:
		ip.stepSwitch(f)
	case *ast.ForStatement:
		ip.stepFor(f)
	case *ast.ForInStatement:
		ip.stepForIn(f)
	case *ast.WhileStatement:
		ip.stepWhile(f)
	case *ast.DoWhileStatement:
		ip.stepDoWhile(f)
	case *ast.BreakStatement:
		ip.stepBreak(f)
	case *ast.ContinueStatement:
		ip.stepContinue(f)
	case *ast.ReturnStatement:
		ip.stepReturn(f)
	case *ast.ThrowStatement:
		ip.stepThrow(f)
	case *ast.TryStatement:
		ip.stepTry(f)
	case *ast.WithStatement:
		ip.stepWith(f)
	case *ast.LabeledStatement:
		ip.stepLabeled(f)
	case *ast.VariableDeclaration:
		ip.stepVarDecl(f)
	default:
		ip.stepExpr(f)
	}
}

func (ip *Interpreter) stepProgram(f *Frame) {
	body := f.Node.(*ast.Program).Body
	if f.Phase > 0 {
		if _, ok := body[f.Phase-1].(*ast.ExpressionStatement); ok {
			ip.lastValue = f.Value
		}
	}
	if f.Phase >= len(body) {
		ip.pop()
		ip.done = true
		return
	}
	child := body[f.Phase]
	f.Phase++
	ip.pushChild(child, f.Scope, f.This)
}

func (ip *Interpreter) stepBlock(f *Frame) {
	body := f.Node.(*ast.BlockStatement).Body
	if f.Phase >= len(body) {
		ip.finish(object.Undefined())
		return
	}
	child := body[f.Phase]
	f.Phase++
	ip.pushChild(child, f.Scope, f.This)
}

func (ip *Interpreter) stepExprStmt(f *Frame) {
	n := f.Node.(*ast.ExpressionStatement)
	if f.Phase == 0 {
		f.Phase = 1
		ip.pushChild(n.Expression, f.Scope, f.This)
		return
	}
	ip.finish(f.Value)
}

func (ip *Interpreter) stepIf(f *Frame) {
	n := f.Node.(*ast.IfStatement)
	switch f.Phase {
	case 0:
		f.Phase = 1
		ip.pushChild(n.Test, f.Scope, f.This)
	case 1:
		test := ip.ToBoolean(f.Value)
		f.Phase = 2
		if test {
			ip.pushChild(n.Consequent, f.Scope, f.This)
		} else if n.Alternate != nil {
			ip.pushChild(n.Alternate, f.Scope, f.This)
		} else {
			ip.finish(object.Undefined())
		}
	default:
		ip.finish(object.Undefined())
	}
}

func (ip *Interpreter) stepWhile(f *Frame) {
	n := f.Node.(*ast.WhileStatement)
	f.IsLoop = true
	switch f.Phase {
	case 1:
		if !ip.ToBoolean(f.Value) {
			ip.finish(object.Undefined())
			return
		}
		f.Phase = 2
		ip.pushChild(n.Body, f.Scope, f.This)
	default: // 0 (start), 2 (body just finished), or phaseLoopContinue
		f.Phase = 1
		ip.pushChild(n.Test, f.Scope, f.This)
	}
}

func (ip *Interpreter) stepDoWhile(f *Frame) {
	n := f.Node.(*ast.DoWhileStatement)
	f.IsLoop = true
	switch f.Phase {
	case 0:
		f.Phase = 1
		ip.pushChild(n.Body, f.Scope, f.This)
	case 2:
		if ip.ToBoolean(f.Value) {
			f.Phase = 0
		} else {
			ip.finish(object.Undefined())
		}
	default: // 1 (body just finished) or phaseLoopContinue
		f.Phase = 2
		ip.pushChild(n.Test, f.Scope, f.This)
	}
}

func (ip *Interpreter) stepFor(f *Frame) {
	n := f.Node.(*ast.ForStatement)
	f.IsLoop = true
	for {
		switch f.Phase {
		case 0:
			f.Phase = 1
			if n.Init != nil {
				ip.pushChild(n.Init, f.Scope, f.This)
				return
			}
		case 1:
			if n.Test != nil {
				f.Phase = 2
				ip.pushChild(n.Test, f.Scope, f.This)
				return
			}
			f.Phase = 3
		case 2:
			f.Phase = 3
			if !ip.ToBoolean(f.Value) {
				ip.finish(object.Undefined())
				return
			}
		case 3:
			f.Phase = phaseLoopContinue
			ip.pushChild(n.Body, f.Scope, f.This)
			return
		case phaseLoopContinue: // body just finished, or continue signaled
			f.Phase = 1
			if n.Update != nil {
				ip.pushChild(n.Update, f.Scope, f.This)
				return
			}
		}
	}
}

func (ip *Interpreter) stepBreak(f *Frame) {
	n := f.Node.(*ast.BreakStatement)
	ip.pop()
	ip.raise(&Completion{Kind: Break, Label: n.Label})
}

func (ip *Interpreter) stepContinue(f *Frame) {
	n := f.Node.(*ast.ContinueStatement)
	ip.pop()
	ip.raise(&Completion{Kind: Continue, Label: n.Label})
}

func (ip *Interpreter) stepReturn(f *Frame) {
	n := f.Node.(*ast.ReturnStatement)
	if f.Phase == 0 && n.Argument != nil {
		f.Phase = 1
		ip.pushChild(n.Argument, f.Scope, f.This)
		return
	}
	v := f.Value
	ip.pop()
	ip.raise(&Completion{Kind: Return, Value: v})
}

func (ip *Interpreter) stepThrow(f *Frame) {
	n := f.Node.(*ast.ThrowStatement)
	if f.Phase == 0 {
		f.Phase = 1
		ip.pushChild(n.Argument, f.Scope, f.This)
		return
	}
	v := f.Value
	ip.pop()
	ip.raise(&Completion{Kind: Throw, Value: v})
}

// stepTry drives the normal-completion path; raise() drives interception of
// an abrupt completion (break/continue/return/throw) arising from the
// block or handler body.
func (ip *Interpreter) stepTry(f *Frame) {
	n := f.Node.(*ast.TryStatement)
	switch f.Phase {
	case tryInit:
		f.Phase = tryRunning
		ip.push(&Frame{Node: n.Block, Scope: f.Scope, This: f.This})
	case tryRunning, tryCatchRun:
		if n.Finalizer != nil {
			f.Phase = tryFinallyRun
			ip.push(&Frame{Node: n.Finalizer, Scope: f.Scope, This: f.This})
			return
		}
		ip.finish(object.Undefined())
	case tryFinallyRun:
		pending := f.CV
		ip.pop()
		if pending != nil {
			ip.raise(pending)
			return
		}
		ip.deliverToParent(object.Undefined())
	}
}

func (ip *Interpreter) stepWith(f *Frame) {
	n := f.Node.(*ast.WithStatement)
	switch f.Phase {
	case 0:
		f.Phase = 1
		ip.pushChild(n.Object, f.Scope, f.This)
	case 1:
		obj, err := ip.ToObject(f.Value)
		if err != nil {
			ip.pop()
			ip.raise(&Completion{Kind: Throw, Value: ip.typeError("%v", err)})
			return
		}
		withScope := scope.NewWith(f.Scope, obj)
		f.Phase = 2
		ip.push(&Frame{Node: n.Body, Scope: withScope, This: f.This})
	default:
		ip.finish(object.Undefined())
	}
}

// stepLabeled attaches its label to the immediately pushed child frame so
// break/continue targeting by this label resolve directly there; a bare
// break whose label belongs to an enclosing LabeledStatement is still
// caught by the bottom-of-loop fallback in raise(). A loop wrapped by more
// than one stacked label only honors `continue` by its innermost label —
// an intentional simplification of a rarely used ES5 corner.
func (ip *Interpreter) stepLabeled(f *Frame) {
	n := f.Node.(*ast.LabeledStatement)
	if f.Phase == 0 {
		f.Phase = 1
		ip.pushChild(n.Body, f.Scope, f.This)
		ip.top().Labels = append(ip.top().Labels, n.Label)
		return
	}
	ip.finish(object.Undefined())
}

func (ip *Interpreter) stepVarDecl(f *Frame) {
	n := f.Node.(*ast.VariableDeclaration)
	if f.Phase > 0 {
		d := n.Declarations[f.Phase-1]
		f.Scope.Set(d.Id.Name, f.Value, f.Scope.Strict)
	}
	for f.Phase < len(n.Declarations) {
		d := n.Declarations[f.Phase]
		f.Phase++
		if d.Init != nil {
			ip.pushChild(d.Init, f.Scope, f.This)
			return
		}
	}
	ip.finish(object.Undefined())
}

func (ip *Interpreter) stepSwitch(f *Frame) {
	n := f.Node.(*ast.SwitchStatement)
	f.IsSwitch = true
	switch f.Phase {
	case 0:
		f.Phase = 1
		ip.pushChild(n.Discriminant, f.Scope, f.This)
	case 1:
		f.SwitchValue = f.Value
		f.DefaultIdx = -1
		for i, c := range n.Cases {
			if c.Test == nil {
				f.DefaultIdx = i
			}
		}
		f.CaseIdx = 0
		f.Phase = 2
		ip.advanceSwitchTest(f, n)
	case 2:
		if ip.StrictEquals(f.Value, f.SwitchValue) {
			f.Matched = true
			ip.beginSwitchExec(f, n, f.CaseIdx)
			return
		}
		f.CaseIdx++
		ip.advanceSwitchTest(f, n)
	case 3:
		ip.stepSwitchExec(f, n)
	}
}

func (ip *Interpreter) advanceSwitchTest(f *Frame, n *ast.SwitchStatement) {
	for f.CaseIdx < len(n.Cases) {
		c := n.Cases[f.CaseIdx]
		if c.Test == nil {
			f.CaseIdx++
			continue
		}
		ip.pushChild(c.Test, f.Scope, f.This)
		return
	}
	if f.DefaultIdx >= 0 {
		ip.beginSwitchExec(f, n, f.DefaultIdx)
		return
	}
	ip.finish(object.Undefined())
}

func (ip *Interpreter) beginSwitchExec(f *Frame, n *ast.SwitchStatement, startCase int) {
	var flat []ast.Node
	for i := startCase; i < len(n.Cases); i++ {
		flat = append(flat, n.Cases[i].Consequent...)
	}
	f.Extra = flat
	f.Index = 0
	f.Phase = 3
	ip.stepSwitchExec(f, n)
}

func (ip *Interpreter) stepSwitchExec(f *Frame, n *ast.SwitchStatement) {
	flat, _ := f.Extra.([]ast.Node)
	if f.Index >= len(flat) {
		ip.finish(object.Undefined())
		return
	}
	stmt := flat[f.Index]
	f.Index++
	ip.pushChild(stmt, f.Scope, f.This)
}
