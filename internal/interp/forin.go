package interp

import (
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

// valueNode is a pseudo-AST node carrying an already-computed Value,
// injected by the evaluator itself (never produced by the parser) so
// machinery built for ordinary expressions — here, assignment's reference
// resolution — can be reused to bind a for-in loop variable to each
// enumerated key without a separate code path per Left shape (Identifier,
// MemberExpression, or a `var` declarator).
type valueNode struct {
	ast.Pos
	V object.Value
}

func (*valueNode) Type() string { return "__InjectedValue" }

// enumerableKeys walks o's prototype chain collecting own enumerable
// string-keyed property names, each exactly once (the first, most-derived
// occurrence wins), in insertion
// order per object.
func enumerableKeys(o *object.Object) []string {
	seen := map[string]bool{}
	var out []string
	for cur := o; cur != nil; cur = cur.Proto {
		for _, name := range cur.OwnKeys() {
			if seen[name] {
				continue
			}
			seen[name] = true
			if cur.IsEnumerable(name) {
				out = append(out, name)
			}
		}
	}
	return out
}

// forIn-specific Phase values (distinct numbering local to this node kind).
const (
	forInInit     = 0
	forInNext     = 1
	forInBindWait = 2
	forInBodyDone = phaseLoopContinue
)

func (ip *Interpreter) stepForIn(f *Frame) {
	n := f.Node.(*ast.ForInStatement)
	f.IsLoop = true
	switch f.Phase {
	case forInInit:
		f.Phase = 1 // awaiting Right's value
		ip.pushChild(n.Right, f.Scope, f.This)
	case 1:
		if f.Value.IsNullOrUndefined() {
			ip.finish(object.Undefined())
			return
		}
		obj, err := ip.ToObject(f.Value)
		if err != nil {
			ip.finish(object.Undefined())
			return
		}
		f.Names = enumerableKeys(obj)
		f.Index = 0
		f.Phase = forInNext
		ip.advanceForIn(f, n)
	case forInBindWait:
		f.Phase = 3
		ip.pushChild(n.Body, f.Scope, f.This)
	case 3, forInBodyDone:
		f.Phase = forInNext
		ip.advanceForIn(f, n)
	}
}

func (ip *Interpreter) advanceForIn(f *Frame, n *ast.ForInStatement) {
	if f.Index >= len(f.Names) {
		ip.finish(object.Undefined())
		return
	}
	key := f.Names[f.Index]
	f.Index++
	target := forInTarget(n.Left)
	f.Phase = forInBindWait
	ip.pushChild(&ast.AssignmentExpression{Operator: "=", Left: target, Right: &valueNode{V: object.String(key)}}, f.Scope, f.This)
}

// forInTarget extracts the assignable left-hand node: a bare `var`
// declarator's identifier, or the loop's own LValue expression.
func forInTarget(left ast.Node) ast.Node {
	if decl, ok := left.(*ast.VariableDeclaration); ok {
		return decl.Declarations[0].Id
	}
	return left
}
