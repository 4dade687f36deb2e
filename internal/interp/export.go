package interp

import (
	"fmt"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/scope"
)

// Call invokes fn synchronously to completion — the host-facing surface
// package builtins uses to run a guest callback (Array.prototype.forEach's
// iteratee, a sort comparator, a getter) from native Go code.
func (ip *Interpreter) Call(fn *object.Object, this object.Value, args []object.Value) (object.Value, error) {
	return ip.callSync(fn, this, args)
}

// Construct runs the `new` operator against fn from native Go code.
func (ip *Interpreter) Construct(fn *object.Object, args []object.Value) (object.Value, error) {
	return ip.construct(fn, args)
}

// GetProperty resolves o.name, trampolining through any accessor getter.
func (ip *Interpreter) GetProperty(o *object.Object, name string) (object.Value, bool) {
	return ip.getProperty(o, name)
}

// SetProperty assigns o.name = v per ES5 [[Put]], trampolining through any
// accessor setter. Returns a Go error (wrapping the guest exception's
// message) in strict mode on rejection; nil otherwise.
func (ip *Interpreter) SetProperty(o *object.Object, name string, v object.Value, strict bool) error {
	if e := ip.setProperty(o, name, v, strict); e != nil {
		return fmt.Errorf("%s", ip.safeToString(*e))
	}
	return nil
}

// NewGuestFunction exposes guest-function construction to code outside
// package interp.
func (ip *Interpreter) NewGuestFunction(name string, params []*ast.Identifier, body *ast.BlockStatement, closure *scope.Scope, strict bool) *object.Object {
	return ip.newGuestFunction(name, params, body, closure, strict)
}

// EvalInScope runs stmts to completion in scope sc with `this` binding this_
// (the eval built-in's semantics): a hoisting pass followed by driving a private
// nested frame stack, mirroring callSync but for a statement list rather
// than a single function body. Returns the last ExpressionStatement value.
func (ip *Interpreter) EvalInScope(stmts []ast.Node, sc *scope.Scope, this object.Value) (object.Value, error) {
	scope.Hoist(sc, stmts, ip.makeFunctionDeclaration)

	savedStack, savedLast, savedDone, savedUncaught := ip.stack, ip.lastValue, ip.done, ip.uncaught
	ip.stack, ip.lastValue, ip.done, ip.uncaught = nil, object.Undefined(), false, nil

	ip.push(&Frame{Node: &ast.Program{Body: stmts}, Scope: sc, This: this})
	for len(ip.stack) > 0 && !ip.done && !ip.paused {
		ip.dispatch(ip.top())
	}

	result := ip.lastValue
	var err error
	if ip.uncaught != nil {
		err = fmt.Errorf("%s", ip.safeToString(ip.uncaught.Value))
	}

	ip.stack, ip.lastValue, ip.done, ip.uncaught = savedStack, savedLast, savedDone, savedUncaught
	return result, err
}
