// Package builtins wires the ES5 global environment: the fixed bootstrap
// order of Object/Function/Array/String/Boolean/Number/Date/RegExp/Error/
// Math/JSON, plus a handful of methods implemented as guest-source
// polyfills rather than native Go (higher-order Array iteration,
// Function.bind) because they are naturally expressed in terms of other
// built-ins already on the prototype.
package builtins

import (
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/interp"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/parser"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/scope"
)

// NativeFn is the Go shape of a built-in method or constructor body.
type NativeFn func(host object.Host, this object.Value, args []object.Value) (object.Value, error)

// newNative builds a Function object wrapping fn: every public method is a
// native function with a fixed `length` and `name`, non-writable and
// non-enumerable.
func newNative(funcProto *object.Object, name string, length int, fn NativeFn) *object.Object {
	o := object.NewWithClass(funcProto, "Function")
	o.NativeFunc = fn
	o.FnName = name
	o.FnLength = length
	o.PutOwnData("length", object.Number(float64(length)))
	o.SetWritable("length", false)
	o.SetEnumerable("length", false)
	o.SetConfigurable("length", false)
	o.PutOwnData("name", object.String(name))
	o.SetWritable("name", false)
	o.SetEnumerable("name", false)
	return o
}

// method installs a non-enumerable native method on proto, the default
// descriptor bits native methods get unless specified otherwise.
func method(funcProto, proto *object.Object, name string, length int, fn NativeFn) {
	m := newNative(funcProto, name, length, fn)
	proto.PutOwnData(name, object.FromObject(m))
	proto.SetEnumerable(name, false)
}

// ctorFunc installs a constructor: a native Function object carrying a
// `.prototype` back-link to proto and proto's own non-enumerable
// `.constructor` pointing back at it.
func ctorFunc(funcProto, proto *object.Object, name string, length int, fn NativeFn) *object.Object {
	c := newNative(funcProto, name, length, fn)
	c.PutOwnData("prototype", object.FromObject(proto))
	c.SetWritable("prototype", false)
	c.SetEnumerable("prototype", false)
	c.SetConfigurable("prototype", false)
	proto.PutOwnData("constructor", object.FromObject(c))
	proto.SetEnumerable("constructor", false)
	return c
}

func arg(args []object.Value, i int) object.Value {
	if i >= 0 && i < len(args) {
		return args[i]
	}
	return object.Undefined()
}

// hostIP recovers the concrete interpreter behind the narrow object.Host
// seam so native functions can reach conversions, property access, and
// guest calls. Safe: interp.Interpreter is the only Host implementation.
func hostIP(host object.Host) *interp.Interpreter {
	return host.(*interp.Interpreter)
}

func currentRoots(host object.Host) *scope.GlobalRoots {
	return hostIP(host).Roots
}

func newTypeError(host object.Host, format string, args ...any) error {
	return &interp.GuestThrow{V: host.NewError("TypeError", format, args...)}
}

func newRangeError(host object.Host, format string, args ...any) error {
	return &interp.GuestThrow{V: host.NewError("RangeError", format, args...)}
}

func newSyntaxError(host object.Host, format string, args ...any) error {
	return &interp.GuestThrow{V: host.NewError("SyntaxError", format, args...)}
}

// runPolyfill parses and executes a guest-source program against the
// global scope, then discards the AST and strips its position info so the
// host stepper never attributes a step to it — polyfills are string
// constants compiled at construction, not user source.
func runPolyfill(ip *interp.Interpreter, global *scope.Scope, source string) {
	prog, err := parser.New(source, parser.Options{}).ParseProgram()
	if err != nil {
		panic("builtins: polyfill failed to parse: " + err.Error())
	}
	ast.Strip(prog)
	if _, err := ip.EvalInScope(prog.Body, global, object.FromObject(global.Global.GlobalObject)); err != nil {
		panic("builtins: polyfill failed to run: " + err.Error())
	}
}
