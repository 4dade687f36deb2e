package builtins

import (
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

func installFunction(funcProto *object.Object) *object.Object {
	method(funcProto, funcProto, "toString", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		if !this.IsObject() || !this.Object().IsCallable() {
			return object.Undefined(), newTypeError(host, "Function.prototype.toString called on incompatible receiver")
		}
		name := this.Object().FnName
		if name == "" {
			name = "anonymous"
		}
		return object.String("function " + name + "() { [native code] }"), nil
	})
	method(funcProto, funcProto, "call", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		if !this.IsCallable() {
			return object.Undefined(), newTypeError(host, "Function.prototype.call called on non-callable")
		}
		return hostIP(host).Call(this.Object(), arg(args, 0), rest(args, 1))
	})
	method(funcProto, funcProto, "apply", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		if !this.IsCallable() {
			return object.Undefined(), newTypeError(host, "Function.prototype.apply called on non-callable")
		}
		argsArr := arg(args, 1)
		var callArgs []object.Value
		if argsArr.IsObject() {
			o := argsArr.Object()
			n := o.Length()
			callArgs = make([]object.Value, n)
			for i := uint32(0); i < n; i++ {
				v, _ := hostIP(host).GetProperty(o, itoa(int(i)))
				callArgs[i] = v
			}
		}
		return hostIP(host).Call(this.Object(), arg(args, 0), callArgs)
	})

	ctor := ctorFunc(funcProto, funcProto, "Function", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		// new Function(...) would require compiling a synthesized source
		// string through the parser from inside a native call; every
		// constructible use in this environment goes through declarations
		// or function expressions instead.
		return object.Undefined(), newTypeError(host, "Function constructor is not supported")
	})
	return ctor
}

func rest(args []object.Value, from int) []object.Value {
	if from >= len(args) {
		return nil
	}
	out := make([]object.Value, len(args)-from)
	copy(out, args[from:])
	return out
}
