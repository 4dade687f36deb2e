package builtins

import "github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"

func installBoolean(funcProto, objectProto *object.Object) *object.Object {
	booleanProto := object.NewWithClass(objectProto, "Boolean")
	booleanProto.Data = false

	thisBool := func(this object.Value) bool {
		if this.IsBoolean() {
			return this.Bool()
		}
		if this.IsObject() && this.Object().Class == "Boolean" {
			if b, ok := this.Object().Data.(bool); ok {
				return b
			}
		}
		return false
	}

	method(funcProto, booleanProto, "toString", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		if thisBool(this) {
			return object.String("true"), nil
		}
		return object.String("false"), nil
	})
	method(funcProto, booleanProto, "valueOf", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		return object.Bool(thisBool(this)), nil
	})

	ctor := ctorFunc(funcProto, booleanProto, "Boolean", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		b := hostIP(host).ToBoolean(arg(args, 0))
		if this.IsUndefined() {
			return object.Bool(b), nil
		}
		o := this.Object()
		o.Data = b
		return object.FromObject(o), nil
	})
	return ctor
}
