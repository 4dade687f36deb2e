package builtins

import "github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"

var errorSubclasses = []string{"EvalError", "RangeError", "ReferenceError", "SyntaxError", "TypeError", "URIError"}

// installError builds Error.prototype/the Error constructor, and a
// subclass constructor (sharing one factory shape) for each of the six
// built-in error kinds, each with its own prototype chained off
// Error.prototype per ES5 15.11.6.
func installError(funcProto, objectProto *object.Object) (ctor *object.Object, subclasses map[string]*object.Object) {
	errorProto := object.NewWithClass(objectProto, "Error")
	errorProto.PutOwnData("name", object.String("Error"))
	errorProto.SetEnumerable("name", false)
	errorProto.PutOwnData("message", object.String(""))
	errorProto.SetEnumerable("message", false)

	method(funcProto, errorProto, "toString", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		ip := hostIP(host)
		if !ip.ErrorGuard.Enter(o) {
			return object.String("[object Error]"), nil
		}
		defer ip.ErrorGuard.Exit(o)
		name := "Error"
		if nv, ok := hostIP(host).GetProperty(o, "name"); ok && !nv.IsUndefined() {
			s, err := hostIP(host).ToStringValue(nv)
			if err != nil {
				return object.Undefined(), err
			}
			name = s
		}
		msg := ""
		if mv, ok := hostIP(host).GetProperty(o, "message"); ok && !mv.IsUndefined() {
			s, err := hostIP(host).ToStringValue(mv)
			if err != nil {
				return object.Undefined(), err
			}
			msg = s
		}
		if msg == "" {
			return object.String(name), nil
		}
		if name == "" {
			return object.String(msg), nil
		}
		return object.String(name + ": " + msg), nil
	})

	makeErrorCtor := func(name string, proto *object.Object) *object.Object {
		return ctorFunc(funcProto, proto, name, 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
			var o *object.Object
			if this.IsObject() && this.Object().Class == "Error" {
				o = this.Object()
			} else {
				o = object.NewWithClass(proto, "Error")
			}
			if len(args) > 0 && !args[0].IsUndefined() {
				s, err := hostIP(host).ToStringValue(args[0])
				if err != nil {
					return object.Undefined(), err
				}
				o.PutOwnData("message", object.String(s))
				o.SetEnumerable("message", false)
			}
			return object.FromObject(o), nil
		})
	}

	ctor = makeErrorCtor("Error", errorProto)

	subclasses = make(map[string]*object.Object, len(errorSubclasses))
	for _, name := range errorSubclasses {
		proto := object.NewWithClass(errorProto, "Error")
		proto.PutOwnData("name", object.String(name))
		proto.SetEnumerable("name", false)
		proto.PutOwnData("message", object.String(""))
		proto.SetEnumerable("message", false)
		sub := makeErrorCtor(name, proto)
		sub.SetProtoChecked(ctor)
		subclasses[name] = sub
	}
	return ctor, subclasses
}
