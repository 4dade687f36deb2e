// Package bridge converts values between the guest object graph and plain
// Go values, and wraps host Go functions as guest-callable natives. It is
// the host-facing embedding surface: an embedder builds native functions
// with NativeToGuest/CreateNativeFunction and reads results back out with
// GuestToNative, marshaling between host-native and guest values at each
// call boundary.
package bridge

import (
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/interp"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

// Descriptor mirrors the {configurable, enumerable, writable, get, set,
// value} option bag accepted by set_property and friends. The three bits
// are expressed as Not* fields so the zero Descriptor carries the
// documented defaults: configurable=true, enumerable=true, writable=true,
// no accessors.
type Descriptor struct {
	Value           any
	Get             func(ip *interp.Interpreter, this object.Value) (object.Value, error)
	Set             func(ip *interp.Interpreter, this object.Value, v object.Value) error
	NotConfigurable bool
	NotEnumerable   bool
	NotWritable     bool
	HasGetSet       bool
}

// NativeToGuest lowers a plain Go value into the guest object graph:
// primitives pass through, *regexp-backed RegExpData becomes a guest
// RegExp, a Go func becomes a native-function wrapper whose body invokes
// NativeToGuest(fn(args mapped through GuestToNative)), []any recurses
// element-wise into a guest Array, and map[string]any recurses
// property-wise into a plain guest Object.
func NativeToGuest(ip *interp.Interpreter, x any) object.Value {
	switch v := x.(type) {
	case nil:
		return object.Null()
	case object.Value:
		return v
	case bool:
		return object.Bool(v)
	case float64:
		return object.Number(v)
	case int:
		return object.Number(float64(v))
	case string:
		return object.String(v)
	case object.RegExpData:
		return object.FromObject(object.NewRegExp(ip.Roots.RegExpProto, v.Source, v.Flags))
	case func(args []object.Value) (any, error):
		return object.FromObject(wrapNativeFunc(ip, v))
	case []any:
		arr := object.NewArray(ip.Roots.ArrayProto)
		for i, el := range v {
			arr.PutOwnData(itoa(i), NativeToGuest(ip, el))
		}
		arr.SetLength(uint32(len(v)))
		return object.FromObject(arr)
	case map[string]any:
		o := object.New(ip.Roots.ObjectProto)
		for k, el := range v {
			o.PutOwnData(k, NativeToGuest(ip, el))
		}
		return object.FromObject(o)
	default:
		return object.Undefined()
	}
}

func wrapNativeFunc(ip *interp.Interpreter, fn func(args []object.Value) (any, error)) *object.Object {
	o := object.NewWithClass(ip.Roots.FunctionProto, "Function")
	o.NativeFunc = func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		result, err := fn(args)
		if err != nil {
			return object.Undefined(), err
		}
		return NativeToGuest(ip, result), nil
	}
	return o
}

// GuestToNative lowers a guest Value into plain Go data: primitives pass
// through, RegExp returns its backing object.RegExpData, and Arrays/Objects
// are reconstructed recursively. cycleMap maps an already-visited guest
// *object.Object to the native value already built for it, so a cyclic
// guest graph lowers to an equally cyclic native one instead of recursing
// forever.
func GuestToNative(ip *interp.Interpreter, v object.Value, cycleMap map[*object.Object]any) any {
	switch v.Kind() {
	case object.KindUndefined, object.KindNull:
		return nil
	case object.KindBoolean:
		return v.Bool()
	case object.KindNumber:
		return v.Number()
	case object.KindString:
		return v.String()
	}

	o := v.Object()
	if cycleMap == nil {
		cycleMap = map[*object.Object]any{}
	}
	if existing, ok := cycleMap[o]; ok {
		return existing
	}
	if rd, ok := o.Data.(object.RegExpData); ok {
		return rd
	}
	if o.Class == "Array" {
		length := int(o.Length())
		out := make([]any, length)
		cycleMap[o] = out
		for i := 0; i < length; i++ {
			ev, _ := ip.GetProperty(o, itoa(i))
			out[i] = GuestToNative(ip, ev, cycleMap)
		}
		return out
	}
	out := map[string]any{}
	cycleMap[o] = out
	for _, k := range o.OwnKeys() {
		if !o.IsEnumerable(k) {
			continue
		}
		pv, _ := ip.GetProperty(o, k)
		out[k] = GuestToNative(ip, pv, cycleMap)
	}
	return out
}

// CreateNativeFunction wraps a host Go function as a guest-callable native.
// length is reported as the function's declared arity (its `.length`
// property). IllegalConstructor is left unset, so `new` is permitted
// against the result and fn receives the freshly allocated object as this.
func CreateNativeFunction(ip *interp.Interpreter, name string, length int, fn func(host object.Host, this object.Value, args []object.Value) (object.Value, error)) *object.Object {
	o := object.NewWithClass(ip.Roots.FunctionProto, "Function")
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

// CreateAsyncFunction wraps a host Go function whose result arrives later:
// when the guest calls it, the evaluator marks itself paused via
// host.Pause(), fn runs with a resume callback, and the callback's
// eventual (Value, error) is delivered back into the suspended frame via
// *interp.Interpreter.Resume. The next run()/step() then continues.
func CreateAsyncFunction(ip *interp.Interpreter, name string, length int, fn func(args []object.Value, resume func(object.Value, error))) *object.Object {
	o := object.NewWithClass(ip.Roots.FunctionProto, "Function")
	o.FnName = name
	o.FnLength = length
	o.PutOwnData("length", object.Number(float64(length)))
	o.SetWritable("length", false)
	o.SetEnumerable("length", false)
	o.SetConfigurable("length", false)
	o.PutOwnData("name", object.String(name))
	o.SetWritable("name", false)
	o.SetEnumerable("name", false)
	o.AsyncFunc = func(host object.Host, this object.Value, args []object.Value, resume func(object.Value, error)) {
		fn(args, resume)
	}
	return o
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
