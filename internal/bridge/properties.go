package bridge

import (
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/interp"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

// DefineProperty installs name on o per desc: set_property's recognized
// option bag is {configurable, enumerable, writable, get, set, value},
// defaulting to configurable=true, enumerable=true, writable=true, no
// accessors when desc is the zero Descriptor.
func DefineProperty(ip *interp.Interpreter, o *object.Object, name string, desc Descriptor) {
	if desc.HasGetSet {
		var getter, setter *object.Object
		if desc.Get != nil {
			getter = CreateNativeFunction(ip, "get "+name, 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
				return desc.Get(ip, this)
			})
		}
		if desc.Set != nil {
			setter = CreateNativeFunction(ip, "set "+name, 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
				return object.Undefined(), desc.Set(ip, this, arg(args, 0))
			})
		}
		o.SetAccessor(name, getter, setter)
	} else {
		o.PutOwnData(name, NativeToGuest(ip, desc.Value))
	}
	o.SetConfigurable(name, !desc.NotConfigurable)
	o.SetEnumerable(name, !desc.NotEnumerable)
	o.SetWritable(name, !desc.NotWritable)
}

// GetProperty reads name off o (trampolining through any accessor getter)
// and lowers the result back to a plain Go value.
func GetProperty(ip *interp.Interpreter, o *object.Object, name string) any {
	v, _ := ip.GetProperty(o, name)
	return GuestToNative(ip, v, nil)
}

// SetProperty writes a plain Go value to o.name per ES5 [[Put]].
func SetProperty(ip *interp.Interpreter, o *object.Object, name string, value any) error {
	return ip.SetProperty(o, name, NativeToGuest(ip, value), false)
}

func arg(args []object.Value, i int) object.Value {
	if i >= 0 && i < len(args) {
		return args[i]
	}
	return object.Undefined()
}
