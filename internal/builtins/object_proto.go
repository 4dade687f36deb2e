package builtins

import (
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

func installObject(funcProto, objectProto *object.Object) *object.Object {
	method(funcProto, objectProto, "toString", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		if this.IsNullOrUndefined() {
			return object.String("[object Undefined]"), nil
		}
		o, err := hostIP(host).ToObject(this)
		if err != nil {
			return object.Undefined(), err
		}
		return object.String("[object " + o.Class + "]"), nil
	})
	method(funcProto, objectProto, "toLocaleString", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		fnv, ok := hostIP(host).GetProperty(this.Object(), "toString")
		if !ok || !fnv.IsCallable() {
			return object.String("[object Object]"), nil
		}
		return hostIP(host).Call(fnv.Object(), this, nil)
	})
	method(funcProto, objectProto, "valueOf", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		return this, nil
	})
	method(funcProto, objectProto, "hasOwnProperty", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o, err := hostIP(host).ToObject(this)
		if err != nil {
			return object.Undefined(), err
		}
		name, err := hostIP(host).ToStringValue(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		return object.Bool(o.HasOwn(name)), nil
	})
	method(funcProto, objectProto, "isPrototypeOf", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		if !v.IsObject() || !this.IsObject() {
			return object.Bool(false), nil
		}
		self := this.Object()
		// Walks the chain unconditionally with no cycle guard: SetProtoChecked
		// already rejects any reprototyping that would introduce one.
		for cur := v.Object().Proto; cur != nil; cur = cur.Proto {
			if cur == self {
				return object.Bool(true), nil
			}
		}
		return object.Bool(false), nil
	})
	method(funcProto, objectProto, "propertyIsEnumerable", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o, err := hostIP(host).ToObject(this)
		if err != nil {
			return object.Undefined(), err
		}
		name, err := hostIP(host).ToStringValue(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		return object.Bool(o.HasOwn(name) && o.IsEnumerable(name)), nil
	})

	ctor := ctorFunc(funcProto, objectProto, "Object", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		if v.IsNullOrUndefined() {
			if this.IsObject() {
				return object.Undefined(), nil // `new Object()`: the pre-built instance stays empty
			}
			return object.FromObject(object.New(objectProto)), nil
		}
		o, err := hostIP(host).ToObject(v)
		if err != nil {
			return object.Undefined(), err
		}
		return object.FromObject(o), nil
	})

	method(funcProto, ctor, "keys", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o, err := hostIP(host).ToObject(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		roots := currentRoots(host)
		arr := object.NewArray(roots.ArrayProto)
		i := 0
		for _, k := range o.OwnKeys() {
			if o.IsEnumerable(k) {
				arr.PutOwnData(itoa(i), object.String(k))
				i++
			}
		}
		arr.SetLength(uint32(i))
		return object.FromObject(arr), nil
	})
	method(funcProto, ctor, "getPrototypeOf", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o, err := hostIP(host).ToObject(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		if o.Proto == nil {
			return object.Null(), nil
		}
		return object.FromObject(o.Proto), nil
	})
	method(funcProto, ctor, "create", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		p := arg(args, 0)
		var proto *object.Object
		if p.IsObject() {
			proto = p.Object()
		} else if !p.IsNull() {
			return object.Undefined(), newTypeError(host, "Object prototype may only be an Object or null")
		}
		o := object.New(proto)
		if len(args) > 1 && args[1].IsObject() {
			if err := definePropertiesFrom(host, o, args[1].Object()); err != nil {
				return object.Undefined(), err
			}
		}
		return object.FromObject(o), nil
	})
	method(funcProto, ctor, "defineProperty", 3, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		if !v.IsObject() {
			return object.Undefined(), newTypeError(host, "Object.defineProperty called on non-object")
		}
		name, err := hostIP(host).ToStringValue(arg(args, 1))
		if err != nil {
			return object.Undefined(), err
		}
		desc := arg(args, 2)
		if !desc.IsObject() {
			return object.Undefined(), newTypeError(host, "property description must be an object")
		}
		if err := defineProperty(host, v.Object(), name, desc.Object()); err != nil {
			return object.Undefined(), err
		}
		return v, nil
	})
	method(funcProto, ctor, "preventExtensions", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		if v.IsObject() {
			v.Object().PreventExtensions = true
		}
		return v, nil
	})
	method(funcProto, ctor, "isExtensible", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		return object.Bool(v.IsObject() && !v.Object().PreventExtensions), nil
	})
	return ctor
}

// defineProperty implements ES5 8.12.9's accessor/data-descriptor split: a
// descriptor may set value/writable XOR get/set.
func defineProperty(host object.Host, o *object.Object, name string, desc *object.Object) error {
	ip := hostIP(host)
	existed := o.HasOwn(name)
	getV, hasGet := ip.GetProperty(desc, "get")
	setV, hasSet := ip.GetProperty(desc, "set")
	valV, hasValue := ip.GetProperty(desc, "value")
	wv, hasWritable := ip.GetProperty(desc, "writable")
	if (hasGet || hasSet) && (hasValue || hasWritable) {
		return newTypeError(host, "Invalid property descriptor: cannot both specify accessors and a value or writable attribute")
	}
	if hasGet || hasSet {
		var g, s *object.Object
		if getV.IsCallable() {
			g = getV.Object()
		}
		if setV.IsCallable() {
			s = setV.Object()
		}
		o.SetAccessor(name, g, s)
	} else if hasValue {
		o.PutOwnData(name, valV)
	} else if !existed {
		o.PutOwnData(name, object.Undefined())
	}
	if hasWritable {
		o.SetWritable(name, ip.ToBoolean(wv))
	} else if !existed {
		o.SetWritable(name, false)
	}
	if ev, ok := ip.GetProperty(desc, "enumerable"); ok {
		o.SetEnumerable(name, ip.ToBoolean(ev))
	} else if !existed {
		o.SetEnumerable(name, false)
	}
	if cv, ok := ip.GetProperty(desc, "configurable"); ok {
		o.SetConfigurable(name, ip.ToBoolean(cv))
	} else if !existed {
		o.SetConfigurable(name, false)
	}
	return nil
}

func definePropertiesFrom(host object.Host, o *object.Object, props *object.Object) error {
	for _, name := range props.OwnKeys() {
		if !props.IsEnumerable(name) {
			continue
		}
		descV, _ := hostIP(host).GetProperty(props, name)
		if !descV.IsObject() {
			continue
		}
		if err := defineProperty(host, o, name, descV.Object()); err != nil {
			return err
		}
	}
	return nil
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
