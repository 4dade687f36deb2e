package builtins

import (
	"math"
	"strconv"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

func installNumber(funcProto, objectProto *object.Object) *object.Object {
	numberProto := object.NewWithClass(objectProto, "Number")
	numberProto.Data = float64(0)

	thisNum := func(host object.Host, this object.Value) (float64, error) {
		if this.IsNumber() {
			return this.Number(), nil
		}
		if this.IsObject() && this.Object().Class == "Number" {
			if n, ok := this.Object().Data.(float64); ok {
				return n, nil
			}
		}
		return 0, newTypeError(host, "Number.prototype method called on incompatible receiver")
	}

	method(funcProto, numberProto, "toString", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		n, err := thisNum(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		radix := 10
		if len(args) > 0 && !args[0].IsUndefined() {
			r, err := hostIP(host).ToNumber(args[0])
			if err != nil {
				return object.Undefined(), err
			}
			radix = int(r)
		}
		if radix == 10 {
			s, err := hostIP(host).ToStringValue(object.Number(n))
			return object.String(s), err
		}
		if n != math.Trunc(n) {
			return object.String(strconv.FormatFloat(n, 'g', -1, 64)), nil
		}
		return object.String(strconv.FormatInt(int64(n), radix)), nil
	})
	method(funcProto, numberProto, "valueOf", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		n, err := thisNum(host, this)
		return object.Number(n), err
	})
	method(funcProto, numberProto, "toFixed", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		n, err := thisNum(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		digits := 0
		if len(args) > 0 {
			d, err := hostIP(host).ToNumber(args[0])
			if err != nil {
				return object.Undefined(), err
			}
			digits = int(d)
		}
		return object.String(strconv.FormatFloat(n, 'f', digits, 64)), nil
	})
	method(funcProto, numberProto, "toPrecision", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		n, err := thisNum(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		if len(args) == 0 || args[0].IsUndefined() {
			s, err := hostIP(host).ToStringValue(object.Number(n))
			return object.String(s), err
		}
		p, err := hostIP(host).ToNumber(args[0])
		if err != nil {
			return object.Undefined(), err
		}
		return object.String(strconv.FormatFloat(n, 'g', int(p), 64)), nil
	})

	ctor := ctorFunc(funcProto, numberProto, "Number", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		n := float64(0)
		if len(args) > 0 {
			v, err := hostIP(host).ToNumber(args[0])
			if err != nil {
				return object.Undefined(), err
			}
			n = v
		}
		if this.IsUndefined() {
			return object.Number(n), nil
		}
		o := this.Object()
		o.Data = n
		return object.FromObject(o), nil
	})
	constant := func(name string, v float64) {
		ctor.PutOwnData(name, object.Number(v))
		ctor.SetWritable(name, false)
		ctor.SetEnumerable(name, false)
		ctor.SetConfigurable(name, false)
	}
	constant("MAX_VALUE", math.MaxFloat64)
	constant("MIN_VALUE", math.SmallestNonzeroFloat64)
	constant("NaN", math.NaN())
	constant("POSITIVE_INFINITY", math.Inf(1))
	constant("NEGATIVE_INFINITY", math.Inf(-1))
	return ctor
}
