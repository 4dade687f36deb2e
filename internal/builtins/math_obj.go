package builtins

import (
	"math"
	"math/rand"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

func installMath(funcProto, objectProto *object.Object) *object.Object {
	mathObj := object.New(objectProto)

	constant := func(name string, v float64) {
		mathObj.PutOwnData(name, object.Number(v))
		mathObj.SetWritable(name, false)
		mathObj.SetEnumerable(name, false)
		mathObj.SetConfigurable(name, false)
	}
	constant("E", math.E)
	constant("LN2", math.Ln2)
	constant("LN10", math.Ln10)
	constant("LOG2E", math.Log2E)
	constant("LOG10E", math.Log10E)
	constant("PI", math.Pi)
	constant("SQRT1_2", math.Sqrt(0.5))
	constant("SQRT2", math.Sqrt2)

	unary := func(name string, fn func(float64) float64) {
		method(funcProto, mathObj, name, 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
			n, err := hostIP(host).ToNumber(arg(args, 0))
			if err != nil {
				return object.Undefined(), err
			}
			return object.Number(fn(n)), nil
		})
	}
	unary("abs", math.Abs)
	unary("ceil", math.Ceil)
	unary("floor", math.Floor)
	unary("sqrt", math.Sqrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("exp", math.Exp)
	unary("log", math.Log)
	unary("round", func(n float64) float64 { return math.Floor(n + 0.5) })

	method(funcProto, mathObj, "pow", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		b, err := hostIP(host).ToNumber(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		e, err := hostIP(host).ToNumber(arg(args, 1))
		if err != nil {
			return object.Undefined(), err
		}
		return object.Number(math.Pow(b, e)), nil
	})
	method(funcProto, mathObj, "atan2", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		y, err := hostIP(host).ToNumber(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		x, err := hostIP(host).ToNumber(arg(args, 1))
		if err != nil {
			return object.Undefined(), err
		}
		return object.Number(math.Atan2(y, x)), nil
	})
	method(funcProto, mathObj, "max", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return object.Number(math.Inf(-1)), nil
		}
		best := math.Inf(-1)
		for _, a := range args {
			n, err := hostIP(host).ToNumber(a)
			if err != nil {
				return object.Undefined(), err
			}
			if n != n {
				return object.Number(math.NaN()), nil
			}
			if n > best {
				best = n
			}
		}
		return object.Number(best), nil
	})
	method(funcProto, mathObj, "min", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return object.Number(math.Inf(1)), nil
		}
		best := math.Inf(1)
		for _, a := range args {
			n, err := hostIP(host).ToNumber(a)
			if err != nil {
				return object.Undefined(), err
			}
			if n != n {
				return object.Number(math.NaN()), nil
			}
			if n < best {
				best = n
			}
		}
		return object.Number(best), nil
	})
	method(funcProto, mathObj, "random", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(rand.Float64()), nil
	})
	return mathObj
}
