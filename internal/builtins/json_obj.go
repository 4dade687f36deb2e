package builtins

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

func installJSON(funcProto, objectProto *object.Object) *object.Object {
	jsonObj := object.New(objectProto)

	method(funcProto, jsonObj, "parse", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := hostIP(host).ToStringValue(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		if !gjson.Valid(s) {
			return object.Undefined(), newSyntaxError(host, "Unexpected token in JSON")
		}
		v := jsonToValue(host, gjson.Parse(s))
		reviver := arg(args, 1)
		if reviver.IsCallable() {
			return reviveJSON(host, reviver.Object(), v)
		}
		return v, nil
	})
	method(funcProto, jsonObj, "stringify", 3, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		seen := map[*object.Object]bool{}
		s, undef, err := valueToJSON(host, v, seen)
		if err != nil {
			return object.Undefined(), err
		}
		if undef {
			return object.Undefined(), nil
		}
		indent := 0
		indentArg := arg(args, 2)
		if indentArg.IsNumber() {
			indent = int(indentArg.Number())
		} else if indentArg.IsString() {
			indent = len(indentArg.String())
		}
		if indent > 0 {
			opts := &pretty.Options{Indent: strings.Repeat(" ", indent), SortKeys: false}
			s = string(pretty.PrettyOptions([]byte(s), opts))
		}
		return object.String(s), nil
	})
	return jsonObj
}

// jsonToValue converts a parsed gjson.Result into a guest value tree,
// building plain Objects/Arrays via the same constructors the evaluator
// uses for object/array literals.
func jsonToValue(host object.Host, r gjson.Result) object.Value {
	roots := currentRoots(host)
	switch r.Type {
	case gjson.Null:
		return object.Null()
	case gjson.True:
		return object.Bool(true)
	case gjson.False:
		return object.Bool(false)
	case gjson.Number:
		return object.Number(r.Num)
	case gjson.String:
		return object.String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			arr := object.NewArray(roots.ArrayProto)
			i := 0
			r.ForEach(func(_, v gjson.Result) bool {
				arr.PutOwnData(itoa(i), jsonToValue(host, v))
				i++
				return true
			})
			arr.SetLength(uint32(i))
			return object.FromObject(arr)
		}
		o := object.New(roots.ObjectProto)
		r.ForEach(func(k, v gjson.Result) bool {
			o.PutOwnData(k.Str, jsonToValue(host, v))
			return true
		})
		return object.FromObject(o)
	default:
		return object.Null()
	}
}

func reviveJSON(host object.Host, reviver *object.Object, v object.Value) (object.Value, error) {
	holder := object.New(currentRoots(host).ObjectProto)
	holder.PutOwnData("", v)
	return walkRevive(host, reviver, holder, "")
}

func walkRevive(host object.Host, reviver *object.Object, holder *object.Object, key string) (object.Value, error) {
	v, _ := holder.GetOwn(key)
	if v.IsObject() {
		o := v.Object()
		if o.Class == "Array" {
			n := o.Length()
			for i := uint32(0); i < n; i++ {
				nv, err := walkRevive(host, reviver, o, itoa(int(i)))
				if err != nil {
					return object.Undefined(), err
				}
				if nv.IsUndefined() {
					o.DeleteOwn(itoa(int(i)))
				} else {
					o.PutOwnData(itoa(int(i)), nv)
				}
			}
		} else {
			for _, k := range append([]string{}, o.OwnKeys()...) {
				nv, err := walkRevive(host, reviver, o, k)
				if err != nil {
					return object.Undefined(), err
				}
				if nv.IsUndefined() {
					o.DeleteOwn(k)
				} else {
					o.PutOwnData(k, nv)
				}
			}
		}
	}
	return hostIP(host).Call(reviver, object.FromObject(holder), []object.Value{object.String(key), v})
}

// valueToJSON serializes a guest value per ES5 15.12.3's JO/JA/Str
// abstract operations; undef reports the ES5 "value has no JSON
// representation" case (undefined, a function, a symbol — skip the
// property or return undefined at the top level).
func valueToJSON(host object.Host, v object.Value, seen map[*object.Object]bool) (s string, undef bool, err error) {
	if v.IsObject() {
		if toJSON, ok := hostIP(host).GetProperty(v.Object(), "toJSON"); ok && toJSON.IsCallable() {
			r, err := hostIP(host).Call(toJSON.Object(), v, nil)
			if err != nil {
				return "", false, err
			}
			return valueToJSON(host, r, seen)
		}
	}
	switch {
	case v.IsUndefined(), v.IsCallable():
		return "", true, nil
	case v.IsNull():
		return "null", false, nil
	case v.IsBoolean():
		if v.Bool() {
			return "true", false, nil
		}
		return "false", false, nil
	case v.IsNumber():
		n := v.Number()
		if n != n || n > 1.7976931348623157e+308 || n < -1.7976931348623157e+308 {
			return "null", false, nil
		}
		return strconv.FormatFloat(n, 'g', -1, 64), false, nil
	case v.IsString():
		b, _ := sjson.SetBytes(nil, "x", v.String())
		return gjson.GetBytes(b, "x").Raw, false, nil
	case v.IsObject():
		o := v.Object()
		if seen[o] {
			return "", false, newTypeError(host, "Converting circular structure to JSON")
		}
		seen[o] = true
		defer delete(seen, o)
		if o.Class == "Array" {
			n := o.Length()
			parts := make([]string, n)
			for i := uint32(0); i < n; i++ {
				ev, _ := hostIP(host).GetProperty(o, itoa(int(i)))
				es, eundef, err := valueToJSON(host, ev, seen)
				if err != nil {
					return "", false, err
				}
				if eundef {
					es = "null"
				}
				parts[i] = es
			}
			return "[" + joinStrings(parts, ",") + "]", false, nil
		}
		var parts []string
		for _, k := range o.OwnKeys() {
			if !o.IsEnumerable(k) {
				continue
			}
			pv, _ := hostIP(host).GetProperty(o, k)
			ps, pundef, err := valueToJSON(host, pv, seen)
			if err != nil {
				return "", false, err
			}
			if pundef {
				continue
			}
			kb, _ := sjson.SetBytes(nil, "x", k)
			keyJSON := gjson.GetBytes(kb, "x").Raw
			parts = append(parts, keyJSON+":"+ps)
		}
		return "{" + joinStrings(parts, ",") + "}", false, nil
	}
	return "null", false, nil
}
