package builtins

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

func installString(funcProto, objectProto *object.Object) *object.Object {
	stringProto := object.NewWithClass(objectProto, "String")
	stringProto.Data = ""

	thisStr := func(host object.Host, this object.Value) (string, error) {
		if this.IsString() {
			return this.String(), nil
		}
		if this.IsObject() && this.Object().Class == "String" {
			if s, ok := this.Object().Data.(string); ok {
				return s, nil
			}
		}
		return hostIP(host).ToStringValue(this)
	}

	method(funcProto, stringProto, "toString", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		return object.String(s), err
	})
	method(funcProto, stringProto, "valueOf", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		return object.String(s), err
	})
	method(funcProto, stringProto, "charAt", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		n, err := hostIP(host).ToNumber(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		r := []rune(s)
		i := int(n)
		if i < 0 || i >= len(r) {
			return object.String(""), nil
		}
		return object.String(string(r[i])), nil
	})
	method(funcProto, stringProto, "charCodeAt", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		n, err := hostIP(host).ToNumber(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		r := []rune(s)
		i := int(n)
		if i < 0 || i >= len(r) {
			return object.Number(math.NaN()), nil
		}
		return object.Number(float64(r[i])), nil
	})
	method(funcProto, stringProto, "indexOf", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		sub, err := hostIP(host).ToStringValue(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		start := 0
		if len(args) > 1 {
			f, err := hostIP(host).ToNumber(args[1])
			if err != nil {
				return object.Undefined(), err
			}
			start = clampInt(int(f), 0, len(s))
		}
		idx := strings.Index(s[start:], sub)
		if idx < 0 {
			return object.Number(-1), nil
		}
		return object.Number(float64(idx + start)), nil
	})
	method(funcProto, stringProto, "lastIndexOf", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		sub, err := hostIP(host).ToStringValue(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		return object.Number(float64(strings.LastIndex(s, sub))), nil
	})
	method(funcProto, stringProto, "slice", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		r := []rune(s)
		start, err := sliceIndex(host, arg(args, 0), len(r), 0)
		if err != nil {
			return object.Undefined(), err
		}
		end, err := sliceIndex(host, arg(args, 1), len(r), len(r))
		if err != nil {
			return object.Undefined(), err
		}
		if end < start {
			end = start
		}
		return object.String(string(r[start:end])), nil
	})
	method(funcProto, stringProto, "substring", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		r := []rune(s)
		a := substringIndex(host, arg(args, 0), len(r), 0)
		b := substringIndex(host, arg(args, 1), len(r), len(r))
		if a > b {
			a, b = b, a
		}
		return object.String(string(r[a:b])), nil
	})
	method(funcProto, stringProto, "substr", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		r := []rune(s)
		start := 0
		if len(args) > 0 {
			f, err := hostIP(host).ToNumber(args[0])
			if err != nil {
				return object.Undefined(), err
			}
			start = int(f)
			if start < 0 {
				start = clampInt(len(r)+start, 0, len(r))
			} else {
				start = clampInt(start, 0, len(r))
			}
		}
		length := len(r) - start
		if len(args) > 1 && !args[1].IsUndefined() {
			f, err := hostIP(host).ToNumber(args[1])
			if err != nil {
				return object.Undefined(), err
			}
			length = clampInt(int(f), 0, len(r)-start)
		}
		return object.String(string(r[start : start+length])), nil
	})
	method(funcProto, stringProto, "split", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		roots := currentRoots(host)
		out := object.NewArray(roots.ArrayProto)
		sepV := arg(args, 0)
		var parts []string
		if sepV.IsUndefined() {
			parts = []string{s}
		} else {
			sep, err := hostIP(host).ToStringValue(sepV)
			if err != nil {
				return object.Undefined(), err
			}
			if sep == "" {
				for _, r := range s {
					parts = append(parts, string(r))
				}
			} else {
				parts = strings.Split(s, sep)
			}
		}
		for i, p := range parts {
			out.PutOwnData(itoa(i), object.String(p))
		}
		out.SetLength(uint32(len(parts)))
		return object.FromObject(out), nil
	})
	method(funcProto, stringProto, "concat", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		var sb strings.Builder
		sb.WriteString(s)
		for _, a := range args {
			as, err := hostIP(host).ToStringValue(a)
			if err != nil {
				return object.Undefined(), err
			}
			sb.WriteString(as)
		}
		return object.String(sb.String()), nil
	})
	method(funcProto, stringProto, "trim", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		return object.String(strings.TrimSpace(s)), err
	})
	method(funcProto, stringProto, "toUpperCase", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		return object.String(cases.Upper(language.Und).String(s)), nil
	})
	method(funcProto, stringProto, "toLowerCase", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		return object.String(cases.Lower(language.Und).String(s)), nil
	})
	method(funcProto, stringProto, "toLocaleUpperCase", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		return object.String(cases.Upper(language.English).String(s)), nil
	})
	method(funcProto, stringProto, "toLocaleLowerCase", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		return object.String(cases.Lower(language.English).String(s)), nil
	})
	method(funcProto, stringProto, "localeCompare", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		other, err := hostIP(host).ToStringValue(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		col := collate.New(language.English)
		return object.Number(float64(col.CompareString(s, other))), nil
	})
	method(funcProto, stringProto, "match", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		return matchString(host, s, arg(args, 0))
	})
	method(funcProto, stringProto, "replace", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisStr(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		return replaceString(host, s, arg(args, 0), arg(args, 1))
	})

	ctor := ctorFunc(funcProto, stringProto, "String", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s := ""
		if len(args) > 0 {
			v, err := hostIP(host).ToStringValue(args[0])
			if err != nil {
				return object.Undefined(), err
			}
			s = v
		}
		if this.IsUndefined() {
			return object.String(s), nil
		}
		o := this.Object()
		o.Data = s
		o.PutOwnData("length", object.Number(float64(len([]rune(s)))))
		o.SetWritable("length", false)
		o.SetEnumerable("length", false)
		o.SetConfigurable("length", false)
		return object.FromObject(o), nil
	})
	method(funcProto, ctor, "fromCharCode", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		rs := make([]rune, len(args))
		for i, a := range args {
			n, err := hostIP(host).ToNumber(a)
			if err != nil {
				return object.Undefined(), err
			}
			rs[i] = rune(uint16(n))
		}
		return object.String(string(rs)), nil
	})
	return ctor
}

func substringIndex(host object.Host, v object.Value, length, deflt int) int {
	if v.IsUndefined() {
		return clampInt(deflt, 0, length)
	}
	f, err := hostIP(host).ToNumber(v)
	if err != nil || f != f {
		return 0
	}
	return clampInt(int(f), 0, length)
}
