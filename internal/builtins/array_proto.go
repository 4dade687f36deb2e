package builtins

import (
	"sort"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

func installArray(funcProto, objectProto *object.Object) *object.Object {
	arrayProto := object.NewArray(objectProto)
	arrayProto.SetEnumerable("length", false)

	method(funcProto, arrayProto, "toString", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		ip := hostIP(host)
		if !ip.ArrayGuard.Enter(this.Object()) {
			return object.String("..."), nil
		}
		defer ip.ArrayGuard.Exit(this.Object())
		joinV, ok := hostIP(host).GetProperty(this.Object(), "join")
		if ok && joinV.IsCallable() {
			return hostIP(host).Call(joinV.Object(), this, nil)
		}
		return object.String("[object Array]"), nil
	})

	method(funcProto, arrayProto, "push", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		n := o.Length()
		for _, v := range args {
			o.PutOwnData(itoa(int(n)), v)
			n++
		}
		o.SetLength(n)
		return object.Number(float64(n)), nil
	})
	method(funcProto, arrayProto, "pop", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		n := o.Length()
		if n == 0 {
			return object.Undefined(), nil
		}
		last := itoa(int(n - 1))
		v, _ := o.GetOwn(last)
		o.DeleteOwn(last)
		o.SetLength(n - 1)
		return v, nil
	})
	method(funcProto, arrayProto, "shift", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		n := o.Length()
		if n == 0 {
			return object.Undefined(), nil
		}
		first, _ := o.GetOwn("0")
		for i := uint32(1); i < n; i++ {
			v, ok := o.GetOwn(itoa(int(i)))
			if ok {
				o.PutOwnData(itoa(int(i-1)), v)
			} else {
				o.DeleteOwn(itoa(int(i - 1)))
			}
		}
		o.DeleteOwn(itoa(int(n - 1)))
		o.SetLength(n - 1)
		return first, nil
	})
	method(funcProto, arrayProto, "unshift", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		n := o.Length()
		shift := uint32(len(args))
		for i := n; i > 0; i-- {
			v, ok := o.GetOwn(itoa(int(i - 1)))
			if ok {
				o.PutOwnData(itoa(int(i-1+shift)), v)
			}
		}
		for i, v := range args {
			o.PutOwnData(itoa(i), v)
		}
		o.SetLength(n + shift)
		return object.Number(float64(n + shift)), nil
	})
	method(funcProto, arrayProto, "slice", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		n := int(o.Length())
		start, err := sliceIndex(host, arg(args, 0), n, 0)
		if err != nil {
			return object.Undefined(), err
		}
		end, err := sliceIndex(host, arg(args, 1), n, n)
		if err != nil {
			return object.Undefined(), err
		}
		roots := currentRoots(host)
		out := object.NewArray(roots.ArrayProto)
		i := 0
		for k := start; k < end; k++ {
			if v, ok := o.GetOwn(itoa(k)); ok {
				out.PutOwnData(itoa(i), v)
			}
			i++
		}
		out.SetLength(uint32(i))
		return object.FromObject(out), nil
	})
	method(funcProto, arrayProto, "splice", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		n := int(o.Length())
		start, err := sliceIndex(host, arg(args, 0), n, 0)
		if err != nil {
			return object.Undefined(), err
		}
		deleteCount := n - start
		if len(args) > 1 {
			dc, err := hostIP(host).ToNumber(args[1])
			if err != nil {
				return object.Undefined(), err
			}
			deleteCount = clampInt(int(dc), 0, n-start)
		}
		roots := currentRoots(host)
		removed := object.NewArray(roots.ArrayProto)
		for i := 0; i < deleteCount; i++ {
			if v, ok := o.GetOwn(itoa(start + i)); ok {
				removed.PutOwnData(itoa(i), v)
			}
		}
		removed.SetLength(uint32(deleteCount))

		items := rest(args, 2)
		tail := make([]object.Value, 0, n-start-deleteCount)
		for i := start + deleteCount; i < n; i++ {
			v, _ := o.GetOwn(itoa(i))
			tail = append(tail, v)
		}
		idx := start
		for _, v := range items {
			o.PutOwnData(itoa(idx), v)
			idx++
		}
		for _, v := range tail {
			o.PutOwnData(itoa(idx), v)
			idx++
		}
		for idx < n {
			o.DeleteOwn(itoa(idx))
			idx++
		}
		o.SetLength(uint32(start + len(items) + len(tail)))
		return object.FromObject(removed), nil
	})
	method(funcProto, arrayProto, "concat", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		roots := currentRoots(host)
		out := object.NewArray(roots.ArrayProto)
		i := 0
		appendOne := func(v object.Value) {
			if v.IsObject() && v.Object().Class == "Array" {
				src := v.Object()
				for k := uint32(0); k < src.Length(); k++ {
					if sv, ok := src.GetOwn(itoa(int(k))); ok {
						out.PutOwnData(itoa(i), sv)
					}
					i++
				}
				return
			}
			out.PutOwnData(itoa(i), v)
			i++
		}
		appendOne(this)
		for _, a := range args {
			appendOne(a)
		}
		out.SetLength(uint32(i))
		return object.FromObject(out), nil
	})
	method(funcProto, arrayProto, "join", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		sep := ","
		if len(args) > 0 && !args[0].IsUndefined() {
			s, err := hostIP(host).ToStringValue(args[0])
			if err != nil {
				return object.Undefined(), err
			}
			sep = s
		}
		n := o.Length()
		parts := make([]string, n)
		for i := uint32(0); i < n; i++ {
			v, ok := o.GetOwn(itoa(int(i)))
			if !ok || v.IsNullOrUndefined() {
				parts[i] = ""
				continue
			}
			s, err := hostIP(host).ToStringValue(v)
			if err != nil {
				return object.Undefined(), err
			}
			parts[i] = s
		}
		return object.String(joinStrings(parts, sep)), nil
	})
	method(funcProto, arrayProto, "reverse", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		n := int(o.Length())
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			vi, iok := o.GetOwn(itoa(i))
			vj, jok := o.GetOwn(itoa(j))
			if jok {
				o.PutOwnData(itoa(i), vj)
			} else {
				o.DeleteOwn(itoa(i))
			}
			if iok {
				o.PutOwnData(itoa(j), vi)
			} else {
				o.DeleteOwn(itoa(j))
			}
		}
		return this, nil
	})
	method(funcProto, arrayProto, "indexOf", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		n := int(o.Length())
		target := arg(args, 0)
		start := 0
		if len(args) > 1 {
			f, err := hostIP(host).ToNumber(args[1])
			if err != nil {
				return object.Undefined(), err
			}
			start = int(f)
			if start < 0 {
				start += n
			}
			if start < 0 {
				start = 0
			}
		}
		for i := start; i < n; i++ {
			if v, ok := o.GetOwn(itoa(i)); ok && hostIP(host).StrictEquals(v, target) {
				return object.Number(float64(i)), nil
			}
		}
		return object.Number(-1), nil
	})
	method(funcProto, arrayProto, "lastIndexOf", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		n := int(o.Length())
		target := arg(args, 0)
		for i := n - 1; i >= 0; i-- {
			if v, ok := o.GetOwn(itoa(i)); ok && hostIP(host).StrictEquals(v, target) {
				return object.Number(float64(i)), nil
			}
		}
		return object.Number(-1), nil
	})
	method(funcProto, arrayProto, "sort", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o := this.Object()
		n := int(o.Length())
		vals := make([]object.Value, 0, n)
		for i := 0; i < n; i++ {
			if v, ok := o.GetOwn(itoa(i)); ok {
				vals = append(vals, v)
			}
		}
		cmp := arg(args, 0)
		var sortErr error
		sort.SliceStable(vals, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if cmp.IsCallable() {
				r, err := hostIP(host).Call(cmp.Object(), object.Undefined(), []object.Value{vals[i], vals[j]})
				if err != nil {
					sortErr = err
					return false
				}
				n, err := hostIP(host).ToNumber(r)
				if err != nil {
					sortErr = err
					return false
				}
				return n < 0
			}
			si, _ := hostIP(host).ToStringValue(vals[i])
			sj, _ := hostIP(host).ToStringValue(vals[j])
			return si < sj
		})
		if sortErr != nil {
			return object.Undefined(), sortErr
		}
		for i, v := range vals {
			o.PutOwnData(itoa(i), v)
		}
		return this, nil
	})

	ctor := ctorFunc(funcProto, arrayProto, "Array", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		roots := currentRoots(host)
		arr := object.NewArray(roots.ArrayProto)
		if len(args) == 1 && args[0].IsNumber() {
			n := args[0].Number()
			if n < 0 || n != float64(uint32(n)) {
				return object.Undefined(), newRangeError(host, "Invalid array length")
			}
			arr.SetLength(uint32(n))
		} else {
			for i, v := range args {
				arr.PutOwnData(itoa(i), v)
			}
			arr.SetLength(uint32(len(args)))
		}
		return object.FromObject(arr), nil
	})
	method(funcProto, ctor, "isArray", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		return object.Bool(v.IsObject() && v.Object().Class == "Array"), nil
	})
	return ctor
}

func sliceIndex(host object.Host, v object.Value, length, deflt int) (int, error) {
	if v.IsUndefined() {
		return clampInt(deflt, 0, length), nil
	}
	f, err := hostIP(host).ToNumber(v)
	if err != nil {
		return 0, err
	}
	i := int(f)
	if i < 0 {
		i += length
	}
	return clampInt(i, 0, length), nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func joinStrings(parts []string, sep string) string {
	if len(parts) == 0 {
		return ""
	}
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	total += len(sep) * (len(parts) - 1)
	buf := make([]byte, 0, total)
	for i, p := range parts {
		if i > 0 {
			buf = append(buf, sep...)
		}
		buf = append(buf, p...)
	}
	return string(buf)
}
