package object

import (
	"strconv"
)

// NewArray creates an empty guest Array with a "length" own data property
// (non-enumerable, as ES5 requires) and the given prototype (normally
// Array.prototype).
func NewArray(proto *Object) *Object {
	a := NewWithClass(proto, "Array")
	a.PutOwnData("length", Number(0))
	a.SetEnumerable("length", false)
	return a
}

// ArrayIndex reports whether name is a valid array index string ("0".."2^32-2")
// and returns its numeric value.
func ArrayIndex(name string) (uint32, bool) {
	if name == "" {
		return 0, false
	}
	if name == "0" {
		return 0, true
	}
	if name[0] == '0' {
		return 0, false // no leading zeros
	}
	for _, c := range name {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(name, 10, 64)
	if err != nil || n > 1<<32-2 {
		return 0, false
	}
	return uint32(n), true
}

// Length returns the array's current length property as a uint32,
// defaulting to 0 if absent or not a number.
func (o *Object) Length() uint32 {
	v, ok := o.GetOwn("length")
	if !ok || !v.IsNumber() {
		return 0
	}
	return uint32(v.Number())
}

// SetLength updates the length property and truncates (deletes) any
// existing own index properties >= newLen, per the Array
// `length` assignment rule.
func (o *Object) SetLength(newLen uint32) {
	for _, name := range o.OwnKeys() {
		if idx, ok := ArrayIndex(name); ok && idx >= newLen {
			o.DeleteOwn(name)
		}
	}
	o.PutOwnData("length", Number(float64(newLen)))
}

// BumpLengthForIndex grows length to max(length, index+1) — invoked
// whenever a non-array-length numeric property is set on an Array.
func (o *Object) BumpLengthForIndex(index uint32) {
	if index+1 > o.Length() {
		o.PutOwnData("length", Number(float64(index+1)))
	}
}
