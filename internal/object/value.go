// Package object implements the guest value and object model: tagged
// primitive values, Object records with a prototype link, an ordered
// property table, getter/setter maps, and per-property descriptor bits.
package object

import "fmt"

// Kind tags a Value's variant.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindObject
)

// Value is the tagged variant `Undefined | Null | Boolean(b) | Number(f64) |
// String(s) | Object(handle)`. Object handles are plain Go
// pointers into an arena-free graph; cycles are fine because Go's GC already
// handles reference cycles involving no finalizers, matching the "arena-
// backed handles with a generation counter; cycles are harmless" design note
// closely enough that no separate generation counter is needed here — the
// Obj field IS the handle.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	obj  *Object
}

func Undefined() Value         { return Value{kind: KindUndefined} }
func Null() Value              { return Value{kind: KindNull} }
func Bool(b bool) Value        { return Value{kind: KindBoolean, b: b} }
func Number(n float64) Value   { return Value{kind: KindNumber, n: n} }
func String(s string) Value    { return Value{kind: KindString, s: s} }
func FromObject(o *Object) Value {
	if o == nil {
		return Undefined()
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind        { return v.kind }
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsNullOrUndefined() bool { return v.kind == KindNull || v.kind == KindUndefined }
func (v Value) IsBoolean() bool   { return v.kind == KindBoolean }
func (v Value) IsNumber() bool    { return v.kind == KindNumber }
func (v Value) IsString() bool    { return v.kind == KindString }
func (v Value) IsObject() bool    { return v.kind == KindObject }
func (v Value) IsPrimitive() bool { return v.kind != KindObject }

func (v Value) Bool() bool     { return v.b }
func (v Value) Number() float64 { return v.n }
func (v Value) String() string { return v.s }
func (v Value) Object() *Object { return v.obj }

// IsCallable reports whether v is an Object with function semantics
// (guest-source, native, or bound).
func (v Value) IsCallable() bool {
	return v.kind == KindObject && v.obj != nil && v.obj.IsCallable()
}

func (v Value) GoString() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return fmt.Sprintf("%v", v.b)
	case KindNumber:
		return fmt.Sprintf("%v", v.n)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	default:
		return fmt.Sprintf("[object %s]", v.obj.Class)
	}
}
