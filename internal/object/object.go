package object

import "sync/atomic"

var nextID uint64

func newID() uint64 { return atomic.AddUint64(&nextID, 1) }

// entry is one slot of the ordered property table.
type entry struct {
	name  string
	value Value
}

// Object is the record backing a guest value: a prototype link, an
// insertion-ordered property table (order is observable for for-in and
// Object.keys), sparse getter/setter maps, per-property descriptor bits, a
// class tag, an optional internal data slot, and function-only fields.
type Object struct {
	ID    uint64
	Proto *Object

	order []string        // insertion order of property names
	index map[string]int  // name -> index into order/values
	values []Value        // parallel to order

	getter map[string]*Object
	setter map[string]*Object

	notConfigurable map[string]bool
	notEnumerable   map[string]bool
	notWritable     map[string]bool

	Class             string // "Object", "Array", "Function", "Error", "Date", "RegExp", ...
	Data              any    // RegExp/Date backing value, or a boxed primitive
	PreventExtensions bool

	// Function-only fields. Node/ParentScope are set for guest functions;
	// NativeFunc/AsyncFunc for host-provided ones. ParentScope is `any` to
	// avoid an import cycle with package scope; callers type-assert it to
	// *scope.Scope.
	Node        any
	ParentScope any
	NativeFunc  func(host Host, this Value, args []Value) (Value, error)
	AsyncFunc   func(host Host, this Value, args []Value, resume func(Value, error))
	BoundThis   *Value
	BoundArgs   []Value
	IllegalConstructor bool
	FnName      string
	FnLength    int
	FnID        uint64
}

// Host is the minimal surface an Object's native/async function needs back
// from the interpreter: constructing errors, and (for async) scheduling the
// paused-frame resume. Defined here (not in package interp) so Object can
// reference it without an import cycle; interp.Interpreter implements it.
type Host interface {
	NewError(class, format string, args ...any) Value
	Pause()
}

// New creates a plain Object with the given prototype and class tag
// "Object".
func New(proto *Object) *Object {
	return &Object{ID: newID(), Proto: proto, Class: "Object", index: map[string]int{}}
}

// NewWithClass creates an Object tagged with a specific internal class,
// e.g. "Array", "Error", "Date", "RegExp".
func NewWithClass(proto *Object, class string) *Object {
	o := New(proto)
	o.Class = class
	return o
}

func (o *Object) IsCallable() bool {
	return o != nil && (o.Node != nil || o.NativeFunc != nil || o.AsyncFunc != nil || o.BoundThis != nil || o.BoundArgsFunc())
}

func (o *Object) BoundArgsFunc() bool { return o.BoundThis != nil }

// --- own-property accessors ---

// OwnKeys returns own property names in insertion order.
func (o *Object) OwnKeys() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// HasOwn reports whether name is an own property (data or accessor).
func (o *Object) HasOwn(name string) bool {
	_, ok := o.index[name]
	return ok
}

// GetOwn returns the raw stored value for a data property. For an accessor
// property this returns the placeholder Undefined value stored in the
// table; callers must check IsAccessor first and invoke the trampoline
// (package interp) to get the real value.
func (o *Object) GetOwn(name string) (Value, bool) {
	i, ok := o.index[name]
	if !ok {
		return Undefined(), false
	}
	return o.values[i], true
}

func (o *Object) IsAccessor(name string) bool {
	if o.getter != nil {
		if _, ok := o.getter[name]; ok {
			return true
		}
	}
	if o.setter != nil {
		if _, ok := o.setter[name]; ok {
			return true
		}
	}
	return false
}

func (o *Object) Getter(name string) *Object {
	if o.getter == nil {
		return nil
	}
	return o.getter[name]
}

func (o *Object) Setter(name string) *Object {
	if o.setter == nil {
		return nil
	}
	return o.setter[name]
}

// PutOwnData sets (or creates) a plain data property, preserving insertion
// order on first write. It does not check notWritable/notConfigurable —
// callers needing ES5 [[Put]] semantics go through setProperty in package
// interp, which checks writability and extensibility before calling this.
func (o *Object) PutOwnData(name string, v Value) {
	if i, ok := o.index[name]; ok {
		o.values[i] = v
		return
	}
	o.index[name] = len(o.order)
	o.order = append(o.order, name)
	o.values = append(o.values, v)
}

// DeleteOwn removes an own property unconditionally (callers check
// notConfigurable first). Reports whether it existed.
func (o *Object) DeleteOwn(name string) bool {
	i, ok := o.index[name]
	if !ok {
		return false
	}
	o.order = append(o.order[:i], o.order[i+1:]...)
	o.values = append(o.values[:i], o.values[i+1:]...)
	delete(o.index, name)
	for n, idx := range o.index {
		if idx > i {
			o.index[n] = idx - 1
		}
	}
	if o.getter != nil {
		delete(o.getter, name)
	}
	if o.setter != nil {
		delete(o.setter, name)
	}
	if o.notConfigurable != nil {
		delete(o.notConfigurable, name)
	}
	if o.notEnumerable != nil {
		delete(o.notEnumerable, name)
	}
	if o.notWritable != nil {
		delete(o.notWritable, name)
	}
	return true
}

// SetAccessor installs name as an accessor property with the given
// getter/setter functions (either may be nil to leave that half unset). A
// placeholder undefined data slot keeps OwnKeys/enumeration order correct.
func (o *Object) SetAccessor(name string, getter, setter *Object) {
	if _, ok := o.index[name]; !ok {
		o.index[name] = len(o.order)
		o.order = append(o.order, name)
		o.values = append(o.values, Undefined())
	}
	if getter != nil {
		if o.getter == nil {
			o.getter = map[string]*Object{}
		}
		o.getter[name] = getter
	}
	if setter != nil {
		if o.setter == nil {
			o.setter = map[string]*Object{}
		}
		o.setter[name] = setter
	}
}

// --- descriptor bits. Absence of an entry means default true/true/true. ---

func (o *Object) IsConfigurable(name string) bool {
	return !(o.notConfigurable != nil && o.notConfigurable[name])
}
func (o *Object) IsEnumerable(name string) bool {
	return !(o.notEnumerable != nil && o.notEnumerable[name])
}
func (o *Object) IsWritable(name string) bool {
	return !(o.notWritable != nil && o.notWritable[name])
}

func (o *Object) SetConfigurable(name string, v bool) {
	o.setBit(&o.notConfigurable, name, !v)
}
func (o *Object) SetEnumerable(name string, v bool) {
	o.setBit(&o.notEnumerable, name, !v)
}
func (o *Object) SetWritable(name string, v bool) {
	o.setBit(&o.notWritable, name, !v)
}

func (o *Object) setBit(m *map[string]bool, name string, notValue bool) {
	if notValue {
		if *m == nil {
			*m = map[string]bool{}
		}
		(*m)[name] = true
	} else if *m != nil {
		delete(*m, name)
	}
}

// SetProtoChecked reassigns Proto, refusing (returning false) if doing so
// would create a prototype cycle.
func (o *Object) SetProtoChecked(proto *Object) bool {
	for p := proto; p != nil; p = p.Proto {
		if p == o {
			return false
		}
	}
	o.Proto = proto
	return true
}
