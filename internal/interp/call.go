package interp

import (
	"fmt"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/scope"
)

// makeFunctionDeclaration builds the guest Function object for a hoisted
// FunctionDeclaration; passed to scope.Hoist as the
// makeFunc callback so package scope never needs to know how function
// objects are constructed.
func (ip *Interpreter) makeFunctionDeclaration(decl *ast.FunctionDeclaration, s *scope.Scope) object.Value {
	return object.FromObject(ip.newGuestFunction(decl.Id.Name, decl.Params, decl.Body, s, decl.Strict))
}

func (ip *Interpreter) newGuestFunction(name string, params []*ast.Identifier, body *ast.BlockStatement, closure *scope.Scope, strict bool) *object.Object {
	ip.nextFnID++
	fn := object.NewWithClass(ip.Roots.FunctionProto, "Function")
	fn.Node = &guestFuncNode{Params: params, Body: body, Strict: strict}
	fn.ParentScope = closure
	fn.FnName = name
	fn.FnLength = len(params)
	fn.FnID = ip.nextFnID

	proto := object.New(ip.Roots.ObjectProto)
	proto.PutOwnData("constructor", object.FromObject(fn))
	proto.SetEnumerable("constructor", false)
	fn.PutOwnData("prototype", object.FromObject(proto))
	fn.SetEnumerable("prototype", false)
	fn.SetConfigurable("prototype", false)
	fn.PutOwnData("length", object.Number(float64(len(params))))
	fn.SetWritable("length", false)
	fn.SetEnumerable("length", false)
	fn.SetConfigurable("length", false)
	if name != "" {
		fn.PutOwnData("name", object.String(name))
		fn.SetWritable("name", false)
		fn.SetEnumerable("name", false)
	}
	return fn
}

// guestFuncNode is the value stashed in Object.Node (typed any to avoid an
// import cycle) for a guest-source function.
type guestFuncNode struct {
	Params []*ast.Identifier
	Body   *ast.BlockStatement
	Strict bool
}

// --- property get/set, used by member access, ToPrimitive, and builtins ---

// getProperty resolves o.name through the prototype chain, invoking a
// getter trampoline synchronously if one is found (the
// getter/setter support). Synchronous here means via callSync, which pushes
// a real call frame on a private stack and drains it before returning. A
// getter that reaches an async native cannot suspend there: callSync
// reports an error and the read yields undefined.
func (ip *Interpreter) getProperty(o *object.Object, name string) (object.Value, bool) {
	for cur := o; cur != nil; cur = cur.Proto {
		if cur.IsAccessor(name) {
			g := cur.Getter(name)
			if g == nil {
				return object.Undefined(), true
			}
			v, err := ip.callSync(g, object.FromObject(o), nil)
			if err != nil {
				return object.Undefined(), true
			}
			return v, true
		}
		if cur.HasOwn(name) {
			v, _ := cur.GetOwn(name)
			return v, true
		}
	}
	return object.Undefined(), false
}

// setProperty implements [[Put]] (ES5 8.12.5): walks the chain for an
// accessor or a non-writable data property before falling back to creating
// (or overwriting) an own data property on o. Returns an error value
// (TypeError) on a strict-mode write rejection; callers decide whether to
// surface it.
func (ip *Interpreter) setProperty(o *object.Object, name string, v object.Value, strict bool) *object.Value {
	for cur := o; cur != nil; cur = cur.Proto {
		if cur.IsAccessor(name) {
			s := cur.Setter(name)
			if s == nil {
				if strict {
					e := ip.typeError("Cannot set property %s, which has only a getter", name)
					return &e
				}
				return nil
			}
			_, err := ip.callSync(s, object.FromObject(o), []object.Value{v})
			if err != nil && strict {
				e := ip.typeError("%v", err)
				return &e
			}
			return nil
		}
		if cur.HasOwn(name) {
			if cur == o {
				if !o.IsWritable(name) {
					if strict {
						e := ip.typeError("Cannot assign to read only property %s", name)
						return &e
					}
					return nil
				}
				ip.putArrayAware(o, name, v)
				return nil
			}
			if !cur.IsWritable(name) {
				if strict {
					e := ip.typeError("Cannot assign to read only property %s", name)
					return &e
				}
				return nil
			}
			break
		}
	}
	if o.PreventExtensions && !o.HasOwn(name) {
		if strict {
			e := ip.typeError("Cannot add property %s, object is not extensible", name)
			return &e
		}
		return nil
	}
	ip.putArrayAware(o, name, v)
	return nil
}

func (ip *Interpreter) putArrayAware(o *object.Object, name string, v object.Value) {
	if o.Class == "Array" {
		if name == "length" {
			n, err := ip.ToNumber(v)
			if err == nil {
				o.SetLength(uint32(n))
				return
			}
		}
		if idx, ok := object.ArrayIndex(name); ok {
			o.PutOwnData(name, v)
			o.BumpLengthForIndex(idx)
			return
		}
	}
	o.PutOwnData(name, v)
}

// --- invocation ---

// callSync invokes fn (guest or native) to completion by swapping a private
// stack slice into this Interpreter and driving it to exhaustion, so
// helper code (ToPrimitive, Array.prototype.sort comparators invoked from
// native Go, property getters) can call into guest code without modeling a
// full Frame-based continuation. Guest functions run through the same
// dispatch used by the main frame stack; only the outer driving loop
// differs. A guest function that itself pauses (calls an async native) is
// not supported from callSync and returns an error, matching the
// restriction that only the top-level step loop observes pause/resume.
func (ip *Interpreter) callSync(fn *object.Object, this object.Value, args []object.Value) (object.Value, error) {
	if fn.NativeFunc != nil {
		return fn.NativeFunc(ip, this, args)
	}
	if fn.AsyncFunc != nil {
		return object.Undefined(), fmt.Errorf("async function cannot be called synchronously")
	}
	node, ok := fn.Node.(*guestFuncNode)
	if !ok {
		return object.Undefined(), fmt.Errorf("not callable")
	}
	closure, _ := fn.ParentScope.(*scope.Scope)
	callScope := ip.newCallScope(closure, node.Params, args, fn, node.Strict)

	saved := ip.stack
	ip.stack = nil
	ip.push(&Frame{Node: node.Body, Scope: callScope, This: this, Extra: &callMarker{}})
	var result object.Value
	for len(ip.stack) > 0 && !ip.done && !ip.paused {
		f := ip.top()
		ip.dispatch(f)
	}
	if ip.paused {
		ip.paused = false
		ip.stack = saved
		return object.Undefined(), fmt.Errorf("async function cannot be called synchronously")
	}
	if len(ip.stack) == 0 {
		result = ip.lastValue
	}
	if ip.uncaught != nil {
		err := fmt.Errorf("%s", ip.safeToString(ip.uncaught.Value))
		ip.uncaught = nil
		ip.done = false
		ip.stack = saved
		return object.Undefined(), err
	}
	ip.done = false
	ip.stack = saved
	return result, nil
}

func (ip *Interpreter) newCallScope(closure *scope.Scope, params []*ast.Identifier, args []object.Value, fn *object.Object, strict bool) *scope.Scope {
	s := scope.New(closure)
	s.Strict = s.Strict || strict
	argsObj := object.NewWithClass(ip.Roots.ObjectProto, "Arguments")
	for i, a := range args {
		argsObj.PutOwnData(fmt.Sprintf("%d", i), a)
	}
	argsObj.PutOwnData("length", object.Number(float64(len(args))))
	argsObj.SetEnumerable("length", false)
	argsObj.PutOwnData("callee", object.FromObject(fn))
	argsObj.SetEnumerable("callee", false)
	s.Declare("arguments")
	s.Table.PutOwnData("arguments", object.FromObject(argsObj))
	for i, p := range params {
		var v object.Value
		if i < len(args) {
			v = args[i]
		} else {
			v = object.Undefined()
		}
		s.Table.PutOwnData(p.Name, v)
	}
	node, _ := fn.Node.(*guestFuncNode)
	if node != nil {
		scope.Hoist(s, node.Body.Body, ip.makeFunctionDeclaration)
	}
	return s
}

// construct implements the `new` abstract operation (ES5 13.2.2): creates a
// fresh object linked to fn.prototype, invokes fn with that object as
// `this`, and returns the object unless the call explicitly returned
// another object.
func (ip *Interpreter) construct(fn *object.Object, args []object.Value) (object.Value, error) {
	if fn.IllegalConstructor {
		return object.Undefined(), fmt.Errorf("%s is not a constructor", fn.FnName)
	}
	protoV, _ := fn.GetOwn("prototype")
	proto := ip.Roots.ObjectProto
	if protoV.IsObject() {
		proto = protoV.Object()
	}
	instance := object.New(proto)
	this := object.FromObject(instance)
	result, err := ip.callSync(fn, this, args)
	if err != nil {
		return object.Undefined(), err
	}
	if result.IsObject() {
		return result, nil
	}
	return this, nil
}

// instanceOf implements the `instanceof` operator (ES5 11.8.6): walk
// value's prototype chain looking for ctor.prototype.
func (ip *Interpreter) instanceOf(value object.Value, ctor object.Value) (bool, error) {
	if !ctor.IsObject() || !ctor.Object().IsCallable() {
		return false, fmt.Errorf("right-hand side of instanceof is not callable")
	}
	if !value.IsObject() {
		return false, nil
	}
	protoV, ok := ctor.Object().GetOwn("prototype")
	if !ok || !protoV.IsObject() {
		return false, fmt.Errorf("function has non-object prototype")
	}
	target := protoV.Object()
	for cur := value.Object().Proto; cur != nil; cur = cur.Proto {
		if cur == target {
			return true, nil
		}
	}
	return false, nil
}
