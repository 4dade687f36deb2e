// Package scope implements a chained scope model: a Scope is an Object
// (proto = nil) with a parent link and a strict flag. A single hoisting
// pass populates var/function bindings at scope creation;
// special scopes for catch/with inherit strict but skip hoisting.
package scope

import (
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

// Scope wraps an Object used purely as a property bag (proto is always nil
// for the table itself; a `with` scope's table IS the with-object, which
// may have its own Proto chain and is looked up via WithObject instead).
type Scope struct {
	Table  *object.Object
	Parent *Scope
	Strict bool

	// WithObject, when non-nil, makes this a `with` special scope: property
	// lookups see the object's own+inherited properties before falling
	// through to Table (which stays empty for a with-scope).
	WithObject *object.Object

	// Global is set only on the outermost scope; built-ins use it to find
	// constructor roots without threading them through every call.
	Global *GlobalRoots
}

// GlobalRoots holds the built-in constructor/prototype objects installed by
// package builtins at construction time, so the evaluator
// and bridge can reach them (e.g. to build a new Array, or re-throw a guest
// TypeError) without a second lookup mechanism.
type GlobalRoots struct {
	ObjectProto   *object.Object
	FunctionProto *object.Object
	ArrayProto    *object.Object
	StringProto   *object.Object
	NumberProto   *object.Object
	BooleanProto  *object.Object
	DateProto     *object.Object
	RegExpProto   *object.Object
	ErrorProto    *object.Object

	ObjectCtor   *object.Object
	FunctionCtor *object.Object
	ArrayCtor    *object.Object
	StringCtor   *object.Object
	NumberCtor   *object.Object
	BooleanCtor  *object.Object
	DateCtor     *object.Object
	RegExpCtor   *object.Object
	ErrorCtor    *object.Object

	ErrorCtors map[string]*object.Object // EvalError, RangeError, ReferenceError, SyntaxError, TypeError, URIError

	MathObj *object.Object
	JSONObj *object.Object

	GlobalObject *object.Object // the global scope's Table, exposed for Function() / indirect eval
}

// New creates a fresh scope whose Table has no prototype (a Scope is never
// looked up via prototype chain walking on itself — only Table's own
// properties are bindings).
func New(parent *Scope) *Scope {
	s := &Scope{Table: object.New(nil), Parent: parent}
	if parent != nil {
		s.Strict = parent.Strict
		s.Global = parent.Global
	}
	return s
}

// NewSpecial creates a catch/with scope: it inherits strict from parent but
// does NOT run the hoisting pass.
func NewSpecial(parent *Scope) *Scope {
	s := New(parent)
	return s
}

// NewWith creates a `with` scope whose lookups resolve against obj.
func NewWith(parent *Scope, obj *object.Object) *Scope {
	s := NewSpecial(parent)
	s.WithObject = obj
	return s
}

// Declare creates name -> undefined in this scope's own table if not
// already present (used by the hoisting pass for `var`).
func (s *Scope) Declare(name string) {
	if !s.Table.HasOwn(name) {
		s.Table.PutOwnData(name, object.Undefined())
	}
}

// DeclareFunction binds name -> fn unconditionally (function declarations
// always (re)bind, even over an existing var of the same name), per
// always (re)bind, even over an existing var of the same name.
func (s *Scope) DeclareFunction(name string, fn object.Value) {
	s.Table.PutOwnData(name, fn)
}

// HasOwnBinding reports whether this scope (not its parents) declares name;
// for a with-scope it consults the with object's own+inherited properties.
func (s *Scope) HasOwnBinding(name string) bool {
	if s.WithObject != nil {
		return hasPropertyInChain(s.WithObject, name)
	}
	return s.Table.HasOwn(name)
}

func hasPropertyInChain(o *object.Object, name string) bool {
	for cur := o; cur != nil; cur = cur.Proto {
		if cur.HasOwn(name) {
			return true
		}
	}
	return false
}

// Hoist performs a single hoisting pass over
// node's statement list: VariableDeclaration declarators bind `undefined`;
// FunctionDeclaration immediately builds a function object via makeFunc (no
// recursion into its body); FunctionExpression and ExpressionStatement are
// not descended into. makeFunc is supplied by package interp (it needs the
// scope and an object.Host to build a callable Function object) to avoid an
// import cycle.
func Hoist(s *Scope, body []ast.Node, makeFunc func(decl *ast.FunctionDeclaration, scope *Scope) object.Value) {
	for _, stmt := range body {
		hoistNode(s, stmt, makeFunc)
	}
}

func hoistNode(s *Scope, n ast.Node, makeFunc func(*ast.FunctionDeclaration, *Scope) object.Value) {
	switch v := n.(type) {
	case nil:
		return
	case *ast.VariableDeclaration:
		for _, d := range v.Declarations {
			s.Declare(d.Id.Name)
		}
	case *ast.FunctionDeclaration:
		s.DeclareFunction(v.Id.Name, makeFunc(v, s))
	case *ast.FunctionExpression:
		return // never descended into
	case *ast.ExpressionStatement:
		return // never descended into
	case *ast.BlockStatement:
		for _, c := range v.Body {
			hoistNode(s, c, makeFunc)
		}
	case *ast.IfStatement:
		hoistNode(s, v.Consequent, makeFunc)
		hoistNode(s, v.Alternate, makeFunc)
	case *ast.ForStatement:
		hoistNode(s, v.Init, makeFunc)
		hoistNode(s, v.Body, makeFunc)
	case *ast.ForInStatement:
		hoistNode(s, v.Left, makeFunc)
		hoistNode(s, v.Body, makeFunc)
	case *ast.WhileStatement:
		hoistNode(s, v.Body, makeFunc)
	case *ast.DoWhileStatement:
		hoistNode(s, v.Body, makeFunc)
	case *ast.TryStatement:
		hoistNode(s, v.Block, makeFunc)
		if v.Handler != nil {
			hoistNode(s, v.Handler.Body, makeFunc)
		}
		if v.Finalizer != nil {
			hoistNode(s, v.Finalizer, makeFunc)
		}
	case *ast.WithStatement:
		hoistNode(s, v.Body, makeFunc)
	case *ast.LabeledStatement:
		hoistNode(s, v.Body, makeFunc)
	case *ast.SwitchStatement:
		for _, c := range v.Cases {
			for _, stmt := range c.Consequent {
				hoistNode(s, stmt, makeFunc)
			}
		}
	}
}

// Get walks parent scopes looking for name; at the global scope, property
// lookup (prototype-aware) on the global object table is also attempted
// (the global Table doubles as the global object, so this is automatic).
// With-scopes consult their object's own+inherited properties first.
func (s *Scope) Get(name string) (object.Value, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.WithObject != nil {
			if v, ok := getInChain(cur.WithObject, name); ok {
				return v, true
			}
			continue
		}
		if cur.Parent == nil {
			// global scope: prototype-aware lookup on Table itself
			if v, ok := getInChain(cur.Table, name); ok {
				return v, true
			}
			return object.Undefined(), false
		}
		if cur.Table.HasOwn(name) {
			v, _ := cur.Table.GetOwn(name)
			return v, true
		}
	}
	return object.Undefined(), false
}

func getInChain(o *object.Object, name string) (object.Value, bool) {
	for cur := o; cur != nil; cur = cur.Proto {
		if v, ok := cur.GetOwn(name); ok {
			return v, true
		}
	}
	return object.Undefined(), false
}

// FindOwner returns the nearest scope (walking outward) that declares name,
// honoring with-scopes and the global object's prototype chain, or nil.
func (s *Scope) FindOwner(name string) *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.HasOwnBinding(name) {
			return cur
		}
		if cur.Parent == nil {
			return nil
		}
	}
	return nil
}

// Set writes name into the nearest enclosing scope that declares it,
// honoring the target binding's notWritable descriptor bit the same way
// setProperty does for plain object properties (built-ins such as NaN,
// Infinity, and undefined are installed non-writable on the global
// object). ok reports whether name was found (or, non-strict, implicitly
// created) at all; strict callers use ok=false to throw ReferenceError.
// readOnly reports a write rejected by a non-writable binding; strict
// callers throw TypeError, non-strict silently no-ops.
func (s *Scope) Set(name string, v object.Value, strict bool) (ok, readOnly bool) {
	owner := s.FindOwner(name)
	if owner != nil {
		if owner.WithObject != nil {
			if !writeInChain(owner.WithObject, name, v) {
				return true, true
			}
			return true, false
		}
		if !owner.Table.IsWritable(name) {
			return true, true
		}
		owner.Table.PutOwnData(name, v)
		return true, false
	}
	if strict {
		return false, false
	}
	g := s.globalScope().Table
	if g.HasOwn(name) && !g.IsWritable(name) {
		return true, true
	}
	g.PutOwnData(name, v)
	return true, false
}

// writeInChain writes name on o, honoring the notWritable bit of whichever
// object in o's prototype chain currently owns the property (matching
// setProperty's shadow-on-write behavior for inherited properties).
func writeInChain(o *object.Object, name string, v object.Value) bool {
	for cur := o; cur != nil; cur = cur.Proto {
		if cur.HasOwn(name) {
			if !cur.IsWritable(name) {
				return false
			}
			break
		}
	}
	o.PutOwnData(name, v)
	return true
}

func (s *Scope) globalScope() *Scope {
	cur := s
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// IsGlobal reports whether s is the outermost scope.
func (s *Scope) IsGlobal() bool { return s.Parent == nil }
