package builtins

import (
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/interp"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/scope"
)

// protoOf reads a constructor's own `.prototype` back-link.
func protoOf(ctor *object.Object) *object.Object {
	v, _ := ctor.GetOwn("prototype")
	return v.Object()
}

// Bootstrap builds a fresh global environment and returns an Interpreter
// ready to run program: the Object/Function prototypes first (the two
// every other built-in chains off), then Array/String/Boolean/Number/Date/
// RegExp/Error/Math/JSON, then the free functions (parseInt, eval, ...),
// then the guest-source polyfills for the handful of methods expressed in
// terms of other, already-native built-ins.
func Bootstrap(program *ast.Program) *interp.Interpreter {
	roots := &scope.GlobalRoots{}
	global := scope.New(nil)
	global.Global = roots
	roots.GlobalObject = global.Table

	// Object.prototype has no prototype; Function.prototype's prototype IS
	// Object.prototype. Both are built directly (object.New and
	// NewWithClass) since ctorFunc/method need a funcProto to attach natives to, and that's
	// exactly what's being constructed here.
	objectProto := object.New(nil)
	funcProto := object.NewWithClass(objectProto, "Function")
	roots.ObjectProto = objectProto
	roots.FunctionProto = funcProto

	roots.FunctionCtor = installFunction(funcProto)
	roots.ObjectCtor = installObject(funcProto, objectProto)
	roots.ArrayCtor = installArray(funcProto, objectProto)
	roots.StringCtor = installString(funcProto, objectProto)
	roots.BooleanCtor = installBoolean(funcProto, objectProto)
	roots.NumberCtor = installNumber(funcProto, objectProto)
	roots.DateCtor = installDate(funcProto, objectProto)
	roots.RegExpCtor = installRegExp(funcProto, objectProto)

	errorCtor, errorSubs := installError(funcProto, objectProto)
	roots.ErrorCtor = errorCtor
	roots.ErrorCtors = errorSubs

	roots.ArrayProto = protoOf(roots.ArrayCtor)
	roots.StringProto = protoOf(roots.StringCtor)
	roots.BooleanProto = protoOf(roots.BooleanCtor)
	roots.NumberProto = protoOf(roots.NumberCtor)
	roots.DateProto = protoOf(roots.DateCtor)
	roots.RegExpProto = protoOf(roots.RegExpCtor)
	roots.ErrorProto = protoOf(roots.ErrorCtor)

	roots.MathObj = installMath(funcProto, objectProto)
	roots.JSONObj = installJSON(funcProto, objectProto)

	defineGlobalBinding := func(name string, ctor *object.Object) {
		global.Table.PutOwnData(name, object.FromObject(ctor))
		global.Table.SetEnumerable(name, false)
	}
	defineGlobalBinding("Object", roots.ObjectCtor)
	defineGlobalBinding("Function", roots.FunctionCtor)
	defineGlobalBinding("Array", roots.ArrayCtor)
	defineGlobalBinding("String", roots.StringCtor)
	defineGlobalBinding("Boolean", roots.BooleanCtor)
	defineGlobalBinding("Number", roots.NumberCtor)
	defineGlobalBinding("Date", roots.DateCtor)
	defineGlobalBinding("RegExp", roots.RegExpCtor)
	defineGlobalBinding("Error", roots.ErrorCtor)
	for name, sub := range errorSubs {
		defineGlobalBinding(name, sub)
	}
	global.Table.PutOwnData("Math", object.FromObject(roots.MathObj))
	global.Table.SetEnumerable("Math", false)
	global.Table.PutOwnData("JSON", object.FromObject(roots.JSONObj))
	global.Table.SetEnumerable("JSON", false)

	ip := interp.New(program, global)

	installGlobals(ip, funcProto, global)

	runPolyfill(ip, global, arrayIterationPolyfill)
	runPolyfill(ip, global, functionBindPolyfill)

	return ip
}
