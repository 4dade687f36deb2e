package interp

import (
	"math"
	"strconv"
	"strings"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/scope"
)

// pushRef pushes node (an Identifier or MemberExpression) in reference-
// producing mode: instead of depositing a Value, it deposits a Reference
// into the parent frame's Ref field via finishRef.
func (ip *Interpreter) pushRef(node ast.Node, sc *scope.Scope, this object.Value) {
	ip.push(&Frame{Node: node, Scope: sc, This: this, Components: true})
}

func (ip *Interpreter) finishRef(r Reference) {
	ip.pop()
	if p := ip.top(); p != nil {
		p.Ref = r
	}
}

// getRefValue / setRefValue implement GetValue/PutValue over a Reference
// (the two-element base/name pair), threading a guest-level error Value
// (rather than a Go error) since the caller needs to `throw` it as-is.
func (ip *Interpreter) getRefValue(r Reference) (object.Value, *object.Value) {
	if r.IsVariable {
		v, ok := r.VarScope.Get(r.VarName)
		if !ok {
			e := ip.refError("%s is not defined", r.VarName)
			return object.Undefined(), &e
		}
		return v, nil
	}
	obj, err := ip.ToObject(r.Base)
	if err != nil {
		e := ip.typeError("%v", err)
		return object.Undefined(), &e
	}
	v, _ := ip.getProperty(obj, r.Name)
	return v, nil
}

func (ip *Interpreter) setRefValue(r Reference, v object.Value, strict bool) *object.Value {
	if r.IsVariable {
		ok, readOnly := r.VarScope.Set(r.VarName, v, strict)
		if !ok {
			e := ip.refError("%s is not defined", r.VarName)
			return &e
		}
		if readOnly && strict {
			e := ip.typeError("Cannot assign to read only property %s", r.VarName)
			return &e
		}
		return nil
	}
	obj, err := ip.ToObject(r.Base)
	if err != nil {
		e := ip.typeError("%v", err)
		return &e
	}
	return ip.setProperty(obj, r.Name, v, strict)
}

func (ip *Interpreter) throwValue(v object.Value) {
	ip.pop()
	ip.raise(&Completion{Kind: Throw, Value: v})
}

// stepExpr is the expression half of dispatch's default case.
func (ip *Interpreter) stepExpr(f *Frame) {
	switch f.Node.(type) {
	case *ast.Identifier:
		ip.stepIdentifier(f)
	case *ast.Literal:
		ip.stepLiteral(f)
	case *ast.ThisExpression:
		ip.finish(f.This)
	case *ast.ArrayExpression:
		ip.stepArray(f)
	case *ast.ObjectExpression:
		ip.stepObject(f)
	case *ast.SequenceExpression:
		ip.stepSequence(f)
	case *ast.AssignmentExpression:
		ip.stepAssignment(f)
	case *ast.BinaryExpression:
		ip.stepBinary(f)
	case *ast.LogicalExpression:
		ip.stepLogical(f)
	case *ast.ConditionalExpression:
		ip.stepConditional(f)
	case *ast.UnaryExpression:
		ip.stepUnary(f)
	case *ast.UpdateExpression:
		ip.stepUpdate(f)
	case *ast.MemberExpression:
		ip.stepMember(f)
	case *ast.CallExpression:
		ip.stepCallOrNew(f, false)
	case *ast.NewExpression:
		ip.stepCallOrNew(f, true)
	case *ast.FunctionExpression:
		ip.stepFunctionExpr(f)
	case *valueNode:
		ip.finish(f.Node.(*valueNode).V)
	}
}

func (ip *Interpreter) stepIdentifier(f *Frame) {
	n := f.Node.(*ast.Identifier)
	if f.Components {
		ip.finishRef(Reference{IsVariable: true, VarScope: f.Scope, VarName: n.Name})
		return
	}
	v, ok := f.Scope.Get(n.Name)
	if !ok {
		ip.throwValue(ip.refError("%s is not defined", n.Name))
		return
	}
	ip.finish(v)
}

func (ip *Interpreter) stepLiteral(f *Frame) {
	n := f.Node.(*ast.Literal)
	switch n.Kind {
	case ast.LitNull:
		ip.finish(object.Null())
	case ast.LitBool:
		ip.finish(object.Bool(n.Bool))
	case ast.LitNumber:
		ip.finish(object.Number(n.Num))
	case ast.LitString:
		ip.finish(object.String(n.Str))
	case ast.LitRegExp:
		ip.finish(object.FromObject(object.NewRegExp(ip.Roots.RegExpProto, n.RegExp.Pattern, n.RegExp.Flags)))
	}
}

func (ip *Interpreter) stepFunctionExpr(f *Frame) {
	n := f.Node.(*ast.FunctionExpression)
	if n.Id != nil {
		inner := scope.NewSpecial(f.Scope)
		fnObj := ip.newGuestFunction(n.Id.Name, n.Params, n.Body, inner, n.Strict)
		inner.DeclareFunction(n.Id.Name, object.FromObject(fnObj))
		ip.finish(object.FromObject(fnObj))
		return
	}
	fnObj := ip.newGuestFunction("", n.Params, n.Body, f.Scope, n.Strict)
	ip.finish(object.FromObject(fnObj))
}

func (ip *Interpreter) stepSequence(f *Frame) {
	n := f.Node.(*ast.SequenceExpression)
	if f.Index >= len(n.Expressions) {
		ip.finish(f.Value)
		return
	}
	child := n.Expressions[f.Index]
	f.Index++
	ip.pushChild(child, f.Scope, f.This)
}

func (ip *Interpreter) stepLogical(f *Frame) {
	n := f.Node.(*ast.LogicalExpression)
	switch f.Phase {
	case 0:
		f.Phase = 1
		ip.pushChild(n.Left, f.Scope, f.This)
	case 1:
		b := ip.ToBoolean(f.Value)
		if (n.Operator == "&&" && !b) || (n.Operator == "||" && b) {
			ip.finish(f.Value)
			return
		}
		f.Phase = 2
		ip.pushChild(n.Right, f.Scope, f.This)
	default:
		ip.finish(f.Value)
	}
}

func (ip *Interpreter) stepConditional(f *Frame) {
	n := f.Node.(*ast.ConditionalExpression)
	switch f.Phase {
	case 0:
		f.Phase = 1
		ip.pushChild(n.Test, f.Scope, f.This)
	case 1:
		f.Phase = 2
		if ip.ToBoolean(f.Value) {
			ip.pushChild(n.Consequent, f.Scope, f.This)
		} else {
			ip.pushChild(n.Alternate, f.Scope, f.This)
		}
	default:
		ip.finish(f.Value)
	}
}

func (ip *Interpreter) stepBinary(f *Frame) {
	n := f.Node.(*ast.BinaryExpression)
	switch f.Phase {
	case 0:
		f.Phase = 1
		ip.pushChild(n.Left, f.Scope, f.This)
	case 1:
		f.Values = []object.Value{f.Value}
		f.Phase = 2
		ip.pushChild(n.Right, f.Scope, f.This)
	default:
		result, err := ip.applyBinaryOp(n.Operator, f.Values[0], f.Value)
		if err != nil {
			ip.throwValue(ip.typeError("%v", err))
			return
		}
		ip.finish(result)
	}
}

func propKeyName(key ast.Node) string {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name
	case *ast.Literal:
		switch k.Kind {
		case ast.LitString:
			return k.Str
		case ast.LitNumber:
			return formatNumber(k.Num)
		case ast.LitBool:
			if k.Bool {
				return "true"
			}
			return "false"
		case ast.LitNull:
			return "null"
		}
	}
	return ""
}

func (ip *Interpreter) stepArray(f *Frame) {
	n := f.Node.(*ast.ArrayExpression)
	if f.Extra == nil {
		f.Extra = object.NewArray(ip.Roots.ArrayProto)
	}
	arr := f.Extra.(*object.Object)
	if f.Index > 0 && n.Elements[f.Index-1] != nil {
		arr.PutOwnData(strconv.Itoa(f.Index-1), f.Value)
	}
	for f.Index < len(n.Elements) {
		el := n.Elements[f.Index]
		if el == nil {
			f.Index++
			continue
		}
		f.Index++
		ip.pushChild(el, f.Scope, f.This)
		return
	}
	arr.SetLength(uint32(len(n.Elements)))
	ip.finish(object.FromObject(arr))
}

func (ip *Interpreter) stepObject(f *Frame) {
	n := f.Node.(*ast.ObjectExpression)
	if f.Extra == nil {
		f.Extra = object.New(ip.Roots.ObjectProto)
	}
	obj := f.Extra.(*object.Object)
	if f.Index > 0 {
		prev := n.Properties[f.Index-1]
		if prev.Kind == "init" {
			obj.PutOwnData(propKeyName(prev.Key), f.Value)
		}
	}
	for f.Index < len(n.Properties) {
		prop := n.Properties[f.Index]
		f.Index++
		switch prop.Kind {
		case "init":
			ip.pushChild(prop.Value, f.Scope, f.This)
			return
		case "get", "set":
			fnExpr := prop.Value.(*ast.FunctionExpression)
			fnObj := ip.newGuestFunction("", fnExpr.Params, fnExpr.Body, f.Scope, fnExpr.Strict)
			name := propKeyName(prop.Key)
			if prop.Kind == "get" {
				obj.SetAccessor(name, fnObj, obj.Setter(name))
			} else {
				obj.SetAccessor(name, obj.Getter(name), fnObj)
			}
		}
	}
	ip.finish(object.FromObject(obj))
}

// --- member access ---

func (ip *Interpreter) stepMember(f *Frame) {
	n := f.Node.(*ast.MemberExpression)
	switch f.Phase {
	case 0:
		f.Phase = 1
		ip.pushChild(n.Object, f.Scope, f.This)
	case 1:
		f.Values = []object.Value{f.Value}
		if n.Computed {
			f.Phase = 2
			ip.pushChild(n.Property, f.Scope, f.This)
			return
		}
		ip.resolveMember(f, f.Values[0], n.Property.(*ast.Identifier).Name)
	default: // 2: computed property name ready
		name, err := ip.ToStringValue(f.Value)
		if err != nil {
			ip.throwValue(ip.typeError("%v", err))
			return
		}
		ip.resolveMember(f, f.Values[0], name)
	}
}

func (ip *Interpreter) resolveMember(f *Frame, objValue object.Value, name string) {
	if objValue.IsNullOrUndefined() {
		ip.throwValue(ip.typeError("cannot read property '%s' of %s", name, objValue.GoString()))
		return
	}
	if f.Components {
		ip.finishRef(Reference{Base: objValue, Name: name})
		return
	}
	obj, err := ip.ToObject(objValue)
	if err != nil {
		ip.throwValue(ip.typeError("%v", err))
		return
	}
	v, _ := ip.getProperty(obj, name)
	ip.finish(v)
}

// --- assignment / update ---

func baseOp(op string) string {
	if op == "=" {
		return ""
	}
	return strings.TrimSuffix(op, "=")
}

func (ip *Interpreter) stepAssignment(f *Frame) {
	n := f.Node.(*ast.AssignmentExpression)
	switch f.Phase {
	case 0:
		f.Phase = 1
		ip.pushRef(n.Left, f.Scope, f.This)
	case 1:
		if n.Operator == "=" {
			f.Phase = 3
			ip.pushChild(n.Right, f.Scope, f.This)
			return
		}
		oldVal, errv := ip.getRefValue(f.Ref)
		if errv != nil {
			ip.throwValue(*errv)
			return
		}
		f.Values = []object.Value{oldVal}
		f.Phase = 2
		ip.pushChild(n.Right, f.Scope, f.This)
	case 2:
		result, err := ip.applyBinaryOp(baseOp(n.Operator), f.Values[0], f.Value)
		if err != nil {
			ip.throwValue(ip.typeError("%v", err))
			return
		}
		ip.assignResult(f, result)
	default: // 3
		ip.assignResult(f, f.Value)
	}
}

func (ip *Interpreter) assignResult(f *Frame, result object.Value) {
	if errv := ip.setRefValue(f.Ref, result, f.Scope.Strict); errv != nil {
		ip.throwValue(*errv)
		return
	}
	ip.finish(result)
}

func (ip *Interpreter) stepUpdate(f *Frame) {
	n := f.Node.(*ast.UpdateExpression)
	if f.Phase == 0 {
		f.Phase = 1
		ip.pushRef(n.Argument, f.Scope, f.This)
		return
	}
	oldVal, errv := ip.getRefValue(f.Ref)
	if errv != nil {
		ip.throwValue(*errv)
		return
	}
	oldNum, err := ip.ToNumber(oldVal)
	if err != nil {
		ip.throwValue(ip.typeError("%v", err))
		return
	}
	var newNum float64
	if n.Operator == "++" {
		newNum = oldNum + 1
	} else {
		newNum = oldNum - 1
	}
	if errv := ip.setRefValue(f.Ref, object.Number(newNum), f.Scope.Strict); errv != nil {
		ip.throwValue(*errv)
		return
	}
	if n.Prefix {
		ip.finish(object.Number(newNum))
	} else {
		ip.finish(object.Number(oldNum))
	}
}

// --- unary ---

func (ip *Interpreter) stepUnary(f *Frame) {
	n := f.Node.(*ast.UnaryExpression)
	refCapable := isRefNode(n.Argument)
	switch f.Phase {
	case 0:
		if (n.Operator == "typeof" || n.Operator == "delete") && refCapable {
			f.Phase = 1
			ip.pushRef(n.Argument, f.Scope, f.This)
			return
		}
		f.Phase = 2
		ip.pushChild(n.Argument, f.Scope, f.This)
	case 1:
		ip.finishUnaryRef(f, n)
	default:
		ip.finishUnaryValue(f, n)
	}
}

func isRefNode(n ast.Node) bool {
	switch n.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		return true
	}
	return false
}

func (ip *Interpreter) finishUnaryRef(f *Frame, n *ast.UnaryExpression) {
	switch n.Operator {
	case "typeof":
		if f.Ref.IsVariable {
			v, ok := f.Ref.VarScope.Get(f.Ref.VarName)
			if !ok {
				ip.finish(object.String("undefined"))
				return
			}
			ip.finish(object.String(ip.TypeOf(v)))
			return
		}
		v, errv := ip.getRefValue(f.Ref)
		if errv != nil {
			ip.finish(object.String("undefined"))
			return
		}
		ip.finish(object.String(ip.TypeOf(v)))
	case "delete":
		if f.Ref.IsVariable {
			ip.finish(object.Bool(false))
			return
		}
		obj, err := ip.ToObject(f.Ref.Base)
		if err != nil {
			ip.throwValue(ip.typeError("%v", err))
			return
		}
		if !obj.HasOwn(f.Ref.Name) {
			ip.finish(object.Bool(true))
			return
		}
		if !obj.IsConfigurable(f.Ref.Name) {
			if f.Scope.Strict {
				ip.throwValue(ip.typeError("property %s is non-configurable", f.Ref.Name))
				return
			}
			ip.finish(object.Bool(false))
			return
		}
		obj.DeleteOwn(f.Ref.Name)
		ip.finish(object.Bool(true))
	}
}

func (ip *Interpreter) finishUnaryValue(f *Frame, n *ast.UnaryExpression) {
	switch n.Operator {
	case "typeof":
		ip.finish(object.String(ip.TypeOf(f.Value)))
	case "delete":
		ip.finish(object.Bool(true))
	case "void":
		ip.finish(object.Undefined())
	case "!":
		ip.finish(object.Bool(!ip.ToBoolean(f.Value)))
	case "-":
		num, err := ip.ToNumber(f.Value)
		if err != nil {
			ip.throwValue(ip.typeError("%v", err))
			return
		}
		ip.finish(object.Number(-num))
	case "+":
		num, err := ip.ToNumber(f.Value)
		if err != nil {
			ip.throwValue(ip.typeError("%v", err))
			return
		}
		ip.finish(object.Number(num))
	case "~":
		n32, err := ip.ToInt32(f.Value)
		if err != nil {
			ip.throwValue(ip.typeError("%v", err))
			return
		}
		ip.finish(object.Number(float64(^n32)))
	}
}

// --- binary operator table (ES5 11.5-11.11) ---

func (ip *Interpreter) applyBinaryOp(op string, l, r object.Value) (object.Value, error) {
	switch op {
	case "+":
		lp, err := ip.ToPrimitive(l, "default")
		if err != nil {
			return object.Undefined(), err
		}
		rp, err := ip.ToPrimitive(r, "default")
		if err != nil {
			return object.Undefined(), err
		}
		if lp.IsString() || rp.IsString() {
			ls, _ := ip.ToStringValue(lp)
			rs, _ := ip.ToStringValue(rp)
			return object.String(ls + rs), nil
		}
		ln, _ := ip.ToNumber(lp)
		rn, _ := ip.ToNumber(rp)
		return object.Number(ln + rn), nil
	case "-", "*", "/", "%":
		ln, err := ip.ToNumber(l)
		if err != nil {
			return object.Undefined(), err
		}
		rn, err := ip.ToNumber(r)
		if err != nil {
			return object.Undefined(), err
		}
		switch op {
		case "-":
			return object.Number(ln - rn), nil
		case "*":
			return object.Number(ln * rn), nil
		case "/":
			return object.Number(ln / rn), nil
		default:
			return object.Number(math.Mod(ln, rn)), nil
		}
	case "<", ">", "<=", ">=":
		return ip.relational(op, l, r)
	case "==":
		ok, err := ip.AbstractEquals(l, r)
		return object.Bool(ok), err
	case "!=":
		ok, err := ip.AbstractEquals(l, r)
		return object.Bool(!ok), err
	case "===":
		return object.Bool(ip.StrictEquals(l, r)), nil
	case "!==":
		return object.Bool(!ip.StrictEquals(l, r)), nil
	case "&", "|", "^", "<<", ">>", ">>>":
		return ip.bitwise(op, l, r)
	case "instanceof":
		ok, err := ip.instanceOf(l, r)
		return object.Bool(ok), err
	case "in":
		if !r.IsObject() {
			return object.Undefined(), errNotObject
		}
		name, err := ip.ToStringValue(l)
		if err != nil {
			return object.Undefined(), err
		}
		return object.Bool(hasInChain(r.Object(), name)), nil
	}
	return object.Undefined(), errUnknownOp
}

func hasInChain(o *object.Object, name string) bool {
	for cur := o; cur != nil; cur = cur.Proto {
		if cur.HasOwn(name) {
			return true
		}
	}
	return false
}

func (ip *Interpreter) relational(op string, l, r object.Value) (object.Value, error) {
	lp, err := ip.ToPrimitive(l, "number")
	if err != nil {
		return object.Undefined(), err
	}
	rp, err := ip.ToPrimitive(r, "number")
	if err != nil {
		return object.Undefined(), err
	}
	if lp.IsString() && rp.IsString() {
		ls, rs := lp.String(), rp.String()
		switch op {
		case "<":
			return object.Bool(ls < rs), nil
		case ">":
			return object.Bool(ls > rs), nil
		case "<=":
			return object.Bool(ls <= rs), nil
		default:
			return object.Bool(ls >= rs), nil
		}
	}
	ln, _ := ip.ToNumber(lp)
	rn, _ := ip.ToNumber(rp)
	if math.IsNaN(ln) || math.IsNaN(rn) {
		return object.Bool(false), nil
	}
	switch op {
	case "<":
		return object.Bool(ln < rn), nil
	case ">":
		return object.Bool(ln > rn), nil
	case "<=":
		return object.Bool(ln <= rn), nil
	default:
		return object.Bool(ln >= rn), nil
	}
}

func (ip *Interpreter) bitwise(op string, l, r object.Value) (object.Value, error) {
	if op == "<<" || op == ">>" || op == ">>>" {
		ln, err := ip.ToInt32(l)
		if err != nil {
			return object.Undefined(), err
		}
		rn, err := ip.ToNumber(r)
		if err != nil {
			return object.Undefined(), err
		}
		shift := toUint32(rn) & 31
		switch op {
		case "<<":
			return object.Number(float64(ln << shift)), nil
		case ">>":
			return object.Number(float64(ln >> shift)), nil
		default:
			return object.Number(float64(toUint32(float64(ln)) >> shift)), nil
		}
	}
	ln, err := ip.ToInt32(l)
	if err != nil {
		return object.Undefined(), err
	}
	rn, err := ip.ToInt32(r)
	if err != nil {
		return object.Undefined(), err
	}
	switch op {
	case "&":
		return object.Number(float64(ln & rn)), nil
	case "|":
		return object.Number(float64(ln | rn)), nil
	default:
		return object.Number(float64(ln ^ rn)), nil
	}
}

var errNotObject = strconvError("right-hand side of 'in' is not an object")
var errUnknownOp = strconvError("unknown binary operator")

type strconvError string

func (e strconvError) Error() string { return string(e) }

// --- call / new ---

// calleeInfo accumulates the pieces of an in-progress CallExpression or
// NewExpression across its Frame's phases (callee value, receiver, and
// whether this is a `new` invocation), stored in Frame.Extra to keep the
// per-kind Frame fields generic.
type calleeInfo struct {
	Fn    object.Value
	Recv  object.Value
	IsNew bool
}

func (ip *Interpreter) stepCallOrNew(f *Frame, isNew bool) {
	var callee ast.Node
	var args []ast.Node
	if isNew {
		n := f.Node.(*ast.NewExpression)
		callee, args = n.Callee, n.Arguments
	} else {
		n := f.Node.(*ast.CallExpression)
		callee, args = n.Callee, n.Arguments
	}
	switch f.Phase {
	case 0:
		if !isNew {
			if _, ok := callee.(*ast.MemberExpression); ok {
				f.Phase = 1
				ip.pushRef(callee, f.Scope, f.This)
				return
			}
		}
		f.Phase = 2
		ip.pushChild(callee, f.Scope, f.This)
	case 1:
		fnv, errv := ip.getRefValue(f.Ref)
		if errv != nil {
			ip.throwValue(*errv)
			return
		}
		f.Extra = &calleeInfo{Fn: fnv, Recv: f.Ref.Base, IsNew: isNew}
		f.Index = 0
		f.Phase = 3
		ip.advanceCallArgs(f, args)
	case 2:
		f.Extra = &calleeInfo{Fn: f.Value, Recv: object.Undefined(), IsNew: isNew}
		f.Index = 0
		f.Phase = 3
		ip.advanceCallArgs(f, args)
	case 3:
		ip.advanceCallArgs(f, args)
	case 4:
		cb := f.Extra.(*calleeInfo)
		result := f.Value
		if cb.IsNew && !result.IsObject() {
			result = cb.Recv
		}
		ip.finish(result)
	case 5:
		if !ip.hasResume {
			return
		}
		v, err := ip.resumeVal, ip.resumeErr
		ip.hasResume = false
		if err != nil {
			ip.throwValue(errAsValue(ip, err))
			return
		}
		cb := f.Extra.(*calleeInfo)
		if cb.IsNew && !v.IsObject() {
			v = cb.Recv
		}
		ip.finish(v)
	}
}

func (ip *Interpreter) advanceCallArgs(f *Frame, argNodes []ast.Node) {
	if f.Index > 0 {
		f.Values = append(f.Values, f.Value)
	}
	if f.Index >= len(argNodes) {
		ip.performInvocation(f)
		return
	}
	child := argNodes[f.Index]
	f.Index++
	ip.pushChild(child, f.Scope, f.This)
}

func (ip *Interpreter) performInvocation(f *Frame) {
	cb := f.Extra.(*calleeInfo)
	if !cb.Fn.IsCallable() {
		ip.throwValue(ip.typeError("value is not a function"))
		return
	}
	fnObj := cb.Fn.Object()
	if cb.IsNew {
		if fnObj.IllegalConstructor {
			ip.throwValue(ip.typeError("%s is not a constructor", fnObj.FnName))
			return
		}
		protoV, _ := fnObj.GetOwn("prototype")
		proto := ip.Roots.ObjectProto
		if protoV.IsObject() {
			proto = protoV.Object()
		}
		cb.Recv = object.FromObject(object.New(proto))
	}
	if fnObj.NativeFunc != nil {
		res, err := fnObj.NativeFunc(ip, cb.Recv, f.Values)
		if err != nil {
			ip.throwValue(errAsValue(ip, err))
			return
		}
		if cb.IsNew && !res.IsObject() {
			res = cb.Recv
		}
		ip.finish(res)
		return
	}
	if fnObj.AsyncFunc != nil {
		f.Phase = 5
		ip.Pause()
		fnObj.AsyncFunc(ip, cb.Recv, f.Values, func(v object.Value, err error) { ip.Resume(v, err) })
		return
	}
	node, ok := fnObj.Node.(*guestFuncNode)
	if !ok {
		ip.throwValue(ip.typeError("value is not callable"))
		return
	}
	closure, _ := fnObj.ParentScope.(*scope.Scope)
	recv := cb.Recv
	if !cb.IsNew {
		recv = ip.thisForCall(recv, node.Strict)
	}
	callScope := ip.newCallScope(closure, node.Params, f.Values, fnObj, node.Strict)
	f.Phase = 4
	ip.push(&Frame{Node: node.Body, Scope: callScope, This: recv, Extra: &callMarker{}})
}

func (ip *Interpreter) thisForCall(v object.Value, strict bool) object.Value {
	if strict {
		return v
	}
	if v.IsNullOrUndefined() {
		return object.FromObject(ip.Roots.GlobalObject)
	}
	obj, err := ip.ToObject(v)
	if err != nil {
		return v
	}
	return object.FromObject(obj)
}

// GuestThrow lets native functions (package builtins) raise a specific
// guest exception value (e.g. a RangeError) rather than a generic
// TypeError built from err.Error().
type GuestThrow struct{ V object.Value }

func (g *GuestThrow) Error() string { return "guest exception" }

func errAsValue(ip *Interpreter, err error) object.Value {
	if gt, ok := err.(*GuestThrow); ok {
		return gt.V
	}
	return ip.typeError("%v", err)
}
