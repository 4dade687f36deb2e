package bridge

import (
	"testing"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/builtins"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/interp"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/parser"
)

func newInterp(t *testing.T) *interp.Interpreter {
	t.Helper()
	prog, err := parser.New("", parser.Options{}).ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return builtins.Bootstrap(prog)
}

func TestNativeToGuestRoundTripsJSONShapes(t *testing.T) {
	ip := newInterp(t)

	native := map[string]any{
		"name":  "rope",
		"count": float64(3),
		"tags":  []any{"a", "b"},
	}
	guest := NativeToGuest(ip, native)
	if !guest.IsObject() {
		t.Fatalf("expected object, got kind %v", guest.Kind())
	}
	back := GuestToNative(ip, guest, nil)
	m, ok := back.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", back)
	}
	if m["name"] != "rope" || m["count"] != float64(3) {
		t.Fatalf("round-trip mismatch: %#v", m)
	}
	tags, ok := m["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Fatalf("expected tags [a b], got %#v", m["tags"])
	}
}

func TestGuestToNativePreservesCycles(t *testing.T) {
	ip := newInterp(t)

	o := object.New(ip.Roots.ObjectProto)
	o.PutOwnData("self", object.FromObject(o))

	native := GuestToNative(ip, object.FromObject(o), nil)
	m, ok := native.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", native)
	}
	self, ok := m["self"].(map[string]any)
	if !ok {
		t.Fatalf("expected self-reference to resolve, got %#v", m["self"])
	}
	if _, ok := self["self"]; !ok {
		t.Fatalf("expected cyclic native graph, got a single level only")
	}
}

func TestCreateNativeFunctionIsCallableFromGuest(t *testing.T) {
	ip := newInterp(t)

	called := false
	fn := CreateNativeFunction(ip, "ping", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		called = true
		return object.Number(42), nil
	})
	result, err := ip.Call(fn, object.Undefined(), nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !called {
		t.Fatalf("native function body did not run")
	}
	if !result.IsNumber() || result.Number() != 42 {
		t.Fatalf("expected 42, got %v", result)
	}
}

func TestCreateAsyncFunctionStoresResumeCallback(t *testing.T) {
	ip := newInterp(t)

	var storedResume func(object.Value, error)
	fn := CreateAsyncFunction(ip, "delayed", 0, func(args []object.Value, resume func(object.Value, error)) {
		storedResume = resume
	})
	fn.AsyncFunc(ip, object.Undefined(), nil, func(v object.Value, err error) {})
	if storedResume == nil {
		t.Fatalf("async wrapper never invoked fn with a resume callback")
	}
}

func TestDefinePropertyDefaultsToAllTrue(t *testing.T) {
	ip := newInterp(t)

	o := object.New(ip.Roots.ObjectProto)
	DefineProperty(ip, o, "x", Descriptor{Value: float64(7)})
	if !o.IsConfigurable("x") || !o.IsEnumerable("x") || !o.IsWritable("x") {
		t.Fatalf("zero Descriptor should default to configurable/enumerable/writable=true")
	}
	if got := GetProperty(ip, o, "x"); got != float64(7) {
		t.Fatalf("GetProperty = %#v, want 7", got)
	}
}

func TestDefinePropertyAccessor(t *testing.T) {
	ip := newInterp(t)

	o := object.New(ip.Roots.ObjectProto)
	backing := float64(1)
	DefineProperty(ip, o, "count", Descriptor{
		HasGetSet: true,
		Get: func(ip *interp.Interpreter, this object.Value) (object.Value, error) {
			return object.Number(backing), nil
		},
		Set: func(ip *interp.Interpreter, this object.Value, v object.Value) error {
			backing = v.Number()
			return nil
		},
	})
	if got := GetProperty(ip, o, "count"); got != float64(1) {
		t.Fatalf("initial GetProperty = %#v, want 1", got)
	}
	if err := SetProperty(ip, o, "count", float64(9)); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	if backing != 9 {
		t.Fatalf("setter did not run, backing = %v", backing)
	}
}
