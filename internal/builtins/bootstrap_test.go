package builtins

import (
	"testing"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/bridge"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/parser"
)

func runSource(t *testing.T, src string) object.Value {
	t.Helper()
	prog, err := parser.New(src, parser.Options{}).ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ip := Bootstrap(prog)
	if err := ip.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	return ip.Value()
}

func TestArithmeticAndVarBinding(t *testing.T) {
	v := runSource(t, "var x = 2 + 3 * 4; x;")
	if !v.IsNumber() || v.Number() != 14 {
		t.Fatalf("result = %#v, want 14", v)
	}
}

func TestArrayIterationPolyfillMap(t *testing.T) {
	v := runSource(t, "[1,2,3].map(function(n) { return n * 2; }).join(',');")
	if !v.IsString() || v.String() != "2,4,6" {
		t.Fatalf("result = %#v, want \"2,4,6\"", v)
	}
}

func TestFunctionBindPolyfill(t *testing.T) {
	v := runSource(t, `
		var obj = { n: 10 };
		function get() { return this.n; }
		var bound = get.bind(obj);
		bound();
	`)
	if !v.IsNumber() || v.Number() != 10 {
		t.Fatalf("result = %#v, want 10", v)
	}
}

func TestTryCatchCatchesThrownObject(t *testing.T) {
	v := runSource(t, `
		var caught;
		try {
			throw new TypeError("boom");
		} catch (e) {
			caught = e.message;
		}
		caught;
	`)
	if !v.IsString() || v.String() != "boom" {
		t.Fatalf("result = %#v, want \"boom\"", v)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	v := runSource(t, `JSON.stringify(JSON.parse('{"a":1,"b":[2,3]}'));`)
	if !v.IsString() {
		t.Fatalf("result = %#v, want a string", v)
	}
}

func TestUncaughtExceptionSurfacesAsRunError(t *testing.T) {
	prog, err := parser.New("throw new Error('bad');", parser.Options{}).ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ip := Bootstrap(prog)
	if err := ip.Run(); err == nil {
		t.Fatalf("expected Run to report the uncaught exception")
	}
}

func TestNonWritableGlobalRebindIsNoOpOutsideStrictMode(t *testing.T) {
	v := runSource(t, "NaN = 1; Infinity = 2; undefined = 3; NaN;")
	if !v.IsNumber() || !isNaNNumber(v.Number()) {
		t.Fatalf("result = %#v, want NaN unchanged", v)
	}
}

func isNaNNumber(f float64) bool { return f != f }

func TestNonWritableGlobalRebindThrowsInStrictMode(t *testing.T) {
	prog, err := parser.New(`"use strict"; NaN = 1;`, parser.Options{}).ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ip := Bootstrap(prog)
	if err := ip.Run(); err == nil {
		t.Fatalf("expected Run to report a TypeError for assigning to NaN")
	}
}

func TestGetterIsInvokedExactlyOnceOnPropertyRead(t *testing.T) {
	v := runSource(t, `
		var calls = 0;
		var o = { get x() { calls++; return 42; } };
		var first = o.x;
		first + calls * 100;
	`)
	if !v.IsNumber() || v.Number() != 142 {
		t.Fatalf("result = %#v, want 142 (42 + one call counted as 100)", v)
	}
}

func TestStrictModeUndeclaredAssignmentThrowsReferenceError(t *testing.T) {
	v := runSource(t, `
		(function() {
			"use strict";
			try {
				undeclared = 1;
				return "no";
			} catch (e) {
				return e.name;
			}
		})();
	`)
	if !v.IsString() || v.String() != "ReferenceError" {
		t.Fatalf("result = %#v, want \"ReferenceError\"", v)
	}
}

func TestAsyncFunctionPauseResumeRoundTrip(t *testing.T) {
	prog, err := parser.New("var t = sleep(10); t + 1;", parser.Options{}).ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ip := Bootstrap(prog)

	var resume func(object.Value, error)
	sleepFn := bridge.CreateAsyncFunction(ip, "sleep", 1, func(args []object.Value, r func(object.Value, error)) {
		resume = r
	})
	ip.Global.Table.PutOwnData("sleep", object.FromObject(sleepFn))
	ip.Global.Table.SetEnumerable("sleep", false)

	if err := ip.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !ip.Paused() {
		t.Fatalf("expected interpreter to be paused pending sleep's callback")
	}
	if resume == nil {
		t.Fatalf("expected sleep to capture a resume callback")
	}

	resume(object.Number(0), nil)
	if err := ip.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if ip.Paused() {
		t.Fatalf("expected interpreter to finish after resume")
	}
	v := ip.Value()
	if !v.IsNumber() || v.Number() != 1 {
		t.Fatalf("result = %#v, want 1", v)
	}
}
