package builtins

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/interp"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/parser"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/scope"
)

// installGlobals wires the free functions of the global object: parseInt,
// parseFloat, isNaN, isFinite, the URI en/decoders, and eval.
func installGlobals(ip *interp.Interpreter, funcProto *object.Object, global *scope.Scope) {
	g := global.Table

	define := func(name string, length int, fn NativeFn) {
		g.PutOwnData(name, object.FromObject(newNative(funcProto, name, length, fn)))
		g.SetEnumerable(name, false)
	}

	define("parseInt", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := hostIP(host).ToStringValue(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		radix := 0
		if len(args) > 1 {
			r, err := hostIP(host).ToNumber(args[1])
			if err != nil {
				return object.Undefined(), err
			}
			radix = int(r)
		}
		return object.Number(parseIntString(s, radix)), nil
	})
	define("parseFloat", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := hostIP(host).ToStringValue(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		return object.Number(parseFloatString(s)), nil
	})
	define("isNaN", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		n, err := hostIP(host).ToNumber(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		return object.Bool(n != n), nil
	})
	define("isFinite", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		n, err := hostIP(host).ToNumber(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		return object.Bool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	})
	define("encodeURIComponent", 1, uriTransform(url.QueryEscape, true))
	define("decodeURIComponent", 1, uriUnescape)
	define("encodeURI", 1, uriTransform(url.QueryEscape, false))
	define("decodeURI", 1, uriUnescape)

	define("eval", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		if !v.IsString() {
			return v, nil
		}
		prog, err := parser.New(v.String(), parser.Options{}).ParseProgram()
		if err != nil {
			return object.Undefined(), newSyntaxError(host, "%v", err)
		}
		return ip.EvalInScope(prog.Body, global, this)
	})

	// __indirectEval runs its argument in the global scope with the global
	// object as `this`. The evaluator does not tell direct from indirect
	// eval calls and nothing routes a call here by itself; `eval` above
	// also runs its argument in the global scope, whatever scope calls it.
	g.PutOwnData("__indirectEval", object.FromObject(newNative(funcProto, "eval", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		if !v.IsString() {
			return v, nil
		}
		prog, err := parser.New(v.String(), parser.Options{}).ParseProgram()
		if err != nil {
			return object.Undefined(), newSyntaxError(host, "%v", err)
		}
		return ip.EvalInScope(prog.Body, global, object.FromObject(g))
	})))
	g.SetEnumerable("__indirectEval", false)

	// print/console.* give an embedding host the bare minimum binding it
	// needs to produce visible output; every native-function wrapper goes
	// through the usual ToStringValue conversion so `print({})` etc. behave
	// like their guest-side toString would suggest.
	logFn := func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			s, err := hostIP(host).ToStringValue(a)
			if err != nil {
				return object.Undefined(), err
			}
			parts[i] = s
		}
		fmt.Println(strings.Join(parts, " "))
		return object.Undefined(), nil
	}
	define("print", 1, logFn)

	console := object.New(ip.Roots.ObjectProto)
	for _, name := range []string{"log", "warn", "error", "info"} {
		console.PutOwnData(name, object.FromObject(newNative(funcProto, name, 1, logFn)))
		console.SetEnumerable(name, false)
	}
	g.PutOwnData("console", object.FromObject(console))
	g.SetEnumerable("console", false)

	g.PutOwnData("NaN", object.Number(math.NaN()))
	g.SetWritable("NaN", false)
	g.SetEnumerable("NaN", false)
	g.PutOwnData("Infinity", object.Number(math.Inf(1)))
	g.SetWritable("Infinity", false)
	g.SetEnumerable("Infinity", false)
	g.PutOwnData("undefined", object.Undefined())
	g.SetWritable("undefined", false)
	g.SetEnumerable("undefined", false)
}

func uriTransform(escape func(string) string, component bool) NativeFn {
	return func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := hostIP(host).ToStringValue(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		escaped := escape(s)
		escaped = strings.ReplaceAll(escaped, "+", "%20")
		if !component {
			for _, safe := range []string{";", "/", "?", ":", "@", "&", "=", "+", "$", ",", "#"} {
				escaped = strings.ReplaceAll(escaped, url.QueryEscape(safe), safe)
			}
		}
		return object.String(escaped), nil
	}
}

func uriUnescape(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
	s, err := hostIP(host).ToStringValue(arg(args, 0))
	if err != nil {
		return object.Undefined(), err
	}
	out, uerr := url.QueryUnescape(strings.ReplaceAll(s, "+", "%2B"))
	if uerr != nil {
		return object.Undefined(), newURIError(host, "URI malformed")
	}
	return object.String(out), nil
}

func newURIError(host object.Host, format string, args ...any) error {
	return &interp.GuestThrow{V: host.NewError("URIError", format, args...)}
}

func parseIntString(s string, radix int) float64 {
	s = strings.TrimSpace(s)
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if radix == 0 {
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			radix = 16
			s = s[2:]
		} else {
			radix = 10
		}
	} else if radix == 16 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		s = s[2:]
	}
	end := 0
	for end < len(s) && digitValue(s[end]) < radix {
		end++
	}
	if end == 0 {
		return math.NaN()
	}
	n, err := strconv.ParseInt(s[:end], radix, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s[:end], 64)
		if ferr != nil {
			return math.NaN()
		}
		if neg {
			return -f
		}
		return f
	}
	if neg {
		return -float64(n)
	}
	return float64(n)
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}

func parseFloatString(s string) float64 {
	s = strings.TrimSpace(s)
	signLen := 0
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		signLen = 1
	}
	if strings.HasPrefix(s[signLen:], "Infinity") {
		if signLen == 1 && s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	end, seenDot, seenExp, seenDigit := signLen, false, false, false
loop:
	for end < len(s) {
		switch c := s[end]; {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && !seenExp && seenDigit:
			seenExp = true
			if end+1 < len(s) && (s[end+1] == '+' || s[end+1] == '-') {
				end++
			}
		default:
			break loop
		}
		end++
	}
	if !seenDigit {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
