package builtins

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

// compileRegexp translates an ES5 pattern/flags pair to a Go RE2 regexp.
// RE2 covers ordinary character classes, quantifiers, groups and anchors;
// backreferences and lookaround are rejected by regexp.Compile and surface
// to the guest as a SyntaxError, same as an engine limit would.
func compileRegexp(host object.Host, source, flags string) (*regexp.Regexp, error) {
	pattern := source
	var prefix string
	if strings.Contains(flags, "i") {
		prefix += "i"
	}
	if strings.Contains(flags, "s") {
		prefix += "s"
	}
	if strings.Contains(flags, "m") {
		prefix += "m"
	}
	if prefix != "" {
		pattern = "(?" + prefix + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newSyntaxError(host, "Invalid regular expression: %v", err)
	}
	return re, nil
}

func installRegExp(funcProto, objectProto *object.Object) *object.Object {
	regexpProto := object.NewWithClass(objectProto, "RegExp")

	method(funcProto, regexpProto, "toString", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		d := this.Object().Data.(object.RegExpData)
		return object.String("/" + d.Source + "/" + d.Flags), nil
	})
	method(funcProto, regexpProto, "test", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		v, err := execRegexp(host, this.Object(), arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		return object.Bool(!v.IsNull()), nil
	})
	method(funcProto, regexpProto, "exec", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		return execRegexp(host, this.Object(), arg(args, 0))
	})

	ctor := ctorFunc(funcProto, regexpProto, "RegExp", 2, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		src := ""
		flags := ""
		p := arg(args, 0)
		if p.IsObject() && p.Object().Class == "RegExp" {
			d := p.Object().Data.(object.RegExpData)
			src, flags = d.Source, d.Flags
		} else if !p.IsUndefined() {
			s, err := hostIP(host).ToStringValue(p)
			if err != nil {
				return object.Undefined(), err
			}
			src = s
		}
		if len(args) > 1 && !args[1].IsUndefined() {
			f, err := hostIP(host).ToStringValue(args[1])
			if err != nil {
				return object.Undefined(), err
			}
			flags = f
		}
		if _, err := compileRegexp(host, src, flags); err != nil {
			return object.Undefined(), err
		}
		return object.FromObject(object.NewRegExp(currentRoots(host).RegExpProto, src, flags)), nil
	})
	return ctor
}

// execRegexp runs one match against str per ES5 15.10.6.2, honoring the
// `g` flag's lastIndex-resumed search and advancing lastIndex on success.
func execRegexp(host object.Host, re *object.Object, strv object.Value) (object.Value, error) {
	s, err := hostIP(host).ToStringValue(strv)
	if err != nil {
		return object.Undefined(), err
	}
	d := re.Data.(object.RegExpData)
	compiled, err := compileRegexp(host, d.Source, d.Flags)
	if err != nil {
		return object.Undefined(), err
	}
	global := strings.Contains(d.Flags, "g")
	start := 0
	if global {
		v, _ := re.GetOwn("lastIndex")
		start = int(v.Number())
		if start < 0 || start > len(s) {
			re.PutOwnData("lastIndex", object.Number(0))
			return object.Null(), nil
		}
	}
	loc := compiled.FindStringSubmatchIndex(s[start:])
	if loc == nil {
		if global {
			re.PutOwnData("lastIndex", object.Number(0))
		}
		return object.Null(), nil
	}
	roots := currentRoots(host)
	arr := object.NewArray(roots.ArrayProto)
	n := len(loc) / 2
	for i := 0; i < n; i++ {
		if loc[2*i] < 0 {
			arr.PutOwnData(itoa(i), object.Undefined())
			continue
		}
		arr.PutOwnData(itoa(i), object.String(s[start+loc[2*i]:start+loc[2*i+1]]))
	}
	arr.SetLength(uint32(n))
	arr.PutOwnData("index", object.Number(float64(start+loc[0])))
	arr.PutOwnData("input", object.String(s))
	if global {
		re.PutOwnData("lastIndex", object.Number(float64(start+loc[1])))
	}
	return object.FromObject(arr), nil
}

func matchString(host object.Host, s string, pattern object.Value) (object.Value, error) {
	var reObj *object.Object
	if pattern.IsObject() && pattern.Object().Class == "RegExp" {
		reObj = pattern.Object()
	} else {
		src, err := hostIP(host).ToStringValue(pattern)
		if err != nil {
			return object.Undefined(), err
		}
		reObj = object.NewRegExp(currentRoots(host).RegExpProto, src, "")
	}
	d := reObj.Data.(object.RegExpData)
	if !strings.Contains(d.Flags, "g") {
		return execRegexp(host, reObj, object.String(s))
	}
	compiled, err := compileRegexp(host, d.Source, d.Flags)
	if err != nil {
		return object.Undefined(), err
	}
	matches := compiled.FindAllString(s, -1)
	if matches == nil {
		return object.Null(), nil
	}
	roots := currentRoots(host)
	arr := object.NewArray(roots.ArrayProto)
	for i, m := range matches {
		arr.PutOwnData(itoa(i), object.String(m))
	}
	arr.SetLength(uint32(len(matches)))
	return object.FromObject(arr), nil
}

// replaceString implements String.prototype.replace for both a plain-
// string search value and a RegExp, and both a plain-string and a callback
// replacement value (the callback receives (match, p1, p2, ..., offset,
// whole string), per ES5 15.5.4.11).
func replaceString(host object.Host, s string, search, replacement object.Value) (object.Value, error) {
	if search.IsObject() && search.Object().Class == "RegExp" {
		return replaceRegexp(host, s, search.Object(), replacement)
	}
	needle, err := hostIP(host).ToStringValue(search)
	if err != nil {
		return object.Undefined(), err
	}
	idx := strings.Index(s, needle)
	if idx < 0 {
		return object.String(s), nil
	}
	var repl string
	if replacement.IsCallable() {
		r, err := hostIP(host).Call(replacement.Object(), object.Undefined(), []object.Value{
			object.String(needle), object.Number(float64(idx)), object.String(s),
		})
		if err != nil {
			return object.Undefined(), err
		}
		repl, err = hostIP(host).ToStringValue(r)
		if err != nil {
			return object.Undefined(), err
		}
	} else {
		rs, err := hostIP(host).ToStringValue(replacement)
		if err != nil {
			return object.Undefined(), err
		}
		repl = expandDollar(rs, needle, nil, s, idx)
	}
	return object.String(s[:idx] + repl + s[idx+len(needle):]), nil
}

func replaceRegexp(host object.Host, s string, re *object.Object, replacement object.Value) (object.Value, error) {
	d := re.Data.(object.RegExpData)
	compiled, err := compileRegexp(host, d.Source, d.Flags)
	if err != nil {
		return object.Undefined(), err
	}
	global := strings.Contains(d.Flags, "g")
	var sb strings.Builder
	pos := 0
	for {
		loc := compiled.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		matchStart, matchEnd := pos+loc[0], pos+loc[1]
		sb.WriteString(s[pos:matchStart])
		groups := make([]string, len(loc)/2-1)
		for i := 1; i < len(loc)/2; i++ {
			if loc[2*i] >= 0 {
				groups[i-1] = s[pos+loc[2*i] : pos+loc[2*i+1]]
			}
		}
		whole := s[matchStart:matchEnd]
		if replacement.IsCallable() {
			callArgs := []object.Value{object.String(whole)}
			for _, g := range groups {
				callArgs = append(callArgs, object.String(g))
			}
			callArgs = append(callArgs, object.Number(float64(matchStart)), object.String(s))
			r, err := hostIP(host).Call(replacement.Object(), object.Undefined(), callArgs)
			if err != nil {
				return object.Undefined(), err
			}
			rs, err := hostIP(host).ToStringValue(r)
			if err != nil {
				return object.Undefined(), err
			}
			sb.WriteString(rs)
		} else {
			rs, err := hostIP(host).ToStringValue(replacement)
			if err != nil {
				return object.Undefined(), err
			}
			sb.WriteString(expandDollar(rs, whole, groups, s, matchStart))
		}
		if matchEnd == matchStart {
			if matchEnd < len(s) {
				sb.WriteByte(s[matchEnd])
			}
			matchEnd++
		}
		pos = matchEnd
		if !global || pos > len(s) {
			break
		}
	}
	if pos < len(s) {
		sb.WriteString(s[pos:])
	}
	return object.String(sb.String()), nil
}

// expandDollar handles the $&, $$, $`, $', and $1-$9 substitution patterns
// of ES5 15.5.4.11's GetSubstitution.
func expandDollar(repl, whole string, groups []string, s string, matchStart int) string {
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		if repl[i] != '$' || i+1 >= len(repl) {
			sb.WriteByte(repl[i])
			continue
		}
		switch c := repl[i+1]; {
		case c == '$':
			sb.WriteByte('$')
			i++
		case c == '&':
			sb.WriteString(whole)
			i++
		case c == '`':
			sb.WriteString(s[:matchStart])
			i++
		case c == '\'':
			sb.WriteString(s[matchStart+len(whole):])
			i++
		case c >= '1' && c <= '9':
			n, _ := strconv.Atoi(string(c))
			if n-1 < len(groups) {
				sb.WriteString(groups[n-1])
			}
			i++
		default:
			sb.WriteByte('$')
		}
	}
	return sb.String()
}

