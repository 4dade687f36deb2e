package object

// RegExpData is the internal [[Class]] "RegExp" backing value stored in
// Object.Data: the source pattern/flags as written by the guest program.
// Compilation to a Go regexp is done lazily by package builtins (which also
// owns translating ES5 pattern syntax to RE2), not here, so this package
// stays free of a regexp-engine dependency.
type RegExpData struct {
	Source string
	Flags  string
}

// NewRegExp builds a RegExp object with the standard own properties
// (source, global, ignoreCase, multiline, lastIndex) per ES5 15.10.7.
func NewRegExp(proto *Object, source, flags string) *Object {
	o := NewWithClass(proto, "RegExp")
	o.Data = RegExpData{Source: source, Flags: flags}
	o.PutOwnData("source", String(source))
	o.PutOwnData("global", Bool(containsByte(flags, 'g')))
	o.PutOwnData("ignoreCase", Bool(containsByte(flags, 'i')))
	o.PutOwnData("multiline", Bool(containsByte(flags, 'm')))
	o.PutOwnData("lastIndex", Number(0))
	for _, name := range []string{"source", "global", "ignoreCase", "multiline"} {
		o.SetWritable(name, false)
		o.SetEnumerable(name, false)
		o.SetConfigurable(name, false)
	}
	o.SetEnumerable("lastIndex", false)
	o.SetConfigurable("lastIndex", false)
	return o
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}
