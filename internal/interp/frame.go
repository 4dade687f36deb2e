package interp

import (
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/scope"
)

// CompletionKind tags an abrupt (or normal) completion record, per
// the completion record shape: `{type, value, label}`.
type CompletionKind int

const (
	Normal CompletionKind = iota
	Break
	Continue
	Return
	Throw
)

// Completion is the unwinding payload threaded through the frame stack by
// raise().
type Completion struct {
	Kind  CompletionKind
	Value object.Value
	Label string
}

// Frame is one evaluator step record: the
// node under evaluation, its scope and `this` binding, a small integer
// Phase tracking progress through that node kind's sub-states (replacing
// the spec's named booleans done_left/done_right/... with a single
// counter, which is equivalent and avoids one field per node kind), and
// scratch fields reused across node kinds.
type Frame struct {
	Node  ast.Node
	Scope *scope.Scope
	This  object.Value

	Phase int

	// Value is where a finished child frame deposits its result for the
	// parent to consume on its next step.
	Value object.Value
	Values []object.Value // accumulated list: array elements, call args, ...
	Names  []string       // property-name scratch (for-in enumeration, Object.keys order)
	Index  int
	VisitedIdx int // not read by the for-in stepper, which tracks its place in Names with Index

	// Reference-producing mode: when Components is true, the node (an
	// Identifier or MemberExpression) should deposit a Reference instead of
	// a plain Value.
	Components bool
	Ref        Reference

	// Loop/switch targeting.
	IsLoop      bool
	IsSwitch    bool
	Labels      []string
	SwitchValue object.Value
	CaseIdx     int
	Matched     bool
	DefaultIdx  int

	// Completion record stashed on a TryStatement frame while its handler
	// or finalizer runs.
	CV *Completion

	IsConstructor bool

	// Extra holds rarely-needed per-node scratch data without growing this
	// struct for every node kind (e.g. the array or object literal under
	// construction, a call's calleeInfo, or the callMarker of a function body).
	Extra any
}

// Reference is the two-element `(base, name)` pair,
// produced by Identifier/MemberExpression frames when Components is set.
type Reference struct {
	// IsVariable is true for a bare-identifier reference (base is a Scope,
	// not an object); false for a member reference (base is a Value).
	IsVariable bool
	VarScope   *scope.Scope
	VarName    string

	Base Value2
	Name string
}

// Value2 avoids importing object twice; it is exactly object.Value.
type Value2 = object.Value
