package object

// VisitGuard implements a reentrancy guard for recursive toString/toJSON walks:
// Array.prototype.toString / Error.prototype.toString detect reentrant
// calls on the same object and short-circuit instead of recursing forever.
// One VisitGuard is shared across all calls of a given built-in method.
type VisitGuard struct {
	active map[*Object]bool
}

func NewVisitGuard() *VisitGuard { return &VisitGuard{active: map[*Object]bool{}} }

// Enter returns false (and does nothing) if o is already being visited;
// otherwise marks it active and returns true. Callers must call Exit in a
// defer once Enter returns true.
func (g *VisitGuard) Enter(o *Object) bool {
	if g.active[o] {
		return false
	}
	g.active[o] = true
	return true
}

func (g *VisitGuard) Exit(o *Object) { delete(g.active, o) }
