package ast

// Hints are initial arena capacities.
type Hints struct{ Stmts, Exprs uint }

// Tree owns every node of one parsed source.
type Tree struct {
	Stmts   *Stmts
	Exprs   *Exprs
	Program Program
}

func NewTree(hints Hints) *Tree {
	return &Tree{
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
	}
}

// StatementNames returns the names bound by top-level statements, in order.
func (t *Tree) StatementNames() []string {
	names := make([]string, 0, len(t.Program.Stmts))
	for _, id := range t.Program.Stmts {
		names = append(names, t.Stmts.Get(id).Name)
	}
	return names
}
