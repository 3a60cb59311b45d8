package project

import "squiggle/internal/value"

// Snapshot is the serialisable part of an Output.
type Snapshot struct {
	Result           value.Value
	Bindings         value.Dict
	HasEndExpression bool
}

// OutputCache persists outputs across processes, keyed by run digest.
// Implementations must be safe for concurrent use.
type OutputCache interface {
	Load(key Digest) (Snapshot, bool, error)
	Store(key Digest, snap Snapshot) error
}

func snapshotOf(out *Output) (Snapshot, bool) {
	if !value.Serializable(out.Result) || !value.Serializable(out.Bindings) {
		return Snapshot{}, false
	}
	return Snapshot{Result: out.Result, Bindings: out.Bindings, HasEndExpression: out.HasEndExpression}, true
}
