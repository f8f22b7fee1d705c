package expr

import "sort"

// VariablesOf returns the deduplicated variables referenced by the given
// expressions, ordered by creation ID. The order is deterministic across
// runs of the same construction sequence; it never depends on map iteration.
func VariablesOf(es ...Expr) []*Variable {
	seen := make(map[*Variable]struct{})
	var out []*Variable
	var walk func(e Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *Variable:
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				out = append(out, n)
			}
		case Composite:
			for _, a := range n.Args() {
				walk(a)
			}
		}
		// *Constant and *Parameter reference no variables.
	}
	for _, e := range es {
		if e != nil {
			walk(e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })

	return out
}
