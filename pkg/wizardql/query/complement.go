package query

// Complement returns the De Morgan negation of e. Junctions swap AND and OR,
// comparisons swap with their logical inverse. The input is not modified.
func Complement(e Expression) Expression {
	switch x := e.(type) {
	case Group:
		constituents := make([]Expression, len(x.Constituents))
		for i, c := range x.Constituents {
			constituents[i] = Complement(c)
		}
		return Group{Operation: x.Operation.Complement(), Constituents: constituents}
	case Condition:
		x.Operation = x.Operation.Complement()
		return x
	}
	return e
}
