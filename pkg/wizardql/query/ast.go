package query

import "encoding/json"

// Expression is a parsed filter: a Group or a Condition.
type Expression interface {
	isExpression()
}

// Group joins two or more constituents under AND or OR.
type Group struct {
	Operation    Operation
	Constituents []Expression
}

func (Group) isExpression() {}

// Condition is a single field comparison.
type Condition struct {
	Operation Operation
	Field     string
	Value     Value
	Validated bool
}

func (Condition) isExpression() {}

func (g Group) MarshalJSON() ([]byte, error) {
	constituents := g.Constituents
	if constituents == nil {
		constituents = []Expression{}
	}
	return json.Marshal(struct {
		Type         string       `json:"type"`
		Operation    Operation    `json:"operation"`
		Constituents []Expression `json:"constituents"`
	}{"group", g.Operation, constituents})
}

func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string    `json:"type"`
		Field     string    `json:"field"`
		Operation Operation `json:"operation"`
		Value     Value     `json:"value"`
		Validated bool      `json:"validated"`
	}{"condition", c.Field, c.Operation, c.Value, c.Validated})
}

// NewCondition builds an unvalidated condition.
func NewCondition(field string, op Operation, value Value) Condition {
	return Condition{Operation: op, Field: field, Value: value}
}

// And joins expressions, flattening nested AND groups.
func And(exprs ...Expression) Expression { return makeGroup(OpAnd, exprs) }

// Or joins expressions, flattening nested OR groups.
func Or(exprs ...Expression) Expression { return makeGroup(OpOr, exprs) }

// makeGroup splices constituents that share op and collapses a single
// constituent to itself.
func makeGroup(op Operation, items []Expression) Expression {
	flat := make([]Expression, 0, len(items))
	for _, e := range items {
		if e == nil {
			continue
		}
		if g, ok := e.(Group); ok && g.Operation == op {
			flat = append(flat, g.Constituents...)
			continue
		}
		flat = append(flat, e)
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return Group{Operation: op, Constituents: flat}
}

// Walk visits every condition in depth-first, left-to-right order.
func Walk(e Expression, fn func(Condition)) {
	switch x := e.(type) {
	case Group:
		for _, c := range x.Constituents {
			Walk(c, fn)
		}
	case Condition:
		fn(x)
	}
}
