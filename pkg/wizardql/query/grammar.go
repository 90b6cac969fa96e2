package query

import "strings"

// Operation is a canonical junction or comparison operator.
type Operation string

const (
	OpAnd Operation = "AND"
	OpOr  Operation = "OR"

	OpEqual    Operation = "EQUAL"
	OpNotEqual Operation = "NOTEQUAL"
	OpLess     Operation = "LESS"
	OpGreater  Operation = "GREATER"
	OpLeq      Operation = "LEQ"
	OpGeq      Operation = "GEQ"
	OpIn       Operation = "IN"
	OpNotIn    Operation = "NOTIN"
	OpMatch    Operation = "MATCH"
	OpNotMatch Operation = "NOTMATCH"
)

// Category separates junctions from comparisons.
type Category int

const (
	CategoryNone Category = iota
	CategoryJunction
	CategoryComparison
)

// Shape is the value shape a comparison requires.
type Shape int

const (
	ShapeNone Shape = iota
	ShapePrimitive
	ShapeNumeric
	ShapeString
	ShapeArray
)

func (s Shape) String() string {
	switch s {
	case ShapePrimitive:
		return "primitive"
	case ShapeNumeric:
		return "numeric"
	case ShapeString:
		return "string"
	case ShapeArray:
		return "array"
	default:
		return "none"
	}
}

type alias struct {
	text string
	op   Operation
}

// aliases lists every spelling in lookup priority order. Longer spellings of the
// same prefix come first.
var aliases = []alias{
	{"AND", OpAnd}, {"&&", OpAnd}, {"&", OpAnd}, {"^", OpAnd},
	{"OR", OpOr}, {"||", OpOr}, {"|", OpOr}, {"V", OpOr},
	{"GEQ", OpGeq}, {">=", OpGeq}, {"=>", OpGeq},
	{"LEQ", OpLeq}, {"<=", OpLeq}, {"=<", OpLeq},
	{"NOTEQUALS", OpNotEqual}, {"NOTEQUAL", OpNotEqual}, {"NEQ", OpNotEqual}, {"ISNT", OpNotEqual}, {"!==", OpNotEqual}, {"!=", OpNotEqual},
	{"EQUALS", OpEqual}, {"EQUAL", OpEqual}, {"EQ", OpEqual}, {"IS", OpEqual}, {"==", OpEqual}, {"=", OpEqual},
	{"LESS", OpLess}, {"<", OpLess},
	{"GREATER", OpGreater}, {">", OpGreater}, {"MORE", OpGreater},
	{"NOTIN", OpNotIn}, {"!:", OpNotIn},
	{"IN", OpIn}, {":", OpIn},
	{"NOTMATCHES", OpNotMatch}, {"NOTMATCH", OpNotMatch}, {"!~", OpNotMatch},
	{"MATCHES", OpMatch}, {"MATCH", OpMatch}, {"~", OpMatch},
}

var aliasTable = map[string]Operation{}

var wordAliases = map[string]Operation{}

// symbolTokens holds symbolic aliases and punctuation, longest first.
var symbolTokens []string

var punctuation = []string{"(", ")", "[", "]", "{", "}", ",", "!"}

var categories = map[Operation]Category{
	OpAnd: CategoryJunction, OpOr: CategoryJunction,
	OpEqual: CategoryComparison, OpNotEqual: CategoryComparison,
	OpLess: CategoryComparison, OpGreater: CategoryComparison,
	OpLeq: CategoryComparison, OpGeq: CategoryComparison,
	OpIn: CategoryComparison, OpNotIn: CategoryComparison,
	OpMatch: CategoryComparison, OpNotMatch: CategoryComparison,
}

var shapes = map[Operation]Shape{
	OpEqual: ShapePrimitive, OpNotEqual: ShapePrimitive,
	OpLess: ShapeNumeric, OpGreater: ShapeNumeric,
	OpLeq: ShapeNumeric, OpGeq: ShapeNumeric,
	OpIn: ShapeArray, OpNotIn: ShapeArray,
	OpMatch: ShapeString, OpNotMatch: ShapeString,
}

var complements = map[Operation]Operation{
	OpAnd: OpOr, OpOr: OpAnd,
	OpEqual: OpNotEqual, OpNotEqual: OpEqual,
	OpLess: OpGeq, OpGeq: OpLess,
	OpLeq: OpGreater, OpGreater: OpLeq,
	OpIn: OpNotIn, OpNotIn: OpIn,
	OpMatch: OpNotMatch, OpNotMatch: OpMatch,
}

// exclusionary operations narrow a field by ruling values out.
var exclusionary = map[Operation]bool{
	OpNotEqual: true,
	OpLess:     true,
	OpGreater:  true,
	OpNotIn:    true,
}

func init() {
	for _, a := range aliases {
		aliasTable[a.text] = a.op
		if isWord(a.text) {
			wordAliases[a.text] = a.op
		} else {
			symbolTokens = append(symbolTokens, a.text)
		}
	}
	symbolTokens = append(symbolTokens, punctuation...)
	// stable longest-first ordering keeps "!==" ahead of "!=" ahead of "!"
	for i := 1; i < len(symbolTokens); i++ {
		for j := i; j > 0 && len(symbolTokens[j]) > len(symbolTokens[j-1]); j-- {
			symbolTokens[j], symbolTokens[j-1] = symbolTokens[j-1], symbolTokens[j]
		}
	}
}

// Category reports whether op is a junction or a comparison.
func (op Operation) Category() Category { return categories[op] }

// IsJunction reports whether op is AND or OR.
func (op Operation) IsJunction() bool { return categories[op] == CategoryJunction }

// IsComparison reports whether op is a field-level comparison.
func (op Operation) IsComparison() bool { return categories[op] == CategoryComparison }

// Shape returns the value shape a comparison requires.
func (op Operation) Shape() Shape { return shapes[op] }

// Complement returns the logical negation of op.
func (op Operation) Complement() Operation {
	if c, ok := complements[op]; ok {
		return c
	}
	return op
}

// Exclusionary reports whether op narrows by exclusion.
func (op Operation) Exclusionary() bool { return exclusionary[op] }

// LookupAlias resolves any spelling of an operator. Word aliases are matched
// case-insensitively.
func LookupAlias(s string) (Operation, bool) {
	if op, ok := aliasTable[s]; ok {
		return op, true
	}
	if isWord(s) {
		op, ok := wordAliases[strings.ToUpper(s)]
		return op, ok
	}
	return "", false
}

// Aliases returns every spelling of op in lookup priority order.
func Aliases(op Operation) []string {
	var out []string
	for _, a := range aliases {
		if a.op == op {
			out = append(out, a.text)
		}
	}
	return out
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

func isPunctuation(s string) bool {
	for _, p := range punctuation {
		if p == s {
			return true
		}
	}
	return false
}
