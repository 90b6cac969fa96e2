package query

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Notation selects the spelling of operators.
type Notation int

const (
	NotationSymbolic Notation = iota
	NotationLinguistic
	// NotationFormal only applies to junctions; comparisons fall back to
	// symbolic.
	NotationFormal
)

func (n Notation) String() string {
	switch n {
	case NotationLinguistic:
		return "linguistic"
	case NotationFormal:
		return "formal"
	default:
		return "symbolic"
	}
}

// ParseNotation accepts "symbolic" (also "programmatic"), "linguistic" and
// "formal".
func ParseNotation(s string) (Notation, error) {
	switch strings.ToLower(s) {
	case "", "symbolic", "programmatic":
		return NotationSymbolic, nil
	case "linguistic":
		return NotationLinguistic, nil
	case "formal":
		return NotationFormal, nil
	}
	return 0, fmt.Errorf("unknown notation %q", s)
}

type StringifyOptions struct {
	JunctionNotation   Notation
	ComparisonNotation Notation
	AlwaysParenthesize bool
	// Compact drops the spaces around symbolic operators. Word operators keep
	// them.
	Compact bool
	// CondenseBooleans writes boolean equality as a bare or negated field.
	CondenseBooleans bool
}

var symbolicNotation = map[Operation]string{
	OpAnd: "&", OpOr: "|",
	OpEqual: "=", OpNotEqual: "!=",
	OpGeq: ">=", OpGreater: ">", OpLeq: "<=", OpLess: "<",
	OpIn: ":", OpNotIn: "!:",
	OpMatch: "~", OpNotMatch: "!~",
}

var linguisticNotation = map[Operation]string{
	OpAnd: "AND", OpOr: "OR",
	OpEqual: "EQUALS", OpNotEqual: "NOTEQUALS",
	OpGeq: "GEQ", OpGreater: "GREATER", OpLeq: "LEQ", OpLess: "LESS",
	OpIn: "IN", OpNotIn: "NOTIN",
	OpMatch: "MATCHES", OpNotMatch: "NOTMATCHES",
}

var formalNotation = map[Operation]string{
	OpAnd: "^", OpOr: "V",
}

// Stringify renders e in canonical form. Parsing the result yields an
// expression equal to e.
func Stringify(e Expression, opts StringifyOptions) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	s := stringifier{opts: opts, b: &b}
	s.expr(e, "")
	return b.String()
}

type stringifier struct {
	opts StringifyOptions
	b    *strings.Builder
}

func (s stringifier) expr(e Expression, parent Operation) {
	switch x := e.(type) {
	case Group:
		s.group(x, parent)
	case Condition:
		s.condition(x)
	}
}

func (s stringifier) group(g Group, parent Operation) {
	parens := parent != "" && (s.opts.AlwaysParenthesize || parent == OpAnd && g.Operation == OpOr)
	if parens {
		s.b.WriteByte('(')
	}
	junction := s.operator(s.junctionSpelling(g.Operation))
	for i, c := range g.Constituents {
		if i > 0 {
			s.b.WriteString(junction)
		}
		s.expr(c, g.Operation)
	}
	if parens {
		s.b.WriteByte(')')
	}
}

func (s stringifier) condition(c Condition) {
	if s.opts.CondenseBooleans && !c.Value.IsArray() && c.Value.Scalar().Kind() == KindBoolean &&
		(c.Operation == OpEqual || c.Operation == OpNotEqual) {
		if (c.Operation == OpEqual) != c.Value.Scalar().AsBool() {
			s.b.WriteByte('!')
		}
		s.b.WriteString(quoteField(c.Field))
		return
	}
	s.b.WriteString(quoteField(c.Field))
	s.b.WriteString(s.operator(s.comparisonSpelling(c.Operation)))
	s.value(c.Value)
}

func (s stringifier) value(v Value) {
	if !v.IsArray() {
		s.b.WriteString(formatPrimitive(v.Scalar()))
		return
	}
	sep := ", "
	if s.opts.Compact {
		sep = ","
	}
	s.b.WriteByte('[')
	for i, p := range v.items {
		if i > 0 {
			s.b.WriteString(sep)
		}
		s.b.WriteString(formatPrimitive(p))
	}
	s.b.WriteByte(']')
}

func (s stringifier) operator(spelling string) string {
	if s.opts.Compact && !isWord(spelling) {
		return spelling
	}
	return " " + spelling + " "
}

func (s stringifier) junctionSpelling(op Operation) string {
	switch s.opts.JunctionNotation {
	case NotationLinguistic:
		return linguisticNotation[op]
	case NotationFormal:
		return formalNotation[op]
	}
	return symbolicNotation[op]
}

func (s stringifier) comparisonSpelling(op Operation) string {
	if s.opts.ComparisonNotation == NotationLinguistic {
		return linguisticNotation[op]
	}
	return symbolicNotation[op]
}

func formatPrimitive(p Primitive) string {
	switch p.Kind() {
	case KindBoolean, KindNumber:
		return p.String()
	case KindDate:
		return quote(p.AsTime().Format(time.RFC3339Nano))
	}
	text := p.AsString()
	if text == "true" || text == "false" {
		return quote(text)
	}
	if _, numeric := parseNumber(text); numeric {
		return quote(text)
	}
	return quoteField(text)
}

// quoteField quotes text when it would not lex back as a single plain token
// with the same content.
func quoteField(text string) string {
	if needsQuotes(text) {
		return quote(text)
	}
	return text
}

const specialChars = "\"'`\\()[]{},!&|^=<>:~"

func needsQuotes(text string) bool {
	if text == "" {
		return true
	}
	if strings.ContainsAny(text, specialChars) {
		return true
	}
	first, _ := utf8.DecodeRuneInString(text)
	last, _ := utf8.DecodeLastRuneInString(text)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return true
	}
	for _, word := range strings.Fields(text) {
		if isWord(word) {
			if _, ok := wordAliases[strings.ToUpper(word)]; ok {
				return true
			}
		}
	}
	return false
}

func quote(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte('"')
	for _, r := range text {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
