package query

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// operand is raw text waiting for coercion. literal is set for the implied
// booleans of a bare or negated field.
type operand struct {
	text    string
	quoted  bool
	tok     int
	literal *Primitive
}

func (o operand) raw() string {
	if o.literal != nil {
		return o.literal.String()
	}
	return o.text
}

// pendingCondition collects the pieces of one comparison at a parse level.
type pendingCondition struct {
	field    operand
	op       Operation
	opTok    int
	hasOp    bool
	values   []operand
	array    bool
	valueEnd int
}

func (pc *pendingCondition) span() (int, int) {
	end := pc.valueEnd
	if end < pc.field.tok {
		end = pc.field.tok
	}
	return pc.field.tok, end
}

// resolve validates a complete condition against the constraints and coerces
// its raw operands into typed primitives.
func (p *parser) resolve(pc *pendingCondition) (Condition, error) {
	start, end := pc.span()
	field := pc.field.text
	if field == "" {
		return Condition{}, p.syntaxErr(start, start, "Field name is empty")
	}

	name, restriction, restricted, kinds, typed := p.lookupField(field)
	if p.constraints != nil && p.constraints.DisallowUnvalidated && !restricted && !typed {
		return Condition{}, p.constraintErr(start, start, field,
			fmt.Sprintf("Field %q is not a recognised field", field))
	}

	if wantArray := pc.op.Shape() == ShapeArray; wantArray != pc.array {
		if wantArray {
			return Condition{}, p.syntaxErr(pc.opTok, end,
				fmt.Sprintf("Operator %s requires an array value", pc.op))
		}
		return Condition{}, p.syntaxErr(pc.opTok, end,
			fmt.Sprintf("Operator %s does not accept an array value", pc.op))
	}

	if restricted {
		if restriction.Forbidden {
			return Condition{}, p.constraintErr(start, end, name,
				fmt.Sprintf("Field %q is restricted", name))
		}
		for _, v := range pc.values {
			if restriction.permits(v.raw()) {
				continue
			}
			if restriction.Policy == PolicyAllow {
				return Condition{}, p.constraintErr(v.tok, v.tok, name,
					fmt.Sprintf("Value %q is not among the values allowed for field %q", v.raw(), name))
			}
			return Condition{}, p.constraintErr(v.tok, v.tok, name,
				fmt.Sprintf("Value %q is not permitted for field %q", v.raw(), name))
		}
	}

	items := make([]Primitive, 0, len(pc.values))
	for _, v := range pc.values {
		prim, err := p.coerce(name, v, pc.op, kinds, typed)
		if err != nil {
			return Condition{}, err
		}
		items = append(items, prim)
	}

	value := Array(items...)
	if !pc.array {
		value = Scalar(items[0])
	}
	return Condition{
		Operation: pc.op,
		Field:     name,
		Value:     value,
		Validated: restricted || typed,
	}, nil
}

// coerce tries each kind in priority order. The first kind permitted by the
// field's declared types and by the operation's shape that parses the text
// wins.
func (p *parser) coerce(field string, v operand, op Operation, kinds []Kind, typed bool) (Primitive, error) {
	fieldAllows := func(k Kind) bool { return !typed || slices.Contains(kinds, k) }

	if v.literal != nil {
		if fieldAllows(v.literal.Kind()) && shapeAllows(op.Shape(), v.literal.Kind()) {
			return *v.literal, nil
		}
		return Primitive{}, p.fieldTypeErr(field, v, kinds)
	}

	datesOn := p.constraints.datesEnabled() || (typed && slices.Contains(kinds, KindDate))
	fieldParses := false
	for _, k := range coercionOrder {
		if !fieldAllows(k) {
			continue
		}
		if v.quoted && (k == KindBoolean || k == KindNumber) {
			continue
		}
		if k == KindDate && !datesOn {
			continue
		}
		prim, ok := p.parseAs(k, v.text)
		if !ok {
			continue
		}
		if shapeAllows(op.Shape(), k) {
			return prim, nil
		}
		fieldParses = true
	}
	if !fieldParses {
		return Primitive{}, p.fieldTypeErr(field, v, kinds)
	}
	return Primitive{}, p.constraintErr(v.tok, v.tok, field,
		fmt.Sprintf("Value %q is not a valid %s operand for operator %s", v.raw(), op.Shape(), op))
}

func (p *parser) parseAs(k Kind, text string) (Primitive, bool) {
	switch k {
	case KindBoolean:
		if b, ok := parseBoolean(text); ok {
			return Bool(b), true
		}
	case KindDate:
		if t, ok := p.constraints.parseDate(text); ok {
			return Date(t), true
		}
	case KindNumber:
		if n, ok := parseNumber(text); ok {
			return Number(n), true
		}
	case KindString:
		return String(text), true
	}
	return Primitive{}, false
}

func (p *parser) fieldTypeErr(field string, v operand, kinds []Kind) error {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return p.constraintErr(v.tok, v.tok, field,
		fmt.Sprintf("Value %q does not match the field type %s of field %q", v.raw(), strings.Join(names, "|"), field))
}

func shapeAllows(s Shape, k Kind) bool {
	switch s {
	case ShapeNumeric:
		return k == KindNumber || k == KindDate
	case ShapeString:
		return k == KindString
	default:
		return true
	}
}

// indexFields folds the keys of both constraint tables once per parse when
// field names are case-insensitive.
func (p *parser) indexFields() {
	c := p.constraints
	if c == nil || !c.CaseInsensitive {
		return
	}
	p.fold = cases.Fold().String
	p.restrictedKeys = foldIndex(c.Restricted, p.fold)
	p.typeKeys = foldIndex(c.Types, p.fold)
}

// foldIndex maps the folded spelling of every key of m to the key. When two
// keys fold alike the lexically first one wins.
func foldIndex[V any](m map[string]V, fold func(string) string) map[string]string {
	idx := make(map[string]string, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		f := fold(k)
		if _, ok := idx[f]; !ok {
			idx[f] = k
		}
	}
	return idx
}

// lookupField resolves field against the restriction and type tables. With
// CaseInsensitive set, the restriction table's spelling wins over the type
// table's.
func (p *parser) lookupField(field string) (name string, r Restriction, restricted bool, kinds []Kind, typed bool) {
	name = field
	c := p.constraints
	if c == nil {
		return
	}
	var folded string
	if p.fold != nil {
		folded = p.fold(field)
	}
	rKey, r, restricted := lookupKey(c.Restricted, field, p.restrictedKeys, folded)
	tKey, kinds, typed := lookupKey(c.Types, field, p.typeKeys, folded)
	switch {
	case restricted:
		name = rKey
	case typed:
		name = tKey
	}
	return
}

func lookupKey[V any](m map[string]V, field string, index map[string]string, folded string) (string, V, bool) {
	if v, ok := m[field]; ok {
		return field, v, true
	}
	if k, ok := index[folded]; ok {
		return k, m[k], true
	}
	var zero V
	return "", zero, false
}
