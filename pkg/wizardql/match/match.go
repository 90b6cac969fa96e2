// Package match evaluates parsed filters against in-memory records.
//
// A record field that is missing or null fails every positive comparison and
// passes NOTEQUAL, NOTIN and NOTMATCH, the same way the SQL renderer treats
// NULL columns. Array record values match a positive comparison when any
// element does.
package match

import (
	"cmp"
	"fmt"
	"regexp"
	"sync"

	"github.com/nonibytes/wizardql/pkg/wizardql/query"
)

// Matcher caches the regular expressions of MATCH conditions. The zero value
// is ready to use and safe for concurrent use.
type Matcher struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

func New() *Matcher { return &Matcher{} }

var defaultMatcher = New()

// Match reports whether record satisfies e using a shared Matcher.
func Match(e query.Expression, record any) (bool, error) {
	return defaultMatcher.Match(e, record)
}

// Filter returns the records that satisfy e, preserving order.
func Filter[T any](e query.Expression, records []T) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, r := range records {
		ok, err := defaultMatcher.Match(e, r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Match reports whether record satisfies e. A nil expression matches
// everything.
func (m *Matcher) Match(e query.Expression, record any) (bool, error) {
	rec, err := ToRecord(record)
	if err != nil {
		return false, err
	}
	if e == nil {
		return true, nil
	}
	return m.eval(e, rec)
}

func (m *Matcher) eval(e query.Expression, rec map[string]any) (bool, error) {
	switch x := e.(type) {
	case query.Group:
		and := x.Operation == query.OpAnd
		for _, c := range x.Constituents {
			ok, err := m.eval(c, rec)
			if err != nil {
				return false, err
			}
			if ok != and {
				return ok, nil
			}
		}
		return and, nil
	case query.Condition:
		return m.condition(x, rec)
	}
	return false, fmt.Errorf("unknown expression type: %T", e)
}

func negative(op query.Operation) bool {
	switch op {
	case query.OpNotEqual, query.OpNotIn, query.OpNotMatch:
		return true
	}
	return false
}

func (m *Matcher) condition(c query.Condition, rec map[string]any) (bool, error) {
	raw, present := rec[c.Field]
	if !present || raw == nil {
		return negative(c.Operation), nil
	}
	if negative(c.Operation) {
		ok, err := m.test(c.Operation.Complement(), c.Value, raw)
		return !ok, err
	}
	return m.test(c.Operation, c.Value, raw)
}

// test applies a positive operation to a present record value.
func (m *Matcher) test(op query.Operation, v query.Value, raw any) (bool, error) {
	if list, ok := asList(raw); ok {
		for _, elem := range list {
			if elem == nil {
				continue
			}
			hit, err := m.test(op, v, elem)
			if err != nil || hit {
				return hit, err
			}
		}
		return false, nil
	}

	switch op {
	case query.OpEqual:
		return equal(v.Scalar(), raw), nil
	case query.OpIn:
		for _, p := range v.Items() {
			if equal(p, raw) {
				return true, nil
			}
		}
		return false, nil
	case query.OpLess, query.OpGreater, query.OpLeq, query.OpGeq:
		c, ok := compare(raw, v.Scalar())
		if !ok {
			return false, nil
		}
		switch op {
		case query.OpLess:
			return c < 0, nil
		case query.OpGreater:
			return c > 0, nil
		case query.OpLeq:
			return c <= 0, nil
		default:
			return c >= 0, nil
		}
	case query.OpMatch:
		re, err := m.regexp(v.Scalar().AsString())
		if err != nil {
			return false, err
		}
		text, ok := asString(raw)
		return ok && re.MatchString(text), nil
	}
	return false, fmt.Errorf("unsupported operation %s", op)
}

func equal(p query.Primitive, raw any) bool {
	switch p.Kind() {
	case query.KindBoolean:
		b, ok := asBool(raw)
		return ok && b == p.AsBool()
	case query.KindNumber:
		n, ok := asNumber(raw)
		return ok && n == p.AsNumber()
	case query.KindDate:
		t, ok := asDate(raw)
		return ok && t.Equal(p.AsTime())
	default:
		s, ok := asString(raw)
		return ok && s == p.AsString()
	}
}

// compare orders a record value against a numeric or date operand.
func compare(raw any, p query.Primitive) (int, bool) {
	switch p.Kind() {
	case query.KindNumber:
		n, ok := asNumber(raw)
		if !ok {
			return 0, false
		}
		return cmp.Compare(n, p.AsNumber()), true
	case query.KindDate:
		t, ok := asDate(raw)
		if !ok {
			return 0, false
		}
		return t.Compare(p.AsTime()), true
	}
	return 0, false
}

func (m *Matcher) regexp(pattern string) (*regexp.Regexp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if re, ok := m.patterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if m.patterns == nil {
		m.patterns = make(map[string]*regexp.Regexp)
	}
	m.patterns[pattern] = re
	return re, nil
}
