package query

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclaredStringTypeKeepsDigits(t *testing.T) {
	expr, err := Parse("field = 42", &Constraints{Types: map[string][]Kind{"field": {KindString}}})
	require.NoError(t, err)
	assert.Equal(t, Condition{Operation: OpEqual, Field: "field", Value: Scalar(String("42")), Validated: true}, expr)
}

func TestUnconstrainedFieldsAreNotValidated(t *testing.T) {
	expr, err := Parse("field = 42", &Constraints{Types: map[string][]Kind{"other": {KindNumber}}})
	require.NoError(t, err)
	assert.Equal(t, Condition{Operation: OpEqual, Field: "field", Value: Scalar(Number(42))}, expr)
}

func TestDenyRestriction(t *testing.T) {
	c := &Constraints{Restricted: map[string]Restriction{"field": Deny(LiteralPattern("abc"))}}

	_, err := Parse("field = abc", c)
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
	perr, _ := AsError(err)
	assert.Equal(t, "field", perr.Field)
	assert.Equal(t, 2, perr.Start)

	expr, err := Parse("field = abd", c)
	require.NoError(t, err)
	assert.True(t, expr.(Condition).Validated)
}

func TestDenyRegexpChecksEveryArrayElement(t *testing.T) {
	c := &Constraints{Restricted: map[string]Restriction{
		"host": Deny(RegexpPattern(regexp.MustCompile(`^internal-`))),
	}}
	_, err := Parse("host : [web-1, internal-db]", c)
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
	assert.Contains(t, err.Error(), "internal-db")
}

func TestAllowRestriction(t *testing.T) {
	c := &Constraints{Restricted: map[string]Restriction{
		"color": Allow(LiteralPattern("red"), LiteralPattern("green")),
	}}

	expr, err := Parse("color : [red, green]", c)
	require.NoError(t, err)
	assert.Equal(t, Condition{Operation: OpIn, Field: "color", Value: Array(String("red"), String("green")), Validated: true}, expr)

	_, err = Parse("color : [red, blue]", c)
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
	perr, _ := AsError(err)
	assert.Equal(t, 5, perr.Start, "points at the offending entry")
}

func TestForbiddenField(t *testing.T) {
	c := &Constraints{Restricted: map[string]Restriction{"secret": Forbid()}}
	_, err := Parse("a = 1 | secret = 1", c)
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
	assert.Contains(t, err.Error(), "restricted")
}

func TestDisallowUnvalidated(t *testing.T) {
	c := &Constraints{
		Types:               map[string][]Kind{"known": {KindNumber}},
		DisallowUnvalidated: true,
	}
	_, err := Parse("known = 1", c)
	require.NoError(t, err)

	_, err = Parse("known = 1 & unknown = 1", c)
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
	perr, _ := AsError(err)
	assert.Equal(t, 4, perr.Start)
}

func TestCaseInsensitiveFieldResolution(t *testing.T) {
	c := &Constraints{
		Restricted:      map[string]Restriction{"Color": Allow(LiteralPattern("red"))},
		Types:           map[string][]Kind{"color": {KindString}, "Size": {KindNumber}},
		CaseInsensitive: true,
	}
	expr, err := Parse("COLOR = red & size > 3", c)
	require.NoError(t, err)
	assert.Equal(t, Group{OpAnd, []Expression{
		Condition{Operation: OpEqual, Field: "Color", Value: Scalar(String("red")), Validated: true},
		Condition{Operation: OpGreater, Field: "Size", Value: Scalar(Number(3)), Validated: true},
	}}, expr)

	c.CaseInsensitive = false
	expr, err = Parse("COLOR = red", c)
	require.NoError(t, err)
	assert.False(t, expr.(Condition).Validated)
}

func TestCaseInsensitiveIndexBuiltOncePerParse(t *testing.T) {
	c := &Constraints{
		Restricted:      map[string]Restriction{"Color": Allow(LiteralPattern("red"))},
		Types:           map[string][]Kind{"size": {KindNumber}, "SIZE": {KindNumber}, "Weight": {KindString}},
		CaseInsensitive: true,
	}
	p := &parser{constraints: c}
	p.indexFields()
	assert.Equal(t, map[string]string{"color": "Color"}, p.restrictedKeys)
	assert.Equal(t, map[string]string{"size": "SIZE", "weight": "Weight"}, p.typeKeys)

	expr, err := Parse("WEIGHT = x & Size = 1 & color = red", c)
	require.NoError(t, err)
	assert.Equal(t, Group{OpAnd, []Expression{
		Condition{Operation: OpEqual, Field: "Weight", Value: Scalar(String("x")), Validated: true},
		Condition{Operation: OpEqual, Field: "SIZE", Value: Scalar(Number(1)), Validated: true},
		Condition{Operation: OpEqual, Field: "Color", Value: Scalar(String("red")), Validated: true},
	}}, expr)

	p = &parser{constraints: &Constraints{Types: c.Types}}
	p.indexFields()
	assert.Nil(t, p.fold)
	assert.Nil(t, p.typeKeys)
}

func TestFieldTypeError(t *testing.T) {
	c := &Constraints{Types: map[string][]Kind{"age": {KindNumber}}}
	_, err := Parse("age = abc", c)
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
	assert.Contains(t, err.Error(), "field type")

	_, err = Parse(`age = "42"`, c)
	require.Error(t, err, "quoted text is never a number")
	assert.Contains(t, err.Error(), "field type")
}

func TestOperatorTypeError(t *testing.T) {
	_, err := Parse("age > abc", nil)
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
	assert.Contains(t, err.Error(), "numeric operand")

	_, err = Parse("name ~ 12", &Constraints{Types: map[string][]Kind{"name": {KindNumber}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "string operand")
}

func TestMatchKeepsDigitsAsString(t *testing.T) {
	expr, err := Parse("code ~ 12", nil)
	require.NoError(t, err)
	assert.Equal(t, Condition{Operation: OpMatch, Field: "code", Value: Scalar(String("12"))}, expr)
}

func TestBareFieldAgainstDeclaredTypes(t *testing.T) {
	expr, err := Parse("active", &Constraints{Types: map[string][]Kind{"active": {KindBoolean}}})
	require.NoError(t, err)
	assert.Equal(t, Condition{Operation: OpEqual, Field: "active", Value: Scalar(Bool(true)), Validated: true}, expr)

	_, err = Parse("!name", &Constraints{Types: map[string][]Kind{"name": {KindString}}})
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
}

func TestDatesAreOptIn(t *testing.T) {
	_, err := Parse("created > 2024-01-02", nil)
	require.Error(t, err)
	assert.True(t, IsConstraint(err))

	expr, err := Parse("created > 2024-01-02", &Constraints{InterpretDates: true})
	require.NoError(t, err)
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, Condition{Operation: OpGreater, Field: "created", Value: Scalar(Date(want))}, expr)

	expr, err = Parse(`created <= "2024-01-02T10:00:00+02:00"`, &Constraints{InterpretDates: true})
	require.NoError(t, err)
	assert.Equal(t, Date(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)), expr.(Condition).Value.Scalar())
}

func TestDeclaredDateTypeEnablesDates(t *testing.T) {
	expr, err := Parse("created = 2024-03-01", &Constraints{Types: map[string][]Kind{"created": {KindDate}}})
	require.NoError(t, err)
	assert.Equal(t, KindDate, expr.(Condition).Value.Scalar().Kind())
}

func TestCustomDateParser(t *testing.T) {
	c := &Constraints{DateParser: func(s string) (time.Time, bool) {
		if s == "yesterday" {
			return time.Date(2020, 5, 4, 0, 0, 0, 0, time.UTC), true
		}
		return time.Time{}, false
	}}
	expr, err := Parse("when < yesterday", c)
	require.NoError(t, err)
	assert.Equal(t, Date(time.Date(2020, 5, 4, 0, 0, 0, 0, time.UTC)), expr.(Condition).Value.Scalar())

	expr, err = Parse("when = today", c)
	require.NoError(t, err)
	assert.Equal(t, String("today"), expr.(Condition).Value.Scalar())
}

func TestHeterogeneousArrays(t *testing.T) {
	expr, err := Parse("a : [1, x, true, '2']", nil)
	require.NoError(t, err)
	assert.Equal(t, Array(Number(1), String("x"), Bool(true), String("2")), expr.(Condition).Value)
}

func TestMultipleDeclaredTypes(t *testing.T) {
	c := &Constraints{Types: map[string][]Kind{"val": {KindNumber, KindString}}}
	expr, err := Parse("val : [1, one]", c)
	require.NoError(t, err)
	assert.Equal(t, Array(Number(1), String("one")), expr.(Condition).Value)

	_, err = Parse("val = true", &Constraints{Types: map[string][]Kind{"val": {KindNumber}}})
	require.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Boolean")
	require.NoError(t, err)
	assert.Equal(t, KindBoolean, k)
	_, err = ParseKind("decimal")
	assert.Error(t, err)
}
