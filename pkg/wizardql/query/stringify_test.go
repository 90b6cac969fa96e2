package query

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notationSample = `a = 1 & (b : [x, "x or y"] | !c & e <= 2024) | d ~ "^f.*"`

var notationVariants = []struct {
	name string
	opts StringifyOptions
}{
	{"default", StringifyOptions{}},
	{"linguistic", StringifyOptions{JunctionNotation: NotationLinguistic, ComparisonNotation: NotationLinguistic}},
	{"formal", StringifyOptions{JunctionNotation: NotationFormal, ComparisonNotation: NotationFormal}},
	{"parenthesized", StringifyOptions{AlwaysParenthesize: true}},
	{"compact", StringifyOptions{Compact: true}},
	{"compact-linguistic", StringifyOptions{JunctionNotation: NotationLinguistic, ComparisonNotation: NotationLinguistic, Compact: true}},
	{"compact-formal", StringifyOptions{JunctionNotation: NotationFormal, Compact: true}},
}

func TestStringifyNotations(t *testing.T) {
	e := mustParse(t, notationSample)

	var b strings.Builder
	for _, v := range notationVariants {
		fmt.Fprintf(&b, "%s: %s\n", v.name, Stringify(e, v.opts))
	}
	fmt.Fprintf(&b, "condensed: %s\n", Stringify(e, StringifyOptions{CondenseBooleans: true}))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "stringify_notations", []byte(b.String()))
}

func TestStringifyDefault(t *testing.T) {
	tests := []struct {
		expr Expression
		want string
	}{
		{nil, ""},
		{NewCondition("a", OpEqual, Scalar(Number(1.5))), "a = 1.5"},
		{NewCondition("a", OpEqual, Scalar(Number(-2e3))), "a = -2000"},
		{NewCondition("a", OpEqual, Scalar(String("42"))), `a = "42"`},
		{NewCondition("a", OpEqual, Scalar(String("true"))), `a = "true"`},
		{NewCondition("a", OpEqual, Scalar(String(""))), `a = ""`},
		{NewCondition("a", OpEqual, Scalar(String(" pad"))), `a = " pad"`},
		{NewCondition("a", OpEqual, Scalar(String("x or y"))), `a = "x or y"`},
		{NewCondition("a", OpEqual, Scalar(String("plain text"))), "a = plain text"},
		{NewCondition("a", OpEqual, Scalar(String(`say "hi"`))), `a = "say \"hi\""`},
		{NewCondition("a", OpEqual, Scalar(String(`C:\dir`))), `a = "C:\\dir"`},
		{NewCondition("a", OpNotEqual, Scalar(Bool(true))), "a != true"},
		{NewCondition("my field(1)", OpLess, Scalar(Number(3))), `"my field(1)" < 3`},
		{NewCondition("when", OpGeq, Scalar(Date(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))), `when >= "2024-01-02T03:04:05Z"`},
		{NewCondition("tags", OpNotIn, Array(String("a"), Number(2), Bool(false))), "tags !: [a, 2, false]"},
		{And(NewCondition("a", OpEqual, Scalar(Number(1))), Or(NewCondition("b", OpMatch, Scalar(String("x"))), NewCondition("c", OpNotMatch, Scalar(String("y"))))),
			"a = 1 & (b ~ x | c !~ y)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stringify(tt.expr, StringifyOptions{}))
	}
}

func TestStringifyCondensesBooleans(t *testing.T) {
	opts := StringifyOptions{CondenseBooleans: true}
	assert.Equal(t, "a", Stringify(flag("a", true), opts))
	assert.Equal(t, "!a", Stringify(flag("a", false), opts))
	assert.Equal(t, "!a", Stringify(cond("a", OpNotEqual, Scalar(Bool(true))), opts))
	assert.Equal(t, "a", Stringify(cond("a", OpNotEqual, Scalar(Bool(false))), opts))
	assert.Equal(t, "a : [true]", Stringify(cond("a", OpIn, Array(Bool(true))), opts))
	assert.Equal(t, "a = 1", Stringify(cond("a", OpEqual, Scalar(Number(1))), opts))
}

func TestStringifyFormalCompactKeepsWordSpacing(t *testing.T) {
	e := Or(And(flag("a", true), flag("b", true)), flag("c", true))
	assert.Equal(t, "a=true^b=true V c=true", Stringify(e, StringifyOptions{JunctionNotation: NotationFormal, Compact: true}))
}

func TestStringifyRoundTrip(t *testing.T) {
	corpus := []string{
		notationSample,
		`field = "\"foo\""`,
		`"a b" != 'true'`,
		`x : [1, "2", \[3\], four, true, ""]`,
		"n >= -1.5 & n < 1e3",
		`!(p ~ "a|b" | q !~ x)`,
		`path = "C:\\dir" & other = "or"`,
		`val = " padded " | flag != false`,
		"a | b & c | d & e & f",
		"(a | b) & (c | d)",
	}
	for _, text := range corpus {
		e := mustParse(t, text)
		for _, v := range notationVariants {
			out := Stringify(e, v.opts)
			back, err := Parse(out, nil)
			require.NoError(t, err, "%s: %q", v.name, out)
			assert.Equal(t, e, back, "%s: %q", v.name, out)
		}
	}
}

func TestStringifyRoundTripDates(t *testing.T) {
	c := &Constraints{InterpretDates: true}
	e, err := Parse(`created > "2024-01-02T03:04:05.5Z" & updated <= 2024-02-01`, c)
	require.NoError(t, err)

	out := Stringify(e, StringifyOptions{})
	assert.Equal(t, `created > "2024-01-02T03:04:05.5Z" & updated <= "2024-02-01T00:00:00Z"`, out)

	back, err := Parse(out, c)
	require.NoError(t, err)
	assert.Equal(t, e, back)
}

func TestParseNotation(t *testing.T) {
	for in, want := range map[string]Notation{
		"":             NotationSymbolic,
		"programmatic": NotationSymbolic,
		"Linguistic":   NotationLinguistic,
		"formal":       NotationFormal,
	} {
		n, err := ParseNotation(in)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	_, err := ParseNotation("emoji")
	assert.Error(t, err)
}
