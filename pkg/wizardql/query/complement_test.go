package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplementOperations(t *testing.T) {
	pairs := map[Operation]Operation{
		OpAnd:      OpOr,
		OpEqual:    OpNotEqual,
		OpLess:     OpGeq,
		OpGreater:  OpLeq,
		OpIn:       OpNotIn,
		OpMatch:    OpNotMatch,
		OpNotMatch: OpMatch,
	}
	for op, want := range pairs {
		assert.Equal(t, want, op.Complement(), op)
		assert.Equal(t, op, want.Complement(), want)
	}
}

func TestComplementIsSelfInverse(t *testing.T) {
	for _, text := range []string{
		"a",
		"a = 1 & b != 2",
		"a < 1 | b >= 2 & c : [1, 2]",
		"(a ~ x | b !~ y) & !(c !: [z] | d <= 4)",
	} {
		e := mustParse(t, text)
		assert.Equal(t, e, Complement(Complement(e)), text)
	}
}

func TestComplementAppliesDeMorgan(t *testing.T) {
	e := mustParse(t, "a = 1 & (b > 2 | c : [x])")
	want := Group{OpOr, []Expression{
		cond("a", OpNotEqual, Scalar(Number(1))),
		Group{OpAnd, []Expression{
			cond("b", OpLeq, Scalar(Number(2))),
			cond("c", OpNotIn, Array(String("x"))),
		}},
	}}
	assert.Equal(t, want, Complement(e))
}

func TestComplementLeavesInputUntouched(t *testing.T) {
	e := mustParse(t, "a = 1 & b = 2")
	before := Stringify(e, StringifyOptions{})
	_ = Complement(e)
	assert.Equal(t, before, Stringify(e, StringifyOptions{}))
	assert.Nil(t, Complement(nil))
}
