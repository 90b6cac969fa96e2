package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeSingleField(t *testing.T) {
	s := Summarize(mustParse(t, "foo >= 3 or foo < 1"))
	assert.Equal(t, []string{"foo"}, s.Fields())
	assert.Equal(t, []AggregationValue{
		{Operation: OpGeq, Value: Scalar(Number(3)), Exclusionary: false},
		{Operation: OpLess, Value: Scalar(Number(1)), Exclusionary: true},
	}, s.Values("foo"))
}

func TestSummarizeKeepsFirstSeenOrder(t *testing.T) {
	s := Summarize(
		mustParse(t, "b = 1 & (a = 2 | c)"),
		nil,
		mustParse(t, "a !: [x, y]"),
	)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"b", "a", "c"}, s.Fields())
	assert.Equal(t, []AggregationValue{
		{Operation: OpEqual, Value: Scalar(Number(2))},
		{Operation: OpNotIn, Value: Array(String("x"), String("y")), Exclusionary: true},
	}, s.Values("a"))
	assert.Nil(t, s.Values("missing"))
}

func TestSummaryJSONIsOrdered(t *testing.T) {
	s := Summarize(mustParse(t, "zeta ~ x & alpha >= 3"))
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t,
		`{"zeta":[{"operation":"MATCH","value":"x","exclusionary":false}],`+
			`"alpha":[{"operation":"GEQ","value":3,"exclusionary":false}]}`,
		string(out))

	out, err = json.Marshal(Summarize())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}
