package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonibytes/wizardql/pkg/wizardql/query"
)

func parse(t *testing.T, text string) query.Expression {
	t.Helper()
	e, err := query.Parse(text, &query.Constraints{InterpretDates: true})
	require.NoError(t, err, text)
	return e
}

var person = map[string]any{
	"name":    "Ada Lovelace",
	"age":     36.0,
	"active":  true,
	"joined":  "1842-06-01",
	"tags":    []any{"math", "poetry"},
	"score":   "17",
	"nothing": nil,
}

func TestMatchConditions(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"name = 'Ada Lovelace'", true},
		{"name != 'Ada Lovelace'", false},
		{"age = 36", true},
		{"age > 30 & age <= 36", true},
		{"age < 36", false},
		{"age >= 37", false},
		{"active", true},
		{"!active", false},
		{"score = 17", true},
		{"score > 16", true},
		{"joined < 1900-01-01", true},
		{`joined = "1842-06-01T00:00:00Z"`, true},
		{"tags = math", true},
		{"tags : [history, poetry]", true},
		{"tags !: [history, poetry]", false},
		{"tags !: [history]", true},
		{"name ~ lovelace", true},
		{`name !~ "^bab"`, true},
		{`name ~ "^lace"`, false},
		{"missing = 1", false},
		{"missing != 1", true},
		{"missing : [1]", false},
		{"missing !: [1]", true},
		{"missing !~ x", true},
		{"missing < 3", false},
		{"missing >= 3", false},
		{"nothing = x", false},
		{"nothing != x", true},
		{"age = old", false},
		{"age > 30 | missing", true},
		{"!(age > 30 | missing)", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ok, err := Match(parse(t, tt.text), person)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestMatchNilExpression(t *testing.T) {
	ok, err := Match(nil, person)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatchComplementDisagreesOnPresentValues(t *testing.T) {
	for _, text := range []string{"age = 36", "tags : [math]", "name ~ ada", "active"} {
		e := parse(t, text)
		pos, err := Match(e, person)
		require.NoError(t, err)
		neg, err := Match(query.Complement(e), person)
		require.NoError(t, err)
		assert.NotEqual(t, pos, neg, text)
	}
}

func TestMatchTypedSlices(t *testing.T) {
	records := []any{
		map[string]any{"tags": []any{"a", "b"}},
		map[string]any{"tags": []string{"a", "b"}},
		map[string][]string{"tags": {"a", "b"}},
		map[string]any{"tags": [2]string{"b", "a"}},
		struct {
			Tags []string `json:"tags"`
		}{[]string{"a", "b"}},
	}
	for i, rec := range records {
		for text, want := range map[string]bool{
			"tags : [a]":  true,
			"tags = b":    true,
			"tags !: [a]": false,
			"tags != b":   false,
			"tags : [z]":  false,
			"tags !: [z]": true,
		} {
			ok, err := Match(parse(t, text), rec)
			require.NoError(t, err)
			assert.Equal(t, want, ok, "record %d: %s", i, text)
		}
	}

	ok, err := Match(parse(t, "raw = abc"), map[string]any{"raw": []byte("abc")})
	require.NoError(t, err)
	assert.True(t, ok, "byte slices compare as text")
}

func TestMatchInvalidPattern(t *testing.T) {
	_, err := Match(parse(t, "name ~ '('"), person)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

type employee struct {
	Name    string    `json:"name"`
	Level   int       `json:"level"`
	Started time.Time `json:"started"`
	Remote  bool      `json:"remote"`
}

func TestFilterStructs(t *testing.T) {
	staff := []employee{
		{"ann", 3, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"bob", 5, time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"cid", 1, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), true},
	}
	got, err := Filter(parse(t, "level >= 3 | remote & started > 2022-01-01"), staff)
	require.NoError(t, err)
	assert.Equal(t, []employee{staff[0], staff[1], staff[2]}, got)

	got, err = Filter(parse(t, "remote & started < 2022-01-01"), staff)
	require.NoError(t, err)
	assert.Equal(t, []employee{staff[0]}, got)
}

func TestToRecord(t *testing.T) {
	rec, err := ToRecord(map[string]string{"a": "1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1"}, rec)

	rec, err = ToRecord(&employee{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", rec["name"])

	_, err = ToRecord(42)
	assert.ErrorIs(t, err, ErrNotRecord)
	_, err = ToRecord(map[int]string{1: "a"})
	assert.ErrorIs(t, err, ErrNotRecord)
}
