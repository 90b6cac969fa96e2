package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func contents(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Content
	}
	return out
}

func TestTokenizeMixedExpression(t *testing.T) {
	tokens := Tokenize(`(field = string or other\ field > 24) & boolean_field\!`)
	assert.Equal(t, []Token{
		{"(", 0},
		{"field", 1},
		{"=", 7},
		{"string", 9},
		{"OR", 16},
		{`other\ field`, 19},
		{">", 32},
		{"24", 34},
		{")", 36},
		{"&", 38},
		{`boolean_field\!`, 40},
	}, tokens)
}

func TestTokenizeWordAliasesAreCaseInsensitive(t *testing.T) {
	assert.Equal(t, []string{"1", "NOTIN", "2", ",", "3"}, contents(Tokenize("1 NOtIN 2,3")))
	assert.Equal(t, []string{"a", "EQUALS", "b", "AND", "c", "MATCHES", "d"}, contents(Tokenize("a equals b and c Matches d")))
}

func TestTokenizeWordAliasNeedsWhitespace(t *testing.T) {
	assert.Equal(t, []string{"android", "=", "1"}, contents(Tokenize("android = 1")))
	assert.Equal(t, []string{"Vx", "=", "3"}, contents(Tokenize("Vx = 3")))
	assert.Equal(t, []string{"a", "V", "b"}, contents(Tokenize("a v b")))
	assert.Equal(t, []string{"fooANDbar"}, contents(Tokenize("fooANDbar")))
}

func TestTokenizeSymbolsLongestFirst(t *testing.T) {
	assert.Equal(t, []string{"a", ">=", "b", "=>", "c"}, contents(Tokenize("a>=b=>c")))
	assert.Equal(t, []string{"a", "!==", "b", "!=", "c"}, contents(Tokenize("a !== b != c")))
	assert.Equal(t, []string{"a", "&&", "b", "||", "c"}, contents(Tokenize("a && b || c")))
	assert.Equal(t, []string{"!", "(", "a", "!:", "b", ")"}, contents(Tokenize("!(a !: b)")))
}

func TestTokenizeEscapedSymbols(t *testing.T) {
	assert.Equal(t, []string{`field\=name`, "=", "x"}, contents(Tokenize(`field\=name = x`)))
	assert.Equal(t, []string{`field\\`, "=", "value"}, contents(Tokenize(`field\\= value`)))
}

func TestTokenizeQuotedLiterals(t *testing.T) {
	assert.Equal(t, []Token{
		{"a", 0},
		{"=", 2},
		{`"say \"hi\""`, 4},
	}, Tokenize(`a = "say \"hi\""`))

	assert.Equal(t, []string{"`tick`", "=", "'it is'"}, contents(Tokenize("`tick` = 'it is'")))
}

func TestTokenizeUnterminatedQuoteIsText(t *testing.T) {
	assert.Equal(t, []string{"a", "=", `"abc`}, contents(Tokenize(`a = "abc`)))
}

func TestTokenizeArrayContentsAreNotOperators(t *testing.T) {
	tokens := Tokenize(`field : [and, "x y", or\,z, =]`)
	assert.Equal(t, []string{"field", ":", "[", "and", ",", `"x y"`, ",", `or\,z`, ",", "=", "]"}, contents(tokens))
}

func TestTokenizeAfterArrayResumesOperators(t *testing.T) {
	tokens := Tokenize(`a : {1, 2} & b = 3`)
	assert.Equal(t, []string{"a", ":", "{", "1", ",", "2", "}", "&", "b", "=", "3"}, contents(tokens))
}

func TestTokenizeTrimsUnescapedWhitespaceOnly(t *testing.T) {
	tokens := Tokenize(`  foo\  = bar  `)
	assert.Equal(t, []Token{{`foo\ `, 2}, {"=", 8}, {"bar", 10}}, tokens)
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   \t "))
}

func TestClassify(t *testing.T) {
	cases := map[string]TokenClass{
		"AND":     ClassJunction,
		"V":       ClassJunction,
		"!=":      ClassComparison,
		"!":       ClassNegation,
		"(":       ClassOpenGroup,
		")":       ClassCloseGroup,
		"{":       ClassOpenArray,
		"]":       ClassCloseArray,
		",":       ClassDelimiter,
		`"x"`:     ClassQuoted,
		"-2.5":    ClassNumeric,
		"true":    ClassBoolean,
		"field_1": ClassText,
	}
	for content, want := range cases {
		assert.Equal(t, want, Classify(Token{Content: content}), content)
	}
}
