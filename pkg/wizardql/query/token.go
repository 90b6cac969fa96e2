package query

import "strconv"

// Token is one lexical unit together with its byte offset in the source.
type Token struct {
	Content string `json:"content"`
	Index   int    `json:"index"`
}

// End returns the offset just past the token.
func (t Token) End() int { return t.Index + len(t.Content) }

func (t Token) String() string {
	return strconv.Quote(t.Content) + "@" + strconv.Itoa(t.Index)
}

// TokenClass is the category an editor or inspector paints a token with.
type TokenClass string

const (
	ClassJunction   TokenClass = "junction"
	ClassComparison TokenClass = "comparison"
	ClassNegation   TokenClass = "negation"
	ClassOpenGroup  TokenClass = "open-group"
	ClassCloseGroup TokenClass = "close-group"
	ClassOpenArray  TokenClass = "open-array"
	ClassCloseArray TokenClass = "close-array"
	ClassDelimiter  TokenClass = "delimiter"
	ClassQuoted     TokenClass = "quoted"
	ClassNumeric    TokenClass = "numeric"
	ClassBoolean    TokenClass = "boolean"
	ClassText       TokenClass = "text"
)

// Classify returns the class of a single token.
func Classify(t Token) TokenClass {
	switch t.Content {
	case "(":
		return ClassOpenGroup
	case ")":
		return ClassCloseGroup
	case "[", "{":
		return ClassOpenArray
	case "]", "}":
		return ClassCloseArray
	case ",":
		return ClassDelimiter
	case "!":
		return ClassNegation
	case "true", "false":
		return ClassBoolean
	}
	if op, ok := operatorOf(t.Content); ok {
		if op.IsJunction() {
			return ClassJunction
		}
		return ClassComparison
	}
	if isQuotedLiteral(t.Content) {
		return ClassQuoted
	}
	if _, ok := parseNumber(t.Content); ok {
		return ClassNumeric
	}
	return ClassText
}

// operatorOf matches token content exactly against the alias table. Lexed
// word aliases are already uppercased.
func operatorOf(content string) (Operation, bool) {
	op, ok := aliasTable[content]
	return op, ok
}
