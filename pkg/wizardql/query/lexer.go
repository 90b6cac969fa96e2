package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer is a byte-offset scanner over the source. Quotes, escapes and array
// depth are tracked explicitly.
type lexer struct {
	src    string
	pos    int
	tokens []Token

	runStart int  // start of the pending text run, -1 when none
	escaped  bool // previous rune was an unescaped backslash
	depth    int  // array nesting; aliases are not recognised when > 0
}

// Tokenize splits text into tokens. It never fails: malformed input is
// reported by the parser.
func Tokenize(text string) []Token {
	lx := &lexer{src: text, runStart: -1}
	lx.run()
	return lx.tokens
}

func (lx *lexer) run() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		if lx.escaped {
			lx.escaped = false
			lx.extend()
			continue
		}
		if c == '\\' {
			lx.escaped = true
			lx.extend()
			continue
		}
		if isQuoteChar(c) {
			if end, ok := closingQuote(lx.src, lx.pos); ok {
				lx.flush()
				lx.emit(lx.src[lx.pos:end+1], lx.pos)
				lx.pos = end + 1
				continue
			}
		}
		if lx.depth == 0 && lx.atWordBoundary() {
			if word, ok := lx.wordAlias(); ok {
				lx.flush()
				lx.emit(strings.ToUpper(word), lx.pos)
				lx.pos += len(word)
				continue
			}
		}
		if sym := lx.symbol(); sym != "" {
			lx.flush()
			lx.emit(sym, lx.pos)
			lx.pos += len(sym)
			switch sym {
			case "[", "{":
				lx.depth++
			case "]", "}":
				if lx.depth > 0 {
					lx.depth--
				}
			}
			continue
		}
		lx.extend()
	}
	lx.flush()
}

// extend adds the rune at pos to the current text run.
func (lx *lexer) extend() {
	if lx.runStart < 0 {
		lx.runStart = lx.pos
	}
	_, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += size
}

// flush emits the pending text run, trimmed of unescaped surrounding space.
func (lx *lexer) flush() {
	if lx.runStart < 0 {
		return
	}
	content, offset := trimRun(lx.src[lx.runStart:lx.pos])
	if content != "" {
		lx.emit(content, lx.runStart+offset)
	}
	lx.runStart = -1
}

func (lx *lexer) emit(content string, index int) {
	lx.tokens = append(lx.tokens, Token{Content: content, Index: index})
}

func (lx *lexer) atWordBoundary() bool {
	if lx.pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(lx.src[:lx.pos])
	return unicode.IsSpace(r)
}

// wordAlias returns the whitespace-delimited word at pos if it spells an
// alphabetic alias.
func (lx *lexer) wordAlias() (string, bool) {
	end := lx.pos
	for end < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[end:])
		if unicode.IsSpace(r) {
			break
		}
		end += size
	}
	word := lx.src[lx.pos:end]
	if !isWord(word) {
		return "", false
	}
	_, ok := wordAliases[strings.ToUpper(word)]
	return word, ok
}

func (lx *lexer) symbol() string {
	rest := lx.src[lx.pos:]
	if lx.depth > 0 {
		switch rest[0] {
		case ',', '[', ']', '{', '}':
			return rest[:1]
		}
		return ""
	}
	for _, sym := range symbolTokens {
		if strings.HasPrefix(rest, sym) {
			return sym
		}
	}
	return ""
}

func isQuoteChar(c byte) bool {
	return c == '"' || c == '\'' || c == '`'
}

// closingQuote finds the unescaped partner of the quote at open.
func closingQuote(s string, open int) (int, bool) {
	q := s[open]
	escaped := false
	for j := open + 1; j < len(s); j++ {
		switch {
		case escaped:
			escaped = false
		case s[j] == '\\':
			escaped = true
		case s[j] == q:
			return j, true
		}
	}
	return 0, false
}

// trimRun strips leading whitespace and trailing whitespace that is not
// escaped. It returns the trimmed text and its offset within run.
func trimRun(run string) (string, int) {
	start := 0
	for start < len(run) {
		r, size := utf8.DecodeRuneInString(run[start:])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	end := len(run)
	for end > start {
		r, size := utf8.DecodeLastRuneInString(run[:end])
		if !unicode.IsSpace(r) || backslashesBefore(run, end-size)%2 == 1 {
			break
		}
		end -= size
	}
	return run[start:end], start
}

func backslashesBefore(s string, i int) int {
	n := 0
	for i > 0 && s[i-1] == '\\' {
		n++
		i--
	}
	return n
}

// isQuotedLiteral reports whether s is exactly one quoted literal.
func isQuotedLiteral(s string) bool {
	if len(s) < 2 || !isQuoteChar(s[0]) {
		return false
	}
	end, ok := closingQuote(s, 0)
	return ok && end == len(s)-1
}

// hasUnescapedQuote reports whether s contains a quote character that is not
// escaped.
func hasUnescapedQuote(s string) bool {
	escaped := false
	for i := 0; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case isQuoteChar(s[i]):
			return true
		}
	}
	return false
}

// unescape drops the backslash in front of every escaped rune. A trailing
// lone backslash is kept.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}
