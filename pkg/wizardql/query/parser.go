package query

import (
	"fmt"
	"strings"
)

// Parse tokenizes and parses text. It returns (nil, nil) for blank input.
func Parse(text string, c *Constraints) (Expression, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return ParseTokens(Tokenize(text), c)
}

// ParseTokens parses an already tokenized filter. Operator tokens must use the
// canonical uppercase spelling.
func ParseTokens(tokens []Token, c *Constraints) (Expression, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	p := &parser{tokens: tokens, constraints: c}
	p.indexFields()
	return p.parseLevel(-1)
}

type parser struct {
	tokens      []Token
	pos         int
	constraints *Constraints

	// set when constraints are case-insensitive
	fold           func(string) string
	restrictedKeys map[string]string
	typeKeys       map[string]string
}

// level is the state of one nesting level. op is the level's junction once
// the first junction has been seen; conj holds the AND subgroup being built
// inside an OR chain.
type level struct {
	p            *parser
	open         int
	op           Operation
	items        []Expression
	conj         []Expression
	inConj       bool
	pending      *pendingCondition
	needJunction bool
	lastJunction int
}

// parseLevel parses until the closing parenthesis matching open, or the end of
// input when open is negative. The closing parenthesis is consumed.
func (p *parser) parseLevel(open int) (Expression, error) {
	lv := &level{p: p, open: open, lastJunction: -1}
	for p.pos < len(p.tokens) {
		i := p.pos
		content := p.tokens[i].Content

		switch content {
		case "(":
			if err := lv.expectOperand(i); err != nil {
				return nil, err
			}
			p.pos++
			sub, err := p.parseLevel(i)
			if err != nil {
				return nil, err
			}
			if sub == nil {
				return nil, p.syntaxErr(i, p.pos-1, "Empty group")
			}
			lv.push(sub)
			continue

		case ")":
			if open < 0 {
				return nil, p.syntaxErr(i, i, "Unexpected closing parenthesis")
			}
			p.pos++
			return lv.finish()

		case "!":
			if err := lv.expectOperand(i); err != nil {
				return nil, err
			}
			if err := lv.negate(i); err != nil {
				return nil, err
			}
			continue

		case "[", "{":
			if err := lv.arrayValue(i); err != nil {
				return nil, err
			}
			continue

		case "]", "}":
			return nil, p.syntaxErr(i, i, fmt.Sprintf("Unexpected closing bracket %q", content))

		case ",":
			return nil, p.syntaxErr(i, i, "Unexpected delimiter ',' outside of an array")
		}

		if op, ok := operatorOf(content); ok {
			if op.IsJunction() {
				expr, done, err := lv.junction(op, i)
				if err != nil || done {
					return expr, err
				}
				continue
			}
			if err := lv.comparison(op, i); err != nil {
				return nil, err
			}
			p.pos++
			continue
		}

		if err := lv.operand(i); err != nil {
			return nil, err
		}
		p.pos++
	}

	if open >= 0 {
		return nil, p.syntaxErr(open, len(p.tokens)-1, "Unterminated group: missing closing parenthesis")
	}
	return lv.finish()
}

// expectOperand rejects a group or negation where a junction or a value is
// required.
func (lv *level) expectOperand(i int) error {
	p := lv.p
	what := p.tokens[i].Content
	if pc := lv.pending; pc != nil {
		if pc.hasOp {
			return p.syntaxErr(pc.opTok, i, fmt.Sprintf("%q cannot be used as the value of a comparison", what))
		}
		return p.syntaxErr(pc.field.tok, i, fmt.Sprintf("Missing operator between %q and %q", pc.field.text, what))
	}
	if lv.needJunction {
		return p.syntaxErr(i-1, i, fmt.Sprintf("Missing junction operator before %q", what))
	}
	return nil
}

// negate handles "!field" and "!( ... )".
func (lv *level) negate(i int) error {
	p := lv.p
	next := i + 1
	if next >= len(p.tokens) {
		return p.syntaxErr(i, i, "Negation must be followed by a field or a group")
	}
	content := p.tokens[next].Content
	if content == "(" {
		p.pos = next + 1
		sub, err := p.parseLevel(next)
		if err != nil {
			return err
		}
		if sub == nil {
			return p.syntaxErr(next, p.pos-1, "Empty group")
		}
		lv.push(Complement(sub))
		return nil
	}
	if !isOperandContent(content) {
		return p.syntaxErr(i, next, "Negation must be followed by a field or a group")
	}
	pc := &pendingCondition{
		field:    p.operandAt(next),
		op:       OpEqual,
		opTok:    next,
		hasOp:    true,
		valueEnd: next,
	}
	pc.values = []operand{{tok: next, literal: boolLiteral(false)}}
	cond, err := p.resolve(pc)
	if err != nil {
		return err
	}
	lv.push(cond)
	p.pos = next + 1
	return nil
}

func (lv *level) comparison(op Operation, i int) error {
	p := lv.p
	pc := lv.pending
	if pc == nil {
		if lv.needJunction {
			return p.syntaxErr(i, i, fmt.Sprintf("Unexpected comparison operator %q after a complete condition", p.tokens[i].Content))
		}
		return p.syntaxErr(i, i, fmt.Sprintf("Comparison operator %q has no preceding field", p.tokens[i].Content))
	}
	if pc.hasOp {
		return p.syntaxErr(pc.opTok, i, fmt.Sprintf("Duplicate comparison operator %q for field %q", p.tokens[i].Content, pc.field.text))
	}
	pc.op, pc.opTok, pc.hasOp = op, i, true
	return nil
}

func (lv *level) operand(i int) error {
	p := lv.p
	if lv.needJunction {
		return p.syntaxErr(i-1, i, fmt.Sprintf("Missing junction operator before %q", p.tokens[i].Content))
	}
	o := p.operandAt(i)
	pc := lv.pending
	if pc == nil {
		lv.pending = &pendingCondition{field: o, valueEnd: i}
		return nil
	}
	if !pc.hasOp {
		return p.syntaxErr(pc.field.tok, i,
			fmt.Sprintf("Ambiguous operands %q and %q: expected a comparison operator", pc.field.text, o.text))
	}
	pc.values = []operand{o}
	pc.valueEnd = i
	return lv.resolvePending()
}

// arrayValue parses a bracketed list as the value of the pending condition.
func (lv *level) arrayValue(open int) error {
	p := lv.p
	pc := lv.pending
	if pc == nil || !pc.hasOp {
		return p.syntaxErr(open, open, "Array literal must follow a comparison operator")
	}
	items, closeIdx, err := p.parseArray(open)
	if err != nil {
		return err
	}
	pc.values = items
	pc.array = true
	pc.valueEnd = closeIdx
	return lv.resolvePending()
}

func (p *parser) parseArray(open int) ([]operand, int, error) {
	closer := "]"
	if p.tokens[open].Content == "{" {
		closer = "}"
	}
	var items []operand
	expectEntry := true
	sawDelimiter := false
	for p.pos = open + 1; p.pos < len(p.tokens); p.pos++ {
		j := p.pos
		content := p.tokens[j].Content
		switch content {
		case "]", "}":
			if content != closer {
				return nil, 0, p.syntaxErr(open, j, fmt.Sprintf("Mismatched brackets: %q closed by %q", p.tokens[open].Content, content))
			}
			if len(items) == 0 && !sawDelimiter {
				return nil, 0, p.syntaxErr(open, j, "Empty array provided as value")
			}
			if expectEntry {
				return nil, 0, p.syntaxErr(j-1, j, "Missing array entry after ','")
			}
			p.pos++
			return items, j, nil
		case ",":
			if expectEntry {
				return nil, 0, p.syntaxErr(j, j, "Missing array entry before ','")
			}
			expectEntry = true
			sawDelimiter = true
		case "[", "{":
			return nil, 0, p.syntaxErr(j, j, "Nested arrays are not supported")
		default:
			if !expectEntry {
				prev := p.tokens[j-1]
				if prev.End() == p.tokens[j].Index && (hasUnescapedQuote(prev.Content) || hasUnescapedQuote(content)) {
					return nil, 0, p.syntaxErr(j-1, j, "Quotes must surround entire values")
				}
				return nil, 0, p.syntaxErr(j-1, j, "Missing ',' between array entries")
			}
			if !isQuotedLiteral(content) && hasUnescapedQuote(content) {
				return nil, 0, p.syntaxErr(j, j, "Quotes must surround entire values")
			}
			items = append(items, p.operandAt(j))
			expectEntry = false
		}
	}
	return nil, 0, p.syntaxErr(open, len(p.tokens)-1, fmt.Sprintf("Unterminated array: missing %q", closer))
}

// junction applies the precedence rules. done reports that the remainder of
// the level was consumed by a right-recursive split.
func (lv *level) junction(op Operation, i int) (Expression, bool, error) {
	p := lv.p
	if lv.pending != nil {
		if err := lv.resolvePending(); err != nil {
			return nil, false, err
		}
	}
	if !lv.needJunction {
		if lv.lastJunction >= 0 {
			return nil, false, p.syntaxErr(lv.lastJunction, i, fmt.Sprintf("Junction operator %q follows another junction", p.tokens[i].Content))
		}
		return nil, false, p.syntaxErr(i, i, fmt.Sprintf("Junction operator %q has no preceding operand", p.tokens[i].Content))
	}
	lv.needJunction = false
	lv.lastJunction = i
	p.pos = i + 1

	switch {
	case lv.op == "":
		lv.op = op
	case op == lv.op:
		if op == OpOr {
			lv.closeConj()
		}
	case lv.op == OpAnd && op == OpOr:
		closed := makeGroup(OpAnd, lv.items)
		rest, err := p.parseLevel(lv.open)
		if err != nil {
			return nil, true, err
		}
		if rest == nil {
			return nil, true, p.syntaxErr(i, i, fmt.Sprintf("Dangling junction operator %q", p.tokens[i].Content))
		}
		return makeGroup(OpOr, []Expression{closed, rest}), true, nil
	case lv.op == OpOr && op == OpAnd:
		if !lv.inConj {
			last := lv.items[len(lv.items)-1]
			lv.items = lv.items[:len(lv.items)-1]
			lv.conj = []Expression{last}
			lv.inConj = true
		}
	}
	return nil, false, nil
}

func (lv *level) resolvePending() error {
	pc := lv.pending
	lv.pending = nil
	if !pc.hasOp {
		pc.op, pc.opTok, pc.hasOp = OpEqual, pc.field.tok, true
		pc.values = []operand{{tok: pc.field.tok, literal: boolLiteral(true)}}
	} else if len(pc.values) == 0 {
		return lv.p.syntaxErr(pc.opTok, pc.opTok, fmt.Sprintf("Comparison operator %q is missing a value", lv.p.tokens[pc.opTok].Content))
	}
	cond, err := lv.p.resolve(pc)
	if err != nil {
		return err
	}
	lv.push(cond)
	return nil
}

func (lv *level) push(e Expression) {
	if lv.inConj {
		lv.conj = append(lv.conj, e)
	} else {
		lv.items = append(lv.items, e)
	}
	lv.needJunction = true
}

func (lv *level) closeConj() {
	if !lv.inConj {
		return
	}
	lv.items = append(lv.items, makeGroup(OpAnd, lv.conj))
	lv.conj = nil
	lv.inConj = false
}

// finish resolves what is left at the level and builds its expression. An
// empty level yields nil.
func (lv *level) finish() (Expression, error) {
	if lv.pending != nil {
		if err := lv.resolvePending(); err != nil {
			return nil, err
		}
	}
	if !lv.needJunction && lv.lastJunction >= 0 {
		return nil, lv.p.syntaxErr(lv.lastJunction, lv.lastJunction,
			fmt.Sprintf("Dangling junction operator %q", lv.p.tokens[lv.lastJunction].Content))
	}
	lv.closeConj()
	return makeGroup(lv.op, lv.items), nil
}

// operandAt unquotes and unescapes the token at i.
func (p *parser) operandAt(i int) operand {
	content := p.tokens[i].Content
	if isQuotedLiteral(content) {
		return operand{text: unescape(content[1 : len(content)-1]), quoted: true, tok: i}
	}
	return operand{text: unescape(content), tok: i}
}

func boolLiteral(b bool) *Primitive {
	p := Bool(b)
	return &p
}

func isOperandContent(content string) bool {
	if isPunctuation(content) {
		return false
	}
	_, isOp := operatorOf(content)
	return !isOp
}

func (p *parser) syntaxErr(start, end int, msg string) *Error {
	return newError(ErrSyntax, p.tokens, start, end, msg)
}

func (p *parser) constraintErr(start, end int, field, msg string) *Error {
	e := newError(ErrConstraint, p.tokens, start, end, msg)
	e.Field = field
	return e
}
