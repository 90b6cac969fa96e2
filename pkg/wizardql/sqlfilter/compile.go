// Package sqlfilter renders parsed filters as parameterized SQL WHERE clauses
// and runs them against database/sql connections.
package sqlfilter

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nonibytes/wizardql/pkg/wizardql/query"
	"github.com/nonibytes/wizardql/pkg/wizardql/storage/sqlbuilder"
)

var ErrUnknownField = errors.New("unknown field")

// Fragment is a SQL boolean expression with its bind arguments.
type Fragment struct {
	SQL  string
	Args []any
}

type Options struct {
	Dialect Dialect
	// Columns maps fields to column names. When non-nil, fields missing from
	// the map are rejected with ErrUnknownField.
	Columns map[string]string
}

// Compile renders e for dialect d. Field names are used as column names.
func Compile(e query.Expression, d Dialect) (Fragment, error) {
	return CompileWith(e, Options{Dialect: d})
}

// CompileWith renders e. A nil expression matches every row.
func CompileWith(e query.Expression, opts Options) (Fragment, error) {
	if e == nil {
		return Fragment{SQL: "1 = 1"}, nil
	}
	c := &compiler{opts: opts, b: sqlbuilder.New(opts.Dialect.placeholders())}
	sql, err := c.expr(e)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{SQL: sql, Args: c.b.Args()}, nil
}

type compiler struct {
	opts Options
	b    *sqlbuilder.Builder
}

func (c *compiler) expr(e query.Expression) (string, error) {
	switch x := e.(type) {
	case query.Group:
		parts := make([]string, 0, len(x.Constituents))
		for _, sub := range x.Constituents {
			sql, err := c.expr(sub)
			if err != nil {
				return "", err
			}
			if _, nested := sub.(query.Group); nested {
				sql = "(" + sql + ")"
			}
			parts = append(parts, sql)
		}
		return strings.Join(parts, " "+string(x.Operation)+" "), nil
	case query.Condition:
		return c.condition(x)
	default:
		return "", fmt.Errorf("unknown expression type: %T", e)
	}
}

func (c *compiler) column(field string) (string, error) {
	if c.opts.Columns == nil {
		return sqlbuilder.QuoteIdent(field), nil
	}
	col, ok := c.opts.Columns[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return sqlbuilder.QuoteIdent(col), nil
}

var comparisons = map[query.Operation]string{
	query.OpEqual:   "=",
	query.OpLess:    "<",
	query.OpGreater: ">",
	query.OpLeq:     "<=",
	query.OpGeq:     ">=",
}

func (c *compiler) condition(cond query.Condition) (string, error) {
	col, err := c.column(cond.Field)
	if err != nil {
		return "", err
	}
	v := cond.Value.Scalar()

	if op, ok := comparisons[cond.Operation]; ok {
		return fmt.Sprintf("%s %s %s", col, op, c.b.Arg(c.arg(v))), nil
	}
	switch cond.Operation {
	case query.OpNotEqual:
		return orNull(col, fmt.Sprintf("%s <> %s", col, c.b.Arg(c.arg(v)))), nil
	case query.OpIn:
		return fmt.Sprintf("%s IN (%s)", col, c.b.List(c.args(cond.Value))), nil
	case query.OpNotIn:
		return orNull(col, fmt.Sprintf("%s NOT IN (%s)", col, c.b.List(c.args(cond.Value)))), nil
	case query.OpMatch:
		return c.regexp(col, v.AsString(), false), nil
	case query.OpNotMatch:
		return orNull(col, c.regexp(col, v.AsString(), true)), nil
	}
	return "", fmt.Errorf("unsupported operation %s", cond.Operation)
}

// orNull lets rows with no value pass a negative comparison.
func orNull(col, pred string) string {
	return "(" + col + " IS NULL OR " + pred + ")"
}

// regexp renders a case-insensitive match. SQLite relies on the regexp()
// function registered by the storage/sqlite connector.
func (c *compiler) regexp(col, pattern string, negate bool) string {
	if c.opts.Dialect == DialectPostgres {
		op := "~*"
		if negate {
			op = "!~*"
		}
		return fmt.Sprintf("%s %s %s", col, op, c.b.Arg(pattern))
	}
	pred := fmt.Sprintf("%s REGEXP %s", col, c.b.Arg("(?i)"+pattern))
	if negate {
		return "NOT (" + pred + ")"
	}
	return pred
}

func (c *compiler) args(v query.Value) []any {
	items := v.Items()
	out := make([]any, len(items))
	for i, p := range items {
		out[i] = c.arg(p)
	}
	return out
}

// arg converts a primitive into a driver argument. SQLite has no boolean or
// timestamp storage class, so booleans bind as 0/1 and dates as RFC 3339
// text.
func (c *compiler) arg(p query.Primitive) any {
	pg := c.opts.Dialect == DialectPostgres
	switch p.Kind() {
	case query.KindBoolean:
		if pg {
			return p.AsBool()
		}
		if p.AsBool() {
			return int64(1)
		}
		return int64(0)
	case query.KindNumber:
		n := p.AsNumber()
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	case query.KindDate:
		if pg {
			return p.AsTime()
		}
		return p.AsTime().Format(time.RFC3339Nano)
	default:
		return p.AsString()
	}
}
