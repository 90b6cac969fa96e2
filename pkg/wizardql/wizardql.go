// Package wizardql parses, validates, rewrites and evaluates WizardQL filter
// expressions such as
//
//	status = open & (priority >= 3 | tags : [urgent, blocker]) & !archived
//
// The core lives in the query package; this package re-exports it together
// with the constraints loader, the in-memory matcher and the SQL compiler.
package wizardql

import (
	"github.com/nonibytes/wizardql/pkg/wizardql/match"
	"github.com/nonibytes/wizardql/pkg/wizardql/query"
	"github.com/nonibytes/wizardql/pkg/wizardql/schema"
	"github.com/nonibytes/wizardql/pkg/wizardql/sqlfilter"
)

type (
	Expression       = query.Expression
	Group            = query.Group
	Condition        = query.Condition
	Operation        = query.Operation
	Value            = query.Value
	Primitive        = query.Primitive
	Kind             = query.Kind
	Token            = query.Token
	Constraints      = query.Constraints
	Restriction      = query.Restriction
	StringifyOptions = query.StringifyOptions
	Notation         = query.Notation
	Summary          = query.Summary
	AggregationValue = query.AggregationValue
	Fragment         = sqlfilter.Fragment
	Dialect          = sqlfilter.Dialect
)

const (
	NotationSymbolic   = query.NotationSymbolic
	NotationLinguistic = query.NotationLinguistic
	NotationFormal     = query.NotationFormal

	DialectSQLite   = sqlfilter.DialectSQLite
	DialectPostgres = sqlfilter.DialectPostgres
)

func Tokenize(text string) []Token { return query.Tokenize(text) }

// Parse turns text into an Expression, validating it against c when c is
// non-nil. Blank text yields a nil Expression.
func Parse(text string, c *Constraints) (Expression, error) { return query.Parse(text, c) }

func ParseTokens(tokens []Token, c *Constraints) (Expression, error) {
	return query.ParseTokens(tokens, c)
}

func Stringify(e Expression, opts StringifyOptions) string { return query.Stringify(e, opts) }

func Summarize(exprs ...Expression) *Summary { return query.Summarize(exprs...) }

func Complement(e Expression) Expression { return query.Complement(e) }

// LoadConstraints reads a JSON, YAML or CUE constraints file.
func LoadConstraints(path string) (*Constraints, error) { return schema.LoadConstraints(path) }

// Match reports whether record satisfies e.
func Match(e Expression, record any) (bool, error) { return match.Match(e, record) }

// ToSQL renders e as a parameterized WHERE clause for d.
func ToSQL(e Expression, d Dialect) (Fragment, error) { return sqlfilter.Compile(e, d) }
