package wizardql

import (
	"github.com/nonibytes/wizardql/pkg/wizardql/query"
	"github.com/nonibytes/wizardql/pkg/wizardql/sqlfilter"
)

type Error = query.Error
type ErrorKind = query.ErrorKind

const (
	ErrSyntax     = query.ErrSyntax
	ErrConstraint = query.ErrConstraint
)

// ErrUnknownField is returned by the SQL compiler for fields outside its
// column map.
var ErrUnknownField = sqlfilter.ErrUnknownField

func AsError(err error) (*Error, bool)      { return query.AsError(err) }
func IsKind(err error, kind ErrorKind) bool { return query.IsKind(err, kind) }
func IsSyntaxError(err error) bool          { return query.IsSyntax(err) }
func IsConstraintError(err error) bool      { return query.IsConstraint(err) }
