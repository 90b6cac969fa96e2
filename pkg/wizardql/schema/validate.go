package schema

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/nonibytes/wizardql/pkg/wizardql/query"
)

func (s Schema) Validate() error {
	var fold func(string) string
	if s.CaseInsensitive {
		fold = cases.Fold().String
	}
	seen := make(map[string]string, len(s.Fields))
	for _, name := range slices.Sorted(maps.Keys(s.Fields)) {
		spec := s.Fields[name]
		if strings.TrimSpace(name) == "" {
			return newError(name, "field name must not be empty")
		}
		if fold != nil {
			key := fold(name)
			if other, ok := seen[key]; ok {
				return newError(name, "collides with "+other+" under case-insensitive matching")
			}
			seen[key] = name
		}
		if len(spec.Allow) > 0 && len(spec.Deny) > 0 {
			return newError(name, "allow and deny are mutually exclusive")
		}
		if spec.Forbidden && (len(spec.Allow) > 0 || len(spec.Deny) > 0 || len(spec.Type) > 0) {
			return newError(name, "forbidden fields take no other settings")
		}
		for _, t := range spec.Type {
			if _, err := query.ParseKind(string(t)); err != nil {
				return &Error{Field: name, Msg: "invalid type", Cause: err}
			}
		}
		for _, p := range append(slices.Clone(spec.Allow), spec.Deny...) {
			if _, err := compilePattern(p); err != nil {
				return &Error{Field: name, Msg: "invalid pattern " + p, Cause: err}
			}
		}
	}
	return nil
}

// compilePattern turns /expr/ into a regular expression pattern and anything
// else into a literal one.
func compilePattern(p string) (query.Pattern, error) {
	if len(p) >= 2 && strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/") {
		re, err := regexp.Compile(p[1 : len(p)-1])
		if err != nil {
			return query.Pattern{}, err
		}
		return query.RegexpPattern(re), nil
	}
	return query.LiteralPattern(p), nil
}
