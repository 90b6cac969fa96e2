package schema

import "github.com/nonibytes/wizardql/pkg/wizardql/query"

// Compile validates s and converts it into parser constraints.
func (s Schema) Compile() (*query.Constraints, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c := &query.Constraints{
		Restricted:          map[string]query.Restriction{},
		Types:               map[string][]query.Kind{},
		CaseInsensitive:     s.CaseInsensitive,
		DisallowUnvalidated: s.DisallowUnvalidated,
		InterpretDates:      s.InterpretDates,
	}
	for name, spec := range s.Fields {
		if len(spec.Type) > 0 {
			kinds := make([]query.Kind, 0, len(spec.Type))
			for _, t := range spec.Type {
				k, _ := query.ParseKind(string(t))
				kinds = append(kinds, k)
			}
			c.Types[name] = kinds
		}

		switch {
		case spec.Forbidden:
			c.Restricted[name] = query.Forbid()
		case len(spec.Allow) > 0:
			c.Restricted[name] = query.Allow(patterns(spec.Allow)...)
		case len(spec.Deny) > 0:
			c.Restricted[name] = query.Deny(patterns(spec.Deny)...)
		}
	}
	return c, nil
}

func patterns(raw []string) []query.Pattern {
	out := make([]query.Pattern, len(raw))
	for i, p := range raw {
		out[i], _ = compilePattern(p)
	}
	return out
}
