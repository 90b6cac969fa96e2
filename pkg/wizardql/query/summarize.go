package query

import (
	"bytes"
	"encoding/json"
)

// AggregationValue is one comparison applied to a field.
type AggregationValue struct {
	Operation    Operation `json:"operation"`
	Value        Value     `json:"value"`
	Exclusionary bool      `json:"exclusionary"`
}

// Summary maps fields to the comparisons applied to them, in the order the
// fields were first seen.
type Summary struct {
	fields []string
	values map[string][]AggregationValue
}

// Summarize folds the conditions of every expression into a Summary,
// depth-first and left to right.
func Summarize(exprs ...Expression) *Summary {
	s := &Summary{values: map[string][]AggregationValue{}}
	for _, e := range exprs {
		Walk(e, s.add)
	}
	return s
}

func (s *Summary) add(c Condition) {
	if _, seen := s.values[c.Field]; !seen {
		s.fields = append(s.fields, c.Field)
	}
	s.values[c.Field] = append(s.values[c.Field], AggregationValue{
		Operation:    c.Operation,
		Value:        c.Value,
		Exclusionary: c.Operation.Exclusionary(),
	})
}

// Fields returns the summarized fields in first-seen order.
func (s *Summary) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s *Summary) Values(field string) []AggregationValue {
	return s.values[field]
}

func (s *Summary) Len() int { return len(s.fields) }

func (s *Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		vals, err := json.Marshal(s.values[f])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(vals)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
