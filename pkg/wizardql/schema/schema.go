// Package schema loads field constraints from JSON, YAML or CUE files and
// compiles them into query.Constraints.
package schema

type FieldType string

const (
	FieldBoolean FieldType = "boolean"
	FieldDate    FieldType = "date"
	FieldNumber  FieldType = "number"
	FieldString  FieldType = "string"
)

// FieldSpec declares the types and value restrictions of one field. Patterns
// written as /expr/ are regular expressions, anything else matches literally.
type FieldSpec struct {
	Type      []FieldType `wizardql:"type"`
	Allow     []string    `wizardql:"allow"`
	Deny      []string    `wizardql:"deny"`
	Forbidden bool        `wizardql:"forbidden"`
}

type Schema struct {
	Fields map[string]FieldSpec `wizardql:"fields"`

	CaseInsensitive     bool `wizardql:"case_insensitive"`
	DisallowUnvalidated bool `wizardql:"disallow_unvalidated"`
	InterpretDates      bool `wizardql:"interpret_dates"`
}
