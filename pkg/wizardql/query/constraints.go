package query

import (
	"regexp"
	"time"
)

// Policy selects how a restriction's patterns are applied.
type Policy int

const (
	PolicyAllow Policy = iota + 1
	PolicyDeny
)

func (p Policy) String() string {
	switch p {
	case PolicyAllow:
		return "allow"
	case PolicyDeny:
		return "deny"
	default:
		return "none"
	}
}

// Pattern is a literal value or a regular expression.
type Pattern struct {
	Literal string
	Regexp  *regexp.Regexp
}

func LiteralPattern(s string) Pattern { return Pattern{Literal: s} }

func RegexpPattern(re *regexp.Regexp) Pattern { return Pattern{Regexp: re} }

// Match reports whether text matches the pattern.
func (p Pattern) Match(text string) bool {
	if p.Regexp != nil {
		return p.Regexp.MatchString(text)
	}
	return p.Literal == text
}

func (p Pattern) String() string {
	if p.Regexp != nil {
		return "/" + p.Regexp.String() + "/"
	}
	return p.Literal
}

// Restriction limits the values a field accepts. A Restriction with Forbidden
// set rejects the field entirely.
type Restriction struct {
	Forbidden bool
	Policy    Policy
	Patterns  []Pattern
}

// Forbid rejects every use of a field.
func Forbid() Restriction { return Restriction{Forbidden: true} }

// Allow accepts only values matching one of patterns.
func Allow(patterns ...Pattern) Restriction {
	return Restriction{Policy: PolicyAllow, Patterns: patterns}
}

// Deny rejects values matching any of patterns.
func Deny(patterns ...Pattern) Restriction {
	return Restriction{Policy: PolicyDeny, Patterns: patterns}
}

// permits reports whether text passes the restriction.
func (r Restriction) permits(text string) bool {
	matched := false
	for _, p := range r.Patterns {
		if p.Match(text) {
			matched = true
			break
		}
	}
	switch r.Policy {
	case PolicyAllow:
		return matched
	case PolicyDeny:
		return !matched
	}
	return true
}

// Constraints are caller-declared restrictions and types applied while
// parsing. A nil *Constraints applies none.
type Constraints struct {
	Restricted map[string]Restriction
	Types      map[string][]Kind

	CaseInsensitive     bool
	DisallowUnvalidated bool

	// InterpretDates lets undeclared fields coerce text into dates using
	// DateParser, or ParseDate when DateParser is nil. A non-nil DateParser
	// implies InterpretDates.
	InterpretDates bool
	DateParser     func(string) (time.Time, bool)
}

func (c *Constraints) datesEnabled() bool {
	return c != nil && (c.InterpretDates || c.DateParser != nil)
}

func (c *Constraints) parseDate(s string) (time.Time, bool) {
	if c != nil && c.DateParser != nil {
		return c.DateParser(s)
	}
	return ParseDate(s)
}
