// Package version decides whether an installed package version satisfies a
// single requirement specifier such as ">=1.2.0" or "==2.*".
//
// Two comparison paths exist. Specifiers containing a "*" component are
// matched positionally, component by component, using plain string equality.
// All other specifiers are evaluated with PEP 440 ordering, which covers
// pre, post and dev releases as well as epochs.
package version

import (
	"errors"
	"fmt"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// ErrInvalidVersion is returned when an installed version or a specifier
// cannot be parsed for semantic comparison.
var ErrInvalidVersion = errors.New("invalid version")

// Outcome is the result of checking one requirement.
type Outcome int

const (
	// Unknown means the comparison could not be made.
	Unknown Outcome = iota
	// Satisfied means the installed version meets the requirement.
	Satisfied
	// Unsatisfied means the installed version does not meet the requirement.
	Unsatisfied
)

// String returns a lowercase name for the outcome.
func (o Outcome) String() string {
	switch o {
	case Satisfied:
		return "satisfied"
	case Unsatisfied:
		return "unsatisfied"
	default:
		return "unknown"
	}
}

// operators lists the requirement operators accepted on the semantic path.
var operators = map[string]bool{
	"==": true,
	"!=": true,
	"<":  true,
	"<=": true,
	">":  true,
	">=": true,
	"~=": true,
}

// StripLocal removes a trailing local build segment such as "+cu118".
//
// Example: StripLocal("2.1.0+cu118") returns "2.1.0"
func StripLocal(v string) string {
	if i := strings.IndexByte(v, '+'); i >= 0 {
		return v[:i]
	}
	return v
}

// IsWildcard reports whether any dot-separated component of v is "*".
func IsWildcard(v string) bool {
	for _, part := range strings.Split(StripLocal(v), ".") {
		if part == "*" {
			return true
		}
	}
	return false
}

// MatchWildcard compares installed against a wildcard pattern such as "2.*.1".
//
// Components are compared positionally as strings. A "*" in the pattern
// matches any installed component at the same index, and installed components
// beyond the pattern's length are ignored.
//
// Example: MatchWildcard("2.5.1", "2.*.1") returns true,
// MatchWildcard("3.5.1", "2.*.1") returns false.
func MatchWildcard(installed, pattern string) bool {
	want := strings.Split(StripLocal(pattern), ".")
	have := strings.Split(installed, ".")
	for i := 0; i < len(want) && i < len(have); i++ {
		if want[i] != "*" && want[i] != have[i] {
			return false
		}
	}
	return true
}

// Satisfies reports whether installed meets the requirement "operator specifier".
//
// Parameters:
//   - installed: the installed version string, e.g. "1.3.0"
//   - operator: one of ==, !=, <, <=, >, >=, ~=
//   - specifier: the required version, possibly with a "+local" segment or "*" components
//
// Returns:
//   - true when the requirement holds
//   - an error wrapping ErrInvalidVersion if either side cannot be parsed
func Satisfies(installed, operator, specifier string) (bool, error) {
	if IsWildcard(specifier) {
		ok := MatchWildcard(installed, specifier)
		if operator == "!=" {
			return !ok, nil
		}
		return ok, nil
	}

	if !operators[operator] {
		return false, fmt.Errorf("%w: unsupported operator %q", ErrInvalidVersion, operator)
	}

	// Prereleases are compared by plain ordering, so "2.1.0rc1" meets ">=2.0.0".
	specs, err := pep440.NewSpecifiers(operator+StripLocal(specifier), pep440.WithPreRelease(true))
	if err != nil {
		return false, fmt.Errorf("%w: specifier %s%s: %v", ErrInvalidVersion, operator, specifier, err)
	}

	v, err := pep440.Parse(StripLocal(installed))
	if err != nil {
		return false, fmt.Errorf("%w: installed %q: %v", ErrInvalidVersion, installed, err)
	}

	return specs.Check(v), nil
}

// Evaluate is Satisfies folded into an Outcome. Parse failures become Unknown.
func Evaluate(installed, operator, specifier string) Outcome {
	ok, err := Satisfies(installed, operator, specifier)
	switch {
	case err != nil:
		return Unknown
	case ok:
		return Satisfied
	default:
		return Unsatisfied
	}
}
