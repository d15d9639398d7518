// Package manifest reads requirements manifests: one requirement per line in
// the form "name[extras] OP version".
//
// Parsing is lenient. Lines that do not look like a requirement (comments,
// pip options, URLs, bare names) are skipped rather than reported.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"envdiag/version"
)

// Requirement is one parsed manifest line.
type Requirement struct {
	// Name is the distribution name as written in the manifest
	Name string

	// Operator is one of ==, !=, <, <=, >, >=, ~=
	Operator string

	// Specifier is the required version, including any "+local" segment
	Specifier string
}

// String renders the requirement the way it is displayed in reports.
func (r Requirement) String() string {
	return r.Operator + " " + r.Specifier
}

// Comparable returns the specifier without its local build segment.
func (r Requirement) Comparable() string {
	return version.StripLocal(r.Specifier)
}

// HasWildcard reports whether the specifier has a "*" component.
func (r Requirement) HasWildcard() bool {
	return version.IsWildcard(r.Specifier)
}

// requirementRegex captures name, operator and the first version of a
// comma-separated specifier list. Extras ("name[cuda]") are matched but dropped.
var requirementRegex = regexp.MustCompile(
	`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:\[[^\]]*\])?\s*(==|!=|<=|>=|~=|<|>)\s*([^,;\s]+)`)

// ParseLine parses a single manifest line. ok is false for lines that are not
// requirements.
func ParseLine(line string) (req Requirement, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
		return Requirement{}, false
	}
	if i := strings.Index(line, " #"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}

	m := requirementRegex.FindStringSubmatch(line)
	if m == nil {
		return Requirement{}, false
	}
	return Requirement{Name: m[1], Operator: m[2], Specifier: m[3]}, true
}

// Parse reads every requirement from r in file order.
func Parse(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if req, ok := ParseLine(scanner.Text()); ok {
			reqs = append(reqs, req)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return reqs, nil
}

// ParseFile opens and parses the manifest at path. A missing file yields an
// error matching fs.ErrNotExist.
func ParseFile(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
