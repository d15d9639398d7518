package pyenv

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// NotInstalled is what Lookup returns for a package that is absent.
const NotInstalled = "Not installed"

// Inventory maps distribution names to installed versions. It is a snapshot
// taken once per run and must not be modified after it is built.
type Inventory map[string]string

// Source produces the inventory of an environment.
type Source interface {
	Packages(ctx context.Context) (Inventory, error)
}

var separatorRegex = regexp.MustCompile(`[-_.]+`)

// NormalizeName applies PEP 503 name normalization.
//
// Example: NormalizeName("Flask_SQLAlchemy") returns "flask-sqlalchemy"
func NormalizeName(name string) string {
	return strings.ToLower(separatorRegex.ReplaceAllString(name, "-"))
}

// Version returns the installed version of name. The exact name is tried
// first, then a normalized match.
func (inv Inventory) Version(name string) (string, bool) {
	if v, ok := inv[name]; ok {
		return v, true
	}
	want := NormalizeName(name)
	for n, v := range inv {
		if NormalizeName(n) == want {
			return v, true
		}
	}
	return "", false
}

// Lookup is Version with NotInstalled in place of a missing result.
func (inv Inventory) Lookup(name string) string {
	if v, ok := inv.Version(name); ok {
		return v
	}
	return NotInstalled
}

// Names returns every distribution name, sorted case-insensitively.
func (inv Inventory) Names() []string {
	names := make([]string, 0, len(inv))
	for n := range inv {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}
