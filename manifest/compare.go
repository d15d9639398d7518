package manifest

import "envdiag/version"

// Entry pairs a requirement with the version currently installed.
type Entry struct {
	Requirement
	Installed string
}

// Outcome evaluates the entry. See version.Evaluate.
func (e Entry) Outcome() version.Outcome {
	return version.Evaluate(e.Installed, e.Operator, e.Specifier)
}

// Inventory resolves a package name to its installed version.
type Inventory interface {
	Version(name string) (string, bool)
}

// Compare keeps the requirements whose package is installed and attaches the
// installed version. Packages that are not installed are left out entirely.
// When a name repeats, the later line wins but the first position is kept.
func Compare(reqs []Requirement, inv Inventory) []Entry {
	var entries []Entry
	index := make(map[string]int)
	for _, req := range reqs {
		installed, ok := inv.Version(req.Name)
		if !ok {
			continue
		}
		entry := Entry{Requirement: req, Installed: installed}
		if i, seen := index[req.Name]; seen {
			entries[i] = entry
			continue
		}
		index[req.Name] = len(entries)
		entries = append(entries, entry)
	}
	return entries
}
