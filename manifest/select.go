package manifest

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultFile is used when the user makes no valid choice.
const DefaultFile = "requirements.txt"

// DefaultPattern matches the manifests offered for selection.
const DefaultPattern = "requirements*.txt"

// Discover returns the files in dir matching pattern, sorted by name.
func Discover(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", pattern, err)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Base(m))
	}
	sort.Strings(files)
	return files, nil
}

// Select lists files on out, numbered from 1, and reads the user's choice from
// in. Empty, non-numeric or out-of-range input selects fallback. The read has
// no timeout.
func Select(in io.Reader, out io.Writer, files []string, fallback string) string {
	fmt.Fprintf(out, "\nSelect a requirements file to check against (or press Enter for default '%s'):\n\n", fallback)
	for i, f := range files {
		fmt.Fprintf(out, "%d. %s\n", i+1, f)
	}
	fmt.Fprint(out, "\nEnter the number of your choice: ")

	line, _ := bufio.NewReader(in).ReadString('\n')
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(files) {
		return fallback
	}
	return files[n-1]
}
