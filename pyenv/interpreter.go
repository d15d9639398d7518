// Package pyenv inspects the Python environment the diagnosed application
// runs in: which interpreter it uses, its version, and which distributions
// are installed.
package pyenv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrInterpreterNotFound is returned when no usable Python interpreter exists.
// Without one nothing meaningful can be reported, so callers treat it as fatal.
var ErrInterpreterNotFound = errors.New("python interpreter not found")

// Interpreter describes one Python installation.
type Interpreter struct {
	// Path is the executable that answered the probe
	Path string

	// Version is platform.python_version(), e.g. "3.11.5"
	Version string

	// Prefix is sys.prefix
	Prefix string

	// SysPath is sys.path in import order
	SysPath []string
}

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec. Stderr of a failed command is folded
// into the returned error.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

const probeScript = `import json, platform, sys
print(json.dumps({"version": platform.python_version(), "prefix": sys.prefix, "path": sys.path}))`

// Detector locates an interpreter. The zero value uses os/exec and the
// process environment.
type Detector struct {
	Run      Runner
	LookPath func(string) (string, error)
	Getenv   func(string) string
}

// Detect is Detector{}.Detect.
func Detect(ctx context.Context, hint string) (*Interpreter, error) {
	return Detector{}.Detect(ctx, hint)
}

// Detect tries each candidate in order and returns the first interpreter
// that answers the probe script.
//
// Candidates are:
//   - hint, when non-empty (a path or a command name)
//   - the python executable of $VIRTUAL_ENV, then $CONDA_PREFIX
//   - python3, then python, on PATH
func (d Detector) Detect(ctx context.Context, hint string) (*Interpreter, error) {
	run := d.Run
	if run == nil {
		run = ExecRunner
	}
	lookPath := d.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	getenv := d.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	var lastErr error
	for _, candidate := range d.candidates(hint, getenv) {
		path, err := lookPath(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		out, err := run(ctx, path, "-c", probeScript)
		if err != nil {
			lastErr = err
			continue
		}
		var probe struct {
			Version string   `json:"version"`
			Prefix  string   `json:"prefix"`
			Path    []string `json:"path"`
		}
		if err := json.Unmarshal(out, &probe); err != nil {
			lastErr = fmt.Errorf("decoding probe output of %s: %w", path, err)
			continue
		}
		return &Interpreter{
			Path:    path,
			Version: probe.Version,
			Prefix:  probe.Prefix,
			SysPath: probe.Path,
		}, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterpreterNotFound, lastErr)
	}
	return nil, ErrInterpreterNotFound
}

func (d Detector) candidates(hint string, getenv func(string) string) []string {
	var out []string
	if hint != "" {
		out = append(out, hint)
	}
	for _, env := range []string{"VIRTUAL_ENV", "CONDA_PREFIX"} {
		if prefix := getenv(env); prefix != "" {
			out = append(out, envPython(prefix))
		}
	}
	return append(out, "python3", "python")
}

// envPython returns the interpreter path inside a venv or conda prefix.
func envPython(prefix string) string {
	if runtime.GOOS == "windows" {
		if fileExists(filepath.Join(prefix, "python.exe")) {
			return filepath.Join(prefix, "python.exe")
		}
		return filepath.Join(prefix, "Scripts", "python.exe")
	}
	return filepath.Join(prefix, "bin", "python")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
