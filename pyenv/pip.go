package pyenv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// PipSource asks pip for the installed distributions. If pip is missing from
// the environment it is installed with ensurepip and the listing retried once.
type PipSource struct {
	Python string
	Run    Runner
	Logger *slog.Logger
}

// Packages runs "python -m pip list --format=json".
func (s PipSource) Packages(ctx context.Context) (Inventory, error) {
	run := s.Run
	if run == nil {
		run = ExecRunner
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	out, err := run(ctx, s.Python, "-m", "pip", "list", "--format=json", "--disable-pip-version-check")
	if err != nil && strings.Contains(err.Error(), "No module named pip") {
		logger.Warn("pip not found, installing with ensurepip", "python", s.Python)
		if _, ierr := run(ctx, s.Python, "-m", "ensurepip", "--upgrade"); ierr != nil {
			return nil, fmt.Errorf("installing pip: %w", ierr)
		}
		out, err = run(ctx, s.Python, "-m", "pip", "list", "--format=json", "--disable-pip-version-check")
	}
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}

	var listed []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(out, &listed); err != nil {
		return nil, fmt.Errorf("decoding pip output: %w", err)
	}

	inv := make(Inventory, len(listed))
	for _, p := range listed {
		inv[p.Name] = p.Version
	}
	return inv, nil
}
