package sysinfo

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"
)

// DefaultGPUCommand is the vendor tool queried for GPU information.
var DefaultGPUCommand = []string{"nvidia-smi"}

// gpuInfo captures the vendor tool's output verbatim. A tool that cannot be
// started yields GPUNotAvailable. A tool that exits non-zero still reports
// whatever it printed.
func gpuInfo(ctx context.Context, command []string, timeout time.Duration, logger *slog.Logger) Fact {
	if len(command) == 0 {
		command = DefaultGPUCommand
	}

	out, err := runCommandFn(ctx, timeout, command[0], command[1:]...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(out) > 0 {
			logger.Debug("gpu command exited with error", "command", command[0], "error", err)
			return Found(string(out))
		}
		logger.Debug("gpu command unavailable", "command", command[0], "error", err)
		return Absent(GPUNotAvailable)
	}
	return Found(string(out))
}
