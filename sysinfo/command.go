package sysinfo

import (
	"context"
	"os/exec"
	"time"
)

// runCommandFn is the command backend, replaced in tests.
var runCommandFn = runCommand

// runCommand runs name with args and returns raw stdout. A positive timeout
// bounds the run.
func runCommand(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return exec.CommandContext(ctx, name, args...).Output()
}
