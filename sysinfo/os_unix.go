//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package sysinfo

import (
	"log/slog"
	"strings"

	"golang.org/x/sys/unix"
)

// osVersion reports "<sysname> <version>" from uname(2), e.g.
// "Linux #1 SMP PREEMPT_DYNAMIC Debian 6.1.76-1".
func osVersion(logger *slog.Logger) Fact {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		logger.Debug("uname failed", "error", err)
		return Absent(NotAvailable)
	}
	sysname := unix.ByteSliceToString(u.Sysname[:])
	version := unix.ByteSliceToString(u.Version[:])
	return Found(strings.TrimSpace(sysname + " " + version))
}

func isServer() bool { return false }
