//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || windows)

package sysinfo

import (
	"log/slog"
	"runtime"
)

func osVersion(*slog.Logger) Fact { return Found(runtime.GOOS) }

func isServer() bool { return false }
