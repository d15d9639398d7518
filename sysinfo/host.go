package sysinfo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Probe backends, replaced in tests.
var (
	hostInfoFn      = host.InfoWithContext
	cpuInfoFn       = cpu.InfoWithContext
	cpuCountsFn     = cpu.CountsWithContext
	virtualMemoryFn = mem.VirtualMemoryWithContext
	lookupEnvFn     = os.LookupEnv
)

// platformInfo describes the distribution or edition, e.g.
// "ubuntu 22.04 (x86_64)".
func platformInfo(ctx context.Context, logger *slog.Logger) Fact {
	h, err := hostInfoFn(ctx)
	if err != nil || h == nil {
		logger.Debug("host info unavailable", "error", err)
		return Absent(NotAvailable)
	}
	parts := make([]string, 0, 2)
	for _, p := range []string{h.Platform, h.PlatformVersion} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return Absent(NotAvailable)
	}
	platform := strings.Join(parts, " ")
	if h.KernelArch != "" {
		platform += " (" + h.KernelArch + ")"
	}
	return Found(platform)
}

// cpuInfo reports the first processor's model and the logical core count.
func cpuInfo(ctx context.Context, logger *slog.Logger) Fact {
	stats, err := cpuInfoFn(ctx)
	if err != nil || len(stats) == 0 {
		logger.Debug("cpu info unavailable", "error", err)
		return Absent(NotAvailable)
	}
	model := strings.TrimSpace(stats[0].ModelName)
	if model == "" {
		return Absent(NotAvailable)
	}
	if n, err := cpuCountsFn(ctx, true); err == nil && n > 0 {
		return Found(fmt.Sprintf("%s (%d logical cores)", model, n))
	}
	return Found(model)
}

// memoryInfo reports available and total physical memory.
func memoryInfo(ctx context.Context, logger *slog.Logger) Fact {
	vm, err := virtualMemoryFn(ctx)
	if err != nil || vm == nil {
		logger.Debug("memory info unavailable", "error", err)
		return Absent(NotAvailable)
	}
	return Found(fmt.Sprintf("%s available out of %s total", FormatGB(vm.Available), FormatGB(vm.Total)))
}

// envValue returns the value of the named variable. Unset or empty names
// yield NotAvailable.
func envValue(name string) Fact {
	if name == "" {
		return Absent(NotAvailable)
	}
	if v, ok := lookupEnvFn(name); ok {
		return Found(v)
	}
	return Absent(NotAvailable)
}
