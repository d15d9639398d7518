// Package sysinfo gathers the local system facts shown in a diagnostics
// report: operating system, memory, processor, a named environment variable,
// vendor GPU tool output and the state of one TCP port.
//
// No probe can fail a run. Each one yields a Fact that is either present or
// carries the placeholder text shown in its place.
package sysinfo

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Placeholders used for absent facts.
const (
	NotAvailable    = "N/A"
	GPUNotAvailable = "NVIDIA GPU information not available"
)

// OSNote is printed under the OS version to help users read Windows builds.
const OSNote = "Windows 11 build is 10.x.22xxx"

// Fact is the result of one probe.
type Fact struct {
	// Value is the probed value, or the placeholder when Present is false
	Value string

	// Present reports whether the probe produced a real value
	Present bool
}

// Found returns a present fact.
func Found(v string) Fact { return Fact{Value: v, Present: true} }

// Absent returns a fact that only carries its placeholder.
func Absent(placeholder string) Fact { return Fact{Value: placeholder} }

// String returns Value.
func (f Fact) String() string { return f.Value }

// SystemInfo is a point-in-time snapshot of the probed facts.
type SystemInfo struct {
	// OS is the system name and version, e.g. "Linux #1 SMP PREEMPT_DYNAMIC ..."
	OS Fact

	// IsServer indicates a Windows Server edition
	IsServer bool

	// Platform is the distribution or edition with its version and architecture
	Platform Fact

	// CPU is the processor model and logical core count
	CPU Fact

	// Memory shows available/total RAM
	Memory Fact

	// EnvName is the environment variable that was read
	EnvName string

	// Env is the value of EnvName
	Env Fact

	// GPU is the raw output of the vendor diagnostic command
	GPU Fact

	// Port is the status line of the checked port
	Port Fact
}

// Options configures Collect.
type Options struct {
	// EnvVar is the environment variable to report, e.g. "CUDA_HOME"
	EnvVar string

	// Port is the TCP port to check
	Port int

	// GPUCommand is the vendor tool and its arguments, e.g. ["nvidia-smi"]
	GPUCommand []string

	// GPUTimeout bounds the GPU command. Zero means no limit.
	GPUTimeout time.Duration

	Logger *slog.Logger
}

// Collect runs every probe in sequence and returns the snapshot.
func Collect(ctx context.Context, opts Options) *SystemInfo {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	info := &SystemInfo{EnvName: opts.EnvVar}
	info.OS = osVersion(logger)
	info.IsServer = isServer()
	info.Platform = platformInfo(ctx, logger)
	if info.IsServer && info.Platform.Present {
		info.Platform.Value += " [Server edition]"
	}
	info.CPU = cpuInfo(ctx, logger)
	info.Memory = memoryInfo(ctx, logger)
	info.Env = envValue(opts.EnvVar)
	info.GPU = gpuInfo(ctx, opts.GPUCommand, opts.GPUTimeout, logger)
	info.Port = portStatus(ctx, opts.Port, logger)
	return info
}
