package report

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"envdiag/logging"
	"envdiag/manifest"
	"envdiag/pyenv"
	"envdiag/sysinfo"
)

func sampleReport() *Report {
	return &Report{
		System: &sysinfo.SystemInfo{
			OS:       sysinfo.Found("Linux #1 SMP PREEMPT_DYNAMIC"),
			Platform: sysinfo.Found("ubuntu 22.04 (x86_64)"),
			CPU:      sysinfo.Absent(sysinfo.NotAvailable),
			Memory:   sysinfo.Found("12.00 GB available out of 31.26 GB total"),
			EnvName:  "CUDA_HOME",
			Env:      sysinfo.Absent(sysinfo.NotAvailable),
			GPU:      sysinfo.Absent(sysinfo.GPUNotAvailable),
			Port:     sysinfo.Found("Port 7851 is available."),
		},
		PythonVersion:    "3.11.5",
		FrameworkLabel:   "Torch",
		FrameworkVersion: "2.1.0+cu118",
		Packages:         pyenv.Inventory{"torch": "2.1.0+cu118", "numpy": "1.26.4", "Jinja2": "3.1.2"},
		LogFile:          "diagnostics.log",
	}
}

func newTestWriter() (*Writer, *bytes.Buffer, *bytes.Buffer) {
	var logBuf, outBuf bytes.Buffer
	w := NewWriter(slog.New(logging.NewLineHandler(&logBuf)), &outBuf, true)
	return w, &logBuf, &outBuf
}

func TestWriteWithoutComparison(t *testing.T) {
	w, logBuf, outBuf := newTestWriter()
	w.Write(sampleReport())

	lines := strings.Split(strings.TrimSuffix(logBuf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"OS Version: Linux #1 SMP PREEMPT_DYNAMIC",
		"Note: Windows 11 build is 10.x.22xxx",
		"Python Version: 3.11.5",
		"Torch Version: 2.1.0+cu118",
		"Platform: ubuntu 22.04 (x86_64)",
		"CPU: N/A",
		"System RAM: 12.00 GB available out of 31.26 GB total",
		"CUDA_HOME: N/A",
		"Port Status: Port 7851 is available.",
		"GPU Information:",
		"NVIDIA GPU information not available",
		"Package Versions:",
		"Jinja2>= 3.1.2",
		"numpy>= 1.26.4",
		"torch>= 2.1.0+cu118",
	}, lines)

	out := outBuf.String()
	assert.Contains(t, out, "OS Version: Linux #1 SMP PREEMPT_DYNAMIC")
	assert.Contains(t, out, "CUDA_HOME: N/A")
	assert.Contains(t, out, "GPU Information: NVIDIA GPU information not available")
	assert.Contains(t, out, "Diagnostic log created: diagnostics.log")
	assert.NotContains(t, out, "Requirements file package comparison")
	assert.NotContains(t, out, "specifier meanings")
}

func TestWriteWithComparison(t *testing.T) {
	r := sampleReport()
	r.Comparison = []manifest.Entry{
		{Requirement: manifest.Requirement{Name: "torch", Operator: "==", Specifier: "2.1.0+cu118"}, Installed: "2.1.0+cu118"},
		{Requirement: manifest.Requirement{Name: "numpy", Operator: ">=", Specifier: "2.0.0"}, Installed: "1.26.4"},
	}

	w, logBuf, outBuf := newTestWriter()
	w.Write(r)

	log := logBuf.String()
	assert.Contains(t, log, "torch  Required: == 2.1.0+cu118   Installed: 2.1.0+cu118\n")
	assert.Contains(t, log, "numpy  Required: >= 2.0.0         Installed: 1.26.4\n")
	assert.Less(t, strings.Index(log, "Port Status"), strings.Index(log, "torch  Required"))
	assert.Less(t, strings.Index(log, "torch  Required"), strings.Index(log, "GPU Information"))

	out := outBuf.String()
	assert.Contains(t, out, "Requirements file package comparison:")
	assert.Contains(t, out, "Installed: 1.26.4")
	assert.Contains(t, out, "AND Logical AND")
}

func TestManifestMissing(t *testing.T) {
	w, logBuf, outBuf := newTestWriter()
	w.ManifestMissing("requirements.txt")

	assert.Equal(t, "NOTE requirements.txt not found. Skipping version checks.\n", logBuf.String())
	assert.Contains(t, outBuf.String(), "requirements.txt not found. Skipping version checks.")
}

func TestMultiLineGPUOutput(t *testing.T) {
	r := sampleReport()
	r.System.GPU = sysinfo.Found("+----+\n| GPU |\n+----+\n")

	w, _, outBuf := newTestWriter()
	w.Print(r)
	assert.Contains(t, outBuf.String(), "GPU Information:\n+----+\n| GPU |")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "Hi   ", padRight("Hi", 5))
	assert.Equal(t, "HelloWorld", padRight("HelloWorld", 5))
	assert.Equal(t, "日本 ", padRight("日本", 5))
	assert.Equal(t, 4, maxWidth([]string{"a", "日本", "abc"}))
}
