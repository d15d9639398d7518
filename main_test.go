package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envdiag/config"
	"envdiag/pyenv"
	"envdiag/report"
	"envdiag/sysinfo"
)

// fixture lays out a fake site-packages directory and a working directory.
type fixture struct {
	dir    string
	site   string
	out    bytes.Buffer
	errOut bytes.Buffer
	cfg    *config.Config
}

func newFixture(t *testing.T, packages map[string]string) *fixture {
	t.Helper()
	f := &fixture{dir: t.TempDir(), site: t.TempDir(), cfg: config.Default()}
	f.cfg.LogFile = filepath.Join(f.dir, "diagnostics.log")
	f.cfg.NoColor = true
	for name, ver := range packages {
		meta := filepath.Join(f.site, name+"-"+ver+".dist-info", "METADATA")
		require.NoError(t, os.MkdirAll(filepath.Dir(meta), 0o755))
		require.NoError(t, os.WriteFile(meta, []byte("Metadata-Version: 2.1\nName: "+name+"\nVersion: "+ver+"\n"), 0o644))
	}
	return f
}

func (f *fixture) writeManifest(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0o644))
}

func (f *fixture) app(input string) *app {
	a := newApp(f.cfg, strings.NewReader(input), &f.out, &f.errOut)
	a.dir = f.dir
	a.detect = func(context.Context, string) (*pyenv.Interpreter, error) {
		return &pyenv.Interpreter{Path: "/env/bin/python", Version: "3.11.5", SysPath: []string{f.site}}, nil
	}
	a.collect = func(_ context.Context, opts sysinfo.Options) *sysinfo.SystemInfo {
		return &sysinfo.SystemInfo{
			OS:       sysinfo.Found("Linux 6.1"),
			Platform: sysinfo.Found("debian 12"),
			CPU:      sysinfo.Found("Test CPU"),
			Memory:   sysinfo.Found("1.00 GB available out of 2.00 GB total"),
			EnvName:  opts.EnvVar,
			Env:      sysinfo.Absent(sysinfo.NotAvailable),
			GPU:      sysinfo.Absent(sysinfo.GPUNotAvailable),
			Port:     sysinfo.Found("Port 7851 is available."),
		}
	}
	return a
}

func (f *fixture) log(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.cfg.LogFile)
	require.NoError(t, err)
	return string(data)
}

func TestRunComparesManifest(t *testing.T) {
	f := newFixture(t, map[string]string{"torch": "2.1.0+cu118", "numpy": "1.1.0", "safetensors": "0.4.2"})
	f.writeManifest(t, "requirements.txt", strings.Join([]string{
		"torch==2.1.0+cu118",
		"numpy>=1.2.0",
		"safetensors==0.4.*",
		"gradio>=4.0",
		"not a requirement line",
	}, "\n"))

	require.NoError(t, f.app("").run(context.Background()))

	log := f.log(t)
	assert.Contains(t, log, "Python Version: 3.11.5\n")
	assert.Contains(t, log, "Torch Version: 2.1.0+cu118\n")
	assert.Contains(t, log, "torch        Required: == 2.1.0+cu118   Installed: 2.1.0+cu118\n")
	assert.Contains(t, log, "numpy        Required: >= 1.2.0         Installed: 1.1.0\n")
	assert.Contains(t, log, "safetensors  Required: == 0.4.*         Installed: 0.4.2\n")
	assert.NotContains(t, log, "gradio")
	assert.NotContains(t, log, "not a requirement")

	out := f.out.String()
	assert.Contains(t, out, "Requirements file package comparison:")
	assert.NotContains(t, out, "gradio")
}

func TestRunMissingManifest(t *testing.T) {
	f := newFixture(t, map[string]string{"torch": "2.1.0"})
	f.cfg.Requirements = "requirements_missing.txt"

	require.NoError(t, f.app("").run(context.Background()))

	log := f.log(t)
	assert.True(t, strings.HasPrefix(log, "NOTE requirements_missing.txt not found. Skipping version checks.\n"))
	assert.Equal(t, 1, strings.Count(log, "Package Versions:"))
	assert.NotContains(t, f.out.String(), "Requirements file package comparison")
	assert.Contains(t, f.out.String(), "requirements_missing.txt not found. Skipping version checks.")
}

func TestRunNoManifestFiles(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.app("").run(context.Background()))
	assert.Contains(t, f.out.String(), "No requirements files found.")
	assert.Contains(t, f.log(t), "Torch Version: Not installed\n")
}

func TestRunInteractiveSelection(t *testing.T) {
	f := newFixture(t, map[string]string{"numpy": "1.26.4"})
	f.writeManifest(t, "requirements.txt", "numpy==1.0.0\n")
	f.writeManifest(t, "requirements_cpu.txt", "numpy==1.26.4\n")

	a := f.app("2\n")
	a.interactive = true
	require.NoError(t, a.run(context.Background()))

	assert.Contains(t, f.out.String(), "2. requirements_cpu.txt")
	assert.Contains(t, f.log(t), "Required: == 1.26.4")
}

func TestRunOverwritesLog(t *testing.T) {
	f := newFixture(t, map[string]string{"numpy": "1.26.4"})
	require.NoError(t, os.WriteFile(f.cfg.LogFile, []byte(strings.Repeat("stale line\n", 500)), 0o644))

	require.NoError(t, f.app("").run(context.Background()))
	first := f.log(t)
	require.NoError(t, f.app("").run(context.Background()))

	assert.NotContains(t, first, "stale line")
	assert.Equal(t, first, f.log(t))
	assert.Equal(t, 1, strings.Count(f.log(t), "OS Version:"))
}

func TestRunInterpreterMissing(t *testing.T) {
	f := newFixture(t, nil)
	a := f.app("")
	a.detect = func(context.Context, string) (*pyenv.Interpreter, error) {
		return nil, pyenv.ErrInterpreterNotFound
	}

	err := a.run(context.Background())
	require.ErrorIs(t, err, errStartup)
	assert.Contains(t, f.out.String(), "cmd_linux.sh, cmd_windows.bat, cmd_macos.sh, or cmd_wsl.bat")
	_, statErr := os.Stat(f.cfg.LogFile)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestApplyFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--port", "7860", "--gpu-command", "rocm-smi,--showproductname"}))

	cfg := config.Default()
	cfg.EnvVar = "ROCM_PATH"
	flags := config.Default()
	flags.Port = 7860
	flags.GPUCommand = []string{"rocm-smi", "--showproductname"}
	flags.EnvVar = "CUDA_HOME"
	applyFlags(cmd, cfg, flags)

	assert.Equal(t, 7860, cfg.Port)
	assert.Equal(t, []string{"rocm-smi", "--showproductname"}, cfg.GPUCommand)
	assert.Equal(t, "ROCM_PATH", cfg.EnvVar)
}

func TestFlagOverridesInvalidConfigValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envdiag.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: conda\nport: 70000\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--source", "pip", "--port", "7860"}))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	flags := config.Default()
	flags.Source = config.SourcePip
	flags.Port = 7860
	applyFlags(cmd, cfg, flags)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.SourcePip, cfg.Source)
	assert.Equal(t, 7860, cfg.Port)
}

func TestRunPostReleaseSatisfied(t *testing.T) {
	f := newFixture(t, map[string]string{"pytz": "2023.3.post1", "torch": "2.3.0.dev20240101+cu121"})
	f.writeManifest(t, "requirements.txt", "pytz>=2023.3\ntorch>=2.0.0\n")

	a := f.app("")
	a.writer = func(log *slog.Logger, out io.Writer, _ bool) *report.Writer {
		return &report.Writer{Log: log, Out: out, Styles: report.ProfileStyles(out, termenv.ANSI)}
	}
	require.NoError(t, a.run(context.Background()))

	log := f.log(t)
	assert.Contains(t, log, "pytz   Required: >= 2023.3        Installed: 2023.3.post1\n")
	assert.Contains(t, log, "torch  Required: >= 2.0.0         Installed: 2.3.0.dev20240101+cu121\n")

	styles := report.ProfileStyles(io.Discard, termenv.ANSI)
	out := f.out.String()
	assert.Contains(t, out, "Installed: "+styles.Success.Render("2023.3.post1"))
	assert.Contains(t, out, "Installed: "+styles.Success.Render("2.3.0.dev20240101+cu121"))
	assert.NotContains(t, out, styles.Warning.Render("2023.3.post1"))
	assert.NotContains(t, out, styles.Error.Render("2023.3.post1"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Torch", label("torch"))
	assert.Equal(t, "", label(""))
}
