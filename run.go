package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"envdiag/config"
	"envdiag/logging"
	"envdiag/manifest"
	"envdiag/pyenv"
	"envdiag/report"
	"envdiag/sysinfo"
)

// app runs one diagnostics pass: probe, inventory, manifest comparison,
// report. The function fields are the external boundaries.
type app struct {
	cfg    *config.Config
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// dir is where manifests are discovered
	dir string

	interactive bool
	detect      func(ctx context.Context, hint string) (*pyenv.Interpreter, error)
	collect     func(ctx context.Context, opts sysinfo.Options) *sysinfo.SystemInfo
	source      func(py *pyenv.Interpreter, logger *slog.Logger) pyenv.Source
	writer      func(log *slog.Logger, out io.Writer, noColor bool) *report.Writer
}

func newApp(cfg *config.Config, in io.Reader, out, errOut io.Writer) *app {
	return &app{
		cfg:         cfg,
		in:          in,
		out:         out,
		errOut:      errOut,
		dir:         ".",
		interactive: isTerminal(in),
		detect:      pyenv.Detect,
		collect:     sysinfo.Collect,
		source:      packageSource(cfg.Source),
		writer:      report.NewWriter,
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// packageSource selects the inventory backend named in the config.
func packageSource(name string) func(*pyenv.Interpreter, *slog.Logger) pyenv.Source {
	if name == config.SourcePip {
		return func(py *pyenv.Interpreter, logger *slog.Logger) pyenv.Source {
			return pyenv.PipSource{Python: py.Path, Logger: logger}
		}
	}
	return func(py *pyenv.Interpreter, logger *slog.Logger) pyenv.Source {
		return pyenv.DistInfoSource{SysPath: py.SysPath, Logger: logger}
	}
}

func (a *app) run(ctx context.Context) error {
	logger := logging.New(logging.Config{Debug: a.cfg.Debug, Output: a.errOut})
	styles := report.NewStyles(a.out, a.cfg.NoColor)

	py, err := a.detect(ctx, a.cfg.Python)
	if err != nil {
		logger.Debug("interpreter detection failed", "error", err)
		fmt.Fprintf(a.out, "%s\n\n", styles.Error.Render(fmt.Sprintf("Error locating the Python environment: %v", err)))
		fmt.Fprintln(a.out, styles.Label.Render("Please ensure you started the Text-generation-webUI Python environment with either"))
		fmt.Fprintf(a.out, "%s, %s, %s, or %s\n",
			styles.Value.Render("cmd_linux.sh"), styles.Value.Render("cmd_windows.bat"),
			styles.Value.Render("cmd_macos.sh"), styles.Value.Render("cmd_wsl.bat"))
		fmt.Fprintln(a.out, styles.Label.Render("and then try running the diagnostics again."))
		return errStartup
	}
	logger.Debug("python interpreter", "path", py.Path, "version", py.Version)

	logFile, err := logging.CreateFile(a.cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	w := a.writer(slog.New(logging.NewLineHandler(logFile)), a.out, a.cfg.NoColor)

	info := a.collect(ctx, sysinfo.Options{
		EnvVar:     a.cfg.EnvVar,
		Port:       a.cfg.Port,
		GPUCommand: a.cfg.GPUCommand,
		GPUTimeout: a.cfg.GPUTimeout,
		Logger:     logger,
	})

	inv, err := a.source(py, logger).Packages(ctx)
	if err != nil {
		return fmt.Errorf("reading installed packages: %w", err)
	}

	comparison, err := a.compare(inv, w)
	if err != nil {
		return err
	}

	w.Write(&report.Report{
		System:           info,
		PythonVersion:    py.Version,
		FrameworkLabel:   label(a.cfg.FrameworkPackage),
		FrameworkVersion: inv.Lookup(a.cfg.FrameworkPackage),
		Comparison:       comparison,
		Packages:         inv,
		LogFile:          a.cfg.LogFile,
	})
	return nil
}

// compare picks a manifest and checks it against inv. A nil result means the
// comparison was skipped.
func (a *app) compare(inv pyenv.Inventory, w *report.Writer) ([]manifest.Entry, error) {
	name := a.cfg.Requirements
	if name == "" {
		files, err := manifest.Discover(a.dir, a.cfg.RequirementsGlob)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			w.NoManifests()
			return nil, nil
		}
		name = a.cfg.DefaultManifest
		if a.interactive {
			name = manifest.Select(a.in, a.out, files, a.cfg.DefaultManifest)
		}
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.dir, name)
	}
	reqs, err := manifest.ParseFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		w.ManifestMissing(name)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return manifest.Compare(reqs, inv), nil
}

// label turns a distribution name into a display label: "torch" -> "Torch".
func label(pkg string) string {
	if pkg == "" {
		return pkg
	}
	return strings.ToUpper(pkg[:1]) + pkg[1:]
}
