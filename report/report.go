// Package report renders a diagnostics run twice: as a plain support log and
// as a color-coded console summary.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"envdiag/manifest"
	"envdiag/pyenv"
	"envdiag/sysinfo"
	"envdiag/version"
)

// specifierWidth is the column width of the required version.
const specifierWidth = 12

// legend explains specifier syntax. Only single operator/version pairs are
// evaluated; the markers and combinators are listed for reference.
const legend = `== Exact version              != Any version except          < Less than
<= Less than or equal to      >  Greater than                >= Greater than or equal to
~ Compatible release          ;  Environment marker          AND Logical AND
OR Logical OR`

// Report is everything one run collected.
type Report struct {
	System *sysinfo.SystemInfo

	// PythonVersion is the interpreter version, e.g. "3.11.5"
	PythonVersion string

	// FrameworkLabel names the headline package in output, e.g. "Torch"
	FrameworkLabel string

	// FrameworkVersion is its installed version or pyenv.NotInstalled
	FrameworkVersion string

	// Comparison holds the checked requirements. It is nil when no
	// manifest was compared, which omits the section entirely.
	Comparison []manifest.Entry

	// Packages is the full inventory
	Packages pyenv.Inventory

	// LogFile is the path of the support log, named in the closing lines
	LogFile string
}

// Writer sends a Report to the support log and the console.
type Writer struct {
	Log    *slog.Logger
	Out    io.Writer
	Styles Styles
}

// NewWriter returns a Writer. noColor disables console styling.
func NewWriter(log *slog.Logger, out io.Writer, noColor bool) *Writer {
	return &Writer{Log: log, Out: out, Styles: NewStyles(out, noColor)}
}

// ManifestMissing records that the chosen manifest does not exist.
func (w *Writer) ManifestMissing(name string) {
	fmt.Fprintf(w.Out, "\n%s not found. Skipping version checks.\n", name)
	w.Log.Info(fmt.Sprintf("NOTE %s not found. Skipping version checks.", name))
}

// NoManifests records that no manifest matched the discovery pattern.
func (w *Writer) NoManifests() {
	fmt.Fprintln(w.Out, w.Styles.Error.Render("No requirements files found."))
}

// Write emits r to both destinations.
func (w *Writer) Write(r *Report) {
	w.WriteLog(r)
	w.Print(r)
}

// WriteLog writes r to the support log.
func (w *Writer) WriteLog(r *Report) {
	s := r.System
	w.Log.Info("OS Version: " + s.OS.Value)
	w.Log.Info("Note: " + sysinfo.OSNote)
	w.Log.Info("Python Version: " + r.PythonVersion)
	w.Log.Info(r.FrameworkLabel + " Version: " + r.FrameworkVersion)
	w.Log.Info("Platform: " + s.Platform.Value)
	w.Log.Info("CPU: " + s.CPU.Value)
	w.Log.Info("System RAM: " + s.Memory.Value)
	w.Log.Info(s.EnvName + ": " + s.Env.Value)
	w.Log.Info("Port Status: " + s.Port.Value)

	if len(r.Comparison) > 0 {
		w.Log.Info("Package Versions:")
		width := nameWidth(r.Comparison)
		for _, e := range r.Comparison {
			w.Log.Info(fmt.Sprintf("%s  Required: %s %s  Installed: %s",
				padRight(e.Name, width), e.Operator, padRight(e.Specifier, specifierWidth), e.Installed))
		}
	}

	w.Log.Info("GPU Information:\n" + s.GPU.Value)
	w.Log.Info("Package Versions:")
	for _, name := range r.Packages.Names() {
		w.Log.Info(fmt.Sprintf("%s>= %s", name, r.Packages[name]))
	}
}

// Print writes the color-coded summary to the console.
func (w *Writer) Print(r *Report) {
	s := r.System
	fmt.Fprintln(w.Out)
	w.field("OS Version", s.OS.Value)
	w.field("OS Ver note", sysinfo.OSNote)
	w.field("Platform", s.Platform.Value)
	w.field("CPU", s.CPU.Value)
	w.field(s.EnvName, s.Env.Value)
	w.field("System RAM", s.Memory.Value)
	w.field("Port Status", s.Port.Value)
	w.field(r.FrameworkLabel+" Version", r.FrameworkVersion)
	w.field("Python Version", r.PythonVersion)

	if len(r.Comparison) > 0 {
		fmt.Fprintf(w.Out, "\n%s\n", w.Styles.Label.Render("Requirements file package comparison:"))
		width := nameWidth(r.Comparison)
		for _, e := range r.Comparison {
			style := w.outcomeStyle(e.Outcome())
			fmt.Fprintf(w.Out, "%s  Required: %s  Installed: %s\n",
				padRight(e.Name, width),
				style.Render(e.Operator+" "+padRight(e.Specifier, specifierWidth)),
				style.Render(e.Installed))
		}
		fmt.Fprintf(w.Out, "\n%s\n", w.Styles.Label.Render("Requirements file specifier meanings:"))
		fmt.Fprintln(w.Out, legend)
	}

	fmt.Fprintln(w.Out)
	fmt.Fprintf(w.Out, "GPU Information:%s\n", gpuBlock(s.GPU))
	w.field("Diagnostic log created", r.LogFile)
	fmt.Fprintln(w.Out, w.Styles.Label.Render("Please upload the log file with any support ticket."))
}

func (w *Writer) field(label, value string) {
	fmt.Fprintf(w.Out, "%s %s\n", w.Styles.Label.Render(label+":"), w.Styles.Value.Render(value))
}

func (w *Writer) outcomeStyle(o version.Outcome) lipgloss.Style {
	switch o {
	case version.Satisfied:
		return w.Styles.Success
	case version.Unsatisfied:
		return w.Styles.Error
	default:
		return w.Styles.Warning
	}
}

// gpuBlock puts multi-line tool output on its own lines and keeps a short
// placeholder on the label's line.
func gpuBlock(f sysinfo.Fact) string {
	if strings.Contains(f.Value, "\n") {
		return "\n" + f.Value
	}
	return " " + f.Value
}

func nameWidth(entries []manifest.Entry) int {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return maxWidth(names)
}
