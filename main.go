// Package main provides the envdiag command-line tool, which collects local
// system facts and checks the installed Python packages of an application
// environment against its requirements manifest.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"envdiag/config"
)

// errStartup marks failures whose message has already been printed.
var errStartup = errors.New("startup failed")

// main is the entry point for the envdiag application.
// It exits 1 when the Python environment cannot be inspected at all and 0
// after a completed report.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errStartup) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// newRootCmd builds the envdiag command. Flags override values from the
// config file, which override the built-in defaults.
func newRootCmd() *cobra.Command {
	var cfgFile string
	flags := config.Default()

	cmd := &cobra.Command{
		Use:   "envdiag",
		Short: "Collect environment diagnostics for a support ticket",
		Long: `envdiag - environment diagnostics

Reports the operating system, memory, GPU, Python and package versions of the
application environment, compares installed packages against a requirements
file and writes everything to a log file to attach to support tickets.`,
		Version:       "0.1.0",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return newApp(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()).run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultPath+")")
	f.StringVarP(&flags.Requirements, "requirements", "r", "", "requirements file to check (skips the selection prompt)")
	f.StringVar(&flags.LogFile, "log-file", flags.LogFile, "diagnostic log path, overwritten on every run")
	f.IntVar(&flags.Port, "port", flags.Port, "TCP port to check")
	f.StringVar(&flags.EnvVar, "env-var", flags.EnvVar, "environment variable to report")
	f.StringVar(&flags.Python, "python", "", "Python interpreter of the application environment")
	f.StringVar(&flags.Source, "source", flags.Source, "package inventory source: distinfo or pip")
	f.StringSliceVar(&flags.GPUCommand, "gpu-command", flags.GPUCommand, "GPU diagnostic command and arguments")
	f.BoolVar(&flags.NoColor, "no-color", false, "disable colored output")
	f.BoolVar(&flags.Debug, "debug", false, "enable debug logging on stderr")

	return cmd
}

// applyFlags copies explicitly set flags onto cfg.
func applyFlags(cmd *cobra.Command, cfg, flags *config.Config) {
	set := cmd.Flags().Changed
	if set("requirements") {
		cfg.Requirements = flags.Requirements
	}
	if set("log-file") {
		cfg.LogFile = flags.LogFile
	}
	if set("port") {
		cfg.Port = flags.Port
	}
	if set("env-var") {
		cfg.EnvVar = flags.EnvVar
	}
	if set("python") {
		cfg.Python = flags.Python
	}
	if set("source") {
		cfg.Source = flags.Source
	}
	if set("gpu-command") {
		cfg.GPUCommand = flags.GPUCommand
	}
	if set("no-color") {
		cfg.NoColor = flags.NoColor
	}
	if set("debug") {
		cfg.Debug = flags.Debug
	}
}
