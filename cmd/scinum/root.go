package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
)

const (
	exitOK    = 0
	exitError = 1
	exitInput = 2
)

// run executes the CLI and returns the process exit status: 2 for invalid
// input or violated numerical preconditions, 1 for any other failure.
func run(args []string, out, errOut io.Writer) int {
	cxt := &Context{Viper: viper.New(), Output: out, ErrOutput: errOut}
	root := NewRootCmd(cxt)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := errors.SafeExecute("scinum", root.Execute)
	if err == nil {
		return exitOK
	}
	log.GetLoggerWithName("scinum").Debug("command failed", err)
	fmt.Fprintf(errOut, "Error: %v\n", err)
	if errors.IsInputError(err) {
		return exitInput
	}
	return exitError
}

// NewRootCmd builds the scinum command tree.
func NewRootCmd(cxt *Context) *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "scinum",
		Short: "Numerical methods: interpolation, differentiation, integration, linear systems, ODEs and roots",
		Long: `scinum evaluates classic numerical methods and prints the result with a
trace of intermediate tables, steps and diagnostics.

Defaults are read from $HOME/.scinum.yaml (or --config) and SCINUM_*
environment variables; flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cxt.initConfig(cfgFile); err != nil {
				return err
			}
			return cxt.initLogging()
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.NewValidationError("flags", err.Error(), c.CommandPath())
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.scinum.yaml)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-backend", "slog", "log backend: slog or zerolog")
	flags.String("format", "json", "output format: json or yaml")
	flags.String("input", "", "YAML file with command parameters; flags override its values")
	flags.String("plot", "", "write a chart of the result to this file (.png, .svg, .pdf)")
	bindGlobalFlags(cxt.Viper, flags)

	cmd.AddCommand(
		NewInterpolateCmd(cxt),
		NewDifferentiateCmd(cxt),
		NewIntegrateCmd(cxt),
		NewLinsysCmd(cxt),
		NewODECmd(cxt),
		NewODESystemCmd(cxt),
		NewRootFindCmd(cxt),
		NewDerivativesCmd(cxt),
	)
	return cmd
}

func bindGlobalFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for _, name := range []string{"log-level", "log-backend", "format", "input", "plot"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

func (c *Context) initConfig(cfgFile string) error {
	v := c.Viper
	setSharedDefaults(v)
	v.SetEnvPrefix("SCINUM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".scinum.yaml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil
		}
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.NewValidationError("config", err.Error(), path)
	}
	return nil
}

func (c *Context) initLogging() error {
	level, err := log.ParseLevel(c.Viper.GetString("log-level"))
	if err != nil {
		return errors.NewValidationError("log-level", err.Error(), c.Viper.GetString("log-level"))
	}
	switch backend := c.Viper.GetString("log-backend"); backend {
	case "slog", "":
		log.SetupLoggerWriter(c.ErrOutput, level)
		errors.SetZerologWarnFunc(nil)
		errors.SetWarningHandler(func(w error) {
			log.GetLoggerWithName("warnings").Warn(w.Error())
		})
	case "zerolog":
		p := log.NewZerologProvider(c.ErrOutput, level)
		p.RouteWarnings()
		log.SetProvider(p)
	default:
		return errors.NewValidationError("log-backend", "must be slog or zerolog", backend)
	}
	return nil
}
