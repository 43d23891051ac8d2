package app

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentstation/gaiacmd/cmd/gaiacmd/cmd/isochrones"
	"github.com/agentstation/gaiacmd/cmd/gaiacmd/cmd/plot"
	"github.com/agentstation/gaiacmd/cmd/gaiacmd/cmd/resolve"
	"github.com/agentstation/gaiacmd/cmd/gaiacmd/cmd/stars"
	"github.com/agentstation/gaiacmd/cmd/gaiacmd/cmd/version"
	"github.com/agentstation/gaiacmd/internal/cmd/output"
	"github.com/agentstation/gaiacmd/pkg/logging"
)

// Execute runs the gaiacmd CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "gaiacmd",
		Short:   "Gaia color-magnitude diagrams",
		Version: a.version,
		Long: `gaiacmd queries the Gaia archive for stars around an object or position,
keeps those with valid BP, G and RP photometry and draws a color-magnitude
diagram, optionally with a nearest-match MIST or PARSEC isochrone.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	// Add global flags
	// Flag values are applied to the config in setupCommand, so that unset
	// flags leave environment and config file values alone.
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.gaiacmd.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml, wide")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("gaiacmd {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It applies the parsed
// flags, rebuilds the logger and tags the run with a request ID.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// These flags are defined as persistent flags in createRootCommand, so errors indicate programming errors
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	if cmd.Flags().Changed("config") {
		config, err := LoadConfigFile(mustGetString(cmd, "config"))
		if err != nil {
			return err
		}
		a.config = config
	}
	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger

	ctx := logging.WithLogger(cmd.Context(), a.logger)
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	cmd.SetContext(ctx)

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(resolve.NewCommand(a))
	rootCmd.AddCommand(stars.NewCommand(a))
	rootCmd.AddCommand(isochrones.NewCommand(a))
	rootCmd.AddCommand(plot.NewCommand(a))

	rootCmd.AddCommand(version.NewCommand(a))
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
