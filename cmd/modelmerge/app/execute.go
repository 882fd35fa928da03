package app

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelmerge/cmd/modelmerge/cmd/analyze"
	"github.com/agentstation/modelmerge/cmd/modelmerge/cmd/completion"
	"github.com/agentstation/modelmerge/cmd/modelmerge/cmd/merge"
	"github.com/agentstation/modelmerge/pkg/grouping"
)

// Execute runs the modelmerge CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "modelmerge",
		Short:   "Reconcile duplicate model catalog records",
		Version: a.version,
		Long: `modelmerge reconciles a catalog of model descriptors harvested from two
sources that spell the same model differently: once with a short id
(veo-3-fast) and once with a vendor-qualified id (google-veo-3-fast).

Records are grouped by base id, optionally analyzed, and each duplicate
pair is merged into one canonical record. Schema fields always come from
the short-id record; the vendor-qualified record contributes its id, its
price, and any field the short-id record lacks or leaves empty.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Flag defaults come from the loaded config so flags only override
	// values that were explicitly given.
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", a.config.ConfigFile, "config file (default is $HOME/.modelmerge.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.StringSliceVar(&a.config.Owners, "owners", a.config.Owners, "owner prefix tokens, in match order (default: built-in list)")
	flags.StringVar(&a.config.Policy, "policy", a.config.Policy,
		fmt.Sprintf("tie-break policy for ambiguous groups: %v", grouping.Policies()))

	rootCmd.SetVersionTemplate("modelmerge {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	if cmd.Flags().Changed("config") {
		if err := a.config.ReadConfigFile(mustGetString(cmd, "config"), cmd.Flags().Changed); err != nil {
			return err
		}
	}

	// Owners may have changed through --owners
	a.resetOwners()

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(analyze.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())
	rootCmd.AddCommand(a.createVersionCommand())
}

// createVersionCommand creates the version command.
func (a *App) createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("modelmerge %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:     %s\n", a.commit)
				cmd.Printf("  built:      %s\n", a.date)
				cmd.Printf("  built by:   %s\n", a.builtBy)
				cmd.Printf("  go version: %s\n", runtime.Version())
				cmd.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
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
