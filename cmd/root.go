package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spiffcs/reltime/internal/log"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "reltime [expression...]",
		Short: "Resolve relative time expressions",
		Long: `Resolves compact relative time expressions such as now-7d, now+1M/Q
or now|d into absolute instants.

An expression is "now", optionally followed by an offset (+ or -, an amount
and a unit) and optionally by a rounding (| for the start of a unit, / for
its end). Run 'reltime units' for the unit codes.`,
		Example: `  reltime now-7d now-1d|h
  reltime --now 2016-08-11T14:52:40Z -o unix now|w
  reltime range from=now-1w|w to=now-1w/w`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log.Initialize(opts.Verbosity, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "Read configuration from this file only")

	// Add resolve flags to root command so `reltime` and `reltime resolve` work identically
	addResolveFlags(rootCmd, opts)

	rootCmd.AddCommand(NewCmdResolve(opts))
	rootCmd.AddCommand(NewCmdRange(opts))
	rootCmd.AddCommand(NewCmdUnits())
	rootCmd.AddCommand(NewCmdConfig(opts))
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
