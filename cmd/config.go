package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spiffcs/reltime/config"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig(opts *Options) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Long: `Show or manage configuration.

When run without arguments, shows the current merged configuration.

Subcommands:
  init      Create a minimal config file
  path      Show config file locations
  defaults  Show all default values
  show      Show current merged config (same as bare 'reltime config')
  set       Set a configuration value`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, opts, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	cmd.AddCommand(NewCmdConfigInit())
	cmd.AddCommand(NewCmdConfigPath())
	cmd.AddCommand(NewCmdConfigDefaults())
	cmd.AddCommand(NewCmdConfigShow(opts))
	cmd.AddCommand(NewCmdConfigSet(opts))

	return cmd
}

// NewCmdConfigInit creates the config init subcommand.
func NewCmdConfigInit() *cobra.Command {
	var global, local bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a minimal config file",
		Long: `Create a minimal config file with starter settings.

Use --global to create in ~/.config/reltime/config.yaml (applies everywhere)
Use --local to create in ./.reltime.yaml (applies only in this directory)
Without flags, you'll be prompted to choose.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, global, local)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Create global config file (~/.config/reltime/config.yaml)")
	cmd.Flags().BoolVar(&local, "local", false, "Create local config file (./.reltime.yaml)")

	return cmd
}

// NewCmdConfigPath creates the config path subcommand.
func NewCmdConfigPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file locations",
		Long:  `Show the paths to global and local config files and indicate which exist.`,
		RunE:  runConfigPath,
	}
}

// NewCmdConfigDefaults creates the config defaults subcommand.
func NewCmdConfigDefaults() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Show all default configuration values",
		Long: `Show a complete configuration with all default values, including the
built-in range presets.

This can be redirected to create a config file with all defaults:
  reltime config defaults > ~/.config/reltime/config.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printConfig(cmd, config.DefaultConfig(), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	return cmd
}

// NewCmdConfigShow creates the config show subcommand.
func NewCmdConfigShow(opts *Options) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current merged configuration",
		Long:  `Show the current configuration after merging defaults, global, and local configs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, opts, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	return cmd
}

// NewCmdConfigSet creates the config set subcommand.
func NewCmdConfigSet(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value. Available keys:
  format      - Default output format (table, json, yaml, markdown, unix, rfc3339)
  week-start  - First day of the week (sunday, monday, ...)
  utc         - Resolve and print in UTC (true, false)
  layout      - Go time layout for table and markdown output
  workers     - Inputs resolved concurrently (0 for no limit)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, opts, args[0], args[1])
		},
	}
}

func runConfigInit(cmd *cobra.Command, global, local bool) error {
	if global && local {
		return fmt.Errorf("cannot specify both --global and --local")
	}

	w := cmd.OutOrStdout()
	paths := config.GetConfigPaths()
	var targetPath string
	var location string

	if global {
		targetPath = paths.GlobalPath
		location = "global"
	} else if local {
		targetPath = paths.LocalPath
		location = "local"
	} else {
		fmt.Fprintln(w, "Where would you like to create the config file?")
		fmt.Fprintf(w, "  [1] Global (%s) - applies everywhere\n", paths.GlobalPath)
		fmt.Fprintf(w, "  [2] Local (%s) - applies only in this directory\n", paths.LocalPath)
		fmt.Fprint(w, "Choose [1/2]: ")

		reader := bufio.NewReader(cmd.InOrStdin())
		choice, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			targetPath = paths.GlobalPath
			location = "global"
		case "2":
			targetPath = paths.LocalPath
			location = "local"
		default:
			return fmt.Errorf("invalid choice: %s (must be 1 or 2)", choice)
		}
		fmt.Fprintln(w)
	}

	if _, err := os.Stat(targetPath); err == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'reltime config show' to view current config", targetPath)
	}

	if err := config.SaveTo(targetPath, config.MinimalConfig()); err != nil {
		return err
	}

	fmt.Fprintf(w, "Created %s config file: %s\n\n", location, targetPath)
	fmt.Fprintln(w, "Edit this file to customize reltime behavior.")
	fmt.Fprintln(w, "Run 'reltime config defaults' to see all available options.")

	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	paths := config.GetConfigPaths()

	fmt.Fprintln(w, "Configuration file locations:")
	fmt.Fprintln(w)

	globalStatus := "not found"
	if paths.GlobalExists {
		globalStatus = "exists"
	}
	fmt.Fprintf(w, "  Global: %s (%s)\n", paths.GlobalPath, globalStatus)

	localStatus := "not found"
	if paths.LocalExists {
		localStatus = "exists"
	}
	fmt.Fprintf(w, "  Local:  %s (%s)\n", paths.LocalPath, localStatus)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load order: defaults -> global -> local (local overrides global)")
	fmt.Fprintln(w, "RELTIME_* environment variables and flags override both.")

	return nil
}

func runConfigShow(cmd *cobra.Command, opts *Options, format string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	return printConfig(cmd, cfg, format)
}

func printConfig(cmd *cobra.Command, cfg *config.Config, format string) error {
	w := cmd.OutOrStdout()

	switch format {
	case "yaml":
		yamlStr, err := cfg.ToYAML()
		if err != nil {
			return err
		}
		fmt.Fprint(w, yamlStr)
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	default:
		return fmt.Errorf("invalid format: %s (must be yaml or json)", format)
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, opts *Options, key, value string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	target := opts.ConfigFile
	if target == "" {
		target = config.ConfigPath()
	}
	if err := cfg.Save(target); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s in %s.\n", key, value, target)
	return nil
}
