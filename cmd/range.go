package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spiffcs/reltime/config"
	"github.com/spiffcs/reltime/internal/relative"
)

// NewCmdRange creates the range command.
func NewCmdRange(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range [key=expression...]",
		Short: "Resolve a record of named expressions",
		Long: `Resolves a record of named expressions against one anchor instant.
Keys keep the order they are given in.

--preset starts from a named range (built in, or from the ranges section
of the config file); key=expression arguments then replace or extend its
fields.`,
		Example: `  reltime range from=now-7d|d to=now
  reltime range --preset last-week -o json
  reltime range --preset today mid=now|h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRange(cmd, args, opts)
		},
	}

	addAnchorFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.Preset, "preset", "p", "", "Start from a named range")
	cmd.Flags().BoolVar(&opts.ListPresets, "list", false, "List the available presets")
	return cmd
}

func runRange(cmd *cobra.Command, args []string, opts *Options) error {
	s, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}

	if opts.ListPresets {
		return listPresets(cmd, s.cfg)
	}

	rec, err := buildRecord(s.cfg, opts.Preset, args)
	if err != nil {
		return err
	}
	return resolveAndPrint(cmd, s, []relative.Input{rec})
}

// buildRecord copies the preset named preset, if any, and applies the
// key=expression pairs on top of it.
func buildRecord(cfg *config.Config, preset string, pairs []string) (*relative.Record, error) {
	rec := relative.NewRecord()
	if preset != "" {
		base, ok := cfg.Range(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q (run 'reltime range --list')", preset)
		}
		rec = relative.NewRecord(base.Fields()...)
	}

	for _, pair := range pairs {
		key, expr, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: use key=expression", pair)
		}
		rec.Set(key, expr)
	}

	if rec.Len() == 0 {
		return nil, fmt.Errorf("no fields given: pass key=expression arguments or --preset")
	}
	return rec, nil
}

func listPresets(cmd *cobra.Command, cfg *config.Config) error {
	w := cmd.OutOrStdout()
	names := cfg.RangeNames()

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	for _, name := range names {
		rec, _ := cfg.Range(name)
		fields := make([]string, 0, rec.Len())
		for _, f := range rec.Fields() {
			fields = append(fields, f.Key+"="+f.Expr)
		}
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width, name, strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return nil
}
