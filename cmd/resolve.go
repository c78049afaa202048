package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spiffcs/reltime/internal/log"
	"github.com/spiffcs/reltime/internal/relative"
)

// NewCmdResolve creates the resolve command.
func NewCmdResolve(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [expression...]",
		Short: "Resolve expressions to instants (same as root reltime)",
		Long: `Resolves each expression argument, and every input of --file, against
a single anchor instant. A file may hold one expression, one record of named
expressions, or a list of either, as YAML or JSON.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, opts)
		},
	}

	addResolveFlags(cmd, opts)
	return cmd
}

// addAnchorFlags adds the flags shared by every command that resolves
// expressions.
func addAnchorFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "format", "o", "", "Output format (table, json, yaml, markdown, unix, rfc3339)")
	cmd.Flags().StringVar(&opts.Now, "now", "", "Anchor instant: Unix seconds, RFC 3339, \"2006-01-02 15:04:05\" or \"2006-01-02\"")
	cmd.Flags().StringVar(&opts.WeekStart, "week-start", "", "First day of the week for w rounding (default sunday)")
	cmd.Flags().BoolVar(&opts.UTC, "utc", false, "Resolve and print in UTC instead of the local zone")
	cmd.Flags().StringVar(&opts.Layout, "layout", "", "Go time layout for table and markdown output")
}

// addResolveFlags adds the resolve-specific flags to a command.
func addResolveFlags(cmd *cobra.Command, opts *Options) {
	addAnchorFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Read inputs from a YAML or JSON document (- for stdin)")
	cmd.Flags().IntVar(&opts.Workers, "workers", opts.Workers, "Inputs resolved concurrently (0 for no limit)")
}

func runResolve(cmd *cobra.Command, args []string, opts *Options) error {
	s, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}

	inputs := make([]relative.Input, 0, len(args))
	for _, arg := range args {
		inputs = append(inputs, relative.Expr(arg))
	}

	if opts.File != "" {
		docInputs, err := readDocument(cmd, opts.File)
		if err != nil {
			return err
		}
		log.Info("read document", "path", opts.File, "inputs", len(docInputs))
		inputs = append(inputs, docInputs...)
	}

	if len(inputs) == 0 {
		return errors.New("no expressions given: pass them as arguments or with --file")
	}

	return resolveAndPrint(cmd, s, inputs)
}

func readDocument(cmd *cobra.Command, path string) ([]relative.Input, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	inputs, err := relative.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inputs, nil
}
