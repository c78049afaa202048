package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spiffcs/reltime/internal/calendar"
)

// unitInfo describes one unit code for the units command.
type unitInfo struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Arithmetic string `json:"arithmetic"`
	Example    string `json:"example"`
}

func describeUnits() []unitInfo {
	units := calendar.Units()
	infos := make([]unitInfo, 0, len(units))
	for _, u := range units {
		arith := "calendar, rounded to whole units"
		if u <= calendar.Hour {
			arith = "exact, fractions allowed"
		}
		infos = append(infos, unitInfo{
			Code:       u.Code(),
			Name:       u.String(),
			Arithmetic: arith,
			Example:    "now-1" + u.Code() + "|" + u.Code(),
		})
	}
	return infos
}

// NewCmdUnits creates the units command.
func NewCmdUnits() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "units",
		Short: "List the unit codes",
		Long: `List the unit codes accepted in offsets and roundings. Codes are
case-sensitive: m is minutes, M is months.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUnits(cmd, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")

	return cmd
}

func runUnits(cmd *cobra.Command, format string) error {
	w := cmd.OutOrStdout()
	infos := describeUnits()

	switch format {
	case "table":
		header := color.New(color.Bold)
		header.Fprintf(w, "%-5s  %-12s  %-33s  %s\n", "Code", "Unit", "Arithmetic", "Example")
		for _, info := range infos {
			fmt.Fprintf(w, "%-5s  %-12s  %-33s  %s\n", info.Code, info.Name, info.Arithmetic, info.Example)
		}
	case "json":
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal units to JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	default:
		return fmt.Errorf("invalid format: %s (must be table or json)", format)
	}
	return nil
}
