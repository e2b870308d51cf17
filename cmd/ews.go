package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dotcommander/screenscore/internal/output"
	"github.com/dotcommander/screenscore/internal/scoring"
)

type ewsOptions struct {
	attendance float64
	current    float64
	previous   float64
	logs       int
}

func newEWSCmd() *cobra.Command {
	opts := &ewsOptions{}

	ewsCmd := &cobra.Command{
		Use:   "ews",
		Short: "Evaluate early-warning indicators",
		Long: `Evaluates attendance, grade trend and disciplinary records without an
answer sheet.

Attendance below 90% and three or more disciplinary records are critical.
A drop of more than 20% from the previous average is a watch signal. Omit
--previous when there is no earlier period.`,
		Example: `  screenscore ews --attendance 84 --current 5.0 --previous 8.5 --logs 5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ind := scoring.Indicators{
				AttendanceRate:   opts.attendance,
				CurrentAverage:   opts.current,
				DisciplinaryLogs: opts.logs,
			}
			if cmd.Flags().Changed("previous") {
				ind.PreviousAverage = scoring.Float(opts.previous)
			}
			return runEWS(cmd, ind)
		},
	}

	ewsCmd.Flags().Float64Var(&opts.attendance, "attendance", 0, "Attendance rate in percent (0-100)")
	ewsCmd.Flags().Float64Var(&opts.current, "current", 0, "Current grade average")
	ewsCmd.Flags().Float64Var(&opts.previous, "previous", 0, "Previous grade average")
	ewsCmd.Flags().IntVar(&opts.logs, "logs", 0, "Disciplinary records in the period")
	_ = ewsCmd.MarkFlagRequired("attendance")
	_ = ewsCmd.MarkFlagRequired("current")

	return ewsCmd
}

func validateIndicators(ind scoring.Indicators) error {
	if ind.AttendanceRate < 0 || ind.AttendanceRate > 100 {
		return fmt.Errorf("attendance must be between 0 and 100, got %.1f", ind.AttendanceRate)
	}
	if ind.CurrentAverage < 0 {
		return fmt.Errorf("current average cannot be negative")
	}
	if ind.PreviousAverage != nil && *ind.PreviousAverage < 0 {
		return fmt.Errorf("previous average cannot be negative")
	}
	if ind.DisciplinaryLogs < 0 {
		return fmt.Errorf("disciplinary logs cannot be negative")
	}
	return nil
}

func runEWS(cmd *cobra.Command, ind scoring.Indicators) error {
	if err := validateIndicators(ind); err != nil {
		return err
	}
	result := scoring.CalculateEWSAlert(ind)

	// No config file is read; only the format flags apply.
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %w", err)
		}
		outFile, _ := cmd.Flags().GetString("output")
		return writeJSON(cmd.OutOrStdout(), outFile, data)
	default:
		printEWS(cmd.OutOrStdout(), result)
		return nil
	}
}

func printEWS(w io.Writer, result scoring.EWSAlertResult) {
	style := output.TierStyle(scoring.Tier1)
	switch result.AlertLevel {
	case scoring.AlertCritical:
		style = output.TierStyle(scoring.Tier3)
	case scoring.AlertWatch:
		style = output.TierStyle(scoring.Tier2)
	}

	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Alerta precoce"), style.Render(string(result.AlertLevel)))
	for _, r := range result.Rationale {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}
