package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dotcommander/screenscore/internal/output"
	"github.com/dotcommander/screenscore/internal/scoring"
)

func newRulesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the active grade rules and tier cutoffs",
		Long: `Prints the SRSS-IE domain cutoffs, the early-warning thresholds and the
grade rule table in effect after applying the gradeRules configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd, opts)
		},
	}
}

// rulesReport is the JSON shape of the rules command.
type rulesReport struct {
	Domains    []domainRules       `json:"domains"`
	EWS        ewsThresholds       `json:"ews"`
	GradeRules []scoring.GradeRule `json:"gradeRules"`
}

type domainRules struct {
	Domain  scoring.RiskDomain   `json:"domain"`
	Label   string               `json:"label"`
	Items   []int                `json:"items"`
	Cutoffs []scoring.TierCutoff `json:"cutoffs"`
}

type ewsThresholds struct {
	AttendanceBelow     float64 `json:"attendanceBelow"`
	GradeDropAbove      float64 `json:"gradeDropAbovePercent"`
	DisciplinaryAtLeast int     `json:"disciplinaryAtLeast"`
}

func buildRulesReport(rules []scoring.GradeRule) rulesReport {
	sorted := append([]scoring.GradeRule(nil), rules...)
	gradeOrder := map[scoring.GradeLevel]int{}
	for i, g := range scoring.GradeLevels {
		gradeOrder[g] = i
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Grade != sorted[j].Grade {
			return gradeOrder[sorted[i].Grade] < gradeOrder[sorted[j].Grade]
		}
		return sorted[i].Item < sorted[j].Item
	})

	report := rulesReport{
		EWS: ewsThresholds{
			AttendanceBelow:     scoring.AttendanceThreshold,
			GradeDropAbove:      scoring.GradeDropThreshold,
			DisciplinaryAtLeast: scoring.DisciplinaryThreshold,
		},
		GradeRules: sorted,
	}
	for _, d := range []scoring.DomainDefinition{scoring.ExternalizingDomain, scoring.InternalizingDomain} {
		report.Domains = append(report.Domains, domainRules{
			Domain:  d.Domain,
			Label:   d.Label,
			Items:   d.Items,
			Cutoffs: d.Cutoffs,
		})
	}
	return report
}

func runRules(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	report := buildRulesReport(scoring.New(cfg.EngineOptions()...).GradeRules())

	if cfg.Format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %w", err)
		}
		return writeJSON(cmd.OutOrStdout(), cfg.Output, data)
	}
	printRules(cmd.OutOrStdout(), report)
	return nil
}

func printRules(w io.Writer, report rulesReport) {
	fmt.Fprintln(w, headerStyle.Render("SRSS-IE cutoffs"))
	for _, d := range report.Domains {
		fmt.Fprintf(w, "  %s %s\n", d.Label, labelStyle.Render(fmt.Sprintf("items %v", d.Items)))
		for _, c := range d.Cutoffs {
			fmt.Fprintf(w, "    %2d-%-2d %s\n", c.Min, c.Max, output.TierStyle(c.Tier).Render(string(c.Tier)))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render("Early warning"))
	fmt.Fprintf(w, "  attendance below %.0f%%: CRITICAL\n", report.EWS.AttendanceBelow)
	fmt.Fprintf(w, "  grade drop above %.0f%%: WATCH\n", report.EWS.GradeDropAbove)
	fmt.Fprintf(w, "  %d or more disciplinary records: CRITICAL\n", report.EWS.DisciplinaryAtLeast)
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render("Grade rules"))
	if len(report.GradeRules) == 0 {
		fmt.Fprintln(w, labelStyle.Render("  none"))
		return
	}
	for _, r := range report.GradeRules {
		fmt.Fprintf(w, "  %-12s item %2d >= %d  %s  %s\n",
			r.Grade, r.Item, r.Threshold, severityBadge(r.Severity), r.Message)
	}
}
