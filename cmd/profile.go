package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/screenscore/internal/output"
	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/screening"
	"github.com/dotcommander/screenscore/internal/visibility"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <sheet>",
		Short: "Show the consolidated profile of one answer sheet",
		Long: `Scores both questionnaires of a single answer sheet and prints the
student profile: character strengths, virtues, risk tiers, grade alerts,
intervention suggestions and early-warning signals.

The --viewer role decides what is shown. Teachers see tiers without scores;
students see only their strengths.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd, opts, args[0])
		},
	}
}

// profileReport is the JSON shape of the profile command.
type profileReport struct {
	Subject string                  `json:"subject"`
	File    string                  `json:"file"`
	Grade   scoring.GradeLevel      `json:"grade,omitempty"`
	Profile visibility.ProfileView  `json:"profile"`
	EWS     *scoring.EWSAlertResult `json:"ews,omitempty"`
}

func runProfile(cmd *cobra.Command, opts *rootOptions, path string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	o, err := newOrchestrator(cmd, cfg, opts)
	if err != nil {
		return err
	}

	r, err := o.ScreenPath(path)
	if err != nil {
		return err
	}
	if !r.Success {
		return sheetError(r)
	}
	if r.Profile == nil {
		return fmt.Errorf("%s: a profile needs both the via and srss sections", r.File)
	}

	report := profileReport{
		Subject: r.Subject,
		File:    r.File,
		Grade:   r.Grade,
		Profile: visibility.ViewFor(*r.Profile, cfg.ViewerRole()),
	}
	if report.Profile.ShowsRisk() {
		report.EWS = r.EWS
	}

	switch cfg.Format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %w", err)
		}
		return writeJSON(cmd.OutOrStdout(), cfg.Output, data)
	case "console":
		printProfile(cmd.OutOrStdout(), report)
		return nil
	default:
		return fmt.Errorf("profile supports console and json output, not %s", cfg.Format)
	}
}

// writeJSON writes data to file when one is configured, else to w.
func writeJSON(w io.Writer, file string, data []byte) error {
	if file != "" {
		if err := os.WriteFile(file, data, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", file, err)
		}
		return nil
	}
	_, err := fmt.Fprintln(w, string(data))
	return err
}

// sheetError joins the validation errors of a sheet that could not be scored.
func sheetError(r screening.Result) error {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		if e.Path != "" {
			msgs[i] = e.Path + ": " + e.Message
		} else {
			msgs[i] = e.Message
		}
	}
	return fmt.Errorf("%s: %s", r.File, strings.Join(msgs, "; "))
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

func printProfile(w io.Writer, report profileReport) {
	view := report.Profile

	title := headerStyle.Render(report.Subject)
	if report.Grade != "" {
		title += "  " + labelStyle.Render(string(report.Grade))
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w)

	printStrengths(w, "Forças de assinatura", view.SignatureStrengths)
	if len(view.DevelopmentAreas) > 0 {
		printStrengths(w, "Áreas de desenvolvimento", view.DevelopmentAreas)
	}

	fmt.Fprintln(w, headerStyle.Render("Virtudes"))
	for _, v := range view.Virtues {
		fmt.Fprintf(w, "  %-16s %5.1f\n", v.Label, v.Average)
	}
	fmt.Fprintln(w)

	if !view.ShowsRisk() {
		return
	}

	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Risco"), output.TierStyle(view.OverallTier).Render(string(view.OverallTier)))
	for _, d := range []*visibility.DomainView{view.Externalizing, view.Internalizing} {
		line := fmt.Sprintf("  %-16s %s", d.Label, output.TierStyle(d.Tier).Render(string(d.Tier)))
		if d.Score != nil && d.MaxPossible != nil {
			line += labelStyle.Render(fmt.Sprintf("  %d/%d", *d.Score, *d.MaxPossible))
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	if len(view.GradeAlerts) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Alertas da série"))
		for _, a := range view.GradeAlerts {
			fmt.Fprintf(w, "  %s item %d: %s\n", severityBadge(a.Severity), a.ItemNumber, a.Message)
		}
		fmt.Fprintln(w)
	}

	if len(view.InterventionSuggestions) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Sugestões de intervenção"))
		for _, s := range view.InterventionSuggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
		fmt.Fprintln(w)
	}

	if report.EWS != nil {
		printEWS(w, *report.EWS)
	}
}

func printStrengths(w io.Writer, title string, scores []scoring.StrengthScore) {
	fmt.Fprintln(w, headerStyle.Render(title))
	for i, s := range scores {
		fmt.Fprintf(w, "  %d. %-26s %s %3d\n", i+1, s.Label, output.RenderBar(s.NormalizedScore, 100, accentStyle), s.NormalizedScore)
	}
	fmt.Fprintln(w)
}

func severityBadge(s scoring.Severity) string {
	if s == scoring.SeverityCritical {
		return output.TierStyle(scoring.Tier3).Render(string(s))
	}
	return output.TierStyle(scoring.Tier2).Render(string(s))
}
