// Package output renders screening summaries for terminals, tools and reports.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/screenscore/internal/screening"
	"github.com/dotcommander/screenscore/internal/types"
	"github.com/dotcommander/screenscore/internal/visibility"
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	out     io.Writer
	quiet   bool
	verbose bool
	viewer  visibility.Role
}

// NewConsoleFormatter creates a new ConsoleFormatter
func NewConsoleFormatter(out io.Writer, quiet, verbose bool, viewer visibility.Role) *ConsoleFormatter {
	return &ConsoleFormatter{
		out:     out,
		quiet:   quiet,
		verbose: verbose,
		viewer:  viewer,
	}
}

// Format prints one block per sheet that needs attention, then the totals.
func (f *ConsoleFormatter) Format(summary *screening.Summary) error {
	if f.quiet {
		// Exit code only
		return nil
	}

	f.printResults(summary)
	f.printSummary(summary)
	f.printConclusion(summary)
	return nil
}

func (f *ConsoleFormatter) printResults(summary *screening.Summary) {
	showRisk := canSeeRisk(f.viewer)

	for _, r := range summary.Results {
		hasIssues := len(r.Errors) > 0 || (showRisk && len(r.Findings) > 0)
		if !hasIssues && !f.verbose {
			continue
		}

		status, style := "✓", greenStyle
		switch {
		case len(r.Errors) > 0:
			status, style = "✗", redStyle
		case showRisk && len(r.Findings) > 0:
			status, style = severityIcon(r.HighestSeverity()), severityStyle(r.HighestSeverity())
		}

		line := fmt.Sprintf("%s %s %s", style.Render(status), r.File, dimStyle.Render(r.Subject))
		if showRisk && r.OverallTier != "" {
			line += " " + TierStyle(r.OverallTier).Render("["+string(r.OverallTier)+"]")
		}
		fmt.Fprintln(f.out, line)

		for _, e := range r.Errors {
			f.printValidationError(e)
		}
		if showRisk {
			for _, finding := range r.Findings {
				f.printFinding(finding)
			}
		}
		if f.verbose {
			f.printDetail(r)
		}
	}
}

func (f *ConsoleFormatter) printValidationError(e types.ValidationError) {
	location := e.File
	if e.Path != "" {
		location += ":" + e.Path
	}
	fmt.Fprintf(f.out, "    %s %s: %s\n", redStyle.Render("✘"), location, e.Message)
}

func (f *ConsoleFormatter) printFinding(finding types.Finding) {
	style := severityStyle(finding.Severity)
	label := finding.Kind
	if finding.Item > 0 {
		label = fmt.Sprintf("%s #%d", finding.Kind, finding.Item)
	}
	fmt.Fprintf(f.out, "    %s %s: %s\n", style.Render(severityIcon(finding.Severity)), style.Render(label), finding.Message)
}

// printDetail shows the scored sections the viewer may see.
func (f *ConsoleFormatter) printDetail(r screening.Result) {
	if len(r.Signature) > 0 {
		fmt.Fprintf(f.out, "    %s %s\n", dimStyle.Render("forças:"), strengthList(r.Signature))
	}
	if r.Risk != nil && canSeeDetail(f.viewer) {
		ext, in := r.Risk.Externalizing, r.Risk.Internalizing
		fmt.Fprintf(f.out, "    %s %s %d/%d, %s %d/%d\n", dimStyle.Render("risco:"),
			ext.Label, ext.Score, ext.MaxPossible, in.Label, in.Score, in.MaxPossible)
	}
	if r.EWS != nil && canSeeRisk(f.viewer) {
		fmt.Fprintf(f.out, "    %s %s\n", dimStyle.Render("alerta precoce:"), r.EWS.AlertLevel)
	}
}

func (f *ConsoleFormatter) printSummary(summary *screening.Summary) {
	if summary.TotalFiles == 0 {
		fmt.Fprintln(f.out, dimStyle.Render("No answer sheets found"))
		return
	}

	line := fmt.Sprintf("\n%d %s, %d scored, %d failed",
		summary.TotalFiles, pluralizeCount("sheet", summary.TotalFiles), summary.Scored, summary.Failed)
	if canSeeRisk(f.viewer) {
		line += fmt.Sprintf(", %d %s (%d critical, %d watch)",
			summary.TotalFindings, pluralizeCount("finding", summary.TotalFindings),
			summary.AlertCounts[types.FindingCritical], summary.AlertCounts[types.FindingWatch])
	}
	if summary.BaselineIgnored > 0 && canSeeRisk(f.viewer) {
		line += fmt.Sprintf(", %d hidden by baseline", summary.BaselineIgnored)
	}
	line += fmt.Sprintf(" (%s)", formatDuration(time.Duration(summary.Duration)*time.Millisecond))
	fmt.Fprintln(f.out, line)
}

func (f *ConsoleFormatter) printConclusion(summary *screening.Summary) {
	if summary.BaselineCreated != "" {
		fmt.Fprintf(f.out, "Baseline saved to %s\n", summary.BaselineCreated)
	}
	// Alert status is risk information.
	if !canSeeRisk(f.viewer) {
		return
	}
	if summary.TotalFiles > 0 && summary.Failed == 0 && summary.TotalFindings == 0 {
		fmt.Fprintln(f.out, greenStyle.Bold(true).Render("✓ No alerts"))
	}
}
