package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/screening"
	"github.com/dotcommander/screenscore/internal/visibility"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	out        io.Writer
	verbose    bool
	outputFile string
	viewer     visibility.Role
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(out io.Writer, verbose bool, outputFile string, viewer visibility.Role) *MarkdownFormatter {
	return &MarkdownFormatter{
		out:        out,
		verbose:    verbose,
		outputFile: outputFile,
		viewer:     viewer,
	}
}

// Format writes a summary table followed by one section per subject.
func (f *MarkdownFormatter) Format(summary *screening.Summary) error {
	var b strings.Builder
	showRisk := canSeeRisk(f.viewer)

	b.WriteString("# Screening Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", summary.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Root:** %s\n\n", summary.ProjectRoot)
	fmt.Fprintf(&b, "**Run:** `%s`\n\n", summary.RunID)
	fmt.Fprintf(&b, "**Duration:** %s\n\n", formatDuration(time.Duration(summary.Duration)*time.Millisecond))
	b.WriteString(strings.Repeat("-", 50) + "\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Count |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Sheets | %d |\n", summary.TotalFiles)
	fmt.Fprintf(&b, "| Scored | %d |\n", summary.Scored)
	fmt.Fprintf(&b, "| Failed | %d |\n", summary.Failed)
	if showRisk {
		for _, tier := range []scoring.RiskTier{scoring.Tier1, scoring.Tier2, scoring.Tier3} {
			fmt.Fprintf(&b, "| %s | %d |\n", tier, summary.TierCounts[tier])
		}
		fmt.Fprintf(&b, "| Findings | %d |\n", summary.TotalFindings)
	}
	if summary.BaselineIgnored > 0 {
		fmt.Fprintf(&b, "| Hidden by baseline | %d |\n", summary.BaselineIgnored)
	}
	b.WriteString("\n")

	b.WriteString("## Subjects\n\n")
	if summary.TotalFiles == 0 {
		b.WriteString("*No answer sheets found.*\n\n")
	}

	if summary.TotalFiles > 1 {
		for _, r := range summary.Results {
			fmt.Fprintf(&b, "- [%s](#%s)\n", r.Subject, createAnchor(r.Subject))
		}
		b.WriteString("\n")
	}

	for _, r := range summary.Results {
		needsAttention := !r.Success || (showRisk && len(r.Findings) > 0)
		if !needsAttention && !f.verbose {
			continue
		}
		f.writeResult(&b, r, showRisk)
	}

	b.WriteString("## Conclusion\n\n")
	switch {
	case summary.Failed > 0:
		fmt.Fprintf(&b, "✗ %d %s could not be scored\n", summary.Failed, pluralizeCount("sheet", summary.Failed))
	case showRisk && summary.TotalFindings > 0:
		fmt.Fprintf(&b, "⚠ %d %s need attention\n", summary.TotalFindings, pluralizeCount("finding", summary.TotalFindings))
	default:
		b.WriteString("✓ No alerts\n")
	}

	content := b.String()
	if f.outputFile != "" {
		if err := os.WriteFile(f.outputFile, []byte(content), 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", f.outputFile, err)
		}
		return nil
	}
	_, err := fmt.Fprint(f.out, content)
	return err
}

func (f *MarkdownFormatter) writeResult(b *strings.Builder, r screening.Result, showRisk bool) {
	fmt.Fprintf(b, "### %s\n\n", r.Subject)
	fmt.Fprintf(b, "File: `%s`\n\n", r.File)
	fmt.Fprintf(b, "Status: %s\n\n", getStatusEmoji(r.Success))
	if r.Grade != "" {
		fmt.Fprintf(b, "Grade: `%s`\n\n", r.Grade)
	}
	if showRisk && r.OverallTier != "" {
		fmt.Fprintf(b, "Tier: **%s** (%s)\n\n", r.OverallTier, r.OverallTier.Color())
	}

	if len(r.Errors) > 0 {
		b.WriteString("#### Errors\n\n")
		for _, e := range r.Errors {
			if e.Path != "" {
				fmt.Fprintf(b, "- `%s` - %s\n", e.Path, e.Message)
			} else {
				fmt.Fprintf(b, "- %s\n", e.Message)
			}
		}
		b.WriteString("\n")
	}

	if showRisk && len(r.Findings) > 0 {
		b.WriteString("#### Findings\n\n")
		b.WriteString("| Severity | Kind | Item | Message |\n")
		b.WriteString("|----------|------|------|---------|\n")
		for _, finding := range r.Findings {
			item := ""
			if finding.Item > 0 {
				item = fmt.Sprintf("%d", finding.Item)
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n", finding.Severity, finding.Kind, item, escapeCell(finding.Message))
		}
		b.WriteString("\n")
	}

	if len(r.Signature) > 0 {
		fmt.Fprintf(b, "Signature strengths: %s\n\n", strengthList(r.Signature))
	}

	if r.Profile != nil {
		view := visibility.ViewFor(*r.Profile, f.viewer)
		if len(view.InterventionSuggestions) > 0 {
			b.WriteString("#### Suggestions\n\n")
			for _, s := range view.InterventionSuggestions {
				fmt.Fprintf(b, "- %s\n", s)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("---\n\n")
}

// getStatusEmoji returns an emoji for the status
func getStatusEmoji(success bool) string {
	if success {
		return "✅"
	}
	return "❌"
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "-")
	return anchor
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
