package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/screenscore/internal/output"
	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/screening"
	"github.com/dotcommander/screenscore/internal/types"
	"github.com/dotcommander/screenscore/internal/visibility"
)

// maxListed caps the ranked lists in the summary report.
const maxListed = 5

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show tier distribution and most-flagged students",
		Long: `Screens every answer sheet under the root and prints a class-level report:
risk tier distribution, early-warning levels, the most frequent finding kinds
and the students with the most critical findings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, opts)
		},
	}
}

// ClassSummary holds aggregated data for the summary report
type ClassSummary struct {
	TotalSheets  int
	Scored       int
	Failed       int
	TierCounts   map[scoring.RiskTier]int
	EWSLevels    map[scoring.AlertLevel]int
	FindingKinds map[string]int
	MostFlagged  []FlaggedSubject
}

// FlaggedSubject is a subject with at least one finding.
type FlaggedSubject struct {
	Subject  string
	File     string
	Tier     scoring.RiskTier
	Critical int
	Watch    int
}

func runSummary(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if !visibility.HasPermission(cfg.ViewerRole(), visibility.ViewRiskTier) {
		return fmt.Errorf("viewer %s cannot see risk tiers", cfg.Viewer)
	}

	o, err := newOrchestrator(cmd, cfg, opts)
	if err != nil {
		return err
	}
	summary, err := o.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("error screening sheets: %w", err)
	}

	printSummaryReport(cmd.OutOrStdout(), aggregateSummary(summary))
	return nil
}

func aggregateSummary(s *screening.Summary) *ClassSummary {
	cs := &ClassSummary{
		TotalSheets:  s.TotalFiles,
		Scored:       s.Scored,
		Failed:       s.Failed,
		TierCounts:   make(map[scoring.RiskTier]int),
		EWSLevels:    make(map[scoring.AlertLevel]int),
		FindingKinds: make(map[string]int),
	}

	for _, r := range s.Results {
		if r.OverallTier != "" {
			cs.TierCounts[r.OverallTier]++
		}
		if r.EWS != nil {
			cs.EWSLevels[r.EWS.AlertLevel]++
		}
		if len(r.Findings) == 0 {
			continue
		}

		flagged := FlaggedSubject{Subject: r.Subject, File: r.File, Tier: r.OverallTier}
		for _, f := range r.Findings {
			cs.FindingKinds[f.Kind]++
			if f.Severity == types.FindingCritical {
				flagged.Critical++
			} else {
				flagged.Watch++
			}
		}
		cs.MostFlagged = append(cs.MostFlagged, flagged)
	}

	sort.SliceStable(cs.MostFlagged, func(i, j int) bool {
		a, b := cs.MostFlagged[i], cs.MostFlagged[j]
		if a.Critical != b.Critical {
			return a.Critical > b.Critical
		}
		if a.Watch != b.Watch {
			return a.Watch > b.Watch
		}
		return a.Subject < b.Subject
	})
	return cs
}

type kindCount struct {
	kind  string
	count int
}

// topKinds returns finding kinds by count, most frequent first.
func topKinds(counts map[string]int) []kindCount {
	kinds := make([]kindCount, 0, len(counts))
	for k, c := range counts {
		kinds = append(kinds, kindCount{k, c})
	}
	sort.Slice(kinds, func(i, j int) bool {
		if kinds[i].count != kinds[j].count {
			return kinds[i].count > kinds[j].count
		}
		return kinds[i].kind < kinds[j].kind
	})
	return kinds
}

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("12")).
	Padding(0, 1)

func printSummaryReport(w io.Writer, cs *ClassSummary) {
	var b strings.Builder

	b.WriteString(headerStyle.Render("CLASS SCREENING SUMMARY") + "\n")
	fmt.Fprintf(&b, "Sheets: %d  Scored: %d  Failed: %d\n", cs.TotalSheets, cs.Scored, cs.Failed)

	b.WriteString("\n" + headerStyle.Render("RISK TIERS") + "\n")
	tiered := 0
	for _, c := range cs.TierCounts {
		tiered += c
	}
	for _, tier := range []scoring.RiskTier{scoring.Tier1, scoring.Tier2, scoring.Tier3} {
		count := cs.TierCounts[tier]
		fmt.Fprintf(&b, "  %s %4d %s %5.1f%%\n",
			output.TierStyle(tier).Render(string(tier)), count,
			output.RenderBar(count, tiered, output.TierStyle(tier)), percent(count, tiered))
	}

	if len(cs.EWSLevels) > 0 {
		b.WriteString("\n" + headerStyle.Render("EARLY WARNING") + "\n")
		for _, level := range []scoring.AlertLevel{scoring.AlertNone, scoring.AlertWatch, scoring.AlertCritical} {
			fmt.Fprintf(&b, "  %-8s %4d\n", level, cs.EWSLevels[level])
		}
	}

	if kinds := topKinds(cs.FindingKinds); len(kinds) > 0 {
		b.WriteString("\n" + headerStyle.Render("TOP FINDINGS") + "\n")
		for i, kc := range kinds {
			if i >= maxListed {
				break
			}
			fmt.Fprintf(&b, "  %s %-14s %3d\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), kc.kind, kc.count)
		}
	}

	if len(cs.MostFlagged) > 0 {
		b.WriteString("\n" + headerStyle.Render("MOST FLAGGED") + "\n")
		for i, fs := range cs.MostFlagged {
			if i >= maxListed {
				break
			}
			tier := "-"
			if fs.Tier != "" {
				tier = output.TierStyle(fs.Tier).Render(string(fs.Tier))
			}
			fmt.Fprintf(&b, "  %s %-24s %s  %d critical, %d watch\n",
				labelStyle.Render(fmt.Sprintf("%d.", i+1)), truncate(fs.Subject, 24), tier, fs.Critical, fs.Watch)
		}
	}

	fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
