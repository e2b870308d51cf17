package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/types"
	"github.com/dotcommander/screenscore/internal/visibility"
)

// Terminal palette, shared by every console renderer.
var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TierStyle returns the traffic-light style for a tier.
func TierStyle(tier scoring.RiskTier) lipgloss.Style {
	switch tier.Color() {
	case scoring.Red:
		return redStyle
	case scoring.Yellow:
		return yellowStyle
	default:
		return greenStyle
	}
}

// RenderBar draws a fixed-width bar of count out of total.
func RenderBar(count, total int, style lipgloss.Style) string {
	if total == 0 {
		return ""
	}
	const barWidth = 10
	filled := (count * barWidth) / total
	if count > 0 && filled == 0 {
		filled = 1
	}
	return style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
}

func severityStyle(severity string) lipgloss.Style {
	if severity == types.FindingCritical {
		return redStyle
	}
	return yellowStyle
}

func severityIcon(severity string) string {
	if severity == types.FindingCritical {
		return "✘"
	}
	return "⚠"
}

// canSeeRisk reports whether the viewer may see tiers and findings.
func canSeeRisk(role visibility.Role) bool {
	return visibility.HasPermission(role, visibility.ViewRiskTier)
}

// canSeeDetail reports whether the viewer may see domain scores.
func canSeeDetail(role visibility.Role) bool {
	return visibility.HasPermission(role, visibility.ViewRiskDetail)
}

// pluralizeCount returns singular or plural form based on count.
func pluralizeCount(s string, count int) string {
	if count == 1 {
		return s
	}
	return s + "s"
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func strengthList(scores []scoring.StrengthScore) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%s %d", s.Label, s.NormalizedScore)
	}
	return strings.Join(parts, ", ")
}
