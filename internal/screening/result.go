// Package screening runs the scoring engine over every answer sheet under a
// root and turns the outcome into findings.
package screening

import (
	"fmt"
	"time"

	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/types"
	"github.com/dotcommander/screenscore/internal/visibility"
)

// Result is the outcome of screening a single sheet.
type Result struct {
	File    string             `json:"file"`
	Path    string             `json:"-"`
	Subject string             `json:"subject"`
	Grade   scoring.GradeLevel `json:"grade,omitempty"`

	// Profile is set when both questionnaires were scored.
	Profile *scoring.StudentProfile `json:"profile,omitempty"`

	Signature   []scoring.StrengthScore `json:"signatureStrengths,omitempty"`
	Risk        *scoring.RiskScores     `json:"risk,omitempty"`
	OverallTier scoring.RiskTier        `json:"overallTier,omitempty"`
	GradeAlerts []scoring.GradeAlert    `json:"gradeAlerts,omitempty"`
	EWS         *scoring.EWSAlertResult `json:"ews,omitempty"`

	Findings []types.Finding         `json:"findings"`
	Errors   []types.ValidationError `json:"errors,omitempty"`
	Success  bool                    `json:"success"`
	Duration int64                   `json:"durationMs"`
}

// HighestSeverity returns the most severe finding severity, or "".
func (r Result) HighestSeverity() string {
	highest := ""
	for _, f := range r.Findings {
		if types.SeverityRank(f.Severity) > types.SeverityRank(highest) {
			highest = f.Severity
		}
	}
	return highest
}

// Summary aggregates a screening run.
type Summary struct {
	RunID           string                   `json:"runId"`
	ProjectRoot     string                   `json:"projectRoot"`
	StartTime       time.Time                `json:"startTime"`
	Duration        int64                    `json:"durationMs"`
	TotalFiles      int                      `json:"totalFiles"`
	Scored          int                      `json:"scored"`
	Failed          int                      `json:"failed"`
	TierCounts      map[scoring.RiskTier]int `json:"tierCounts"`
	AlertCounts     map[string]int           `json:"alertCounts"`
	TotalFindings   int                      `json:"totalFindings"`
	BaselineIgnored int                      `json:"baselineIgnored,omitempty"`
	BaselineCreated string                   `json:"baselineCreated,omitempty"`
	Results         []Result                 `json:"results"`
}

// AllFindings flattens the findings of every result, in result order.
func (s *Summary) AllFindings() []types.Finding {
	var all []types.Finding
	for _, r := range s.Results {
		all = append(all, r.Findings...)
	}
	return all
}

// ShouldFail reports whether the run should exit non-zero at the given
// fail-on level: "critical", "watch" or "none". Unreadable sheets fail
// every level except none.
func (s *Summary) ShouldFail(failOn string) bool {
	threshold := types.SeverityRank(types.FindingCritical)
	switch failOn {
	case "none":
		return false
	case "watch":
		threshold = types.SeverityRank(types.FindingWatch)
	}

	if s.Failed > 0 {
		return true
	}
	for _, r := range s.Results {
		for _, f := range r.Findings {
			if types.SeverityRank(f.Severity) >= threshold {
				return true
			}
		}
	}
	return false
}

// ShouldFailFor is ShouldFail as seen by viewer. A viewer who may not see
// risk tiers only fails on unreadable sheets, so the exit code does not
// reveal alerts.
func (s *Summary) ShouldFailFor(failOn string, viewer visibility.Role) bool {
	if visibility.HasPermission(viewer, visibility.ViewRiskTier) {
		return s.ShouldFail(failOn)
	}
	return failOn != "none" && s.Failed > 0
}

// recount rebuilds the aggregate counters from the results.
func (s *Summary) recount() {
	s.TotalFiles = len(s.Results)
	s.Scored, s.Failed, s.TotalFindings = 0, 0, 0
	s.TierCounts = map[scoring.RiskTier]int{}
	s.AlertCounts = map[string]int{}

	for _, r := range s.Results {
		if r.Success {
			s.Scored++
		} else {
			s.Failed++
		}
		if r.OverallTier != "" {
			s.TierCounts[r.OverallTier]++
		}
		for _, f := range r.Findings {
			s.AlertCounts[f.Severity]++
			s.TotalFindings++
		}
	}
}

// BuildFindings derives the findings of a scored result: one per grade
// alert, one per fired early-warning condition and one for an elevated
// overall tier.
func BuildFindings(r Result) []types.Finding {
	findings := []types.Finding{}
	add := func(kind string, item int, severity, message string) {
		findings = append(findings, types.Finding{
			Subject:  r.Subject,
			File:     r.File,
			Kind:     kind,
			Item:     item,
			Severity: severity,
			Message:  message,
		})
	}

	if r.Risk != nil && r.OverallTier.Severity() >= scoring.Tier2.Severity() {
		severity := types.FindingWatch
		if r.OverallTier == scoring.Tier3 {
			severity = types.FindingCritical
		}
		add(types.KindRiskTier, 0, severity, fmt.Sprintf("Risco geral %s (externalizante %s, internalizante %s)",
			r.OverallTier, r.Risk.Externalizing.Tier, r.Risk.Internalizing.Tier))
	}

	for _, a := range r.GradeAlerts {
		add(types.KindGradeAlert, a.ItemNumber, alertSeverity(a.Severity), a.Message)
	}

	if r.EWS != nil {
		// Rationale entries follow the fixed attendance, drop, disciplinary order.
		next := 0
		rationale := func() string {
			if next >= len(r.EWS.Rationale) {
				return ""
			}
			msg := r.EWS.Rationale[next]
			next++
			return msg
		}
		if r.EWS.HasAttendanceAlert {
			add(types.KindAttendance, 0, types.FindingCritical, rationale())
		}
		if r.EWS.HasGradeAlert {
			add(types.KindGradeDrop, 0, types.FindingWatch, rationale())
		}
		if r.EWS.HasDisciplinaryAlert {
			add(types.KindDisciplinary, 0, types.FindingCritical, rationale())
		}
	}

	return findings
}

func alertSeverity(s scoring.Severity) string {
	if s == scoring.SeverityCritical {
		return types.FindingCritical
	}
	return types.FindingWatch
}
