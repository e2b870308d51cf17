package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/screening"
	"github.com/dotcommander/screenscore/internal/types"
	"github.com/dotcommander/screenscore/internal/visibility"
)

// Version is reported in JSON and Markdown headers.
var Version = "dev"

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	out        io.Writer
	indent     bool
	outputFile string
	viewer     visibility.Role
}

// NewJSONFormatter creates a new JSONFormatter. With an output file the
// report goes there instead of out.
func NewJSONFormatter(out io.Writer, indent bool, outputFile string, viewer visibility.Role) *JSONFormatter {
	return &JSONFormatter{
		out:        out,
		indent:     indent,
		outputFile: outputFile,
		viewer:     viewer,
	}
}

// Format writes the summary as a JSON report.
func (f *JSONFormatter) Format(summary *screening.Summary) error {
	report := BuildJSONReport(summary, f.viewer)

	var data []byte
	var err error
	if f.indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	if f.outputFile != "" {
		if err := os.WriteFile(f.outputFile, data, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", f.outputFile, err)
		}
		return nil
	}
	_, err = fmt.Fprintln(f.out, string(data))
	return err
}

// BuildJSONReport converts a summary into the report document, dropping
// whatever the viewer may not see.
func BuildJSONReport(summary *screening.Summary, viewer visibility.Role) JSONReport {
	report := JSONReport{
		Header: JSONHeader{
			Tool:      "screenscore",
			Version:   Version,
			RunID:     summary.RunID,
			Timestamp: summary.StartTime.Format("2006-01-02T15:04:05Z07:00"),
			Viewer:    viewer,
		},
		Summary: JSONSummary{
			TotalFiles:      summary.TotalFiles,
			Scored:          summary.Scored,
			Failed:          summary.Failed,
			DurationMs:      summary.Duration,
			BaselineIgnored: summary.BaselineIgnored,
		},
		Results: make([]JSONResult, len(summary.Results)),
	}

	showRisk := canSeeRisk(viewer)
	if showRisk {
		report.Summary.TotalFindings = summary.TotalFindings
		report.Summary.TierCounts = summary.TierCounts
		report.Summary.AlertCounts = summary.AlertCounts
	}

	for i, r := range summary.Results {
		jr := JSONResult{
			File:       r.File,
			Subject:    r.Subject,
			Grade:      r.Grade,
			Success:    r.Success,
			DurationMs: r.Duration,
			Signature:  r.Signature,
			Errors:     r.Errors,
		}
		if r.Profile != nil {
			view := visibility.ViewFor(*r.Profile, viewer)
			jr.Profile = &view
		}
		if showRisk {
			jr.OverallTier = r.OverallTier
			jr.EWS = r.EWS
			jr.Findings = r.Findings
			if r.Risk != nil && r.Profile == nil {
				jr.Externalizing = visibility.DomainFor(r.Risk.Externalizing, viewer)
				jr.Internalizing = visibility.DomainFor(r.Risk.Internalizing, viewer)
				jr.GradeAlerts = r.GradeAlerts
			}
		}
		report.Results[i] = jr
	}
	return report
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header  JSONHeader   `json:"header"`
	Summary JSONSummary  `json:"summary"`
	Results []JSONResult `json:"results"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string          `json:"tool"`
	Version   string          `json:"version"`
	RunID     string          `json:"run_id"`
	Timestamp string          `json:"timestamp"`
	Viewer    visibility.Role `json:"viewer"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	TotalFiles      int                      `json:"total_files"`
	Scored          int                      `json:"scored"`
	Failed          int                      `json:"failed"`
	TotalFindings   int                      `json:"total_findings"`
	TierCounts      map[scoring.RiskTier]int `json:"tier_counts,omitempty"`
	AlertCounts     map[string]int           `json:"alert_counts,omitempty"`
	BaselineIgnored int                      `json:"baseline_ignored,omitempty"`
	DurationMs      int64                    `json:"duration_ms"`
}

// JSONResult represents a single sheet's screening result. Profile is set
// for sheets with both questionnaires; the domain fields cover SRSS-only
// sheets.
type JSONResult struct {
	File          string                  `json:"file"`
	Subject       string                  `json:"subject"`
	Grade         scoring.GradeLevel      `json:"grade,omitempty"`
	Success       bool                    `json:"success"`
	DurationMs    int64                   `json:"duration_ms,omitempty"`
	Profile       *visibility.ProfileView `json:"profile,omitempty"`
	Signature     []scoring.StrengthScore `json:"signature_strengths,omitempty"`
	OverallTier   scoring.RiskTier        `json:"overall_tier,omitempty"`
	Externalizing *visibility.DomainView  `json:"externalizing,omitempty"`
	Internalizing *visibility.DomainView  `json:"internalizing,omitempty"`
	GradeAlerts   []scoring.GradeAlert    `json:"grade_alerts,omitempty"`
	EWS           *scoring.EWSAlertResult `json:"ews,omitempty"`
	Findings      []types.Finding         `json:"findings,omitempty"`
	Errors        []types.ValidationError `json:"errors,omitempty"`
}
