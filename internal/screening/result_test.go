package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/types"
	"github.com/dotcommander/screenscore/internal/visibility"
)

func TestBuildFindings_TierTwoIsWatch(t *testing.T) {
	r := Result{
		Subject:     "leo",
		File:        "leo.sheet.yaml",
		Risk:        &scoring.RiskScores{Externalizing: scoring.RiskDomainScore{Tier: scoring.Tier1}, Internalizing: scoring.RiskDomainScore{Tier: scoring.Tier2}},
		OverallTier: scoring.Tier2,
	}

	findings := BuildFindings(r)

	require.Len(t, findings, 1)
	assert.Equal(t, types.KindRiskTier, findings[0].Kind)
	assert.Equal(t, types.FindingWatch, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "TIER_2")
}

func TestBuildFindings_Empty(t *testing.T) {
	findings := BuildFindings(Result{Subject: "x", OverallTier: scoring.Tier1, Risk: &scoring.RiskScores{}})
	assert.NotNil(t, findings)
	assert.Empty(t, findings)
}

func TestBuildFindings_EWSOrder(t *testing.T) {
	ews := scoring.CalculateEWSAlert(scoring.Indicators{
		AttendanceRate:   99,
		CurrentAverage:   4,
		PreviousAverage:  scoring.Float(8),
		DisciplinaryLogs: 4,
	})
	findings := BuildFindings(Result{Subject: "x", EWS: &ews})

	require.Len(t, findings, 2)
	assert.Equal(t, types.KindGradeDrop, findings[0].Kind)
	assert.Contains(t, findings[0].Message, "50.0%")
	assert.Equal(t, types.KindDisciplinary, findings[1].Kind)
	assert.Equal(t, types.FindingCritical, findings[1].Severity)
}

func TestResult_HighestSeverity(t *testing.T) {
	r := Result{Findings: []types.Finding{{Severity: types.FindingWatch}, {Severity: types.FindingCritical}}}
	assert.Equal(t, types.FindingCritical, r.HighestSeverity())
	assert.Equal(t, "", Result{}.HighestSeverity())
}

func TestSummary_ShouldFail(t *testing.T) {
	watchOnly := &Summary{Results: []Result{{Success: true, Findings: []types.Finding{{Severity: types.FindingWatch}}}}}
	assert.False(t, watchOnly.ShouldFail("critical"))
	assert.True(t, watchOnly.ShouldFail("watch"))
	assert.False(t, watchOnly.ShouldFail("none"))

	clean := &Summary{Results: []Result{{Success: true, Findings: []types.Finding{}}}}
	assert.False(t, clean.ShouldFail("watch"))

	failed := &Summary{Failed: 1}
	assert.True(t, failed.ShouldFail("critical"))
}

func TestSummary_ShouldFailFor(t *testing.T) {
	critical := &Summary{Results: []Result{{Success: true, Findings: []types.Finding{{Severity: types.FindingCritical}}}}}
	assert.True(t, critical.ShouldFailFor("critical", visibility.RoleAdmin))
	assert.True(t, critical.ShouldFailFor("watch", visibility.RoleTeacher))
	assert.False(t, critical.ShouldFailFor("critical", visibility.RoleStudent))

	failed := &Summary{Failed: 1}
	assert.True(t, failed.ShouldFailFor("critical", visibility.RoleStudent))
	assert.False(t, failed.ShouldFailFor("none", visibility.RoleStudent))
}
