package output

import (
	"time"

	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/screening"
	"github.com/dotcommander/screenscore/internal/types"
)

// sampleSummary holds a full profile with a grade alert, a failed sheet and
// a clean indicators-only sheet.
func sampleSummary() *screening.Summary {
	via, srss := scoring.RawAnswers{}, scoring.RawAnswers{}
	for i := 1; i <= scoring.ViaItemCount; i++ {
		via[i] = 3
	}
	for i := 1; i <= scoring.SRSSItemCount; i++ {
		srss[i] = 0
	}
	srss[1], srss[2], srss[3], srss[4] = 3, 3, 3, 2
	profile, err := scoring.CalculateStudentProfile(via, srss, scoring.FirstYear)
	if err != nil {
		panic(err)
	}

	ana := screening.Result{
		File:        "turma-a/ana.sheet.yaml",
		Subject:     "Ana",
		Grade:       scoring.FirstYear,
		Profile:     &profile,
		Signature:   profile.SignatureStrengths,
		Risk:        &scoring.RiskScores{Externalizing: profile.Externalizing, Internalizing: profile.Internalizing},
		OverallTier: profile.OverallTier,
		GradeAlerts: profile.GradeAlerts,
		Success:     true,
	}
	ana.Findings = screening.BuildFindings(ana)

	ews := scoring.CalculateEWSAlert(scoring.Indicators{AttendanceRate: 97, CurrentAverage: 8})
	carla := screening.Result{
		File:     "turma-b/carla.sheet.json",
		Subject:  "Carla",
		EWS:      &ews,
		Success:  true,
		Findings: []types.Finding{},
	}

	broken := screening.Result{
		File:     "turma-b/broken.sheet.yaml",
		Subject:  "broken",
		Findings: []types.Finding{},
		Errors: []types.ValidationError{{
			File:     "turma-b/broken.sheet.yaml",
			Message:  "Valor inválido 9 para item SRSS-IE 1",
			Severity: types.SeverityError,
			Path:     "srss.1",
		}},
	}

	return &screening.Summary{
		RunID:         "5f1d6c1e-0000-4000-8000-000000000001",
		ProjectRoot:   "/escola",
		StartTime:     time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		Duration:      42,
		TotalFiles:    3,
		Scored:        2,
		Failed:        1,
		TierCounts:    map[scoring.RiskTier]int{scoring.Tier3: 1},
		AlertCounts:   map[string]int{types.FindingCritical: len(ana.Findings)},
		TotalFindings: len(ana.Findings),
		Results:       []screening.Result{ana, broken, carla},
	}
}
