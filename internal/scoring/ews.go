package scoring

import "fmt"

// Early-warning thresholds.
const (
	AttendanceThreshold   = 90.0 // alert strictly below
	GradeDropThreshold    = 20.0 // alert strictly above, in percent
	DisciplinaryThreshold = 3    // alert at or above
)

// CalculateEWSAlert combines attendance, grade trend and disciplinary
// records into one early-warning result. Rationale entries follow the fixed
// order attendance, grade drop, disciplinary.
func CalculateEWSAlert(ind Indicators) EWSAlertResult {
	result := EWSAlertResult{
		AlertLevel: AlertNone,
		Rationale:  []string{},
	}
	critical := false

	if ind.AttendanceRate < AttendanceThreshold {
		result.HasAttendanceAlert = true
		critical = true
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("Frequência de %.1f%% abaixo do mínimo de %.0f%%", ind.AttendanceRate, AttendanceThreshold))
	}

	// A zero or negative previous average has no meaningful drop.
	if ind.PreviousAverage != nil && *ind.PreviousAverage > 0 {
		previous := *ind.PreviousAverage
		drop := (previous - ind.CurrentAverage) * 100 / previous
		if drop > GradeDropThreshold {
			result.HasGradeAlert = true
			result.Rationale = append(result.Rationale,
				fmt.Sprintf("Queda de %.1f%% na média acadêmica (%.1f → %.1f)", drop, previous, ind.CurrentAverage))
		}
	}

	if ind.DisciplinaryLogs >= DisciplinaryThreshold {
		result.HasDisciplinaryAlert = true
		critical = true
		result.Rationale = append(result.Rationale,
			fmt.Sprintf("%d ocorrências disciplinares registradas no período", ind.DisciplinaryLogs))
	}

	switch {
	case critical:
		result.AlertLevel = AlertCritical
	case result.HasGradeAlert:
		result.AlertLevel = AlertWatch
	}
	return result
}

// Float returns a pointer to v, for filling Indicators.PreviousAverage.
func Float(v float64) *float64 {
	return &v
}
