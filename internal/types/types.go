// Package types provides shared types used across the screenscore codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

// ValidationError represents a structural problem found in an answer sheet.
type ValidationError struct {
	File     string `json:"file"`
	Message  string `json:"message"`
	Severity string `json:"severity"`       // error, warning
	Path     string `json:"path,omitempty"` // dotted path inside the document, e.g. via.12
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// Severity level constants for validation errors.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Finding is a screening signal raised for one subject.
type Finding struct {
	Subject  string `json:"subject"`
	File     string `json:"file"`
	Kind     string `json:"kind"`
	Item     int    `json:"item,omitempty"` // SRSS-IE item for grade alerts
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Finding severities, ordered watch < critical.
const (
	FindingWatch    = "watch"
	FindingCritical = "critical"
)

// Finding kinds.
const (
	KindGradeAlert   = "grade-alert"
	KindRiskTier     = "risk-tier"
	KindAttendance   = "attendance"
	KindGradeDrop    = "grade-drop"
	KindDisciplinary = "disciplinary"
)

// SeverityRank orders finding severities; unknown values rank zero.
func SeverityRank(severity string) int {
	switch severity {
	case FindingCritical:
		return 2
	case FindingWatch:
		return 1
	default:
		return 0
	}
}
