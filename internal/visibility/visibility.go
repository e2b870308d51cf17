// Package visibility decides which parts of a student profile each school
// role may see. Teachers get risk tiers without clinical detail; students
// get only their own character strengths.
package visibility

import (
	"fmt"
	"strings"

	"github.com/dotcommander/screenscore/internal/scoring"
)

// Role is the kind of user reading a profile.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleManager      Role = "MANAGER"
	RolePsychologist Role = "PSYCHOLOGIST"
	RoleCounselor    Role = "COUNSELOR"
	RoleTeacher      Role = "TEACHER"
	RoleStudent      Role = "STUDENT"
)

// Roles lists every known role, most privileged first.
var Roles = []Role{RoleAdmin, RoleManager, RolePsychologist, RoleCounselor, RoleTeacher, RoleStudent}

// Permission is a single profile capability.
type Permission string

const (
	ViewOwnStrengths Permission = "VIEW_OWN_STRENGTHS"
	ViewRiskTier     Permission = "VIEW_RISK_TIER"
	ViewRiskDetail   Permission = "VIEW_RISK_DETAIL"
	ViewRawAnswers   Permission = "VIEW_RAW_ANSWERS"
	ViewQualitative  Permission = "VIEW_QUALITATIVE"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin:        {ViewOwnStrengths, ViewRiskTier, ViewRiskDetail, ViewRawAnswers, ViewQualitative},
	RoleManager:      {ViewRiskTier, ViewRiskDetail, ViewRawAnswers, ViewQualitative},
	RolePsychologist: {ViewRiskTier, ViewRiskDetail, ViewRawAnswers, ViewQualitative},
	RoleCounselor:    {ViewRiskTier, ViewRiskDetail, ViewQualitative},
	RoleTeacher:      {ViewRiskTier},
	RoleStudent:      {ViewOwnStrengths},
}

// HasPermission reports whether role holds p. Unknown roles hold nothing.
func HasPermission(role Role, p Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == p {
			return true
		}
	}
	return false
}

// ParseRole accepts role names in any case, plus the Portuguese names used
// by school staff.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "MANAGER", "GESTOR":
		return RoleManager, nil
	case "PSYCHOLOGIST", "PSICOLOGO", "PSICÓLOGO":
		return RolePsychologist, nil
	case "COUNSELOR", "ORIENTADOR":
		return RoleCounselor, nil
	case "TEACHER", "PROFESSOR":
		return RoleTeacher, nil
	case "STUDENT", "ALUNO":
		return RoleStudent, nil
	default:
		return "", fmt.Errorf("invalid role %q: valid roles are ADMIN, MANAGER, PSYCHOLOGIST, COUNSELOR, TEACHER, STUDENT", s)
	}
}

// DomainView is a risk domain as shown to a role. Score and MaxPossible are
// nil when the role only sees the tier.
type DomainView struct {
	Domain      scoring.RiskDomain `json:"domain"`
	Label       string             `json:"label"`
	Score       *int               `json:"score,omitempty"`
	MaxPossible *int               `json:"maxPossible,omitempty"`
	Tier        scoring.RiskTier   `json:"tier"`
	Color       scoring.RiskColor  `json:"color"`
}

// ProfileView is a StudentProfile with the fields a role may not see removed.
type ProfileView struct {
	Role                    Role                    `json:"role"`
	AllStrengths            []scoring.StrengthScore `json:"allStrengths"`
	SignatureStrengths      []scoring.StrengthScore `json:"signatureStrengths"`
	Virtues                 []scoring.VirtueScore   `json:"virtues"`
	DevelopmentAreas        []scoring.StrengthScore `json:"developmentAreas,omitempty"`
	Externalizing           *DomainView             `json:"externalizing,omitempty"`
	Internalizing           *DomainView             `json:"internalizing,omitempty"`
	OverallTier             scoring.RiskTier        `json:"overallTier,omitempty"`
	OverallColor            scoring.RiskColor       `json:"overallColor,omitempty"`
	GradeAlerts             []scoring.GradeAlert    `json:"gradeAlerts,omitempty"`
	InterventionSuggestions []string                `json:"interventionSuggestions,omitempty"`
}

// ShowsRisk reports whether the view carries risk tiers.
func (v ProfileView) ShowsRisk() bool {
	return v.Externalizing != nil
}

// ViewFor filters profile for role. Unknown roles get the student view.
func ViewFor(profile scoring.StudentProfile, role Role) ProfileView {
	if _, known := rolePermissions[role]; !known {
		role = RoleStudent
	}

	view := ProfileView{
		Role:               role,
		AllStrengths:       profile.AllStrengths,
		SignatureStrengths: profile.SignatureStrengths,
		Virtues:            profile.Virtues,
	}

	if !HasPermission(role, ViewRiskTier) {
		return view
	}

	detail := HasPermission(role, ViewRiskDetail)
	view.DevelopmentAreas = profile.DevelopmentAreas
	view.Externalizing = domainView(profile.Externalizing, detail)
	view.Internalizing = domainView(profile.Internalizing, detail)
	view.OverallTier = profile.OverallTier
	view.OverallColor = profile.OverallColor
	view.GradeAlerts = profile.GradeAlerts

	if HasPermission(role, ViewQualitative) {
		view.InterventionSuggestions = profile.InterventionSuggestions
	}
	return view
}

func domainView(d scoring.RiskDomainScore, detail bool) *DomainView {
	v := &DomainView{
		Domain: d.Domain,
		Label:  d.Label,
		Tier:   d.Tier,
		Color:  d.Color,
	}
	if detail {
		score, maxPossible := d.Score, d.MaxPossible
		v.Score = &score
		v.MaxPossible = &maxPossible
	}
	return v
}

// DomainFor returns d as role may see it, or nil when role sees no tiers.
func DomainFor(d scoring.RiskDomainScore, role Role) *DomainView {
	if !HasPermission(role, ViewRiskTier) {
		return nil
	}
	return domainView(d, HasPermission(role, ViewRiskDetail))
}
