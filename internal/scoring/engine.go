// Package scoring turns raw questionnaire answers into character-strength
// scores, SRSS-IE risk tiers, grade-specific alerts and early-warning signals.
//
// Every function is a pure computation over its inputs: no I/O, no shared
// mutable state. An Engine may be used from any number of goroutines.
package scoring

import "sort"

// Engine scores questionnaires against a fixed set of lookup tables.
// The zero value is not usable; build one with New.
type Engine struct {
	strengths     []StrengthDefinition
	externalizing DomainDefinition
	internalizing DomainDefinition
	gradeRules    []GradeRule
}

// Option configures an Engine.
type Option func(*Engine)

// WithGradeRules replaces the grade rule table.
func WithGradeRules(rules []GradeRule) Option {
	return func(e *Engine) {
		e.gradeRules = append([]GradeRule(nil), rules...)
	}
}

// WithExtraGradeRules adds rules to the table. A rule for a (grade, item)
// pair that already has one replaces it.
func WithExtraGradeRules(rules ...GradeRule) Option {
	return func(e *Engine) {
		for _, r := range rules {
			replaced := false
			for i, existing := range e.gradeRules {
				if existing.Grade == r.Grade && existing.Item == r.Item {
					e.gradeRules[i] = r
					replaced = true
					break
				}
			}
			if !replaced {
				e.gradeRules = append(e.gradeRules, r)
			}
		}
	}
}

// New builds an Engine from the built-in tables and the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		strengths:     StrengthDefinitions,
		externalizing: ExternalizingDomain,
		internalizing: InternalizingDomain,
		gradeRules:    append([]GradeRule(nil), DefaultGradeRules...),
	}
	for _, opt := range opts {
		opt(e)
	}
	// Alerts come out item-ascending within a grade.
	sort.SliceStable(e.gradeRules, func(i, j int) bool {
		return e.gradeRules[i].Item < e.gradeRules[j].Item
	})
	return e
}

// GradeRules returns a copy of the engine's rule table.
func (e *Engine) GradeRules() []GradeRule {
	return append([]GradeRule(nil), e.gradeRules...)
}

var defaultEngine = New()

// CalculateStrengthScores scores the VIA questionnaire with the built-in tables.
func CalculateStrengthScores(answers RawAnswers) ([]StrengthScore, error) {
	return defaultEngine.StrengthScores(answers)
}

// CalculateRiskScores scores the SRSS-IE questionnaire with the built-in cutoffs.
func CalculateRiskScores(answers RawAnswers) (RiskScores, error) {
	return defaultEngine.RiskScores(answers)
}

// GenerateGradeAlerts evaluates the built-in grade rules.
func GenerateGradeAlerts(answers RawAnswers, grade GradeLevel) []GradeAlert {
	return defaultEngine.GradeAlerts(answers, grade)
}

// CalculateStudentProfile builds the consolidated profile with the built-in tables.
func CalculateStudentProfile(via, srss RawAnswers, grade GradeLevel) (StudentProfile, error) {
	return defaultEngine.StudentProfile(via, srss, grade)
}
