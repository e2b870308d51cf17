package scoring

import (
	"fmt"
	"strings"
)

// GradeAlerts evaluates the engine's rules for grade against raw SRSS-IE
// answers. Unanswered items never fire, and a grade without rules yields
// no alerts.
func (e *Engine) GradeAlerts(answers RawAnswers, grade GradeLevel) []GradeAlert {
	alerts := []GradeAlert{}
	for _, rule := range e.gradeRules {
		if rule.Grade != grade {
			continue
		}
		value, ok := answers[rule.Item]
		if !ok || value < rule.Threshold {
			continue
		}
		alerts = append(alerts, GradeAlert{
			ItemNumber: rule.Item,
			Severity:   rule.Severity,
			Message:    ruleMessage(rule),
		})
	}
	return alerts
}

func ruleMessage(rule GradeRule) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fmt.Sprintf("Item %d (%s) atingiu o limiar %d", rule.Item, SRSSItemLabel(rule.Item), rule.Threshold)
}

// ParseGradeLevel accepts the canonical names plus the common short forms
// ("1", "first-year", "primeiro_ano").
func ParseGradeLevel(s string) (GradeLevel, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	switch normalized {
	case "FIRST_YEAR", "1", "FIRST", "PRIMEIRO_ANO":
		return FirstYear, nil
	case "SECOND_YEAR", "2", "SECOND", "SEGUNDO_ANO":
		return SecondYear, nil
	case "THIRD_YEAR", "3", "THIRD", "TERCEIRO_ANO":
		return ThirdYear, nil
	default:
		return "", fmt.Errorf("invalid grade %q: valid grades are FIRST_YEAR, SECOND_YEAR, THIRD_YEAR", s)
	}
}

// ValidateGradeRule checks a rule against the SRSS-IE item and value ranges.
func ValidateGradeRule(rule GradeRule) error {
	if _, err := ParseGradeLevel(string(rule.Grade)); err != nil {
		return err
	}
	if rule.Item < 1 || rule.Item > SRSSItemCount {
		return fmt.Errorf("grade rule item %d out of range 1-%d", rule.Item, SRSSItemCount)
	}
	if rule.Threshold < SRSSMinValue || rule.Threshold > SRSSMaxValue {
		return fmt.Errorf("grade rule threshold %d out of range %d-%d", rule.Threshold, SRSSMinValue, SRSSMaxValue)
	}
	if rule.Severity != SeverityWatch && rule.Severity != SeverityCritical {
		return fmt.Errorf("grade rule severity %q must be WATCH or CRITICAL", rule.Severity)
	}
	return nil
}
