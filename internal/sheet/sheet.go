// Package sheet loads answer sheets: one subject's questionnaire answers and
// school indicators, stored as YAML or JSON.
package sheet

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/screenscore/internal/scoring"
)

// ErrInvalidSheet marks documents whose shape or values cannot be scored.
var ErrInvalidSheet = errors.New("invalid sheet")

// Sheet is a decoded answer sheet. Sections missing from the document are nil.
type Sheet struct {
	Path       string
	Subject    string
	Grade      scoring.GradeLevel // empty when the sheet has no grade
	VIA        scoring.RawAnswers
	SRSS       scoring.RawAnswers
	Indicators *scoring.Indicators

	// Data is the generic document, with every map keyed by string.
	Data map[string]any
}

// Decode turns YAML or JSON content into a generic document. Maps with
// non-string keys (unquoted item numbers) are rekeyed by their text.
func Decode(content []byte) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSheet, err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	return normalizeMap(raw)
}

// Parse decodes content and extracts the typed sections. Item keys must be
// positive integers and answers must be integers; nothing is coerced.
func Parse(path string, content []byte) (*Sheet, error) {
	data, err := Decode(content)
	if err != nil {
		return nil, err
	}

	s := &Sheet{Path: path, Data: data}

	if s.Subject, err = stringField(data, "subject"); err != nil {
		return nil, err
	}
	if s.Subject == "" {
		s.Subject = SubjectFromPath(path)
	}

	if v, ok := data["grade"]; ok && v != nil {
		s.Grade, err = scoring.ParseGradeLevel(fmt.Sprint(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSheet, err)
		}
	}

	if s.VIA, err = answersField(data, "via"); err != nil {
		return nil, err
	}
	if s.SRSS, err = answersField(data, "srss"); err != nil {
		return nil, err
	}
	if s.Indicators, err = indicatorsField(data); err != nil {
		return nil, err
	}
	return s, nil
}

// SubjectFromPath derives a subject name from a sheet file name,
// e.g. "turma-a/igor.sheet.yaml" -> "igor".
func SubjectFromPath(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.TrimSuffix(base, ".sheet")
}

func stringField(data map[string]any, key string) (string, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidSheet, key, v)
	}
	return strings.TrimSpace(s), nil
}

func answersField(data map[string]any, key string) (scoring.RawAnswers, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must map item numbers to answers", ErrInvalidSheet, key)
	}

	instrument := ""
	if key == "srss" {
		instrument = scoring.SRSSInstrument
	}

	answers := make(scoring.RawAnswers, len(m))
	for _, k := range sortedKeys(m) {
		item, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || item < 1 {
			return nil, fmt.Errorf("%w: %s item %q is not a positive integer", ErrInvalidSheet, key, k)
		}
		// "01" and "1" name the same item.
		if _, dup := answers[item]; dup {
			return nil, fmt.Errorf("%w: %s item %d is answered more than once", ErrInvalidSheet, key, item)
		}
		value, ok := asInt(m[k])
		if !ok {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSheet, scoring.NewInvalidValue(instrument, item, m[k]))
		}
		answers[item] = value
	}
	return answers, nil
}

func indicatorsField(data map[string]any) (*scoring.Indicators, error) {
	v, ok := data["indicators"]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: indicators must be a mapping", ErrInvalidSheet)
	}

	ind := &scoring.Indicators{}
	var err error
	if ind.AttendanceRate, err = requiredNumber(m, "attendanceRate"); err != nil {
		return nil, err
	}
	if ind.CurrentAverage, err = requiredNumber(m, "currentAverage"); err != nil {
		return nil, err
	}
	if raw, ok := m["previousAverage"]; ok && raw != nil {
		prev, ok := asFloat(raw)
		if !ok {
			return nil, fmt.Errorf("%w: indicators.previousAverage must be a number", ErrInvalidSheet)
		}
		ind.PreviousAverage = scoring.Float(prev)
	}
	if raw, ok := m["disciplinaryLogs"]; ok && raw != nil {
		logs, ok := asInt(raw)
		if !ok || logs < 0 {
			return nil, fmt.Errorf("%w: indicators.disciplinaryLogs must be a non-negative integer", ErrInvalidSheet)
		}
		ind.DisciplinaryLogs = logs
	}
	return ind, nil
}

func requiredNumber(m map[string]any, key string) (float64, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: indicators.%s is required", ErrInvalidSheet, key)
	}
	f, ok := asFloat(raw)
	if !ok {
		return 0, fmt.Errorf("%w: indicators.%s must be a number", ErrInvalidSheet, key)
	}
	return f, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	if n, ok := asInt(v); ok {
		return float64(n), true
	}
	f, ok := v.(float64)
	return f, ok
}

// normalizeMap rekeys nested map[any]any values so the document can be
// encoded for schema checks. Two keys with the same text are rejected.
func normalizeMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = nv
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		return normalizeMap(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			key := fmt.Sprint(k)
			if _, dup := out[key]; dup {
				return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidSheet, key)
			}
			nv, err := normalizeValue(val)
			if err != nil {
				return nil, err
			}
			out[key] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			nv, err := normalizeValue(val)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return v, nil
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
