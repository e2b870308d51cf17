package format

import (
	"strings"
	"testing"

	"github.com/dotcommander/screenscore/internal/discovery"
)

func TestYAMLFormatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "reorder sheet fields and items",
			input: `srss:
  2: 0
  10: 1
  1: 3
grade: FIRST_YEAR
notes: transferido
subject: Ana
via:
  2: 4
  1: 3
`,
			expected: `subject: Ana
grade: FIRST_YEAR
via:
  1: 3
  2: 4
srss:
  1: 3
  2: 0
  10: 1
notes: transferido
`,
		},
		{
			name: "indicator field order",
			input: `indicators:
  disciplinaryLogs: 1
  previousAverage: 7
  currentAverage: 6.5
  attendanceRate: 92
subject: Caio
`,
			expected: `subject: Caio
indicators:
  attendanceRate: 92
  currentAverage: 6.5
  previousAverage: 7
  disciplinaryLogs: 1
`,
		},
		{
			name: "normalizes indentation",
			input: `subject: Bia
srss:
    1: 0
    2: 1
`,
			expected: `subject: Bia
srss:
  1: 0
  2: 1
`,
		},
		{
			name:     "already formatted",
			input:    "subject: Ana\ngrade: 2\n",
			expected: "subject: Ana\ngrade: 2\n",
		},
	}

	f := &YAMLFormatter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.Format(tt.input)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("Format() mismatch:\ngot:\n%s\nwant:\n%s", result, tt.expected)
			}
		})
	}
}

func TestYAMLFormatter_KeepsComments(t *testing.T) {
	input := "grade: 1 # primeira série\nsubject: Ana\n"

	result, err := (&YAMLFormatter{}).Format(input)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(result, "# primeira série") {
		t.Errorf("comment lost:\n%s", result)
	}
	if !strings.HasPrefix(result, "subject: Ana\n") {
		t.Errorf("subject should lead:\n%s", result)
	}
}

func TestYAMLFormatter_Errors(t *testing.T) {
	for _, input := range []string{"", "- 1\n- 2\n", "subject: [unclosed\n"} {
		result, err := (&YAMLFormatter{}).Format(input)
		if err == nil {
			t.Errorf("Format(%q) expected error", input)
		}
		if result != input {
			t.Errorf("Format(%q) should return the original content on error", input)
		}
	}
}

func TestYAMLFormatter_Idempotent(t *testing.T) {
	input := "via:\n  3: 1\n  1: 2\nsubject: Ana\ngrade: 3\n"
	f := &YAMLFormatter{}

	once, err := f.Format(input)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	twice, err := f.Format(once)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if once != twice {
		t.Errorf("second pass changed output:\n%s\nvs\n%s", once, twice)
	}
}

func TestJSONFormatter(t *testing.T) {
	input := `{"srss": {"2": 0, "10": 2, "1": 1}, "subject": "Caio & Bia", "extra": {"b": 1, "a": 2},
"indicators": {"currentAverage": 6, "attendanceRate": 80.5}}`
	expected := `{
  "subject": "Caio & Bia",
  "srss": {
    "1": 1,
    "2": 0,
    "10": 2
  },
  "indicators": {
    "attendanceRate": 80.5,
    "currentAverage": 6
  },
  "extra": {
    "a": 2,
    "b": 1
  }
}
`

	result, err := (&JSONFormatter{}).Format(input)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if result != expected {
		t.Errorf("Format() mismatch:\ngot:\n%s\nwant:\n%s", result, expected)
	}
}

func TestJSONFormatter_Errors(t *testing.T) {
	for _, input := range []string{"", "[1, 2]", "null", `{"subject": `} {
		if _, err := (&JSONFormatter{}).Format(input); err == nil {
			t.Errorf("Format(%q) expected error", input)
		}
	}
}

func TestNewSheetFormatter(t *testing.T) {
	if _, ok := NewSheetFormatter(discovery.FormatJSON).(*JSONFormatter); !ok {
		t.Error("json sheets should use JSONFormatter")
	}
	if _, ok := NewSheetFormatter(discovery.FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml sheets should use YAMLFormatter")
	}
	if _, ok := NewSheetFormatter(discovery.FormatUnknown).(*YAMLFormatter); !ok {
		t.Error("unknown encodings should fall back to YAMLFormatter")
	}
}

func TestOrderItems(t *testing.T) {
	keys := []string{"10", "x", "2", "1", "a"}
	orderItems(keys)
	want := []string{"1", "2", "10", "a", "x"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("orderItems() = %v, want %v", keys, want)
		}
	}
}

func TestDiff(t *testing.T) {
	original := "grade: 1\nsubject: Ana\n"
	formatted := "subject: Ana\ngrade: 1\n"

	diff := Diff(original, formatted, "ana.sheet.yaml")

	for _, want := range []string{"--- ana.sheet.yaml", "+++ ana.sheet.yaml (formatted)", "- grade: 1", "+ subject: Ana"} {
		if !strings.Contains(diff, want) {
			t.Errorf("Diff() missing %q:\n%s", want, diff)
		}
	}
}

func TestDiffIdentical(t *testing.T) {
	if diff := Diff("subject: Ana\n", "subject: Ana\n", "ana.sheet.yaml"); diff != "" {
		t.Errorf("Diff() of identical content = %q, want empty", diff)
	}
}
