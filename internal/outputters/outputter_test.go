package outputters

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dotcommander/screenscore/internal/config"
	"github.com/dotcommander/screenscore/internal/output"
	"github.com/dotcommander/screenscore/internal/screening"
)

// =============================================================================
// Mock Formatter for testing
// =============================================================================

type mockFormatter struct {
	formatCalled bool
	formatError  error
	summary      *screening.Summary
}

func (m *mockFormatter) Format(summary *screening.Summary) error {
	m.formatCalled = true
	m.summary = summary
	return m.formatError
}

type mockFormatterFactory struct {
	createCalled    bool
	requestedFormat string
	formatter       Formatter
	createError     error
}

func (m *mockFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	m.createCalled = true
	m.requestedFormat = format
	if m.createError != nil {
		return nil, m.createError
	}
	return m.formatter, nil
}

// =============================================================================
// Test Outputter
// =============================================================================

func TestNewOutputter(t *testing.T) {
	cfg := &config.Config{Root: "/escola", Format: "console"}

	outputter := NewOutputter(cfg, &bytes.Buffer{})

	if outputter.config != cfg {
		t.Errorf("NewOutputter() config = %v, want %v", outputter.config, cfg)
	}
	if _, ok := outputter.factory.(*DefaultFormatterFactory); !ok {
		t.Errorf("NewOutputter() factory type = %T, want *DefaultFormatterFactory", outputter.factory)
	}
}

func TestOutputter_Format_Success(t *testing.T) {
	mockForm := &mockFormatter{}
	mockFactory := &mockFormatterFactory{formatter: mockForm}
	outputter := NewOutputterWithFactory(&config.Config{Root: "/escola"}, mockFactory)

	summary := &screening.Summary{TotalFiles: 10, Scored: 8, Failed: 2}
	if err := outputter.Format(summary, "markdown"); err != nil {
		t.Errorf("Format() error = %v, want nil", err)
	}

	if mockFactory.requestedFormat != "markdown" {
		t.Errorf("Format() requested format = %s, want 'markdown'", mockFactory.requestedFormat)
	}
	if !mockForm.formatCalled {
		t.Error("Format() did not call formatter.Format()")
	}
	if mockForm.summary != summary {
		t.Error("Format() passed wrong summary to formatter")
	}
}

func TestOutputter_Format_FillsDefaults(t *testing.T) {
	mockForm := &mockFormatter{}
	outputter := NewOutputterWithFactory(&config.Config{Root: "/escola"}, &mockFormatterFactory{formatter: mockForm})

	summary := &screening.Summary{}
	before := time.Now()
	if err := outputter.Format(summary, "console"); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if summary.StartTime.Before(before) {
		t.Error("Format() did not set StartTime")
	}
	if summary.ProjectRoot != "/escola" {
		t.Errorf("Format() ProjectRoot = %q, want /escola", summary.ProjectRoot)
	}
}

func TestOutputter_Format_PreservesExisting(t *testing.T) {
	outputter := NewOutputterWithFactory(&config.Config{Root: "/escola"}, &mockFormatterFactory{formatter: &mockFormatter{}})

	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	summary := &screening.Summary{StartTime: start, ProjectRoot: "/outra"}
	if err := outputter.Format(summary, "console"); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if !summary.StartTime.Equal(start) {
		t.Errorf("Format() StartTime = %v, want %v", summary.StartTime, start)
	}
	if summary.ProjectRoot != "/outra" {
		t.Errorf("Format() ProjectRoot = %q, want /outra", summary.ProjectRoot)
	}
}

func TestOutputter_Format_CreateFormatterError(t *testing.T) {
	mockFactory := &mockFormatterFactory{createError: errors.New("boom")}
	outputter := NewOutputterWithFactory(&config.Config{}, mockFactory)

	err := outputter.Format(&screening.Summary{}, "xml")
	if err == nil || err.Error() != "boom" {
		t.Errorf("Format() error = %v, want boom", err)
	}
}

func TestOutputter_Format_FormatterError(t *testing.T) {
	formatErr := errors.New("disk full")
	outputter := NewOutputterWithFactory(&config.Config{}, &mockFormatterFactory{formatter: &mockFormatter{formatError: formatErr}})

	err := outputter.Format(&screening.Summary{}, "json")
	if !errors.Is(err, formatErr) {
		t.Errorf("Format() error = %v, want wrapped %v", err, formatErr)
	}
}

// =============================================================================
// Test DefaultFormatterFactory
// =============================================================================

func TestDefaultFormatterFactory_CreateFormatter(t *testing.T) {
	cfg := &config.Config{Viewer: "ADMIN"}
	factory := NewDefaultFormatterFactory(cfg, &bytes.Buffer{})

	tests := []struct {
		format   string
		wantType string
	}{
		{"console", "*output.ConsoleFormatter"},
		{"json", "*output.JSONFormatter"},
		{"markdown", "*output.MarkdownFormatter"},
	}
	for _, tt := range tests {
		formatter, err := factory.CreateFormatter(tt.format)
		if err != nil {
			t.Errorf("CreateFormatter(%q) error = %v, want nil", tt.format, err)
			continue
		}
		switch tt.format {
		case "console":
			if _, ok := formatter.(*output.ConsoleFormatter); !ok {
				t.Errorf("CreateFormatter(%q) = %T, want %s", tt.format, formatter, tt.wantType)
			}
		case "json":
			if _, ok := formatter.(*output.JSONFormatter); !ok {
				t.Errorf("CreateFormatter(%q) = %T, want %s", tt.format, formatter, tt.wantType)
			}
		case "markdown":
			if _, ok := formatter.(*output.MarkdownFormatter); !ok {
				t.Errorf("CreateFormatter(%q) = %T, want %s", tt.format, formatter, tt.wantType)
			}
		}
	}
}

func TestDefaultFormatterFactory_CreateFormatter_Unsupported(t *testing.T) {
	factory := NewDefaultFormatterFactory(&config.Config{}, &bytes.Buffer{})

	formatter, err := factory.CreateFormatter("xml")
	if err == nil {
		t.Fatal("CreateFormatter('xml') error = nil, want error")
	}
	if formatter != nil {
		t.Errorf("CreateFormatter('xml') formatter = %v, want nil", formatter)
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("CreateFormatter('xml') error = %v, want unsupported format", err)
	}
}

func TestOutputter_EndToEndJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Root: "/escola", Viewer: "ADMIN"}

	if err := NewOutputter(cfg, &buf).Format(&screening.Summary{RunID: "run-1"}, "json"); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"run_id": "run-1"`) {
		t.Errorf("JSON output missing run id:\n%s", buf.String())
	}
}
