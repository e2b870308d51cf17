// Package outputters picks a formatter for the configured output format.
package outputters

import (
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/screenscore/internal/config"
	"github.com/dotcommander/screenscore/internal/output"
	"github.com/dotcommander/screenscore/internal/screening"
)

// Formatter renders a screening summary.
type Formatter interface {
	Format(summary *screening.Summary) error
}

// FormatterFactory builds the formatter for a format name.
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters in package output.
type DefaultFormatterFactory struct {
	cfg *config.Config
	out io.Writer
}

// NewDefaultFormatterFactory creates a factory writing to out.
func NewDefaultFormatterFactory(cfg *config.Config, out io.Writer) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{cfg: cfg, out: out}
}

// CreateFormatter returns the formatter for console, json or markdown.
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	viewer := f.cfg.ViewerRole()
	switch format {
	case "console":
		return output.NewConsoleFormatter(f.out, f.cfg.Quiet, f.cfg.Verbose, viewer), nil
	case "json":
		return output.NewJSONFormatter(f.out, true, f.cfg.Output, viewer), nil
	case "markdown":
		return output.NewMarkdownFormatter(f.out, f.cfg.Verbose, f.cfg.Output, viewer), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
}

// NewOutputter creates a new Outputter writing to out.
func NewOutputter(config *config.Config, out io.Writer) *Outputter {
	return NewOutputterWithFactory(config, NewDefaultFormatterFactory(config, out))
}

// NewOutputterWithFactory creates an Outputter with a custom factory.
func NewOutputterWithFactory(config *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  config,
		factory: factory,
	}
}

// Format formats the summary using the given format
func (o *Outputter) Format(summary *screening.Summary, format string) error {
	if summary.StartTime.IsZero() {
		summary.StartTime = time.Now()
	}
	if summary.ProjectRoot == "" {
		summary.ProjectRoot = o.config.Root
	}

	formatter, err := o.factory.CreateFormatter(format)
	if err != nil {
		return err
	}
	if err := formatter.Format(summary); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	return nil
}
