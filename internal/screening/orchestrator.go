package screening

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/dotcommander/screenscore/internal/baseline"
	"github.com/dotcommander/screenscore/internal/config"
	"github.com/dotcommander/screenscore/internal/cue"
	"github.com/dotcommander/screenscore/internal/discovery"
	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/sheet"
	"github.com/dotcommander/screenscore/internal/types"
)

// Options holds per-run settings that do not live in the config file.
type Options struct {
	UseBaseline    bool
	CreateBaseline bool
	BaselinePath   string
	Logger         *slog.Logger
	// Filter narrows the discovered sheets; nil screens all of them.
	Filter func(discovery.File) bool
}

// Orchestrator discovers sheets under the configured root, scores them
// concurrently and applies the baseline.
type Orchestrator struct {
	cfg       *config.Config
	opts      Options
	engine    *scoring.Engine
	validator *cue.Validator
	log       *slog.Logger
}

// NewOrchestrator builds an orchestrator. Schemas are compiled up front so a
// broken schema fails the run before any sheet is read.
func NewOrchestrator(cfg *config.Config, opts Options) (*Orchestrator, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	o := &Orchestrator{
		cfg:    cfg,
		opts:   opts,
		engine: scoring.New(cfg.EngineOptions()...),
		log:    log,
	}

	if cfg.Schemas.Enabled {
		o.validator = cue.NewValidator()
		if err := o.validator.LoadSchemas(); err != nil {
			return nil, fmt.Errorf("loading schemas: %w", err)
		}
	}
	return o, nil
}

// Engine returns the scoring engine the orchestrator was built with.
func (o *Orchestrator) Engine() *scoring.Engine {
	return o.engine
}

// Run executes the full screening workflow.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{
		RunID:       uuid.NewString(),
		ProjectRoot: o.cfg.Root,
		StartTime:   start,
	}

	fd := discovery.NewFileDiscovery(o.cfg.Root, o.cfg.Include, o.cfg.Exclude, o.cfg.FollowSymlinks)
	files, err := fd.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("discovering sheets: %w", err)
	}
	if o.opts.Filter != nil {
		kept := files[:0]
		for _, f := range files {
			if o.opts.Filter(f) {
				kept = append(kept, f)
			}
		}
		files = kept
	}
	o.log.Debug("discovered sheets", "count", len(files), "root", o.cfg.Root)

	results := make([]Result, len(files))
	workers := o.cfg.Concurrency
	if !o.cfg.Parallel || workers < 1 {
		workers = 1
	}

	p := pool.New().WithMaxGoroutines(workers)
	for i, f := range files {
		p.Go(func() {
			if ctx.Err() != nil {
				results[i] = failedResult(f.RelPath, f.Path, ctx.Err())
				return
			}
			results[i] = o.screen(f.RelPath, f.Path, []byte(f.Contents))
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if !r.Success {
			o.log.Warn("sheet could not be scored", "file", r.File, "errors", len(r.Errors))
		}
		o.log.Debug("screened sheet", "file", r.File, "tier", r.OverallTier, "findings", len(r.Findings), "ms", r.Duration)
	}
	summary.Results = results

	if err := o.applyBaseline(summary); err != nil {
		return nil, err
	}

	summary.recount()
	summary.Duration = time.Since(start).Milliseconds()
	return summary, nil
}

// ScreenPath loads and screens a single sheet outside of discovery.
func (o *Orchestrator) ScreenPath(path string) (Result, error) {
	if _, err := discovery.ValidateFilePath(path); err != nil {
		return Result{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading sheet: %w", err)
	}
	return o.screen(filepath.ToSlash(path), path, content), nil
}

// screen validates, parses and scores one sheet.
func (o *Orchestrator) screen(file, path string, content []byte) Result {
	start := time.Now()
	r := o.screenContent(file, path, content)
	r.Duration = time.Since(start).Milliseconds()
	return r
}

func (o *Orchestrator) screenContent(file, path string, content []byte) Result {
	r := Result{File: file, Path: path, Subject: sheet.SubjectFromPath(path)}

	if o.validator != nil {
		data, err := sheet.Decode(content)
		if err != nil {
			return failedResult(file, path, err)
		}
		verrs, err := o.validator.ValidateSheet(file, data)
		if err != nil {
			return failedResult(file, path, err)
		}
		if len(verrs) > 0 {
			r.Errors = verrs
			r.Findings = []types.Finding{}
			return r
		}
	}

	s, err := sheet.Parse(path, content)
	if err != nil {
		return failedResult(file, path, err)
	}
	r.Subject = s.Subject
	r.Grade = s.Grade

	o.score(&r, s)
	if len(r.Errors) == 0 {
		r.Success = true
		r.Findings = BuildFindings(r)
	} else {
		r.Findings = []types.Finding{}
	}
	return r
}

// score runs every section the sheet carries. Both questionnaires produce
// the full profile; either one alone produces its own part.
func (o *Orchestrator) score(r *Result, s *sheet.Sheet) {
	switch {
	case s.VIA != nil && s.SRSS != nil:
		profile, err := o.engine.StudentProfile(s.VIA, s.SRSS, s.Grade)
		if err != nil {
			r.Errors = append(r.Errors, answerError(r.File, err))
			break
		}
		r.Profile = &profile
		r.Signature = profile.SignatureStrengths
		r.Risk = &scoring.RiskScores{Externalizing: profile.Externalizing, Internalizing: profile.Internalizing}
		r.OverallTier = profile.OverallTier
		r.GradeAlerts = profile.GradeAlerts

	case s.VIA != nil:
		strengths, err := o.engine.StrengthScores(s.VIA)
		if err != nil {
			r.Errors = append(r.Errors, answerError(r.File, err))
			break
		}
		r.Signature, _ = scoring.RankStrengths(strengths, scoring.RankSize)

	case s.SRSS != nil:
		risk, err := o.engine.RiskScores(s.SRSS)
		if err != nil {
			r.Errors = append(r.Errors, answerError(r.File, err))
			break
		}
		r.Risk = &risk
		r.OverallTier = scoring.WorstTier(risk.Externalizing.Tier, risk.Internalizing.Tier)
		r.GradeAlerts = o.engine.GradeAlerts(s.SRSS, s.Grade)
	}

	if s.Indicators != nil {
		ews := scoring.CalculateEWSAlert(*s.Indicators)
		r.EWS = &ews
	}

	if s.VIA == nil && s.SRSS == nil && s.Indicators == nil {
		r.Errors = append(r.Errors, types.ValidationError{
			File:     r.File,
			Message:  "sheet has no via, srss or indicators section",
			Severity: types.SeverityError,
		})
	}
}

// answerError turns a scoring error into a validation error pointing at the
// offending item, e.g. "srss.4".
func answerError(file string, err error) types.ValidationError {
	ve := types.ValidationError{File: file, Message: err.Error(), Severity: types.SeverityError}
	var ae *scoring.AnswerError
	if errors.As(err, &ae) {
		section := "via"
		if ae.Instrument != "" {
			section = "srss"
		}
		ve.Path = fmt.Sprintf("%s.%d", section, ae.Item)
		ve.Message = ae.Error()
	}
	return ve
}

func failedResult(file, path string, err error) Result {
	return Result{
		File:     file,
		Path:     path,
		Subject:  sheet.SubjectFromPath(path),
		Findings: []types.Finding{},
		Errors:   []types.ValidationError{answerError(file, err)},
	}
}

// resolveBaselinePath places relative baseline paths under the root.
func (o *Orchestrator) resolveBaselinePath() string {
	path := o.opts.BaselinePath
	if path == "" {
		path = baseline.DefaultPath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(o.cfg.Root, path)
	}
	return path
}

// applyBaseline either records every finding as acknowledged or hides the
// findings an existing baseline already knows about.
func (o *Orchestrator) applyBaseline(summary *Summary) error {
	path := o.resolveBaselinePath()

	if o.opts.CreateBaseline {
		b := baseline.CreateBaseline(summary.AllFindings())
		if err := b.SaveBaseline(path); err != nil {
			return fmt.Errorf("saving baseline: %w", err)
		}
		summary.BaselineCreated = path
		o.log.Info("baseline created", "path", path, "findings", len(b.Fingerprints))
		return nil
	}

	if !o.opts.UseBaseline {
		return nil
	}

	b, err := baseline.LoadBaseline(path)
	if err != nil {
		o.log.Warn("failed to load baseline", "path", path, "error", err)
		return nil
	}
	if b == nil {
		return nil
	}

	for i := range summary.Results {
		kept, ignored := b.Filter(summary.Results[i].Findings)
		summary.Results[i].Findings = kept
		summary.BaselineIgnored += ignored
	}
	return nil
}
