package cue

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/types"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Validator handles CUE validation
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles every CUE schema in the embedded filesystem.
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("compiling schema %s: %w", entry.Name(), instErr)
		}

		// sheet.cue -> sheet
		v.schemas[strings.TrimSuffix(entry.Name(), ".cue")] = inst
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas loaded")
	}
	return nil
}

// ValidateSheet checks a decoded answer sheet against the #Sheet definition.
// A validator without schemas accepts everything.
func (v *Validator) ValidateSheet(file string, data map[string]any) ([]types.ValidationError, error) {
	schema, ok := v.schemas["sheet"]
	if !ok {
		return nil, nil
	}
	return v.validateAgainstSchema(schema, file, data, "#Sheet")
}

// validateAgainstSchema validates data against a CUE definition
func (v *Validator) validateAgainstSchema(schema cue.Value, file string, data map[string]any, definition string) ([]types.ValidationError, error) {
	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("error encoding data: %w", encErr)
	}

	def := schema.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return nil, nil
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return extractErrorsFromCUE(err, file, data), nil
	}

	// Concreteness catches required fields that are still missing
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrorsFromCUE(err, file, data), nil
	}

	return nil, nil
}

// extractErrorsFromCUE turns a CUE error list into one ValidationError per
// distinct message, ordered by path. Errors on a questionnaire answer carry
// the scoring engine's message for that item.
func extractErrorsFromCUE(err error, file string, data map[string]any) []types.ValidationError {
	seen := make(map[string]bool)
	var errs []types.ValidationError
	for _, e := range cueerrors.Errors(err) {
		labels := cuePath(e.Path())
		msg := "Schema validation failed: " + e.Error()
		if ae := answerValueError(labels, data); ae != nil {
			msg = ae.Error()
		}
		if seen[msg] {
			continue
		}
		seen[msg] = true

		errs = append(errs, types.ValidationError{
			File:     file,
			Message:  msg,
			Severity: types.SeverityError,
			Path:     strings.Join(labels, "."),
		})
	}

	if len(errs) == 0 {
		errs = append(errs, types.ValidationError{
			File:     file,
			Message:  fmt.Sprintf("Schema validation failed: %v", err),
			Severity: types.SeverityError,
		})
	}

	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })
	return errs
}

// cuePath drops definition selectors and unquotes labels, so
// [#Sheet srss "4"] becomes [srss 4].
func cuePath(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if strings.HasPrefix(l, "#") {
			continue
		}
		if u, err := strconv.Unquote(l); err == nil {
			l = u
		}
		out = append(out, l)
	}
	return out
}

// answerValueError reports a rejected answer at via.N or srss.N the way the
// scoring engine does. Other paths, and item numbers outside the
// questionnaire, return nil.
func answerValueError(labels []string, data map[string]any) *scoring.AnswerError {
	if len(labels) != 2 {
		return nil
	}
	var instrument string
	var count int
	switch labels[0] {
	case "via":
		count = scoring.ViaItemCount
	case "srss":
		instrument, count = scoring.SRSSInstrument, scoring.SRSSItemCount
	default:
		return nil
	}
	item, err := strconv.Atoi(labels[1])
	if err != nil || item < 1 || item > count || strconv.Itoa(item) != labels[1] {
		return nil
	}
	section, ok := data[labels[0]].(map[string]any)
	if !ok {
		return nil
	}
	value, ok := section[labels[1]]
	if !ok {
		return nil
	}
	return scoring.NewInvalidValue(instrument, item, value)
}
