package screening

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/screenscore/internal/baseline"
	"github.com/dotcommander/screenscore/internal/config"
	"github.com/dotcommander/screenscore/internal/discovery"
	"github.com/dotcommander/screenscore/internal/scoring"
	"github.com/dotcommander/screenscore/internal/types"
)

// answersYAML renders an item map with every item set to value, then
// applies the overrides.
func answersYAML(section string, count, value int, overrides map[int]int) string {
	var b strings.Builder
	b.WriteString(section + ":\n")
	for i := 1; i <= count; i++ {
		v := value
		if o, ok := overrides[i]; ok {
			v = o
		}
		fmt.Fprintf(&b, "  %d: %d\n", i, v)
	}
	return b.String()
}

func writeSheet(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(root string) *config.Config {
	return &config.Config{
		Root:        root,
		Include:     discovery.DefaultInclude,
		Exclude:     discovery.DefaultExclude,
		Format:      "console",
		FailOn:      config.FailOnCritical,
		Concurrency: 4,
		Parallel:    true,
		Schemas:     config.SchemaConfig{Enabled: true},
	}
}

// seedClass writes one sheet per scenario:
//   - ana: full profile, first-year grade alerts on items 4 and 12
//   - bruno: SRSS only, externalizing TIER_3
//   - carla: indicators only, attendance and grade-drop alerts
func seedClass(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeSheet(t, dir, "turma-a/ana.sheet.yaml", "subject: Ana\ngrade: 1\n"+
		answersYAML("via", scoring.ViaItemCount, 3, nil)+
		answersYAML("srss", scoring.SRSSItemCount, 0, map[int]int{4: 2, 12: 3}))

	writeSheet(t, dir, "turma-a/bruno.sheet.yml", "grade: SECOND_YEAR\n"+
		answersYAML("srss", scoring.SRSSItemCount, 0, map[int]int{1: 3, 2: 3, 5: 3}))

	writeSheet(t, dir, "turma-b/carla.sheet.json",
		`{"subject": "Carla", "indicators": {"attendanceRate": 85, "currentAverage": 6, "previousAverage": 8}}`)

	return dir
}

func runOrchestrator(t *testing.T, cfg *config.Config, opts Options) *Summary {
	t.Helper()
	o, err := NewOrchestrator(cfg, opts)
	require.NoError(t, err)
	summary, err := o.Run(context.Background())
	require.NoError(t, err)
	return summary
}

func resultFor(t *testing.T, s *Summary, subject string) Result {
	t.Helper()
	for _, r := range s.Results {
		if r.Subject == subject {
			return r
		}
	}
	t.Fatalf("no result for subject %q", subject)
	return Result{}
}

func TestOrchestrator_Run(t *testing.T) {
	dir := seedClass(t)
	summary := runOrchestrator(t, testConfig(dir), Options{})

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 3, summary.Scored)
	assert.Equal(t, 0, summary.Failed)

	// Discovery order is by relative path.
	require.Len(t, summary.Results, 3)
	assert.Equal(t, "turma-a/ana.sheet.yaml", summary.Results[0].File)
	assert.Equal(t, "turma-a/bruno.sheet.yml", summary.Results[1].File)
	assert.Equal(t, "turma-b/carla.sheet.json", summary.Results[2].File)

	ana := resultFor(t, summary, "Ana")
	require.NotNil(t, ana.Profile)
	assert.Equal(t, scoring.FirstYear, ana.Grade)
	assert.Equal(t, scoring.Tier1, ana.OverallTier)
	assert.Len(t, ana.Signature, scoring.RankSize)
	require.Len(t, ana.Findings, 2)
	for _, f := range ana.Findings {
		assert.Equal(t, types.KindGradeAlert, f.Kind)
		assert.Equal(t, types.FindingCritical, f.Severity)
		assert.Equal(t, "Ana", f.Subject)
	}
	assert.Equal(t, 4, ana.Findings[0].Item)
	assert.Equal(t, 12, ana.Findings[1].Item)

	bruno := resultFor(t, summary, "bruno")
	assert.Nil(t, bruno.Profile)
	require.NotNil(t, bruno.Risk)
	assert.Equal(t, 9, bruno.Risk.Externalizing.Score)
	assert.Equal(t, scoring.Tier3, bruno.OverallTier)
	require.Len(t, bruno.Findings, 1)
	assert.Equal(t, types.KindRiskTier, bruno.Findings[0].Kind)
	assert.Equal(t, types.FindingCritical, bruno.Findings[0].Severity)

	carla := resultFor(t, summary, "Carla")
	require.NotNil(t, carla.EWS)
	assert.Equal(t, scoring.AlertCritical, carla.EWS.AlertLevel)
	require.Len(t, carla.Findings, 2)
	assert.Equal(t, types.KindAttendance, carla.Findings[0].Kind)
	assert.Equal(t, types.KindGradeDrop, carla.Findings[1].Kind)
	assert.Equal(t, types.FindingWatch, carla.Findings[1].Severity)
	assert.Contains(t, carla.Findings[0].Message, "85.0%")

	assert.Equal(t, 5, summary.TotalFindings)
	assert.Equal(t, 4, summary.AlertCounts[types.FindingCritical])
	assert.Equal(t, 1, summary.AlertCounts[types.FindingWatch])
	assert.Equal(t, 1, summary.TierCounts[scoring.Tier1])
	assert.Equal(t, 1, summary.TierCounts[scoring.Tier3])
}

func TestOrchestrator_SequentialMatchesParallel(t *testing.T) {
	dir := seedClass(t)

	parallel := runOrchestrator(t, testConfig(dir), Options{})
	cfg := testConfig(dir)
	cfg.Parallel = false
	sequential := runOrchestrator(t, cfg, Options{})

	require.Len(t, sequential.Results, len(parallel.Results))
	for i := range parallel.Results {
		assert.Equal(t, parallel.Results[i].File, sequential.Results[i].File)
		assert.Equal(t, parallel.Results[i].Findings, sequential.Results[i].Findings)
	}
}

func TestOrchestrator_SchemaErrors(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir, "bad.sheet.yaml", answersYAML("srss", scoring.SRSSItemCount, 0, map[int]int{1: 9}))

	summary := runOrchestrator(t, testConfig(dir), Options{})

	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 1)
	r := summary.Results[0]
	assert.False(t, r.Success)
	assert.NotEmpty(t, r.Errors)
	assert.Empty(t, r.Findings)
	assert.True(t, summary.ShouldFail(config.FailOnCritical))
	assert.False(t, summary.ShouldFail(config.FailOnNone))
}

func TestOrchestrator_ScoringErrorsPointAtItem(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir, "gap.sheet.yaml", answersYAML("srss", scoring.SRSSItemCount-1, 0, nil))

	summary := runOrchestrator(t, testConfig(dir), Options{})

	require.Len(t, summary.Results, 1)
	r := summary.Results[0]
	assert.False(t, r.Success)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "srss.12", r.Errors[0].Path)
	assert.Contains(t, r.Errors[0].Message, "SRSS-IE 12")
}

func TestOrchestrator_SchemasDisabled(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir, "bad.sheet.yaml", answersYAML("srss", scoring.SRSSItemCount, 0, map[int]int{1: 9}))

	cfg := testConfig(dir)
	cfg.Schemas.Enabled = false
	summary := runOrchestrator(t, cfg, Options{})

	// The engine still rejects the value.
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "srss.1", summary.Results[0].Errors[0].Path)
}

func TestOrchestrator_StringAnswerPointsAtItem(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		t.Run(fmt.Sprintf("schemas=%t", enabled), func(t *testing.T) {
			dir := t.TempDir()
			writeSheet(t, dir, "igor.sheet.yaml", "via:\n  1: \"2\"\n")

			cfg := testConfig(dir)
			cfg.Schemas.Enabled = enabled
			summary := runOrchestrator(t, cfg, Options{})

			require.Len(t, summary.Results, 1)
			require.Len(t, summary.Results[0].Errors, 1)
			e := summary.Results[0].Errors[0]
			assert.Equal(t, "via.1", e.Path)
			assert.Equal(t, `Valor inválido "2" para item 1`, e.Message)
		})
	}
}

func TestOrchestrator_OutOfRangeAnswerUsesEngineMessage(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir, "bad.sheet.yaml", answersYAML("srss", scoring.SRSSItemCount, 0, map[int]int{4: 7}))

	summary := runOrchestrator(t, testConfig(dir), Options{})

	require.Len(t, summary.Results, 1)
	require.Len(t, summary.Results[0].Errors, 1)
	e := summary.Results[0].Errors[0]
	assert.Equal(t, "srss.4", e.Path)
	assert.Equal(t, "Valor inválido 7 para item SRSS-IE 4", e.Message)
}

func TestOrchestrator_EmptySheet(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir, "empty.sheet.yaml", "subject: Nobody\n")

	summary := runOrchestrator(t, testConfig(dir), Options{})

	require.Len(t, summary.Results, 1)
	assert.False(t, summary.Results[0].Success)
	assert.Contains(t, summary.Results[0].Errors[0].Message, "no via, srss or indicators")
}

func TestOrchestrator_GradeRulesFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir, "dani.sheet.yaml", "grade: 3\n"+
		answersYAML("srss", scoring.SRSSItemCount, 0, map[int]int{9: 2}))

	cfg := testConfig(dir)
	cfg.GradeRules = []scoring.GradeRule{
		{Grade: scoring.ThirdYear, Item: 9, Threshold: 2, Severity: scoring.SeverityWatch, Message: "Retraimento na 3ª série"},
	}
	cfg.GradeRulesMode = config.GradeRulesExtend

	summary := runOrchestrator(t, cfg, Options{})

	r := summary.Results[0]
	require.Len(t, r.Findings, 1)
	assert.Equal(t, 9, r.Findings[0].Item)
	assert.Equal(t, types.FindingWatch, r.Findings[0].Severity)
	assert.True(t, summary.ShouldFail(config.FailOnWatch))
	assert.False(t, summary.ShouldFail(config.FailOnCritical))
}

func TestOrchestrator_Baseline(t *testing.T) {
	dir := seedClass(t)

	created := runOrchestrator(t, testConfig(dir), Options{CreateBaseline: true})
	assert.Equal(t, filepath.Join(dir, baseline.DefaultPath), created.BaselineCreated)
	assert.FileExists(t, created.BaselineCreated)

	filtered := runOrchestrator(t, testConfig(dir), Options{UseBaseline: true})
	assert.Equal(t, 5, filtered.BaselineIgnored)
	assert.Equal(t, 0, filtered.TotalFindings)
	assert.False(t, filtered.ShouldFail(config.FailOnWatch))

	// A new alert is not hidden by the old baseline.
	writeSheet(t, dir, "turma-b/eva.sheet.yaml", "grade: 1\n"+
		answersYAML("srss", scoring.SRSSItemCount, 0, map[int]int{4: 3}))
	again := runOrchestrator(t, testConfig(dir), Options{UseBaseline: true})
	assert.Equal(t, 5, again.BaselineIgnored)
	assert.Equal(t, 1, again.TotalFindings)
}

func TestOrchestrator_MissingBaselineIsIgnored(t *testing.T) {
	dir := seedClass(t)
	summary := runOrchestrator(t, testConfig(dir), Options{UseBaseline: true, BaselinePath: "nope.json"})
	assert.Equal(t, 0, summary.BaselineIgnored)
	assert.Equal(t, 5, summary.TotalFindings)
}

func TestOrchestrator_Cancelled(t *testing.T) {
	dir := seedClass(t)
	o, err := NewOrchestrator(testConfig(dir), Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = o.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOrchestrator_Filter(t *testing.T) {
	dir := seedClass(t)
	summary := runOrchestrator(t, testConfig(dir), Options{
		Filter: func(f discovery.File) bool { return strings.HasPrefix(f.RelPath, "turma-b/") },
	})

	require.Len(t, summary.Results, 1)
	assert.Equal(t, 1, summary.TotalFiles)
	assert.Equal(t, "Carla", summary.Results[0].Subject)
	assert.Equal(t, 2, summary.TotalFindings)

	none := runOrchestrator(t, testConfig(dir), Options{
		Filter: func(discovery.File) bool { return false },
	})
	assert.Equal(t, 0, none.TotalFiles)
	assert.Empty(t, none.Results)
}

func TestOrchestrator_ScreenPath(t *testing.T) {
	dir := seedClass(t)
	o, err := NewOrchestrator(testConfig(dir), Options{})
	require.NoError(t, err)

	r, err := o.ScreenPath(filepath.Join(dir, "turma-a", "ana.sheet.yaml"))
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Equal(t, "Ana", r.Subject)

	_, err = o.ScreenPath(filepath.Join(dir, "notes.txt"))
	assert.Error(t, err)
}
