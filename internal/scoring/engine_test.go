package scoring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	e := New()
	rules := e.GradeRules()
	assert.Len(t, rules, len(DefaultGradeRules))

	// Returned table is a copy.
	rules[0].Threshold = 0
	assert.NotEqual(t, 0, e.GradeRules()[0].Threshold)
}

func TestWithGradeRules(t *testing.T) {
	e := New(WithGradeRules([]GradeRule{
		{Grade: FirstYear, Item: 9, Threshold: 1, Severity: SeverityWatch, Message: "Retraimento"},
	}))

	answers := makeSRSSAnswers(0)
	answers[4] = 3
	answers[9] = 1

	alerts := e.GradeAlerts(answers, FirstYear)
	require.Len(t, alerts, 1)
	assert.Equal(t, 9, alerts[0].ItemNumber)
	assert.Equal(t, SeverityWatch, alerts[0].Severity)
	assert.Equal(t, "Retraimento", alerts[0].Message)
}

func TestWithExtraGradeRules(t *testing.T) {
	e := New(WithExtraGradeRules(
		GradeRule{Grade: FirstYear, Item: 1, Threshold: 3, Severity: SeverityWatch},
		GradeRule{Grade: FirstYear, Item: 12, Threshold: 3, Severity: SeverityWatch},
	))
	assert.Len(t, e.GradeRules(), len(DefaultGradeRules)+1)

	answers := makeSRSSAnswers(0)
	answers[1] = 3
	answers[4] = 2
	answers[12] = 2 // overridden rule now needs 3

	alerts := e.GradeAlerts(answers, FirstYear)
	require.Len(t, alerts, 2)
	assert.Equal(t, 1, alerts[0].ItemNumber)
	assert.Equal(t, 4, alerts[1].ItemNumber)
}

func TestEngine_GeneratedMessage(t *testing.T) {
	e := New(WithGradeRules([]GradeRule{
		{Grade: ThirdYear, Item: 10, Threshold: 2, Severity: SeverityCritical},
	}))
	answers := makeSRSSAnswers(0)
	answers[10] = 2

	alerts := e.GradeAlerts(answers, ThirdYear)
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "Triste / deprimido")
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := New()
	want, err := e.StudentProfile(scenarioVIA(), makeSRSSAnswers(1), SecondYear)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]StudentProfile, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.StudentProfile(scenarioVIA(), makeSRSSAnswers(1), SecondYear)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
