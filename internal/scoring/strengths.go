package scoring

// StrengthScores validates a VIA answer map and scores all 24 strengths.
// The result follows the definition table order.
func (e *Engine) StrengthScores(answers RawAnswers) ([]StrengthScore, error) {
	if err := ValidateAnswers(answers, itemRange(ViaItemCount), ViaMinValue, ViaMaxValue, ""); err != nil {
		return nil, err
	}

	scores := make([]StrengthScore, 0, len(e.strengths))
	for _, def := range e.strengths {
		rawSum := 0
		for _, item := range def.Items {
			rawSum += answers[item]
		}
		maxPossible := def.MaxPossible()
		scores = append(scores, StrengthScore{
			Strength:        def.Strength,
			Label:           def.Label,
			RawSum:          rawSum,
			MaxPossible:     maxPossible,
			NormalizedScore: Normalize(rawSum, maxPossible),
		})
	}
	return scores, nil
}

// Normalize returns round(rawSum / maxPossible * 100) with halves rounded up.
// It works in integers so results do not depend on float rounding.
func Normalize(rawSum, maxPossible int) int {
	if maxPossible <= 0 {
		return 0
	}
	return (rawSum*200 + maxPossible) / (2 * maxPossible)
}
