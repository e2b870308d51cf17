package scoring

// makeVIAAnswers returns a complete 71-item answer map with every item set to value.
func makeVIAAnswers(value int) RawAnswers {
	answers := RawAnswers{}
	for i := 1; i <= ViaItemCount; i++ {
		answers[i] = value
	}
	return answers
}

// makeSRSSAnswers returns a complete 12-item answer map with every item set to value.
func makeSRSSAnswers(value int) RawAnswers {
	answers := RawAnswers{}
	for i := 1; i <= SRSSItemCount; i++ {
		answers[i] = value
	}
	return answers
}

func findStrength(scores []StrengthScore, strength CharacterStrength) (StrengthScore, bool) {
	for _, s := range scores {
		if s.Strength == strength {
			return s, true
		}
	}
	return StrengthScore{}, false
}

func strengthNames(scores []StrengthScore) []CharacterStrength {
	names := make([]CharacterStrength, len(scores))
	for i, s := range scores {
		names[i] = s.Strength
	}
	return names
}
