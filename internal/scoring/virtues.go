package scoring

import "math"

// CalculateVirtueScores averages strength scores per virtue, rounded to one
// decimal. Strengths missing from scores count as zero.
func CalculateVirtueScores(scores []StrengthScore) []VirtueScore {
	byStrength := make(map[CharacterStrength]int, len(scores))
	for _, s := range scores {
		byStrength[s.Strength] = s.NormalizedScore
	}

	virtues := make([]VirtueScore, 0, len(VirtueDefinitions))
	for _, def := range VirtueDefinitions {
		total := 0
		for _, strength := range def.Strengths {
			total += byStrength[strength]
		}
		average := 0.0
		if len(def.Strengths) > 0 {
			average = math.Round(float64(total)/float64(len(def.Strengths))*10) / 10
		}
		virtues = append(virtues, VirtueScore{
			Virtue:    def.Virtue,
			Label:     def.Label,
			Strengths: append([]CharacterStrength(nil), def.Strengths...),
			Average:   average,
		})
	}
	return virtues
}
