package scoring

// RiskScores validates an SRSS-IE answer map and classifies both domains.
// The domains are scored independently of each other.
func (e *Engine) RiskScores(answers RawAnswers) (RiskScores, error) {
	if err := ValidateAnswers(answers, itemRange(SRSSItemCount), SRSSMinValue, SRSSMaxValue, SRSSInstrument); err != nil {
		return RiskScores{}, err
	}
	return RiskScores{
		Externalizing: scoreDomain(e.externalizing, answers),
		Internalizing: scoreDomain(e.internalizing, answers),
	}, nil
}

func scoreDomain(def DomainDefinition, answers RawAnswers) RiskDomainScore {
	score := 0
	for _, item := range def.Items {
		score += answers[item]
	}
	tier := def.Classify(score)
	return RiskDomainScore{
		Domain:      def.Domain,
		Label:       def.Label,
		Score:       score,
		MaxPossible: def.MaxPossible(),
		Tier:        tier,
		Color:       tier.Color(),
	}
}

// WorstTier returns the more severe of two tiers.
func WorstTier(a, b RiskTier) RiskTier {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}
