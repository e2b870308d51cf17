package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// RankSize is how many strengths make up the signature and development lists.
const RankSize = 5

// StudentProfile scores both questionnaires and consolidates the results.
func (e *Engine) StudentProfile(via, srss RawAnswers, grade GradeLevel) (StudentProfile, error) {
	strengths, err := e.StrengthScores(via)
	if err != nil {
		return StudentProfile{}, err
	}
	risk, err := e.RiskScores(srss)
	if err != nil {
		return StudentProfile{}, err
	}

	signature, development := RankStrengths(strengths, RankSize)
	overall := WorstTier(risk.Externalizing.Tier, risk.Internalizing.Tier)

	return StudentProfile{
		AllStrengths:            strengths,
		SignatureStrengths:      signature,
		DevelopmentAreas:        development,
		Virtues:                 CalculateVirtueScores(strengths),
		Externalizing:           risk.Externalizing,
		Internalizing:           risk.Internalizing,
		OverallTier:             overall,
		OverallColor:            overall.Color(),
		GradeAlerts:             e.GradeAlerts(srss, grade),
		InterventionSuggestions: InterventionSuggestions(risk, overall, signature),
	}, nil
}

// RankStrengths returns the n highest strengths (descending) and the n
// lowest (ascending, weakest first). Ties keep the input order.
func RankStrengths(scores []StrengthScore, n int) (top, bottom []StrengthScore) {
	if n > len(scores) {
		n = len(scores)
	}

	desc := append([]StrengthScore(nil), scores...)
	sort.SliceStable(desc, func(i, j int) bool {
		return desc[i].NormalizedScore > desc[j].NormalizedScore
	})

	asc := append([]StrengthScore(nil), scores...)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].NormalizedScore < asc[j].NormalizedScore
	})

	return desc[:n], asc[:n]
}

// InterventionSuggestions lists suggested actions for elevated tiers. It is
// empty at TIER_1.
func InterventionSuggestions(risk RiskScores, overall RiskTier, signature []StrengthScore) []string {
	suggestions := []string{}
	if overall.Severity() < Tier2.Severity() {
		return suggestions
	}

	suggestions = append(suggestions, domainSuggestions(risk.Externalizing)...)
	suggestions = append(suggestions, domainSuggestions(risk.Internalizing)...)

	if overall == Tier3 {
		suggestions = append(suggestions,
			"Notificar a equipe gestora e o serviço de psicologia para intervenção imediata")
	}

	if len(signature) > 0 {
		n := 3
		if len(signature) < n {
			n = len(signature)
		}
		labels := make([]string, 0, n)
		for _, s := range signature[:n] {
			labels = append(labels, s.Label)
		}
		suggestions = append(suggestions,
			fmt.Sprintf("Usar as forças de assinatura (%s) como alavanca no plano de intervenção", strings.Join(labels, ", ")))
	}
	return suggestions
}

func domainSuggestions(d RiskDomainScore) []string {
	switch {
	case d.Domain == Externalizing && d.Tier == Tier2:
		return []string{
			"Reforço positivo e combinados de conduta em sala (intervenção em pequeno grupo)",
			"Monitorar comportamento externalizante na próxima janela de triagem",
		}
	case d.Domain == Externalizing && d.Tier == Tier3:
		return []string{
			"Plano de intervenção individual focado em autorregulação e conduta",
			"Envolver a família em acordo de acompanhamento comportamental",
		}
	case d.Domain == Internalizing && d.Tier == Tier2:
		return []string{
			"Rodas de conversa e atividades de vínculo com colegas (intervenção em pequeno grupo)",
			"Monitorar sinais internalizantes na próxima janela de triagem",
		}
	case d.Domain == Internalizing && d.Tier == Tier3:
		return []string{
			"Encaminhamento para acolhimento individual com o psicólogo escolar",
			"Avaliar necessidade de encaminhamento à rede de saúde mental",
		}
	default:
		return nil
	}
}
