package scoring

// Instrument shapes.
const (
	ViaItemCount  = 71
	ViaMinValue   = 0
	ViaMaxValue   = 4
	SRSSItemCount = 12
	SRSSMinValue  = 0
	SRSSMaxValue  = 3

	// SRSSInstrument prefixes SRSS-IE item references in messages.
	SRSSInstrument = "SRSS-IE"
)

// StrengthDefinitions is the VIA item grouping, in report order.
// Item sets are disjoint and together cover all 71 items.
var StrengthDefinitions = []StrengthDefinition{
	{Creativity, "Criatividade", []int{3, 30, 48}},
	{Curiosity, "Curiosidade", []int{1, 26, 50}},
	{Judgment, "Critério", []int{2, 28, 51}},
	{LoveOfLearning, "Amor ao Aprendizado", []int{4, 29, 52}},
	{Perspective, "Perspectiva", []int{5, 31, 53}},
	{Bravery, "Bravura", []int{35, 57, 67}},
	{Perseverance, "Perseverança", []int{6, 32, 54}},
	{Honesty, "Honestidade", []int{7, 33, 55}},
	{Zest, "Vitalidade", []int{8, 34, 56}},
	{Love, "Amor", []int{9, 36, 58}},
	{Kindness, "Bondade", []int{10, 37, 59}},
	{SocialIntelligence, "Inteligência Social", []int{11, 38, 60}},
	{Teamwork, "Trabalho em Equipe", []int{12, 40, 61}},
	{Fairness, "Equidade", []int{13, 41, 62}},
	{Leadership, "Liderança", []int{16, 45, 63}},
	{Forgiveness, "Perdão", []int{17, 46, 65}},
	{Humility, "Humildade", []int{18, 47, 66}},
	{Prudence, "Prudência", []int{19, 23, 68}},
	{SelfRegulation, "Autocontrole", []int{20, 25, 69}},
	{AppreciationOfBeauty, "Apreciação ao Belo", []int{39, 43}},
	{Gratitude, "Gratidão", []int{22, 24, 44}},
	{Hope, "Esperança", []int{15, 27, 49}},
	{Humor, "Humor", []int{14, 42, 64}},
	{Spirituality, "Espiritualidade", []int{21, 70, 71}},
}

// VirtueDefinition groups strengths under a virtue.
type VirtueDefinition struct {
	Virtue    Virtue
	Label     string
	Strengths []CharacterStrength
}

// VirtueDefinitions lists the six virtues in report order.
var VirtueDefinitions = []VirtueDefinition{
	{Wisdom, "Sabedoria", []CharacterStrength{Creativity, Curiosity, Judgment, LoveOfLearning, Perspective}},
	{Courage, "Coragem", []CharacterStrength{Bravery, Perseverance, Honesty, Zest}},
	{Humanity, "Humanidade", []CharacterStrength{Love, Kindness, SocialIntelligence}},
	{Justice, "Justiça", []CharacterStrength{Teamwork, Fairness, Leadership}},
	{Temperance, "Moderação", []CharacterStrength{Forgiveness, Humility, Prudence, SelfRegulation}},
	{Transcendence, "Transcendência", []CharacterStrength{AppreciationOfBeauty, Gratitude, Hope, Humor, Spirituality}},
}

// SRSSItem describes one SRSS-IE item.
type SRSSItem struct {
	Number int
	Label  string
	Domain RiskDomain
}

// SRSSItems is the SRSS-IE item catalog. Items 1-7 are externalizing,
// items 8-12 internalizing.
var SRSSItems = []SRSSItem{
	{1, "Furto / pegar coisas sem permissão", Externalizing},
	{2, "Mentira, trapaça ou dissimulação", Externalizing},
	{3, "Problemas de comportamento (indisciplina ativa)", Externalizing},
	{4, "Rejeição pelos colegas", Externalizing},
	{5, "Baixo desempenho acadêmico", Externalizing},
	{6, "Atitude negativa / desafiadora", Externalizing},
	{7, "Comportamento agressivo", Externalizing},
	{8, "Apatia emocional", Internalizing},
	{9, "Tímido / retraído", Internalizing},
	{10, "Triste / deprimido", Internalizing},
	{11, "Ansioso / nervoso", Internalizing},
	{12, "Solitário", Internalizing},
}

// SRSSItemLabel returns the catalog label of an SRSS-IE item.
func SRSSItemLabel(number int) string {
	for _, item := range SRSSItems {
		if item.Number == number {
			return item.Label
		}
	}
	return ""
}

// TierCutoff is an inclusive score band mapped to a tier.
type TierCutoff struct {
	Min  int      `json:"min"`
	Max  int      `json:"max"`
	Tier RiskTier `json:"tier"`
}

// DomainDefinition fixes a risk domain's items and tier bands.
type DomainDefinition struct {
	Domain  RiskDomain
	Label   string
	Items   []int
	Cutoffs []TierCutoff
}

// MaxPossible is the highest score the domain can reach.
func (d DomainDefinition) MaxPossible() int {
	return len(d.Items) * SRSSMaxValue
}

// Classify maps a domain score to its tier. Scores past the last band
// fall into the most severe tier.
func (d DomainDefinition) Classify(score int) RiskTier {
	for _, c := range d.Cutoffs {
		if score >= c.Min && score <= c.Max {
			return c.Tier
		}
	}
	return d.Cutoffs[len(d.Cutoffs)-1].Tier
}

// ExternalizingDomain and InternalizingDomain hold the SRSS-IE cutoffs.
var (
	ExternalizingDomain = DomainDefinition{
		Domain: Externalizing,
		Label:  "Externalizante",
		Items:  []int{1, 2, 3, 4, 5, 6, 7},
		Cutoffs: []TierCutoff{
			{0, 3, Tier1},
			{4, 8, Tier2},
			{9, 21, Tier3},
		},
	}
	InternalizingDomain = DomainDefinition{
		Domain: Internalizing,
		Label:  "Internalizante",
		Items:  []int{8, 9, 10, 11, 12},
		Cutoffs: []TierCutoff{
			{0, 3, Tier1},
			{4, 5, Tier2},
			{6, 15, Tier3},
		},
	}
)

// GradeRule fires an alert when an item reaches Threshold for a grade.
type GradeRule struct {
	Grade     GradeLevel `json:"grade" yaml:"grade" mapstructure:"grade"`
	Item      int        `json:"item" yaml:"item" mapstructure:"item"`
	Threshold int        `json:"threshold" yaml:"threshold" mapstructure:"threshold"`
	Severity  Severity   `json:"severity" yaml:"severity" mapstructure:"severity"`
	Message   string     `json:"message" yaml:"message" mapstructure:"message"`
}

// DefaultGradeRules is the built-in grade rule table. Only the rules backed
// by observed behavior are listed; add more through configuration.
var DefaultGradeRules = []GradeRule{
	{FirstYear, 4, 2, SeverityCritical, "Rejeição pelos colegas na 1ª série: risco de evasão e isolamento"},
	{FirstYear, 12, 2, SeverityCritical, "Solidão na 1ª série: dificuldade de adaptação ao novo ciclo"},
	{SecondYear, 3, 2, SeverityCritical, "Indisciplina ativa na 2ª série: risco de escalada comportamental"},
	{SecondYear, 6, 2, SeverityCritical, "Atitude desafiadora na 2ª série: conflito com autoridade"},
	{SecondYear, 7, 2, SeverityWatch, "Agressividade na 2ª série: monitorar interações com colegas"},
	{ThirdYear, 5, 2, SeverityCritical, "Baixo desempenho na 3ª série: risco para conclusão do ciclo"},
	{ThirdYear, 11, 2, SeverityCritical, "Ansiedade na 3ª série: pressão de vestibular e transição"},
}

// GradeLevels lists the supported grades in order.
var GradeLevels = []GradeLevel{FirstYear, SecondYear, ThirdYear}
