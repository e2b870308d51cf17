package scoring

// RawAnswers maps an item number to the integer response given for it.
type RawAnswers map[int]int

// CharacterStrength identifies one of the 24 VIA character strengths.
type CharacterStrength string

const (
	Creativity           CharacterStrength = "CREATIVITY"
	Curiosity            CharacterStrength = "CURIOSITY"
	Judgment             CharacterStrength = "JUDGMENT"
	LoveOfLearning       CharacterStrength = "LOVE_OF_LEARNING"
	Perspective          CharacterStrength = "PERSPECTIVE"
	Bravery              CharacterStrength = "BRAVERY"
	Perseverance         CharacterStrength = "PERSEVERANCE"
	Honesty              CharacterStrength = "HONESTY"
	Zest                 CharacterStrength = "ZEST"
	Love                 CharacterStrength = "LOVE"
	Kindness             CharacterStrength = "KINDNESS"
	SocialIntelligence   CharacterStrength = "SOCIAL_INTELLIGENCE"
	Teamwork             CharacterStrength = "TEAMWORK"
	Fairness             CharacterStrength = "FAIRNESS"
	Leadership           CharacterStrength = "LEADERSHIP"
	Forgiveness          CharacterStrength = "FORGIVENESS"
	Humility             CharacterStrength = "HUMILITY"
	Prudence             CharacterStrength = "PRUDENCE"
	SelfRegulation       CharacterStrength = "SELF_REGULATION"
	AppreciationOfBeauty CharacterStrength = "APPRECIATION_OF_BEAUTY"
	Gratitude            CharacterStrength = "GRATITUDE"
	Hope                 CharacterStrength = "HOPE"
	Humor                CharacterStrength = "HUMOR"
	Spirituality         CharacterStrength = "SPIRITUALITY"
)

// StrengthDefinition ties a strength to the questionnaire items that measure it.
type StrengthDefinition struct {
	Strength CharacterStrength
	Label    string
	Items    []int
}

// MaxPossible is the highest raw sum the definition's items can reach.
func (d StrengthDefinition) MaxPossible() int {
	return len(d.Items) * ViaMaxValue
}

// StrengthScore is the scored result for a single strength.
type StrengthScore struct {
	Strength        CharacterStrength `json:"strength"`
	Label           string            `json:"label"`
	RawSum          int               `json:"rawSum"`
	MaxPossible     int               `json:"maxPossible"`
	NormalizedScore int               `json:"normalizedScore"` // 0-100
}

// RiskDomain is one of the two SRSS-IE screening domains.
type RiskDomain string

const (
	Externalizing RiskDomain = "EXTERNALIZING"
	Internalizing RiskDomain = "INTERNALIZING"
)

// RiskTier is the three-level support tier. Higher is more severe.
type RiskTier string

const (
	Tier1 RiskTier = "TIER_1"
	Tier2 RiskTier = "TIER_2"
	Tier3 RiskTier = "TIER_3"
)

// Severity orders tiers so the worst of two can be picked.
func (t RiskTier) Severity() int {
	switch t {
	case Tier3:
		return 3
	case Tier2:
		return 2
	case Tier1:
		return 1
	default:
		return 0
	}
}

// Color returns the traffic-light color that goes with the tier.
func (t RiskTier) Color() RiskColor {
	switch t {
	case Tier3:
		return Red
	case Tier2:
		return Yellow
	default:
		return Green
	}
}

// RiskColor is the traffic-light rendering of a tier.
type RiskColor string

const (
	Green  RiskColor = "GREEN"
	Yellow RiskColor = "YELLOW"
	Red    RiskColor = "RED"
)

// RiskDomainScore is the scored and classified result for one domain.
type RiskDomainScore struct {
	Domain      RiskDomain `json:"domain"`
	Label       string     `json:"label"`
	Score       int        `json:"score"`
	MaxPossible int        `json:"maxPossible"`
	Tier        RiskTier   `json:"tier"`
	Color       RiskColor  `json:"color"`
}

// RiskScores holds both domain results of one SRSS-IE screening.
type RiskScores struct {
	Externalizing RiskDomainScore `json:"externalizing"`
	Internalizing RiskDomainScore `json:"internalizing"`
}

// Severity of a grade alert.
type Severity string

const (
	SeverityWatch    Severity = "WATCH"
	SeverityCritical Severity = "CRITICAL"
)

// GradeLevel is the school year a grade rule applies to.
type GradeLevel string

const (
	FirstYear  GradeLevel = "FIRST_YEAR"
	SecondYear GradeLevel = "SECOND_YEAR"
	ThirdYear  GradeLevel = "THIRD_YEAR"
)

// GradeAlert is a fired grade-specific rule.
type GradeAlert struct {
	ItemNumber int      `json:"itemNumber"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
}

// AlertLevel is the resolved early-warning level.
type AlertLevel string

const (
	AlertNone     AlertLevel = "NONE"
	AlertWatch    AlertLevel = "WATCH"
	AlertCritical AlertLevel = "CRITICAL"
)

// Indicators are the school records the early-warning engine reads.
// PreviousAverage is nil when no earlier period exists.
type Indicators struct {
	AttendanceRate   float64  `json:"attendanceRate"`
	CurrentAverage   float64  `json:"currentAverage"`
	PreviousAverage  *float64 `json:"previousAverage,omitempty"`
	DisciplinaryLogs int      `json:"disciplinaryLogs"`
}

// EWSAlertResult is the outcome of the early-warning evaluation.
type EWSAlertResult struct {
	AlertLevel           AlertLevel `json:"alertLevel"`
	HasAttendanceAlert   bool       `json:"hasAttendanceAlert"`
	HasGradeAlert        bool       `json:"hasGradeAlert"`
	HasDisciplinaryAlert bool       `json:"hasDisciplinaryAlert"`
	Rationale            []string   `json:"rationale"`
}

// Virtue is one of the six VIA virtue families.
type Virtue string

const (
	Wisdom        Virtue = "WISDOM"
	Courage       Virtue = "COURAGE"
	Humanity      Virtue = "HUMANITY"
	Justice       Virtue = "JUSTICE"
	Temperance    Virtue = "TEMPERANCE"
	Transcendence Virtue = "TRANSCENDENCE"
)

// VirtueScore averages the normalized scores of a virtue's strengths.
type VirtueScore struct {
	Virtue    Virtue              `json:"virtue"`
	Label     string              `json:"label"`
	Strengths []CharacterStrength `json:"strengths"`
	Average   float64             `json:"average"` // one decimal
}

// StudentProfile is the consolidated result of both questionnaires.
type StudentProfile struct {
	AllStrengths            []StrengthScore `json:"allStrengths"`
	SignatureStrengths      []StrengthScore `json:"signatureStrengths"`
	DevelopmentAreas        []StrengthScore `json:"developmentAreas"`
	Virtues                 []VirtueScore   `json:"virtues"`
	Externalizing           RiskDomainScore `json:"externalizing"`
	Internalizing           RiskDomainScore `json:"internalizing"`
	OverallTier             RiskTier        `json:"overallTier"`
	OverallColor            RiskColor       `json:"overallColor"`
	GradeAlerts             []GradeAlert    `json:"gradeAlerts"`
	InterventionSuggestions []string        `json:"interventionSuggestions"`
}
