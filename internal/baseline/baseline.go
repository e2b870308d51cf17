package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/dotcommander/screenscore/internal/types"
)

// DefaultPath is where the baseline is written when no path is configured.
const DefaultPath = ".screenscorebaseline.json"

// Baseline represents a snapshot of acknowledged findings that should be hidden
type Baseline struct {
	Version      string   `json:"version"`
	CreatedAt    string   `json:"created_at"`
	Fingerprints []string `json:"fingerprints"`
	index        map[string]bool // For fast lookup
}

// CreateBaseline creates a new baseline from a list of findings
func CreateBaseline(findings []types.Finding) *Baseline {
	fingerprints := make([]string, 0, len(findings))
	index := make(map[string]bool)

	for _, f := range findings {
		fp := fingerprint(f)
		if !index[fp] {
			fingerprints = append(fingerprints, fp)
			index[fp] = true
		}
	}

	// Sort for deterministic output
	sort.Strings(fingerprints)

	return &Baseline{
		Version:      "1.0",
		Fingerprints: fingerprints,
		index:        index,
	}
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}

	b.index = make(map[string]bool, len(b.Fingerprints))
	for _, fp := range b.Fingerprints {
		b.index[fp] = true
	}

	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// IsKnown checks if a finding is in the baseline
func (b *Baseline) IsKnown(f types.Finding) bool {
	if b == nil || b.index == nil {
		return false
	}
	return b.index[fingerprint(f)]
}

// Filter splits findings into those not yet acknowledged and a count of the
// ones the baseline hides.
func (b *Baseline) Filter(findings []types.Finding) ([]types.Finding, int) {
	kept := make([]types.Finding, 0, len(findings))
	ignored := 0
	for _, f := range findings {
		if b.IsKnown(f) {
			ignored++
			continue
		}
		kept = append(kept, f)
	}
	return kept, ignored
}

// fingerprint creates a stable hash of a finding.
// Uses: subject + kind + item + severity + normalized message. The file path
// is left out so moving a sheet keeps its acknowledgements.
func fingerprint(f types.Finding) string {
	msg := normalizeMessage(f.Message)
	data := fmt.Sprintf("%s|%s|%d|%s|%s", f.Subject, f.Kind, f.Item, f.Severity, msg)

	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

var (
	doubleQuoted = regexp.MustCompile(`"[^"]+"`)
	singleQuoted = regexp.MustCompile(`(^|\s)'([^']+)'(\s|$)`)
	number       = regexp.MustCompile(`\b\d+\b`)
)

// normalizeMessage replaces values that drift between screenings (rates,
// averages, counts, quoted names) with placeholders.
func normalizeMessage(msg string) string {
	msg = doubleQuoted.ReplaceAllString(msg, `"*"`)

	// Match only when surrounded by whitespace/start/end to avoid contractions
	msg = singleQuoted.ReplaceAllString(msg, `$1'*'$3`)

	msg = number.ReplaceAllString(msg, `N`)

	msg = strings.Join(strings.Fields(msg), " ")

	return msg
}
