package knowledge

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Severity grades the clinical significance of a drug interaction.
type Severity string

const (
	SeverityMinor           Severity = "minor"
	SeverityModerate        Severity = "moderate"
	SeverityMajor           Severity = "major"
	SeverityContraindicated Severity = "contraindicated"
)

var severityRank = map[Severity]int{
	SeverityMinor:           1,
	SeverityModerate:        2,
	SeverityMajor:           3,
	SeverityContraindicated: 4,
}

var severityWeight = map[Severity]float64{
	SeverityMinor:           0.1,
	SeverityModerate:        0.3,
	SeverityMajor:           0.6,
	SeverityContraindicated: 1.0,
}

// ParseSeverity validates a severity string. The zero Severity and false are
// returned for unknown values.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	_, ok := severityRank[sev]
	if !ok {
		return "", false
	}
	return sev, true
}

// Rank returns the ordering position of the severity, with contraindicated
// highest. Unknown severities rank below minor.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Weight returns the numeric contribution of this severity to a risk score.
func (s Severity) Weight() float64 {
	return severityWeight[s]
}

// AtLeast reports whether s is as severe as min or more so.
func (s Severity) AtLeast(min Severity) bool {
	return severityRank[s] >= severityRank[min]
}

// Valid reports whether s is one of the known severity grades.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// DrugInteraction maps to the drug_interaction table. DrugA and DrugB are
// stored in normalized form; the pair is unordered, so lookups for (A, B)
// and (B, A) resolve to the same entry.
type DrugInteraction struct {
	ID              uuid.UUID `db:"id" json:"id"`
	DrugA           string    `db:"drug_a" json:"drug_a"`
	DrugB           string    `db:"drug_b" json:"drug_b"`
	Severity        Severity  `db:"severity" json:"severity"`
	Description     string    `db:"description" json:"description"`
	Mechanism       *string   `db:"mechanism" json:"mechanism,omitempty"`
	Symptoms        []string  `db:"symptoms" json:"symptoms"`
	Recommendations []string  `db:"recommendations" json:"recommendations"`
	Source          *string   `db:"source" json:"source,omitempty"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

var nameFolder = cases.Fold()

// NormalizeName canonicalizes a drug name for matching: surrounding
// whitespace is stripped, interior runs of whitespace collapse to a single
// space, and the result is case-folded.
func NormalizeName(name string) string {
	return nameFolder.String(strings.Join(strings.Fields(name), " "))
}

// pairKeySep never appears in a normalized drug name.
const pairKeySep = "\x1f"

// PairKey builds the canonical lookup key for an unordered drug pair. The
// two normalized names are joined in lexicographic order so that key(A, B)
// equals key(B, A).
func PairKey(a, b string) string {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na > nb {
		na, nb = nb, na
	}
	return na + pairKeySep + nb
}

// Key returns the canonical pair key for this interaction's drugs.
func (d *DrugInteraction) Key() string {
	return PairKey(d.DrugA, d.DrugB)
}

// Matches reports whether the interaction covers the given unordered pair.
func (d *DrugInteraction) Matches(a, b string) bool {
	return d.Key() == PairKey(a, b)
}
