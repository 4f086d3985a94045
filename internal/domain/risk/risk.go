// Package risk computes a patient-level risk summary from a set of detected
// interactions. Everything here is a pure function over its inputs.
package risk

import (
	"github.com/medrefer-ai/interaction-engine/internal/domain/knowledge"
)

// Level is the qualitative classification of a risk score.
type Level string

const (
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
)

const (
	recReviewContraindicated = "Review contraindicated drug combinations with the prescribing physician immediately"
	recConsiderAlternatives  = "Consider alternative medications for major interactions"
	recReviewPendingAlerts   = "Review and acknowledge pending interaction alerts"
	recConsultPharmacist     = "Consult a clinical pharmacist before modifying the regimen"
	recKeepListCurrent       = "Keep the patient's medication list up to date"
)

// Score returns the normalized risk score for a set of interactions: the
// mean of the severity weights. An empty set scores 0.0. The result is
// always within [0, 1].
func Score(interactions []*knowledge.DrugInteraction) float64 {
	if len(interactions) == 0 {
		return 0.0
	}
	var sum float64
	for _, in := range interactions {
		sum += in.Severity.Weight()
	}
	return sum / float64(len(interactions))
}

// Classify maps a score to its qualitative level: low below 0.3, moderate
// from 0.3 up to but not including 0.6, high at 0.6 and above.
func Classify(score float64) Level {
	switch {
	case score >= 0.6:
		return LevelHigh
	case score >= 0.3:
		return LevelModerate
	default:
		return LevelLow
	}
}

// Recommendations produces the ordered guidance list for the given
// interaction set. openAlerts is the number of unacknowledged alerts on the
// patient. The order is fixed: conditional entries by descending urgency,
// then the two standing entries.
func Recommendations(interactions []*knowledge.DrugInteraction, openAlerts int) []string {
	var hasContraindicated, hasMajor bool
	for _, in := range interactions {
		switch in.Severity {
		case knowledge.SeverityContraindicated:
			hasContraindicated = true
		case knowledge.SeverityMajor:
			hasMajor = true
		}
	}

	recs := make([]string, 0, 5)
	if hasContraindicated {
		recs = append(recs, recReviewContraindicated)
	}
	if hasMajor {
		recs = append(recs, recConsiderAlternatives)
	}
	if openAlerts > 0 {
		recs = append(recs, recReviewPendingAlerts)
	}
	recs = append(recs, recConsultPharmacist, recKeepListCurrent)
	return recs
}

// Summary is the full risk assessment returned to callers.
type Summary struct {
	Score           float64                      `json:"score"`
	Level           Level                        `json:"level"`
	Interactions    []*knowledge.DrugInteraction `json:"interactions"`
	OpenAlerts      int                          `json:"open_alerts"`
	Recommendations []string                     `json:"recommendations"`
}

// Summarize assembles a Summary from the interaction set and open alert
// count.
func Summarize(interactions []*knowledge.DrugInteraction, openAlerts int) Summary {
	score := Score(interactions)
	return Summary{
		Score:           score,
		Level:           Classify(score),
		Interactions:    interactions,
		OpenAlerts:      openAlerts,
		Recommendations: Recommendations(interactions, openAlerts),
	}
}
