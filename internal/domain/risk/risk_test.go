package risk

import (
	"math"
	"testing"

	"github.com/medrefer-ai/interaction-engine/internal/domain/knowledge"
)

func withSeverities(sevs ...knowledge.Severity) []*knowledge.DrugInteraction {
	out := make([]*knowledge.DrugInteraction, len(sevs))
	for i, s := range sevs {
		out[i] = &knowledge.DrugInteraction{DrugA: "a", DrugB: "b", Severity: s}
	}
	return out
}

func TestScoreEmptyIsZero(t *testing.T) {
	if got := Score(nil); got != 0.0 {
		t.Fatalf("Score(nil) = %v, want 0.0", got)
	}
}

func TestScoreMean(t *testing.T) {
	tests := []struct {
		name string
		sevs []knowledge.Severity
		want float64
	}{
		{"single minor", []knowledge.Severity{knowledge.SeverityMinor}, 0.1},
		{"single contraindicated", []knowledge.Severity{knowledge.SeverityContraindicated}, 1.0},
		{"minor and moderate", []knowledge.Severity{knowledge.SeverityMinor, knowledge.SeverityModerate}, 0.2},
		{"major pair", []knowledge.Severity{knowledge.SeverityMajor, knowledge.SeverityMajor}, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(withSeverities(tt.sevs...))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	all := withSeverities(
		knowledge.SeverityMinor, knowledge.SeverityModerate,
		knowledge.SeverityMajor, knowledge.SeverityContraindicated,
	)
	got := Score(all)
	if got < 0.0 || got > 1.0 {
		t.Fatalf("score %v outside [0,1]", got)
	}
}

func TestScoreMonotonicInSeverity(t *testing.T) {
	order := []knowledge.Severity{
		knowledge.SeverityMinor, knowledge.SeverityModerate,
		knowledge.SeverityMajor, knowledge.SeverityContraindicated,
	}
	prev := -1.0
	for _, sev := range order {
		got := Score(withSeverities(sev))
		if got <= prev {
			t.Fatalf("score for %s (%v) not above previous (%v)", sev, got, prev)
		}
		prev = got
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0.0, LevelLow},
		{0.2, LevelLow},
		{0.29999, LevelLow},
		{0.3, LevelModerate},
		{0.59999, LevelModerate},
		{0.6, LevelHigh},
		{1.0, LevelHigh},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestRecommendationsOrder(t *testing.T) {
	interactions := withSeverities(
		knowledge.SeverityModerate, knowledge.SeverityContraindicated, knowledge.SeverityMajor,
	)
	recs := Recommendations(interactions, 2)
	if len(recs) != 5 {
		t.Fatalf("expected 5 recommendations, got %d", len(recs))
	}
	want := []string{
		recReviewContraindicated,
		recConsiderAlternatives,
		recReviewPendingAlerts,
		recConsultPharmacist,
		recKeepListCurrent,
	}
	for i := range want {
		if recs[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, recs[i], want[i])
		}
	}
}

func TestRecommendationsOnlyConstantsWhenClean(t *testing.T) {
	recs := Recommendations(nil, 0)
	if len(recs) != 2 {
		t.Fatalf("expected only the 2 standing recommendations, got %d", len(recs))
	}
	if recs[0] != recConsultPharmacist || recs[1] != recKeepListCurrent {
		t.Errorf("unexpected standing recommendations: %v", recs)
	}
}

func TestRecommendationsDeterministic(t *testing.T) {
	interactions := withSeverities(knowledge.SeverityMajor)
	a := Recommendations(interactions, 1)
	b := Recommendations(interactions, 1)
	if len(a) != len(b) {
		t.Fatal("recommendation count differs between identical calls")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d differs between identical calls", i)
		}
	}
}

func TestSummarize(t *testing.T) {
	interactions := withSeverities(knowledge.SeverityMajor, knowledge.SeverityMajor)
	s := Summarize(interactions, 1)

	if s.Level != LevelHigh {
		t.Errorf("level = %s, want high", s.Level)
	}
	if math.Abs(s.Score-0.6) > 1e-9 {
		t.Errorf("score = %v, want 0.6", s.Score)
	}
	if s.OpenAlerts != 1 {
		t.Errorf("open alerts = %d, want 1", s.OpenAlerts)
	}
	if len(s.Recommendations) != 4 {
		t.Errorf("expected 4 recommendations (major + pending + 2 standing), got %d", len(s.Recommendations))
	}
}
