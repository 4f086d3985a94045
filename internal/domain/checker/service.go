// Package checker evaluates medication lists against the interaction
// knowledge base. Checks are pure reads; any alerting they trigger happens
// through the AlertSink hook.
package checker

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medrefer-ai/interaction-engine/internal/domain/knowledge"
	"github.com/medrefer-ai/interaction-engine/internal/domain/medications"
	"github.com/medrefer-ai/interaction-engine/internal/platform/metrics"
	"github.com/medrefer-ai/interaction-engine/pkg/engineerr"
)

// KnowledgeBase is the lookup surface the checker needs from the knowledge
// service.
type KnowledgeBase interface {
	Lookup(ctx context.Context, a, b string) (*knowledge.DrugInteraction, bool, error)
}

// MedicationSource supplies a patient's active regimen when the caller does
// not provide one.
type MedicationSource interface {
	ListActive(ctx context.Context, patientID uuid.UUID) ([]*medications.Medication, error)
}

// AlertSink receives interactions that may warrant an alert. Raising is
// best-effort from the checker's point of view; sink failures are logged
// and do not fail the check.
type AlertSink interface {
	Raise(ctx context.Context, patientID uuid.UUID, entry *knowledge.DrugInteraction) error
}

// Service runs interaction checks.
type Service struct {
	kb   KnowledgeBase
	meds MedicationSource
	sink AlertSink
	log  zerolog.Logger
}

func NewService(kb KnowledgeBase, meds MedicationSource, sink AlertSink, log zerolog.Logger) *Service {
	return &Service{kb: kb, meds: meds, sink: sink, log: log}
}

// CheckNewMedication checks a candidate medication against the patient's
// current list and returns the interactions found, most severe first. With
// an empty meds slice the patient's active regimen is loaded. The candidate
// is never checked against itself, even when it already appears on the list.
func (s *Service) CheckNewMedication(ctx context.Context, patientID uuid.UUID, meds []string, newMed string) ([]*knowledge.DrugInteraction, error) {
	if knowledge.NormalizeName(newMed) == "" {
		return nil, fmt.Errorf("new medication name is required: %w", engineerr.ErrValidation)
	}

	meds, err := s.resolveMedications(ctx, patientID, meds)
	if err != nil {
		return nil, err
	}

	metrics.ChecksTotal.WithLabelValues("new_medication").Inc()

	found := make([]*knowledge.DrugInteraction, 0)
	seen := make(map[string]struct{})
	newKey := knowledge.NormalizeName(newMed)
	for _, med := range meds {
		if knowledge.NormalizeName(med) == newKey {
			continue
		}
		entry, ok, err := s.kb.Lookup(ctx, med, newMed)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if _, dup := seen[entry.Key()]; dup {
			continue
		}
		seen[entry.Key()] = struct{}{}
		found = append(found, entry)
	}

	s.finish(ctx, patientID, found)
	return found, nil
}

// CheckMedicationList checks every unordered pair in the list and returns
// the interactions found, most severe first. With an empty list the
// patient's active regimen is loaded. Duplicate names contribute a pair only
// once.
func (s *Service) CheckMedicationList(ctx context.Context, patientID uuid.UUID, meds []string) ([]*knowledge.DrugInteraction, error) {
	meds, err := s.resolveMedications(ctx, patientID, meds)
	if err != nil {
		return nil, err
	}

	metrics.ChecksTotal.WithLabelValues("medication_list").Inc()

	found := make([]*knowledge.DrugInteraction, 0)
	seen := make(map[string]struct{})
	for i := 0; i < len(meds); i++ {
		for j := i + 1; j < len(meds); j++ {
			if knowledge.NormalizeName(meds[i]) == knowledge.NormalizeName(meds[j]) {
				continue
			}
			entry, ok, err := s.kb.Lookup(ctx, meds[i], meds[j])
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if _, dup := seen[entry.Key()]; dup {
				continue
			}
			seen[entry.Key()] = struct{}{}
			found = append(found, entry)
		}
	}

	s.finish(ctx, patientID, found)
	return found, nil
}

func (s *Service) resolveMedications(ctx context.Context, patientID uuid.UUID, meds []string) ([]string, error) {
	if len(meds) > 0 {
		return meds, nil
	}
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("either a medication list or a patient id is required: %w", engineerr.ErrValidation)
	}
	active, err := s.meds.ListActive(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load patient regimen: %w", err)
	}
	names := make([]string, 0, len(active))
	for _, m := range active {
		names = append(names, m.Name)
	}
	return names, nil
}

// finish sorts findings most severe first (pair key breaks ties so output
// is deterministic), records metrics, and forwards them to the alert sink.
func (s *Service) finish(ctx context.Context, patientID uuid.UUID, found []*knowledge.DrugInteraction) {
	sort.Slice(found, func(i, j int) bool {
		if found[i].Severity.Rank() != found[j].Severity.Rank() {
			return found[i].Severity.Rank() > found[j].Severity.Rank()
		}
		return found[i].Key() < found[j].Key()
	})

	for _, entry := range found {
		metrics.InteractionsDetected.WithLabelValues(string(entry.Severity)).Inc()
	}

	if s.sink == nil || patientID == uuid.Nil {
		return
	}
	for _, entry := range found {
		if err := s.sink.Raise(ctx, patientID, entry); err != nil {
			s.log.Error().Err(err).
				Str("patient_id", patientID.String()).
				Str("pair", entry.DrugA+"/"+entry.DrugB).
				Msg("failed to raise alert from check")
		}
	}
}
