package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medrefer-ai/interaction-engine/internal/domain/knowledge"
	"github.com/medrefer-ai/interaction-engine/internal/platform/feed"
	"github.com/medrefer-ai/interaction-engine/internal/platform/metrics"
	"github.com/medrefer-ai/interaction-engine/pkg/engineerr"
)

// Service manages the alert lifecycle: raising, acknowledging, and listing.
// Raise and Acknowledge for the same patient are serialized through a keyed
// mutex, so concurrent checks cannot open duplicate alerts for one pair.
type Service struct {
	repo        Repository
	publisher   feed.Publisher
	notifier    Notifier
	minSeverity knowledge.Severity
	log         zerolog.Logger

	mu       sync.Mutex
	patients map[uuid.UUID]*sync.Mutex
}

func NewService(repo Repository, publisher feed.Publisher, notifier Notifier, minSeverity knowledge.Severity, log zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		publisher:   publisher,
		notifier:    notifier,
		minSeverity: minSeverity,
		log:         log,
		patients:    make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Service) patientLock(patientID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.patients[patientID]
	if !ok {
		lock = &sync.Mutex{}
		s.patients[patientID] = lock
	}
	return lock
}

// Raise opens an alert for the interaction unless one is already open for
// the same patient and pair, in which case the open alert is returned
// unchanged. Interactions below the configured minimum severity return
// (nil, nil). New alerts are published to the feed and handed to the
// notifier.
func (s *Service) Raise(ctx context.Context, patientID uuid.UUID, entry *knowledge.DrugInteraction) (*DrugInteractionAlert, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient id is required: %w", engineerr.ErrValidation)
	}
	if entry == nil {
		return nil, fmt.Errorf("interaction entry is required: %w", engineerr.ErrValidation)
	}
	if !entry.Severity.AtLeast(s.minSeverity) {
		return nil, nil
	}

	lock := s.patientLock(patientID)
	lock.Lock()
	defer lock.Unlock()

	pairKey := entry.Key()
	if open, err := s.repo.FindOpenByPair(ctx, patientID, pairKey); err != nil {
		return nil, fmt.Errorf("find open alert: %w", err)
	} else if open != nil {
		return open, nil
	}

	alert := &DrugInteractionAlert{
		PatientID:   patientID,
		PairKey:     pairKey,
		Interaction: *entry,
		Severity:    entry.Severity,
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}

	metrics.AlertsRaised.Inc()
	s.publish(ctx, alert)
	if err := s.notifier.Notify(ctx, alert); err != nil {
		s.log.Error().Err(err).Str("alert_id", alert.ID.String()).Msg("notifier failed")
	}
	return alert, nil
}

// Acknowledge marks an alert as reviewed. Acknowledging an already
// acknowledged alert succeeds and may update the notes, but never reopens
// the alert or changes who acknowledged it first.
func (s *Service) Acknowledge(ctx context.Context, id uuid.UUID, by string, notes *string) (*DrugInteractionAlert, error) {
	if by == "" {
		return nil, fmt.Errorf("acknowledged_by is required: %w", engineerr.ErrValidation)
	}

	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, engineerr.NotFoundf("alert %s", id)
	}

	lock := s.patientLock(alert.PatientID)
	lock.Lock()
	defer lock.Unlock()

	// re-read under the lock; a concurrent ack may have won
	alert, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, engineerr.NotFoundf("alert %s", id)
	}

	if alert.Acknowledged {
		if notes != nil {
			alert.Notes = notes
			if err := s.repo.Update(ctx, alert); err != nil {
				return nil, fmt.Errorf("update alert notes: %w", err)
			}
		}
		return alert, nil
	}

	now := time.Now().UTC()
	alert.Acknowledged = true
	alert.AcknowledgedBy = &by
	alert.AcknowledgedAt = &now
	if notes != nil {
		alert.Notes = notes
	}
	if err := s.repo.Update(ctx, alert); err != nil {
		return nil, fmt.Errorf("acknowledge alert: %w", err)
	}

	metrics.AlertsAcknowledged.Inc()
	return alert, nil
}

// GetPatientAlerts returns the patient's alerts, most recent first.
func (s *Service) GetPatientAlerts(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*DrugInteractionAlert, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// GetOpenAlerts returns the patient's unacknowledged alerts, most recent
// first.
func (s *Service) GetOpenAlerts(ctx context.Context, patientID uuid.UUID) ([]*DrugInteractionAlert, error) {
	return s.repo.ListOpenByPatient(ctx, patientID)
}

func (s *Service) publish(ctx context.Context, alert *DrugInteractionAlert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		s.log.Error().Err(err).Str("alert_id", alert.ID.String()).Msg("failed to marshal alert for feed")
		return
	}
	event := feed.Event{
		Type:      "alert.raised",
		Topic:     feed.PatientTopic(alert.PatientID.String()),
		PatientID: alert.PatientID.String(),
		Timestamp: time.Now().UTC(),
		Data:      payload,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error().Err(err).Str("alert_id", alert.ID.String()).Msg("failed to publish alert to feed")
	}
}

// Sink adapts the service to the checker's alert hook.
type Sink struct {
	Svc *Service
}

func (s Sink) Raise(ctx context.Context, patientID uuid.UUID, entry *knowledge.DrugInteraction) error {
	_, err := s.Svc.Raise(ctx, patientID, entry)
	return err
}
