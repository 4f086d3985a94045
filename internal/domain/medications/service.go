package medications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medrefer-ai/interaction-engine/pkg/engineerr"
)

// Service exposes the patient medication list.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add records a new medication on a patient's regimen.
func (s *Service) Add(ctx context.Context, m *Medication) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("medication name is required: %w", engineerr.ErrValidation)
	}
	if m.PatientID == uuid.Nil {
		return fmt.Errorf("patient id is required: %w", engineerr.ErrValidation)
	}
	if m.StartDate.IsZero() {
		m.StartDate = time.Now().UTC()
	}
	if m.EndDate != nil && !m.EndDate.After(m.StartDate) {
		return fmt.Errorf("end date must be after start date: %w", engineerr.ErrValidation)
	}
	return s.repo.Create(ctx, m)
}

// Get returns a single medication by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medication, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, engineerr.NotFoundf("medication %s", id)
	}
	return m, nil
}

// ListActive returns the patient's current regimen.
func (s *Service) ListActive(ctx context.Context, patientID uuid.UUID) ([]*Medication, error) {
	meds, err := s.repo.ListActiveByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list active medications: %w", err)
	}
	return meds, nil
}

// List returns a page of the patient's full medication history.
func (s *Service) List(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// Discontinue ends a medication as of now. Discontinuing an already ended
// medication is a no-op.
func (s *Service) Discontinue(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return engineerr.NotFoundf("medication %s", id)
	}
	return s.repo.Discontinue(ctx, id)
}
