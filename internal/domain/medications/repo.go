package medications

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for patient medications.
type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	ListActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*Medication, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Medication, int, error)
	Discontinue(ctx context.Context, id uuid.UUID) error
}
