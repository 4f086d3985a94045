package alerts

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for drug interaction alerts.
type Repository interface {
	Create(ctx context.Context, a *DrugInteractionAlert) error
	GetByID(ctx context.Context, id uuid.UUID) (*DrugInteractionAlert, error)
	Update(ctx context.Context, a *DrugInteractionAlert) error
	// FindOpenByPair returns the unacknowledged alert for the patient and
	// pair, or nil when none is open.
	FindOpenByPair(ctx context.Context, patientID uuid.UUID, pairKey string) (*DrugInteractionAlert, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*DrugInteractionAlert, int, error)
	ListOpenByPatient(ctx context.Context, patientID uuid.UUID) ([]*DrugInteractionAlert, error)
}
