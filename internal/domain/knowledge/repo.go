package knowledge

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for drug interaction entries.
type Repository interface {
	Create(ctx context.Context, d *DrugInteraction) error
	GetByID(ctx context.Context, id uuid.UUID) (*DrugInteraction, error)
	Update(ctx context.Context, d *DrugInteraction) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*DrugInteraction, int, error)
	ListActive(ctx context.Context) ([]*DrugInteraction, error)
}
