package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/medrefer-ai/interaction-engine/internal/domain/knowledge"
)

// DrugInteractionAlert maps to the drug_interaction_alert table. The
// triggering interaction is embedded as a snapshot, so later edits to the
// knowledge base never rewrite what a clinician was alerted about. An alert
// is "open" until acknowledged; acknowledgement is one-way.
type DrugInteractionAlert struct {
	ID             uuid.UUID                 `db:"id" json:"id"`
	PatientID      uuid.UUID                 `db:"patient_id" json:"patient_id"`
	PairKey        string                    `db:"pair_key" json:"-"`
	Interaction    knowledge.DrugInteraction `db:"interaction" json:"interaction"`
	Severity       knowledge.Severity        `db:"severity" json:"severity"`
	Acknowledged   bool                      `db:"acknowledged" json:"acknowledged"`
	AcknowledgedBy *string                   `db:"acknowledged_by" json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time                `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	Notes          *string                   `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time                 `db:"updated_at" json:"updated_at"`
}
