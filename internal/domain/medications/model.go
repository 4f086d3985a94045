package medications

import (
	"time"

	"github.com/google/uuid"
)

// Medication maps to the patient_medication table. A medication with a nil
// EndDate, or an EndDate in the future, is part of the patient's active
// regimen.
type Medication struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	Name         string     `db:"name" json:"name"`
	Dosage       *string    `db:"dosage" json:"dosage,omitempty"`
	Frequency    *string    `db:"frequency" json:"frequency,omitempty"`
	StartDate    time.Time  `db:"start_date" json:"start_date"`
	EndDate      *time.Time `db:"end_date" json:"end_date,omitempty"`
	PrescribedBy *string    `db:"prescribed_by" json:"prescribed_by,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ActiveAt reports whether the medication is part of the regimen at t.
func (m *Medication) ActiveAt(t time.Time) bool {
	if m.StartDate.After(t) {
		return false
	}
	return m.EndDate == nil || m.EndDate.After(t)
}
