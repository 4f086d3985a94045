package alerts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medrefer-ai/interaction-engine/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const alertCols = `id, patient_id, pair_key, interaction, severity,
	acknowledged, acknowledged_by, acknowledged_at, notes, created_at, updated_at`

func (r *repoPG) scanAlert(row pgx.Row) (*DrugInteractionAlert, error) {
	var a DrugInteractionAlert
	err := row.Scan(&a.ID, &a.PatientID, &a.PairKey, &a.Interaction, &a.Severity,
		&a.Acknowledged, &a.AcknowledgedBy, &a.AcknowledgedAt, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *DrugInteractionAlert) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO drug_interaction_alert (id, patient_id, pair_key, interaction, severity, acknowledged)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.PatientID, a.PairKey, a.Interaction, a.Severity, a.Acknowledged)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*DrugInteractionAlert, error) {
	return r.scanAlert(r.conn(ctx).QueryRow(ctx, `SELECT `+alertCols+` FROM drug_interaction_alert WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *DrugInteractionAlert) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE drug_interaction_alert SET acknowledged=$2, acknowledged_by=$3, acknowledged_at=$4, notes=$5, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Acknowledged, a.AcknowledgedBy, a.AcknowledgedAt, a.Notes)
	return err
}

func (r *repoPG) FindOpenByPair(ctx context.Context, patientID uuid.UUID, pairKey string) (*DrugInteractionAlert, error) {
	a, err := r.scanAlert(r.conn(ctx).QueryRow(ctx, `
		SELECT `+alertCols+` FROM drug_interaction_alert
		WHERE patient_id = $1 AND pair_key = $2 AND NOT acknowledged
		ORDER BY created_at DESC LIMIT 1`, patientID, pairKey))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*DrugInteractionAlert, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM drug_interaction_alert WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+alertCols+` FROM drug_interaction_alert
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*DrugInteractionAlert
	for rows.Next() {
		a, err := r.scanAlert(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListOpenByPatient(ctx context.Context, patientID uuid.UUID) ([]*DrugInteractionAlert, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+alertCols+` FROM drug_interaction_alert
		WHERE patient_id = $1 AND NOT acknowledged ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*DrugInteractionAlert
	for rows.Next() {
		a, err := r.scanAlert(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
