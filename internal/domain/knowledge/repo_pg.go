package knowledge

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medrefer-ai/interaction-engine/internal/platform/db"
	"github.com/medrefer-ai/interaction-engine/pkg/engineerr"
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

const interactionCols = `id, drug_a, drug_b, severity, description, mechanism,
	symptoms, recommendations, source, active, created_at, updated_at`

// uniqueViolation is the Postgres error code raised when an insert or update
// collides with the partial unique index on active pair keys.
const uniqueViolation = "23505"

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("an active entry for this drug pair already exists: %w", engineerr.ErrValidation)
	}
	return err
}

func (r *repoPG) scanInteraction(row pgx.Row) (*DrugInteraction, error) {
	var d DrugInteraction
	err := row.Scan(&d.ID, &d.DrugA, &d.DrugB, &d.Severity, &d.Description, &d.Mechanism,
		&d.Symptoms, &d.Recommendations, &d.Source, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *DrugInteraction) error {
	d.ID = uuid.New()
	d.DrugA = NormalizeName(d.DrugA)
	d.DrugB = NormalizeName(d.DrugB)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO drug_interaction (id, drug_a, drug_b, pair_key, severity, description,
			mechanism, symptoms, recommendations, source, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		d.ID, d.DrugA, d.DrugB, d.Key(), d.Severity, d.Description,
		d.Mechanism, d.Symptoms, d.Recommendations, d.Source, d.Active)
	return mapConstraintError(err)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*DrugInteraction, error) {
	return r.scanInteraction(r.conn(ctx).QueryRow(ctx, `SELECT `+interactionCols+` FROM drug_interaction WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *DrugInteraction) error {
	d.DrugA = NormalizeName(d.DrugA)
	d.DrugB = NormalizeName(d.DrugB)
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE drug_interaction SET drug_a=$2, drug_b=$3, pair_key=$4, severity=$5, description=$6,
			mechanism=$7, symptoms=$8, recommendations=$9, source=$10, active=$11, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.DrugA, d.DrugB, d.Key(), d.Severity, d.Description,
		d.Mechanism, d.Symptoms, d.Recommendations, d.Source, d.Active)
	return mapConstraintError(err)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM drug_interaction WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*DrugInteraction, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM drug_interaction`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+interactionCols+` FROM drug_interaction ORDER BY drug_a, drug_b LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*DrugInteraction
	for rows.Next() {
		d, err := r.scanInteraction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListActive(ctx context.Context) ([]*DrugInteraction, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+interactionCols+` FROM drug_interaction WHERE active ORDER BY drug_a, drug_b`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*DrugInteraction
	for rows.Next() {
		d, err := r.scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
