package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Audited entity types.
const (
	AuditEntityClinic      = "clinic"
	AuditEntityAppointment = "appointment"
)

// AuditRepo records status changes for later inspection.
type AuditRepo interface {
	WithTx(tx pgx.Tx) AuditRepo

	Insert(ctx context.Context, a *StatusAudit) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]StatusAudit, error)
}

type PgAuditRepo struct {
	db Querier
}

func NewPgAuditRepo(db Querier) *PgAuditRepo {
	return &PgAuditRepo{db: db}
}

func (r *PgAuditRepo) WithTx(tx pgx.Tx) AuditRepo {
	return &PgAuditRepo{db: tx}
}

func (r *PgAuditRepo) Insert(ctx context.Context, a *StatusAudit) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO status_audits (entity_type, entity_id, old_status, new_status, reason, changed_by, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, a.EntityType, a.EntityID, a.OldStatus, a.NewStatus, a.Reason, a.ChangedBy, a.Details)

	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("insert status audit: %w", err)
	}
	return nil
}

func (r *PgAuditRepo) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]StatusAudit, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, entity_type, entity_id, old_status, new_status, reason, changed_by, details, created_at
		FROM status_audits
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
	`, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusAudit
	for rows.Next() {
		var a StatusAudit
		err := rows.Scan(
			&a.ID,
			&a.EntityType,
			&a.EntityID,
			&a.OldStatus,
			&a.NewStatus,
			&a.Reason,
			&a.ChangedBy,
			&a.Details,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
