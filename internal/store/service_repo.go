package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrServiceNotFound = errors.New("service not found")

// ServiceRepo contains all DB interactions for the service catalog.
type ServiceRepo interface {
	WithTx(tx pgx.Tx) ServiceRepo

	Create(ctx context.Context, svc *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	List(ctx context.Context, clinicID uuid.UUID, includeInactive bool) ([]Service, error)
	Update(ctx context.Context, svc *Service) error
	SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error
}

type PgServiceRepo struct {
	db Querier
}

func NewPgServiceRepo(db Querier) *PgServiceRepo {
	return &PgServiceRepo{db: db}
}

func (r *PgServiceRepo) WithTx(tx pgx.Tx) ServiceRepo {
	return &PgServiceRepo{db: tx}
}

const serviceColumns = `id, clinic_id, name, description, duration_minutes, price, sessions,
	is_active, created_at, updated_at, deleted_at, deleted_by`

func scanService(row pgx.Row) (*Service, error) {
	var s Service

	err := row.Scan(
		&s.ID,
		&s.ClinicID,
		&s.Name,
		&s.Description,
		&s.DurationMinutes,
		&s.Price,
		&s.Sessions,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.DeletedAt,
		&s.DeletedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PgServiceRepo) Create(ctx context.Context, svc *Service) error {
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	if svc.Sessions == nil {
		svc.Sessions = []Session{}
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO services (id, clinic_id, name, description, duration_minutes, price, sessions, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, svc.ID, svc.ClinicID, svc.Name, svc.Description, svc.DurationMinutes, svc.Price, svc.Sessions, svc.IsActive)

	if err := row.Scan(&svc.CreatedAt, &svc.UpdatedAt); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (r *PgServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	return scanService(row)
}

func (r *PgServiceRepo) List(ctx context.Context, clinicID uuid.UUID, includeInactive bool) ([]Service, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE clinic_id = $1
		  AND deleted_at IS NULL
		  AND (is_active OR $2)
		ORDER BY created_at
	`, clinicID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgServiceRepo) Update(ctx context.Context, svc *Service) error {
	if svc.Sessions == nil {
		svc.Sessions = []Session{}
	}

	row := r.db.QueryRow(ctx, `
		UPDATE services
		SET name = $2,
		    description = $3,
		    duration_minutes = $4,
		    price = $5,
		    sessions = $6,
		    is_active = $7,
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`, svc.ID, svc.Name, svc.Description, svc.DurationMinutes, svc.Price, svc.Sessions, svc.IsActive)

	var updatedAt time.Time
	if err := row.Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("update service: %w", err)
	}
	svc.UpdatedAt = updatedAt
	return nil
}

func (r *PgServiceRepo) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE services
		SET deleted_at = now(),
		    deleted_by = $2,
		    is_active = FALSE,
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, deletedBy)
	if err != nil {
		return fmt.Errorf("soft delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}
