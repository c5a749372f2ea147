package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrClinicNotFound = errors.New("clinic not found")

// ClinicRepo contains all DB interactions for clinics.
type ClinicRepo interface {
	WithTx(tx pgx.Tx) ClinicRepo

	Create(ctx context.Context, c *Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	List(ctx context.Context, status ClinicStatus, limit, offset int) ([]Clinic, error)
	Update(ctx context.Context, c *Clinic) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status ClinicStatus) error
}

type PgClinicRepo struct {
	db Querier
}

func NewPgClinicRepo(db Querier) *PgClinicRepo {
	return &PgClinicRepo{db: db}
}

func (r *PgClinicRepo) WithTx(tx pgx.Tx) ClinicRepo {
	return &PgClinicRepo{db: tx}
}

const clinicColumns = `id, owner_id, name, description, phone, address, status,
	max_doctors, max_staff, max_patients, created_at, updated_at, deleted_at`

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic

	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Description,
		&c.Phone,
		&c.Address,
		&c.Status,
		&c.MaxDoctors,
		&c.MaxStaff,
		&c.MaxPatients,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (r *PgClinicRepo) Create(ctx context.Context, c *Clinic) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ClinicActive
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO clinics (id, owner_id, name, description, phone, address, status,
			max_doctors, max_staff, max_patients)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, c.ID, c.OwnerID, c.Name, c.Description, c.Phone, c.Address, c.Status,
		c.MaxDoctors, c.MaxStaff, c.MaxPatients)

	if err := row.Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("insert clinic: %w", err)
	}
	return nil
}

func (r *PgClinicRepo) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+clinicColumns+`
		FROM clinics
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	return scanClinic(row)
}

func (r *PgClinicRepo) List(ctx context.Context, status ClinicStatus, limit, offset int) ([]Clinic, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+clinicColumns+`
		FROM clinics
		WHERE deleted_at IS NULL
		  AND ($1::text IS NULL OR status = $1)
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`, nilIfZeroClinicStatus(status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgClinicRepo) Update(ctx context.Context, c *Clinic) error {
	row := r.db.QueryRow(ctx, `
		UPDATE clinics
		SET name = $2,
		    description = $3,
		    phone = $4,
		    address = $5,
		    max_doctors = $6,
		    max_staff = $7,
		    max_patients = $8,
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`, c.ID, c.Name, c.Description, c.Phone, c.Address, c.MaxDoctors, c.MaxStaff, c.MaxPatients)

	var updatedAt time.Time
	if err := row.Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrClinicNotFound
		}
		return fmt.Errorf("update clinic: %w", err)
	}
	c.UpdatedAt = updatedAt
	return nil
}

func (r *PgClinicRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status ClinicStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE clinics
		SET status = $2,
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, status)
	if err != nil {
		return fmt.Errorf("update clinic status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClinicNotFound
	}
	return nil
}

func nilIfZeroClinicStatus(s ClinicStatus) *string {
	if s == "" {
		return nil
	}
	v := string(s)
	return &v
}
