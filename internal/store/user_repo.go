package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepo contains all DB interactions for users.
type UserRepo interface {
	WithTx(tx pgx.Tx) UserRepo

	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByClinicRole(ctx context.Context, clinicID uuid.UUID, role UserRole) ([]User, error)
	CountByClinicRole(ctx context.Context, clinicID uuid.UUID, role UserRole) (int, error)
	Update(ctx context.Context, u *User) error
	ReassignClinic(ctx context.Context, fromClinic, toClinic uuid.UUID, role UserRole) (int64, error)
}

type PgUserRepo struct {
	db Querier
}

func NewPgUserRepo(db Querier) *PgUserRepo {
	return &PgUserRepo{db: db}
}

func (r *PgUserRepo) WithTx(tx pgx.Tx) UserRepo {
	return &PgUserRepo{db: tx}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, clinic_id,
	is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.ClinicID,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *PgUserRepo) Create(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, clinic_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.ClinicID, u.IsActive)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *PgUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	return scanUser(row)
}

func (r *PgUserRepo) ListByClinicRole(ctx context.Context, clinicID uuid.UUID, role UserRole) ([]User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE clinic_id = $1 AND role = $2 AND is_active
		ORDER BY created_at
	`, clinicID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgUserRepo) CountByClinicRole(ctx context.Context, clinicID uuid.UUID, role UserRole) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE clinic_id = $1 AND role = $2 AND is_active
	`, clinicID, role).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PgUserRepo) Update(ctx context.Context, u *User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $2,
		    password_hash = $3,
		    first_name = $4,
		    last_name = $5,
		    role = $6,
		    clinic_id = $7,
		    is_active = $8,
		    updated_at = now()
		WHERE id = $1
	`, u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.ClinicID, u.IsActive)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ReassignClinic moves every active member with the given role to the target
// clinic. Returns the number of moved rows.
func (r *PgUserRepo) ReassignClinic(ctx context.Context, fromClinic, toClinic uuid.UUID, role UserRole) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET clinic_id = $2,
		    updated_at = now()
		WHERE clinic_id = $1 AND role = $3 AND is_active
	`, fromClinic, toClinic, role)
	if err != nil {
		return 0, fmt.Errorf("reassign users: %w", err)
	}
	return tag.RowsAffected(), nil
}
