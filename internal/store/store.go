package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
// Repositories run against either, so multi-step writes can reuse the same
// query code inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxFunc is the body of a transactional unit of work.
type TxFunc func(ctx context.Context, tx pgx.Tx) error

// Store bundles the connection pool and all repositories.
type Store struct {
	Pool *pgxpool.Pool

	// TxRunner substitutes the transaction machinery; when nil, WithinTx
	// runs against Pool.
	TxRunner func(ctx context.Context, fn TxFunc) error

	Services     ServiceRepo
	Appointments AppointmentRepo
	Clinics      ClinicRepo
	Users        UserRepo
	Audits       AuditRepo
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{
		Pool:         pool,
		Services:     NewPgServiceRepo(pool),
		Appointments: NewPgAppointmentRepo(pool),
		Clinics:      NewPgClinicRepo(pool),
		Users:        NewPgUserRepo(pool),
		Audits:       NewPgAuditRepo(pool),
	}
}

// WithinTx runs fn inside a transaction. Any error from fn (or a panic)
// rolls the transaction back; otherwise it is committed.
func (s *Store) WithinTx(ctx context.Context, fn TxFunc) error {
	if s.TxRunner != nil {
		return s.TxRunner(ctx, fn)
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
