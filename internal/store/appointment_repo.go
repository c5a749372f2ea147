package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// AppointmentFilter narrows List queries. Zero values mean "any".
type AppointmentFilter struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	ClinicID  uuid.UUID
	ServiceID uuid.UUID
	Status    AppointmentStatus
	Limit     int
	Offset    int
}

// AppointmentRepo contains all DB interactions for appointments.
type AppointmentRepo interface {
	WithTx(tx pgx.Tx) AppointmentRepo

	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, f AppointmentFilter) ([]Appointment, error)
	ListByPatientService(ctx context.Context, patientID, serviceID uuid.UUID) ([]Appointment, error)

	// Booking validation lookups
	FirstActiveForSession(ctx context.Context, patientID, serviceID uuid.UUID, sessionID string) (*Appointment, error)
	FirstCompletedForSession(ctx context.Context, patientID, serviceID uuid.UUID, sessionID string) (*Appointment, error)

	// Session removal / service deletion guards
	FirstUpcomingForSessions(ctx context.Context, serviceID uuid.UUID, sessionIDs []string) (*Appointment, error)
	HasActiveByService(ctx context.Context, serviceID uuid.UUID) (bool, error)

	// Clinic lifecycle
	CountActiveByClinic(ctx context.Context, clinicID uuid.UUID) (int, error)
	ReassignClinic(ctx context.Context, fromClinic, toClinic uuid.UUID) (int64, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error)
}

type PgAppointmentRepo struct {
	db Querier
}

func NewPgAppointmentRepo(db Querier) *PgAppointmentRepo {
	return &PgAppointmentRepo{db: db}
}

func (r *PgAppointmentRepo) WithTx(tx pgx.Tx) AppointmentRepo {
	return &PgAppointmentRepo{db: tx}
}

const appointmentColumns = `id, patient_id, doctor_id, clinic_id, service_id, session_id,
	appointment_date, appointment_time, duration_minutes, status, notes, needs_reschedule,
	created_by, is_deleted, deleted_at, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.ClinicID,
		&a.ServiceID,
		&a.SessionID,
		&a.AppointmentDate,
		&a.AppointmentTime,
		&a.DurationMinutes,
		&a.Status,
		&a.Notes,
		&a.NeedsReschedule,
		&a.CreatedBy,
		&a.IsDeleted,
		&a.DeletedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgAppointmentRepo) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, clinic_id, service_id, session_id,
			appointment_date, appointment_time, duration_minutes, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, a.ID, a.PatientID, a.DoctorID, a.ClinicID, a.ServiceID, a.SessionID,
		a.AppointmentDate, a.AppointmentTime, a.DurationMinutes, a.Status, a.Notes, a.CreatedBy)

	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *PgAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1 AND is_deleted = FALSE
	`, id)
	return scanAppointment(row)
}

func (r *PgAppointmentRepo) List(ctx context.Context, f AppointmentFilter) ([]Appointment, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE is_deleted = FALSE
		  AND ($1::uuid IS NULL OR patient_id = $1)
		  AND ($2::uuid IS NULL OR doctor_id = $2)
		  AND ($3::uuid IS NULL OR clinic_id = $3)
		  AND ($4::uuid IS NULL OR service_id = $4)
		  AND ($5::text IS NULL OR status = $5)
		ORDER BY appointment_date, appointment_time
		LIMIT $6 OFFSET $7
	`, nilIfZeroUUID(f.PatientID), nilIfZeroUUID(f.DoctorID), nilIfZeroUUID(f.ClinicID),
		nilIfZeroUUID(f.ServiceID), nilIfZeroStatus(f.Status), limit, f.Offset)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgAppointmentRepo) ListByPatientService(ctx context.Context, patientID, serviceID uuid.UUID) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1 AND service_id = $2 AND is_deleted = FALSE
		ORDER BY created_at
	`, patientID, serviceID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgAppointmentRepo) FirstActiveForSession(ctx context.Context, patientID, serviceID uuid.UUID, sessionID string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1 AND service_id = $2 AND session_id = $3
		  AND status NOT IN ('cancelled', 'no_show')
		  AND is_deleted = FALSE
		LIMIT 1
	`, patientID, serviceID, sessionID)
	return scanAppointment(row)
}

func (r *PgAppointmentRepo) FirstCompletedForSession(ctx context.Context, patientID, serviceID uuid.UUID, sessionID string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1 AND service_id = $2 AND session_id = $3
		  AND status = 'completed'
		  AND is_deleted = FALSE
		LIMIT 1
	`, patientID, serviceID, sessionID)
	return scanAppointment(row)
}

func (r *PgAppointmentRepo) FirstUpcomingForSessions(ctx context.Context, serviceID uuid.UUID, sessionIDs []string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE service_id = $1 AND session_id = ANY($2)
		  AND status IN ('scheduled', 'confirmed')
		  AND is_deleted = FALSE
		LIMIT 1
	`, serviceID, sessionIDs)
	return scanAppointment(row)
}

func (r *PgAppointmentRepo) HasActiveByService(ctx context.Context, serviceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE service_id = $1
			  AND status NOT IN ('completed', 'cancelled', 'no_show')
			  AND is_deleted = FALSE
		)
	`, serviceID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgAppointmentRepo) CountActiveByClinic(ctx context.Context, clinicID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE clinic_id = $1
		  AND status NOT IN ('completed', 'cancelled', 'no_show')
		  AND is_deleted = FALSE
	`, clinicID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ReassignClinic moves every active appointment to the target clinic and
// flags it for rescheduling. Returns the number of moved rows.
func (r *PgAppointmentRepo) ReassignClinic(ctx context.Context, fromClinic, toClinic uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET clinic_id = $2,
		    needs_reschedule = TRUE,
		    updated_at = now()
		WHERE clinic_id = $1
		  AND status NOT IN ('completed', 'cancelled', 'no_show')
		  AND is_deleted = FALSE
	`, fromClinic, toClinic)
	if err != nil {
		return 0, fmt.Errorf("reassign appointments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateStatus performs a compare-and-set status change. Returns
// ErrAppointmentNotFound when the appointment is missing or no longer in the
// expected status.
func (r *PgAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		  AND is_deleted = FALSE
		RETURNING `+appointmentColumns+`
	`, id, to, from)
	return scanAppointment(row)
}

func nilIfZeroUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func nilIfZeroStatus(s AppointmentStatus) *string {
	if s == "" {
		return nil
	}
	v := string(s)
	return &v
}
