package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/catalog"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/email"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type BookSessionItem struct {
	SessionID       string
	AppointmentDate time.Time
	AppointmentTime string // "HH:mm"
	Notes           *string
}

type BatchBookRequest struct {
	PatientID uuid.UUID
	DoctorID  *uuid.UUID
	ClinicID  uuid.UUID
	ServiceID uuid.UUID
	Items     []BookSessionItem
}

// BatchFailure is one rejected batch item. Index is the item's position in
// the request.
type BatchFailure struct {
	Index     int           `json:"index"`
	SessionID string        `json:"sessionId"`
	Code      apperror.Code `json:"code"`
	Details   any           `json:"details,omitempty"`
}

type BatchBookResult struct {
	TotalRequested int                 `json:"totalRequested"`
	SuccessCount   int                 `json:"successCount"`
	FailureCount   int                 `json:"failureCount"`
	Failures       []BatchFailure      `json:"failures,omitempty"`
	Appointments   []store.Appointment `json:"appointments,omitempty"`
}

type BookRequest struct {
	PatientID       uuid.UUID
	DoctorID        *uuid.UUID
	ClinicID        uuid.UUID
	ServiceID       uuid.UUID
	SessionID       *string
	AppointmentDate time.Time
	AppointmentTime string
	Notes           *string
}

// EnrichedAppointment carries the owning session's details alongside the
// appointment.
type EnrichedAppointment struct {
	store.Appointment
	SessionName   string `json:"sessionName,omitempty"`
	SessionOrder  int    `json:"sessionOrder,omitempty"`
	TotalSessions int    `json:"totalSessions,omitempty"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Book(ctx context.Context, req BookRequest, createdBy uuid.UUID) (*store.Appointment, error)
	BatchBookSessions(ctx context.Context, req BatchBookRequest, createdBy uuid.UUID) (*BatchBookResult, error)

	GetAppointment(ctx context.Context, id uuid.UUID) (*store.Appointment, error)
	ListAppointments(ctx context.Context, f store.AppointmentFilter) ([]store.Appointment, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, to store.AppointmentStatus, changedBy uuid.UUID) (*store.Appointment, error)

	ValidateSessionReference(ctx context.Context, serviceID uuid.UUID, sessionID string) (*store.Session, error)
	CheckDuplicateSessionBooking(ctx context.Context, patientID, serviceID uuid.UUID, sessionID string) error
	CheckCompletedSessionRebooking(ctx context.Context, patientID, serviceID uuid.UUID, sessionID string) error

	SessionProgress(ctx context.Context, patientID, serviceID uuid.UUID) (*SessionProgressReport, error)
	EnrichAppointmentWithSession(ctx context.Context, appt *store.Appointment) (*EnrichedAppointment, error)
	PopulateSessionInfo(ctx context.Context, appts []store.Appointment) ([]EnrichedAppointment, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	db     *store.Store
	mailer *email.Client
}

// New creates the appointment service. mailer may be nil; notifications are
// best-effort and never fail a booking.
func New(db *store.Store, mailer *email.Client) Service {
	return &appointmentService{db: db, mailer: mailer}
}

// SessionDuration picks the session's own duration, falling back to the
// service default when unset.
func SessionDuration(sess *store.Session, defaultDuration int) int {
	if sess != nil && sess.Duration > 0 {
		return sess.Duration
	}
	return defaultDuration
}

func (s *appointmentService) ValidateSessionReference(ctx context.Context, serviceID uuid.UUID, sessionID string) (*store.Session, error) {
	svc, err := s.loadService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return s.validateSessionOnService(svc, sessionID)
}

func (s *appointmentService) validateSessionOnService(svc *store.Service, sessionID string) (*store.Session, error) {
	if len(svc.Sessions) == 0 {
		return nil, apperror.New(apperror.CodeServiceHasNoSessions)
	}

	sess := catalog.FindSessionByID(svc.Sessions, sessionID)
	if sess == nil {
		return nil, apperror.NewWithDetails(apperror.CodeInvalidSessionID, map[string]any{
			"sessionId":         sessionID,
			"availableSessions": svc.Sessions,
		})
	}
	return sess, nil
}

func (s *appointmentService) CheckDuplicateSessionBooking(ctx context.Context, patientID, serviceID uuid.UUID, sessionID string) error {
	existing, err := s.db.Appointments.FirstActiveForSession(ctx, patientID, serviceID, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrAppointmentNotFound) {
			return nil
		}
		return fmt.Errorf("check duplicate booking: %w", err)
	}

	return apperror.NewWithDetails(apperror.CodeDuplicateSessionBooking, map[string]any{
		"appointmentId": existing.ID,
		"status":        existing.Status,
		"sessionId":     sessionID,
	})
}

func (s *appointmentService) CheckCompletedSessionRebooking(ctx context.Context, patientID, serviceID uuid.UUID, sessionID string) error {
	existing, err := s.db.Appointments.FirstCompletedForSession(ctx, patientID, serviceID, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrAppointmentNotFound) {
			return nil
		}
		return fmt.Errorf("check completed rebooking: %w", err)
	}

	return apperror.NewWithDetails(apperror.CodeCompletedSessionRebooking, map[string]any{
		"appointmentId": existing.ID,
		"completedAt":   existing.UpdatedAt,
		"sessionId":     sessionID,
	})
}

func (s *appointmentService) Book(ctx context.Context, req BookRequest, createdBy uuid.UUID) (*store.Appointment, error) {
	svc, err := s.loadService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	duration := svc.DurationMinutes

	if req.SessionID != nil {
		sess, err := s.validateSessionOnService(svc, *req.SessionID)
		if err != nil {
			return nil, err
		}
		if err := s.CheckDuplicateSessionBooking(ctx, req.PatientID, req.ServiceID, *req.SessionID); err != nil {
			return nil, err
		}
		if err := s.CheckCompletedSessionRebooking(ctx, req.PatientID, req.ServiceID, *req.SessionID); err != nil {
			return nil, err
		}
		duration = SessionDuration(sess, svc.DurationMinutes)
	}

	appt := &store.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		ClinicID:        req.ClinicID,
		ServiceID:       req.ServiceID,
		SessionID:       req.SessionID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		DurationMinutes: duration,
		Status:          store.StatusScheduled,
		Notes:           req.Notes,
		CreatedBy:       createdBy,
	}

	if err := s.db.Appointments.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("book appointment: %w", err)
	}
	return appt, nil
}

// BatchBookSessions books several treatment sessions at once. Every item is
// validated first, in input order, and ALL failures are collected; a single
// failure means nothing is inserted. A fully valid batch is inserted inside
// one transaction, again in input order.
func (s *appointmentService) BatchBookSessions(ctx context.Context, req BatchBookRequest, createdBy uuid.UUID) (*BatchBookResult, error) {
	svc, err := s.loadService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if len(svc.Sessions) == 0 {
		return nil, apperror.New(apperror.CodeServiceHasNoSessions)
	}

	var failures []BatchFailure
	sessions := make([]*store.Session, len(req.Items))

	for i, item := range req.Items {
		sess, err := s.validateSessionOnService(svc, item.SessionID)
		if err != nil {
			failures = append(failures, toBatchFailure(i, item.SessionID, err))
			continue
		}
		sessions[i] = sess

		if err := s.CheckDuplicateSessionBooking(ctx, req.PatientID, req.ServiceID, item.SessionID); err != nil {
			if _, ok := apperror.AsError(err); !ok {
				return nil, err
			}
			failures = append(failures, toBatchFailure(i, item.SessionID, err))
		}

		if err := s.CheckCompletedSessionRebooking(ctx, req.PatientID, req.ServiceID, item.SessionID); err != nil {
			if _, ok := apperror.AsError(err); !ok {
				return nil, err
			}
			failures = append(failures, toBatchFailure(i, item.SessionID, err))
		}
	}

	if len(failures) > 0 {
		result := &BatchBookResult{
			TotalRequested: len(req.Items),
			SuccessCount:   0,
			FailureCount:   len(failures),
			Failures:       failures,
		}
		return nil, apperror.NewWithDetails(apperror.CodeBatchBookingFailed, result)
	}

	booked := make([]store.Appointment, 0, len(req.Items))
	err = s.db.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := s.db.Appointments.WithTx(tx)
		for i, item := range req.Items {
			sessionID := item.SessionID
			appt := &store.Appointment{
				PatientID:       req.PatientID,
				DoctorID:        req.DoctorID,
				ClinicID:        req.ClinicID,
				ServiceID:       req.ServiceID,
				SessionID:       &sessionID,
				AppointmentDate: item.AppointmentDate,
				AppointmentTime: item.AppointmentTime,
				DurationMinutes: SessionDuration(sessions[i], svc.DurationMinutes),
				Status:          store.StatusScheduled,
				Notes:           item.Notes,
				CreatedBy:       createdBy,
			}
			if err := repo.Create(ctx, appt); err != nil {
				return err
			}
			booked = append(booked, *appt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, req.PatientID, svc, booked)

	return &BatchBookResult{
		TotalRequested: len(req.Items),
		SuccessCount:   len(booked),
		FailureCount:   0,
		Appointments:   booked,
	}, nil
}

func toBatchFailure(index int, sessionID string, err error) BatchFailure {
	f := BatchFailure{Index: index, SessionID: sessionID}
	if e, ok := apperror.AsError(err); ok {
		f.Code = e.Code
		f.Details = e.Details
	}
	return f
}

func (s *appointmentService) GetAppointment(ctx context.Context, id uuid.UUID) (*store.Appointment, error) {
	appt, err := s.db.Appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrAppointmentNotFound) {
			return nil, apperror.New(apperror.CodeAppointmentNotFound)
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

func (s *appointmentService) ListAppointments(ctx context.Context, f store.AppointmentFilter) ([]store.Appointment, error) {
	appts, err := s.db.Appointments.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func (s *appointmentService) ChangeStatus(ctx context.Context, id uuid.UUID, to store.AppointmentStatus, changedBy uuid.UUID) (*store.Appointment, error) {
	if !IsValidStatus(to) {
		return nil, apperror.NewWithDetails(apperror.CodeInvalidStatusTransition, map[string]any{
			"to": to,
		})
	}

	appt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	from := appt.Status
	if !CanTransition(from, to) {
		return nil, apperror.NewWithDetails(apperror.CodeInvalidStatusTransition, map[string]any{
			"from": from,
			"to":   to,
		})
	}

	updated, err := s.db.Appointments.UpdateStatus(ctx, id, from, to)
	if err != nil {
		if errors.Is(err, store.ErrAppointmentNotFound) {
			// Lost a race with a concurrent status change.
			return nil, apperror.NewWithDetails(apperror.CodeInvalidStatusTransition, map[string]any{
				"from": from,
				"to":   to,
			})
		}
		return nil, fmt.Errorf("change appointment status: %w", err)
	}

	audit := &store.StatusAudit{
		EntityType: store.AuditEntityAppointment,
		EntityID:   id,
		OldStatus:  string(from),
		NewStatus:  string(to),
		ChangedBy:  changedBy,
	}
	if err := s.db.Audits.Insert(ctx, audit); err != nil {
		slog.Warn("failed to record appointment status audit", "appointment_id", id, "error", err)
	}

	slog.Info("appointment status changed",
		"appointment_id", id, "from", from, "to", to, "changed_by", changedBy)

	return updated, nil
}

func (s *appointmentService) SessionProgress(ctx context.Context, patientID, serviceID uuid.UUID) (*SessionProgressReport, error) {
	svc, err := s.loadService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if len(svc.Sessions) == 0 {
		return nil, apperror.New(apperror.CodeServiceHasNoSessions)
	}

	appts, err := s.db.Appointments.ListByPatientService(ctx, patientID, serviceID)
	if err != nil {
		return nil, fmt.Errorf("load appointments for progress: %w", err)
	}

	return buildProgressReport(patientID, svc, appts), nil
}

// EnrichAppointmentWithSession attaches session name/order to an appointment.
// It never fails the read path: an empty session id, a missing service, or an
// orphaned session reference leaves the appointment unenriched.
func (s *appointmentService) EnrichAppointmentWithSession(ctx context.Context, appt *store.Appointment) (*EnrichedAppointment, error) {
	out := &EnrichedAppointment{Appointment: *appt}
	if appt.SessionID == nil || *appt.SessionID == "" {
		return out, nil
	}

	svc, err := s.db.Services.GetByID(ctx, appt.ServiceID)
	if err != nil {
		return out, nil
	}

	sess := catalog.FindSessionByID(svc.Sessions, *appt.SessionID)
	if sess == nil {
		return out, nil
	}

	out.SessionName = sess.Name
	out.SessionOrder = sess.Order
	out.TotalSessions = len(svc.Sessions)
	return out, nil
}

func (s *appointmentService) PopulateSessionInfo(ctx context.Context, appts []store.Appointment) ([]EnrichedAppointment, error) {
	out := make([]EnrichedAppointment, 0, len(appts))
	for i := range appts {
		enriched, err := s.EnrichAppointmentWithSession(ctx, &appts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *enriched)
	}
	return out, nil
}

func (s *appointmentService) loadService(ctx context.Context, serviceID uuid.UUID) (*store.Service, error) {
	svc, err := s.db.Services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, store.ErrServiceNotFound) {
			return nil, apperror.New(apperror.CodeServiceNotFound)
		}
		return nil, fmt.Errorf("load service: %w", err)
	}
	return svc, nil
}

// notifyBooking sends a confirmation email. Best-effort: failures are logged
// and never surface to the caller.
func (s *appointmentService) notifyBooking(ctx context.Context, patientID uuid.UUID, svc *store.Service, booked []store.Appointment) {
	if s.mailer == nil || len(booked) == 0 {
		return
	}

	patient, err := s.db.Users.GetByID(ctx, patientID)
	if err != nil {
		slog.Warn("booking notification: load patient", "patient_id", patientID, "error", err)
		return
	}

	clinic, err := s.db.Clinics.GetByID(ctx, booked[0].ClinicID)
	if err != nil {
		slog.Warn("booking notification: load clinic", "clinic_id", booked[0].ClinicID, "error", err)
		return
	}

	names := make([]string, 0, len(booked))
	for _, a := range booked {
		if a.SessionID == nil {
			continue
		}
		if sess := catalog.FindSessionByID(svc.Sessions, *a.SessionID); sess != nil {
			names = append(names, sess.Name)
		}
	}

	msg := email.BuildBookingConfirmationEmail(email.BookingEmailData{
		PatientName:  patient.FirstName,
		Email:        patient.Email,
		ClinicName:   clinic.Name,
		ServiceName:  svc.Name,
		SessionNames: names,
		StartsAt:     booked[0].AppointmentDate,
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Warn("booking notification: send email", "patient_id", patientID, "error", err)
	}
}
