package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/email"
)

type CreateClinicRequest struct {
	OwnerID     uuid.UUID
	Name        string
	Description *string
	Phone       *string
	Address     *string
	MaxDoctors  int
	MaxStaff    int
	MaxPatients int
}

type UpdateClinicRequest struct {
	Name        *string
	Description *string
	Phone       *string
	Address     *string
	MaxDoctors  *int
	MaxStaff    *int
	MaxPatients *int
}

// ChangeStatusRequest carries the new status plus the caller's transfer
// decision. The transfer decision is the target clinic; the flags choose
// which roles move with it.
type ChangeStatusRequest struct {
	NewStatus       store.ClinicStatus
	Reason          *string
	TransferDoctors bool
	TransferStaff   bool
	TargetClinicID  *uuid.UUID
}

// Invalidator drops cached capacity snapshots for a clinic.
type Invalidator interface {
	Invalidate(clinicID uuid.UUID)
}

type Service interface {
	CreateClinic(ctx context.Context, req CreateClinicRequest) (*store.Clinic, error)
	GetClinic(ctx context.Context, id uuid.UUID) (*store.Clinic, error)
	ListClinics(ctx context.Context, status store.ClinicStatus, limit, offset int) ([]store.Clinic, error)
	UpdateClinic(ctx context.Context, id uuid.UUID, req UpdateClinicRequest) (*store.Clinic, error)
	ChangeStatus(ctx context.Context, clinicID uuid.UUID, req ChangeStatusRequest, changedBy uuid.UUID) (*store.Clinic, error)
}

type clinicService struct {
	db     *store.Store
	mailer *email.Client
	cache  Invalidator
}

// New creates the clinic service. mailer and cache may be nil.
func New(db *store.Store, mailer *email.Client, cache Invalidator) Service {
	return &clinicService{db: db, mailer: mailer, cache: cache}
}

func (s *clinicService) CreateClinic(ctx context.Context, req CreateClinicRequest) (*store.Clinic, error) {
	c := &store.Clinic{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		Address:     req.Address,
		Status:      store.ClinicActive,
		MaxDoctors:  req.MaxDoctors,
		MaxStaff:    req.MaxStaff,
		MaxPatients: req.MaxPatients,
	}
	if err := s.db.Clinics.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create clinic: %w", err)
	}
	return c, nil
}

func (s *clinicService) GetClinic(ctx context.Context, id uuid.UUID) (*store.Clinic, error) {
	c, err := s.db.Clinics.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrClinicNotFound) {
			return nil, apperror.New(apperror.CodeClinicNotFound)
		}
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return c, nil
}

func (s *clinicService) ListClinics(ctx context.Context, status store.ClinicStatus, limit, offset int) ([]store.Clinic, error) {
	return s.db.Clinics.List(ctx, status, limit, offset)
}

func (s *clinicService) UpdateClinic(ctx context.Context, id uuid.UUID, req UpdateClinicRequest) (*store.Clinic, error) {
	c, err := s.GetClinic(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.MaxDoctors != nil {
		c.MaxDoctors = *req.MaxDoctors
	}
	if req.MaxStaff != nil {
		c.MaxStaff = *req.MaxStaff
	}
	if req.MaxPatients != nil {
		c.MaxPatients = *req.MaxPatients
	}

	if err := s.db.Clinics.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update clinic: %w", err)
	}
	s.invalidate(id)
	return c, nil
}

// ChangeStatus moves a clinic between active, inactive and suspended. Leaving
// active while appointments, doctors or staff are still attached needs an
// explicit transfer decision; the transfer and the status flip commit in one
// transaction or not at all.
func (s *clinicService) ChangeStatus(ctx context.Context, clinicID uuid.UUID, req ChangeStatusRequest, changedBy uuid.UUID) (*store.Clinic, error) {
	if !isValidClinicStatus(req.NewStatus) {
		return nil, apperror.NewWithDetails(apperror.CodeInvalidClinicStatus, map[string]any{
			"status": req.NewStatus,
		})
	}

	clinic, err := s.GetClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if clinic.Status == req.NewStatus {
		return clinic, nil
	}

	var transferred transferSummary
	leavingActive := clinic.Status == store.ClinicActive && req.NewStatus != store.ClinicActive

	if leavingActive {
		activeAppts, err := s.db.Appointments.CountActiveByClinic(ctx, clinicID)
		if err != nil {
			return nil, fmt.Errorf("count active appointments: %w", err)
		}
		doctors, err := s.db.Users.CountByClinicRole(ctx, clinicID, store.RoleDoctor)
		if err != nil {
			return nil, fmt.Errorf("count doctors: %w", err)
		}
		staff, err := s.db.Users.CountByClinicRole(ctx, clinicID, store.RoleStaff)
		if err != nil {
			return nil, fmt.Errorf("count staff: %w", err)
		}

		hasAttachments := activeAppts > 0 || doctors > 0 || staff > 0
		if hasAttachments && req.TargetClinicID == nil {
			return nil, apperror.NewWithDetails(apperror.CodeClinicRequiresTransfer, map[string]any{
				"activeAppointments": activeAppts,
				"doctors":            doctors,
				"staff":              staff,
			})
		}

		if hasAttachments {
			target, err := s.db.Clinics.GetByID(ctx, *req.TargetClinicID)
			if err != nil {
				if errors.Is(err, store.ErrClinicNotFound) {
					return nil, apperror.New(apperror.CodeTargetClinicInvalid)
				}
				return nil, fmt.Errorf("load target clinic: %w", err)
			}
			if target.Status != store.ClinicActive || target.ID == clinicID {
				return nil, apperror.New(apperror.CodeTargetClinicInvalid)
			}

			if err := s.transferAndUpdate(ctx, clinic, req, changedBy, &transferred); err != nil {
				return nil, err
			}
			s.afterStatusChange(ctx, clinic, req, transferred)
			clinic.Status = req.NewStatus
			return clinic, nil
		}
	}

	err = s.db.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.db.Clinics.WithTx(tx).UpdateStatus(ctx, clinicID, req.NewStatus); err != nil {
			return fmt.Errorf("update clinic status: %w", err)
		}
		return s.db.Audits.WithTx(tx).Insert(ctx, s.statusAudit(clinic, req, changedBy, transferSummary{}))
	})
	if err != nil {
		return nil, err
	}

	s.afterStatusChange(ctx, clinic, req, transferred)
	clinic.Status = req.NewStatus
	return clinic, nil
}

type transferSummary struct {
	TargetClinicID uuid.UUID `json:"targetClinicId"`
	Doctors        int64     `json:"doctors"`
	Staff          int64     `json:"staff"`
	Appointments   int64     `json:"appointments"`
}

func (s *clinicService) transferAndUpdate(ctx context.Context, clinic *store.Clinic, req ChangeStatusRequest, changedBy uuid.UUID, out *transferSummary) error {
	target := *req.TargetClinicID
	out.TargetClinicID = target

	return s.db.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		users := s.db.Users.WithTx(tx)

		if req.TransferDoctors {
			n, err := users.ReassignClinic(ctx, clinic.ID, target, store.RoleDoctor)
			if err != nil {
				return fmt.Errorf("reassign doctors: %w", err)
			}
			out.Doctors = n
		}
		if req.TransferStaff {
			n, err := users.ReassignClinic(ctx, clinic.ID, target, store.RoleStaff)
			if err != nil {
				return fmt.Errorf("reassign staff: %w", err)
			}
			out.Staff = n
		}

		n, err := s.db.Appointments.WithTx(tx).ReassignClinic(ctx, clinic.ID, target)
		if err != nil {
			return fmt.Errorf("reassign appointments: %w", err)
		}
		out.Appointments = n

		if err := s.db.Clinics.WithTx(tx).UpdateStatus(ctx, clinic.ID, req.NewStatus); err != nil {
			return fmt.Errorf("update clinic status: %w", err)
		}
		return s.db.Audits.WithTx(tx).Insert(ctx, s.statusAudit(clinic, req, changedBy, *out))
	})
}

func (s *clinicService) statusAudit(clinic *store.Clinic, req ChangeStatusRequest, changedBy uuid.UUID, transferred transferSummary) *store.StatusAudit {
	audit := &store.StatusAudit{
		EntityType: store.AuditEntityClinic,
		EntityID:   clinic.ID,
		OldStatus:  string(clinic.Status),
		NewStatus:  string(req.NewStatus),
		Reason:     req.Reason,
		ChangedBy:  changedBy,
	}
	if transferred.TargetClinicID != uuid.Nil {
		if details, err := json.Marshal(transferred); err == nil {
			audit.Details = details
		}
	}
	return audit
}

// afterStatusChange runs the post-commit side effects: the audit log line,
// cache invalidation and the owner notification. None of them can fail the
// status change.
func (s *clinicService) afterStatusChange(ctx context.Context, clinic *store.Clinic, req ChangeStatusRequest, transferred transferSummary) {
	slog.Info("clinic status changed",
		"clinic_id", clinic.ID,
		"from", clinic.Status,
		"to", req.NewStatus,
		"transferred_doctors", transferred.Doctors,
		"transferred_staff", transferred.Staff,
		"transferred_appointments", transferred.Appointments,
	)

	s.invalidate(clinic.ID)
	if transferred.TargetClinicID != uuid.Nil {
		s.invalidate(transferred.TargetClinicID)
	}

	s.notifyOwner(ctx, clinic, req)
}

func (s *clinicService) invalidate(clinicID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(clinicID)
	}
}

func (s *clinicService) notifyOwner(ctx context.Context, clinic *store.Clinic, req ChangeStatusRequest) {
	if s.mailer == nil {
		return
	}

	owner, err := s.db.Users.GetByID(ctx, clinic.OwnerID)
	if err != nil {
		slog.Warn("status notification: load owner", "clinic_id", clinic.ID, "error", err)
		return
	}

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}
	msg := email.BuildClinicStatusChangeEmail(email.ClinicStatusEmailData{
		OwnerName:  owner.FirstName,
		Email:      owner.Email,
		ClinicName: clinic.Name,
		OldStatus:  string(clinic.Status),
		NewStatus:  string(req.NewStatus),
		Reason:     reason,
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Warn("status notification: send email", "clinic_id", clinic.ID, "error", err)
	}
}

func isValidClinicStatus(s store.ClinicStatus) bool {
	switch s {
	case store.ClinicActive, store.ClinicInactive, store.ClinicSuspended:
		return true
	}
	return false
}
