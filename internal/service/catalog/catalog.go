package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
)

const defaultServiceDuration = 30 // minutes

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateServiceRequest struct {
	ClinicID        uuid.UUID
	Name            string
	Description     *string
	DurationMinutes int
	Price           int64
	Sessions        []SessionInput
}

type UpdateServiceRequest struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	Price           *int64
	IsActive        *bool

	// Sessions replaces the whole session list when non-nil.
	// RemovedSessionIDs lists ids the client intends to drop; removal is
	// refused while upcoming appointments still reference them.
	Sessions          []SessionInput
	RemovedSessionIDs []string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	CreateService(ctx context.Context, req CreateServiceRequest) (*store.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*store.Service, error)
	ListServices(ctx context.Context, clinicID uuid.UUID, includeInactive bool) ([]store.Service, error)
	UpdateService(ctx context.Context, id uuid.UUID, req UpdateServiceRequest) (*store.Service, error)
	DeleteService(ctx context.Context, id, deletedBy uuid.UUID) error

	ValidateSessionRemoval(ctx context.Context, serviceID uuid.UUID, removedSessionIDs []string) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type catalogService struct {
	db *store.Store
}

func New(db *store.Store) Service {
	return &catalogService{db: db}
}

func (s *catalogService) CreateService(ctx context.Context, req CreateServiceRequest) (*store.Service, error) {
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = defaultServiceDuration
	}

	sessions, err := ValidateAndProcessSessions(req.Sessions, duration)
	if err != nil {
		return nil, err
	}

	svc := &store.Service{
		ClinicID:        req.ClinicID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: duration,
		Price:           req.Price,
		Sessions:        sessions,
		IsActive:        true,
	}

	if err := s.db.Services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

func (s *catalogService) GetService(ctx context.Context, id uuid.UUID) (*store.Service, error) {
	svc, err := s.db.Services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrServiceNotFound) {
			return nil, apperror.New(apperror.CodeServiceNotFound)
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

func (s *catalogService) ListServices(ctx context.Context, clinicID uuid.UUID, includeInactive bool) ([]store.Service, error) {
	services, err := s.db.Services.List(ctx, clinicID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id uuid.UUID, req UpdateServiceRequest) (*store.Service, error) {
	svc, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = req.Description
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if req.Sessions != nil {
		if err := s.ValidateSessionRemoval(ctx, id, req.RemovedSessionIDs); err != nil {
			return nil, err
		}

		sessions, err := ValidateAndProcessSessions(req.Sessions, svc.DurationMinutes)
		if err != nil {
			return nil, err
		}
		svc.Sessions = sessions
	}

	if err := s.db.Services.Update(ctx, svc); err != nil {
		if errors.Is(err, store.ErrServiceNotFound) {
			return nil, apperror.New(apperror.CodeServiceNotFound)
		}
		return nil, fmt.Errorf("update service: %w", err)
	}
	return svc, nil
}

func (s *catalogService) DeleteService(ctx context.Context, id, deletedBy uuid.UUID) error {
	if _, err := s.GetService(ctx, id); err != nil {
		return err
	}

	active, err := s.db.Appointments.HasActiveByService(ctx, id)
	if err != nil {
		return fmt.Errorf("check active appointments: %w", err)
	}
	if active {
		return apperror.New(apperror.CodeServiceHasActiveBookings)
	}

	if err := s.db.Services.SoftDelete(ctx, id, deletedBy); err != nil {
		if errors.Is(err, store.ErrServiceNotFound) {
			return apperror.New(apperror.CodeServiceNotFound)
		}
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

// ValidateSessionRemoval refuses to drop sessions that upcoming (scheduled or
// confirmed) appointments still reference. An empty removal list is a no-op.
func (s *catalogService) ValidateSessionRemoval(ctx context.Context, serviceID uuid.UUID, removedSessionIDs []string) error {
	if len(removedSessionIDs) == 0 {
		return nil
	}

	appt, err := s.db.Appointments.FirstUpcomingForSessions(ctx, serviceID, removedSessionIDs)
	if err != nil {
		if errors.Is(err, store.ErrAppointmentNotFound) {
			return nil
		}
		return fmt.Errorf("check session removal: %w", err)
	}

	return apperror.NewWithDetails(apperror.CodeSessionHasActiveBookings, map[string]any{
		"appointmentId": appt.ID,
		"status":        appt.Status,
		"sessionId":     appt.SessionID,
	})
}
