package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/authorize"
)

type UpdateUserRequest struct {
	FirstName *string
	LastName  *string
	IsActive  *bool
}

// Invalidator drops cached capacity snapshots for a clinic.
type Invalidator interface {
	Invalidate(clinicID uuid.UUID)
}

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*store.User, error)
	GetByEmail(ctx context.Context, email string) (*store.User, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID, role store.UserRole) ([]store.User, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*store.User, error)
	AssignToClinic(ctx context.Context, userID, clinicID uuid.UUID, role store.UserRole) (*store.User, error)
	RemoveFromClinic(ctx context.Context, userID uuid.UUID) (*store.User, error)
}

type userService struct {
	db    *store.Store
	authz authorize.IAuthorization
	cache Invalidator
}

// New creates the user service. authz and cache may be nil.
func New(db *store.Store, authz authorize.IAuthorization, cache Invalidator) Service {
	return &userService{db: db, authz: authz, cache: cache}
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*store.User, error) {
	u, err := s.db.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	u, err := s.db.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *userService) ListByClinic(ctx context.Context, clinicID uuid.UUID, role store.UserRole) ([]store.User, error) {
	return s.db.Users.ListByClinicRole(ctx, clinicID, role)
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*store.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := s.db.Users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// AssignToClinic attaches a user to a clinic with the given role. The clinic
// must be active and the role's configured cap must leave room.
func (s *userService) AssignToClinic(ctx context.Context, userID, clinicID uuid.UUID, role store.UserRole) (*store.User, error) {
	rbacRole, ok := authorize.ClinicMemberRoleToRBACRole[string(role)]
	if !ok {
		return nil, ErrUnknownRole
	}

	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	clinic, err := s.db.Clinics.GetByID(ctx, clinicID)
	if err != nil {
		if errors.Is(err, store.ErrClinicNotFound) {
			return nil, ErrClinicNotActive
		}
		return nil, fmt.Errorf("load clinic: %w", err)
	}
	if clinic.Status != store.ClinicActive {
		return nil, ErrClinicNotActive
	}

	if err := s.checkCapacity(ctx, clinic, role); err != nil {
		return nil, err
	}

	prevClinic := u.ClinicID
	prevRole := u.Role

	u.ClinicID = &clinicID
	u.Role = role
	if err := s.db.Users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("assign user to clinic: %w", err)
	}

	s.syncClinicRole(ctx, u, prevClinic, prevRole, clinicID, rbacRole)

	s.invalidate(clinicID)
	if prevClinic != nil {
		s.invalidate(*prevClinic)
	}
	return u, nil
}

// RemoveFromClinic detaches a user from their clinic and revokes the
// matching clinic-domain role.
func (s *userService) RemoveFromClinic(ctx context.Context, userID uuid.UUID) (*store.User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.ClinicID == nil {
		return u, nil
	}

	prevClinic := *u.ClinicID
	prevRole := u.Role

	u.ClinicID = nil
	if err := s.db.Users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("remove user from clinic: %w", err)
	}

	if s.authz != nil {
		if rbacRole, ok := authorize.ClinicMemberRoleToRBACRole[string(prevRole)]; ok {
			if err := authorize.RemoveClinicRole(ctx, s.authz, u.ID.String(), prevClinic.String(), rbacRole); err != nil {
				slog.Warn("failed to revoke clinic role", "user_id", u.ID, "clinic_id", prevClinic, "error", err)
			}
		}
	}

	s.invalidate(prevClinic)
	return u, nil
}

func (s *userService) checkCapacity(ctx context.Context, clinic *store.Clinic, role store.UserRole) error {
	var max int
	switch role {
	case store.RoleDoctor:
		max = clinic.MaxDoctors
	case store.RoleStaff:
		max = clinic.MaxStaff
	case store.RolePatient:
		max = clinic.MaxPatients
	default:
		return nil // admins are not capped
	}
	if max <= 0 {
		return nil
	}

	count, err := s.db.Users.CountByClinicRole(ctx, clinic.ID, role)
	if err != nil {
		return fmt.Errorf("count %s members: %w", role, err)
	}
	if count >= max {
		return ErrCapacityExceeded
	}
	return nil
}

// syncClinicRole mirrors the clinic assignment into the enforcer. RBAC drift
// is logged, never fatal: the database row is the source of truth.
func (s *userService) syncClinicRole(ctx context.Context, u *store.User, prevClinic *uuid.UUID, prevRole store.UserRole, clinicID uuid.UUID, role authorize.Role) {
	if s.authz == nil {
		return
	}

	if prevClinic != nil && *prevClinic != clinicID {
		if prevRBAC, ok := authorize.ClinicMemberRoleToRBACRole[string(prevRole)]; ok {
			if err := authorize.RemoveClinicRole(ctx, s.authz, u.ID.String(), prevClinic.String(), prevRBAC); err != nil {
				slog.Warn("failed to revoke previous clinic role", "user_id", u.ID, "clinic_id", prevClinic, "error", err)
			}
		}
	}

	if err := authorize.AssignClinicRole(ctx, s.authz, u.ID.String(), clinicID.String(), role); err != nil {
		slog.Warn("failed to assign clinic role", "user_id", u.ID, "clinic_id", clinicID, "error", err)
	}
}

func (s *userService) invalidate(clinicID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(clinicID)
	}
}
