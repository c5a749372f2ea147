package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
)

type fakeUserRepo struct {
	store.UserRepo
	users  map[uuid.UUID]*store.User
	counts map[store.UserRole]int
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*store.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *store.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) CountByClinicRole(_ context.Context, _ uuid.UUID, role store.UserRole) (int, error) {
	return f.counts[role], nil
}

type fakeClinicRepo struct {
	store.ClinicRepo
	clinics map[uuid.UUID]*store.Clinic
}

func (f *fakeClinicRepo) GetByID(_ context.Context, id uuid.UUID) (*store.Clinic, error) {
	c, ok := f.clinics[id]
	if !ok {
		return nil, store.ErrClinicNotFound
	}
	return c, nil
}

func fixture(clinic *store.Clinic, member *store.User, counts map[store.UserRole]int) (Service, *fakeUserRepo) {
	users := &fakeUserRepo{users: map[uuid.UUID]*store.User{}, counts: counts}
	if member != nil {
		users.users[member.ID] = member
	}
	clinics := &fakeClinicRepo{clinics: map[uuid.UUID]*store.Clinic{}}
	if clinic != nil {
		clinics.clinics[clinic.ID] = clinic
	}
	return New(&store.Store{Users: users, Clinics: clinics}, nil, nil), users
}

func TestAssignToClinic(t *testing.T) {
	clinic := &store.Clinic{ID: uuid.New(), Status: store.ClinicActive, MaxDoctors: 5}
	member := &store.User{ID: uuid.New(), Role: store.RolePatient}
	s, users := fixture(clinic, member, map[store.UserRole]int{store.RoleDoctor: 2})

	u, err := s.AssignToClinic(context.Background(), member.ID, clinic.ID, store.RoleDoctor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ClinicID == nil || *u.ClinicID != clinic.ID {
		t.Errorf("ClinicID = %v, want %s", u.ClinicID, clinic.ID)
	}
	if u.Role != store.RoleDoctor {
		t.Errorf("Role = %s, want doctor", u.Role)
	}
	if saved := users.users[member.ID]; saved.ClinicID == nil {
		t.Error("assignment was not persisted")
	}
}

func TestAssignToClinicCapacityExceeded(t *testing.T) {
	clinic := &store.Clinic{ID: uuid.New(), Status: store.ClinicActive, MaxDoctors: 2}
	member := &store.User{ID: uuid.New()}
	s, _ := fixture(clinic, member, map[store.UserRole]int{store.RoleDoctor: 2})

	_, err := s.AssignToClinic(context.Background(), member.ID, clinic.ID, store.RoleDoctor)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("got %v, want ErrCapacityExceeded", err)
	}
}

func TestAssignToClinicUncappedWhenZero(t *testing.T) {
	// A zero cap means unlimited.
	clinic := &store.Clinic{ID: uuid.New(), Status: store.ClinicActive}
	member := &store.User{ID: uuid.New()}
	s, _ := fixture(clinic, member, map[store.UserRole]int{store.RoleStaff: 100})

	if _, err := s.AssignToClinic(context.Background(), member.ID, clinic.ID, store.RoleStaff); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAssignToClinicRejectsInactiveClinic(t *testing.T) {
	clinic := &store.Clinic{ID: uuid.New(), Status: store.ClinicSuspended}
	member := &store.User{ID: uuid.New()}
	s, _ := fixture(clinic, member, nil)

	_, err := s.AssignToClinic(context.Background(), member.ID, clinic.ID, store.RoleDoctor)
	if !errors.Is(err, ErrClinicNotActive) {
		t.Errorf("got %v, want ErrClinicNotActive", err)
	}
}

func TestAssignToClinicUnknownRole(t *testing.T) {
	s, _ := fixture(nil, nil, nil)

	_, err := s.AssignToClinic(context.Background(), uuid.New(), uuid.New(), "janitor")
	if !errors.Is(err, ErrUnknownRole) {
		t.Errorf("got %v, want ErrUnknownRole", err)
	}
}

func TestRemoveFromClinic(t *testing.T) {
	clinicID := uuid.New()
	member := &store.User{ID: uuid.New(), Role: store.RoleStaff, ClinicID: &clinicID}
	s, users := fixture(nil, member, nil)

	u, err := s.RemoveFromClinic(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ClinicID != nil {
		t.Error("ClinicID should be cleared")
	}
	if saved := users.users[member.ID]; saved.ClinicID != nil {
		t.Error("removal was not persisted")
	}

	// Idempotent for unassigned users.
	if _, err := s.RemoveFromClinic(context.Background(), member.ID); err != nil {
		t.Errorf("second removal: %v", err)
	}
}
