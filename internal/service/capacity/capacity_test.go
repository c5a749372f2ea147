package capacity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/config"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
)

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

type fakeUserRepo struct {
	store.UserRepo
	counts map[store.UserRole]int
	calls  int
}

func (f *fakeUserRepo) CountByClinicRole(_ context.Context, _ uuid.UUID, role store.UserRole) (int, error) {
	f.calls++
	return f.counts[role], nil
}

func newTestCapacity(clinic *store.Clinic, users *fakeUserRepo) (*capacityService, uuid.UUID) {
	clinics := &fakeClinicRepo{clinics: map[uuid.UUID]*store.Clinic{}}
	if clinic != nil {
		clinics.clinics[clinic.ID] = clinic
	}
	db := &store.Store{Clinics: clinics, Users: users}
	svc := New(db, config.CapacityConfig{CacheTTLMinutes: 5}).(*capacityService)
	var id uuid.UUID
	if clinic != nil {
		id = clinic.ID
	}
	return svc, id
}

func TestSnapshotCountsAndUtilization(t *testing.T) {
	clinic := &store.Clinic{ID: uuid.New(), MaxDoctors: 10, MaxStaff: 20, MaxPatients: 0}
	users := &fakeUserRepo{counts: map[store.UserRole]int{
		store.RoleDoctor:  3,
		store.RoleStaff:   5,
		store.RolePatient: 40,
	}}
	svc, id := newTestCapacity(clinic, users)

	snap, err := svc.Snapshot(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Doctors != 3 || snap.Staff != 5 || snap.Patients != 40 {
		t.Errorf("counts = %d/%d/%d", snap.Doctors, snap.Staff, snap.Patients)
	}
	if snap.DoctorUtilization != 30 {
		t.Errorf("DoctorUtilization = %d, want 30", snap.DoctorUtilization)
	}
	if snap.StaffUtilization != 25 {
		t.Errorf("StaffUtilization = %d, want 25", snap.StaffUtilization)
	}
	// Unset cap never divides by zero.
	if snap.PatientUtilization != 0 {
		t.Errorf("PatientUtilization = %d, want 0", snap.PatientUtilization)
	}
}

func TestSnapshotUsesCacheUntilTTL(t *testing.T) {
	clinic := &store.Clinic{ID: uuid.New(), MaxDoctors: 10}
	users := &fakeUserRepo{counts: map[store.UserRole]int{store.RoleDoctor: 1}}
	svc, id := newTestCapacity(clinic, users)

	now := time.Now()
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	if _, err := svc.Snapshot(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Snapshot(ctx, id); err != nil {
		t.Fatal(err)
	}
	if users.calls != 3 {
		t.Errorf("second snapshot must be served from cache, got %d count queries", users.calls)
	}

	// Past the TTL the entry is recomputed.
	now = now.Add(svc.ttl + time.Second)
	if _, err := svc.Snapshot(ctx, id); err != nil {
		t.Fatal(err)
	}
	if users.calls != 6 {
		t.Errorf("expired snapshot must be recomputed, got %d count queries", users.calls)
	}
}

func TestInvalidateDropsEntry(t *testing.T) {
	clinic := &store.Clinic{ID: uuid.New(), MaxDoctors: 10}
	users := &fakeUserRepo{counts: map[store.UserRole]int{store.RoleDoctor: 1}}
	svc, id := newTestCapacity(clinic, users)
	ctx := context.Background()

	if _, err := svc.Snapshot(ctx, id); err != nil {
		t.Fatal(err)
	}
	svc.Invalidate(id)
	if _, err := svc.Snapshot(ctx, id); err != nil {
		t.Fatal(err)
	}
	if users.calls != 6 {
		t.Errorf("invalidated snapshot must be recomputed, got %d count queries", users.calls)
	}

	svc.Reset()
	if _, err := svc.Snapshot(ctx, id); err != nil {
		t.Fatal(err)
	}
	if users.calls != 9 {
		t.Errorf("reset must drop all entries, got %d count queries", users.calls)
	}
}

func TestSnapshotUnknownClinic(t *testing.T) {
	svc, _ := newTestCapacity(nil, &fakeUserRepo{})
	_, err := svc.Snapshot(context.Background(), uuid.New())
	if apperror.CodeOf(err) != apperror.CodeClinicNotFound {
		t.Errorf("got %v, want %s", err, apperror.CodeClinicNotFound)
	}
}
