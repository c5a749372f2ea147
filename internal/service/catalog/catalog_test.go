package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
)

type fakeServiceRepo struct {
	store.ServiceRepo
	services map[uuid.UUID]*store.Service
	deleted  []uuid.UUID
}

func (f *fakeServiceRepo) Create(_ context.Context, svc *store.Service) error {
	svc.ID = uuid.New()
	f.services[svc.ID] = svc
	return nil
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*store.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, store.ErrServiceNotFound
	}
	return svc, nil
}

func (f *fakeServiceRepo) Update(_ context.Context, svc *store.Service) error {
	f.services[svc.ID] = svc
	return nil
}

func (f *fakeServiceRepo) SoftDelete(_ context.Context, id, _ uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAppointmentRepo struct {
	store.AppointmentRepo
	hasActive bool
	upcoming  *store.Appointment
}

func (f *fakeAppointmentRepo) HasActiveByService(_ context.Context, _ uuid.UUID) (bool, error) {
	return f.hasActive, nil
}

func (f *fakeAppointmentRepo) FirstUpcomingForSessions(_ context.Context, _ uuid.UUID, _ []string) (*store.Appointment, error) {
	if f.upcoming == nil {
		return nil, store.ErrAppointmentNotFound
	}
	return f.upcoming, nil
}

func fixture(appts *fakeAppointmentRepo) (Service, *fakeServiceRepo) {
	services := &fakeServiceRepo{services: map[uuid.UUID]*store.Service{}}
	if appts == nil {
		appts = &fakeAppointmentRepo{}
	}
	return New(&store.Store{Services: services, Appointments: appts}), services
}

func TestCreateServiceProcessesSessions(t *testing.T) {
	s, _ := fixture(nil)

	svc, err := s.CreateService(context.Background(), CreateServiceRequest{
		ClinicID: uuid.New(),
		Name:     "Physiotherapy Course",
		Sessions: []SessionInput{
			{Order: 2, Duration: intPtr(60)},
			{Order: 1, Name: strPtr("Assessment")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Zero duration falls back to the 30-minute default.
	if svc.DurationMinutes != 30 {
		t.Errorf("DurationMinutes = %d, want 30", svc.DurationMinutes)
	}
	if len(svc.Sessions) != 2 {
		t.Fatalf("len(Sessions) = %d, want 2", len(svc.Sessions))
	}
	if svc.Sessions[0].Name != "Assessment" || svc.Sessions[1].Name != "Session 2" {
		t.Errorf("session names = %q, %q", svc.Sessions[0].Name, svc.Sessions[1].Name)
	}
	if svc.Sessions[0].Duration != 30 || svc.Sessions[1].Duration != 60 {
		t.Errorf("session durations = %d, %d", svc.Sessions[0].Duration, svc.Sessions[1].Duration)
	}
	if !svc.IsActive {
		t.Error("new services start active")
	}
}

func TestCreateServiceRejectsBadSessions(t *testing.T) {
	s, _ := fixture(nil)

	_, err := s.CreateService(context.Background(), CreateServiceRequest{
		ClinicID: uuid.New(),
		Name:     "Broken",
		Sessions: []SessionInput{{Order: 1}, {Order: 1}},
	})
	if apperror.CodeOf(err) != apperror.CodeDuplicateSessionOrder {
		t.Errorf("got %v, want %s", err, apperror.CodeDuplicateSessionOrder)
	}
}

func TestUpdateServiceReplacesSessions(t *testing.T) {
	s, repo := fixture(nil)
	svc, err := s.CreateService(context.Background(), CreateServiceRequest{
		ClinicID:        uuid.New(),
		Name:            "Course",
		DurationMinutes: 45,
		Sessions:        []SessionInput{{Order: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	oldID := svc.Sessions[0].ID

	updated, err := s.UpdateService(context.Background(), svc.ID, UpdateServiceRequest{
		Sessions:          []SessionInput{{Order: 1}, {Order: 2}},
		RemovedSessionIDs: []string{oldID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Sessions) != 2 {
		t.Errorf("len(Sessions) = %d, want 2", len(updated.Sessions))
	}
	if repo.services[svc.ID] != updated {
		t.Error("update was not persisted")
	}
}

func TestUpdateServiceKeepsSessionsWhenNil(t *testing.T) {
	s, _ := fixture(nil)
	svc, err := s.CreateService(context.Background(), CreateServiceRequest{
		ClinicID: uuid.New(),
		Name:     "Course",
		Sessions: []SessionInput{{Order: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	name := "Renamed"
	updated, err := s.UpdateService(context.Background(), svc.ID, UpdateServiceRequest{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Renamed" || len(updated.Sessions) != 1 {
		t.Errorf("updated = %+v", updated)
	}
}

func TestValidateSessionRemoval(t *testing.T) {
	apptID := uuid.New()
	sessionID := "s1"
	appts := &fakeAppointmentRepo{
		upcoming: &store.Appointment{ID: apptID, Status: store.StatusScheduled, SessionID: &sessionID},
	}
	s, _ := fixture(appts)
	svcID := uuid.New()

	err := s.ValidateSessionRemoval(context.Background(), svcID, []string{"s1"})
	if apperror.CodeOf(err) != apperror.CodeSessionHasActiveBookings {
		t.Errorf("got %v, want %s", err, apperror.CodeSessionHasActiveBookings)
	}

	// An empty removal list never queries.
	if err := s.ValidateSessionRemoval(context.Background(), svcID, nil); err != nil {
		t.Errorf("empty removal list: %v", err)
	}

	appts.upcoming = nil
	if err := s.ValidateSessionRemoval(context.Background(), svcID, []string{"s1"}); err != nil {
		t.Errorf("no upcoming appointments: %v", err)
	}
}

func TestDeleteService(t *testing.T) {
	appts := &fakeAppointmentRepo{hasActive: true}
	s, repo := fixture(appts)
	svc, err := s.CreateService(context.Background(), CreateServiceRequest{
		ClinicID: uuid.New(),
		Name:     "Course",
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.DeleteService(context.Background(), svc.ID, uuid.New())
	if apperror.CodeOf(err) != apperror.CodeServiceHasActiveBookings {
		t.Errorf("got %v, want %s", err, apperror.CodeServiceHasActiveBookings)
	}

	appts.hasActive = false
	if err := s.DeleteService(context.Background(), svc.ID, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != svc.ID {
		t.Errorf("soft delete not recorded: %v", repo.deleted)
	}

	if err := s.DeleteService(context.Background(), uuid.New(), uuid.New()); apperror.CodeOf(err) != apperror.CodeServiceNotFound {
		t.Errorf("missing service: got %v", err)
	}
}
