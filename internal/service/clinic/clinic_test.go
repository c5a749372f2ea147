package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
)

type fakeClinicRepo struct {
	store.ClinicRepo
	clinics  map[uuid.UUID]*store.Clinic
	statuses map[uuid.UUID]store.ClinicStatus
}

func (f *fakeClinicRepo) WithTx(pgx.Tx) store.ClinicRepo { return f }

func (f *fakeClinicRepo) GetByID(_ context.Context, id uuid.UUID) (*store.Clinic, error) {
	c, ok := f.clinics[id]
	if !ok {
		return nil, store.ErrClinicNotFound
	}
	return c, nil
}

func (f *fakeClinicRepo) Update(_ context.Context, c *store.Clinic) error {
	f.clinics[c.ID] = c
	return nil
}

func (f *fakeClinicRepo) UpdateStatus(_ context.Context, id uuid.UUID, status store.ClinicStatus) error {
	if f.statuses == nil {
		f.statuses = map[uuid.UUID]store.ClinicStatus{}
	}
	f.statuses[id] = status
	return nil
}

type reassignment struct {
	from, to uuid.UUID
	role     store.UserRole
}

type fakeUserRepo struct {
	store.UserRepo
	counts     map[store.UserRole]int
	reassigned []reassignment
}

func (f *fakeUserRepo) WithTx(pgx.Tx) store.UserRepo { return f }

func (f *fakeUserRepo) CountByClinicRole(_ context.Context, _ uuid.UUID, role store.UserRole) (int, error) {
	return f.counts[role], nil
}

func (f *fakeUserRepo) ReassignClinic(_ context.Context, from, to uuid.UUID, role store.UserRole) (int64, error) {
	f.reassigned = append(f.reassigned, reassignment{from: from, to: to, role: role})
	return int64(f.counts[role]), nil
}

type fakeAppointmentRepo struct {
	store.AppointmentRepo
	activeCount int
	reassigned  []reassignment
}

func (f *fakeAppointmentRepo) WithTx(pgx.Tx) store.AppointmentRepo { return f }

func (f *fakeAppointmentRepo) CountActiveByClinic(_ context.Context, _ uuid.UUID) (int, error) {
	return f.activeCount, nil
}

func (f *fakeAppointmentRepo) ReassignClinic(_ context.Context, from, to uuid.UUID) (int64, error) {
	f.reassigned = append(f.reassigned, reassignment{from: from, to: to})
	return int64(f.activeCount), nil
}

type fakeAuditRepo struct {
	store.AuditRepo
	audits []*store.StatusAudit
}

func (f *fakeAuditRepo) WithTx(pgx.Tx) store.AuditRepo { return f }

func (f *fakeAuditRepo) Insert(_ context.Context, a *store.StatusAudit) error {
	f.audits = append(f.audits, a)
	return nil
}

var (
	errAuditWrite        = errors.New("audit write failed")
	errCommitNotExpected = errors.New("commit reached despite failure")
)

type failingAuditRepo struct {
	store.AuditRepo
}

func (f *failingAuditRepo) WithTx(pgx.Tx) store.AuditRepo { return f }

func (f *failingAuditRepo) Insert(context.Context, *store.StatusAudit) error {
	return errAuditWrite
}

type recordingInvalidator struct {
	invalidated []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(id uuid.UUID) {
	r.invalidated = append(r.invalidated, id)
}

func fixtureStore(clinics map[uuid.UUID]*store.Clinic, activeAppts, doctors, staff int) *store.Store {
	return &store.Store{
		TxRunner: func(ctx context.Context, fn store.TxFunc) error { return fn(ctx, nil) },
		Clinics:  &fakeClinicRepo{clinics: clinics},
		Users: &fakeUserRepo{counts: map[store.UserRole]int{
			store.RoleDoctor: doctors,
			store.RoleStaff:  staff,
		}},
		Appointments: &fakeAppointmentRepo{activeCount: activeAppts},
		Audits:       &fakeAuditRepo{},
	}
}

func fixtureService(clinics map[uuid.UUID]*store.Clinic, activeAppts, doctors, staff int) Service {
	return New(fixtureStore(clinics, activeAppts, doctors, staff), nil, nil)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	s := fixtureService(nil, 0, 0, 0)

	_, err := s.ChangeStatus(context.Background(), uuid.New(), ChangeStatusRequest{
		NewStatus: "archived",
	}, uuid.New())
	if apperror.CodeOf(err) != apperror.CodeInvalidClinicStatus {
		t.Errorf("got %v, want %s", err, apperror.CodeInvalidClinicStatus)
	}
}

func TestChangeStatusUnknownClinic(t *testing.T) {
	s := fixtureService(map[uuid.UUID]*store.Clinic{}, 0, 0, 0)

	_, err := s.ChangeStatus(context.Background(), uuid.New(), ChangeStatusRequest{
		NewStatus: store.ClinicInactive,
	}, uuid.New())
	if apperror.CodeOf(err) != apperror.CodeClinicNotFound {
		t.Errorf("got %v, want %s", err, apperror.CodeClinicNotFound)
	}
}

func TestChangeStatusSameStatusIsNoOp(t *testing.T) {
	id := uuid.New()
	s := fixtureService(map[uuid.UUID]*store.Clinic{
		id: {ID: id, Status: store.ClinicActive},
	}, 3, 2, 1)

	c, err := s.ChangeStatus(context.Background(), id, ChangeStatusRequest{
		NewStatus: store.ClinicActive,
	}, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != store.ClinicActive {
		t.Errorf("status = %s", c.Status)
	}
}

func TestChangeStatusRequiresTransferDecision(t *testing.T) {
	id := uuid.New()
	s := fixtureService(map[uuid.UUID]*store.Clinic{
		id: {ID: id, Status: store.ClinicActive},
	}, 4, 2, 3)

	_, err := s.ChangeStatus(context.Background(), id, ChangeStatusRequest{
		NewStatus: store.ClinicInactive,
	}, uuid.New())

	appErr, ok := apperror.AsError(err)
	if !ok || appErr.Code != apperror.CodeClinicRequiresTransfer {
		t.Fatalf("got %v, want %s", err, apperror.CodeClinicRequiresTransfer)
	}

	details, ok := appErr.Details.(map[string]any)
	if !ok {
		t.Fatalf("details = %T", appErr.Details)
	}
	if details["activeAppointments"] != 4 || details["doctors"] != 2 || details["staff"] != 3 {
		t.Errorf("details = %v", details)
	}
}

func TestChangeStatusTargetClinicValidation(t *testing.T) {
	source := uuid.New()
	inactiveTarget := uuid.New()
	s := fixtureService(map[uuid.UUID]*store.Clinic{
		source:         {ID: source, Status: store.ClinicActive},
		inactiveTarget: {ID: inactiveTarget, Status: store.ClinicInactive},
	}, 1, 0, 0)
	ctx := context.Background()
	changedBy := uuid.New()

	tests := []struct {
		name   string
		target uuid.UUID
	}{
		{"missing target", uuid.New()},
		{"inactive target", inactiveTarget},
		{"target is source clinic", source},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.target
			_, err := s.ChangeStatus(ctx, source, ChangeStatusRequest{
				NewStatus:      store.ClinicSuspended,
				TargetClinicID: &target,
			}, changedBy)
			if apperror.CodeOf(err) != apperror.CodeTargetClinicInvalid {
				t.Errorf("got %v, want %s", err, apperror.CodeTargetClinicInvalid)
			}
		})
	}
}

func TestIsValidClinicStatus(t *testing.T) {
	for _, valid := range []store.ClinicStatus{store.ClinicActive, store.ClinicInactive, store.ClinicSuspended} {
		if !isValidClinicStatus(valid) {
			t.Errorf("isValidClinicStatus(%q) = false", valid)
		}
	}
	if isValidClinicStatus("closed") || isValidClinicStatus("") {
		t.Error("unknown statuses must be rejected")
	}
}

func TestUpdateClinicInvalidatesCapacity(t *testing.T) {
	id := uuid.New()
	clinics := &fakeClinicRepo{clinics: map[uuid.UUID]*store.Clinic{
		id: {ID: id, Status: store.ClinicActive, MaxDoctors: 5},
	}}
	cache := &recordingInvalidator{}
	s := New(&store.Store{Clinics: clinics}, nil, cache)

	max := 8
	c, err := s.UpdateClinic(context.Background(), id, UpdateClinicRequest{MaxDoctors: &max})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.MaxDoctors != 8 {
		t.Errorf("MaxDoctors = %d, want 8", c.MaxDoctors)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != id {
		t.Errorf("capacity cache not invalidated: %v", cache.invalidated)
	}
}

func TestChangeStatusPlainFlipCommits(t *testing.T) {
	id := uuid.New()
	db := fixtureStore(map[uuid.UUID]*store.Clinic{
		id: {ID: id, Status: store.ClinicActive},
	}, 0, 0, 0)
	cache := &recordingInvalidator{}
	s := New(db, nil, cache)

	c, err := s.ChangeStatus(context.Background(), id, ChangeStatusRequest{
		NewStatus: store.ClinicSuspended,
	}, uuid.New())
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if c.Status != store.ClinicSuspended {
		t.Errorf("status = %s, want suspended", c.Status)
	}

	clinics := db.Clinics.(*fakeClinicRepo)
	if clinics.statuses[id] != store.ClinicSuspended {
		t.Errorf("persisted status = %s, want suspended", clinics.statuses[id])
	}

	audits := db.Audits.(*fakeAuditRepo)
	if len(audits.audits) != 1 {
		t.Fatalf("recorded %d audits, want 1", len(audits.audits))
	}
	a := audits.audits[0]
	if a.OldStatus != string(store.ClinicActive) || a.NewStatus != string(store.ClinicSuspended) {
		t.Errorf("audit %s -> %s", a.OldStatus, a.NewStatus)
	}
	if len(a.Details) != 0 {
		t.Errorf("plain flip should carry no transfer details, got %s", a.Details)
	}

	if len(cache.invalidated) != 1 || cache.invalidated[0] != id {
		t.Errorf("invalidated = %v", cache.invalidated)
	}
}

func TestChangeStatusTransferCommits(t *testing.T) {
	source := uuid.New()
	target := uuid.New()
	db := fixtureStore(map[uuid.UUID]*store.Clinic{
		source: {ID: source, Status: store.ClinicActive},
		target: {ID: target, Status: store.ClinicActive},
	}, 5, 2, 3)
	cache := &recordingInvalidator{}
	s := New(db, nil, cache)

	c, err := s.ChangeStatus(context.Background(), source, ChangeStatusRequest{
		NewStatus:       store.ClinicInactive,
		TransferDoctors: true,
		TransferStaff:   true,
		TargetClinicID:  &target,
	}, uuid.New())
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if c.Status != store.ClinicInactive {
		t.Errorf("status = %s, want inactive", c.Status)
	}

	users := db.Users.(*fakeUserRepo)
	if len(users.reassigned) != 2 {
		t.Fatalf("reassigned %d user roles, want 2", len(users.reassigned))
	}
	for _, r := range users.reassigned {
		if r.from != source || r.to != target {
			t.Errorf("user reassignment %v -> %v", r.from, r.to)
		}
	}
	if users.reassigned[0].role != store.RoleDoctor || users.reassigned[1].role != store.RoleStaff {
		t.Errorf("roles moved = %v, %v", users.reassigned[0].role, users.reassigned[1].role)
	}

	appts := db.Appointments.(*fakeAppointmentRepo)
	if len(appts.reassigned) != 1 || appts.reassigned[0].from != source || appts.reassigned[0].to != target {
		t.Errorf("appointment reassignment = %v", appts.reassigned)
	}

	clinics := db.Clinics.(*fakeClinicRepo)
	if clinics.statuses[source] != store.ClinicInactive {
		t.Errorf("persisted status = %s, want inactive", clinics.statuses[source])
	}

	audits := db.Audits.(*fakeAuditRepo)
	if len(audits.audits) != 1 {
		t.Fatalf("recorded %d audits, want 1", len(audits.audits))
	}
	var summary struct {
		TargetClinicID uuid.UUID `json:"targetClinicId"`
		Doctors        int64     `json:"doctors"`
		Staff          int64     `json:"staff"`
		Appointments   int64     `json:"appointments"`
	}
	if err := json.Unmarshal(audits.audits[0].Details, &summary); err != nil {
		t.Fatalf("audit details: %v", err)
	}
	if summary.TargetClinicID != target || summary.Doctors != 2 || summary.Staff != 3 || summary.Appointments != 5 {
		t.Errorf("transfer summary = %+v", summary)
	}

	if len(cache.invalidated) != 2 {
		t.Fatalf("invalidated = %v, want both clinics", cache.invalidated)
	}
	if cache.invalidated[0] != source || cache.invalidated[1] != target {
		t.Errorf("invalidated = %v", cache.invalidated)
	}
}

func TestChangeStatusTransferRollsBackOnFailure(t *testing.T) {
	source := uuid.New()
	target := uuid.New()
	db := fixtureStore(map[uuid.UUID]*store.Clinic{
		source: {ID: source, Status: store.ClinicActive},
		target: {ID: target, Status: store.ClinicActive},
	}, 2, 1, 0)

	rollbacks := 0
	db.TxRunner = func(ctx context.Context, fn store.TxFunc) error {
		if err := fn(ctx, nil); err != nil {
			rollbacks++
			return err
		}
		return errCommitNotExpected
	}
	failing := &failingAuditRepo{}
	db.Audits = failing
	s := New(db, nil, nil)

	_, err := s.ChangeStatus(context.Background(), source, ChangeStatusRequest{
		NewStatus:      store.ClinicInactive,
		TargetClinicID: &target,
	}, uuid.New())
	if !errors.Is(err, errAuditWrite) {
		t.Fatalf("error = %v, want audit write failure", err)
	}
	if rollbacks != 1 {
		t.Errorf("rollbacks = %d, want 1", rollbacks)
	}
}
