package capacity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/config"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
)

const defaultCacheTTL = 5 * time.Minute

// Snapshot is the staffing picture of one clinic at a point in time.
type Snapshot struct {
	ClinicID uuid.UUID `json:"clinicId"`

	Doctors  int `json:"doctors"`
	Staff    int `json:"staff"`
	Patients int `json:"patients"`

	MaxDoctors  int `json:"maxDoctors"`
	MaxStaff    int `json:"maxStaff"`
	MaxPatients int `json:"maxPatients"`

	DoctorUtilization  int `json:"doctorUtilization"`
	StaffUtilization   int `json:"staffUtilization"`
	PatientUtilization int `json:"patientUtilization"`

	ComputedAt time.Time `json:"computedAt"`
}

type Service interface {
	Snapshot(ctx context.Context, clinicID uuid.UUID) (*Snapshot, error)
	Invalidate(clinicID uuid.UUID)
	Reset()
}

// capacityService keeps a process-local read-through cache. Entries expire
// after the configured TTL and are dropped eagerly by Invalidate. The cache
// is per instance: a multi-instance deployment may serve snapshots up to one
// TTL stale on instances that did not observe the mutation.
type capacityService struct {
	db  *store.Store
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	cache map[uuid.UUID]cacheEntry
}

type cacheEntry struct {
	snap      *Snapshot
	expiresAt time.Time
}

func New(db *store.Store, cfg config.CapacityConfig) Service {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &capacityService{
		db:    db,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[uuid.UUID]cacheEntry),
	}
}

func (s *capacityService) Snapshot(ctx context.Context, clinicID uuid.UUID) (*Snapshot, error) {
	s.mu.Lock()
	if entry, ok := s.cache[clinicID]; ok && s.now().Before(entry.expiresAt) {
		s.mu.Unlock()
		return entry.snap, nil
	}
	s.mu.Unlock()

	snap, err := s.compute(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[clinicID] = cacheEntry{snap: snap, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return snap, nil
}

func (s *capacityService) compute(ctx context.Context, clinicID uuid.UUID) (*Snapshot, error) {
	clinic, err := s.db.Clinics.GetByID(ctx, clinicID)
	if err != nil {
		if errors.Is(err, store.ErrClinicNotFound) {
			return nil, apperror.New(apperror.CodeClinicNotFound)
		}
		return nil, fmt.Errorf("load clinic for capacity: %w", err)
	}

	doctors, err := s.db.Users.CountByClinicRole(ctx, clinicID, store.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("count doctors: %w", err)
	}
	staff, err := s.db.Users.CountByClinicRole(ctx, clinicID, store.RoleStaff)
	if err != nil {
		return nil, fmt.Errorf("count staff: %w", err)
	}
	patients, err := s.db.Users.CountByClinicRole(ctx, clinicID, store.RolePatient)
	if err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}

	return &Snapshot{
		ClinicID:           clinicID,
		Doctors:            doctors,
		Staff:              staff,
		Patients:           patients,
		MaxDoctors:         clinic.MaxDoctors,
		MaxStaff:           clinic.MaxStaff,
		MaxPatients:        clinic.MaxPatients,
		DoctorUtilization:  utilization(doctors, clinic.MaxDoctors),
		StaffUtilization:   utilization(staff, clinic.MaxStaff),
		PatientUtilization: utilization(patients, clinic.MaxPatients),
		ComputedAt:         s.now(),
	}, nil
}

// utilization is a whole-number percentage; an unset cap reads as 0%.
func utilization(count, max int) int {
	if max <= 0 {
		return 0
	}
	return count * 100 / max
}

func (s *capacityService) Invalidate(clinicID uuid.UUID) {
	s.mu.Lock()
	delete(s.cache, clinicID)
	s.mu.Unlock()
}

func (s *capacityService) Reset() {
	s.mu.Lock()
	s.cache = make(map[uuid.UUID]cacheEntry)
	s.mu.Unlock()
}
