package store

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// TerminalStatuses are the statuses an appointment can never leave.
var TerminalStatuses = map[AppointmentStatus]struct{}{
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

type ClinicStatus string

const (
	ClinicActive    ClinicStatus = "active"
	ClinicInactive  ClinicStatus = "inactive"
	ClinicSuspended ClinicStatus = "suspended"
)

type UserRole string

const (
	RoleDoctor  UserRole = "doctor"
	RoleStaff   UserRole = "staff"
	RoleAdmin   UserRole = "admin"
	RolePatient UserRole = "patient"
)

// Session is a single step of a multi-session treatment plan, stored as a
// JSONB array on the owning service.
type Session struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Order    int    `json:"order"`
}

type Service struct {
	ID              uuid.UUID
	ClinicID        uuid.UUID
	Name            string
	Description     *string
	DurationMinutes int
	Price           int64
	Sessions        []Session
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
	DeletedBy       *uuid.UUID
}

type Appointment struct {
	ID              uuid.UUID
	PatientID       uuid.UUID
	DoctorID        *uuid.UUID
	ClinicID        uuid.UUID
	ServiceID       uuid.UUID
	SessionID       *string
	AppointmentDate time.Time
	AppointmentTime string // "HH:mm"
	DurationMinutes int
	Status          AppointmentStatus
	Notes           *string
	NeedsReschedule bool
	CreatedBy       uuid.UUID
	IsDeleted       bool
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Clinic struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description *string
	Phone       *string
	Address     *string
	Status      ClinicStatus
	MaxDoctors  int
	MaxStaff    int
	MaxPatients int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         UserRole
	ClinicID     *uuid.UUID
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StatusAudit records one status change of a clinic or appointment.
type StatusAudit struct {
	ID         int64
	EntityType string
	EntityID   uuid.UUID
	OldStatus  string
	NewStatus  string
	Reason     *string
	ChangedBy  uuid.UUID
	Details    []byte // jsonb
	CreatedAt  time.Time
}
