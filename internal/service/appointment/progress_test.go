package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
)

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		completed, total int
		want             int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{5, 6, 83},
		{3, 3, 100},
		{1, 8, 13},
	}

	for _, tt := range tests {
		if got := completionPercentage(tt.completed, tt.total); got != tt.want {
			t.Errorf("completionPercentage(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestBuildProgressReport(t *testing.T) {
	patientID := uuid.New()
	svc := &store.Service{
		ID: uuid.New(),
		Sessions: []store.Session{
			{ID: "s1", Name: "Assessment", Order: 1, Duration: 45},
			{ID: "s2", Name: "Session 2", Order: 2, Duration: 30},
			{ID: "s3", Name: "Follow-up", Order: 3, Duration: 30},
		},
	}

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	appts := []store.Appointment{
		// Cancelled then rebooked: the scheduled one must win.
		mkAppt("s1", store.StatusCancelled, day),
		mkAppt("s1", store.StatusScheduled, day.AddDate(0, 0, 1)),
		mkAppt("s2", store.StatusCompleted, day.AddDate(0, 0, 2)),
		// No session id, ignored.
		{ID: uuid.New(), Status: store.StatusScheduled},
	}

	report := buildProgressReport(patientID, svc, appts)

	if report.TotalSessions != 3 {
		t.Fatalf("TotalSessions = %d, want 3", report.TotalSessions)
	}
	if report.CompletedSessions != 1 {
		t.Fatalf("CompletedSessions = %d, want 1", report.CompletedSessions)
	}
	if report.CompletionPercentage != 33 {
		t.Fatalf("CompletionPercentage = %d, want 33", report.CompletionPercentage)
	}
	if len(report.Sessions) != 3 {
		t.Fatalf("len(Sessions) = %d, want 3", len(report.Sessions))
	}

	s1 := report.Sessions[0]
	if s1.Status != string(store.StatusScheduled) {
		t.Errorf("session s1 status = %q, want %q", s1.Status, store.StatusScheduled)
	}
	if s1.AppointmentID == nil {
		t.Error("session s1 should carry the winning appointment id")
	}
	if s1.IsCompleted {
		t.Error("session s1 should not be completed")
	}

	s2 := report.Sessions[1]
	if !s2.IsCompleted || s2.Status != string(store.StatusCompleted) {
		t.Errorf("session s2 = %+v, want completed", s2)
	}

	s3 := report.Sessions[2]
	if s3.Status != StatusNotBooked {
		t.Errorf("session s3 status = %q, want %q", s3.Status, StatusNotBooked)
	}
	if s3.AppointmentID != nil || s3.AppointmentDate != nil {
		t.Error("unbooked session must not reference an appointment")
	}
}

func TestBuildProgressReportOrderFollowsSessions(t *testing.T) {
	svc := &store.Service{
		ID: uuid.New(),
		Sessions: []store.Session{
			{ID: "a", Name: "First", Order: 1},
			{ID: "b", Name: "Second", Order: 2},
		},
	}

	report := buildProgressReport(uuid.New(), svc, nil)
	if report.Sessions[0].SessionID != "a" || report.Sessions[1].SessionID != "b" {
		t.Errorf("sessions out of order: %v", report.Sessions)
	}
	if report.CompletionPercentage != 0 {
		t.Errorf("CompletionPercentage = %d, want 0", report.CompletionPercentage)
	}
}

func mkAppt(sessionID string, status store.AppointmentStatus, date time.Time) store.Appointment {
	return store.Appointment{
		ID:              uuid.New(),
		SessionID:       &sessionID,
		Status:          status,
		AppointmentDate: date,
	}
}
