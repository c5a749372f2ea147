package appointment

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
)

// StatusNotBooked marks a treatment session without any appointment yet.
const StatusNotBooked = "not_booked"

// SessionProgressItem is the progress of one treatment session.
type SessionProgressItem struct {
	SessionID       string     `json:"sessionId"`
	Name            string     `json:"name"`
	Order           int        `json:"order"`
	Duration        int        `json:"duration"`
	Status          string     `json:"status"`
	AppointmentID   *uuid.UUID `json:"appointmentId,omitempty"`
	AppointmentDate *time.Time `json:"appointmentDate,omitempty"`
	IsCompleted     bool       `json:"isCompleted"`
}

// SessionProgressReport summarizes a patient's progress through a
// multi-session service.
type SessionProgressReport struct {
	PatientID            uuid.UUID             `json:"patientId"`
	ServiceID            uuid.UUID             `json:"serviceId"`
	TotalSessions        int                   `json:"totalSessions"`
	CompletedSessions    int                   `json:"completedSessions"`
	CompletionPercentage int                   `json:"completionPercentage"`
	Sessions             []SessionProgressItem `json:"sessions"`
}

// buildProgressReport matches appointments to sessions. Per session the
// highest-priority appointment wins; sessions keep their ascending order.
func buildProgressReport(patientID uuid.UUID, svc *store.Service, appts []store.Appointment) *SessionProgressReport {
	// Best appointment per session id.
	best := make(map[string]*store.Appointment, len(svc.Sessions))
	for i := range appts {
		a := &appts[i]
		if a.SessionID == nil {
			continue
		}
		cur, ok := best[*a.SessionID]
		if !ok || StatusPriority(a.Status) > StatusPriority(cur.Status) {
			best[*a.SessionID] = a
		}
	}

	report := &SessionProgressReport{
		PatientID:     patientID,
		ServiceID:     svc.ID,
		TotalSessions: len(svc.Sessions),
		Sessions:      make([]SessionProgressItem, 0, len(svc.Sessions)),
	}

	for _, sess := range svc.Sessions {
		item := SessionProgressItem{
			SessionID: sess.ID,
			Name:      sess.Name,
			Order:     sess.Order,
			Duration:  sess.Duration,
			Status:    StatusNotBooked,
		}

		if a, ok := best[sess.ID]; ok {
			item.Status = string(a.Status)
			item.AppointmentID = &a.ID
			item.AppointmentDate = &a.AppointmentDate
			item.IsCompleted = a.Status == store.StatusCompleted
		}

		if item.IsCompleted {
			report.CompletedSessions++
		}
		report.Sessions = append(report.Sessions, item)
	}

	report.CompletionPercentage = completionPercentage(report.CompletedSessions, report.TotalSessions)
	return report
}

// completionPercentage rounds half up: 1/3 -> 33, 1/2 -> 50, 5/6 -> 83.
func completionPercentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(completed)/float64(total)*100 + 0.5))
}
