package appointment

import (
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
)

// StatusPriority ranks appointment statuses for session progress: when a
// patient has several appointments against the same session, the highest
// ranked one represents it. Unknown statuses rank lowest.
func StatusPriority(s store.AppointmentStatus) int {
	switch s {
	case store.StatusCompleted:
		return 6
	case store.StatusInProgress:
		return 5
	case store.StatusConfirmed:
		return 4
	case store.StatusScheduled:
		return 3
	case store.StatusNoShow:
		return 2
	case store.StatusCancelled:
		return 1
	default:
		return 0
	}
}

// allowedTransitions is the appointment lifecycle. completed, cancelled and
// no_show are terminal.
var allowedTransitions = map[store.AppointmentStatus][]store.AppointmentStatus{
	store.StatusScheduled:  {store.StatusConfirmed, store.StatusCancelled, store.StatusNoShow},
	store.StatusConfirmed:  {store.StatusInProgress, store.StatusCancelled, store.StatusNoShow},
	store.StatusInProgress: {store.StatusCompleted, store.StatusCancelled},
}

// CanTransition reports whether an appointment may move from one status to
// another.
func CanTransition(from, to store.AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status ends the appointment lifecycle.
func IsTerminal(s store.AppointmentStatus) bool {
	_, ok := store.TerminalStatuses[s]
	return ok
}

// IsValidStatus reports whether s is a known appointment status.
func IsValidStatus(s store.AppointmentStatus) bool {
	switch s {
	case store.StatusScheduled, store.StatusConfirmed, store.StatusInProgress,
		store.StatusCompleted, store.StatusCancelled, store.StatusNoShow:
		return true
	default:
		return false
	}
}
