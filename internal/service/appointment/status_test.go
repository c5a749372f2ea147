package appointment

import (
	"testing"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
)

func TestStatusPriority(t *testing.T) {
	tests := []struct {
		status store.AppointmentStatus
		want   int
	}{
		{store.StatusCompleted, 6},
		{store.StatusInProgress, 5},
		{store.StatusConfirmed, 4},
		{store.StatusScheduled, 3},
		{store.StatusNoShow, 2},
		{store.StatusCancelled, 1},
		{store.AppointmentStatus("bogus"), 0},
		{store.AppointmentStatus(""), 0},
	}

	for _, tt := range tests {
		if got := StatusPriority(tt.status); got != tt.want {
			t.Errorf("StatusPriority(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to store.AppointmentStatus
	}{
		{store.StatusScheduled, store.StatusConfirmed},
		{store.StatusScheduled, store.StatusCancelled},
		{store.StatusScheduled, store.StatusNoShow},
		{store.StatusConfirmed, store.StatusInProgress},
		{store.StatusConfirmed, store.StatusCancelled},
		{store.StatusConfirmed, store.StatusNoShow},
		{store.StatusInProgress, store.StatusCompleted},
		{store.StatusInProgress, store.StatusCancelled},
	}

	for _, tt := range allowed {
		if !CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%q, %q) = false, want true", tt.from, tt.to)
		}
	}

	denied := []struct {
		from, to store.AppointmentStatus
	}{
		{store.StatusScheduled, store.StatusInProgress},
		{store.StatusScheduled, store.StatusCompleted},
		{store.StatusConfirmed, store.StatusCompleted},
		{store.StatusInProgress, store.StatusNoShow},
		{store.StatusInProgress, store.StatusScheduled},
		{store.StatusCompleted, store.StatusScheduled},
		{store.StatusCancelled, store.StatusScheduled},
		{store.StatusNoShow, store.StatusConfirmed},
		{store.StatusScheduled, store.StatusScheduled},
	}

	for _, tt := range denied {
		if CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%q, %q) = true, want false", tt.from, tt.to)
		}
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	for terminal := range store.TerminalStatuses {
		if !IsTerminal(terminal) {
			t.Errorf("IsTerminal(%q) = false", terminal)
		}
		if rules, ok := allowedTransitions[terminal]; ok && len(rules) > 0 {
			t.Errorf("terminal status %q has outgoing transitions %v", terminal, rules)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	valid := []store.AppointmentStatus{
		store.StatusScheduled, store.StatusConfirmed, store.StatusInProgress,
		store.StatusCompleted, store.StatusCancelled, store.StatusNoShow,
	}
	for _, s := range valid {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false, want true", s)
		}
	}

	if IsValidStatus("pending") || IsValidStatus("") {
		t.Error("unknown statuses should not be valid")
	}
}
