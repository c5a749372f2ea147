package catalog

import (
	"fmt"
	"testing"

	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestValidateSessions(t *testing.T) {
	tests := []struct {
		name     string
		inputs   []SessionInput
		wantCode apperror.Code
	}{
		{
			name:     "empty list is valid",
			inputs:   nil,
			wantCode: "",
		},
		{
			name: "valid list",
			inputs: []SessionInput{
				{Name: strPtr("Consultation"), Duration: intPtr(30), Order: 1},
				{Order: 2},
			},
			wantCode: "",
		},
		{
			name: "too many sessions",
			inputs: func() []SessionInput {
				in := make([]SessionInput, MaxSessionsPerService+1)
				for i := range in {
					in[i] = SessionInput{Order: i + 1}
				}
				return in
			}(),
			wantCode: apperror.CodeMaxSessionsExceeded,
		},
		{
			name: "exactly max sessions is valid",
			inputs: func() []SessionInput {
				in := make([]SessionInput, MaxSessionsPerService)
				for i := range in {
					in[i] = SessionInput{Order: i + 1}
				}
				return in
			}(),
			wantCode: "",
		},
		{
			name: "duplicate order",
			inputs: []SessionInput{
				{Order: 1},
				{Order: 1},
			},
			wantCode: apperror.CodeDuplicateSessionOrder,
		},
		{
			name: "zero order",
			inputs: []SessionInput{
				{Order: 0},
			},
			wantCode: apperror.CodeInvalidSessionOrder,
		},
		{
			name: "negative order",
			inputs: []SessionInput{
				{Order: -3},
			},
			wantCode: apperror.CodeInvalidSessionOrder,
		},
		{
			name: "explicit empty name",
			inputs: []SessionInput{
				{Name: strPtr("   "), Order: 1},
			},
			wantCode: apperror.CodeEmptySessionName,
		},
		{
			name: "duration below minimum",
			inputs: []SessionInput{
				{Duration: intPtr(4), Order: 1},
			},
			wantCode: apperror.CodeInvalidSessionDuration,
		},
		{
			name: "duration above maximum",
			inputs: []SessionInput{
				{Duration: intPtr(481), Order: 1},
			},
			wantCode: apperror.CodeInvalidSessionDuration,
		},
		{
			name: "boundary durations are valid",
			inputs: []SessionInput{
				{Duration: intPtr(MinSessionDuration), Order: 1},
				{Duration: intPtr(MaxSessionDuration), Order: 2},
			},
			wantCode: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessions(tt.inputs)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := apperror.CodeOf(err); got != tt.wantCode {
				t.Errorf("ValidateSessions() code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestAutoGenerateSessionNames(t *testing.T) {
	inputs := []SessionInput{
		{Order: 3},
		{Name: strPtr("Follow-up"), Order: 1},
		{Order: 7},
	}

	out := AutoGenerateSessionNames(inputs)

	if got := *out[0].Name; got != "Session 3" {
		t.Errorf("generated name = %q, want %q", got, "Session 3")
	}
	if got := *out[1].Name; got != "Follow-up" {
		t.Errorf("explicit name overwritten: got %q", got)
	}
	if got := *out[2].Name; got != "Session 7" {
		t.Errorf("generated name = %q, want %q", got, "Session 7")
	}

	// Input must be untouched.
	if inputs[0].Name != nil || inputs[2].Name != nil {
		t.Error("AutoGenerateSessionNames mutated its input")
	}
}

func TestNormalizeSessions(t *testing.T) {
	inputs := []SessionInput{
		{Name: strPtr("Third"), Order: 3},
		{Name: strPtr("First"), Duration: intPtr(45), Order: 1},
		{Name: strPtr("Second"), Order: 2},
	}

	sessions := NormalizeSessions(inputs, 30)

	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}

	// Sorted ascending by order.
	for i, wantOrder := range []int{1, 2, 3} {
		if sessions[i].Order != wantOrder {
			t.Errorf("sessions[%d].Order = %d, want %d", i, sessions[i].Order, wantOrder)
		}
	}

	// Explicit duration kept, others inherit the default.
	if sessions[0].Duration != 45 {
		t.Errorf("explicit duration = %d, want 45", sessions[0].Duration)
	}
	if sessions[1].Duration != 30 || sessions[2].Duration != 30 {
		t.Error("omitted durations should inherit the default")
	}

	// Fresh unique ids.
	seen := make(map[string]struct{})
	for _, s := range sessions {
		if s.ID == "" {
			t.Error("session id not generated")
		}
		if _, dup := seen[s.ID]; dup {
			t.Errorf("duplicate session id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
}

func TestValidateAndProcessSessions(t *testing.T) {
	t.Run("full pipeline", func(t *testing.T) {
		inputs := []SessionInput{
			{Order: 2},
			{Name: strPtr("Intake"), Duration: intPtr(60), Order: 1},
		}

		sessions, err := ValidateAndProcessSessions(inputs, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if sessions[0].Name != "Intake" || sessions[0].Duration != 60 {
			t.Errorf("first session = %+v", sessions[0])
		}
		if sessions[1].Name != "Session 2" || sessions[1].Duration != 20 {
			t.Errorf("second session = %+v", sessions[1])
		}
	})

	t.Run("validation failure stops the pipeline", func(t *testing.T) {
		_, err := ValidateAndProcessSessions([]SessionInput{{Order: 0}}, 20)
		if apperror.CodeOf(err) != apperror.CodeInvalidSessionOrder {
			t.Errorf("expected INVALID_SESSION_ORDER, got %v", err)
		}
	})
}

func TestFindSessionByID(t *testing.T) {
	sessions, err := ValidateAndProcessSessions([]SessionInput{
		{Order: 1}, {Order: 2},
	}, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := FindSessionByID(sessions, sessions[1].ID); got == nil || got.Order != 2 {
		t.Errorf("FindSessionByID returned %+v", got)
	}
	if got := FindSessionByID(sessions, "missing-id"); got != nil {
		t.Errorf("expected nil for unknown id, got %+v", got)
	}
	if got := FindSessionByID(nil, "anything"); got != nil {
		t.Errorf("expected nil for empty list, got %+v", got)
	}
}

func TestGeneratedNameFormat(t *testing.T) {
	// Names follow "Session {order}" exactly, for any order value.
	for _, order := range []int{1, 10, 50} {
		inputs := []SessionInput{{Order: order}}
		out := AutoGenerateSessionNames(inputs)
		want := fmt.Sprintf("Session %d", order)
		if *out[0].Name != want {
			t.Errorf("name for order %d = %q, want %q", order, *out[0].Name, want)
		}
	}
}
