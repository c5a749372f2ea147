package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
)

const (
	MaxSessionsPerService = 50
	MinSessionDuration    = 5   // minutes
	MaxSessionDuration    = 480 // minutes
)

// SessionInput is one requested session of a treatment plan. Name and
// Duration are optional; Order is always explicit.
type SessionInput struct {
	Name     *string
	Duration *int
	Order    int
}

// ValidateSessions checks a session list without mutating it. defaultDuration
// is only used by normalization; validation rejects explicit durations
// outside [MinSessionDuration, MaxSessionDuration] and leaves omitted ones
// alone.
func ValidateSessions(inputs []SessionInput) error {
	if len(inputs) > MaxSessionsPerService {
		return apperror.NewWithDetails(apperror.CodeMaxSessionsExceeded, map[string]any{
			"max":      MaxSessionsPerService,
			"provided": len(inputs),
		})
	}

	seen := make(map[int]struct{}, len(inputs))
	for _, in := range inputs {
		if in.Order < 1 {
			return apperror.NewWithDetails(apperror.CodeInvalidSessionOrder, map[string]any{
				"order": in.Order,
			})
		}
		if _, dup := seen[in.Order]; dup {
			return apperror.NewWithDetails(apperror.CodeDuplicateSessionOrder, map[string]any{
				"order": in.Order,
			})
		}
		seen[in.Order] = struct{}{}

		if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
			return apperror.NewWithDetails(apperror.CodeEmptySessionName, map[string]any{
				"order": in.Order,
			})
		}

		if in.Duration != nil && (*in.Duration < MinSessionDuration || *in.Duration > MaxSessionDuration) {
			return apperror.NewWithDetails(apperror.CodeInvalidSessionDuration, map[string]any{
				"order":    in.Order,
				"duration": *in.Duration,
				"min":      MinSessionDuration,
				"max":      MaxSessionDuration,
			})
		}
	}

	return nil
}

// AutoGenerateSessionNames returns a copy of inputs with omitted names filled
// in as "Session {order}". The input slice is never mutated.
func AutoGenerateSessionNames(inputs []SessionInput) []SessionInput {
	out := make([]SessionInput, len(inputs))
	copy(out, inputs)

	for i := range out {
		if out[i].Name == nil {
			name := fmt.Sprintf("Session %d", out[i].Order)
			out[i].Name = &name
		}
	}

	return out
}

// NormalizeSessions turns validated inputs into stored sessions: a fresh id
// per session, duration falling back to the service default, sorted ascending
// by order.
func NormalizeSessions(inputs []SessionInput, defaultDuration int) []store.Session {
	sessions := make([]store.Session, 0, len(inputs))
	for _, in := range inputs {
		s := store.Session{
			ID:       uuid.NewString(),
			Order:    in.Order,
			Duration: defaultDuration,
		}
		if in.Name != nil {
			s.Name = *in.Name
		}
		if in.Duration != nil {
			s.Duration = *in.Duration
		}
		sessions = append(sessions, s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Order < sessions[j].Order
	})

	return sessions
}

// ValidateAndProcessSessions is the sole entry point for turning client
// session input into stored sessions: validation, then name generation, then
// normalization.
func ValidateAndProcessSessions(inputs []SessionInput, defaultDuration int) ([]store.Session, error) {
	if err := ValidateSessions(inputs); err != nil {
		return nil, err
	}
	named := AutoGenerateSessionNames(inputs)
	return NormalizeSessions(named, defaultDuration), nil
}

// FindSessionByID returns the session with the given id, or nil.
func FindSessionByID(sessions []store.Session, id string) *store.Session {
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i]
		}
	}
	return nil
}
