package vesting

import (
	"errors"
	"fmt"

	"vesta-backend/internal/models"
)

// ErrIllegalTransition is wrapped by Transition with the offending edge.
// Terminal states never move again; an attempt is an error, not a no-op.
var ErrIllegalTransition = errors.New("illegal vesting event transition")

// transitions holds the allowed edges. Forfeited and cancelled are reachable
// from every non-terminal state.
var transitions = map[string][]string{
	models.EventStatusPending: {models.EventStatusDue, models.EventStatusForfeited, models.EventStatusCancelled},
	models.EventStatusDue:     {models.EventStatusVested, models.EventStatusForfeited, models.EventStatusCancelled},
	models.EventStatusVested: {
		models.EventStatusTransferred, models.EventStatusExercised,
		models.EventStatusForfeited, models.EventStatusCancelled,
	},
	models.EventStatusTransferred: {},
	models.EventStatusExercised:   {},
	models.EventStatusForfeited:   {},
	models.EventStatusCancelled:   {},
}

// IsTerminal reports whether status admits no further transitions.
func IsTerminal(status string) bool {
	edges, ok := transitions[status]
	return ok && len(edges) == 0
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition validates the edge and returns a descriptive error when it is
// not allowed.
func Transition(from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}
