package vesting

import (
	"testing"

	"vesta-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{models.EventStatusPending, models.EventStatusDue},
		{models.EventStatusPending, models.EventStatusForfeited},
		{models.EventStatusPending, models.EventStatusCancelled},
		{models.EventStatusDue, models.EventStatusVested},
		{models.EventStatusDue, models.EventStatusForfeited},
		{models.EventStatusDue, models.EventStatusCancelled},
		{models.EventStatusVested, models.EventStatusTransferred},
		{models.EventStatusVested, models.EventStatusExercised},
		{models.EventStatusVested, models.EventStatusForfeited},
		{models.EventStatusVested, models.EventStatusCancelled},
	}
	for _, edge := range allowed {
		assert.True(t, CanTransition(edge[0], edge[1]), "%s -> %s should be allowed", edge[0], edge[1])
	}

	denied := [][2]string{
		{models.EventStatusPending, models.EventStatusVested},
		{models.EventStatusPending, models.EventStatusTransferred},
		{models.EventStatusDue, models.EventStatusTransferred},
		{models.EventStatusDue, models.EventStatusExercised},
		{models.EventStatusVested, models.EventStatusDue},
		{models.EventStatusTransferred, models.EventStatusVested},
		{models.EventStatusExercised, models.EventStatusVested},
		{models.EventStatusForfeited, models.EventStatusDue},
		{models.EventStatusCancelled, models.EventStatusPending},
		{"unknown", models.EventStatusDue},
	}
	for _, edge := range denied {
		assert.False(t, CanTransition(edge[0], edge[1]), "%s -> %s should be denied", edge[0], edge[1])
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []string{
		models.EventStatusTransferred,
		models.EventStatusExercised,
		models.EventStatusForfeited,
		models.EventStatusCancelled,
	} {
		assert.True(t, IsTerminal(status), "%s should be terminal", status)
	}
	for _, status := range []string{
		models.EventStatusPending,
		models.EventStatusDue,
		models.EventStatusVested,
		"unknown",
	} {
		assert.False(t, IsTerminal(status), "%s should not be terminal", status)
	}
}

func TestTransitionError(t *testing.T) {
	assert.NoError(t, Transition(models.EventStatusDue, models.EventStatusVested))

	err := Transition(models.EventStatusTransferred, models.EventStatusVested)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Contains(t, err.Error(), "transferred -> vested")
}
