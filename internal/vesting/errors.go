package vesting

import "errors"

var (
	ErrEventNotFound    = errors.New("Vesting event not found")
	ErrGrantNotFound    = errors.New("Grant not found for vesting event")
	ErrEmployeeNotFound = errors.New("Employee not found for vesting event")

	ErrNotTransferablePlan = errors.New("Transfer settlement requires an RSU or RSA plan")
	ErrNotExercisablePlan  = errors.New("Exercise requires an ESOP plan")
	ErrEventNotVested      = errors.New("Vesting event is not in vested status")
	ErrEventNotDue         = errors.New("Vesting event is not in due status")
	ErrAlreadyProcessed    = errors.New("Vesting event was already processed")

	ErrInsufficientReservedShares = errors.New("Insufficient available shares in company reserved portfolio")
	ErrExercisePriceUnavailable   = errors.New("No exercise price available for this event")
	ErrInvalidExerciseAmount      = errors.New("Exercise amount must be positive and at most the event's shares")

	ErrPerformanceConfirmationRequired = errors.New("Performance confirmation is required for this event")
	ErrPerformanceConditionNotMet      = errors.New("Performance condition not met")
)
