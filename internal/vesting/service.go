package vesting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"vesta-backend/internal/identity"
	"vesta-backend/internal/models"
	"vesta-backend/internal/notify"
	"vesta-backend/internal/performance"
	"vesta-backend/internal/portfolios"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	Notifier notify.Notifier
	Linker   *performance.Linker
}

// SettleResult is returned by Settle on success.
type SettleResult struct {
	EventID           uuid.UUID `json:"event_id"`
	TransferID        uuid.UUID `json:"transfer_id"`
	TransferNumber    string    `json:"transfer_number"`
	SharesTransferred float64   `json:"shares_transferred"`
	FromPortfolioID   uuid.UUID `json:"from_portfolio_id"`
	ToPortfolioID     uuid.UUID `json:"to_portfolio_id"`
}

// ExerciseResult is returned by Exercise on success.
type ExerciseResult struct {
	EventID           uuid.UUID `json:"event_id"`
	SharesExercised   float64   `json:"shares_exercised"`
	ExercisePrice     float64   `json:"exercise_price"`
	TotalExerciseCost float64   `json:"total_exercise_cost"`
	TransferID        uuid.UUID `json:"transfer_id"`
	TransferNumber    string    `json:"transfer_number"`
}

// Settle moves a vested RSU/RSA event's shares from the company-reserved
// pool into the employee's vested portfolio and marks the event transferred.
// Everything from the balance movement to the status flip runs in one
// transaction: either the transfer record and the terminal status are both
// visible afterwards, or neither is.
func (s *Service) Settle(ctx context.Context, actor identity.Actor, eventID uuid.UUID) (*SettleResult, error) {
	var result *SettleResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, grant, err := loadEventWithGrant(tx, eventID)
		if err != nil {
			return err
		}
		if grant.PlanType != models.PlanTypeRSU && grant.PlanType != models.PlanTypeRSA {
			return ErrNotTransferablePlan
		}
		if event.Status != models.EventStatusVested {
			if IsTerminal(event.Status) {
				return ErrAlreadyProcessed
			}
			return ErrEventNotVested
		}

		reserved, err := portfolios.Reserved(tx, event.CompanyID)
		if err != nil {
			return err
		}

		var employee models.Employee
		if err := tx.Where("employee_id = ?", event.EmployeeID).First(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmployeeNotFound
			}
			return err
		}
		dest, err := portfolios.ResolveEmployeeVested(tx, event.CompanyID, event.EmployeeID, employee.EmployeeNumber)
		if err != nil {
			return err
		}

		if err := moveShares(tx, reserved.PortfolioID, dest.PortfolioID, event.SharesToVest); err != nil {
			return err
		}

		transfer := models.ShareTransfer{
			TransferNumber:    newTransferNumber(),
			CompanyID:         event.CompanyID,
			GrantID:           event.GrantID,
			EmployeeID:        event.EmployeeID,
			FromPortfolioID:   reserved.PortfolioID,
			ToPortfolioID:     dest.PortfolioID,
			SharesTransferred: event.SharesToVest,
			TransferType:      models.TransferTypeVesting,
			TransferDate:      time.Now(),
			Status:            models.TransferStatusPending,
			VestingEventID:    event.EventID,
			Note:              fmt.Sprintf("Vesting settlement for event %s (sequence %d)", event.EventID, event.SequenceNumber),
		}
		if err := tx.Create(&transfer).Error; err != nil {
			return err
		}

		if err := s.finishTransition(tx, actor, event, models.EventStatusTransferred, map[string]interface{}{
			"share_transfer_id": transfer.TransferID,
		}, map[string]interface{}{
			"transfer_id":        transfer.TransferID,
			"transfer_number":    transfer.TransferNumber,
			"shares_transferred": transfer.SharesTransferred,
		}); err != nil {
			return err
		}

		if err := applyGrantVesting(tx, grant.GrantID, event.SharesToVest); err != nil {
			return err
		}

		result = &SettleResult{
			EventID:           event.EventID,
			TransferID:        transfer.TransferID,
			TransferNumber:    transfer.TransferNumber,
			SharesTransferred: transfer.SharesTransferred,
			FromPortfolioID:   reserved.PortfolioID,
			ToPortfolioID:     dest.PortfolioID,
		}
		return nil
	})

	if err != nil {
		log.Warn().Err(err).
			Str("event_id", eventID.String()).
			Str("company_id", actor.CompanyID.String()).
			Str("user_id", actor.UserID.String()).
			Msg("vesting settlement failed")
		return nil, err
	}

	log.Info().
		Str("event_id", eventID.String()).
		Str("transfer_number", result.TransferNumber).
		Float64("shares", result.SharesTransferred).
		Msg("vesting settlement completed")
	s.Notifier.SettlementChanged(ctx, actor.CompanyID, eventID, models.EventStatusTransferred)
	return result, nil
}

// Exercise converts a vested ESOP event into owned shares. The exercise cost
// is shares x price, with the price resolved from the event, then the grant,
// then the plan. The ledger movement and the status flip share one
// transaction, same as Settle: an exercised event without its matching
// transfer row cannot be observed.
func (s *Service) Exercise(ctx context.Context, actor identity.Actor, eventID uuid.UUID, shares *float64) (*ExerciseResult, error) {
	var result *ExerciseResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, grant, err := loadEventWithGrant(tx, eventID)
		if err != nil {
			return err
		}
		if grant.PlanType != models.PlanTypeESOP {
			return ErrNotExercisablePlan
		}
		if event.Status != models.EventStatusVested {
			if IsTerminal(event.Status) {
				return ErrAlreadyProcessed
			}
			return ErrEventNotVested
		}

		amount := event.SharesToVest
		if shares != nil {
			amount = *shares
		}
		if amount <= 0 || amount > event.SharesToVest {
			return ErrInvalidExerciseAmount
		}

		price, err := resolveExercisePrice(tx, event, grant)
		if err != nil {
			return err
		}
		cost := round2(amount * price)

		reserved, err := portfolios.Reserved(tx, event.CompanyID)
		if err != nil {
			return err
		}
		var employee models.Employee
		if err := tx.Where("employee_id = ?", event.EmployeeID).First(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmployeeNotFound
			}
			return err
		}
		dest, err := portfolios.ResolveEmployeeVested(tx, event.CompanyID, event.EmployeeID, employee.EmployeeNumber)
		if err != nil {
			return err
		}

		if err := moveShares(tx, reserved.PortfolioID, dest.PortfolioID, amount); err != nil {
			return err
		}

		transfer := models.ShareTransfer{
			TransferNumber:    newTransferNumber(),
			CompanyID:         event.CompanyID,
			GrantID:           event.GrantID,
			EmployeeID:        event.EmployeeID,
			FromPortfolioID:   reserved.PortfolioID,
			ToPortfolioID:     dest.PortfolioID,
			SharesTransferred: amount,
			TransferType:      models.TransferTypeExercise,
			TransferDate:      time.Now(),
			Status:            models.TransferStatusPending,
			VestingEventID:    event.EventID,
			Note:              fmt.Sprintf("Option exercise for event %s (sequence %d)", event.EventID, event.SequenceNumber),
		}
		if err := tx.Create(&transfer).Error; err != nil {
			return err
		}

		if err := s.finishTransition(tx, actor, event, models.EventStatusExercised, map[string]interface{}{
			"share_transfer_id":   transfer.TransferID,
			"exercise_price":      price,
			"total_exercise_cost": cost,
		}, map[string]interface{}{
			"shares_exercised":    amount,
			"exercise_price":      price,
			"total_exercise_cost": cost,
			"transfer_number":     transfer.TransferNumber,
		}); err != nil {
			return err
		}

		if err := applyGrantVesting(tx, grant.GrantID, amount); err != nil {
			return err
		}

		result = &ExerciseResult{
			EventID:           event.EventID,
			SharesExercised:   amount,
			ExercisePrice:     price,
			TotalExerciseCost: cost,
			TransferID:        transfer.TransferID,
			TransferNumber:    transfer.TransferNumber,
		}
		return nil
	})

	if err != nil {
		log.Warn().Err(err).
			Str("event_id", eventID.String()).
			Str("company_id", actor.CompanyID.String()).
			Str("user_id", actor.UserID.String()).
			Msg("option exercise failed")
		return nil, err
	}

	log.Info().
		Str("event_id", eventID.String()).
		Float64("shares", result.SharesExercised).
		Float64("cost", result.TotalExerciseCost).
		Msg("option exercise completed")
	s.Notifier.SettlementChanged(ctx, actor.CompanyID, eventID, models.EventStatusExercised)
	return result, nil
}

// ConfirmVesting advances a due event to vested. Performance-gated events
// with linked metrics require an explicit condition-met flag; confirming one
// with the flag false is rejected (the caller should forfeit instead).
func (s *Service) ConfirmVesting(ctx context.Context, actor identity.Actor, eventID uuid.UUID, conditionMet *bool, notes *string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, _, err := loadEventWithGrant(tx, eventID)
		if err != nil {
			return err
		}
		if event.Status != models.EventStatusDue {
			if IsTerminal(event.Status) {
				return ErrAlreadyProcessed
			}
			return ErrEventNotDue
		}

		if performance.IsGatedType(event.EventType) {
			var metricCount int64
			if err := tx.Model(&models.PerformanceMetric{}).Where("grant_id = ?", event.GrantID).Count(&metricCount).Error; err != nil {
				return err
			}
			if metricCount > 0 {
				if conditionMet == nil {
					return ErrPerformanceConfirmationRequired
				}
				if !*conditionMet {
					return ErrPerformanceConditionNotMet
				}
			}
		}

		extra := map[string]interface{}{}
		if conditionMet != nil {
			extra["performance_condition_met"] = *conditionMet
		}
		if notes != nil {
			extra["performance_notes"] = *notes
		}
		return s.finishTransition(tx, actor, event, models.EventStatusVested, extra, map[string]interface{}{
			"confirmed_by": actor.UserID,
		})
	})
	if err != nil {
		log.Warn().Err(err).Str("event_id", eventID.String()).Str("company_id", actor.CompanyID.String()).Msg("vesting confirmation failed")
		return err
	}
	s.Notifier.SettlementChanged(ctx, actor.CompanyID, eventID, models.EventStatusVested)
	return nil
}

// Forfeit moves a non-terminal event to forfeited.
func (s *Service) Forfeit(ctx context.Context, actor identity.Actor, eventID uuid.UUID, reason string) error {
	return s.terminate(ctx, actor, eventID, models.EventStatusForfeited, reason)
}

// Cancel moves a non-terminal event to cancelled.
func (s *Service) Cancel(ctx context.Context, actor identity.Actor, eventID uuid.UUID, reason string) error {
	return s.terminate(ctx, actor, eventID, models.EventStatusCancelled, reason)
}

func (s *Service) terminate(ctx context.Context, actor identity.Actor, eventID uuid.UUID, target, reason string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, _, err := loadEventWithGrant(tx, eventID)
		if err != nil {
			return err
		}
		return s.finishTransition(tx, actor, event, target, nil, map[string]interface{}{
			"reason": reason,
		})
	})
	if err != nil {
		log.Warn().Err(err).Str("event_id", eventID.String()).Str("target", target).Msg("vesting event termination failed")
		return err
	}
	s.Notifier.SettlementChanged(ctx, actor.CompanyID, eventID, target)
	return nil
}

// EventView is a vesting event with its resolved performance summary.
type EventView struct {
	models.VestingEvent
	Performance performance.Resolution `json:"performance"`
}

// ListEvents returns the company's vesting events, oldest vesting date
// first, enriched with performance metric resolution. Employee-scoped actors
// only see their own events.
func (s *Service) ListEvents(ctx context.Context, actor identity.Actor) ([]EventView, error) {
	q := s.DB.WithContext(ctx).Where("company_id = ?", actor.CompanyID)
	if actor.EmployeeID != nil {
		q = q.Where("employee_id = ?", *actor.EmployeeID)
	}
	var events []models.VestingEvent
	if err := q.Order("vesting_date ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	resolutions, err := s.Linker.Resolve(ctx, events)
	if err != nil {
		return nil, err
	}

	out := make([]EventView, len(events))
	for i, ev := range events {
		out[i] = EventView{VestingEvent: ev, Performance: resolutions[ev.EventID]}
	}
	return out, nil
}

// finishTransition validates the edge, performs a compare-and-set status
// update (only if the row still holds the status we loaded), stamps
// processed_at plus any extra columns, and appends the audit log row.
// RowsAffected == 0 means a concurrent caller won the race; the transaction
// rolls back and the caller sees an already-processed error.
func (s *Service) finishTransition(tx *gorm.DB, actor identity.Actor, event *models.VestingEvent, target string, extra map[string]interface{}, logData map[string]interface{}) error {
	if err := Transition(event.Status, target); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status":       target,
		"processed_at": time.Now(),
	}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&models.VestingEvent{}).
		Where("event_id = ? AND status = ?", event.EventID, event.Status).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyProcessed
	}

	if logData == nil {
		logData = map[string]interface{}{}
	}
	logData["from"] = event.Status
	logData["to"] = target
	b, _ := json.Marshal(logData)
	actorID := actor.UserID
	return tx.Create(&models.VestingEventLog{
		VestingEventID: event.EventID,
		Action:         target,
		ActorUserID:    &actorID,
		EventData:      datatypes.JSON(b),
	}).Error
}

// loadEventWithGrant loads the event and its grant as typed rows. Both reads
// run on the caller's transaction handle.
func loadEventWithGrant(tx *gorm.DB, eventID uuid.UUID) (*models.VestingEvent, *models.Grant, error) {
	var event models.VestingEvent
	if err := tx.Where("event_id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, err
	}
	var grant models.Grant
	if err := tx.Where("grant_id = ?", event.GrantID).First(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrGrantNotFound
		}
		return nil, nil, err
	}
	return &event, &grant, nil
}

// moveShares debits the source portfolio and credits the destination. The
// debit is guarded by the balance in the WHERE clause so an overdraw fails
// atomically instead of racing a read-then-write check.
func moveShares(tx *gorm.DB, fromID, toID uuid.UUID, shares float64) error {
	res := tx.Model(&models.Portfolio{}).
		Where("portfolio_id = ? AND available_shares >= ?", fromID, shares).
		Updates(map[string]interface{}{
			"available_shares": gorm.Expr("available_shares - ?", shares),
			"total_shares":     gorm.Expr("total_shares - ?", shares),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientReservedShares
	}

	return tx.Model(&models.Portfolio{}).
		Where("portfolio_id = ?", toID).
		Updates(map[string]interface{}{
			"available_shares": gorm.Expr("available_shares + ?", shares),
			"total_shares":     gorm.Expr("total_shares + ?", shares),
		}).Error
}

func applyGrantVesting(tx *gorm.DB, grantID uuid.UUID, shares float64) error {
	return tx.Model(&models.Grant{}).
		Where("grant_id = ?", grantID).
		Updates(map[string]interface{}{
			"vested_shares":   gorm.Expr("vested_shares + ?", shares),
			"unvested_shares": gorm.Expr("unvested_shares - ?", shares),
		}).Error
}

// resolveExercisePrice resolves the strike price in priority order: the
// event, then the grant, then the plan default.
func resolveExercisePrice(tx *gorm.DB, event *models.VestingEvent, grant *models.Grant) (float64, error) {
	if event.ExercisePrice != nil {
		return *event.ExercisePrice, nil
	}
	if grant.ExercisePrice != nil {
		return *grant.ExercisePrice, nil
	}
	var plan models.EquityPlan
	if err := tx.Where("plan_id = ?", grant.PlanID).First(&plan).Error; err == nil && plan.DefaultExercisePrice != nil {
		return *plan.DefaultExercisePrice, nil
	}
	return 0, ErrExercisePriceUnavailable
}

// newTransferNumber builds a unique transfer number from the date and a UUID
// fragment; the unique index on transfer_number catches the negligible
// residual collision chance.
func newTransferNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
	return fmt.Sprintf("TRF-%s-%s", time.Now().Format("20060102"), suffix)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
