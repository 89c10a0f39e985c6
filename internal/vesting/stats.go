package vesting

import (
	"context"

	"vesta-backend/internal/models"

	"github.com/google/uuid"
)

// Summary is the read-side rollup consumed by dashboard tiles. Counts and
// share totals per status, plus a coarse cliff-versus-other split.
type Summary struct {
	PendingEvents          int64   `json:"pending_events"`
	TotalPendingShares     float64 `json:"total_pending_shares"`
	DueEvents              int64   `json:"due_events"`
	TotalDueShares         float64 `json:"total_due_shares"`
	VestedEvents           int64   `json:"vested_events"`
	TotalVestedShares      float64 `json:"total_vested_shares"`
	TransferredEvents      int64   `json:"transferred_events"`
	TotalTransferredShares float64 `json:"total_transferred_shares"`
	ExercisedEvents        int64   `json:"exercised_events"`
	TotalExercisedShares   float64 `json:"total_exercised_shares"`
	ForfeitedEvents        int64   `json:"forfeited_events"`
	TotalForfeitedShares   float64 `json:"total_forfeited_shares"`
	CancelledEvents        int64   `json:"cancelled_events"`
	TotalCancelledShares   float64 `json:"total_cancelled_shares"`
	CliffEvents            int64   `json:"cliff_events"`
	TotalCliffShares       float64 `json:"total_cliff_shares"`
	OtherEvents            int64   `json:"other_events"`
	TotalOtherShares       float64 `json:"total_other_shares"`
}

type statRow struct {
	Status       string
	EventType    string
	SharesToVest *float64
}

// Stats aggregates all vesting events for a company from a point-in-time
// read. Legacy rows may carry a null shares_to_vest; those count as zero
// shares rather than poisoning the totals.
func (s *Service) Stats(ctx context.Context, companyID uuid.UUID) (*Summary, error) {
	var rows []statRow
	err := s.DB.WithContext(ctx).
		Model(&models.VestingEvent{}).
		Select("status, event_type, shares_to_vest").
		Where("company_id = ?", companyID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := &Summary{}
	for _, r := range rows {
		shares := 0.0
		if r.SharesToVest != nil {
			shares = *r.SharesToVest
		}
		switch r.Status {
		case models.EventStatusPending:
			out.PendingEvents++
			out.TotalPendingShares += shares
		case models.EventStatusDue:
			out.DueEvents++
			out.TotalDueShares += shares
		case models.EventStatusVested:
			out.VestedEvents++
			out.TotalVestedShares += shares
		case models.EventStatusTransferred:
			out.TransferredEvents++
			out.TotalTransferredShares += shares
		case models.EventStatusExercised:
			out.ExercisedEvents++
			out.TotalExercisedShares += shares
		case models.EventStatusForfeited:
			out.ForfeitedEvents++
			out.TotalForfeitedShares += shares
		case models.EventStatusCancelled:
			out.CancelledEvents++
			out.TotalCancelledShares += shares
		}
		if r.EventType == models.EventTypeCliff {
			out.CliffEvents++
			out.TotalCliffShares += shares
		} else {
			out.OtherEvents++
			out.TotalOtherShares += shares
		}
	}
	return out, nil
}
