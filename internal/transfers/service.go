package transfers

import (
	"context"

	"vesta-backend/internal/identity"
	"vesta-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// FormattedTransfer is a transfer enriched with the employee's name and the
// originating event's sequence number for display.
type FormattedTransfer struct {
	TransferID        uuid.UUID   `json:"transfer_id"`
	TransferNumber    string      `json:"transfer_number"`
	TransferType      string      `json:"transfer_type"`
	Status            string      `json:"status"`
	SharesTransferred float64     `json:"shares_transferred"`
	TransferDate      interface{} `json:"transfer_date"`
	EmployeeID        uuid.UUID   `json:"employee_id"`
	EmployeeName      *string     `json:"employee_name"`
	VestingEventID    uuid.UUID   `json:"vesting_event_id"`
	SequenceNumber    *int        `json:"sequence_number"`
}

// ViewTransfers lists the company's transfers, newest first, enriched with
// employee names and event sequence numbers in two batched lookups.
func (s *Service) ViewTransfers(ctx context.Context, actor identity.Actor) ([]FormattedTransfer, error) {
	q := s.DB.WithContext(ctx).Where("company_id = ?", actor.CompanyID)
	if actor.EmployeeID != nil {
		q = q.Where("employee_id = ?", *actor.EmployeeID)
	}
	var rows []models.ShareTransfer
	if err := q.Order(`"createdAt" DESC`).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []FormattedTransfer{}, nil
	}

	employeeIDs := map[uuid.UUID]bool{}
	eventIDs := map[uuid.UUID]bool{}
	for _, t := range rows {
		employeeIDs[t.EmployeeID] = true
		eventIDs[t.VestingEventID] = true
	}

	nameByID := map[uuid.UUID]string{}
	{
		ids := make([]uuid.UUID, 0, len(employeeIDs))
		for id := range employeeIDs {
			ids = append(ids, id)
		}
		var employees []models.Employee
		s.DB.WithContext(ctx).Where("employee_id IN ?", ids).Select("employee_id, fullname").Find(&employees)
		for _, e := range employees {
			nameByID[e.EmployeeID] = e.Fullname
		}
	}

	seqByID := map[uuid.UUID]int{}
	{
		ids := make([]uuid.UUID, 0, len(eventIDs))
		for id := range eventIDs {
			ids = append(ids, id)
		}
		var events []models.VestingEvent
		s.DB.WithContext(ctx).Where("event_id IN ?", ids).Select("event_id, sequence_number").Find(&events)
		for _, ev := range events {
			seqByID[ev.EventID] = ev.SequenceNumber
		}
	}

	out := make([]FormattedTransfer, len(rows))
	for i, t := range rows {
		ft := FormattedTransfer{
			TransferID:        t.TransferID,
			TransferNumber:    t.TransferNumber,
			TransferType:      t.TransferType,
			Status:            t.Status,
			SharesTransferred: t.SharesTransferred,
			TransferDate:      t.TransferDate,
			EmployeeID:        t.EmployeeID,
			VestingEventID:    t.VestingEventID,
		}
		if name, ok := nameByID[t.EmployeeID]; ok {
			ft.EmployeeName = &name
		}
		if seq, ok := seqByID[t.VestingEventID]; ok {
			ft.SequenceNumber = &seq
		}
		out[i] = ft
	}
	return out, nil
}

// UnreconciledTransfer pairs a transfer with the non-terminal status of its
// originating event.
type UnreconciledTransfer struct {
	Transfer    models.ShareTransfer `json:"transfer"`
	EventStatus string               `json:"event_status"`
}

// Unreconciled finds transfers whose originating vesting event is not in a
// terminal payout status. Under the transactional settlement workflow this
// set should always be empty; a non-empty result means a partial write
// reached the store some other way and needs manual reconciliation.
func (s *Service) Unreconciled(ctx context.Context, companyID uuid.UUID) ([]UnreconciledTransfer, error) {
	var rows []models.ShareTransfer
	if err := s.DB.WithContext(ctx).Where("company_id = ?", companyID).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []UnreconciledTransfer{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, t := range rows {
		ids = append(ids, t.VestingEventID)
	}
	var events []models.VestingEvent
	if err := s.DB.WithContext(ctx).Where("event_id IN ?", ids).Select("event_id, status").Find(&events).Error; err != nil {
		return nil, err
	}
	statusByID := make(map[uuid.UUID]string, len(events))
	for _, ev := range events {
		statusByID[ev.EventID] = ev.Status
	}

	out := []UnreconciledTransfer{}
	for _, t := range rows {
		status, ok := statusByID[t.VestingEventID]
		if !ok {
			out = append(out, UnreconciledTransfer{Transfer: t, EventStatus: "missing"})
			continue
		}
		if status != models.EventStatusTransferred && status != models.EventStatusExercised {
			out = append(out, UnreconciledTransfer{Transfer: t, EventStatus: status})
		}
	}
	return out, nil
}
