package request

import "github.com/google/uuid"

type RecordPenaltyRequest struct {
	BorrowerID         uuid.UUID  `json:"borrower_id" binding:"required"`
	ReservationID      *uuid.UUID `json:"reservation_id,omitempty"`
	UnitID             *uuid.UUID `json:"unit_id,omitempty"`
	PenaltyType        string     `json:"penalty_type" binding:"required"`
	DaysLate           int        `json:"days_late,omitempty"`
	Description        *string    `json:"description,omitempty"`
	CompensationAmount float64    `json:"compensation_amount,omitempty"`
}
