package response

import (
	"time"

	"github.com/google/uuid"

	"gearlend/internal/usecase/commands"
)

type ReserveResponse struct {
	ReservationIDs []uuid.UUID `json:"reservation_ids"`
	UnitIDs        []uuid.UUID `json:"unit_ids"`
	StartDate      string      `json:"start_date"`
	EndDate        string      `json:"end_date"`
}

type ReturnResponse struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ReturnedAt    time.Time `json:"returned_at"`
	DaysLate      int       `json:"days_late"`
}

func FromReserveResult(r *commands.ReserveResult) *ReserveResponse {
	return &ReserveResponse{
		ReservationIDs: r.ReservationIDs,
		UnitIDs:        r.UnitIDs,
		StartDate:      r.StartDate.Format("2006-01-02"),
		EndDate:        r.EndDate.Format("2006-01-02"),
	}
}

func FromReturnResult(r *commands.ReturnResult) *ReturnResponse {
	return &ReturnResponse{
		ReservationID: r.ReservationID,
		ReturnedAt:    r.ReturnedAt,
		DaysLate:      r.DaysLate,
	}
}
