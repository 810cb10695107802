package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command read paths. Queries build their own richer
// view structs.

type UnitSnapshot struct {
	ID       uuid.UUID
	Name     string
	Category string
	ImageRef *string
	Status   string
}

type ReservationSnapshot struct {
	ID         uuid.UUID
	UnitID     uuid.UUID
	BorrowerID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Status     string
	ReturnedAt *time.Time
}

// DueReservation joins a due or overdue active reservation with the data the
// reminder mail needs.
type DueReservation struct {
	ReservationID    uuid.UUID
	BorrowerID       uuid.UUID
	BorrowerUsername string
	BorrowerEmail    string
	UnitName         string
	EndDate          time.Time
}
