package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyReturned = errors.New("reservation is already returned")
	ErrInvalidStatus   = errors.New("invalid reservation status")
)

// Reservation is one unit claimed by one borrower for an inclusive date
// range. Reservations are never deleted; returning closes them and keeps the
// row as audit trail.
type Reservation struct {
	id         uuid.UUID
	unitID     uuid.UUID
	borrowerID uuid.UUID
	dates      DateRange
	status     Status
	returnedAt *time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

func NewReservation(unitID, borrowerID uuid.UUID, dates DateRange) *Reservation {
	return &Reservation{
		id:         uuid.New(),
		unitID:     unitID,
		borrowerID: borrowerID,
		dates:      dates,
		status:     StatusActive,
	}
}

func ReconstructReservation(
	id, unitID, borrowerID uuid.UUID,
	dates DateRange,
	status Status,
	returnedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		unitID:     unitID,
		borrowerID: borrowerID,
		dates:      dates,
		status:     status,
		returnedAt: returnedAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Return closes the reservation. Returning twice is an error so a unit can
// never be freed twice from the same claim.
func (r *Reservation) Return(now time.Time) error {
	if r.status == StatusReturned {
		return ErrAlreadyReturned
	}
	r.status = StatusReturned
	r.returnedAt = &now
	return nil
}

func (r *Reservation) IsActive() bool {
	return r.status == StatusActive
}

// ReturnedLate reports whether the reservation was (or would be, if returned
// at `at`) past its end date, and by how many whole days.
func (r *Reservation) ReturnedLate(at time.Time) (bool, int) {
	days := r.dates.DaysUntilDue(at)
	if days >= 0 {
		return false, 0
	}
	return true, -days
}

func (r *Reservation) ID() uuid.UUID          { return r.id }
func (r *Reservation) UnitID() uuid.UUID      { return r.unitID }
func (r *Reservation) BorrowerID() uuid.UUID  { return r.borrowerID }
func (r *Reservation) Dates() DateRange       { return r.dates }
func (r *Reservation) Status() Status         { return r.status }
func (r *Reservation) ReturnedAt() *time.Time { return r.returnedAt }
func (r *Reservation) CreatedAt() time.Time   { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time   { return r.updatedAt }
