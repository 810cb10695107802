package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gearlend/internal/domain/inventory"
	"gearlend/internal/domain/penalty"
	"gearlend/internal/domain/request"
	"gearlend/internal/domain/reservation"
	"gearlend/internal/domain/user"
	"gearlend/internal/infra/db"
	"gearlend/internal/usecase/shared"
)

// Repository ports. Every method takes the DBTX it should run against, so
// one method body serves both pooled reads and explicit transactions.

type UnitRepository interface {
	FindByPoolName(ctx context.Context, tx db.DBTX, poolName string) ([]*inventory.Unit, error)
	Create(ctx context.Context, tx db.DBTX, u *inventory.Unit) error
	UpdateStatus(ctx context.Context, tx db.DBTX, unitID uuid.UUID, status inventory.UnitStatus) error
	UpdatePoolInfo(ctx context.Context, tx db.DBTX, poolName, newName, category string, imageRef *string) (int64, error)
	Delete(ctx context.Context, tx db.DBTX, unitID uuid.UUID) error
}

type ReservationRepository interface {
	Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*reservation.Reservation, error)
	Update(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error
	// ActiveRangesByUnitIDs returns each unit's active reservation ranges.
	// Units without active reservations are absent from the map.
	ActiveRangesByUnitIDs(ctx context.Context, tx db.DBTX, unitIDs []uuid.UUID) (map[uuid.UUID][]reservation.DateRange, error)
	// HasOtherActive reports whether the unit has an active reservation other
	// than the one being returned.
	HasOtherActive(ctx context.Context, tx db.DBTX, unitID, excludeID uuid.UUID) (bool, error)
}

type RequestRepository interface {
	Create(ctx context.Context, tx db.DBTX, req *request.BorrowRequest) error
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*request.BorrowRequest, error)
	UpdateItem(ctx context.Context, tx db.DBTX, requestID uuid.UUID, item *request.Item) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User) error
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*user.User, error)
	FindByUsername(ctx context.Context, tx db.DBTX, username string) (*user.User, error)
	UpdatePenaltyState(ctx context.Context, tx db.DBTX, u *user.User) error
	UpdateRole(ctx context.Context, tx db.DBTX, id uuid.UUID, role user.Role) error
}

type PenaltyRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *penalty.Penalty) error
}

// Recipient is who a notification goes to.
type Recipient struct {
	Username string
	Email    string
}

// ApprovedItem is one granted line of an approval mail.
type ApprovedItem struct {
	PoolName string
	Quantity int
}

// Notifier is the transactional mail boundary. Implementations are
// fire-and-forget: callers log failures and move on, they never roll back on
// a mail error.
type Notifier interface {
	SendApprovalNotification(ctx context.Context, to Recipient, items []ApprovedItem, start, end time.Time) error
	SendDueReminder(ctx context.Context, to Recipient, itemName string, returnDate time.Time, due reservation.DueClass, overdueDays int) error
}

// ReminderDedup suppresses repeat reminder sends across scheduler runs.
// MarkSent claims the (borrower, reservation, day) key; it returns false when
// a previous run already claimed it.
type ReminderDedup interface {
	MarkSent(ctx context.Context, borrowerID, reservationID uuid.UUID, day time.Time) (bool, error)
}

// DueReservationReader feeds the reminder sweep.
type DueReservationReader interface {
	DueReservations(ctx context.Context, lookaheadDays int, today time.Time) ([]shared.DueReservation, error)
}
