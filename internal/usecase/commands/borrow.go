package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gearlend/internal/domain/inventory"
	"gearlend/internal/domain/penalty"
	"gearlend/internal/domain/reservation"
	"gearlend/internal/infra"
	"gearlend/internal/infra/db"
	"gearlend/internal/pkg/clock"
	"gearlend/internal/pkg/errs"
	"gearlend/internal/usecase/shared"
)

var (
	ErrPoolNotFound             = errs.New("equipment pool not found")
	ErrReservationNotFound      = errs.New("reservation not found")
	ErrReservationConflict      = errs.New("reservation conflict")
	ErrAlreadyReturned          = errs.New("reservation already returned")
	ErrInvalidDateRange         = errs.New("invalid date range")
	ErrInvalidQuantity          = errs.New("quantity must be at least 1")
	ErrInsufficientAvailability = errs.New("insufficient availability")
	ErrBorrowerBanned           = errs.New("borrower is banned")
)

// InsufficientAvailabilityError carries the actual free count so the caller
// can offer a reduced quantity.
type InsufficientAvailabilityError struct {
	PoolName  string
	Available int
	Requested int
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("insufficient availability for %q: %d available, %d requested", e.PoolName, e.Available, e.Requested)
}

func (e *InsufficientAvailabilityError) Is(target error) bool {
	return target == ErrInsufficientAvailability
}

// BannedError carries the ban details for the refusal message. BanUntil nil
// or at the permanent sentinel means no expiry.
type BannedError struct {
	BanUntil *time.Time
	Reason   string
}

func (e *BannedError) Error() string {
	if e.BanUntil == nil || e.BanUntil.Equal(penalty.PermanentBanUntil) {
		return "borrower is banned (no expiry)"
	}
	return fmt.Sprintf("borrower is banned until %s", e.BanUntil.Format("2006-01-02"))
}

func (e *BannedError) Is(target error) bool {
	return target == ErrBorrowerBanned
}

// BorrowGate is the ban check consulted before any reservation is created.
// Implemented by the penalty commands.
type BorrowGate interface {
	CheckCanBorrow(ctx context.Context, borrowerID uuid.UUID) (*CanBorrowResult, error)
}

type ReserveResult struct {
	ReservationIDs []uuid.UUID
	UnitIDs        []uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
}

type ReturnResult struct {
	ReservationID uuid.UUID
	ReturnedAt    time.Time
	DaysLate      int
}

type BorrowCommands interface {
	// Reserve claims quantity units of the pool for the inclusive range.
	Reserve(ctx context.Context, poolName string, quantity int, start, end time.Time, borrowerID uuid.UUID) (*ReserveResult, error)
	// Return closes an active reservation and frees its unit.
	Return(ctx context.Context, reservationID uuid.UUID) (*ReturnResult, error)
}

type borrowUseCaseImpl struct {
	unitRepo        UnitRepository
	reservationRepo ReservationRepository
	gate            BorrowGate
	uow             shared.UnitOfWork
	clock           clock.Clock
}

func NewBorrowUseCase(
	unitRepo UnitRepository,
	reservationRepo ReservationRepository,
	gate BorrowGate,
	uow shared.UnitOfWork,
	clock clock.Clock,
) BorrowCommands {
	return &borrowUseCaseImpl{
		unitRepo:        unitRepo,
		reservationRepo: reservationRepo,
		gate:            gate,
		uow:             uow,
		clock:           clock,
	}
}

func (b *borrowUseCaseImpl) Reserve(ctx context.Context, poolName string, quantity int, start, end time.Time, borrowerID uuid.UUID) (*ReserveResult, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	dates, err := reservation.NewDateRange(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}

	gate, err := b.gate.CheckCanBorrow(ctx, borrowerID)
	if err == nil && !gate.CanBorrow {
		return nil, &BannedError{BanUntil: gate.BanUntil, Reason: gate.BanReason}
	}

	result, err := b.reserveOnce(ctx, poolName, quantity, dates, borrowerID)
	if err != nil && infra.IsKind(err, infra.KindConflict) {
		// A concurrent writer won one of the selected units. Re-select once
		// against the refreshed free list, then give up.
		result, err = b.reserveOnce(ctx, poolName, quantity, dates, borrowerID)
		if err != nil && infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, ErrReservationConflict)
		}
	}
	return result, err
}

func (b *borrowUseCaseImpl) reserveOnce(ctx context.Context, poolName string, quantity int, dates reservation.DateRange, borrowerID uuid.UUID) (*ReserveResult, error) {
	var result *ReserveResult
	err := b.uow.Within(ctx, func(tx db.DBTX) error {
		units, err := b.unitRepo.FindByPoolName(ctx, tx, poolName)
		if err != nil {
			return err
		}
		if len(units) == 0 {
			return ErrPoolNotFound
		}

		unitIDs := make([]uuid.UUID, len(units))
		for i, u := range units {
			unitIDs[i] = u.ID()
		}
		reservedRanges, err := b.reservationRepo.ActiveRangesByUnitIDs(ctx, tx, unitIDs)
		if err != nil {
			return err
		}

		selected, freeCount, ok := inventory.SelectFreeUnits(units, reservedRanges, dates, quantity)
		if !ok {
			return &InsufficientAvailabilityError{
				PoolName:  poolName,
				Available: freeCount,
				Requested: quantity,
			}
		}

		result = &ReserveResult{
			StartDate: dates.Start(),
			EndDate:   dates.End(),
		}
		for _, u := range selected {
			res := reservation.NewReservation(u.ID(), borrowerID, dates)
			if err := b.reservationRepo.Create(ctx, tx, res); err != nil {
				return err
			}
			if err := b.unitRepo.UpdateStatus(ctx, tx, u.ID(), inventory.UnitReserved); err != nil {
				return err
			}
			result.ReservationIDs = append(result.ReservationIDs, res.ID())
			result.UnitIDs = append(result.UnitIDs, u.ID())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (b *borrowUseCaseImpl) Return(ctx context.Context, reservationID uuid.UUID) (*ReturnResult, error) {
	now := b.clock.Now()

	var result *ReturnResult
	err := b.uow.Within(ctx, func(tx db.DBTX) error {
		res, err := b.reservationRepo.FindByID(ctx, tx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrReservationNotFound)
			}
			return err
		}

		if err := res.Return(now); err != nil {
			return errs.Mark(err, ErrAlreadyReturned)
		}
		if err := b.reservationRepo.Update(ctx, tx, res); err != nil {
			return err
		}

		// The unit goes back to available only when nothing else holds it.
		hasOther, err := b.reservationRepo.HasOtherActive(ctx, tx, res.UnitID(), res.ID())
		if err != nil {
			return err
		}
		if !hasOther {
			if err := b.unitRepo.UpdateStatus(ctx, tx, res.UnitID(), inventory.UnitAvailable); err != nil {
				return err
			}
		}

		_, daysLate := res.ReturnedLate(now)
		result = &ReturnResult{
			ReservationID: res.ID(),
			ReturnedAt:    now,
			DaysLate:      daysLate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
