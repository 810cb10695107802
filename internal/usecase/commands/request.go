package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gearlend/internal/domain/inventory"
	"gearlend/internal/domain/request"
	"gearlend/internal/domain/reservation"
	"gearlend/internal/domain/user"
	"gearlend/internal/infra"
	"gearlend/internal/infra/db"
	"gearlend/internal/pkg/clock"
	"gearlend/internal/pkg/errs"
	"gearlend/internal/usecase/shared"
)

var (
	ErrRequestNotFound     = errs.New("borrow request not found")
	ErrRequestItemNotFound = errs.New("request item not found")
	ErrItemNotPending      = errs.New("request item is not pending")
	ErrNotRequestOwner     = errs.New("not the request owner")
)

type SubmitRequestItem struct {
	PoolName string
	Quantity int
}

type SubmitRequestInput struct {
	BorrowerID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Note       string
	Items      []SubmitRequestItem
}

type ItemApprovalResult struct {
	PoolName       string
	Quantity       int
	ReservationIDs []uuid.UUID
}

// ItemFailure records why one item of an approve-all batch could not be
// approved. The item stays pending.
type ItemFailure struct {
	PoolName  string
	Requested int
	Available int
	Err       error
}

type ApproveAllResult struct {
	Approved []ItemApprovalResult
	Failures []ItemFailure
}

type RequestCommands interface {
	Submit(ctx context.Context, input SubmitRequestInput) (uuid.UUID, error)
	ApproveItem(ctx context.Context, requestID uuid.UUID, poolName string) (*ItemApprovalResult, error)
	RejectItem(ctx context.Context, requestID uuid.UUID, poolName, reason string) error
	// ApproveAll applies single-item approval to every pending item in
	// submission order, collecting failures instead of aborting, and sends
	// one notification for the whole batch.
	ApproveAll(ctx context.Context, requestID uuid.UUID) (*ApproveAllResult, error)
	Delete(ctx context.Context, requestID, callerID uuid.UUID) error
}

type requestUseCaseImpl struct {
	requestRepo     RequestRepository
	unitRepo        UnitRepository
	reservationRepo ReservationRepository
	userRepo        UserRepository
	notifier        Notifier
	gate            BorrowGate
	uow             shared.UnitOfWork
	clock           clock.Clock
}

func NewRequestUseCase(
	requestRepo RequestRepository,
	unitRepo UnitRepository,
	reservationRepo ReservationRepository,
	userRepo UserRepository,
	notifier Notifier,
	gate BorrowGate,
	uow shared.UnitOfWork,
	clock clock.Clock,
) RequestCommands {
	return &requestUseCaseImpl{
		requestRepo:     requestRepo,
		unitRepo:        unitRepo,
		reservationRepo: reservationRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		gate:            gate,
		uow:             uow,
		clock:           clock,
	}
}

func (r *requestUseCaseImpl) Submit(ctx context.Context, input SubmitRequestInput) (uuid.UUID, error) {
	dates, err := reservation.NewDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidDateRange)
	}

	gate, err := r.gate.CheckCanBorrow(ctx, input.BorrowerID)
	if err == nil && !gate.CanBorrow {
		return uuid.Nil, &BannedError{BanUntil: gate.BanUntil, Reason: gate.BanReason}
	}

	items := make([]*request.Item, 0, len(input.Items))
	for _, in := range input.Items {
		item, err := request.NewItem(in.PoolName, in.Quantity)
		if err != nil {
			return uuid.Nil, errs.Mark(err, ErrInvalidQuantity)
		}
		items = append(items, item)
	}

	req, err := request.NewBorrowRequest(input.BorrowerID, dates, reservation.NewNote(input.Note), items)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to build borrow request")
	}

	err = r.uow.Within(ctx, func(tx db.DBTX) error {
		return r.requestRepo.Create(ctx, tx, req)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return req.ID(), nil
}

func (r *requestUseCaseImpl) ApproveItem(ctx context.Context, requestID uuid.UUID, poolName string) (*ItemApprovalResult, error) {
	req, err := r.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	result, err := r.approveOne(ctx, req, poolName)
	if err != nil {
		return nil, err
	}

	r.notifyApproval(ctx, req, []ItemApprovalResult{*result})
	return result, nil
}

func (r *requestUseCaseImpl) RejectItem(ctx context.Context, requestID uuid.UUID, poolName, reason string) error {
	req, err := r.findRequest(ctx, requestID)
	if err != nil {
		return err
	}

	item, err := req.FindItem(poolName)
	if err != nil {
		return errs.Mark(err, ErrRequestItemNotFound)
	}
	if err := item.Reject(reason); err != nil {
		return errs.Mark(err, ErrItemNotPending)
	}

	return r.uow.Within(ctx, func(tx db.DBTX) error {
		return r.requestRepo.UpdateItem(ctx, tx, req.ID(), item)
	})
}

func (r *requestUseCaseImpl) ApproveAll(ctx context.Context, requestID uuid.UUID) (*ApproveAllResult, error) {
	req, err := r.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	result := &ApproveAllResult{}
	for _, item := range req.PendingItems() {
		approved, err := r.approveOne(ctx, req, item.PoolName())
		if err != nil {
			failure := ItemFailure{
				PoolName:  item.PoolName(),
				Requested: item.Quantity(),
				Err:       err,
			}
			var insufficient *InsufficientAvailabilityError
			if errors.As(err, &insufficient) {
				failure.Available = insufficient.Available
			}
			result.Failures = append(result.Failures, failure)
			continue
		}
		result.Approved = append(result.Approved, *approved)
	}

	// One notification per request, carrying only the items that went
	// through. Per-item mails would spam the borrower on big batches.
	if len(result.Approved) > 0 {
		r.notifyApproval(ctx, req, result.Approved)
	}
	return result, nil
}

func (r *requestUseCaseImpl) Delete(ctx context.Context, requestID, callerID uuid.UUID) error {
	req, err := r.findRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if !req.IsOwnedBy(callerID) {
		return ErrNotRequestOwner
	}

	return r.uow.Within(ctx, func(tx db.DBTX) error {
		return r.requestRepo.Delete(ctx, tx, requestID)
	})
}

func (r *requestUseCaseImpl) findRequest(ctx context.Context, requestID uuid.UUID) (*request.BorrowRequest, error) {
	var req *request.BorrowRequest
	err := r.uow.WithDB(ctx, func(dbtx db.DBTX) error {
		var findErr error
		req, findErr = r.requestRepo.FindByID(ctx, dbtx, requestID)
		return findErr
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrRequestNotFound)
		}
		return nil, err
	}
	return req, nil
}

// approveOne runs the item transition and its reservation spawn in one
// transaction, with the same single conflict retry as a direct reserve.
func (r *requestUseCaseImpl) approveOne(ctx context.Context, req *request.BorrowRequest, poolName string) (*ItemApprovalResult, error) {
	result, err := r.approveOneTx(ctx, req, poolName)
	if err != nil && infra.IsKind(err, infra.KindConflict) {
		result, err = r.approveOneTx(ctx, req, poolName)
		if err != nil && infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, ErrReservationConflict)
		}
	}
	return result, err
}

func (r *requestUseCaseImpl) approveOneTx(ctx context.Context, req *request.BorrowRequest, poolName string) (*ItemApprovalResult, error) {
	var result *ItemApprovalResult
	err := r.uow.Within(ctx, func(tx db.DBTX) error {
		// Reload inside the transaction so a concurrent admin acting on the
		// same item surfaces as not-pending instead of a double approval.
		fresh, err := r.requestRepo.FindByID(ctx, tx, req.ID())
		if err != nil {
			return err
		}
		item, err := fresh.FindItem(poolName)
		if err != nil {
			return errs.Mark(err, ErrRequestItemNotFound)
		}

		units, err := r.unitRepo.FindByPoolName(ctx, tx, poolName)
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
		reservedRanges, err := r.reservationRepo.ActiveRangesByUnitIDs(ctx, tx, unitIDs)
		if err != nil {
			return err
		}

		selected, freeCount, ok := inventory.SelectFreeUnits(units, reservedRanges, fresh.Dates(), item.Quantity())
		if !ok {
			return &InsufficientAvailabilityError{
				PoolName:  poolName,
				Available: freeCount,
				Requested: item.Quantity(),
			}
		}

		if err := item.Approve(); err != nil {
			return errs.Mark(err, ErrItemNotPending)
		}
		if err := r.requestRepo.UpdateItem(ctx, tx, fresh.ID(), item); err != nil {
			return err
		}

		result = &ItemApprovalResult{
			PoolName: poolName,
			Quantity: item.Quantity(),
		}
		for _, u := range selected {
			res := reservation.NewReservation(u.ID(), fresh.BorrowerID(), fresh.Dates())
			if err := r.reservationRepo.Create(ctx, tx, res); err != nil {
				return err
			}
			if err := r.unitRepo.UpdateStatus(ctx, tx, u.ID(), inventory.UnitReserved); err != nil {
				return err
			}
			result.ReservationIDs = append(result.ReservationIDs, res.ID())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *requestUseCaseImpl) notifyApproval(ctx context.Context, req *request.BorrowRequest, approved []ItemApprovalResult) {
	var borrower *user.User
	err := r.uow.WithDB(ctx, func(dbtx db.DBTX) error {
		var findErr error
		borrower, findErr = r.userRepo.FindByID(ctx, dbtx, req.BorrowerID())
		return findErr
	})
	if err != nil {
		slog.Warn("skipping approval notification, borrower lookup failed",
			"request_id", req.ID(),
			"error", err)
		return
	}

	items := make([]ApprovedItem, 0, len(approved))
	for _, a := range approved {
		items = append(items, ApprovedItem{PoolName: a.PoolName, Quantity: a.Quantity})
	}

	to := Recipient{Username: borrower.Username(), Email: borrower.Email()}
	if err := r.notifier.SendApprovalNotification(ctx, to, items, req.Dates().Start(), req.Dates().End()); err != nil {
		slog.Warn("approval notification failed",
			"request_id", req.ID(),
			"error", err)
	}
}
