package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gearlend/internal/domain/penalty"
	"gearlend/internal/domain/user"
	"gearlend/internal/infra"
	"gearlend/internal/infra/db"
	"gearlend/internal/pkg/clock"
	"gearlend/internal/pkg/errs"
	"gearlend/internal/usecase/shared"
)

var ErrUserNotFound = errs.New("user not found")

type RecordPenaltyInput struct {
	BorrowerID         uuid.UUID
	ReservationID      *uuid.UUID
	UnitID             *uuid.UUID
	Type               penalty.Type
	DaysLate           int
	Description        *string
	CompensationAmount float64
}

// RecordPenaltyResult surfaces the strikes given and resulting ban state so
// the caller can show it immediately.
type RecordPenaltyResult struct {
	PenaltyID    uuid.UUID
	StrikesGiven int
	Severity     penalty.Severity
	TotalStrikes int
	Banned       bool
	BanUntil     *time.Time
	BanReason    string
}

type CanBorrowResult struct {
	CanBorrow    bool
	TotalStrikes int
	BanUntil     *time.Time
	BanReason    string
}

type PenaltyCommands interface {
	RecordPenalty(ctx context.Context, input RecordPenaltyInput) (*RecordPenaltyResult, error)
	CheckCanBorrow(ctx context.Context, borrowerID uuid.UUID) (*CanBorrowResult, error)
}

type penaltyUseCaseImpl struct {
	penaltyRepo PenaltyRepository
	userRepo    UserRepository
	uow         shared.UnitOfWork
	clock       clock.Clock
}

func NewPenaltyUseCase(
	penaltyRepo PenaltyRepository,
	userRepo UserRepository,
	uow shared.UnitOfWork,
	clock clock.Clock,
) PenaltyCommands {
	return &penaltyUseCaseImpl{
		penaltyRepo: penaltyRepo,
		userRepo:    userRepo,
		uow:         uow,
		clock:       clock,
	}
}

// RecordPenalty persists the incident, raises the borrower's strike total and
// recomputes the ban tier, all in one transaction. Strikes never go down;
// recomputing the tier can only hold or escalate the ban.
func (p *penaltyUseCaseImpl) RecordPenalty(ctx context.Context, input RecordPenaltyInput) (*RecordPenaltyResult, error) {
	now := p.clock.Now()

	var result *RecordPenaltyResult
	err := p.uow.Within(ctx, func(tx db.DBTX) error {
		borrower, err := p.userRepo.FindByID(ctx, tx, input.BorrowerID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrUserNotFound)
			}
			return err
		}

		record := penalty.NewPenalty(
			input.BorrowerID,
			input.ReservationID,
			input.UnitID,
			input.Type,
			input.DaysLate,
			input.Description,
			input.CompensationAmount,
		)
		if err := p.penaltyRepo.Create(ctx, tx, record); err != nil {
			return err
		}

		if err := borrower.AddStrikes(record.StrikesGiven()); err != nil {
			return err
		}

		result = &RecordPenaltyResult{
			PenaltyID:    record.ID(),
			StrikesGiven: record.StrikesGiven(),
			Severity:     record.Severity(),
			TotalStrikes: borrower.TotalStrikes(),
		}

		decision := penalty.DecideBan(borrower.TotalStrikes(), now)
		if decision.Banned {
			borrower.Ban(decision.Until, decision.Reason)
			result.Banned = true
			result.BanUntil = decision.Until
			result.BanReason = decision.Reason
		}

		return p.userRepo.UpdatePenaltyState(ctx, tx, borrower)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CheckCanBorrow gates new reservations. An expired ban is cleared here, the
// only place ban state self-heals. Any lookup failure fails open so an
// infrastructure fault never blocks borrowing.
func (p *penaltyUseCaseImpl) CheckCanBorrow(ctx context.Context, borrowerID uuid.UUID) (*CanBorrowResult, error) {
	var borrower *user.User
	err := p.uow.WithDB(ctx, func(dbtx db.DBTX) error {
		var findErr error
		borrower, findErr = p.userRepo.FindByID(ctx, dbtx, borrowerID)
		return findErr
	})
	if err != nil {
		slog.Warn("ban check failed, allowing borrow",
			"borrower_id", borrowerID,
			"error", err)
		return &CanBorrowResult{CanBorrow: true}, nil
	}

	if borrower.IsBanned() && borrower.ClearBanIfExpired(p.clock.Now()) {
		err := p.uow.WithDB(ctx, func(dbtx db.DBTX) error {
			return p.userRepo.UpdatePenaltyState(ctx, dbtx, borrower)
		})
		if err != nil {
			slog.Warn("failed to persist ban expiry",
				"borrower_id", borrowerID,
				"error", err)
		}
	}

	result := &CanBorrowResult{
		CanBorrow:    !borrower.IsBanned(),
		TotalStrikes: borrower.TotalStrikes(),
		BanUntil:     borrower.BanUntil(),
	}
	if reason := borrower.BanReason(); reason != nil {
		result.BanReason = *reason
	}
	return result, nil
}
