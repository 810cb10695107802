package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gearlend/internal/domain/reservation"
	"gearlend/internal/pkg/clock"
	"gearlend/internal/usecase/shared"
)

// StatusOverdue is a derived pseudo-status for history filtering: active and
// past the end date. It never appears in storage.
const StatusOverdue = "overdue"

type ReservationViewRepo interface {
	History(ctx context.Context, filter HistoryFilter) ([]*BorrowingView, error)
	ActiveByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*BorrowingView, error)
	DueReservations(ctx context.Context, lookaheadDays int, today time.Time) ([]shared.DueReservation, error)
}

type RequestViewRepo interface {
	ListOpen(ctx context.Context) ([]*RequestView, error)
	ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*RequestView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*RequestView, error)
}

type ReservationQueries interface {
	// History lists borrowings newest first, honoring every filter field.
	History(ctx context.Context, filter HistoryFilter) ([]*BorrowingView, error)
	// MyBorrowings lists the borrower's active reservations with due badges.
	MyBorrowings(ctx context.Context, borrowerID uuid.UUID) ([]*BorrowingView, error)
	// DueReservations feeds the reminder sweep with active reservations
	// ending inside the lookahead window or already past due.
	DueReservations(ctx context.Context, lookaheadDays int) ([]shared.DueReservation, error)
	ListOpenRequests(ctx context.Context) ([]*RequestView, error)
	MyRequests(ctx context.Context, borrowerID uuid.UUID) ([]*RequestView, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*RequestView, error)
}

type reservationQueriesImpl struct {
	reservations ReservationViewRepo
	requests     RequestViewRepo
	clock        clock.Clock
}

func NewReservationQueries(reservations ReservationViewRepo, requests RequestViewRepo, clock clock.Clock) ReservationQueries {
	return &reservationQueriesImpl{
		reservations: reservations,
		requests:     requests,
		clock:        clock,
	}
}

func (q *reservationQueriesImpl) History(ctx context.Context, filter HistoryFilter) ([]*BorrowingView, error) {
	overdueOnly := filter.Status == StatusOverdue
	if overdueOnly {
		// Overdue is derived; fetch active rows and narrow below.
		filter.Status = string(reservation.StatusActive)
	}

	rows, err := q.reservations.History(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*BorrowingView, 0, len(rows))
	for _, row := range rows {
		q.classify(row)
		if overdueOnly && row.DueClass != string(reservation.DueOverdue) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (q *reservationQueriesImpl) MyBorrowings(ctx context.Context, borrowerID uuid.UUID) ([]*BorrowingView, error) {
	rows, err := q.reservations.ActiveByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		q.classify(row)
	}
	return rows, nil
}

func (q *reservationQueriesImpl) DueReservations(ctx context.Context, lookaheadDays int) ([]shared.DueReservation, error) {
	return q.reservations.DueReservations(ctx, lookaheadDays, clock.Today(q.clock))
}

func (q *reservationQueriesImpl) ListOpenRequests(ctx context.Context) ([]*RequestView, error) {
	return q.requests.ListOpen(ctx)
}

func (q *reservationQueriesImpl) MyRequests(ctx context.Context, borrowerID uuid.UUID) ([]*RequestView, error) {
	return q.requests.ListByBorrower(ctx, borrowerID)
}

func (q *reservationQueriesImpl) GetRequest(ctx context.Context, id uuid.UUID) (*RequestView, error) {
	return q.requests.FindByID(ctx, id)
}

// classify stamps the due badge. Returned rows keep a neutral badge; only
// active ones can be due or overdue.
func (q *reservationQueriesImpl) classify(row *BorrowingView) {
	if row.Status != string(reservation.StatusActive) {
		row.DueClass = string(reservation.DueLater)
		return
	}
	dates, err := reservation.NewDateRange(row.EndDate, row.EndDate)
	if err != nil {
		row.DueClass = string(reservation.DueLater)
		return
	}
	row.DaysUntilDue = dates.DaysUntilDue(clock.Today(q.clock))
	row.DueClass = string(reservation.ClassifyDue(row.DaysUntilDue))
}
