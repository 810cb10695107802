package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"gearlend/internal/domain/reservation"
	"gearlend/internal/infra"
	"gearlend/internal/infra/db"
	"gearlend/internal/pkg/errs"
	"gearlend/internal/pkg/pgconv"
	"gearlend/internal/usecase/queries"
	"gearlend/internal/usecase/shared"
)

// ReservationRepository persists date-ranged unit claims. The table carries
// an exclusion constraint forbidding overlapping active ranges per unit, so
// inserts racing past the free-list check fail with SQLSTATE 23P01 and
// surface as KindConflict.
type ReservationRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewReservationRepository(pool db.DBTX, logger *slog.Logger) *ReservationRepository {
	return &ReservationRepository{db: pool, logger: logger}
}

func (r *ReservationRepository) Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO reservations (id, unit_id, borrower_id, start_date, end_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID(), res.UnitID(), res.BorrowerID(),
		pgconv.DateToPgtype(res.Dates().Start()), pgconv.DateToPgtype(res.Dates().End()),
		res.Status().String())
	if err != nil {
		return wrapPgErr(r.logger, "failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	row := tx.QueryRow(ctx,
		`SELECT id, unit_id, borrower_id, start_date, end_date, status, returned_at, created_at, updated_at
		 FROM reservations WHERE id = $1`, id)

	var (
		resID, unitID, borrowerID uuid.UUID
		startDate, endDate        pgtype.Date
		status                    string
		returnedAt                pgtype.Timestamptz
		createdAt, updatedAt      pgtype.Timestamptz
	)
	if err := row.Scan(&resID, &unitID, &borrowerID, &startDate, &endDate, &status, &returnedAt, &createdAt, &updatedAt); err != nil {
		return nil, wrapPgErr(r.logger, "failed to find reservation", err)
	}

	dates, err := reservation.NewDateRange(pgconv.DateFromPgtype(startDate), pgconv.DateFromPgtype(endDate))
	if err != nil {
		return nil, errs.Wrap(err, "stored reservation has invalid range")
	}
	return reservation.ReconstructReservation(
		resID, unitID, borrowerID, dates,
		reservation.Status(status),
		pgconv.TimePtrFromPgtype(returnedAt),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *ReservationRepository) Update(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error {
	tag, err := tx.Exec(ctx,
		`UPDATE reservations SET status = $2, returned_at = $3, updated_at = now() WHERE id = $1`,
		res.ID(), res.Status().String(), pgconv.TimePtrToPgtype(res.ReturnedAt()))
	if err != nil {
		return wrapPgErr(r.logger, "failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "reservation not found for update", nil)
	}
	return nil
}

func (r *ReservationRepository) ActiveRangesByUnitIDs(ctx context.Context, tx db.DBTX, unitIDs []uuid.UUID) (map[uuid.UUID][]reservation.DateRange, error) {
	return activeRangesByUnitIDs(ctx, tx, r.logger, unitIDs)
}

func (r *ReservationRepository) HasOtherActive(ctx context.Context, tx db.DBTX, unitID, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM reservations
		   WHERE unit_id = $1 AND id <> $2 AND status = 'active'
		 )`, unitID, excludeID).Scan(&exists)
	if err != nil {
		return false, wrapPgErr(r.logger, "failed to check active reservations", err)
	}
	return exists, nil
}

func activeRangesByUnitIDs(ctx context.Context, q db.DBTX, logger *slog.Logger, unitIDs []uuid.UUID) (map[uuid.UUID][]reservation.DateRange, error) {
	if len(unitIDs) == 0 {
		return map[uuid.UUID][]reservation.DateRange{}, nil
	}

	rows, err := q.Query(ctx,
		`SELECT unit_id, start_date, end_date
		 FROM reservations
		 WHERE status = 'active' AND unit_id = ANY($1)`, unitIDs)
	if err != nil {
		return nil, wrapPgErr(logger, "failed to list active ranges", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]reservation.DateRange)
	for rows.Next() {
		var (
			unitID             uuid.UUID
			startDate, endDate pgtype.Date
		)
		if err := rows.Scan(&unitID, &startDate, &endDate); err != nil {
			return nil, wrapPgErr(logger, "failed to scan active range", err)
		}
		dates, err := reservation.NewDateRange(pgconv.DateFromPgtype(startDate), pgconv.DateFromPgtype(endDate))
		if err != nil {
			return nil, errs.Wrap(err, "stored reservation has invalid range")
		}
		out[unitID] = append(out[unitID], dates)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(logger, "failed to iterate active ranges", err)
	}
	return out, nil
}

// Read side.

const borrowingViewQuery = `
	SELECT r.id, r.unit_id, u.name, u.category,
	       r.borrower_id, b.username,
	       r.start_date, r.end_date, r.status, r.returned_at, r.created_at
	FROM reservations r
	JOIN units u ON u.id = r.unit_id
	JOIN users b ON b.id = r.borrower_id`

func (r *ReservationRepository) History(ctx context.Context, filter queries.HistoryFilter) ([]*queries.BorrowingView, error) {
	query := borrowingViewQuery + `
	WHERE ($1 = '' OR u.name = $1)
	  AND ($2::uuid IS NULL OR r.borrower_id = $2)
	  AND ($3 = '' OR r.status = $3)
	  AND ($4::date IS NULL OR r.end_date >= $4)
	  AND ($5::date IS NULL OR r.start_date <= $5)
	ORDER BY r.created_at DESC`

	var from, to pgtype.Date
	if filter.From != nil {
		from = pgconv.DateToPgtype(*filter.From)
	}
	if filter.To != nil {
		to = pgconv.DateToPgtype(*filter.To)
	}

	rows, err := r.db.Query(ctx, query,
		filter.PoolName, pgconv.UUIDPtrToPgtype(filter.BorrowerID), filter.Status, from, to)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to query borrowing history", err)
	}
	defer rows.Close()
	return r.collectBorrowings(rows)
}

func (r *ReservationRepository) ActiveByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*queries.BorrowingView, error) {
	rows, err := r.db.Query(ctx, borrowingViewQuery+`
	WHERE r.borrower_id = $1 AND r.status = 'active'
	ORDER BY r.end_date`, borrowerID)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to query borrowings", err)
	}
	defer rows.Close()
	return r.collectBorrowings(rows)
}

func (r *ReservationRepository) DueReservations(ctx context.Context, lookaheadDays int, today time.Time) ([]shared.DueReservation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, r.borrower_id, b.username, b.email, u.name, r.end_date
		 FROM reservations r
		 JOIN units u ON u.id = r.unit_id
		 JOIN users b ON b.id = r.borrower_id
		 WHERE r.status = 'active' AND r.end_date <= $1
		 ORDER BY r.end_date`,
		pgconv.DateToPgtype(today.AddDate(0, 0, lookaheadDays)))
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to query due reservations", err)
	}
	defer rows.Close()

	var out []shared.DueReservation
	for rows.Next() {
		var (
			d       shared.DueReservation
			endDate pgtype.Date
		)
		if err := rows.Scan(&d.ReservationID, &d.BorrowerID, &d.BorrowerUsername, &d.BorrowerEmail, &d.UnitName, &endDate); err != nil {
			return nil, wrapPgErr(r.logger, "failed to scan due reservation", err)
		}
		d.EndDate = pgconv.DateFromPgtype(endDate)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(r.logger, "failed to iterate due reservations", err)
	}
	return out, nil
}

func (r *ReservationRepository) collectBorrowings(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*queries.BorrowingView, error) {
	var out []*queries.BorrowingView
	for rows.Next() {
		var (
			v                  queries.BorrowingView
			startDate, endDate pgtype.Date
			returnedAt         pgtype.Timestamptz
			createdAt          pgtype.Timestamptz
		)
		if err := rows.Scan(
			&v.ReservationID, &v.UnitID, &v.UnitName, &v.Category,
			&v.BorrowerID, &v.BorrowerUsername,
			&startDate, &endDate, &v.Status, &returnedAt, &createdAt,
		); err != nil {
			return nil, wrapPgErr(r.logger, "failed to scan borrowing view", err)
		}
		v.StartDate = pgconv.DateFromPgtype(startDate)
		v.EndDate = pgconv.DateFromPgtype(endDate)
		v.ReturnedAt = pgconv.TimePtrFromPgtype(returnedAt)
		v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(r.logger, "failed to iterate borrowing views", err)
	}
	return out, nil
}
