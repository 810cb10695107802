package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"gearlend/internal/domain/penalty"
	"gearlend/internal/infra/db"
	"gearlend/internal/pkg/pgconv"
	"gearlend/internal/usecase/queries"
)

type PenaltyRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewPenaltyRepository(pool db.DBTX, logger *slog.Logger) *PenaltyRepository {
	return &PenaltyRepository{db: pool, logger: logger}
}

func (r *PenaltyRepository) Create(ctx context.Context, tx db.DBTX, p *penalty.Penalty) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO penalties
		   (id, borrower_id, reservation_id, unit_id, penalty_type, days_late,
		    strikes_given, severity, description, compensation_amount, compensation_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID(), p.BorrowerID(),
		pgconv.UUIDPtrToPgtype(p.ReservationID()), pgconv.UUIDPtrToPgtype(p.UnitID()),
		string(p.Type()), p.DaysLate(), p.StrikesGiven(), string(p.Severity()),
		p.Description(), p.CompensationAmount(), string(p.CompensationStatus()))
	if err != nil {
		return wrapPgErr(r.logger, "failed to create penalty", err)
	}
	return nil
}

// PenaltyViewRepository joins penalties with borrower and unit names for
// admin listings.
type PenaltyViewRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewPenaltyViewRepository(pool db.DBTX, logger *slog.Logger) *PenaltyViewRepository {
	return &PenaltyViewRepository{db: pool, logger: logger}
}

const penaltyViewQuery = `
	SELECT p.id, p.borrower_id, b.username, p.reservation_id, u.name,
	       p.penalty_type, p.days_late, p.strikes_given, p.severity,
	       p.description, p.compensation_amount, p.compensation_status, p.created_at
	FROM penalties p
	JOIN users b ON b.id = p.borrower_id
	LEFT JOIN units u ON u.id = p.unit_id`

func (r *PenaltyViewRepository) ListAll(ctx context.Context) ([]*queries.PenaltyView, error) {
	rows, err := r.db.Query(ctx, penaltyViewQuery+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to list penalties", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *PenaltyViewRepository) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*queries.PenaltyView, error) {
	rows, err := r.db.Query(ctx, penaltyViewQuery+` WHERE p.borrower_id = $1 ORDER BY p.created_at DESC`, borrowerID)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to list penalties by borrower", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *PenaltyViewRepository) collect(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*queries.PenaltyView, error) {
	var out []*queries.PenaltyView
	for rows.Next() {
		var (
			v             queries.PenaltyView
			reservationID pgtype.UUID
			unitName      pgtype.Text
			description   pgtype.Text
			createdAt     pgtype.Timestamptz
		)
		if err := rows.Scan(
			&v.ID, &v.BorrowerID, &v.BorrowerUsername, &reservationID, &unitName,
			&v.PenaltyType, &v.DaysLate, &v.StrikesGiven, &v.Severity,
			&description, &v.CompensationAmount, &v.CompensationStatus, &createdAt,
		); err != nil {
			return nil, wrapPgErr(r.logger, "failed to scan penalty view", err)
		}
		v.ReservationID = pgconv.UUIDPtrFromPgtype(reservationID)
		v.UnitName = pgconv.StringPtrFromPgtype(unitName)
		v.Description = pgconv.StringPtrFromPgtype(description)
		v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(r.logger, "failed to iterate penalty views", err)
	}
	return out, nil
}

// AnalyticsRepository aggregates usage numbers in SQL.
type AnalyticsRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewAnalyticsRepository(pool db.DBTX, logger *slog.Logger) *AnalyticsRepository {
	return &AnalyticsRepository{db: pool, logger: logger}
}

func (r *AnalyticsRepository) UnitCounts(ctx context.Context) (int, int, error) {
	var total, available int
	err := r.db.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE status = 'available') FROM units`).
		Scan(&total, &available)
	if err != nil {
		return 0, 0, wrapPgErr(r.logger, "failed to count units", err)
	}
	return total, available, nil
}

func (r *AnalyticsRepository) OverdueCount(ctx context.Context, today time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM reservations WHERE status = 'active' AND end_date < $1`,
		pgconv.DateToPgtype(today)).Scan(&n)
	if err != nil {
		return 0, wrapPgErr(r.logger, "failed to count overdue reservations", err)
	}
	return n, nil
}

func (r *AnalyticsRepository) BorrowsSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM reservations WHERE created_at >= $1`,
		pgconv.TimeToPgtype(since)).Scan(&n)
	if err != nil {
		return 0, wrapPgErr(r.logger, "failed to count borrows", err)
	}
	return n, nil
}

func (r *AnalyticsRepository) ReturnCounts(ctx context.Context) (int, int, error) {
	var onTime, late int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FILTER (WHERE returned_at::date <= end_date),
		        count(*) FILTER (WHERE returned_at::date > end_date)
		 FROM reservations WHERE status = 'returned'`).
		Scan(&onTime, &late)
	if err != nil {
		return 0, 0, wrapPgErr(r.logger, "failed to count returns", err)
	}
	return onTime, late, nil
}

func (r *AnalyticsRepository) TopPools(ctx context.Context, limit int) ([]queries.PoolUsage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.name, count(*) AS borrows
		 FROM reservations r
		 JOIN units u ON u.id = r.unit_id
		 GROUP BY u.name
		 ORDER BY borrows DESC, u.name
		 LIMIT $1`, limit)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to rank pools", err)
	}
	defer rows.Close()

	var out []queries.PoolUsage
	for rows.Next() {
		var u queries.PoolUsage
		if err := rows.Scan(&u.PoolName, &u.Borrows); err != nil {
			return nil, wrapPgErr(r.logger, "failed to scan pool usage", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(r.logger, "failed to iterate pool usage", err)
	}
	return out, nil
}

func (r *AnalyticsRepository) TopBorrowers(ctx context.Context, limit int) ([]queries.BorrowerUsage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.username, count(*) AS borrows
		 FROM reservations r
		 JOIN users b ON b.id = r.borrower_id
		 GROUP BY b.id, b.username
		 ORDER BY borrows DESC, b.username
		 LIMIT $1`, limit)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to rank borrowers", err)
	}
	defer rows.Close()

	var out []queries.BorrowerUsage
	for rows.Next() {
		var u queries.BorrowerUsage
		if err := rows.Scan(&u.BorrowerID, &u.Username, &u.Borrows); err != nil {
			return nil, wrapPgErr(r.logger, "failed to scan borrower usage", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(r.logger, "failed to iterate borrower usage", err)
	}
	return out, nil
}
