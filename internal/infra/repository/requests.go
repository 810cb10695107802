package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"gearlend/internal/domain/request"
	"gearlend/internal/domain/reservation"
	"gearlend/internal/infra"
	"gearlend/internal/infra/db"
	"gearlend/internal/pkg/errs"
	"gearlend/internal/pkg/pgconv"
	"gearlend/internal/usecase/queries"
)

type RequestRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewRequestRepository(pool db.DBTX, logger *slog.Logger) *RequestRepository {
	return &RequestRepository{db: pool, logger: logger}
}

func (r *RequestRepository) Create(ctx context.Context, tx db.DBTX, req *request.BorrowRequest) error {
	var note *string
	if !req.Note().IsEmpty() {
		v := req.Note().String()
		note = &v
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO borrow_requests (id, borrower_id, start_date, end_date, note)
		 VALUES ($1, $2, $3, $4, $5)`,
		req.ID(), req.BorrowerID(),
		pgconv.DateToPgtype(req.Dates().Start()), pgconv.DateToPgtype(req.Dates().End()),
		note)
	if err != nil {
		return wrapPgErr(r.logger, "failed to create borrow request", err)
	}

	for _, item := range req.Items() {
		_, err := tx.Exec(ctx,
			`INSERT INTO borrow_request_items (id, request_id, pool_name, quantity, status, rejection_reason)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID(), req.ID(), item.PoolName(), item.Quantity(),
			item.Status().String(), item.RejectionReason())
		if err != nil {
			return wrapPgErr(r.logger, "failed to create request item", err)
		}
	}
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*request.BorrowRequest, error) {
	row := tx.QueryRow(ctx,
		`SELECT id, borrower_id, start_date, end_date, note, created_at
		 FROM borrow_requests WHERE id = $1`, id)

	var (
		reqID, borrowerID  uuid.UUID
		startDate, endDate pgtype.Date
		note               pgtype.Text
		createdAt          pgtype.Timestamptz
	)
	if err := row.Scan(&reqID, &borrowerID, &startDate, &endDate, &note, &createdAt); err != nil {
		return nil, wrapPgErr(r.logger, "failed to find borrow request", err)
	}

	items, err := r.itemsByRequestID(ctx, tx, reqID)
	if err != nil {
		return nil, err
	}

	dates, err := reservation.NewDateRange(pgconv.DateFromPgtype(startDate), pgconv.DateFromPgtype(endDate))
	if err != nil {
		return nil, errs.Wrap(err, "stored borrow request has invalid range")
	}
	var noteValue string
	if note.Valid {
		noteValue = note.String
	}
	return request.ReconstructBorrowRequest(
		reqID, borrowerID, dates,
		reservation.NewNote(noteValue),
		items,
		pgconv.TimeFromPgtype(createdAt),
	), nil
}

func (r *RequestRepository) itemsByRequestID(ctx context.Context, tx db.DBTX, requestID uuid.UUID) ([]*request.Item, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, pool_name, quantity, status, rejection_reason
		 FROM borrow_request_items WHERE request_id = $1
		 ORDER BY created_at, id`, requestID)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to list request items", err)
	}
	defer rows.Close()

	var items []*request.Item
	for rows.Next() {
		var (
			itemID          uuid.UUID
			poolName        string
			quantity        int
			status          string
			rejectionReason *string
		)
		if err := rows.Scan(&itemID, &poolName, &quantity, &status, &rejectionReason); err != nil {
			return nil, wrapPgErr(r.logger, "failed to scan request item", err)
		}
		items = append(items, request.ReconstructItem(itemID, poolName, quantity, request.ItemStatus(status), rejectionReason))
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(r.logger, "failed to iterate request items", err)
	}
	return items, nil
}

func (r *RequestRepository) UpdateItem(ctx context.Context, tx db.DBTX, requestID uuid.UUID, item *request.Item) error {
	tag, err := tx.Exec(ctx,
		`UPDATE borrow_request_items
		 SET status = $3, rejection_reason = $4, updated_at = now()
		 WHERE request_id = $1 AND pool_name = $2`,
		requestID, item.PoolName(), item.Status().String(), item.RejectionReason())
	if err != nil {
		return wrapPgErr(r.logger, "failed to update request item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "request item not found for update", nil)
	}
	return nil
}

func (r *RequestRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	// Items go with the request via ON DELETE CASCADE.
	tag, err := tx.Exec(ctx, `DELETE FROM borrow_requests WHERE id = $1`, id)
	if err != nil {
		return wrapPgErr(r.logger, "failed to delete borrow request", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "borrow request not found for delete", nil)
	}
	return nil
}

// RequestViewRepository is the read side over the same tables. It lives apart
// from RequestRepository because the two sides address requests differently:
// commands reconstruct aggregates, views flatten to JSON rows.
type RequestViewRepository struct {
	db     db.DBTX
	logger *slog.Logger
	cmd    *RequestRepository
}

func NewRequestViewRepository(pool db.DBTX, logger *slog.Logger) *RequestViewRepository {
	return &RequestViewRepository{db: pool, logger: logger, cmd: NewRequestRepository(pool, logger)}
}

func (r *RequestViewRepository) ListOpen(ctx context.Context) ([]*queries.RequestView, error) {
	return r.listViews(ctx,
		`SELECT DISTINCT br.id FROM borrow_requests br
		 JOIN borrow_request_items i ON i.request_id = br.id
		 WHERE i.status = 'pending'
		 ORDER BY br.id`)
}

func (r *RequestViewRepository) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*queries.RequestView, error) {
	return r.listViews(ctx,
		`SELECT id FROM borrow_requests WHERE borrower_id = $1 ORDER BY created_at DESC`, borrowerID)
}

func (r *RequestViewRepository) FindByID(ctx context.Context, id uuid.UUID) (*queries.RequestView, error) {
	views, err := r.listViews(ctx, `SELECT id FROM borrow_requests WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "borrow request not found", nil)
	}
	return views[0], nil
}

// listViews resolves request IDs first, then hydrates each view with its
// items. Request lists stay small (open requests, one borrower) so the
// per-request item query is acceptable.
func (r *RequestViewRepository) listViews(ctx context.Context, idQuery string, args ...any) ([]*queries.RequestView, error) {
	idRows, err := r.db.Query(ctx, idQuery, args...)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to list borrow requests", err)
	}
	ids := make([]uuid.UUID, 0, 16)
	for idRows.Next() {
		var id uuid.UUID
		if err := idRows.Scan(&id); err != nil {
			idRows.Close()
			return nil, wrapPgErr(r.logger, "failed to scan request id", err)
		}
		ids = append(ids, id)
	}
	if err := idRows.Err(); err != nil {
		idRows.Close()
		return nil, wrapPgErr(r.logger, "failed to iterate request ids", err)
	}
	idRows.Close()

	views := make([]*queries.RequestView, 0, len(ids))
	for _, id := range ids {
		v, err := r.viewByID(ctx, id)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (r *RequestViewRepository) viewByID(ctx context.Context, id uuid.UUID) (*queries.RequestView, error) {
	row := r.db.QueryRow(ctx,
		`SELECT br.id, br.borrower_id, u.username, br.start_date, br.end_date, br.note, br.created_at
		 FROM borrow_requests br
		 JOIN users u ON u.id = br.borrower_id
		 WHERE br.id = $1`, id)

	var (
		v                  queries.RequestView
		startDate, endDate pgtype.Date
		note               pgtype.Text
		createdAt          pgtype.Timestamptz
	)
	if err := row.Scan(&v.ID, &v.BorrowerID, &v.BorrowerUsername, &startDate, &endDate, &note, &createdAt); err != nil {
		return nil, wrapPgErr(r.logger, "failed to scan borrow request view", err)
	}
	v.StartDate = pgconv.DateFromPgtype(startDate)
	v.EndDate = pgconv.DateFromPgtype(endDate)
	v.Note = pgconv.StringPtrFromPgtype(note)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)

	items, err := r.cmd.itemsByRequestID(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	v.Items = make([]queries.RequestItemView, 0, len(items))
	resolved := true
	for _, item := range items {
		if item.IsPending() {
			resolved = false
		}
		v.Items = append(v.Items, queries.RequestItemView{
			PoolName:        item.PoolName(),
			Quantity:        item.Quantity(),
			Status:          item.Status().String(),
			RejectionReason: item.RejectionReason(),
		})
	}
	v.Resolved = resolved
	return &v, nil
}
