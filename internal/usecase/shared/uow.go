package shared

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"gearlend/internal/infra/db"
)

// UnitOfWork abstracts transaction scoping away from the commands so they can
// be exercised against fakes.
type UnitOfWork interface {
	// Within runs fn inside one transaction, committing on nil.
	// Serialization failures and deadlocks are retried with backoff.
	Within(ctx context.Context, fn func(tx db.DBTX) error) error
	// WithDB runs fn against the pool directly, one implicit transaction per
	// statement. For single reads outside any write path.
	WithDB(ctx context.Context, fn func(dbtx db.DBTX) error) error
}

type pgxUnitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgxUnitOfWork{pool: pool}
}

func (u *pgxUnitOfWork) Within(ctx context.Context, fn func(tx db.DBTX) error) error {
	_, err := WithDefaultRetry(ctx, u.pool, func(tx db.DBTX) (struct{}, error) {
		return struct{}{}, fn(tx)
	})
	return err
}

func (u *pgxUnitOfWork) WithDB(ctx context.Context, fn func(dbtx db.DBTX) error) error {
	return fn(u.pool)
}
