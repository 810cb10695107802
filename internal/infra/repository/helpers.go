package repository

import (
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"gearlend/internal/infra"
	"gearlend/internal/pkg/pgconv"
)

// Postgres error codes the repositories care about.
const (
	codeUniqueViolation    = "23505"
	codeForeignKeyViolated = "23503"
	codeExclusionViolation = "23P01"
)

// wrapPgErr classifies a driver error into a RepositoryError kind. The
// exclusion violation comes from the reservations no-overlap constraint and
// maps to KindConflict so the caller can retry unit selection.
func wrapPgErr(logger *slog.Logger, msg string, err error) error {
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr(logger, infra.KindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return infra.WrapRepoErr(logger, infra.KindDuplicateKey, msg, err)
		case codeForeignKeyViolated:
			return infra.WrapRepoErr(logger, infra.KindForeignKeyViolated, msg, err)
		case codeExclusionViolation:
			return infra.WrapRepoErr(logger, infra.KindConflict, msg, err)
		}
	}
	return infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err)
}
