package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"gearlend/internal/domain/inventory"
	"gearlend/internal/domain/reservation"
	"gearlend/internal/infra"
	"gearlend/internal/infra/db"
	"gearlend/internal/pkg/pgconv"
)

// UnitRepository serves both the command port and the inventory read side.
type UnitRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewUnitRepository(pool db.DBTX, logger *slog.Logger) *UnitRepository {
	return &UnitRepository{db: pool, logger: logger}
}

const unitColumns = `id, name, category, image_ref, status, created_at, updated_at`

func (r *UnitRepository) scanUnit(row pgx.Row) (*inventory.Unit, error) {
	var (
		id                   uuid.UUID
		name                 string
		category             string
		imageRef             *string
		status               string
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &name, &category, &imageRef, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return inventory.ReconstructUnit(
		id, name, category, imageRef,
		inventory.UnitStatus(status),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *UnitRepository) FindByPoolName(ctx context.Context, tx db.DBTX, poolName string) ([]*inventory.Unit, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+unitColumns+` FROM units WHERE name = $1 ORDER BY id`, poolName)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to list units by pool", err)
	}
	defer rows.Close()
	return r.collectUnits(rows)
}

func (r *UnitRepository) Create(ctx context.Context, tx db.DBTX, u *inventory.Unit) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO units (id, name, category, image_ref, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID(), u.Name(), u.Category(), u.ImageRef(), u.Status().String())
	if err != nil {
		return wrapPgErr(r.logger, "failed to create unit", err)
	}
	return nil
}

func (r *UnitRepository) UpdateStatus(ctx context.Context, tx db.DBTX, unitID uuid.UUID, status inventory.UnitStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE units SET status = $2, updated_at = now() WHERE id = $1`,
		unitID, status.String())
	if err != nil {
		return wrapPgErr(r.logger, "failed to update unit status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "unit not found for status update", nil)
	}
	return nil
}

func (r *UnitRepository) UpdatePoolInfo(ctx context.Context, tx db.DBTX, poolName, newName, category string, imageRef *string) (int64, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE units SET name = $2, category = $3, image_ref = $4, updated_at = now()
		 WHERE name = $1`,
		poolName, newName, category, imageRef)
	if err != nil {
		return 0, wrapPgErr(r.logger, "failed to update pool info", err)
	}
	return tag.RowsAffected(), nil
}

func (r *UnitRepository) Delete(ctx context.Context, tx db.DBTX, unitID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM units WHERE id = $1`, unitID)
	if err != nil {
		return wrapPgErr(r.logger, "failed to delete unit", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "unit not found for delete", nil)
	}
	return nil
}

// Read-side methods run against the pooled connection.

func (r *UnitRepository) UnitsByPool(ctx context.Context, poolName string) ([]*inventory.Unit, error) {
	return r.FindByPoolName(ctx, r.db, poolName)
}

func (r *UnitRepository) AllUnits(ctx context.Context) ([]*inventory.Unit, error) {
	rows, err := r.db.Query(ctx, `SELECT `+unitColumns+` FROM units ORDER BY name, id`)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to list units", err)
	}
	defer rows.Close()
	return r.collectUnits(rows)
}

func (r *UnitRepository) ActiveRangesByUnitIDs(ctx context.Context, unitIDs []uuid.UUID) (map[uuid.UUID][]reservation.DateRange, error) {
	return activeRangesByUnitIDs(ctx, r.db, r.logger, unitIDs)
}

func (r *UnitRepository) collectUnits(rows pgx.Rows) ([]*inventory.Unit, error) {
	var units []*inventory.Unit
	for rows.Next() {
		u, err := r.scanUnit(rows)
		if err != nil {
			return nil, wrapPgErr(r.logger, "failed to scan unit", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(r.logger, "failed to iterate units", err)
	}
	return units, nil
}
