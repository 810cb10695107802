package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gearlend/internal/domain/inventory"
	"gearlend/internal/domain/reservation"
	"gearlend/internal/pkg/errs"
)

var ErrInvalidRange = errs.New("invalid date range")

// InventoryReadRepo supplies the raw rows; the overlap derivation stays in
// the domain so the catalog and the reserve path cannot disagree.
type InventoryReadRepo interface {
	UnitsByPool(ctx context.Context, poolName string) ([]*inventory.Unit, error)
	AllUnits(ctx context.Context) ([]*inventory.Unit, error)
	ActiveRangesByUnitIDs(ctx context.Context, unitIDs []uuid.UUID) (map[uuid.UUID][]reservation.DateRange, error)
}

type InventoryQueries interface {
	// Availability derives per-pool counts for the range from reservation
	// overlap. An unknown pool yields zero counts, not an error.
	Availability(ctx context.Context, poolName string, start, end time.Time) (*AvailabilityView, error)
	// ListPools groups all units into named pools with counts for the range.
	ListPools(ctx context.Context, start, end time.Time) ([]PoolView, error)
}

type inventoryQueriesImpl struct {
	repo InventoryReadRepo
}

func NewInventoryQueries(repo InventoryReadRepo) InventoryQueries {
	return &inventoryQueriesImpl{repo: repo}
}

func (q *inventoryQueriesImpl) Availability(ctx context.Context, poolName string, start, end time.Time) (*AvailabilityView, error) {
	dates, err := reservation.NewDateRange(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRange)
	}

	units, err := q.repo.UnitsByPool(ctx, poolName)
	if err != nil {
		return nil, err
	}

	view := &AvailabilityView{
		PoolName:  poolName,
		StartDate: dates.Start(),
		EndDate:   dates.End(),
	}
	if len(units) == 0 {
		return view, nil
	}

	reservedRanges, err := q.activeRanges(ctx, units)
	if err != nil {
		return nil, err
	}

	availability := inventory.ComputeAvailability(units, reservedRanges, dates)
	view.Total = availability.Total
	view.Available = availability.Available
	view.UnavailableUnitIDs = availability.UnavailableUnitIDs
	return view, nil
}

func (q *inventoryQueriesImpl) ListPools(ctx context.Context, start, end time.Time) ([]PoolView, error) {
	dates, err := reservation.NewDateRange(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRange)
	}

	units, err := q.repo.AllUnits(ctx)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return []PoolView{}, nil
	}

	reservedRanges, err := q.activeRanges(ctx, units)
	if err != nil {
		return nil, err
	}

	pools := inventory.GroupIntoPools(units, reservedRanges, dates)
	views := make([]PoolView, 0, len(pools))
	for _, p := range pools {
		views = append(views, PoolView{
			Name:      p.Name,
			Category:  p.Category,
			ImageRef:  p.ImageRef,
			Total:     p.Total,
			Available: p.Available,
		})
	}
	return views, nil
}

func (q *inventoryQueriesImpl) activeRanges(ctx context.Context, units []*inventory.Unit) (map[uuid.UUID][]reservation.DateRange, error) {
	unitIDs := make([]uuid.UUID, len(units))
	for i, u := range units {
		unitIDs[i] = u.ID()
	}
	return q.repo.ActiveRangesByUnitIDs(ctx, unitIDs)
}
