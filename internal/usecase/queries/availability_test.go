//go:build unit

package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearlend/internal/domain/inventory"
	"gearlend/internal/domain/reservation"
	"gearlend/internal/pkg/clock"
	"gearlend/internal/usecase/shared"
)

type fakeInventoryReadRepo struct {
	units  []*inventory.Unit
	ranges map[uuid.UUID][]reservation.DateRange
}

func (f *fakeInventoryReadRepo) UnitsByPool(ctx context.Context, poolName string) ([]*inventory.Unit, error) {
	var out []*inventory.Unit
	for _, u := range f.units {
		if u.Name() == poolName {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeInventoryReadRepo) AllUnits(ctx context.Context) ([]*inventory.Unit, error) {
	return f.units, nil
}

func (f *fakeInventoryReadRepo) ActiveRangesByUnitIDs(ctx context.Context, unitIDs []uuid.UUID) (map[uuid.UUID][]reservation.DateRange, error) {
	return f.ranges, nil
}

func mkUnit(t *testing.T, name string) *inventory.Unit {
	t.Helper()
	u, err := inventory.NewUnit(name, "camera", nil)
	require.NoError(t, err)
	return u
}

func TestAvailability(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	t.Run("unknown pool yields zero counts without error", func(t *testing.T) {
		q := NewInventoryQueries(&fakeInventoryReadRepo{})
		view, err := q.Availability(context.Background(), "Nikon Z9", start, end)
		require.NoError(t, err)
		assert.Equal(t, 0, view.Total)
		assert.Equal(t, 0, view.Available)
	})

	t.Run("counts derive from overlap", func(t *testing.T) {
		a := mkUnit(t, "Canon 5D")
		b := mkUnit(t, "Canon 5D")
		repo := &fakeInventoryReadRepo{
			units: []*inventory.Unit{a, b},
			ranges: map[uuid.UUID][]reservation.DateRange{
				a.ID(): {reservation.MustDateRange(start, end)},
			},
		}
		q := NewInventoryQueries(repo)

		view, err := q.Availability(context.Background(), "Canon 5D", start, end)
		require.NoError(t, err)
		assert.Equal(t, 2, view.Total)
		assert.Equal(t, 1, view.Available)
		assert.Equal(t, []uuid.UUID{a.ID()}, view.UnavailableUnitIDs)
	})

	t.Run("reversed range is rejected", func(t *testing.T) {
		q := NewInventoryQueries(&fakeInventoryReadRepo{})
		_, err := q.Availability(context.Background(), "Canon 5D", end, start)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestListPools(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	cam := mkUnit(t, "Canon 5D")
	mic := mkUnit(t, "Shure SM58")
	repo := &fakeInventoryReadRepo{
		units: []*inventory.Unit{cam, mic},
		ranges: map[uuid.UUID][]reservation.DateRange{
			mic.ID(): {reservation.MustDateRange(start, start)},
		},
	}
	q := NewInventoryQueries(repo)

	pools, err := q.ListPools(context.Background(), start, start)
	require.NoError(t, err)

	want := []PoolView{
		{Name: "Canon 5D", Category: "camera", Total: 1, Available: 1},
		{Name: "Shure SM58", Category: "camera", Total: 1, Available: 0},
	}
	if diff := cmp.Diff(want, pools); diff != "" {
		t.Errorf("pool views mismatch (-want +got):\n%s", diff)
	}
}

type fakeReservationViewRepo struct {
	rows []*BorrowingView
}

func (f *fakeReservationViewRepo) History(ctx context.Context, filter HistoryFilter) ([]*BorrowingView, error) {
	var out []*BorrowingView
	for _, row := range f.rows {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeReservationViewRepo) ActiveByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*BorrowingView, error) {
	return f.rows, nil
}

func (f *fakeReservationViewRepo) DueReservations(ctx context.Context, lookaheadDays int, today time.Time) ([]shared.DueReservation, error) {
	return nil, nil
}

type fakeRequestViewRepo struct{}

func (fakeRequestViewRepo) ListOpen(ctx context.Context) ([]*RequestView, error) { return nil, nil }
func (fakeRequestViewRepo) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*RequestView, error) {
	return nil, nil
}
func (fakeRequestViewRepo) FindByID(ctx context.Context, id uuid.UUID) (*RequestView, error) {
	return nil, nil
}

func TestHistory_OverduePseudoStatus(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	mockClock := clock.NewMockClock(today.Add(10 * time.Hour))

	rows := []*BorrowingView{
		{ReservationID: uuid.New(), Status: "active", EndDate: today.AddDate(0, 0, -2)}, // overdue
		{ReservationID: uuid.New(), Status: "active", EndDate: today.AddDate(0, 0, 3)},  // not due yet
		{ReservationID: uuid.New(), Status: "returned", EndDate: today.AddDate(0, 0, -9)},
	}
	repo := &fakeReservationViewRepo{rows: rows}
	q := NewReservationQueries(repo, fakeRequestViewRepo{}, mockClock)

	overdue, err := q.History(context.Background(), HistoryFilter{Status: StatusOverdue})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, rows[0].ReservationID, overdue[0].ReservationID)
	assert.Equal(t, -2, overdue[0].DaysUntilDue)

	all, err := q.History(context.Background(), HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Returned rows keep a neutral badge.
	assert.Equal(t, "later", all[2].DueClass)
}
