//go:build unit

package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearlend/internal/domain/reservation"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func makeUnits(t *testing.T, name string, n int) []*Unit {
	t.Helper()
	units := make([]*Unit, 0, n)
	for i := 0; i < n; i++ {
		u, err := NewUnit(name, "camera", nil)
		require.NoError(t, err)
		units = append(units, u)
	}
	return units
}

func TestComputeAvailability(t *testing.T) {
	query := reservation.MustDateRange(day(2024, 6, 10), day(2024, 6, 12))

	t.Run("empty pool yields zero counts", func(t *testing.T) {
		got := ComputeAvailability(nil, nil, query)
		assert.Equal(t, 0, got.Total)
		assert.Equal(t, 0, got.Available)
		assert.Empty(t, got.UnavailableUnitIDs)
	})

	t.Run("overlapping reservation makes unit unavailable", func(t *testing.T) {
		units := makeUnits(t, "Canon 5D", 3)
		reserved := map[uuid.UUID][]reservation.DateRange{
			units[0].ID(): {reservation.MustDateRange(day(2024, 6, 11), day(2024, 6, 13))},
		}

		got := ComputeAvailability(units, reserved, query)
		assert.Equal(t, 3, got.Total)
		assert.Equal(t, 2, got.Available)
		assert.Equal(t, []uuid.UUID{units[0].ID()}, got.UnavailableUnitIDs)
	})

	t.Run("reservation outside the range leaves unit available", func(t *testing.T) {
		units := makeUnits(t, "Canon 5D", 2)
		reserved := map[uuid.UUID][]reservation.DateRange{
			units[0].ID(): {reservation.MustDateRange(day(2024, 6, 1), day(2024, 6, 9))},
			units[1].ID(): {reservation.MustDateRange(day(2024, 6, 13), day(2024, 6, 20))},
		}

		got := ComputeAvailability(units, reserved, query)
		assert.Equal(t, 2, got.Total)
		assert.Equal(t, 2, got.Available)
	})

	t.Run("cached unit status is ignored", func(t *testing.T) {
		units := makeUnits(t, "Canon 5D", 1)
		units[0].MarkReserved()

		got := ComputeAvailability(units, nil, query)
		assert.Equal(t, 1, got.Available)
	})

	t.Run("quantity conservation", func(t *testing.T) {
		units := makeUnits(t, "Canon 5D", 5)
		reserved := map[uuid.UUID][]reservation.DateRange{
			units[0].ID(): {reservation.MustDateRange(day(2024, 6, 10), day(2024, 6, 10))},
			units[1].ID(): {reservation.MustDateRange(day(2024, 6, 12), day(2024, 6, 14))},
			units[2].ID(): {reservation.MustDateRange(day(2024, 5, 1), day(2024, 5, 2))},
		}

		got := ComputeAvailability(units, reserved, query)
		assert.Equal(t, got.Total, got.Available+len(got.UnavailableUnitIDs))
		assert.Equal(t, 3, got.Available)
	})
}

func TestSelectFreeUnits(t *testing.T) {
	query := reservation.MustDateRange(day(2024, 6, 10), day(2024, 6, 12))

	t.Run("selects first k ascending by id", func(t *testing.T) {
		units := makeUnits(t, "Canon 5D", 3)

		selected, freeCount, ok := SelectFreeUnits(units, nil, query, 2)
		require.True(t, ok)
		assert.Equal(t, 3, freeCount)
		require.Len(t, selected, 2)
		assert.Less(t, selected[0].ID().String(), selected[1].ID().String())
	})

	t.Run("not enough free units", func(t *testing.T) {
		units := makeUnits(t, "Canon 5D", 3)
		reserved := map[uuid.UUID][]reservation.DateRange{
			units[0].ID(): {query},
			units[1].ID(): {query},
		}

		selected, freeCount, ok := SelectFreeUnits(units, reserved, query, 2)
		assert.False(t, ok)
		assert.Equal(t, 1, freeCount)
		assert.Nil(t, selected)
	})

	t.Run("busy units are never selected", func(t *testing.T) {
		units := makeUnits(t, "Canon 5D", 3)
		reserved := map[uuid.UUID][]reservation.DateRange{
			units[1].ID(): {reservation.MustDateRange(day(2024, 6, 12), day(2024, 6, 14))},
		}

		selected, _, ok := SelectFreeUnits(units, reserved, query, 2)
		require.True(t, ok)
		for _, u := range selected {
			assert.NotEqual(t, units[1].ID(), u.ID())
		}
	})
}

func TestGroupIntoPools(t *testing.T) {
	query := reservation.MustDateRange(day(2024, 6, 10), day(2024, 6, 12))

	cams := makeUnits(t, "Canon 5D", 2)
	mics := makeUnits(t, "Shure SM58", 1)
	all := append(append([]*Unit{}, cams...), mics...)

	reserved := map[uuid.UUID][]reservation.DateRange{
		cams[0].ID(): {query},
	}

	pools := GroupIntoPools(all, reserved, query)
	require.Len(t, pools, 2)

	assert.Equal(t, "Canon 5D", pools[0].Name)
	assert.Equal(t, 2, pools[0].Total)
	assert.Equal(t, 1, pools[0].Available)

	assert.Equal(t, "Shure SM58", pools[1].Name)
	assert.Equal(t, 1, pools[1].Total)
	assert.Equal(t, 1, pools[1].Available)
}
