//go:build unit

package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePool(t *testing.T) {
	unitRepo := newFakeUnitRepo()
	uc := NewInventoryUseCase(unitRepo, fakeUnitOfWork{})

	err := uc.CreatePool(context.Background(), CreatePoolInput{Name: "Canon 5D", Category: "camera", Quantity: 3})
	require.NoError(t, err)
	assert.Len(t, unitRepo.pools["Canon 5D"], 3)

	err = uc.CreatePool(context.Background(), CreatePoolInput{Name: "Canon 5D", Category: "camera", Quantity: 1})
	assert.ErrorIs(t, err, ErrPoolAlreadyExists)

	err = uc.CreatePool(context.Background(), CreatePoolInput{Name: "Tripod", Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestResizePool(t *testing.T) {
	t.Run("grow", func(t *testing.T) {
		unitRepo := newFakeUnitRepo()
		unitRepo.addPool("Canon 5D", 2)
		uc := NewInventoryUseCase(unitRepo, fakeUnitOfWork{})

		result, err := uc.ResizePool(context.Background(), "Canon 5D", 5)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Added)
		assert.Equal(t, 5, result.Total)
		assert.Len(t, unitRepo.pools["Canon 5D"], 5)
	})

	t.Run("shrink removes only available units", func(t *testing.T) {
		unitRepo := newFakeUnitRepo()
		units := unitRepo.addPool("Canon 5D", 4)
		units[0].MarkReserved()
		units[1].MarkReserved()
		uc := NewInventoryUseCase(unitRepo, fakeUnitOfWork{})

		// Asking for 1 unit means removing 3, but only 2 are available.
		result, err := uc.ResizePool(context.Background(), "Canon 5D", 1)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Removed)
		assert.Equal(t, 1, result.Blocked)
		assert.Equal(t, 2, result.Total)
	})

	t.Run("unknown pool", func(t *testing.T) {
		uc := NewInventoryUseCase(newFakeUnitRepo(), fakeUnitOfWork{})
		_, err := uc.ResizePool(context.Background(), "Nikon Z9", 2)
		assert.ErrorIs(t, err, ErrPoolNotFound)
	})
}

func TestDeletePool(t *testing.T) {
	t.Run("refused while a unit is reserved", func(t *testing.T) {
		unitRepo := newFakeUnitRepo()
		units := unitRepo.addPool("Canon 5D", 2)
		units[1].MarkReserved()
		uc := NewInventoryUseCase(unitRepo, fakeUnitOfWork{})

		err := uc.DeletePool(context.Background(), "Canon 5D")
		assert.ErrorIs(t, err, ErrUnitsStillReserved)
		assert.Len(t, unitRepo.pools["Canon 5D"], 2)
	})

	t.Run("deletes all available units", func(t *testing.T) {
		unitRepo := newFakeUnitRepo()
		unitRepo.addPool("Canon 5D", 2)
		uc := NewInventoryUseCase(unitRepo, fakeUnitOfWork{})

		require.NoError(t, uc.DeletePool(context.Background(), "Canon 5D"))
		assert.Empty(t, unitRepo.pools["Canon 5D"])
	})
}

func TestUpdatePool(t *testing.T) {
	unitRepo := newFakeUnitRepo()
	unitRepo.addPool("Canon 5D", 2)
	uc := NewInventoryUseCase(unitRepo, fakeUnitOfWork{})

	require.NoError(t, uc.UpdatePool(context.Background(), "Canon 5D", "Canon 5D Mark IV", "camera", nil))
	assert.Len(t, unitRepo.pools["Canon 5D Mark IV"], 2)

	err := uc.UpdatePool(context.Background(), "Canon 5D Mark IV", "", "camera", nil)
	assert.Error(t, err)
}
