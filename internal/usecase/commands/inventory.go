package commands

import (
	"context"
	"sort"

	"gearlend/internal/domain/inventory"
	"gearlend/internal/infra/db"
	"gearlend/internal/pkg/errs"
	"gearlend/internal/usecase/shared"
)

var (
	ErrUnitsStillReserved = errs.New("pool still has reserved units")
	ErrPoolAlreadyExists  = errs.New("equipment pool already exists")
)

type CreatePoolInput struct {
	Name     string
	Category string
	ImageRef *string
	Quantity int
}

// ResizePoolResult reports what a shrink could actually do. Only units that
// are available right now may be deleted, so Blocked can be non-zero.
type ResizePoolResult struct {
	Total   int
	Added   int
	Removed int
	Blocked int
}

type InventoryCommands interface {
	CreatePool(ctx context.Context, input CreatePoolInput) error
	// ResizePool grows or shrinks the pool to newTotal units. Shrinking
	// deletes available units only and reports how many stayed because they
	// are reserved.
	ResizePool(ctx context.Context, poolName string, newTotal int) (*ResizePoolResult, error)
	UpdatePool(ctx context.Context, poolName, newName, category string, imageRef *string) error
	// DeletePool removes every unit of the pool. Refused while any unit is
	// reserved.
	DeletePool(ctx context.Context, poolName string) error
}

type inventoryUseCaseImpl struct {
	unitRepo UnitRepository
	uow      shared.UnitOfWork
}

func NewInventoryUseCase(unitRepo UnitRepository, uow shared.UnitOfWork) InventoryCommands {
	return &inventoryUseCaseImpl{unitRepo: unitRepo, uow: uow}
}

func (i *inventoryUseCaseImpl) CreatePool(ctx context.Context, input CreatePoolInput) error {
	if input.Quantity < 1 {
		return ErrInvalidQuantity
	}

	return i.uow.Within(ctx, func(tx db.DBTX) error {
		existing, err := i.unitRepo.FindByPoolName(ctx, tx, input.Name)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrPoolAlreadyExists
		}

		for n := 0; n < input.Quantity; n++ {
			unit, err := inventory.NewUnit(input.Name, input.Category, input.ImageRef)
			if err != nil {
				return errs.Wrap(err, "failed to build unit")
			}
			if err := i.unitRepo.Create(ctx, tx, unit); err != nil {
				return err
			}
		}
		return nil
	})
}

func (i *inventoryUseCaseImpl) ResizePool(ctx context.Context, poolName string, newTotal int) (*ResizePoolResult, error) {
	if newTotal < 0 {
		return nil, ErrInvalidQuantity
	}

	var result *ResizePoolResult
	err := i.uow.Within(ctx, func(tx db.DBTX) error {
		units, err := i.unitRepo.FindByPoolName(ctx, tx, poolName)
		if err != nil {
			return err
		}
		if len(units) == 0 {
			return ErrPoolNotFound
		}

		result = &ResizePoolResult{}
		switch {
		case newTotal > len(units):
			template := units[0]
			for n := len(units); n < newTotal; n++ {
				unit, err := inventory.NewUnit(template.Name(), template.Category(), template.ImageRef())
				if err != nil {
					return errs.Wrap(err, "failed to build unit")
				}
				if err := i.unitRepo.Create(ctx, tx, unit); err != nil {
					return err
				}
				result.Added++
			}

		case newTotal < len(units):
			removable := make([]*inventory.Unit, 0, len(units))
			for _, u := range units {
				if u.IsAvailableNow() {
					removable = append(removable, u)
				}
			}
			sort.Slice(removable, func(a, b int) bool {
				return removable[a].ID().String() < removable[b].ID().String()
			})

			toRemove := len(units) - newTotal
			if toRemove > len(removable) {
				result.Blocked = toRemove - len(removable)
				toRemove = len(removable)
			}
			for _, u := range removable[:toRemove] {
				if err := i.unitRepo.Delete(ctx, tx, u.ID()); err != nil {
					return err
				}
				result.Removed++
			}
		}

		result.Total = len(units) + result.Added - result.Removed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (i *inventoryUseCaseImpl) UpdatePool(ctx context.Context, poolName, newName, category string, imageRef *string) error {
	if newName == "" {
		return inventory.ErrEmptyPoolName
	}

	return i.uow.Within(ctx, func(tx db.DBTX) error {
		affected, err := i.unitRepo.UpdatePoolInfo(ctx, tx, poolName, newName, category, imageRef)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrPoolNotFound
		}
		return nil
	})
}

func (i *inventoryUseCaseImpl) DeletePool(ctx context.Context, poolName string) error {
	return i.uow.Within(ctx, func(tx db.DBTX) error {
		units, err := i.unitRepo.FindByPoolName(ctx, tx, poolName)
		if err != nil {
			return err
		}
		if len(units) == 0 {
			return ErrPoolNotFound
		}
		for _, u := range units {
			if !u.IsAvailableNow() {
				return ErrUnitsStillReserved
			}
		}
		for _, u := range units {
			if err := i.unitRepo.Delete(ctx, tx, u.ID()); err != nil {
				return err
			}
		}
		return nil
	})
}
