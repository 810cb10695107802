package inventory

import (
	"sort"

	"github.com/google/uuid"

	"gearlend/internal/domain/reservation"
)

// Availability is the per-pool answer for one queried range.
type Availability struct {
	Total              int
	Available          int
	UnavailableUnitIDs []uuid.UUID
}

// ComputeAvailability derives pool availability for a range from active
// reservation overlap. reservedRanges maps unit id to the date ranges of that
// unit's active reservations; units absent from the map have none.
//
// A unit counts as unavailable iff at least one of its active reservations
// overlaps the queried range. A reservation that fully precedes or follows
// the range leaves the unit available. An empty unit slice yields zero
// counts, not an error.
func ComputeAvailability(units []*Unit, reservedRanges map[uuid.UUID][]reservation.DateRange, dates reservation.DateRange) Availability {
	result := Availability{Total: len(units)}
	for _, u := range units {
		if unitBusy(reservedRanges[u.ID()], dates) {
			result.UnavailableUnitIDs = append(result.UnavailableUnitIDs, u.ID())
		} else {
			result.Available++
		}
	}
	return result
}

func unitBusy(ranges []reservation.DateRange, dates reservation.DateRange) bool {
	for _, r := range ranges {
		if r.Overlaps(dates) {
			return true
		}
	}
	return false
}

// SelectFreeUnits partitions the pool's units into free and busy for the
// range and returns the first k free units in ascending id order, so
// concurrent requests converge on the same candidates and conflicts surface
// instead of hiding. ok is false when fewer than k units are free; the free
// count is still returned so callers can report actual vs requested.
func SelectFreeUnits(units []*Unit, reservedRanges map[uuid.UUID][]reservation.DateRange, dates reservation.DateRange, k int) (selected []*Unit, freeCount int, ok bool) {
	free := make([]*Unit, 0, len(units))
	for _, u := range units {
		if !unitBusy(reservedRanges[u.ID()], dates) {
			free = append(free, u)
		}
	}
	sort.Slice(free, func(i, j int) bool {
		return free[i].ID().String() < free[j].ID().String()
	})
	if len(free) < k {
		return nil, len(free), false
	}
	return free[:k], len(free), true
}

// Pool is the derived grouping of units sharing a name, with counts for one
// queried range. Used by the catalog listing.
type Pool struct {
	Name      string
	Category  string
	ImageRef  *string
	Total     int
	Available int
}

// GroupIntoPools buckets units by name and computes per-pool counts for the
// range. Pools come back sorted by name for a stable catalog order.
func GroupIntoPools(units []*Unit, reservedRanges map[uuid.UUID][]reservation.DateRange, dates reservation.DateRange) []Pool {
	byName := make(map[string]*Pool)
	order := make([]string, 0)
	for _, u := range units {
		p, seen := byName[u.Name()]
		if !seen {
			p = &Pool{Name: u.Name(), Category: u.Category(), ImageRef: u.ImageRef()}
			byName[u.Name()] = p
			order = append(order, u.Name())
		}
		p.Total++
		if !unitBusy(reservedRanges[u.ID()], dates) {
			p.Available++
		}
	}
	sort.Strings(order)
	pools := make([]Pool, 0, len(order))
	for _, name := range order {
		pools = append(pools, *byName[name])
	}
	return pools
}
