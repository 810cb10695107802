package request

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"gearlend/internal/domain/reservation"
)

var (
	ErrNoItems        = errors.New("borrow request needs at least one item")
	ErrItemNotFound   = errors.New("request item not found")
	ErrItemNotPending = errors.New("request item is not pending")
	ErrBadQuantity    = errors.New("item quantity must be at least 1")
)

type ItemStatus string

const (
	ItemPending  ItemStatus = "pending"
	ItemApproved ItemStatus = "approved"
	ItemRejected ItemStatus = "rejected"
)

func (s ItemStatus) String() string {
	return string(s)
}

// Item is one pool+quantity line of a borrow request. Items transition
// independently; approved and rejected are terminal.
type Item struct {
	id              uuid.UUID
	poolName        string
	quantity        int
	status          ItemStatus
	rejectionReason *string
}

func NewItem(poolName string, quantity int) (*Item, error) {
	if quantity < 1 {
		return nil, ErrBadQuantity
	}
	return &Item{
		id:       uuid.New(),
		poolName: poolName,
		quantity: quantity,
		status:   ItemPending,
	}, nil
}

func ReconstructItem(id uuid.UUID, poolName string, quantity int, status ItemStatus, rejectionReason *string) *Item {
	return &Item{
		id:              id,
		poolName:        poolName,
		quantity:        quantity,
		status:          status,
		rejectionReason: rejectionReason,
	}
}

func (i *Item) Approve() error {
	if i.status != ItemPending {
		return ErrItemNotPending
	}
	i.status = ItemApproved
	return nil
}

func (i *Item) Reject(reason string) error {
	if i.status != ItemPending {
		return ErrItemNotPending
	}
	i.status = ItemRejected
	if reason != "" {
		i.rejectionReason = &reason
	}
	return nil
}

func (i *Item) IsPending() bool {
	return i.status == ItemPending
}

func (i *Item) ID() uuid.UUID            { return i.id }
func (i *Item) PoolName() string         { return i.poolName }
func (i *Item) Quantity() int            { return i.quantity }
func (i *Item) Status() ItemStatus       { return i.status }
func (i *Item) RejectionReason() *string { return i.rejectionReason }

// BorrowRequest batches 1..N pool asks under one date range. The request has
// no status of its own; it is resolved when no item remains pending.
type BorrowRequest struct {
	id         uuid.UUID
	borrowerID uuid.UUID
	dates      reservation.DateRange
	note       reservation.Note
	items      []*Item
	createdAt  time.Time
}

func NewBorrowRequest(borrowerID uuid.UUID, dates reservation.DateRange, note reservation.Note, items []*Item) (*BorrowRequest, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return &BorrowRequest{
		id:         uuid.New(),
		borrowerID: borrowerID,
		dates:      dates,
		note:       note,
		items:      items,
	}, nil
}

func ReconstructBorrowRequest(
	id, borrowerID uuid.UUID,
	dates reservation.DateRange,
	note reservation.Note,
	items []*Item,
	createdAt time.Time,
) *BorrowRequest {
	return &BorrowRequest{
		id:         id,
		borrowerID: borrowerID,
		dates:      dates,
		note:       note,
		items:      items,
		createdAt:  createdAt,
	}
}

// FindItem locates an item by pool name. Approval surfaces address items by
// (requestID, poolName), matching the admin action contract.
func (r *BorrowRequest) FindItem(poolName string) (*Item, error) {
	for _, item := range r.items {
		if item.poolName == poolName {
			return item, nil
		}
	}
	return nil, ErrItemNotFound
}

// PendingItems returns pending items in declaration order. Approve-all walks
// this slice so batch side effects happen in submission order.
func (r *BorrowRequest) PendingItems() []*Item {
	pending := make([]*Item, 0, len(r.items))
	for _, item := range r.items {
		if item.IsPending() {
			pending = append(pending, item)
		}
	}
	return pending
}

func (r *BorrowRequest) IsResolved() bool {
	return len(r.PendingItems()) == 0
}

func (r *BorrowRequest) IsOwnedBy(userID uuid.UUID) bool {
	return r.borrowerID == userID
}

func (r *BorrowRequest) ID() uuid.UUID                { return r.id }
func (r *BorrowRequest) BorrowerID() uuid.UUID        { return r.borrowerID }
func (r *BorrowRequest) Dates() reservation.DateRange { return r.dates }
func (r *BorrowRequest) Note() reservation.Note       { return r.note }
func (r *BorrowRequest) Items() []*Item               { return r.items }
func (r *BorrowRequest) CreatedAt() time.Time         { return r.createdAt }
