//go:build unit

package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearlend/internal/domain/request"
	"gearlend/internal/domain/user"
	"gearlend/internal/pkg/clock"
)

type requestFixture struct {
	requestRepo *fakeRequestRepo
	unitRepo    *fakeUnitRepo
	resRepo     *fakeReservationRepo
	userRepo    *fakeUserRepo
	notifier    *fakeNotifier
	gate        *fakeGate
	uc          RequestCommands
	borrower    *user.User
}

func newRequestFixture() *requestFixture {
	f := &requestFixture{
		requestRepo: newFakeRequestRepo(),
		unitRepo:    newFakeUnitRepo(),
		resRepo:     newFakeReservationRepo(),
		userRepo:    newFakeUserRepo(),
		notifier:    &fakeNotifier{},
		gate:        &fakeGate{},
	}
	f.borrower = user.NewUser("alice", "alice@example.edu", "hash", user.RoleUser)
	f.userRepo.add(f.borrower)
	mockClock := clock.NewMockClock(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))
	f.uc = NewRequestUseCase(
		f.requestRepo, f.unitRepo, f.resRepo, f.userRepo,
		f.notifier, f.gate, fakeUnitOfWork{}, mockClock,
	)
	return f
}

func (f *requestFixture) submit(t *testing.T, items ...SubmitRequestItem) uuid.UUID {
	t.Helper()
	id, err := f.uc.Submit(context.Background(), SubmitRequestInput{
		BorrowerID: f.borrower.ID(),
		StartDate:  jan10,
		EndDate:    jan12,
		Note:       "field shoot",
		Items:      items,
	})
	require.NoError(t, err)
	return id
}

func TestSubmitRequest(t *testing.T) {
	t.Run("creates pending items", func(t *testing.T) {
		f := newRequestFixture()
		id := f.submit(t, SubmitRequestItem{PoolName: "Canon 5D", Quantity: 2})

		req := f.requestRepo.byID[id]
		require.NotNil(t, req)
		require.Len(t, req.Items(), 1)
		assert.True(t, req.Items()[0].IsPending())
	})

	t.Run("banned borrower is refused", func(t *testing.T) {
		f := newRequestFixture()
		f.gate.result = &CanBorrowResult{CanBorrow: false, BanReason: "3 strikes"}

		_, err := f.uc.Submit(context.Background(), SubmitRequestInput{
			BorrowerID: f.borrower.ID(),
			StartDate:  jan10,
			EndDate:    jan12,
			Items:      []SubmitRequestItem{{PoolName: "Canon 5D", Quantity: 1}},
		})
		assert.ErrorIs(t, err, ErrBorrowerBanned)
		assert.Empty(t, f.requestRepo.byID)
	})

	t.Run("zero quantity item is refused", func(t *testing.T) {
		f := newRequestFixture()
		_, err := f.uc.Submit(context.Background(), SubmitRequestInput{
			BorrowerID: f.borrower.ID(),
			StartDate:  jan10,
			EndDate:    jan12,
			Items:      []SubmitRequestItem{{PoolName: "Canon 5D", Quantity: 0}},
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestApproveItem(t *testing.T) {
	t.Run("spawns reservations and notifies", func(t *testing.T) {
		f := newRequestFixture()
		f.unitRepo.addPool("Canon 5D", 3)
		id := f.submit(t, SubmitRequestItem{PoolName: "Canon 5D", Quantity: 2})

		result, err := f.uc.ApproveItem(context.Background(), id, "Canon 5D")
		require.NoError(t, err)
		assert.Len(t, result.ReservationIDs, 2)
		assert.Len(t, f.resRepo.byID, 2)

		require.Len(t, f.notifier.approvals, 1)
		call := f.notifier.approvals[0]
		assert.Equal(t, "alice@example.edu", call.To.Email)
		require.Len(t, call.Items, 1)
		assert.Equal(t, "Canon 5D", call.Items[0].PoolName)
		assert.Equal(t, 2, call.Items[0].Quantity)
	})

	t.Run("insufficient stock keeps item pending", func(t *testing.T) {
		f := newRequestFixture()
		f.unitRepo.addPool("Canon 5D", 1)
		id := f.submit(t, SubmitRequestItem{PoolName: "Canon 5D", Quantity: 2})

		_, err := f.uc.ApproveItem(context.Background(), id, "Canon 5D")
		require.ErrorIs(t, err, ErrInsufficientAvailability)

		item, findErr := f.requestRepo.byID[id].FindItem("Canon 5D")
		require.NoError(t, findErr)
		assert.True(t, item.IsPending())
		assert.Empty(t, f.resRepo.byID)
		assert.Empty(t, f.notifier.approvals)
	})

	t.Run("already approved item", func(t *testing.T) {
		f := newRequestFixture()
		f.unitRepo.addPool("Canon 5D", 3)
		id := f.submit(t, SubmitRequestItem{PoolName: "Canon 5D", Quantity: 1})

		_, err := f.uc.ApproveItem(context.Background(), id, "Canon 5D")
		require.NoError(t, err)

		_, err = f.uc.ApproveItem(context.Background(), id, "Canon 5D")
		assert.ErrorIs(t, err, ErrItemNotPending)
	})

	t.Run("unknown request and item", func(t *testing.T) {
		f := newRequestFixture()
		f.unitRepo.addPool("Canon 5D", 1)
		id := f.submit(t, SubmitRequestItem{PoolName: "Canon 5D", Quantity: 1})

		_, err := f.uc.ApproveItem(context.Background(), uuid.New(), "Canon 5D")
		assert.ErrorIs(t, err, ErrRequestNotFound)

		_, err = f.uc.ApproveItem(context.Background(), id, "Tripod")
		assert.ErrorIs(t, err, ErrRequestItemNotFound)
	})
}

func TestRejectItem(t *testing.T) {
	f := newRequestFixture()
	f.unitRepo.addPool("Canon 5D", 3)
	id := f.submit(t, SubmitRequestItem{PoolName: "Canon 5D", Quantity: 1})

	err := f.uc.RejectItem(context.Background(), id, "Canon 5D", "booked for maintenance")
	require.NoError(t, err)

	item, findErr := f.requestRepo.byID[id].FindItem("Canon 5D")
	require.NoError(t, findErr)
	assert.Equal(t, request.ItemRejected, item.Status())
	require.NotNil(t, item.RejectionReason())
	assert.Equal(t, "booked for maintenance", *item.RejectionReason())

	// Rejection touches no inventory and sends no mail.
	assert.Empty(t, f.resRepo.byID)
	assert.Empty(t, f.notifier.approvals)

	err = f.uc.RejectItem(context.Background(), id, "Canon 5D", "again")
	assert.ErrorIs(t, err, ErrItemNotPending)
}

func TestApproveAll_Batching(t *testing.T) {
	f := newRequestFixture()
	f.unitRepo.addPool("Canon 5D", 3)
	f.unitRepo.addPool("Shure SM58", 2)
	f.unitRepo.addPool("Tripod", 1)

	id := f.submit(t,
		SubmitRequestItem{PoolName: "Canon 5D", Quantity: 2},
		SubmitRequestItem{PoolName: "Tripod", Quantity: 3}, // only 1 unit exists
		SubmitRequestItem{PoolName: "Shure SM58", Quantity: 1},
	)

	result, err := f.uc.ApproveAll(context.Background(), id)
	require.NoError(t, err)

	// The middle failure must not stop the later item.
	require.Len(t, result.Approved, 2)
	assert.Equal(t, "Canon 5D", result.Approved[0].PoolName)
	assert.Equal(t, "Shure SM58", result.Approved[1].PoolName)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "Tripod", result.Failures[0].PoolName)
	assert.Equal(t, 3, result.Failures[0].Requested)
	assert.Equal(t, 1, result.Failures[0].Available)
	assert.ErrorIs(t, result.Failures[0].Err, ErrInsufficientAvailability)

	// Exactly one notification, carrying only the approved items.
	require.Len(t, f.notifier.approvals, 1)
	call := f.notifier.approvals[0]
	require.Len(t, call.Items, 2)
	assert.Equal(t, "Canon 5D", call.Items[0].PoolName)
	assert.Equal(t, "Shure SM58", call.Items[1].PoolName)

	// The failed item stays pending for a later retry.
	item, findErr := f.requestRepo.byID[id].FindItem("Tripod")
	require.NoError(t, findErr)
	assert.True(t, item.IsPending())
}

func TestApproveAll_NothingApproved(t *testing.T) {
	f := newRequestFixture()
	f.unitRepo.addPool("Canon 5D", 1)
	id := f.submit(t, SubmitRequestItem{PoolName: "Canon 5D", Quantity: 5})

	result, err := f.uc.ApproveAll(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, result.Approved)
	require.Len(t, result.Failures, 1)
	assert.Empty(t, f.notifier.approvals)
}

func TestDeleteRequest(t *testing.T) {
	f := newRequestFixture()
	f.unitRepo.addPool("Canon 5D", 1)
	id := f.submit(t, SubmitRequestItem{PoolName: "Canon 5D", Quantity: 1})

	t.Run("only the owner may delete", func(t *testing.T) {
		err := f.uc.Delete(context.Background(), id, uuid.New())
		assert.ErrorIs(t, err, ErrNotRequestOwner)
	})

	t.Run("owner deletes", func(t *testing.T) {
		err := f.uc.Delete(context.Background(), id, f.borrower.ID())
		require.NoError(t, err)
		assert.Contains(t, f.requestRepo.deleted, id)
	})
}
