//go:build unit

package commands

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gearlend/internal/domain/inventory"
	"gearlend/internal/domain/penalty"
	"gearlend/internal/domain/request"
	"gearlend/internal/domain/reservation"
	"gearlend/internal/domain/user"
	"gearlend/internal/infra"
	"gearlend/internal/infra/db"
	"gearlend/internal/usecase/shared"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func repoErr(kind infra.RepositoryErrorKind) error {
	return infra.WrapRepoErr(discardLogger(), kind, "test", nil)
}

// fakeUnitOfWork runs the callback directly; the fakes below ignore the tx.
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Within(ctx context.Context, fn func(tx db.DBTX) error) error {
	return fn(nil)
}

func (fakeUnitOfWork) WithDB(ctx context.Context, fn func(dbtx db.DBTX) error) error {
	return fn(nil)
}

var _ shared.UnitOfWork = fakeUnitOfWork{}

type fakeUnitRepo struct {
	pools         map[string][]*inventory.Unit
	statusUpdates map[uuid.UUID]inventory.UnitStatus
	deleted       []uuid.UUID
	findErr       error
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{
		pools:         make(map[string][]*inventory.Unit),
		statusUpdates: make(map[uuid.UUID]inventory.UnitStatus),
	}
}

func (f *fakeUnitRepo) addPool(name string, n int) []*inventory.Unit {
	units := make([]*inventory.Unit, 0, n)
	for i := 0; i < n; i++ {
		u, _ := inventory.NewUnit(name, "camera", nil)
		units = append(units, u)
	}
	f.pools[name] = units
	return units
}

func (f *fakeUnitRepo) FindByPoolName(ctx context.Context, tx db.DBTX, poolName string) ([]*inventory.Unit, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.pools[poolName], nil
}

func (f *fakeUnitRepo) Create(ctx context.Context, tx db.DBTX, u *inventory.Unit) error {
	f.pools[u.Name()] = append(f.pools[u.Name()], u)
	return nil
}

func (f *fakeUnitRepo) UpdateStatus(ctx context.Context, tx db.DBTX, unitID uuid.UUID, status inventory.UnitStatus) error {
	f.statusUpdates[unitID] = status
	for _, units := range f.pools {
		for _, u := range units {
			if u.ID() == unitID {
				if status == inventory.UnitReserved {
					u.MarkReserved()
				} else {
					u.MarkAvailable()
				}
			}
		}
	}
	return nil
}

func (f *fakeUnitRepo) UpdatePoolInfo(ctx context.Context, tx db.DBTX, poolName, newName, category string, imageRef *string) (int64, error) {
	units := f.pools[poolName]
	for _, u := range units {
		_ = u.Rename(newName, category, imageRef)
	}
	if poolName != newName && len(units) > 0 {
		f.pools[newName] = units
		delete(f.pools, poolName)
	}
	return int64(len(units)), nil
}

func (f *fakeUnitRepo) Delete(ctx context.Context, tx db.DBTX, unitID uuid.UUID) error {
	f.deleted = append(f.deleted, unitID)
	for name, units := range f.pools {
		kept := units[:0]
		for _, u := range units {
			if u.ID() != unitID {
				kept = append(kept, u)
			}
		}
		f.pools[name] = kept
	}
	return nil
}

type fakeReservationRepo struct {
	byID          map[uuid.UUID]*reservation.Reservation
	conflictsLeft int // Create fails with KindConflict while positive
	createErr     error
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{byID: make(map[uuid.UUID]*reservation.Reservation)}
}

func (f *fakeReservationRepo) Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error {
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return repoErr(infra.KindConflict)
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[res.ID()] = res
	return nil
}

func (f *fakeReservationRepo) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, repoErr(infra.KindNotFound)
	}
	return res, nil
}

func (f *fakeReservationRepo) Update(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error {
	f.byID[res.ID()] = res
	return nil
}

func (f *fakeReservationRepo) ActiveRangesByUnitIDs(ctx context.Context, tx db.DBTX, unitIDs []uuid.UUID) (map[uuid.UUID][]reservation.DateRange, error) {
	wanted := make(map[uuid.UUID]bool, len(unitIDs))
	for _, id := range unitIDs {
		wanted[id] = true
	}
	out := make(map[uuid.UUID][]reservation.DateRange)
	for _, res := range f.byID {
		if res.IsActive() && wanted[res.UnitID()] {
			out[res.UnitID()] = append(out[res.UnitID()], res.Dates())
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) HasOtherActive(ctx context.Context, tx db.DBTX, unitID, excludeID uuid.UUID) (bool, error) {
	for _, res := range f.byID {
		if res.IsActive() && res.UnitID() == unitID && res.ID() != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	byID       map[uuid.UUID]*user.User
	findErr    error
	updateErr  error
	roleByID   map[uuid.UUID]user.Role
	createErrs []error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:     make(map[uuid.UUID]*user.User),
		roleByID: make(map[uuid.UUID]user.Role),
	}
}

func (f *fakeUserRepo) add(u *user.User) {
	f.byID[u.ID()] = u
}

func (f *fakeUserRepo) Create(ctx context.Context, tx db.DBTX, u *user.User) error {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	f.byID[u.ID()] = u
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*user.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, repoErr(infra.KindNotFound)
	}
	return u, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, tx db.DBTX, username string) (*user.User, error) {
	for _, u := range f.byID {
		if u.Username() == username {
			return u, nil
		}
	}
	return nil, repoErr(infra.KindNotFound)
}

func (f *fakeUserRepo) UpdatePenaltyState(ctx context.Context, tx db.DBTX, u *user.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.byID[u.ID()] = u
	return nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, tx db.DBTX, id uuid.UUID, role user.Role) error {
	if _, ok := f.byID[id]; !ok {
		return repoErr(infra.KindNotFound)
	}
	f.roleByID[id] = role
	return nil
}

type fakePenaltyRepo struct {
	records   []*penalty.Penalty
	createErr error
}

func (f *fakePenaltyRepo) Create(ctx context.Context, tx db.DBTX, p *penalty.Penalty) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records = append(f.records, p)
	return nil
}

type fakeRequestRepo struct {
	byID    map[uuid.UUID]*request.BorrowRequest
	deleted []uuid.UUID
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{byID: make(map[uuid.UUID]*request.BorrowRequest)}
}

func (f *fakeRequestRepo) Create(ctx context.Context, tx db.DBTX, req *request.BorrowRequest) error {
	f.byID[req.ID()] = req
	return nil
}

func (f *fakeRequestRepo) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*request.BorrowRequest, error) {
	req, ok := f.byID[id]
	if !ok {
		return nil, repoErr(infra.KindNotFound)
	}
	return req, nil
}

func (f *fakeRequestRepo) UpdateItem(ctx context.Context, tx db.DBTX, requestID uuid.UUID, item *request.Item) error {
	return nil
}

func (f *fakeRequestRepo) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

type approvalCall struct {
	To    Recipient
	Items []ApprovedItem
	Start time.Time
	End   time.Time
}

type reminderCall struct {
	To          Recipient
	ItemName    string
	ReturnDate  time.Time
	Due         reservation.DueClass
	OverdueDays int
}

type fakeNotifier struct {
	approvals   []approvalCall
	reminders   []reminderCall
	approvalErr error
	reminderErr error
}

func (f *fakeNotifier) SendApprovalNotification(ctx context.Context, to Recipient, items []ApprovedItem, start, end time.Time) error {
	if f.approvalErr != nil {
		return f.approvalErr
	}
	f.approvals = append(f.approvals, approvalCall{To: to, Items: items, Start: start, End: end})
	return nil
}

func (f *fakeNotifier) SendDueReminder(ctx context.Context, to Recipient, itemName string, returnDate time.Time, due reservation.DueClass, overdueDays int) error {
	if f.reminderErr != nil {
		return f.reminderErr
	}
	f.reminders = append(f.reminders, reminderCall{
		To: to, ItemName: itemName, ReturnDate: returnDate, Due: due, OverdueDays: overdueDays,
	})
	return nil
}

type fakeGate struct {
	result *CanBorrowResult
	err    error
}

func (f *fakeGate) CheckCanBorrow(ctx context.Context, borrowerID uuid.UUID) (*CanBorrowResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &CanBorrowResult{CanBorrow: true}, nil
}

type fakeDedup struct {
	claimed map[string]bool
	err     error
}

func newFakeDedup() *fakeDedup {
	return &fakeDedup{claimed: make(map[string]bool)}
}

func (f *fakeDedup) MarkSent(ctx context.Context, borrowerID, reservationID uuid.UUID, day time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	key := borrowerID.String() + ":" + reservationID.String() + ":" + day.Format("2006-01-02")
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}

type fakeDueReader struct {
	due []shared.DueReservation
	err error
}

func (f *fakeDueReader) DueReservations(ctx context.Context, lookaheadDays int, today time.Time) ([]shared.DueReservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.due, nil
}
