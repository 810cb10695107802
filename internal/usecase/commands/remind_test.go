//go:build unit

package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearlend/internal/domain/reservation"
	"gearlend/internal/pkg/clock"
	"gearlend/internal/pkg/config"
	"gearlend/internal/usecase/shared"
)

func dueAt(end time.Time) shared.DueReservation {
	return shared.DueReservation{
		ReservationID:    uuid.New(),
		BorrowerID:       uuid.New(),
		BorrowerUsername: "alice",
		BorrowerEmail:    "alice@example.edu",
		UnitName:         "Canon 5D",
		EndDate:          end,
	}
}

func newReminderFixture(due ...shared.DueReservation) (*fakeNotifier, *fakeDedup, *fakeDueReader, ReminderCommands) {
	notifier := &fakeNotifier{}
	dedup := newFakeDedup()
	reader := &fakeDueReader{due: due}
	mockClock := clock.NewMockClock(time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))
	uc := NewReminderUseCase(reader, dedup, notifier, config.ReminderConfig{LookaheadDays: 1, DedupTTL: 48 * time.Hour}, mockClock)
	return notifier, dedup, reader, uc
}

func TestSendDueReminders_Classification(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	notifier, _, _, uc := newReminderFixture(
		dueAt(today),                    // due today
		dueAt(today.AddDate(0, 0, 1)),   // due tomorrow
		dueAt(today.AddDate(0, 0, -2)),  // overdue by 2
		dueAt(today.AddDate(0, 0, 5)),   // later, no mail
	)

	result, err := uc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Scanned)
	assert.Equal(t, 3, result.Sent)
	require.Len(t, notifier.reminders, 3)

	assert.Equal(t, reservation.DueToday, notifier.reminders[0].Due)
	assert.Equal(t, reservation.DueTomorrow, notifier.reminders[1].Due)
	assert.Equal(t, reservation.DueOverdue, notifier.reminders[2].Due)
	assert.Equal(t, 2, notifier.reminders[2].OverdueDays)
}

func TestSendDueReminders_Dedup(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	notifier, _, _, uc := newReminderFixture(dueAt(today))

	first, err := uc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sent)

	// The second sweep on the same day sends nothing.
	second, err := uc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Sent)
	assert.Equal(t, 1, second.Deduped)
	assert.Len(t, notifier.reminders, 1)
}

func TestSendDueReminders_DedupFailureStillSends(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	notifier, dedup, _, uc := newReminderFixture(dueAt(today))
	dedup.err = errors.New("redis unreachable")

	result, err := uc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Len(t, notifier.reminders, 1)
}

func TestSendDueReminders_NotifierFailureIsCounted(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	notifier, _, _, uc := newReminderFixture(dueAt(today))
	notifier.reminderErr = errors.New("mail API down")

	result, err := uc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 1, result.Failed)
}

func TestSendDueReminders_ReaderFailure(t *testing.T) {
	_, _, reader, uc := newReminderFixture()
	reader.err = errors.New("query failed")

	_, err := uc.SendDueReminders(context.Background())
	assert.Error(t, err)
}
