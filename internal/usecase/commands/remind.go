package commands

import (
	"context"
	"log/slog"

	"gearlend/internal/domain/reservation"
	"gearlend/internal/pkg/clock"
	"gearlend/internal/pkg/config"
)

type SweepResult struct {
	Scanned int
	Sent    int
	Deduped int
	Failed  int
}

type ReminderCommands interface {
	// SendDueReminders scans active reservations around their end date and
	// mails one reminder per qualifying reservation. Repeated runs on the
	// same day are suppressed per (borrower, reservation, day).
	SendDueReminders(ctx context.Context) (*SweepResult, error)
}

type reminderUseCaseImpl struct {
	dueReader DueReservationReader
	dedup     ReminderDedup
	notifier  Notifier
	cfg       config.ReminderConfig
	clock     clock.Clock
}

func NewReminderUseCase(
	dueReader DueReservationReader,
	dedup ReminderDedup,
	notifier Notifier,
	cfg config.ReminderConfig,
	clock clock.Clock,
) ReminderCommands {
	return &reminderUseCaseImpl{
		dueReader: dueReader,
		dedup:     dedup,
		notifier:  notifier,
		cfg:       cfg,
		clock:     clock,
	}
}

func (r *reminderUseCaseImpl) SendDueReminders(ctx context.Context) (*SweepResult, error) {
	today := clock.Today(r.clock)

	due, err := r.dueReader.DueReservations(ctx, r.cfg.LookaheadDays, today)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Scanned: len(due)}
	for _, d := range due {
		dates, err := reservation.NewDateRange(d.EndDate, d.EndDate)
		if err != nil {
			result.Failed++
			continue
		}
		days := dates.DaysUntilDue(today)
		dueClass := reservation.ClassifyDue(days)
		if dueClass == reservation.DueLater {
			continue
		}

		fresh, err := r.dedup.MarkSent(ctx, d.BorrowerID, d.ReservationID, today)
		if err != nil {
			// Dedup store trouble must not stop the sweep; worst case the
			// borrower hears twice.
			slog.Warn("reminder dedup check failed, sending anyway",
				"reservation_id", d.ReservationID,
				"error", err)
		} else if !fresh {
			result.Deduped++
			continue
		}

		overdueDays := 0
		if days < 0 {
			overdueDays = -days
		}
		to := Recipient{Username: d.BorrowerUsername, Email: d.BorrowerEmail}
		if err := r.notifier.SendDueReminder(ctx, to, d.UnitName, d.EndDate, dueClass, overdueDays); err != nil {
			slog.Warn("due reminder failed",
				"reservation_id", d.ReservationID,
				"error", err)
			result.Failed++
			continue
		}
		result.Sent++
	}

	slog.Info("due reminder sweep finished",
		"scanned", result.Scanned,
		"sent", result.Sent,
		"deduped", result.Deduped,
		"failed", result.Failed)
	return result, nil
}
