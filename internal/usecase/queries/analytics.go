package queries

import (
	"context"
	"time"

	"gearlend/internal/pkg/clock"
)

// AnalyticsReadRepo aggregates in SQL; the query layer only stitches the
// numbers together around "today".
type AnalyticsReadRepo interface {
	UnitCounts(ctx context.Context) (total, available int, err error)
	OverdueCount(ctx context.Context, today time.Time) (int, error)
	BorrowsSince(ctx context.Context, since time.Time) (int, error)
	ReturnCounts(ctx context.Context) (onTime, late int, err error)
	TopPools(ctx context.Context, limit int) ([]PoolUsage, error)
	TopBorrowers(ctx context.Context, limit int) ([]BorrowerUsage, error)
}

type AnalyticsQueries interface {
	Overview(ctx context.Context) (*AnalyticsOverview, error)
}

type analyticsQueriesImpl struct {
	repo  AnalyticsReadRepo
	clock clock.Clock
}

func NewAnalyticsQueries(repo AnalyticsReadRepo, clock clock.Clock) AnalyticsQueries {
	return &analyticsQueriesImpl{repo: repo, clock: clock}
}

func (q *analyticsQueriesImpl) Overview(ctx context.Context) (*AnalyticsOverview, error) {
	today := clock.Today(q.clock)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))

	total, available, err := q.repo.UnitCounts(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := q.repo.OverdueCount(ctx, today)
	if err != nil {
		return nil, err
	}
	borrowsToday, err := q.repo.BorrowsSince(ctx, today)
	if err != nil {
		return nil, err
	}
	borrowsWeek, err := q.repo.BorrowsSince(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	onTime, late, err := q.repo.ReturnCounts(ctx)
	if err != nil {
		return nil, err
	}
	topPools, err := q.repo.TopPools(ctx, 5)
	if err != nil {
		return nil, err
	}
	topBorrowers, err := q.repo.TopBorrowers(ctx, 5)
	if err != nil {
		return nil, err
	}

	rate := 1.0
	if onTime+late > 0 {
		rate = float64(onTime) / float64(onTime+late)
	}

	return &AnalyticsOverview{
		TotalUnits:       total,
		AvailableUnits:   available,
		BorrowedUnits:    total - available,
		OverdueCount:     overdue,
		BorrowsToday:     borrowsToday,
		BorrowsThisWeek:  borrowsWeek,
		OnTimeReturnRate: rate,
		TopPools:         topPools,
		TopBorrowers:     topBorrowers,
	}, nil
}
