package remind

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"gearlend/internal/pkg/errs"
	"gearlend/internal/usecase/commands"
)

// RedisDedup claims reminder keys with SET NX so overlapping scheduler runs
// (or a rerun after a crash) do not mail the same borrower twice for the same
// reservation-day. Keys expire on their own; there is no cleanup job.
type RedisDedup struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDedup(client *redis.Client, ttl time.Duration) *RedisDedup {
	return &RedisDedup{client: client, ttl: ttl}
}

func (d *RedisDedup) MarkSent(ctx context.Context, borrowerID, reservationID uuid.UUID, day time.Time) (bool, error) {
	key := fmt.Sprintf("remind:%s:%s:%s", borrowerID, reservationID, day.Format("2006-01-02"))
	claimed, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return false, errs.Wrap(err, "failed to claim reminder key")
	}
	return claimed, nil
}

// NoopDedup never suppresses. Used when Redis is not configured; the sweep
// then relies on being run once per day.
type NoopDedup struct{}

func (NoopDedup) MarkSent(ctx context.Context, borrowerID, reservationID uuid.UUID, day time.Time) (bool, error) {
	return true, nil
}

// NewDedup picks the Redis store when a client is available.
func NewDedup(client *redis.Client, ttl time.Duration) commands.ReminderDedup {
	if client == nil {
		return NoopDedup{}
	}
	return NewRedisDedup(client, ttl)
}
