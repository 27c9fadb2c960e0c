package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// TimerMinutes returns the stored countdown duration in minutes, or 0 when
// no setting has been saved yet.
func (s *Store) TimerMinutes(ctx context.Context) (int, error) {
	minutes, err := s.client.Get(ctx, KeyTimerMinutes).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get timer setting: %w", err)
	}
	return minutes, nil
}

// SetTimerMinutes stores the countdown duration.
func (s *Store) SetTimerMinutes(ctx context.Context, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("timer minutes must be positive, got %d", minutes)
	}
	if err := s.client.Set(ctx, KeyTimerMinutes, minutes, 0).Err(); err != nil {
		return fmt.Errorf("failed to save timer setting: %w", err)
	}
	return nil
}
