package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Get returns the custom display name for a tab, or "" when none is set.
func (s *Store) Get(ctx context.Context, tabID int) (string, error) {
	name, err := s.client.HGet(ctx, KeyTabNames, TabNameField(tabID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get tab name: %w", err)
	}
	return name, nil
}

// Set stores a custom display name for a tab.
func (s *Store) Set(ctx context.Context, tabID int, name string) error {
	if name == "" {
		return fmt.Errorf("tab name must not be empty")
	}
	if err := s.client.HSet(ctx, KeyTabNames, TabNameField(tabID), name).Err(); err != nil {
		return fmt.Errorf("failed to save tab name: %w", err)
	}
	return nil
}

// Delete removes a tab's custom name. Tab ids are reused by the browser,
// so stale bindings are pruned whenever a tab closes.
func (s *Store) Delete(ctx context.Context, tabID int) error {
	if err := s.client.HDel(ctx, KeyTabNames, TabNameField(tabID)).Err(); err != nil {
		return fmt.Errorf("failed to delete tab name: %w", err)
	}
	return nil
}

// All returns every stored tabID -> name binding.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	names, err := s.client.HGetAll(ctx, KeyTabNames).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tab names: %w", err)
	}
	return names, nil
}
