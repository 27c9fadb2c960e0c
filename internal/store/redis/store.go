// Package redis persists the daemon's durable state: the timer setting and
// the custom tab names. Bookmarks and tabs live in the browser and are
// reached through the bridge, not through Redis.
package redis

import (
	"github.com/redis/go-redis/v9"
)

// Store handles Redis operations for settings and tab names.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
