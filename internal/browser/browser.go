// Package browser declares the external browser surfaces the daemon talks
// to: tab inspection/control, the bookmark tree, the durable settings and
// tab-name stores, and the one-shot alarm scheduler. Production
// implementations live in browser/bridge (WebSocket shim) and store/redis;
// browsertest provides in-memory fakes.
package browser

import (
	"context"
	"errors"
	"time"

	"github.com/mdotstrange/TabHoardersFriend/internal/domain"
)

// OtherBookmarksID is the well-known parent under which the root archive
// folder is created ("Other Bookmarks" in Chrome's bookmark tree).
const OtherBookmarksID = "2"

// ErrTabGone is returned by Tabs when the requested tab no longer exists.
// Tab ids are reused by the browser, so callers must treat this as a normal
// outcome, not a fault.
var ErrTabGone = errors.New("tab no longer exists")

// ErrNodeGone is returned by Bookmarks when a node id no longer resolves,
// e.g. the user deleted a folder by hand.
var ErrNodeGone = errors.New("bookmark node no longer exists")

// Node is one entry of the bookmark tree. A Node with an empty URL is a
// folder; otherwise it is a link.
type Node struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
}

// IsFolder reports whether the node is a folder rather than a link.
func (n *Node) IsFolder() bool { return n.URL == "" }

// Tabs is the tab inspection/control surface.
type Tabs interface {
	// Get fetches the live state of one tab. Returns ErrTabGone if the tab
	// has been closed.
	Get(ctx context.Context, tabID int) (*domain.Tab, error)

	// Query enumerates every open tab across all windows.
	Query(ctx context.Context) ([]*domain.Tab, error)

	// Remove closes a tab.
	Remove(ctx context.Context, tabID int) error
}

// Bookmarks is the hierarchical bookmark store. It has no atomic
// create-if-absent operation, which is why folder resolution needs
// single-flight protection on the caller side.
type Bookmarks interface {
	// Get fetches a node by id.
	Get(ctx context.Context, id string) (*Node, error)

	// Search returns all nodes whose title exactly matches.
	Search(ctx context.Context, title string) ([]*Node, error)

	// Children lists the direct children of a folder.
	Children(ctx context.Context, id string) ([]*Node, error)

	// Create adds a node under parentID. An empty url creates a folder.
	Create(ctx context.Context, parentID, title, url string) (*Node, error)
}

// Settings is the durable, device-synced settings store.
type Settings interface {
	// TimerMinutes returns the configured countdown duration in minutes,
	// or 0 when unset.
	TimerMinutes(ctx context.Context) (int, error)

	// SetTimerMinutes stores the countdown duration.
	SetTimerMinutes(ctx context.Context, minutes int) error
}

// Names is the per-browser store of custom tab display names.
type Names interface {
	// Get returns the custom name for a tab, or "" when none is set.
	Get(ctx context.Context, tabID int) (string, error)

	// Set stores a non-empty custom name for a tab.
	Set(ctx context.Context, tabID int, name string) error

	// Delete removes any custom name for a tab. No-op when none exists.
	Delete(ctx context.Context, tabID int) error
}

// Scheduler is the delayed one-shot trigger scheduler. Names are the only
// identity: creating an alarm under an existing name replaces it.
type Scheduler interface {
	Create(ctx context.Context, name string, delay time.Duration) error

	// Clear removes a scheduled alarm. No-op when none exists.
	Clear(ctx context.Context, name string) error

	// Names enumerates all currently scheduled alarms.
	Names(ctx context.Context) ([]string, error)
}
