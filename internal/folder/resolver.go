// Package folder resolves the two-level archive hierarchy: the root archive
// folder and the per-day folder under it. The backing bookmark store has no
// atomic create-if-absent, so concurrent resolutions for the same day are
// collapsed into a single flight.
package folder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mdotstrange/TabHoardersFriend/internal/browser"
	"github.com/mdotstrange/TabHoardersFriend/internal/domain"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
)

// Resolver ensures the day folder for the current date exists and returns
// its reference. Safe for concurrent use.
type Resolver struct {
	bookmarks browser.Bookmarks
	logger    logger.Logger
	rootTitle string
	now       func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	rootID   string
	dayID    string
	dayTitle string // the title dayID was cached for
}

func NewResolver(bookmarks browser.Bookmarks, log logger.Logger, rootTitle string) *Resolver {
	return &Resolver{
		bookmarks: bookmarks,
		logger:    log,
		rootTitle: rootTitle,
		now:       time.Now,
	}
}

// EnsureDayFolder resolves or creates today's folder. Concurrent callers for
// the same day share one underlying resolution and receive the same folder.
// Errors from the bookmark store propagate to the caller; there is no retry.
func (r *Resolver) EnsureDayFolder(ctx context.Context) (domain.FolderRef, error) {
	title := domain.DayFolderTitle(r.now())

	if ref, ok := r.validatedDay(ctx, title); ok {
		return ref, nil
	}

	// Key by day title: a resolution racing midnight lands in exactly one
	// day and never shares a flight with the other.
	v, err, _ := r.group.Do(title, func() (interface{}, error) {
		return r.resolve(ctx, title)
	})
	if err != nil {
		return domain.FolderRef{}, err
	}
	return v.(domain.FolderRef), nil
}

// validatedDay returns the cached day folder if it is for the given title
// and still exists in the store. A stale or externally deleted folder
// invalidates the cache.
func (r *Resolver) validatedDay(ctx context.Context, title string) (domain.FolderRef, bool) {
	r.mu.Lock()
	id, cachedTitle, rootID := r.dayID, r.dayTitle, r.rootID
	r.mu.Unlock()

	if id == "" || cachedTitle != title {
		return domain.FolderRef{}, false
	}

	node, err := r.bookmarks.Get(ctx, id)
	if err != nil || node == nil || !node.IsFolder() {
		r.logger.Debug("cached day folder no longer valid, re-resolving",
			logger.String("folder_id", id))
		r.invalidateDay()
		return domain.FolderRef{}, false
	}

	return domain.FolderRef{ID: id, Title: title, ParentID: rootID}, true
}

func (r *Resolver) invalidateDay() {
	r.mu.Lock()
	r.dayID = ""
	r.dayTitle = ""
	r.mu.Unlock()
}

// resolve walks root folder -> day folder, creating whatever is absent.
func (r *Resolver) resolve(ctx context.Context, title string) (domain.FolderRef, error) {
	rootID, err := r.ensureRoot(ctx)
	if err != nil {
		return domain.FolderRef{}, err
	}

	children, err := r.bookmarks.Children(ctx, rootID)
	if err != nil {
		return domain.FolderRef{}, fmt.Errorf("failed to list archive folder children: %w", err)
	}
	for _, child := range children {
		if child.IsFolder() && child.Title == title {
			r.cacheDay(child.ID, title)
			return domain.FolderRef{ID: child.ID, Title: title, ParentID: rootID}, nil
		}
	}

	node, err := r.bookmarks.Create(ctx, rootID, title, "")
	if err != nil {
		return domain.FolderRef{}, fmt.Errorf("failed to create day folder: %w", err)
	}
	r.logger.Info("created day folder",
		logger.String("title", title),
		logger.String("folder_id", node.ID))

	r.cacheDay(node.ID, title)
	return domain.FolderRef{ID: node.ID, Title: title, ParentID: rootID}, nil
}

func (r *Resolver) cacheDay(id, title string) {
	r.mu.Lock()
	r.dayID = id
	r.dayTitle = title
	r.mu.Unlock()
}

// ensureRoot resolves or creates the root archive folder under the
// well-known "Other Bookmarks" parent.
func (r *Resolver) ensureRoot(ctx context.Context) (string, error) {
	r.mu.Lock()
	cached := r.rootID
	r.mu.Unlock()

	if cached != "" {
		if node, err := r.bookmarks.Get(ctx, cached); err == nil && node != nil && node.IsFolder() {
			return cached, nil
		}
		r.logger.Debug("cached root folder no longer valid, re-resolving",
			logger.String("folder_id", cached))
		r.mu.Lock()
		r.rootID = ""
		r.mu.Unlock()
	}

	results, err := r.bookmarks.Search(ctx, r.rootTitle)
	if err != nil {
		return "", fmt.Errorf("failed to search for archive folder: %w", err)
	}
	for _, node := range results {
		if node.IsFolder() && node.Title == r.rootTitle {
			r.mu.Lock()
			r.rootID = node.ID
			r.mu.Unlock()
			return node.ID, nil
		}
	}

	node, err := r.bookmarks.Create(ctx, browser.OtherBookmarksID, r.rootTitle, "")
	if err != nil {
		return "", fmt.Errorf("failed to create archive folder: %w", err)
	}
	r.logger.Info("created archive folder",
		logger.String("title", r.rootTitle),
		logger.String("folder_id", node.ID))

	r.mu.Lock()
	r.rootID = node.ID
	r.mu.Unlock()
	return node.ID, nil
}
