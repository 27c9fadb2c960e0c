// Package archive converts live tabs into persisted bookmark entries and
// removes them. Every step of the archival ladder is a hard precondition:
// abort without side effects rather than destroy user context.
package archive

import (
	"context"
	"fmt"

	"github.com/mdotstrange/TabHoardersFriend/internal/browser"
	"github.com/mdotstrange/TabHoardersFriend/internal/domain"
	"github.com/mdotstrange/TabHoardersFriend/internal/folder"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
	"github.com/mdotstrange/TabHoardersFriend/internal/timer"
)

// Outcome is the result of an archival attempt that did not error.
type Outcome int

const (
	// OutcomeSkipped means the tab was deliberately left untouched: it was
	// gone, pinned, active, or on a restricted URL.
	OutcomeSkipped Outcome = iota

	// OutcomeArchived means the tab's URL was bookmarked and the tab closed.
	OutcomeArchived
)

// Executor archives tabs into the day folder.
type Executor struct {
	tabs      browser.Tabs
	bookmarks browser.Bookmarks
	names     browser.Names
	resolver  *folder.Resolver
	timers    *timer.Manager
	logger    logger.Logger

	rootTitle string
	policy    domain.Policy
}

func NewExecutor(
	tabs browser.Tabs,
	bookmarks browser.Bookmarks,
	names browser.Names,
	resolver *folder.Resolver,
	timers *timer.Manager,
	log logger.Logger,
	rootTitle string,
	policy domain.Policy,
) *Executor {
	if len(policy.RestrictedPrefixes) == 0 {
		policy = domain.DefaultPolicy()
	}
	return &Executor{
		tabs:      tabs,
		bookmarks: bookmarks,
		names:     names,
		resolver:  resolver,
		timers:    timers,
		logger:    log,
		rootTitle: rootTitle,
		policy:    policy,
	}
}

// ArchiveTab saves one tab's URL into today's folder and closes the tab.
// Tab state is re-fetched first: anything can have changed since the
// countdown was armed, and tab ids are reused after close. The bookmark is
// created strictly before the tab is removed, so a failure between the two
// leaves the tab open rather than lost.
func (e *Executor) ArchiveTab(ctx context.Context, tabID int) (Outcome, error) {
	tab, err := e.tabs.Get(ctx, tabID)
	if err != nil {
		// Tab gone (or unreadable) since the countdown fired: not a fault.
		e.logger.Debug("tab vanished before archival",
			logger.Int("tab_id", tabID),
			logger.Error(err))
		return OutcomeSkipped, nil
	}

	if tab.Pinned || tab.Active {
		e.logger.Debug("tab no longer eligible, skipping",
			logger.Int("tab_id", tabID),
			logger.Bool("pinned", tab.Pinned),
			logger.Bool("active", tab.Active))
		return OutcomeSkipped, nil
	}

	if e.policy.Blocks(tab.URL) {
		e.logger.Debug("restricted url, skipping",
			logger.Int("tab_id", tabID),
			logger.String("url", tab.URL))
		return OutcomeSkipped, nil
	}

	ref, err := e.resolver.EnsureDayFolder(ctx)
	if err != nil {
		// Leave the tab open; archival for this cycle failed.
		return OutcomeSkipped, fmt.Errorf("failed to resolve day folder: %w", err)
	}

	customName, err := e.names.Get(ctx, tabID)
	if err != nil {
		e.logger.Warn("failed to read custom tab name",
			logger.Int("tab_id", tabID),
			logger.Error(err))
		customName = ""
	}
	title := domain.BookmarkTitle(customName, tab.Title, tab.URL)

	if _, err := e.bookmarks.Create(ctx, ref.ID, title, tab.URL); err != nil {
		return OutcomeSkipped, fmt.Errorf("failed to create bookmark: %w", err)
	}

	// Custom names are tab-identity-scoped and tab ids are reused, so the
	// binding must go before another tab can inherit it.
	if err := e.names.Delete(ctx, tabID); err != nil {
		e.logger.Warn("failed to delete custom tab name",
			logger.Int("tab_id", tabID),
			logger.Error(err))
	}

	if err := e.tabs.Remove(ctx, tabID); err != nil {
		return OutcomeSkipped, fmt.Errorf("failed to close tab: %w", err)
	}

	e.logger.Info("tab archived",
		logger.Int("tab_id", tabID),
		logger.String("title", title),
		logger.String("folder", ref.Title))
	return OutcomeArchived, nil
}

// HoardAll archives every eligible open tab immediately and returns the
// number archived. Failures are isolated per tab: one bad tab never aborts
// the batch.
func (e *Executor) HoardAll(ctx context.Context) int {
	tabs, err := e.tabs.Query(ctx)
	if err != nil {
		e.logger.Error("failed to enumerate tabs for hoard-all",
			logger.Error(err))
		return 0
	}

	count := 0
	for _, tab := range tabs {
		outcome, err := e.ArchiveTab(ctx, tab.ID)
		if err != nil {
			e.logger.Warn("failed to hoard tab",
				logger.Int("tab_id", tab.ID),
				logger.Error(err))
			continue
		}
		if outcome != OutcomeArchived {
			continue
		}
		if err := e.timers.Cancel(ctx, tab.ID); err != nil {
			e.logger.Warn("failed to cancel countdown after hoard",
				logger.Int("tab_id", tab.ID),
				logger.Error(err))
		}
		count++
	}

	e.logger.Info("hoard-all completed", logger.Int("count", count))
	return count
}

// Export collects every day folder's archived entries, grouped by folder.
// Returns an error when the root archive folder does not exist yet.
func (e *Executor) Export(ctx context.Context) ([]domain.FolderExport, error) {
	results, err := e.bookmarks.Search(ctx, e.rootTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to search for archive folder: %w", err)
	}

	var root *browser.Node
	for _, node := range results {
		if node.IsFolder() && node.Title == e.rootTitle {
			root = node
			break
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no %s folder found", e.rootTitle)
	}

	dayFolders, err := e.bookmarks.Children(ctx, root.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list day folders: %w", err)
	}

	var out []domain.FolderExport
	for _, day := range dayFolders {
		if !day.IsFolder() {
			continue
		}
		children, err := e.bookmarks.Children(ctx, day.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list bookmarks of %q: %w", day.Title, err)
		}
		var entries []domain.BookmarkEntry
		for _, child := range children {
			if child.IsFolder() {
				continue
			}
			entries = append(entries, domain.BookmarkEntry{Title: child.Title, URL: child.URL})
		}
		if len(entries) == 0 {
			continue
		}
		out = append(out, domain.FolderExport{FolderName: day.Title, Bookmarks: entries})
	}

	return out, nil
}
