// Package router subscribes to the browser's tab/window/alarm events and
// dispatches them to the timer manager and the archival executor. It owns
// the active-tab-per-window index as explicit instance state.
package router

import (
	"context"
	"sync"

	"github.com/mdotstrange/TabHoardersFriend/internal/archive"
	"github.com/mdotstrange/TabHoardersFriend/internal/browser"
	"github.com/mdotstrange/TabHoardersFriend/internal/domain"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
	"github.com/mdotstrange/TabHoardersFriend/internal/timer"
)

// Router routes browser events. Handlers never return errors: transient
// external failures are logged and swallowed so the event loop survives.
type Router struct {
	tabs     browser.Tabs
	timers   *timer.Manager
	archiver *archive.Executor
	names    browser.Names
	logger   logger.Logger

	mu             sync.Mutex
	activeByWindow map[int]int // windowID -> active tabID
}

func New(tabs browser.Tabs, timers *timer.Manager, archiver *archive.Executor, names browser.Names, log logger.Logger) *Router {
	return &Router{
		tabs:           tabs,
		timers:         timers,
		archiver:       archiver,
		names:          names,
		logger:         log,
		activeByWindow: make(map[int]int),
	}
}

// Init reconstructs runtime state from the live tab set: the active-tab
// index and a countdown for every background, unpinned tab. Called on
// process start, since the daemon has no persistent runtime state of its own.
func (r *Router) Init(ctx context.Context) error {
	// Drop countdowns surviving from a previous browser session first:
	// their tab ids may be reused by the new session.
	if err := r.timers.CancelAll(ctx); err != nil {
		r.logger.Warn("failed to clear stale countdowns", logger.Error(err))
	}
	r.mu.Lock()
	r.activeByWindow = make(map[int]int)
	r.mu.Unlock()

	tabs, err := r.tabs.Query(ctx)
	if err != nil {
		return err
	}

	armed := 0
	for _, tab := range tabs {
		if tab.Active {
			r.setActive(tab.WindowID, tab.ID)
			continue
		}
		if tab.Pinned {
			continue
		}
		if err := r.timers.Start(ctx, tab.ID); err != nil {
			r.logger.Warn("failed to arm countdown during startup",
				logger.Int("tab_id", tab.ID),
				logger.Error(err))
			continue
		}
		armed++
	}

	r.logger.Info("runtime state reconstructed",
		logger.Int("tabs", len(tabs)),
		logger.Int("countdowns_armed", armed),
		logger.Int("windows", r.windowCount()))
	return nil
}

// Handle dispatches one browser event.
func (r *Router) Handle(ctx context.Context, ev browser.Event) {
	switch e := ev.(type) {
	case browser.TabActivated:
		r.handleActivated(ctx, e)
	case browser.TabCreated:
		r.handleCreated(ctx, e)
	case browser.TabUpdated:
		r.handleUpdated(ctx, e)
	case browser.TabRemoved:
		r.handleRemoved(ctx, e)
	case browser.WindowRemoved:
		r.handleWindowRemoved(e)
	default:
		r.logger.Warn("unknown browser event dropped")
	}
}

// HandleAlarm routes a fired alarm. Names outside the countdown protocol
// are ignored.
func (r *Router) HandleAlarm(ctx context.Context, name string) {
	tabID, ok := timer.ParseAlarmName(name)
	if !ok {
		return
	}
	r.logger.Debug("countdown fired", logger.Int("tab_id", tabID))
	if _, err := r.archiver.ArchiveTab(ctx, tabID); err != nil {
		// No retry and no re-arm: the tab stays open until another event
		// re-arms it or the user hoards manually.
		r.logger.Warn("archival after countdown failed",
			logger.Int("tab_id", tabID),
			logger.Error(err))
	}
}

func (r *Router) handleActivated(ctx context.Context, e browser.TabActivated) {
	previous, hadPrevious := r.swapActive(e.WindowID, e.TabID)

	// The user is looking at this tab now
	if err := r.timers.Cancel(ctx, e.TabID); err != nil {
		r.logger.Warn("failed to cancel countdown for activated tab",
			logger.Int("tab_id", e.TabID),
			logger.Error(err))
	}

	// The tab the user just left starts counting down, if it still exists
	// and is unpinned
	if !hadPrevious || previous == e.TabID {
		return
	}
	tab, err := r.tabs.Get(ctx, previous)
	if err != nil {
		r.logger.Debug("previous active tab already gone",
			logger.Int("tab_id", previous))
		return
	}
	if tab.Pinned {
		return
	}
	if err := r.timers.Start(ctx, previous); err != nil {
		r.logger.Warn("failed to arm countdown for previous tab",
			logger.Int("tab_id", previous),
			logger.Error(err))
	}
}

func (r *Router) handleCreated(ctx context.Context, e browser.TabCreated) {
	// Covers tabs opened in the background (middle-click etc.)
	if !domain.Eligible(&e.Tab) {
		return
	}
	if err := r.timers.Start(ctx, e.Tab.ID); err != nil {
		r.logger.Warn("failed to arm countdown for new tab",
			logger.Int("tab_id", e.Tab.ID),
			logger.Error(err))
	}
}

func (r *Router) handleUpdated(ctx context.Context, e browser.TabUpdated) {
	if e.Pinned == nil {
		return
	}
	if *e.Pinned {
		if err := r.timers.Cancel(ctx, e.TabID); err != nil {
			r.logger.Warn("failed to cancel countdown for pinned tab",
				logger.Int("tab_id", e.TabID),
				logger.Error(err))
		}
		return
	}
	if e.Active {
		return
	}
	if err := r.timers.Start(ctx, e.TabID); err != nil {
		r.logger.Warn("failed to arm countdown for unpinned tab",
			logger.Int("tab_id", e.TabID),
			logger.Error(err))
	}
}

func (r *Router) handleRemoved(ctx context.Context, e browser.TabRemoved) {
	if err := r.timers.Cancel(ctx, e.TabID); err != nil {
		r.logger.Warn("failed to cancel countdown for removed tab",
			logger.Int("tab_id", e.TabID),
			logger.Error(err))
	}
	if err := r.names.Delete(ctx, e.TabID); err != nil {
		r.logger.Warn("failed to prune custom name for removed tab",
			logger.Int("tab_id", e.TabID),
			logger.Error(err))
	}

	r.mu.Lock()
	if r.activeByWindow[e.WindowID] == e.TabID {
		delete(r.activeByWindow, e.WindowID)
	}
	r.mu.Unlock()
}

func (r *Router) handleWindowRemoved(e browser.WindowRemoved) {
	r.mu.Lock()
	delete(r.activeByWindow, e.WindowID)
	r.mu.Unlock()
}

// HoardAll archives every eligible open tab now. Exposed for the on-demand
// UI request.
func (r *Router) HoardAll(ctx context.Context) int {
	return r.archiver.HoardAll(ctx)
}

// ActiveTab returns the tracked active tab of a window.
func (r *Router) ActiveTab(windowID int) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.activeByWindow[windowID]
	return id, ok
}

func (r *Router) setActive(windowID, tabID int) {
	r.mu.Lock()
	r.activeByWindow[windowID] = tabID
	r.mu.Unlock()
}

// swapActive records the new active tab and returns the previous one.
func (r *Router) swapActive(windowID, tabID int) (previous int, hadPrevious bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	previous, hadPrevious = r.activeByWindow[windowID]
	r.activeByWindow[windowID] = tabID
	return previous, hadPrevious
}

func (r *Router) windowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.activeByWindow)
}
