package router

import (
	"context"
	"testing"
	"time"

	"github.com/mdotstrange/TabHoardersFriend/internal/archive"
	"github.com/mdotstrange/TabHoardersFriend/internal/browser"
	"github.com/mdotstrange/TabHoardersFriend/internal/browsertest"
	"github.com/mdotstrange/TabHoardersFriend/internal/domain"
	"github.com/mdotstrange/TabHoardersFriend/internal/folder"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
	"github.com/mdotstrange/TabHoardersFriend/internal/timer"
)

type fixture struct {
	tabs      *browsertest.Tabs
	bookmarks *browsertest.Bookmarks
	names     *browsertest.Names
	sched     *browsertest.Scheduler
	router    *Router
}

func newFixture(tabs ...*domain.Tab) *fixture {
	log := logger.New("error", false)
	f := &fixture{
		tabs:      browsertest.NewTabs(tabs...),
		bookmarks: browsertest.NewBookmarks(),
		names:     browsertest.NewNames(),
		sched:     browsertest.NewScheduler(),
	}
	timers := timer.NewManager(browsertest.NewSettings(30), f.sched, log, timer.DefaultMinutes)
	resolver := folder.NewResolver(f.bookmarks, log, "TabHoardersFriend")
	exec := archive.NewExecutor(f.tabs, f.bookmarks, f.names, resolver, timers, log, "TabHoardersFriend", domain.DefaultPolicy())
	f.router = New(f.tabs, timers, exec, f.names, log)
	return f
}

func TestActivationCancelsAndArmsPrevious(t *testing.T) {
	f := newFixture(
		&domain.Tab{ID: 1, WindowID: 1, URL: "https://example.com/a"},
		&domain.Tab{ID: 2, WindowID: 1, URL: "https://example.com/b"},
	)
	ctx := context.Background()

	// Tab 1 becomes active, then the user switches to tab 2
	f.router.Handle(ctx, browser.TabActivated{TabID: 1, WindowID: 1})
	f.router.Handle(ctx, browser.TabActivated{TabID: 2, WindowID: 1})

	if f.sched.Has(timer.AlarmName(2)) {
		t.Error("newly active tab still has a countdown")
	}
	if !f.sched.Has(timer.AlarmName(1)) {
		t.Error("previous active tab was not armed after the user left it")
	}
	if id, ok := f.router.ActiveTab(1); !ok || id != 2 {
		t.Errorf("ActiveTab(1) = (%d, %v), want (2, true)", id, ok)
	}
}

func TestActivationSkipsPinnedPrevious(t *testing.T) {
	f := newFixture(
		&domain.Tab{ID: 1, WindowID: 1, Pinned: true, URL: "https://example.com/a"},
		&domain.Tab{ID: 2, WindowID: 1, URL: "https://example.com/b"},
	)
	ctx := context.Background()

	f.router.Handle(ctx, browser.TabActivated{TabID: 1, WindowID: 1})
	f.router.Handle(ctx, browser.TabActivated{TabID: 2, WindowID: 1})

	if f.sched.Has(timer.AlarmName(1)) {
		t.Error("pinned previous tab was armed")
	}
}

func TestActivationSkipsClosedPrevious(t *testing.T) {
	f := newFixture(&domain.Tab{ID: 2, WindowID: 1, URL: "https://example.com/b"})
	ctx := context.Background()

	// Tab 9 was tracked active but no longer exists when tab 2 activates
	f.router.Handle(ctx, browser.TabActivated{TabID: 9, WindowID: 1})
	f.router.Handle(ctx, browser.TabActivated{TabID: 2, WindowID: 1})

	if f.sched.Has(timer.AlarmName(9)) {
		t.Error("closed previous tab was armed")
	}
}

func TestReactivationDoesNotArmItself(t *testing.T) {
	f := newFixture(&domain.Tab{ID: 1, WindowID: 1, URL: "https://example.com/a"})
	ctx := context.Background()

	f.router.Handle(ctx, browser.TabActivated{TabID: 1, WindowID: 1})
	f.router.Handle(ctx, browser.TabActivated{TabID: 1, WindowID: 1})

	if f.sched.Count() != 0 {
		t.Errorf("re-activating the same tab armed %d countdowns, want 0", f.sched.Count())
	}
}

func TestCreatedBackgroundTabGetsCountdown(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.router.Handle(ctx, browser.TabCreated{Tab: domain.Tab{ID: 3, WindowID: 1, URL: "https://example.com/c"}})
	if !f.sched.Has(timer.AlarmName(3)) {
		t.Error("background tab was not armed on creation")
	}

	f.router.Handle(ctx, browser.TabCreated{Tab: domain.Tab{ID: 4, WindowID: 1, Active: true}})
	if f.sched.Has(timer.AlarmName(4)) {
		t.Error("active tab was armed on creation")
	}

	f.router.Handle(ctx, browser.TabCreated{Tab: domain.Tab{ID: 5, WindowID: 1, Pinned: true}})
	if f.sched.Has(timer.AlarmName(5)) {
		t.Error("pinned tab was armed on creation")
	}
}

func TestPinnedFlagTogglesCountdown(t *testing.T) {
	f := newFixture(&domain.Tab{ID: 6, WindowID: 1, URL: "https://example.com/f"})
	ctx := context.Background()

	pinned := true
	unpinned := false

	f.router.Handle(ctx, browser.TabCreated{Tab: domain.Tab{ID: 6, WindowID: 1, URL: "https://example.com/f"}})
	f.router.Handle(ctx, browser.TabUpdated{TabID: 6, Pinned: &pinned})
	if f.sched.Has(timer.AlarmName(6)) {
		t.Error("pinning did not cancel the countdown")
	}

	f.router.Handle(ctx, browser.TabUpdated{TabID: 6, Pinned: &unpinned})
	if !f.sched.Has(timer.AlarmName(6)) {
		t.Error("unpinning a background tab did not arm a countdown")
	}

	// Unpinning the active tab must not arm it
	f.router.Handle(ctx, browser.TabUpdated{TabID: 7, Pinned: &unpinned, Active: true})
	if f.sched.Has(timer.AlarmName(7)) {
		t.Error("unpinning an active tab armed a countdown")
	}

	// Updates without a pinned change are ignored
	f.router.Handle(ctx, browser.TabUpdated{TabID: 8})
	if f.sched.Has(timer.AlarmName(8)) {
		t.Error("update without pinned change armed a countdown")
	}
}

func TestRemovedTabCleansUp(t *testing.T) {
	f := newFixture(&domain.Tab{ID: 1, WindowID: 1, URL: "https://example.com/a"})
	ctx := context.Background()

	f.router.Handle(ctx, browser.TabCreated{Tab: domain.Tab{ID: 1, WindowID: 1, URL: "https://example.com/a"}})
	if err := f.names.Set(ctx, 1, "Keep Me"); err != nil {
		t.Fatalf("seed name failed: %v", err)
	}
	f.router.Handle(ctx, browser.TabActivated{TabID: 1, WindowID: 1})

	f.router.Handle(ctx, browser.TabRemoved{TabID: 1, WindowID: 1})

	if f.sched.Has(timer.AlarmName(1)) {
		t.Error("removed tab still has a countdown")
	}
	if f.names.Has(1) {
		t.Error("removed tab still has a custom name")
	}
	if _, ok := f.router.ActiveTab(1); ok {
		t.Error("removed active tab still tracked in the window index")
	}
}

func TestRemovedInactiveTabKeepsIndexEntry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.router.Handle(ctx, browser.TabActivated{TabID: 1, WindowID: 1})
	f.router.Handle(ctx, browser.TabRemoved{TabID: 2, WindowID: 1})

	if id, ok := f.router.ActiveTab(1); !ok || id != 1 {
		t.Errorf("ActiveTab(1) = (%d, %v), want (1, true)", id, ok)
	}
}

func TestWindowRemovedDropsIndexEntry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.router.Handle(ctx, browser.TabActivated{TabID: 1, WindowID: 1})
	f.router.Handle(ctx, browser.WindowRemoved{WindowID: 1})

	if _, ok := f.router.ActiveTab(1); ok {
		t.Error("removed window still tracked in the index")
	}
}

func TestAlarmRoutesToArchival(t *testing.T) {
	f := newFixture(&domain.Tab{ID: 11, WindowID: 1, Title: "Idle", URL: "https://example.com/idle"})
	ctx := context.Background()

	f.router.HandleAlarm(ctx, timer.AlarmName(11))

	if f.tabs.Exists(11) {
		t.Error("countdown expiry did not archive the tab")
	}
}

func TestAlarmIgnoresForeignNames(t *testing.T) {
	f := newFixture(&domain.Tab{ID: 11, WindowID: 1, URL: "https://example.com/idle"})

	f.router.HandleAlarm(context.Background(), "some-other-alarm")

	if !f.tabs.Exists(11) {
		t.Error("foreign alarm name triggered archival")
	}
}

func TestInitReconstructsState(t *testing.T) {
	// Two windows, one active tab each, one background unpinned tab in
	// window 1, plus a pinned background tab that must stay untouched.
	f := newFixture(
		&domain.Tab{ID: 1, WindowID: 1, Active: true, URL: "https://example.com/1"},
		&domain.Tab{ID: 2, WindowID: 1, URL: "https://example.com/2"},
		&domain.Tab{ID: 3, WindowID: 2, Active: true, URL: "https://example.com/3"},
		&domain.Tab{ID: 4, WindowID: 2, Pinned: true, URL: "https://example.com/4"},
	)

	if err := f.router.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if f.sched.Count() != 1 || !f.sched.Has(timer.AlarmName(2)) {
		t.Errorf("Init armed %d countdowns, want exactly 1 for the background tab", f.sched.Count())
	}
	if id, ok := f.router.ActiveTab(1); !ok || id != 1 {
		t.Errorf("ActiveTab(1) = (%d, %v), want (1, true)", id, ok)
	}
	if id, ok := f.router.ActiveTab(2); !ok || id != 3 {
		t.Errorf("ActiveTab(2) = (%d, %v), want (3, true)", id, ok)
	}
}

func TestInitClearsStaleCountdowns(t *testing.T) {
	// Countdowns from a previous browser session reference tab ids the new
	// session may reuse. Init must drop them before re-arming.
	f := newFixture(
		&domain.Tab{ID: 1, WindowID: 1, Active: true, URL: "https://example.com/1"},
		&domain.Tab{ID: 2, WindowID: 1, URL: "https://example.com/2"},
	)
	ctx := context.Background()

	if err := f.sched.Create(ctx, timer.AlarmName(99), time.Hour); err != nil {
		t.Fatalf("seed stale countdown failed: %v", err)
	}
	if err := f.sched.Create(ctx, "cleanup-daily", time.Hour); err != nil {
		t.Fatalf("seed foreign alarm failed: %v", err)
	}

	if err := f.router.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if f.sched.Has(timer.AlarmName(99)) {
		t.Error("stale countdown for a dead tab survived Init")
	}
	if !f.sched.Has(timer.AlarmName(2)) {
		t.Error("background tab was not armed after Init")
	}
	if !f.sched.Has("cleanup-daily") {
		t.Error("Init cleared an alarm outside the countdown protocol")
	}
}

func TestInitPropagatesQueryFailure(t *testing.T) {
	f := newFixture()
	f.tabs.Err = context.DeadlineExceeded

	if err := f.router.Init(context.Background()); err == nil {
		t.Fatal("Init succeeded although the tab surface was unavailable")
	}
}
