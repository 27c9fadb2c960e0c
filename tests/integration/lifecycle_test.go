package integration

import (
	"context"
	"testing"

	"github.com/mdotstrange/TabHoardersFriend/internal/archive"
	"github.com/mdotstrange/TabHoardersFriend/internal/browser"
	"github.com/mdotstrange/TabHoardersFriend/internal/browsertest"
	"github.com/mdotstrange/TabHoardersFriend/internal/domain"
	"github.com/mdotstrange/TabHoardersFriend/internal/folder"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
	"github.com/mdotstrange/TabHoardersFriend/internal/router"
	"github.com/mdotstrange/TabHoardersFriend/internal/timer"
)

const rootTitle = "TabHoardersFriend"

type world struct {
	tabs      *browsertest.Tabs
	bookmarks *browsertest.Bookmarks
	names     *browsertest.Names
	sched     *browsertest.Scheduler
	router    *router.Router
}

func newWorld(t *testing.T, tabs ...*domain.Tab) *world {
	t.Helper()

	log := logger.New("error", false)
	fakeTabs := browsertest.NewTabs(tabs...)
	fakeBookmarks := browsertest.NewBookmarks()
	fakeNames := browsertest.NewNames()
	fakeSettings := browsertest.NewSettings(30)
	fakeSched := browsertest.NewScheduler()

	timers := timer.NewManager(fakeSettings, fakeSched, log, timer.DefaultMinutes)
	resolver := folder.NewResolver(fakeBookmarks, log, rootTitle)
	archiver := archive.NewExecutor(fakeTabs, fakeBookmarks, fakeNames, resolver, timers, log, rootTitle, domain.DefaultPolicy())
	rt := router.New(fakeTabs, timers, archiver, fakeNames, log)

	return &world{
		tabs:      fakeTabs,
		bookmarks: fakeBookmarks,
		names:     fakeNames,
		sched:     fakeSched,
		router:    rt,
	}
}

// A background tab's countdown fires and the tab ends up archived: its URL
// bookmarked under today's folder, the tab closed, the countdown gone.
func TestCountdownToArchiveFlow(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t,
		&domain.Tab{ID: 1, WindowID: 1, Title: "Reading List", URL: "https://example.com/read"},
		&domain.Tab{ID: 2, WindowID: 1, Title: "Work", URL: "https://example.com/work", Active: true},
	)

	if err := w.router.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !w.sched.Has(timer.AlarmName(1)) {
		t.Fatal("background tab should have a countdown after init")
	}
	if w.sched.Has(timer.AlarmName(2)) {
		t.Fatal("active tab must not have a countdown")
	}

	w.router.HandleAlarm(ctx, timer.AlarmName(1))

	if w.tabs.Exists(1) {
		t.Fatal("tab should be closed after its countdown fired")
	}
	if w.bookmarks.CountByTitle("Reading List") != 1 {
		t.Fatal("expected one bookmark titled after the tab")
	}
	if w.bookmarks.CountByTitle(rootTitle) != 1 {
		t.Fatal("expected the root archive folder to exist")
	}
}

// Switching tabs moves the countdown: the newly active tab's countdown is
// cancelled and the tab the user left gets one.
func TestActivationMovesCountdown(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t,
		&domain.Tab{ID: 1, WindowID: 1, Title: "A", URL: "https://example.com/a", Active: true},
		&domain.Tab{ID: 2, WindowID: 1, Title: "B", URL: "https://example.com/b"},
	)

	if err := w.router.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	w.router.Handle(ctx, browser.TabActivated{TabID: 2, WindowID: 1})

	if w.sched.Has(timer.AlarmName(2)) {
		t.Fatal("activated tab must not keep a countdown")
	}
	if !w.sched.Has(timer.AlarmName(1)) {
		t.Fatal("previously active tab should now count down")
	}
}

// A custom name survives to the bookmark title and is pruned afterwards.
func TestCustomNameFlowsIntoArchive(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t,
		&domain.Tab{ID: 5, WindowID: 1, Title: "Untitled", URL: "https://example.com/x"},
	)
	if err := w.names.Set(ctx, 5, "My Notes"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := w.router.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	w.router.HandleAlarm(ctx, timer.AlarmName(5))

	if w.bookmarks.CountByTitle("My Notes") != 1 {
		t.Fatal("expected bookmark titled with the custom name")
	}
	if w.names.Has(5) {
		t.Fatal("custom name must be pruned after archival")
	}
}
