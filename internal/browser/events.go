package browser

import "github.com/mdotstrange/TabHoardersFriend/internal/domain"

// Event is one tab/window lifecycle event from the browser's event stream.
// The concrete types below are the only implementations.
type Event interface {
	isEvent()
}

// TabActivated fires when a tab becomes the active tab of its window.
type TabActivated struct {
	TabID    int
	WindowID int
}

// TabCreated fires for every newly opened tab.
type TabCreated struct {
	Tab domain.Tab
}

// TabUpdated fires on tab state changes. Pinned is non-nil only when the
// pinned flag changed; Active carries the tab's activity at event time.
type TabUpdated struct {
	TabID  int
	Pinned *bool
	Active bool
}

// TabRemoved fires when a tab closes.
type TabRemoved struct {
	TabID    int
	WindowID int
}

// WindowRemoved fires when a whole window closes.
type WindowRemoved struct {
	WindowID int
}

func (TabActivated) isEvent()  {}
func (TabCreated) isEvent()    {}
func (TabUpdated) isEvent()    {}
func (TabRemoved) isEvent()    {}
func (WindowRemoved) isEvent() {}
