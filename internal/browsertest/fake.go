// Package browsertest provides in-memory implementations of the browser
// collaborator interfaces for tests.
package browsertest

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/mdotstrange/TabHoardersFriend/internal/browser"
	"github.com/mdotstrange/TabHoardersFriend/internal/domain"
)

// ─────────────────────────────────────────────────────────────────
// Tabs
// ─────────────────────────────────────────────────────────────────

// Tabs is an in-memory browser.Tabs.
type Tabs struct {
	mu      sync.Mutex
	tabs    map[int]*domain.Tab
	removed []int

	// Err, when set, is returned by every operation.
	Err error
}

func NewTabs(tabs ...*domain.Tab) *Tabs {
	t := &Tabs{tabs: make(map[int]*domain.Tab)}
	for _, tab := range tabs {
		t.tabs[tab.ID] = tab
	}
	return t
}

func (t *Tabs) Add(tab *domain.Tab) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tabs[tab.ID] = tab
}

func (t *Tabs) Get(ctx context.Context, tabID int) (*domain.Tab, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return nil, t.Err
	}
	tab, ok := t.tabs[tabID]
	if !ok {
		return nil, browser.ErrTabGone
	}
	copied := *tab
	return &copied, nil
}

func (t *Tabs) Query(ctx context.Context) ([]*domain.Tab, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return nil, t.Err
	}
	out := make([]*domain.Tab, 0, len(t.tabs))
	for _, tab := range t.tabs {
		copied := *tab
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *Tabs) Remove(ctx context.Context, tabID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return t.Err
	}
	if _, ok := t.tabs[tabID]; !ok {
		return browser.ErrTabGone
	}
	delete(t.tabs, tabID)
	t.removed = append(t.removed, tabID)
	return nil
}

// Exists reports whether a tab is still open.
func (t *Tabs) Exists(tabID int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.tabs[tabID]
	return ok
}

// Removed returns the ids of tabs closed through Remove, in order.
func (t *Tabs) Removed() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.removed...)
}

// ─────────────────────────────────────────────────────────────────
// Bookmarks
// ─────────────────────────────────────────────────────────────────

// Bookmarks is an in-memory browser.Bookmarks backed by a flat node map.
// It seeds the well-known "Other Bookmarks" folder.
type Bookmarks struct {
	mu     sync.Mutex
	nodes  map[string]*browser.Node
	order  []string // creation order, for stable Children/Search results
	nextID int

	// Err, when set, is returned by every operation.
	Err error

	// BeforeCreate, when set, runs before each Create while no lock is
	// held. Tests use it to widen race windows.
	BeforeCreate func(parentID, title, url string)

	// FailCreate, when set, can fail individual Create calls.
	FailCreate func(parentID, title, url string) error
}

func NewBookmarks() *Bookmarks {
	b := &Bookmarks{nodes: make(map[string]*browser.Node), nextID: 100}
	other := &browser.Node{ID: browser.OtherBookmarksID, Title: "Other Bookmarks"}
	b.nodes[other.ID] = other
	b.order = append(b.order, other.ID)
	return b
}

func (b *Bookmarks) Get(ctx context.Context, id string) (*browser.Node, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	node, ok := b.nodes[id]
	if !ok {
		return nil, browser.ErrNodeGone
	}
	copied := *node
	return &copied, nil
}

func (b *Bookmarks) Search(ctx context.Context, title string) ([]*browser.Node, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	var out []*browser.Node
	for _, id := range b.order {
		if node := b.nodes[id]; node != nil && node.Title == title {
			copied := *node
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (b *Bookmarks) Children(ctx context.Context, id string) ([]*browser.Node, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	var out []*browser.Node
	for _, nid := range b.order {
		if node := b.nodes[nid]; node != nil && node.ParentID == id {
			copied := *node
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (b *Bookmarks) Create(ctx context.Context, parentID, title, url string) (*browser.Node, error) {
	if hook := b.BeforeCreate; hook != nil {
		hook(parentID, title, url)
	}
	if fail := b.FailCreate; fail != nil {
		if err := fail(parentID, title, url); err != nil {
			return nil, err
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	b.nextID++
	node := &browser.Node{
		ID:       strconv.Itoa(b.nextID),
		ParentID: parentID,
		Title:    title,
		URL:      url,
	}
	b.nodes[node.ID] = node
	b.order = append(b.order, node.ID)
	copied := *node
	return &copied, nil
}

// Delete removes a node, simulating a user deleting a folder externally.
func (b *Bookmarks) Delete(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.nodes, id)
}

// CountByTitle returns how many nodes carry the exact title.
func (b *Bookmarks) CountByTitle(title string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, node := range b.nodes {
		if node.Title == title {
			n++
		}
	}
	return n
}

// ─────────────────────────────────────────────────────────────────
// Settings, Names, Scheduler
// ─────────────────────────────────────────────────────────────────

// Settings is an in-memory browser.Settings.
type Settings struct {
	mu      sync.Mutex
	minutes int

	Err error
}

func NewSettings(minutes int) *Settings {
	return &Settings{minutes: minutes}
}

func (s *Settings) TimerMinutes(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return s.minutes, nil
}

func (s *Settings) SetTimerMinutes(ctx context.Context, minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.minutes = minutes
	return nil
}

// Names is an in-memory browser.Names.
type Names struct {
	mu    sync.Mutex
	names map[int]string

	Err error
}

func NewNames() *Names {
	return &Names{names: make(map[int]string)}
}

func (n *Names) Get(ctx context.Context, tabID int) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return "", n.Err
	}
	return n.names[tabID], nil
}

func (n *Names) Set(ctx context.Context, tabID int, name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.names[tabID] = name
	return nil
}

func (n *Names) Delete(ctx context.Context, tabID int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	delete(n.names, tabID)
	return nil
}

// All returns every stored tabID -> name binding, keys stringified.
func (n *Names) All(ctx context.Context) (map[string]string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return nil, n.Err
	}
	out := make(map[string]string, len(n.names))
	for id, name := range n.names {
		out[strconv.Itoa(id)] = name
	}
	return out, nil
}

// Has reports whether a custom name is stored for the tab.
func (n *Names) Has(tabID int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.names[tabID]
	return ok
}

// Scheduler is a manually-fired browser.Scheduler. Create replaces any
// alarm with the same name, mirroring chrome.alarms.
type Scheduler struct {
	mu     sync.Mutex
	alarms map[string]time.Duration

	Err error
}

func NewScheduler() *Scheduler {
	return &Scheduler{alarms: make(map[string]time.Duration)}
}

func (s *Scheduler) Create(ctx context.Context, name string, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.alarms[name] = delay
	return nil
}

func (s *Scheduler) Clear(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.alarms, name)
	return nil
}

// Names enumerates all scheduled alarms, sorted for stable assertions.
func (s *Scheduler) Names(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	names := make([]string, 0, len(s.alarms))
	for name := range s.alarms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Has reports whether an alarm with the name is scheduled.
func (s *Scheduler) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.alarms[name]
	return ok
}

// Delay returns the delay an alarm was scheduled with.
func (s *Scheduler) Delay(name string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alarms[name]
}

// Count returns the number of scheduled alarms.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alarms)
}
