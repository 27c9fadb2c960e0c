// Package bridge connects the daemon to the in-browser shim over a single
// WebSocket. The shim relays chrome.tabs/chrome.bookmarks calls and pushes
// tab/window events. Calls are JSON frames correlated by id; events are
// fire-and-forget frames decoded into browser.Event values.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mdotstrange/TabHoardersFriend/internal/browser"
	"github.com/mdotstrange/TabHoardersFriend/internal/domain"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
	"github.com/mdotstrange/TabHoardersFriend/internal/utils"
)

// ErrNotConnected is returned for any call while no shim is attached.
var ErrNotConnected = errors.New("browser shim not connected")

// DefaultCallTimeout bounds a single round trip to the shim.
const DefaultCallTimeout = 10 * time.Second

type frame struct {
	ID     string          `json:"id,omitempty"`
	Type   string          `json:"type"` // "call" | "result" | "event"
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`

	// Event fields
	Event    string      `json:"event,omitempty"`
	TabID    int         `json:"tabId,omitempty"`
	WindowID int         `json:"windowId,omitempty"`
	Pinned   *bool       `json:"pinned,omitempty"`
	Active   bool        `json:"active,omitempty"`
	Tab      *domain.Tab `json:"tab,omitempty"`
}

type pendingCall struct {
	result json.RawMessage
	err    error
}

// Hub owns the shim connection and implements browser.Tabs and
// browser.Bookmarks on top of it.
type Hub struct {
	logger      logger.Logger
	upgrader    websocket.Upgrader
	callTimeout time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	writeMu   sync.Mutex
	pending   map[string]chan pendingCall
	handler   func(ctx context.Context, ev browser.Event)
	onConnect func(ctx context.Context)
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		logger: log,
		upgrader: websocket.Upgrader{
			// The shim connects from an extension origin; access control
			// is the HTTP layer's concern.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		callTimeout: DefaultCallTimeout,
		pending:     make(map[string]chan pendingCall),
	}
}

// SetEventHandler installs the callback for decoded browser events.
func (h *Hub) SetEventHandler(fn func(ctx context.Context, ev browser.Event)) {
	h.mu.Lock()
	h.handler = fn
	h.mu.Unlock()
}

// SetConnectHandler installs the callback run each time a shim attaches.
// The browser process may restart at any time, so state reconstruction
// hangs off this hook rather than off daemon startup.
func (h *Hub) SetConnectHandler(fn func(ctx context.Context)) {
	h.mu.Lock()
	h.onConnect = fn
	h.mu.Unlock()
}

// Connected reports whether a shim is currently attached.
func (h *Hub) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn != nil
}

// HandleWS upgrades the request and serves the shim connection until it
// closes. A newer connection replaces an older one.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade shim connection", logger.Error(err))
		return
	}

	h.attach(conn)
	h.logger.Info("browser shim connected",
		logger.String("remote", r.RemoteAddr))

	h.mu.Lock()
	onConnect := h.onConnect
	h.mu.Unlock()
	if onConnect != nil {
		go onConnect(context.Background())
	}

	queue := newEventQueue()
	go h.drainEvents(queue)

	h.readLoop(conn, queue)

	queue.close()
	h.detach(conn)
	h.logger.Info("browser shim disconnected",
		logger.String("remote", r.RemoteAddr))
}

func (h *Hub) attach(conn *websocket.Conn) {
	h.mu.Lock()
	old := h.conn
	h.conn = conn
	h.mu.Unlock()
	if old != nil {
		utils.Close(old)
	}
}

// detach drops the connection and fails every in-flight call.
func (h *Hub) detach(conn *websocket.Conn) {
	h.mu.Lock()
	if h.conn == conn {
		h.conn = nil
	}
	for id, ch := range h.pending {
		ch <- pendingCall{err: ErrNotConnected}
		delete(h.pending, id)
	}
	h.mu.Unlock()
	utils.Close(conn)
}

func (h *Hub) readLoop(conn *websocket.Conn, queue *eventQueue) {
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("shim read error", logger.Error(err))
			}
			return
		}

		switch f.Type {
		case "result":
			h.deliver(f)
		case "event":
			ev, ok := decodeEvent(f)
			if !ok {
				h.logger.Debug("unknown event from shim", logger.String("event", f.Event))
				continue
			}
			queue.push(ev)
		default:
			h.logger.Debug("unexpected frame from shim",
				logger.String("type", f.Type))
		}
	}
}

func (h *Hub) deliver(f frame) {
	h.mu.Lock()
	ch, ok := h.pending[f.ID]
	delete(h.pending, f.ID)
	h.mu.Unlock()
	if !ok {
		h.logger.Debug("result for unknown call", logger.String("id", f.ID))
		return
	}
	if f.Error != "" {
		ch <- pendingCall{err: errors.New(f.Error)}
		return
	}
	ch <- pendingCall{result: f.Result}
}

// drainEvents applies a connection's events one at a time, in arrival
// order. Handlers track which tab is active per window, so two events
// applied out of order would leave that state wrong.
func (h *Hub) drainEvents(queue *eventQueue) {
	for {
		ev, ok := queue.pop()
		if !ok {
			return
		}
		h.mu.Lock()
		handler := h.handler
		h.mu.Unlock()
		if handler != nil {
			handler(context.Background(), ev)
		}
	}
}

// eventQueue is an unbounded FIFO between the read loop and the event
// worker. The handler makes calls back over the same connection, so the
// read loop must stay free to deliver their results: it can neither run
// the handler inline nor block on a bounded channel.
type eventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	events []browser.Event
	closed bool
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *eventQueue) push(ev browser.Event) {
	q.mu.Lock()
	if !q.closed {
		q.events = append(q.events, ev)
	}
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks until an event is available. It returns ok=false once the
// queue is closed and fully drained.
func (q *eventQueue) pop() (browser.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.events) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.events) == 0 {
		return nil, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

func (q *eventQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

func decodeEvent(f frame) (browser.Event, bool) {
	switch f.Event {
	case "tabActivated":
		return browser.TabActivated{TabID: f.TabID, WindowID: f.WindowID}, true
	case "tabCreated":
		if f.Tab == nil {
			return nil, false
		}
		return browser.TabCreated{Tab: *f.Tab}, true
	case "tabUpdated":
		return browser.TabUpdated{TabID: f.TabID, Pinned: f.Pinned, Active: f.Active}, true
	case "tabRemoved":
		return browser.TabRemoved{TabID: f.TabID, WindowID: f.WindowID}, true
	case "windowRemoved":
		return browser.WindowRemoved{WindowID: f.WindowID}, true
	default:
		return nil, false
	}
}

// call performs one round trip to the shim and decodes the result into out
// (out may be nil for calls without a payload).
func (h *Hub) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	h.mu.Lock()
	conn := h.conn
	if conn == nil {
		h.mu.Unlock()
		return ErrNotConnected
	}
	id := uuid.NewString()
	ch := make(chan pendingCall, 1)
	h.pending[id] = ch
	h.mu.Unlock()

	rawParams, err := json.Marshal(params)
	if err != nil {
		h.abandon(id)
		return fmt.Errorf("failed to encode %s params: %w", method, err)
	}

	h.writeMu.Lock()
	err = conn.WriteJSON(frame{ID: id, Type: "call", Method: method, Params: rawParams})
	h.writeMu.Unlock()
	if err != nil {
		h.abandon(id)
		return fmt.Errorf("failed to send %s: %w", method, err)
	}

	timeout := time.NewTimer(h.callTimeout)
	defer timeout.Stop()

	select {
	case <-ctx.Done():
		h.abandon(id)
		return ctx.Err()
	case <-timeout.C:
		h.abandon(id)
		return fmt.Errorf("%s timed out after %v", method, h.callTimeout)
	case res := <-ch:
		if res.err != nil {
			return fmt.Errorf("%s failed: %w", method, res.err)
		}
		if out == nil || len(res.result) == 0 {
			return nil
		}
		if err := json.Unmarshal(res.result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
		return nil
	}
}

func (h *Hub) abandon(id string) {
	h.mu.Lock()
	delete(h.pending, id)
	h.mu.Unlock()
}

// ─────────────────────────────────────────────────────────────────
// browser.Tabs
// ─────────────────────────────────────────────────────────────────

type tabIDParams struct {
	TabID int `json:"tabId"`
}

func (h *Hub) Get(ctx context.Context, tabID int) (*domain.Tab, error) {
	var tab domain.Tab
	if err := h.call(ctx, "tabs.get", tabIDParams{TabID: tabID}, &tab); err != nil {
		return nil, err
	}
	return &tab, nil
}

func (h *Hub) Query(ctx context.Context) ([]*domain.Tab, error) {
	var tabs []*domain.Tab
	if err := h.call(ctx, "tabs.query", struct{}{}, &tabs); err != nil {
		return nil, err
	}
	return tabs, nil
}

func (h *Hub) Remove(ctx context.Context, tabID int) error {
	return h.call(ctx, "tabs.remove", tabIDParams{TabID: tabID}, nil)
}

// ─────────────────────────────────────────────────────────────────
// browser.Bookmarks
// ─────────────────────────────────────────────────────────────────

// Bookmarks returns the bookmark surface of the bridge. The Hub itself
// implements browser.Tabs; the bookmark methods live on a separate view to
// avoid name collisions with the tab surface.
func (h *Hub) Bookmarks() browser.Bookmarks {
	return bookmarksView{h}
}

type bookmarksView struct {
	h *Hub
}

type nodeIDParams struct {
	ID string `json:"id"`
}

func (v bookmarksView) Get(ctx context.Context, id string) (*browser.Node, error) {
	var node browser.Node
	if err := v.h.call(ctx, "bookmarks.get", nodeIDParams{ID: id}, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

func (v bookmarksView) Search(ctx context.Context, title string) ([]*browser.Node, error) {
	var nodes []*browser.Node
	params := struct {
		Title string `json:"title"`
	}{Title: title}
	if err := v.h.call(ctx, "bookmarks.search", params, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (v bookmarksView) Children(ctx context.Context, id string) ([]*browser.Node, error) {
	var nodes []*browser.Node
	if err := v.h.call(ctx, "bookmarks.getChildren", nodeIDParams{ID: id}, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (v bookmarksView) Create(ctx context.Context, parentID, title, url string) (*browser.Node, error) {
	var node browser.Node
	params := struct {
		ParentID string `json:"parentId"`
		Title    string `json:"title"`
		URL      string `json:"url,omitempty"`
	}{ParentID: parentID, Title: title, URL: url}
	if err := v.h.call(ctx, "bookmarks.create", params, &node); err != nil {
		return nil, err
	}
	return &node, nil
}
