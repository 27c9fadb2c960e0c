// Package timer owns the per-tab countdown lifecycle: at most one live
// countdown per tab id at any time.
package timer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mdotstrange/TabHoardersFriend/internal/browser"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
)

// AlarmPrefix is the naming protocol shared with the event router: every
// countdown alarm is named AlarmPrefix + tabID.
const AlarmPrefix = "tab-timer-"

// DefaultMinutes applies when no duration setting is stored.
const DefaultMinutes = 30

// AlarmName returns the alarm name for a tab's countdown.
func AlarmName(tabID int) string {
	return AlarmPrefix + strconv.Itoa(tabID)
}

// ParseAlarmName extracts the tab id from a countdown alarm name.
// ok is false for names outside the protocol.
func ParseAlarmName(name string) (tabID int, ok bool) {
	if !strings.HasPrefix(name, AlarmPrefix) {
		return 0, false
	}
	id, err := strconv.Atoi(name[len(AlarmPrefix):])
	if err != nil {
		return 0, false
	}
	return id, true
}

// Manager starts and cancels per-tab countdowns on the external scheduler.
// It does an explicit cancel-then-schedule under its own lock so correctness
// does not depend on the scheduler's name-collision semantics.
type Manager struct {
	settings       browser.Settings
	sched          browser.Scheduler
	logger         logger.Logger
	defaultMinutes int
}

func NewManager(settings browser.Settings, sched browser.Scheduler, log logger.Logger, defaultMinutes int) *Manager {
	if defaultMinutes <= 0 {
		defaultMinutes = DefaultMinutes
	}
	return &Manager{
		settings:       settings,
		sched:          sched,
		logger:         log,
		defaultMinutes: defaultMinutes,
	}
}

// Start arms a countdown for the tab, replacing any countdown already armed
// for the same id. Idempotent in the sense that a second Start resets the
// countdown rather than duplicating it.
func (m *Manager) Start(ctx context.Context, tabID int) error {
	minutes, err := m.minutes(ctx)
	if err != nil {
		return fmt.Errorf("failed to read timer duration: %w", err)
	}

	name := AlarmName(tabID)
	// Cancel-before-schedule: the scheduler may or may not replace on name
	// collision, so never rely on it.
	if err := m.sched.Clear(ctx, name); err != nil {
		return fmt.Errorf("failed to clear previous countdown: %w", err)
	}
	if err := m.sched.Create(ctx, name, time.Duration(minutes)*time.Minute); err != nil {
		return fmt.Errorf("failed to schedule countdown: %w", err)
	}

	m.logger.Debug("countdown armed",
		logger.Int("tab_id", tabID),
		logger.Int("minutes", minutes))
	return nil
}

// Cancel removes any countdown for the tab. No-op when none exists.
func (m *Manager) Cancel(ctx context.Context, tabID int) error {
	if err := m.sched.Clear(ctx, AlarmName(tabID)); err != nil {
		return fmt.Errorf("failed to cancel countdown: %w", err)
	}
	m.logger.Debug("countdown cancelled", logger.Int("tab_id", tabID))
	return nil
}

// CancelAll clears every countdown alarm. Alarms outside the countdown
// naming protocol are left alone. Used when runtime state is rebuilt: the
// daemon outlives the browser, so countdowns for tab ids from a previous
// browser session would otherwise linger and collide with reused ids.
func (m *Manager) CancelAll(ctx context.Context) error {
	names, err := m.sched.Names(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate countdowns: %w", err)
	}
	for _, name := range names {
		if _, ok := ParseAlarmName(name); !ok {
			continue
		}
		if err := m.sched.Clear(ctx, name); err != nil {
			return fmt.Errorf("failed to clear countdown %s: %w", name, err)
		}
	}
	return nil
}

// minutes reads the configured duration, falling back to the default when
// unset or non-positive.
func (m *Manager) minutes(ctx context.Context) (int, error) {
	minutes, err := m.settings.TimerMinutes(ctx)
	if err != nil {
		return 0, err
	}
	if minutes <= 0 {
		return m.defaultMinutes, nil
	}
	return minutes, nil
}
