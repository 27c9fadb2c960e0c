package alarm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
)

func TestCreateReplacesSameName(t *testing.T) {
	s := New(logger.New("error", false))
	defer s.Stop()

	ctx := context.Background()
	if err := s.Create(ctx, "tab-timer-1", time.Hour); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Create(ctx, "tab-timer-1", time.Hour); err != nil {
		t.Fatalf("second Create failed: %v", err)
	}

	names, err := s.Names(ctx)
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if got := len(names); got != 1 {
		t.Errorf("two Creates under one name left %d alarms, want 1", got)
	}
}

func TestClearPreventsFire(t *testing.T) {
	s := New(logger.New("error", false))
	defer s.Stop()

	fired := make(chan string, 1)
	s.SetHandler(func(ctx context.Context, name string) { fired <- name })

	ctx := context.Background()
	if err := s.Create(ctx, "tab-timer-2", 10*time.Millisecond); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Clear(ctx, "tab-timer-2"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	select {
	case name := <-fired:
		t.Errorf("cleared alarm %q still fired", name)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFireDelivery(t *testing.T) {
	s := New(logger.New("error", false))
	defer s.Stop()

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	s.SetHandler(func(ctx context.Context, name string) {
		mu.Lock()
		got = append(got, name)
		mu.Unlock()
		close(done)
	})

	if err := s.Create(context.Background(), "tab-timer-3", time.Millisecond); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("alarm never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "tab-timer-3" {
		t.Errorf("fired names = %v, want [tab-timer-3]", got)
	}
	if names, _ := s.Names(context.Background()); len(names) != 0 {
		t.Errorf("fired alarm still listed: %v", names)
	}
}

// A reset (Clear then Create under the same name) can race the old timer's
// expiry goroutine. The stale expiry must neither dispatch the handler nor
// remove the replacement alarm from the schedule.
func TestResetSurvivesInFlightExpiry(t *testing.T) {
	s := New(logger.New("error", false))
	defer s.Stop()

	s.SetHandler(func(ctx context.Context, name string) {})

	ctx := context.Background()
	const name = "tab-timer-1"
	for i := 0; i < 5000; i++ {
		if err := s.Create(ctx, name, time.Microsecond); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		time.Sleep(5 * time.Microsecond) // let the expiry goroutine get in flight
		if err := s.Clear(ctx, name); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if err := s.Create(ctx, name, time.Hour); err != nil {
			t.Fatalf("replacement Create failed: %v", err)
		}

		names, err := s.Names(ctx)
		if err != nil {
			t.Fatalf("Names failed: %v", err)
		}
		if len(names) != 1 || names[0] != name {
			t.Fatalf("reset %d: replacement alarm dropped, schedule = %v", i, names)
		}

		if err := s.Clear(ctx, name); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
	}
}

func TestClearUnknownNameIsNoop(t *testing.T) {
	s := New(logger.New("error", false))
	defer s.Stop()

	if err := s.Clear(context.Background(), "never-created"); err != nil {
		t.Errorf("Clear on unknown name returned error: %v", err)
	}
}
