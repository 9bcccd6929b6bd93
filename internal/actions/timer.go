package actions

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"spark/internal/intent"
	"spark/internal/logging"
)

// Timer is the public view of one countdown.
type Timer struct {
	ID        string
	Duration  time.Duration
	ExpiresAt time.Time
}

type runningTimer struct {
	Timer
	cancel context.CancelFunc
}

// TimerManager owns the countdown timers. Each timer runs on its own
// goroutine; expirations are delivered on Expired() and the set drains
// cleanly on Shutdown.
type TimerManager struct {
	mu      sync.Mutex
	timers  map[string]*runningTimer
	expired chan Timer
	group   *errgroup.Group
	ctx     context.Context
	stop    context.CancelFunc
	now     func() time.Time
}

// NewTimerManager creates an empty manager ready to accept timers.
func NewTimerManager() *TimerManager {
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	return &TimerManager{
		timers:  make(map[string]*runningTimer),
		expired: make(chan Timer, 16),
		group:   g,
		ctx:     gctx,
		stop:    cancel,
		now:     time.Now,
	}
}

// Expired delivers timers as they fire. The channel is buffered; if
// nobody is listening expirations are still logged and dropped.
func (m *TimerManager) Expired() <-chan Timer {
	return m.expired
}

// Set starts a countdown for the given entities and is the handler bound
// to the timer intent.
func (m *TimerManager) Set(ctx context.Context, ents intent.Entities) (string, error) {
	d := time.Duration(ents.DurationSeconds) * time.Second
	t, err := m.Start(d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Timer set for %s", formatDuration(t.Duration)), nil
}

// Start begins a countdown of the given duration.
func (m *TimerManager) Start(d time.Duration) (Timer, error) {
	if d <= 0 {
		return Timer{}, fmt.Errorf("timer duration must be positive")
	}

	tctx, cancel := context.WithCancel(m.ctx)
	t := Timer{
		ID:        uuid.NewString(),
		Duration:  d,
		ExpiresAt: m.now().Add(d),
	}

	m.mu.Lock()
	m.timers[t.ID] = &runningTimer{Timer: t, cancel: cancel}
	m.mu.Unlock()

	m.group.Go(func() error {
		defer cancel()
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			m.remove(t.ID)
			logging.Timer("timer %s expired after %s", t.ID, formatDuration(d))
			select {
			case m.expired <- t:
			default:
			}
		case <-tctx.Done():
		}
		return nil
	})

	logging.Timer("timer %s started for %s", t.ID, formatDuration(d))
	return t, nil
}

// List returns the active timers ordered by expiry.
func (m *TimerManager) List() []Timer {
	m.mu.Lock()
	out := make([]Timer, 0, len(m.timers))
	for _, rt := range m.timers {
		out = append(out, rt.Timer)
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out
}

// Remaining reports the time left on a timer.
func (m *TimerManager) Remaining(id string) (time.Duration, bool) {
	m.mu.Lock()
	rt, ok := m.timers[id]
	m.mu.Unlock()
	if !ok {
		return 0, false
	}
	left := time.Until(rt.ExpiresAt)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Cancel stops a running timer. It reports false for unknown IDs.
func (m *TimerManager) Cancel(id string) bool {
	m.mu.Lock()
	rt, ok := m.timers[id]
	if ok {
		delete(m.timers, id)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}
	rt.cancel()
	logging.Timer("timer %s cancelled", id)
	return true
}

// Shutdown cancels every timer and waits for their goroutines to exit.
func (m *TimerManager) Shutdown() {
	m.stop()
	_ = m.group.Wait()
	m.mu.Lock()
	m.timers = make(map[string]*runningTimer)
	m.mu.Unlock()
}

func (m *TimerManager) remove(id string) {
	m.mu.Lock()
	delete(m.timers, id)
	m.mu.Unlock()
}

// formatDuration renders "5 minutes", "90 seconds", "1 hour 30 minutes".
func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	switch {
	case secs >= 3600 && secs%3600 == 0:
		return plural(secs/3600, "hour")
	case secs >= 3600:
		return plural(secs/3600, "hour") + " " + plural((secs%3600)/60, "minute")
	case secs >= 60 && secs%60 == 0:
		return plural(secs/60, "minute")
	default:
		return plural(secs, "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
