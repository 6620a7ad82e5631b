// Package refresh drives periodic re-synchronization with the pull source.
// One goroutine owns the cycle state machine (idle → counting down →
// fetching → idle/retrying); manual refreshes and visibility changes are
// funnelled in over channels so the loop never races itself.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

// FetchFunc performs one pull synchronization. It is the only blocking
// operation the scheduler runs; timeouts are the fetcher's responsibility
// and surface here as retryable errors.
type FetchFunc func(ctx context.Context) error

// Config controls the cycle cadence and failure policy.
type Config struct {
	// Period between scheduled refreshes. Default 30s.
	Period time.Duration
	// RetryDelay before each automatic retry. Default 1s.
	RetryDelay time.Duration
	// MaxRetries after a failed fetch before the error surfaces. Default 2.
	MaxRetries int
}

func (c *Config) applyDefaults() {
	if c.Period <= 0 {
		c.Period = 30 * time.Second
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
}

// Scheduler owns the refresh cycle. All fields behind mu are shared with
// State() readers; the loop goroutine is the only writer.
type Scheduler struct {
	cfg   Config
	fetch FetchFunc

	mu            sync.Mutex
	visible       bool
	nextFire      time.Time
	countdown     int
	manualActive  bool
	autoActive    bool
	manualPending bool // manual request arrived while a fetch was in flight
	retryCount    int
	lastError     string

	manualCh  chan struct{}
	visibleCh chan bool

	now func() time.Time
}

// New creates a scheduler around the given fetch function. Run must be
// called for anything to happen.
func New(cfg Config, fetch FetchFunc) *Scheduler {
	cfg.applyDefaults()
	return &Scheduler{
		cfg:       cfg,
		fetch:     fetch,
		visible:   true,
		manualCh:  make(chan struct{}, 1),
		visibleCh: make(chan bool, 4),
		now:       time.Now,
	}
}

// RefreshNow requests an immediate refresh. Safe to call while a cycle is
// pending: a pending countdown is superseded, and a fetch already in flight
// is not duplicated — its result satisfies this request and the countdown
// resets once it resolves.
func (s *Scheduler) RefreshNow() {
	s.mu.Lock()
	if s.manualActive || s.autoActive {
		s.manualPending = true
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	select {
	case s.manualCh <- struct{}{}:
	default:
		// A manual refresh is already queued; this one collapses into it.
	}
}

// SetVisible reports whether the host view is in the foreground. Hiding the
// view pauses the countdown; becoming visible again forces an immediate
// resync and starts a fresh cycle.
func (s *Scheduler) SetVisible(visible bool) {
	select {
	case s.visibleCh <- visible:
	default:
	}
}

// State returns the externally visible refresh state.
func (s *Scheduler) State() models.RefreshState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.RefreshState{
		CountdownSeconds:        s.countdown,
		IsManualRefreshInFlight: s.manualActive,
		IsAutoRefreshInFlight:   s.autoActive,
		RetryCount:              s.retryCount,
		LastError:               s.lastError,
	}
}

// Run executes the cycle loop until ctx is cancelled. An initial fetch runs
// immediately so the view has data before the first period elapses.
func (s *Scheduler) Run(ctx context.Context) {
	logger.RefreshLog.Infof("Refresh scheduler started (period %s)", s.cfg.Period)

	s.runCycle(ctx, false)

	ticker := time.NewTicker(s.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.RefreshLog.Info("Refresh scheduler stopped")
			return

		case <-s.manualCh:
			s.runCycle(ctx, true)

		case visible := <-s.visibleCh:
			s.mu.Lock()
			was := s.visible
			s.visible = visible
			s.mu.Unlock()
			if visible && !was {
				// The view may have missed pushes while hidden.
				logger.RefreshLog.Info("View visible again, resyncing")
				s.runCycle(ctx, false)
			}

		case <-ticker.C:
			s.mu.Lock()
			visible := s.visible
			due := !s.nextFire.After(s.now())
			if visible {
				s.countdown = remainingSeconds(s.nextFire, s.now())
			}
			s.mu.Unlock()

			if visible && due {
				s.runCycle(ctx, false)
			}
		}
	}
}

// runCycle performs one fetch with the retry policy and re-anchors the next
// scheduled fire. A scheduled cycle anchors on its own start so retries do
// not drift the cadence; a manual cycle anchors on completion, which is what
// resets the countdown to the full period only after the fetch resolves.
func (s *Scheduler) runCycle(ctx context.Context, manual bool) {
	cycleStart := s.now()
	cycleID := uuid.NewString()[:8]

	s.mu.Lock()
	s.manualActive = manual
	s.autoActive = !manual
	s.retryCount = 0
	s.countdown = 0
	s.mu.Unlock()

	err := s.fetch(ctx)
	for attempt := 1; err != nil && attempt <= s.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			break
		}
		logger.RefreshLog.Warnf("Refresh %s failed (attempt %d/%d): %v",
			cycleID, attempt, s.cfg.MaxRetries, err)

		select {
		case <-ctx.Done():
		case <-time.After(s.cfg.RetryDelay):
		}

		s.mu.Lock()
		s.retryCount = attempt
		s.mu.Unlock()

		err = s.fetch(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		// Retries exhausted: surface one stale-data signal. The last-known
		// good view stays intact.
		s.lastError = err.Error()
		logger.RefreshLog.Errorf("Refresh %s failed after %d retries: %v", cycleID, s.cfg.MaxRetries, err)
	} else if err == nil {
		s.lastError = ""
		s.retryCount = 0
		logger.RefreshLog.Debugf("Refresh %s completed in %s", cycleID, s.now().Sub(cycleStart))
	}

	if manual || s.manualPending {
		s.nextFire = s.now().Add(s.cfg.Period)
		s.manualPending = false
	} else {
		s.nextFire = cycleStart.Add(s.cfg.Period)
	}
	if s.visible {
		s.countdown = remainingSeconds(s.nextFire, s.now())
	}
	s.manualActive = false
	s.autoActive = false
}

// tickInterval keeps the countdown at one-second resolution for real
// periods while staying responsive when tests configure very short ones.
func (s *Scheduler) tickInterval() time.Duration {
	if s.cfg.Period >= 10*time.Second {
		return time.Second
	}
	tick := s.cfg.Period / 10
	if tick < 5*time.Millisecond {
		tick = 5 * time.Millisecond
	}
	return tick
}

func remainingSeconds(nextFire, now time.Time) int {
	remaining := nextFire.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int((remaining + time.Second - 1) / time.Second)
}
