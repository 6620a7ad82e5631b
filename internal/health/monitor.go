// Package health classifies the push-channel connection from heartbeat
// recency. The monitor holds no event history; everything it reports is
// derived state, safe to recompute from scratch at any time.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

// Quality thresholds on heartbeat age while connected.
const (
	goodThreshold  = 15 * time.Second
	staleThreshold = 30 * time.Second

	// checkInterval is how often the monitor re-grades quality between
	// heartbeats.
	checkInterval = 5 * time.Second
)

// Monitor tracks the push-channel state machine:
// checking → connected ↔ reconnecting → disconnected.
type Monitor struct {
	mu            sync.RWMutex
	status        models.ConnectionStatus
	lastHeartbeat time.Time

	now func() time.Time
}

// NewMonitor starts in the checking state.
func NewMonitor() *Monitor {
	return &Monitor{
		status: models.ConnectionChecking,
		now:    time.Now,
	}
}

// Heartbeat records channel liveness. Any received message counts; an
// explicit ping is not required. The channel is considered connected from
// this moment.
func (m *Monitor) Heartbeat() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastHeartbeat = m.now()
	if m.status != models.ConnectionConnected {
		logger.HealthLog.Infof("Push channel connected (was %s)", m.status)
	}
	m.status = models.ConnectionConnected
}

// SetReconnecting marks the channel as redialling after a drop.
func (m *Monitor) SetReconnecting() {
	m.setStatus(models.ConnectionReconnecting)
}

// SetDisconnected marks the channel as down.
func (m *Monitor) SetDisconnected() {
	m.setStatus(models.ConnectionDisconnected)
}

func (m *Monitor) setStatus(s models.ConnectionStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != s {
		logger.HealthLog.Warnf("Push channel %s", s)
	}
	m.status = s
}

// Health returns the current classification.
func (m *Monitor) Health() models.ConnectionHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return evaluate(m.status, m.lastHeartbeat, m.now())
}

// evaluate grades the connection. Quality is only meaningful while
// connected: good under 15s since the last heartbeat, poor under 30s, stale
// beyond that.
func evaluate(status models.ConnectionStatus, lastHeartbeat time.Time, now time.Time) models.ConnectionHealth {
	h := models.ConnectionHealth{
		Status:        status,
		LastHeartbeat: lastHeartbeat,
	}
	if status != models.ConnectionConnected {
		return h
	}

	elapsed := now.Sub(lastHeartbeat)
	switch {
	case elapsed < goodThreshold:
		h.Quality = models.QualityGood
	case elapsed < staleThreshold:
		h.Quality = models.QualityPoor
	default:
		h.Quality = models.QualityStale
	}
	return h
}

// Run re-grades quality periodically until the context is cancelled. The
// loop exists only for logging visibility into degradation; Health() always
// computes the current grade on demand.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	var lastQuality models.ConnectionQuality
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h := m.Health()
			if h.Status == models.ConnectionConnected && h.Quality != lastQuality {
				logger.HealthLog.Infof("Push channel quality: %s", h.Quality)
				lastQuality = h.Quality
			}
		}
	}
}
