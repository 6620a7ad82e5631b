// Package registry owns the authoritative set of call records and everything
// derived from them: the caller grouping, the monitor sort order and the
// active/terminal partition. All mutation funnels through Apply under one
// mutex; readers only ever see snapshot copies.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

// CallRegistry holds every call observed this session, keyed by call ID.
// Records are never deleted; the partition re-buckets them instead, so a bad
// feed can never make a live call silently vanish.
type CallRegistry struct {
	mu    sync.RWMutex
	calls map[string]*models.CallRecord
	// order preserves first-seen insertion order so the monitor sort has a
	// stable base ordering for full ties.
	order []string

	now func() time.Time
}

// NewCallRegistry creates an empty registry.
func NewCallRegistry() *CallRegistry {
	return &CallRegistry{
		calls: make(map[string]*models.CallRecord),
		now:   time.Now,
	}
}

// Apply merges one call event into the registry and returns a copy of the
// resulting record. Merge rules:
//
//   - fields present in the event overwrite stored values; absent fields are
//     left untouched, so a delta can never null out data it does not mention
//   - re-applying the same event is a no-op (idempotent)
//   - an event whose declared update time precedes the stored record's is
//     rejected with ErrStaleEvent; events without ordering metadata are
//     accepted last-received-wins
//   - an event without an ID is rejected with ErrMissingCallID and the
//     registry is left unchanged
func (r *CallRegistry) Apply(ev models.CallEvent) (*models.CallRecord, error) {
	if ev.ID == "" {
		return nil, models.ErrMissingCallID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.calls[ev.ID]
	if !exists {
		rec = &models.CallRecord{
			ID:        ev.ID,
			Direction: models.DirectionUnknown,
		}
		r.calls[ev.ID] = rec
		r.order = append(r.order, ev.ID)
	}

	if ev.UpdatedAt != nil && !rec.UpdatedAt.IsZero() && ev.UpdatedAt.Before(rec.UpdatedAt) {
		logger.RegistryLog.Debugf("Rejecting stale event for call %s (%s < %s)",
			ev.ID, ev.UpdatedAt.Format(time.RFC3339), rec.UpdatedAt.Format(time.RFC3339))
		return rec.Clone(), models.ErrStaleEvent
	}

	mergeCallEvent(rec, ev, r.now())
	return rec.Clone(), nil
}

// mergeCallEvent applies the field-wise last-write-wins merge. The caller
// holds the registry lock.
func mergeCallEvent(rec *models.CallRecord, ev models.CallEvent, receivedAt time.Time) {
	if ev.CallerNumber != "" {
		rec.CallerNumber = ev.CallerNumber
	}
	if ev.OtherParty != "" {
		rec.OtherParty = ev.OtherParty
	}
	if ev.AgentExtension != "" {
		rec.AgentExtension = ev.AgentExtension
	}
	if ev.Direction != "" {
		rec.Direction = ev.Direction
	}
	if ev.Status != "" {
		rec.Status = models.NormalizeCallStatus(ev.Status)
		rec.RawStatus = ev.Status
	}
	if ev.StartTime != nil {
		rec.StartTime = *ev.StartTime
	} else if rec.StartTime.IsZero() {
		// startTime is required on a record; fall back to receipt time when
		// the creating event does not carry one.
		rec.StartTime = receivedAt
	}
	if ev.EndTime != nil {
		t := *ev.EndTime
		rec.EndTime = &t
	}
	if ev.Duration != nil {
		// Upstream occasionally sends fractional or negative durations.
		d := int(*ev.Duration)
		if d < 0 {
			d = 0
		}
		rec.Duration = &d
	}
	if ev.Disposition != "" {
		rec.Disposition = ev.Disposition
	}

	if ev.UpdatedAt != nil {
		rec.UpdatedAt = *ev.UpdatedAt
	} else {
		rec.UpdatedAt = receivedAt
	}
}

// Get returns a copy of one record.
func (r *CallRegistry) Get(id string) (*models.CallRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.calls[id]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Snapshot returns copies of all records in first-seen order. Everything the
// aggregator, sorter and partition consume starts from here, so readers never
// observe a registry mid-merge.
func (r *CallRegistry) Snapshot() []*models.CallRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*models.CallRecord, 0, len(r.order))
	for _, id := range r.order {
		records = append(records, r.calls[id].Clone())
	}
	return records
}

// Len returns the number of known calls.
func (r *CallRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.calls)
}

// sortNewestFirst orders records by StartTime descending, stable.
func sortNewestFirst(records []*models.CallRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartTime.After(records[j].StartTime)
	})
}
