// Package directory owns the extension records for the live extension panel.
// It merges partial push deltas and full pull snapshots into one consistent
// view, tracking when each line last changed state for duration display.
package directory

import (
	"sort"
	"sync"
	"time"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

// Directory is the mutex-guarded store of monitored extensions. Like the
// call registry, every mutation funnels through Apply or LoadSnapshot and
// readers only see snapshot copies.
type Directory struct {
	mu         sync.RWMutex
	extensions map[string]*models.ExtensionRecord

	now func() time.Time
}

// New creates an empty directory.
func New() *Directory {
	return &Directory{
		extensions: make(map[string]*models.ExtensionRecord),
		now:        time.Now,
	}
}

// Apply merges one delta update and returns a copy of the resulting record.
// Fields absent from the update are left untouched. LastSeen moves on every
// update; LastStatusChange moves only when the (status, on-call) pair
// actually transitions, because the UI shows "online for 12m" style
// durations counted from that timestamp.
func (d *Directory) Apply(u models.ExtensionUpdate) (*models.ExtensionRecord, error) {
	if u.ID == "" {
		return nil, models.ErrMissingExtensionID
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	rec := d.applyLocked(u)
	return rec.Clone(), nil
}

func (d *Directory) applyLocked(u models.ExtensionUpdate) *models.ExtensionRecord {
	now := d.now()

	rec, exists := d.extensions[u.ID]
	if !exists {
		rec = &models.ExtensionRecord{
			ID:               u.ID,
			Status:           models.ExtensionUnknown,
			LastStatusChange: now,
		}
		d.extensions[u.ID] = rec
	}

	prevStatus := rec.Status
	prevOnCall := rec.OnCall

	if u.Extension != "" {
		rec.ExtensionNumber = u.Extension
	}
	if u.Status != "" {
		rec.Status = models.NormalizeExtensionStatus(u.Status)
	}
	if u.DeviceState != "" {
		rec.DeviceState = u.DeviceState
	}
	if u.StatusCode != nil {
		c := *u.StatusCode
		rec.StatusCode = &c
	}
	if u.AgentName != "" {
		rec.AgentName = u.AgentName
	}

	rec.OnCall = models.OnCallFromTelemetry(rec.DeviceState, rec.StatusCode)

	if exists && (rec.Status != prevStatus || rec.OnCall != prevOnCall) {
		rec.LastStatusChange = now
		logger.DirectoryLog.Debugf("Extension %s transitioned to status=%s onCall=%t",
			rec.ExtensionNumber, rec.Status, rec.OnCall)
	}

	if u.LastSeen != nil {
		rec.LastSeen = *u.LastSeen
	} else {
		rec.LastSeen = now
	}

	return rec
}

// LoadSnapshot merges a full pull snapshot. Every snapshot entry goes through
// the same delta merge as a push update, then extensions missing from the
// snapshot are pruned: a line stays in the directory only while the source
// still reports it.
func (d *Directory) LoadSnapshot(updates []models.ExtensionUpdate) {
	d.mu.Lock()
	defer d.mu.Unlock()

	seen := make(map[string]bool, len(updates))
	for _, u := range updates {
		if u.ID == "" {
			logger.DirectoryLog.Warn("Dropping snapshot entry without id")
			continue
		}
		d.applyLocked(u)
		seen[u.ID] = true
	}

	for id, rec := range d.extensions {
		if !seen[id] {
			logger.DirectoryLog.Infof("Extension %s no longer in snapshot, removing", rec.ExtensionNumber)
			delete(d.extensions, id)
		}
	}
}

// Get returns a copy of one extension record.
func (d *Directory) Get(id string) (*models.ExtensionRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.extensions[id]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Snapshot returns copies of all extension records ordered by extension
// number. Display filtering (valid 4-digit lines, known status) is layered on
// top by the web views, not here.
func (d *Directory) Snapshot() []*models.ExtensionRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	records := make([]*models.ExtensionRecord, 0, len(d.extensions))
	for _, rec := range d.extensions {
		records = append(records, rec.Clone())
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ExtensionNumber < records[j].ExtensionNumber
	})
	return records
}

// Len returns the number of known extensions.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.extensions)
}
