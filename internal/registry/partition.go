package registry

import (
	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

// Partition splits records into the active set feeding the call monitor and
// the terminal set feeding the history panel.
//
// A record is terminal when it has an end time, a disposition, or a status
// from the completed set (some feeds never set endTime for short-lived
// failures). A record matching neither the terminal nor the open rules is
// treated as active, so nothing silently vanishes from the monitor.
func Partition(records []*models.CallRecord) (active, terminal []*models.CallRecord) {
	for _, rec := range records {
		if rec.IsTerminal() {
			terminal = append(terminal, rec)
			continue
		}
		// Open statuses and anything unrecognized fail open into the monitor.
		active = append(active, rec)
	}
	return active, terminal
}
