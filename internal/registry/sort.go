package registry

import (
	"sort"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

// Monitor priority buckets. Lower sorts first.
const (
	bucketRinging      = 1
	bucketStarted      = 2
	bucketTalking      = 3
	bucketTerminal     = 4
	bucketUnrecognized = 6
)

// monitorBucket classifies a record for the active-call monitor: ringing
// first, then dialing, then talking, then anything terminal. Unrecognized
// statuses sink to the bottom without being dropped.
func monitorBucket(rec *models.CallRecord) int {
	switch rec.Status {
	case models.StatusRinging:
		return bucketRinging
	case models.StatusStarted:
		return bucketStarted
	case models.StatusAnswered, models.StatusInProgress:
		return bucketTalking
	}
	if models.IsCompletedStatus(rec.Status) {
		return bucketTerminal
	}
	return bucketUnrecognized
}

// SortForMonitor orders records for the call monitor: priority bucket
// ascending, then start time descending. The sort is stable, so records with
// equal bucket and start time keep their registry order. The input slice is
// sorted in place and returned.
func SortForMonitor(records []*models.CallRecord) []*models.CallRecord {
	sort.SliceStable(records, func(i, j int) bool {
		bi, bj := monitorBucket(records[i]), monitorBucket(records[j])
		if bi != bj {
			return bi < bj
		}
		return records[i].StartTime.After(records[j].StartTime)
	})
	return records
}
