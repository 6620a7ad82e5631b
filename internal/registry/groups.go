package registry

import (
	"sort"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

// unknownGroupKey buckets records whose caller number cannot be determined so
// every record lands in exactly one group.
const unknownGroupKey = "unknown"

// GroupKey picks the number a human operator would identify the contact by:
// the other party for outgoing calls, the caller for incoming ones. The
// result is normalized so formatting differences collapse into one group.
func GroupKey(rec *models.CallRecord) string {
	var number string
	switch rec.Direction {
	case models.DirectionOutgoing:
		number = rec.OtherParty
		if number == "" {
			number = rec.CallerNumber
		}
	default:
		number = rec.CallerNumber
		if number == "" {
			number = rec.OtherParty
		}
	}

	key := models.NormalizeNumber(number)
	if key == "" {
		return unknownGroupKey
	}
	return key
}

// GroupByCaller derives one UniqueCallGroup per normalized caller number.
// Pure function of its input: group members are ordered newest-first by
// start time, the representative is members[0], and the frequencies always
// sum to len(records). Groups are returned newest representative first.
func GroupByCaller(records []*models.CallRecord) []*models.UniqueCallGroup {
	byKey := make(map[string]*models.UniqueCallGroup)
	var keys []string

	for _, rec := range records {
		key := GroupKey(rec)
		group, ok := byKey[key]
		if !ok {
			group = &models.UniqueCallGroup{Key: key}
			byKey[key] = group
			keys = append(keys, key)
		}
		group.Members = append(group.Members, rec)
	}

	groups := make([]*models.UniqueCallGroup, 0, len(keys))
	for _, key := range keys {
		group := byKey[key]
		sortNewestFirst(group.Members)
		group.Representative = group.Members[0]
		group.Frequency = len(group.Members)
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Representative.StartTime.After(groups[j].Representative.StartTime)
	})
	return groups
}
