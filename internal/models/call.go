package models

import (
	"strings"
	"time"
)

// CallDirection indicates who originated the call.
type CallDirection string

const (
	DirectionIncoming CallDirection = "incoming"
	DirectionOutgoing CallDirection = "outgoing"
	DirectionUnknown  CallDirection = "unknown"
)

// CallStatus is the canonical lifecycle status of a call. Feed payloads carry
// free-form strings; NormalizeCallStatus maps them here before any branching.
type CallStatus string

const (
	StatusRinging    CallStatus = "ringing"
	StatusStarted    CallStatus = "started"
	StatusAnswered   CallStatus = "answered"
	StatusInProgress CallStatus = "in_progress"
	StatusCompleted  CallStatus = "completed"
	StatusBusy       CallStatus = "busy"
	StatusNoAnswer   CallStatus = "no_answer"
	StatusCancelled  CallStatus = "cancelled"
	StatusCongestion CallStatus = "congestion"
	StatusFailed     CallStatus = "failed"
)

// statusSynonyms maps normalized upstream spellings to the canonical set.
var statusSynonyms = map[string]CallStatus{
	"ring":        StatusRinging,
	"ringing":     StatusRinging,
	"calling":     StatusRinging,
	"incoming":    StatusRinging,
	"start":       StatusStarted,
	"started":     StatusStarted,
	"dialing":     StatusStarted,
	"answer":      StatusAnswered,
	"answered":    StatusAnswered,
	"up":          StatusInProgress,
	"in_progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"active":      StatusInProgress,
	"complete":    StatusCompleted,
	"completed":   StatusCompleted,
	"hangup":      StatusCompleted,
	"busy":        StatusBusy,
	"no_answer":   StatusNoAnswer,
	"noanswer":    StatusNoAnswer,
	"unanswered":  StatusNoAnswer,
	"cancel":      StatusCancelled,
	"canceled":    StatusCancelled,
	"cancelled":   StatusCancelled,
	"congested":   StatusCongestion,
	"congestion":  StatusCongestion,
	"fail":        StatusFailed,
	"failed":      StatusFailed,
	"failure":     StatusFailed,
}

// NormalizeCallStatus folds a raw feed status into the canonical set. Unknown
// spellings come back lower-cased with whitespace collapsed to underscores so
// they stay comparable without ever matching a known status by accident.
func NormalizeCallStatus(raw string) CallStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Join(strings.Fields(s), "_")
	if canonical, ok := statusSynonyms[s]; ok {
		return canonical
	}
	return CallStatus(s)
}

// completedStatuses are statuses that terminate a call even when the feed
// never populates an end time (short-lived failures often arrive this way).
var completedStatuses = map[CallStatus]bool{
	StatusCompleted:  true,
	StatusBusy:       true,
	StatusNoAnswer:   true,
	StatusCancelled:  true,
	StatusCongestion: true,
	StatusFailed:     true,
}

// openStatuses are statuses of a call still ringing, dialing or in progress.
var openStatuses = map[CallStatus]bool{
	StatusRinging:    true,
	StatusStarted:    true,
	StatusAnswered:   true,
	StatusInProgress: true,
}

// IsCompletedStatus reports whether s belongs to the terminal status set.
func IsCompletedStatus(s CallStatus) bool { return completedStatuses[s] }

// IsOpenStatus reports whether s belongs to the open status set.
func IsOpenStatus(s CallStatus) bool { return openStatuses[s] }

// CallRecord is one observed call attempt, keyed by ID. Records are created
// on the first event for an ID and merged in place by every later one; the
// registry never deletes them, the partition only re-buckets them.
type CallRecord struct {
	ID             string        `json:"id"`
	CallerNumber   string        `json:"callerNumber,omitempty"`
	OtherParty     string        `json:"otherParty,omitempty"`
	AgentExtension string        `json:"agentExtension,omitempty"`
	Direction      CallDirection `json:"direction"`
	Status         CallStatus    `json:"status"`
	RawStatus      string        `json:"rawStatus,omitempty"`
	StartTime      time.Time     `json:"startTime"`
	EndTime        *time.Time    `json:"endTime,omitempty"`
	Duration       *int          `json:"duration,omitempty"`
	Disposition    string        `json:"disposition,omitempty"`

	// UpdatedAt is the declared update time of the newest event merged into
	// this record, or the receipt time when the feed carries none.
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsTerminal reports whether the call has ended and will not transition
// further. An end time or a disposition is authoritative; otherwise the
// normalized status decides.
func (r *CallRecord) IsTerminal() bool {
	if r.EndTime != nil || r.Disposition != "" {
		return true
	}
	return completedStatuses[r.Status]
}

// Clone returns a deep copy, so readers never alias registry-owned memory.
func (r *CallRecord) Clone() *CallRecord {
	cp := *r
	if r.EndTime != nil {
		t := *r.EndTime
		cp.EndTime = &t
	}
	if r.Duration != nil {
		d := *r.Duration
		cp.Duration = &d
	}
	return &cp
}

// CallEvent is a partial call update from the push feed. Nil/empty fields are
// "not mentioned" and must never erase stored values.
type CallEvent struct {
	ID             string        `json:"id"`
	CallerNumber   string        `json:"callerNumber,omitempty"`
	OtherParty     string        `json:"otherParty,omitempty"`
	AgentExtension string        `json:"agentExtension,omitempty"`
	Direction      CallDirection `json:"direction,omitempty"`
	Status         string        `json:"status,omitempty"`
	StartTime      *time.Time    `json:"startTime,omitempty"`
	EndTime        *time.Time    `json:"endTime,omitempty"`
	Duration       *float64      `json:"duration,omitempty"`
	Disposition    string        `json:"disposition,omitempty"`
	UpdatedAt      *time.Time    `json:"updatedAt,omitempty"`
}

// UniqueCallGroup collapses all calls from one normalized number into a
// single display entry. Derived by the aggregator, never stored.
type UniqueCallGroup struct {
	Key            string        `json:"key"`
	Representative *CallRecord   `json:"representative"`
	Frequency      int           `json:"frequency"`
	Members        []*CallRecord `json:"members"`
}

// NormalizeNumber strips formatting from a phone number so "+880 1711-000111"
// and "+8801711000111" group together. The leading + is kept.
func NormalizeNumber(number string) string {
	number = strings.TrimSpace(number)
	var b strings.Builder
	for i, r := range number {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
