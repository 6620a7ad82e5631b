package registry

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

func f64Ptr(f float64) *float64      { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func TestApplyMissingIDRejected(t *testing.T) {
	r := NewCallRegistry()
	if _, err := r.Apply(models.CallEvent{Status: "ringing"}); !errors.Is(err, models.ErrMissingCallID) {
		t.Fatalf("expected ErrMissingCallID, got %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("registry must be unchanged after a bad event")
	}
}

func TestApplyCreatesWithDefaults(t *testing.T) {
	r := NewCallRegistry()
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	rec, err := r.Apply(models.CallEvent{
		ID:           "c1",
		CallerNumber: "+8801711000111",
		Status:       "Ringing",
		StartTime:    timePtr(start),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.Direction != models.DirectionUnknown {
		t.Fatalf("new record must default to unknown direction, got %q", rec.Direction)
	}
	if rec.Status != models.StatusRinging {
		t.Fatalf("status not normalized: %q", rec.Status)
	}
	if !rec.StartTime.Equal(start) {
		t.Fatalf("startTime not taken from event")
	}
}

func TestApplyIdempotent(t *testing.T) {
	r := NewCallRegistry()
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	updated := start.Add(time.Second)
	ev := models.CallEvent{
		ID:           "c1",
		CallerNumber: "+8801711000111",
		Direction:    models.DirectionIncoming,
		Status:       "ringing",
		StartTime:    timePtr(start),
		UpdatedAt:    timePtr(updated),
	}

	first, err := r.Apply(ev)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := r.Apply(ev)
	if err != nil {
		t.Fatalf("unexpected err on redelivery: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-applying the same event must not change the record:\n%+v\n%+v", first, second)
	}
}

func TestApplyMergeNeverNullsByOmission(t *testing.T) {
	r := NewCallRegistry()
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	r.Apply(models.CallEvent{
		ID:           "c1",
		CallerNumber: "+8801711000111",
		OtherParty:   "1002",
		Direction:    models.DirectionIncoming,
		Status:       "ringing",
		StartTime:    timePtr(start),
	})

	rec, err := r.Apply(models.CallEvent{ID: "c1", Status: "answered"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.CallerNumber != "+8801711000111" || rec.OtherParty != "1002" {
		t.Fatalf("delta update erased fields it did not mention: %+v", rec)
	}
	if rec.Direction != models.DirectionIncoming {
		t.Fatalf("direction reset by omission")
	}
	if !rec.StartTime.Equal(start) {
		t.Fatalf("startTime reset by omission")
	}
	if rec.Status != models.StatusAnswered {
		t.Fatalf("status not updated: %q", rec.Status)
	}
}

func TestApplyRejectsStaleEvent(t *testing.T) {
	r := NewCallRegistry()
	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	r.Apply(models.CallEvent{ID: "c1", Status: "answered", UpdatedAt: timePtr(t0.Add(10 * time.Second))})

	rec, err := r.Apply(models.CallEvent{ID: "c1", Status: "ringing", UpdatedAt: timePtr(t0)})
	if !errors.Is(err, models.ErrStaleEvent) {
		t.Fatalf("expected ErrStaleEvent, got %v", err)
	}
	if rec.Status != models.StatusAnswered {
		t.Fatalf("stale event mutated the record: %q", rec.Status)
	}
}

func TestApplyWithoutOrderingIsLastReceivedWins(t *testing.T) {
	r := NewCallRegistry()
	r.Apply(models.CallEvent{ID: "c1", Status: "answered"})
	rec, err := r.Apply(models.CallEvent{ID: "c1", Status: "ringing"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.Status != models.StatusRinging {
		t.Fatalf("expected last-received-wins without ordering metadata, got %q", rec.Status)
	}
}

func TestTerminationIsSticky(t *testing.T) {
	r := NewCallRegistry()
	end := time.Date(2026, 8, 1, 10, 5, 0, 0, time.UTC)

	r.Apply(models.CallEvent{ID: "c1", Status: "answered"})
	r.Apply(models.CallEvent{ID: "c1", Status: "completed", EndTime: timePtr(end)})

	// A late, reordered "ringing" delta must not resurrect the call.
	rec, err := r.Apply(models.CallEvent{ID: "c1", Status: "ringing"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !rec.IsTerminal() {
		t.Fatalf("terminal record moved back to active: %+v", rec)
	}

	active, _ := Partition(r.Snapshot())
	for _, a := range active {
		if a.ID == "c1" {
			t.Fatalf("terminal call reappeared in the active partition")
		}
	}
}

func TestDurationClamped(t *testing.T) {
	r := NewCallRegistry()

	rec, _ := r.Apply(models.CallEvent{ID: "c1", Duration: f64Ptr(-5)})
	if rec.Duration == nil || *rec.Duration != 0 {
		t.Fatalf("negative duration not clamped: %v", rec.Duration)
	}

	rec, _ = r.Apply(models.CallEvent{ID: "c1", Duration: f64Ptr(42.9)})
	if rec.Duration == nil || *rec.Duration != 42 {
		t.Fatalf("fractional duration not floored: %v", rec.Duration)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := NewCallRegistry()
	r.Apply(models.CallEvent{ID: "c1", Status: "ringing"})

	snap := r.Snapshot()
	snap[0].Status = models.StatusFailed

	rec, _ := r.Get("c1")
	if rec.Status != models.StatusRinging {
		t.Fatalf("mutating a snapshot leaked into the registry")
	}
}

// Lifecycle scenario: ringing → answered → completed, checking the partition
// and monitor bucket at each step.
func TestCallLifecycleScenario(t *testing.T) {
	r := NewCallRegistry()
	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(42 * time.Second)

	r.Apply(models.CallEvent{
		ID:           "1",
		CallerNumber: "+8801711000111",
		Direction:    models.DirectionIncoming,
		Status:       "ringing",
		StartTime:    timePtr(t0),
	})

	active, terminal := Partition(r.Snapshot())
	if len(active) != 1 || len(terminal) != 0 {
		t.Fatalf("expected 1 active / 0 terminal, got %d/%d", len(active), len(terminal))
	}
	if got := monitorBucket(active[0]); got != bucketRinging {
		t.Fatalf("expected bucket %d, got %d", bucketRinging, got)
	}

	r.Apply(models.CallEvent{ID: "1", Status: "answered"})

	active, terminal = Partition(r.Snapshot())
	if len(active) != 1 || len(terminal) != 0 {
		t.Fatalf("answered call left the active partition")
	}
	if got := monitorBucket(active[0]); got != bucketTalking {
		t.Fatalf("expected bucket %d, got %d", bucketTalking, got)
	}

	r.Apply(models.CallEvent{ID: "1", Status: "completed", EndTime: timePtr(t1), Duration: f64Ptr(42)})

	active, terminal = Partition(r.Snapshot())
	if len(active) != 0 || len(terminal) != 1 {
		t.Fatalf("completed call did not move to the terminal partition")
	}
	if terminal[0].Duration == nil || *terminal[0].Duration != 42 {
		t.Fatalf("expected duration 42, got %v", terminal[0].Duration)
	}
}
