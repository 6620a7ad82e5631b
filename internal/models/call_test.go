package models

import (
	"testing"
	"time"
)

func TestNormalizeCallStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want CallStatus
	}{
		{"ringing", StatusRinging},
		{"ring", StatusRinging},
		{"calling", StatusRinging},
		{"incoming", StatusRinging},
		{"  Ringing  ", StatusRinging},
		{"RING", StatusRinging},
		{"start", StatusStarted},
		{"answered", StatusAnswered},
		{"in progress", StatusInProgress},
		{"In_Progress", StatusInProgress},
		{"no answer", StatusNoAnswer},
		{"No  Answer", StatusNoAnswer},
		{"canceled", StatusCancelled},
		{"cancelled", StatusCancelled},
		{"congested", StatusCongestion},
		{"completed", StatusCompleted},
		{"busy", StatusBusy},
		{"failed", StatusFailed},
	}
	for _, tc := range cases {
		if got := NormalizeCallStatus(tc.raw); got != tc.want {
			t.Fatalf("NormalizeCallStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeCallStatusUnknownKeptRaw(t *testing.T) {
	got := NormalizeCallStatus("  Some Weird STATE ")
	if got != CallStatus("some_weird_state") {
		t.Fatalf("unexpected normalization of unknown status: %q", got)
	}
	if IsOpenStatus(got) || IsCompletedStatus(got) {
		t.Fatalf("unknown status must not classify as open or completed")
	}
}

func TestIsTerminal(t *testing.T) {
	now := time.Now()

	r := &CallRecord{Status: StatusRinging}
	if r.IsTerminal() {
		t.Fatalf("ringing call must not be terminal")
	}

	r = &CallRecord{Status: StatusAnswered, EndTime: &now}
	if !r.IsTerminal() {
		t.Fatalf("endTime must make a call terminal regardless of status")
	}

	r = &CallRecord{Status: StatusRinging, Disposition: "ANSWERED"}
	if !r.IsTerminal() {
		t.Fatalf("disposition must make a call terminal")
	}

	r = &CallRecord{Status: StatusNoAnswer}
	if !r.IsTerminal() {
		t.Fatalf("completed-set status must be terminal without endTime")
	}
}

func TestNormalizeNumber(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"+880 1711-000111", "+8801711000111"},
		{"(880) 1711 000111", "8801711000111"},
		{"  +8801711000111 ", "+8801711000111"},
		{"", ""},
		{"ext+99", "99"},
	}
	for _, tc := range cases {
		if got := NormalizeNumber(tc.in); got != tc.want {
			t.Fatalf("NormalizeNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOnCallFromTelemetry(t *testing.T) {
	code := func(c int) *int { return &c }

	cases := []struct {
		deviceState string
		statusCode  *int
		want        bool
	}{
		{"INUSE", nil, true},
		{"inuse", nil, true},
		{"RINGING", nil, true},
		{"ONHOLD", nil, true},
		{"NOT_INUSE", nil, false},
		{"UNAVAILABLE", nil, false},
		{"", code(StateCodeIdle), false},
		{"", code(StateCodeInUse), true},
		{"", code(StateCodeUnavailable), false},
		{"", code(StateCodeRinging), true},
		{"", code(StateCodeRingInUse), true},
		{"", nil, false},
		// Recognized device state wins over the code.
		{"IDLE", code(StateCodeInUse), false},
	}
	for _, tc := range cases {
		if got := OnCallFromTelemetry(tc.deviceState, tc.statusCode); got != tc.want {
			t.Fatalf("OnCallFromTelemetry(%q, %v) = %t, want %t", tc.deviceState, tc.statusCode, got, tc.want)
		}
	}
}
