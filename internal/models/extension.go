package models

import (
	"strings"
	"time"
)

// ExtensionStatus is the coarse availability of a monitored line.
type ExtensionStatus string

const (
	ExtensionOnline  ExtensionStatus = "online"
	ExtensionOffline ExtensionStatus = "offline"
	ExtensionUnknown ExtensionStatus = "unknown"
)

// Asterisk extension-state codes as delivered in the statusCode field.
const (
	StateCodeIdle        = 0
	StateCodeInUse       = 1
	StateCodeBusy        = 2
	StateCodeUnavailable = 4
	StateCodeRinging     = 8
	StateCodeRingInUse   = 9
	StateCodeOnHold      = 16
)

// onCallDeviceStates maps the raw deviceState vocabulary to the derived
// on-call boolean. "online" and "online and on a call" are both status=online
// upstream, so the device state is the only reliable signal.
var onCallDeviceStates = map[string]bool{
	"INUSE":       true,
	"IN_USE":      true,
	"BUSY":        true,
	"RINGING":     true,
	"RINGINUSE":   true,
	"RING+INUSE":  true,
	"ONHOLD":      true,
	"HOLD":        true,
	"NOT_INUSE":   false,
	"NOT INUSE":   false,
	"IDLE":        false,
	"UNAVAILABLE": false,
	"INVALID":     false,
	"UNKNOWN":     false,
}

// OnCallFromTelemetry derives the on-call boolean from raw upstream
// telemetry. A recognized device state wins; otherwise the numeric state code
// decides (anything in use, ringing or held counts, unavailable does not).
func OnCallFromTelemetry(deviceState string, statusCode *int) bool {
	if deviceState != "" {
		if onCall, ok := onCallDeviceStates[strings.ToUpper(strings.TrimSpace(deviceState))]; ok {
			return onCall
		}
	}
	if statusCode == nil {
		return false
	}
	switch *statusCode {
	case StateCodeIdle, StateCodeUnavailable:
		return false
	}
	return *statusCode > 0
}

// ExtensionRecord is one monitored line in the directory.
type ExtensionRecord struct {
	ID              string          `json:"id"`
	ExtensionNumber string          `json:"extension"`
	Status          ExtensionStatus `json:"status"`
	DeviceState     string          `json:"deviceState,omitempty"`
	StatusCode      *int            `json:"statusCode,omitempty"`
	AgentName       string          `json:"agentName,omitempty"`
	OnCall          bool            `json:"onCall"`

	// LastStatusChange moves only when the (Status, OnCall) pair transitions;
	// LastSeen moves on every update of any kind.
	LastStatusChange time.Time `json:"lastStatusChange"`
	LastSeen         time.Time `json:"lastSeen"`
}

// Clone returns a deep copy for readers.
func (r *ExtensionRecord) Clone() *ExtensionRecord {
	cp := *r
	if r.StatusCode != nil {
		c := *r.StatusCode
		cp.StatusCode = &c
	}
	return &cp
}

// ExtensionUpdate is a partial directory update, delivered either as a push
// delta or as one entry of a pull snapshot.
type ExtensionUpdate struct {
	ID          string     `json:"id"`
	Extension   string     `json:"extension,omitempty"`
	Status      string     `json:"status,omitempty"`
	DeviceState string     `json:"deviceState,omitempty"`
	StatusCode  *int       `json:"statusCode,omitempty"`
	AgentName   string     `json:"agentName,omitempty"`
	LastSeen    *time.Time `json:"lastSeen,omitempty"`
}

// NormalizeExtensionStatus folds a raw status string into the closed set.
func NormalizeExtensionStatus(raw string) ExtensionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "online", "registered", "reachable", "available":
		return ExtensionOnline
	case "offline", "unregistered", "unreachable":
		return ExtensionOffline
	default:
		return ExtensionUnknown
	}
}
