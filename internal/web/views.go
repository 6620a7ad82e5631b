package web

import (
	"fmt"
	"time"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

// CallView is the view-model for one row of the call monitor or history.
type CallView struct {
	ID             string `json:"id"`
	CallerNumber   string `json:"callerNumber,omitempty"`
	OtherParty     string `json:"otherParty,omitempty"`
	AgentExtension string `json:"agentExtension,omitempty"`
	Direction      string `json:"direction"`
	Status         string `json:"status"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime,omitempty"`
	DurationLabel  string `json:"duration,omitempty"`
	Disposition    string `json:"disposition,omitempty"`
}

// GroupView is the view-model for one collapsed caller entry.
type GroupView struct {
	Key            string     `json:"key"`
	Frequency      int        `json:"frequency"`
	Representative CallView   `json:"representative"`
	Members        []CallView `json:"members"`
}

// ExtensionView is the view-model for one directory row.
type ExtensionView struct {
	ID            string `json:"id"`
	Extension     string `json:"extension"`
	AgentName     string `json:"agentName,omitempty"`
	Status        string `json:"status"`
	OnCall        bool   `json:"onCall"`
	StatusSince   string `json:"statusSince"`
	StatusSeconds int    `json:"statusSeconds"`
	LastSeen      string `json:"lastSeen"`
}

// newCallView renders one record for display.
func newCallView(rec *models.CallRecord) CallView {
	v := CallView{
		ID:             rec.ID,
		CallerNumber:   rec.CallerNumber,
		OtherParty:     rec.OtherParty,
		AgentExtension: rec.AgentExtension,
		Direction:      string(rec.Direction),
		Status:         string(rec.Status),
		StartTime:      rec.StartTime.UTC().Format(time.RFC3339),
		Disposition:    rec.Disposition,
	}
	if rec.EndTime != nil {
		v.EndTime = rec.EndTime.UTC().Format(time.RFC3339)
	}
	if rec.Duration != nil {
		v.DurationLabel = durationLabel(*rec.Duration)
	}
	return v
}

func newCallViews(records []*models.CallRecord) []CallView {
	views := make([]CallView, 0, len(records))
	for _, rec := range records {
		views = append(views, newCallView(rec))
	}
	return views
}

// durationLabel formats whole seconds the way the history panel shows them:
// "42s", "3m 12s", "1h 04m".
func durationLabel(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %02ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh %02dm", seconds/3600, (seconds%3600)/60)
}

// newExtensionView renders one directory row.
func newExtensionView(rec *models.ExtensionRecord, now time.Time) ExtensionView {
	return ExtensionView{
		ID:            rec.ID,
		Extension:     rec.ExtensionNumber,
		AgentName:     rec.AgentName,
		Status:        string(rec.Status),
		OnCall:        rec.OnCall,
		StatusSince:   rec.LastStatusChange.UTC().Format(time.RFC3339),
		StatusSeconds: int(now.Sub(rec.LastStatusChange) / time.Second),
		LastSeen:      rec.LastSeen.UTC().Format(time.RFC3339),
	}
}

// displayableExtension applies the directory panel's filter: a real 4-digit
// line with a known status. Everything else still lives in the directory,
// it just is not rendered.
func displayableExtension(rec *models.ExtensionRecord) bool {
	if len(rec.ExtensionNumber) != 4 {
		return false
	}
	for _, r := range rec.ExtensionNumber {
		if r < '0' || r > '9' {
			return false
		}
	}
	return rec.Status != models.ExtensionUnknown
}
