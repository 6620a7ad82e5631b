package models

import "time"

// ConnectionStatus is the push-channel connection state.
type ConnectionStatus string

const (
	ConnectionChecking     ConnectionStatus = "checking"
	ConnectionConnected    ConnectionStatus = "connected"
	ConnectionReconnecting ConnectionStatus = "reconnecting"
	ConnectionDisconnected ConnectionStatus = "disconnected"
)

// ConnectionQuality grades heartbeat recency while connected.
type ConnectionQuality string

const (
	QualityGood  ConnectionQuality = "good"
	QualityPoor  ConnectionQuality = "poor"
	QualityStale ConnectionQuality = "stale"
)

// ConnectionHealth is the process-wide view of the push channel. Quality is
// meaningful only while Status is connected.
type ConnectionHealth struct {
	Status        ConnectionStatus  `json:"status"`
	Quality       ConnectionQuality `json:"health,omitempty"`
	LastHeartbeat time.Time         `json:"lastHeartbeat"`
}

// RefreshState is the scheduler's externally visible state, polled by the
// presentation layer to drive the countdown badge and stale-data banner.
type RefreshState struct {
	CountdownSeconds        int    `json:"countdownSeconds"`
	IsManualRefreshInFlight bool   `json:"isManualRefreshInFlight"`
	IsAutoRefreshInFlight   bool   `json:"isAutoRefreshInFlight"`
	RetryCount              int    `json:"retryCount"`
	LastError               string `json:"lastError,omitempty"`
}
