package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tofabd/call-center-shajgoj-sub000/config"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

// TelephonyService is the pull side of the engine: a thin REST client for
// the PBX bridge used to fetch full extension snapshots.
type TelephonyService struct {
	config     *config.Telephony
	httpClient *http.Client
}

// NewTelephonyService creates a new telephony client.
func NewTelephonyService(cfg *config.Telephony) *TelephonyService {
	return &TelephonyService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Ping checks that the bridge answers at all.
func (s *TelephonyService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL+"/status", nil)
	if err != nil {
		return err
	}
	s.addAuth(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrTelephonyAPIError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code %d", models.ErrTelephonyAPIError, resp.StatusCode)
	}
	return nil
}

// GetExtensions fetches the full extension snapshot. The bridge returns a
// JSON array of loosely-typed objects; fields are extracted defensively so
// one malformed entry never fails the whole snapshot.
func (s *TelephonyService) GetExtensions(ctx context.Context) ([]models.ExtensionUpdate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL+"/extensions", nil)
	if err != nil {
		return nil, err
	}
	s.addAuth(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrTelephonyTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrSnapshotFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", models.ErrSnapshotFailed, resp.StatusCode)
	}

	var raw []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", models.ErrSnapshotFailed, err)
	}

	updates := make([]models.ExtensionUpdate, 0, len(raw))
	for _, entry := range raw {
		u := convertExtensionEntry(entry)
		if u.ID == "" {
			logger.TelephonyLog.Warnf("Skipping snapshot entry without id: %v", entry)
			continue
		}
		updates = append(updates, u)
	}

	logger.TelephonyLog.Debugf("Fetched %d extensions from %s", len(updates), s.config.BaseURL)
	return updates, nil
}

// convertExtensionEntry converts one bridge snapshot object to an update.
func convertExtensionEntry(entry map[string]interface{}) models.ExtensionUpdate {
	u := models.ExtensionUpdate{
		ID:          getString(entry, "id"),
		Extension:   getString(entry, "extension"),
		Status:      getString(entry, "status"),
		DeviceState: getString(entry, "deviceState"),
		AgentName:   getString(entry, "agentName"),
	}

	if code, ok := entry["statusCode"].(float64); ok {
		c := int(code)
		u.StatusCode = &c
	}

	if seen, ok := entry["lastSeen"].(string); ok {
		if t, err := time.Parse(time.RFC3339, seen); err == nil {
			u.LastSeen = &t
		}
	}

	return u
}

// addAuth adds basic auth to the request if configured.
func (s *TelephonyService) addAuth(req *http.Request) {
	if s.config.Username != "" && s.config.Password != "" {
		req.SetBasicAuth(s.config.Username, s.config.Password)
	}
}

// getString safely extracts a string value from a map.
func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
