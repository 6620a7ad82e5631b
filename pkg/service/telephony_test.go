package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tofabd/call-center-shajgoj-sub000/config"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
)

func newTestTelephony(baseURL string) *TelephonyService {
	return NewTelephonyService(&config.Telephony{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	})
}

func TestGetExtensionsParsesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extensions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"ext-1","extension":"1001","status":"online","deviceState":"NOT_INUSE","statusCode":0,"agentName":"Rahim","lastSeen":"2026-08-01T10:00:00Z"},
			{"id":"ext-2","extension":"1002","status":"online","deviceState":"INUSE","statusCode":1},
			{"extension":"1003","status":"online"},
			{"id":"ext-4","statusCode":"not-a-number"}
		]`))
	}))
	defer srv.Close()

	svc := newTestTelephony(srv.URL)
	updates, err := svc.GetExtensions(context.Background())
	if err != nil {
		t.Fatalf("GetExtensions failed: %v", err)
	}

	// The entry without an id is dropped, the malformed statusCode is not.
	if len(updates) != 3 {
		t.Fatalf("expected 3 usable entries, got %d", len(updates))
	}

	first := updates[0]
	if first.ID != "ext-1" || first.Extension != "1001" || first.AgentName != "Rahim" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if first.StatusCode == nil || *first.StatusCode != 0 {
		t.Fatalf("statusCode 0 must survive as an explicit value")
	}
	if first.LastSeen == nil || !first.LastSeen.Equal(time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("lastSeen not parsed: %+v", first.LastSeen)
	}

	// The non-numeric statusCode is skipped, not fatal.
	if updates[2].ID != "ext-4" || updates[2].StatusCode != nil {
		t.Fatalf("malformed statusCode must be dropped from the entry: %+v", updates[2])
	}
}

func TestGetExtensionsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newTestTelephony(srv.URL)
	if _, err := svc.GetExtensions(context.Background()); !errors.Is(err, models.ErrSnapshotFailed) {
		t.Fatalf("expected ErrSnapshotFailed, got %v", err)
	}
}

func TestGetExtensionsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	svc := newTestTelephony(srv.URL)
	if _, err := svc.GetExtensions(context.Background()); !errors.Is(err, models.ErrSnapshotFailed) {
		t.Fatalf("expected ErrSnapshotFailed for malformed body, got %v", err)
	}
}

func TestGetExtensionsContextCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	svc := newTestTelephony(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := svc.GetExtensions(ctx); !errors.Is(err, models.ErrTelephonyTimeout) {
		t.Fatalf("expected ErrTelephonyTimeout, got %v", err)
	}
}

func TestGetExtensionsSendsBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	var gotAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotAuth = r.BasicAuth()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	svc := NewTelephonyService(&config.Telephony{
		BaseURL:  srv.URL,
		Username: "console",
		Password: "secret",
		Timeout:  2 * time.Second,
	})
	if _, err := svc.GetExtensions(context.Background()); err != nil {
		t.Fatalf("GetExtensions failed: %v", err)
	}
	if !gotAuth || gotUser != "console" || gotPass != "secret" {
		t.Fatalf("basic auth not forwarded: auth=%t user=%q", gotAuth, gotUser)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := newTestTelephony(srv.URL)
	if err := svc.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	svc = newTestTelephony(srv.URL + "/missing")
	if err := svc.Ping(context.Background()); !errors.Is(err, models.ErrTelephonyAPIError) {
		t.Fatalf("expected ErrTelephonyAPIError, got %v", err)
	}
}
