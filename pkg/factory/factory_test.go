package factory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tofabd/call-center-shajgoj-sub000/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestInitConfigFactoryAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
info:
  version: 2.1.0
web:
  port: 9090
feed:
  url: ws://pbx.local:6001/events
telephony:
  baseUrl: http://pbx.local:7000/api
refresh: {}
`)

	cfg, err := InitConfigFactory(path)
	if err != nil {
		t.Fatalf("InitConfigFactory failed: %v", err)
	}

	if cfg.Info.Version != "2.1.0" {
		t.Fatalf("explicit version overridden: %s", cfg.Info.Version)
	}
	if cfg.Logger == nil || cfg.Logger.Level != "info" {
		t.Fatalf("logger defaults not applied: %+v", cfg.Logger)
	}
	if cfg.Web.Scheme != "http" || cfg.Web.BindingIPv4 != "0.0.0.0" || cfg.Web.Port != 9090 {
		t.Fatalf("web defaults not applied: %+v", cfg.Web)
	}
	if cfg.Feed.DialTimeout != 10*time.Second {
		t.Fatalf("feed dial timeout default not applied: %s", cfg.Feed.DialTimeout)
	}
	if cfg.Telephony.Timeout != 15*time.Second {
		t.Fatalf("telephony timeout default not applied: %s", cfg.Telephony.Timeout)
	}
	if cfg.Refresh.Period != 30*time.Second || cfg.Refresh.RetryDelay != time.Second || cfg.Refresh.MaxRetries != 2 {
		t.Fatalf("refresh defaults not applied: %+v", cfg.Refresh)
	}

	if GetConfig() != cfg {
		t.Fatalf("GetConfig must return the loaded configuration")
	}
	if GetConfigPath() != path {
		t.Fatalf("GetConfigPath = %q, want %q", GetConfigPath(), path)
	}
}

func TestInitConfigFactoryExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_BRIDGE_HOST", "pbx.internal")
	path := writeConfigFile(t, `
telephony:
  baseUrl: http://${TEST_BRIDGE_HOST}:7000/api
`)

	cfg, err := InitConfigFactory(path)
	if err != nil {
		t.Fatalf("InitConfigFactory failed: %v", err)
	}
	if cfg.Telephony.BaseURL != "http://pbx.internal:7000/api" {
		t.Fatalf("environment not expanded: %s", cfg.Telephony.BaseURL)
	}
}

func TestInitConfigFactoryMissingFile(t *testing.T) {
	if _, err := InitConfigFactory(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "bad log level",
			yaml:    "logger:\n  level: chatty\n",
			wantErr: "invalid log level",
		},
		{
			name:    "bad port",
			yaml:    "web:\n  port: 70000\n",
			wantErr: "invalid web port",
		},
		{
			name:    "bad scheme",
			yaml:    "web:\n  scheme: ftp\n  port: 8080\n",
			wantErr: "invalid web scheme",
		},
		{
			name:    "https without tls",
			yaml:    "web:\n  scheme: https\n  port: 8443\n",
			wantErr: "TLS configuration required",
		},
		{
			name:    "feed not websocket",
			yaml:    "feed:\n  url: http://pbx:6001/events\n",
			wantErr: "invalid feed URL scheme",
		},
		{
			name:    "refresh period too short",
			yaml:    "refresh:\n  period: 100ms\n",
			wantErr: "refresh period too short",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeConfigFile(t, c.yaml)
			_, err := InitConfigFactory(path)
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("expected error containing %q, got %v", c.wantErr, err)
			}
		})
	}
}

func TestReloadConfig(t *testing.T) {
	path := writeConfigFile(t, "info:\n  version: 1.0.0\n")
	if _, err := InitConfigFactory(path); err != nil {
		t.Fatalf("InitConfigFactory failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("info:\n  version: 1.1.0\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	cfg, err := ReloadConfig()
	if err != nil {
		t.Fatalf("ReloadConfig failed: %v", err)
	}
	if cfg.Info.Version != "1.1.0" {
		t.Fatalf("reload did not pick up new version: %s", cfg.Info.Version)
	}
}

func TestApplyDefaultsLeavesNilSectionsAlone(t *testing.T) {
	cfg := &config.Config{}
	applyDefaults(cfg)
	if cfg.Web != nil || cfg.Feed != nil || cfg.Telephony != nil {
		t.Fatalf("optional sections must stay nil when absent")
	}
	if cfg.Logger == nil || cfg.Refresh == nil {
		t.Fatalf("logger and refresh sections must always exist")
	}
}
