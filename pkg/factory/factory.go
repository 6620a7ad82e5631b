package factory

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tofabd/call-center-shajgoj-sub000/config"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
)

var (
	defaultConfig *config.Config
	configPath    string
)

// InitConfigFactory initializes the configuration factory
func InitConfigFactory(cfgPath string) (*config.Config, error) {
	if cfgPath == "" {
		cfgPath = getDefaultConfigPath()
	}

	configPath = cfgPath
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(cfg)

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	defaultConfig = cfg
	logger.InitLog.Infof("Configuration loaded from: %s", cfgPath)
	return cfg, nil
}

// GetConfig returns the default configuration
func GetConfig() *config.Config {
	return defaultConfig
}

// GetConfigPath returns the path to the configuration file
func GetConfigPath() string {
	return configPath
}

// loadConfig loads configuration from a YAML file
func loadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	content := os.ExpandEnv(string(data))

	cfg := &config.Config{}
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// applyDefaults applies default values to the configuration
func applyDefaults(cfg *config.Config) {
	// Info defaults
	if cfg.Info == nil {
		cfg.Info = &config.Info{}
	}
	if cfg.Info.Version == "" {
		cfg.Info.Version = "1.0.0"
	}
	if cfg.Info.Description == "" {
		cfg.Info.Description = "Call Center Console"
	}

	// Logger defaults
	if cfg.Logger == nil {
		cfg.Logger = &config.Logger{}
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.RotationCount == 0 {
		cfg.Logger.RotationCount = 3
	}
	if cfg.Logger.RotationMaxAge == 0 {
		cfg.Logger.RotationMaxAge = 7
	}
	if cfg.Logger.RotationMaxSize == 0 {
		cfg.Logger.RotationMaxSize = 50
	}

	// Web defaults
	if cfg.Web != nil {
		if cfg.Web.Scheme == "" {
			cfg.Web.Scheme = "http"
		}
		if cfg.Web.BindingIPv4 == "" {
			cfg.Web.BindingIPv4 = "0.0.0.0"
		}
		if cfg.Web.Port == 0 {
			cfg.Web.Port = 8080
		}
		if cfg.Web.ReadTimeout == 0 {
			cfg.Web.ReadTimeout = 30 * time.Second
		}
		if cfg.Web.WriteTimeout == 0 {
			cfg.Web.WriteTimeout = 30 * time.Second
		}
	}

	// Feed defaults
	if cfg.Feed != nil {
		if cfg.Feed.URL == "" {
			cfg.Feed.URL = "ws://localhost:6001/events"
		}
		if cfg.Feed.DialTimeout == 0 {
			cfg.Feed.DialTimeout = 10 * time.Second
		}
	}

	// Telephony defaults
	if cfg.Telephony != nil {
		if cfg.Telephony.BaseURL == "" {
			cfg.Telephony.BaseURL = "http://localhost:7000/api"
		}
		if cfg.Telephony.Timeout == 0 {
			cfg.Telephony.Timeout = 15 * time.Second
		}
	}

	// Refresh defaults
	if cfg.Refresh == nil {
		cfg.Refresh = &config.Refresh{}
	}
	if cfg.Refresh.Period == 0 {
		cfg.Refresh.Period = 30 * time.Second
	}
	if cfg.Refresh.RetryDelay == 0 {
		cfg.Refresh.RetryDelay = time.Second
	}
	if cfg.Refresh.MaxRetries == 0 {
		cfg.Refresh.MaxRetries = 2
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *config.Config) error {
	// Validate logger
	if cfg.Logger != nil {
		validLevels := []string{"panic", "fatal", "error", "warn", "warning", "info", "debug", "trace"}
		if !contains(validLevels, strings.ToLower(cfg.Logger.Level)) {
			return fmt.Errorf("invalid log level: %s", cfg.Logger.Level)
		}
	}

	// Validate web server
	if cfg.Web != nil {
		if cfg.Web.Port < 1 || cfg.Web.Port > 65535 {
			return fmt.Errorf("invalid web port: %d", cfg.Web.Port)
		}
		if cfg.Web.Scheme != "http" && cfg.Web.Scheme != "https" {
			return fmt.Errorf("invalid web scheme: %s", cfg.Web.Scheme)
		}
		if cfg.Web.Scheme == "https" && cfg.Web.TLS == nil {
			return fmt.Errorf("TLS configuration required for HTTPS scheme")
		}
		if cfg.Web.TLS != nil {
			if cfg.Web.TLS.Cert == "" || cfg.Web.TLS.Key == "" {
				return fmt.Errorf("TLS cert and key are required")
			}
			if _, err := os.Stat(cfg.Web.TLS.Cert); err != nil {
				return fmt.Errorf("TLS cert file not found: %s", cfg.Web.TLS.Cert)
			}
			if _, err := os.Stat(cfg.Web.TLS.Key); err != nil {
				return fmt.Errorf("TLS key file not found: %s", cfg.Web.TLS.Key)
			}
		}
	}

	// Validate feed
	if cfg.Feed != nil {
		if !strings.HasPrefix(cfg.Feed.URL, "ws://") && !strings.HasPrefix(cfg.Feed.URL, "wss://") {
			return fmt.Errorf("invalid feed URL scheme: %s", cfg.Feed.URL)
		}
	}

	// Validate telephony
	if cfg.Telephony != nil {
		if cfg.Telephony.BaseURL == "" {
			return fmt.Errorf("telephony base URL is required")
		}
	}

	// Validate refresh
	if cfg.Refresh != nil {
		if cfg.Refresh.Period < time.Second {
			return fmt.Errorf("refresh period too short: %s", cfg.Refresh.Period)
		}
		if cfg.Refresh.MaxRetries < 0 {
			return fmt.Errorf("invalid refresh max retries: %d", cfg.Refresh.MaxRetries)
		}
	}

	return nil
}

// getDefaultConfigPath returns the default configuration file path
func getDefaultConfigPath() string {
	// Check environment variable
	if path := os.Getenv("CONSOLE_CONFIG_PATH"); path != "" {
		return path
	}

	// Check common locations
	commonPaths := []string{
		"./config.yaml",
		"./config.yml",
		"./conf/config.yaml",
		"./conf/config.yml",
		"/etc/call-console/config.yaml",
		"/etc/call-console/config.yml",
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	// Default to current directory
	return "config.yaml"
}

// contains checks if a string slice contains a value
func contains(slice []string, value string) bool {
	for _, s := range slice {
		if s == value {
			return true
		}
	}
	return false
}

// ReloadConfig reloads the configuration from file
func ReloadConfig() (*config.Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("no configuration path set")
	}
	return InitConfigFactory(configPath)
}
