package config

import (
	"time"
)

type Config struct {
	Info      *Info      `yaml:"info"`
	Logger    *Logger    `yaml:"logger"`
	Web       *Web       `yaml:"web"`
	Feed      *Feed      `yaml:"feed"`
	Telephony *Telephony `yaml:"telephony"`
	Refresh   *Refresh   `yaml:"refresh"`
}

type Info struct {
	Version     string `yaml:"version,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type Logger struct {
	Level           string `yaml:"level,omitempty"`
	ReportCaller    bool   `yaml:"reportCaller,omitempty"`
	File            string `yaml:"file,omitempty"`
	RotationCount   int    `yaml:"rotationCount,omitempty"`
	RotationMaxAge  int    `yaml:"rotationMaxAge,omitempty"`
	RotationMaxSize int    `yaml:"rotationMaxSize,omitempty"`
}

// Web configures the console-facing HTTP server.
type Web struct {
	Scheme       string        `yaml:"scheme"`
	BindingIPv4  string        `yaml:"bindingIPv4"`
	BindingIPv6  string        `yaml:"bindingIPv6"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	TLS          *TLS          `yaml:"tls,omitempty"`
}

type TLS struct {
	Cert string `yaml:"cert,omitempty"`
	Key  string `yaml:"key,omitempty"`
}

// Feed configures the push channel (websocket event stream from the PBX
// bridge).
type Feed struct {
	URL         string        `yaml:"url"`
	DialTimeout time.Duration `yaml:"dialTimeout"`
}

// Telephony configures the pull side (REST snapshot endpoint).
type Telephony struct {
	BaseURL  string        `yaml:"baseUrl"`
	Username string        `yaml:"username,omitempty"`
	Password string        `yaml:"password,omitempty"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Refresh configures the adaptive refresh scheduler.
type Refresh struct {
	Period     time.Duration `yaml:"period"`
	RetryDelay time.Duration `yaml:"retryDelay"`
	MaxRetries int           `yaml:"maxRetries"`
}
