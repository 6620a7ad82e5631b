package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	log          *logrus.Logger
	AppLog       *logrus.Entry
	InitLog      *logrus.Entry
	ConfigLog    *logrus.Entry
	RegistryLog  *logrus.Entry
	DirectoryLog *logrus.Entry
	FeedLog      *logrus.Entry
	HealthLog    *logrus.Entry
	RefreshLog   *logrus.Entry
	HTTPLog      *logrus.Entry
	WebLog       *logrus.Entry
	TelephonyLog *logrus.Entry
)

func init() {
	log = logrus.New()
	log.SetReportCaller(false)

	AppLog = log.WithFields(logrus.Fields{"component": "APP"})
	InitLog = log.WithFields(logrus.Fields{"component": "INIT"})
	ConfigLog = log.WithFields(logrus.Fields{"component": "CONFIG"})
	RegistryLog = log.WithFields(logrus.Fields{"component": "REGISTRY"})
	DirectoryLog = log.WithFields(logrus.Fields{"component": "DIRECTORY"})
	FeedLog = log.WithFields(logrus.Fields{"component": "FEED"})
	HealthLog = log.WithFields(logrus.Fields{"component": "HEALTH"})
	RefreshLog = log.WithFields(logrus.Fields{"component": "REFRESH"})
	HTTPLog = log.WithFields(logrus.Fields{"component": "HTTP"})
	WebLog = log.WithFields(logrus.Fields{"component": "WEB"})
	TelephonyLog = log.WithFields(logrus.Fields{"component": "TELEPHONY"})
}

type Config struct {
	Level           string
	ReportCaller    bool
	File            string
	RotationCount   int
	RotationMaxAge  int
	RotationMaxSize int
}

func SetLogLevel(levelStr string) {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		log.Warnf("Invalid log level [%s], using default level [info]", levelStr)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}

func SetReportCaller(enable bool) {
	log.SetReportCaller(enable)
	if enable {
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:     true,
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				s := strings.Split(f.Function, ".")
				funcname := s[len(s)-1]
				filename := filepath.Base(f.File)
				return funcname, fmt.Sprintf("%s:%d", filename, f.Line)
			},
		})
	}
}

func InitLogger(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("logger config is nil")
	}

	// Set log level
	SetLogLevel(cfg.Level)

	// Set report caller
	SetReportCaller(cfg.ReportCaller)

	// Set formatter
	if cfg.File == "" {
		// Console output with colors
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:     true,
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
		log.SetOutput(os.Stdout)
	} else {
		// File output without colors
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:     false,
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})

		// Create log directory if it doesn't exist
		logDir := filepath.Dir(cfg.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		// Setup log rotation
		rotateLogger := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.RotationMaxSize, // megabytes
			MaxBackups: cfg.RotationCount,
			MaxAge:     cfg.RotationMaxAge, // days
			Compress:   true,
		}

		log.SetOutput(rotateLogger)
	}

	InitLog.Infof("Logger initialized with level: %s", cfg.Level)
	return nil
}

// GetLogger returns the base logger instance
func GetLogger() *logrus.Logger {
	return log
}

// WithFields creates a new logger entry with the given fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}
