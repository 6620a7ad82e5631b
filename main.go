package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
	"github.com/tofabd/call-center-shajgoj-sub000/pkg/app"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	// Command line flags
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		debug       = flag.Bool("debug", false, "Enable debug mode (sets logger level to debug)")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Local overrides for config interpolation; fine if the file is absent.
	_ = godotenv.Load(".env.local", ".env")

	// Create application instance
	application, err := app.New(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		cfg := application.GetConfig()
		cfg.Logger.Level = "debug"
		logger.SetLogLevel("debug")
		logger.InitLog.Info("Debug mode enabled")
	}

	// Start the application
	if err := application.Start(); err != nil {
		logger.InitLog.Fatalf("Failed to start application: %v", err)
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.InitLog.Infof("Received signal: %v, shutting down...", sig)

	// Graceful shutdown
	application.Stop()

	logger.InitLog.Info("Application stopped successfully")
}

func printVersion() {
	fmt.Printf("Call Center Console\n")
	fmt.Printf("Version:     %s\n", version)
	fmt.Printf("Build Time:  %s\n", buildTime)
	fmt.Printf("Git Commit:  %s\n", gitCommit)
}
