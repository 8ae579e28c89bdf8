// Package main is the entry point for the tm-monitor-helper daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/tm-monitor/internal/config"
	"github.com/joe/tm-monitor/internal/daemon"
	"github.com/joe/tm-monitor/internal/engine"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse configuration
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := createLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	logger.Info("helper config", zap.String("config", cfg.Summary()))

	eng, err := engine.New(engine.Options{
		Unit:             cfg.Units,
		Window:           cfg.Window,
		InitialWindow:    cfg.InitialWindow,
		ThinningPatterns: cfg.ThinningPhases,
		Logger:           logger,
	})
	if err != nil {
		logger.Error("failed to create engine", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		logger.Info("reading status lines from a terminal, type QUIT to exit")
	}

	if err := daemon.New(eng, logger).Run(ctx, os.Stdin, os.Stdout); err != nil {
		logger.Error("helper stopped", zap.Error(err))
		return 1
	}

	return 0
}

// createLogger builds the diagnostic logger. Diagnostics always go to stderr;
// stdout carries only data rows.
func createLogger(level zapcore.Level) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core)
}
