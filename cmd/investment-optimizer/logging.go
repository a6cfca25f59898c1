package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/investment-optimizer/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

var logFormats = map[string]func() zap.Config{
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// initializeLogger builds the process logger. A non-empty levelOverride
// (the -log-level flag) replaces the configured level.
func initializeLogger(conf config.LoggingConfig, levelOverride string) (*zap.Logger, error) {
	name := conf.Level
	if levelOverride != "" {
		name = levelOverride
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "info"
	}
	level, ok := logLevels[name]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", name)
	}

	format := strings.ToLower(strings.TrimSpace(conf.Format))
	if format == "" {
		format = "json"
	}
	newConfig, ok := logFormats[format]
	if !ok {
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig := newConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if conf.OutputFile != "" {
		if err := ensureLogFile(conf.OutputFile); err != nil {
			return nil, err
		}
		zapConfig.OutputPaths = []string{conf.OutputFile}
		zapConfig.ErrorOutputPaths = []string{conf.OutputFile}
	}
	return zapConfig.Build()
}

// ensureLogFile creates the log file and its directory so zap can append.
func ensureLogFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file.Close()
}
