package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tamzrod/modem-telemetry/internal/config"
)

func TestNewLogger_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, newLogger(config.LogConfig{Level: "debug"}).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, newLogger(config.LogConfig{Level: "WARN"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger(config.LogConfig{}).GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, newLogger(config.LogConfig{Level: "error", Pretty: true}).GetLevel())
}
