package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/doeshing/wxq/internal/domain"
)

func TestLoggerSuppressesDebugUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{JSON: true, Writer: &buf})

	log.Debug("hidden", map[string]interface{}{"city": "London"})
	assert.Empty(t, buf.String())

	log.Warn("history save failed", map[string]interface{}{"city": "London"})
	assert.Contains(t, buf.String(), `"message":"history save failed"`)
	assert.Contains(t, buf.String(), `"city":"London"`)
}

func TestLoggerVerboseWritesDebugAndErrors(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Verbose: true, JSON: true, Writer: &buf})

	log.Debug("request", nil)
	log.Error("lookup failed", errors.New("boom"), map[string]interface{}{"status": 500})

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"status":500`)
}

func TestLoggerHonoursConfiguredLevel(t *testing.T) {
	tests := []struct {
		level     string
		wantInfo  bool
		wantWarn  bool
		wantError bool
	}{
		{level: "info", wantInfo: true, wantWarn: true, wantError: true},
		{level: "warn", wantWarn: true, wantError: true},
		{level: "error", wantError: true},
		{level: "", wantWarn: true, wantError: true},
		{level: "chatty", wantWarn: true, wantError: true},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Options{Level: tt.level, JSON: true, Writer: &buf})

			log.Info("lookup failed", nil)
			assert.Equal(t, tt.wantInfo, strings.Contains(buf.String(), `"level":"info"`))
			log.Warn("history save failed", nil)
			assert.Equal(t, tt.wantWarn, strings.Contains(buf.String(), `"level":"warn"`))
			log.Error("boom", errors.New("boom"), nil)
			assert.Equal(t, tt.wantError, strings.Contains(buf.String(), `"level":"error"`))
		})
	}
}

func TestFromSettingsMapsLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, FromSettings(domain.LoggingSettings{Level: "info"}, false).Zerolog().GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, FromSettings(domain.LoggingSettings{Level: "ERROR"}, false).Zerolog().GetLevel())
	assert.Equal(t, zerolog.DebugLevel, FromSettings(domain.LoggingSettings{Level: "debug"}, false).Zerolog().GetLevel())
	assert.Equal(t, zerolog.DebugLevel, FromSettings(domain.LoggingSettings{Level: "error"}, true).Zerolog().GetLevel(), "verbose forces debug")
}
