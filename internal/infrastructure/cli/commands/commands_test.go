package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/wxq/internal/infrastructure/config"
	"github.com/doeshing/wxq/internal/infrastructure/history"
)

func seededStore(t *testing.T, now time.Time) *history.FileStore {
	t.Helper()
	store := history.NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"), 0)
	records := []domain.HistoryRecord{
		{ID: "1", Timestamp: now.Add(-2 * time.Hour), City: "London", Outcome: domain.OutcomeSuccess, Temperature: domain.Float(15), Condition: "Cloudy", DurationMS: 20},
		{ID: "2", Timestamp: now.Add(-time.Hour), City: "Atlantis", Outcome: "http", StatusCode: 404, Message: "Failed to fetch weather data: Error: 404", DurationMS: 10},
		{ID: "3", Timestamp: now.Add(-time.Minute), City: "London", Outcome: domain.OutcomeSuccess, Temperature: domain.Float(15.5), Condition: "Rain", DurationMS: 30},
	}
	for _, rec := range records {
		require.NoError(t, store.Save(rec))
	}
	return store
}

func TestListHistoryEntries(t *testing.T) {
	now := time.Now()
	var out bytes.Buffer
	require.NoError(t, listHistoryEntries(&out, seededStore(t, now), 10, now))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "1 minute ago")
	assert.Contains(t, lines[0], "15.5°C Rain")
	assert.Contains(t, lines[1], "Error: 404")
	assert.Contains(t, lines[2], "2 hours ago")
}

func TestListHistoryEntriesEmpty(t *testing.T) {
	var out bytes.Buffer
	store := history.NewFileStore(filepath.Join(t.TempDir(), "none.jsonl"), 0)
	require.NoError(t, listHistoryEntries(&out, store, 10, time.Now()))
	assert.Equal(t, MsgNoHistoryRecorded+"\n", out.String())
}

func TestSearchHistoryEntries(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, searchHistoryEntries(&out, seededStore(t, time.Now()), "atlan", 10))
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
	assert.Contains(t, out.String(), "Atlantis")
}

func TestShowHistoryStats(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, showHistoryStats(&out, seededStore(t, time.Now())))

	text := out.String()
	assert.Contains(t, text, "Lookups analyzed: 3")
	assert.Contains(t, text, "Success rate: 66.7%")
	assert.Contains(t, text, "Average latency: 20 ms")
	assert.Contains(t, text, "  http: 1")
	assert.Contains(t, text, "  London (2)")
}

func TestDisplayDoctorReport(t *testing.T) {
	var out bytes.Buffer
	displayDoctorReport(&out, domain.HealthReport{Checks: []domain.HealthCheck{
		{Name: "Weather API", Status: domain.HealthError, Details: "unreachable"},
	}})
	assert.Equal(t, "[ERROR] Weather API - unreachable\n", out.String())
}

func newLoader(t *testing.T) *configinfra.FileLoader {
	t.Helper()
	return configinfra.NewFileLoader(filepath.Join(t.TempDir(), "config.yaml")).WithEnvFile("")
}

func TestInitConfiguration(t *testing.T) {
	loader := newLoader(t)
	var out bytes.Buffer

	require.NoError(t, initConfiguration(&out, loader, false))
	assert.Contains(t, out.String(), "Wrote default configuration")
	_, err := os.Stat(loader.Path())
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, initConfiguration(&out, loader, false))
	assert.Contains(t, out.String(), "already exists")

	out.Reset()
	require.NoError(t, initConfiguration(&out, loader, true))
	assert.Contains(t, out.String(), "Backed up previous configuration")
}

func TestSetAndGetConfigurationValue(t *testing.T) {
	loader := newLoader(t)

	require.NoError(t, setConfigurationValue(loader, "endpoint.base_url", "http://weather.internal:9000"))
	require.NoError(t, setConfigurationValue(loader, "endpoint.timeout_seconds", "5"))

	var out bytes.Buffer
	require.NoError(t, getConfigurationValue(&out, loader, "endpoint.base_url"))
	assert.Equal(t, "http://weather.internal:9000\n", out.String())

	assert.Error(t, setConfigurationValue(loader, "endpoint.nope", "1"))
	assert.Error(t, setConfigurationValue(loader, "logging.level", "chatty"), "validation rejects unknown levels")
	assert.Error(t, setConfigurationValue(loader, "endpoint.timeout_seconds", "soon"))
	assert.Error(t, getConfigurationValue(&out, loader, "missing.key"))
}

func TestValidateAndDiffConfiguration(t *testing.T) {
	loader := newLoader(t)
	var out bytes.Buffer

	require.NoError(t, validateConfiguration(&out, loader))
	assert.Equal(t, MsgConfigurationValid+"\n", out.String())

	out.Reset()
	require.NoError(t, showConfigurationDiff(&out, loader))
	assert.Equal(t, MsgNoDifferencesFromDefault+"\n", out.String())

	require.NoError(t, setConfigurationValue(loader, "history.backend", "file"))
	out.Reset()
	require.NoError(t, showConfigurationDiff(&out, loader))
	assert.Contains(t, out.String(), "file")
}

func TestClearHistoryConfirmation(t *testing.T) {
	store := seededStore(t, time.Now())

	var out bytes.Buffer
	require.NoError(t, clearHistory(&out, helpers.NewPrompter(strings.NewReader("n\n"), &out), store, false))
	assert.Contains(t, out.String(), MsgClearCancelled)
	records, err := store.Records(0, "")
	require.NoError(t, err)
	assert.Len(t, records, 3)

	out.Reset()
	require.NoError(t, clearHistory(&out, helpers.NewPrompter(strings.NewReader(""), &out), store, true))
	assert.Contains(t, out.String(), "Cleared history")
	records, err = store.Records(0, "")
	require.NoError(t, err)
	assert.Empty(t, records)
}
