package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/wxq/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestBuildContainerWiresLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"city":"London","temperature":15,"condition":"Cloudy"}`))
	}))
	defer server.Close()

	historyPath := filepath.Join(t.TempDir(), "history.jsonl")
	path := writeConfig(t, `
endpoint:
  base_url: `+server.URL+`
history:
  enabled: true
  backend: file
  path: `+historyPath+`
`)

	container, err := BuildContainer(context.Background(), Options{ConfigPath: path})
	require.NoError(t, err)
	defer container.Close()

	controller := container.NewController()
	controller.Submit(context.Background(), "London")

	state := controller.State()
	require.NotNil(t, state.Result)
	assert.Equal(t, "Cloudy", state.Result.Condition)

	records, err := container.HistoryStore.Records(0, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "London", records[0].City)
}

func TestBuildContainerAppliesOverride(t *testing.T) {
	path := writeConfig(t, "history:\n  enabled: false\n")
	container, err := BuildContainer(context.Background(), Options{
		ConfigPath: path,
		Override: func(cfg *domain.Config) {
			cfg.Endpoint.BaseURL = "http://example.test:9000"
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:9000", container.Config.Endpoint.BaseURL)
	assert.Nil(t, container.HistoryStore)

	target, err := container.WeatherClient.TargetFor("Oslo")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:9000/api/weather?city=Oslo", target)
}

func TestBuildContainerRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: chatty\n")
	_, err := BuildContainer(context.Background(), Options{ConfigPath: path})
	assert.ErrorContains(t, err, "logging.level")
}
