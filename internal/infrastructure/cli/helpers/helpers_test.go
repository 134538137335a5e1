package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/doeshing/wxq/internal/domain"
)

func TestAnalyzeHistory(t *testing.T) {
	now := time.Now()
	records := []domain.HistoryRecord{
		{City: "London", Outcome: domain.OutcomeSuccess, DurationMS: 10, Timestamp: now},
		{City: "London", Outcome: domain.OutcomeSuccess, DurationMS: 30, Timestamp: now},
		{City: "Atlantis", Outcome: "http", DurationMS: 20, Timestamp: now},
		{City: "Paris", Outcome: "decode", DurationMS: 40, Timestamp: now},
	}

	stats := AnalyzeHistory(records)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 1, stats.Failures["http"])
	assert.Equal(t, 1, stats.Failures["decode"])
	assert.InDelta(t, 25.0, stats.AverageDurationMS(), 0.001)
	assert.InDelta(t, 50.0, CalculateSuccessRate(stats.Successful, stats.Total), 0.001)

	top := CalculateTopCities(stats.CityFrequency, 2)
	assert.Equal(t, []CityStatistic{{City: "London", Count: 2}, {City: "Atlantis", Count: 1}}, top)
}

func TestCalculateSuccessRateEmpty(t *testing.T) {
	assert.Zero(t, CalculateSuccessRate(0, 0))
	assert.Zero(t, HistoryStats{}.AverageDurationMS())
}

func TestNestedMapHelpers(t *testing.T) {
	root := map[string]interface{}{
		"endpoint": map[string]interface{}{"base_url": "http://a", "timeout_seconds": 15},
	}

	assert.True(t, SetNestedMapValue(root, []string{"endpoint", "base_url"}, "http://b"))
	assert.False(t, SetNestedMapValue(root, []string{"endpoint", "nope"}, 1))
	assert.False(t, SetNestedMapValue(root, []string{"missing", "key"}, 1))

	value, ok := TraverseNestedMap(root, []string{"endpoint", "base_url"})
	assert.True(t, ok)
	assert.Equal(t, "http://b", value)

	_, ok = TraverseNestedMap(root, []string{"endpoint", "base_url", "deeper"})
	assert.False(t, ok)

	assert.Equal(t, 30, ParseYAMLValue("30"))
	assert.Equal(t, true, ParseYAMLValue("true"))
	assert.Equal(t, "http://c", ParseYAMLValue("http://c"))
}

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
		{input: "yes", want: true},
	}
	for _, tt := range tests {
		var out strings.Builder
		got, err := NewPrompter(strings.NewReader(tt.input), &out).Confirm("Clear history?")
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Clear history? [y/N]: ", out.String())
	}
}
