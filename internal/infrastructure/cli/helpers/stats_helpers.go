package helpers

import (
	"sort"

	"github.com/doeshing/wxq/internal/domain"
)

// CityStatistic represents how often a city was looked up
type CityStatistic struct {
	City  string
	Count int
}

// HistoryStats aggregates a slice of history records
type HistoryStats struct {
	Total         int
	Successful    int
	Failures      map[domain.HistoryOutcome]int
	CityFrequency map[string]int
	totalDuration int64
}

// AnalyzeHistory computes counts over records
func AnalyzeHistory(records []domain.HistoryRecord) HistoryStats {
	stats := HistoryStats{
		Failures:      make(map[domain.HistoryOutcome]int),
		CityFrequency: make(map[string]int),
	}

	for _, rec := range records {
		stats.Total++
		stats.totalDuration += rec.DurationMS
		stats.CityFrequency[rec.City]++
		if rec.Succeeded() {
			stats.Successful++
			continue
		}
		stats.Failures[rec.Outcome]++
	}

	return stats
}

// AverageDurationMS is the mean lookup latency
func (s HistoryStats) AverageDurationMS() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.totalDuration) / float64(s.Total)
}

// CalculateTopCities returns the top N most frequently looked up cities
// If limit is 0 or negative, returns all cities
func CalculateTopCities(cityFrequency map[string]int, limit int) []CityStatistic {
	stats := make([]CityStatistic, 0, len(cityFrequency))
	for city, count := range cityFrequency {
		stats = append(stats, CityStatistic{City: city, Count: count})
	}

	// count descending, then name ascending
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].City < stats[j].City
		}
		return stats[i].Count > stats[j].Count
	})

	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

// CalculateSuccessRate calculates the success rate as a percentage
func CalculateSuccessRate(successfulCount int, totalCount int) float64 {
	if totalCount == 0 {
		return 0.0
	}
	return float64(successfulCount) / float64(totalCount) * 100.0
}
