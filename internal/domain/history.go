package domain

import "time"

// HistoryOutcome labels how a recorded lookup resolved.
type HistoryOutcome string

const (
	OutcomeSuccess HistoryOutcome = "success"
)

// OutcomeFromKind maps a failure kind to its history label.
func OutcomeFromKind(kind FailureKind) HistoryOutcome {
	if kind == "" {
		return OutcomeSuccess
	}
	return HistoryOutcome(kind)
}

// HistoryRecord captures one completed lookup.
type HistoryRecord struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	City        string         `json:"city"`
	Outcome     HistoryOutcome `json:"outcome"`
	StatusCode  int            `json:"status_code,omitempty"`
	Message     string         `json:"message,omitempty"`
	Temperature *float64       `json:"temperature,omitempty"`
	Condition   string         `json:"condition,omitempty"`
	DurationMS  int64          `json:"duration_ms"`
}

// Succeeded reports whether the lookup resolved to a weather result.
func (r HistoryRecord) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}
