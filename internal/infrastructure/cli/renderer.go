package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/doeshing/wxq/internal/domain"
)

const loadingText = "Loading..."

// RenderState prints the lookup state in plain text.
func RenderState(w io.Writer, state domain.QueryState) {
	if state.Pending {
		fmt.Fprintln(w, loadingText)
	}
	if state.HasError() {
		fmt.Fprintln(w, state.ErrorMessage)
	}
	if state.Result != nil {
		for _, line := range WeatherLines(*state.Result) {
			fmt.Fprintln(w, line)
		}
	}
}

// WeatherLines formats a result as a heading and indented fields.
// Humidity and wind are included only when present.
func WeatherLines(result domain.WeatherResult) []string {
	lines := []string{
		"Weather in " + result.City,
		"  Temperature: " + formatNumber(result.Temperature) + "°C",
		"  Condition: " + result.Condition,
	}
	if result.HasHumidity() {
		lines = append(lines, "  Humidity: "+formatNumber(*result.Humidity)+"%")
	}
	if result.HasWindSpeed() {
		lines = append(lines, "  Wind: "+formatNumber(*result.WindSpeed)+" km/h")
	}
	return lines
}

type jsonState struct {
	Input   string                `json:"input"`
	Result  *domain.WeatherResult `json:"result,omitempty"`
	Error   string                `json:"error,omitempty"`
	Pending bool                  `json:"pending"`
}

// RenderJSON prints the state as one JSON document.
func RenderJSON(w io.Writer, state domain.QueryState) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonState{
		Input:   state.InputText,
		Result:  state.Result,
		Error:   state.ErrorMessage,
		Pending: state.Pending,
	})
}

// formatNumber drops a trailing ".0" so 15 prints as 15 and 15.5 as 15.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
