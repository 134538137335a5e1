package weatherapi

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/doeshing/wxq/internal/domain"
)

// DecodeWeather interprets a captured response body. city, temperature and
// condition must be present with their JSON types; humidity and wind_speed are
// kept only when they are JSON numbers.
func DecodeWeather(text string) (domain.WeatherResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return domain.WeatherResult{}, err
	}

	city, err := requiredString(fields, "city")
	if err != nil {
		return domain.WeatherResult{}, err
	}
	temperature, err := requiredNumber(fields, "temperature")
	if err != nil {
		return domain.WeatherResult{}, err
	}
	condition, err := requiredString(fields, "condition")
	if err != nil {
		return domain.WeatherResult{}, err
	}

	return domain.WeatherResult{
		City:        city,
		Temperature: temperature,
		Condition:   condition,
		Humidity:    optionalNumber(fields, "humidity"),
		WindSpeed:   optionalNumber(fields, "wind_speed"),
	}, nil
}

func requiredString(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := present(fields, name)
	if !ok {
		return "", errors.Errorf("missing required field %q", name)
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", errors.Errorf("field %q must be a string, got %s", name, raw)
	}
	return value, nil
}

func requiredNumber(fields map[string]json.RawMessage, name string) (float64, error) {
	raw, ok := present(fields, name)
	if !ok {
		return 0, errors.Errorf("missing required field %q", name)
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, errors.Errorf("field %q must be a number, got %s", name, raw)
	}
	return value, nil
}

// optionalNumber never coerces: a quoted "80" is treated as absent.
func optionalNumber(fields map[string]json.RawMessage, name string) *float64 {
	raw, ok := present(fields, name)
	if !ok {
		return nil
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return &value
}

func present(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	raw, ok := fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}
