package domain

// WeatherResult is a decoded backend payload. Humidity and WindSpeed are nil
// when the backend did not report them.
type WeatherResult struct {
	City        string   `json:"city"`
	Temperature float64  `json:"temperature"`
	Condition   string   `json:"condition"`
	Humidity    *float64 `json:"humidity,omitempty"`
	WindSpeed   *float64 `json:"wind_speed,omitempty"`
}

// HasHumidity reports whether the backend reported humidity.
func (w WeatherResult) HasHumidity() bool {
	return w.Humidity != nil
}

// HasWindSpeed reports whether the backend reported wind speed.
func (w WeatherResult) HasWindSpeed() bool {
	return w.WindSpeed != nil
}

// Clone returns a deep copy so callers never share the optional pointers.
func (w WeatherResult) Clone() WeatherResult {
	out := w
	if w.Humidity != nil {
		h := *w.Humidity
		out.Humidity = &h
	}
	if w.WindSpeed != nil {
		ws := *w.WindSpeed
		out.WindSpeed = &ws
	}
	return out
}

// Float returns a pointer to v, handy for building optional measurements.
func Float(v float64) *float64 {
	return &v
}
