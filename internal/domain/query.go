package domain

// QueryState is the live session state of one lookup form.
//
// ErrorMessage is empty when absent; every failure produces a non-empty
// message, so the empty string never carries meaning.
type QueryState struct {
	InputText    string
	Result       *WeatherResult
	Pending      bool
	ErrorMessage string
}

// HasResult reports whether a weather result is available for display.
func (s QueryState) HasResult() bool {
	return s.Result != nil
}

// HasError reports whether the last submission failed.
func (s QueryState) HasError() bool {
	return s.ErrorMessage != ""
}

// Clone returns a copy that does not alias the result held by s.
func (s QueryState) Clone() QueryState {
	out := s
	if s.Result != nil {
		r := s.Result.Clone()
		out.Result = &r
	}
	return out
}

// Outcome is the transient result of a single submission. Err is nil on
// success; otherwise it is a *LookupError.
type Outcome struct {
	Result WeatherResult
	Err    error
}

// Succeeded reports whether the outcome carries a result.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Apply folds the outcome into state. Pending is left untouched; the caller
// owns that flag.
func (o Outcome) Apply(state *QueryState) {
	if o.Err == nil {
		r := o.Result.Clone()
		state.Result = &r
		state.ErrorMessage = ""
		return
	}
	state.Result = nil
	state.ErrorMessage = MessageFor(o.Err)
}
